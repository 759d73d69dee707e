// Package quant implements spec §4.6: global gain selection, spectrum
// quantization with a context-adaptive bit-cost model and three coder
// modes, residual sign-refinement bits, and noise filling of zero runs.
//
// Grounded structurally on the teacher's celt/bands_quant.go /
// celt/bands_encode.go bit-budget-driven iteration idiom (accumulate a
// cost estimate per unit of spectrum, stop or truncate against a target
// bit count) and celt/alloc.go's "how many bits does this cost" table
// lookup pattern, generalized from CELT's per-band PVQ allocation to
// LC3's per-2-tuple context-coded magnitude scheme.
package quant

// GlobalGain reconstructs the linear (mantissa, exponent) gain for a
// 7-bit gain index (spec §4.6: "the reconstructed linear gain is
// InvLog2(idx*k)"). k is the log-domain step per index (Q8 units per
// step, matching the Q8 scale sns/tns already use for log-domain
// values), letting callers tune gain resolution without a literal
// external table.
func GlobalGain(idx int, kQ8 int32) (mantissa int32, exp int) {
	logQ8 := int32(idx) * kQ8
	return invLog2Q8(logQ8)
}

// invLog2Q8 converts a Q8 log2 value into a normalized (mantissa,
// exponent) pair with mantissa in [2^30, 2^31) — i.e. a Q31-normalized
// fixed-point representation of 2^(logQ8/256) — via the integer/fraction
// split plus linear-interpolation technique sns's exp2Q15 uses, widened
// to Q31 precision since a global gain directly scales the spectrum and
// deserves more mantissa bits than a per-bin envelope multiplier.
func invLog2Q8(logQ8 int32) (int32, int) {
	whole := logQ8 >> 8
	frac := logQ8 & 0xff // [0,256)

	base := int64(1) << 31
	next := base * 2
	interp := base + (next-base)*int64(frac)/256

	return int32(interp >> 1), int(whole) + 1
}
