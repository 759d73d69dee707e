package quant

import "github.com/lc3codec/lc3/util"

// Mode selects the spectrum coder's truncation/LSB behavior (spec §4.6:
// "The coder has three modes").
type Mode int

const (
	// ModeCount does a straight bit count with no truncation.
	ModeCount Mode = -1
	// ModeTruncate tracks lastnz2, the last 2-tuple index whose cumulative
	// bits still fit the budget, permitting tail truncation.
	ModeTruncate Mode = 0
	// ModeLSB additionally splits coefficients >= AThres into MSBs (coded
	// through the context coder) and LSBs (a side bitstream).
	ModeLSB Mode = 1
)

// AThres is the magnitude at or above which, in ModeLSB, a coefficient's least
// significant bit is split off into the side (residual) stream instead of
// being counted against the context-coder bit budget.
const AThres = 4

// numContexts is the size of the 4-bit context space (spec: "maintain a
// 4-bit context c").
const numContexts = 16

// Result is the output of QuantizeSpectrum: the quantized magnitude/sign
// vector plus the side information the bitstream packer and the residual
// coder need.
type Result struct {
	Y          []int32 // quantized coefficients, signed
	LastnzOut  int     // last 2-tuple boundary actually transmitted (even index)
	LSBMode    bool
	NBits      int // accumulated bit cost of the transmitted prefix
	EscapeBits int // bits spent on escape-layer coding, included in NBits
}

// bitCostTable[c] is the synthetic per-symbol bit cost (in 1/16-bit units,
// matching the teacher's fractional-bit accounting idiom in
// celt/bands_encode.go's ec_ctx bit counters) used to estimate the
// arithmetic coder's output size for a 2-tuple coded under context c. The
// real LC3 context table is configuration/rate data (spec §1: "out of
// scope... configuration/rate tables"); this table is self-consistent
// synthetic data that preserves the shape the spec requires (cost grows
// with magnitude and with an "active" context), not a transcription of a
// literal external constant.
var bitCostTable [numContexts][17]int

func init() {
	for c := 0; c < numContexts; c++ {
		for mag := 0; mag <= 16; mag++ {
			base := 8 + c*2 // contexts that saw recent activity cost a bit more
			bitCostTable[c][mag] = (base + mag*mag*3) * 16
		}
	}
}

const escapeBitCost = 3 * 16 // flat per-escape-layer cost, in 1/16-bit units

// pairMagnitude returns a cost-table index for the combined magnitude of a
// 2-tuple, clamped to the table's escape threshold; any magnitude above the
// threshold is reported via the escape-layer count instead.
func pairMagnitude(a, b int32) (idx int, escapes int) {
	m := util.Max(util.Abs(a), util.Abs(b))
	for m > 16 {
		m >>= 1
		escapes++
	}
	return int(m), escapes
}

// nextContext folds the previous context forward (spec: "4-bit context ...
// from previous pair activity + high-/low-half flag").
func nextContext(prev int, a, b int32, upperHalf bool) int {
	activity := 0
	if a != 0 {
		activity++
	}
	if b != 0 {
		activity++
	}
	c := (prev << 1) & 0xf
	c |= activity & 1
	if upperHalf {
		c ^= 0x8
	}
	return c & 0xf
}

// QuantizeSpectrum iterates y (already-dequantized-scale integer spectral
// coefficients, e.g. produced by scaling the MDCT spectrum by the global
// gain) in 2-tuples, estimating arithmetic-coder bit cost per spec §4.6,
// and applies the mode-dependent truncation/LSB-split behavior. y is
// modified in place: coefficients at or beyond the transmitted boundary
// are zeroed.
func QuantizeSpectrum(y []int32, mode Mode, bitBudget int) Result {
	n := len(y)
	ctx := 0
	bits := 0
	escBits := 0
	lastnz2 := 0
	lsbMode := mode == ModeLSB

	for i := 0; i+1 < n; i += 2 {
		upperHalf := i >= n/2
		a, b := y[i], y[i+1]
		magIdx, escapes := pairMagnitude(a, b)

		cost := bitCostTable[ctx][magIdx] + escapes*escapeBitCost

		if lsbMode {
			if util.Abs(a) >= AThres {
				cost -= 1 * 16 // the coefficient's LSB moves to the side stream
			}
			if util.Abs(b) >= AThres {
				cost -= 1 * 16
			}
		}

		if mode != ModeCount && bits+cost > bitBudget {
			break
		}

		bits += cost
		escBits += escapes * escapeBitCost
		if a != 0 || b != 0 {
			lastnz2 = i + 2
		}
		ctx = nextContext(ctx, a, b, upperHalf)
	}

	if mode == ModeCount {
		lastnz2 = n - n%2
	}

	for i := lastnz2; i < n; i++ {
		y[i] = 0
	}

	return Result{
		Y:          y,
		LastnzOut:  lastnz2,
		LSBMode:    lsbMode,
		NBits:      bits,
		EscapeBits: escBits,
	}
}
