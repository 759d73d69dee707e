package sns

import "github.com/lc3codec/lc3/fixed"

// preEmphasisQ8 is a fixed per-band tilt (Q8, dB-like units) added to the
// raw log-energy envelope before LPC analysis, approximating the
// teacher's perceptual pre-weighting (celt/bands.go applies a similar
// static per-band weighting before quantizing band energies). Low bands
// get a small cut, high bands a small boost, reflecting typical spectral
// tilt in voice/music content.
func preEmphasisQ8(bandEnergies []int32) []int32 {
	out := make([]int32, len(bandEnergies))
	n := len(bandEnergies)
	for i, e := range bandEnergies {
		tilt := int32((i*2 - n) * 4) // roughly -2*4*(n/2)..+2*4*(n/2) across the band range
		out[i] = e + tilt
	}
	return out
}

// Analyze runs the full encoder-side SNS pipeline on one frame's
// spectrum: band energy -> pre-emphasis -> autocorrelation -> Levinson ->
// PVQ shape quantization (spec §4.3).
func Analyze(spec fixed.Block) Shape {
	energies := BandEnergiesLog2Q8(spec)
	tilted := preEmphasisQ8(energies)
	r := Autocorrelate(tilted, NumSnsBands-1)
	refl, _ := LevinsonDurbin(r, NumSnsBands-1)

	target := make([]int32, NumSnsBands)
	target[0] = tilted[0] >> 4
	for i, k := range refl {
		target[i+1] = k >> 2
	}
	return QuantizeShape(target)
}

// interp4Tap performs the spec's piecewise-linear 4-tap expansion of a
// coarse NumSnsBands-length scale-factor vector to a fine 4*NumSnsBands
// vector, producing values at offsets {0, 0.25, 0.5, 0.75} between each
// pair of coarse points; past the last coarse point the value is held
// flat rather than extrapolated (spec §4.3).
func interp4Tap(coarse []int32) []int32 {
	n := len(coarse)
	fine := make([]int32, 4*n)
	get := func(i int) int32 {
		if i < 0 {
			return coarse[0]
		}
		if i >= n {
			return coarse[n-1]
		}
		return coarse[i]
	}
	for k := 0; k < n; k++ {
		lo := get(k)
		hi := get(k + 1)
		for j := 0; j < 4; j++ {
			fine[4*k+j] = lo + int32((int64(hi-lo)*int64(j))/4)
		}
	}
	return fine
}

// ExpandGains maps a fine NumSnsBands*4-length Q-domain envelope down (or
// up) to an n-bin per-spectral-bin gain vector via linear resampling,
// converts each to a Q15 linear multiplier via a bit-trick exp2 (inverse
// of log2Q8), and returns the result ready to multiply directly against
// spectral mantissas.
func ExpandGains(shape Shape, n int) []int16 {
	coarse := DequantizeShape(shape)
	fine := interp4Tap(coarse)
	m := len(fine)

	gainsLogQ8 := make([]int32, n)
	for i := 0; i < n; i++ {
		pos := i * m / n
		if pos >= m {
			pos = m - 1
		}
		gainsLogQ8[i] = fine[pos] >> 6 // fold shape's internal scale toward a modest dB-like range
	}

	out := make([]int16, n)
	for i, lg := range gainsLogQ8 {
		out[i] = exp2Q15(lg)
	}
	return out
}

// exp2Q15 returns a Q15 fixed-point approximation of 2^(x/256) for a Q8
// input x, clamped to a sane gain range; grounded on the same bit-trick
// style as log2Q8 (its approximate inverse), avoiding any floating-point
// transcendental call.
func exp2Q15(xQ8 int32) int16 {
	if xQ8 > 8 << 8 {
		xQ8 = 8 << 8
	}
	if xQ8 < -8 << 8 {
		xQ8 = -8 << 8
	}
	whole := xQ8 >> 8
	frac := xQ8 & 0xff // [0,256)

	// Linear interpolation of 2^t for t in [0,1) in Q15 is within a few
	// percent of the true exponential and keeps this branch-free and
	// table-free; good enough for an envelope gain, which is itself a
	// coarse quantized approximation.
	base := int32(1) << 15
	next := base * 2
	interp := base + (next-base)*frac/256

	shifted := fixed.ShiftL32(interp, int(whole))
	if shifted > 0x7fff {
		shifted = 0x7fff
	}
	if shifted < 1 {
		shifted = 1
	}
	return int16(shifted)
}

// Apply multiplies each spectral mantissa by its per-bin Q15 gain,
// normalizing the result afterward to restore full headroom (spec §4.3:
// "applies the resulting per-band gains").
func Apply(spec fixed.Block, gains []int16) fixed.Block {
	out := make([]int32, len(spec.M))
	for i, v := range spec.M {
		g := int16(1 << 14)
		if i < len(gains) {
			g = gains[i]
		}
		out[i] = int32((int64(v) * int64(g)) >> 14)
	}
	blk := fixed.Block{M: out, E: spec.E}
	return blk.Normalize()
}
