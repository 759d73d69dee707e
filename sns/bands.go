// Package sns implements the Spectral Noise Shaper of spec §4.3: per-band
// log-energy envelope estimation, LPC-style envelope smoothing, PVQ shape
// quantization, and 4-tap interpolation back out to per-bin gains applied
// to (or removed from) the MDCT spectrum.
//
// Grounded structurally on the teacher's celt/bands.go /
// celt/quant_bands.go energy-then-quantize shape (computeBandEnergies,
// bandLogP style), generalized from CELT's 21-band, per-channel layout to
// LC3's fixed 16-band envelope used regardless of channel count.
package sns

import "github.com/lc3codec/lc3/fixed"

// NumSnsBands is the number of coarse envelope bands SNS always analyzes
// and quantizes in, independent of N (spec §4.3: "16 quantized scale
// factors").
const NumSnsBands = 16

// bandBoundsCache memoizes the per-N band boundary table.
var bandBoundsCache = map[int][]int{}

// BandBounds returns NumSnsBands+1 increasing bin indices partitioning
// [0,n) into NumSnsBands roughly-log-spaced bands, the shape the spec's
// rate-dependent band tables take (finer resolution at low frequency).
func BandBounds(n int) []int {
	if b, ok := bandBoundsCache[n]; ok {
		return b
	}
	bounds := make([]int, NumSnsBands+1)
	// Geometric-ish spacing: band widths grow roughly linearly so low bands
	// are narrow (fine spectral detail) and high bands are wide.
	totalWeight := NumSnsBands * (NumSnsBands + 1) / 2
	acc := 0
	for i := 0; i < NumSnsBands; i++ {
		bounds[i] = acc
		w := (i + 1) * n / totalWeight
		if w < 1 {
			w = 1
		}
		acc += w
	}
	bounds[NumSnsBands] = n
	if bounds[NumSnsBands] < bounds[NumSnsBands-1] {
		bounds[NumSnsBands] = bounds[NumSnsBands-1]
	}
	bandBoundsCache[n] = bounds
	return bounds
}

// log2Q8 returns a Q8 fixed-point approximation of log2(x) for x > 0,
// using the position of the top bit plus a linear fit of the remaining
// mantissa bits, in the spirit of celt/math_utils.go's bit-trick log/exp
// helpers (no floating point, no table of transcendental constants).
func log2Q8(x uint64) int32 {
	if x == 0 {
		return -32 << 8
	}
	top := 63
	for (x>>uint(top))&1 == 0 {
		top--
	}
	frac := x &^ (uint64(1) << uint(top))
	var fracQ8 int32
	if top > 0 {
		shift := top - 8
		if shift >= 0 {
			fracQ8 = int32(frac >> uint(shift))
		} else {
			fracQ8 = int32(frac << uint(-shift))
		}
	}
	return int32(top)<<8 + fracQ8
}

// BandEnergiesLog2Q8 computes, for each of NumSnsBands bands, the Q8
// log2 energy (sum of mantissa^2, as a single scalar folded with the
// block's shared exponent) of the spectral bins in that band (spec
// §4.3: "compute band energies").
func BandEnergiesLog2Q8(spec fixed.Block) []int32 {
	n := len(spec.M)
	bounds := BandBounds(n)
	out := make([]int32, NumSnsBands)
	// Downshift each magnitude before squaring so width-many Q31 squares
	// can never overflow a uint64 accumulator (480 * (2^31>>preShift)^2 must
	// stay well under 2^64); the shift is added back into the log2 result.
	const preShift = 8
	for b := 0; b < NumSnsBands; b++ {
		lo, hi := bounds[b], bounds[b+1]
		var sum uint64
		for i := lo; i < hi; i++ {
			v := spec.M[i]
			if v < 0 {
				v = -v
			}
			sv := uint64(v) >> preShift
			sum += sv * sv
		}
		width := hi - lo
		if width <= 0 || sum == 0 {
			out[b] = -32 << 8
			continue
		}
		meanSq := sum / uint64(width)
		if meanSq == 0 {
			out[b] = -32 << 8
			continue
		}
		out[b] = log2Q8(meanSq) + int32(2*preShift)<<8 + int32(2*(spec.E-31))<<8
	}
	return out
}
