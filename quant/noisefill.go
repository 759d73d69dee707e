package quant

import "github.com/lc3codec/lc3/util"

// NoiseFill implements spec §4.6's noise-filling stage: bins whose
// ±noisefillwidth neighborhood contains no non-zero quantized coefficient
// are replaced with a signed constant derived from facNsIdx, the sign
// drawn from a linear-congruential generator seeded per frame.
//
// specInvIdx marks the partial-concealment spectrum-inversion boundary
// (spec: "Bins above spec_inv_idx ... use the previous frame's noise
// level instead"); prevNoiseLevel supplies that fallback magnitude. Pass
// specInvIdx >= len(y) when there is no partial-concealment boundary for
// this frame.
func NoiseFill(y []int32, noisefillwidth int, facNsIdx int, seed uint16, specInvIdx int, prevNoiseLevel int32) (filled []int32, nextSeed uint16) {
	n := len(y)
	out := make([]int32, n)
	copy(out, y)

	level := noiseLevel(facNsIdx)

	for i := 0; i < n; i++ {
		if !isEmptyNeighborhood(y, i, noisefillwidth) {
			continue
		}
		mag := level
		if i >= specInvIdx {
			mag = prevNoiseLevel
		}
		seed = lcgNext(seed)
		if seed&0x8000 != 0 {
			mag = -mag
		}
		out[i] = mag
	}
	return out, seed
}

// lcgNext advances the noise-fill sign generator (spec: "seed = 13849 +
// 31821*seed").
func lcgNext(seed uint16) uint16 {
	return uint16(13849 + 31821*uint32(seed))
}

// isEmptyNeighborhood reports whether y has no non-zero coefficient within
// width bins of i (inclusive), the condition that marks bin i as a
// noise-fill candidate.
func isEmptyNeighborhood(y []int32, i, width int) bool {
	lo := i - width
	if lo < 0 {
		lo = 0
	}
	hi := i + width
	if hi >= len(y) {
		hi = len(y) - 1
	}
	for j := lo; j <= hi; j++ {
		if y[j] != 0 {
			return false
		}
	}
	return true
}

// noiseLevel maps the quantized noise-fill gain index to a linear
// magnitude. The real rate-table scaling is out of scope data (spec §1);
// this is a monotone synthetic mapping in the same shape.
func noiseLevel(facNsIdx int) int32 {
	if facNsIdx < 0 {
		facNsIdx = 0
	}
	return int32(1 + facNsIdx)
}

// EstimateNoiseFacIdx derives the noise-fill gain index from the scaled
// spectrum the encoder is about to transmit (spec §9 quirk 1: the
// reference's flagged, low-rate-tuned path, which this port always
// takes). For target_bytes <= 20 and a 10 ms frame, the low and high
// spectral halves are estimated separately and the gentler (smaller)
// index is chosen, since a bright high half should not force heavier
// noise-fill onto a quiet low half; otherwise a single whole-spectrum
// mean-magnitude estimate is used.
func EstimateNoiseFacIdx(spec []int32, targetBytes, frameDms int) int {
	if targetBytes <= 20 && frameDms == 100 {
		mid := len(spec) / 2
		lowIdx := meanMagFacIdx(spec[:mid])
		highIdx := meanMagFacIdx(spec[mid:])
		if lowIdx < highIdx {
			return lowIdx
		}
		return highIdx
	}
	return meanMagFacIdx(spec)
}

// meanMagFacIdx maps a spectrum's mean absolute magnitude to a facNsIdx
// in [0,7] via its bit length, a coarse but monotone stand-in for the
// rate-table-driven estimate the reference implementation uses.
func meanMagFacIdx(spec []int32) int {
	if len(spec) == 0 {
		return 0
	}
	var sum int64
	for _, v := range spec {
		sum += int64(util.Abs(v))
	}
	mean := sum / int64(len(spec))
	idx := 0
	for mean > 0 {
		mean >>= 1
		idx++
	}
	if idx > 7 {
		idx = 7
	}
	return idx
}
