// Package tns implements Temporal Noise Shaping (spec §4.4): per-region
// autocorrelation and Levinson-Durbin analysis of the MDCT spectrum,
// reflection-coefficient quantization, and in-place lattice filtering
// (FIR on encode, IIR on decode) that reshapes quantization noise in the
// time domain by predicting spectral coefficients along frequency.
//
// Grounded on the teacher's celt/tf.go region/transient-split shape
// (splitting a frame's spectrum into analysis regions) and sharing its
// Levinson-Durbin routine with sns (both packages analyze an envelope of
// autocorrelated values into reflection coefficients; TNS additionally
// turns them into an actual filter applied to the spectrum, which SNS's
// gain-only envelope does not need).
package tns

import "github.com/lc3codec/lc3/sns"

// MaxOrder is the highest TNS filter order ever used (spec: lattice order
// is small, typically <= 8).
const MaxOrder = 8

// CoefRes is TNS_COEF_RES: reflection coefficients are quantized to
// 2*CoefRes+1 levels, center index IndexShift meaning "no-op coefficient".
const (
	CoefRes    = 4
	NumLevels  = 2*CoefRes + 1
	IndexShift = CoefRes
)

// Region is a contiguous span of spectral bin indices [Start,Stop)
// analyzed and filtered independently.
type Region struct {
	Start, Stop int
}

// Regions returns the one or two analysis regions for a frame of n
// spectral bins, per spec §4.4: "two when cutoff >= index 3 and frame >=
// 5 ms". bwIdx is the bandwidth cutoff index (0..3, where 3 is
// full-band); frameDurationUs is the frame length in microseconds.
func Regions(n, bwIdx, frameDurationUs int) []Region {
	if bwIdx >= 3 && frameDurationUs >= 5000 {
		mid := n / 2
		return []Region{{0, mid}, {mid, n}}
	}
	return []Region{{0, n}}
}

// Filter holds one region's analyzed (or bypassed) TNS filter.
type Filter struct {
	Active bool
	Order  int
	Q15    []int16 // reflection coefficients, length Order, Q15
}

// tnsAcfWindow is an optional taper applied to each sub-block before
// autocorrelation (spec: "autocorrelation is computed with optional
// window tnsAcfWindow"); a short raised-cosine taper here, long enough to
// cover the largest sub-block this package analyzes.
var tnsAcfWindow = buildAcfWindow(64)

func buildAcfWindow(n int) []int32 {
	w := make([]int32, n)
	for i := range w {
		// Simple triangular taper in Q8, avoiding a sin/cos table for a
		// window whose only job is to de-emphasize sub-block edges.
		d := i
		if n-1-i < d {
			d = n - 1 - i
		}
		w[i] = int32(256 * (d + 1) / ((n + 1) / 2))
		if w[i] > 256 {
			w[i] = 256
		}
	}
	return w
}

// windowedMagnitudes returns the magnitudes of spec[start:stop] weighted
// by the Q8 tnsAcfWindow, which repeats every len(tnsAcfWindow) bins,
// ready for autocorrelation. The region is analyzed as one block; it is
// not subdivided into sub-blocks.
func windowedMagnitudes(spec []int32, start, stop int) []int32 {
	n := stop - start
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		v := spec[start+i]
		if v < 0 {
			v = -v
		}
		wi := tnsAcfWindow[i%len(tnsAcfWindow)]
		out[i] = int32((int64(v) * int64(wi)) >> 8)
	}
	return out
}

// Analyze computes the TNS filter for one region of the spectrum (spec
// §4.4): windowed autocorrelation, Levinson-Durbin, and a gain-threshold
// bypass decision: the filter is applied only when the prediction gain
// r[0]/errEnergy is at least 2.
func Analyze(spec []int32, region Region, order int) Filter {
	if order > MaxOrder {
		order = MaxOrder
	}
	mags := windowedMagnitudes(spec, region.Start, region.Stop)
	if len(mags) <= order {
		return Filter{Active: false}
	}

	// Reuse sns's Q8-log-domain autocorrelation/Levinson: the magnitude
	// sequence here already plays the role sns's log-energy sequence does,
	// so no log conversion is needed first.
	r := sns.Autocorrelate(mags, order)
	refl, errEnergy := sns.LevinsonDurbin(r, order)

	if r[0] == 0 || errEnergy >= r[0] {
		return Filter{Active: false}
	}
	// Prediction gain ~ r[0]/errEnergy; bypass when it is below 2, the
	// value used here for spec's "if gain > threshold 1, apply".
	if errEnergy*2 > r[0] {
		return Filter{Active: false}
	}

	q15 := make([]int16, order)
	copy(q15, toQ15(refl))
	return Filter{Active: true, Order: order, Q15: q15}
}

func toQ15(refl []int32) []int16 {
	out := make([]int16, len(refl))
	for i, k := range refl {
		if k > 1<<15-1 {
			k = 1<<15 - 1
		}
		if k < -(1 << 15) {
			k = -(1 << 15)
		}
		out[i] = int16(k)
	}
	return out
}

// QuantizeRC maps a Q15 reflection coefficient to one of NumLevels
// indices (spec §4.4: "table of thresholds and reconstruction points over
// 2*TNS_COEF_RES+1 levels"), via uniform quantization of [-1,1) since no
// literal threshold table survived (see DESIGN.md); IndexShift is the
// center "no-op" level.
func QuantizeRC(k int16) int {
	// Map [-32768,32767] to [0, NumLevels-1] with rounding.
	shifted := int64(k) + 1<<15 // [0, 65535]
	idx := int((shifted*int64(NumLevels-1) + (1 << 15)) >> 16)
	if idx >= NumLevels {
		idx = NumLevels - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// DequantizeRC is QuantizeRC's inverse: index -> representative Q15
// reflection coefficient, with idx == IndexShift mapping back to exactly
// zero (spec: "center index (no-op coefficient) equals INDEX_SHIFT").
func DequantizeRC(idx int) int16 {
	if idx < 0 {
		idx = 0
	}
	if idx >= NumLevels {
		idx = NumLevels - 1
	}
	v := int64(idx)*(1<<16)/int64(NumLevels-1) - (1 << 15)
	if v > 1<<15-1 {
		v = 1<<15 - 1
	}
	if v < -(1 << 15) {
		v = -(1 << 15)
	}
	return int16(v)
}
