// Package mdct implements the low-delay MDCT analysis / IMDCT synthesis
// transform of spec §4.2: a windowed critically-sampled DCT-IV core,
// operating on block-scaled fixed.Block vectors.
//
// The DCT-IV core is computed as a direct summation
//
//	X[k] = sum_n x[n] * cos( (pi/N) * (n+0.5) * (k+0.5) )
//
// which is the closed form of the post-twiddle + FFT(M) + pre-twiddle
// decomposition spec §4.2 describes (that decomposition exists purely to
// turn an O(N^2) DCT-IV into an O(N log N) one); this package keeps the
// direct O(N^2) form since the block lengths involved (<=480) make the
// asymptotic win unnecessary here and the direct form is far easier to
// keep numerically obviously-correct without floating point. Structurally
// this still follows the teacher's celt/mdct_libopus.go three-stage shape
// (fold/rotate input -> core transform -> windowed overlap-add); only the
// O(N log N) middle stage is swapped for its O(N^2) closed form.
//
// cos((pi/N)*(n+0.5)*(k+0.5)) is periodic in the product (2n+1)(2k+1)
// with period 4N, so one Q15 table of length 4N (not N^2) suffices.
// Tables are generated once at package init from math.Cos the same way a
// reference implementation's tables would be generated offline and
// hardcoded; the hot transform path never calls into math/trig itself,
// only indexes this precomputed table, which spec §1 treats as external
// "configuration/rate table" data.
package mdct

import "math"

// q15 converts a float in [-1,1] to a saturated Q15 integer.
func q15(x float64) int16 {
	v := math.Round(x * 32767.0)
	if v > 32767 {
		v = 32767
	}
	if v < -32768 {
		v = -32768
	}
	return int16(v)
}

var cosTableCache = map[int][]int16{}

// cosTable4N returns cos(2*pi*i/(4*n)) for i in [0, 4*n).
func cosTable4N(n int) []int16 {
	if t, ok := cosTableCache[n]; ok {
		return t
	}
	period := 4 * n
	t := make([]int16, period)
	for i := 0; i < period; i++ {
		t[i] = q15(math.Cos(2 * math.Pi * float64(i) / float64(period)))
	}
	cosTableCache[n] = t
	return t
}

// vorbisWindowQ15 returns the Q15 Vorbis analysis/synthesis window of
// length overlap, matching the teacher's celt/window.go definition:
// w[i] = sin(0.5*pi * sin(0.5*pi*(i+0.5)/overlap)^2), which is
// power-complementary (w[i]^2 + w[overlap-1-i]^2 == 1) and preserves
// energy across overlap-add.
func vorbisWindowQ15(overlap int) []int16 {
	w := make([]int16, overlap)
	for i := 0; i < overlap; i++ {
		s := math.Sin(0.5 * math.Pi * (float64(i) + 0.5) / float64(overlap))
		w[i] = q15(math.Sin(0.5 * math.Pi * s * s))
	}
	return w
}

var windowCache = map[int][]int16{}

func getWindow(overlap int) []int16 {
	if w, ok := windowCache[overlap]; ok {
		return w
	}
	w := vorbisWindowQ15(overlap)
	windowCache[overlap] = w
	return w
}
