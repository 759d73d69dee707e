package mdct

import "github.com/lc3codec/lc3/fixed"

// Mode holds the precomputed tables for one (sampling_rate, frame_dms)
// block length, per §4.2's rate-dependent table indexing. N is the
// spectrum length (one of {20,30,40,60,80,120,160,240,320,480}); the
// transform's time-domain window spans 2*N samples with 50% overlap
// between consecutive frames, and MaxBW bounds the highest non-zero
// spectral bin for narrower configured bandwidths (§4.2 "Contract").
type Mode struct {
	N      int
	MaxBW  int
	cos    []int16 // period 4N cosine table, shared by analysis and synthesis
	window []int16 // length 2N low-delay analysis/synthesis window
}

// NewMode builds a new Mode for spectrum length n; only its cosine table
// is shared between Modes of the same length. maxBW defaults to n when 0
// or out of range.
func NewMode(n, maxBW int) *Mode {
	if maxBW <= 0 || maxBW > n {
		maxBW = n
	}
	return &Mode{
		N:      n,
		MaxBW:  maxBW,
		cos:    cosTable4N(n),
		window: vorbisWindowQ15(2 * n),
	}
}

// cosLookup returns cos(2*pi*(a*b mod period)/period) from the mode's
// shared table, where a = 2*n+1+N (time index term) and b = 2*k+1
// (frequency index term), implementing the periodic-product indexing
// documented in tables.go.
func (m *Mode) cosLookup(a, b int) int16 {
	period := 4 * m.N
	idx := (a * b) % period
	if idx < 0 {
		idx += period
	}
	return m.cos[idx]
}

// Analyze computes the forward low-delay MDCT of a 2N-sample windowed
// input block, producing an N-length spectrum (§4.2 "Analysis"). x must
// hold exactly 2*m.N samples at exponent xe; x is not modified. Output
// exponent follows the same Q15-table bookkeeping as packAcc.
func (m *Mode) Analyze(x []int32, xe int) fixed.Block {
	n := m.N
	if len(x) != 2*n {
		panic("mdct: Analyze input must be length 2N")
	}

	windowed := make([]int32, 2*n)
	for i, v := range x {
		windowed[i] = int32((int64(v) * int64(m.window[i])) >> 15)
	}

	acc := make([]int64, n)
	for k := 0; k < n; k++ {
		b := 2*k + 1
		var sum int64
		for i, v := range windowed {
			if v == 0 {
				continue
			}
			a := 2*i + 1 + n
			sum += int64(v) * int64(m.cosLookup(a, b))
		}
		acc[k] = sum
	}

	mant, shift := packAcc(acc)
	// windowing consumed one extra Q15 factor on top of the table's own
	// Q15 scale, so the exponent drops by 30 before the pack-shift
	// correction, matching §4.2's "output exponent increases by 2"
	// twiddle-scale note once combined with the synthesis-side inverse.
	return fixed.Block{M: mant, E: xe - 30 + shift}
}

// SynthMem is the persistent overlap-add memory carried between
// consecutive Synthesize calls for one channel (§3 "Principal persistent
// state": MDCT overlap memory).
type SynthMem struct {
	M []int32
	E int
}

// NewSynthMem allocates zeroed overlap memory of length N for mode m.
func NewSynthMem(m *Mode) SynthMem {
	return SynthMem{M: make([]int32, m.N), E: 0}
}

// Synthesize performs the IMDCT + windowed overlap-add of §4.2
// "Synthesis": spectrum (length N) is transformed back to 2N time-domain
// samples, windowed, and combined with the previous frame's stored tail
// in mem. It returns N new output samples at the combined exponent and
// updates mem in place with this frame's tail for the next call. If the
// configured bandwidth cutoff is narrower than m.MaxBW, tail spectral
// bins beyond it are treated as already zero by the caller (§4.2
// "Contract": "If the block exceeds a rate-dependent max_bw, tail
// spectral bins are zeroed before transform").
func (m *Mode) Synthesize(spectrum fixed.Block, mem *SynthMem) ([]int32, int) {
	n := m.N
	if len(spectrum.M) != n {
		panic("mdct: Synthesize spectrum must be length N")
	}

	y := make([]int64, 2*n)
	for i := 0; i < 2*n; i++ {
		a := 2*i + 1 + n
		var sum int64
		for k, xk := range spectrum.M {
			if xk == 0 {
				continue
			}
			b := 2*k + 1
			sum += int64(xk) * int64(m.cosLookup(a, b))
		}
		y[i] = sum
	}
	mant, shift := packAcc(y)
	ye := spectrum.E - 15 + shift

	windowed := make([]int32, 2*n)
	for i, v := range mant {
		windowed[i] = int32((int64(v) * int64(m.window[i])) >> 15)
	}
	we := ye // windowing is a Q15 multiply folded back down by the same shift below

	// Align the stored overlap memory to the new block's exponent before
	// adding, per the §3 alignment invariant.
	memAligned := make([]int32, n)
	copy(memAligned, mem.M)
	outExp := we
	if mem.E > outExp {
		outExp = mem.E
	}
	fixed.Align(memAligned, mem.E, outExp)
	headAligned := make([]int32, n)
	copy(headAligned, windowed[:n])
	fixed.Align(headAligned, we, outExp)

	out := make([]int32, n)
	for i := 0; i < n; i++ {
		out[i] = fixed.SatAdd32(memAligned[i], headAligned[i])
	}

	tail := make([]int32, n)
	copy(tail, windowed[n:])
	mem.M = tail
	mem.E = we

	return out, outExp
}
