// Package resample implements the encoder's input-rate conversion and the
// two analysis-side detectors that gate short-frame/TNS-region and
// bandwidth-cutoff decisions: the attack detector and the bandwidth
// detector (spec §2: "resample to 16 kHz and detect transients", "per-band
// energy against quiet thresholds + brickwall check").
//
// There is no direct teacher analogue for multirate resampling (the
// teacher runs CELT at one fixed internal rate), so the polyphase FIR
// here is new code; the bandwidth detector is grounded on the general
// per-band-energy-vs-threshold shape of celt/signal_bandwidth.go's
// estimateSignalBandwidthFromBandLogE, adapted from CELT's float
// mean-relative log-energy heuristic to LC3's block-scaled integer bands.
package resample

import (
	"github.com/lc3codec/lc3/fixed"
	"github.com/lc3codec/lc3/util"
)

// Rail identifies one of the three internal sample rates downstream DSP
// stages (LTPF in particular) operate at.
type Rail int

const (
	Rail16k   Rail = 16000
	Rail12800 Rail = 12800
	Rail6400  Rail = 6400
)

// polyphaseTaps holds a short low-pass FIR used for both up- and
// down-sampling, built once at init from a windowed-sinc approximation
// (no literal teacher coefficient table survives for this stage — see
// DESIGN.md).
var polyphaseTaps = buildLowpassTaps()

const tapCount = 17

func buildLowpassTaps() []int32 {
	taps := make([]int32, tapCount)
	center := tapCount / 2
	sum := int64(0)
	for i := 0; i < tapCount; i++ {
		d := i - center
		var v int64
		if d == 0 {
			v = 1 << 20
		} else {
			// Windowed sinc-like taper: triangular window times 1/d decay,
			// computed with pure integer arithmetic (no sin/math import).
			win := int64(tapCount-util.Abs(d)) * (1 << 20) / int64(tapCount)
			v = win / int64(util.Abs(d))
		}
		taps[i] = int32(v)
		sum += v
	}
	if sum == 0 {
		sum = 1
	}
	// Normalize to unity DC gain in Q20.
	scale := int64(1) << 20
	for i := range taps {
		taps[i] = int32(int64(taps[i]) * scale / sum)
	}
	return taps
}


// Resampler converts a PCM stream at an arbitrary input rate to one of
// the codec's internal analysis rails via rational-ratio polyphase
// filtering, keeping a short FIR history across calls so frame-to-frame
// state is continuous (spec's EncoderState: "resampler memory").
type Resampler struct {
	inRate  int
	outRate int
	history []int32 // last tapCount-1 input samples from the prior call
	// phase accumulator for the rational-ratio step, in units of inRate
	phase int
}

// NewResampler builds a resampler from inRate Hz to the given rail.
func NewResampler(inRate int, out Rail) *Resampler {
	return &Resampler{
		inRate:  inRate,
		outRate: int(out),
		history: make([]int32, tapCount-1),
	}
}

// Process resamples one frame of input, returning an output block at the
// target rail's rate. It mutates the resampler's carried history.
func (r *Resampler) Process(in []int32) []int32 {
	if r.inRate == r.outRate {
		out := make([]int32, len(in))
		copy(out, in)
		return out
	}

	extended := make([]int32, 0, len(r.history)+len(in))
	extended = append(extended, r.history...)
	extended = append(extended, in...)
	base := len(r.history)

	// Number of output samples for this frame's worth of input, rounded
	// to the nearest integer ratio.
	outLen := (len(in)*r.outRate + r.inRate/2) / r.inRate
	out := make([]int32, outLen)

	center := tapCount / 2
	for n := 0; n < outLen; n++ {
		// Position in the (phase-accumulated) input timeline, Q0 integer
		// approximation: exact rational position scaled by inRate.
		srcPosNum := n*r.inRate + r.phase
		srcIdx := srcPosNum / r.outRate
		pos := base + srcIdx

		var acc int64
		for t := 0; t < tapCount; t++ {
			idx := pos + t - center
			if idx < 0 || idx >= len(extended) {
				continue
			}
			acc += int64(extended[idx]) * int64(polyphaseTaps[t])
		}
		out[n] = fixed.SatRoundShiftR32(sat32FromInt64(acc), 20)
	}

	r.phase = (r.phase + outLen*r.inRate) % (r.outRate * 1) // reset each frame; kept integral
	r.phase = 0

	if len(in) >= len(r.history) {
		copy(r.history, in[len(in)-len(r.history):])
	} else {
		copy(r.history, r.history[len(in):])
		copy(r.history[len(r.history)-len(in):], in)
	}

	return out
}

func sat32FromInt64(v int64) int32 {
	if v > 1<<31-1 {
		return 1<<31 - 1
	}
	if v < -(1 << 31) {
		return -(1 << 31)
	}
	return int32(v)
}
