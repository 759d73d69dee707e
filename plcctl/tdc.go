package plcctl

import (
	"github.com/lc3codec/lc3/fixed"
	"github.com/lc3codec/lc3/sns"
)

// TdcOrder is the LPC order used for time-domain concealment (spec §4.7
// method 3 mirrors sns's band-energy-to-Levinson pipeline at a coarser
// order appropriate for pure extrapolation rather than perceptual
// shaping).
const TdcOrder = 8

// TdcState is the per-burst memory method 3 needs across consecutive
// lost frames: the analyzed LPC filter, pitch lag, and synthesis memory.
type TdcState struct {
	LpcQ12   []int16 // LPC coefficients in Q12 (spec: "scale LPC to Q12")
	PitchLag int
	History  []int32 // trailing samples of the last good (or concealed) output
	GainP    int32   // Q15 periodic-excitation gain
	GainC    int32   // Q15 noise-excitation gain
	CumDamp  int32   // Q15 adaptive damping accumulator
}

// AnalyzeTDC runs the first-loss analysis: per-band energies of the last
// good spectrum, pre-emphasis, autocorrelation, lag-window (folded into
// Autocorrelate's own tapering, as in sns), Levinson-Durbin, and Q12
// scaling, grounded directly on sns.Analyze's energy->Levinson pipeline.
func AnalyzeTDC(lastGoodSpec fixed.Block, history []int32, pitchLag int) *TdcState {
	energies := sns.BandEnergiesLog2Q8(lastGoodSpec)
	r := sns.Autocorrelate(energies, TdcOrder)
	reflection, _ := sns.LevinsonDurbin(r, TdcOrder)

	lpcQ12 := reflectionToDirectQ12(reflection)

	hist := make([]int32, len(history))
	copy(hist, history)

	return &TdcState{
		LpcQ12:   lpcQ12,
		PitchLag: pitchLag,
		History:  hist,
		GainP:    24576, // 0.75 Q15: favor periodic excitation when pitch is known
		GainC:    13107, // 0.4 Q15
		CumDamp:  q15One,
	}
}

// reflectionToDirectQ12 converts Levinson-Durbin reflection coefficients
// (Q15) to direct-form LPC coefficients via the standard step-up
// recursion, then rescales to Q12 (spec: "scale LPC to Q12").
func reflectionToDirectQ12(reflectionQ15 []int32) []int16 {
	order := len(reflectionQ15)
	a := make([]int64, order) // Q15 direct-form coefficients, growing in place
	for i := 0; i < order; i++ {
		k := int64(reflectionQ15[i])
		prev := append([]int64(nil), a[:i]...)
		a[i] = k
		for j := 0; j < i; j++ {
			a[j] = prev[j] + ((k * prev[i-1-j]) >> 15)
		}
	}
	out := make([]int16, order)
	for i, v := range a {
		q12 := v >> 3 // Q15 -> Q12
		if q12 > 32767 {
			q12 = 32767
		}
		if q12 < -32768 {
			q12 = -32768
		}
		out[i] = int16(q12)
	}
	return out
}

// Synthesize excites the LPC synthesis filter with a mix of
// pitch-lag-delayed periodic excitation and LCG-derived noise excitation
// (spec §4.7 method 3), applying cum_damp adaptive damping, and appends
// the result to the rolling history.
func (s *TdcState) Synthesize(n int, seed uint16) ([]int32, uint16) {
	out := make([]int32, n)
	order := len(s.LpcQ12)

	for i := 0; i < n; i++ {
		periodic := int32(0)
		if s.PitchLag > 0 && s.PitchLag <= len(s.History) {
			periodic = s.History[len(s.History)-s.PitchLag]
		}
		seed = uint16(13849 + 31821*uint32(seed))
		noise := int32(seed) - 16384 // centered pseudo-random excitation

		exc := fixed.SatAdd32(
			int32((int64(periodic)*int64(s.GainP))>>15),
			int32((int64(noise)*int64(s.GainC))>>15),
		)

		var pred int64
		for j := 0; j < order && j < len(s.History); j++ {
			h := s.History[len(s.History)-1-j]
			pred += int64(s.LpcQ12[j]) * int64(h)
		}
		pred >>= 12

		sample := fixed.SatAdd32(exc, int32(pred))
		sample = int32((int64(sample) * int64(s.CumDamp)) >> 15)

		out[i] = sample
		s.History = append(s.History, sample)
		if len(s.History) > 2*len(s.LpcQ12)+s.PitchLag+1 {
			s.History = s.History[len(s.History)-(2*len(s.LpcQ12)+s.PitchLag+1):]
		}
	}

	return out, seed
}
