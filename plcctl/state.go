// Package plcctl implements the packet-loss concealment controller (spec
// §4.7): a classifier that can upgrade a partially-corrupted frame to a
// full loss, a method chooser among {muted, phase-ECU, time-domain LPC,
// noise-substitution}, the shared damping/scrambling scheme the methods
// draw on, and the persistent PlcState each decoded frame advances.
//
// Grounded on plc/plc.go's State shape (consecutive-loss counter, decaying
// fade factor, Reset/RecordLoss idiom) generalized from Opus's single
// float fade factor to LC3's richer per-method state (separate loss
// counters, slow/fast cumulative fading, phase-ECU spectrum store, TDC
// LPC/pitch memory), and on plc/celt_plc.go's energy-decay concealment
// shape for the noise-substitution and TDC methods.
package plcctl

// Method identifies which concealment strategy is active for the current
// loss burst (spec §4.7: "Classifier picks a method").
type Method int

const (
	MethodMuted Method = iota
	MethodPhaseECU
	MethodTDC
	MethodNoiseSubstitution
)

// Method indices follow the spec's enumeration directly: 0 muted,
// 2 phase-ECU, 3 TDC, 4 noise-substitution. Index 1 is intentionally
// absent (spec never defines it); Go's iota can't skip a value and stay
// self-documenting, so the mapping is explicit here.
const (
	methodCodeMuted    = 0
	methodCodePhaseECU = 2
	methodCodeTDC       = 3
	methodCodeNoiseSub  = 4
)

func (m Method) Code() int {
	switch m {
	case MethodPhaseECU:
		return methodCodePhaseECU
	case MethodTDC:
		return methodCodeTDC
	case MethodNoiseSubstitution:
		return methodCodeNoiseSub
	default:
		return methodCodeMuted
	}
}

// PlcState is the persistent cross-frame PLC memory (spec §3's
// PlcState row): loss counters, cumulative fading, stability factor,
// previous SCFs, pitch history, phase-ECU spectrum store, and the
// partial-concealment spec-inversion index.
type PlcState struct {
	ConsecutiveLoss    int
	ConsecutiveLossFor [4]int // per-method consecutive-loss counters

	// All fade/stability/mute factors are Q15 fixed-point (0..32768 ==
	// 0.0..1.0), matching the discipline every other package in this
	// codec follows (spec §1 non-goal: "no floating-point path").
	CumFadingSlowQ15 int32
	CumFadingFastQ15 int32
	NsCumAlphaQ15    int32
	StabilityFacQ15  int32

	PrevSCF     []int32
	PrevPrevSCF []int32

	PitchHistory []int

	PhaseECU PhaseECUState

	BetaMuteQ15  int32
	TimeOffsetMs int

	// SpecInvIdx marks the partial-concealment spectrum-inversion boundary
	// (spec §4.7); defaults to a sentinel beyond any real spectrum length
	// so noise-filling's fallback branch stays inert until a genuine
	// partial-concealment classification sets it.
	SpecInvIdx int

	PrevBfi     int
	PrevPrevBfi int

	ActiveMethod Method
	ScrambleSeed uint16
}

// NewState returns a PlcState in the "no loss yet" steady state.
func NewState() *PlcState {
	return &PlcState{
		CumFadingSlowQ15: q15One,
		CumFadingFastQ15: q15One,
		NsCumAlphaQ15:    q15One,
		StabilityFacQ15:  q15One,
		BetaMuteQ15:      q15One,
		ScrambleSeed:     1,
		SpecInvIdx:       1 << 30,
	}
}

// AdvanceGoodFrame is the state update spec §4.7 prescribes for any frame
// that was not a full loss: loss counters reset and ns_cum_alpha returns
// to full scale.
func (s *PlcState) AdvanceGoodFrame(bfi int) {
	s.PrevPrevBfi = s.PrevBfi
	s.PrevBfi = bfi
	if bfi != 1 {
		s.ConsecutiveLoss = 0
		for i := range s.ConsecutiveLossFor {
			s.ConsecutiveLossFor[i] = 0
		}
		s.NsCumAlphaQ15 = q15One
		s.CumFadingSlowQ15 = q15One
		s.CumFadingFastQ15 = q15One
		s.TimeOffsetMs = 0
	}
}

// AdvanceBadFrame is the state update for a fully concealed frame: the
// active method's consecutive-loss counter advances and the shared
// cumulative fading factors compound (spec §4.7 damping & scrambling:
// "cumulative products cum_fading_slow/fast applied each frame").
func (s *PlcState) AdvanceBadFrame(frameDurationMs int) {
	s.PrevPrevBfi = s.PrevBfi
	s.PrevBfi = 1
	s.ConsecutiveLoss++
	s.ConsecutiveLossFor[s.ActiveMethod]++

	alphaSlowQ15, alphaFastQ15 := FadeAlphas(s.StabilityFacQ15, frameDurationMs)
	s.CumFadingSlowQ15 = int32((int64(s.CumFadingSlowQ15) * int64(alphaSlowQ15)) >> 15)
	s.CumFadingFastQ15 = int32((int64(s.CumFadingFastQ15) * int64(alphaFastQ15)) >> 15)
	s.TimeOffsetMs += frameDurationMs
}
