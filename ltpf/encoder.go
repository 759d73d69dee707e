package ltpf

// Params is the per-frame LTPF decision the encoder emits and the decoder
// consumes (spec §4.5: "Emit {pitch_index, active, gain_scale_idx}").
type Params struct {
	PitchIndex int // combined integer+fractional lag, piecewise-mapped
	Active     bool
	GainIdx    int
}

// corrOffThreshold is the Q15 normalized-correlation floor at or below
// which LTPF is never activated, and together with corrOnThreshold it
// implements the spec's hysteresis ("previous LTPF state ... stability of pitch ...
// correlation history" keep LTPF from chattering on/off frame to frame).
const (
	corrOnThreshold  = int32(19661) // ~0.6 in Q15
	corrOffThreshold = int32(13107) // ~0.4 in Q15
	pitchStableDelta = 4
)

// EncoderState carries the cross-frame memory the hysteretic decision
// needs (spec §3: LTPF encoder persistent state).
type EncoderState struct {
	prevActive bool
	prevPitch  int
	prevCorr   int32
}

// Analyze runs the encoder-side LTPF pipeline on one frame of the 12.8 kHz
// rail signal x (spec §4.5): open-loop pitch search, refinement, a
// normalized-correlation-vs-predicted check, and the hysteretic on/off
// decision.
func (s *EncoderState) Analyze(x []int32, minLag, maxLag int) Params {
	olLag, olCorr := OpenLoopPitch(x, minLag, maxLag)

	active := false
	pitchIndex := 0
	gainIdx := 0
	var corr int32

	if olCorr > corrOffThreshold {
		intLag, frac, refinedCorr := RefinedPitch(x, olLag)
		corr = refinedCorr
		pitchIndex = intLag*FracRes + frac

		stable := s.prevActive && abs(intLag-s.prevPitch) <= pitchStableDelta
		switch {
		case corr > corrOnThreshold:
			active = true
		case corr > corrOffThreshold && (stable || s.prevActive):
			active = true
		default:
			active = false
		}
		if active {
			gainIdx = gainIndexFromCorr(corr)
		}
	}

	s.prevActive = active
	if active {
		s.prevPitch = pitchIndex / FracRes
	}
	s.prevCorr = corr

	return Params{PitchIndex: pitchIndex, Active: active, GainIdx: gainIdx}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// gainIndexFromCorr maps a Q15 normalized correlation to one of
// NumGainLevels discrete synthesis-filter gains (spec: "gain_scale_idx"),
// higher correlation earning a stronger (higher-index) gain.
func gainIndexFromCorr(corr int32) int {
	idx := int((int64(corr) * int64(NumGainLevels)) >> 15)
	if idx >= NumGainLevels {
		idx = NumGainLevels - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
