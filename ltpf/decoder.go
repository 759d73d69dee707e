package ltpf

import "github.com/lc3codec/lc3/fixed"

// NumGainLevels is the number of discrete synthesis-filter gain steps
// gain_scale_idx selects among.
const NumGainLevels = 4

// gainTableQ15 holds the Q15 numerator scale for each gain index; built
// once from a simple linear ramp (spec leaves the exact gain curve to the
// rate tables, which did not survive the lost reference pack — see
// DESIGN.md).
var gainTableQ15 = buildGainTable()

func buildGainTable() []int16 {
	t := make([]int16, NumGainLevels)
	for i := range t {
		t[i] = int16((i + 1) * 32767 / NumGainLevels)
	}
	return t
}

// tiltQ15 is the fixed denominator (tilt) coefficient applied to the
// synthesis filter's own output history (spec: "FIR denominator over the
// output history (tilt filter)").
const tiltQ15 = int16(-9830) // ~ -0.3 in Q15

// fadeSteps is a fixed Q15 gain-step count that the synthesis path does
// not read: applyFadeIn/applyFadeOut ramp the gain linearly over the
// first quarter of the frame, one step per sample, so the step count
// follows the frame length (spec: "Fade steps are length-dependent
// constants that linearly ramp a Q15 multiplier").
const fadeSteps = 16

// DecoderState carries the cross-frame memory the decoder-side LTPF
// synthesis filter and its transition logic need (spec §3: LTPF decoder
// persistent state: output history plus previous frame's params).
type DecoderState struct {
	history    []int32 // past synthesized output samples, newest last
	prevActive bool
	prevPitch  int
	prevFrac   int
	prevGain   int16
}

// NewDecoderState allocates decoder state with maxLag samples of zeroed
// history, enough to look back the longest representable pitch lag.
func NewDecoderState(maxLag int) *DecoderState {
	return &DecoderState{history: make([]int32, maxLag)}
}

// decodePitchIndex inverts Analyze's PitchIndex packing.
func decodePitchIndex(idx int) (intLag, frac int) {
	return idx / FracRes, idx % FracRes
}

// Synthesize applies the decoder-side LTPF to one frame x (in place),
// appending it to the rolling output history and handling the five
// transition regimes of spec §4.5's table.
func (s *DecoderState) Synthesize(x []int32, p Params) {
	n := len(x)
	curLag, curFrac := decodePitchIndex(p.PitchIndex)
	curGain := int16(0)
	if p.Active && p.GainIdx >= 0 && p.GainIdx < len(gainTableQ15) {
		curGain = gainTableQ15[p.GainIdx]
	}

	samePitch := s.prevActive && p.Active && curLag == s.prevPitch && curFrac == s.prevFrac
	quarter := n / 4
	if quarter == 0 {
		quarter = n
	}

	switch {
	case !s.prevActive && !p.Active:
		// No filtering; state updates at the end.

	case !s.prevActive && p.Active:
		s.applyFadeIn(x, 0, n, quarter, curLag, curFrac, curGain)

	case s.prevActive && !p.Active:
		s.applyFadeOut(x, 0, n, quarter, s.prevPitch, s.prevFrac, s.prevGain)

	case samePitch:
		s.applyContinuous(x, 0, n, curLag, curFrac, curGain)

	default: // both active, pitch changed: fade old out, fade new in
		aux := make([]int32, n)
		copy(aux, x)
		s.applyFadeOut(aux, 0, quarter, quarter, s.prevPitch, s.prevFrac, s.prevGain)
		s.applyFadeIn(x, 0, n, quarter, curLag, curFrac, curGain)
		copy(x[:quarter], aux[:quarter])
	}

	s.appendHistory(x)
	s.prevActive = p.Active
	s.prevPitch = curLag
	s.prevFrac = curFrac
	s.prevGain = curGain
}

// predicted returns the pitch-delayed, fractionally-interpolated
// prediction for output sample i, drawn from history plus the portion of
// x already synthesized in this call (so the predictor can reach into the
// current frame once enough of it has been produced).
func (s *DecoderState) predicted(x []int32, i, lag, frac int) int32 {
	// Build a combined view: history followed by x[:i].
	h := len(s.history)
	pos := h + i - lag
	if pos < 0 {
		return 0
	}
	if pos < h {
		return historyInterp(s.history, pos, frac)
	}
	local := pos - h
	if local >= len(x) {
		return 0
	}
	return x[local]
}

func historyInterp(hist []int32, pos, frac int) int32 {
	if frac == 0 {
		if pos < len(hist) {
			return hist[pos]
		}
		return 0
	}
	return interpolate(hist, pos, frac)
}

func (s *DecoderState) synthStep(x []int32, i, lag, frac int, gain int16) int32 {
	pred := s.predicted(x, i, lag, frac)
	num := fixed.Mul16Q15(int16(clampQ15(pred)), gain)
	tilt := fixed.Mul16Q15(int16(clampQ15(lastOutput(x, i))), tiltQ15)
	return fixed.SatAdd32(x[i], fixed.SatSub32(int32(num), int32(tilt)))
}

func lastOutput(x []int32, i int) int32 {
	if i == 0 {
		return 0
	}
	return x[i-1]
}

func clampQ15(v int32) int32 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}

func (s *DecoderState) applyContinuous(x []int32, start, end, lag, frac int, gain int16) {
	for i := start; i < end; i++ {
		x[i] = s.synthStep(x, i, lag, frac, gain)
	}
}

func (s *DecoderState) applyFadeIn(x []int32, start, end, quarter, lag, frac int, gain int16) {
	for i := start; i < end; i++ {
		g := gain
		if i-start < quarter {
			step := (i - start + 1)
			g = int16((int32(gain) * int32(step)) / int32(quarter))
		}
		x[i] = s.synthStep(x, i, lag, frac, g)
	}
}

func (s *DecoderState) applyFadeOut(x []int32, start, end, quarter, lag, frac int, gain int16) {
	for i := start; i < end; i++ {
		g := int16(0)
		if i-start < quarter {
			step := quarter - (i - start)
			g = int16((int32(gain) * int32(step)) / int32(quarter))
		}
		x[i] = s.synthStep(x, i, lag, frac, g)
	}
}

func (s *DecoderState) appendHistory(x []int32) {
	keep := len(s.history)
	if keep == 0 {
		return
	}
	combined := make([]int32, 0, keep+len(x))
	combined = append(combined, s.history...)
	combined = append(combined, x...)
	if len(combined) > keep {
		combined = combined[len(combined)-keep:]
	}
	s.history = combined
}
