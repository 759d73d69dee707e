package plcctl

import "github.com/lc3codec/lc3/fixed"

// PlcStartInMs / PlcFadeoutInMs bound the linear descent schedule (spec
// §4.7: "hold at 1 for frames before PLC_START_IN_MS, descend linearly to
// 0 by PLC_FADEOUT_IN_MS; after fadeout, all factors are 0").
const (
	PlcStartInMs   = 40
	PlcFadeoutInMs = 300
)

const q15One = 1 << 15

// FadeAlphas computes the per-frame slow/fast damping factors in Q15
// (spec §4.7): base values from the Q15 stability factor, raised to a
// fractional power for sub-10ms frames (one or two integer-sqrt stages)
// so the per-sample decay rate stays constant regardless of frame
// duration.
func FadeAlphas(stabilityFacQ15 int32, frameDurationMs int) (slowQ15, fastQ15 int32) {
	// slow = 0.8 + 0.2*stabilityFac, fast = 0.3 + 0.2*stabilityFac, all Q15.
	slowQ15 = int32(26214) + int32((int64(6554)*int64(stabilityFacQ15))>>15)
	fastQ15 = int32(9830) + int32((int64(6554)*int64(stabilityFacQ15))>>15)

	switch frameDurationMs {
	case 5:
		slowQ15 = sqrtQ15(slowQ15)
		fastQ15 = sqrtQ15(fastQ15)
	case 2: // 2.5ms, truncated
		slowQ15 = sqrtQ15(sqrtQ15(slowQ15))
		fastQ15 = sqrtQ15(sqrtQ15(fastQ15))
	}
	return slowQ15, fastQ15
}

// sqrtQ15 computes sqrt(x) in Q15 given x in Q15, via the integer
// square-root kernel fixed already provides (no floating point, per
// spec's "no floating-point path" non-goal).
func sqrtQ15(xQ15 int32) int32 {
	if xQ15 <= 0 {
		return 0
	}
	return int32(fixed.ISqrt32(uint32(xQ15) << 15))
}

// LinearDescent applies spec §4.7's hold/ramp/zero schedule on top of a
// raw cumulative fading factor (Q15): held at 1 before PlcStartInMs,
// descended linearly to 0 by PlcFadeoutInMs, zero thereafter.
func LinearDescent(cumFadingQ15 int32, elapsedMs int) int32 {
	switch {
	case elapsedMs <= PlcStartInMs:
		return cumFadingQ15
	case elapsedMs >= PlcFadeoutInMs:
		return 0
	default:
		span := int64(PlcFadeoutInMs - PlcStartInMs)
		remain := int64(PlcFadeoutInMs - elapsedMs)
		return int32((int64(cumFadingQ15) * remain) / span)
	}
}

// ScrambleSign advances the sign-scrambling LCG (spec §4.7: "seed =
// 16831 + 12821*seed; sign flipped when MSB set") and reports whether the
// coefficient at this position should have its sign flipped, gated by
// pitchPresent per the spec's "pitch_present-gated rand-threshold".
func ScrambleSign(seed uint16, pitchPresent bool) (flip bool, next uint16) {
	next = uint16(16831 + 12821*uint32(seed))
	if pitchPresent {
		// With a known pitch, only scramble about a quarter of the time so
		// periodic structure is preserved better than with free-running
		// noise-like signals.
		return next&0x8000 != 0 && next&0x4000 != 0, next
	}
	return next&0x8000 != 0, next
}
