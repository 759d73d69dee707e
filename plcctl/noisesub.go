package plcctl

import (
	"github.com/lc3codec/lc3/fixed"
	"github.com/lc3codec/lc3/util"
)

// energyThresholdQ15 is the fraction of the frame's RMS magnitude below
// which a coefficient is considered "low energy" and gets the slow fade
// (spec §4.7 method 4: "coefficients below a frame-energy threshold are
// scaled by a slow fade factor; coefficients above are scaled by a faster
// fade plus an additive noise term").
const energyThresholdQ15 = 1 << 13 // 0.25 of frame RMS

// NoiseSubstitution implements concealment method 4: overwrite the
// spectrum with a sign-randomized, adaptively damped copy of the last
// good spectrum, and high-pass the two lowest bins to avoid DC runaway.
func NoiseSubstitution(lastGood []int32, st *PlcState) []int32 {
	n := len(lastGood)
	out := make([]int32, n)

	var rms int64
	for _, v := range lastGood {
		rms += int64(v) * int64(v)
	}
	if n > 0 {
		rms /= int64(n)
	}
	rmsMag := int32(fixed.ISqrt32(uint32(clampNonNeg(rms))))
	threshold := int32((int64(rmsMag) * int64(energyThresholdQ15)) >> 15)

	seed := st.ScrambleSeed
	for i, v := range lastGood {
		flip, next := ScrambleSign(seed, false)
		seed = next

		mag := util.Abs(v)
		var scaled int32
		if mag < threshold {
			scaled = int32((int64(mag) * int64(st.CumFadingSlowQ15)) >> 15)
		} else {
			scaled = int32((int64(mag) * int64(st.CumFadingFastQ15)) >> 15)
			noiseTerm := int32((int64(mag) * int64(q15One-st.CumFadingFastQ15)) >> 16)
			scaled = fixed.SatAdd32(scaled, noiseTerm)
		}

		sign := int32(1)
		if v < 0 {
			sign = -1
		}
		if flip {
			sign = -sign
		}
		out[i] = sign * scaled
	}
	st.ScrambleSeed = seed

	// High-pass the two lowest bins: remove the DC-ish component by
	// subtracting this frame's mean of the two.
	if n >= 2 {
		mean := (out[0] + out[1]) / 2
		out[0] -= mean
		out[1] -= mean
	}

	return out
}

func clampNonNeg(v int64) int64 {
	return util.Clamp(v, 0, 1<<32-1)
}
