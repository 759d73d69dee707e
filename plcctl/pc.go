package plcctl

// PCResult is the interpolated gain a partial-concealment (bfi==2, not
// upgraded to a full loss) frame applies to the decoded residual (spec
// §4.7: "uses last-good residual + gain and interpolates between old and
// new global gains with a classifier-derived (fac, fac_e)").
type PCResult struct {
	GainMantissa int32
	GainExp      int
}

// InterpolateGain blends the previous frame's gain (oldMantissa, oldExp)
// toward the newly decoded gain (newMantissa, newExp) by facQ15 (0 =
// fully old, 32768 = fully new), aligning exponents to the larger of the
// two before blending so the interpolation stays in a common scale.
func InterpolateGain(oldMantissa int32, oldExp int, newMantissa int32, newExp int, facQ15 int32) PCResult {
	exp := oldExp
	if newExp > exp {
		exp = newExp
	}
	oldAligned := int64(oldMantissa) >> uint(exp-oldExp)
	newAligned := int64(newMantissa) >> uint(exp-newExp)

	blended := oldAligned*int64(q15One-facQ15) + newAligned*int64(facQ15)
	blended >>= 15

	return PCResult{GainMantissa: int32(blended), GainExp: exp}
}

// UsePartialConcealment applies the last-good residual scaled by the
// interpolated gain, reconstructing a usable frame from a partially
// corrupted (but not classifier-upgraded) transmission.
func UsePartialConcealment(lastGoodResidual []int32, gain PCResult) []int32 {
	out := make([]int32, len(lastGoodResidual))
	for i, v := range lastGoodResidual {
		out[i] = int32((int64(v) * int64(gain.GainMantissa)) >> 15)
	}
	return out
}
