package tns

import "github.com/lc3codec/lc3/fixed"

// The two-multiplier lattice structure used by both EncodeFilter and
// DecodeFilter keeps one delay line of P values, delay[m] holding the
// stage-m backward residual b_m from the previous sample (delay[0] is
// simply the previous input sample). Each sample's processing must read
// every delay[m] at its pre-update value before any of them are
// overwritten, since EncodeFilter and DecodeFilter are algebraic inverses
// of each other only when driven from the same state sequence: given
//
//	f_m = f_{m-1} + k_m*b_{m-1}      (forward/FIR, encode)
//	b_m = b_{m-1} + k_m*f_{m-1}
//
// decode solves the first equation for f_{m-1} given f_m and the same
// b_{m-1}, then reuses the identical second equation to keep the delay
// line's evolution in lockstep with encode.

func macQ15(k int16, v int32) int32 {
	return fixed.SatMac32(0, int32(k), v, fixed.Q15)
}

// EncodeFilter applies the in-place lattice FIR of spec §4.4 to
// spec[region.Start:region.Stop]: state length = order, initial state
// zero.
func EncodeFilter(spec []int32, region Region, f Filter) {
	if !f.Active || f.Order == 0 {
		return
	}
	p := f.Order
	delay := make([]int32, p)
	bNew := make([]int32, p)

	for i := region.Start; i < region.Stop; i++ {
		x := spec[i]
		fPrev := x
		for m := 0; m < p; m++ {
			k := f.Q15[m]
			bPrev := delay[m]
			fCur := fixed.SatAdd32(fPrev, macQ15(k, bPrev))
			bNew[m] = fixed.SatAdd32(bPrev, macQ15(k, fPrev))
			fPrev = fCur
		}
		spec[i] = fPrev
		delay[0] = x
		for m := 1; m < p; m++ {
			delay[m] = bNew[m-1]
		}
	}
}

// DecodeFilter applies the inverse all-pole (IIR) lattice of spec §4.4.
// The caller must have already rescaled spec down by 7 bits of headroom
// before calling ("requires 7 bits of headroom in the spectral input ...
// enforced by rescale step before filtering"); DecodeFilter itself does
// not rescale, matching the spec's separation of the two steps.
func DecodeFilter(spec []int32, region Region, f Filter) {
	if !f.Active || f.Order == 0 {
		return
	}
	p := f.Order
	delay := make([]int32, p)
	fStage := make([]int32, p+1)
	bNew := make([]int32, p)

	for i := region.Start; i < region.Stop; i++ {
		fStage[p] = spec[i]
		for m := p - 1; m >= 0; m-- {
			k := f.Q15[m]
			bPrev := delay[m]
			fStage[m] = fixed.SatSub32(fStage[m+1], macQ15(k, bPrev))
			bNew[m] = fixed.SatAdd32(bPrev, macQ15(k, fStage[m]))
		}
		x := fStage[0]
		spec[i] = x
		delay[0] = x
		for m := 1; m < p; m++ {
			delay[m] = bNew[m-1]
		}
	}
}
