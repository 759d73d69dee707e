package sns

// Autocorrelate computes the lag-0..order autocorrelation of a Q8 fixed
// scalar sequence e directly in the value domain. Spec §4.3 describes
// this as "inverse ODFT -> autocorrelation"; by the Wiener-Khinchin
// relation, autocorrelating a real symmetric sequence via an inverse
// transform and autocorrelating it directly in the value domain are the
// same computation, so the explicit transform round-trip is skipped here
// (documented simplification, noted in DESIGN.md).
func Autocorrelate(e []int32, order int) []int64 {
	n := len(e)
	r := make([]int64, order+1)
	for lag := 0; lag <= order; lag++ {
		var sum int64
		for i := 0; i+lag < n; i++ {
			sum += int64(e[i]) * int64(e[i+lag])
		}
		r[lag] = sum
	}
	// A small white-noise floor on r[0] keeps Levinson-Durbin numerically
	// well behaved when the envelope is exactly flat (all-equal bands).
	if r[0] == 0 {
		r[0] = 1
	} else {
		r[0] += r[0] >> 10
	}
	return r
}

// LevinsonDurbin runs the standard recursion on autocorrelation r (length
// order+1), returning order reflection coefficients in Q15 and the final
// prediction error energy. Grounded on the general LPC analysis idiom the
// teacher applies to pitch/TDC autocorrelation (plc/celt_plc.go's use of
// autocorrelation-driven LPC for time-domain concealment), generalized
// here into a standalone, order-parameterized routine since SNS and TNS
// both need it.
func LevinsonDurbin(r []int64, order int) (reflection []int32, errEnergy int64) {
	a := make([]int64, order+1) // Q15 LPC coefficients, a[0] unused
	refl := make([]int32, order)
	errEnergy = r[0]
	if errEnergy <= 0 {
		return refl, 0
	}

	for i := 1; i <= order; i++ {
		var acc int64
		for j := 1; j < i; j++ {
			acc += a[j] * r[i-j]
		}
		// k = -(r[i] - acc/2^15) / err, all in Q15: acc accumulates
		// Q15*raw so needs a >>15 to line back up with r's raw scale.
		num := r[i] - (acc >> 15)
		if errEnergy == 0 {
			break
		}
		k := divQ15(-num, errEnergy)
		refl[i-1] = clampQ15(k)

		newA := make([]int64, order+1)
		newA[i] = int64(refl[i-1])
		for j := 1; j < i; j++ {
			newA[j] = a[j] + (int64(refl[i-1])*a[i-j])>>15
		}
		a = newA

		errEnergy = errEnergy - (int64(refl[i-1])*int64(refl[i-1])*errEnergy)>>30
		if errEnergy < 1 {
			errEnergy = 1
		}
	}
	return refl, errEnergy
}

// divQ15 returns (num<<15)/den, truncated toward zero and limited to
// [-2^30, 2^30], as a plain Q15 fixed-point ratio; the caller narrows it
// to the Q15 range via clampQ15.
func divQ15(num, den int64) int32 {
	if den == 0 {
		return 0
	}
	q := (num << 15) / den
	if q > 1<<30 {
		return 1 << 30
	}
	if q < -(1 << 30) {
		return -(1 << 30)
	}
	return int32(q)
}

func clampQ15(k int32) int32 {
	const one = 1 << 15
	if k > one-1 {
		return one - 1
	}
	if k < -one {
		return -one
	}
	return k
}
