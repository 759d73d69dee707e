package plcctl

import "github.com/lc3codec/lc3/fixed"

// MaxPhaseECUPeaks bounds how many spectral peaks the locator tracks
// (spec §4.7 method 2: "identify spectral peaks").
const MaxPhaseECUPeaks = 6

// PhaseECUState is the spectrum store method 2 carries across a loss
// burst (spec §3: "phase-ECU spectrum store (X_sav), peak locations
// (plocs), fractional frequencies (f0est), per-group magnitude
// modifiers, per-group shape").
type PhaseECUState struct {
	MagQ15   []int32 // magnitude spectrum at loss onset
	PhaseQ15 []int32 // per-bin phase, represented as a Q15 fraction of a full turn
	Plocs    []int   // peak bin locations
	F0EstQ8  int32   // fractional pitch frequency estimate, Q8 bins
	MagChgQ15 []int32 // per-group magnitude fade factor at loss onset
}

// Capture runs the first-loss analysis of method 2: record the magnitude
// and phase of the last good spectrum and locate its spectral peaks,
// optionally replacing the first located peak (the lowest-bin local
// maximum) with the bin nearest a known pitch frequency when normCorr is
// strong enough and the pitch bin is a low harmonic (spec:
// "refine peak locations using the LTP pitch when correlation >= 0.25
// and f0 bin < 2.75 x bin-width").
func Capture(magQ15, phaseQ15 []int32, pitchBinQ8 int32, normCorrQ15 int32) PhaseECUState {
	st := PhaseECUState{
		MagQ15:   append([]int32(nil), magQ15...),
		PhaseQ15: append([]int32(nil), phaseQ15...),
	}
	st.Plocs = locatePeaks(magQ15, MaxPhaseECUPeaks)

	const corrThresholdQ15 = int32(0.25 * (1 << 15))
	const binWidthThresholdQ8 = int32(2.75 * 256)
	if normCorrQ15 >= corrThresholdQ15 && pitchBinQ8 < binWidthThresholdQ8 && len(st.Plocs) > 0 {
		st.Plocs[0] = int((pitchBinQ8 + 128) >> 8)
		st.F0EstQ8 = pitchBinQ8
	}

	st.MagChgQ15 = make([]int32, len(st.Plocs))
	for i := range st.MagChgQ15 {
		st.MagChgQ15[i] = q15One
	}
	return st
}

// locatePeaks returns up to maxPeaks local-maxima bin indices of mag,
// scanning left to right (a direct, division-free peak-picker in the
// shape the spec calls a "peak-locator").
func locatePeaks(mag []int32, maxPeaks int) []int {
	var peaks []int
	for i := 1; i+1 < len(mag) && len(peaks) < maxPeaks; i++ {
		if mag[i] > mag[i-1] && mag[i] >= mag[i+1] {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

// binFrequencyQ8 is the nominal bin-to-frequency step used to evolve
// stored phases (spec: "evolve stored phases by time_offs * bin_frequency").
// Expressed as a Q8 fraction of a full turn per bin per millisecond of
// elapsed time; callers scale by the actual frame rate.
const binFrequencyQ8 = 4

// Evolve synthesizes one concealed frame's spectrum from the stored
// phase-ECU state: phases advance by time_offs * bin_frequency, each
// peak group's magnitude fades by mag_chg, and a bin takes a random phase
// instead of its evolved phase when its group's noise weight
// (1 - mag_chg^2) exceeds one half; no proportional blend of a noise
// component into the evolved spectrum takes place. betaMuteQ15 is the
// long-term mute factor (spec: "beta_mute (long-term mute) multiplies
// amplitudes down").
func Evolve(st *PhaseECUState, timeOffsetMs int, betaMuteQ15 int32, seed uint16) (magOut, phaseOut []int32, nextSeed uint16) {
	n := len(st.MagQ15)
	magOut = make([]int32, n)
	phaseOut = make([]int32, n)

	groupFor := func(bin int) int {
		best := 0
		bestDist := 1 << 30
		for gi, p := range st.Plocs {
			d := p - bin
			if d < 0 {
				d = -d
			}
			if d < bestDist {
				bestDist = d
				best = gi
			}
		}
		return best
	}

	for b := 0; b < n; b++ {
		advance := int32((timeOffsetMs * binFrequencyQ8 * (b + 1)) % (1 << 15))
		phase := (st.PhaseQ15[b] + advance) & 0x7fff

		g := 0
		if len(st.Plocs) > 0 {
			g = groupFor(b)
		}
		magChg := int32(q15One)
		if g < len(st.MagChgQ15) {
			magChg = st.MagChgQ15[g]
		}

		seed = uint16(13849 + 31821*uint32(seed))
		randPhase := int32(seed) & 0x7fff

		noiseWeightQ15 := q15One - int32((int64(magChg)*int64(magChg))>>15)
		if noiseWeightQ15 < 0 {
			noiseWeightQ15 = 0
		}

		mixedPhase := phase
		if noiseWeightQ15 > 16384 {
			mixedPhase = randPhase
		}

		mag := int32((int64(st.MagQ15[b]) * int64(magChg)) >> 15)
		mag = int32((int64(mag) * int64(betaMuteQ15)) >> 15)

		magOut[b] = mag
		phaseOut[b] = mixedPhase
	}

	for gi := range st.MagChgQ15 {
		st.MagChgQ15[gi] = fixed.SatMac32(0, st.MagChgQ15[gi], 31130, fixed.Q15) // ~0.95 decay per frame
	}

	return magOut, phaseOut, seed
}
