package plcctl

import (
	"testing"

	"github.com/lc3codec/lc3/fixed"
)

func TestClassifyUpgradesOnPriorLoss(t *testing.T) {
	got := Classify(ClassifierInput{PrevBfi: 1, StabilityFacQ15: q15One})
	if got != 1 {
		t.Fatalf("Classify = %d, want 1 (prior loss always upgrades)", got)
	}
}

func TestClassifyUpgradesOnLowStability(t *testing.T) {
	got := Classify(ClassifierInput{StabilityFacQ15: 1000})
	if got != 1 {
		t.Fatalf("Classify = %d, want 1 (stability below 0.5 upgrades)", got)
	}
}

func TestClassifyAcceptsGoodPitchPath(t *testing.T) {
	got := Classify(ClassifierInput{
		StabilityFacQ15: q15One,
		PitchPresent:    true,
		PeakMisaligned:  false,
	})
	if got != 2 {
		t.Fatalf("Classify = %d, want 2 (pitch path with aligned peak stays partial)", got)
	}
}

func TestClassifyRejectsLowEnergyNonPitch(t *testing.T) {
	got := Classify(ClassifierInput{
		StabilityFacQ15:  q15One,
		NonPitchLowRatio: 100,
	})
	if got != 1 {
		t.Fatalf("Classify = %d, want 1 (low residual energy ratio upgrades)", got)
	}
}

func TestChooseMethodNoPitchIsNoiseSubstitution(t *testing.T) {
	m := ChooseMethod(ChooserInput{PitchAvailable: false})
	if m != MethodNoiseSubstitution {
		t.Fatalf("ChooseMethod = %v, want MethodNoiseSubstitution", m)
	}
}

func TestChooseMethodCodesMatchSpec(t *testing.T) {
	cases := map[Method]int{
		MethodMuted:             0,
		MethodPhaseECU:          2,
		MethodTDC:               3,
		MethodNoiseSubstitution: 4,
	}
	for m, want := range cases {
		if got := m.Code(); got != want {
			t.Fatalf("%v.Code() = %d, want %d", m, got, want)
		}
	}
}

func TestFadeAlphasFractionalPowersDecreaseTowardOne(t *testing.T) {
	stab := int32(16384) // 0.5
	slow10, fast10 := FadeAlphas(stab, 10)
	slow5, fast5 := FadeAlphas(stab, 5)
	slow2, fast2 := FadeAlphas(stab, 2)

	if !(slow10 <= slow5 && slow5 <= slow2) {
		t.Fatalf("expected sqrt stages to move slow alpha toward 1 as frame shortens: %d %d %d", slow10, slow5, slow2)
	}
	if !(fast10 <= fast5 && fast5 <= fast2) {
		t.Fatalf("expected sqrt stages to move fast alpha toward 1 as frame shortens: %d %d %d", fast10, fast5, fast2)
	}
}

func TestLinearDescentHoldsThenDescendsThenZero(t *testing.T) {
	if got := LinearDescent(q15One, 10); got != q15One {
		t.Fatalf("LinearDescent before start = %d, want held at %d", got, q15One)
	}
	if got := LinearDescent(q15One, 1000); got != 0 {
		t.Fatalf("LinearDescent past fadeout = %d, want 0", got)
	}
	mid := LinearDescent(q15One, (PlcStartInMs+PlcFadeoutInMs)/2)
	if mid <= 0 || mid >= q15One {
		t.Fatalf("LinearDescent mid-ramp = %d, want strictly between 0 and %d", mid, q15One)
	}
}

func TestScrambleSignIsDeterministic(t *testing.T) {
	flip1, next1 := ScrambleSign(1, false)
	flip2, next2 := ScrambleSign(1, false)
	if flip1 != flip2 || next1 != next2 {
		t.Fatalf("ScrambleSign not deterministic for the same seed")
	}
}

func TestNoiseSubstitutionPreservesLength(t *testing.T) {
	st := NewState()
	lastGood := make([]int32, 40)
	for i := range lastGood {
		lastGood[i] = int32((i%7)*100 - 300)
	}
	out := NoiseSubstitution(lastGood, st)
	if len(out) != len(lastGood) {
		t.Fatalf("NoiseSubstitution length = %d, want %d", len(out), len(lastGood))
	}
}

func TestAnalyzeTDCAndSynthesizeProducesSamples(t *testing.T) {
	spec := fixed.NewBlock(80, 0)
	for i := range spec.M {
		spec.M[i] = int32(1000 + i*7)
	}
	history := make([]int32, 64)
	for i := range history {
		history[i] = int32(i * 10)
	}
	st := AnalyzeTDC(spec, history, 40)
	out, _ := st.Synthesize(20, 1)
	if len(out) != 20 {
		t.Fatalf("Synthesize length = %d, want 20", len(out))
	}
}

func TestPhaseECUCaptureAndEvolveLengthsMatch(t *testing.T) {
	mag := make([]int32, 32)
	phase := make([]int32, 32)
	for i := range mag {
		mag[i] = int32(100 + i)
	}
	st := Capture(mag, phase, 0, 0)
	magOut, phaseOut, _ := Evolve(&st, 10, q15One, 1)
	if len(magOut) != len(mag) || len(phaseOut) != len(phase) {
		t.Fatalf("Evolve output lengths = %d/%d, want %d/%d", len(magOut), len(phaseOut), len(mag), len(phase))
	}
}

func TestInterpolateGainBlendsBetweenOldAndNew(t *testing.T) {
	fullOld := InterpolateGain(1000, 0, 2000, 0, 0)
	if fullOld.GainMantissa != 1000 {
		t.Fatalf("facQ15=0 should return old gain exactly, got %d", fullOld.GainMantissa)
	}
	fullNew := InterpolateGain(1000, 0, 2000, 0, q15One)
	if fullNew.GainMantissa != 2000 {
		t.Fatalf("facQ15=full should return new gain exactly, got %d", fullNew.GainMantissa)
	}
}

func TestPlcStateAdvanceGoodFrameResetsCounters(t *testing.T) {
	st := NewState()
	st.ActiveMethod = MethodTDC
	st.AdvanceBadFrame(10)
	st.AdvanceBadFrame(10)
	if st.ConsecutiveLoss != 2 {
		t.Fatalf("ConsecutiveLoss = %d, want 2", st.ConsecutiveLoss)
	}
	st.AdvanceGoodFrame(0)
	if st.ConsecutiveLoss != 0 {
		t.Fatalf("ConsecutiveLoss after good frame = %d, want 0", st.ConsecutiveLoss)
	}
	if st.CumFadingSlowQ15 != q15One {
		t.Fatalf("CumFadingSlowQ15 after good frame = %d, want reset to %d", st.CumFadingSlowQ15, q15One)
	}
}
