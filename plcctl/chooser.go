package plcctl

// ChooserInput is the configuration and signal state the method chooser
// consults on the first lost frame of a burst (spec §4.7: "selects method
// based on codec configuration, frame_dms, and whether pitch info is
// available; carries the choice through a consecutive-loss burst").
type ChooserInput struct {
	FrameDurationDms     int
	PitchAvailable       bool
	PreferPhaseECU       bool // codec configuration: concealment_method_preference
	LowComplexityProfile bool // narrowband/low-rate configs favor the cheaper TDC path
}

// ChooseMethod selects a concealment method for a fresh loss burst. The
// choice is made once, on the first lost frame, and then carried for the
// whole burst by the caller (PlcState.ActiveMethod).
func ChooseMethod(in ChooserInput) Method {
	if !in.PitchAvailable {
		return MethodNoiseSubstitution
	}
	if in.LowComplexityProfile {
		return MethodTDC
	}
	if in.PreferPhaseECU && in.FrameDurationDms >= 50 {
		return MethodPhaseECU
	}
	return MethodTDC
}
