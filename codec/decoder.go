package codec

import (
	"github.com/lc3codec/lc3/fixed"
	"github.com/lc3codec/lc3/internal/arena"
	"github.com/lc3codec/lc3/internal/assert"
	"github.com/lc3codec/lc3/ltpf"
	"github.com/lc3codec/lc3/mdct"
	"github.com/lc3codec/lc3/plcctl"
	"github.com/lc3codec/lc3/quant"
	"github.com/lc3codec/lc3/scale"
	"github.com/lc3codec/lc3/sns"
	"github.com/lc3codec/lc3/tns"
)

// partialConcealFacQ15 is the InterpolateGain fraction (one half) used for
// a bfi==2 frame: its global gain is blended halfway between the last good
// frame's gain and the freshly decoded one, and the frame's spectrum is the
// last good spectrum scaled by that blended gain (the freshly decoded
// spectrum is discarded). The spec leaves the exact fraction to the bfi==2
// classifier's (fac, fac_e) output, which this package does not wire
// end-to-end (Classify needs signal-derived inputs no component here
// produces).
const partialConcealFacQ15 = 1 << 14

// DecoderState is the persistent memory one decoder instance carries
// across frames (spec §3: "DecoderState" row): IMDCT overlap, LTPF
// memories, noise-fill seed, PC/PLC state, bfi history.
type DecoderState struct {
	cfg Config

	mdctMode *mdct.Mode
	synthMem mdct.SynthMem

	ltpf *ltpf.DecoderState
	plc  *plcctl.PlcState

	noiseSeed      uint16
	lastNoiseLevel int32

	lastGoodSpec     fixed.Block
	lastGoodResidual []int32
	lastGoodGainM    int32
	lastGoodGainE    int
	lastGoodPitchLag int

	// scratch carves the per-frame decoded-spectrum buffer, per spec
	// §5/§9's no-heap-allocation-on-the-hot-path scratch-arena convention.
	scratch *arena.Arena

	gainKQ8 int32
}

// Open validates cfg and allocates a fresh decoder instance.
func Open(cfg Config) (*DecoderState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := cfg.FrameSamples()
	mode := mdct.NewMode(n, n)
	return &DecoderState{
		cfg:      cfg,
		mdctMode: mode,
		synthMem: mdct.NewSynthMem(mode),
		ltpf:     ltpf.NewDecoderState(228),
		plc:      plcctl.NewState(),
		scratch:  arena.New(n, 0),
		gainKQ8:  256,
	}, nil
}

func (d *DecoderState) Close() {}

// DecodeFrame runs the full decode pipeline (spec §2, decode side) for a
// good or partially-good frame. For bfi==1 (full loss), call Conceal
// instead.
func (d *DecoderState) DecodeFrame(f Frame) ([]int32, int) {
	n := d.cfg.FrameSamples()
	assert.That(len(f.SpecQ) <= n, "decoded spectrum longer than one frame")

	d.scratch.Reset()
	y := d.scratch.Int32(n)
	copy(y, f.SpecQ)

	filled := d.quantNoiseFill(y, f)
	spectrum := d.dequantizeSpectrum(filled, f.GlobalGainIdx)
	gainM, gainE := quant.GlobalGain(f.GlobalGainIdx, d.gainKQ8)

	if f.Bfi == 2 && len(d.lastGoodSpec.M) == len(spectrum.M) {
		blended := plcctl.InterpolateGain(d.lastGoodGainM, d.lastGoodGainE, gainM, gainE, partialConcealFacQ15)
		spectrum = fixed.Block{M: plcctl.UsePartialConcealment(d.lastGoodSpec.M, blended), E: blended.GainExp}
	}

	frameDurationUs := int(d.cfg.FrameDuration) * 100
	regions := tns.Regions(len(spectrum.M), f.BandwidthCutoffIdx, frameDurationUs)
	for i := len(regions) - 1; i >= 0; i-- {
		if i >= len(f.TNSActive) || !f.TNSActive[i] {
			continue
		}
		filt := tns.Filter{Active: true, Order: f.TNSOrder[i]}
		filt.Q15 = make([]int16, filt.Order)
		for j, idx := range f.TNSRCIdx[i] {
			filt.Q15[j] = tns.DequantizeRC(idx)
		}
		tns.DecodeFilter(spectrum.M, regions[i], filt)
	}

	shape := sns.Shape{IndexA: f.SNSIndexA, IndexB: f.SNSIndexB, GainQ8: f.SNSGainQ8}
	gains := sns.ExpandGains(shape, len(spectrum.M))
	spectrum = sns.Apply(spectrum, gains)

	out, outExp := d.mdctMode.Synthesize(spectrum, &d.synthMem)

	d.ltpf.Synthesize(out, f.LTPF)

	d.lastGoodSpec = spectrum
	d.lastGoodResidual = filled
	d.lastGoodGainM, d.lastGoodGainE = gainM, gainE
	d.lastGoodPitchLag = f.LTPF.PitchIndex / ltpf.FracRes

	d.plc.AdvanceGoodFrame(f.Bfi)

	return out, outExp
}

// Conceal runs the PLC controller for a fully lost frame (spec §4.7).
func (d *DecoderState) Conceal(durationMs int) []int32 {
	n := d.cfg.FrameSamples()
	if d.plc.ActiveMethod == plcctl.MethodMuted && d.plc.ConsecutiveLoss == 0 {
		d.plc.ActiveMethod = plcctl.ChooseMethod(plcctl.ChooserInput{
			FrameDurationDms:     int(d.cfg.FrameDuration),
			PitchAvailable:       d.lastGoodPitchLag > 0,
			PreferPhaseECU:       d.cfg.ConcealmentMethodPreferred,
			LowComplexityProfile: false,
		})
	}

	var out []int32
	switch d.plc.ActiveMethod {
	case plcctl.MethodTDC:
		st := plcctl.AnalyzeTDC(d.lastGoodSpec, d.lastGoodResidual, d.lastGoodPitchLag)
		out, _ = st.Synthesize(n, d.noiseSeed)
	default:
		out = plcctl.NoiseSubstitution(d.lastGoodResidual, d.plc)
		if len(out) < n {
			padded := make([]int32, n)
			copy(padded, out)
			out = padded
		} else {
			out = out[:n]
		}
	}

	descended := plcctl.LinearDescent(d.plc.CumFadingSlowQ15, d.plc.TimeOffsetMs)
	for i, v := range out {
		out[i] = int32((int64(v) * int64(descended)) >> 15)
	}

	d.plc.AdvanceBadFrame(durationMs)
	return out
}

// ScaleOutput converts a decoded time-domain frame to packed PCM bytes at
// the requested output bit depth (spec §4.8).
func ScaleOutput(x []int32, qFxExp int, bits scale.Bits, dst []byte, outSkip, channelOffset int) {
	scale.WriteFrame(x, qFxExp, bits, dst, outSkip, channelOffset)
}
