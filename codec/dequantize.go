package codec

import (
	"github.com/lc3codec/lc3/fixed"
	"github.com/lc3codec/lc3/quant"
)

// noisefillWidth mirrors the encoder's noise-fill neighborhood radius
// (spec §4.6); kept as a package constant since it is not itself part of
// the transmitted per-frame side information.
const noisefillWidth = 2

// quantNoiseFill runs spec §4.6's noise-filling stage over one decoded
// frame's quantized spectrum, carrying the LCG seed across calls. For
// partially concealed frames it passes d.lastNoiseLevel as the level for
// bins above spec_inv_idx; nothing in the decoder updates that field, so
// those bins are filled at level zero.
func (d *DecoderState) quantNoiseFill(y []int32, f Frame) []int32 {
	specInvIdx := len(y)
	prevLevel := int32(0)
	if f.Bfi == 2 {
		specInvIdx = d.plc.SpecInvIdx
		prevLevel = d.lastNoiseLevel
	}
	filled, next := quant.NoiseFill(y, noisefillWidth, f.NoiseFacIdx, d.noiseSeed, specInvIdx, prevLevel)
	d.noiseSeed = next
	return filled
}

// dequantizeSpectrum reverses the encoder's global-gain scaling step
// (scaleSpectrum), reconstructing a fixed.Block spectrum from the
// transmitted integer coefficients. Since GlobalGain's log-domain gain
// is symmetric in its index (gain(-idx) = 1/gain(idx)), the inverse
// scale is just another global gain lookup at the negated index, reusing
// scaleSpectrum's own multiply-and-shift shape rather than a separate
// division routine.
func (d *DecoderState) dequantizeSpectrum(y []int32, gainIdx int) fixed.Block {
	invM, invE := quant.GlobalGain(-gainIdx, d.gainKQ8)
	blk := fixed.Block{M: scaleSpectrum(y, invM, invE), E: 0}
	return blk.Normalize()
}
