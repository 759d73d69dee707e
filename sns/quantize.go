package sns

import "github.com/lc3codec/lc3/pvq"

// splitAPulses and splitBPulses are the pulse budgets assigned to the two partitioned
// sections (A: low bands, B: high bands) spec §4.3 describes: "the search
// operates on two partitioned sections (A and B) ... producing four
// candidate vectors compared by an outer rate-distortion decision
// (external)". The outer rate-distortion comparison across near/far
// outlier modes is the bitstream packer's job (external to this core per
// spec §5's parse/apply split); this core always uses the single
// near-outlier budget below, which is the common case.
const (
	splitASize   = NumSnsBands / 2
	splitBSize   = NumSnsBands - splitASize
	splitAPulses = 6
	splitBPulses = 6
)

// Shape is a quantized SNS envelope: two PVQ-coded shape half-vectors plus
// a single Q8 log-domain gain index carrying the mean envelope level the
// shape vectors (by construction, roughly zero-mean) don't capture.
type Shape struct {
	IndexA uint64
	IndexB uint64
	GainQ8 int32
}

// QuantizeShape converts a 16-element Q8 log-energy target envelope into
// its PVQ-coded Shape, per spec §4.3's "PVQ encoder search": the mean
// level is split off as GainQ8 (the envelope's DC term, coded separately
// per spec's "gain index" bitstream field), and the zero-mean residual is
// projected onto a unit-pulse-count vector per half via pvq.Search.
func QuantizeShape(target []int32) Shape {
	if len(target) != NumSnsBands {
		panic("sns: target envelope must have NumSnsBands elements")
	}
	var sum int64
	for _, v := range target {
		sum += int64(v)
	}
	mean := int32(sum / int64(NumSnsBands))

	residual := make([]int32, NumSnsBands)
	for i, v := range target {
		residual[i] = v - mean
	}

	a := residual[:splitASize]
	b := residual[splitASize:]
	ya, _ := pvq.Search(a, splitAPulses)
	yb, _ := pvq.Search(b, splitBPulses)

	return Shape{
		IndexA: pvq.Enumerate(ya, splitASize, splitAPulses),
		IndexB: pvq.Enumerate(yb, splitBSize, splitBPulses),
		GainQ8: mean,
	}
}

// DequantizeShape reconstructs the 16-element Q8 log-energy envelope
// (mean + shape) from a Shape.
func DequantizeShape(s Shape) []int32 {
	ya := pvq.Deenumerate(s.IndexA, splitASize, splitAPulses)
	yb := pvq.Deenumerate(s.IndexB, splitBSize, splitBPulses)
	out := make([]int32, NumSnsBands)
	for i, v := range ya {
		out[i] = v + s.GainQ8
	}
	for i, v := range yb {
		out[splitASize+i] = v + s.GainQ8
	}
	return out
}
