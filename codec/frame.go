package codec

import "github.com/lc3codec/lc3/ltpf"

// Frame is the parsed per-frame payload codec exchanges with an external
// bitstream packer (spec §6: "this core produces and consumes the parsed
// fields"). Field order follows spec §6's bitstream field list.
type Frame struct {
	BandwidthCutoffIdx int
	GlobalGainIdx      int

	TNSActive []bool
	TNSOrder  []int
	TNSRCIdx  [][]int

	LTPF ltpf.Params

	SNSIndexA uint64
	SNSIndexB uint64
	SNSGainQ8 int32

	SpecQ       []int32
	LastnzOut   int
	LSBMode     bool
	ResBits     []bool
	NoiseFacIdx int

	Bfi int // 0 good, 1 full loss, 2 partial
}
