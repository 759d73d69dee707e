// Package codec ties the frame-processing stages (mdct, sns, tns, ltpf,
// quant, resample, plcctl, scale) into the encoder/decoder handle lifecycle
// and per-frame pipeline spec §2 describes. Bitstream byte-packing itself
// stays an external collaborator (spec §1); codec produces and consumes
// the parsed per-frame fields the packer would carry.
//
// Grounded on celt/encoder.go / celt/decoder.go's construction-time
// validation and persistent-state shape (Encoder/Decoder structs holding
// configuration plus cross-frame memories), generalized from CELT's
// single 48 kHz internal rate to LC3's five supported sampling rates and
// three frame durations.
package codec

import "fmt"

// SampleRate is one of the five LC3-standardized input/output rates.
type SampleRate int

const (
	Rate8k  SampleRate = 8000
	Rate16k SampleRate = 16000
	Rate24k SampleRate = 24000
	Rate32k SampleRate = 32000
	Rate48k SampleRate = 48000
)

// FrameDurationDms is the frame duration in deci-milliseconds (spec
// glossary: "frame_dms").
type FrameDurationDms int

const (
	Duration25  FrameDurationDms = 25
	Duration50  FrameDurationDms = 50
	Duration100 FrameDurationDms = 100
)

// Config is the codec instance's open-time configuration (spec §6:
// "Configuration parameters").
type Config struct {
	SampleRate               SampleRate
	FrameDuration            FrameDurationDms
	TargetBytes              int
	EnableLPCWeighting       bool
	AttackHandling           bool
	ConcealmentMethodPreferred bool // maps to plcctl.ChooserInput.PreferPhaseECU
}

// FrameSamples returns the number of time-domain samples one frame holds
// at this configuration's rate/duration.
func (c Config) FrameSamples() int {
	return int(c.SampleRate) * int(c.FrameDuration) / 10000
}

// Validate rejects unsupported (sampling_rate, frame_duration_dms)
// combinations at open time (spec §7: "Configuration mismatch ...
// Refuse to open; never reached on the hot path").
func (c Config) Validate() error {
	switch c.SampleRate {
	case Rate8k, Rate16k, Rate24k, Rate32k, Rate48k:
	default:
		return fmt.Errorf("codec: unsupported sample rate %d", c.SampleRate)
	}
	switch c.FrameDuration {
	case Duration25, Duration50, Duration100:
	default:
		return fmt.Errorf("codec: unsupported frame duration %d dms", c.FrameDuration)
	}
	if c.TargetBytes <= 0 {
		return fmt.Errorf("codec: target_bytes must be positive, got %d", c.TargetBytes)
	}
	if c.FrameSamples() <= 0 {
		return fmt.Errorf("codec: configuration yields a non-positive frame length")
	}
	return nil
}
