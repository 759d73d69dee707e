// Command lc3util is a thin encode→decode round-trip driver over the
// codec package: it synthesizes a test signal, runs it through
// Open/EncodeFrame/DecodeFrame, optionally drops frames to exercise PLC,
// and reports the measured SNR.
//
// Grounded on the teacher's examples/roundtrip/main.go TestConfig /
// generateSignal / SNR pattern, retargeted from Opus bitrates to LC3's
// (sampling_rate, frame_duration_dms, target_bytes) triples and the §8
// scenario set (silence, impulse, tone, frame-loss burst).
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/lc3codec/lc3/codec"
	"github.com/lc3codec/lc3/scale"
)

// testConfig names one of the §8 scenarios this tool can drive.
type testConfig struct {
	name          string
	signal        string // "silence", "impulse", "tone", "sweep", "noise"
	sampleRate    codec.SampleRate
	frameDuration codec.FrameDurationDms
	targetBytes   int
	frames        int
	lossStart     int // first lost frame index, -1 for no loss
	lossCount     int
}

var scenarios = []testConfig{
	{"silence", "silence", codec.Rate48k, codec.Duration100, 80, 10, -1, 0},
	{"impulse", "impulse", codec.Rate16k, codec.Duration100, 40, 5, -1, 0},
	{"tone", "tone", codec.Rate48k, codec.Duration100, 160, 20, -1, 0},
	{"burst-loss", "tone", codec.Rate48k, codec.Duration100, 160, 20, 5, 5},
}

func main() {
	scenario := flag.String("scenario", "tone", "scenario to run: silence, impulse, tone, burst-loss, or all")
	flag.Parse()

	if *scenario == "all" {
		for _, sc := range scenarios {
			runScenario(sc)
		}
		return
	}

	for _, sc := range scenarios {
		if sc.name == *scenario {
			runScenario(sc)
			return
		}
	}
	log.Fatalf("lc3util: unknown scenario %q", *scenario)
}

// fixedPointExp is the Block exponent Conceal's output is approximately
// at, since PLC operates on the last-good residual/spectrum directly
// rather than returning its own tracked exponent.
const fixedPointExp = 31

func runScenario(sc testConfig) {
	cfg := codec.Config{
		SampleRate:    sc.sampleRate,
		FrameDuration: sc.frameDuration,
		TargetBytes:   sc.targetBytes,
	}

	enc, err := codec.OpenEncoder(cfg)
	if err != nil {
		log.Fatalf("lc3util: open encoder: %v", err)
	}
	defer enc.Close()

	dec, err := codec.Open(cfg)
	if err != nil {
		log.Fatalf("lc3util: open decoder: %v", err)
	}
	defer dec.Close()

	n := cfg.FrameSamples()
	var sumSq, errSq float64

	for i := 0; i < sc.frames; i++ {
		in := generateSignal(sc.signal, n, i, int(cfg.SampleRate))

		lost := sc.lossStart >= 0 && i >= sc.lossStart && i < sc.lossStart+sc.lossCount

		var out []int32
		outExp := fixedPointExp
		if lost {
			out = dec.Conceal(int(cfg.FrameDuration) / 10)
		} else {
			frame := enc.EncodeFrame(in)
			out, outExp = dec.DecodeFrame(frame)
		}

		for j := 0; j < n && j < len(out); j++ {
			rescaled := scale.Sample(out[j], outExp, scale.Bits32)
			sumSq += float64(in[j]) * float64(in[j])
			d := float64(in[j] - rescaled)
			errSq += d * d
		}
	}

	snr := math.Inf(1)
	if errSq > 0 {
		snr = 10 * math.Log10(sumSq/errSq)
	}
	fmt.Printf("%-12s sr=%-6d dur=%-4d target_bytes=%-4d frames=%-4d SNR=%.2f dB\n",
		sc.name, cfg.SampleRate, cfg.FrameDuration, cfg.TargetBytes, sc.frames, snr)
}

// generateSignal builds one frame of a named synthetic test signal.
func generateSignal(kind string, n, frameIdx, sampleRate int) []int32 {
	out := make([]int32, n)
	switch kind {
	case "silence":
		// already zero
	case "impulse":
		if frameIdx == 0 {
			out[0] = 16384
		}
	case "tone":
		const freqHz = 1000.0
		for i := range out {
			t := float64(frameIdx*n+i) / float64(sampleRate)
			out[i] = int32(12000 * math.Sin(2*math.Pi*freqHz*t))
		}
	case "sweep":
		for i := range out {
			t := float64(frameIdx*n+i) / float64(sampleRate)
			freq := 200.0 + 4000.0*t
			out[i] = int32(12000 * math.Sin(2*math.Pi*freq*t))
		}
	case "noise":
		seed := uint32(2463534242 + frameIdx)
		for i := range out {
			seed ^= seed << 13
			seed ^= seed >> 17
			seed ^= seed << 5
			out[i] = int32(seed%8000) - 4000
		}
	}
	return out
}
