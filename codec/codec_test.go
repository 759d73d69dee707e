package codec

import "testing"

func validConfig() Config {
	return Config{
		SampleRate:    Rate16k,
		FrameDuration: Duration100,
		TargetBytes:   40,
	}
}

func TestConfigValidateAcceptsSupportedCombo(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestConfigValidateRejectsUnsupportedRate(t *testing.T) {
	cfg := validConfig()
	cfg.SampleRate = 44100
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported sample rate")
	}
}

func TestConfigValidateRejectsUnsupportedDuration(t *testing.T) {
	cfg := validConfig()
	cfg.FrameDuration = 75
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported frame duration")
	}
}

func TestConfigValidateRejectsNonPositiveTargetBytes(t *testing.T) {
	cfg := validConfig()
	cfg.TargetBytes = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive target_bytes")
	}
}

func TestOpenRefusesInvalidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.SampleRate = 0
	if _, err := Open(cfg); err == nil {
		t.Fatal("expected Open to refuse an invalid config")
	}
}

func TestEncodeDecodeFrameRoundTrips(t *testing.T) {
	cfg := validConfig()
	enc, err := OpenEncoder(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer enc.Close()

	dec, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open decoder: %v", err)
	}
	defer dec.Close()

	n := cfg.FrameSamples()
	pcm := make([]int32, n)
	for i := range pcm {
		if i%20 < 10 {
			pcm[i] = 8000
		} else {
			pcm[i] = -8000
		}
	}

	frame := enc.EncodeFrame(pcm)
	out, _ := dec.DecodeFrame(frame)
	if len(out) != n {
		t.Fatalf("expected %d decoded samples, got %d", n, len(out))
	}
}

func TestConcealProducesFrameSamples(t *testing.T) {
	cfg := validConfig()
	dec, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dec.Close()

	out := dec.Conceal(int(cfg.FrameDuration) / 10)
	if len(out) != cfg.FrameSamples() {
		t.Fatalf("expected %d concealed samples, got %d", cfg.FrameSamples(), len(out))
	}
}

func TestConcealDampensAcrossBurst(t *testing.T) {
	cfg := validConfig()
	dec, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dec.Close()

	n := cfg.FrameSamples()
	pcm := make([]int32, n)
	for i := range pcm {
		pcm[i] = 6000
	}
	dec.lastGoodResidual = pcm
	dec.lastGoodPitchLag = 0

	var prevEnergy, energy int64 = -1, 0
	for i := 0; i < 5; i++ {
		out := dec.Conceal(10)
		energy = 0
		for _, v := range out {
			energy += int64(v) * int64(v)
		}
		if prevEnergy >= 0 && energy > prevEnergy {
			t.Fatalf("expected non-increasing concealed energy, frame %d went from %d to %d", i, prevEnergy, energy)
		}
		prevEnergy = energy
	}
}
