package mdct

import (
	"testing"

	"github.com/lc3codec/lc3/fixed"
)

func TestAnalyzeSynthesizeShapes(t *testing.T) {
	m := NewMode(40, 0)
	x := make([]int32, 2*40)
	for i := range x {
		x[i] = int32((i % 7) - 3) // small deterministic non-zero signal
	}
	spec := m.Analyze(x, 0)
	if len(spec.M) != 40 {
		t.Fatalf("spectrum length = %d, want 40", len(spec.M))
	}

	mem := NewSynthMem(m)
	out, _ := m.Synthesize(spec, &mem)
	if len(out) != 40 {
		t.Fatalf("synth output length = %d, want 40", len(out))
	}
	if len(mem.M) != 40 {
		t.Fatalf("overlap memory length = %d, want 40", len(mem.M))
	}
}

func TestSilenceRoundTrip(t *testing.T) {
	m := NewMode(60, 0)
	zeros := make([]int32, 2*60)
	mem := NewSynthMem(m)

	for frame := 0; frame < 3; frame++ {
		spec := m.Analyze(zeros, 0)
		for _, c := range spec.M {
			if c != 0 {
				t.Fatalf("frame %d: expected zero spectrum for silent input, got %d", frame, c)
			}
		}
		out, _ := m.Synthesize(spec, &mem)
		for i, v := range out {
			if v != 0 {
				t.Fatalf("frame %d: expected zero output at %d, got %d", frame, i, v)
			}
		}
	}
}

func TestSynthesizeBounded(t *testing.T) {
	m := NewMode(20, 0)
	spec := fixed.Block{M: make([]int32, 20), E: 0}
	for i := range spec.M {
		spec.M[i] = 1 << 20
	}
	mem := NewSynthMem(m)
	out, _ := m.Synthesize(spec, &mem)
	if len(out) != 20 {
		t.Fatalf("synthesize output length = %d, want 20", len(out))
	}
}
