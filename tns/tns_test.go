package tns

import "testing"

func TestRegionsSingleForShortFrame(t *testing.T) {
	r := Regions(160, 3, 2500)
	if len(r) != 1 {
		t.Fatalf("got %d regions, want 1 for a 2.5ms frame", len(r))
	}
}

func TestRegionsTwoForWidebandLongFrame(t *testing.T) {
	r := Regions(160, 3, 10000)
	if len(r) != 2 {
		t.Fatalf("got %d regions, want 2", len(r))
	}
	if r[0].Start != 0 || r[0].Stop != 80 || r[1].Start != 80 || r[1].Stop != 160 {
		t.Fatalf("unexpected region split: %v", r)
	}
}

func TestEncodeDecodeFilterRoundTrip(t *testing.T) {
	orig := []int32{1000, -2000, 3000, -1500, 500, 800, -300, 200, 150, -50}
	region := Region{0, len(orig)}
	filter := Filter{
		Active: true,
		Order:  4,
		Q15:    []int16{3000, -2000, 1500, -500},
	}

	work := make([]int32, len(orig))
	copy(work, orig)
	EncodeFilter(work, region, filter)

	// A non-trivial filter should actually change the values.
	same := true
	for i := range work {
		if work[i] != orig[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("EncodeFilter left the spectrum unchanged")
	}

	DecodeFilter(work, region, filter)
	for i := range work {
		if work[i] != orig[i] {
			t.Fatalf("round trip mismatch at %d: got %d, want %d", i, work[i], orig[i])
		}
	}
}

func TestInactiveFilterIsNoOp(t *testing.T) {
	orig := []int32{1, 2, 3, 4}
	work := make([]int32, len(orig))
	copy(work, orig)
	region := Region{0, len(orig)}
	EncodeFilter(work, region, Filter{Active: false})
	DecodeFilter(work, region, Filter{Active: false})
	for i := range work {
		if work[i] != orig[i] {
			t.Fatalf("inactive filter modified spectrum at %d", i)
		}
	}
}

func TestQuantizeDequantizeRCMonotonic(t *testing.T) {
	prev := DequantizeRC(0)
	for idx := 1; idx < NumLevels; idx++ {
		v := DequantizeRC(idx)
		if v <= prev {
			t.Fatalf("DequantizeRC not strictly increasing at idx=%d: %d <= %d", idx, v, prev)
		}
		prev = v
	}
}

func TestQuantizeRCRoundTripsNearCenter(t *testing.T) {
	idx := QuantizeRC(0)
	if idx != IndexShift {
		t.Fatalf("QuantizeRC(0) = %d, want center index %d", idx, IndexShift)
	}
}
