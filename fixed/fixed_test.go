package fixed

import "testing"

func TestSatAdd16Saturates(t *testing.T) {
	if got := SatAdd16(maxInt16, 1); got != maxInt16 {
		t.Errorf("SatAdd16 overflow: got %d want %d", got, maxInt16)
	}
	if got := SatAdd16(minInt16, -1); got != minInt16 {
		t.Errorf("SatAdd16 underflow: got %d want %d", got, minInt16)
	}
}

func TestSatAdd32Saturates(t *testing.T) {
	if got := SatAdd32(maxInt32, 1); got != maxInt32 {
		t.Errorf("SatAdd32 overflow: got %d want %d", got, maxInt32)
	}
}

func TestShiftRoundTrip(t *testing.T) {
	x := int32(12345)
	if got := ShiftR32(ShiftL32(x, 5), 5); got != x {
		t.Errorf("shift round trip: got %d want %d", got, x)
	}
	// Negative shift counts mean the opposite direction.
	if got := ShiftL32(x, -5); got != ShiftR32(x, 5) {
		t.Errorf("negative ShiftL32 should equal ShiftR32: %d vs %d", got, ShiftR32(x, 5))
	}
}

func TestRoundShiftR32(t *testing.T) {
	if got := RoundShiftR32(3, 1); got != 2 {
		t.Errorf("RoundShiftR32(3,1) = %d, want 2 (round half up)", got)
	}
	if got := RoundShiftR32(4, 1); got != 2 {
		t.Errorf("RoundShiftR32(4,1) = %d, want 2", got)
	}
}

func TestNormShiftCount(t *testing.T) {
	if got := NormShiftCount(0); got != 31 {
		t.Errorf("NormShiftCount(0) = %d, want 31", got)
	}
	if got := NormShiftCount(1); got != 30 {
		t.Errorf("NormShiftCount(1) = %d, want 30", got)
	}
	if got := NormShiftCount(-1); got != 31 {
		t.Errorf("NormShiftCount(-1) = %d, want 31", got)
	}
	if got := NormShiftCount(maxInt32); got != 0 {
		t.Errorf("NormShiftCount(maxInt32) = %d, want 0", got)
	}
}

func TestNormalizeVecNoOverflow(t *testing.T) {
	v := []int32{100, -200, 300, 0}
	shift := NormalizeVec(v)
	for _, x := range v {
		if x > maxInt32 || x < minInt32 {
			t.Fatalf("normalized value out of range: %d", x)
		}
	}
	if shift < 0 {
		t.Fatalf("negative normalize shift: %d", shift)
	}
}

func TestISqrt32Exact(t *testing.T) {
	cases := []uint32{0, 1, 2, 3, 4, 15, 16, 1000000, 0xFFFFFFFF}
	for _, v := range cases {
		got := ISqrt32(v)
		if got*got > v {
			t.Errorf("ISqrt32(%d) = %d, square %d exceeds input", v, got, got*got)
		}
		if (got+1)*(got+1) <= got*got {
			continue // overflow guard for v near max uint32
		}
		if uint64(got+1)*uint64(got+1) <= uint64(v) {
			t.Errorf("ISqrt32(%d) = %d is not the floor root", v, got)
		}
	}
}

func TestAlignShiftsLowerExponent(t *testing.T) {
	src := []int32{1000, -2000}
	shifted := Align(src, 0, 3)
	if shifted != 3 {
		t.Errorf("Align shift = %d, want 3", shifted)
	}
	if src[0] != 125 {
		t.Errorf("Align src[0] = %d, want 125", src[0])
	}
}
