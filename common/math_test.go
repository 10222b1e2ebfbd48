package common

import (
	"math"
	"testing"
)

func TestSliceToBytesLength(t *testing.T) {
	data := []float32{1, 2, 3, 4}
	b := SliceToBytes(data)
	if len(b) != 16 {
		t.Errorf("expected 16 bytes, got %d", len(b))
	}
	if b = SliceToBytes([]float32{}); b != nil {
		t.Errorf("expected nil for empty slice, got %v", b)
	}
}

func TestStructToBytesSize(t *testing.T) {
	type uniform struct {
		A [4]float32
		B float32
		C float32
		_ uint64
	}
	u := uniform{}
	if got := len(StructToBytes(&u)); got != 32 {
		t.Errorf("expected 32 bytes, got %d", got)
	}
}

func TestFloat16RoundTrip(t *testing.T) {
	values := []float32{0, 1, -1, 0.5, 2, 0.25, 65504, -65504, 0.000061035156}
	for _, v := range values {
		h := Float32ToFloat16(v)
		back := Float16ToFloat32(h)
		if back != v {
			t.Errorf("round trip of %v produced %v", v, back)
		}
	}
}

func TestFloat16Rounding(t *testing.T) {
	// 0.1 is not representable in half precision; the round trip must stay
	// within one ULP at that magnitude (~0.000049).
	h := Float32ToFloat16(0.1)
	back := Float16ToFloat32(h)
	if diff := math.Abs(float64(back) - 0.1); diff > 1e-4 {
		t.Errorf("0.1 round trip drifted by %v", diff)
	}
}

func TestFloat16Overflow(t *testing.T) {
	h := Float32ToFloat16(1e9)
	if h != 0x7c00 {
		t.Errorf("expected +Inf bit pattern 0x7c00, got %#04x", h)
	}
	h = Float32ToFloat16(-1e9)
	if h != 0xfc00 {
		t.Errorf("expected -Inf bit pattern 0xfc00, got %#04x", h)
	}
}

func TestFloat16Slice(t *testing.T) {
	out := Float32ToFloat16Slice([]float32{0, 1, -2})
	want := []uint16{0x0000, 0x3c00, 0xc000}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("index %d: expected %#04x, got %#04x", i, want[i], out[i])
		}
	}
}
