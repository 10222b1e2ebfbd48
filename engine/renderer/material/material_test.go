package material

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial()
	if got := m.BaseColorFactor(); got != [4]float32{1, 1, 1, 1} {
		t.Errorf("BaseColorFactor() = %v, want opaque white", got)
	}
	if m.Metallic() != 1.0 {
		t.Errorf("Metallic() = %v, want 1.0", m.Metallic())
	}
	if m.Roughness() != 1.0 {
		t.Errorf("Roughness() = %v, want 1.0", m.Roughness())
	}
	if m.BaseColorTexture() != nil {
		t.Error("BaseColorTexture() is non-nil for a default material")
	}
}

func TestGPUMaterialParamsMarshal(t *testing.T) {
	m := NewMaterial(
		WithBaseColorFactor([4]float32{0.5, 0.25, 1, 1}),
		WithMetallic(0.75),
		WithRoughness(0.125),
	)
	params := m.Params()
	if params.Size() != 32 {
		t.Fatalf("Size() = %d, want 32", params.Size())
	}

	buf := params.Marshal()
	if len(buf) != 32 {
		t.Fatalf("Marshal() produced %d bytes, want 32", len(buf))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])); got != 0.25 {
		t.Errorf("base color green channel = %v, want 0.25", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[16:20])); got != 0.75 {
		t.Errorf("metallic = %v, want 0.75", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[20:24])); got != 0.125 {
		t.Errorf("roughness = %v, want 0.125", got)
	}
}
