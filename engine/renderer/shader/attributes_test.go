package shader

import "testing"

func TestAttributeSetSlots(t *testing.T) {
	tests := []struct {
		name     string
		set      AttributeSet
		uv0Slot  uint32
		uv1Slot  uint32
		colSlot  uint32
		slots    uint32
		variant  string
	}{
		{
			name:    "position only",
			set:     AttributeSet{},
			slots:   1,
			variant: "primitive:pos",
		},
		{
			name:    "position and normal",
			set:     AttributeSet{HasNormal: true},
			slots:   2,
			variant: "primitive:pos+nrm",
		},
		{
			name:    "uv without normal",
			set:     AttributeSet{HasTexCoord0: true},
			uv0Slot: 1,
			slots:   2,
			variant: "primitive:pos+uv0",
		},
		{
			name:    "normal and uv",
			set:     AttributeSet{HasNormal: true, HasTexCoord0: true},
			uv0Slot: 2,
			slots:   3,
			variant: "primitive:pos+nrm+uv0",
		},
		{
			name:    "full set",
			set:     AttributeSet{HasNormal: true, HasTangent: true, HasTexCoord0: true, HasTexCoord1: true, HasColor0: true},
			uv0Slot: 3,
			uv1Slot: 4,
			colSlot: 5,
			slots:   6,
			variant: "primitive:pos+nrm+tan+uv0+uv1+col0",
		},
		{
			name:    "second uv set only",
			set:     AttributeSet{HasNormal: true, HasTexCoord1: true},
			uv1Slot: 2,
			slots:   3,
			variant: "primitive:pos+nrm+uv1",
		},
		{
			name:    "color after tangent without uvs",
			set:     AttributeSet{HasNormal: true, HasTangent: true, HasColor0: true},
			colSlot: 3,
			slots:   4,
			variant: "primitive:pos+nrm+tan+col0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.set.Validate(); err != nil {
				t.Fatalf("Validate() returned unexpected error: %v", err)
			}
			if got := tt.set.PositionSlot(); got != 0 {
				t.Errorf("PositionSlot() = %d, want 0", got)
			}
			if tt.set.HasTexCoord0 && tt.set.TexCoord0Slot() != tt.uv0Slot {
				t.Errorf("TexCoord0Slot() = %d, want %d", tt.set.TexCoord0Slot(), tt.uv0Slot)
			}
			if tt.set.HasTexCoord1 && tt.set.TexCoord1Slot() != tt.uv1Slot {
				t.Errorf("TexCoord1Slot() = %d, want %d", tt.set.TexCoord1Slot(), tt.uv1Slot)
			}
			if tt.set.HasColor0 && tt.set.Color0Slot() != tt.colSlot {
				t.Errorf("Color0Slot() = %d, want %d", tt.set.Color0Slot(), tt.colSlot)
			}
			if got := tt.set.SlotCount(); got != tt.slots {
				t.Errorf("SlotCount() = %d, want %d", got, tt.slots)
			}
			if got := tt.set.VariantKey(); got != tt.variant {
				t.Errorf("VariantKey() = %q, want %q", got, tt.variant)
			}
		})
	}
}

func TestAttributeSetTangentRequiresNormal(t *testing.T) {
	set := AttributeSet{HasTangent: true}
	if err := set.Validate(); err == nil {
		t.Fatal("Validate() accepted a tangent without a normal")
	}
}

func TestVertexLayoutsMatchSlots(t *testing.T) {
	set := AttributeSet{HasNormal: true, HasTangent: true, HasTexCoord0: true, HasColor0: true}
	layouts := VertexLayoutsFor(set)
	if len(layouts) != int(set.SlotCount()) {
		t.Fatalf("VertexLayoutsFor returned %d layouts, want %d", len(layouts), set.SlotCount())
	}
	for i, layout := range layouts {
		if len(layout.Attributes) != 1 {
			t.Fatalf("layout %d has %d attributes, want 1", i, len(layout.Attributes))
		}
		if got := layout.Attributes[0].ShaderLocation; got != uint32(i) {
			t.Errorf("layout %d shader location = %d, want %d", i, got, i)
		}
	}
	if layouts[2].ArrayStride != 16 {
		t.Errorf("tangent stride = %d, want 16", layouts[2].ArrayStride)
	}
	if layouts[3].ArrayStride != 8 {
		t.Errorf("uv stride = %d, want 8", layouts[3].ArrayStride)
	}
}
