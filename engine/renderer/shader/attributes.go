package shader

import (
	"fmt"
	"strings"
)

// AttributeSet describes which optional vertex attributes a mesh primitive
// carries. Position is always present and implicit. The set determines the
// vertex buffer slot assignment, the inter-stage contract, and which shader
// variant a primitive renders with: two primitives with equal sets share one
// compiled pipeline.
type AttributeSet struct {
	HasNormal    bool
	HasTangent   bool
	HasTexCoord0 bool
	HasTexCoord1 bool
	HasColor0    bool
}

// Validate checks the set for contradictions. Tangents are defined relative to
// a normal, so a tangent without a normal is a configuration error.
//
// Returns:
//   - error: an error describing the contradiction, or nil
func (a AttributeSet) Validate() error {
	if a.HasTangent && !a.HasNormal {
		return fmt.Errorf("attribute set declares a tangent without a normal")
	}
	return nil
}

// PositionSlot returns the vertex buffer slot and shader location for positions.
// Positions always occupy slot 0.
//
// Returns:
//   - uint32: the slot index (always 0)
func (a AttributeSet) PositionSlot() uint32 {
	return 0
}

// NormalSlot returns the slot for normals. Only meaningful when HasNormal.
//
// Returns:
//   - uint32: the slot index (always 1)
func (a AttributeSet) NormalSlot() uint32 {
	return 1
}

// TangentSlot returns the slot for tangents. Only meaningful when HasTangent.
//
// Returns:
//   - uint32: the slot index (always 2)
func (a AttributeSet) TangentSlot() uint32 {
	return 2
}

// baseOffset is the first slot available to texture coordinates and colors.
// Normals and tangents, when present, occupy the slots before it.
func (a AttributeSet) baseOffset() uint32 {
	switch {
	case a.HasTangent:
		return 3
	case a.HasNormal:
		return 2
	default:
		return 1
	}
}

// TexCoord0Slot returns the slot for the first UV set. Only meaningful when HasTexCoord0.
//
// Returns:
//   - uint32: the slot index
func (a AttributeSet) TexCoord0Slot() uint32 {
	return a.baseOffset()
}

// TexCoord1Slot returns the slot for the second UV set. Only meaningful when HasTexCoord1.
//
// Returns:
//   - uint32: the slot index
func (a AttributeSet) TexCoord1Slot() uint32 {
	if a.HasTexCoord0 {
		return a.baseOffset() + 1
	}
	return a.baseOffset()
}

// Color0Slot returns the slot for vertex colors. Only meaningful when HasColor0.
//
// Returns:
//   - uint32: the slot index
func (a AttributeSet) Color0Slot() uint32 {
	slot := a.baseOffset()
	if a.HasTexCoord0 {
		slot++
	}
	if a.HasTexCoord1 {
		slot++
	}
	return slot
}

// SlotCount returns the total number of vertex buffer slots the set occupies.
//
// Returns:
//   - uint32: the slot count, including the implicit position slot
func (a AttributeSet) SlotCount() uint32 {
	count := a.baseOffset()
	if a.HasTexCoord0 {
		count++
	}
	if a.HasTexCoord1 {
		count++
	}
	if a.HasColor0 {
		count++
	}
	return count
}

// VariantKey returns a stable string identity for the set, used to key the
// renderer's pipeline cache.
//
// Returns:
//   - string: the variant key, e.g. "primitive:pos+nrm+uv0"
func (a AttributeSet) VariantKey() string {
	var sb strings.Builder
	sb.WriteString("primitive:pos")
	if a.HasNormal {
		sb.WriteString("+nrm")
	}
	if a.HasTangent {
		sb.WriteString("+tan")
	}
	if a.HasTexCoord0 {
		sb.WriteString("+uv0")
	}
	if a.HasTexCoord1 {
		sb.WriteString("+uv1")
	}
	if a.HasColor0 {
		sb.WriteString("+col0")
	}
	return sb.String()
}
