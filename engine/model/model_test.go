package model

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestUpdateWorldTransforms(t *testing.T) {
	nodes := []*Node{
		{Name: "root", LocalTransform: mgl32.Translate3D(1, 0, 0), MeshIndex: -1, Children: []int{1, 2}},
		{Name: "child_a", LocalTransform: mgl32.Translate3D(0, 2, 0), MeshIndex: 0},
		{Name: "child_b", LocalTransform: mgl32.Scale3D(2, 2, 2), MeshIndex: -1, Children: []int{3}},
		{Name: "grandchild", LocalTransform: mgl32.Translate3D(0, 0, 3), MeshIndex: 0},
	}
	m := NewModel(WithName("hierarchy"), WithNodes(nodes, []int{0}))

	got := m.Nodes()[1].WorldTransform.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if got.X() != 1 || got.Y() != 2 || got.Z() != 0 {
		t.Errorf("child_a origin = %v, want (1, 2, 0)", got)
	}

	// grandchild: root translate, then scale by 2, then translate (0,0,3).
	got = m.Nodes()[3].WorldTransform.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if got.X() != 1 || got.Y() != 0 || got.Z() != 6 {
		t.Errorf("grandchild origin = %v, want (1, 0, 6)", got)
	}
}

func TestPrimitiveCount(t *testing.T) {
	m := NewModel(WithMeshes([]*Mesh{
		{Name: "a", Primitives: []*Primitive{{}, {}}},
		{Name: "b", Primitives: []*Primitive{{}}},
	}))
	if m.PrimitiveCount() != 3 {
		t.Errorf("primitive count = %d, want 3", m.PrimitiveCount())
	}
}

func TestGPUTransformUniformMarshal(t *testing.T) {
	u := GPUTransformUniform{Model: mgl32.Translate3D(4, 5, 6)}
	if u.Size() != 64 {
		t.Fatalf("uniform size = %d, want 64", u.Size())
	}

	buf := u.Marshal()
	if len(buf) != 64 {
		t.Fatalf("marshaled length = %d, want 64", len(buf))
	}
	// Column-major: the translation column starts at element 12.
	tx := math.Float32frombits(uint32(buf[48]) | uint32(buf[49])<<8 | uint32(buf[50])<<16 | uint32(buf[51])<<24)
	if tx != 4 {
		t.Errorf("translation x = %v, want 4", tx)
	}
}
