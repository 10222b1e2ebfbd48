package model

import (
	"github.com/avrand/glint/engine/renderer/bind_group_provider"
	"github.com/avrand/glint/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// --- Mesh Types ---

// Primitive is a single drawable piece of a mesh: one attribute layout, one
// material, one set of GPU buffers. Vertex data is stored one tightly packed
// buffer per attribute slot, in slot order.
type Primitive struct {
	// Attributes describes which optional vertex attributes are present.
	// It selects the shader variant and the vertex buffer slot layout.
	Attributes shader.AttributeSet

	// VertexData holds the raw vertex bytes per attribute slot, in slot order.
	VertexData [][]byte

	// VertexCount is the number of vertices in each slot buffer.
	VertexCount int

	// IndexData holds the raw 32-bit index bytes, or nil for non-indexed geometry.
	IndexData []byte

	// IndexCount is the number of indices in IndexData.
	IndexCount int

	// MaterialIndex selects the material from the model's material list.
	MaterialIndex int

	// MeshProvider holds the GPU vertex and index buffers once uploaded.
	MeshProvider bind_group_provider.BindGroupProvider
}

// Mesh is a named collection of primitives referenced by nodes.
type Mesh struct {
	// Name is the mesh identifier from the source file.
	Name string

	// Primitives are the drawable pieces of this mesh.
	Primitives []*Primitive
}

// --- Node Types ---

// Node is one element of the scene hierarchy. Its world transform is the
// composition of every ancestor's local transform with its own.
type Node struct {
	// Name is the node identifier from the source file.
	Name string

	// LocalTransform is the node's transform relative to its parent.
	LocalTransform mgl32.Mat4

	// WorldTransform is the composed model matrix, valid after
	// Model.UpdateWorldTransforms.
	WorldTransform mgl32.Mat4

	// MeshIndex selects the mesh this node draws, or -1 for a pure grouping node.
	MeshIndex int

	// Children are indices into the model's node list.
	Children []int

	// TransformProvider holds the GPU transform uniform for this node's
	// instance bind group once uploaded.
	TransformProvider bind_group_provider.BindGroupProvider
}
