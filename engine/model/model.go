package model

import (
	"github.com/avrand/glint/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// model is the implementation of the Model interface.
type model struct {
	name      string
	nodes     []*Node
	roots     []int
	meshes    []*Mesh
	materials []material.Material
}

// Model is a GPU-ready container for a loaded asset: the node hierarchy,
// meshes split into attribute-homogeneous primitives, and the render
// materials they reference. It is produced by the Loader after importing
// and processing an asset file.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Nodes retrieves the full node list. Children reference nodes by index
	// into this list.
	//
	// Returns:
	//   - []*Node: the node list
	Nodes() []*Node

	// Roots retrieves the indices of nodes with no parent.
	//
	// Returns:
	//   - []int: the root node indices
	Roots() []int

	// Meshes retrieves the mesh list referenced by nodes via MeshIndex.
	//
	// Returns:
	//   - []*Mesh: the mesh list
	Meshes() []*Mesh

	// Materials retrieves the render-ready materials referenced by primitives
	// via MaterialIndex.
	//
	// Returns:
	//   - []material.Material: the materials
	Materials() []material.Material

	// SetMaterials replaces the render-ready material list.
	//
	// Parameters:
	//   - mats: the materials to set
	SetMaterials(mats []material.Material)

	// PrimitiveCount returns the total number of primitives across all meshes.
	//
	// Returns:
	//   - int: the primitive count
	PrimitiveCount() int

	// UpdateWorldTransforms recomputes every node's WorldTransform by walking
	// the hierarchy from the roots, composing parent world transforms with
	// node local transforms.
	UpdateWorldTransforms()
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	m.UpdateWorldTransforms()
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Nodes() []*Node {
	return m.nodes
}

func (m *model) Roots() []int {
	return m.roots
}

func (m *model) Meshes() []*Mesh {
	return m.meshes
}

func (m *model) Materials() []material.Material {
	return m.materials
}

func (m *model) SetMaterials(mats []material.Material) {
	m.materials = mats
}

func (m *model) PrimitiveCount() int {
	count := 0
	for _, mesh := range m.meshes {
		count += len(mesh.Primitives)
	}
	return count
}

func (m *model) UpdateWorldTransforms() {
	for _, root := range m.roots {
		m.composeWorld(root, mgl32.Ident4())
	}
}

// composeWorld walks the subtree at nodeIndex, composing parent world
// transforms with local transforms depth-first.
func (m *model) composeWorld(nodeIndex int, parentWorld mgl32.Mat4) {
	node := m.nodes[nodeIndex]
	node.WorldTransform = parentWorld.Mul4(node.LocalTransform)
	for _, child := range node.Children {
		m.composeWorld(child, node.WorldTransform)
	}
}
