package model

import (
	"github.com/avrand/glint/engine/renderer/material"
)

// ModelBuilderOption is a functional option applied to a model during construction via NewModel.
type ModelBuilderOption func(*model)

// WithName sets the model identifier.
//
// Parameters:
//   - name: the model name
//
// Returns:
//   - ModelBuilderOption: a function that sets the model name
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithNodes sets the node list and root indices.
//
// Parameters:
//   - nodes: the full node list
//   - roots: indices of nodes with no parent
//
// Returns:
//   - ModelBuilderOption: a function that sets the node hierarchy
func WithNodes(nodes []*Node, roots []int) ModelBuilderOption {
	return func(m *model) {
		m.nodes = nodes
		m.roots = roots
	}
}

// WithMeshes sets the mesh list.
//
// Parameters:
//   - meshes: the meshes referenced by nodes
//
// Returns:
//   - ModelBuilderOption: a function that sets the meshes
func WithMeshes(meshes []*Mesh) ModelBuilderOption {
	return func(m *model) {
		m.meshes = meshes
	}
}

// WithMaterials sets the render-ready material list.
//
// Parameters:
//   - mats: the materials referenced by primitives
//
// Returns:
//   - ModelBuilderOption: a function that sets the materials
func WithMaterials(mats []material.Material) ModelBuilderOption {
	return func(m *model) {
		m.materials = mats
	}
}
