package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithEntryPoint sets the entry point name for the shader, overriding the
// default of "vs_main" for vertex shaders and "fs_main" for fragment shaders.
//
// Parameters:
//   - entryPoint: the entry point function name in the WGSL source
//
// Returns:
//   - ShaderBuilderOption: a function that sets the entry point for this shader
func WithEntryPoint(entryPoint string) ShaderBuilderOption {
	return func(s *shader) {
		s.entryPoint = entryPoint
	}
}

// WithBindGroupLayout sets the bind group layout descriptor for a specific group index.
//
// Parameters:
//   - group: the bind group index the descriptor applies to
//   - descriptor: the bind group layout descriptor for the group
//
// Returns:
//   - ShaderBuilderOption: a function that sets the bind group layout descriptor for this shader
func WithBindGroupLayout(group int, descriptor wgpu.BindGroupLayoutDescriptor) ShaderBuilderOption {
	return func(s *shader) {
		s.bindGroupLayoutDescriptors[group] = descriptor
	}
}

// WithVertexLayouts sets the vertex buffer layouts for the shader, one layout
// per vertex buffer slot in slot order.
//
// Parameters:
//   - layouts: the vertex buffer layouts to use for this shader
//
// Returns:
//   - ShaderBuilderOption: a function that sets the vertex buffer layouts for this shader
func WithVertexLayouts(layouts []wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts = layouts
	}
}
