package shader

import "github.com/cogentcore/webgpu/wgpu"

const skyboxVertexWGSL = `struct Skybox {
    view_projection: mat4x4<f32>,
}
@group(0) @binding(0) var<uniform> skybox: Skybox;

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) direction: vec3<f32>,
}

@vertex
fn vs_main(@location(0) position: vec3<f32>) -> VertexOutput {
    var out: VertexOutput;
    out.direction = position;
    let projected = skybox.view_projection * vec4<f32>(position, 1.0);
    out.clip_position = projected.xyww;
    return out;
}
`

const skyboxFragmentWGSL = `@group(0) @binding(1) var skybox_texture: texture_cube<f32>;
@group(0) @binding(2) var skybox_sampler: sampler;

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) direction: vec3<f32>,
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let color = textureSample(skybox_texture, skybox_sampler, normalize(in.direction)).rgb;
    let mapped = color / (color + vec3<f32>(1.0));
    return vec4<f32>(mapped, 1.0);
}
`

// ComposeSkyboxShaders builds the vertex and fragment shader pair for the
// skybox pass. The vertex shader forces clip z to w so the cube renders at the
// far plane behind every primitive, and the uniform holds a rotation-only view
// matrix multiplied with the projection so the cube follows the camera.
//
// Returns:
//   - Shader: the skybox vertex shader
//   - Shader: the skybox fragment shader
func ComposeSkyboxShaders() (Shader, Shader) {
	vertex := NewShader("skybox:vertex", ShaderTypeVertex, skyboxVertexWGSL,
		WithBindGroupLayout(0, SkyboxLayout()),
		WithVertexLayouts([]wgpu.VertexBufferLayout{
			{
				ArrayStride: 12,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{
						Format:         wgpu.VertexFormatFloat32x3,
						Offset:         0,
						ShaderLocation: 0,
					},
				},
			},
		}),
	)
	fragment := NewShader("skybox:fragment", ShaderTypeFragment, skyboxFragmentWGSL,
		WithBindGroupLayout(0, SkyboxLayout()),
	)
	return vertex, fragment
}
