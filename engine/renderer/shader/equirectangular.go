package shader

const equirectangularVertexWGSL = `struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) face_coord: vec2<f32>,
}

@vertex
fn vs_main(@builtin(vertex_index) vertex_index: u32) -> VertexOutput {
    var out: VertexOutput;
    let x = f32((vertex_index << 1u) & 2u) * 2.0 - 1.0;
    let y = f32(vertex_index & 2u) * 2.0 - 1.0;
    out.clip_position = vec4<f32>(x, y, 0.0, 1.0);
    out.face_coord = vec2<f32>(-x, -y);
    return out;
}
`

const equirectangularFragmentWGSL = `struct FaceMapping {
    direction: vec3<f32>,
    u_axis: vec3<f32>,
    v_axis: vec3<f32>,
}

@group(0) @binding(0) var panorama_texture: texture_2d<f32>;
@group(0) @binding(1) var panorama_sampler: sampler;
@group(1) @binding(0) var<uniform> face: FaceMapping;

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) face_coord: vec2<f32>,
}

const PI: f32 = 3.14159265358979;

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let dir = normalize(face.direction + in.face_coord.x * face.u_axis + in.face_coord.y * face.v_axis);
    var u_raw = atan2(dir.z, dir.x);
    if (dir.x == 0.0) {
        u_raw = dir.z * PI / 2.0;
    }
    let u = 0.5 * (u_raw / PI + 1.0);
    let v = asin(clamp(dir.y, -1.0, 1.0)) / PI + 0.5;
    return textureSample(panorama_texture, panorama_sampler, vec2<f32>(u, v));
}
`

// ComposeEquirectangularShaders builds the shader pair that projects an
// equirectangular panorama onto a cubemap face. The vertex shader generates a
// fullscreen triangle from the vertex index, so the pipeline binds no vertex
// buffers, and the fragment shader reconstructs the world direction for each
// texel from the face mapping uniform.
//
// Returns:
//   - Shader: the projection vertex shader
//   - Shader: the projection fragment shader
func ComposeEquirectangularShaders() (Shader, Shader) {
	vertex := NewShader("equirectangular:vertex", ShaderTypeVertex, equirectangularVertexWGSL)
	fragment := NewShader("equirectangular:fragment", ShaderTypeFragment, equirectangularFragmentWGSL,
		WithBindGroupLayout(0, EquirectangularSourceLayout()),
		WithBindGroupLayout(1, EquirectangularFaceLayout()),
	)
	return vertex, fragment
}
