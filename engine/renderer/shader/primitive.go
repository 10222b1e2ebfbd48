package shader

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// cameraStructWGSL is shared by every shader that binds the camera uniform.
// Field order matches the GPU camera uniform layout.
const cameraStructWGSL = `struct Camera {
    position: vec3<f32>,
    view_projection: mat4x4<f32>,
}
`

const materialStructWGSL = `struct Material {
    base_color_factor: vec4<f32>,
    metallic_factor: f32,
    roughness_factor: f32,
}
`

const fresnelWGSL = `fn fresnel_schlick_roughness(cos_theta: f32, f0: vec3<f32>, roughness: f32) -> vec3<f32> {
    return f0 + (max(vec3<f32>(1.0 - roughness), f0) - f0) * pow(clamp(1.0 - cos_theta, 0.0, 1.0), 5.0);
}
`

// ComposePrimitiveShaders builds the vertex and fragment shader pair for a
// mesh primitive variant. The WGSL source is generated from the attribute set
// so that each variant declares exactly the vertex inputs its buffers provide,
// while every variant shares the same bind group layouts.
//
// Parameters:
//   - set: the vertex attribute set describing the variant
//
// Returns:
//   - Shader: the vertex shader for the variant
//   - Shader: the fragment shader for the variant
//   - error: an error if the attribute set is contradictory
func ComposePrimitiveShaders(set AttributeSet) (Shader, Shader, error) {
	if err := set.Validate(); err != nil {
		return nil, nil, err
	}

	key := set.VariantKey()
	vertex := NewShader(key+":vertex", ShaderTypeVertex, composePrimitiveVertexSource(set),
		WithBindGroupLayout(GroupViewEnvironment, ViewEnvironmentLayout()),
		WithBindGroupLayout(GroupInstance, InstanceLayout()),
		WithVertexLayouts(VertexLayoutsFor(set)),
	)
	fragment := NewShader(key+":fragment", ShaderTypeFragment, composePrimitiveFragmentSource(set),
		WithBindGroupLayout(GroupViewEnvironment, ViewEnvironmentLayout()),
		WithBindGroupLayout(GroupMaterial, MaterialLayout()),
	)
	return vertex, fragment, nil
}

// VertexLayoutsFor returns the vertex buffer layouts for an attribute set, one
// tightly packed buffer per slot in slot order. Shader locations equal slot
// indices.
//
// Parameters:
//   - set: the vertex attribute set
//
// Returns:
//   - []wgpu.VertexBufferLayout: the per-slot vertex buffer layouts
func VertexLayoutsFor(set AttributeSet) []wgpu.VertexBufferLayout {
	layout := func(slot uint32, format wgpu.VertexFormat, stride uint64) wgpu.VertexBufferLayout {
		return wgpu.VertexBufferLayout{
			ArrayStride: stride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{
					Format:         format,
					Offset:         0,
					ShaderLocation: slot,
				},
			},
		}
	}

	layouts := make([]wgpu.VertexBufferLayout, 0, set.SlotCount())
	layouts = append(layouts, layout(set.PositionSlot(), wgpu.VertexFormatFloat32x3, 12))
	if set.HasNormal {
		layouts = append(layouts, layout(set.NormalSlot(), wgpu.VertexFormatFloat32x3, 12))
	}
	if set.HasTangent {
		layouts = append(layouts, layout(set.TangentSlot(), wgpu.VertexFormatFloat32x4, 16))
	}
	if set.HasTexCoord0 {
		layouts = append(layouts, layout(set.TexCoord0Slot(), wgpu.VertexFormatFloat32x2, 8))
	}
	if set.HasTexCoord1 {
		layouts = append(layouts, layout(set.TexCoord1Slot(), wgpu.VertexFormatFloat32x2, 8))
	}
	if set.HasColor0 {
		layouts = append(layouts, layout(set.Color0Slot(), wgpu.VertexFormatFloat32x4, 16))
	}
	return layouts
}

// interStageStructWGSL writes the VertexOutput struct shared by both stages of
// a variant. Inter-stage locations are assigned sequentially and are
// independent of vertex buffer slots.
func interStageStructWGSL(sb *strings.Builder, set AttributeSet) {
	sb.WriteString("struct VertexOutput {\n")
	sb.WriteString("    @builtin(position) clip_position: vec4<f32>,\n")
	location := 0
	field := func(name, wgslType string) {
		fmt.Fprintf(sb, "    @location(%d) %s: %s,\n", location, name, wgslType)
		location++
	}
	field("world_position", "vec3<f32>")
	if set.HasNormal {
		field("world_normal", "vec3<f32>")
	}
	if set.HasTangent {
		field("world_tangent", "vec4<f32>")
	}
	if set.HasTexCoord0 {
		field("uv0", "vec2<f32>")
	}
	if set.HasTexCoord1 {
		field("uv1", "vec2<f32>")
	}
	if set.HasColor0 {
		field("color0", "vec4<f32>")
	}
	sb.WriteString("}\n")
}

func composePrimitiveVertexSource(set AttributeSet) string {
	var sb strings.Builder
	sb.WriteString(cameraStructWGSL)
	sb.WriteString(`struct Transform {
    model: mat4x4<f32>,
}
`)
	sb.WriteString("@group(0) @binding(0) var<uniform> camera: Camera;\n")
	sb.WriteString("@group(1) @binding(0) var<uniform> transform: Transform;\n\n")

	sb.WriteString("struct VertexInput {\n")
	fmt.Fprintf(&sb, "    @location(%d) position: vec3<f32>,\n", set.PositionSlot())
	if set.HasNormal {
		fmt.Fprintf(&sb, "    @location(%d) normal: vec3<f32>,\n", set.NormalSlot())
	}
	if set.HasTangent {
		fmt.Fprintf(&sb, "    @location(%d) tangent: vec4<f32>,\n", set.TangentSlot())
	}
	if set.HasTexCoord0 {
		fmt.Fprintf(&sb, "    @location(%d) uv0: vec2<f32>,\n", set.TexCoord0Slot())
	}
	if set.HasTexCoord1 {
		fmt.Fprintf(&sb, "    @location(%d) uv1: vec2<f32>,\n", set.TexCoord1Slot())
	}
	if set.HasColor0 {
		fmt.Fprintf(&sb, "    @location(%d) color0: vec4<f32>,\n", set.Color0Slot())
	}
	sb.WriteString("}\n\n")

	interStageStructWGSL(&sb, set)

	sb.WriteString(`
@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    let world_position = transform.model * vec4<f32>(in.position, 1.0);
    out.world_position = world_position.xyz;
    out.clip_position = camera.view_projection * world_position;
`)
	if set.HasNormal {
		sb.WriteString("    out.world_normal = normalize((transform.model * vec4<f32>(in.normal, 0.0)).xyz);\n")
	}
	if set.HasTangent {
		sb.WriteString("    out.world_tangent = vec4<f32>(normalize((transform.model * vec4<f32>(in.tangent.xyz, 0.0)).xyz), in.tangent.w);\n")
	}
	if set.HasTexCoord0 {
		sb.WriteString("    out.uv0 = in.uv0;\n")
	}
	if set.HasTexCoord1 {
		sb.WriteString("    out.uv1 = in.uv1;\n")
	}
	if set.HasColor0 {
		sb.WriteString("    out.color0 = in.color0;\n")
	}
	sb.WriteString("    return out;\n}\n")
	return sb.String()
}

// sampleUV returns the WGSL expression for the coordinate material textures
// sample with. The first UV set wins when both are present.
func sampleUV(set AttributeSet) string {
	if set.HasTexCoord0 {
		return "in.uv0"
	}
	return "in.uv1"
}

func composePrimitiveFragmentSource(set AttributeSet) string {
	hasUV := set.HasTexCoord0 || set.HasTexCoord1

	var sb strings.Builder
	sb.WriteString(cameraStructWGSL)
	sb.WriteString(materialStructWGSL)
	sb.WriteString(`@group(0) @binding(0) var<uniform> camera: Camera;
@group(0) @binding(1) var ibl_diffuse_texture: texture_cube<f32>;
@group(0) @binding(2) var ibl_diffuse_sampler: sampler;
@group(0) @binding(3) var ibl_specular_texture: texture_cube<f32>;
@group(0) @binding(4) var ibl_specular_sampler: sampler;
@group(0) @binding(5) var brdf_lut_texture: texture_2d<f32>;
@group(0) @binding(6) var brdf_lut_sampler: sampler;
@group(2) @binding(0) var<uniform> material: Material;
@group(2) @binding(1) var base_color_texture: texture_2d<f32>;
@group(2) @binding(2) var base_color_sampler: sampler;
@group(2) @binding(3) var metallic_roughness_texture: texture_2d<f32>;
@group(2) @binding(4) var metallic_roughness_sampler: sampler;

`)
	interStageStructWGSL(&sb, set)
	sb.WriteString("\n")
	sb.WriteString(fresnelWGSL)

	sb.WriteString(`
@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    var base_color = material.base_color_factor;
`)
	if hasUV {
		fmt.Fprintf(&sb, "    base_color = base_color * textureSample(base_color_texture, base_color_sampler, %s);\n", sampleUV(set))
	}
	if set.HasColor0 {
		sb.WriteString("    base_color = base_color * in.color0;\n")
	}

	if !set.HasNormal {
		// Without a normal there is no shading frame, so the surface is
		// rendered unlit with the same tone mapping as the lit path.
		sb.WriteString(`    let mapped = base_color.rgb / (base_color.rgb + vec3<f32>(1.0));
    return vec4<f32>(mapped, 1.0);
}
`)
		return sb.String()
	}

	sb.WriteString(`    var metallic = material.metallic_factor;
    var roughness = material.roughness_factor;
`)
	if hasUV {
		fmt.Fprintf(&sb, `    let mr = textureSample(metallic_roughness_texture, metallic_roughness_sampler, %s);
    roughness = roughness * mr.g;
    metallic = metallic * mr.b;
`, sampleUV(set))
	}
	sb.WriteString(`
    let albedo = base_color.rgb;
    let n = normalize(in.world_normal);
    let v = normalize(camera.position - in.world_position);
    let n_dot_v = max(dot(n, v), 0.0);

    let f0 = mix(vec3<f32>(0.04), albedo, metallic);
    let f = fresnel_schlick_roughness(n_dot_v, f0, roughness);
    let k_d = (vec3<f32>(1.0) - f) * (1.0 - metallic);

    let irradiance = textureSample(ibl_diffuse_texture, ibl_diffuse_sampler, n).rgb;
    let diffuse = irradiance * albedo;

    let r = reflect(-v, n);
    let mip_count = f32(textureNumLevels(ibl_specular_texture));
    let prefiltered = textureSampleLevel(ibl_specular_texture, ibl_specular_sampler, r, roughness * mip_count).rgb;
    let brdf = textureSample(brdf_lut_texture, brdf_lut_sampler, vec2<f32>(n_dot_v, roughness)).rg;
    let specular = prefiltered * (f * brdf.x + brdf.y);

    let color = k_d * diffuse + specular;
    let mapped = color / (color + vec3<f32>(1.0));
    return vec4<f32>(mapped, 1.0);
}
`)
	return sb.String()
}
