package shader

import (
	"math"
	"strings"
	"testing"
)

func TestComposePrimitiveShadersLitVariant(t *testing.T) {
	set := AttributeSet{HasNormal: true, HasTexCoord0: true}
	vertex, fragment, err := ComposePrimitiveShaders(set)
	if err != nil {
		t.Fatalf("ComposePrimitiveShaders returned error: %v", err)
	}

	if vertex.ShaderType() != ShaderTypeVertex {
		t.Errorf("vertex shader type = %v, want ShaderTypeVertex", vertex.ShaderType())
	}
	if vertex.EntryPoint() != "vs_main" {
		t.Errorf("vertex entry point = %q, want vs_main", vertex.EntryPoint())
	}
	if fragment.EntryPoint() != "fs_main" {
		t.Errorf("fragment entry point = %q, want fs_main", fragment.EntryPoint())
	}

	vs := vertex.Source()
	for _, want := range []string{
		"@location(0) position: vec3<f32>",
		"@location(1) normal: vec3<f32>",
		"@location(2) uv0: vec2<f32>",
		"camera.view_projection * world_position",
	} {
		if !strings.Contains(vs, want) {
			t.Errorf("vertex source missing %q", want)
		}
	}
	if strings.Contains(vs, "tangent") {
		t.Error("vertex source declares a tangent for a variant without one")
	}

	fs := fragment.Source()
	for _, want := range []string{
		"fresnel_schlick_roughness",
		"textureNumLevels(ibl_specular_texture)",
		"textureSampleLevel(ibl_specular_texture",
		"mix(vec3<f32>(0.04), albedo, metallic)",
		"roughness = roughness * mr.g",
		"metallic = metallic * mr.b",
		"f * brdf.x + brdf.y",
		"color / (color + vec3<f32>(1.0))",
	} {
		if !strings.Contains(fs, want) {
			t.Errorf("fragment source missing %q", want)
		}
	}
}

func TestComposePrimitiveShadersUnlitVariant(t *testing.T) {
	_, fragment, err := ComposePrimitiveShaders(AttributeSet{HasTexCoord0: true})
	if err != nil {
		t.Fatalf("ComposePrimitiveShaders returned error: %v", err)
	}

	fs := fragment.Source()
	if strings.Contains(fs, "fresnel_schlick_roughness(") && strings.Contains(fs, "let f = fresnel") {
		t.Error("unlit fragment source evaluates the lighting model")
	}
	if strings.Contains(fs, "world_normal") {
		t.Error("unlit fragment source references a normal")
	}
	if !strings.Contains(fs, "textureSample(base_color_texture, base_color_sampler, in.uv0)") {
		t.Error("unlit fragment source does not sample the base color texture")
	}
	if !strings.Contains(fs, "base_color.rgb / (base_color.rgb + vec3<f32>(1.0))") {
		t.Error("unlit fragment source skips tone mapping")
	}
}

func TestComposePrimitiveShadersVertexColor(t *testing.T) {
	_, fragment, err := ComposePrimitiveShaders(AttributeSet{HasNormal: true, HasColor0: true})
	if err != nil {
		t.Fatalf("ComposePrimitiveShaders returned error: %v", err)
	}
	fs := fragment.Source()
	if !strings.Contains(fs, "base_color = base_color * in.color0") {
		t.Error("fragment source does not multiply the vertex color into the base color")
	}
	if strings.Contains(fs, "textureSample(base_color_texture") {
		t.Error("fragment source samples the base color texture without UVs")
	}
}

func TestComposePrimitiveShadersSecondUVFallback(t *testing.T) {
	_, fragment, err := ComposePrimitiveShaders(AttributeSet{HasNormal: true, HasTexCoord1: true})
	if err != nil {
		t.Fatalf("ComposePrimitiveShaders returned error: %v", err)
	}
	if !strings.Contains(fragment.Source(), "base_color_sampler, in.uv1)") {
		t.Error("fragment source does not fall back to the second UV set")
	}
}

func TestComposePrimitiveShadersRejectsInvalidSet(t *testing.T) {
	if _, _, err := ComposePrimitiveShaders(AttributeSet{HasTangent: true}); err == nil {
		t.Fatal("ComposePrimitiveShaders accepted a tangent without a normal")
	}
}

func TestComposePrimitiveShadersLayouts(t *testing.T) {
	set := AttributeSet{HasNormal: true}
	vertex, fragment, err := ComposePrimitiveShaders(set)
	if err != nil {
		t.Fatalf("ComposePrimitiveShaders returned error: %v", err)
	}
	if got := len(vertex.VertexLayouts()); got != 2 {
		t.Errorf("vertex shader has %d vertex layouts, want 2", got)
	}
	if got := len(fragment.VertexLayouts()); got != 0 {
		t.Errorf("fragment shader has %d vertex layouts, want 0", got)
	}

	env := vertex.BindGroupLayoutDescriptor(GroupViewEnvironment)
	if len(env.Entries) != 7 {
		t.Errorf("view environment layout has %d entries, want 7", len(env.Entries))
	}
	mat := fragment.BindGroupLayoutDescriptor(GroupMaterial)
	if len(mat.Entries) != 5 {
		t.Errorf("material layout has %d entries, want 5", len(mat.Entries))
	}
	if inst := vertex.BindGroupLayoutDescriptor(GroupInstance); len(inst.Entries) != 1 {
		t.Errorf("instance layout has %d entries, want 1", len(inst.Entries))
	}
}

// Per-channel mirrors of the expressions the fragment stage emits. They keep
// the numeric behavior pinned where the source substring checks cannot.

func fresnelSchlickRoughness(cosTheta, f0, roughness float32) float32 {
	maxTerm := 1 - roughness
	if f0 > maxTerm {
		maxTerm = f0
	}
	base := 1 - cosTheta
	if base < 0 {
		base = 0
	} else if base > 1 {
		base = 1
	}
	return f0 + (maxTerm-f0)*float32(math.Pow(float64(base), 5))
}

func mixChannel(a, b, t float32) float32 {
	return a + (b-a)*t
}

func reinhard(c float32) float32 {
	return c / (c + 1)
}

func TestFresnelSchlickRoughnessChannel(t *testing.T) {
	const f0 = 0.04

	if got := fresnelSchlickRoughness(1, f0, 0.5); got != f0 {
		t.Errorf("fresnel at head-on incidence = %v, want %v", got, f0)
	}
	// Clamping keeps over-unity cosines from going below the base reflectance.
	if got := fresnelSchlickRoughness(1.5, f0, 0.5); got != f0 {
		t.Errorf("fresnel with clamped cosine = %v, want %v", got, f0)
	}
	// At grazing incidence a smooth surface reaches full reflectance.
	if got := fresnelSchlickRoughness(0, f0, 0); got != 1 {
		t.Errorf("fresnel at grazing incidence = %v, want 1", got)
	}
	// Roughness caps the grazing term at max(1-roughness, f0).
	if got := fresnelSchlickRoughness(0, f0, 1); got != f0 {
		t.Errorf("fresnel at grazing with full roughness = %v, want %v", got, f0)
	}
	// Fresnel must grow as the view leaves head-on incidence.
	prev := fresnelSchlickRoughness(1, f0, 0.25)
	for cos := float32(0.9); cos >= 0; cos -= 0.1 {
		got := fresnelSchlickRoughness(cos, f0, 0.25)
		if got < prev {
			t.Fatalf("fresnel decreased from %v to %v at cos_theta %v", prev, got, cos)
		}
		prev = got
	}
}

func TestBaseReflectanceFollowsMetallic(t *testing.T) {
	const albedo = 0.8

	if got := mixChannel(0.04, albedo, 0); got != 0.04 {
		t.Errorf("dielectric f0 = %v, want 0.04", got)
	}
	if got := mixChannel(0.04, albedo, 1); got != albedo {
		t.Errorf("metallic f0 = %v, want %v", got, albedo)
	}
}

func TestDiffuseWeightVanishesForMetals(t *testing.T) {
	f := fresnelSchlickRoughness(0.7, 0.04, 0.3)

	if got := (1 - f) * (1 - 1); got != 0 {
		t.Errorf("diffuse weight at metallic 1 = %v, want 0", got)
	}
	if got := (1 - f) * (1 - 0); got != 1-f {
		t.Errorf("diffuse weight at metallic 0 = %v, want %v", got, 1-f)
	}
}

func TestReinhardTonemapChannel(t *testing.T) {
	if got := reinhard(0); got != 0 {
		t.Errorf("reinhard(0) = %v, want 0", got)
	}
	prev := float32(0)
	for _, c := range []float32{0.1, 0.5, 1, 4, 100, 1e6} {
		got := reinhard(c)
		if got <= prev {
			t.Fatalf("reinhard(%v) = %v, not above reinhard of previous input %v", c, got, prev)
		}
		if got >= 1 {
			t.Fatalf("reinhard(%v) = %v, want below 1", c, got)
		}
		prev = got
	}
}
