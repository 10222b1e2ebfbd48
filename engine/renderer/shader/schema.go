package shader

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group indices for the primitive pipelines. Group 0 holds the per-view
// environment (camera plus image-based lighting inputs), group 1 the per-draw
// instance transform, and group 2 the material.
const (
	GroupViewEnvironment = 0
	GroupInstance        = 1
	GroupMaterial        = 2
)

// Bindings within the view environment group.
const (
	BindingCamera             = 0
	BindingIBLDiffuseTexture  = 1
	BindingIBLDiffuseSampler  = 2
	BindingIBLSpecularTexture = 3
	BindingIBLSpecularSampler = 4
	BindingBRDFLutTexture     = 5
	BindingBRDFLutSampler     = 6
)

// Bindings within the material group.
const (
	BindingMaterialUniform          = 0
	BindingBaseColorTexture         = 1
	BindingBaseColorSampler         = 2
	BindingMetallicRoughnessTexture = 3
	BindingMetallicRoughnessSampler = 4
)

// Bindings for the skybox pipeline's single group.
const (
	BindingSkyboxUniform = 0
	BindingSkyboxTexture = 1
	BindingSkyboxSampler = 2
)

// Bindings for the equirectangular projection pipeline. Group 0 holds the
// panorama source, group 1 the per-face direction mapping.
const (
	BindingEquirectangularTexture = 0
	BindingEquirectangularSampler = 1
	BindingFaceMappingUniform     = 0
)

// GPU-side uniform buffer sizes in bytes.
const (
	CameraUniformSize      = 80
	TransformUniformSize   = 64
	MaterialUniformSize    = 32
	SkyboxUniformSize      = 64
	FaceMappingUniformSize = 48
)

func uniformEntry(binding uint32, visibility wgpu.ShaderStage, size uint64) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: size,
		},
	}
}

func textureEntry(binding uint32, dimension wgpu.TextureViewDimension) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageFragment,
		Texture: wgpu.TextureBindingLayout{
			SampleType:    wgpu.TextureSampleTypeFloat,
			ViewDimension: dimension,
		},
	}
}

func samplerEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageFragment,
		Sampler: wgpu.SamplerBindingLayout{
			Type: wgpu.SamplerBindingTypeFiltering,
		},
	}
}

// ViewEnvironmentLayout returns the bind group layout descriptor for group 0 of
// the primitive pipelines: the camera uniform visible to both stages, the
// diffuse and specular IBL cubemaps, and the split-sum BRDF lookup table.
// The layout is identical for every shader variant so that all primitives can
// share a single view environment bind group.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the view environment layout
func ViewEnvironmentLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "View Environment Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(BindingCamera, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, CameraUniformSize),
			textureEntry(BindingIBLDiffuseTexture, wgpu.TextureViewDimensionCube),
			samplerEntry(BindingIBLDiffuseSampler),
			textureEntry(BindingIBLSpecularTexture, wgpu.TextureViewDimensionCube),
			samplerEntry(BindingIBLSpecularSampler),
			textureEntry(BindingBRDFLutTexture, wgpu.TextureViewDimension2D),
			samplerEntry(BindingBRDFLutSampler),
		},
	}
}

// InstanceLayout returns the bind group layout descriptor for group 1: the
// per-draw model transform uniform, visible to the vertex stage only.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the instance layout
func InstanceLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Instance Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(0, wgpu.ShaderStageVertex, TransformUniformSize),
		},
	}
}

// MaterialLayout returns the bind group layout descriptor for group 2: the
// metallic-roughness factors plus the base color and metallic-roughness
// textures. The texture bindings are always present in the layout even when a
// variant has no UVs and never samples them; absent textures bind 1x1 defaults
// so that materials can share the layout across variants.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the material layout
func MaterialLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Material Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(BindingMaterialUniform, wgpu.ShaderStageFragment, MaterialUniformSize),
			textureEntry(BindingBaseColorTexture, wgpu.TextureViewDimension2D),
			samplerEntry(BindingBaseColorSampler),
			textureEntry(BindingMetallicRoughnessTexture, wgpu.TextureViewDimension2D),
			samplerEntry(BindingMetallicRoughnessSampler),
		},
	}
}

// SkyboxLayout returns the single bind group layout for the skybox pipeline:
// the rotation-only view-projection uniform and the environment cubemap.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the skybox layout
func SkyboxLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Skybox Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(BindingSkyboxUniform, wgpu.ShaderStageVertex, SkyboxUniformSize),
			textureEntry(BindingSkyboxTexture, wgpu.TextureViewDimensionCube),
			samplerEntry(BindingSkyboxSampler),
		},
	}
}

// EquirectangularSourceLayout returns the bind group layout for group 0 of the
// panorama projection pipeline: the equirectangular source texture.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the panorama source layout
func EquirectangularSourceLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Equirectangular Source Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			textureEntry(BindingEquirectangularTexture, wgpu.TextureViewDimension2D),
			samplerEntry(BindingEquirectangularSampler),
		},
	}
}

// EquirectangularFaceLayout returns the bind group layout for group 1 of the
// panorama projection pipeline: the per-face direction mapping uniform.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the face mapping layout
func EquirectangularFaceLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Equirectangular Face Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(BindingFaceMappingUniform, wgpu.ShaderStageFragment, FaceMappingUniformSize),
		},
	}
}
