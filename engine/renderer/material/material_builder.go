package material

import (
	"github.com/avrand/glint/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColorFactor is an option builder that sets the RGBA base color multiplier of the material.
//
// Parameters:
//   - color: the base color factor as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color factor option to a material
func WithBaseColorFactor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColorFactor = color
	}
}

// WithMetallic is an option builder that sets the metallic factor of the material.
//
// Parameters:
//   - metallic: the metallic factor (0.0 = dielectric, 1.0 = metal)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metallic option to a material
func WithMetallic(metallic float32) MaterialBuilderOption {
	return func(m *material) {
		m.metallic = metallic
	}
}

// WithRoughness is an option builder that sets the roughness factor of the material.
//
// Parameters:
//   - roughness: the roughness factor (0.0 = smooth, 1.0 = rough)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = roughness
	}
}

// WithBaseColorTexture is an option builder that sets the base color texture and its sampler.
//
// Parameters:
//   - tex: the decoded texture data for the base color map
//   - sampler: the sampler configuration for the texture, or nil for defaults
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color texture option to a material
func WithBaseColorTexture(tex *common.TextureStagingData, sampler *common.SamplerStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.baseColorTexture = tex
		m.baseColorSampler = sampler
	}
}

// WithMetallicRoughnessTexture is an option builder that sets the metallic-roughness texture and its sampler.
//
// Parameters:
//   - tex: the decoded texture data for the metallic-roughness map
//   - sampler: the sampler configuration for the texture, or nil for defaults
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metallic-roughness texture option to a material
func WithMetallicRoughnessTexture(tex *common.TextureStagingData, sampler *common.SamplerStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.metallicRoughnessTexture = tex
		m.metallicRoughnessSampler = sampler
	}
}
