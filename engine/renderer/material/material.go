package material

import (
	"github.com/avrand/glint/common"
	"github.com/avrand/glint/engine/renderer/bind_group_provider"
)

// material is the implementation of the Material interface.
type material struct {
	name                     string
	baseColorFactor          [4]float32
	metallic                 float32
	roughness                float32
	baseColorTexture         *common.TextureStagingData
	baseColorSampler         *common.SamplerStagingData
	metallicRoughnessTexture *common.TextureStagingData
	metallicRoughnessSampler *common.SamplerStagingData
	bindGroupProvider        bind_group_provider.BindGroupProvider
}

// Material defines the interface for a metallic-roughness render material,
// encapsulating surface factors, texture references, and GPU resource bindings
// needed for draw calls.
//
// Surface properties (name, factors, textures) are set at load time and are
// read-only through this interface. The bind group provider is mutable so it
// can be configured after construction during the renderer GPU-init phase.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColorFactor retrieves the RGBA base color multiplier of the material.
	//
	// Returns:
	//   - [4]float32: the base color factor as RGBA values
	BaseColorFactor() [4]float32

	// Metallic retrieves the metallic factor of the material.
	// A value of 0.0 represents a dielectric surface, 1.0 represents a fully metallic surface.
	//
	// Returns:
	//   - float32: the metallic factor
	Metallic() float32

	// Roughness retrieves the roughness factor of the material.
	// A value of 0.0 represents a perfectly smooth surface, 1.0 represents a fully rough surface.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// BaseColorTexture retrieves the decoded base color texture data, or nil if none is set.
	//
	// Returns:
	//   - *common.TextureStagingData: the base color texture, or nil
	BaseColorTexture() *common.TextureStagingData

	// BaseColorSampler retrieves the sampler configuration for the base color texture, or nil for defaults.
	//
	// Returns:
	//   - *common.SamplerStagingData: the base color sampler, or nil
	BaseColorSampler() *common.SamplerStagingData

	// MetallicRoughnessTexture retrieves the decoded metallic-roughness texture data, or nil if none is set.
	//
	// Returns:
	//   - *common.TextureStagingData: the metallic-roughness texture, or nil
	MetallicRoughnessTexture() *common.TextureStagingData

	// MetallicRoughnessSampler retrieves the sampler configuration for the metallic-roughness texture, or nil for defaults.
	//
	// Returns:
	//   - *common.SamplerStagingData: the metallic-roughness sampler, or nil
	MetallicRoughnessSampler() *common.SamplerStagingData

	// Params builds the GPU uniform parameters for this material.
	//
	// Returns:
	//   - GPUMaterialParams: the uniform values derived from the material factors
	Params() GPUMaterialParams

	// BindGroupProvider retrieves the bind group provider holding GPU-side resources for this material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider, or nil if not yet initialized
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider sets the bind group provider for this material.
	//
	// Parameters:
	//   - provider: the bind group provider containing GPU resources for this material
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// The defaults match an untextured white dielectric with full roughness.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		baseColorFactor: [4]float32{1, 1, 1, 1},
		metallic:        1.0,
		roughness:       1.0,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColorFactor() [4]float32 {
	return m.baseColorFactor
}

func (m *material) Metallic() float32 {
	return m.metallic
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) BaseColorTexture() *common.TextureStagingData {
	return m.baseColorTexture
}

func (m *material) BaseColorSampler() *common.SamplerStagingData {
	return m.baseColorSampler
}

func (m *material) MetallicRoughnessTexture() *common.TextureStagingData {
	return m.metallicRoughnessTexture
}

func (m *material) MetallicRoughnessSampler() *common.SamplerStagingData {
	return m.metallicRoughnessSampler
}

func (m *material) Params() GPUMaterialParams {
	return GPUMaterialParams{
		BaseColorFactor: m.baseColorFactor,
		Metallic:        m.metallic,
		Roughness:       m.roughness,
	}
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.bindGroupProvider = provider
}
