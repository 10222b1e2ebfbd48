package environment

import (
	"sync"

	"github.com/avrand/glint/common"
	"github.com/cogentcore/webgpu/wgpu"
)

type ibl struct {
	mu *sync.Mutex

	diffuse  common.CubemapStagingData
	specular common.CubemapStagingData
	brdfLut  common.TextureStagingData
}

// IBL holds the image-based lighting inputs sampled by the primitive lighting
// stage: the diffuse irradiance cubemap, the roughness-prefiltered specular
// cubemap with its mip chain, and the BRDF integration LUT. When no bundle is
// loaded the defaults give a flat white irradiance with no specular response,
// so unlit assets still read their base color.
type IBL interface {
	// Diffuse returns the staged irradiance cubemap.
	//
	// Returns:
	//   - common.CubemapStagingData: the diffuse cubemap
	Diffuse() common.CubemapStagingData

	// SetDiffuse replaces the staged irradiance cubemap.
	//
	// Parameters:
	//   - data: the cubemap staging data
	SetDiffuse(data common.CubemapStagingData)

	// Specular returns the staged prefiltered specular cubemap. Its mip chain
	// encodes increasing roughness levels.
	//
	// Returns:
	//   - common.CubemapStagingData: the specular cubemap
	Specular() common.CubemapStagingData

	// SetSpecular replaces the staged specular cubemap.
	//
	// Parameters:
	//   - data: the cubemap staging data
	SetSpecular(data common.CubemapStagingData)

	// BRDFLut returns the staged split-sum BRDF integration texture, indexed
	// by (n_dot_v, roughness).
	//
	// Returns:
	//   - common.TextureStagingData: the LUT texture
	BRDFLut() common.TextureStagingData

	// SetBRDFLut replaces the staged BRDF LUT.
	//
	// Parameters:
	//   - data: the texture staging data
	SetBRDFLut(data common.TextureStagingData)

	// CubemapSampler returns the sampler configuration for both cubemaps.
	//
	// Returns:
	//   - common.SamplerStagingData: clamp-to-edge trilinear sampling
	CubemapSampler() common.SamplerStagingData

	// LutSampler returns the sampler configuration for the BRDF LUT.
	//
	// Returns:
	//   - common.SamplerStagingData: clamp-to-edge bilinear sampling
	LutSampler() common.SamplerStagingData
}

var _ IBL = &ibl{}

// NewIBL creates the lighting environment. Without options it stages the
// no-IBL defaults: a white 1x1 irradiance cubemap, a black 1x1 specular
// cubemap, and a zero BRDF LUT.
//
// Parameters:
//   - options: functional options to stage loaded environment maps
//
// Returns:
//   - IBL: the newly created lighting environment
func NewIBL(options ...IBLBuilderOption) IBL {
	i := &ibl{
		mu:       &sync.Mutex{},
		diffuse:  SolidCubemap(1, 1, 1, 1),
		specular: SolidCubemap(0, 0, 0, 1),
		brdfLut:  SolidTexture(0, 0, 0, 0),
	}
	for _, option := range options {
		option(i)
	}
	return i
}

func (i *ibl) Diffuse() common.CubemapStagingData {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.diffuse
}

func (i *ibl) SetDiffuse(data common.CubemapStagingData) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.diffuse = data
}

func (i *ibl) Specular() common.CubemapStagingData {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.specular
}

func (i *ibl) SetSpecular(data common.CubemapStagingData) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.specular = data
}

func (i *ibl) BRDFLut() common.TextureStagingData {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.brdfLut
}

func (i *ibl) SetBRDFLut(data common.TextureStagingData) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.brdfLut = data
}

func (i *ibl) CubemapSampler() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeLinear,
	}
}

func (i *ibl) LutSampler() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
	}
}

// IBLBuilderOption is a functional option applied to the lighting environment during construction.
type IBLBuilderOption func(*ibl)

// WithDiffuse stages a loaded irradiance cubemap.
//
// Parameters:
//   - data: the cubemap staging data
//
// Returns:
//   - IBLBuilderOption: a function that sets the diffuse cubemap
func WithDiffuse(data common.CubemapStagingData) IBLBuilderOption {
	return func(i *ibl) {
		i.diffuse = data
	}
}

// WithSpecular stages a loaded prefiltered specular cubemap.
//
// Parameters:
//   - data: the cubemap staging data
//
// Returns:
//   - IBLBuilderOption: a function that sets the specular cubemap
func WithSpecular(data common.CubemapStagingData) IBLBuilderOption {
	return func(i *ibl) {
		i.specular = data
	}
}

// WithBRDFLut stages a loaded BRDF integration LUT.
//
// Parameters:
//   - data: the texture staging data
//
// Returns:
//   - IBLBuilderOption: a function that sets the LUT
func WithBRDFLut(data common.TextureStagingData) IBLBuilderOption {
	return func(i *ibl) {
		i.brdfLut = data
	}
}
