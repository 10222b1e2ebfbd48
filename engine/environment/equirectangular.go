package environment

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/avrand/glint/common"
	"github.com/avrand/glint/engine/renderer"
	"github.com/avrand/glint/engine/renderer/bind_group_provider"
	"github.com/avrand/glint/engine/renderer/pipeline"
	"github.com/avrand/glint/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// EquirectangularPipelineKey identifies the panorama projection pipeline in the renderer's cache.
const EquirectangularPipelineKey = "equirectangular_projection"

// BakedCubemapSize is the face edge length of GPU-baked skybox cubemaps.
const BakedCubemapSize = 1024

type projector struct {
	mu *sync.Mutex

	registered bool

	// faceProviders hold one 48-byte mapping uniform per cubemap face.
	faceProviders [FaceCount]bind_group_provider.BindGroupProvider
}

// Projector converts an equirectangular panorama into a cubemap on the GPU.
// It draws a fullscreen triangle into each face of an offscreen RGBA16Float
// render target; the fragment stage maps every texel through the face's
// direction axes into panorama coordinates.
type Projector interface {
	// Register compiles the projection pipeline and uploads the per-face
	// mapping uniforms. Must be called once before RenderCubemap.
	//
	// Parameters:
	//   - r: the renderer to register with
	//
	// Returns:
	//   - error: an error if pipeline or bind group creation fails
	Register(r renderer.Renderer) error

	// RenderCubemap bakes the panorama into a new cubemap texture.
	// The returned cube view samples all six faces; the caller owns both
	// returned handles and must release them when done.
	//
	// Parameters:
	//   - r: the renderer to bake with
	//   - panorama: the staged panorama texture (RGBA16Float)
	//
	// Returns:
	//   - *wgpu.Texture: the baked cubemap texture
	//   - *wgpu.TextureView: the cube view over all six faces
	//   - error: an error if resource creation or the bake submission fails
	RenderCubemap(r renderer.Renderer, panorama common.TextureStagingData) (*wgpu.Texture, *wgpu.TextureView, error)
}

var _ Projector = &projector{}

// NewProjector creates an equirectangular projector. Register must be called
// before the first bake.
//
// Returns:
//   - Projector: the newly created projector
func NewProjector() Projector {
	return &projector{mu: &sync.Mutex{}}
}

func (p *projector) Register(r renderer.Renderer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.registered {
		return nil
	}

	vs, fs := shader.ComposeEquirectangularShaders()
	pipe := pipeline.NewPipeline(EquirectangularPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithBlendEnabled(false),
		pipeline.WithCullMode(wgpu.CullModeBack),
		pipeline.WithColorTargetFormat(wgpu.TextureFormatRGBA16Float),
	)
	if err := r.RegisterPipelines(pipe); err != nil {
		return fmt.Errorf("failed to register projection pipeline: %w", err)
	}

	for face := Face(0); face < FaceCount; face++ {
		provider := bind_group_provider.NewBindGroupProvider(
			"equirectangular_face_" + strconv.Itoa(int(face)),
		)
		if err := r.InitBindGroup(provider, shader.EquirectangularFaceLayout(), nil, nil); err != nil {
			return fmt.Errorf("failed to init face %d bind group: %w", face, err)
		}
		r.WriteBuffers([]bind_group_provider.BufferWrite{
			{
				Provider: provider,
				Binding:  shader.BindingFaceMappingUniform,
				Data:     Mapping(face).Marshal(),
			},
		})
		p.faceProviders[face] = provider
	}

	p.registered = true
	return nil
}

func (p *projector) RenderCubemap(r renderer.Renderer, panorama common.TextureStagingData) (*wgpu.Texture, *wgpu.TextureView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.registered {
		return nil, nil, fmt.Errorf("projector is not registered")
	}

	source := bind_group_provider.NewBindGroupProvider("equirectangular_source")
	if err := r.InitTextureView(source, shader.BindingEquirectangularTexture, panorama); err != nil {
		return nil, nil, fmt.Errorf("failed to upload panorama: %w", err)
	}
	if err := r.InitSampler(source, shader.BindingEquirectangularSampler, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to create panorama sampler: %w", err)
	}
	if err := r.InitBindGroup(source, shader.EquirectangularSourceLayout(), nil, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to init panorama bind group: %w", err)
	}
	defer source.Release()

	texture, faceViews, cubeView, err := r.CreateCubemapRenderTarget(BakedCubemapSize, wgpu.TextureFormatRGBA16Float)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cubemap target: %w", err)
	}

	if err := r.BeginBakeFrame(); err != nil {
		texture.Release()
		return nil, nil, fmt.Errorf("failed to begin bake: %w", err)
	}
	for face := Face(0); face < FaceCount; face++ {
		r.BeginBakePass(faceViews[face])
		if err := r.BakeDrawCall(EquirectangularPipelineKey, nil, 3, []bind_group_provider.BindGroupProvider{
			source,
			p.faceProviders[face],
		}); err != nil {
			r.EndBakePass()
			r.EndBakeFrame()
			texture.Release()
			return nil, nil, fmt.Errorf("failed to draw face %d: %w", face, err)
		}
		r.EndBakePass()
	}
	r.EndBakeFrame()

	for _, view := range faceViews {
		view.Release()
	}

	return texture, cubeView, nil
}
