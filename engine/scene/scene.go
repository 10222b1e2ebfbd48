package scene

import (
	"fmt"
	"sync"

	"github.com/avrand/glint/common"
	"github.com/avrand/glint/engine/camera"
	"github.com/avrand/glint/engine/environment"
	"github.com/avrand/glint/engine/model"
	"github.com/avrand/glint/engine/renderer"
	"github.com/avrand/glint/engine/renderer/bind_group_provider"
	"github.com/avrand/glint/engine/renderer/material"
	"github.com/avrand/glint/engine/renderer/pipeline"
	"github.com/avrand/glint/engine/renderer/shader"
	"github.com/avrand/glint/logger"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// Scene manages a collection of Models with a Camera and Renderer for
// rendering. Adding a model registers the shader variants its primitives
// need, uploads mesh and material data, and builds per-node transform bind
// groups. An optional environment supplies the skybox background and the
// image-based lighting maps; without one the scene renders against neutral
// lighting defaults. Scenes can be hot-swapped via the Active flag.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// SetRenderer replaces the scene's renderer.
	//
	// Parameters:
	//   - r: the new renderer
	SetRenderer(r renderer.Renderer)

	// AddModel adds a loaded model to the scene and initializes its GPU
	// resources. For each distinct vertex attribute combination among the
	// model's primitives a shader variant is composed and its pipeline
	// registered, mesh buffers are uploaded, materials receive their bind
	// groups, and every mesh node gets a transform uniform. The scene's
	// Renderer and Camera must be attached before calling.
	//
	// Parameters:
	//   - mdl: the model to add
	//
	// Returns:
	//   - error: an error if the scene is missing a renderer or camera, a
	//     shader variant cannot be composed, or GPU initialization fails
	AddModel(mdl model.Model) error

	// Models returns the models currently in the scene.
	//
	// Returns:
	//   - []model.Model: a copy of the model list
	Models() []model.Model

	// SetEnvironment stages the lighting environment and bakes the skybox.
	// A non-nil panorama is projected onto a cubemap on the GPU and drawn as
	// the scene background. Non-nil diffuse, specular, and lut replace the
	// corresponding image-based lighting maps. Nil arguments leave the
	// current values in place, so partial environments are allowed.
	//
	// Parameters:
	//   - panorama: the decoded equirectangular sky panorama, or nil
	//   - diffuse: the staged irradiance cubemap, or nil
	//   - specular: the staged prefiltered specular cubemap, or nil
	//   - lut: the staged BRDF integration texture, or nil
	//
	// Returns:
	//   - error: an error if the scene has no renderer or the bake fails
	SetEnvironment(panorama *environment.PanoramaImage, diffuse, specular *common.CubemapStagingData, lut *common.TextureStagingData) error

	// Skybox returns the scene's baked skybox, or nil if no panorama has
	// been set.
	//
	// Returns:
	//   - environment.Skybox: the skybox or nil
	Skybox() environment.Skybox

	// IBL returns the scene's image-based lighting environment. Always
	// non-nil; holds neutral defaults until SetEnvironment stages real maps.
	//
	// Returns:
	//   - environment.IBL: the lighting environment
	IBL() environment.IBL

	// VariantCount returns the number of shader variants composed so far for
	// this scene's primitives.
	//
	// Returns:
	//   - int: the cached variant count
	VariantCount() int

	// Update advances the camera and uploads the per-frame uniforms: the
	// camera view-projection and, when a skybox is present, its
	// rotation-only view-projection. Call once per frame before DrawCalls.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	Update(deltaTime float32)

	// DrawCalls encodes one draw per visible primitive, walking every
	// model's node hierarchy, followed by the skybox when present. Must be
	// called within a BeginFrame/EndFrame block on the renderer.
	//
	// Returns:
	//   - error: the first draw submission error encountered
	DrawCalls() error

	// Clear removes all models from the scene. Does not release GPU
	// resources.
	Clear()
}

type scene struct {
	mu sync.RWMutex

	name   string
	active bool

	camera   camera.Camera
	renderer renderer.Renderer

	library   shader.Library
	projector environment.Projector

	ibl    environment.IBL
	skybox environment.Skybox

	models []model.Model

	// viewEnvironmentReady tracks whether the camera's bind group currently
	// holds the staged lighting maps.
	viewEnvironmentReady bool
}

var _ Scene = &scene{}

// NewScene creates a new Scene with the provided options applied. The scene
// starts active with neutral lighting defaults and no skybox.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		active:    true,
		library:   shader.NewLibrary(),
		projector: environment.NewProjector(),
		ibl:       environment.NewIBL(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.camera
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = cam
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderer
}

func (s *scene) SetRenderer(r renderer.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderer = r
}

func (s *scene) Models() []model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]model.Model, len(s.models))
	copy(cp, s.models)
	return cp
}

func (s *scene) Skybox() environment.Skybox {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skybox
}

func (s *scene) IBL() environment.IBL {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ibl
}

func (s *scene) VariantCount() int {
	return s.library.VariantCount()
}

func (s *scene) AddModel(mdl model.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.renderer == nil {
		return fmt.Errorf("scene has no renderer attached")
	}
	if s.camera == nil {
		return fmt.Errorf("scene has no camera attached")
	}

	if err := s.ensureViewEnvironment(); err != nil {
		return err
	}

	if err := s.registerVariants(mdl); err != nil {
		return err
	}
	if err := s.initMeshBuffers(mdl); err != nil {
		return err
	}
	if err := s.initMaterials(mdl); err != nil {
		return err
	}
	if err := s.initTransforms(mdl); err != nil {
		return err
	}

	s.models = append(s.models, mdl)
	logger.Info("model added to scene",
		zap.String("scene", s.name),
		zap.String("model", mdl.Name()),
		zap.Int("primitives", mdl.PrimitiveCount()),
		zap.Int("shader_variants", s.library.VariantCount()),
	)
	return nil
}

// registerVariants composes and registers a render pipeline for every
// attribute combination in the model that the renderer has not seen yet.
func (s *scene) registerVariants(mdl model.Model) error {
	for _, mesh := range mdl.Meshes() {
		for _, prim := range mesh.Primitives {
			key := prim.Attributes.VariantKey()
			if s.renderer.Pipeline(key) != nil {
				continue
			}
			vs, fs, err := s.library.Primitive(prim.Attributes)
			if err != nil {
				return fmt.Errorf("failed to compose shader variant %q: %w", key, err)
			}
			pipe := pipeline.NewPipeline(key,
				pipeline.WithVertexShader(vs),
				pipeline.WithFragmentShader(fs),
				pipeline.WithCullMode(wgpu.CullModeBack),
			)
			if err := s.renderer.RegisterPipelines(pipe); err != nil {
				return fmt.Errorf("failed to register pipeline %q: %w", key, err)
			}
		}
	}
	return nil
}

func (s *scene) initMeshBuffers(mdl model.Model) error {
	for _, mesh := range mdl.Meshes() {
		for _, prim := range mesh.Primitives {
			if err := s.renderer.InitMeshBuffers(prim.MeshProvider, prim.VertexData, prim.IndexData, prim.IndexCount, prim.VertexCount); err != nil {
				return fmt.Errorf("failed to init mesh buffers for %q: %w", mesh.Name, err)
			}
		}
	}
	return nil
}

// initMaterials uploads each material's textures and factor uniform and
// builds its bind group. Texture slots without staged data fall back to a
// single white texel so every variant can bind the full material group.
func (s *scene) initMaterials(mdl model.Model) error {
	for _, mat := range mdl.Materials() {
		if mat.BindGroupProvider() != nil {
			continue
		}
		provider := bind_group_provider.NewBindGroupProvider(mat.Name() + "_material")

		baseColor, baseColorSampler := materialTexture(mat.BaseColorTexture(), mat.BaseColorSampler())
		if err := s.renderer.InitTextureView(provider, shader.BindingBaseColorTexture, baseColor); err != nil {
			return fmt.Errorf("failed to upload base color texture for %q: %w", mat.Name(), err)
		}
		if err := s.renderer.InitSampler(provider, shader.BindingBaseColorSampler, baseColorSampler); err != nil {
			return fmt.Errorf("failed to create base color sampler for %q: %w", mat.Name(), err)
		}

		metallicRoughness, metallicRoughnessSampler := materialTexture(mat.MetallicRoughnessTexture(), mat.MetallicRoughnessSampler())
		if err := s.renderer.InitTextureView(provider, shader.BindingMetallicRoughnessTexture, metallicRoughness); err != nil {
			return fmt.Errorf("failed to upload metallic-roughness texture for %q: %w", mat.Name(), err)
		}
		if err := s.renderer.InitSampler(provider, shader.BindingMetallicRoughnessSampler, metallicRoughnessSampler); err != nil {
			return fmt.Errorf("failed to create metallic-roughness sampler for %q: %w", mat.Name(), err)
		}

		if err := s.renderer.InitBindGroup(provider, shader.MaterialLayout(), nil, nil); err != nil {
			return fmt.Errorf("failed to init material bind group for %q: %w", mat.Name(), err)
		}

		params := mat.Params()
		s.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
			{
				Provider: provider,
				Binding:  shader.BindingMaterialUniform,
				Data:     params.Marshal(),
			},
		})
		mat.SetBindGroupProvider(provider)
	}
	return nil
}

// initTransforms builds the per-node transform bind group for every node
// that draws a mesh. Grouping nodes carry no GPU state.
func (s *scene) initTransforms(mdl model.Model) error {
	for _, node := range mdl.Nodes() {
		if node.MeshIndex < 0 || node.TransformProvider != nil {
			continue
		}
		provider := bind_group_provider.NewBindGroupProvider(node.Name + "_transform")
		if err := s.renderer.InitBindGroup(provider, shader.InstanceLayout(), nil, nil); err != nil {
			return fmt.Errorf("failed to init transform bind group for node %q: %w", node.Name, err)
		}
		uniform := model.GPUTransformUniform{Model: node.WorldTransform}
		s.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
			{
				Provider: provider,
				Binding:  0,
				Data:     uniform.Marshal(),
			},
		})
		node.TransformProvider = provider
	}
	return nil
}

// materialTexture resolves a material texture slot to staging data, falling
// back to a single white texel with nearest clamp sampling.
func materialTexture(tex *common.TextureStagingData, sampler *common.SamplerStagingData) (common.TextureStagingData, common.SamplerStagingData) {
	resolvedTex := common.TextureStagingData{
		Pixels: []byte{255, 255, 255, 255},
		Width:  1,
		Height: 1,
		Format: wgpu.TextureFormatRGBA8Unorm,
	}
	resolvedSampler := common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeNearest,
		MinFilter:    wgpu.FilterModeNearest,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
	}
	if tex != nil {
		resolvedTex = *tex
	}
	if sampler != nil {
		resolvedSampler = *sampler
	}
	return resolvedTex, resolvedSampler
}

// ensureViewEnvironment builds the camera's bind group with the currently
// staged lighting maps. Caller must hold s.mu.
func (s *scene) ensureViewEnvironment() error {
	if s.viewEnvironmentReady {
		return nil
	}

	provider := s.camera.BindGroupProvider()
	if err := s.renderer.InitCubemapView(provider, shader.BindingIBLDiffuseTexture, s.ibl.Diffuse()); err != nil {
		return fmt.Errorf("failed to upload irradiance cubemap: %w", err)
	}
	if err := s.renderer.InitSampler(provider, shader.BindingIBLDiffuseSampler, s.ibl.CubemapSampler()); err != nil {
		return fmt.Errorf("failed to create irradiance sampler: %w", err)
	}
	if err := s.renderer.InitCubemapView(provider, shader.BindingIBLSpecularTexture, s.ibl.Specular()); err != nil {
		return fmt.Errorf("failed to upload specular cubemap: %w", err)
	}
	if err := s.renderer.InitSampler(provider, shader.BindingIBLSpecularSampler, s.ibl.CubemapSampler()); err != nil {
		return fmt.Errorf("failed to create specular sampler: %w", err)
	}
	if err := s.renderer.InitTextureView(provider, shader.BindingBRDFLutTexture, s.ibl.BRDFLut()); err != nil {
		return fmt.Errorf("failed to upload BRDF lookup table: %w", err)
	}
	if err := s.renderer.InitSampler(provider, shader.BindingBRDFLutSampler, s.ibl.LutSampler()); err != nil {
		return fmt.Errorf("failed to create BRDF lookup sampler: %w", err)
	}
	if err := s.renderer.InitBindGroup(provider, shader.ViewEnvironmentLayout(), nil, nil); err != nil {
		return fmt.Errorf("failed to init view environment bind group: %w", err)
	}

	uniform := s.camera.Uniform()
	s.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
		{
			Provider: provider,
			Binding:  shader.BindingCamera,
			Data:     uniform.Marshal(),
		},
	})

	s.viewEnvironmentReady = true
	return nil
}

func (s *scene) SetEnvironment(panorama *environment.PanoramaImage, diffuse, specular *common.CubemapStagingData, lut *common.TextureStagingData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.renderer == nil {
		return fmt.Errorf("scene has no renderer attached")
	}

	if diffuse != nil {
		s.ibl.SetDiffuse(*diffuse)
	}
	if specular != nil {
		s.ibl.SetSpecular(*specular)
	}
	if lut != nil {
		s.ibl.SetBRDFLut(*lut)
	}

	if panorama != nil {
		if err := s.bakeSkybox(panorama); err != nil {
			return err
		}
	}

	// Lighting maps staged after models were added need the camera's bind
	// group rebuilt on a fresh provider.
	if s.viewEnvironmentReady && (diffuse != nil || specular != nil || lut != nil) {
		old := s.camera.BindGroupProvider()
		s.camera.SetBindGroupProvider(bind_group_provider.NewBindGroupProvider("view_environment"))
		if old != nil {
			old.Release()
		}
		s.viewEnvironmentReady = false
		if err := s.ensureViewEnvironment(); err != nil {
			return err
		}
	}

	logger.Info("scene environment updated",
		zap.String("scene", s.name),
		zap.Bool("skybox", panorama != nil),
		zap.Bool("irradiance", diffuse != nil),
		zap.Bool("specular", specular != nil),
		zap.Bool("brdf_lut", lut != nil),
	)
	return nil
}

// bakeSkybox projects the panorama onto a cubemap and wires the skybox's
// draw state. The baked texture lives only on the GPU, so its view is
// attached directly instead of going through staging. Caller must hold s.mu.
func (s *scene) bakeSkybox(panorama *environment.PanoramaImage) error {
	if err := s.projector.Register(s.renderer); err != nil {
		return err
	}

	staging, err := environment.StagingFromPanorama(panorama)
	if err != nil {
		return err
	}
	_, cubeView, err := s.projector.RenderCubemap(s.renderer, staging)
	if err != nil {
		return fmt.Errorf("failed to bake skybox cubemap: %w", err)
	}

	if s.renderer.Pipeline(environment.SkyboxPipelineKey) == nil {
		vs, fs := shader.ComposeSkyboxShaders()
		pipe := pipeline.NewPipeline(environment.SkyboxPipelineKey,
			pipeline.WithVertexShader(vs),
			pipeline.WithFragmentShader(fs),
			pipeline.WithDepthWriteEnabled(false),
			pipeline.WithDepthCompare(wgpu.CompareFunctionLessEqual),
			pipeline.WithCullMode(wgpu.CullModeNone),
		)
		if err := s.renderer.RegisterPipelines(pipe); err != nil {
			return fmt.Errorf("failed to register skybox pipeline: %w", err)
		}
	}

	sb := environment.NewSkybox(environment.SolidCubemap(0, 0, 0, 1))
	if err := s.renderer.InitMeshBuffers(sb.MeshProvider(), [][]byte{sb.VertexData()}, nil, 0, sb.VertexCount()); err != nil {
		return fmt.Errorf("failed to init skybox mesh: %w", err)
	}

	provider := sb.BindGroupProvider()
	provider.SetTextureView(shader.BindingSkyboxTexture, cubeView)
	if err := s.renderer.InitSampler(provider, shader.BindingSkyboxSampler, sb.Sampler()); err != nil {
		return fmt.Errorf("failed to create skybox sampler: %w", err)
	}
	if err := s.renderer.InitBindGroup(provider, shader.SkyboxLayout(), nil, nil); err != nil {
		return fmt.Errorf("failed to init skybox bind group: %w", err)
	}

	if s.skybox != nil {
		s.skybox.BindGroupProvider().Release()
		s.skybox.MeshProvider().Release()
	}
	s.skybox = sb
	return nil
}

func (s *scene) Update(deltaTime float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.camera == nil || s.renderer == nil {
		return
	}
	s.camera.Update()

	var writes []bind_group_provider.BufferWrite
	if s.viewEnvironmentReady {
		uniform := s.camera.Uniform()
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: s.camera.BindGroupProvider(),
			Binding:  shader.BindingCamera,
			Data:     uniform.Marshal(),
		})
	}
	if s.skybox != nil {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: s.skybox.BindGroupProvider(),
			Binding:  shader.BindingSkyboxUniform,
			Data:     s.skybox.UniformData(s.camera.RotationViewProjectionMatrix()),
		})
	}
	if len(writes) > 0 {
		s.renderer.WriteBuffers(writes)
	}
}

func (s *scene) DrawCalls() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.renderer == nil {
		return fmt.Errorf("scene has no renderer attached")
	}

	var cameraProvider bind_group_provider.BindGroupProvider
	if s.camera != nil {
		cameraProvider = s.camera.BindGroupProvider()
	}

	for _, mdl := range s.models {
		meshes := mdl.Meshes()
		materials := mdl.Materials()
		for _, node := range mdl.Nodes() {
			if node.MeshIndex < 0 {
				continue
			}
			for _, prim := range meshes[node.MeshIndex].Primitives {
				mat := materialFor(materials, prim.MaterialIndex)
				if mat == nil {
					continue
				}
				groups := []bind_group_provider.BindGroupProvider{
					cameraProvider,
					node.TransformProvider,
					mat.BindGroupProvider(),
				}
				if err := s.renderer.DrawCall(prim.Attributes.VariantKey(), prim.MeshProvider, 1, groups); err != nil {
					return err
				}
			}
		}
	}

	// The skybox draws last at maximum depth so only uncovered texels run
	// its fragment stage.
	if s.skybox != nil {
		groups := []bind_group_provider.BindGroupProvider{s.skybox.BindGroupProvider()}
		if err := s.renderer.DrawCall(environment.SkyboxPipelineKey, s.skybox.MeshProvider(), 1, groups); err != nil {
			return err
		}
	}
	return nil
}

func materialFor(materials []material.Material, index int) material.Material {
	if index < 0 || index >= len(materials) {
		return nil
	}
	return materials[index]
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models = nil
}
