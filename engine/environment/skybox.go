package environment

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/avrand/glint/common"
	"github.com/avrand/glint/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// SkyboxPipelineKey identifies the skybox render pipeline in the renderer's cache.
const SkyboxPipelineKey = "skybox"

// skyboxVertices is the 36-vertex unit cube drawn without an index buffer.
// The fragment stage samples the cubemap along the interpolated position, so
// only direction matters, not scale.
var skyboxVertices = []float32{
	-1, 1, -1, -1, -1, -1, 1, -1, -1, 1, -1, -1, 1, 1, -1, -1, 1, -1,
	-1, -1, 1, -1, -1, -1, -1, 1, -1, -1, 1, -1, -1, 1, 1, -1, -1, 1,
	1, -1, -1, 1, -1, 1, 1, 1, 1, 1, 1, 1, 1, 1, -1, 1, -1, -1,
	-1, -1, 1, -1, 1, 1, 1, 1, 1, 1, 1, 1, 1, -1, 1, -1, -1, 1,
	-1, 1, -1, 1, 1, -1, 1, 1, 1, 1, 1, 1, -1, 1, 1, -1, 1, -1,
	-1, -1, -1, -1, -1, 1, 1, -1, -1, 1, -1, -1, -1, -1, 1, 1, -1, 1,
}

type skybox struct {
	mu *sync.Mutex

	cubemap common.CubemapStagingData

	meshProvider bind_group_provider.BindGroupProvider
	bindProvider bind_group_provider.BindGroupProvider
}

// Skybox owns the cube geometry and GPU bindings for the environment
// background pass. The scene initializes its providers through the renderer,
// then draws it last each frame with the rotation-only view-projection.
type Skybox interface {
	// VertexData returns the raw cube vertex bytes for the mesh buffer.
	//
	// Returns:
	//   - []byte: tightly packed float32x3 positions
	VertexData() []byte

	// VertexCount returns the number of vertices in the cube.
	//
	// Returns:
	//   - int: the vertex count (36)
	VertexCount() int

	// Cubemap returns the staged cubemap data to bind as the sky texture.
	//
	// Returns:
	//   - common.CubemapStagingData: the staged cubemap
	Cubemap() common.CubemapStagingData

	// SetCubemap replaces the staged cubemap data.
	//
	// Parameters:
	//   - data: the cubemap staging data
	SetCubemap(data common.CubemapStagingData)

	// Sampler returns the sampler configuration for the sky texture.
	//
	// Returns:
	//   - common.SamplerStagingData: clamp-to-edge linear sampling
	Sampler() common.SamplerStagingData

	// UniformData serializes the rotation-only view-projection matrix for the
	// skybox uniform buffer.
	//
	// Parameters:
	//   - viewProj: the rotation-only view-projection matrix
	//
	// Returns:
	//   - []byte: 64 bytes of column-major matrix data
	UniformData(viewProj mgl32.Mat4) []byte

	// MeshProvider returns the provider holding the cube vertex buffer.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// BindGroupProvider returns the provider holding the uniform, cubemap view,
	// and sampler bindings.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the binding provider
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ Skybox = &skybox{}

// NewSkybox creates a skybox with the given staged cubemap.
//
// Parameters:
//   - cubemap: the staged cubemap to display
//
// Returns:
//   - Skybox: the newly created skybox
func NewSkybox(cubemap common.CubemapStagingData) Skybox {
	return &skybox{
		mu:           &sync.Mutex{},
		cubemap:      cubemap,
		meshProvider: bind_group_provider.NewBindGroupProvider("skybox_mesh"),
		bindProvider: bind_group_provider.NewBindGroupProvider("skybox_env"),
	}
}

func (s *skybox) VertexData() []byte {
	return common.SliceToBytes(skyboxVertices)
}

func (s *skybox) VertexCount() int {
	return len(skyboxVertices) / 3
}

func (s *skybox) Cubemap() common.CubemapStagingData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cubemap
}

func (s *skybox) SetCubemap(data common.CubemapStagingData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cubemap = data
}

func (s *skybox) Sampler() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeLinear,
	}
}

func (s *skybox) UniformData(viewProj mgl32.Mat4) []byte {
	buf := make([]byte, 64)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(viewProj[i]))
	}
	return buf
}

func (s *skybox) MeshProvider() bind_group_provider.BindGroupProvider {
	return s.meshProvider
}

func (s *skybox) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return s.bindProvider
}
