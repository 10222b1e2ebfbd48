package loader

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/avrand/glint/common"
	"github.com/avrand/glint/engine/model"
	"github.com/avrand/glint/engine/renderer/bind_group_provider"
	"github.com/avrand/glint/engine/renderer/material"
	"github.com/avrand/glint/engine/renderer/shader"
	"github.com/avrand/glint/logger"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

// attrTexCoord1 is the second UV set attribute name, which the gltf package
// does not name as a constant.
const attrTexCoord1 = "TEXCOORD_1"

// loadedTexture pairs staged pixel data with its sampler configuration.
type loadedTexture struct {
	staging *common.TextureStagingData
	sampler *common.SamplerStagingData
}

// loadedImage is a decoded RGBA image cached by document image index, so two
// textures sharing one source decode it once.
type loadedImage struct {
	pixels []byte
	width  uint32
	height uint32
}

// gltfImporter converts one parsed glTF document into an engine model. The
// registries deduplicate materials, textures, images, and samplers by their
// document index, matching how the document shares them across primitives.
type gltfImporter struct {
	doc     *gltf.Document
	baseDir string

	materials     []material.Material
	materialSlots map[int]int
	textures      map[int]*loadedTexture
	images        map[int]*loadedImage
	samplers      map[int]*common.SamplerStagingData

	defaultTexture *loadedTexture
}

// newGLTFImporter creates an importer for the given document. Relative image
// URIs resolve against baseDir.
func newGLTFImporter(doc *gltf.Document, baseDir string) *gltfImporter {
	return &gltfImporter{
		doc:           doc,
		baseDir:       baseDir,
		materialSlots: make(map[int]int),
		textures:      make(map[int]*loadedTexture),
		images:        make(map[int]*loadedImage),
		samplers:      make(map[int]*common.SamplerStagingData),
	}
}

// importModel walks the document and produces an engine model: meshes with
// per-primitive vertex buffers, the node hierarchy with composed transforms,
// and deduplicated materials.
//
// Parameters:
//   - name: the model name, used for provider labels and logging
//
// Returns:
//   - model.Model: the imported model
//   - error: error if the document violates the supported subset
func (g *gltfImporter) importModel(name string) (model.Model, error) {
	meshes := make([]*model.Mesh, len(g.doc.Meshes))
	for mi, gm := range g.doc.Meshes {
		meshName := gm.Name
		if meshName == "" {
			meshName = fmt.Sprintf("mesh_%d", mi)
		}

		primitives := make([]*model.Primitive, 0, len(gm.Primitives))
		for pi, prim := range gm.Primitives {
			p, err := g.importPrimitive(fmt.Sprintf("%s_%s_primitive_%d", name, meshName, pi), prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", meshName, pi, err)
			}
			primitives = append(primitives, p)
		}
		meshes[mi] = &model.Mesh{Name: meshName, Primitives: primitives}
	}

	nodes, roots, err := g.importNodes()
	if err != nil {
		return nil, err
	}

	return model.NewModel(
		model.WithName(name),
		model.WithNodes(nodes, roots),
		model.WithMeshes(meshes),
		model.WithMaterials(g.materials),
	), nil
}

// importNodes builds the node hierarchy. Local transforms come from the node
// matrix when one is present, otherwise from translation-rotation-scale
// composition. Roots come from the default scene, or from parentless nodes
// when the document declares none.
func (g *gltfImporter) importNodes() ([]*model.Node, []int, error) {
	nodes := make([]*model.Node, len(g.doc.Nodes))
	for i, gn := range g.doc.Nodes {
		nodeName := gn.Name
		if nodeName == "" {
			nodeName = fmt.Sprintf("node_%d", i)
		}

		meshIndex := -1
		if gn.Mesh != nil {
			if *gn.Mesh < 0 || *gn.Mesh >= len(g.doc.Meshes) {
				return nil, nil, fmt.Errorf("node %q references mesh %d out of range", nodeName, *gn.Mesh)
			}
			meshIndex = *gn.Mesh
		}

		nodes[i] = &model.Node{
			Name:           nodeName,
			LocalTransform: nodeLocalTransform(gn),
			MeshIndex:      meshIndex,
			Children:       gn.Children,
		}
	}

	var roots []int
	if g.doc.Scene != nil && *g.doc.Scene < len(g.doc.Scenes) {
		roots = g.doc.Scenes[*g.doc.Scene].Nodes
	} else {
		hasParent := make([]bool, len(nodes))
		for _, gn := range g.doc.Nodes {
			for _, c := range gn.Children {
				if c >= 0 && c < len(hasParent) {
					hasParent[c] = true
				}
			}
		}
		for i := range nodes {
			if !hasParent[i] {
				roots = append(roots, i)
			}
		}
	}

	return nodes, roots, nil
}

// identityMatrix is the column-major identity, the document default for nodes
// that carry no explicit matrix.
var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// nodeLocalTransform converts a node's transform to a column-major matrix.
func nodeLocalTransform(gn *gltf.Node) mgl32.Mat4 {
	if gn.Matrix != identityMatrix && gn.Matrix != ([16]float64{}) {
		var m mgl32.Mat4
		for i, v := range gn.Matrix {
			m[i] = float32(v)
		}
		return m
	}

	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault()
	s := gn.ScaleOrDefault()

	translation := mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2]))
	rotation := mgl32.Quat{
		W: float32(r[3]),
		V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])},
	}.Normalize().Mat4()
	scale := mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2]))

	return translation.Mul4(rotation).Mul4(scale)
}

// importPrimitive extracts one mesh primitive: attribute discovery and
// validation, accessor reads into per-slot vertex buffers ordered by the
// attribute set's slot assignment, and index extraction widened to uint32.
func (g *gltfImporter) importPrimitive(label string, prim *gltf.Primitive) (*model.Primitive, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, fmt.Errorf("unsupported topology %v: only triangle lists can be rendered", prim.Mode)
	}

	var set shader.AttributeSet
	hasPosition := false
	for key := range prim.Attributes {
		switch {
		case key == gltf.POSITION:
			hasPosition = true
		case key == gltf.NORMAL:
			set.HasNormal = true
		case key == gltf.TANGENT:
			set.HasTangent = true
		case strings.HasPrefix(key, "TEXCOORD_"):
			index, err := strconv.Atoi(strings.TrimPrefix(key, "TEXCOORD_"))
			if err != nil {
				return nil, fmt.Errorf("malformed attribute name %q", key)
			}
			switch index {
			case 0:
				set.HasTexCoord0 = true
			case 1:
				set.HasTexCoord1 = true
			default:
				return nil, fmt.Errorf("texture coordinate attribute index %d exceeds the supported maximum of 1", index)
			}
		case strings.HasPrefix(key, "COLOR_"):
			index, err := strconv.Atoi(strings.TrimPrefix(key, "COLOR_"))
			if err != nil {
				return nil, fmt.Errorf("malformed attribute name %q", key)
			}
			if index != 0 {
				return nil, fmt.Errorf("vertex color attribute index %d exceeds the supported maximum of 0", index)
			}
			set.HasColor0 = true
		}
	}
	if !hasPosition {
		return nil, fmt.Errorf("primitive has no position attribute")
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}

	positions, err := modeler.ReadPosition(g.doc, g.doc.Accessors[prim.Attributes[gltf.POSITION]], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}
	vertexCount := len(positions)

	vertexData := make([][]byte, set.SlotCount())
	vertexData[set.PositionSlot()] = common.SliceToBytes(positions)

	if set.HasNormal {
		normals, err := modeler.ReadNormal(g.doc, g.doc.Accessors[prim.Attributes[gltf.NORMAL]], nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read normals: %w", err)
		}
		if len(normals) != vertexCount {
			return nil, fmt.Errorf("normal count %d does not match position count %d", len(normals), vertexCount)
		}
		vertexData[set.NormalSlot()] = common.SliceToBytes(normals)
	}

	if set.HasTangent {
		tangents, err := modeler.ReadTangent(g.doc, g.doc.Accessors[prim.Attributes[gltf.TANGENT]], nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read tangents: %w", err)
		}
		if len(tangents) != vertexCount {
			return nil, fmt.Errorf("tangent count %d does not match position count %d", len(tangents), vertexCount)
		}
		vertexData[set.TangentSlot()] = common.SliceToBytes(tangents)
	}

	if set.HasTexCoord0 {
		uvs, err := modeler.ReadTextureCoord(g.doc, g.doc.Accessors[prim.Attributes[gltf.TEXCOORD_0]], nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read texture coordinates (set 0): %w", err)
		}
		if len(uvs) != vertexCount {
			return nil, fmt.Errorf("texture coordinate count %d does not match position count %d", len(uvs), vertexCount)
		}
		vertexData[set.TexCoord0Slot()] = common.SliceToBytes(uvs)
	}

	if set.HasTexCoord1 {
		uvs, err := modeler.ReadTextureCoord(g.doc, g.doc.Accessors[prim.Attributes[attrTexCoord1]], nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read texture coordinates (set 1): %w", err)
		}
		if len(uvs) != vertexCount {
			return nil, fmt.Errorf("texture coordinate count %d does not match position count %d", len(uvs), vertexCount)
		}
		vertexData[set.TexCoord1Slot()] = common.SliceToBytes(uvs)
	}

	if set.HasColor0 {
		colors, err := modeler.ReadColor(g.doc, g.doc.Accessors[prim.Attributes[gltf.COLOR_0]], nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read vertex colors: %w", err)
		}
		if len(colors) != vertexCount {
			return nil, fmt.Errorf("vertex color count %d does not match position count %d", len(colors), vertexCount)
		}
		floatColors := make([][4]float32, len(colors))
		for i, c := range colors {
			floatColors[i] = [4]float32{
				float32(c[0]) / 255,
				float32(c[1]) / 255,
				float32(c[2]) / 255,
				float32(c[3]) / 255,
			}
		}
		vertexData[set.Color0Slot()] = common.SliceToBytes(floatColors)
	}

	var indexData []byte
	indexCount := 0
	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(g.doc, g.doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
		indexData = common.SliceToBytes(indices)
		indexCount = len(indices)
	}

	materialIndex, err := g.importMaterial(prim.Material)
	if err != nil {
		return nil, err
	}

	return &model.Primitive{
		Attributes:    set,
		VertexData:    vertexData,
		VertexCount:   vertexCount,
		IndexData:     indexData,
		IndexCount:    indexCount,
		MaterialIndex: materialIndex,
		MeshProvider:  bind_group_provider.NewBindGroupProvider(label),
	}, nil
}

// defaultMaterialKey is the registry key for primitives without a material.
const defaultMaterialKey = -1

// importMaterial resolves a primitive's material reference to a slot in the
// model's material list, loading it on first use. A nil reference maps to a
// shared default material.
func (g *gltfImporter) importMaterial(ref *int) (int, error) {
	key := defaultMaterialKey
	if ref != nil {
		key = *ref
	}

	if slot, ok := g.materialSlots[key]; ok {
		logger.Debug("skipping duplicate load of glTF material", zap.Int("index", key))
		return slot, nil
	}

	var mat material.Material
	if key == defaultMaterialKey {
		logger.Debug("loading default glTF material")
		tex, sampler := g.loadDefaultTexture()
		mat = material.NewMaterial(
			material.WithName("default"),
			material.WithBaseColorTexture(tex, sampler),
			material.WithMetallicRoughnessTexture(tex, sampler),
		)
	} else {
		if key < 0 || key >= len(g.doc.Materials) {
			return 0, fmt.Errorf("material index %d out of range", key)
		}
		gm := g.doc.Materials[key]
		name := gm.Name
		if name == "" {
			name = "<unnamed>"
		}
		logger.Debug("loading glTF material", zap.String("name", name), zap.Int("index", key))

		baseColorFactor := [4]float32{1, 1, 1, 1}
		metallic := float32(1)
		roughness := float32(1)
		baseColorTex, baseColorSampler := g.loadDefaultTexture()
		mrTex, mrSampler := g.loadDefaultTexture()

		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			baseColorFactor = [4]float32{float32(cf[0]), float32(cf[1]), float32(cf[2]), float32(cf[3])}
			metallic = float32(pbr.MetallicFactorOrDefault())
			roughness = float32(pbr.RoughnessFactorOrDefault())

			if pbr.BaseColorTexture != nil {
				loaded, err := g.loadTexture(pbr.BaseColorTexture.Index, wgpu.TextureFormatRGBA8UnormSrgb)
				if err != nil {
					return 0, fmt.Errorf("material %q base color texture: %w", name, err)
				}
				baseColorTex, baseColorSampler = loaded.staging, loaded.sampler
			}
			if pbr.MetallicRoughnessTexture != nil {
				loaded, err := g.loadTexture(pbr.MetallicRoughnessTexture.Index, wgpu.TextureFormatRGBA8Unorm)
				if err != nil {
					return 0, fmt.Errorf("material %q metallic-roughness texture: %w", name, err)
				}
				mrTex, mrSampler = loaded.staging, loaded.sampler
			}
		}

		mat = material.NewMaterial(
			material.WithName(name),
			material.WithBaseColorFactor(baseColorFactor),
			material.WithMetallic(metallic),
			material.WithRoughness(roughness),
			material.WithBaseColorTexture(baseColorTex, baseColorSampler),
			material.WithMetallicRoughnessTexture(mrTex, mrSampler),
		)
	}

	slot := len(g.materials)
	g.materials = append(g.materials, mat)
	g.materialSlots[key] = slot
	return slot, nil
}

// loadTexture stages a document texture's pixel data and sampler. The format
// distinguishes color data (sRGB) from non-color data such as
// metallic-roughness maps (linear).
func (g *gltfImporter) loadTexture(texIndex int, format wgpu.TextureFormat) (*loadedTexture, error) {
	if cached, ok := g.textures[texIndex]; ok {
		logger.Debug("skipping duplicate load of glTF texture", zap.Int("index", texIndex))
		return cached, nil
	}

	if texIndex < 0 || texIndex >= len(g.doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", texIndex)
	}
	tex := g.doc.Textures[texIndex]
	logger.Debug("loading glTF texture", zap.String("name", tex.Name), zap.Int("index", texIndex))

	if tex.Source == nil {
		return nil, fmt.Errorf("texture %d has no image source", texIndex)
	}
	img, err := g.loadImage(*tex.Source)
	if err != nil {
		return nil, err
	}

	loaded := &loadedTexture{
		staging: &common.TextureStagingData{
			Pixels: img.pixels,
			Width:  img.width,
			Height: img.height,
			Format: format,
		},
		sampler: g.loadSampler(tex.Sampler),
	}
	g.textures[texIndex] = loaded
	return loaded, nil
}

// loadImage decodes a document image to RGBA pixels. Sources may be buffer
// views (GLB), data URIs, or files relative to the document.
func (g *gltfImporter) loadImage(imgIndex int) (*loadedImage, error) {
	if cached, ok := g.images[imgIndex]; ok {
		logger.Debug("skipping duplicate load of glTF image", zap.Int("index", imgIndex))
		return cached, nil
	}

	if imgIndex < 0 || imgIndex >= len(g.doc.Images) {
		return nil, fmt.Errorf("image index %d out of range", imgIndex)
	}
	img := g.doc.Images[imgIndex]
	logger.Debug("loading glTF image", zap.String("name", img.Name), zap.Int("index", imgIndex))

	var imported common.ImportedTexture
	switch {
	case img.BufferView != nil:
		raw, err := modeler.ReadBufferView(g.doc, g.doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil, fmt.Errorf("image %d buffer view: %w", imgIndex, err)
		}
		imported = common.ImportedTexture{Name: img.Name, Data: raw, MimeType: img.MimeType}
	case strings.HasPrefix(img.URI, "data:"):
		comma := strings.IndexByte(img.URI, ',')
		if comma < 0 {
			return nil, fmt.Errorf("image %d has a malformed data URI", imgIndex)
		}
		raw, err := base64.StdEncoding.DecodeString(img.URI[comma+1:])
		if err != nil {
			return nil, fmt.Errorf("image %d data URI: %w", imgIndex, err)
		}
		imported = common.ImportedTexture{Name: img.Name, Data: raw, MimeType: img.MimeType}
	case img.URI != "":
		imported = common.ImportedTexture{Name: img.Name, Path: joinURI(g.baseDir, img.URI)}
	default:
		return nil, fmt.Errorf("image %d has neither a buffer view nor a URI", imgIndex)
	}

	pixels, width, height, err := imported.Decode()
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", imgIndex, err)
	}

	loaded := &loadedImage{pixels: pixels, width: width, height: height}
	g.images[imgIndex] = loaded
	return loaded, nil
}

// loadSampler translates a document sampler to staging data, caching by index.
// A nil reference yields the document default: repeat wrapping with linear
// filtering.
func (g *gltfImporter) loadSampler(ref *int) *common.SamplerStagingData {
	key := -1
	if ref != nil {
		key = *ref
	}
	if cached, ok := g.samplers[key]; ok {
		logger.Debug("skipping duplicate load of glTF sampler", zap.Int("index", key))
		return cached
	}

	staging := &common.SamplerStagingData{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}

	if key >= 0 && key < len(g.doc.Samplers) {
		s := g.doc.Samplers[key]
		logger.Debug("loading glTF sampler", zap.String("name", s.Name), zap.Int("index", key))

		staging.AddressModeU = wrapToAddressMode(s.WrapS)
		staging.AddressModeV = wrapToAddressMode(s.WrapT)

		if s.MagFilter == gltf.MagNearest {
			staging.MagFilter = wgpu.FilterModeNearest
		}
		switch s.MinFilter {
		case gltf.MinLinear, gltf.MinLinearMipMapLinear, gltf.MinLinearMipMapNearest, gltf.MinUndefined:
			staging.MinFilter = wgpu.FilterModeLinear
		default:
			staging.MinFilter = wgpu.FilterModeNearest
		}
		switch s.MinFilter {
		case gltf.MinLinear, gltf.MinLinearMipMapLinear, gltf.MinNearestMipMapLinear, gltf.MinUndefined:
			staging.MipmapFilter = wgpu.MipmapFilterModeLinear
		default:
			staging.MipmapFilter = wgpu.MipmapFilterModeNearest
		}
	}

	g.samplers[key] = staging
	return staging
}

// loadDefaultTexture returns the shared 1x1 white texture used for material
// slots without an image, with a clamping nearest sampler. White is the
// multiplicative identity, so factors pass through unchanged.
func (g *gltfImporter) loadDefaultTexture() (*common.TextureStagingData, *common.SamplerStagingData) {
	if g.defaultTexture == nil {
		logger.Debug("loading default glTF texture")
		g.defaultTexture = &loadedTexture{
			staging: &common.TextureStagingData{
				Pixels: []byte{255, 255, 255, 255},
				Width:  1,
				Height: 1,
				Format: wgpu.TextureFormatRGBA8Unorm,
			},
			sampler: &common.SamplerStagingData{
				AddressModeU:  wgpu.AddressModeClampToEdge,
				AddressModeV:  wgpu.AddressModeClampToEdge,
				AddressModeW:  wgpu.AddressModeClampToEdge,
				MagFilter:     wgpu.FilterModeNearest,
				MinFilter:     wgpu.FilterModeNearest,
				MipmapFilter:  wgpu.MipmapFilterModeNearest,
				LodMaxClamp:   32,
				MaxAnisotropy: 1,
			},
		}
	}
	return g.defaultTexture.staging, g.defaultTexture.sampler
}

// wrapToAddressMode maps a document wrapping mode to the GPU address mode.
func wrapToAddressMode(mode gltf.WrappingMode) wgpu.AddressMode {
	switch mode {
	case gltf.WrapClampToEdge:
		return wgpu.AddressModeClampToEdge
	case gltf.WrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeRepeat
	}
}

// joinURI resolves a relative asset URI against the document directory.
func joinURI(baseDir, uri string) string {
	if baseDir == "" {
		return uri
	}
	return filepath.Join(baseDir, uri)
}
