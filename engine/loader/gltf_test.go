package loader

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/avrand/glint/common"
	"github.com/avrand/glint/logger"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/qmuntal/gltf"
)

func TestMain(m *testing.M) {
	if err := logger.InitWithFileConfig("error", logger.FileConfig{}, false); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// triangleDocument builds an in-memory document with one triangle carrying
// positions, normals, one UV set, vertex colors, and uint16 indices.
func triangleDocument() *gltf.Document {
	var data []byte
	appendFloats := func(values ...float32) {
		for _, v := range values {
			data = append(data, common.SliceToBytes([]float32{v})...)
		}
	}
	// Positions: 3 x vec3 at offset 0 (36 bytes).
	appendFloats(0, 0, 0, 1, 0, 0, 0, 1, 0)
	// Normals: 3 x vec3 at offset 36 (36 bytes).
	appendFloats(0, 0, 1, 0, 0, 1, 0, 0, 1)
	// UVs: 3 x vec2 at offset 72 (24 bytes).
	appendFloats(0, 0, 1, 0, 0, 1)
	// Colors: 3 x RGBA8 at offset 96 (12 bytes).
	data = append(data,
		255, 0, 0, 255,
		0, 255, 0, 255,
		0, 0, 255, 255,
	)
	// Indices: 3 x uint16 at offset 108 (6 bytes).
	data = append(data, 0, 0, 1, 0, 2, 0)

	return &gltf.Document{
		Buffers: []*gltf.Buffer{{ByteLength: 114, Data: data}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: 36},
			{Buffer: 0, ByteOffset: 36, ByteLength: 36},
			{Buffer: 0, ByteOffset: 72, ByteLength: 24},
			{Buffer: 0, ByteOffset: 96, ByteLength: 12},
			{Buffer: 0, ByteOffset: 108, ByteLength: 6},
		},
		Accessors: []*gltf.Accessor{
			{BufferView: gltf.Index(0), ComponentType: gltf.ComponentFloat, Type: gltf.AccessorVec3, Count: 3},
			{BufferView: gltf.Index(1), ComponentType: gltf.ComponentFloat, Type: gltf.AccessorVec3, Count: 3},
			{BufferView: gltf.Index(2), ComponentType: gltf.ComponentFloat, Type: gltf.AccessorVec2, Count: 3},
			{BufferView: gltf.Index(3), ComponentType: gltf.ComponentUbyte, Type: gltf.AccessorVec4, Count: 3, Normalized: true},
			{BufferView: gltf.Index(4), ComponentType: gltf.ComponentUshort, Type: gltf.AccessorScalar, Count: 3},
		},
		Meshes: []*gltf.Mesh{{
			Name: "triangle",
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]int{
					gltf.POSITION:   0,
					gltf.NORMAL:     1,
					gltf.TEXCOORD_0: 2,
					gltf.COLOR_0:    3,
				},
				Indices: gltf.Index(4),
				Mode:    gltf.PrimitiveTriangles,
			}},
		}},
		Nodes:  []*gltf.Node{{Name: "root", Mesh: gltf.Index(0)}},
		Scenes: []*gltf.Scene{{Nodes: []int{0}}},
		Scene:  gltf.Index(0),
	}
}

func TestImportTriangleMesh(t *testing.T) {
	importer := newGLTFImporter(triangleDocument(), "")
	m, err := importer.importModel("triangle")
	if err != nil {
		t.Fatalf("importModel failed: %v", err)
	}

	if len(m.Meshes()) != 1 || len(m.Meshes()[0].Primitives) != 1 {
		t.Fatalf("expected one mesh with one primitive")
	}
	prim := m.Meshes()[0].Primitives[0]

	set := prim.Attributes
	if !set.HasNormal || !set.HasTexCoord0 || !set.HasColor0 {
		t.Errorf("attribute discovery missed attributes: %+v", set)
	}
	if set.HasTangent || set.HasTexCoord1 {
		t.Errorf("attribute discovery invented attributes: %+v", set)
	}

	if prim.VertexCount != 3 {
		t.Errorf("expected 3 vertices, got %d", prim.VertexCount)
	}
	if got := len(prim.VertexData); got != int(set.SlotCount()) {
		t.Fatalf("expected %d vertex buffer slots, got %d", set.SlotCount(), got)
	}
	if got := len(prim.VertexData[set.PositionSlot()]); got != 36 {
		t.Errorf("position slot holds %d bytes, want 36", got)
	}
	if got := len(prim.VertexData[set.NormalSlot()]); got != 36 {
		t.Errorf("normal slot holds %d bytes, want 36", got)
	}
	if got := len(prim.VertexData[set.TexCoord0Slot()]); got != 24 {
		t.Errorf("uv slot holds %d bytes, want 24", got)
	}
	if got := len(prim.VertexData[set.Color0Slot()]); got != 48 {
		t.Errorf("color slot holds %d bytes, want 48 after conversion to float", got)
	}

	// uint16 indices widen to uint32.
	if prim.IndexCount != 3 {
		t.Errorf("expected 3 indices, got %d", prim.IndexCount)
	}
	if got := len(prim.IndexData); got != 12 {
		t.Errorf("index buffer holds %d bytes, want 12", got)
	}

	if prim.MeshProvider == nil {
		t.Error("primitive has no mesh provider")
	}

	// No material reference: a default material is synthesized.
	if len(m.Materials()) != 1 {
		t.Fatalf("expected a single default material, got %d", len(m.Materials()))
	}
	if prim.MaterialIndex != 0 {
		t.Errorf("expected material slot 0, got %d", prim.MaterialIndex)
	}
	def := m.Materials()[0]
	if def.BaseColorTexture() == nil || def.BaseColorTexture().Width != 1 {
		t.Error("default material should carry a 1x1 base color texture")
	}
}

func TestImportRejectsMissingPosition(t *testing.T) {
	doc := triangleDocument()
	delete(doc.Meshes[0].Primitives[0].Attributes, gltf.POSITION)

	importer := newGLTFImporter(doc, "")
	if _, err := importer.importModel("broken"); err == nil {
		t.Fatal("expected an error for a primitive without positions")
	}
}

func TestImportRejectsExtraTexCoordSet(t *testing.T) {
	doc := triangleDocument()
	doc.Meshes[0].Primitives[0].Attributes["TEXCOORD_2"] = 2

	importer := newGLTFImporter(doc, "")
	if _, err := importer.importModel("broken"); err == nil {
		t.Fatal("expected an error for texture coordinate set 2")
	}
}

func TestImportRejectsExtraColorSet(t *testing.T) {
	doc := triangleDocument()
	doc.Meshes[0].Primitives[0].Attributes["COLOR_1"] = 3

	importer := newGLTFImporter(doc, "")
	if _, err := importer.importModel("broken"); err == nil {
		t.Fatal("expected an error for vertex color set 1")
	}
}

func TestImportRejectsNonTriangleTopology(t *testing.T) {
	doc := triangleDocument()
	doc.Meshes[0].Primitives[0].Mode = gltf.PrimitiveLines

	importer := newGLTFImporter(doc, "")
	if _, err := importer.importModel("broken"); err == nil {
		t.Fatal("expected an error for a line primitive")
	}
}

func TestImportNodeHierarchy(t *testing.T) {
	doc := triangleDocument()
	doc.Nodes = []*gltf.Node{
		{Name: "parent", Translation: [3]float64{1, 0, 0}, Scale: [3]float64{1, 1, 1}, Rotation: [4]float64{0, 0, 0, 1}, Children: []int{1}},
		{Name: "child", Translation: [3]float64{0, 2, 0}, Scale: [3]float64{1, 1, 1}, Rotation: [4]float64{0, 0, 0, 1}, Mesh: gltf.Index(0)},
	}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}

	importer := newGLTFImporter(doc, "")
	m, err := importer.importModel("hierarchy")
	if err != nil {
		t.Fatalf("importModel failed: %v", err)
	}

	if len(m.Roots()) != 1 || m.Roots()[0] != 0 {
		t.Fatalf("expected node 0 as the only root, got %v", m.Roots())
	}

	child := m.Nodes()[1]
	if child.MeshIndex != 0 {
		t.Errorf("child should reference mesh 0, got %d", child.MeshIndex)
	}
	world := child.WorldTransform
	if world.At(0, 3) != 1 || world.At(1, 3) != 2 || world.At(2, 3) != 0 {
		t.Errorf("child world translation = (%v, %v, %v), want (1, 2, 0)",
			world.At(0, 3), world.At(1, 3), world.At(2, 3))
	}

	parent := m.Nodes()[0]
	if parent.MeshIndex != -1 {
		t.Errorf("parent should have no mesh, got index %d", parent.MeshIndex)
	}
}

func TestImportMaterialFactorsAndDeduplication(t *testing.T) {
	doc := triangleDocument()
	metallic := 0.25
	roughness := 0.75
	doc.Materials = []*gltf.Material{{
		Name: "painted",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{0.5, 0.25, 0.125, 1},
			MetallicFactor:  &metallic,
			RoughnessFactor: &roughness,
		},
	}}
	prim := doc.Meshes[0].Primitives[0]
	prim.Material = gltf.Index(0)
	second := &gltf.Primitive{
		Attributes: map[string]int{gltf.POSITION: 0},
		Material:   gltf.Index(0),
		Mode:       gltf.PrimitiveTriangles,
	}
	doc.Meshes[0].Primitives = append(doc.Meshes[0].Primitives, second)

	importer := newGLTFImporter(doc, "")
	m, err := importer.importModel("painted")
	if err != nil {
		t.Fatalf("importModel failed: %v", err)
	}

	if len(m.Materials()) != 1 {
		t.Fatalf("two primitives sharing one material should yield one slot, got %d", len(m.Materials()))
	}
	mat := m.Materials()[0]
	if mat.Name() != "painted" {
		t.Errorf("material name = %q, want %q", mat.Name(), "painted")
	}
	if got := mat.BaseColorFactor(); got != [4]float32{0.5, 0.25, 0.125, 1} {
		t.Errorf("base color factor = %v", got)
	}
	if mat.Metallic() != 0.25 {
		t.Errorf("metallic = %v, want 0.25", mat.Metallic())
	}
	if mat.Roughness() != 0.75 {
		t.Errorf("roughness = %v, want 0.75", mat.Roughness())
	}

	prims := m.Meshes()[0].Primitives
	if prims[0].MaterialIndex != prims[1].MaterialIndex {
		t.Error("both primitives should share the same material slot")
	}
}

func TestImportExternalBaseColorTexture(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, "base.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	doc := triangleDocument()
	doc.Images = []*gltf.Image{{URI: "base.png"}}
	doc.Textures = []*gltf.Texture{{Source: gltf.Index(0)}}
	doc.Samplers = []*gltf.Sampler{{
		WrapS:     gltf.WrapClampToEdge,
		WrapT:     gltf.WrapMirroredRepeat,
		MagFilter: gltf.MagNearest,
		MinFilter: gltf.MinNearestMipMapNearest,
	}}
	doc.Textures[0].Sampler = gltf.Index(0)
	doc.Materials = []*gltf.Material{{
		Name: "textured",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
		},
	}}
	doc.Meshes[0].Primitives[0].Material = gltf.Index(0)

	importer := newGLTFImporter(doc, dir)
	m, err := importer.importModel("textured")
	if err != nil {
		t.Fatalf("importModel failed: %v", err)
	}

	mat := m.Materials()[0]
	tex := mat.BaseColorTexture()
	if tex == nil {
		t.Fatal("expected a base color texture")
	}
	if tex.Width != 2 || tex.Height != 2 {
		t.Errorf("texture is %dx%d, want 2x2", tex.Width, tex.Height)
	}
	if tex.Format != wgpu.TextureFormatRGBA8UnormSrgb {
		t.Errorf("base color texture format = %v, want sRGB", tex.Format)
	}
	if len(tex.Pixels) != 16 {
		t.Errorf("texture holds %d bytes, want 16", len(tex.Pixels))
	}
	if tex.Pixels[0] != 200 || tex.Pixels[1] != 100 || tex.Pixels[2] != 50 {
		t.Errorf("unexpected first texel: %v", tex.Pixels[:4])
	}

	sampler := mat.BaseColorSampler()
	if sampler == nil {
		t.Fatal("expected a sampler")
	}
	if sampler.AddressModeU != wgpu.AddressModeClampToEdge {
		t.Errorf("wrap S = %v, want clamp to edge", sampler.AddressModeU)
	}
	if sampler.AddressModeV != wgpu.AddressModeMirrorRepeat {
		t.Errorf("wrap T = %v, want mirror repeat", sampler.AddressModeV)
	}
	if sampler.MagFilter != wgpu.FilterModeNearest {
		t.Errorf("mag filter = %v, want nearest", sampler.MagFilter)
	}
	if sampler.MinFilter != wgpu.FilterModeNearest || sampler.MipmapFilter != wgpu.MipmapFilterModeNearest {
		t.Errorf("min/mipmap filters = %v/%v, want nearest", sampler.MinFilter, sampler.MipmapFilter)
	}
}

func TestLoaderRejectsUnknownExtension(t *testing.T) {
	l := NewLoader()
	if _, err := l.Load("model.obj"); err == nil {
		t.Fatal("expected an error for an unsupported extension")
	}
}
