package loader

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/avrand/glint/common"
)

func TestEnvironmentLoaderRejectsWrongExtensions(t *testing.T) {
	e := NewEnvironmentLoader()

	if _, err := e.LoadPanorama("sky.png"); err == nil {
		t.Error("expected an error for a non-.hdr panorama")
	}
	if _, err := e.LoadCubemap("diffuse.dds"); err == nil {
		t.Error("expected an error for a non-.ktx2 cubemap")
	}
}

func TestEnvironmentLoaderPanoramaRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sky.hdr")
	if err := os.WriteFile(path, flatHDR(8, 4, 128, 128, 128, 129), 0o644); err != nil {
		t.Fatal(err)
	}

	e := NewEnvironmentLoader()
	panorama, err := e.LoadPanorama(path)
	if err != nil {
		t.Fatalf("LoadPanorama failed: %v", err)
	}
	if panorama.Width != 8 || panorama.Height != 4 {
		t.Errorf("panorama is %dx%d, want 8x4", panorama.Width, panorama.Height)
	}
}

func TestEnvironmentLoaderCubemapRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diffuse.ktx2")
	if err := os.WriteFile(path, buildKTX2(t, 2, 2), 0o644); err != nil {
		t.Fatal(err)
	}

	e := NewEnvironmentLoader()
	staging, err := e.LoadCubemap(path)
	if err != nil {
		t.Fatalf("LoadCubemap failed: %v", err)
	}
	if staging.Size != 2 || staging.MipLevelCount() != 2 {
		t.Errorf("cubemap size %d with %d mips, want 2 with 2", staging.Size, staging.MipLevelCount())
	}
}

func TestEnvironmentLoaderBRDFLut(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lut.png")

	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(1, 0, color.NRGBA{R: 0, G: 255, B: 0, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	e := NewEnvironmentLoader()
	staging, err := e.LoadBRDFLut(path)
	if err != nil {
		t.Fatalf("LoadBRDFLut failed: %v", err)
	}

	if staging.Width != 2 || staging.Height != 1 {
		t.Fatalf("lut is %dx%d, want 2x1", staging.Width, staging.Height)
	}
	if staging.BytesPerPixel() != 8 {
		t.Fatalf("lut should stage 16-bit float texels")
	}

	// Byte value 255 normalizes to exactly 1.0 with no transfer function.
	first := binary.LittleEndian.Uint16(staging.Pixels[0:2])
	if got := common.Float16ToFloat32(first); got != 1.0 {
		t.Errorf("first red texel = %v, want 1.0", got)
	}
	second := binary.LittleEndian.Uint16(staging.Pixels[8:10])
	if got := common.Float16ToFloat32(second); got != 0.0 {
		t.Errorf("second red texel = %v, want 0.0", got)
	}
}
