package environment

import (
	"runtime"
	"testing"
	"time"
)

// solidPanorama builds a panorama filled with a single color.
func solidPanorama(width, height int, r, g, b, a float32) *PanoramaImage {
	pixels := make([]float32, width*height*4)
	for i := 0; i < len(pixels); i += 4 {
		pixels[i] = r
		pixels[i+1] = g
		pixels[i+2] = b
		pixels[i+3] = a
	}
	return &PanoramaImage{Width: width, Height: height, Pixels: pixels}
}

func TestBakeFacesSolidColor(t *testing.T) {
	pano := solidPanorama(32, 16, 0.25, 0.5, 0.75, 1)

	faces, err := BakeFaces(pano, 8)
	if err != nil {
		t.Fatalf("bake failed: %v", err)
	}

	for face := range faces {
		if len(faces[face]) != 8*8*4 {
			t.Fatalf("face %d has %d floats, want %d", face, len(faces[face]), 8*8*4)
		}
		for i := 0; i < len(faces[face]); i += 4 {
			if !almostEqual(faces[face][i], 0.25, 1e-5) ||
				!almostEqual(faces[face][i+1], 0.5, 1e-5) ||
				!almostEqual(faces[face][i+2], 0.75, 1e-5) {
				t.Fatalf("face %d texel %d = %v, want solid (0.25, 0.5, 0.75)", face, i/4, faces[face][i:i+4])
			}
		}
	}
}

// A panorama split into a bright top half and dark bottom half must land
// bright texels on the up-pointing face and dark texels on the down-pointing
// one. With the flipped Y mapping, FaceNegativeY points up.
func TestBakeFacesVerticalGradient(t *testing.T) {
	pano := solidPanorama(64, 32, 0, 0, 0, 1)
	for y := 0; y < 16; y++ {
		for x := 0; x < 64; x++ {
			pano.Pixels[(y*64+x)*4] = 1 // top rows are v close to 1
		}
	}

	faces, err := BakeFaces(pano, 4)
	if err != nil {
		t.Fatalf("bake failed: %v", err)
	}

	// The face whose center direction is (0, 1, 0).
	up := faces[FaceNegativeY]
	down := faces[FacePositiveY]
	if up[0] != 1 {
		t.Errorf("up face red channel = %v, want 1", up[0])
	}
	if down[0] != 0 {
		t.Errorf("down face red channel = %v, want 0", down[0])
	}
}

func TestBakeFacesRejectsBadInput(t *testing.T) {
	if _, err := BakeFaces(nil, 8); err == nil {
		t.Error("expected error for nil panorama")
	}
	if _, err := BakeFaces(&PanoramaImage{Width: 4, Height: 2, Pixels: make([]float32, 3)}, 8); err == nil {
		t.Error("expected error for short pixel slice")
	}
	if _, err := BakeFaces(solidPanorama(4, 2, 0, 0, 0, 1), 0); err == nil {
		t.Error("expected error for zero face size")
	}
}

// Each bake owns a short-lived pool; its workers must be stopped when the
// bake returns rather than lingering until the idle timeout.
func TestBakeFacesReleasesWorkers(t *testing.T) {
	pano := solidPanorama(8, 4, 1, 1, 1, 1)
	baseline := runtime.NumGoroutine()

	for range 8 {
		if _, err := BakeFaces(pano, 4); err != nil {
			t.Fatalf("bake failed: %v", err)
		}
	}

	// Stopped workers unwind asynchronously; poll briefly before judging.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= baseline+FaceCount {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("goroutines after repeated bakes = %d, baseline %d", runtime.NumGoroutine(), baseline)
}

func TestStagingFromFloatFaces(t *testing.T) {
	var faces [FaceCount][]float32
	for i := range faces {
		faces[i] = make([]float32, 2*2*4)
		for j := range faces[i] {
			faces[i][j] = 1
		}
	}

	staging, err := StagingFromFloatFaces(faces, 2)
	if err != nil {
		t.Fatalf("staging failed: %v", err)
	}
	if staging.Size != 2 {
		t.Errorf("size = %d, want 2", staging.Size)
	}
	if staging.MipLevelCount() != 1 {
		t.Errorf("mip count = %d, want 1", staging.MipLevelCount())
	}
	// 2x2 texels, 8 bytes each in half float RGBA.
	if len(staging.Levels[0][0]) != 2*2*8 {
		t.Errorf("face byte length = %d, want %d", len(staging.Levels[0][0]), 2*2*8)
	}

	faces[0] = faces[0][:3]
	if _, err := StagingFromFloatFaces(faces, 2); err == nil {
		t.Error("expected error for truncated face")
	}
}
