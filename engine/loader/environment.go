package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avrand/glint/common"
	"github.com/avrand/glint/engine/environment"
	"github.com/avrand/glint/logger"

	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// DefaultBRDFLutPath is where the split-sum lookup table ships relative to
// the working directory when no override is configured.
const DefaultBRDFLutPath = "resources/lut_ggx.png"

// fileEnvironmentLoader is the implementation of the EnvironmentLoader interface.
type fileEnvironmentLoader struct{}

// EnvironmentLoader defines the interface for loading image-based lighting
// inputs from disk: the equirectangular skybox panorama, the pre-convolved
// irradiance and specular cubemaps, and the BRDF lookup table. Absence of the
// whole environment bundle is a valid state; the scene then renders with
// neutral lighting defaults.
type EnvironmentLoader interface {
	// LoadPanorama decodes a Radiance .hdr equirectangular panorama.
	//
	// Parameters:
	//   - path: the file path to the .hdr panorama
	//
	// Returns:
	//   - *environment.PanoramaImage: the decoded float32 RGBA panorama
	//   - error: error if the file cannot be read or decoded
	LoadPanorama(path string) (*environment.PanoramaImage, error)

	// LoadCubemap decodes a .ktx2 cubemap with all of its mip levels.
	//
	// Parameters:
	//   - path: the file path to the .ktx2 cubemap
	//
	// Returns:
	//   - *common.CubemapStagingData: the staged RGBA16 float cubemap
	//   - error: error if the file cannot be read or decoded
	LoadCubemap(path string) (*common.CubemapStagingData, error)

	// LoadBRDFLut decodes the split-sum BRDF lookup table image. The 8-bit
	// pixel values are treated as linear data and converted to 16-bit floats.
	//
	// Parameters:
	//   - path: the file path to the lookup table image (PNG or JPEG)
	//
	// Returns:
	//   - *common.TextureStagingData: the staged RGBA16 float texture
	//   - error: error if the file cannot be read or decoded
	LoadBRDFLut(path string) (*common.TextureStagingData, error)
}

var _ EnvironmentLoader = &fileEnvironmentLoader{}

// NewEnvironmentLoader creates an EnvironmentLoader backed by the filesystem.
//
// Returns:
//   - EnvironmentLoader: a new file-backed EnvironmentLoader
func NewEnvironmentLoader() EnvironmentLoader {
	return &fileEnvironmentLoader{}
}

func (e *fileEnvironmentLoader) LoadPanorama(path string) (*environment.PanoramaImage, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".hdr" {
		return nil, fmt.Errorf("unsupported panorama format %s: expected .hdr", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open panorama %s: %w", path, err)
	}
	defer f.Close()

	panorama, err := decodeRadianceHDR(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode panorama %s: %w", path, err)
	}

	logger.Debug("loaded panorama",
		zap.String("path", path),
		zap.Int("width", panorama.Width),
		zap.Int("height", panorama.Height),
	)
	return panorama, nil
}

func (e *fileEnvironmentLoader) LoadCubemap(path string) (*common.CubemapStagingData, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".ktx2" {
		return nil, fmt.Errorf("unsupported cubemap format %s: expected .ktx2", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cubemap %s: %w", path, err)
	}

	staging, err := decodeKTX2Cubemap(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cubemap %s: %w", path, err)
	}

	logger.Debug("loaded cubemap",
		zap.String("path", path),
		zap.Uint32("size", staging.Size),
		zap.Uint32("mipLevels", staging.MipLevelCount()),
	)
	return staging, nil
}

func (e *fileEnvironmentLoader) LoadBRDFLut(path string) (*common.TextureStagingData, error) {
	imported := common.ImportedTexture{Name: "brdf_lut", Path: path}
	pixels, width, height, err := imported.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode BRDF lookup table %s: %w", path, err)
	}

	// The table stores scale and bias terms, not color: normalize without a
	// transfer function.
	floats := make([]float32, len(pixels))
	for i, p := range pixels {
		floats[i] = float32(p) / 255
	}

	staging := &common.TextureStagingData{
		Pixels: common.SliceToBytes(common.Float32ToFloat16Slice(floats)),
		Width:  width,
		Height: height,
		Format: wgpu.TextureFormatRGBA16Float,
	}

	logger.Debug("loaded BRDF lookup table",
		zap.String("path", path),
		zap.Uint32("width", width),
		zap.Uint32("height", height),
	)
	return staging, nil
}
