package environment

import (
	"fmt"

	"github.com/avrand/glint/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// StagingFromFloatFaces packs six float32 RGBA face images into single-mip
// cubemap staging data, converting texels to half precision for upload.
//
// Parameters:
//   - faces: the six face images in +X, -X, +Y, -Y, +Z, -Z order
//   - size: the face edge length in texels
//
// Returns:
//   - common.CubemapStagingData: the staged RGBA16Float cubemap
//   - error: an error if a face has the wrong texel count
func StagingFromFloatFaces(faces [FaceCount][]float32, size int) (common.CubemapStagingData, error) {
	var level [6][]byte
	want := size * size * 4
	for i, face := range faces {
		if len(face) != want {
			return common.CubemapStagingData{}, fmt.Errorf(
				"face %d has %d floats, want %d for %dx%d RGBA", i, len(face), want, size, size)
		}
		level[i] = common.SliceToBytes(common.Float32ToFloat16Slice(face))
	}
	return common.CubemapStagingData{
		Size:   uint32(size),
		Format: wgpu.TextureFormatRGBA16Float,
		Levels: [][6][]byte{level},
	}, nil
}

// StagingFromPanorama packs a decoded panorama into 2D texture staging data,
// converting texels to half precision for upload as a projection source.
//
// Parameters:
//   - p: the decoded equirectangular panorama
//
// Returns:
//   - common.TextureStagingData: the staged RGBA16Float texture
//   - error: an error if the pixel count does not match the dimensions
func StagingFromPanorama(p *PanoramaImage) (common.TextureStagingData, error) {
	want := p.Width * p.Height * 4
	if len(p.Pixels) != want {
		return common.TextureStagingData{}, fmt.Errorf(
			"panorama has %d floats, want %d for %dx%d RGBA", len(p.Pixels), want, p.Width, p.Height)
	}
	return common.TextureStagingData{
		Pixels: common.SliceToBytes(common.Float32ToFloat16Slice(p.Pixels)),
		Width:  uint32(p.Width),
		Height: uint32(p.Height),
		Format: wgpu.TextureFormatRGBA16Float,
	}, nil
}

// SolidCubemap creates a 1x1 RGBA16Float cubemap with every face set to the
// given color. Used as a stand-in when no environment maps are loaded.
//
// Parameters:
//   - r, g, b, a: the color for all six faces
//
// Returns:
//   - common.CubemapStagingData: the staged single-texel cubemap
func SolidCubemap(r, g, b, a float32) common.CubemapStagingData {
	texel := common.SliceToBytes(common.Float32ToFloat16Slice([]float32{r, g, b, a}))
	var level [6][]byte
	for i := range level {
		level[i] = texel
	}
	return common.CubemapStagingData{
		Size:   1,
		Format: wgpu.TextureFormatRGBA16Float,
		Levels: [][6][]byte{level},
	}
}

// SolidTexture creates a 1x1 RGBA16Float 2D texture with the given color.
//
// Parameters:
//   - r, g, b, a: the texel color
//
// Returns:
//   - common.TextureStagingData: the staged single-texel texture
func SolidTexture(r, g, b, a float32) common.TextureStagingData {
	return common.TextureStagingData{
		Pixels: common.SliceToBytes(common.Float32ToFloat16Slice([]float32{r, g, b, a})),
		Width:  1,
		Height: 1,
		Format: wgpu.TextureFormatRGBA16Float,
	}
}
