package loader

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/avrand/glint/common"

	"github.com/cogentcore/webgpu/wgpu"
)

// ktx2Identifier is the 12-byte file signature every KTX2 container starts with.
var ktx2Identifier = []byte{0xAB, 0x4B, 0x54, 0x58, 0x20, 0x32, 0x30, 0xBB, 0x0D, 0x0A, 0x1A, 0x0A}

// vkFormatR16G16B16A16SFloat is the Vulkan format code for 16-bit float RGBA,
// the only pixel format the IBL cubemaps use.
const vkFormatR16G16B16A16SFloat = 97

// ktx2HeaderSize covers the identifier, the nine header words, and the
// index section that precedes the level index.
const ktx2HeaderSize = 80

// ktx2Header holds the fixed-size fields following the identifier.
type ktx2Header struct {
	VkFormat               uint32
	TypeSize               uint32
	PixelWidth             uint32
	PixelHeight            uint32
	PixelDepth             uint32
	LayerCount             uint32
	FaceCount              uint32
	LevelCount             uint32
	SupercompressionScheme uint32
}

// ktx2LevelIndexEntry locates one mip level's data within the file.
type ktx2LevelIndexEntry struct {
	ByteOffset             uint64
	ByteLength             uint64
	UncompressedByteLength uint64
}

// decodeKTX2Cubemap parses a KTX2 container holding an uncompressed RGBA16
// float cubemap and stages every face of every mip level. Within a level the
// data is ordered +X, -X, +Y, -Y, +Z, -Z, each face tightly packed.
//
// Parameters:
//   - data: the complete .ktx2 file contents
//
// Returns:
//   - *common.CubemapStagingData: the staged cubemap, all mip levels
//   - error: error if the container is malformed or uses an unsupported layout
func decodeKTX2Cubemap(data []byte) (*common.CubemapStagingData, error) {
	if len(data) < ktx2HeaderSize {
		return nil, fmt.Errorf("file too short for a KTX2 header: %d bytes", len(data))
	}
	if !bytes.Equal(data[:12], ktx2Identifier) {
		return nil, fmt.Errorf("not a KTX2 container: identifier mismatch")
	}

	var header ktx2Header
	if err := binary.Read(bytes.NewReader(data[12:48]), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if header.VkFormat != vkFormatR16G16B16A16SFloat {
		return nil, fmt.Errorf("unsupported pixel format %d: expected VK_FORMAT_R16G16B16A16_SFLOAT", header.VkFormat)
	}
	if header.SupercompressionScheme != 0 {
		return nil, fmt.Errorf("supercompressed containers are not supported: scheme %d", header.SupercompressionScheme)
	}
	if header.FaceCount != 6 {
		return nil, fmt.Errorf("expected a cubemap with 6 faces, got %d", header.FaceCount)
	}
	if header.LayerCount > 1 {
		return nil, fmt.Errorf("array cubemaps are not supported: %d layers", header.LayerCount)
	}
	if header.PixelDepth != 0 {
		return nil, fmt.Errorf("3D textures are not supported: depth %d", header.PixelDepth)
	}
	if header.PixelWidth == 0 || header.PixelWidth != header.PixelHeight {
		return nil, fmt.Errorf("cubemap faces must be square and non-empty, got %dx%d", header.PixelWidth, header.PixelHeight)
	}

	levelCount := header.LevelCount
	if levelCount == 0 {
		levelCount = 1
	}

	indexEnd := ktx2HeaderSize + int(levelCount)*24
	if len(data) < indexEnd {
		return nil, fmt.Errorf("file too short for %d level index entries", levelCount)
	}
	levelIndex := make([]ktx2LevelIndexEntry, levelCount)
	if err := binary.Read(bytes.NewReader(data[ktx2HeaderSize:indexEnd]), binary.LittleEndian, levelIndex); err != nil {
		return nil, fmt.Errorf("failed to read level index: %w", err)
	}

	staging := &common.CubemapStagingData{
		Size:   header.PixelWidth,
		Format: wgpu.TextureFormatRGBA16Float,
		Levels: make([][6][]byte, levelCount),
	}
	bytesPerPixel := uint64(staging.BytesPerPixel())

	for mip := uint32(0); mip < levelCount; mip++ {
		entry := levelIndex[mip]
		size := header.PixelWidth >> mip
		if size == 0 {
			size = 1
		}
		faceSize := bytesPerPixel * uint64(size) * uint64(size)
		if entry.ByteLength < faceSize*6 {
			return nil, fmt.Errorf("level %d holds %d bytes, need %d for 6 faces of %dx%d", mip, entry.ByteLength, faceSize*6, size, size)
		}
		if entry.ByteOffset+entry.ByteLength > uint64(len(data)) {
			return nil, fmt.Errorf("level %d data exceeds the file bounds", mip)
		}

		level := data[entry.ByteOffset : entry.ByteOffset+entry.ByteLength]
		for face := 0; face < 6; face++ {
			start := uint64(face) * faceSize
			staging.Levels[mip][face] = level[start : start+faceSize]
		}
	}

	return staging, nil
}
