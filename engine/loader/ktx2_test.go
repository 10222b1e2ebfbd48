package loader

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

// buildKTX2 assembles a minimal uncompressed RGBA16F cubemap container with
// the given base face size and mip count. Every byte of face f at mip m is
// m*16+f, so slicing mistakes surface as value mismatches.
func buildKTX2(t *testing.T, baseSize, mipCount uint32) []byte {
	t.Helper()

	header := ktx2Header{
		VkFormat:    vkFormatR16G16B16A16SFloat,
		TypeSize:    2,
		PixelWidth:  baseSize,
		PixelHeight: baseSize,
		FaceCount:   6,
		LevelCount:  mipCount,
	}

	var levels [][]byte
	for mip := uint32(0); mip < mipCount; mip++ {
		size := baseSize >> mip
		if size == 0 {
			size = 1
		}
		faceSize := 8 * size * size
		level := make([]byte, faceSize*6)
		for face := uint32(0); face < 6; face++ {
			for i := uint32(0); i < faceSize; i++ {
				level[face*faceSize+i] = byte(mip*16 + face)
			}
		}
		levels = append(levels, level)
	}

	index := make([]ktx2LevelIndexEntry, mipCount)
	offset := uint64(ktx2HeaderSize + int(mipCount)*24)
	for mip := range index {
		index[mip] = ktx2LevelIndexEntry{
			ByteOffset:             offset,
			ByteLength:             uint64(len(levels[mip])),
			UncompressedByteLength: uint64(len(levels[mip])),
		}
		offset += uint64(len(levels[mip]))
	}

	var buf bytes.Buffer
	buf.Write(ktx2Identifier)
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		t.Fatal(err)
	}
	// Empty DFD, key/value, and supercompression global data sections.
	var sectionIndex [32]byte
	buf.Write(sectionIndex[:])
	if err := binary.Write(&buf, binary.LittleEndian, index); err != nil {
		t.Fatal(err)
	}
	for _, level := range levels {
		buf.Write(level)
	}
	return buf.Bytes()
}

func TestDecodeKTX2Cubemap(t *testing.T) {
	data := buildKTX2(t, 4, 3)

	staging, err := decodeKTX2Cubemap(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if staging.Size != 4 {
		t.Errorf("size = %d, want 4", staging.Size)
	}
	if staging.Format != wgpu.TextureFormatRGBA16Float {
		t.Errorf("format = %v, want RGBA16Float", staging.Format)
	}
	if staging.MipLevelCount() != 3 {
		t.Fatalf("mip count = %d, want 3", staging.MipLevelCount())
	}

	for mip := 0; mip < 3; mip++ {
		size := 4 >> mip
		if size == 0 {
			size = 1
		}
		wantLen := 8 * size * size
		for face := 0; face < 6; face++ {
			faceData := staging.Levels[mip][face]
			if len(faceData) != wantLen {
				t.Fatalf("mip %d face %d holds %d bytes, want %d", mip, face, len(faceData), wantLen)
			}
			want := byte(mip*16 + face)
			for i, b := range faceData {
				if b != want {
					t.Fatalf("mip %d face %d byte %d = %d, want %d", mip, face, i, b, want)
				}
			}
		}
	}
}

func TestDecodeKTX2RejectsWrongFormat(t *testing.T) {
	data := buildKTX2(t, 4, 1)
	// Patch vkFormat to VK_FORMAT_R8G8B8A8_UNORM (37).
	binary.LittleEndian.PutUint32(data[12:], 37)

	if _, err := decodeKTX2Cubemap(data); err == nil {
		t.Fatal("expected an error for a non-RGBA16F format")
	}
}

func TestDecodeKTX2RejectsSupercompression(t *testing.T) {
	data := buildKTX2(t, 4, 1)
	// Patch the supercompression scheme word to Zstandard (2).
	binary.LittleEndian.PutUint32(data[12+32:], 2)

	if _, err := decodeKTX2Cubemap(data); err == nil {
		t.Fatal("expected an error for a supercompressed container")
	}
}

func TestDecodeKTX2RejectsNonCubemap(t *testing.T) {
	data := buildKTX2(t, 4, 1)
	// Patch faceCount (seventh header word) to 1.
	binary.LittleEndian.PutUint32(data[12+24:], 1)

	if _, err := decodeKTX2Cubemap(data); err == nil {
		t.Fatal("expected an error for a 2D texture")
	}
}

func TestDecodeKTX2RejectsBadIdentifier(t *testing.T) {
	data := buildKTX2(t, 4, 1)
	data[0] = 0x00

	if _, err := decodeKTX2Cubemap(data); err == nil {
		t.Fatal("expected an error for a corrupted identifier")
	}
}

func TestDecodeKTX2RejectsTruncatedLevelData(t *testing.T) {
	data := buildKTX2(t, 4, 1)

	if _, err := decodeKTX2Cubemap(data[:len(data)-8]); err == nil {
		t.Fatal("expected an error for truncated level data")
	}
}
