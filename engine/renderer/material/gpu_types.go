package material

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialParams is the GPU-aligned uniform for the metallic-roughness
// fragment shaders. Matches the WGSL Material struct layout exactly.
// Size: 32 bytes (vec4<f32> + two f32 + 8 bytes of struct padding).
type GPUMaterialParams struct {
	BaseColorFactor [4]float32 // offset 0: RGBA base color multiplier (16 bytes)
	Metallic        float32    // offset 16: metallic factor (4 bytes)
	Roughness       float32    // offset 20: roughness factor (4 bytes)
	_               [2]float32 // offset 24: pad to the 16-byte struct alignment (8 bytes)
}

// Size returns the size of the GPUMaterialParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUMaterialParams) Marshal() []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.BaseColorFactor[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.BaseColorFactor[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.BaseColorFactor[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.BaseColorFactor[3]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Metallic))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Roughness))
	return buf
}
