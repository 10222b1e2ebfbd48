// package environment builds and renders the scene's surroundings: the skybox
// cubemap projected from an equirectangular panorama and the image-based
// lighting inputs (irradiance cubemap, prefiltered specular cubemap, BRDF LUT)
// consumed by the primitive lighting stage.
package environment

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Face identifies one cubemap face. The numeric order matches the cubemap
// array layer order: +X, -X, +Y, -Y, +Z, -Z.
type Face int

const (
	FacePositiveX Face = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ

	// FaceCount is the number of cubemap faces.
	FaceCount = 6
)

// FaceMapping describes how a cubemap face's 2D coordinates map into world
// directions: Direction points at the face center, UAxis and VAxis span the
// face plane. A face coordinate (u, v) in [-1, 1] corresponds to the direction
// Direction + u*UAxis + v*VAxis, normalized.
type FaceMapping struct {
	Direction mgl32.Vec3
	UAxis     mgl32.Vec3
	VAxis     mgl32.Vec3
}

// faceMappings is indexed by Face. The Y faces swap direction sign so the
// panorama's horizon lands upright when sampled through the cubemap.
var faceMappings = [FaceCount]FaceMapping{
	FacePositiveX: {Direction: mgl32.Vec3{1, 0, 0}, UAxis: mgl32.Vec3{0, 0, 1}, VAxis: mgl32.Vec3{0, 1, 0}},
	FaceNegativeX: {Direction: mgl32.Vec3{-1, 0, 0}, UAxis: mgl32.Vec3{0, 0, -1}, VAxis: mgl32.Vec3{0, 1, 0}},
	FacePositiveY: {Direction: mgl32.Vec3{0, -1, 0}, UAxis: mgl32.Vec3{-1, 0, 0}, VAxis: mgl32.Vec3{0, 0, 1}},
	FaceNegativeY: {Direction: mgl32.Vec3{0, 1, 0}, UAxis: mgl32.Vec3{-1, 0, 0}, VAxis: mgl32.Vec3{0, 0, -1}},
	FacePositiveZ: {Direction: mgl32.Vec3{0, 0, 1}, UAxis: mgl32.Vec3{-1, 0, 0}, VAxis: mgl32.Vec3{0, 1, 0}},
	FaceNegativeZ: {Direction: mgl32.Vec3{0, 0, -1}, UAxis: mgl32.Vec3{1, 0, 0}, VAxis: mgl32.Vec3{0, 1, 0}},
}

// Mapping returns the direction/axis mapping for a cubemap face.
//
// Parameters:
//   - face: the cubemap face
//
// Returns:
//   - FaceMapping: the face's direction and spanning axes
func Mapping(face Face) FaceMapping {
	return faceMappings[face]
}

// Marshal serializes the mapping into the 48-byte uniform layout consumed by
// the projection shader: three vec3s, each padded to 16 bytes.
//
// Returns:
//   - []byte: the serialized uniform data
func (m FaceMapping) Marshal() []byte {
	buf := make([]byte, 48)
	putVec3 := func(offset int, v mgl32.Vec3) {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v.X()))
		binary.LittleEndian.PutUint32(buf[offset+4:], math.Float32bits(v.Y()))
		binary.LittleEndian.PutUint32(buf[offset+8:], math.Float32bits(v.Z()))
	}
	putVec3(0, m.Direction)
	putVec3(16, m.UAxis)
	putVec3(32, m.VAxis)
	return buf
}

// DirectionForFaceCoords converts a face coordinate pair to a normalized world
// direction. The coordinates span the face from -1 to 1 in each axis.
//
// Parameters:
//   - face: the cubemap face
//   - u: horizontal face coordinate in [-1, 1]
//   - v: vertical face coordinate in [-1, 1]
//
// Returns:
//   - mgl32.Vec3: the normalized direction through that face texel
func DirectionForFaceCoords(face Face, u, v float32) mgl32.Vec3 {
	m := faceMappings[face]
	return m.Direction.
		Add(m.UAxis.Mul(u)).
		Add(m.VAxis.Mul(v)).
		Normalize()
}

// DirectionToEquirectangularUV converts a normalized direction to texture
// coordinates on an equirectangular panorama. u wraps the full longitude range
// with the +X axis at u=0.75, v runs from the bottom pole (0) to the top (1).
// The x == 0 meridian is handled explicitly so the longitude stays continuous
// where atan2's first argument degenerates.
//
// Parameters:
//   - dir: a normalized world direction
//
// Returns:
//   - u: horizontal panorama coordinate in [0, 1]
//   - v: vertical panorama coordinate in [0, 1]
func DirectionToEquirectangularUV(dir mgl32.Vec3) (u, v float32) {
	var uRaw float64
	if dir.X() == 0 {
		uRaw = float64(dir.Z()) * (math.Pi / 2)
	} else {
		uRaw = math.Atan2(float64(dir.Z()), float64(dir.X()))
	}
	u = 0.5 * (float32(uRaw)/math.Pi + 1)

	y := float64(dir.Y())
	if y > 1 {
		y = 1
	}
	if y < -1 {
		y = -1
	}
	v = float32(math.Asin(y))/math.Pi + 0.5
	return u, v
}
