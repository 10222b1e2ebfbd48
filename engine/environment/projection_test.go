package environment

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func almostEqual(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func TestFaceCenterDirections(t *testing.T) {
	tests := []struct {
		face Face
		want mgl32.Vec3
	}{
		{FacePositiveX, mgl32.Vec3{1, 0, 0}},
		{FaceNegativeX, mgl32.Vec3{-1, 0, 0}},
		{FacePositiveY, mgl32.Vec3{0, -1, 0}},
		{FaceNegativeY, mgl32.Vec3{0, 1, 0}},
		{FacePositiveZ, mgl32.Vec3{0, 0, 1}},
		{FaceNegativeZ, mgl32.Vec3{0, 0, -1}},
	}
	for _, tt := range tests {
		got := DirectionForFaceCoords(tt.face, 0, 0)
		for i := range 3 {
			if !almostEqual(got[i], tt.want[i], 1e-6) {
				t.Errorf("face %d center direction = %v, want %v", tt.face, got, tt.want)
				break
			}
		}
	}
}

func TestFaceDirectionsAreUnitLength(t *testing.T) {
	for face := Face(0); face < FaceCount; face++ {
		for _, uv := range [][2]float32{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}, {0.3, -0.7}} {
			dir := DirectionForFaceCoords(face, uv[0], uv[1])
			if !almostEqual(dir.Len(), 1, 1e-5) {
				t.Errorf("face %d (%v, %v): direction length = %v, want 1", face, uv[0], uv[1], dir.Len())
			}
		}
	}
}

// Adjacent faces must agree along their shared edges so the projected cubemap
// has no seams.
func TestAdjacentFaceEdgesAgree(t *testing.T) {
	edges := []struct {
		name  string
		faceA Face
		edgeA float32
		faceB Face
		edgeB float32
	}{
		// +X's u=1 column meets +Z's u=-1 column (both point into the +X+Z corner).
		{"+X/+Z", FacePositiveX, 1, FacePositiveZ, -1},
		{"+X/-Z", FacePositiveX, -1, FaceNegativeZ, 1},
		{"-X/-Z", FaceNegativeX, 1, FaceNegativeZ, -1},
	}
	for _, e := range edges {
		for _, along := range []float32{-1, -0.5, 0, 0.5, 1} {
			onA := DirectionForFaceCoords(e.faceA, e.edgeA, along)
			onB := DirectionForFaceCoords(e.faceB, e.edgeB, along)
			for i := range 3 {
				if !almostEqual(onA[i], onB[i], 1e-5) {
					t.Errorf("%s edge mismatch at %v: %v vs %v", e.name, along, onA, onB)
					break
				}
			}
		}
	}
}

func TestDirectionToEquirectangularUV(t *testing.T) {
	tests := []struct {
		name  string
		dir   mgl32.Vec3
		wantU float32
		wantV float32
	}{
		{"positive x", mgl32.Vec3{1, 0, 0}, 0.5, 0.5},
		{"negative x", mgl32.Vec3{-1, 0, 0}, 1.0, 0.5},
		{"straight up", mgl32.Vec3{0, 1, 0}, 0.5, 1.0},
		{"straight down", mgl32.Vec3{0, -1, 0}, 0.5, 0.0},
		{"positive z", mgl32.Vec3{0, 0, 1}, 0.75, 0.5},
		{"negative z", mgl32.Vec3{0, 0, -1}, 0.25, 0.5},
	}
	for _, tt := range tests {
		u, v := DirectionToEquirectangularUV(tt.dir)
		if !almostEqual(u, tt.wantU, 1e-5) || !almostEqual(v, tt.wantV, 1e-5) {
			t.Errorf("%s: uv = (%v, %v), want (%v, %v)", tt.name, u, v, tt.wantU, tt.wantV)
		}
	}
}

// The x == 0 meridian takes an explicit branch: longitude comes from z alone
// scaled by a quarter turn, not from atan2.
func TestDirectionToEquirectangularUVZeroXBranch(t *testing.T) {
	dir := mgl32.Vec3{0, 0.5, 0.5}
	u, _ := DirectionToEquirectangularUV(dir)
	want := float32(0.5 * (0.5*(math.Pi/2)/math.Pi + 1))
	if !almostEqual(u, want, 1e-5) {
		t.Errorf("u at x=0 = %v, want %v", u, want)
	}

	// Straight up has z == 0 as well; longitude collapses to the u=0.5 meridian.
	u, v := DirectionToEquirectangularUV(mgl32.Vec3{0, 1, 0})
	if !almostEqual(u, 0.5, 1e-6) || !almostEqual(v, 1, 1e-6) {
		t.Errorf("pole uv = (%v, %v), want (0.5, 1)", u, v)
	}
}

func TestUVRoundTripThroughDirection(t *testing.T) {
	// Sample directions across every face, project to panorama coordinates,
	// and confirm the reconstructed direction matches the original.
	for face := Face(0); face < FaceCount; face++ {
		for _, uv := range [][2]float32{{0, 0}, {0.5, -0.25}, {-0.8, 0.6}} {
			dir := DirectionForFaceCoords(face, uv[0], uv[1])
			u, v := DirectionToEquirectangularUV(dir)

			theta := float64(u*2-1) * math.Pi
			phi := float64(v-0.5) * math.Pi
			rebuilt := mgl32.Vec3{
				float32(math.Cos(phi) * math.Cos(theta)),
				float32(math.Sin(phi)),
				float32(math.Cos(phi) * math.Sin(theta)),
			}
			for i := range 3 {
				if !almostEqual(rebuilt[i], dir[i], 1e-4) {
					t.Errorf("face %d uv %v: rebuilt %v, want %v", face, uv, rebuilt, dir)
					break
				}
			}
		}
	}
}

func TestFaceMappingMarshalLayout(t *testing.T) {
	m := FaceMapping{
		Direction: mgl32.Vec3{1, 2, 3},
		UAxis:     mgl32.Vec3{4, 5, 6},
		VAxis:     mgl32.Vec3{7, 8, 9},
	}
	buf := m.Marshal()
	if len(buf) != 48 {
		t.Fatalf("marshaled length = %d, want 48", len(buf))
	}

	readFloat := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
	}
	// Each vec3 occupies a 16-byte slot.
	if readFloat(0) != 1 || readFloat(8) != 3 {
		t.Error("direction not at offset 0")
	}
	if readFloat(16) != 4 || readFloat(24) != 6 {
		t.Error("u axis not at offset 16")
	}
	if readFloat(32) != 7 || readFloat(40) != 9 {
		t.Error("v axis not at offset 32")
	}
}
