package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestOrbitControllerDrag(t *testing.T) {
	ctrl := NewOrbitController(WithSensitivity(0.01))

	startYaw := ctrl.Yaw()
	startPitch := ctrl.Pitch()

	ctrl.Drag(100, 50)

	if ctrl.Yaw() == startYaw {
		t.Error("expected horizontal drag to change yaw")
	}
	if ctrl.Pitch() == startPitch {
		t.Error("expected vertical drag to change pitch")
	}

	wantYaw := startYaw - 100*0.01
	if diff := ctrl.Yaw() - wantYaw; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("yaw = %v, want %v", ctrl.Yaw(), wantYaw)
	}
}

func TestOrbitControllerPitchClamp(t *testing.T) {
	ctrl := NewOrbitController()

	// Drag far past the pole in both directions.
	ctrl.Drag(0, 1e6)
	if ctrl.Pitch() > pitchLimit {
		t.Errorf("pitch %v exceeds upper limit %v", ctrl.Pitch(), pitchLimit)
	}
	ctrl.Drag(0, -2e6)
	if ctrl.Pitch() < -pitchLimit {
		t.Errorf("pitch %v exceeds lower limit %v", ctrl.Pitch(), -pitchLimit)
	}
}

func TestOrbitControllerRadiusClamp(t *testing.T) {
	ctrl := NewOrbitController(WithRadiusBounds(1, 10), WithRadius(5), WithZoomSpeed(1))

	ctrl.Zoom(100)
	if ctrl.Radius() != 1 {
		t.Errorf("radius after zoom in = %v, want clamp to 1", ctrl.Radius())
	}
	ctrl.Zoom(-100)
	if ctrl.Radius() != 10 {
		t.Errorf("radius after zoom out = %v, want clamp to 10", ctrl.Radius())
	}
}

func TestOrbitControllerPositionOnSphere(t *testing.T) {
	target := mgl32.Vec3{1, 2, 3}
	ctrl := NewOrbitController(WithTarget(target), WithRadius(4))

	ctrl.Drag(37, -12)

	dist := ctrl.Position().Sub(target).Len()
	if diff := float64(dist - 4); math.Abs(diff) > 1e-4 {
		t.Errorf("distance from target = %v, want 4", dist)
	}
}

func TestCameraDepthRangeRemap(t *testing.T) {
	ctrl := NewOrbitController(WithRadius(5), WithYaw(0), WithPitch(0))
	cam := NewCamera(WithController(ctrl), WithNear(0.1), WithFar(100))

	proj := cam.ProjectionMatrix()

	// A point on the near plane must land at clip depth 0, the far plane at 1.
	nearClip := proj.Mul4x1(mgl32.Vec4{0, 0, -0.1, 1})
	if d := nearClip.Z() / nearClip.W(); math.Abs(float64(d)) > 1e-5 {
		t.Errorf("near plane depth = %v, want 0", d)
	}
	farClip := proj.Mul4x1(mgl32.Vec4{0, 0, -100, 1})
	if d := farClip.Z() / farClip.W(); math.Abs(float64(d-1)) > 1e-5 {
		t.Errorf("far plane depth = %v, want 1", d)
	}
}

func TestCameraRotationViewProjectionIgnoresTranslation(t *testing.T) {
	ctrl := NewOrbitController(WithRadius(8), WithYaw(0.7), WithPitch(0.3))
	cam := NewCamera(WithController(ctrl))

	// Moving the target translates the camera but must not change the
	// rotation-only matrix used by the skybox.
	before := cam.RotationViewProjectionMatrix()
	ctrl.SetTarget(mgl32.Vec3{10, -5, 3})
	cam.Update()
	after := cam.RotationViewProjectionMatrix()

	for i := range before {
		if diff := float64(before[i] - after[i]); math.Abs(diff) > 1e-5 {
			t.Fatalf("rotation view-projection changed at element %d: %v != %v", i, before[i], after[i])
		}
	}
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	u := GPUCameraUniform{
		Position: [3]float32{1, 2, 3},
		ViewProj: mgl32.Ident4(),
	}

	if u.Size() != 80 {
		t.Fatalf("uniform size = %d, want 80", u.Size())
	}

	buf := u.Marshal()
	if len(buf) != 80 {
		t.Fatalf("marshaled length = %d, want 80", len(buf))
	}

	readFloat := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
	}
	if readFloat(0) != 1 || readFloat(4) != 2 || readFloat(8) != 3 {
		t.Errorf("position bytes = (%v, %v, %v), want (1, 2, 3)", readFloat(0), readFloat(4), readFloat(8))
	}
	// Identity matrix diagonal starts at offset 16.
	if readFloat(16) != 1 || readFloat(16+5*4) != 1 || readFloat(16+10*4) != 1 || readFloat(16+15*4) != 1 {
		t.Error("view-projection diagonal not found at expected offsets")
	}
}
