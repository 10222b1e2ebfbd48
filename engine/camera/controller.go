package camera

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// pitchLimit keeps the orbit pitch just short of the poles so the look
// direction never becomes parallel to the up vector.
const pitchLimit = float32(math.Pi/2) - 0.01

// Controller owns the camera's positional state. The orbit controller keeps
// the camera on a sphere around the target point: mouse drag adjusts yaw and
// pitch, scroll adjusts the orbit radius, and the camera reads Position and
// Target each frame to rebuild its view matrix.
type Controller interface {
	// Position returns the camera's world-space position, computed from the
	// target and the current spherical coordinates.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at/pivot point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the look-at/pivot point and recomputes the position.
	//
	// Parameters:
	//   - target: world-space coordinates
	SetTarget(target mgl32.Vec3)

	// Drag applies a mouse drag delta to the orbit angles. Horizontal motion
	// adjusts yaw, vertical motion adjusts pitch. Pitch is clamped just short
	// of straight up and straight down.
	//
	// Parameters:
	//   - dx: horizontal cursor delta in pixels
	//   - dy: vertical cursor delta in pixels
	Drag(dx, dy float32)

	// Zoom adjusts the orbit radius. Positive delta zooms in (closer to
	// target). The radius is clamped to the controller's bounds.
	//
	// Parameters:
	//   - delta: zoom amount scaled by ZoomSpeed
	Zoom(delta float32)

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// Yaw returns the current horizontal angle around the Y axis.
	//
	// Returns:
	//   - float32: yaw in radians
	Yaw() float32

	// SetYaw sets the horizontal angle directly and recomputes the position.
	//
	// Parameters:
	//   - yaw: new horizontal angle in radians
	SetYaw(yaw float32)

	// Pitch returns the current vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: pitch in radians
	Pitch() float32

	// SetPitch sets the vertical angle directly, clamped just short of the poles.
	//
	// Parameters:
	//   - pitch: new vertical angle in radians
	SetPitch(pitch float32)

	// Sensitivity returns the mouse drag sensitivity in radians per pixel.
	//
	// Returns:
	//   - float32: radians per pixel of cursor movement
	Sensitivity() float32

	// ZoomSpeed returns the zoom speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for zoom input
	ZoomSpeed() float32
}

type orbitController struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3

	// Spherical coordinates relative to the target
	radius float32
	yaw    float32 // horizontal angle around the Y axis
	pitch  float32 // vertical angle from the horizontal plane

	minRadius float32
	maxRadius float32

	sensitivity float32
	zoomSpeed   float32
}

var _ Controller = &orbitController{}

// NewOrbitController creates an orbit controller centered on the origin with
// sensible defaults for viewing a scene a few units across.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewOrbitController(options ...ControllerOption) Controller {
	oc := &orbitController{
		mu:     &sync.Mutex{},
		target: mgl32.Vec3{0, 0, 0},

		radius: 4.0,
		yaw:    0.0,
		pitch:  0.0,

		minRadius: 0.25,
		maxRadius: 90.0,

		sensitivity: 0.005,
		zoomSpeed:   0.25,
	}

	for _, option := range options {
		option(oc)
	}

	oc.updatePosition()
	return oc
}

// updatePosition recomputes the camera position from spherical coordinates.
// Must be called whenever radius, yaw, pitch, or target changes.
// Caller must hold the mutex.
func (oc *orbitController) updatePosition() {
	cosPitch := float32(math.Cos(float64(oc.pitch)))
	sinPitch := float32(math.Sin(float64(oc.pitch)))
	cosYaw := float32(math.Cos(float64(oc.yaw)))
	sinYaw := float32(math.Sin(float64(oc.yaw)))

	oc.position = oc.target.Add(mgl32.Vec3{
		oc.radius * cosPitch * sinYaw,
		oc.radius * sinPitch,
		oc.radius * cosPitch * cosYaw,
	})
}

func (oc *orbitController) Position() mgl32.Vec3 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.position
}

func (oc *orbitController) Target() mgl32.Vec3 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.target
}

func (oc *orbitController) SetTarget(target mgl32.Vec3) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.target = target
	oc.updatePosition()
}

func (oc *orbitController) Drag(dx, dy float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()

	oc.yaw -= dx * oc.sensitivity
	oc.pitch += dy * oc.sensitivity
	oc.clampPitch()
	oc.updatePosition()
}

func (oc *orbitController) Zoom(delta float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()

	oc.radius -= delta * oc.zoomSpeed
	oc.clampRadius()
	oc.updatePosition()
}

func (oc *orbitController) Radius() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.radius
}

func (oc *orbitController) SetRadius(radius float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.radius = radius
	oc.clampRadius()
	oc.updatePosition()
}

func (oc *orbitController) Yaw() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.yaw
}

func (oc *orbitController) SetYaw(yaw float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.yaw = yaw
	oc.updatePosition()
}

func (oc *orbitController) Pitch() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.pitch
}

func (oc *orbitController) SetPitch(pitch float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.pitch = pitch
	oc.clampPitch()
	oc.updatePosition()
}

func (oc *orbitController) Sensitivity() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.sensitivity
}

func (oc *orbitController) ZoomSpeed() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.zoomSpeed
}

// clampPitch keeps the pitch inside (-pitchLimit, pitchLimit).
// Caller must hold the mutex.
func (oc *orbitController) clampPitch() {
	if oc.pitch > pitchLimit {
		oc.pitch = pitchLimit
	}
	if oc.pitch < -pitchLimit {
		oc.pitch = -pitchLimit
	}
}

// clampRadius keeps the radius inside [minRadius, maxRadius].
// Caller must hold the mutex.
func (oc *orbitController) clampRadius() {
	if oc.radius < oc.minRadius {
		oc.radius = oc.minRadius
	}
	if oc.radius > oc.maxRadius {
		oc.radius = oc.maxRadius
	}
}
