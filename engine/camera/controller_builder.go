package camera

import "github.com/go-gl/mathgl/mgl32"

// ControllerOption is a functional option applied to an orbit controller during construction.
type ControllerOption func(*orbitController)

// WithRadius sets the initial orbit radius (distance from target).
//
// Parameters:
//   - radius: initial distance from target
//
// Returns:
//   - ControllerOption: a function that sets the orbit radius
func WithRadius(radius float32) ControllerOption {
	return func(oc *orbitController) {
		oc.radius = radius
	}
}

// WithYaw sets the initial horizontal angle around the Y axis.
//
// Parameters:
//   - yaw: initial horizontal angle in radians
//
// Returns:
//   - ControllerOption: a function that sets the yaw
func WithYaw(yaw float32) ControllerOption {
	return func(oc *orbitController) {
		oc.yaw = yaw
	}
}

// WithPitch sets the initial vertical angle from the horizontal plane.
// The value is clamped just short of the poles.
//
// Parameters:
//   - pitch: initial vertical angle in radians
//
// Returns:
//   - ControllerOption: a function that sets the pitch
func WithPitch(pitch float32) ControllerOption {
	return func(oc *orbitController) {
		oc.pitch = pitch
		oc.clampPitch()
	}
}

// WithTarget sets the look-at/pivot point.
//
// Parameters:
//   - target: world-space coordinates
//
// Returns:
//   - ControllerOption: a function that sets the target
func WithTarget(target mgl32.Vec3) ControllerOption {
	return func(oc *orbitController) {
		oc.target = target
	}
}

// WithRadiusBounds sets the minimum and maximum allowed orbit radius.
//
// Parameters:
//   - min: smallest allowed distance from target
//   - max: largest allowed distance from target
//
// Returns:
//   - ControllerOption: a function that sets the radius bounds
func WithRadiusBounds(min, max float32) ControllerOption {
	return func(oc *orbitController) {
		oc.minRadius = min
		oc.maxRadius = max
		oc.clampRadius()
	}
}

// WithSensitivity sets the mouse drag sensitivity in radians per pixel.
//
// Parameters:
//   - sensitivity: radians per pixel of cursor movement
//
// Returns:
//   - ControllerOption: a function that sets the drag sensitivity
func WithSensitivity(sensitivity float32) ControllerOption {
	return func(oc *orbitController) {
		oc.sensitivity = sensitivity
	}
}

// WithZoomSpeed sets the zoom speed multiplier applied to scroll input.
//
// Parameters:
//   - speed: multiplier for zoom input
//
// Returns:
//   - ControllerOption: a function that sets the zoom speed
func WithZoomSpeed(speed float32) ControllerOption {
	return func(oc *orbitController) {
		oc.zoomSpeed = speed
	}
}
