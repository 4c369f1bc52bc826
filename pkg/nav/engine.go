// Package nav implements the ship navigation engine: position, velocity and
// orientation state, the fixed-step integration that advances it, and the
// coordinate conversions used by the instrument panel. The engine is
// single-threaded and never returns errors; out-of-range inputs are clamped
// and degenerate values are guarded so a real-time control loop can feed it
// raw values without pre-validation.
package nav

import (
	"math"

	"github.com/astrodeck/go-shipnav/pkg/physics"
)

const (
	// DefaultMaxThrustAccel is the reference maximum thrust acceleration in m/s².
	DefaultMaxThrustAccel = 10.0

	// DefaultMaxRotationRate is the reference maximum rotation rate in rad/s.
	DefaultMaxRotationRate = 1.0

	// rateEpsilon filters near-zero commanded rotation rates so floating-point
	// noise never accumulates into the angle state. It is not an input deadzone.
	rateEpsilon = 1e-3

	// originEpsilon is the position magnitude below which spherical coordinates
	// short-circuit to zero instead of dividing by a near-zero radius.
	originEpsilon = 1e-3
)

// Bearing holds the ship's orientation angles in degrees. Values are read
// straight from the angle accumulators and are unwrapped: they can be any
// real number. Wrap with ToAzimuth for display.
type Bearing struct {
	Pitch float64
	Yaw   float64
}

// Spherical holds the ship's position relative to the origin in spherical
// form: distance in meters, azimuth in degrees in (-180, 180], elevation in
// degrees in [-90, 90].
type Spherical struct {
	Distance  float64
	Azimuth   float64
	Elevation float64
}

// Engine owns all physical and orientation state for a single ship. An
// external driver calls the command operations and Integrate once per fixed
// tick; the query operations are side-effect-free and may be called at any
// cadence.
type Engine struct {
	position     physics.Vector3 // meters, world frame
	velocity     physics.Vector3 // m/s, world frame
	acceleration physics.Vector3 // m/s², cleared at the end of every Integrate

	// pitchAngle and yawAngle accumulate in radians without wraparound and
	// are updated strictly independently of each other.
	pitchAngle float64
	yawAngle   float64

	// displayThrustAccel is the throttle indicator magnitude. It decays on
	// its own schedule and never feeds back into the physics.
	displayThrustAccel float64

	maxThrustAccel  float64
	maxRotationRate float64
}

// NewEngine creates an engine at the origin, at rest, facing the canonical
// forward direction. Non-positive limits fall back to the reference defaults.
func NewEngine(maxThrustAccel, maxRotationRate float64) *Engine {
	if maxThrustAccel <= 0 {
		maxThrustAccel = DefaultMaxThrustAccel
	}
	if maxRotationRate <= 0 {
		maxRotationRate = DefaultMaxRotationRate
	}
	return &Engine{
		maxThrustAccel:  maxThrustAccel,
		maxRotationRate: maxRotationRate,
	}
}

// Integrate advances the state by dt seconds using semi-implicit Euler:
// velocity first, then position from the updated velocity. Commanded
// acceleration is a per-tick force, so it is cleared afterwards regardless
// of dt. The throttle indicator decays at twice the rate it would take to
// reach maximum from zero.
func (e *Engine) Integrate(dt float64) {
	if dt < 0 {
		dt = 0
	}

	e.velocity = e.velocity.Add(e.acceleration.Scale(dt))
	e.position = e.position.Add(e.velocity.Scale(dt))
	e.acceleration = physics.Vector3{}

	e.displayThrustAccel = math.Max(0, e.displayThrustAccel-e.maxThrustAccel*dt*2.0)
}

// ApplyThrust adds acceleration along the current forward direction.
// throttle is a fraction of maximum thrust and is clamped to [0, 1].
// The acceleration is additive so multiple thrust sources can combine
// within one tick; the throttle indicator is overwritten, not accumulated.
func (e *Engine) ApplyThrust(throttle float64) {
	e.thrustAlong(e.ForwardVector(), throttle)
}

// ApplyDirectionalThrust adds acceleration along a caller-supplied direction,
// normalized internally. Intended for auxiliary thrusters; the magnitude and
// indicator rules match ApplyThrust.
func (e *Engine) ApplyDirectionalThrust(direction physics.Vector3, throttle float64) {
	e.thrustAlong(direction.Normalize(), throttle)
}

func (e *Engine) thrustAlong(direction physics.Vector3, throttle float64) {
	magnitude := e.maxThrustAccel * clamp(throttle, 0, 1)
	e.displayThrustAccel = magnitude
	e.acceleration = e.acceleration.Add(direction.Scale(magnitude))
}

// Rotate integrates the commanded angular rates (rad/s) over dt seconds.
// Rates are clamped independently to the maximum rotation rate. Rates below
// the epsilon threshold are skipped entirely so near-zero input noise cannot
// drift the accumulators. The angles themselves are never wrapped.
func (e *Engine) Rotate(pitchRate, yawRate, dt float64) {
	pitchRate = clamp(pitchRate, -e.maxRotationRate, e.maxRotationRate)
	yawRate = clamp(yawRate, -e.maxRotationRate, e.maxRotationRate)

	if math.Abs(pitchRate) > rateEpsilon {
		e.pitchAngle += pitchRate * dt
	}
	if math.Abs(yawRate) > rateEpsilon {
		e.yawAngle += yawRate * dt
	}
}

// ForwardVector derives the ship's forward unit vector from the stored
// angles. At zero pitch and yaw it is exactly (0, 0, -1); increasing yaw
// turns toward -X, increasing pitch toward +Y.
func (e *Engine) ForwardVector() physics.Vector3 {
	cosPitch := math.Cos(e.pitchAngle)
	return physics.Vector3{
		X: -math.Sin(e.yawAngle) * cosPitch,
		Y: math.Sin(e.pitchAngle),
		Z: -math.Cos(e.yawAngle) * cosPitch,
	}.Normalize()
}

// RightVector derives the ship's right unit vector from yaw alone, so it
// stays horizontal even when the ship pitches.
func (e *Engine) RightVector() physics.Vector3 {
	return physics.Vector3{
		X: math.Cos(e.yawAngle),
		Z: math.Sin(e.yawAngle),
	}.Normalize()
}

// UpVector returns right x forward, normalized. Because RightVector ignores
// pitch this is only an approximate up direction once the ship pitches; it
// is a display aid, not a member of a rigorous orthonormal frame.
func (e *Engine) UpVector() physics.Vector3 {
	return e.RightVector().Cross(e.ForwardVector()).Normalize()
}

// BearingAngles returns the orientation angles converted to degrees. They
// are read from the canonical angle state, never recovered from a direction
// vector, so no inverse-trigonometry round-trip can lose information.
func (e *Engine) BearingAngles() Bearing {
	return Bearing{
		Pitch: radiansToDegrees(e.pitchAngle),
		Yaw:   radiansToDegrees(e.yawAngle),
	}
}

// SphericalCoordinates derives the spherical position from the Cartesian
// position. Within originEpsilon of the origin all components are zero.
func (e *Engine) SphericalCoordinates() Spherical {
	r := e.position.Length()
	if r < originEpsilon {
		return Spherical{}
	}

	return Spherical{
		Distance:  r,
		Azimuth:   radiansToDegrees(math.Atan2(e.position.Z, e.position.X)),
		Elevation: radiansToDegrees(math.Asin(clamp(e.position.Y/r, -1, 1))),
	}
}

// Reset restores the freshly constructed state: origin, zero motion, zero
// angles, zero throttle indicator. The configured limits are kept.
func (e *Engine) Reset() {
	e.position = physics.Vector3{}
	e.velocity = physics.Vector3{}
	e.acceleration = physics.Vector3{}
	e.pitchAngle = 0
	e.yawAngle = 0
	e.displayThrustAccel = 0
}

// DistanceToOrigin returns the distance from the reference origin in meters.
func (e *Engine) DistanceToOrigin() float64 {
	return e.position.Length()
}

// WithinRadius reports whether the ship is within r meters of the origin.
func (e *Engine) WithinRadius(r float64) bool {
	return e.position.Length() <= r
}

// Position returns the ship's position in meters, world frame.
func (e *Engine) Position() physics.Vector3 {
	return e.position
}

// Velocity returns the ship's velocity in m/s, world frame.
func (e *Engine) Velocity() physics.Vector3 {
	return e.velocity
}

// Acceleration returns the acceleration accumulated so far this tick.
func (e *Engine) Acceleration() physics.Vector3 {
	return e.acceleration
}

// DisplayThrustAccel returns the decaying throttle indicator magnitude in m/s².
func (e *Engine) DisplayThrustAccel() float64 {
	return e.displayThrustAccel
}

// MaxThrustAccel returns the configured thrust acceleration limit in m/s².
func (e *Engine) MaxThrustAccel() float64 {
	return e.maxThrustAccel
}

// MaxRotationRate returns the configured rotation rate limit in rad/s.
func (e *Engine) MaxRotationRate() float64 {
	return e.maxRotationRate
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
