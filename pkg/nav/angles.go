// pkg/nav/angles.go
package nav

import "math"

// ToAzimuth maps any degree value into [0, 360) using a strictly
// non-negative modulo, so -45 becomes 315 rather than a negative result.
// Display-only: wrapped values never feed back into the physics state.
func ToAzimuth(angleDegrees float64) float64 {
	return math.Mod(math.Mod(angleDegrees, 360)+360, 360)
}

func radiansToDegrees(radians float64) float64 {
	return radians * 180 / math.Pi
}
