// Package readout formats simulation snapshots for the instrument panel.
// It owns the presentation contract: positions and ranges in kilometers,
// velocities in m/s, angles in degrees with azimuth-style wrapping to
// [0, 360). Everything here is display-only; nothing feeds back into the
// simulation.
package readout

import (
	"fmt"
	"math"
	"strings"

	"github.com/astrodeck/go-shipnav/pkg/nav"
	"github.com/astrodeck/go-shipnav/pkg/sim"
)

const metersPerKilometer = 1000.0

// Full renders the multi-line panel readout: header, Cartesian position,
// spherical position, velocity, bearing, forward vector and thrust.
func Full(s sim.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "SHIP NAVIGATION%27s %10d\n", "tick", s.Tick)
	b.WriteString(strings.Repeat("-", 53) + "\n")

	fmt.Fprintf(&b, "POSITION   x %10.3f  y %10.3f  z %10.3f km\n",
		s.Position.X/metersPerKilometer,
		s.Position.Y/metersPerKilometer,
		s.Position.Z/metersPerKilometer)

	fmt.Fprintf(&b, "RANGE      %10.3f km   az %6.1f   el %+6.1f\n",
		s.Spherical.Distance/metersPerKilometer,
		nav.ToAzimuth(s.Spherical.Azimuth),
		s.Spherical.Elevation)

	fmt.Fprintf(&b, "VELOCITY   %10.2f m/s\n", s.Speed)
	fmt.Fprintf(&b, "           x %10.2f  y %10.2f  z %10.2f m/s\n",
		s.Velocity.X, s.Velocity.Y, s.Velocity.Z)

	fmt.Fprintf(&b, "BEARING    pitch %6.1f   yaw %6.1f\n",
		nav.ToAzimuth(s.Bearing.Pitch),
		nav.ToAzimuth(s.Bearing.Yaw))

	fmt.Fprintf(&b, "FORWARD    x %+7.3f  y %+7.3f  z %+7.3f\n",
		s.Forward.X, s.Forward.Y, s.Forward.Z)

	fmt.Fprintf(&b, "THRUST     %3.0f%%  %6.2f m/s2\n",
		throttlePercent(s), s.DisplayThrustAccel)

	if s.ProximityAlert {
		fmt.Fprintf(&b, "PROXIMITY  ALERT  within %.0f m of origin\n", s.AlertRadius)
	}

	return b.String()
}

// Compact renders the one-line status variant: distance in km, speed in
// m/s, pitch and yaw wrapped and rounded to whole degrees.
func Compact(s sim.Snapshot) string {
	line := fmt.Sprintf("dist %.2f km  vel %.1f m/s  pitch %03.0f  yaw %03.0f",
		s.Spherical.Distance/metersPerKilometer,
		s.Speed,
		wholeDegrees(s.Bearing.Pitch),
		wholeDegrees(s.Bearing.Yaw))

	if s.ProximityAlert {
		line += "  [ALERT]"
	}
	return line
}

// throttlePercent scales the display thrust back to a 0-100 indicator.
func throttlePercent(s sim.Snapshot) float64 {
	if s.MaxThrustAccel <= 0 {
		return 0
	}
	return 100 * s.DisplayThrustAccel / s.MaxThrustAccel
}

// wholeDegrees wraps then rounds, re-wrapping so 359.6 reads as 0, not 360.
func wholeDegrees(angle float64) float64 {
	return math.Mod(math.Round(nav.ToAzimuth(angle)), 360)
}
