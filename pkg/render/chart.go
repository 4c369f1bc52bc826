// Package render draws the panel's top-down position chart: the ship and
// its recent track projected onto the horizontal plane around the origin,
// rasterized into a rune buffer for a text display.
package render

import (
	"strings"
	"sync"

	"github.com/astrodeck/go-shipnav/pkg/physics"
)

// ChartRenderer rasterizes ship positions onto a fixed-size rune buffer.
// The chart is origin-centred: +X grows to the right, the canonical forward
// direction (-Z) grows upward. All methods are safe for concurrent use;
// the panel observes and renders from its refresh goroutine while resets
// arrive from the input goroutine.
type ChartRenderer struct {
	mu        sync.Mutex
	width     int
	height    int
	scale     float64 // meters per cell
	buffer    [][]rune
	trail     []physics.Vector3
	trailSize int

	position physics.Vector3
	forward  physics.Vector3
}

// NewChartRenderer creates a chart with the given dimensions in cells and
// scale in meters per cell. trailSize bounds how many past positions stay
// on the chart; zero disables the trail.
func NewChartRenderer(width, height int, scale float64, trailSize int) *ChartRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	return &ChartRenderer{
		width:     width,
		height:    height,
		scale:     scale,
		buffer:    buffer,
		trailSize: trailSize,
		forward:   physics.Vector3{Z: -1},
	}
}

// Observe records the ship's current position and heading for the next
// render, appending the position to the bounded trail.
func (r *ChartRenderer) Observe(position, forward physics.Vector3) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.position = position
	r.forward = forward

	if r.trailSize <= 0 {
		return
	}
	r.trail = append(r.trail, position)
	if len(r.trail) > r.trailSize {
		r.trail = r.trail[len(r.trail)-r.trailSize:]
	}
}

// Reset clears the trail and recenters the ship on the origin.
func (r *ChartRenderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.trail = r.trail[:0]
	r.position = physics.Vector3{}
	r.forward = physics.Vector3{Z: -1}
}

// String renders the chart with a border, the origin cross, the trail and
// the ship heading marker.
func (r *ChartRenderer) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clear()

	for _, pos := range r.trail {
		r.plot(pos, '.')
	}
	r.plot(physics.Vector3{}, '+')
	r.plot(r.position, r.headingMarker())

	var b strings.Builder
	border := "+" + strings.Repeat("-", r.width) + "+"

	b.WriteString(border + "\n")
	for y := range r.buffer {
		b.WriteString("|")
		b.WriteString(string(r.buffer[y]))
		b.WriteString("|\n")
	}
	b.WriteString(border)

	return b.String()
}

// clear blanks the rune buffer
func (r *ChartRenderer) clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
}

// worldToScreen converts world coordinates to buffer coordinates
func (r *ChartRenderer) worldToScreen(pos physics.Vector3) (int, int) {
	screenX := int(pos.X/r.scale) + r.width/2
	screenY := int(pos.Z/r.scale) + r.height/2
	return screenX, screenY
}

// plot sets a marker when the position falls inside the buffer
func (r *ChartRenderer) plot(pos physics.Vector3, marker rune) {
	x, y := r.worldToScreen(pos)
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = marker
	}
}

// headingMarker picks a ship glyph from the dominant horizontal component
// of the forward vector: ^ for -Z, v for +Z, < for -X, > for +X.
func (r *ChartRenderer) headingMarker() rune {
	fx, fz := r.forward.X, r.forward.Z
	if abs(fx) > abs(fz) {
		if fx > 0 {
			return '>'
		}
		return '<'
	}
	if fz > 0 {
		return 'v'
	}
	return '^'
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
