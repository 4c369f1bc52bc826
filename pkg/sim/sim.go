// Package sim drives the navigation engine at a fixed cadence. It owns the
// command/integrate ordering within a tick, serializes panel input against
// the tick loop, and produces read-only snapshots for the display cadence.
package sim

import (
	"context"
	"sync"
	"time"

	"github.com/astrodeck/go-shipnav/pkg/config"
	"github.com/astrodeck/go-shipnav/pkg/event"
	"github.com/astrodeck/go-shipnav/pkg/nav"
	"github.com/astrodeck/go-shipnav/pkg/physics"
)

// maxDeltaTime caps a measured tick interval so a stalled scheduler cannot
// teleport the ship when the loop resumes.
const maxDeltaTime = 0.1

// defaultTickRate backstops a configuration that bypassed Validate; a
// non-positive rate would otherwise panic the tick loop's ticker.
const defaultTickRate = 60

// Commands holds the control inputs applied at the start of every tick.
type Commands struct {
	Throttle  float64 // fraction of maximum thrust, nominally [0, 1]
	PitchRate float64 // rad/s
	YawRate   float64 // rad/s
}

// Snapshot is an immutable copy of everything the instrument panel shows.
// Values derived for display (spherical coordinates, bearing, forward
// vector) are computed at snapshot time from the canonical state.
type Snapshot struct {
	Tick               uint64
	Position           physics.Vector3 // meters
	Velocity           physics.Vector3 // m/s
	Speed              float64         // m/s
	Forward            physics.Vector3
	Bearing            nav.Bearing   // degrees, unwrapped
	Spherical          nav.Spherical // meters / degrees
	Commands           Commands
	DisplayThrustAccel float64 // m/s²
	MaxThrustAccel     float64 // m/s²
	ProximityAlert     bool
	AlertRadius        float64 // meters, 0 when disabled
}

// Simulation binds a navigation engine to commanded inputs and a tick loop.
// The engine itself is single-threaded; the mutex here serializes the input
// goroutine (panel key handlers) against the tick loop, mirroring how the
// snapshot readers are isolated from writers.
type Simulation struct {
	mu       sync.RWMutex
	engine   *nav.Engine
	commands Commands
	tick     uint64

	alertRadius float64
	inAlert     bool

	tickRate int
	eventBus *event.Bus
}

// New creates a simulation from the given configuration. The event bus is
// optional; pass nil when no subscriber cares about lifecycle or proximity
// events.
func New(cfg *config.SimConfig, bus *event.Bus) *Simulation {
	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = defaultTickRate
	}

	s := &Simulation{
		engine:      nav.NewEngine(cfg.MaxThrustAccel, cfg.MaxRotationRate),
		alertRadius: cfg.ProximityAlertRadius,
		tickRate:    tickRate,
		eventBus:    bus,
	}
	// The ship starts at the origin, inside any enabled alert radius;
	// seeding the flag avoids a spurious crossing event on the first tick.
	s.inAlert = s.alertRadius > 0 && s.engine.WithinRadius(s.alertRadius)
	return s
}

// SetThrottle records the commanded throttle fraction for subsequent ticks.
// Range enforcement happens in the engine, not here.
func (s *Simulation) SetThrottle(throttle float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands.Throttle = throttle
}

// SetPitchRate records the commanded pitch rate in rad/s.
func (s *Simulation) SetPitchRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands.PitchRate = rate
}

// SetYawRate records the commanded yaw rate in rad/s.
func (s *Simulation) SetYawRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands.YawRate = rate
}

// SetRotationRates records both angular rates at once.
func (s *Simulation) SetRotationRates(pitchRate, yawRate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands.PitchRate = pitchRate
	s.commands.YawRate = yawRate
}

// CurrentCommands returns the commands that will apply next tick.
func (s *Simulation) CurrentCommands() Commands {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commands
}

// Step advances the simulation by dt seconds: command phase first
// (thrust and rotation from the recorded commands), then the integration
// phase, then proximity-alert edge detection.
func (s *Simulation) Step(dt float64) {
	var crossing event.Event

	s.mu.Lock()
	s.engine.ApplyThrust(s.commands.Throttle)
	s.engine.Rotate(s.commands.PitchRate, s.commands.YawRate, dt)
	s.engine.Integrate(dt)
	s.tick++

	if s.alertRadius > 0 {
		within := s.engine.WithinRadius(s.alertRadius)
		if within != s.inAlert {
			s.inAlert = within
			eventType := event.ProximityCleared
			if within {
				eventType = event.ProximityEntered
			}
			crossing = event.NewProximityEvent(eventType, s, s.engine.DistanceToOrigin(), s.alertRadius)
		}
	}
	s.mu.Unlock()

	// Handlers run outside the lock so they can take snapshots.
	if crossing != nil {
		s.publish(crossing)
	}
}

// Run executes the fixed-rate tick loop until the context is cancelled.
// Tick intervals are measured rather than assumed so a slow host degrades
// to coarser steps instead of slow-motion physics.
func (s *Simulation) Run(ctx context.Context) {
	s.publish(&event.BaseEvent{EventType: event.SimStarted, Source: s})
	defer s.publish(&event.BaseEvent{EventType: event.SimStopped, Source: s})

	interval := time.Second / time.Duration(s.tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > maxDeltaTime {
				dt = maxDeltaTime
			}
			s.Step(dt)
		}
	}
}

// Reset restores the freshly constructed state: engine at the origin with
// zero motion and angles, commands cleared.
func (s *Simulation) Reset() {
	s.mu.Lock()
	s.engine.Reset()
	s.commands = Commands{}
	s.tick = 0
	s.inAlert = s.alertRadius > 0
	s.mu.Unlock()

	s.publish(&event.BaseEvent{EventType: event.NavReset, Source: s})
}

// Snapshot returns a copy of the current display state. Queries on the
// engine are side-effect-free, so readers never perturb the physics.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Tick:               s.tick,
		Position:           s.engine.Position(),
		Velocity:           s.engine.Velocity(),
		Speed:              s.engine.Velocity().Length(),
		Forward:            s.engine.ForwardVector(),
		Bearing:            s.engine.BearingAngles(),
		Spherical:          s.engine.SphericalCoordinates(),
		Commands:           s.commands,
		DisplayThrustAccel: s.engine.DisplayThrustAccel(),
		MaxThrustAccel:     s.engine.MaxThrustAccel(),
		ProximityAlert:     s.inAlert,
		AlertRadius:        s.alertRadius,
	}
}

func (s *Simulation) publish(e event.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(e)
	}
}
