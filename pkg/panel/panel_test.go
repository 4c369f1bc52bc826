// pkg/panel/panel_test.go
package panel

import (
	"strings"
	"sync"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrodeck/go-shipnav/pkg/config"
	"github.com/astrodeck/go-shipnav/pkg/event"
	"github.com/astrodeck/go-shipnav/pkg/render"
	"github.com/astrodeck/go-shipnav/pkg/sim"
)

func newTestPanel(t *testing.T, bus *event.Bus) (*Panel, *sim.Simulation) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ProximityAlertRadius = 50

	s := sim.New(cfg, bus)
	chart := render.NewChartRenderer(cfg.Chart.Width, cfg.Chart.Height, cfg.Chart.Scale, cfg.Chart.TrailSize)
	return New(s, chart, bus, cfg), s
}

func pressRune(p *Panel, r rune) *tcell.EventKey {
	return p.handleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
}

func pressKey(p *Panel, key tcell.Key) *tcell.EventKey {
	return p.handleKey(tcell.NewEventKey(key, 0, tcell.ModNone))
}

func TestHandleKey_ThrottleSteps(t *testing.T) {
	p, s := newTestPanel(t, nil)

	pressRune(p, '+')
	pressRune(p, '+')
	pressRune(p, '+')
	assert.InDelta(t, 0.3, s.CurrentCommands().Throttle, 1e-9)

	pressRune(p, '-')
	assert.InDelta(t, 0.2, s.CurrentCommands().Throttle, 1e-9)
}

func TestHandleKey_ThrottleClamped(t *testing.T) {
	p, s := newTestPanel(t, nil)

	for i := 0; i < 15; i++ {
		pressRune(p, '=')
	}
	assert.Equal(t, 1.0, s.CurrentCommands().Throttle)

	for i := 0; i < 20; i++ {
		pressRune(p, '_')
	}
	assert.Equal(t, 0.0, s.CurrentCommands().Throttle)
}

func TestHandleKey_ThrottleShortcuts(t *testing.T) {
	p, s := newTestPanel(t, nil)

	pressRune(p, '1')
	assert.Equal(t, 1.0, s.CurrentCommands().Throttle)

	pressRune(p, '0')
	assert.Equal(t, 0.0, s.CurrentCommands().Throttle)
}

func TestHandleKey_RotationRates(t *testing.T) {
	p, s := newTestPanel(t, nil)

	pressKey(p, tcell.KeyUp)
	pressKey(p, tcell.KeyUp)
	pressKey(p, tcell.KeyLeft)

	commands := s.CurrentCommands()
	assert.InDelta(t, 0.2, commands.PitchRate, 1e-9)
	assert.InDelta(t, 0.1, commands.YawRate, 1e-9)

	pressRune(p, 's')
	pressRune(p, 'd')
	commands = s.CurrentCommands()
	assert.InDelta(t, 0.1, commands.PitchRate, 1e-9)
	assert.InDelta(t, 0.0, commands.YawRate, 1e-9)
}

func TestHandleKey_RotationRatesClampedToMaximum(t *testing.T) {
	p, s := newTestPanel(t, nil)

	for i := 0; i < 25; i++ {
		pressRune(p, 'w')
	}
	assert.Equal(t, 1.0, s.CurrentCommands().PitchRate, "pitch rate held at the configured maximum")

	for i := 0; i < 50; i++ {
		pressKey(p, tcell.KeyRight)
	}
	assert.Equal(t, -1.0, s.CurrentCommands().YawRate)
}

func TestHandleKey_SpaceZeroesRates(t *testing.T) {
	p, s := newTestPanel(t, nil)

	pressRune(p, 'w')
	pressRune(p, 'a')
	pressRune(p, ' ')

	commands := s.CurrentCommands()
	assert.Zero(t, commands.PitchRate)
	assert.Zero(t, commands.YawRate)
}

func TestHandleKey_ResetClearsSimAndChart(t *testing.T) {
	bus := event.NewEventBus()
	p, s := newTestPanel(t, bus)

	p.sim.SetThrottle(1)
	for i := 0; i < 10; i++ {
		s.Step(0.1)
	}
	require.NotZero(t, s.Snapshot().Speed)

	pressRune(p, 'r')

	snapshot := s.Snapshot()
	assert.Zero(t, snapshot.Speed)
	assert.Zero(t, snapshot.Tick)
	assert.Zero(t, snapshot.Commands.Throttle)
}

func TestHandleKey_UnhandledKeyPassesThrough(t *testing.T) {
	p, _ := newTestPanel(t, nil)

	ev := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
	assert.Equal(t, ev, p.handleKey(ev), "unmapped keys reach the widgets")

	assert.Nil(t, pressRune(p, '+'), "mapped keys are consumed")
	assert.Nil(t, pressKey(p, tcell.KeyDown))
}

func TestStatusLine_ShowsCommandsAndHelp(t *testing.T) {
	p, s := newTestPanel(t, nil)

	s.SetThrottle(0.5)
	s.SetRotationRates(0.2, -0.1)
	line := p.statusLine(s.Snapshot())

	assert.Contains(t, line, "throttle  50%")
	assert.Contains(t, line, "pitch +0.20 rad/s")
	assert.Contains(t, line, "yaw -0.10 rad/s")
	assert.Contains(t, line, "q quit")
	assert.Contains(t, line, "dist ")
}

func TestStatusLine_CarriesProximityNote(t *testing.T) {
	bus := event.NewEventBus()
	p, s := newTestPanel(t, bus)

	// The ship starts inside the radius; fly out and the cleared note sticks
	s.SetThrottle(1)
	for i := 0; i < 40; i++ {
		s.Step(0.1)
	}

	line := p.statusLine(s.Snapshot())
	assert.Contains(t, line, "proximity cleared")

	pressRune(p, 'r')
	line = p.statusLine(s.Snapshot())
	assert.False(t, strings.Contains(line, "proximity cleared"), "reset clears the note")
}

func TestPanel_ConcurrentEventsRefreshAndInput(t *testing.T) {
	bus := event.NewEventBus()
	p, s := newTestPanel(t, bus)

	var wg sync.WaitGroup
	wg.Add(3)

	// Sim loop: fly out of the alert radius so crossing events fire and
	// the bus handlers write the status note
	go func() {
		defer wg.Done()
		s.SetThrottle(1)
		for i := 0; i < 400; i++ {
			s.Step(0.1)
		}
	}()

	// Refresh loop: snapshot, chart and status line as refreshLoop does
	go func() {
		defer wg.Done()
		for i := 0; i < 400; i++ {
			snapshot := s.Snapshot()
			p.chart.Observe(snapshot.Position, snapshot.Forward)
			_ = p.chart.String()
			_ = p.statusLine(snapshot)
		}
	}()

	// Input: resets publish nav_reset and clear the chart concurrently
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			pressRune(p, 'r')
		}
	}()

	wg.Wait()
	assert.NotEmpty(t, p.statusLine(s.Snapshot()))
}
