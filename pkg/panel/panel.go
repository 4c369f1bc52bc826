// Package panel implements the interactive instrument panel: a tview
// application showing the navigation readout, the position chart and a
// status bar, with key bindings that feed throttle and rotation commands
// into the simulation.
package panel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/astrodeck/go-shipnav/pkg/config"
	"github.com/astrodeck/go-shipnav/pkg/event"
	"github.com/astrodeck/go-shipnav/pkg/readout"
	"github.com/astrodeck/go-shipnav/pkg/render"
	"github.com/astrodeck/go-shipnav/pkg/sim"
)

// throttleStep is the throttle change per keypress, as a fraction of maximum.
const throttleStep = 0.1

// rateStepFraction is the rotation-rate change per keypress, as a fraction
// of the configured maximum rotation rate.
const rateStepFraction = 0.1

// Panel wires a simulation and chart renderer into a tview application.
type Panel struct {
	app         *tview.Application
	readoutView *tview.TextView
	chartView   *tview.TextView
	statusBar   *tview.TextView

	sim         *sim.Simulation
	chart       *render.ChartRenderer
	displayRate int
	maxRotation float64

	// alertNote holds the most recent proximity message for the status bar.
	// Bus handlers run on the sim-loop and input goroutines while the
	// refresh goroutine reads, so access goes through the mutex.
	noteMu    sync.Mutex
	alertNote string
}

// New creates the panel around an existing simulation. Subscribing to the
// bus keeps proximity crossings visible on the status bar even between
// display refreshes.
func New(s *sim.Simulation, chart *render.ChartRenderer, bus *event.Bus, cfg *config.SimConfig) *Panel {
	p := &Panel{
		app:         tview.NewApplication(),
		sim:         s,
		chart:       chart,
		displayRate: cfg.DisplayRate,
		maxRotation: cfg.MaxRotationRate,
	}

	p.readoutView = tview.NewTextView().SetWrap(false)
	p.readoutView.SetBorder(true)
	p.readoutView.SetTitle(" readout ")

	p.chartView = tview.NewTextView().SetWrap(false).SetTextAlign(tview.AlignCenter)
	p.chartView.SetBorder(true)
	p.chartView.SetTitle(" chart ")

	p.statusBar = tview.NewTextView().SetWrap(false)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.readoutView, 12, 0, false).
		AddItem(p.chartView, 0, 1, false).
		AddItem(p.statusBar, 1, 0, false)

	p.app.SetRoot(layout, true)
	p.app.SetInputCapture(p.handleKey)

	if bus != nil {
		bus.Subscribe(event.ProximityEntered, func(e event.Event) {
			if pe, ok := e.(*event.ProximityEvent); ok {
				p.setAlertNote(fmt.Sprintf("PROXIMITY: inside %.0f m", pe.Radius))
			}
		})
		bus.Subscribe(event.ProximityCleared, func(e event.Event) {
			if pe, ok := e.(*event.ProximityEvent); ok {
				p.setAlertNote(fmt.Sprintf("proximity cleared at %.0f m", pe.Distance))
			}
		})
		bus.Subscribe(event.NavReset, func(event.Event) {
			p.setAlertNote("")
		})
	}

	return p
}

// Run refreshes the display at the configured rate and blocks in the tview
// event loop until the user quits or the context is cancelled.
func (p *Panel) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go p.refreshLoop(ctx)
	go func() {
		<-ctx.Done()
		p.app.Stop()
	}()

	return p.app.Run()
}

// refreshLoop drives the display cadence, which runs slower than and
// independently of the physics tick rate.
func (p *Panel) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(p.displayRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snapshot := p.sim.Snapshot()
			p.chart.Observe(snapshot.Position, snapshot.Forward)
			full := readout.Full(snapshot)
			chart := p.chart.String()
			status := p.statusLine(snapshot)

			p.app.QueueUpdateDraw(func() {
				p.readoutView.SetText(full)
				p.chartView.SetText(chart)
				p.statusBar.SetText(status)
			})
		}
	}
}

// statusLine summarizes the commanded inputs and key help on one line.
func (p *Panel) statusLine(s sim.Snapshot) string {
	line := fmt.Sprintf(" throttle %3.0f%%  pitch %+.2f rad/s  yaw %+.2f rad/s  |  %s  |  arrows rotate  +/- throttle  space zero rates  r reset  q quit",
		s.Commands.Throttle*100, s.Commands.PitchRate, s.Commands.YawRate, readout.Compact(s))

	if note := p.currentAlertNote(); note != "" {
		line += "  |  " + note
	}
	return line
}

func (p *Panel) setAlertNote(note string) {
	p.noteMu.Lock()
	defer p.noteMu.Unlock()
	p.alertNote = note
}

func (p *Panel) currentAlertNote() string {
	p.noteMu.Lock()
	defer p.noteMu.Unlock()
	return p.alertNote
}

// handleKey maps key events onto simulation commands. Throttle and rates
// latch: each press nudges the held command rather than acting only while
// the key is down, since terminals deliver no key-release events.
func (p *Panel) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	switch ev.Key() {
	case tcell.KeyUp:
		p.adjustPitchRate(rateStepFraction * p.maxRotation)
		return nil
	case tcell.KeyDown:
		p.adjustPitchRate(-rateStepFraction * p.maxRotation)
		return nil
	case tcell.KeyLeft:
		p.adjustYawRate(rateStepFraction * p.maxRotation)
		return nil
	case tcell.KeyRight:
		p.adjustYawRate(-rateStepFraction * p.maxRotation)
		return nil
	case tcell.KeyCtrlC:
		p.app.Stop()
		return nil
	}

	switch ev.Rune() {
	case 'w':
		p.adjustPitchRate(rateStepFraction * p.maxRotation)
	case 's':
		p.adjustPitchRate(-rateStepFraction * p.maxRotation)
	case 'a':
		p.adjustYawRate(rateStepFraction * p.maxRotation)
	case 'd':
		p.adjustYawRate(-rateStepFraction * p.maxRotation)
	case '+', '=':
		p.adjustThrottle(throttleStep)
	case '-', '_':
		p.adjustThrottle(-throttleStep)
	case '0':
		p.sim.SetThrottle(0)
	case '1':
		p.sim.SetThrottle(1)
	case ' ':
		p.sim.SetRotationRates(0, 0)
	case 'r':
		p.sim.Reset()
		p.chart.Reset()
	case 'q':
		p.app.Stop()
	default:
		return ev
	}
	return nil
}

func (p *Panel) adjustThrottle(delta float64) {
	throttle := p.sim.CurrentCommands().Throttle + delta
	if throttle < 0 {
		throttle = 0
	}
	if throttle > 1 {
		throttle = 1
	}
	p.sim.SetThrottle(throttle)
}

func (p *Panel) adjustPitchRate(delta float64) {
	commands := p.sim.CurrentCommands()
	p.sim.SetPitchRate(clampRate(commands.PitchRate+delta, p.maxRotation))
}

func (p *Panel) adjustYawRate(delta float64) {
	commands := p.sim.CurrentCommands()
	p.sim.SetYawRate(clampRate(commands.YawRate+delta, p.maxRotation))
}

func clampRate(rate, limit float64) float64 {
	if rate < -limit {
		return -limit
	}
	if rate > limit {
		return limit
	}
	return rate
}
