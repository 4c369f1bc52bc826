// cmd/navpanel/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/astrodeck/go-shipnav/pkg/config"
	"github.com/astrodeck/go-shipnav/pkg/event"
	"github.com/astrodeck/go-shipnav/pkg/logging"
	"github.com/astrodeck/go-shipnav/pkg/panel"
	"github.com/astrodeck/go-shipnav/pkg/readout"
	"github.com/astrodeck/go-shipnav/pkg/render"
	"github.com/astrodeck/go-shipnav/pkg/sim"
)

func main() {
	logger := logging.NewLogger()
	ctx := logging.WithSessionID(context.Background(), "")

	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	renderer := flag.String("renderer", "tui", "Renderer type: 'tui' or 'plain'")
	demo := flag.Bool("demo", false, "Fly a scripted demonstration maneuver")
	flag.Parse()

	// Create default configuration file if requested
	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	// Load configuration
	var simConfig *config.SimConfig

	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", *configPath,
		)
		simConfig = config.DefaultConfig()
	} else {
		simConfig, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
	}

	// Apply environment variable overrides
	if err := config.ApplyEnvironmentOverrides(simConfig); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}

	// The interactive panel needs a real terminal
	mode := *renderer
	if mode == "tui" && !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		logger.Warn(ctx, "Standard output is not a terminal, falling back to plain renderer")
		mode = "plain"
	}

	eventBus := event.NewEventBus()
	simulation := sim.New(simConfig, eventBus)
	chart := render.NewChartRenderer(
		simConfig.Chart.Width,
		simConfig.Chart.Height,
		simConfig.Chart.Scale,
		simConfig.Chart.TrailSize,
	)

	eventBus.Subscribe(event.ProximityEntered, func(e event.Event) {
		if pe, ok := e.(*event.ProximityEvent); ok {
			logger.Info(ctx, "Proximity alert entered",
				"distance_m", pe.Distance,
				"radius_m", pe.Radius,
			)
		}
	})
	eventBus.Subscribe(event.ProximityCleared, func(e event.Event) {
		if pe, ok := e.(*event.ProximityEvent); ok {
			logger.Info(ctx, "Proximity alert cleared",
				"distance_m", pe.Distance,
				"radius_m", pe.Radius,
			)
		}
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go simulation.Run(runCtx)

	if *demo {
		go flyDemoManeuver(runCtx, simulation)
	}

	logger.Info(ctx, "Navigation panel starting",
		"renderer", mode,
		"tick_rate", simConfig.TickRate,
		"display_rate", simConfig.DisplayRate,
	)

	switch mode {
	case "plain":
		runPlainRenderer(runCtx, simulation, chart, simConfig.DisplayRate)
	default:
		p := panel.New(simulation, chart, eventBus, simConfig)
		if err := p.Run(runCtx); err != nil {
			logger.Error(ctx, "Panel terminated with error", err)
			os.Exit(1)
		}
	}

	logger.Info(ctx, "Navigation panel stopped")
}

// runPlainRenderer prints the readout and chart to stdout at the display
// rate until interrupted. It takes no input; pair it with -demo or with
// SHIPNAV_* overrides for anything beyond a parked ship.
func runPlainRenderer(ctx context.Context, simulation *sim.Simulation, chart *render.ChartRenderer, displayRate int) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	ticker := time.NewTicker(time.Second / time.Duration(displayRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-signals:
			return
		case <-ticker.C:
			snapshot := simulation.Snapshot()
			chart.Observe(snapshot.Position, snapshot.Forward)

			// Home the cursor and clear so the panel redraws in place
			fmt.Print("\033[H\033[2J")
			fmt.Print(readout.Full(snapshot))
			fmt.Println(chart.String())
		}
	}
}

// flyDemoManeuver drives a short scripted flight: burn ahead, coast, come
// about, burn again. Useful for demos and for exercising the display
// without touching the keyboard.
func flyDemoManeuver(ctx context.Context, simulation *sim.Simulation) {
	legs := []struct {
		duration  time.Duration
		throttle  float64
		pitchRate float64
		yawRate   float64
	}{
		{duration: 4 * time.Second, throttle: 0.8},
		{duration: 3 * time.Second},
		{duration: 3 * time.Second, yawRate: 0.5},
		{duration: 4 * time.Second, throttle: 0.6, pitchRate: 0.2},
		{duration: 3 * time.Second},
	}

	for _, leg := range legs {
		simulation.SetThrottle(leg.throttle)
		simulation.SetRotationRates(leg.pitchRate, leg.yawRate)

		select {
		case <-ctx.Done():
			return
		case <-time.After(leg.duration):
		}
	}

	simulation.SetThrottle(0)
	simulation.SetRotationRates(0, 0)
}
