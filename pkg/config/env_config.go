// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names recognized by ApplyEnvironmentOverrides.
const (
	EnvMaxThrustAccel       = "SHIPNAV_MAX_THRUST_ACCEL"
	EnvMaxRotationRate      = "SHIPNAV_MAX_ROTATION_RATE"
	EnvTickRate             = "SHIPNAV_TICK_RATE"
	EnvDisplayRate          = "SHIPNAV_DISPLAY_RATE"
	EnvProximityAlertRadius = "SHIPNAV_PROXIMITY_ALERT_RADIUS"
	EnvChartScale           = "SHIPNAV_CHART_SCALE"
)

// ApplyEnvironmentOverrides overlays SHIPNAV_* environment variables onto an
// existing configuration. Unset variables leave the configuration untouched;
// unparsable or structurally invalid values are returned as errors so a
// misconfigured deployment fails at startup rather than mid-flight.
func ApplyEnvironmentOverrides(config *SimConfig) error {
	if err := overrideFloat(EnvMaxThrustAccel, &config.MaxThrustAccel); err != nil {
		return err
	}
	if err := overrideFloat(EnvMaxRotationRate, &config.MaxRotationRate); err != nil {
		return err
	}
	if err := overrideInt(EnvTickRate, &config.TickRate); err != nil {
		return err
	}
	if err := overrideInt(EnvDisplayRate, &config.DisplayRate); err != nil {
		return err
	}
	if err := overrideFloat(EnvProximityAlertRadius, &config.ProximityAlertRadius); err != nil {
		return err
	}
	if err := overrideFloat(EnvChartScale, &config.Chart.Scale); err != nil {
		return err
	}

	return config.Validate()
}

// overrideFloat replaces *target with the parsed value of the named
// environment variable when it is set.
func overrideFloat(name string, target *float64) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", name, err)
	}

	*target = value
	return nil
}

// overrideInt replaces *target with the parsed value of the named
// environment variable when it is set.
func overrideInt(name string, target *int) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", name, err)
	}

	*target = value
	return nil
}
