// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// SimConfig contains configuration for the navigation simulation and panel
type SimConfig struct {
	MaxThrustAccel       float64     `json:"maxThrustAccel"`       // m/s²
	MaxRotationRate      float64     `json:"maxRotationRate"`      // rad/s
	TickRate             int         `json:"tickRate"`             // physics steps per second
	DisplayRate          int         `json:"displayRate"`          // panel refreshes per second
	ProximityAlertRadius float64     `json:"proximityAlertRadius"` // meters, 0 disables
	Chart                ChartConfig `json:"chart"`
}

// ChartConfig contains configuration for the panel's position chart
type ChartConfig struct {
	Width     int     `json:"width"`     // cells
	Height    int     `json:"height"`    // cells
	Scale     float64 `json:"scale"`     // meters per cell
	TrailSize int     `json:"trailSize"` // recent positions kept on the chart
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config SimConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *SimConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the reference simulation configuration
func DefaultConfig() *SimConfig {
	return &SimConfig{
		MaxThrustAccel:       10.0,
		MaxRotationRate:      1.0,
		TickRate:             60,
		DisplayRate:          10,
		ProximityAlertRadius: 0,
		Chart: ChartConfig{
			Width:     41,
			Height:    21,
			Scale:     100,
			TrailSize: 64,
		},
	}
}

// Validate checks that the configuration can drive a simulation.
// The engine itself clamps per-call inputs; structural limits are a host
// concern and fail loudly at load time instead.
func (c *SimConfig) Validate() error {
	if c.MaxThrustAccel <= 0 {
		return fmt.Errorf("maxThrustAccel must be positive, got %v", c.MaxThrustAccel)
	}
	if c.MaxRotationRate <= 0 {
		return fmt.Errorf("maxRotationRate must be positive, got %v", c.MaxRotationRate)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("tickRate must be positive, got %d", c.TickRate)
	}
	if c.DisplayRate <= 0 {
		return fmt.Errorf("displayRate must be positive, got %d", c.DisplayRate)
	}
	if c.DisplayRate > c.TickRate {
		return fmt.Errorf("displayRate %d must not exceed tickRate %d", c.DisplayRate, c.TickRate)
	}
	if c.ProximityAlertRadius < 0 {
		return fmt.Errorf("proximityAlertRadius must not be negative, got %v", c.ProximityAlertRadius)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart dimensions must be positive, got %dx%d", c.Chart.Width, c.Chart.Height)
	}
	if c.Chart.Scale <= 0 {
		return fmt.Errorf("chart scale must be positive, got %v", c.Chart.Scale)
	}
	if c.Chart.TrailSize < 0 {
		return fmt.Errorf("chart trailSize must not be negative, got %d", c.Chart.TrailSize)
	}
	return nil
}
