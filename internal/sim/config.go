package sim

import (
	"encoding/json"
	"fmt"
	"os"
)

// PIDConfig is the on-disk form of one axis's gains.
type PIDConfig struct {
	Kp          float64 `json:"kp"`
	Ki          float64 `json:"ki"`
	Kd          float64 `json:"kd"`
	OutputMin   float64 `json:"output_min"`
	OutputMax   float64 `json:"output_max"`
	IntegralMin float64 `json:"integral_min"`
	IntegralMax float64 `json:"integral_max"`
}

func (c PIDConfig) params(dt float64) PIDParams {
	return PIDParams{
		Kp:          c.Kp,
		Ki:          c.Ki,
		Kd:          c.Kd,
		OutputMin:   c.OutputMin,
		OutputMax:   c.OutputMax,
		IntegralMin: c.IntegralMin,
		IntegralMax: c.IntegralMax,
		DT:          dt,
	}
}

// GainConfig maps axis names to gains for both cascade layers. Position
// keys are "x", "y", "z"; attitude keys are "roll", "pitch", "yaw".
type GainConfig struct {
	Position map[string]PIDConfig `json:"position"`
	Attitude map[string]PIDConfig `json:"attitude"`
}

func (g GainConfig) Validate() error {
	for _, k := range []string{"x", "y", "z"} {
		if _, ok := g.Position[k]; !ok {
			return wrapInvalid("missing position gains for " + k)
		}
	}
	for _, k := range []string{"roll", "pitch", "yaw"} {
		if _, ok := g.Attitude[k]; !ok {
			return wrapInvalid("missing attitude gains for " + k)
		}
	}
	return nil
}

// DefaultGains returns gains tuned for DefaultVehicle: a well-damped
// vertical axis, gentler horizontal axes, and an inner attitude loop
// roughly twice as fast as the outer loop.
func DefaultGains() GainConfig {
	return GainConfig{
		Position: map[string]PIDConfig{
			"x": {Kp: 1.0, Ki: 0.05, Kd: 0.8, OutputMin: -4, OutputMax: 4, IntegralMin: -2, IntegralMax: 2},
			"y": {Kp: 1.0, Ki: 0.05, Kd: 0.8, OutputMin: -4, OutputMax: 4, IntegralMin: -2, IntegralMax: 2},
			"z": {Kp: 4.0, Ki: 0.05, Kd: 3.5, OutputMin: -8, OutputMax: 8, IntegralMin: -2, IntegralMax: 2},
		},
		Attitude: map[string]PIDConfig{
			"roll":  {Kp: 0.4, Ki: 0.02, Kd: 0.1, OutputMin: -1.5, OutputMax: 1.5, IntegralMin: -0.5, IntegralMax: 0.5},
			"pitch": {Kp: 0.4, Ki: 0.02, Kd: 0.1, OutputMin: -1.5, OutputMax: 1.5, IntegralMin: -0.5, IntegralMax: 0.5},
			"yaw":   {Kp: 0.8, Ki: 0.02, Kd: 0.3, OutputMin: -0.8, OutputMax: 0.8, IntegralMin: -0.5, IntegralMax: 0.5},
		},
	}
}

// PresetGains returns suggested gains per scenario kind. Step response
// favors damping over tracking; trajectory tracking raises the horizontal
// proportional gains.
func PresetGains(kind ScenarioKind) GainConfig {
	g := DefaultGains()
	switch kind {
	case ScenarioStep:
		z := g.Position["z"]
		z.Kp, z.Kd = 4.0, 4.0
		g.Position["z"] = z
	case ScenarioTrajectory:
		for _, k := range []string{"x", "y"} {
			p := g.Position[k]
			p.Kp, p.Kd = 1.4, 1.0
			g.Position[k] = p
		}
	}
	return g
}

// LoadGains reads a GainConfig from a JSON file and validates that all six
// axes are present.
func LoadGains(path string) (GainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GainConfig{}, fmt.Errorf("read gains: %w", err)
	}
	var g GainConfig
	if err := json.Unmarshal(data, &g); err != nil {
		return GainConfig{}, fmt.Errorf("parse gains: %w", err)
	}
	if err := g.Validate(); err != nil {
		return GainConfig{}, err
	}
	return g, nil
}
