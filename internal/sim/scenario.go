package sim

import (
	"fmt"
	"math"
)

// ScenarioKind tags the built-in setpoint generators.
type ScenarioKind int

const (
	ScenarioHover ScenarioKind = iota
	ScenarioStep
	ScenarioTrajectory
)

func (k ScenarioKind) String() string {
	switch k {
	case ScenarioHover:
		return "hover"
	case ScenarioStep:
		return "step"
	case ScenarioTrajectory:
		return "trajectory"
	}
	return "unknown"
}

// Scenario maps simulation time to a position setpoint. The core consumes
// only SetpointAt; the preset fields below parameterize the built-in kinds.
type Scenario struct {
	Kind ScenarioKind

	// Hover target, also the pre-step target for ScenarioStep.
	Target PositionSetpoint

	// Step parameters.
	StepAt float64
	StepTo PositionSetpoint

	// Trajectory parameters: a circle at constant altitude with the nose
	// tracking the direction of travel.
	Radius   float64
	Omega    float64 // rad/s around the circle
	Altitude float64
}

// HoverScenario holds a single target for the whole run.
func HoverScenario(target PositionSetpoint) Scenario {
	return Scenario{Kind: ScenarioHover, Target: target}
}

// StepScenario holds before until t >= at, then switches to after.
func StepScenario(before, after PositionSetpoint, at float64) Scenario {
	return Scenario{Kind: ScenarioStep, Target: before, StepTo: after, StepAt: at}
}

// TrajectoryScenario circles the origin at the given radius and angular
// rate, holding altitude.
func TrajectoryScenario(radius, omega, altitude float64) Scenario {
	return Scenario{Kind: ScenarioTrajectory, Radius: radius, Omega: omega, Altitude: altitude}
}

// SetpointAt returns the target for simulation time t.
func (s Scenario) SetpointAt(t float64) PositionSetpoint {
	switch s.Kind {
	case ScenarioStep:
		if t >= s.StepAt {
			return s.StepTo
		}
		return s.Target
	case ScenarioTrajectory:
		a := s.Omega * t
		return PositionSetpoint{
			X:   s.Radius * math.Cos(a),
			Y:   s.Radius * math.Sin(a),
			Z:   s.Altitude,
			Yaw: WrapAngle(a + math.Pi/2),
		}
	default:
		return s.Target
	}
}

// ParseScenario builds a default-parameterized scenario from a CLI name.
func ParseScenario(name string) (Scenario, error) {
	switch name {
	case "hover":
		return HoverScenario(PositionSetpoint{Z: 5}), nil
	case "step":
		return StepScenario(
			PositionSetpoint{Z: 1},
			PositionSetpoint{X: 2, Y: 1, Z: 2},
			2.0,
		), nil
	case "trajectory":
		return TrajectoryScenario(3, 0.5, 4), nil
	}
	return Scenario{}, fmt.Errorf("%w: unknown scenario %q", ErrInvalidConfig, name)
}
