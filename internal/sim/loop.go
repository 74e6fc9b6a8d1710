package sim

import (
	"errors"
	"fmt"
	"math"

	"quadcopter-sim/internal/log"
)

// ErrNumericalDivergence is returned when a NaN or Inf appears in the
// state, a controller output, or a motor command. The run is not
// recoverable; the partial trace remains available.
var ErrNumericalDivergence = errors.New("numerical divergence")

// ErrNotRunning is returned by Step once the loop has completed or aborted.
var ErrNotRunning = errors.New("simulation loop is not running")

// MaxStepSeconds bounds the integration step; explicit Euler is only
// trusted at small fixed steps.
const MaxStepSeconds = 0.01

// LoopStatus is the simulation state machine.
type LoopStatus int

const (
	StatusInitialized LoopStatus = iota
	StatusRunning
	StatusCompleted
	StatusAborted
)

func (s LoopStatus) String() string {
	switch s {
	case StatusInitialized:
		return "initialized"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusAborted:
		return "aborted"
	}
	return "unknown"
}

// LoopConfig fixes the timing of one run. The outer position loop runs
// every OuterEvery inner ticks; in between, its last output is held.
type LoopConfig struct {
	DT         float64 // inner-loop period, seconds
	Duration   float64 // seconds
	OuterEvery int
}

func DefaultLoopConfig() LoopConfig {
	return LoopConfig{DT: 0.005, Duration: 10, OuterEvery: 5}
}

func (c LoopConfig) Validate() error {
	if c.DT <= 0 || c.DT > MaxStepSeconds {
		return wrapInvalid(fmt.Sprintf("dt %v must be in (0, %v]", c.DT, MaxStepSeconds))
	}
	if c.Duration <= 0 {
		return wrapInvalid("duration must be > 0")
	}
	if c.OuterEvery < 1 {
		return wrapInvalid("outer divider must be >= 1")
	}
	return nil
}

// Ticks is the number of inner-loop steps in one run.
func (c LoopConfig) Ticks() int {
	return int(math.Ceil(c.Duration / c.DT))
}

// SimulationLoop drives the cascade: scenario setpoint -> position loop ->
// attitude loop -> mixer -> dynamics, recording a trace. Stepping is
// single-threaded and deterministic; the only state carried across ticks
// is the quadcopter state and the PID accumulators.
type SimulationLoop struct {
	Config   LoopConfig
	Scenario Scenario

	// State is the single quadcopter state, mutated in place once per
	// tick by the dynamics.
	State QuadcopterState

	pos   *PositionController
	att   *AttitudeController
	mixer MotorMixer
	dyn   RigidBodyDynamics

	// Held outer-loop output between outer ticks.
	heldThrust float64
	heldAtt    AttitudeSetpoint

	status LoopStatus
	tick   int
	trace  Trace
}

// NewSimulationLoop validates all configuration up front; no errors are
// raised mid-simulation other than divergence.
func NewSimulationLoop(cfg LoopConfig, vehicle Vehicle, gains GainConfig, scenario Scenario) (*SimulationLoop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := vehicle.Validate(); err != nil {
		return nil, err
	}
	if err := gains.Validate(); err != nil {
		return nil, err
	}
	pos, err := NewPositionController(vehicle, gains, cfg.DT*float64(cfg.OuterEvery))
	if err != nil {
		return nil, err
	}
	att, err := NewAttitudeController(gains, cfg.DT)
	if err != nil {
		return nil, err
	}
	return &SimulationLoop{
		Config:   cfg,
		Scenario: scenario,
		pos:      pos,
		att:      att,
		mixer:    MotorMixer{MotorMax: vehicle.MotorMax},
		dyn:      RigidBodyDynamics{Vehicle: vehicle},
	}, nil
}

func (l *SimulationLoop) Status() LoopStatus { return l.status }

// Trace returns the records produced so far. Valid after completion and
// after an abort.
func (l *SimulationLoop) Trace() *Trace { return &l.trace }

// Step advances the simulation by one inner-loop tick.
func (l *SimulationLoop) Step() error {
	switch l.status {
	case StatusInitialized:
		l.status = StatusRunning
	case StatusRunning:
	default:
		return ErrNotRunning
	}

	t := float64(l.tick) * l.Config.DT
	if !l.State.Finite() {
		return l.abort(t, "non-finite quadcopter state")
	}

	target := l.Scenario.SetpointAt(t)

	outerDT := l.Config.DT * float64(l.Config.OuterEvery)
	if l.tick%l.Config.OuterEvery == 0 {
		l.heldThrust, l.heldAtt = l.pos.Compute(l.State, target, outerDT)
	}

	rollCmd, pitchCmd, yawCmd := l.att.Compute(l.State, l.heldAtt, l.Config.DT)

	if !isFinite(l.heldThrust) || !isFinite(rollCmd) || !isFinite(pitchCmd) || !isFinite(yawCmd) {
		return l.abort(t, "non-finite controller output")
	}

	motors, motorSat := l.mixer.Mix(l.heldThrust, rollCmd, pitchCmd, yawCmd)
	if !motors.Finite() {
		return l.abort(t, "non-finite motor command")
	}

	l.dyn.Step(&l.State, motors, l.Config.DT)
	if !l.State.Finite() {
		return l.abort(t, "non-finite state after integration")
	}

	l.trace.append(Record{
		T:              t,
		State:          l.State,
		Target:         target,
		Motors:         motors,
		MotorSaturated: motorSat,
		CtrlSaturated:  l.pos.Saturated() || l.att.Saturated(),
	})

	l.tick++
	if l.tick >= l.Config.Ticks() {
		l.status = StatusCompleted
	}
	return nil
}

// Run steps the loop until it completes or aborts. On divergence the
// partial trace is returned along with the error.
func (l *SimulationLoop) Run() (*Trace, error) {
	for l.status == StatusInitialized || l.status == StatusRunning {
		if err := l.Step(); err != nil {
			return &l.trace, err
		}
	}
	if sat := l.trace.SaturationTicks(); sat > 0 {
		log.L().Debug("saturation during run",
			"ticks", sat, "total", len(l.trace.Records))
	}
	return &l.trace, nil
}

func (l *SimulationLoop) abort(t float64, reason string) error {
	l.status = StatusAborted
	l.trace.Failure = &Failure{Tick: l.tick, T: t, Reason: reason}
	log.L().Warn("simulation aborted", "tick", l.tick, "t", t, "reason", reason)
	return fmt.Errorf("tick %d (t=%.3fs): %s: %w", l.tick, t, reason, ErrNumericalDivergence)
}
