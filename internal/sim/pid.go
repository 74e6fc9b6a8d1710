package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when controller or vehicle parameters fail
// validation at construction time.
var ErrInvalidConfig = errors.New("invalid configuration")

// PIDParams holds the gains and limits of a single PID axis.
type PIDParams struct {
	Kp, Ki, Kd float64

	// Output clamp.
	OutputMin, OutputMax float64

	// Anti-windup clamp on the integral accumulator.
	IntegralMin, IntegralMax float64

	// Control period in seconds.
	DT float64
}

func (p PIDParams) Validate() error {
	if p.OutputMin > p.OutputMax {
		return fmt.Errorf("%w: output min %v > max %v", ErrInvalidConfig, p.OutputMin, p.OutputMax)
	}
	if p.IntegralMin > p.IntegralMax {
		return fmt.Errorf("%w: integral min %v > max %v", ErrInvalidConfig, p.IntegralMin, p.IntegralMax)
	}
	if p.DT <= 0 {
		return fmt.Errorf("%w: dt %v must be > 0", ErrInvalidConfig, p.DT)
	}
	return nil
}

// PIDState is the mutable state owned by one PIDController. It is mutated
// only by Compute and cleared by Reset.
type PIDState struct {
	Integral   float64
	PrevError  float64
	LastOutput float64
	Saturated  bool
}

// PIDController is a discrete PID with integral anti-windup and output
// saturation.
type PIDController struct {
	Params PIDParams
	State  PIDState
}

func NewPIDController(params PIDParams) (*PIDController, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &PIDController{Params: params}, nil
}

// Compute advances the controller one step and returns the clamped output.
// A zero dt contributes no integral growth and a zero derivative term
// rather than dividing by zero.
func (c *PIDController) Compute(err, dt float64) float64 {
	p := c.Params
	s := &c.State

	s.Integral = clamp(s.Integral+err*dt, p.IntegralMin, p.IntegralMax)

	derivative := 0.0
	if dt > 0 {
		derivative = (err - s.PrevError) / dt
	}

	output := p.Kp*err + p.Ki*s.Integral + p.Kd*derivative

	clamped := clamp(output, p.OutputMin, p.OutputMax)
	s.Saturated = clamped != output
	s.PrevError = err
	s.LastOutput = clamped
	return clamped
}

// Reset zeroes the accumulator and error history. Call when the control
// mode changes or a setpoint is replaced so stale history does not carry
// over.
func (c *PIDController) Reset() {
	c.State = PIDState{}
}
