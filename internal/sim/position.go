package sim

import "math"

// PositionSetpoint is the outer-loop target: a world position in meters
// plus the yaw to hold.
type PositionSetpoint struct {
	X, Y, Z float64
	Yaw     float64
}

// PositionController is the outer cascade stage: three PIDs converting
// position error into a total-thrust demand and tilt targets for the
// attitude loop. The X/Y PIDs output desired world-frame accelerations;
// the Z PID outputs desired vertical acceleration.
type PositionController struct {
	X *PIDController
	Y *PIDController
	Z *PIDController

	Vehicle Vehicle

	// MaxTilt bounds the roll/pitch targets so the small-angle
	// conversion stays valid.
	MaxTilt float64
}

func NewPositionController(vehicle Vehicle, gains GainConfig, dt float64) (*PositionController, error) {
	if err := vehicle.Validate(); err != nil {
		return nil, err
	}
	c := &PositionController{Vehicle: vehicle, MaxTilt: DegToRad(30)}
	for _, axis := range []struct {
		name string
		dst  **PIDController
	}{
		{"x", &c.X},
		{"y", &c.Y},
		{"z", &c.Z},
	} {
		cfg, ok := gains.Position[axis.name]
		if !ok {
			return nil, wrapInvalid("missing position gains for " + axis.name)
		}
		pid, err := NewPIDController(cfg.params(dt))
		if err != nil {
			return nil, err
		}
		*axis.dst = pid
	}
	return c, nil
}

// Compute converts position error into total thrust and an attitude
// setpoint. The vertical PID output is a desired acceleration on top of
// gravity compensation; horizontal accelerations are rotated by the
// current yaw into the body frame and divided by g to get tilt angles.
// Yaw passes through from the setpoint untouched.
func (c *PositionController) Compute(current QuadcopterState, target PositionSetpoint, dt float64) (thrust float64, att AttitudeSetpoint) {
	v := c.Vehicle

	ax := c.X.Compute(target.X-current.Position.X, dt)
	ay := c.Y.Compute(target.Y-current.Position.Y, dt)
	az := c.Z.Compute(target.Z-current.Position.Z, dt)

	thrust = v.Mass * (v.Gravity + az)
	if thrust < 0 {
		thrust = 0
	}

	yaw := current.Orientation.Z
	cy, sy := math.Cos(yaw), math.Sin(yaw)
	bodyAx := ax*cy + ay*sy
	bodyAy := -ax*sy + ay*cy

	att = AttitudeSetpoint{
		Roll:  clamp(-bodyAy/v.Gravity, -c.MaxTilt, c.MaxTilt),
		Pitch: clamp(bodyAx/v.Gravity, -c.MaxTilt, c.MaxTilt),
		Yaw:   target.Yaw,
	}
	return thrust, att
}

// Saturated reports whether any axis PID clamped its output on the last
// compute.
func (c *PositionController) Saturated() bool {
	return c.X.State.Saturated || c.Y.State.Saturated || c.Z.State.Saturated
}

// Reset clears all axis PID state.
func (c *PositionController) Reset() {
	c.X.Reset()
	c.Y.Reset()
	c.Z.Reset()
}
