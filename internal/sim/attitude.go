package sim

// AttitudeSetpoint is the inner-loop target in radians.
type AttitudeSetpoint struct {
	Roll, Pitch, Yaw float64
}

// AttitudeController is the inner cascade stage: three PIDs converting
// attitude error to differential-thrust torque commands. The per-axis
// torque clamp lives in each PID's output limits.
type AttitudeController struct {
	Roll  *PIDController
	Pitch *PIDController
	Yaw   *PIDController
}

func NewAttitudeController(gains GainConfig, dt float64) (*AttitudeController, error) {
	c := &AttitudeController{}
	for _, axis := range []struct {
		name string
		dst  **PIDController
	}{
		{"roll", &c.Roll},
		{"pitch", &c.Pitch},
		{"yaw", &c.Yaw},
	} {
		cfg, ok := gains.Attitude[axis.name]
		if !ok {
			return nil, wrapInvalid("missing attitude gains for " + axis.name)
		}
		pid, err := NewPIDController(cfg.params(dt))
		if err != nil {
			return nil, err
		}
		*axis.dst = pid
	}
	return c, nil
}

// Compute returns the roll, pitch and yaw differential-thrust commands for
// the current attitude. Yaw error is wrapped to the shortest angular
// distance so the controller stays stable across the -pi/pi boundary.
func (c *AttitudeController) Compute(current QuadcopterState, target AttitudeSetpoint, dt float64) (roll, pitch, yaw float64) {
	roll = c.Roll.Compute(target.Roll-current.Orientation.X, dt)
	pitch = c.Pitch.Compute(target.Pitch-current.Orientation.Y, dt)
	yaw = c.Yaw.Compute(AngleDiff(target.Yaw, current.Orientation.Z), dt)
	return roll, pitch, yaw
}

// Saturated reports whether any axis PID clamped its output on the last
// compute.
func (c *AttitudeController) Saturated() bool {
	return c.Roll.State.Saturated || c.Pitch.State.Saturated || c.Yaw.State.Saturated
}

// Reset clears all axis PID state.
func (c *AttitudeController) Reset() {
	c.Roll.Reset()
	c.Pitch.Reset()
	c.Yaw.Reset()
}
