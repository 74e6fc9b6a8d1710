package sim

// Motor layout (X configuration, viewed from above, X forward / Y left):
//
//	m1 front-left  (CCW)    m2 front-right (CW)
//	m4 rear-left   (CW)     m3 rear-right  (CCW)
//
// A positive roll command raises the left pair (m1, m4), a positive pitch
// command raises the rear pair (m3, m4), and a positive yaw command raises
// the CW pair (m2, m4).

// MotorCommand is the four per-rotor thrusts in newtons, produced fresh
// each tick by MotorMixer and consumed immediately by the dynamics.
type MotorCommand [4]float64

func (m MotorCommand) Total() float64 {
	return m[0] + m[1] + m[2] + m[3]
}

func (m MotorCommand) Finite() bool {
	for _, v := range m {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// MotorMixer maps total thrust and the three differential-thrust commands
// to individual rotor thrusts.
type MotorMixer struct {
	MotorMax float64
}

// Mix applies the fixed linear mixing law and clamps each motor to
// [0, MotorMax]. The returned flag reports whether any motor hit a clamp
// boundary so the simulation can flag actuator saturation.
func (mx MotorMixer) Mix(thrust, roll, pitch, yaw float64) (MotorCommand, bool) {
	base := thrust / 4
	cmd := MotorCommand{
		base + roll - pitch - yaw,
		base - roll - pitch + yaw,
		base - roll + pitch - yaw,
		base + roll + pitch + yaw,
	}
	saturated := false
	for i, v := range cmd {
		c := clamp(v, 0, mx.MotorMax)
		if c != v {
			saturated = true
		}
		cmd[i] = c
	}
	return cmd, saturated
}

// Unmix decomposes motor thrusts back into (thrust, roll, pitch, yaw) via
// the algebraic inverse of Mix. For non-saturating inputs the round trip is
// exact up to floating point.
func Unmix(cmd MotorCommand) (thrust, roll, pitch, yaw float64) {
	thrust = cmd.Total()
	roll = (cmd[0] - cmd[1] - cmd[2] + cmd[3]) / 4
	pitch = (-cmd[0] - cmd[1] + cmd[2] + cmd[3]) / 4
	yaw = (-cmd[0] + cmd[1] - cmd[2] + cmd[3]) / 4
	return thrust, roll, pitch, yaw
}
