package sim

import "fmt"

// World frame is Z-up: X forward, Y left, Z up, gravity acting along -Z.
// Orientation is Euler angles (roll about X, pitch about Y, yaw about Z)
// composed as R = Rz(yaw) * Ry(pitch) * Rx(roll). Positive pitch tilts
// thrust toward +X, positive roll tilts it toward -Y.

// Vehicle holds the physical constants of the quadcopter.
type Vehicle struct {
	Mass    float64 // kg
	Inertia Vec3    // diagonal inertia (Ix, Iy, Iz), kg*m^2
	Gravity float64 // m/s^2

	// Rotor geometry. Lever is the roll/pitch moment arm of one motor
	// (lateral offset in the X configuration); YawCoeff converts a
	// differential-thrust yaw command to reaction torque.
	Lever    float64 // m
	YawCoeff float64 // m

	MotorMax float64 // N, per-motor thrust ceiling
}

// DefaultVehicle returns a small ~1.2 kg quadcopter with roughly 2.5x
// thrust-to-weight.
func DefaultVehicle() Vehicle {
	return Vehicle{
		Mass:     1.2,
		Inertia:  Vec3{X: 0.02, Y: 0.02, Z: 0.04},
		Gravity:  9.81,
		Lever:    0.16,
		YawCoeff: 0.05,
		MotorMax: 7.5,
	}
}

func (v Vehicle) Validate() error {
	switch {
	case v.Mass <= 0:
		return wrapInvalid("vehicle mass must be > 0")
	case v.Inertia.X <= 0 || v.Inertia.Y <= 0 || v.Inertia.Z <= 0:
		return wrapInvalid("vehicle inertia must be > 0 on all axes")
	case v.Gravity <= 0:
		return wrapInvalid("gravity must be > 0")
	case v.Lever <= 0 || v.YawCoeff <= 0:
		return wrapInvalid("rotor geometry must be > 0")
	case v.MotorMax <= 0:
		return wrapInvalid("motor max thrust must be > 0")
	}
	return nil
}

// HoverThrust is the total thrust that balances gravity.
func (v Vehicle) HoverThrust() float64 { return v.Mass * v.Gravity }

// QuadcopterState is the rigid-body state advanced once per tick by
// RigidBodyDynamics and read by both controller layers.
type QuadcopterState struct {
	Position    Vec3
	Velocity    Vec3
	Orientation Vec3 // X=roll, Y=pitch, Z=yaw, radians
	AngularVel  Vec3
}

// Finite reports whether every component of the state is a finite number.
func (s QuadcopterState) Finite() bool {
	return s.Position.Finite() && s.Velocity.Finite() &&
		s.Orientation.Finite() && s.AngularVel.Finite()
}

// RigidBodyDynamics integrates the quadcopter state forward with fixed-step
// explicit Euler (velocity first, then position, matching the angular pass).
type RigidBodyDynamics struct {
	Vehicle Vehicle
}

// Step advances the state by dt given per-motor thrusts. Torques are
// recovered from the motor differentials through the same mixing geometry
// MotorMixer applies forward.
func (d RigidBodyDynamics) Step(s *QuadcopterState, cmd MotorCommand, dt float64) {
	v := d.Vehicle

	// Translational: body +Z thrust rotated into the world frame.
	rot := BodyToWorld(s.Orientation.X, s.Orientation.Y, s.Orientation.Z)
	thrustWorld := rot.MulVec(Vec3{Z: cmd.Total()})
	accel := thrustWorld.Mul(1.0 / v.Mass).Add(Vec3{Z: -v.Gravity})
	s.Velocity = s.Velocity.Add(accel.Mul(dt))
	s.Position = s.Position.Add(s.Velocity.Mul(dt))

	// Rotational: decompose motor thrusts back into the commanded
	// differentials and scale by geometry to get physical torque.
	_, rollCmd, pitchCmd, yawCmd := Unmix(cmd)
	torque := Vec3{
		X: 4 * v.Lever * rollCmd,
		Y: 4 * v.Lever * pitchCmd,
		Z: 4 * v.YawCoeff * yawCmd,
	}
	angAccel := Vec3{
		X: torque.X / v.Inertia.X,
		Y: torque.Y / v.Inertia.Y,
		Z: torque.Z / v.Inertia.Z,
	}
	s.AngularVel = s.AngularVel.Add(angAccel.Mul(dt))
	s.Orientation = s.Orientation.Add(s.AngularVel.Mul(dt))
	s.Orientation.Z = WrapAngle(s.Orientation.Z)
}

func wrapInvalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}
