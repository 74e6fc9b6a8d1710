package sim_test

import (
	"math"
	"testing"

	sim "quadcopter-sim/internal/sim"

	"github.com/stretchr/testify/require"
)

func proportionalPositionGains() sim.GainConfig {
	p := sim.PIDConfig{Kp: 1, OutputMin: -10, OutputMax: 10, IntegralMin: -1, IntegralMax: 1}
	return sim.GainConfig{
		Position: map[string]sim.PIDConfig{"x": p, "y": p, "z": p},
		Attitude: sim.DefaultGains().Attitude,
	}
}

func TestNewPositionControllerValidation(t *testing.T) {
	g := sim.DefaultGains()
	delete(g.Position, "y")
	_, err := sim.NewPositionController(sim.DefaultVehicle(), g, 0.025)
	require.ErrorIs(t, err, sim.ErrInvalidConfig)

	bad := sim.DefaultVehicle()
	bad.Mass = 0
	_, err = sim.NewPositionController(bad, sim.DefaultGains(), 0.025)
	require.ErrorIs(t, err, sim.ErrInvalidConfig)
}

func TestPositionHoverEquilibrium(t *testing.T) {
	vehicle := sim.DefaultVehicle()
	c, err := sim.NewPositionController(vehicle, sim.DefaultGains(), 0.025)
	require.NoError(t, err)

	state := sim.QuadcopterState{Position: sim.Vec3{X: 1, Y: 2, Z: 5}}
	target := sim.PositionSetpoint{X: 1, Y: 2, Z: 5, Yaw: 0.7}
	thrust, att := c.Compute(state, target, 0.025)

	// Zero error means pure gravity compensation and level attitude.
	require.InDelta(t, vehicle.HoverThrust(), thrust, 1e-12)
	require.Zero(t, att.Roll)
	require.Zero(t, att.Pitch)
	require.Equal(t, 0.7, att.Yaw)
	require.False(t, c.Saturated())
}

func TestPositionTiltDirections(t *testing.T) {
	c, err := sim.NewPositionController(sim.DefaultVehicle(), proportionalPositionGains(), 0.025)
	require.NoError(t, err)

	// Target ahead on +X pitches forward, no roll.
	_, att := c.Compute(sim.QuadcopterState{}, sim.PositionSetpoint{X: 2}, 0.025)
	require.Greater(t, att.Pitch, 0.0)
	require.InDelta(t, 0, att.Roll, 1e-12)

	// Target on +Y rolls negative (thrust tilts toward -Y for positive roll).
	c.Reset()
	_, att = c.Compute(sim.QuadcopterState{}, sim.PositionSetpoint{Y: 2}, 0.025)
	require.Less(t, att.Roll, 0.0)
	require.InDelta(t, 0, att.Pitch, 1e-12)
}

func TestPositionYawRotatesAccelerations(t *testing.T) {
	c, err := sim.NewPositionController(sim.DefaultVehicle(), proportionalPositionGains(), 0.025)
	require.NoError(t, err)

	// Facing +Y (yaw pi/2), a +X world error is to the craft's right, so it
	// must roll instead of pitch.
	state := sim.QuadcopterState{Orientation: sim.Vec3{Z: math.Pi / 2}}
	_, att := c.Compute(state, sim.PositionSetpoint{X: 2}, 0.025)
	require.Greater(t, att.Roll, 0.0)
	require.InDelta(t, 0, att.Pitch, 1e-12)
}

func TestPositionTiltClamp(t *testing.T) {
	c, err := sim.NewPositionController(sim.DefaultVehicle(), proportionalPositionGains(), 0.025)
	require.NoError(t, err)

	// A 10 m error with unit gain asks for 10 m/s^2 of lateral acceleration,
	// which is over one g of tilt.
	_, att := c.Compute(sim.QuadcopterState{}, sim.PositionSetpoint{X: 10}, 0.025)
	require.InDelta(t, sim.DegToRad(30), att.Pitch, 1e-12)
}

func TestPositionThrustNeverNegative(t *testing.T) {
	g := proportionalPositionGains()
	z := g.Position["z"]
	z.Kp, z.OutputMin = 4, -20
	g.Position["z"] = z

	c, err := sim.NewPositionController(sim.DefaultVehicle(), g, 0.025)
	require.NoError(t, err)

	// A large downward demand would call for more than -1g; thrust clamps
	// at zero rather than going negative.
	state := sim.QuadcopterState{Position: sim.Vec3{Z: 5}}
	thrust, _ := c.Compute(state, sim.PositionSetpoint{Z: 0}, 0.025)
	require.Zero(t, thrust)
}
