package sim_test

import (
	"math"
	"testing"

	sim "quadcopter-sim/internal/sim"

	"github.com/stretchr/testify/require"
)

func proportionalAttitudeGains() sim.GainConfig {
	p := sim.PIDConfig{Kp: 1, OutputMin: -10, OutputMax: 10, IntegralMin: -1, IntegralMax: 1}
	return sim.GainConfig{
		Position: sim.DefaultGains().Position,
		Attitude: map[string]sim.PIDConfig{"roll": p, "pitch": p, "yaw": p},
	}
}

func TestNewAttitudeControllerMissingAxis(t *testing.T) {
	g := proportionalAttitudeGains()
	delete(g.Attitude, "pitch")
	_, err := sim.NewAttitudeController(g, 0.005)
	require.ErrorIs(t, err, sim.ErrInvalidConfig)
}

func TestAttitudeComputeProportional(t *testing.T) {
	c, err := sim.NewAttitudeController(proportionalAttitudeGains(), 0.005)
	require.NoError(t, err)

	state := sim.QuadcopterState{Orientation: sim.Vec3{X: 0.1, Y: -0.2, Z: 0}}
	target := sim.AttitudeSetpoint{Roll: 0.3, Pitch: 0.1, Yaw: 0.5}
	roll, pitch, yaw := c.Compute(state, target, 0.005)
	require.InDelta(t, 0.2, roll, 1e-12)
	require.InDelta(t, 0.3, pitch, 1e-12)
	require.InDelta(t, 0.5, yaw, 1e-12)
	require.False(t, c.Saturated())
}

func TestAttitudeYawWrap(t *testing.T) {
	c, err := sim.NewAttitudeController(proportionalAttitudeGains(), 0.005)
	require.NoError(t, err)

	// A yaw target past pi must be chased the short way round, through the
	// negative direction.
	_, _, yaw := c.Compute(sim.QuadcopterState{}, sim.AttitudeSetpoint{Yaw: 3.2}, 0.005)
	require.InDelta(t, 3.2-2*math.Pi, yaw, 1e-12)

	c.Reset()
	_, _, yaw = c.Compute(sim.QuadcopterState{}, sim.AttitudeSetpoint{Yaw: -math.Pi}, 0.005)
	require.InDelta(t, math.Pi, yaw, 1e-12)
}

func TestAttitudeSaturatedAndReset(t *testing.T) {
	g := proportionalAttitudeGains()
	y := g.Attitude["yaw"]
	y.OutputMin, y.OutputMax = -0.1, 0.1
	g.Attitude["yaw"] = y

	c, err := sim.NewAttitudeController(g, 0.005)
	require.NoError(t, err)

	_, _, yaw := c.Compute(sim.QuadcopterState{}, sim.AttitudeSetpoint{Yaw: 1}, 0.005)
	require.Equal(t, 0.1, yaw)
	require.True(t, c.Saturated())

	c.Reset()
	require.Equal(t, sim.PIDState{}, c.Yaw.State)
	require.False(t, c.Saturated())
}
