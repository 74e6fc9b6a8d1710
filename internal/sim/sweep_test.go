package sim_test

import (
	"testing"

	sim "quadcopter-sim/internal/sim"

	"github.com/stretchr/testify/require"
)

func TestRunSweep(t *testing.T) {
	cfg := sim.LoopConfig{DT: 0.005, Duration: 1, OuterEvery: 5}
	scenarios := map[string]sim.Scenario{
		"step":  sim.StepScenario(sim.PositionSetpoint{Z: 1}, sim.PositionSetpoint{Z: 2}, 0.5),
		"hover": sim.HoverScenario(sim.PositionSetpoint{Z: 5}),
	}

	results := sim.RunSweep(cfg, sim.DefaultVehicle(), sim.DefaultGains(), scenarios, 0.02)
	require.Len(t, results, 2)
	require.Equal(t, "hover", results[0].Name)
	require.Equal(t, "step", results[1].Name)

	for _, res := range results {
		require.NoError(t, res.Err, res.Name)
		require.NotNil(t, res.Trace, res.Name)
		require.Nil(t, res.Trace.Failure, res.Name)
		require.Len(t, res.Trace.Records, cfg.Ticks(), res.Name)
		require.Equal(t, res.Trace.SaturationTicks(), res.Perf.SaturationTicks, res.Name)
	}
}

func TestRunSweepPropagatesSetupErrors(t *testing.T) {
	bad := sim.LoopConfig{DT: -1, Duration: 1, OuterEvery: 1}
	results := sim.RunSweep(bad, sim.DefaultVehicle(), sim.DefaultGains(),
		map[string]sim.Scenario{"hover": sim.HoverScenario(sim.PositionSetpoint{Z: 5})}, 0.02)
	require.Len(t, results, 1)
	require.ErrorIs(t, results[0].Err, sim.ErrInvalidConfig)
	require.Nil(t, results[0].Trace)
}
