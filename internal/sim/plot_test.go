package sim_test

import (
	"os"
	"path/filepath"
	"testing"

	sim "quadcopter-sim/internal/sim"

	"github.com/stretchr/testify/require"
)

func TestSavePlots(t *testing.T) {
	cfg := sim.LoopConfig{DT: 0.005, Duration: 0.2, OuterEvery: 5}
	loop, err := sim.NewSimulationLoop(cfg, sim.DefaultVehicle(), sim.DefaultGains(),
		sim.HoverScenario(sim.PositionSetpoint{Z: 1}))
	require.NoError(t, err)
	trace, err := loop.Run()
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, trace.SavePlots(dir))

	for _, name := range []string{"position.png", "attitude.png", "motors.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		require.Greater(t, info.Size(), int64(0), name)
	}
}

func TestSavePlotsEmptyTrace(t *testing.T) {
	tr := &sim.Trace{}
	require.Error(t, tr.SavePlots(t.TempDir()))
}
