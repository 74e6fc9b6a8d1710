package sim_test

import (
	"os"
	"path/filepath"
	"testing"

	sim "quadcopter-sim/internal/sim"

	"github.com/stretchr/testify/require"
)

func TestDefaultGainsComplete(t *testing.T) {
	require.NoError(t, sim.DefaultGains().Validate())
}

func TestGainConfigValidateMissingAxes(t *testing.T) {
	g := sim.DefaultGains()
	delete(g.Position, "z")
	require.ErrorIs(t, g.Validate(), sim.ErrInvalidConfig)

	g = sim.DefaultGains()
	delete(g.Attitude, "yaw")
	require.ErrorIs(t, g.Validate(), sim.ErrInvalidConfig)
}

func TestPresetGains(t *testing.T) {
	def := sim.DefaultGains()

	step := sim.PresetGains(sim.ScenarioStep)
	require.NoError(t, step.Validate())
	require.Greater(t, step.Position["z"].Kd, def.Position["z"].Kd)

	traj := sim.PresetGains(sim.ScenarioTrajectory)
	require.NoError(t, traj.Validate())
	require.Greater(t, traj.Position["x"].Kp, def.Position["x"].Kp)
	require.Equal(t, def.Position["z"], traj.Position["z"])

	// Presets must not mutate the defaults.
	require.Equal(t, sim.DefaultGains(), def)
}

func TestLoadGainsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gains.json")
	data := []byte(`{
		"position": {
			"x": {"kp": 1, "output_min": -4, "output_max": 4},
			"y": {"kp": 1, "output_min": -4, "output_max": 4},
			"z": {"kp": 4, "ki": 0.05, "kd": 3.5, "output_min": -8, "output_max": 8, "integral_min": -2, "integral_max": 2}
		},
		"attitude": {
			"roll":  {"kp": 0.4, "output_min": -1.5, "output_max": 1.5},
			"pitch": {"kp": 0.4, "output_min": -1.5, "output_max": 1.5},
			"yaw":   {"kp": 0.8, "output_min": -0.8, "output_max": 0.8}
		}
	}`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	g, err := sim.LoadGains(path)
	require.NoError(t, err)
	require.Equal(t, 4.0, g.Position["z"].Kp)
	require.Equal(t, 3.5, g.Position["z"].Kd)
	require.Equal(t, 0.8, g.Attitude["yaw"].Kp)
}

func TestLoadGainsErrors(t *testing.T) {
	_, err := sim.LoadGains(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = sim.LoadGains(bad)
	require.Error(t, err)

	incomplete := filepath.Join(t.TempDir(), "incomplete.json")
	require.NoError(t, os.WriteFile(incomplete, []byte(`{"position":{"x":{"kp":1}},"attitude":{}}`), 0o644))
	_, err = sim.LoadGains(incomplete)
	require.ErrorIs(t, err, sim.ErrInvalidConfig)
}
