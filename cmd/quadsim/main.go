package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"quadcopter-sim/internal/log"
	"quadcopter-sim/internal/sim"
)

func main() {
	scenarioName := flag.String("scenario", "hover", "Scenario to run: hover, step, trajectory")
	gainsPath := flag.String("gains", "", "Path to a JSON gain file (default: per-scenario presets)")
	duration := flag.Float64("duration", 10, "Simulated duration in seconds")
	dt := flag.Float64("dt", 0.005, "Inner-loop period in seconds")
	outer := flag.Int("outer", 5, "Inner ticks per outer (position) loop update")
	tol := flag.Float64("tol", 0.02, "Settling tolerance band in meters")
	csvPath := flag.String("csv", "", "Write the trace as CSV to this file")
	plotDir := flag.String("plots", "", "Write PNG charts to this directory")
	sweep := flag.Bool("sweep", false, "Run all scenarios concurrently and compare")
	logLevel := flag.String("log", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	log.Init(*logLevel)

	cfg := sim.LoopConfig{DT: *dt, Duration: *duration, OuterEvery: *outer}
	vehicle := sim.DefaultVehicle()

	if *sweep {
		runSweep(cfg, vehicle, *tol)
		return
	}

	scenario, err := sim.ParseScenario(*scenarioName)
	if err != nil {
		fatal(err)
	}
	gains := sim.PresetGains(scenario.Kind)
	if *gainsPath != "" {
		if gains, err = sim.LoadGains(*gainsPath); err != nil {
			fatal(err)
		}
	}

	loop, err := sim.NewSimulationLoop(cfg, vehicle, gains, scenario)
	if err != nil {
		fatal(err)
	}
	log.L().Info("starting run", "scenario", *scenarioName, "duration", *duration, "dt", *dt, "outer", *outer)

	trace, runErr := loop.Run()
	if runErr != nil && !errors.Is(runErr, sim.ErrNumericalDivergence) {
		fatal(runErr)
	}

	perf := trace.Analyze(*tol)
	final := trace.Records[len(trace.Records)-1]
	fmt.Printf("Status: %s after %d ticks. Final pos=(%.2f, %.2f, %.2f)\n",
		loop.Status(), len(trace.Records),
		final.State.Position.X, final.State.Position.Y, final.State.Position.Z)
	printPerformance(perf)
	if trace.Failure != nil {
		fmt.Printf("Diverged at tick %d (t=%.3fs): %s\n",
			trace.Failure.Tick, trace.Failure.T, trace.Failure.Reason)
	}

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			fatal(err)
		}
		if err := trace.WriteCSV(f); err != nil {
			f.Close()
			fatal(err)
		}
		if err := f.Close(); err != nil {
			fatal(err)
		}
		log.L().Info("trace written", "path", *csvPath, "records", len(trace.Records))
	}
	if *plotDir != "" {
		if err := trace.SavePlots(*plotDir); err != nil {
			fatal(err)
		}
		log.L().Info("plots written", "dir", *plotDir)
	}
	if runErr != nil {
		os.Exit(1)
	}
}

func runSweep(cfg sim.LoopConfig, vehicle sim.Vehicle, tol float64) {
	scenarios := make(map[string]sim.Scenario)
	for _, name := range []string{"hover", "step", "trajectory"} {
		sc, err := sim.ParseScenario(name)
		if err != nil {
			fatal(err)
		}
		scenarios[name] = sc
	}
	results := sim.RunSweep(cfg, vehicle, sim.DefaultGains(), scenarios, tol)
	for _, res := range results {
		fmt.Printf("=== %s ===\n", res.Name)
		if res.Err != nil {
			fmt.Printf("error: %v\n", res.Err)
			continue
		}
		printPerformance(res.Perf)
	}
}

func printPerformance(p sim.Performance) {
	fmt.Printf("RMS error: x=%.4f y=%.4f z=%.4f m\n", p.RMSError.X, p.RMSError.Y, p.RMSError.Z)
	fmt.Printf("Max error: x=%.4f y=%.4f z=%.4f m\n", p.MaxError.X, p.MaxError.Y, p.MaxError.Z)
	if p.SettlingTime >= 0 {
		fmt.Printf("Settling time: %.2fs  Overshoot: %.4fm\n", p.SettlingTime, p.Overshoot)
	} else {
		fmt.Printf("Did not settle  Overshoot: %.4fm\n", p.Overshoot)
	}
	fmt.Printf("Saturation ticks: %d\n", p.SaturationTicks)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "quadsim:", err)
	os.Exit(1)
}
