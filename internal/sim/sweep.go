package sim

import (
	"sort"
	"sync"
)

// SweepResult is the outcome of one independent run in a sweep.
type SweepResult struct {
	Name  string
	Trace *Trace
	Perf  Performance
	Err   error
}

// RunSweep executes several scenarios concurrently, one goroutine per run.
// Each run owns its loop, controllers and state; nothing is shared, so no
// locking is needed. Results are ordered by name for determinism.
func RunSweep(cfg LoopConfig, vehicle Vehicle, gains GainConfig, scenarios map[string]Scenario, tol float64) []SweepResult {
	results := make([]SweepResult, 0, len(scenarios))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, sc := range scenarios {
		wg.Add(1)
		go func(name string, sc Scenario) {
			defer wg.Done()
			res := SweepResult{Name: name}
			loop, err := NewSimulationLoop(cfg, vehicle, gains, sc)
			if err != nil {
				res.Err = err
			} else {
				res.Trace, res.Err = loop.Run()
				if res.Trace != nil {
					res.Perf = res.Trace.Analyze(tol)
				}
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}(name, sc)
	}
	wg.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results
}
