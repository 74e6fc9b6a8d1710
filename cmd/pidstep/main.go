package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"quadcopter-sim/internal/log"
	"quadcopter-sim/internal/sim"
)

// pidstep exercises a bare PID against a mass-spring-damper plant
// (m*x'' + b*x' + k*x = u) tracking a constant reference, and reports
// steady-state error, overshoot and settling time.
func main() {
	kp := flag.Float64("kp", 1.2, "Proportional gain")
	ki := flag.Float64("ki", 1.2, "Integral gain")
	kd := flag.Float64("kd", 0.3, "Derivative gain")
	outMax := flag.Float64("out", 10, "Output limit (symmetric)")
	intMax := flag.Float64("imax", 5, "Integral limit (symmetric)")
	target := flag.Float64("target", 1.0, "Reference position")
	duration := flag.Float64("duration", 20, "Simulated duration in seconds")
	dt := flag.Float64("dt", 0.01, "Control period in seconds")
	logLevel := flag.String("log", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	log.Init(*logLevel)

	pid, err := sim.NewPIDController(sim.PIDParams{
		Kp: *kp, Ki: *ki, Kd: *kd,
		OutputMin: -*outMax, OutputMax: *outMax,
		IntegralMin: -*intMax, IntegralMax: *intMax,
		DT: *dt,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "pidstep:", err)
		os.Exit(1)
	}

	// Plant constants.
	const (
		mass    = 1.0
		damping = 0.5
		spring  = 2.0
	)

	steps := int(*duration / *dt)
	var x, v float64
	positions := make([]float64, steps)
	for i := 0; i < steps; i++ {
		u := pid.Compute(*target-x, *dt)
		a := (u - damping*v - spring*x) / mass
		v += a * *dt
		x += v * *dt
		positions[i] = x
	}

	// Steady-state error over the last second.
	tail := int(1.0 / *dt)
	if tail > steps {
		tail = steps
	}
	ssErr := 0.0
	for _, p := range positions[steps-tail:] {
		ssErr += *target - p
	}
	ssErr /= float64(tail)

	overshoot := 0.0
	for _, p := range positions {
		if over := p - *target; over > overshoot {
			overshoot = over
		}
	}

	// Settling: entry into the 2% band around the reference.
	settling := -1.0
	tolBand := 0.02 * math.Abs(*target)
	for i := steps - 1; i >= 0; i-- {
		if math.Abs(positions[i]-*target) > tolBand {
			if i < steps-1 {
				settling = float64(i+1) * *dt
			}
			break
		}
		if i == 0 {
			settling = 0
		}
	}

	fmt.Printf("PID response (kp=%.2f ki=%.2f kd=%.2f) over %.1fs at %.0fHz\n",
		*kp, *ki, *kd, *duration, 1 / *dt)
	fmt.Printf("Steady-state error: %.4f\n", ssErr)
	fmt.Printf("Overshoot: %.4f\n", overshoot)
	if settling >= 0 {
		fmt.Printf("Settling time (2%% band): %.2fs\n", settling)
	} else {
		fmt.Println("Did not settle within the run")
	}
}
