package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// Record is one tick of the output trace.
type Record struct {
	T      float64
	State  QuadcopterState
	Target PositionSetpoint
	Motors MotorCommand

	// Saturation flags for this tick: a motor hit its clamp, or a PID in
	// either cascade layer clamped its output.
	MotorSaturated bool
	CtrlSaturated  bool
}

// Failure marks the tick at which the loop aborted on numerical divergence.
type Failure struct {
	Tick   int
	T      float64
	Reason string
}

// Trace is the ordered sequence of records a simulation run produces. On
// abort it still holds every valid tick up to the failure point.
type Trace struct {
	Records []Record
	Failure *Failure
}

func (tr *Trace) append(r Record) {
	tr.Records = append(tr.Records, r)
}

// SaturationTicks counts ticks on which any actuator or controller output
// was clamped.
func (tr *Trace) SaturationTicks() int {
	n := 0
	for _, r := range tr.Records {
		if r.MotorSaturated || r.CtrlSaturated {
			n++
		}
	}
	return n
}

// WriteCSV streams the trace as one row per tick.
func (tr *Trace) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{
		"t",
		"x", "y", "z",
		"vx", "vy", "vz",
		"roll", "pitch", "yaw",
		"wx", "wy", "wz",
		"target_x", "target_y", "target_z", "target_yaw",
		"m1", "m2", "m3", "m4",
		"motor_saturated", "ctrl_saturated",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(header))
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, r := range tr.Records {
		row = row[:0]
		row = append(row, f(r.T),
			f(r.State.Position.X), f(r.State.Position.Y), f(r.State.Position.Z),
			f(r.State.Velocity.X), f(r.State.Velocity.Y), f(r.State.Velocity.Z),
			f(r.State.Orientation.X), f(r.State.Orientation.Y), f(r.State.Orientation.Z),
			f(r.State.AngularVel.X), f(r.State.AngularVel.Y), f(r.State.AngularVel.Z),
			f(r.Target.X), f(r.Target.Y), f(r.Target.Z), f(r.Target.Yaw),
			f(r.Motors[0]), f(r.Motors[1]), f(r.Motors[2]), f(r.Motors[3]),
			strconv.FormatBool(r.MotorSaturated), strconv.FormatBool(r.CtrlSaturated),
		)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Performance summarizes tracking quality over a trace.
type Performance struct {
	RMSError Vec3
	MaxError Vec3

	// SettlingTime is the time after which the vertical error stays
	// within the tolerance band, or -1 if it never settles.
	SettlingTime float64

	// Overshoot is the largest vertical excursion past the final target.
	Overshoot float64

	SaturationTicks int
}

// Analyze computes per-axis RMS and max errors plus vertical settling and
// overshoot against the tolerance band tol (meters).
func (tr *Trace) Analyze(tol float64) Performance {
	p := Performance{SettlingTime: -1, SaturationTicks: tr.SaturationTicks()}
	n := len(tr.Records)
	if n == 0 {
		return p
	}

	sqX := make([]float64, n)
	sqY := make([]float64, n)
	sqZ := make([]float64, n)
	for i, r := range tr.Records {
		ex := r.Target.X - r.State.Position.X
		ey := r.Target.Y - r.State.Position.Y
		ez := r.Target.Z - r.State.Position.Z
		sqX[i], sqY[i], sqZ[i] = ex*ex, ey*ey, ez*ez
		p.MaxError.X = math.Max(p.MaxError.X, math.Abs(ex))
		p.MaxError.Y = math.Max(p.MaxError.Y, math.Abs(ey))
		p.MaxError.Z = math.Max(p.MaxError.Z, math.Abs(ez))
	}
	p.RMSError = Vec3{
		X: math.Sqrt(stat.Mean(sqX, nil)),
		Y: math.Sqrt(stat.Mean(sqY, nil)),
		Z: math.Sqrt(stat.Mean(sqZ, nil)),
	}

	// Settling: last tick outside the band decides the settling time.
	finalTarget := tr.Records[n-1].Target
	settled := true
	for i := n - 1; i >= 0; i-- {
		r := tr.Records[i]
		if math.Abs(finalTarget.Z-r.State.Position.Z) > tol {
			if i < n-1 {
				p.SettlingTime = tr.Records[i+1].T
			} else {
				settled = false
			}
			break
		}
		if i == 0 {
			p.SettlingTime = r.T
		}
	}
	if !settled {
		p.SettlingTime = -1
	}

	// Overshoot is measured in the direction of the commanded change.
	dir := 1.0
	if finalTarget.Z < tr.Records[0].Target.Z {
		dir = -1.0
	}
	for _, r := range tr.Records {
		if over := dir * (r.State.Position.Z - finalTarget.Z); over > p.Overshoot {
			p.Overshoot = over
		}
	}
	return p
}
