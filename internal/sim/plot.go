package sim

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

type series struct {
	name string
	ys   []float64
}

// SavePlots renders position-, attitude- and motor-output charts of the
// trace as PNG files in dir.
func (tr *Trace) SavePlots(dir string) error {
	if len(tr.Records) == 0 {
		return fmt.Errorf("empty trace, nothing to plot")
	}
	ts := make([]float64, len(tr.Records))
	for i, r := range tr.Records {
		ts[i] = r.T
	}
	pick := func(f func(Record) float64) []float64 {
		ys := make([]float64, len(tr.Records))
		for i, r := range tr.Records {
			ys[i] = f(r)
		}
		return ys
	}

	charts := []struct {
		file, title, ylabel string
		series              []series
	}{
		{
			"position.png", "Position Tracking", "m",
			[]series{
				{"x", pick(func(r Record) float64 { return r.State.Position.X })},
				{"target x", pick(func(r Record) float64 { return r.Target.X })},
				{"y", pick(func(r Record) float64 { return r.State.Position.Y })},
				{"target y", pick(func(r Record) float64 { return r.Target.Y })},
				{"z", pick(func(r Record) float64 { return r.State.Position.Z })},
				{"target z", pick(func(r Record) float64 { return r.Target.Z })},
			},
		},
		{
			"attitude.png", "Attitude", "deg",
			[]series{
				{"roll", pick(func(r Record) float64 { return RadToDeg(r.State.Orientation.X) })},
				{"pitch", pick(func(r Record) float64 { return RadToDeg(r.State.Orientation.Y) })},
				{"yaw", pick(func(r Record) float64 { return RadToDeg(r.State.Orientation.Z) })},
				{"target yaw", pick(func(r Record) float64 { return RadToDeg(r.Target.Yaw) })},
			},
		},
		{
			"motors.png", "Motor Outputs", "N",
			[]series{
				{"m1", pick(func(r Record) float64 { return r.Motors[0] })},
				{"m2", pick(func(r Record) float64 { return r.Motors[1] })},
				{"m3", pick(func(r Record) float64 { return r.Motors[2] })},
				{"m4", pick(func(r Record) float64 { return r.Motors[3] })},
			},
		},
	}

	for _, c := range charts {
		if err := saveLineChart(filepath.Join(dir, c.file), c.title, c.ylabel, ts, c.series); err != nil {
			return err
		}
	}
	return nil
}

func saveLineChart(filename, title, ylabel string, xs []float64, ss []series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = ylabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, s := range ss {
		pts := make(plotter.XYs, len(xs))
		for j := range xs {
			pts[j].X = xs[j]
			pts[j].Y = s.ys[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("plot %s: %w", s.name, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}
	return savePlotPNG(p, 8, 5, filename)
}

func savePlotPNG(p *plot.Plot, widthIn, heightIn float64, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(150),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	defer bw.Flush()

	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}
