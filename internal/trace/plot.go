package trace

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	colorRoot  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorFloor = color.RGBA{R: 127, G: 127, B: 127, A: 255}
	colorLeft  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	colorRight = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	colorHip   = color.RGBA{R: 148, G: 103, B: 189, A: 255}
)

type series struct {
	label string
	color color.Color
	y     func(Sample) float32
}

// WritePlots renders the root height and IK charts into dir and returns the
// written file paths.
func WritePlots(dir string, r *Recorder) ([]string, error) {
	if r.Len() == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create plot dir: %w", err)
	}

	charts := []struct {
		file   string
		title  string
		ylabel string
		series []series
	}{
		{
			file:   "root_height.png",
			title:  "Root height",
			ylabel: "Height (m)",
			series: []series{
				{"root", colorRoot, func(s Sample) float32 { return s.RootY }},
				{"floor", colorFloor, func(s Sample) float32 { return s.Floor }},
			},
		},
		{
			file:   "foot_goals.png",
			title:  "Foot IK goals",
			ylabel: "Height (m)",
			series: []series{
				{"left foot", colorLeft, func(s Sample) float32 { return s.LeftGoalY }},
				{"right foot", colorRight, func(s Sample) float32 { return s.RightGoalY }},
			},
		},
		{
			file:   "hip.png",
			title:  "Pelvis height",
			ylabel: "Height (m)",
			series: []series{
				{"pelvis", colorHip, func(s Sample) float32 { return s.HipY }},
			},
		},
	}

	samples := r.Samples()
	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s (%s)", c.title, r.RunID())
		p.X.Label.Text = "Time (s)"
		p.Y.Label.Text = c.ylabel

		for _, sr := range c.series {
			pts := make(plotter.XYs, 0, len(samples))
			for _, s := range samples {
				pts = append(pts, plotter.XY{X: float64(s.Time), Y: float64(sr.y(s))})
			}
			line, err := plotter.NewLine(pts)
			if err != nil {
				return paths, fmt.Errorf("%s: %w", c.file, err)
			}
			line.Color = sr.color
			line.Width = vg.Points(1)
			p.Add(line)
			p.Legend.Add(sr.label, line)
		}
		p.Legend.Top = true
		p.Legend.Left = false
		p.Legend.XOffs = -10
		p.Legend.YOffs = -10

		path := filepath.Join(dir, c.file)
		if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
			return paths, fmt.Errorf("save %s: %w", c.file, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
