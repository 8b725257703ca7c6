package plot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/agbru/sircompare/internal/analysis"
	"github.com/agbru/sircompare/internal/format"
	"github.com/agbru/sircompare/internal/orchestration"
)

// Default image size: 12x6 inches at 100 dpi.
const (
	DefaultWidth  = 1200
	DefaultHeight = 600
)

// ErrNothingToPlot is returned when no scenario produced a trajectory.
var ErrNothingToPlot = errors.New("plot: no successful scenario to plot")

var gridColor = drawing.Color{R: 210, G: 210, B: 210, A: 255}

// Options configures the comparison chart.
type Options struct {
	// Place is named in each panel title.
	Place string
	// Width and Height are the size of the whole image in pixels.
	Width, Height int
}

// DefaultOptions returns the Denver chart at the default size.
func DefaultOptions() Options {
	return Options{Place: "Denver", Width: DefaultWidth, Height: DefaultHeight}
}

// RenderComparison draws one panel per successful scenario, left to right,
// and writes the composed PNG to w.
func RenderComparison(w io.Writer, results []orchestration.ScenarioResult, opts Options) error {
	var ok []orchestration.ScenarioResult
	for _, res := range results {
		if res.Err == nil && res.Trajectory != nil {
			ok = append(ok, res)
		}
	}
	if len(ok) == 0 {
		return ErrNothingToPlot
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("plot: invalid image size %dx%d", opts.Width, opts.Height)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	panelWidth := opts.Width / len(ok)
	for i, res := range ok {
		panel, err := renderPanel(res, opts.Place, panelWidth, opts.Height)
		if err != nil {
			return fmt.Errorf("plot: rendering %s: %w", res.Scenario.Name, err)
		}
		offset := image.Pt(i*panelWidth, 0)
		draw.Draw(canvas, panel.Bounds().Add(offset), panel, panel.Bounds().Min, draw.Src)
	}
	return png.Encode(w, canvas)
}

// WriteComparisonPNG renders the chart into the file at path, creating
// parent directories as needed.
func WriteComparisonPNG(path string, results []orchestration.ScenarioResult, opts Options) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := RenderComparison(&buf, results, opts); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func renderPanel(res orchestration.ScenarioResult, place string, width, height int) (image.Image, error) {
	tr := res.Trajectory
	days := tr.Times()
	ratio := res.Scenario.FatalityRatio

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s SIR Model in %s Population", res.Scenario.DisplayName, place),
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Days",
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
		},
		YAxis: chart.YAxis{
			Name:           "Number of People",
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1},
			ValueFormatter: func(v interface{}) string {
				return format.FormatCount(v.(float64))
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Susceptible",
				XValues: days,
				YValues: tr.Susceptible(),
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name:    "Infected",
				XValues: days,
				YValues: tr.Infected(),
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name:    "Recovered",
				XValues: days,
				YValues: tr.Recovered(),
				Style:   chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("Estimated Deaths (%s%%)", format.FormatPercent(ratio)),
				XValues: days,
				YValues: analysis.EstimatedDeaths(tr, ratio),
				Style:   chart.Style{StrokeColor: chart.ColorBlack, StrokeWidth: 2, StrokeDashArray: []float64{6, 4}},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, err
	}
	return img, nil
}
