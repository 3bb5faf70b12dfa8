// Package charts rasterizes chart descriptors to PNG for clients without a
// browser renderer.
package charts

import (
	"errors"
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"sales-dashboard/internal/presentation"
)

const (
	DefaultWidth  = 1024
	DefaultHeight = 512

	MinSize = 64
	MaxSize = 4096

	// maxTicks bounds the number of labelled X ticks on line charts.
	maxTicks = 8
)

var (
	// ErrUnsupportedKind is returned for kinds with no raster form.
	ErrUnsupportedKind = errors.New("chart kind has no PNG rendering")
	// ErrNoData is returned when the selection leaves nothing to draw.
	ErrNoData = errors.New("chart has no data to draw")
)

// RenderPNG draws c onto w. Width and height outside [MinSize, MaxSize]
// are replaced by the defaults.
func RenderPNG(w io.Writer, c presentation.Chart, width, height int) error {
	width = clampSize(width, DefaultWidth)
	height = clampSize(height, DefaultHeight)

	var r interface {
		Render(rp chart.RendererProvider, w io.Writer) error
	}
	var err error

	switch spec := c.(type) {
	case presentation.BarChart:
		r, err = barChart(spec.Common, spec.Points, width, height)
	case presentation.HorizontalBarChart:
		// go-chart only draws vertical bars; categories stay in the same order.
		r, err = barChart(spec.Common, spec.Points, width, height)
	case presentation.HistogramChart:
		r, err = barChart(spec.Common, histogramPoints(spec), width, height)
	case presentation.LineChart:
		r, err = lineChart(spec, width, height)
	case presentation.PieChart:
		r, err = pieChart(spec, width, height)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedKind, c.Kind())
	}
	if err != nil {
		return err
	}

	if err := r.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", c.Base().ID, err)
	}
	return nil
}

// Supports reports whether RenderPNG can draw kind.
func Supports(kind presentation.Kind) bool {
	switch kind {
	case presentation.KindBar, presentation.KindHorizontalBar, presentation.KindHistogram,
		presentation.KindLine, presentation.KindPie:
		return true
	}
	return false
}

func barChart(common presentation.Common, points []presentation.Point, width, height int) (*chart.BarChart, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}

	// Bars are not grouped by colour; every bar takes the first palette entry.
	col := paletteColor(common.Palette, 0)
	bars := make([]chart.Value, len(points))
	for i, p := range points {
		bars[i] = chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		}
	}

	return &chart.BarChart{
		Title:      common.Title,
		Width:      width,
		Height:     height,
		BarWidth:   max(4, (width-120)/(2*len(points))),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: ceiling(points)}},
		Bars:       bars,
	}, nil
}

func lineChart(spec presentation.LineChart, width, height int) (*chart.Chart, error) {
	if len(spec.Points) == 0 {
		return nil, ErrNoData
	}

	xs := make([]float64, len(spec.Points))
	ys := make([]float64, len(spec.Points))
	for i, p := range spec.Points {
		xs[i] = float64(i)
		ys[i] = p.Value
	}
	xTicks := ticks(spec.Points)
	// go-chart needs at least two X values to draw a series, and takes the
	// X range from the ticks when they are set.
	if len(xs) == 1 {
		xs = append(xs, 1)
		ys = append(ys, ys[0])
		xTicks = append(xTicks, chart.Tick{Value: 1})
	}

	col := paletteColor(spec.Palette, 0)
	style := chart.Style{StrokeColor: col, StrokeWidth: 2}
	if spec.Markers {
		style.DotColor = col
		style.DotWidth = 3
	}

	return &chart.Chart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(xs) - 1)},
			Ticks: xTicks,
		},
		YAxis: chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: ceiling(spec.Points)}},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: spec.YField, XValues: xs, YValues: ys, Style: style},
		},
	}, nil
}

func pieChart(spec presentation.PieChart, width, height int) (*chart.PieChart, error) {
	values := make([]chart.Value, 0, len(spec.Slices))
	for i, s := range spec.Slices {
		if s.Value <= 0 {
			continue
		}
		col := paletteColor(spec.Palette, i)
		values = append(values, chart.Value{
			Label: s.Label,
			Value: s.Value,
			Style: chart.Style{FillColor: col},
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	return &chart.PieChart{
		Title:  spec.Title,
		Width:  width,
		Height: height,
		Values: values,
	}, nil
}

func histogramPoints(spec presentation.HistogramChart) []presentation.Point {
	points := make([]presentation.Point, len(spec.Bins))
	for i, b := range spec.Bins {
		points[i] = presentation.Point{
			Label: fmt.Sprintf("%.1f-%.1f", b.Lower, b.Upper),
			Value: float64(b.Count),
		}
	}
	return points
}

// ticks labels at most maxTicks evenly spaced points.
func ticks(points []presentation.Point) []chart.Tick {
	step := max(1, (len(points)+maxTicks-1)/maxTicks)
	out := make([]chart.Tick, 0, maxTicks+1)
	for i := 0; i < len(points); i += step {
		out = append(out, chart.Tick{Value: float64(i), Label: points[i].Label})
	}
	return out
}

// ceiling is the Y-axis maximum: 10% above the largest value, or 1 when
// every value is zero.
func ceiling(points []presentation.Point) float64 {
	top := 0.0
	for _, p := range points {
		top = max(top, p.Value)
	}
	if top <= 0 {
		return 1
	}
	return top * 1.1
}

func paletteColor(palette []string, i int) drawing.Color {
	if len(palette) == 0 {
		return chart.ColorBlue
	}
	return drawing.ColorFromHex(strings.TrimPrefix(palette[i%len(palette)], "#"))
}

func clampSize(v, def int) int {
	if v < MinSize || v > MaxSize {
		return def
	}
	return v
}
