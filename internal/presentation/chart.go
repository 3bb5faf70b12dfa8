package presentation

import "sales-dashboard/internal/models"

// Kind names a chart variant.
type Kind string

const (
	KindBar           Kind = "bar"
	KindHorizontalBar Kind = "horizontal_bar"
	KindLine          Kind = "line"
	KindPie           Kind = "pie"
	KindHeatmap       Kind = "heatmap"
	KindHistogram     Kind = "histogram"
	KindBox           Kind = "box"
)

// Chart is a declarative chart descriptor. The set of implementations is
// closed: only the types in this file satisfy it.
type Chart interface {
	Kind() Kind
	Base() Common
	isChart()
}

// Common holds the fields every descriptor carries.
type Common struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Palette   []string `json:"palette"`
	FullWidth bool     `json:"full_width"`
}

type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type BarChart struct {
	Common
	XField string  `json:"x_field"`
	YField string  `json:"y_field"`
	Points []Point `json:"points"`
}

// HorizontalBarChart draws categories on the Y axis and values on X.
type HorizontalBarChart struct {
	Common
	XField string  `json:"x_field"`
	YField string  `json:"y_field"`
	Points []Point `json:"points"`
}

type LineChart struct {
	Common
	XField  string  `json:"x_field"`
	YField  string  `json:"y_field"`
	Points  []Point `json:"points"`
	Markers bool    `json:"markers"`
}

type PieChart struct {
	Common
	NamesField  string  `json:"names_field"`
	ValuesField string  `json:"values_field"`
	Slices      []Point `json:"slices"`
}

// HeatmapChart is a dense grid: Z[i][j] is the cell for Y[i] and X[j].
type HeatmapChart struct {
	Common
	XField     string      `json:"x_field"`
	YField     string      `json:"y_field"`
	ZField     string      `json:"z_field"`
	X          []string    `json:"x"`
	Y          []string    `json:"y"`
	Z          [][]float64 `json:"z"`
	ColorScale string      `json:"color_scale"`
}

type HistogramChart struct {
	Common
	XField string                `json:"x_field"`
	Bins   []models.HistogramBin `json:"bins"`
}

type BoxChart struct {
	Common
	XField string                `json:"x_field"`
	YField string                `json:"y_field"`
	Boxes  []models.Distribution `json:"boxes"`
}

func (BarChart) Kind() Kind           { return KindBar }
func (HorizontalBarChart) Kind() Kind { return KindHorizontalBar }
func (LineChart) Kind() Kind          { return KindLine }
func (PieChart) Kind() Kind           { return KindPie }
func (HeatmapChart) Kind() Kind       { return KindHeatmap }
func (HistogramChart) Kind() Kind     { return KindHistogram }
func (BoxChart) Kind() Kind           { return KindBox }

func (c BarChart) Base() Common           { return c.Common }
func (c HorizontalBarChart) Base() Common { return c.Common }
func (c LineChart) Base() Common          { return c.Common }
func (c PieChart) Base() Common           { return c.Common }
func (c HeatmapChart) Base() Common       { return c.Common }
func (c HistogramChart) Base() Common     { return c.Common }
func (c BoxChart) Base() Common           { return c.Common }

func (BarChart) isChart()           {}
func (HorizontalBarChart) isChart() {}
func (LineChart) isChart()          {}
func (PieChart) isChart()           {}
func (HeatmapChart) isChart()       {}
func (HistogramChart) isChart()     {}
func (BoxChart) isChart()           {}

// Envelope is the wire form handed to the browser renderer.
type Envelope struct {
	Kind Kind  `json:"kind"`
	Spec Chart `json:"spec"`
}

func Wrap(c Chart) Envelope {
	return Envelope{Kind: c.Kind(), Spec: c}
}
