// Package chart renders selections as PNG images: a bar chart for a single
// item and a line chart for a comparison.
package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"menusales/internal/core"
)

const (
	height     = 480
	minWidth   = 640
	barWidth   = 40
	barSpacing = 20
)

// RenderBar draws points as bars in the order given. Months without a
// quantity keep their slot on the axis but draw nothing.
func RenderBar(w io.Writer, title string, points []core.Point) error {
	if len(points) == 0 {
		return fmt.Errorf("bar chart %q: %w", title, core.ErrNothingToRender)
	}

	bars := make([]chart.Value, len(points))
	maxY := 0.0
	for i, p := range points {
		v := chart.Value{Label: p.Month}
		if p.Quantity.Valid {
			v.Value = p.Quantity.Decimal.InexactFloat64()
			maxY = math.Max(maxY, v.Value)
		} else {
			v.Style = chart.Style{FillColor: drawing.ColorTransparent, StrokeColor: drawing.ColorTransparent}
		}
		bars[i] = v
	}

	bc := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      max(minWidth, len(bars)*(barWidth+barSpacing)+160),
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: axisMax(maxY)},
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, w)
}

// RenderLines draws one line per item of table over the shared month axis.
// Missing cells are skipped rather than drawn as zero. An empty selection,
// or one with no quantities at all, has nothing to draw.
func RenderLines(w io.Writer, title string, table core.SeriesTable) error {
	if table.Empty() || len(table.Months) == 0 {
		return fmt.Errorf("line chart %q: %w", title, core.ErrNothingToRender)
	}

	var series []chart.Series
	minY, maxY := 0.0, 0.0
	for i, item := range table.Items {
		var xs, ys []float64
		for m, p := range table.Column(i) {
			if !p.Quantity.Valid {
				continue
			}
			y := p.Quantity.Decimal.InexactFloat64()
			xs = append(xs, float64(m))
			ys = append(ys, y)
			minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		}
		if len(xs) == 0 {
			continue
		}
		color := chart.GetDefaultColor(i)
		series = append(series, chart.ContinuousSeries{
			Name:    item,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    3,
			},
		})
	}
	if len(series) == 0 {
		return fmt.Errorf("line chart %q: %w", title, core.ErrNothingToRender)
	}

	ticks := make([]chart.Tick, len(table.Months))
	for m, month := range table.Months {
		ticks[m] = chart.Tick{Value: float64(m), Label: month}
	}

	ch := chart.Chart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 28}},
		Width:      max(minWidth, len(table.Months)*72+160),
		Height:     height,
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: math.Max(1, float64(len(table.Months)-1))},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: minY, Max: axisMax(maxY)},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

// axisMax pads the top of the value axis; an all-zero chart still gets a
// non-empty range.
func axisMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v * 1.1
}
