// Package render draws presentation chart specs as PNG line charts.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/couchcryptid/berlin-dashboard/internal/presentation"
)

var (
	// ErrNoSeries is returned for a chart without any series to draw.
	ErrNoSeries = errors.New("chart has no series")

	// ErrNoData is returned for a chart whose date axis is empty.
	ErrNoData = errors.New("chart has no dates")
)

const (
	singleDatePad = 12 * time.Hour
	minYSpan      = 1.0
	yHeadroom     = 1.05
)

// Renderer draws charts at a fixed pixel size.
type Renderer struct {
	width  int
	height int
}

// New creates a Renderer producing width x height images.
func New(width, height int) *Renderer {
	return &Renderer{width: width, height: height}
}

// Render writes spec as a PNG to w. Undefined values are left out of each
// line, so the first days of a rolling metric start later than the raw series.
func (r *Renderer) Render(w io.Writer, spec presentation.ChartSpec) error {
	if len(spec.Series) == 0 {
		return ErrNoSeries
	}
	if len(spec.Dates) == 0 {
		return ErrNoData
	}

	p := paletteFor(spec.Theme)
	xr := xRange(spec.Dates)
	yr := yRange(spec)

	ch := chart.Chart{
		Title:        spec.Title,
		TitleStyle:   chart.Style{FontColor: p.text, FontSize: 13},
		ColorPalette: p,
		Width:        r.width,
		Height:       r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 20, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Style:          chart.Style{FontColor: p.text, StrokeColor: p.axis},
			ValueFormatter: chart.TimeValueFormatterWithFormat("02 Jan 06"),
			Range:          xr,
			GridMajorStyle: chart.Style{StrokeColor: p.grid, StrokeWidth: 1},
		},
		YAxis: chart.YAxis{
			Style:          chart.Style{FontColor: p.text, StrokeColor: p.axis},
			Range:          yr,
			GridMajorStyle: chart.Style{StrokeColor: p.grid, StrokeWidth: 1},
		},
	}

	for i, s := range spec.Series {
		ch.Series = append(ch.Series, timeSeries(s, spec.Dates, p, i))
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch, chart.Style{
		FillColor:   p.canvas,
		FontColor:   p.text,
		StrokeColor: p.frame,
	})}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s chart: %w", spec.Kind, err)
	}
	return nil
}

func timeSeries(s presentation.SeriesSpec, dates []time.Time, p palette, index int) chart.TimeSeries {
	xs := make([]time.Time, 0, len(s.Values))
	ys := make([]float64, 0, len(s.Values))
	for i, v := range s.Values {
		if !v.Valid || i >= len(dates) {
			continue
		}
		xs = append(xs, dates[i])
		ys = append(ys, v.Float64)
	}

	color := p.GetSeriesColor(index)
	style := chart.Style{
		StrokeColor: color,
		StrokeWidth: p.strokeWidth,
	}
	if p.glow > 0 {
		style.FillColor = color.WithAlpha(p.glow)
	}
	if len(xs) == 1 {
		style.DotColor = color
		style.DotWidth = 4
	}

	return chart.TimeSeries{
		Name:    s.Label,
		Style:   style,
		XValues: xs,
		YValues: ys,
	}
}

// xRange spans the chart dates, padded around a lone date so the axis has width.
func xRange(dates []time.Time) *chart.ContinuousRange {
	lo, hi := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(lo) {
			lo = d
		}
		if d.After(hi) {
			hi = d
		}
	}
	if !hi.After(lo) {
		lo = lo.Add(-singleDatePad)
		hi = hi.Add(singleDatePad)
	}
	return &chart.ContinuousRange{Min: chart.TimeToFloat64(lo), Max: chart.TimeToFloat64(hi)}
}

// yRange covers every defined value. It starts at zero when asked to or when
// nothing is negative, and is never flatter than minYSpan.
func yRange(spec presentation.ChartSpec) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range spec.Series {
		for _, v := range s.Values {
			if !v.Valid || math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0) {
				continue
			}
			lo = math.Min(lo, v.Float64)
			hi = math.Max(hi, v.Float64)
		}
	}
	if math.IsInf(lo, 1) {
		return &chart.ContinuousRange{Min: 0, Max: minYSpan}
	}
	if spec.YFromZero || lo >= 0 {
		lo = 0
	}
	if hi <= 0 {
		hi = math.Max(hi, lo)
	} else {
		hi *= yHeadroom
	}
	if hi-lo < minYSpan {
		hi = lo + minYSpan
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}
