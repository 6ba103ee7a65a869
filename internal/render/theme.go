package render

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/berlin-dashboard/internal/presentation"
)

// palette implements chart.ColorPalette for one theme.
type palette struct {
	background drawing.Color
	canvas     drawing.Color
	frame      drawing.Color
	axis       drawing.Color
	text       drawing.Color
	grid       drawing.Color
	series     []drawing.Color

	// glow is the alpha of the under-line fill; zero disables it.
	glow        uint8
	strokeWidth float64
}

var _ chart.ColorPalette = palette{}

// BackgroundColor fills the area outside the plot.
func (p palette) BackgroundColor() drawing.Color { return p.background }

// BackgroundStrokeColor matches the background so no border is drawn.
func (p palette) BackgroundStrokeColor() drawing.Color { return p.background }

// CanvasColor fills the plot area.
func (p palette) CanvasColor() drawing.Color { return p.canvas }

// CanvasStrokeColor frames the plot area.
func (p palette) CanvasStrokeColor() drawing.Color { return p.frame }

// AxisStrokeColor draws both axes.
func (p palette) AxisStrokeColor() drawing.Color { return p.axis }

// TextColor is used for the title, ticks, and legend.
func (p palette) TextColor() drawing.Color { return p.text }

// GetSeriesColor cycles through the series colors by index.
func (p palette) GetSeriesColor(index int) drawing.Color {
	return p.series[index%len(p.series)]
}

// neon is the dark theme: navy canvas with bright lines and a soft glow below each.
var neon = palette{
	background: drawing.ColorFromHex("212946"),
	canvas:     drawing.ColorFromHex("212946"),
	frame:      drawing.ColorFromHex("2A3459"),
	axis:       drawing.ColorFromHex("2A3459"),
	text:       drawing.ColorFromHex("D0D8F0"),
	grid:       drawing.ColorFromHex("2A3459"),
	series: []drawing.Color{
		drawing.ColorFromHex("08F7FE"),
		drawing.ColorFromHex("FE53BB"),
		drawing.ColorFromHex("F5D300"),
		drawing.ColorFromHex("00FF41"),
		drawing.ColorFromHex("FF6C11"),
		drawing.ColorFromHex("9467BD"),
		drawing.ColorFromHex("FF0000"),
	},
	glow:        48,
	strokeWidth: 2.5,
}

// muted is the light theme: grey canvas on white.
var muted = palette{
	background: drawing.ColorWhite,
	canvas:     drawing.ColorFromHex("E5E5E5"),
	frame:      drawing.ColorFromHex("E5E5E5"),
	axis:       drawing.ColorFromHex("555555"),
	text:       drawing.ColorFromHex("222222"),
	grid:       drawing.ColorWhite,
	series: []drawing.Color{
		drawing.ColorFromHex("E24A33"),
		drawing.ColorFromHex("348ABD"),
		drawing.ColorFromHex("988ED5"),
		drawing.ColorFromHex("777777"),
		drawing.ColorFromHex("FBC15E"),
		drawing.ColorFromHex("8EBA42"),
		drawing.ColorFromHex("FFB5B8"),
	},
	strokeWidth: 2,
}

func paletteFor(t presentation.Theme) palette {
	if t == presentation.ThemeLight {
		return muted
	}
	return neon
}
