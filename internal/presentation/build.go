// Package presentation turns derived series into chart and table specs for the
// dashboard sinks. Nothing here changes a computed value: the theme and window
// only affect what is shown and how it is drawn.
package presentation

import (
	"fmt"
	"strconv"
	"time"

	"github.com/couchcryptid/berlin-dashboard/internal/domain"
)

// MetricKind identifies one dashboard section.
type MetricKind string

const (
	KindIncidence MetricKind = "incidence"
	KindAverage   MetricKind = "average"
	KindNewCases  MetricKind = "new_cases"
)

// Kinds lists the sections in display order.
var Kinds = []MetricKind{KindIncidence, KindAverage, KindNewCases}

// ParseKind maps a URL or CLI token to a MetricKind.
func ParseKind(s string) (MetricKind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Theme selects a purely cosmetic rendering style.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ThemeFor returns the theme for the light-theme flag.
func ThemeFor(light bool) Theme {
	if light {
		return ThemeLight
	}
	return ThemeDark
}

// Table tail lengths per section.
const (
	incidenceTableRows = 3
	averageTableRows   = 10
	newCasesTableRows  = 3
)

// SeriesSpec is one labeled line, aligned with its chart's Dates.
type SeriesSpec struct {
	Label  string             `json:"label"`
	Values []domain.NullFloat `json:"values"`
}

// ChartSpec is everything a renderer needs to draw one line chart.
type ChartSpec struct {
	Kind      MetricKind   `json:"kind"`
	Title     string       `json:"title"`
	Theme     Theme        `json:"theme"`
	YFromZero bool         `json:"y_from_zero"`
	Dates     []time.Time  `json:"dates"`
	Series    []SeriesSpec `json:"series"`
}

// TableRow is one dated row of a tail table.
type TableRow struct {
	Date  time.Time          `json:"date"`
	Cells []domain.NullFloat `json:"cells"`
}

// TableSpec is a small tail table of literal values.
type TableSpec struct {
	Kind      MetricKind `json:"kind"`
	Columns   []string   `json:"columns"`
	Rows      []TableRow `json:"rows"`
	Precision int        `json:"precision"`
}

// Format renders a cell with the table's precision. Undefined cells show as "n/a".
func (t TableSpec) Format(v domain.NullFloat) string {
	if !v.Valid {
		return "n/a"
	}
	return strconv.FormatFloat(v.Float64, 'f', t.Precision, 64)
}

// Section is the copy shown with one chart and table.
type Section struct {
	Kind        MetricKind `json:"kind"`
	Heading     string     `json:"heading"`
	Description []string   `json:"description"`
}

// Dashboard is the complete presentation of one run.
type Dashboard struct {
	Selection   domain.Selection `json:"selection"`
	Theme       Theme            `json:"theme"`
	GeneratedAt time.Time        `json:"generated_at"`
	DataThrough time.Time        `json:"data_through"`
	Sections    []Section        `json:"sections"`
	Charts      []ChartSpec      `json:"charts"`
	Tables      []TableSpec      `json:"tables"`
}

// Chart returns the chart of the given kind.
func (d Dashboard) Chart(kind MetricKind) (ChartSpec, bool) {
	for _, c := range d.Charts {
		if c.Kind == kind {
			return c, true
		}
	}
	return ChartSpec{}, false
}

// Table returns the table of the given kind.
func (d Dashboard) Table(kind MetricKind) (TableSpec, bool) {
	for _, t := range d.Tables {
		if t.Kind == kind {
			return t, true
		}
	}
	return TableSpec{}, false
}

// Build lays out the dashboard for a resolved selection. Charts show the
// trailing WindowDays rows; tables always come from the end of the full
// history. Entities in the selection that are missing from derived are skipped.
func Build(derived map[string]domain.DerivedSeries, sel domain.Selection, generatedAt time.Time) Dashboard {
	full := make([]domain.DerivedSeries, 0, len(sel.Entities))
	for _, name := range sel.Entities {
		if s, ok := derived[name]; ok {
			full = append(full, s)
		}
	}

	windowed := make([]domain.DerivedSeries, len(full))
	for i, s := range full {
		windowed[i] = domain.Tail(s, sel.WindowDays)
	}

	theme := ThemeFor(sel.LightTheme)
	d := Dashboard{
		Selection:   sel,
		Theme:       theme,
		GeneratedAt: generatedAt,
		Sections:    Sections(),
	}
	if len(full) > 0 && full[0].Len() > 0 {
		d.DataThrough = full[0].Dates[full[0].Len()-1]
	}

	for _, kind := range Kinds {
		d.Charts = append(d.Charts, buildChart(kind, windowed, theme))
		d.Tables = append(d.Tables, buildTable(kind, full))
	}
	return d
}

func buildChart(kind MetricKind, windowed []domain.DerivedSeries, theme Theme) ChartSpec {
	c := ChartSpec{
		Kind:      kind,
		Theme:     theme,
		YFromZero: kind == KindIncidence,
	}
	days := 0
	if len(windowed) > 0 {
		days = windowed[0].Len()
		c.Dates = windowed[0].Dates
	}
	c.Title = chartTitle(kind, days)

	for _, s := range windowed {
		c.Series = append(c.Series, SeriesSpec{Label: s.Entity, Values: values(kind, s)})
	}
	return c
}

func chartTitle(kind MetricKind, days int) string {
	switch kind {
	case KindIncidence:
		return fmt.Sprintf("Seven Day Incidence - Last %d Days", days)
	case KindAverage:
		return fmt.Sprintf("Rolling 7-day-average - Last %d Days", days)
	default:
		return fmt.Sprintf("New Reported Cases - Last %d Days", days)
	}
}

func buildTable(kind MetricKind, full []domain.DerivedSeries) TableSpec {
	t := TableSpec{Kind: kind}
	n := newCasesTableRows
	switch kind {
	case KindIncidence:
		n = incidenceTableRows
		t.Precision = 2
	case KindAverage:
		n = averageTableRows
		t.Precision = 2
	}

	cols := make([][]domain.NullFloat, len(full))
	var dates []time.Time
	for i, s := range full {
		t.Columns = append(t.Columns, columnName(kind, s.Entity))
		tail := domain.Tail(s, n)
		cols[i] = values(kind, tail)
		dates = tail.Dates
	}

	for r, date := range dates {
		row := TableRow{Date: date, Cells: make([]domain.NullFloat, len(cols))}
		for c := range cols {
			row.Cells[c] = cols[c][r]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func columnName(kind MetricKind, entity string) string {
	switch kind {
	case KindIncidence:
		return "Seven Day Incidence for " + entity
	case KindAverage:
		return "7 Day Average for " + entity
	default:
		return entity
	}
}

func values(kind MetricKind, s domain.DerivedSeries) []domain.NullFloat {
	switch kind {
	case KindIncidence:
		return s.Incidence
	case KindAverage:
		return s.Average
	default:
		out := make([]domain.NullFloat, len(s.Raw))
		for i, v := range s.Raw {
			out[i] = domain.Float(float64(v))
		}
		return out
	}
}
