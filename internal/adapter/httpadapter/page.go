package httpadapter

import (
	"embed"
	"html/template"
	"time"

	"github.com/couchcryptid/berlin-dashboard/internal/domain"
	"github.com/couchcryptid/berlin-dashboard/internal/presentation"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

const pageTitle = "Covid-19 Report Dashboard for Berlin City"

type page struct {
	Title         string
	Intro         string
	SourceNote    string
	SourcePage    string
	Theme         presentation.Theme
	Options       []option
	WindowDays    int
	MaxWindowDays int
	Light         bool
	Error         string
	GeneratedAt   string
	DataThrough   string
	Sections      []sectionView
}

type option struct {
	Name     string
	Selected bool
}

type sectionView struct {
	presentation.Section
	ChartTitle string
	Image      template.URL
	ChartError string
	Table      tableView
}

type tableView struct {
	Columns []string
	Rows    []rowView
}

type rowView struct {
	Date  string
	Cells []string
}

// newPage builds the template view. d is nil when the run failed, in which
// case only the form and errMsg are shown.
func newPage(sel domain.Selection, d *presentation.Dashboard, errMsg string) page {
	p := page{
		Title:         pageTitle,
		Intro:         presentation.Intro,
		SourceNote:    presentation.SourceNote,
		SourcePage:    presentation.SourcePage,
		Theme:         presentation.ThemeFor(sel.LightTheme),
		WindowDays:    sel.WindowDays,
		MaxWindowDays: domain.MaxWindowDays,
		Light:         sel.LightTheme,
		Error:         errMsg,
	}

	selected := make(map[string]bool, len(sel.Entities))
	for _, e := range sel.Entities {
		selected[e] = true
	}
	for _, e := range domain.Catalog() {
		p.Options = append(p.Options, option{Name: e.Name, Selected: selected[e.Name]})
	}

	if d == nil {
		return p
	}
	p.GeneratedAt = d.GeneratedAt.Format(time.RFC1123)
	p.DataThrough = d.DataThrough.Format(time.DateOnly)
	for _, sec := range d.Sections {
		view := sectionView{Section: sec}
		if c, ok := d.Chart(sec.Kind); ok {
			view.ChartTitle = c.Title
		}
		if t, ok := d.Table(sec.Kind); ok {
			view.Table = newTableView(t)
		}
		p.Sections = append(p.Sections, view)
	}
	return p
}

func newTableView(t presentation.TableSpec) tableView {
	v := tableView{Columns: t.Columns}
	for _, r := range t.Rows {
		row := rowView{Date: r.Date.Format(time.DateOnly)}
		for _, c := range r.Cells {
			row.Cells = append(row.Cells, t.Format(c))
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}
