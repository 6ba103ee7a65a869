package presentation

import (
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/berlin-dashboard/internal/domain"
)

var generatedAt = time.Date(2021, time.February, 1, 8, 0, 0, 0, time.UTC)

// derivedFixture computes series for the given entities over `days` of synthetic feed data.
func derivedFixture(t *testing.T, days int, entities ...string) map[string]domain.DerivedSeries {
	t.Helper()
	districts := domain.Districts()
	header := append([]string{domain.DateColumn}, districts...)
	start := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

	raw := domain.RawTable{Header: header}
	for d := 0; d < days; d++ {
		row := []string{start.AddDate(0, 0, d).Format("2006-01-02")}
		for i := range districts {
			row = append(row, strconv.Itoa(10+d+i))
		}
		raw.Rows = append(raw.Rows, row)
	}

	records, err := domain.Normalize(raw)
	require.NoError(t, err)
	derived, err := domain.Compute(records, entities)
	require.NoError(t, err)
	return derived
}

func TestBuild_Charts(t *testing.T) {
	derived := derivedFixture(t, 40, "Mitte", "Pankow")
	sel := domain.Selection{Entities: []string{"Pankow", "Mitte"}, WindowDays: 14}

	d := Build(derived, sel, generatedAt)
	require.Len(t, d.Charts, 3)
	assert.Equal(t, KindIncidence, d.Charts[0].Kind)
	assert.Equal(t, KindAverage, d.Charts[1].Kind)
	assert.Equal(t, KindNewCases, d.Charts[2].Kind)

	assert.Equal(t, "Seven Day Incidence - Last 14 Days", d.Charts[0].Title)
	assert.Equal(t, "Rolling 7-day-average - Last 14 Days", d.Charts[1].Title)
	assert.Equal(t, "New Reported Cases - Last 14 Days", d.Charts[2].Title)
	assert.True(t, d.Charts[0].YFromZero)
	assert.False(t, d.Charts[1].YFromZero)

	for _, c := range d.Charts {
		require.Len(t, c.Series, 2)
		assert.Equal(t, "Pankow", c.Series[0].Label)
		assert.Equal(t, "Mitte", c.Series[1].Label)
		assert.Len(t, c.Dates, 14)
		for _, s := range c.Series {
			assert.Len(t, s.Values, 14)
		}
	}

	pankow := derived["Pankow"]
	assert.Equal(t, pankow.Incidence[26:], d.Charts[0].Series[0].Values)
	assert.Equal(t, domain.Float(float64(pankow.Raw[39])), d.Charts[2].Series[0].Values[13])
	assert.Equal(t, pankow.Dates[39], d.DataThrough)
	assert.Equal(t, generatedAt, d.GeneratedAt)
}

func TestBuild_WindowZeroShowsFullHistory(t *testing.T) {
	derived := derivedFixture(t, 20, domain.AllBerlin)
	d := Build(derived, domain.Selection{Entities: []string{domain.AllBerlin}}, generatedAt)
	assert.Len(t, d.Charts[0].Dates, 20)
	assert.Equal(t, "Seven Day Incidence - Last 20 Days", d.Charts[0].Title)
}

func TestBuild_TablesUseFullHistory(t *testing.T) {
	derived := derivedFixture(t, 30, "Mitte", "Spandau")
	d := Build(derived, domain.Selection{Entities: []string{"Mitte", "Spandau"}, WindowDays: 2}, generatedAt)
	require.Len(t, d.Tables, 3)

	inc, ok := d.Table(KindIncidence)
	require.True(t, ok)
	assert.Equal(t, []string{"Seven Day Incidence for Mitte", "Seven Day Incidence for Spandau"}, inc.Columns)
	assert.Len(t, inc.Rows, 3)

	avg, _ := d.Table(KindAverage)
	assert.Equal(t, []string{"7 Day Average for Mitte", "7 Day Average for Spandau"}, avg.Columns)
	assert.Len(t, avg.Rows, 10)
	assert.Equal(t, derived["Spandau"].Average[29], avg.Rows[9].Cells[1])
	assert.Equal(t, derived["Mitte"].Dates[20], avg.Rows[0].Date)

	nc, _ := d.Table(KindNewCases)
	assert.Equal(t, []string{"Mitte", "Spandau"}, nc.Columns)
	assert.Len(t, nc.Rows, 3)
	assert.Equal(t, 0, nc.Precision)
}

func TestBuild_ThemeChangesNoValues(t *testing.T) {
	derived := derivedFixture(t, 25, "Lichtenberg", domain.AllBerlin)
	sel := domain.Selection{Entities: []string{"Lichtenberg", domain.AllBerlin}, WindowDays: 10}

	dark := Build(derived, sel, generatedAt)
	sel.LightTheme = true
	light := Build(derived, sel, generatedAt)

	assert.Equal(t, ThemeDark, dark.Theme)
	assert.Equal(t, ThemeLight, light.Theme)
	assert.Equal(t, ThemeLight, light.Charts[1].Theme)

	if diff := cmp.Diff(dark.Tables, light.Tables); diff != "" {
		t.Errorf("tables differ by theme (-dark +light):\n%s", diff)
	}
	for i := range dark.Charts {
		if diff := cmp.Diff(dark.Charts[i].Series, light.Charts[i].Series); diff != "" {
			t.Errorf("chart %s differs by theme:\n%s", dark.Charts[i].Kind, diff)
		}
	}
}

func TestBuild_DoesNotAliasDerived(t *testing.T) {
	derived := derivedFixture(t, 12, "Mitte")
	before := derived["Mitte"].Incidence[11]

	d := Build(derived, domain.Selection{Entities: []string{"Mitte"}}, generatedAt)
	d.Charts[0].Series[0].Values[11] = domain.Float(-1)
	d.Tables[0].Rows[2].Cells[0] = domain.Float(-1)

	assert.Equal(t, before, derived["Mitte"].Incidence[11])
}

func TestBuild_ShortHistoryHasUndefinedCells(t *testing.T) {
	derived := derivedFixture(t, 4, "Mitte")
	d := Build(derived, domain.Selection{Entities: []string{"Mitte"}}, generatedAt)

	inc, _ := d.Table(KindIncidence)
	require.Len(t, inc.Rows, 3)
	assert.Equal(t, "n/a", inc.Format(inc.Rows[0].Cells[0]))

	nc, _ := d.Table(KindNewCases)
	assert.Equal(t, "14", nc.Format(nc.Rows[2].Cells[0]))
}

func TestTableSpec_Format(t *testing.T) {
	tbl := TableSpec{Precision: 2}
	assert.Equal(t, "14.29", tbl.Format(domain.Float(100.0/7)))
	assert.Equal(t, "n/a", tbl.Format(domain.NullFloat{}))
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("new_cases")
	assert.True(t, ok)
	assert.Equal(t, KindNewCases, k)

	_, ok = ParseKind("deaths")
	assert.False(t, ok)
}

func TestSections(t *testing.T) {
	s := Sections()
	require.Len(t, s, len(Kinds))
	for i, k := range Kinds {
		assert.Equal(t, k, s[i].Kind)
		assert.NotEmpty(t, s[i].Description)
	}
}
