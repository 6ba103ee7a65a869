package domain

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedTable builds a RawTable with every catalog district, one row per day
// starting 2021-01-01, where each cell is count(day, districtIndex).
func feedTable(days int, count func(day, district int) int) RawTable {
	districts := Districts()
	header := append([]string{DateColumn}, districts...)
	start := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

	rows := make([][]string, days)
	for d := 0; d < days; d++ {
		row := []string{start.AddDate(0, 0, d).Format("2006-01-02")}
		for i := range districts {
			row = append(row, strconv.Itoa(count(d, i)))
		}
		rows[d] = row
	}
	return RawTable{Header: header, Rows: rows}
}

func TestNormalize(t *testing.T) {
	t.Run("aggregate is sum of districts", func(t *testing.T) {
		raw := feedTable(3, func(day, district int) int { return day + district })
		records, err := Normalize(raw)
		require.NoError(t, err)
		require.Len(t, records, 3)

		for _, r := range records {
			total := 0
			for _, d := range Districts() {
				total += r.Counts[d]
			}
			assert.Equal(t, total, r.Counts[AllBerlin])
		}
		// day 0: 0+1+...+11
		assert.Equal(t, 66, records[0].Counts[AllBerlin])
	})

	t.Run("sorts ascending by date", func(t *testing.T) {
		raw := feedTable(4, func(day, _ int) int { return day })
		raw.Rows[0], raw.Rows[3] = raw.Rows[3], raw.Rows[0]
		raw.Rows[1], raw.Rows[2] = raw.Rows[2], raw.Rows[1]

		records, err := Normalize(raw)
		require.NoError(t, err)
		for i := 1; i < len(records); i++ {
			assert.True(t, records[i-1].Date.Before(records[i].Date))
		}
		assert.Equal(t, 0, records[0].Counts["Mitte"])
		assert.Equal(t, 3, records[3].Counts["Mitte"])
	})

	t.Run("german date format", func(t *testing.T) {
		raw := feedTable(1, func(_, _ int) int { return 1 })
		raw.Rows[0][0] = "07.01.2021"
		records, err := Normalize(raw)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2021, time.January, 7, 0, 0, 0, 0, time.UTC), records[0].Date)
	})

	t.Run("umlaut header joins catalog", func(t *testing.T) {
		raw := feedTable(1, func(_, _ int) int { return 2 })
		for i, h := range raw.Header {
			switch h {
			case "Neukoelln":
				raw.Header[i] = "Neukölln"
			case "Tempelhof-Schoeneberg":
				raw.Header[i] = " Tempelhof-Schöneberg "
			case "Treptow-Koepenick":
				raw.Header[i] = "Treptow-Köpenick"
			}
		}
		raw.Header[0] = "\ufeffDatum"

		records, err := Normalize(raw)
		require.NoError(t, err)
		assert.Equal(t, 2, records[0].Counts["Neukoelln"])
		assert.Equal(t, 2, records[0].Counts["Tempelhof-Schoeneberg"])
	})

	t.Run("date header ignores case", func(t *testing.T) {
		raw := feedTable(2, func(_, _ int) int { return 1 })
		raw.Header[0] = "DATUM"
		records, err := Normalize(raw)
		require.NoError(t, err)
		assert.Len(t, records, 2)
		assert.True(t, IsDateColumn("datum"))
		assert.False(t, IsDateColumn("Tag"))
	})

	t.Run("empty table", func(t *testing.T) {
		raw := feedTable(0, nil)
		records, err := Normalize(raw)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RawTable)
		column  string
		line    int
		wantErr error
	}{
		{
			name:   "bad date",
			mutate: func(r *RawTable) { r.Rows[2][0] = "2021/01/03" },
			column: DateColumn,
			line:   3,
		},
		{
			name:   "non-numeric count",
			mutate: func(r *RawTable) { r.Rows[1][4] = "n/a" },
			column: Districts()[3],
			line:   2,
		},
		{
			name:   "empty count",
			mutate: func(r *RawTable) { r.Rows[0][1] = " " },
			column: Districts()[0],
			line:   1,
		},
		{
			name: "unexpected column",
			mutate: func(r *RawTable) {
				r.Header = append(r.Header, "Brandenburg")
				for i := range r.Rows {
					r.Rows[i] = append(r.Rows[i], "1")
				}
			},
			column:  "Brandenburg",
			wantErr: ErrUnexpectedColumn,
		},
		{
			name: "aggregate column in feed",
			mutate: func(r *RawTable) {
				r.Header = append(r.Header, AllBerlin)
				for i := range r.Rows {
					r.Rows[i] = append(r.Rows[i], "99")
				}
			},
			column:  AllBerlin,
			wantErr: ErrUnexpectedColumn,
		},
		{
			name: "missing district",
			mutate: func(r *RawTable) {
				r.Header = r.Header[:len(r.Header)-1]
				for i := range r.Rows {
					r.Rows[i] = r.Rows[i][:len(r.Rows[i])-1]
				}
			},
			column:  Districts()[len(Districts())-1],
			wantErr: ErrMissingColumn,
		},
		{
			name:    "duplicate date",
			mutate:  func(r *RawTable) { r.Rows[3][0] = r.Rows[1][0] },
			column:  DateColumn,
			line:    4,
			wantErr: ErrDuplicateDate,
		},
		{
			name:    "date column not first",
			mutate:  func(r *RawTable) { r.Header[0] = "Tag" },
			column:  "Tag",
			wantErr: ErrUnexpectedColumn,
		},
		{
			name:   "short row",
			mutate: func(r *RawTable) { r.Rows[2] = r.Rows[2][:5] },
			line:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := feedTable(5, func(_, _ int) int { return 1 })
			tt.mutate(&raw)

			records, err := Normalize(raw)
			require.Error(t, err)
			assert.Nil(t, records)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "want *ParseError, got %T", err)
			assert.Equal(t, tt.column, perr.Column)
			assert.Equal(t, tt.line, perr.Line)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2021-03-04", time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), false},
		{" 2021-03-04 ", time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), false},
		{"04.03.2021", time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), false},
		{"2021-13-01", time.Time{}, true},
		{"03/04/2021", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalColumn(t *testing.T) {
	assert.Equal(t, "Neukoelln", CanonicalColumn("Neukölln"))
	assert.Equal(t, "Tempelhof-Schoeneberg", CanonicalColumn("  Tempelhof-Schöneberg"))
	assert.Equal(t, "Datum", CanonicalColumn("\ufeffDatum"))
	assert.Equal(t, "Strasse", CanonicalColumn("Straße"))
}
