package domain

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateColumn is the feed's reporting-date column.
const DateColumn = "Datum"

// dateLayouts are the accepted reporting-date formats, tried in order.
var dateLayouts = []string{"2006-01-02", "02.01.2006"}

// RawTable is the feed as decoded from CSV: a header and string cells.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// DailyRecord holds one reporting date and the count for every catalog entity,
// including the All Berlin aggregate.
type DailyRecord struct {
	Date   time.Time
	Counts map[string]int
}

// Normalize validates the feed against the catalog, parses dates and counts,
// adds the All Berlin aggregate, and returns records sorted ascending by date.
// Any malformed cell aborts the whole table.
func Normalize(raw RawTable) ([]DailyRecord, error) {
	columns, err := mapColumns(raw.Header)
	if err != nil {
		return nil, err
	}

	records := make([]DailyRecord, 0, len(raw.Rows))
	seen := make(map[time.Time]int, len(raw.Rows))

	for i, row := range raw.Rows {
		line := i + 1
		if len(row) != len(columns) {
			return nil, &ParseError{
				Line: line,
				Err:  fmt.Errorf("row has %d fields, header has %d", len(row), len(columns)),
			}
		}

		date, err := ParseDate(row[0])
		if err != nil {
			return nil, &ParseError{Line: line, Column: DateColumn, Value: row[0], Err: err}
		}
		if prev, dup := seen[date]; dup {
			return nil, &ParseError{
				Line:   line,
				Column: DateColumn,
				Value:  row[0],
				Err:    fmt.Errorf("%w: also on line %d", ErrDuplicateDate, prev),
			}
		}
		seen[date] = line

		counts := make(map[string]int, len(columns))
		total := 0
		for j := 1; j < len(columns); j++ {
			n, err := parseCount(row[j])
			if err != nil {
				return nil, &ParseError{Line: line, Column: columns[j], Value: row[j], Err: err}
			}
			counts[columns[j]] = n
			total += n
		}
		counts[AllBerlin] = total

		records = append(records, DailyRecord{Date: date, Counts: counts})
	}

	sort.Slice(records, func(a, b int) bool {
		return records[a].Date.Before(records[b].Date)
	})
	return records, nil
}

// IsDateColumn reports whether a canonical header names the date column.
// The match ignores case.
func IsDateColumn(name string) bool {
	return strings.EqualFold(name, DateColumn)
}

// mapColumns canonicalizes the header and checks it against the catalog.
func mapColumns(header []string) ([]string, error) {
	if len(header) == 0 {
		return nil, &ParseError{Column: DateColumn, Err: ErrMissingColumn}
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = CanonicalColumn(h)
	}

	if !IsDateColumn(columns[0]) {
		return nil, &ParseError{Column: columns[0], Err: fmt.Errorf("%w: first column must be %q", ErrUnexpectedColumn, DateColumn)}
	}

	present := make(map[string]bool, len(columns))
	for _, c := range columns[1:] {
		if !IsDistrict(c) {
			return nil, &ParseError{Column: c, Err: ErrUnexpectedColumn}
		}
		if present[c] {
			return nil, &ParseError{Column: c, Err: errors.New("duplicate column")}
		}
		present[c] = true
	}
	for _, d := range Districts() {
		if !present[d] {
			return nil, &ParseError{Column: d, Err: ErrMissingColumn}
		}
	}
	return columns, nil
}

// ParseDate parses a reporting date in any accepted layout. The result is
// midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format (want %s)", strings.Join(dateLayouts, " or "))
}

func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty count")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not an integer count: %w", err)
	}
	return n, nil
}
