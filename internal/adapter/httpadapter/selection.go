package httpadapter

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/couchcryptid/berlin-dashboard/internal/domain"
)

// ParseSelection reads district, days and light from a query string. An empty
// query means the page was opened without submitting the form, so defaults
// apply. After a submit, an empty district list is left empty and later
// resolves to the city aggregate.
func ParseSelection(rawQuery string, defaults Defaults) (domain.Selection, error) {
	sel := domain.Selection{
		Entities:   slices.Clone(defaults.Entities),
		WindowDays: defaults.WindowDays,
	}
	if strings.TrimSpace(rawQuery) == "" {
		return sel, nil
	}

	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return domain.Selection{}, fmt.Errorf("malformed query: %w", err)
	}

	sel.Entities = make([]string, 0, len(q["district"]))
	for _, d := range q["district"] {
		if d = strings.TrimSpace(d); d != "" {
			sel.Entities = append(sel.Entities, d)
		}
	}

	if q.Has("days") {
		raw := strings.TrimSpace(q.Get("days"))
		days, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Selection{}, fmt.Errorf("%w: days %q is not a number", domain.ErrInvalidWindow, raw)
		}
		sel.WindowDays = days
	}

	sel.LightTheme = parseFlag(q.Get("light"))
	return sel, nil
}

func parseFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on":
		return true
	default:
		return false
	}
}
