package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/berlin-dashboard/internal/domain"
)

// maxReported caps the detail lines printed per failing phase.
const maxReported = 20

func newValidateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the feed for schema, continuity, and aggregate problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, g)
		},
	}
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func runValidate(cmd *cobra.Command, g *globalFlags) error {
	logger := g.logger(cmd)
	src := g.source(g.feedFile, g.feedURL, logger)

	raw, err := src.Fetch(cmd.Context())
	if err != nil {
		return fmt.Errorf("load feed %s: %w", src.Source(), err)
	}

	phases := []*phase{validateHeader(raw)}
	records, err := domain.Normalize(raw)
	parse := &phase{name: "Rows parse"}
	if err != nil {
		parse.errorf("%v", err)
	}
	phases = append(phases, parse)
	if err == nil {
		phases = append(phases,
			validateContinuity(records),
			validateCounts(records),
			validateAggregate(records),
		)
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "Feed: %s (%d rows)\n\n", src.Source(), len(raw.Rows))
	if !report(w, phases) {
		return errors.New("validation failed")
	}
	return nil
}

func report(w io.Writer, phases []*phase) bool {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	allPassed := true
	for _, p := range phases {
		status := green.Sprint("PASS")
		if !p.passed() {
			status = red.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		_, _ = fmt.Fprintf(w, "  %-32s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		_, _ = fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxReported {
				_, _ = fmt.Fprintf(w, "  ... and %d more\n", len(p.errors)-maxReported)
				break
			}
			_, _ = fmt.Fprintf(w, "  %s\n", e)
		}
	}
	return allPassed
}

// validateHeader checks that the header is the date column followed by each
// catalog district exactly once.
func validateHeader(raw domain.RawTable) *phase {
	p := &phase{name: "Header matches catalog"}
	if len(raw.Header) == 0 {
		p.errorf("empty header")
		return p
	}
	if first := domain.CanonicalColumn(raw.Header[0]); !domain.IsDateColumn(first) {
		p.errorf("first column is %q, want %q", first, domain.DateColumn)
	}

	seen := make(map[string]int)
	for _, h := range raw.Header[1:] {
		name := domain.CanonicalColumn(h)
		seen[name]++
		if !domain.IsDistrict(name) {
			p.errorf("unexpected column %q", name)
		}
	}
	for _, d := range domain.Districts() {
		switch seen[d] {
		case 0:
			p.errorf("missing district %q", d)
		case 1:
		default:
			p.errorf("district %q appears %d times", d, seen[d])
		}
	}
	return p
}

// validateContinuity reports gaps between consecutive reporting dates.
// Rolling windows count rows, so a gap silently stretches the window.
func validateContinuity(records []domain.DailyRecord) *phase {
	p := &phase{name: "Dates are contiguous"}
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1].Date, records[i].Date
		if gap := int(cur.Sub(prev).Hours() / 24); gap != 1 {
			p.errorf("%d days between %s and %s", gap, prev.Format(time.DateOnly), cur.Format(time.DateOnly))
		}
	}
	return p
}

func validateCounts(records []domain.DailyRecord) *phase {
	p := &phase{name: "Counts are non-negative"}
	for _, r := range records {
		for _, d := range domain.Districts() {
			if n := r.Counts[d]; n < 0 {
				p.errorf("%s %s: %d", r.Date.Format(time.DateOnly), d, n)
			}
		}
	}
	return p
}

// validateAggregate recomputes the seven-day sums per district and checks
// that they add up to the All Berlin sums.
func validateAggregate(records []domain.DailyRecord) *phase {
	p := &phase{name: "Aggregate matches districts"}
	derived, err := domain.Compute(records, domain.EntityNames())
	if err != nil {
		p.errorf("compute: %v", err)
		return p
	}

	all := derived[domain.AllBerlin]
	for i, date := range all.Dates {
		want := all.Sum[i]
		if !want.Valid {
			continue
		}
		var got float64
		for _, d := range domain.Districts() {
			got += derived[d].Sum[i].Float64
		}
		if math.Abs(got-want.Float64) > 1e-6 {
			p.errorf("%s: districts sum to %.0f, aggregate is %.0f", date.Format(time.DateOnly), got, want.Float64)
		}
	}
	return p
}
