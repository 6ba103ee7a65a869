package domain

import (
	"encoding/json"
	"time"
)

// RollingWindow is the number of trailing rows in a rolling sum or average.
const RollingWindow = 7

// NullFloat is a float64 that may be undefined, e.g. a rolling value without
// enough history. Invalid values encode as JSON null.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a valid NullFloat.
func Float(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// MarshalJSON encodes an undefined value as null.
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

// UnmarshalJSON decodes null as an undefined value.
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	if err := json.Unmarshal(data, &n.Float64); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// DerivedSeries holds the date-aligned metrics for one entity.
type DerivedSeries struct {
	Entity     string      `json:"entity"`
	Population float64     `json:"population"`
	Dates      []time.Time `json:"dates"`
	Raw        []int       `json:"raw"`
	Average    []NullFloat `json:"average"`
	Sum        []NullFloat `json:"sum"`
	Incidence  []NullFloat `json:"incidence"`
}

// Len returns the number of rows in the series.
func (s DerivedSeries) Len() int { return len(s.Dates) }

// Snapshot is the latest row of a DerivedSeries.
type Snapshot struct {
	Entity     string    `json:"entity"`
	Population float64   `json:"population"`
	Date       time.Time `json:"date"`
	NewCases   int       `json:"new_cases"`
	Average    NullFloat `json:"average_7d"`
	Sum        NullFloat `json:"sum_7d"`
	Incidence  NullFloat `json:"incidence_7d"`
}

// Latest returns the last row of s, or false if s is empty.
func Latest(s DerivedSeries) (Snapshot, bool) {
	n := s.Len()
	if n == 0 {
		return Snapshot{}, false
	}
	i := n - 1
	return Snapshot{
		Entity:     s.Entity,
		Population: s.Population,
		Date:       s.Dates[i],
		NewCases:   s.Raw[i],
		Average:    s.Average[i],
		Sum:        s.Sum[i],
		Incidence:  s.Incidence[i],
	}, true
}
