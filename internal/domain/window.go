package domain

import "slices"

// Tail returns the last n rows of s as an independent copy. A non-positive n,
// or one at least as long as the series, returns every row.
func Tail(s DerivedSeries, n int) DerivedSeries {
	start := 0
	if n > 0 && n < s.Len() {
		start = s.Len() - n
	}
	return DerivedSeries{
		Entity:     s.Entity,
		Population: s.Population,
		Dates:      slices.Clone(s.Dates[start:]),
		Raw:        slices.Clone(s.Raw[start:]),
		Average:    slices.Clone(s.Average[start:]),
		Sum:        slices.Clone(s.Sum[start:]),
		Incidence:  slices.Clone(s.Incidence[start:]),
	}
}
