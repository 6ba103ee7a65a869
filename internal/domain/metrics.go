package domain

import "time"

// Compute derives raw counts, rolling 7-day sum and average, and incidence for
// each requested entity over the full record history. Every entity is checked
// against the catalog before anything is computed, so an unknown name fails the
// whole request. Records must already be sorted (see Normalize).
func Compute(records []DailyRecord, entities []string) (map[string]DerivedSeries, error) {
	populations := make(map[string]float64, len(entities))
	for _, name := range entities {
		p, ok := Population(name)
		if !ok {
			return nil, &UnknownEntityError{Name: name}
		}
		populations[name] = p
	}

	dates := make([]time.Time, len(records))
	for i, r := range records {
		dates[i] = r.Date
	}

	out := make(map[string]DerivedSeries, len(populations))
	for name, pop := range populations {
		out[name] = derive(records, dates, name, pop)
	}
	return out, nil
}

func derive(records []DailyRecord, dates []time.Time, name string, population float64) DerivedSeries {
	n := len(records)
	s := DerivedSeries{
		Entity:     name,
		Population: population,
		Dates:      make([]time.Time, n),
		Raw:        make([]int, n),
		Average:    make([]NullFloat, n),
		Sum:        make([]NullFloat, n),
		Incidence:  make([]NullFloat, n),
	}
	copy(s.Dates, dates)

	window := 0
	for i, r := range records {
		v := r.Counts[name]
		s.Raw[i] = v
		window += v
		if i >= RollingWindow {
			window -= s.Raw[i-RollingWindow]
		}
		if i < RollingWindow-1 {
			continue
		}
		sum := float64(window)
		s.Sum[i] = Float(sum)
		s.Average[i] = Float(sum / RollingWindow)
		s.Incidence[i] = Float(sum / population)
	}
	return s
}
