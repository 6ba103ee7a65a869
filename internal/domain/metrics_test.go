package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alternatingRecords(t *testing.T, entity string, counts []int) []DailyRecord {
	t.Helper()
	start := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	records := make([]DailyRecord, len(counts))
	for i, c := range counts {
		records[i] = DailyRecord{
			Date:   start.AddDate(0, 0, i),
			Counts: map[string]int{entity: c},
		}
	}
	return records
}

func TestDerive_RollingWindow(t *testing.T) {
	counts := []int{10, 20, 10, 20, 10, 20, 10, 20, 10, 20}
	records := alternatingRecords(t, "E", counts)
	dates := make([]time.Time, len(records))
	for i, r := range records {
		dates[i] = r.Date
	}

	s := derive(records, dates, "E", 1.0)
	require.Equal(t, len(counts), s.Len())
	assert.Equal(t, counts, s.Raw)

	for i := 0; i < RollingWindow-1; i++ {
		assert.False(t, s.Sum[i].Valid, "sum row %d", i)
		assert.False(t, s.Average[i].Valid, "average row %d", i)
		assert.False(t, s.Incidence[i].Valid, "incidence row %d", i)
	}

	// 2021-01-07
	assert.Equal(t, time.Date(2021, time.January, 7, 0, 0, 0, 0, time.UTC), s.Dates[6])
	assert.Equal(t, Float(100), s.Sum[6])
	assert.InDelta(t, 14.2857, s.Average[6].Float64, 1e-4)
	assert.Equal(t, Float(100), s.Incidence[6])

	// window slides: 20+10+20+10+20+10+20
	assert.Equal(t, Float(110), s.Sum[7])
	assert.Equal(t, Float(100), s.Sum[8])
	assert.Equal(t, Float(110), s.Sum[9])

	for i := RollingWindow - 1; i < s.Len(); i++ {
		assert.InDelta(t, s.Sum[i].Float64, s.Average[i].Float64*RollingWindow, 1e-9)
	}
}

func TestDerive_ShortHistory(t *testing.T) {
	records := alternatingRecords(t, "E", []int{1, 2, 3})
	s := derive(records, []time.Time{records[0].Date, records[1].Date, records[2].Date}, "E", 2.0)
	for i := range s.Len() {
		assert.False(t, s.Sum[i].Valid)
	}
}

func TestCompute(t *testing.T) {
	raw := feedTable(14, func(day, district int) int { return (day*7 + district*3) % 50 })
	records, err := Normalize(raw)
	require.NoError(t, err)

	t.Run("incidence divides sum by population", func(t *testing.T) {
		got, err := Compute(records, []string{"Mitte", AllBerlin})
		require.NoError(t, err)
		require.Len(t, got, 2)

		for _, name := range []string{"Mitte", AllBerlin} {
			s := got[name]
			pop, _ := Population(name)
			assert.Equal(t, pop, s.Population)
			for i := RollingWindow - 1; i < s.Len(); i++ {
				assert.Equal(t, s.Sum[i].Float64/pop, s.Incidence[i].Float64)
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a, err := Compute(records, []string{"Pankow", "Spandau"})
		require.NoError(t, err)
		b, err := Compute(records, []string{"Spandau", "Pankow"})
		require.NoError(t, err)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("Compute mismatch (-first +second):\n%s", diff)
		}
	})

	t.Run("duplicate entities collapse", func(t *testing.T) {
		got, err := Compute(records, []string{"Mitte", "Mitte"})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("unknown entity fails whole request", func(t *testing.T) {
		got, err := Compute(records, []string{"Mitte", "Atlantis"})
		assert.Nil(t, got)
		var uerr *UnknownEntityError
		require.True(t, errors.As(err, &uerr))
		assert.Equal(t, "Atlantis", uerr.Name)
	})

	t.Run("dates shared across entities", func(t *testing.T) {
		got, err := Compute(records, []string{"Mitte", "Pankow"})
		require.NoError(t, err)
		assert.Equal(t, got["Mitte"].Dates, got["Pankow"].Dates)
		m := got["Mitte"]
		m.Dates[0] = time.Time{}
		assert.False(t, got["Pankow"].Dates[0].IsZero())
	})

	t.Run("no NaN for valid rows", func(t *testing.T) {
		got, err := Compute(records, EntityNames())
		require.NoError(t, err)
		for name, s := range got {
			for i := RollingWindow - 1; i < s.Len(); i++ {
				assert.False(t, math.IsNaN(s.Incidence[i].Float64), "%s row %d", name, i)
			}
		}
	})
}

func TestLatest(t *testing.T) {
	_, ok := Latest(DerivedSeries{})
	assert.False(t, ok)

	records := alternatingRecords(t, "E", []int{10, 20, 10, 20, 10, 20, 10})
	s := derive(records, []time.Time{
		records[0].Date, records[1].Date, records[2].Date, records[3].Date,
		records[4].Date, records[5].Date, records[6].Date,
	}, "E", 1.0)

	snap, ok := Latest(s)
	require.True(t, ok)
	assert.Equal(t, "E", snap.Entity)
	assert.Equal(t, 10, snap.NewCases)
	assert.Equal(t, Float(100), snap.Sum)
	assert.Equal(t, records[6].Date, snap.Date)
}

func TestNullFloat_JSON(t *testing.T) {
	b, err := NullFloat{}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	b, err = Float(1.5).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "1.5", string(b))

	var n NullFloat
	require.NoError(t, n.UnmarshalJSON([]byte("null")))
	assert.False(t, n.Valid)
	require.NoError(t, n.UnmarshalJSON([]byte("2.25")))
	assert.Equal(t, Float(2.25), n)
}
