package state

import (
	"math"
	"sort"

	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/model"
)

// CalculateStats recomputes the summary statistics for a filtered
// point set and stores them under dataStats.
//
// Trend compares the mean of the numerically smallest data year against
// the mean of the largest (the full span, not the two most recent
// years). When the first year's mean is zero the percentage change is
// undefined, so the trend collapses to a signed sentinel: +100 when the
// last mean is positive, -100 when negative, 0 when both are zero.
func (s *Store) CalculateStats(points []model.DataPoint) {
	s.Set(KeyDataStats, ComputeStats(points))
}

// ComputeStats is the pure computation behind CalculateStats.
func ComputeStats(points []model.DataPoint) model.DataStats {
	var values []float64
	byYear := make(map[int][]float64)

	for _, p := range points {
		if p.Value == nil || math.IsNaN(*p.Value) {
			continue
		}
		values = append(values, *p.Value)
		byYear[p.Year] = append(byYear[p.Year], *p.Value)
	}

	if len(values) == 0 {
		return model.DataStats{}
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	average := sum / float64(len(values))

	trend := 0.0
	if len(byYear) >= 2 {
		years := make([]int, 0, len(byYear))
		for y := range byYear {
			years = append(years, y)
		}
		sort.Ints(years)

		firstAvg := mean(byYear[years[0]])
		lastAvg := mean(byYear[years[len(years)-1]])

		switch {
		case firstAvg != 0:
			trend = (lastAvg - firstAvg) / firstAvg * 100
		case lastAvg > 0:
			trend = 100
		case lastAvg < 0:
			trend = -100
		}
	}

	return model.DataStats{
		TotalPoints: len(values),
		Average:     roundOne(average),
		Trend:       roundOne(trend),
	}
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func roundOne(v float64) float64 {
	return math.Round(v*10) / 10
}
