package dataloader

import (
	"fmt"
	"math"
	"sort"

	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/catalog"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/model"
)

// AggregateMode selects how per-year values are combined.
type AggregateMode string

const (
	ModeSum     AggregateMode = "sum"
	ModeAverage AggregateMode = "average"
	ModeCount   AggregateMode = "count"
)

// AggregateByYear groups points by year and combines each year's valid
// values per mode. The average of an all-null year is nil. Entries come
// back sorted ascending by year.
func AggregateByYear(points []model.DataPoint, mode AggregateMode) []model.YearValue {
	byYear := make(map[int][]float64)
	for _, p := range points {
		if _, ok := byYear[p.Year]; !ok {
			byYear[p.Year] = nil
		}
		if p.Value != nil {
			byYear[p.Year] = append(byYear[p.Year], *p.Value)
		}
	}

	out := make([]model.YearValue, 0, len(byYear))
	for year, values := range byYear {
		var value *float64

		switch mode {
		case ModeAverage:
			if len(values) > 0 {
				sum := 0.0
				for _, v := range values {
					sum += v
				}
				value = model.Float(sum / float64(len(values)))
			}
		case ModeCount:
			value = model.Float(float64(len(values)))
		default: // ModeSum
			sum := 0.0
			for _, v := range values {
				sum += v
			}
			value = model.Float(sum)
		}

		out = append(out, model.YearValue{Year: year, Value: value})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// GroupedSeries is the canonical per-university time series consumed by
// every visualization renderer. University is nil when the point's code
// is not in the catalog.
type GroupedSeries struct {
	University *catalog.University `json:"university"`
	Data       []model.YearValue   `json:"data"`
}

// GroupByUniversity partitions points into one series per university
// code, each sorted ascending by year.
func GroupByUniversity(points []model.DataPoint) map[string]*GroupedSeries {
	grouped := make(map[string]*GroupedSeries)

	for _, p := range points {
		group, ok := grouped[p.UniCode]
		if !ok {
			uni, _ := catalog.UniversityByCode(p.UniCode)
			group = &GroupedSeries{University: uni}
			grouped[p.UniCode] = group
		}
		group.Data = append(group.Data, model.YearValue{Year: p.Year, Value: p.Value})
	}

	for _, group := range grouped {
		data := group.Data
		sort.Slice(data, func(i, j int) bool { return data[i].Year < data[j].Year })
	}
	return grouped
}

// MergeForCorrelation joins primary and secondary points on
// (university, year) and keeps only complete pairs: a primary point
// with a non-null value whose match is present and non-null. Everything
// else is dropped, so correlation and regression never see nulls.
func MergeForCorrelation(primary, secondary []model.DataPoint) []model.MergedPoint {
	index := make(map[string]float64, len(secondary))
	for _, p := range secondary {
		if p.Value != nil {
			index[pairKey(p.UniCode, p.Year)] = *p.Value
		}
	}

	var merged []model.MergedPoint
	for _, p := range primary {
		if p.Value == nil {
			continue
		}
		y, ok := index[pairKey(p.UniCode, p.Year)]
		if !ok {
			continue
		}

		mp := model.MergedPoint{
			X:       *p.Value,
			Y:       y,
			UniCode: p.UniCode,
			Year:    p.Year,
		}
		if uni, ok := catalog.UniversityByCode(p.UniCode); ok {
			mp.UniName = uni.ShortName
			mp.UniType = uni.Type
		}
		merged = append(merged, mp)
	}
	return merged
}

// CalculateRatio joins primary and secondary points on (university,
// year) and emits primary/secondary. Pairs with a null primary or a
// null or zero secondary are excluded entirely rather than emitted as
// null or NaN.
func CalculateRatio(primary, secondary []model.DataPoint) []model.RatioPoint {
	index := make(map[string]float64, len(secondary))
	for _, p := range secondary {
		if p.Value != nil {
			index[pairKey(p.UniCode, p.Year)] = *p.Value
		}
	}

	var ratios []model.RatioPoint
	for _, p := range primary {
		if p.Value == nil {
			continue
		}
		denom, ok := index[pairKey(p.UniCode, p.Year)]
		if !ok || denom == 0 {
			continue
		}
		ratios = append(ratios, model.RatioPoint{
			UniCode: p.UniCode,
			Year:    p.Year,
			Value:   *p.Value / denom,
		})
	}
	return ratios
}

func pairKey(uniCode string, year int) string {
	return fmt.Sprintf("%s|%d", uniCode, year)
}

// Correlation computes the Pearson correlation coefficient of a merged
// pair set. Fewer than two pairs or zero variance in either variable
// yield 0 instead of NaN.
func Correlation(merged []model.MergedPoint) float64 {
	n := len(merged)
	if n < 2 {
		return 0
	}

	var meanX, meanY float64
	for _, p := range merged {
		meanX += p.X
		meanY += p.Y
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var numerator, denomX, denomY float64
	for _, p := range merged {
		dx := p.X - meanX
		dy := p.Y - meanY
		numerator += dx * dy
		denomX += dx * dx
		denomY += dy * dy
	}

	denominator := math.Sqrt(denomX) * math.Sqrt(denomY)
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
