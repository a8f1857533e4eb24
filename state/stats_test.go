package state

import (
	"testing"

	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/event"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/model"
)

func point(uni string, year int, value *float64) model.DataPoint {
	return model.DataPoint{UniCode: uni, Year: year, Value: value}
}

func TestComputeStatsEmptyAndNull(t *testing.T) {
	tests := []struct {
		name   string
		points []model.DataPoint
	}{
		{"Empty", nil},
		{"All_Null", []model.DataPoint{
			point("UI", 2021, nil),
			point("MW", 2022, nil),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(tt.points)
			want := model.DataStats{TotalPoints: 0, Average: 0, Trend: 0}
			if got != want {
				t.Errorf("ComputeStats() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestComputeStatsTrend(t *testing.T) {
	tests := []struct {
		name      string
		points    []model.DataPoint
		wantTrend float64
	}{
		{"Zero_To_Zero", []model.DataPoint{
			point("UI", 2021, model.Float(0)),
			point("UI", 2024, model.Float(0)),
		}, 0},
		{"Zero_To_Positive", []model.DataPoint{
			point("UI", 2021, model.Float(0)),
			point("UI", 2024, model.Float(50)),
		}, 100},
		{"Zero_To_Negative", []model.DataPoint{
			point("UI", 2021, model.Float(0)),
			point("UI", 2024, model.Float(-50)),
		}, -100},
		{"Regular_Growth", []model.DataPoint{
			point("UI", 2021, model.Float(100)),
			point("UI", 2024, model.Float(150)),
		}, 50.0},
		{"Single_Year_No_Trend", []model.DataPoint{
			point("UI", 2021, model.Float(100)),
			point("MW", 2021, model.Float(200)),
		}, 0},
		{"Full_Span_Not_Recent_Pair", []model.DataPoint{
			// 2019 mean 100, 2024 mean 200; the 2023 value must not
			// participate in the trend.
			point("UI", 2019, model.Float(100)),
			point("UI", 2023, model.Float(1000)),
			point("UI", 2024, model.Float(200)),
		}, 100},
		{"Year_Means_Not_Single_Points", []model.DataPoint{
			point("UI", 2020, model.Float(100)),
			point("MW", 2020, model.Float(300)), // first mean 200
			point("UI", 2023, model.Float(250)),
			point("MW", 2023, model.Float(350)), // last mean 300
		}, 50.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(tt.points)
			if got.Trend != tt.wantTrend {
				t.Errorf("Trend = %v, want %v", got.Trend, tt.wantTrend)
			}
		})
	}
}

func TestComputeStatsAverage(t *testing.T) {
	points := []model.DataPoint{
		point("UI", 2021, model.Float(100)),
		point("UI", 2022, nil), // excluded from count and mean
		point("UI", 2023, model.Float(101)),
	}

	got := ComputeStats(points)
	if got.TotalPoints != 2 {
		t.Errorf("TotalPoints = %d, want 2", got.TotalPoints)
	}
	if got.Average != 100.5 {
		t.Errorf("Average = %v, want 100.5", got.Average)
	}
}

func TestCalculateStatsStoresResult(t *testing.T) {
	store := NewStore(event.NewBus(), nil)

	store.CalculateStats([]model.DataPoint{
		point("UI", 2021, model.Float(10)),
		point("UI", 2024, model.Float(15)),
	})

	stats, ok := store.Get(KeyDataStats).(model.DataStats)
	if !ok {
		t.Fatal("dataStats not stored")
	}
	if stats.TotalPoints != 2 || stats.Trend != 50.0 {
		t.Errorf("Stored stats = %+v", stats)
	}
}
