package cache

import (
	"testing"

	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/config"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/model"
)

func testConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		MaxSizeMB:   10,
		TTLSeconds:  60,
		CounterSize: 1000,
	}
}

func somePoints() []model.DataPoint {
	return []model.DataPoint{
		{UniCode: "UI", Year: 2021, Value: model.Float(742)},
		{UniCode: "UI", Year: 2022, Value: nil},
	}
}

func TestCacheBasicOperations(t *testing.T) {
	c, err := New(testConfig())
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer c.Close()

	t.Run("Set_and_Get", func(t *testing.T) {
		points := somePoints()
		if ok := c.SetPoints("1-A-1", points); !ok {
			t.Error("Failed to set points in cache")
		}

		got, found := c.GetPoints("1-A-1")
		if !found {
			t.Fatal("Points not found in cache")
		}
		if len(got) != 2 || got[0].UniCode != "UI" {
			t.Errorf("Unexpected cached points: %+v", got)
		}
		if got[1].Value != nil {
			t.Error("Null value must survive caching as nil")
		}
	})

	t.Run("Get_NonExistent", func(t *testing.T) {
		if _, found := c.GetPoints("9-Z-9"); found {
			t.Error("Expected code not to be found")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		c.SetPoints("2-A-2", somePoints())
		c.Delete("2-A-2")
		if _, found := c.GetPoints("2-A-2"); found {
			t.Error("Points should not exist after deletion")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		c.SetPoints("3-A-1", somePoints())
		c.Clear()
		if _, found := c.GetPoints("3-A-1"); found {
			t.Error("Points should not exist after clearing")
		}
	})
}

func TestCacheMetricsSnapshot(t *testing.T) {
	c, err := New(testConfig())
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer c.Close()

	c.SetPoints("1-A-1", somePoints())
	c.GetPoints("1-A-1")
	c.GetPoints("9-Z-9")

	snap := c.GetMetricsSnapshot()
	if snap.Hits < 1 {
		t.Errorf("Expected at least one hit, got %d", snap.Hits)
	}
	if snap.Misses < 1 {
		t.Errorf("Expected at least one miss, got %d", snap.Misses)
	}
	if snap.TTLSeconds != 60 {
		t.Errorf("TTLSeconds = %d, want 60", snap.TTLSeconds)
	}
}
