package dataloader

import (
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/model"
)

// demoUniversities are the codes demo datasets are generated for.
var demoUniversities = []string{"UI", "MW", "MG", "TU", "UW"}

// demoYears is the canonical reporting span of the demo generator.
var demoYears = []int{2019, 2020, 2021, 2022, 2023}

// GenerateDemoPoints builds a synthetic dataset for a metric code. The
// generator is seeded from the code, so the same code always yields the
// same points: per university a base value between 500 and 1500 that
// drifts by at most ±5% per year.
func GenerateDemoPoints(code string) []model.DataPoint {
	h := fnv.New64a()
	h.Write([]byte(code))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	points := make([]model.DataPoint, 0, len(demoUniversities)*len(demoYears))
	for _, uniCode := range demoUniversities {
		base := rng.Float64()*1000 + 500
		for _, year := range demoYears {
			variation := (rng.Float64() - 0.5) * 0.1
			base = base * (1 + variation)

			points = append(points, model.DataPoint{
				UniCode: uniCode,
				Year:    year,
				Value:   model.Float(math.Round(base)),
			})
		}
	}
	return points
}
