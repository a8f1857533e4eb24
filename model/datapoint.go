package model

// DataPoint is one observed value of a Kennzahl for one university and
// year. Value is a pointer so that a JSON null survives decoding as nil:
// a point can be present with a value, present with an explicit null, or
// absent entirely. Aggregation treats nil like absent; display layers
// may distinguish them.
type DataPoint struct {
	UniCode string   `json:"uniCode"`
	Year    int      `json:"year"`
	Value   *float64 `json:"value"`
}

// Valid reports whether the point carries a usable numeric value.
func (p DataPoint) Valid() bool {
	return p.Value != nil
}

// Float returns a value pointer, for building literal point sets.
func Float(v float64) *float64 {
	return &v
}

// YearRange is an inclusive span of data years.
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether year falls inside the range (inclusive).
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// FilterState is the projection of the filter-relevant state keys: which
// universities and university types are in scope, the year span, and the
// selected Kennzahl.
type FilterState struct {
	Universities []string  `json:"universities"`
	UniTypes     []string  `json:"uniTypes"`
	YearRange    YearRange `json:"yearRange"`
	Kennzahl     string    `json:"kennzahl"`
}

// DataStats summarizes the currently filtered point set. It is fully
// recomputed on every filter change, never updated incrementally.
type DataStats struct {
	TotalPoints int     `json:"totalPoints"`
	Average     float64 `json:"average"`
	Trend       float64 `json:"trend"`
}

// VizOptions carries renderer options that travel with the viz type.
type VizOptions struct {
	ShowAverage bool `json:"showAverage"`
	RankingYear int  `json:"rankingYear"`
}
