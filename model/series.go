package model

// YearValue is one aggregated value per year. Value is nil when the
// aggregate has no valid inputs (average over an all-null year).
type YearValue struct {
	Year  int      `json:"year"`
	Value *float64 `json:"value"`
}

// MergedPoint is a complete primary/secondary value pair for one
// university and year. Only pairs where both sides are non-null are
// merged; correlation and regression operate exclusively on these.
type MergedPoint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	UniCode  string  `json:"uniCode"`
	Year     int     `json:"year"`
	UniName  string  `json:"uniName"`
	UniType  string  `json:"uniType"`
}

// RatioPoint is primary/secondary for one university and year. Pairs
// with a null primary or a null or zero secondary are dropped during
// ratio computation, never emitted as null or NaN.
type RatioPoint struct {
	UniCode string  `json:"uniCode"`
	Year    int     `json:"year"`
	Value   float64 `json:"value"`
}
