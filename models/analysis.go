package models

// Recommendation is the investment verdict derived from the composite index.
type Recommendation string

const (
	RecommendationBuy  Recommendation = "BUY"
	RecommendationHold Recommendation = "HOLD"
	RecommendationRent Recommendation = "RENT"
)

// Summary holds the headline figures for a filtered collection. The per-m²
// averages are size-weighted: sum of prices divided by sum of sizes over the
// listings that carry both fields. Nil when no listing qualifies.
type Summary struct {
	Listings         int      `json:"listings"`
	AverageSalePerM2 *float64 `json:"average_sale_per_m2"`
	AverageRentPerM2 *float64 `json:"average_rent_per_m2"`
}

// TimeSeriesPoint is one calendar month of the price trend. A nil average
// means the month had no observations on that side; the month is still
// emitted so charts can render the gap.
type TimeSeriesPoint struct {
	Period           string   `json:"period"`
	AverageSalePrice *float64 `json:"average_sale_price"`
	AverageRentPrice *float64 `json:"average_rent_price"`
}

// YieldMetrics carries the investment figures. Averages here are plain
// arithmetic means, unweighted by size.
type YieldMetrics struct {
	AverageSalePrice    *float64       `json:"average_sale_price"`
	AverageRentPrice    *float64       `json:"average_rent_price"`
	RentalYieldPercent  *float64       `json:"rental_yield_percent"`
	FiveYearCAGRPercent *float64       `json:"five_year_cagr_percent"`
	InvestmentIndex     *float64       `json:"investment_index"`
	Recommendation      Recommendation `json:"recommendation"`
}

// Insight is one human-readable finding, optionally tagged with a
// recommendation.
type Insight struct {
	Title          string          `json:"title"`
	Detail         string          `json:"detail"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
}

// AnalysisResult is the full computed snapshot for one filter selection.
// It is recomputed from scratch on every request and never mutated in place.
type AnalysisResult struct {
	Filters      FilterSpec        `json:"filters"`
	Summary      Summary           `json:"summary"`
	TimeSeries   []TimeSeriesPoint `json:"time_series"`
	YieldMetrics YieldMetrics      `json:"yield_metrics"`
	Insights     []Insight         `json:"insights"`
}
