package services

import (
	"math"
	"sort"

	"emlak-analytics/models"
	"emlak-analytics/utils"
)

// Analyzer runs the full filter → aggregate → insight pipeline over a
// listing snapshot. All steps are pure; the result is a fresh value on every
// call.
type Analyzer struct {
	logger   *utils.Logger
	insights *InsightService
}

// NewAnalyzer creates an Analyzer with the given logger.
func NewAnalyzer(logger *utils.Logger) *Analyzer {
	return &Analyzer{logger: logger, insights: NewInsightService(logger)}
}

// Analyze filters the collection and computes the complete analysis snapshot.
func (a *Analyzer) Analyze(listings []models.Listing, spec models.FilterSpec) models.AnalysisResult {
	filtered := ApplyFilter(listings, spec)
	a.logger.Debug("[analyzer] %d of %d listings match the filter", len(filtered), len(listings))

	summary := ComputeSummary(filtered)
	series := ComputeTimeSeries(filtered)
	metrics := ComputeYieldMetrics(filtered)

	return models.AnalysisResult{
		Filters:      spec,
		Summary:      summary,
		TimeSeries:   series,
		YieldMetrics: metrics,
		Insights:     a.insights.Generate(summary, metrics),
	}
}

// ComputeSummary returns the listing count and the size-weighted per-m²
// averages: total price divided by total size over the listings that carry
// both fields. This deliberately differs from a mean of per-listing ratios —
// large units weigh more.
func ComputeSummary(listings []models.Listing) models.Summary {
	var salePrice, saleSize, rentPrice, rentSize float64

	for _, l := range listings {
		switch {
		case l.ListingType == models.ListingTypeSale && l.Price != nil && l.SizeM2 != nil:
			salePrice += *l.Price
			saleSize += *l.SizeM2
		case l.ListingType == models.ListingTypeRent && l.Rent != nil && l.SizeM2 != nil:
			rentPrice += *l.Rent
			rentSize += *l.SizeM2
		}
	}

	summary := models.Summary{Listings: len(listings)}
	if saleSize > 0 {
		v := salePrice / saleSize
		summary.AverageSalePerM2 = &v
	}
	if rentSize > 0 {
		v := rentPrice / rentSize
		summary.AverageRentPerM2 = &v
	}
	return summary
}

// ComputeTimeSeries groups dated listings by calendar month and returns the
// simple mean of sale prices and rents per month in ascending order. A month
// that has observations on only one side still appears, with a nil average on
// the other, so charts can render the gap.
func ComputeTimeSeries(listings []models.Listing) []models.TimeSeriesPoint {
	type bucket struct {
		saleValues []float64
		rentValues []float64
	}
	grouped := make(map[string]*bucket)

	for _, l := range listings {
		if l.ListingDate == nil {
			continue
		}
		period := l.ListingDate.Format("2006-01")
		entry, ok := grouped[period]
		if !ok {
			entry = &bucket{}
			grouped[period] = entry
		}
		if l.ListingType == models.ListingTypeSale && l.Price != nil {
			entry.saleValues = append(entry.saleValues, *l.Price)
		}
		if l.ListingType == models.ListingTypeRent && l.Rent != nil {
			entry.rentValues = append(entry.rentValues, *l.Rent)
		}
	}

	periods := make([]string, 0, len(grouped))
	for period := range grouped {
		periods = append(periods, period)
	}
	sort.Strings(periods)

	series := make([]models.TimeSeriesPoint, 0, len(periods))
	for _, period := range periods {
		entry := grouped[period]
		series = append(series, models.TimeSeriesPoint{
			Period:           period,
			AverageSalePrice: mean(entry.saleValues),
			AverageRentPrice: mean(entry.rentValues),
		})
	}
	return series
}

// ComputeYieldMetrics derives the investment figures: unweighted average sale
// and rent prices, gross rental yield, five-year CAGR between the earliest
// and latest dated sale listings, and the composite index with its
// BUY/HOLD/RENT verdict.
func ComputeYieldMetrics(listings []models.Listing) models.YieldMetrics {
	var sale, rent []models.Listing
	for _, l := range listings {
		if l.ListingType == models.ListingTypeSale && l.Price != nil {
			sale = append(sale, l)
		}
		if l.ListingType == models.ListingTypeRent && l.Rent != nil {
			rent = append(rent, l)
		}
	}

	salePrices := make([]float64, len(sale))
	for i, l := range sale {
		salePrices[i] = *l.Price
	}
	rentPrices := make([]float64, len(rent))
	for i, l := range rent {
		rentPrices[i] = *l.Rent
	}

	avgSale := mean(salePrices)
	avgRent := mean(rentPrices)

	var yieldPercent *float64
	if avgSale != nil && avgRent != nil && *avgSale > 0 && *avgRent > 0 {
		v := (*avgRent * 12 * 100) / *avgSale
		yieldPercent = &v
	}

	cagr := computeCAGR(sale)

	metrics := models.YieldMetrics{
		AverageSalePrice:    avgSale,
		AverageRentPrice:    avgRent,
		RentalYieldPercent:  yieldPercent,
		FiveYearCAGRPercent: cagr,
		Recommendation:      models.RecommendationHold,
	}

	// The composite index is rounded to two decimals before the combined
	// threshold comparison. That ordering is observed behavior and shifts
	// borderline values, so it must not be "fixed".
	switch {
	case yieldPercent != nil && cagr != nil:
		idx := round2(*yieldPercent*0.5 + *cagr*0.5)
		metrics.InvestmentIndex = &idx
		switch {
		case idx >= 12:
			metrics.Recommendation = models.RecommendationBuy
		case idx <= 5:
			metrics.Recommendation = models.RecommendationRent
		}
	case yieldPercent != nil:
		idx := round2(*yieldPercent)
		metrics.InvestmentIndex = &idx
		if *yieldPercent >= 12 {
			metrics.Recommendation = models.RecommendationBuy
		}
	case cagr != nil:
		idx := round2(*cagr)
		metrics.InvestmentIndex = &idx
		if *cagr >= 8 {
			metrics.Recommendation = models.RecommendationBuy
		}
	}

	return metrics
}

// computeCAGR needs at least two dated sale listings. The elapsed span is
// floored at one year to avoid blow-ups on same-day observations.
func computeCAGR(sale []models.Listing) *float64 {
	dated := make([]models.Listing, 0, len(sale))
	for _, l := range sale {
		if l.ListingDate != nil {
			dated = append(dated, l)
		}
	}
	if len(dated) < 2 {
		return nil
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].ListingDate.Before(*dated[j].ListingDate)
	})

	earliest := dated[0]
	latest := dated[len(dated)-1]
	if *earliest.Price <= 0 {
		return nil
	}

	days := latest.ListingDate.Sub(*earliest.ListingDate).Hours() / 24
	years := days / 365.25
	if years < 1 {
		years = 1
	}

	v := (math.Pow(*latest.Price / *earliest.Price, 1/years) - 1) * 100
	return &v
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return &avg
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
