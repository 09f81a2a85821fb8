package services

import (
	"fmt"
	"strings"

	"emlak-analytics/models"
	"emlak-analytics/utils"
)

// InsightService turns computed metrics into ordered, human-readable insight
// records and renders the console report.
type InsightService struct {
	logger *utils.Logger
}

// NewInsightService creates an InsightService with the given logger.
func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate builds the insight list in fixed order: market activity first,
// then conditional price/rent/yield/growth findings, and always a closing
// investment assessment carrying the overall recommendation.
func (s *InsightService) Generate(summary models.Summary, metrics models.YieldMetrics) []models.Insight {
	insights := []models.Insight{marketActivity(summary)}

	if summary.AverageSalePerM2 != nil {
		insights = append(insights, models.Insight{
			Title:  "Sale Prices",
			Detail: fmt.Sprintf("Average sale price per m² is %s.", formatTRY(*summary.AverageSalePerM2)),
		})
	}

	if summary.AverageRentPerM2 != nil {
		insights = append(insights, models.Insight{
			Title:  "Rental Market",
			Detail: fmt.Sprintf("Average rent per m² is %s.", formatTRY(*summary.AverageRentPerM2)),
		})
	}

	if metrics.RentalYieldPercent != nil {
		insight := models.Insight{
			Title:  "Rental Yield",
			Detail: fmt.Sprintf("Gross annual rental yield is %.2f%%.", *metrics.RentalYieldPercent),
		}
		if *metrics.RentalYieldPercent >= 12 {
			insight.Recommendation = recommendationPtr(models.RecommendationBuy)
		}
		insights = append(insights, insight)
	}

	if metrics.FiveYearCAGRPercent != nil {
		insight := models.Insight{
			Title:  "Price Growth",
			Detail: fmt.Sprintf("Five-year compound annual growth rate is %.2f%%.", *metrics.FiveYearCAGRPercent),
		}
		if *metrics.FiveYearCAGRPercent >= 8 {
			insight.Recommendation = recommendationPtr(models.RecommendationBuy)
		}
		insights = append(insights, insight)
	}

	insights = append(insights, models.Insight{
		Title:          "Investment Assessment",
		Detail:         fmt.Sprintf("Core parameters score to a %s outlook.", metrics.Recommendation),
		Recommendation: recommendationPtr(metrics.Recommendation),
	})

	return insights
}

func marketActivity(summary models.Summary) models.Insight {
	detail := "Not enough data for this selection."
	if summary.Listings > 0 {
		detail = fmt.Sprintf("Analysed %d listings.", summary.Listings)
	}
	return models.Insight{Title: "Market Activity", Detail: detail}
}

// Print renders the analysis to the console.
func (s *InsightService) Print(r models.AnalysisResult) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🏠 REAL ESTATE MARKET ANALYSIS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Summary
	fmt.Printf("\033[1;33m  Summary\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Listings analysed   : \033[1m%d\033[0m\n", r.Summary.Listings)
	fmt.Printf("  Avg sale / m²       : %s\n", formatOptionalTRY(r.Summary.AverageSalePerM2))
	fmt.Printf("  Avg rent / m²       : %s\n", formatOptionalTRY(r.Summary.AverageRentPerM2))
	fmt.Println()

	// Yield metrics
	fmt.Printf("\033[1;33m  Yield Metrics\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Avg sale price      : %s\n", formatOptionalTRY(r.YieldMetrics.AverageSalePrice))
	fmt.Printf("  Avg monthly rent    : %s\n", formatOptionalTRY(r.YieldMetrics.AverageRentPrice))
	fmt.Printf("  Gross rental yield  : %s\n", formatOptionalPercent(r.YieldMetrics.RentalYieldPercent))
	fmt.Printf("  5Y CAGR             : %s\n", formatOptionalPercent(r.YieldMetrics.FiveYearCAGRPercent))
	if r.YieldMetrics.InvestmentIndex != nil {
		fmt.Printf("  Investment index    : \033[1m%.2f\033[0m\n", *r.YieldMetrics.InvestmentIndex)
	} else {
		fmt.Printf("  Investment index    : —\n")
	}
	fmt.Println()

	// Insights
	fmt.Printf("\033[1;33m  Insights\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for i, insight := range r.Insights {
		fmt.Printf("  \033[1m%d.\033[0m %s — %s", i+1, insight.Title, insight.Detail)
		if insight.Recommendation != nil {
			fmt.Printf(" \033[1;32m[%s]\033[0m", *insight.Recommendation)
		}
		fmt.Println()
	}
	fmt.Println()

	badge := "\033[1;33m"
	switch r.YieldMetrics.Recommendation {
	case models.RecommendationBuy:
		badge = "\033[1;32m"
	case models.RecommendationRent:
		badge = "\033[1;31m"
	}
	fmt.Printf("  Recommendation: %s%s\033[0m\n", badge, r.YieldMetrics.Recommendation)

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func formatTRY(v float64) string {
	return fmt.Sprintf("%.2f TRY", v)
}

func formatOptionalTRY(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("\033[1;32m%s\033[0m", formatTRY(*v))
}

func formatOptionalPercent(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("\033[1;32m%.2f%%\033[0m", *v)
}

func recommendationPtr(r models.Recommendation) *models.Recommendation {
	return &r
}
