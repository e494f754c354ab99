package analytics

import (
	"fmt"
	"time"

	"ordersight/pkg/contracts/domain"
)

// Trend classification constants. These thresholds are fixed by design, not
// configurable per call; dashboards depend on their exact values.
const (
	insightWindowDays  = 30
	trendUpThreshold   = 10.0
	trendDownThreshold = -10.0
)

// GenerateProductPerformanceInsights compares per-product unit sales in the
// trailing 30-day window against the preceding 30 days and classifies each
// product's movement. Products are reported in the order they first appear
// in the dataset.
func GenerateProductPerformanceInsights(rows []domain.OrderLine, now time.Time) []domain.ProductInsight {
	insights := []domain.ProductInsight{}
	if len(rows) == 0 {
		return insights
	}

	end := endOfDay(now)
	start := startOfDay(now.AddDate(0, 0, -(insightWindowDays - 1)))
	prevEnd := endOfDay(start.AddDate(0, 0, -1))
	prevStart := startOfDay(prevEnd.AddDate(0, 0, -(insightWindowDays - 1)))

	current := unitsByProduct(filterRows(rows, start, end))
	previous := unitsByProduct(filterRows(rows, prevStart, prevEnd))

	for _, product := range productOrder(rows) {
		cur, inCurrent := current[product]
		prev, inPrevious := previous[product]
		if !inCurrent && !inPrevious {
			continue
		}

		switch {
		case prev == 0 && cur > 0:
			insights = append(insights, domain.ProductInsight{
				Product:  product,
				Insight:  "New trending product: first unit sales recorded this period",
				Polarity: domain.InsightPositive,
			})
		case prev > 0 && cur == 0:
			insights = append(insights, domain.ProductInsight{
				Product:  product,
				Insight:  "Unit sales dropped to zero this period",
				Polarity: domain.InsightNegative,
			})
		case prev > 0:
			change := (float64(cur) - float64(prev)) / float64(prev) * 100
			switch {
			case change > trendUpThreshold:
				insights = append(insights, domain.ProductInsight{
					Product:  product,
					Insight:  fmt.Sprintf("Trending up: unit sales %+.1f%% vs. previous period", change),
					Polarity: domain.InsightPositive,
				})
			case change < trendDownThreshold:
				insights = append(insights, domain.ProductInsight{
					Product:  product,
					Insight:  fmt.Sprintf("Trending down: unit sales %+.1f%% vs. previous period", change),
					Polarity: domain.InsightNegative,
				})
			default:
				insights = append(insights, domain.ProductInsight{
					Product:  product,
					Insight:  "Stable unit sales vs. previous period",
					Polarity: domain.InsightNeutral,
				})
			}
		}
	}
	return insights
}

// unitsByProduct sums ProductQuantity per product name.
func unitsByProduct(rows []domain.OrderLine) map[string]int {
	units := make(map[string]int)
	for _, row := range rows {
		if row.ProductName == "" || row.ProductName == domain.UnlistedProduct {
			continue
		}
		units[row.ProductName] += row.ProductQuantity
	}
	return units
}

// productOrder lists distinct product names by first appearance.
func productOrder(rows []domain.OrderLine) []string {
	seen := make(map[string]bool)
	var names []string
	for _, row := range rows {
		if row.ProductName == "" || seen[row.ProductName] {
			continue
		}
		seen[row.ProductName] = true
		names = append(names, row.ProductName)
	}
	return names
}
