package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordersight/pkg/contracts/domain"
)

// productLine builds a line item carrying product units; date is YYYY-MM-DD.
func productLine(orderID, date, product string, qty int) domain.OrderLine {
	l := line(orderID, date, "Alice", 10, qty, "")
	l.ProductName = product
	l.ProductQuantity = qty
	return l
}

func TestGenerateProductPerformanceInsights(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []domain.OrderLine{
		// Previous window: 2024-01-02 .. 2024-01-31.
		productLine("#1", "2024-01-15", "Riser", 10),
		productLine("#2", "2024-01-16", "Faller", 5),
		productLine("#3", "2024-01-17", "Steady", 10),
		productLine("#4", "2024-01-18", "Sinker", 10),
		// Current window: 2024-02-01 .. 2024-03-01.
		productLine("#5", "2024-02-15", "Riser", 12),
		productLine("#6", "2024-02-16", "Steady", 11),
		productLine("#7", "2024-02-17", "Newcomer", 5),
		productLine("#8", "2024-02-18", "Sinker", 8),
	}

	insights := GenerateProductPerformanceInsights(rows, now)
	require.Len(t, insights, 5)

	byProduct := make(map[string]domain.ProductInsight, len(insights))
	for _, in := range insights {
		byProduct[in.Product] = in
	}

	riser := byProduct["Riser"]
	assert.Equal(t, domain.InsightPositive, riser.Polarity)
	assert.Contains(t, riser.Insight, "Trending up")
	assert.Contains(t, riser.Insight, "+20.0%")

	faller := byProduct["Faller"]
	assert.Equal(t, domain.InsightNegative, faller.Polarity)
	assert.Contains(t, faller.Insight, "dropped to zero")

	// +10% exactly is not above the threshold.
	steady := byProduct["Steady"]
	assert.Equal(t, domain.InsightNeutral, steady.Polarity)
	assert.Contains(t, steady.Insight, "Stable")

	newcomer := byProduct["Newcomer"]
	assert.Equal(t, domain.InsightPositive, newcomer.Polarity)
	assert.Contains(t, newcomer.Insight, "New trending product")

	sinker := byProduct["Sinker"]
	assert.Equal(t, domain.InsightNegative, sinker.Polarity)
	assert.Contains(t, sinker.Insight, "Trending down")
	assert.Contains(t, sinker.Insight, "-20.0%")

	// Reported in first-appearance order of the dataset.
	assert.Equal(t, "Riser", insights[0].Product)
	assert.Equal(t, "Faller", insights[1].Product)
}

func TestGenerateProductPerformanceInsightsSkipsUnlisted(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	unlisted := line("#1", "2024-02-15", "Alice", 10, 1, "")
	unlisted.ProductName = domain.UnlistedProduct
	unlisted.ProductQuantity = 1

	insights := GenerateProductPerformanceInsights([]domain.OrderLine{unlisted}, now)
	assert.Empty(t, insights)
}

func TestGenerateProductPerformanceInsightsOutsideWindows(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := []domain.OrderLine{
		// Long before either comparison window.
		productLine("#1", "2023-01-15", "Relic", 10),
	}

	assert.Empty(t, GenerateProductPerformanceInsights(rows, now))
	assert.Empty(t, GenerateProductPerformanceInsights(nil, now))
}
