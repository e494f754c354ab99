package analytics

import (
	"fmt"
	"math"
	"sort"

	"ordersight/pkg/contracts/domain"
)

const (
	// DefaultAnomalyWindowDays is the trailing window anomalies are scanned
	// over, anchored at the dataset's latest order date.
	DefaultAnomalyWindowDays = 90
	// DefaultAnomalyThreshold is the deviation multiplier k.
	DefaultAnomalyThreshold = 2.0
)

// DetectSalesAnomalies flags days whose revenue deviates from the rest of
// the trailing window by more than k standard deviations. Each day is
// measured against the mean and population standard deviation of the other
// days in the window; excluding the day under test keeps a single extreme
// day from masking itself. Fewer than 2 distinct days of data yield no
// anomalies, since a lone point has undefined variance.
//
// A day whose revenue is exactly zero while the baseline mean and lower
// threshold are both positive is called out as a complete drop, so
// zero-revenue days are not lost among ordinary below-threshold drops.
func DetectSalesAnomalies(rows []domain.OrderLine, windowDays int, k float64) []domain.Anomaly {
	if windowDays <= 0 {
		windowDays = DefaultAnomalyWindowDays
	}
	if k <= 0 {
		k = DefaultAnomalyThreshold
	}

	anomalies := []domain.Anomaly{}
	latest, ok := LatestOrderTime(rows)
	if !ok {
		return anomalies
	}
	windowStart := startOfDay(latest).AddDate(0, 0, -(windowDays - 1))

	revenueByDay := make(map[string]float64)
	for _, o := range collapseOrders(rows) {
		if !o.hasTime || o.when.Before(windowStart) {
			continue
		}
		revenueByDay[o.when.Format(dayKeyLayout)] += o.total
	}
	if len(revenueByDay) < 2 {
		return anomalies
	}

	days := make([]string, 0, len(revenueByDay))
	for day := range revenueByDay {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		value := revenueByDay[day]
		mean, stddev := baselineStats(revenueByDay, day)
		upper := mean + k*stddev
		lower := mean - k*stddev

		switch {
		case value == 0 && mean > 0 && lower > 0:
			anomalies = append(anomalies, domain.Anomaly{
				Date: day, Value: value, Kind: domain.AnomalyDrop,
				Message: fmt.Sprintf("Complete sales drop on %s: no revenue against a daily average of %.2f", day, mean),
			})
		case value > upper:
			anomalies = append(anomalies, domain.Anomaly{
				Date: day, Value: value, Kind: domain.AnomalySpike,
				Message: fmt.Sprintf("Sales spike on %s: %.2f exceeds %.2f (mean %.2f + %.1fσ)", day, value, upper, mean, k),
			})
		case value < lower && value > 0:
			anomalies = append(anomalies, domain.Anomaly{
				Date: day, Value: value, Kind: domain.AnomalyDrop,
				Message: fmt.Sprintf("Sales drop on %s: %.2f is below %.2f (mean %.2f - %.1fσ)", day, value, lower, mean, k),
			})
		}
	}
	return anomalies
}

// baselineStats computes the population mean and standard deviation of the
// daily sums, leaving out the day under test.
func baselineStats(revenueByDay map[string]float64, exclude string) (float64, float64) {
	n := len(revenueByDay) - 1
	if n <= 0 {
		return 0, 0
	}
	var sum float64
	for day, v := range revenueByDay {
		if day == exclude {
			continue
		}
		sum += v
	}
	mean := sum / float64(n)

	var sq float64
	for day, v := range revenueByDay {
		if day == exclude {
			continue
		}
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(n))
}
