package analytics

import (
	"sort"
	"strconv"

	"ordersight/pkg/contracts/domain"
)

const topProductsLimit = 10

// dayOfWeekLabels is the fixed Sunday-first label order.
var dayOfWeekLabels = []string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// TopProducts ranks products by unit volume and keeps the top ten. Ties keep
// their first-appearance order; no further re-sorting is applied.
func TopProducts(rows []domain.OrderLine) domain.CategoryBreakdown {
	units := unitsByProduct(rows)
	names := []string{}
	for _, name := range productOrder(rows) {
		if _, ok := units[name]; ok {
			names = append(names, name)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return units[names[i]] > units[names[j]]
	})
	if len(names) > topProductsLimit {
		names = names[:topProductsLimit]
	}

	out := domain.CategoryBreakdown{Labels: names, Values: make([]float64, len(names))}
	for i, name := range names {
		out.Values[i] = float64(units[name])
	}
	return out
}

// OrderStatusDistribution counts distinct orders per status. Orders without
// a status fall under "Unknown". Labels keep first-appearance order.
func OrderStatusDistribution(rows []domain.OrderLine) domain.CategoryBreakdown {
	counts := make(map[string]int)
	labels := []string{}
	for _, o := range collapseOrders(rows) {
		status := o.status
		if status == "" {
			status = "Unknown"
		}
		if _, seen := counts[status]; !seen {
			labels = append(labels, status)
		}
		counts[status]++
	}

	out := domain.CategoryBreakdown{Labels: labels, Values: make([]float64, len(labels))}
	for i, status := range labels {
		out.Values[i] = float64(counts[status])
	}
	return out
}

// HourOfDayRevenue sums order revenue per hour of day. All 24 hours are
// always present, zero-valued when silent, so the axis stays complete.
func HourOfDayRevenue(rows []domain.OrderLine) domain.CategoryBreakdown {
	out := domain.CategoryBreakdown{
		Labels: make([]string, 24),
		Values: make([]float64, 24),
	}
	for h := 0; h < 24; h++ {
		out.Labels[h] = strconv.Itoa(h)
	}
	for _, o := range collapseOrders(rows) {
		if !o.hasTime {
			continue
		}
		out.Values[o.when.Hour()] += o.total
	}
	return out
}

// DayOfWeekRevenue sums order revenue per weekday in fixed Sun-Sat order.
func DayOfWeekRevenue(rows []domain.OrderLine) domain.CategoryBreakdown {
	out := domain.CategoryBreakdown{
		Labels: append([]string(nil), dayOfWeekLabels...),
		Values: make([]float64, len(dayOfWeekLabels)),
	}
	for _, o := range collapseOrders(rows) {
		if !o.hasTime {
			continue
		}
		out.Values[int(o.when.Weekday())] += o.total
	}
	return out
}
