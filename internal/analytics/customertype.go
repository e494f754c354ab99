package analytics

import (
	"time"

	"ordersight/pkg/contracts/domain"
)

// PrepareCustomerTypeData splits per-bucket revenue into sales from
// first-time versus returning customers over the same dense axis as
// PrepareSalesOverTime. An order counts as "new" when its calendar day is
// the customer's first order day in the dataset; orders without a customer
// name fall into the returning series.
//
// Rows are sorted chronologically in place to establish first order days;
// the sort is idempotent.
func PrepareCustomerTypeData(rows []domain.OrderLine, days int, grain Grain) domain.CustomerTypeSeries {
	empty := domain.CustomerTypeSeries{
		Labels:                 []string{},
		NewCustomerSales:       []float64{},
		ReturningCustomerSales: []float64{},
	}
	if len(rows) == 0 {
		return empty
	}

	SortChronological(rows)

	firstOrderDay := make(map[string]string)
	newByDay := make(map[string]float64)
	returningByDay := make(map[string]float64)
	for _, o := range collapseOrders(rows) {
		if !o.hasTime {
			continue
		}
		day := o.when.Format(dayKeyLayout)
		if o.customer != "" {
			if _, seen := firstOrderDay[o.customer]; !seen {
				firstOrderDay[o.customer] = day
			}
		}
		if o.customer != "" && firstOrderDay[o.customer] == day {
			newByDay[day] += o.total
		} else {
			returningByDay[day] += o.total
		}
	}
	if len(newByDay) == 0 && len(returningByDay) == 0 {
		return empty
	}

	start, end, ok := seriesSpan(rows, days)
	if !ok {
		return empty
	}

	labels, newSales := bucketize(newByDay, start, end, grain)
	_, returningSales := bucketize(returningByDay, start, end, grain)
	return domain.CustomerTypeSeries{
		Labels:                 labels,
		NewCustomerSales:       newSales,
		ReturningCustomerSales: returningSales,
	}
}

// firstOrderMonths maps each named customer to the calendar month of their
// earliest order. Rows must already be in chronological order.
func firstOrderMonths(orders []order) map[string]time.Time {
	first := make(map[string]time.Time)
	for _, o := range orders {
		if o.customer == "" || !o.hasTime {
			continue
		}
		if _, seen := first[o.customer]; !seen {
			first[o.customer] = monthStart(o.when)
		}
	}
	return first
}
