package analytics

import (
	"fmt"
	"math"
	"time"

	"ordersight/pkg/contracts/domain"
)

// PeriodKpis are the raw KPI values for one already-filtered window.
type PeriodKpis struct {
	TotalRevenue         float64
	AverageOrderValue    float64
	TotalOrders          float64
	AverageItemsPerOrder float64
	RepeatCustomerRate   float64
	PromoCodeUsageRate   float64
}

// CalculateKpisForPeriod computes the KPI values over the given rows.
// Line items are collapsed to distinct orders first, so an order expanded
// into several product lines contributes its total and unit count exactly
// once; on order-per-row exports this matches a plain row count.
// An empty input yields all zeros.
func CalculateKpisForPeriod(rows []domain.OrderLine) PeriodKpis {
	if len(rows) == 0 {
		return PeriodKpis{}
	}

	orders := collapseOrders(rows)
	orderCount := len(orders)
	if orderCount == 0 {
		return PeriodKpis{}
	}

	var revenue float64
	var itemsSold int
	var promoOrders int
	customerOrders := make(map[string]int)
	for _, o := range orders {
		revenue += o.total
		itemsSold += o.items
		if o.promo {
			promoOrders++
		}
		if o.customer != "" {
			customerOrders[o.customer]++
		}
	}

	repeatCustomers := 0
	for _, n := range customerOrders {
		if n > 1 {
			repeatCustomers++
		}
	}

	k := PeriodKpis{
		TotalRevenue:         revenue,
		TotalOrders:          float64(orderCount),
		AverageOrderValue:    revenue / float64(orderCount),
		AverageItemsPerOrder: float64(itemsSold) / float64(orderCount),
		PromoCodeUsageRate:   float64(promoOrders) / float64(orderCount) * 100,
	}
	if len(customerOrders) > 0 {
		k.RepeatCustomerRate = float64(repeatCustomers) / float64(len(customerOrders)) * 100
	}
	return k
}

// kpiWindow configures one comparison entry of the report.
type kpiWindow struct {
	days  int
	label string
}

// CalculateAllKpis computes every configured KPI for its trailing windows,
// anchored at now, each compared against the immediately preceding window
// of equal length. A previous window with zero rows produces an explicit
// "No previous period" marker instead of a change percentage; a zero
// previous value with a positive current one reports a flat +100%.
func CalculateAllKpis(rows []domain.OrderLine, now time.Time) domain.KpiReport {
	month := kpiWindow{30, "Last 30 Days"}
	quarter := kpiWindow{90, "Last 90 Days"}
	year := kpiWindow{365, "Last 365 Days"}

	return domain.KpiReport{
		TotalRevenue: []domain.Kpi{
			compareWindow(rows, now, month, func(k PeriodKpis) float64 { return k.TotalRevenue }),
			compareWindow(rows, now, year, func(k PeriodKpis) float64 { return k.TotalRevenue }),
		},
		AverageOrderValue: []domain.Kpi{
			compareWindow(rows, now, month, func(k PeriodKpis) float64 { return k.AverageOrderValue }),
		},
		TotalOrders: []domain.Kpi{
			compareWindow(rows, now, month, func(k PeriodKpis) float64 { return k.TotalOrders }),
		},
		AverageItemsPerOrder: []domain.Kpi{
			compareWindow(rows, now, month, func(k PeriodKpis) float64 { return k.AverageItemsPerOrder }),
		},
		RepeatCustomerRate: []domain.Kpi{
			compareWindow(rows, now, quarter, func(k PeriodKpis) float64 { return k.RepeatCustomerRate }),
		},
		PromoCodeUsageRate: []domain.Kpi{
			compareWindow(rows, now, month, func(k PeriodKpis) float64 { return k.PromoCodeUsageRate }),
		},
	}
}

// compareWindow computes one KPI for the trailing window ending at now and
// its percent change versus the preceding window. Every KPI in the current
// design is higher-is-better.
func compareWindow(rows []domain.OrderLine, now time.Time, w kpiWindow, pick func(PeriodKpis) float64) domain.Kpi {
	end := endOfDay(now)
	start := startOfDay(now.AddDate(0, 0, -(w.days - 1)))
	current := pick(CalculateKpisForPeriod(filterRows(rows, start, end)))

	prevEnd := endOfDay(start.AddDate(0, 0, -1))
	prevStart := startOfDay(prevEnd.AddDate(0, 0, -(w.days - 1)))
	prevRows := filterRows(rows, prevStart, prevEnd)

	if len(prevRows) == 0 {
		// Never divide by a non-existent baseline.
		return domain.Kpi{
			Value:            current,
			Period:           w.label,
			ComparisonPeriod: "No previous period",
		}
	}

	previous := pick(CalculateKpisForPeriod(prevRows))
	var change float64
	var isGood bool
	switch {
	case previous != 0:
		change = round2((current - previous) / previous * 100)
		isGood = change >= 0
	case current > 0:
		change = 100
		isGood = true
	default:
		change = 0
		isGood = true
	}

	return domain.Kpi{
		Value:            current,
		Period:           w.label,
		Change:           &change,
		IsGood:           &isGood,
		ComparisonPeriod: fmt.Sprintf("vs. previous %d days", w.days),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
