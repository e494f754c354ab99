// Package analytics computes time-bucketed business metrics over the
// canonical line-item dataset: KPI aggregation with period-over-period
// comparisons, multi-grain time series, cohort retention, statistical
// anomaly detection and product trend insights.
//
// Every function treats an empty or nil dataset as valid input and returns
// its zero-valued or empty structure, never an error. Functions that need
// chronological order sort the caller-supplied slice in place; the sort is
// idempotent (already-sorted input is left untouched) and is the only side
// effect in the package.
package analytics

import (
	"sort"
	"time"

	"ordersight/pkg/contracts/domain"
)

const (
	dayKeyLayout   = "2006-01-02"
	monthKeyLayout = "2006-01"
)

// SortChronological orders rows by order date, oldest first. Normalized
// dates are fixed-width RFC3339 UTC, so the string comparison is the
// chronological one; rows with empty (unparsable) dates sort first. Sorting
// an already-sorted slice is a no-op.
func SortChronological(rows []domain.OrderLine) {
	less := func(i, j int) bool { return rows[i].OrderDate < rows[j].OrderDate }
	if sort.SliceIsSorted(rows, less) {
		return
	}
	sort.SliceStable(rows, less)
}

// order is one distinct source order, collapsed from its line items. All
// order-level metrics (revenue, counts, retention, status) work over these
// so that multi-line orders are never double counted.
type order struct {
	id       string
	when     time.Time
	hasTime  bool
	total    float64
	items    int
	customer string
	promo    bool
	status   string
}

// collapseOrders folds line items into distinct orders, first line wins for
// the shared fields. Lines without an order ID each count as their own
// order. Insertion order of the result follows first appearance.
func collapseOrders(rows []domain.OrderLine) []order {
	orders := make([]order, 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, row := range rows {
		if row.OrderID != "" {
			if _, seen := index[row.OrderID]; seen {
				continue
			}
			index[row.OrderID] = len(orders)
		}
		when, ok := row.OrderTime()
		orders = append(orders, order{
			id:       row.OrderID,
			when:     when,
			hasTime:  ok,
			total:    row.OrderTotal,
			items:    row.ItemsSold,
			customer: row.CustomerName,
			promo:    row.HasPromo(),
			status:   row.OrderStatus,
		})
	}
	return orders
}

// filterRows keeps rows whose order date falls within [start, end].
// Rows with unparsable dates are excluded from windowed computations.
func filterRows(rows []domain.OrderLine, start, end time.Time) []domain.OrderLine {
	out := make([]domain.OrderLine, 0, len(rows))
	for _, row := range rows {
		t, ok := row.OrderTime()
		if !ok {
			continue
		}
		if !t.Before(start) && !t.After(end) {
			out = append(out, row)
		}
	}
	return out
}

// LatestOrderTime returns the most recent parsable order date.
func LatestOrderTime(rows []domain.OrderLine) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, row := range rows {
		if t, ok := row.OrderTime(); ok && (!found || t.After(latest)) {
			latest = t
			found = true
		}
	}
	return latest, found
}

// startOfDay truncates to 00:00:00 UTC of t's calendar day.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// endOfDay is the last instant of t's calendar day.
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

// weekStart returns the Monday beginning t's ISO week.
func weekStart(t time.Time) time.Time {
	t = startOfDay(t)
	offset := int(t.Weekday())
	if offset == 0 {
		offset = 7 // Sunday belongs to the preceding Monday's week
	}
	return t.AddDate(0, 0, -(offset - 1))
}

// monthStart returns the first day of t's calendar month.
func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
