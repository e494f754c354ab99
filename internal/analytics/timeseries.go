package analytics

import (
	"time"

	"ordersight/pkg/contracts/domain"
)

// Grain is the time-bucketing resolution of a series.
type Grain string

const (
	GrainDay   Grain = "day"
	GrainWeek  Grain = "week" // ISO weeks, Monday start
	GrainMonth Grain = "month"
)

// Moving-average windows per grain. Month series are short, so they use a
// tighter window.
const (
	movingAvgWindowDayWeek = 7
	movingAvgWindowMonth   = 3
)

// PrepareSalesOverTime buckets order revenue by calendar day and re-buckets
// into weeks or months for coarser grains. The label axis is dense over the
// whole span (the trailing days count when given, otherwise the full
// min-to-max range of the data), with zero-activity buckets present as 0 so
// charts render contiguous axes. A trailing moving average accompanies the
// values, with nils before the window has filled.
func PrepareSalesOverTime(rows []domain.OrderLine, days int, grain Grain) domain.TimeSeries {
	empty := domain.TimeSeries{Labels: []string{}, Values: []float64{}}
	if len(rows) == 0 {
		return empty
	}

	salesByDay := make(map[string]float64)
	for _, o := range collapseOrders(rows) {
		if !o.hasTime {
			continue
		}
		salesByDay[o.when.Format(dayKeyLayout)] += o.total
	}
	if len(salesByDay) == 0 {
		return empty
	}

	start, end, ok := seriesSpan(rows, days)
	if !ok {
		return empty
	}

	labels, values := bucketize(salesByDay, start, end, grain)
	window := movingAvgWindowDayWeek
	if grain == GrainMonth {
		window = movingAvgWindowMonth
	}
	return domain.TimeSeries{
		Labels:        labels,
		Values:        values,
		MovingAverage: movingAverage(values, window),
	}
}

// seriesSpan resolves the dense day span of a series: the trailing days
// window anchored at the latest order date, or the full extent of the data.
func seriesSpan(rows []domain.OrderLine, days int) (time.Time, time.Time, bool) {
	latest, ok := LatestOrderTime(rows)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end := startOfDay(latest)
	if days > 0 {
		return end.AddDate(0, 0, -(days - 1)), end, true
	}
	earliest := end
	for _, row := range rows {
		if t, ok := row.OrderTime(); ok {
			if d := startOfDay(t); d.Before(earliest) {
				earliest = d
			}
		}
	}
	return earliest, end, true
}

// bucketize builds the dense label axis over [start, end] at the requested
// grain and sums the per-day map into it.
func bucketize(salesByDay map[string]float64, start, end time.Time, grain Grain) ([]string, []float64) {
	keyOf := func(t time.Time) string { return t.Format(dayKeyLayout) }
	nextOf := func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	alignOf := func(t time.Time) time.Time { return startOfDay(t) }
	switch grain {
	case GrainWeek:
		nextOf = func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }
		alignOf = weekStart
	case GrainMonth:
		keyOf = func(t time.Time) string { return t.Format(monthKeyLayout) }
		nextOf = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
		alignOf = monthStart
	}

	sums := make(map[string]float64, len(salesByDay))
	for day, v := range salesByDay {
		t, err := time.Parse(dayKeyLayout, day)
		if err != nil {
			continue
		}
		sums[keyOf(alignOf(t))] += v
	}

	var labels []string
	var values []float64
	last := keyOf(alignOf(end))
	for t := alignOf(start); ; t = nextOf(t) {
		key := keyOf(t)
		labels = append(labels, key)
		values = append(values, sums[key])
		if key == last {
			break
		}
	}
	return labels, values
}

// movingAverage computes a trailing simple moving average. Positions before
// the window fills are nil, not partial averages.
func movingAverage(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 {
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			avg := sum / float64(window)
			out[i] = &avg
		}
	}
	return out
}
