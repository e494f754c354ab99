package analytics

import (
	"sort"
	"time"

	"ordersight/pkg/contracts/domain"
)

// PrepareCohortRetention assigns each named customer to a cohort keyed by
// the calendar month of their earliest order, then computes, for every month
// from the dataset's first to its last, the percentage of each cohort's
// customers who ordered in that month. Entries for months before a cohort
// existed are nil, never zero: "didn't exist yet" and "0% retained" must
// stay distinguishable.
//
// Rows are sorted chronologically in place (idempotent) so "earliest" is
// computed correctly.
func PrepareCohortRetention(rows []domain.OrderLine) domain.CohortRetention {
	out := domain.CohortRetention{
		Cohorts:   []string{},
		Months:    []string{},
		Retention: map[string][]*float64{},
	}
	if len(rows) == 0 {
		return out
	}

	SortChronological(rows)
	orders := collapseOrders(rows)

	cohortOf := firstOrderMonths(orders)
	if len(cohortOf) == 0 {
		return out
	}

	// Customer activity per calendar month.
	active := make(map[string]map[string]bool)
	var minMonth, maxMonth time.Time
	for _, o := range orders {
		if o.customer == "" || !o.hasTime {
			continue
		}
		m := monthStart(o.when)
		key := m.Format(monthKeyLayout)
		if active[key] == nil {
			active[key] = make(map[string]bool)
		}
		active[key][o.customer] = true
		if minMonth.IsZero() || m.Before(minMonth) {
			minMonth = m
		}
		if m.After(maxMonth) {
			maxMonth = m
		}
	}

	for m := minMonth; !m.After(maxMonth); m = m.AddDate(0, 1, 0) {
		out.Months = append(out.Months, m.Format(monthKeyLayout))
	}

	members := make(map[string][]string)
	for customer, month := range cohortOf {
		key := month.Format(monthKeyLayout)
		members[key] = append(members[key], customer)
	}
	for cohort := range members {
		out.Cohorts = append(out.Cohorts, cohort)
	}
	sort.Strings(out.Cohorts)

	for _, cohort := range out.Cohorts {
		size := len(members[cohort])
		series := make([]*float64, len(out.Months))
		for i, month := range out.Months {
			if month < cohort {
				continue // cohort didn't exist yet: stays nil
			}
			retained := 0
			for _, customer := range members[cohort] {
				if active[month][customer] {
					retained++
				}
			}
			pct := float64(retained) / float64(size) * 100
			series[i] = &pct
		}
		out.Retention[cohort] = series
	}
	return out
}
