package domain

// Kpi represents a single key performance indicator computed for a trailing
// window, optionally compared against the immediately preceding window of
// equal length.
type Kpi struct {
	Value  float64 `json:"value"`
	Period string  `json:"period"` // human label, e.g. "Last 30 Days"
	// Change is the percent change versus the previous window. Nil when the
	// previous window had no data at all.
	Change *float64 `json:"change,omitempty"`
	// IsGood is true when the change's sign matches the metric's
	// higher-is-better polarity. Nil when Change is nil.
	IsGood           *bool  `json:"is_good,omitempty"`
	ComparisonPeriod string `json:"comparison_period,omitempty"` // e.g. "vs. previous 30 days", or "No previous period"
}

// KpiReport groups every configured KPI with its comparison windows.
type KpiReport struct {
	TotalRevenue         []Kpi `json:"total_revenue"`
	AverageOrderValue    []Kpi `json:"average_order_value"`
	TotalOrders          []Kpi `json:"total_orders"`
	AverageItemsPerOrder []Kpi `json:"average_items_per_order"`
	RepeatCustomerRate   []Kpi `json:"repeat_customer_rate"`
	PromoCodeUsageRate   []Kpi `json:"promo_code_usage_rate"`
}

// TimeSeries is a dense, gap-filled chart series. Labels and Values always
// have equal length; buckets with no activity carry a zero value rather than
// being omitted. MovingAverage, when present, matches Values in length with
// nil entries for positions before the averaging window has filled.
type TimeSeries struct {
	Labels        []string   `json:"labels"`
	Values        []float64  `json:"values"`
	MovingAverage []*float64 `json:"moving_average,omitempty"`
}

// CustomerTypeSeries splits per-bucket revenue into sales from first-time
// customers versus returning customers, over the same dense label axis as
// TimeSeries.
type CustomerTypeSeries struct {
	Labels                 []string  `json:"labels"`
	NewCustomerSales       []float64 `json:"new_customer_sales"`
	ReturningCustomerSales []float64 `json:"returning_customer_sales"`
}

// CohortRetention is a month-grained retention grid. Retention maps a cohort
// label (the cohort's first-purchase month) to one percentage per entry of
// Months; entries for months preceding the cohort's start are nil to
// distinguish "cohort didn't exist yet" from "0% retained".
type CohortRetention struct {
	Cohorts   []string              `json:"cohorts"`
	Months    []string              `json:"months"`
	Retention map[string][]*float64 `json:"retention"`
}

// AnomalyKind classifies a flagged day.
type AnomalyKind string

const (
	AnomalySpike AnomalyKind = "spike"
	AnomalyDrop  AnomalyKind = "drop"
)

// Anomaly flags one day whose revenue deviated from the surrounding window.
type Anomaly struct {
	Date    string      `json:"date"` // YYYY-MM-DD
	Value   float64     `json:"value"`
	Kind    AnomalyKind `json:"kind"`
	Message string      `json:"message"`
}

// InsightPolarity indicates whether a product insight is good, bad or
// neutral news.
type InsightPolarity string

const (
	InsightPositive InsightPolarity = "positive"
	InsightNegative InsightPolarity = "negative"
	InsightNeutral  InsightPolarity = "neutral"
)

// ProductInsight is a free-text trend observation about one product's unit
// sales in the current window versus the preceding one.
type ProductInsight struct {
	Product  string          `json:"product"`
	Insight  string          `json:"insight"`
	Polarity InsightPolarity `json:"polarity"`
}

// CategoryBreakdown is a labelled categorical aggregation (top products,
// status distribution, hour-of-day and day-of-week sums).
type CategoryBreakdown struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Dashboard bundles every analytics output computed over one dataset.
type Dashboard struct {
	Kpis            KpiReport          `json:"kpis"`
	SalesOverTime   TimeSeries         `json:"sales_over_time"`
	CustomerTypes   CustomerTypeSeries `json:"customer_types"`
	CohortRetention CohortRetention    `json:"cohort_retention"`
	Anomalies       []Anomaly          `json:"anomalies"`
	ProductInsights []ProductInsight   `json:"product_insights"`
	TopProducts     CategoryBreakdown  `json:"top_products"`
	OrderStatus     CategoryBreakdown  `json:"order_status"`
	HourOfDay       CategoryBreakdown  `json:"hour_of_day"`
	DayOfWeek       CategoryBreakdown  `json:"day_of_week"`
}
