package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordersight/internal/adapters"
	"ordersight/internal/analytics"
	"ordersight/internal/ingest"
	"ordersight/internal/sample"
	"ordersight/pkg/contracts/domain"
)

func TestDashboardServiceDatasetLifecycle(t *testing.T) {
	s := NewDashboardService(nil)

	_, ok := s.Dataset()
	assert.False(t, ok)

	res := &domain.IngestResult{RunID: "run-1", Platform: "WooCommerce"}
	s.SetDataset(res)

	got, ok := s.Dataset()
	require.True(t, ok)
	assert.Equal(t, "run-1", got.RunID)

	s.ClearDataset()
	_, ok = s.Dataset()
	assert.False(t, ok)
}

func TestBuildDashboard(t *testing.T) {
	driver := ingest.NewDriver(adapters.DefaultRegistry(), nil)
	res := driver.ParseCSV(context.Background(), sample.WooCommerceCSV())
	require.Equal(t, "WooCommerce", res.Platform)
	require.NotEmpty(t, res.Data)

	now := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	s := NewDashboardService(nil)
	dash, err := s.BuildDashboard(context.Background(), res.Data, now)
	require.NoError(t, err)
	require.NotNil(t, dash)

	assert.NotEmpty(t, dash.Kpis.TotalRevenue)
	assert.Positive(t, dash.Kpis.TotalRevenue[1].Value, "the demo dataset has revenue inside 365 days")

	assert.NotEmpty(t, dash.SalesOverTime.Labels)
	assert.Len(t, dash.SalesOverTime.Values, len(dash.SalesOverTime.Labels))
	assert.Len(t, dash.SalesOverTime.MovingAverage, len(dash.SalesOverTime.Labels))

	assert.NotEmpty(t, dash.CustomerTypes.Labels)
	assert.NotEmpty(t, dash.CohortRetention.Cohorts)
	assert.NotEmpty(t, dash.CohortRetention.Months)
	assert.NotNil(t, dash.Anomalies)

	assert.NotEmpty(t, dash.TopProducts.Labels)
	assert.Len(t, dash.HourOfDay.Labels, 24)
	assert.Len(t, dash.DayOfWeek.Labels, 7)
}

func TestBuildDashboardEmptyRows(t *testing.T) {
	s := NewDashboardService(nil)

	dash, err := s.BuildDashboard(context.Background(), nil, time.Now().UTC())
	require.NoError(t, err)
	require.NotNil(t, dash)

	assert.Empty(t, dash.SalesOverTime.Labels)
	assert.Empty(t, dash.CohortRetention.Cohorts)
	assert.Empty(t, dash.Anomalies)
	assert.Empty(t, dash.ProductInsights)
	assert.Len(t, dash.HourOfDay.Labels, 24)
}

func TestSetDatasetSortsRows(t *testing.T) {
	s := NewDashboardService(nil)
	s.SetDataset(&domain.IngestResult{Data: []domain.OrderLine{
		{OrderID: "#3", OrderDate: "2024-03-01T00:00:00Z", CustomerName: "Cara", OrderTotal: 30, ItemsSold: 1, ProductName: "Mug"},
		{OrderID: "#1", OrderDate: "2024-01-01T00:00:00Z", CustomerName: "Alice", OrderTotal: 10, ItemsSold: 1, ProductName: "Mug"},
		{OrderID: "#2", OrderDate: "2024-02-01T00:00:00Z", CustomerName: "Bob", OrderTotal: 20, ItemsSold: 1, ProductName: "Mug"},
	}})

	got, ok := s.Dataset()
	require.True(t, ok)
	require.Len(t, got.Data, 3)
	assert.Equal(t, []string{"#1", "#2", "#3"}, []string{got.Data[0].OrderID, got.Data[1].OrderID, got.Data[2].OrderID})
}

// Concurrent analytics requests all read the one dataset the service holds.
// Storing it unsorted would let the first reads race on the in-place sort,
// so this runs a handful of readers in parallel under the race detector and
// checks they agree with a serial baseline.
func TestConcurrentAnalyticsOverSharedDataset(t *testing.T) {
	driver := ingest.NewDriver(adapters.DefaultRegistry(), nil)
	res := driver.ParseCSV(context.Background(), sample.WooCommerceCSV())
	require.Equal(t, "WooCommerce", res.Platform)

	// Reverse the rows so the stored slice arrives maximally unsorted.
	for i, j := 0, len(res.Data)-1; i < j; i, j = i+1, j-1 {
		res.Data[i], res.Data[j] = res.Data[j], res.Data[i]
	}

	s := NewDashboardService(nil)
	s.SetDataset(res)

	shared, ok := s.Dataset()
	require.True(t, ok)

	baseline := analytics.PrepareCohortRetention(shared.Data)
	now := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, ok := s.Dataset()
			if !assert.True(t, ok) {
				return
			}
			cohorts := analytics.PrepareCohortRetention(rows.Data)
			assert.Equal(t, baseline, cohorts)
			_, err := s.BuildDashboard(context.Background(), rows.Data, now)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
