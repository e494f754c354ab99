// Package services assembles ingestion results and analytics outputs for
// the transport layer. It owns the one piece of cross-request state in the
// system: the most recently ingested dataset, held explicitly behind a
// mutex rather than in ambient global state.
package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"ordersight/internal/analytics"
	"ordersight/pkg/contracts/domain"
)

// DashboardService computes the full analytics payload over a dataset and
// keeps the last ingest result for subsequent analytics requests.
type DashboardService struct {
	logger *slog.Logger

	mu      sync.RWMutex
	current *domain.IngestResult
}

// NewDashboardService creates the service.
func NewDashboardService(logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		logger: logger.With(slog.String("component", "dashboard_service")),
	}
}

// SetDataset replaces the held dataset with a fresh ingest result. The rows
// are sorted chronologically here, once, so that concurrent analytics
// requests over the shared slice only ever hit the no-op path of the
// in-package sorts and never write to it.
func (s *DashboardService) SetDataset(res *domain.IngestResult) {
	if res != nil {
		analytics.SortChronological(res.Data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = res
}

// Dataset returns the held dataset, false when nothing has been ingested.
func (s *DashboardService) Dataset() (*domain.IngestResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	return s.current, true
}

// ClearDataset drops the held dataset.
func (s *DashboardService) ClearDataset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// BuildDashboard computes every metric family over the rows, anchored at
// now. Independent families run concurrently; the rows are sorted
// chronologically once up front so the fan-out only ever reads them.
func (s *DashboardService) BuildDashboard(ctx context.Context, rows []domain.OrderLine, now time.Time) (*domain.Dashboard, error) {
	started := time.Now()
	analytics.SortChronological(rows)

	var dash domain.Dashboard
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		dash.Kpis = analytics.CalculateAllKpis(rows, now)
		return nil
	})
	g.Go(func() error {
		dash.SalesOverTime = analytics.PrepareSalesOverTime(rows, 0, analytics.GrainDay)
		return nil
	})
	g.Go(func() error {
		dash.CustomerTypes = analytics.PrepareCustomerTypeData(rows, 0, analytics.GrainDay)
		return nil
	})
	g.Go(func() error {
		dash.CohortRetention = analytics.PrepareCohortRetention(rows)
		return nil
	})
	g.Go(func() error {
		dash.Anomalies = analytics.DetectSalesAnomalies(rows, 0, 0)
		return nil
	})
	g.Go(func() error {
		dash.ProductInsights = analytics.GenerateProductPerformanceInsights(rows, now)
		return nil
	})
	g.Go(func() error {
		dash.TopProducts = analytics.TopProducts(rows)
		dash.OrderStatus = analytics.OrderStatusDistribution(rows)
		dash.HourOfDay = analytics.HourOfDayRevenue(rows)
		dash.DayOfWeek = analytics.DayOfWeekRevenue(rows)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "dashboard computed",
		slog.Int("line_items", len(rows)),
		slog.Duration("elapsed", time.Since(started)))
	return &dash, nil
}
