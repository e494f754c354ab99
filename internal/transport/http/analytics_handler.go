package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ordersight/internal/analytics"
	"ordersight/pkg/contracts/domain"

	apierrors "ordersight/internal/errors"
	"ordersight/internal/services"
)

// AnalyticsHandler serves the computed views over the current dataset.
// All endpoints return 404 NO_DATASET until an upload succeeds.
type AnalyticsHandler struct {
	service *services.DashboardService
	logger  *slog.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service *services.DashboardService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With(slog.String("component", "analytics_handler")),
	}
}

// Routes returns the analytics routes
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/dashboard", h.GetDashboard)
	r.Get("/kpis", h.GetKpis)
	r.Get("/sales-over-time", h.GetSalesOverTime)
	r.Get("/customer-types", h.GetCustomerTypes)
	r.Get("/cohorts", h.GetCohorts)
	r.Get("/anomalies", h.GetAnomalies)
	r.Get("/insights", h.GetInsights)
	r.Get("/top-products", h.GetTopProducts)
	r.Get("/order-status", h.GetOrderStatus)
	r.Get("/hour-of-day", h.GetHourOfDay)
	r.Get("/day-of-week", h.GetDayOfWeek)

	return r
}

// dataset returns the current rows, or writes NO_DATASET and reports false.
func (h *AnalyticsHandler) dataset(w http.ResponseWriter, r *http.Request) ([]domain.OrderLine, bool) {
	result, ok := h.service.Dataset()
	if !ok {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrNoDataset))
		return nil, false
	}
	return result.Data, true
}

// anchor picks the reference "now" for trailing windows: the latest
// order date in the dataset, so historical exports stay meaningful.
func anchor(rows []domain.OrderLine) time.Time {
	if latest, ok := analytics.LatestOrderTime(rows); ok {
		return latest
	}
	return time.Now().UTC()
}

// GetDashboard handles GET /api/analytics/dashboard
func (h *AnalyticsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.dataset(w, r)
	if !ok {
		return
	}

	dashboard, err := h.service.BuildDashboard(r.Context(), rows, anchor(rows))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "dashboard build failed", slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrInternalServer))
		return
	}

	render.JSON(w, r, dashboard)
}

// GetKpis handles GET /api/analytics/kpis
func (h *AnalyticsHandler) GetKpis(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.dataset(w, r)
	if !ok {
		return
	}

	render.JSON(w, r, analytics.CalculateAllKpis(rows, anchor(rows)))
}

// GetSalesOverTime handles GET /api/analytics/sales-over-time?days=N&grain=day|week|month
func (h *AnalyticsHandler) GetSalesOverTime(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.dataset(w, r)
	if !ok {
		return
	}

	days, grain, apiErr := seriesParams(r)
	if apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}

	render.JSON(w, r, analytics.PrepareSalesOverTime(rows, days, grain))
}

// GetCustomerTypes handles GET /api/analytics/customer-types?days=N&grain=day|week|month
func (h *AnalyticsHandler) GetCustomerTypes(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.dataset(w, r)
	if !ok {
		return
	}

	days, grain, apiErr := seriesParams(r)
	if apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}

	render.JSON(w, r, analytics.PrepareCustomerTypeData(rows, days, grain))
}

// GetCohorts handles GET /api/analytics/cohorts
func (h *AnalyticsHandler) GetCohorts(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.dataset(w, r)
	if !ok {
		return
	}

	render.JSON(w, r, analytics.PrepareCohortRetention(rows))
}

// GetAnomalies handles GET /api/analytics/anomalies?window=N&k=F
func (h *AnalyticsHandler) GetAnomalies(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.dataset(w, r)
	if !ok {
		return
	}

	window := 0
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			render.Render(w, r, apierrors.NewErrorResponse(
				apierrors.ErrValidation("window", "window must be a positive integer")))
			return
		}
		window = parsed
	}

	k := 0.0
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			render.Render(w, r, apierrors.NewErrorResponse(
				apierrors.ErrValidation("k", "k must be a positive number")))
			return
		}
		k = parsed
	}

	anomalies := analytics.DetectSalesAnomalies(rows, window, k)
	render.JSON(w, r, map[string]interface{}{
		"anomalies": anomalies,
		"count":     len(anomalies),
	})
}

// GetInsights handles GET /api/analytics/insights
func (h *AnalyticsHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.dataset(w, r)
	if !ok {
		return
	}

	insights := analytics.GenerateProductPerformanceInsights(rows, anchor(rows))
	render.JSON(w, r, map[string]interface{}{
		"insights": insights,
		"count":    len(insights),
	})
}

// GetTopProducts handles GET /api/analytics/top-products
func (h *AnalyticsHandler) GetTopProducts(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.dataset(w, r)
	if !ok {
		return
	}

	render.JSON(w, r, analytics.TopProducts(rows))
}

// GetOrderStatus handles GET /api/analytics/order-status
func (h *AnalyticsHandler) GetOrderStatus(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.dataset(w, r)
	if !ok {
		return
	}

	render.JSON(w, r, analytics.OrderStatusDistribution(rows))
}

// GetHourOfDay handles GET /api/analytics/hour-of-day
func (h *AnalyticsHandler) GetHourOfDay(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.dataset(w, r)
	if !ok {
		return
	}

	render.JSON(w, r, analytics.HourOfDayRevenue(rows))
}

// GetDayOfWeek handles GET /api/analytics/day-of-week
func (h *AnalyticsHandler) GetDayOfWeek(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.dataset(w, r)
	if !ok {
		return
	}

	render.JSON(w, r, analytics.DayOfWeekRevenue(rows))
}

// seriesParams parses the shared days/grain query parameters.
// days defaults to 0 (full span), grain to day.
func seriesParams(r *http.Request) (int, analytics.Grain, *apierrors.APIError) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return 0, "", apierrors.ErrValidation("days", "days must be a positive integer")
		}
		days = parsed
	}

	grain := analytics.GrainDay
	if raw := r.URL.Query().Get("grain"); raw != "" {
		switch analytics.Grain(raw) {
		case analytics.GrainDay, analytics.GrainWeek, analytics.GrainMonth:
			grain = analytics.Grain(raw)
		default:
			return 0, "", apierrors.ErrValidation("grain", "grain must be one of day, week, month")
		}
	}

	return days, grain, nil
}
