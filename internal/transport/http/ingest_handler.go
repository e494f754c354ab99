package http

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ordersight/internal/ingest"
	"ordersight/pkg/contracts/domain"

	apierrors "ordersight/internal/errors"
	"ordersight/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// IngestHandler accepts raw CSV or XLSX exports, normalizes them and
// stores the resulting dataset for the analytics endpoints.
type IngestHandler struct {
	driver    *ingest.Driver
	service   *services.DashboardService
	logger    *slog.Logger
	maxUpload int64
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(driver *ingest.Driver, service *services.DashboardService, logger *slog.Logger, maxUpload int64) *IngestHandler {
	return &IngestHandler{
		driver:    driver,
		service:   service,
		logger:    logger.With(slog.String("component", "ingest_handler")),
		maxUpload: maxUpload,
	}
}

// Routes returns the ingest routes
func (h *IngestHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Upload)
	r.Get("/", h.Status)
	r.Delete("/", h.Clear)

	return r
}

// ingestResponse is the upload result envelope.
type ingestResponse struct {
	RunID    string                  `json:"run_id"`
	Platform string                  `json:"platform"`
	Rows     int                     `json:"rows"`
	Headers  []string                `json:"headers"`
	Errors   []domain.StructuralError `json:"errors"`
}

func (ir *ingestResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// Upload handles POST /api/ingest. The body is the raw export file;
// the format is taken from the Content-Type header or the filename
// query parameter, defaulting to CSV.
func (h *IngestHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body := http.MaxBytesReader(w, r.Body, h.maxUpload)
	payload, err := io.ReadAll(body)
	if err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			h.logger.WarnContext(ctx, "upload rejected: payload too large",
				slog.Int64("limit_bytes", h.maxUpload))
			render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrPayloadTooLarge))
			return
		}
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}
	if len(payload) == 0 {
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.ErrValidation("body", "Upload body must not be empty")))
		return
	}

	var result *domain.IngestResult
	if isSpreadsheet(r) {
		result = h.driver.ParseXLSX(ctx, payload)
	} else {
		result = h.driver.ParseCSV(ctx, payload)
	}

	if result.Platform == domain.PlatformUnknown {
		h.logger.WarnContext(ctx, "upload rejected: no adapter matched",
			slog.Any("headers", result.Headers))
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.UnknownPlatformError(result.Headers)))
		return
	}

	h.service.SetDataset(result)

	h.logger.InfoContext(ctx, "dataset ingested",
		slog.String("run_id", result.RunID),
		slog.String("platform", result.Platform),
		slog.Int("rows", len(result.Data)),
		slog.Int("structural_errors", len(result.Errors)))

	render.Status(r, http.StatusCreated)
	render.Render(w, r, &ingestResponse{
		RunID:    result.RunID,
		Platform: result.Platform,
		Rows:     len(result.Data),
		Headers:  result.Headers,
		Errors:   result.Errors,
	})
}

// Status handles GET /api/ingest and reports the current dataset.
func (h *IngestHandler) Status(w http.ResponseWriter, r *http.Request) {
	result, ok := h.service.Dataset()
	if !ok {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrNoDataset))
		return
	}

	render.Render(w, r, &ingestResponse{
		RunID:    result.RunID,
		Platform: result.Platform,
		Rows:     len(result.Data),
		Headers:  result.Headers,
		Errors:   result.Errors,
	})
}

// Clear handles DELETE /api/ingest and drops the current dataset.
func (h *IngestHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.service.ClearDataset()
	render.NoContent(w, r)
}

// isSpreadsheet reports whether the request carries an XLSX payload,
// judged by Content-Type first and the filename query parameter second.
func isSpreadsheet(r *http.Request) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil && mediaType == xlsxContentType {
			return true
		}
	}
	switch strings.ToLower(filepath.Ext(r.URL.Query().Get("filename"))) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}
