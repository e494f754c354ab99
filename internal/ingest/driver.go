package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"ordersight/internal/adapters"
	apperrors "ordersight/internal/errors"
	"ordersight/internal/infrastructure"
	"ordersight/pkg/contracts/domain"
)

// Driver runs the full ingestion pipeline: tokenize, detect once, then
// normalize every row through the detected adapter.
type Driver struct {
	registry *adapters.Registry
	logger   *slog.Logger
}

// NewDriver creates an ingestion driver over the given adapter registry.
func NewDriver(registry *adapters.Registry, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{registry: registry, logger: logger}
}

// rowSource yields one tokenized row per call and io.EOF when exhausted.
// Having CSV and XLSX behind the same seam keeps the detect-then-stream
// logic in one place and preserves the abort-before-reading-data property.
type rowSource interface {
	Next() ([]string, error)
}

type csvSource struct{ r *csv.Reader }

func (s *csvSource) Next() ([]string, error) { return s.r.Read() }

type sliceSource struct {
	rows [][]string
	pos  int
}

func (s *sliceSource) Next() ([]string, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

// ParseCSV ingests a raw CSV payload (UTF-8, comma-delimited, double-quote
// escaped, first row = headers). It always returns a result; detection
// failure and unreadable input are reported inside it, never as a Go error.
func (d *Driver) ParseCSV(ctx context.Context, payload []byte) *domain.IngestResult {
	payload = bytes.TrimPrefix(payload, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(payload))
	// Field-count enforcement is the driver's job: it depends on the
	// detected adapter's strictness, which the tokenizer can't know.
	r.FieldsPerRecord = -1
	return d.ingest(ctx, &csvSource{r: r})
}

// ParseXLSX ingests an Excel workbook payload, reading the first sheet with
// the same detect-then-normalize path as CSV.
func (d *Driver) ParseXLSX(ctx context.Context, payload []byte) *domain.IngestResult {
	res := newResult()
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		res.Errors = append(res.Errors, domain.StructuralError{
			Kind:    domain.ErrKindEmptyInput,
			Message: fmt.Sprintf("workbook unreadable: %v", err),
		})
		return res
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		res.Errors = append(res.Errors, domain.StructuralError{
			Kind:    domain.ErrKindEmptyInput,
			Message: "workbook has no sheets",
		})
		return res
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		res.Errors = append(res.Errors, domain.StructuralError{
			Kind:    domain.ErrKindEmptyInput,
			Message: fmt.Sprintf("sheet %q unreadable: %v", sheets[0], err),
		})
		return res
	}
	return d.ingest(ctx, &sliceSource{rows: rows})
}

// ParseFile ingests a file by extension: .xlsx/.xlsm as a workbook,
// everything else as CSV text.
func (d *Driver) ParseFile(ctx context.Context, path string) (*domain.IngestResult, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read %s", path), err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return d.ParseXLSX(ctx, payload), nil
	default:
		return d.ParseCSV(ctx, payload), nil
	}
}

func newResult() *domain.IngestResult {
	return &domain.IngestResult{
		RunID:    uuid.New().String(),
		Platform: domain.PlatformUnknown,
		Data:     []domain.OrderLine{},
		Errors:   []domain.StructuralError{},
	}
}

func (d *Driver) ingest(ctx context.Context, src rowSource) *domain.IngestResult {
	res := newResult()
	log := d.logger.With(slog.String("run_id", res.RunID))

	headers, err := src.Next()
	if err != nil || isEmptyRow(headers) {
		res.Errors = append(res.Errors, domain.StructuralError{
			Kind:    domain.ErrKindEmptyInput,
			Message: "input is empty or unreadable",
		})
		log.WarnContext(ctx, "ingestion aborted on empty input")
		infrastructure.ObserveIngest(res.Platform, 0, len(res.Errors))
		return res
	}
	res.Headers = headers

	adapter, ok := d.registry.Detect(headers)
	if !ok {
		// Abort before reading a single data row; guessing a mapping would
		// silently corrupt monetary figures downstream.
		detErr := apperrors.NewDetectionError(headers)
		res.Errors = append(res.Errors, domain.StructuralError{
			Kind:    domain.ErrKindUnknownPlatform,
			Row:     1,
			Message: detErr.Error(),
		})
		log.ErrorContext(ctx, "platform detection failed",
			slog.Any("headers", headers),
			slog.Any("known_platforms", d.registry.Platforms()))
		infrastructure.ObserveIngest(res.Platform, 0, len(res.Errors))
		return res
	}
	res.Platform = adapter.Platform
	log.InfoContext(ctx, "platform detected",
		slog.String("platform", adapter.Platform),
		slog.Int("header_count", len(headers)))

	rowNum := 1
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			res.Errors = append(res.Errors, domain.StructuralError{
				Kind:    domain.ErrKindMalformedRow,
				Row:     rowNum,
				Message: err.Error(),
			})
			continue
		}
		if isEmptyRow(rec) {
			continue
		}

		if len(rec) > len(headers) {
			if adapter.Tolerant {
				// This platform's exports legitimately vary column counts
				// row to row; tolerate and move on.
				log.WarnContext(ctx, "row has more fields than headers, tolerated",
					slog.Int("row", rowNum),
					slog.Int("fields", len(rec)),
					slog.Int("headers", len(headers)))
			} else {
				res.Errors = append(res.Errors, domain.StructuralError{
					Kind:    domain.ErrKindTooManyFields,
					Row:     rowNum,
					Message: fmt.Sprintf("row has %d fields, header row has %d", len(rec), len(headers)),
				})
			}
		} else if len(rec) < len(headers) && !adapter.Tolerant {
			res.Errors = append(res.Errors, domain.StructuralError{
				Kind:    domain.ErrKindTooFewFields,
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d fields, header row has %d", len(rec), len(headers)),
			})
		}

		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		res.Data = append(res.Data, NormalizeRow(adapter, row)...)
	}

	infrastructure.ObserveIngest(res.Platform, len(res.Data), len(res.Errors))
	log.InfoContext(ctx, "ingestion complete",
		slog.String("platform", res.Platform),
		slog.Int("line_items", len(res.Data)),
		slog.Int("structural_errors", len(res.Errors)))
	return res
}

// isEmptyRow reports whether every field of a row is blank.
func isEmptyRow(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
