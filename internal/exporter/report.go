package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ordersight/internal/errors"
	"ordersight/pkg/contracts/domain"
)

var orderLineHeaders = []string{
	"OrderID", "OrderDate", "CustomerName", "OrderTotal",
	"ProductName", "ProductQuantity", "LineItemPrice",
	"ItemsSold", "PromoCodes", "OrderStatus",
}

// WriteOrderLines writes the canonical dataset to a CSV file using the
// standard column layout.
func WriteOrderLines(path string, lines []domain.OrderLine) error {
	records := make([][]string, 0, len(lines))
	for _, l := range lines {
		records = append(records, []string{
			l.OrderID,
			l.OrderDate,
			l.CustomerName,
			fmt.Sprintf("%.2f", l.OrderTotal),
			l.ProductName,
			fmt.Sprintf("%d", l.ProductQuantity),
			fmt.Sprintf("%.2f", l.LineItemPrice),
			fmt.Sprintf("%d", l.ItemsSold),
			l.PromoCodes,
			l.OrderStatus,
		})
	}
	return WriteSimpleCSV(path, orderLineHeaders, records)
}

// WriteKpiReport writes the KPI comparison table to a CSV file, one row per
// KPI window.
func WriteKpiReport(path string, report domain.KpiReport) error {
	headers := []string{"Kpi", "Period", "Value", "Change", "IsGood", "ComparisonPeriod"}
	var records [][]string
	appendKpis := func(name string, kpis []domain.Kpi) {
		for _, k := range kpis {
			change, isGood := "", ""
			if k.Change != nil {
				change = fmt.Sprintf("%.2f", *k.Change)
			}
			if k.IsGood != nil {
				isGood = fmt.Sprintf("%t", *k.IsGood)
			}
			records = append(records, []string{
				name, k.Period, fmt.Sprintf("%.2f", k.Value), change, isGood, k.ComparisonPeriod,
			})
		}
	}
	appendKpis("TotalRevenue", report.TotalRevenue)
	appendKpis("AverageOrderValue", report.AverageOrderValue)
	appendKpis("TotalOrders", report.TotalOrders)
	appendKpis("AverageItemsPerOrder", report.AverageItemsPerOrder)
	appendKpis("RepeatCustomerRate", report.RepeatCustomerRate)
	appendKpis("PromoCodeUsageRate", report.PromoCodeUsageRate)

	return WriteSimpleCSV(path, headers, records)
}

// WriteDashboardJSON writes the full dashboard payload to a JSON file with
// a small metadata envelope.
func WriteDashboardJSON(path string, platform string, dash *domain.Dashboard) error {
	slog.Info("writing dashboard JSON",
		slog.String("path", path),
		slog.String("platform", platform))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewStorageError("failed to create directory for JSON output", err)
	}

	payload := map[string]interface{}{
		"platform":     platform,
		"dashboard":    dash,
		"generated_at": time.Now().Format(time.RFC3339),
		"format":       "dashboard_v1",
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create JSON file", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return errors.NewStorageError("failed to encode dashboard to JSON", err)
	}
	return nil
}
