package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ordersight/internal/adapters"
	"ordersight/internal/analytics"
	"ordersight/internal/config"
	"ordersight/internal/exporter"
	"ordersight/internal/infrastructure"
	"ordersight/internal/ingest"
	"ordersight/internal/sample"
	"ordersight/internal/services"
	"ordersight/pkg/contracts/domain"
)

func main() {
	inPath := flag.String("in", "", "input export file (.csv, .xlsx or .xlsm)")
	outDir := flag.String("out", "reports", "output directory for generated reports")
	format := flag.String("format", "csv", "report format: csv or json")
	demo := flag.Bool("demo", false, "run against the embedded demo dataset")
	configFile := flag.String("config", config.DefaultConfigFile, "path to config file")
	flag.Parse()

	cfg, err := config.LoadFrom(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if *inPath == "" && !*demo {
		fmt.Fprintln(os.Stderr, "usage: analyze -in <export.csv|export.xlsx> [-out dir] [-format csv|json]")
		fmt.Fprintln(os.Stderr, "       analyze -demo")
		os.Exit(2)
	}
	if *format != "csv" && *format != "json" {
		fmt.Fprintf(os.Stderr, "unsupported format %q: want csv or json\n", *format)
		os.Exit(2)
	}

	ctx := context.Background()
	driver := ingest.NewDriver(adapters.DefaultRegistry(), logger)

	var result *domain.IngestResult
	if *demo {
		result = driver.ParseCSV(ctx, sample.WooCommerceCSV())
	} else {
		result, err = driver.ParseFile(ctx, *inPath)
		if err != nil {
			logger.Error("Failed to read input file", "path", *inPath, "error", err)
			os.Exit(1)
		}
	}

	for _, structErr := range result.Errors {
		logger.Warn("structural error in input",
			"kind", structErr.Kind,
			"row", structErr.Row,
			"message", structErr.Message)
	}

	if result.Platform == domain.PlatformUnknown {
		logger.Error("No platform adapter matched the input headers", "headers", result.Headers)
		os.Exit(1)
	}

	logger.Info("dataset normalized",
		"run_id", result.RunID,
		"platform", result.Platform,
		"rows", len(result.Data),
		"structural_errors", len(result.Errors))

	now := time.Now().UTC()
	if latest, ok := analytics.LatestOrderTime(result.Data); ok {
		now = latest
	}

	service := services.NewDashboardService(logger)
	dashboard, err := service.BuildDashboard(ctx, result.Data, now)
	if err != nil {
		logger.Error("Failed to build dashboard", "error", err)
		os.Exit(1)
	}

	switch *format {
	case "json":
		outPath := filepath.Join(*outDir, "dashboard.json")
		if err := exporter.WriteDashboardJSON(outPath, result.Platform, dashboard); err != nil {
			logger.Error("Failed to write dashboard report", "path", outPath, "error", err)
			os.Exit(1)
		}
		logger.Info("report written", "path", outPath)
	case "csv":
		linesPath := filepath.Join(*outDir, "order_lines.csv")
		if err := exporter.WriteOrderLines(linesPath, result.Data); err != nil {
			logger.Error("Failed to write order lines report", "path", linesPath, "error", err)
			os.Exit(1)
		}
		kpiPath := filepath.Join(*outDir, "kpis.csv")
		if err := exporter.WriteKpiReport(kpiPath, dashboard.Kpis); err != nil {
			logger.Error("Failed to write KPI report", "path", kpiPath, "error", err)
			os.Exit(1)
		}
		logger.Info("reports written", "order_lines", linesPath, "kpis", kpiPath)
	}
}
