package exporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordersight/pkg/contracts/domain"
)

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "file must carry a UTF-8 BOM")

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteSimpleCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")

	err := WriteSimpleCSV(path, []string{"a", "b"}, [][]string{{"1", "2"}, {"3", "4"}})
	require.NoError(t, err)

	records := readCSVFile(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"a", "b"}, records[0])
	assert.Equal(t, []string{"3", "4"}, records[2])
}

func TestWriteCSVAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, WriteCSV(path, WriteOptions{
		Headers:   []string{"a"},
		Records:   [][]string{{"1"}},
		BOMPrefix: true,
	}))
	require.NoError(t, WriteCSV(path, WriteOptions{
		Records: [][]string{{"2"}},
		Append:  true,
	}))

	records := readCSVFile(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"2"}, records[2])
}

func TestWriteOrderLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order_lines.csv")
	lines := []domain.OrderLine{
		{
			OrderID:         "#1001",
			OrderDate:       "2024-01-02T00:00:00Z",
			CustomerName:    "John Doe",
			OrderTotal:      150,
			ProductName:     "Product A",
			ProductQuantity: 1,
			LineItemPrice:   50,
			ItemsSold:       3,
			PromoCodes:      "NONE",
			OrderStatus:     "Completed",
		},
	}

	require.NoError(t, WriteOrderLines(path, lines))

	records := readCSVFile(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, "OrderID", records[0][0])
	assert.Equal(t, []string{
		"#1001", "2024-01-02T00:00:00Z", "John Doe", "150.00",
		"Product A", "1", "50.00", "3", "NONE", "Completed",
	}, records[1])
}

func TestWriteKpiReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kpis.csv")
	change := 20.0
	isGood := true
	report := domain.KpiReport{
		TotalRevenue: []domain.Kpi{
			{Value: 120, Period: "Last 30 Days", Change: &change, IsGood: &isGood, ComparisonPeriod: "vs. previous 30 days"},
			{Value: 220, Period: "Last 365 Days", ComparisonPeriod: "No previous period"},
		},
	}

	require.NoError(t, WriteKpiReport(path, report))

	records := readCSVFile(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Kpi", "Period", "Value", "Change", "IsGood", "ComparisonPeriod"}, records[0])
	assert.Equal(t, []string{"TotalRevenue", "Last 30 Days", "120.00", "20.00", "true", "vs. previous 30 days"}, records[1])
	assert.Equal(t, []string{"TotalRevenue", "Last 365 Days", "220.00", "", "", "No previous period"}, records[2])
}

func TestWriteDashboardJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.json")
	dash := &domain.Dashboard{
		SalesOverTime: domain.TimeSeries{
			Labels: []string{"2024-01-01"},
			Values: []float64{100},
		},
	}

	require.NoError(t, WriteDashboardJSON(path, "WooCommerce", dash))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "WooCommerce", payload["platform"])
	assert.Equal(t, "dashboard_v1", payload["format"])
	assert.NotEmpty(t, payload["generated_at"])
	assert.Contains(t, payload, "dashboard")
}
