package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordersight/internal/adapters"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare date", "2024-01-02", "2024-01-02T00:00:00Z"},
		{"rfc3339", "2024-01-02T15:04:05Z", "2024-01-02T15:04:05Z"},
		{"rfc3339 with offset", "2024-01-02T15:04:05+03:00", "2024-01-02T12:04:05Z"},
		{"shopify zoned timestamp", "2024-01-02 15:04:05 -0500", "2024-01-02T20:04:05Z"},
		{"datetime without zone", "2024-01-02 15:04:05", "2024-01-02T15:04:05Z"},
		{"us slash date", "01/02/2024", "2024-01-02T00:00:00Z"},
		{"surrounding whitespace", "  2024-01-02  ", "2024-01-02T00:00:00Z"},
		{"empty", "", ""},
		{"garbage", "not a date", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeDate(tt.raw))
		})
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"plain", "150.00", 150},
		{"thousands separator", "1,234.56", 1234.56},
		{"dollar sign", "$99.90", 99.9},
		{"euro sign", "€42", 42},
		{"negative refund", "-15.50", -15.5},
		{"empty defaults to zero", "", 0},
		{"garbage defaults to zero", "free", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseMoney(tt.raw))
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"plain integer", "3", 3},
		{"decimal count", "2.0", 2},
		{"thousands separator", "1,200", 1200},
		{"empty defaults to zero", "", 0},
		{"garbage defaults to zero", "many", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCount(tt.raw))
		})
	}
}

func TestNormalizeRowExpandingAdapter(t *testing.T) {
	adapter, ok := adapters.DefaultRegistry().Detect([]string{
		"Commande n°", "Ventes nettes", "Produit(s)",
	})
	require.True(t, ok)

	row := map[string]string{
		"Commande n°":     "#1001",
		"Date":            "2024-01-02",
		"Client":          "John Doe",
		"Ventes nettes":   "150.00",
		"Produit(s)":      "Product A x 1, Product B x 2",
		"Articles vendus": "3",
		"Code(s) promo":   "NONE",
		"État":            "Completed",
	}

	lines := NormalizeRow(adapter, row)
	require.Len(t, lines, 2)

	assert.Equal(t, "Product A", lines[0].ProductName)
	assert.Equal(t, 1, lines[0].ProductQuantity)
	assert.InDelta(t, 50.0, lines[0].LineItemPrice, 1e-9)

	assert.Equal(t, "Product B", lines[1].ProductName)
	assert.Equal(t, 2, lines[1].ProductQuantity)
	assert.InDelta(t, 100.0, lines[1].LineItemPrice, 1e-9)

	for _, line := range lines {
		assert.Equal(t, "#1001", line.OrderID)
		assert.Equal(t, "2024-01-02T00:00:00Z", line.OrderDate)
		assert.Equal(t, "John Doe", line.CustomerName)
		assert.InDelta(t, 150.0, line.OrderTotal, 1e-9)
		assert.Equal(t, 3, line.ItemsSold)
		assert.Equal(t, "Completed", line.OrderStatus)
		assert.False(t, line.HasPromo(), "NONE must not count as a promo code")
	}
}

func TestNormalizeRowLineItemAdapter(t *testing.T) {
	adapter, ok := adapters.DefaultRegistry().Detect([]string{
		"Name", "Email", "Financial Status", "Total",
	})
	require.True(t, ok)

	row := map[string]string{
		"Name":              "#2001",
		"Created at":        "2024-03-05 09:30:00 -0500",
		"Billing Name":      "Jane Smith",
		"Email":             "jane@example.com",
		"Total":             "89.90",
		"Lineitem name":     "Blue Mug",
		"Lineitem quantity": "2",
		"Lineitem price":    "19.95",
		"Discount Code":     "WELCOME10",
		"Financial Status":  "paid",
	}

	lines := NormalizeRow(adapter, row)
	require.Len(t, lines, 1)

	line := lines[0]
	assert.Equal(t, "#2001", line.OrderID)
	assert.Equal(t, "2024-03-05T14:30:00Z", line.OrderDate)
	assert.Equal(t, "Jane Smith", line.CustomerName)
	assert.Equal(t, "jane@example.com", line.CustomerEmail)
	assert.Equal(t, "Blue Mug", line.ProductName)
	assert.Equal(t, 2, line.ProductQuantity)
	assert.InDelta(t, 19.95, line.LineItemPrice, 1e-9)
	assert.Equal(t, "paid", line.FinancialStatus)
	assert.True(t, line.HasPromo())
}

func TestNormalizeRowToleratesMissingColumns(t *testing.T) {
	adapter, ok := adapters.DefaultRegistry().Detect([]string{
		"Name", "Email", "Financial Status", "Total",
	})
	require.True(t, ok)

	// Repeat line-item rows of a Shopify order omit trailing order-level
	// columns entirely.
	row := map[string]string{
		"Name":              "#2001",
		"Lineitem name":     "Red Mug",
		"Lineitem quantity": "1",
		"Lineitem price":    "12.00",
	}

	lines := NormalizeRow(adapter, row)
	require.Len(t, lines, 1)
	assert.Equal(t, "#2001", lines[0].OrderID)
	assert.Equal(t, "Red Mug", lines[0].ProductName)
	assert.Zero(t, lines[0].OrderTotal)
	assert.Empty(t, lines[0].OrderDate)
}
