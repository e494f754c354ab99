package ingest

import (
	"strconv"
	"strings"
	"time"

	"ordersight/internal/adapters"
	"ordersight/pkg/contracts/domain"
)

// dateLayouts are tried in order when normalizing source date text. Exports
// in the wild mix bare dates, Shopify's zoned timestamps and RFC3339.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
	"2006/01/02",
	time.RFC1123,
}

// NormalizeRow maps one raw source row (keyed by source header names) onto
// zero or more canonical line-item rows using the already-selected adapter.
// It never fails: coercion problems degrade to neutral defaults so one
// malformed field cannot discard the row or abort the batch.
func NormalizeRow(a *adapters.Adapter, row map[string]string) []domain.OrderLine {
	vals := make(map[string]string, len(a.Mapping))
	for _, m := range a.Mapping {
		v, ok := row[m.Source]
		if !ok && !a.Tolerant {
			// Strict adapters only copy columns the row actually carries.
			// Tolerant adapters accept absent trailing columns as empty.
			continue
		}
		vals[m.Canonical] = v
	}

	base := buildLine(vals)
	if a.ExpandsLineItems() {
		return expandLineItems(base, strings.TrimSpace(vals[adapters.FieldProducts]))
	}
	return []domain.OrderLine{base}
}

// buildLine coerces the canonical value map into a typed line. Dates are
// reformatted to ISO-8601 (unparsable text becomes the empty string, not an
// error), numerics default to zero, strings to empty.
func buildLine(vals map[string]string) domain.OrderLine {
	return domain.OrderLine{
		OrderID:      strings.TrimSpace(vals[adapters.FieldOrderID]),
		OrderDate:    normalizeDate(vals[adapters.FieldOrderDate]),
		CustomerName: strings.TrimSpace(vals[adapters.FieldCustomerName]),
		OrderTotal:   parseMoney(vals[adapters.FieldOrderTotal]),

		ProductName:     strings.TrimSpace(vals[adapters.FieldProductName]),
		ProductQuantity: parseCount(vals[adapters.FieldProductQuantity]),
		LineItemPrice:   parseMoney(vals[adapters.FieldLineItemPrice]),

		ItemsSold:   parseCount(vals[adapters.FieldItemsSold]),
		PromoCodes:  strings.TrimSpace(vals[adapters.FieldPromoCodes]),
		OrderStatus: strings.TrimSpace(vals[adapters.FieldOrderStatus]),

		CustomerEmail:     strings.TrimSpace(vals[adapters.FieldCustomerEmail]),
		FinancialStatus:   strings.TrimSpace(vals[adapters.FieldFinancialStatus]),
		FulfillmentStatus: strings.TrimSpace(vals[adapters.FieldFulfillmentStatus]),
		Currency:          strings.TrimSpace(vals[adapters.FieldCurrency]),
		Subtotal:          parseMoney(vals[adapters.FieldSubtotal]),
		Shipping:          parseMoney(vals[adapters.FieldShipping]),
		Taxes:             parseMoney(vals[adapters.FieldTaxes]),
		DiscountCode:      strings.TrimSpace(vals[adapters.FieldDiscountCode]),
		DiscountAmount:    parseMoney(vals[adapters.FieldDiscountAmount]),
		ShippingMethod:    strings.TrimSpace(vals[adapters.FieldShippingMethod]),
		BillingCity:       strings.TrimSpace(vals[adapters.FieldBillingCity]),
		ShippingCity:      strings.TrimSpace(vals[adapters.FieldShippingCity]),
		PaymentMethod:     strings.TrimSpace(vals[adapters.FieldPaymentMethod]),
		Tags:              strings.TrimSpace(vals[adapters.FieldTags]),
	}
}

// normalizeDate parses arbitrary source date text and reformats it to
// RFC3339 UTC. Unparsable input yields the empty string.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return ""
}

// parseMoney parses a monetary field with a zero default. Thousands
// separators and common currency symbols are stripped first.
func parseMoney(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.Trim(raw, "$€£ ")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseCount parses a unit count with a zero default. Some exports write
// counts as decimals ("2.0"), so a float fallback keeps those.
func parseCount(raw string) int {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}
