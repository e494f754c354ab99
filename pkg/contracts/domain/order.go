package domain

import (
	"time"
)

// UnlistedProduct is the sentinel product name for orders whose export
// carried no product text at all. Such orders still yield exactly one line
// so order-level metrics never lose their totals.
const UnlistedProduct = "Unlisted Product"

// OrderLine is the canonical, platform-independent line-item record produced
// by ingestion. One source order row expands into one OrderLine per product
// entry; all lines of an order share OrderID, OrderDate, OrderTotal and
// ItemsSold and differ only in the product fields.
type OrderLine struct {
	OrderID      string  `json:"order_id"`
	OrderDate    string  `json:"order_date"` // ISO-8601; empty when the source text was unparsable
	CustomerName string  `json:"customer_name,omitempty"`
	OrderTotal   float64 `json:"order_total"` // monetary total of the whole order

	ProductName     string  `json:"product_name,omitempty"`
	ProductQuantity int     `json:"product_quantity,omitempty"`
	// LineItemPrice is this line's share of OrderTotal, allocated evenly per
	// unit (OrderTotal / ItemsSold * ProductQuantity). It is an estimate for
	// charting, not an authoritative per-SKU price.
	LineItemPrice float64 `json:"line_item_price,omitempty"`

	// ItemsSold is the unit count across the whole order, kept on every line
	// for order-level ratios.
	ItemsSold   int    `json:"items_sold,omitempty"`
	PromoCodes  string `json:"promo_codes,omitempty"`
	OrderStatus string `json:"order_status,omitempty"`

	// Passthrough commercial fields, populated only when the detected
	// adapter maps them.
	CustomerEmail     string  `json:"customer_email,omitempty"`
	FinancialStatus   string  `json:"financial_status,omitempty"`
	FulfillmentStatus string  `json:"fulfillment_status,omitempty"`
	Currency          string  `json:"currency,omitempty"`
	Subtotal          float64 `json:"subtotal,omitempty"`
	Shipping          float64 `json:"shipping,omitempty"`
	Taxes             float64 `json:"taxes,omitempty"`
	DiscountCode      string  `json:"discount_code,omitempty"`
	DiscountAmount    float64 `json:"discount_amount,omitempty"`
	ShippingMethod    string  `json:"shipping_method,omitempty"`
	BillingCity       string  `json:"billing_city,omitempty"`
	ShippingCity      string  `json:"shipping_city,omitempty"`
	PaymentMethod     string  `json:"payment_method,omitempty"`
	Tags              string  `json:"tags,omitempty"`
}

// OrderTime parses the line's normalized order date. The second return value
// is false when the date is empty or malformed.
func (l OrderLine) OrderTime() (time.Time, bool) {
	if l.OrderDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, l.OrderDate)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// HasPromo reports whether the order line carries a usable promo code.
// Exports that mean "no code" with a literal NONE are treated as empty.
func (l OrderLine) HasPromo() bool {
	return l.PromoCodes != "" && l.PromoCodes != "NONE"
}
