// Package adapters holds the declarative per-platform column mappings and
// the detector that selects one of them from a header row. Adding a new
// storefront platform means registering one more Adapter; no other component
// changes.
package adapters

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Canonical field names an adapter mapping may target. The normalizer only
// understands these; source columns mapped to anything else are rejected at
// registration time.
const (
	FieldOrderID      = "orderId"
	FieldOrderDate    = "orderDate"
	FieldCustomerName = "customerName"
	FieldOrderTotal   = "orderTotal"
	// FieldProducts is the composite "Name x Qty, Name x Qty" string some
	// platforms use to encode all of an order's products in one cell.
	// Mapping it enables line-item expansion.
	FieldProducts        = "products"
	FieldItemsSold       = "itemsSold"
	FieldPromoCodes      = "promoCodes"
	FieldOrderStatus     = "orderStatus"
	FieldProductName     = "productName"
	FieldProductQuantity = "productQuantity"
	FieldLineItemPrice   = "lineItemPrice"

	FieldCustomerEmail     = "customerEmail"
	FieldFinancialStatus   = "financialStatus"
	FieldFulfillmentStatus = "fulfillmentStatus"
	FieldCurrency          = "currency"
	FieldSubtotal          = "subtotal"
	FieldShipping          = "shipping"
	FieldTaxes             = "taxes"
	FieldDiscountCode      = "discountCode"
	FieldDiscountAmount    = "discountAmount"
	FieldShippingMethod    = "shippingMethod"
	FieldBillingCity       = "billingCity"
	FieldShippingCity      = "shippingCity"
	FieldPaymentMethod     = "paymentMethod"
	FieldTags              = "tags"
)

var canonicalFields = map[string]bool{
	FieldOrderID: true, FieldOrderDate: true, FieldCustomerName: true,
	FieldOrderTotal: true, FieldProducts: true, FieldItemsSold: true,
	FieldPromoCodes: true, FieldOrderStatus: true, FieldProductName: true,
	FieldProductQuantity: true, FieldLineItemPrice: true,
	FieldCustomerEmail: true, FieldFinancialStatus: true,
	FieldFulfillmentStatus: true, FieldCurrency: true, FieldSubtotal: true,
	FieldShipping: true, FieldTaxes: true, FieldDiscountCode: true,
	FieldDiscountAmount: true, FieldShippingMethod: true,
	FieldBillingCity: true, FieldShippingCity: true,
	FieldPaymentMethod: true, FieldTags: true,
}

// DetectorFunc decides whether an adapter claims a header set.
type DetectorFunc func(headers []string) bool

// ColumnMapping associates one source column with one canonical field.
type ColumnMapping struct {
	Source    string `validate:"required"`
	Canonical string `validate:"required"`
}

// Adapter describes how one storefront platform's export maps onto the
// canonical line-item record. Adapters are immutable after registration.
type Adapter struct {
	Platform string `validate:"required"`
	Detector DetectorFunc
	// Mapping is evaluated in order; a canonical field simply stays at its
	// zero value when its source column is absent from a row.
	Mapping []ColumnMapping `validate:"required,min=1,dive"`
	// Tolerant adapters accept rows whose field count exceeds the header
	// row's, filtering that specific error kind instead of reporting it.
	// The zero value keeps the default strict behavior.
	Tolerant bool
}

// ExpandsLineItems reports whether the adapter maps the composite products
// field, which makes the normalizer run line-item expansion.
func (a *Adapter) ExpandsLineItems() bool {
	for _, m := range a.Mapping {
		if m.Canonical == FieldProducts {
			return true
		}
	}
	return false
}

// Registry is an ordered adapter list. Detection walks it in registration
// order and short-circuits on the first match.
type Registry struct {
	adapters []Adapter
	validate *validator.Validate
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{validate: validator.New()}
}

// Register appends an adapter after validating its definition.
func (r *Registry) Register(a Adapter) error {
	if err := r.validate.Struct(a); err != nil {
		return fmt.Errorf("adapter %q definition invalid: %w", a.Platform, err)
	}
	if a.Detector == nil {
		return fmt.Errorf("adapter %q has no detector", a.Platform)
	}
	for _, m := range a.Mapping {
		if !canonicalFields[m.Canonical] {
			return fmt.Errorf("adapter %q maps %q to unknown canonical field %q", a.Platform, m.Source, m.Canonical)
		}
	}
	r.adapters = append(r.adapters, a)
	return nil
}

// MustRegister is Register for static adapter tables; it panics on an
// invalid definition.
func (r *Registry) MustRegister(a Adapter) {
	if err := r.Register(a); err != nil {
		panic(err)
	}
}

// Detect returns the first adapter whose detector matches the header row.
// No partial-match fallback is applied: guessing a mapping silently corrupts
// monetary figures downstream, so an unmatched header set is a hard failure.
func (r *Registry) Detect(headers []string) (*Adapter, bool) {
	for i := range r.adapters {
		if r.adapters[i].Detector(headers) {
			return &r.adapters[i], true
		}
	}
	return nil, false
}

// Platforms lists the registered platform names in registration order.
func (r *Registry) Platforms() []string {
	names := make([]string, len(r.adapters))
	for i, a := range r.adapters {
		names[i] = a.Platform
	}
	return names
}

// HasAll is a detector building block: true when every wanted column is
// present in the header row.
func HasAll(headers []string, want ...string) bool {
	set := make(map[string]bool, len(headers))
	for _, h := range headers {
		set[h] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}
