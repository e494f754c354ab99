package adapters

// Built-in platform adapters. Mappings follow each platform's stock order
// export; column names are matched exactly, including the French-locale
// WooCommerce headers.

// WooCommerce exports one row per order with all products packed into a
// single "Produit(s)" cell, so this adapter relies on line-item expansion.
func wooCommerceAdapter() Adapter {
	return Adapter{
		Platform: "WooCommerce",
		Detector: func(headers []string) bool {
			return HasAll(headers, "Commande n°", "Ventes nettes", "Produit(s)")
		},
		Mapping: []ColumnMapping{
			{Source: "Commande n°", Canonical: FieldOrderID},
			{Source: "Date", Canonical: FieldOrderDate},
			{Source: "Client", Canonical: FieldCustomerName},
			{Source: "Ventes nettes", Canonical: FieldOrderTotal},
			{Source: "Produit(s)", Canonical: FieldProducts},
			{Source: "Articles vendus", Canonical: FieldItemsSold},
			{Source: "Code(s) promo", Canonical: FieldPromoCodes},
			{Source: "État", Canonical: FieldOrderStatus},
		},
	}
}

// Shopify exports one row per line item and legitimately varies the column
// count row to row (repeat rows of an order omit trailing order-level
// columns), hence Tolerant.
func shopifyAdapter() Adapter {
	return Adapter{
		Platform: "Shopify",
		Tolerant: true,
		Detector: func(headers []string) bool {
			return HasAll(headers, "Name", "Email", "Financial Status", "Total")
		},
		Mapping: []ColumnMapping{
			{Source: "Name", Canonical: FieldOrderID},
			{Source: "Created at", Canonical: FieldOrderDate},
			{Source: "Billing Name", Canonical: FieldCustomerName},
			{Source: "Email", Canonical: FieldCustomerEmail},
			{Source: "Total", Canonical: FieldOrderTotal},
			{Source: "Lineitem name", Canonical: FieldProductName},
			{Source: "Lineitem quantity", Canonical: FieldProductQuantity},
			{Source: "Lineitem price", Canonical: FieldLineItemPrice},
			{Source: "Discount Code", Canonical: FieldPromoCodes},
			{Source: "Financial Status", Canonical: FieldFinancialStatus},
			{Source: "Fulfillment Status", Canonical: FieldFulfillmentStatus},
			{Source: "Currency", Canonical: FieldCurrency},
			{Source: "Subtotal", Canonical: FieldSubtotal},
			{Source: "Shipping", Canonical: FieldShipping},
			{Source: "Taxes", Canonical: FieldTaxes},
			{Source: "Discount Amount", Canonical: FieldDiscountAmount},
			{Source: "Shipping Method", Canonical: FieldShippingMethod},
			{Source: "Billing City", Canonical: FieldBillingCity},
			{Source: "Shipping City", Canonical: FieldShippingCity},
			{Source: "Payment Method", Canonical: FieldPaymentMethod},
			{Source: "Tags", Canonical: FieldTags},
		},
	}
}

// Squarespace also exports one row per line item but with a stable column
// count, so it stays strict.
func squarespaceAdapter() Adapter {
	return Adapter{
		Platform: "Squarespace",
		Detector: func(headers []string) bool {
			return HasAll(headers, "Order ID", "Lineitem name", "Total", "Paid at")
		},
		Mapping: []ColumnMapping{
			{Source: "Order ID", Canonical: FieldOrderID},
			{Source: "Paid at", Canonical: FieldOrderDate},
			{Source: "Billing Name", Canonical: FieldCustomerName},
			{Source: "Email", Canonical: FieldCustomerEmail},
			{Source: "Total", Canonical: FieldOrderTotal},
			{Source: "Lineitem name", Canonical: FieldProductName},
			{Source: "Lineitem qty", Canonical: FieldProductQuantity},
			{Source: "Lineitem price", Canonical: FieldLineItemPrice},
			{Source: "Coupons", Canonical: FieldPromoCodes},
			{Source: "Financial Status", Canonical: FieldFinancialStatus},
			{Source: "Fulfillment Status", Canonical: FieldFulfillmentStatus},
			{Source: "Currency", Canonical: FieldCurrency},
			{Source: "Subtotal", Canonical: FieldSubtotal},
			{Source: "Shipping", Canonical: FieldShipping},
			{Source: "Taxes", Canonical: FieldTaxes},
			{Source: "Shipping Method", Canonical: FieldShippingMethod},
			{Source: "Billing City", Canonical: FieldBillingCity},
			{Source: "Shipping City", Canonical: FieldShippingCity},
		},
	}
}

// DefaultRegistry returns the registry with every built-in platform, in the
// order detection should try them.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(wooCommerceAdapter())
	r.MustRegister(shopifyAdapter())
	r.MustRegister(squarespaceAdapter())
	return r
}
