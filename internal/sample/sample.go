// Package sample embeds a demo WooCommerce export so the tooling can
// be exercised without a real dataset.
package sample

import _ "embed"

//go:embed woocommerce.csv
var wooCommerceCSV []byte

// WooCommerceCSV returns a copy of the embedded demo export.
func WooCommerceCSV() []byte {
	out := make([]byte, len(wooCommerceCSV))
	copy(out, wooCommerceCSV)
	return out
}
