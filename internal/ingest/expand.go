package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"ordersight/pkg/contracts/domain"
)

// lineItemPattern recovers a product name and unit count from one entry of a
// composite products cell, e.g. "Blue Mug x 3".
var lineItemPattern = regexp.MustCompile(`^(.+)\s+x\s+(\d+)$`)

// expandLineItems splits a composite products string into one canonical line
// per product entry. Entries that don't match the "<name> x <qty>" grammar
// are kept as a single implicit unit of a product named after the whole
// entry text; this tolerance is load-bearing, since downstream KPIs expect
// quantities to reconcile with ItemsSold.
//
// LineItemPrice is allocated by splitting OrderTotal evenly per unit and
// multiplying by the line's quantity. When ItemsSold is zero the per-unit
// share is defined as zero rather than dividing by zero; OrderTotal stays
// authoritative for order-level metrics.
func expandLineItems(base domain.OrderLine, products string) []domain.OrderLine {
	perUnit := 0.0
	if base.ItemsSold > 0 {
		perUnit = base.OrderTotal / float64(base.ItemsSold)
	}

	lines := make([]domain.OrderLine, 0, 2)
	for _, entry := range strings.Split(products, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, qty := entry, 1
		if m := lineItemPattern.FindStringSubmatch(entry); m != nil {
			name = strings.TrimSpace(m[1])
			qty, _ = strconv.Atoi(m[2])
		}
		line := base
		line.ProductName = name
		line.ProductQuantity = qty
		line.LineItemPrice = perUnit * float64(qty)
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		line := base
		line.ProductName = domain.UnlistedProduct
		line.ProductQuantity = 0
		line.LineItemPrice = 0
		return []domain.OrderLine{line}
	}
	return lines
}
