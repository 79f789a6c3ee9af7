package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatOrderOrg renders an order outcome as an Org-mode entry with the
// structured facts in a PROPERTIES drawer.
func FormatOrderOrg(o OrderRecord) string {
	heading := fmt.Sprintf("** %s %s %d %s (%s)", o.Status, o.Side, o.Quantity, o.Symbol, shortID(o.OrderID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ORDER_ID: %s\n", o.OrderID))
	b.WriteString(fmt.Sprintf(":OWNER: %s\n", o.Owner))
	b.WriteString(fmt.Sprintf(":SIDE: %s\n", o.Side))
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", o.Symbol))
	b.WriteString(fmt.Sprintf(":QUANTITY: %d\n", o.Quantity))
	b.WriteString(fmt.Sprintf(":ORDER_PRICE: %.2f\n", o.OrderPrice))
	b.WriteString(fmt.Sprintf(":FILL_PRICE: %.2f\n", o.FillPrice))
	b.WriteString(fmt.Sprintf(":STATUS: %s\n", o.Status))
	b.WriteString(fmt.Sprintf(":CREATED: %s\n", o.Created.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":DECIDED: %s\n", o.Decided.UTC().Format(time.RFC3339)))
	if o.Reason != "" {
		b.WriteString(fmt.Sprintf(":REASON: %s\n", o.Reason))
	}
	b.WriteString(":END:\n")

	return b.String()
}

// FormatOrdersOrg renders multiple orders separated by blank lines.
func FormatOrdersOrg(orders []OrderRecord) string {
	var b strings.Builder
	for i, o := range orders {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatOrderOrg(o))
	}
	return b.String()
}

// shortID keeps the tail of an order id; ULID prefixes are the timestamp
// and collide for orders issued close together.
func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
