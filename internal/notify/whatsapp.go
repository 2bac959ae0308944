// Package notify builds the fire-and-forget order notification handed to an
// external messaging link target for manual fulfillment follow-up.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"twinkle/internal/domain"
)

// OrderMessage renders the order summary used in the notification.
func OrderMessage(o domain.Order, items []domain.OrderItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New Order %s\n", o.ID)
	fmt.Fprintf(&b, "Customer: %s (%s)\n", o.Customer, o.Phone)
	fmt.Fprintf(&b, "Address: %s, %s\n", o.Address, o.Governorate)
	for _, it := range items {
		fmt.Fprintf(&b, "- %s x%d = %d EGP\n", it.Title, it.Qty, it.Price*it.Qty)
	}
	shipping := "Free"
	if o.Shipping > 0 {
		shipping = fmt.Sprintf("%d EGP", o.Shipping)
	}
	fmt.Fprintf(&b, "Shipping: %s\n", shipping)
	fmt.Fprintf(&b, "Total: %d EGP", o.Total)
	return b.String()
}

// WhatsAppLink returns the wa.me URL carrying the order summary to the fixed
// contact number.
func WhatsAppLink(phone string, o domain.Order, items []domain.OrderItem) string {
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(OrderMessage(o, items))
}
