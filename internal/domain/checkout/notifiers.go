// internal/domain/checkout/notifiers.go
package checkout

import (
	"context"

	"github.com/jupani/storefront/internal/config"
	"github.com/jupani/storefront/internal/domain/order"
	"github.com/jupani/storefront/internal/pkg/email"
	"github.com/jupani/storefront/internal/pkg/money"
)

// OrderMailer sends the owner notification email
type OrderMailer interface {
	SendOrderPlacedEmail(ctx context.Context, data email.OrderPlacedData) error
}

// EmailNotifier emails the store owner about every placed order
type EmailNotifier struct {
	mailer OrderMailer
	config *config.Config
}

// NewEmailNotifier creates a notifier backed by mailer
func NewEmailNotifier(mailer OrderMailer, cfg *config.Config) *EmailNotifier {
	return &EmailNotifier{mailer: mailer, config: cfg}
}

// NotifyOrderPlaced implements Notifier
func (n *EmailNotifier) NotifyOrderPlaced(ctx context.Context, placed *order.Order, whatsappURL string) error {
	items := make([]email.OrderItem, 0, len(placed.Items))
	for _, item := range placed.Items {
		notes := ""
		if item.ItemNotes != nil {
			notes = *item.ItemNotes
		}
		items = append(items, email.OrderItem{
			Name:      item.ProductSnapshotName,
			Quantity:  item.Quantity,
			UnitPrice: money.FormatBRL(item.UnitPrice),
			Total:     money.FormatBRL(item.UnitPrice * int64(item.Quantity)),
			Notes:     notes,
		})
	}

	shippingLabel := "Entrega"
	if placed.ShippingMethod == "PICKUP" {
		shippingLabel = "Retirada"
	}

	data := email.OrderPlacedData{
		OrderNumber:    placed.OrderNumber,
		OrderDate:      placed.CreatedAt.In(n.config.Location()).Format("02/01/2006 15:04"),
		CustomerName:   placed.CustomerName,
		CustomerPhone:  placed.CustomerPhone,
		Address:        placed.Address.Format(),
		ShippingMethod: shippingLabel,
		PaymentMethod:  placed.PaymentMethod,
		Items:          items,
		Subtotal:       money.FormatBRL(placed.Subtotal),
		ShippingFee:    money.FormatBRL(placed.ShippingFee),
		Total:          money.FormatBRL(placed.Total),
		WhatsAppURL:    whatsappURL,
	}
	if placed.Address.Reference != nil {
		data.Reference = *placed.Address.Reference
	}
	if placed.Notes != nil {
		data.Notes = *placed.Notes
	}

	return n.mailer.SendOrderPlacedEmail(ctx, data)
}
