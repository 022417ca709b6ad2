// internal/domain/order/message.go
package order

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jupani/storefront/internal/pkg/money"
)

// MessageItem is one order line as shown in the chat message
type MessageItem struct {
	Name      string
	Quantity  int
	UnitPrice int64
	Notes     string
}

// Message holds everything the owner needs to see in the WhatsApp order text
type Message struct {
	StoreName     string
	Items         []MessageItem
	Subtotal      int64
	ShippingFee   int64
	Total         int64
	PaymentMethod string
	CustomerName  string
	CustomerPhone string
	Address       string
	Reference     string
	Notes         string
}

// ConfigurationError reports a missing setting the operator must fix
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s não configurado.", e.Setting)
}

// FormatMessage renders the order as newline-separated plain text.
// Optional sections (reference, general notes) are omitted when empty.
func FormatMessage(m Message) string {
	lines := make([]string, 0, 16+len(m.Items))

	lines = append(lines, "🍰🧁 Pedido "+m.StoreName, "", "Itens:")
	for _, item := range m.Items {
		line := fmt.Sprintf("- %dx %s (%s)", item.Quantity, item.Name, money.FormatBRL(item.UnitPrice))
		if item.Notes != "" {
			line += " | Obs: " + item.Notes
		}
		lines = append(lines, line)
	}

	lines = append(lines,
		"",
		"Subtotal: "+money.FormatBRL(m.Subtotal),
		"Frete: "+money.FormatBRL(m.ShippingFee),
		"Total: "+money.FormatBRL(m.Total),
		"",
		"Pagamento: "+m.PaymentMethod,
		"",
		"Endereço: "+m.Address,
	)
	if m.Reference != "" {
		lines = append(lines, "Referência: "+m.Reference)
	}
	lines = append(lines, fmt.Sprintf("Contato: %s - %s", m.CustomerName, m.CustomerPhone))
	if m.Notes != "" {
		lines = append(lines, "", "Observações gerais: "+m.Notes)
	}

	return strings.Join(lines, "\n")
}

// BuildLink returns the wa.me deep link that opens a chat with phone and the
// message pre-filled. An empty phone is a ConfigurationError.
func BuildLink(message, phone string) (string, error) {
	if phone == "" {
		return "", &ConfigurationError{Setting: "WHATSAPP_NUMBER"}
	}

	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", url.PathEscape(phone), text), nil
}
