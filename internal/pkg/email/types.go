// internal/pkg/email/types.go
package email

import (
	"time"
)

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypeOrderPlaced EmailType = "order_placed"
	EmailTypeTest        EmailType = "test"
)

// Email represents an email message
type Email struct {
	To          []string  `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"html_content"`
	TextContent string    `json:"text_content,omitempty"`
	Type        EmailType `json:"type"`
}

// EmailTemplateData contains common data for all email templates
type EmailTemplateData struct {
	SiteName string `json:"site_name"`
	Year     int    `json:"year"`
}

// OrderPlacedData is rendered into the owner notification. Amounts are
// already formatted for display.
type OrderPlacedData struct {
	EmailTemplateData
	OrderNumber    string      `json:"order_number"`
	OrderDate      string      `json:"order_date"`
	CustomerName   string      `json:"customer_name"`
	CustomerPhone  string      `json:"customer_phone"`
	Address        string      `json:"address"`
	Reference      string      `json:"reference,omitempty"`
	ShippingMethod string      `json:"shipping_method"`
	PaymentMethod  string      `json:"payment_method"`
	Items          []OrderItem `json:"items"`
	Subtotal       string      `json:"subtotal"`
	ShippingFee    string      `json:"shipping_fee"`
	Total          string      `json:"total"`
	Notes          string      `json:"notes,omitempty"`
	WhatsAppURL    string      `json:"whatsapp_url"`
}

// OrderItem represents an item in the order
type OrderItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
	Notes     string `json:"notes,omitempty"`
}

// GetBaseTemplateData returns common template data
func GetBaseTemplateData(siteName string) EmailTemplateData {
	return EmailTemplateData{
		SiteName: siteName,
		Year:     time.Now().Year(),
	}
}
