// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/jupani/storefront/internal/config"
	"github.com/sirupsen/logrus"
)

const orderPlacedTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head><meta charset="utf-8"><title>Novo pedido {{.OrderNumber}}</title></head>
<body style="font-family: Arial, sans-serif; color: #3b2a24;">
  <h2>Novo pedido {{.OrderNumber}}</h2>
  <p>{{.OrderDate}}</p>
  <p><strong>{{.CustomerName}}</strong> - {{.CustomerPhone}}</p>
  <p>{{.ShippingMethod}}: {{.Address}}{{if .Reference}}<br>Referência: {{.Reference}}{{end}}</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><th align="left">Item</th><th>Qtd</th><th align="right">Unitário</th><th align="right">Total</th></tr>
    {{range .Items}}
    <tr>
      <td>{{.Name}}{{if .Notes}}<br><small>Obs: {{.Notes}}</small>{{end}}</td>
      <td align="center">{{.Quantity}}</td>
      <td align="right">{{.UnitPrice}}</td>
      <td align="right">{{.Total}}</td>
    </tr>
    {{end}}
  </table>
  <p>Subtotal: {{.Subtotal}}<br>Frete: {{.ShippingFee}}<br><strong>Total: {{.Total}}</strong></p>
  <p>Pagamento: {{.PaymentMethod}}</p>
  {{if .Notes}}<p>Observações gerais: {{.Notes}}</p>{{end}}
  <p><a href="{{.WhatsAppURL}}">Abrir conversa no WhatsApp</a></p>
  <p style="color: #8a766e;">&copy; {{.Year}} {{.SiteName}}</p>
</body>
</html>`

// EmailService sends owner notifications over SMTP
type EmailService struct {
	config    *config.Config
	logger    *logrus.Logger
	templates map[EmailType]*template.Template
	sendMail  sendMailFunc
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, logger *logrus.Logger) *EmailService {
	return &EmailService{
		config: cfg,
		logger: logger,
		templates: map[EmailType]*template.Template{
			EmailTypeOrderPlaced: template.Must(template.New(string(EmailTypeOrderPlaced)).Parse(orderPlacedTemplate)),
		},
		sendMail: smtp.SendMail,
	}
}

// Enabled reports whether SMTP and the owner address are configured
func (s *EmailService) Enabled() bool {
	return s.config.Email.SMTPHost != "" && s.config.Email.OwnerTo != ""
}

// SendEmail sends an email
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.sendSMTPEmail(email); err != nil {
		return fmt.Errorf("failed to send %s email: %w", email.Type, err)
	}

	s.logger.WithFields(logrus.Fields{
		"type":       email.Type,
		"recipients": len(email.To),
	}).Info("Email sent")
	return nil
}

// SendOrderPlacedEmail tells the owner about a new order
func (s *EmailService) SendOrderPlacedEmail(ctx context.Context, data OrderPlacedData) error {
	data.EmailTemplateData = GetBaseTemplateData(s.config.Store.Name)

	htmlContent, err := s.renderTemplate(EmailTypeOrderPlaced, data)
	if err != nil {
		return err
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{s.config.Email.OwnerTo},
		Subject:     fmt.Sprintf("Novo pedido %s - %s", data.OrderNumber, data.Total),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderPlaced,
	})
}

// renderTemplate renders an email template with data
func (s *EmailService) renderTemplate(name EmailType, data interface{}) (string, error) {
	tmpl, exists := s.templates[name]
	if !exists {
		return "", fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
