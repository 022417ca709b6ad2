// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/jupani/storefront/internal/config"
	"github.com/jupani/storefront/internal/domain/order"
	"github.com/jupani/storefront/internal/pkg/money"
)

// Service renders order receipts for the admin panel
type Service struct {
	config   *config.Config
	template *template.Template
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	funcs := template.FuncMap{
		"brl": money.FormatBRL,
		"lineTotal": func(item order.OrderItem) string {
			return money.FormatBRL(item.UnitPrice * int64(item.Quantity))
		},
	}

	return &Service{
		config:   cfg,
		template: template.Must(template.New("receipt").Funcs(funcs).Parse(receiptTemplate)),
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	StoreName   string
	IssuedAt    string
	CreatedAt   string
	Order       *order.Order
	Address     string
	Shipping    string
	StatusLabel string
}

// GenerateReceipt renders the order receipt as a PDF. Requires the
// wkhtmltopdf binary on PATH or WKHTMLTOPDF_PATH.
func (s *Service) GenerateReceipt(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.ReceiptHTML(o)
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA5)
	pdfg.Title.Set("Pedido " + o.OrderNumber)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.Encoding.Set("utf-8")
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(8)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// ReceiptHTML renders the receipt markup that GenerateReceipt converts
func (s *Service) ReceiptHTML(o *order.Order) (string, error) {
	loc := s.config.Location()

	data := ReceiptData{
		StoreName:   s.config.Store.Name,
		IssuedAt:    time.Now().In(loc).Format("02/01/2006 15:04"),
		CreatedAt:   o.CreatedAt.In(loc).Format("02/01/2006 15:04"),
		Order:       o,
		Address:     o.Address.Format(),
		Shipping:    shippingLabel(o.ShippingMethod),
		StatusLabel: statusLabel(o.Status),
	}

	var buf bytes.Buffer
	if err := s.template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func shippingLabel(method string) string {
	if method == "PICKUP" {
		return "Retirada"
	}
	return "Entrega"
}

func statusLabel(status order.OrderStatus) string {
	switch status {
	case order.OrderStatusConfirmed:
		return "Confirmado"
	case order.OrderStatusCancelled:
		return "Cancelado"
	default:
		return "Pendente"
	}
}

const receiptTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
    <meta charset="UTF-8">
    <title>Pedido {{.Order.OrderNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 16px; color: #3b2a24; font-size: 12px; }
        .header { border-bottom: 2px solid #e8d8cf; padding-bottom: 12px; margin-bottom: 16px; }
        .title { font-size: 20px; font-weight: bold; color: #a0526b; }
        .section-title { font-weight: bold; margin: 14px 0 6px; }
        .items-table { width: 100%; border-collapse: collapse; }
        .items-table th, .items-table td { border-bottom: 1px solid #eee; padding: 6px 4px; text-align: left; }
        .items-table .num { text-align: right; }
        .notes { color: #8a766e; font-size: 11px; }
        .totals { margin-top: 12px; width: 220px; margin-left: auto; }
        .totals td { padding: 3px 0; }
        .totals .grand { font-weight: bold; font-size: 14px; border-top: 1px solid #ccc; }
    </style>
</head>
<body>
    <div class="header">
        <div class="title">{{.StoreName}}</div>
        <div>Pedido {{.Order.OrderNumber}} · {{.StatusLabel}}</div>
        <div>Realizado em {{.CreatedAt}}</div>
    </div>

    <div class="section-title">Cliente</div>
    <div>{{.Order.CustomerName}} · {{.Order.CustomerPhone}}</div>

    <div class="section-title">{{.Shipping}}</div>
    <div>{{.Address}}</div>
    {{with .Order.Address.Reference}}<div>Referência: {{.}}</div>{{end}}

    <div class="section-title">Itens</div>
    <table class="items-table">
        <thead>
            <tr><th>Produto</th><th class="num">Qtd</th><th class="num">Unitário</th><th class="num">Total</th></tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td>{{.ProductSnapshotName}}{{with .ItemNotes}}<div class="notes">Obs: {{.}}</div>{{end}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{brl .UnitPrice}}</td>
                <td class="num">{{lineTotal .}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <table class="totals">
        <tr><td>Subtotal</td><td class="num">{{brl .Order.Subtotal}}</td></tr>
        <tr><td>Frete</td><td class="num">{{brl .Order.ShippingFee}}</td></tr>
        <tr class="grand"><td>Total</td><td class="num">{{brl .Order.Total}}</td></tr>
    </table>

    <div class="section-title">Pagamento</div>
    <div>{{.Order.PaymentMethod}}</div>
    {{with .Order.Notes}}<div class="section-title">Observações gerais</div><div>{{.}}</div>{{end}}

    <p class="notes">Emitido em {{.IssuedAt}}</p>
</body>
</html>`
