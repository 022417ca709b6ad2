package pdf

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/jupani/storefront/internal/config"
	"github.com/jupani/storefront/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptHTML(t *testing.T) {
	svc := NewService(&config.Config{Store: config.StoreConfig{Name: "Ju.pani", Timezone: "America/Sao_Paulo"}})

	reference := "Portão azul"
	notes := "sem açúcar"
	o := &order.Order{
		OrderNumber:    "JU-20240601-ABCDEF",
		Status:         order.OrderStatusConfirmed,
		CustomerName:   "Maria",
		CustomerPhone:  "11999990000",
		Address:        order.Address{Street: "Rua A", Number: "1", District: "Pinheiros", City: "São Paulo", State: "SP", Zip: "05422-000", Reference: &reference},
		PaymentMethod:  "Pix",
		ShippingMethod: "DELIVERY",
		Subtotal:       129900,
		ShippingFee:    900,
		Total:          130800,
		CreatedAt:      time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC),
		Items: []order.OrderItem{
			{ProductSnapshotName: "Bolo Red Velvet", UnitPrice: 64950, Quantity: 2, ItemNotes: &notes},
		},
	}

	html, err := svc.ReceiptHTML(o)
	require.NoError(t, err)

	assert.Contains(t, html, "Pedido JU-20240601-ABCDEF · Confirmado")
	assert.Contains(t, html, "Realizado em 01/06/2024 12:30")
	assert.Contains(t, html, "Entrega")
	assert.Contains(t, html, "Rua A, 1 - Pinheiros, São Paulo / SP - 05422-000")
	assert.Contains(t, html, "Referência: Portão azul")
	assert.Contains(t, html, "Obs: sem açúcar")
	assert.Contains(t, html, "R$ 649,50")
	assert.Contains(t, html, "R$ 1.299,00")
	assert.Contains(t, html, "R$ 1.308,00")
	assert.NotContains(t, html, "Observações gerais")
}
