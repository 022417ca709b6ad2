package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jupani/storefront/internal/config"
	"github.com/jupani/storefront/internal/domain/cart"
	"github.com/jupani/storefront/internal/domain/checkout"
	"github.com/jupani/storefront/internal/domain/order"
	"github.com/jupani/storefront/internal/domain/shipping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCheckoutRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := initTestDB(t)
	svc := checkout.NewService(order.NewService(db, cfg), shipping.DefaultTable(), cfg, quietLogger())
	h := NewCheckoutHandler(svc, cfg, quietLogger())

	r := gin.New()
	r.GET("/shipping/methods", h.GetShippingMethods)
	r.GET("/shipping/quote", h.GetQuote)
	r.GET("/checkout/options", h.GetCheckoutOptions)
	r.POST("/orders", h.PlaceOrder)
	return r, db
}

func cartCookie() *http.Cookie {
	c := cart.New()
	c = cart.AddItem(c, cart.Item{ProductID: "p-1", Name: "Bolo Red Velvet da Casa", Slug: "bolo-red-velvet-da-casa", UnitPrice: 8900}, 1)
	c = cart.AddItem(c, cart.Item{ProductID: "p-2", Name: "Brigadeiro Gourmet 4 Leites", Slug: "brigadeiro-gourmet-4-leites", UnitPrice: 350}, 10)
	return &http.Cookie{Name: "ju_cart", Value: cart.Encode(c)}
}

func orderForm(method string) map[string]interface{} {
	return map[string]interface{}{
		"customerName":    "Maria Silva",
		"customerPhone":   "11999990000",
		"addressStreet":   "Rua dos Pinheiros",
		"addressNumber":   "100",
		"addressDistrict": "Pinheiros",
		"addressCity":     "São Paulo",
		"addressState":    "SP",
		"addressZip":      "05422-000",
		"paymentMethod":   "Pix",
		"shippingMethod":  method,
	}
}

func TestCheckoutHandler_Options(t *testing.T) {
	r, _ := newCheckoutRouter(t, testConfig())

	w := performRequest(r, http.MethodGet, "/shipping/methods", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var methods []shipping.MethodInfo
	decodeData(t, w, &methods)
	assert.Equal(t, shipping.Methods(), methods)

	w = performRequest(r, http.MethodGet, "/checkout/options", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var options struct {
		PaymentMethods []string               `json:"paymentMethods"`
		ShippingRates  checkout.ShippingRates `json:"shippingRates"`
	}
	decodeData(t, w, &options)
	assert.Equal(t, checkout.PaymentMethods(), options.PaymentMethods)
	assert.Equal(t, shipping.DefaultFee, options.ShippingRates.DefaultFee)
	assert.Contains(t, options.ShippingRates.Rules, shipping.Rule{City: "São Paulo", District: "Pinheiros", Fee: 900})
}

func TestCheckoutHandler_Quote(t *testing.T) {
	r, _ := newCheckoutRouter(t, testConfig())

	tests := []struct {
		name  string
		query string
		fee   int64
	}{
		{"known district", "city=sao+paulo&district=PINHEIROS", 900},
		{"city catch-all", "city=S%C3%A3o+Paulo&district=Moema", 1500},
		{"default method is delivery", "city=Belo+Horizonte&district=Savassi", shipping.DefaultFee},
		{"pickup is free", "city=S%C3%A3o+Paulo&district=Pinheiros&method=pickup", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(r, http.MethodGet, "/shipping/quote?"+tt.query, nil, cartCookie())
			require.Equal(t, http.StatusOK, w.Code)

			var quote checkout.Quote
			decodeData(t, w, &quote)
			assert.Equal(t, int64(12400), quote.Subtotal)
			assert.Equal(t, 11, quote.ItemCount)
			assert.Equal(t, tt.fee, quote.ShippingFee)
			assert.Equal(t, quote.Subtotal+tt.fee, quote.Total)
		})
	}

	w := performRequest(r, http.MethodGet, "/shipping/quote?method=drone", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Método de entrega inválido."}`, w.Body.String())
}

func TestCheckoutHandler_PlaceOrder(t *testing.T) {
	r, db := newCheckoutRouter(t, testConfig())

	w := performRequest(r, http.MethodPost, "/orders", orderForm("DELIVERY"), cartCookie())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		OrderID     string `json:"orderId"`
		OrderNumber string `json:"orderNumber"`
		Total       int64  `json:"total"`
		WhatsAppURL string `json:"whatsappUrl"`
	}
	decodeData(t, w, &data)
	assert.NotEmpty(t, data.OrderID)
	assert.True(t, strings.HasPrefix(data.OrderNumber, "JU-"), data.OrderNumber)
	assert.Equal(t, int64(12400+900), data.Total)

	link, err := url.Parse(data.WhatsAppURL)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", link.Host)
	assert.Equal(t, "/5531999990000", link.Path)
	assert.Contains(t, link.Query().Get("text"), "Maria Silva")

	cleared := responseCookie(w, "ju_cart")
	require.NotNil(t, cleared)
	assert.Equal(t, "", cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)

	var stored order.Order
	require.NoError(t, db.Preload("Items").First(&stored, "id = ?", data.OrderID).Error)
	assert.Equal(t, order.OrderStatusPending, stored.Status)
	assert.Len(t, stored.Items, 2)
}

func TestCheckoutHandler_PlaceOrderErrors(t *testing.T) {
	incomplete := orderForm("DELIVERY")
	delete(incomplete, "addressStreet")

	tests := []struct {
		name     string
		whatsapp string
		body     interface{}
		cookie   *http.Cookie
		status   int
		error    string
	}{
		{"empty cart", "5531999990000", orderForm("DELIVERY"), nil, http.StatusBadRequest, "Carrinho vazio."},
		{"incomplete address", "5531999990000", incomplete, cartCookie(), http.StatusBadRequest, "Endereço incompleto para entrega."},
		{"unknown shipping method", "5531999990000", orderForm("DRONE"), cartCookie(), http.StatusBadRequest, "Dados inválidos."},
		{"missing whatsapp number", "", orderForm("PICKUP"), cartCookie(), http.StatusInternalServerError, "WHATSAPP_NUMBER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Store.WhatsAppNumber = tt.whatsapp
			r, db := newCheckoutRouter(t, cfg)

			var cookies []*http.Cookie
			if tt.cookie != nil {
				cookies = append(cookies, tt.cookie)
			}
			w := performRequest(r, http.MethodPost, "/orders", tt.body, cookies...)

			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tt.error)

			var count int64
			require.NoError(t, db.Model(&order.Order{}).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}
