package checkout

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jupani/storefront/internal/config"
	"github.com/jupani/storefront/internal/domain/cart"
	"github.com/jupani/storefront/internal/domain/order"
	"github.com/jupani/storefront/internal/domain/shipping"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingNotifier struct {
	calls []string
	err   error
}

func (n *recordingNotifier) NotifyOrderPlaced(_ context.Context, placed *order.Order, link string) error {
	n.calls = append(n.calls, placed.ID+" "+link)
	return n.err
}

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&order.Order{}, &order.OrderItem{}, &order.OrderStatusHistory{}))
	return db
}

func testConfig(whatsapp string) *config.Config {
	return &config.Config{
		Store: config.StoreConfig{
			Name:           "Ju.pani",
			WhatsAppNumber: whatsapp,
			Timezone:       "UTC",
			Pickup: config.PickupAddress{
				Street:   "Retirada no ateliê Ju.pani",
				Number:   "-",
				District: "Retirada",
				City:     "Minas Gerais",
				State:    "MG",
				Zip:      "35536-000",
			},
		},
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fixture struct {
	svc      *Service
	db       *gorm.DB
	notifier *recordingNotifier
}

func newFixture(t *testing.T, whatsapp string) fixture {
	db := initTestDB(t)
	cfg := testConfig(whatsapp)
	n := &recordingNotifier{}
	svc := NewService(order.NewService(db, cfg), shipping.DefaultTable(), cfg, quietLogger(), n)
	return fixture{svc: svc, db: db, notifier: n}
}

func filledCart() cart.Cart {
	notes := "escrever Parabéns"
	c := cart.New()
	c = cart.AddItem(c, cart.Item{ProductID: "p-1", Name: "Bolo Red Velvet da Casa", Slug: "bolo-red-velvet-da-casa", UnitPrice: 8900, ItemNotes: &notes}, 1)
	c = cart.AddItem(c, cart.Item{ProductID: "p-2", Name: "Brigadeiro Gourmet", Slug: "brigadeiro-gourmet", UnitPrice: 350}, 10)
	return cart.SetNotes(c, "Entregar após as 14h")
}

func deliveryRequest() *PlaceOrderRequest {
	return &PlaceOrderRequest{
		CustomerName:     "Maria Silva",
		CustomerPhone:    "11999990000",
		AddressStreet:    "Rua dos Pinheiros",
		AddressNumber:    "100",
		AddressDistrict:  "Pinheiros",
		AddressCity:      "São Paulo",
		AddressState:     "SP",
		AddressZip:       "05422-000",
		AddressReference: "Portão azul",
		PaymentMethod:    "Pix",
		ShippingMethod:   shipping.MethodDelivery,
	}
}

func countOrders(t *testing.T, db *gorm.DB) int64 {
	var n int64
	require.NoError(t, db.Model(&order.Order{}).Count(&n).Error)
	return n
}

func TestPlaceOrder_Delivery(t *testing.T) {
	f := newFixture(t, "5531999990000")

	result, err := f.svc.PlaceOrder(context.Background(), filledCart(), deliveryRequest())
	require.NoError(t, err)

	placed := result.Order
	assert.Equal(t, int64(8900+3500), placed.Subtotal)
	assert.Equal(t, int64(900), placed.ShippingFee)
	assert.Equal(t, int64(8900+3500+900), placed.Total)
	assert.Equal(t, order.OrderStatusPending, placed.Status)
	require.NotNil(t, placed.Notes)
	assert.Equal(t, "Entregar após as 14h", *placed.Notes)
	require.Len(t, placed.Items, 2)
	assert.Equal(t, "Bolo Red Velvet da Casa", placed.Items[0].ProductSnapshotName)

	assert.True(t, strings.HasPrefix(result.WhatsAppURL, "https://wa.me/5531999990000?text="))
	parsed, err := url.Parse(result.WhatsAppURL)
	require.NoError(t, err)
	text := parsed.Query().Get("text")
	assert.Equal(t, result.Message, text)
	assert.Contains(t, text, "Endereço: Rua dos Pinheiros, 100 - Pinheiros, São Paulo / SP - 05422-000")
	assert.Contains(t, text, "- 1x Bolo Red Velvet da Casa (R$ 89,00) | Obs: escrever Parabéns")
	assert.Contains(t, text, "Frete: R$ 9,00")
	assert.Contains(t, text, "Referência: Portão azul")

	assert.Equal(t, int64(1), countOrders(t, f.db))
	assert.Len(t, f.notifier.calls, 1)
}

func TestPlaceOrder_PickupUsesAtelierAddress(t *testing.T) {
	f := newFixture(t, "5531999990000")
	req := &PlaceOrderRequest{
		CustomerName:   "João",
		CustomerPhone:  "31988887777",
		PaymentMethod:  "Dinheiro",
		ShippingMethod: shipping.MethodPickup,
	}

	result, err := f.svc.PlaceOrder(context.Background(), filledCart(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.Order.ShippingFee)
	assert.Equal(t, "Retirada no ateliê Ju.pani", result.Order.Address.Street)
	assert.Equal(t, "35536-000", result.Order.Address.Zip)
	assert.Contains(t, result.Message, "Endereço: Retirada no ateliê Ju.pani, - - Retirada, Minas Gerais / MG - 35536-000")
}

func TestPlaceOrder_ValidationFailures(t *testing.T) {
	f := newFixture(t, "5531999990000")
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, cart.New(), deliveryRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)

	incomplete := deliveryRequest()
	incomplete.AddressZip = ""
	_, err = f.svc.PlaceOrder(ctx, filledCart(), incomplete)
	assert.ErrorIs(t, err, ErrIncompleteAddress)

	shortName := deliveryRequest()
	shortName.CustomerName = "M"
	_, err = f.svc.PlaceOrder(ctx, filledCart(), shortName)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "customerName", vErr.Field)

	badMethod := deliveryRequest()
	badMethod.ShippingMethod = "DRONE"
	_, err = f.svc.PlaceOrder(ctx, filledCart(), badMethod)
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "shippingMethod", vErr.Field)

	assert.Equal(t, int64(0), countOrders(t, f.db))
	assert.Empty(t, f.notifier.calls)
}

func TestPlaceOrder_MissingWhatsAppNumberPersistsNothing(t *testing.T) {
	f := newFixture(t, "")

	_, err := f.svc.PlaceOrder(context.Background(), filledCart(), deliveryRequest())

	var cfgErr *order.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, int64(0), countOrders(t, f.db))
	assert.Empty(t, f.notifier.calls)
}

func TestPlaceOrder_NotifierFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(t, "5531999990000")
	f.notifier.err = errors.New("broker down")

	result, err := f.svc.PlaceOrder(context.Background(), filledCart(), deliveryRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Order.ID)
	assert.Equal(t, int64(1), countOrders(t, f.db))
}

func TestQuote(t *testing.T) {
	f := newFixture(t, "5531999990000")

	q := f.svc.Quote(filledCart(), "sao paulo", "vila madalena", shipping.MethodDelivery)
	assert.Equal(t, Quote{ItemCount: 11, Subtotal: 12400, ShippingFee: 1000, Total: 13400, Method: shipping.MethodDelivery}, q)

	q = f.svc.Quote(filledCart(), "", "", shipping.MethodPickup)
	assert.Equal(t, int64(0), q.ShippingFee)
	assert.Equal(t, int64(12400), q.Total)
}

func TestPaymentMethods(t *testing.T) {
	assert.Equal(t, "Pix", PaymentMethods()[0])
}

func TestShippingRates(t *testing.T) {
	f := newFixture(t, "5531999990000")

	rates := f.svc.ShippingRates()
	assert.Equal(t, shipping.DefaultFee, rates.DefaultFee)
	require.Len(t, rates.Rules, 4)
	assert.Equal(t, shipping.Rule{City: "São Paulo", District: "Pinheiros", Fee: 900}, rates.Rules[0])

	rates.Rules[0].Fee = 1
	assert.Equal(t, int64(900), f.svc.ShippingRates().Rules[0].Fee, "callers get a copy")
}
