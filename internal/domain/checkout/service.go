// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/jupani/storefront/internal/config"
	"github.com/jupani/storefront/internal/domain/cart"
	"github.com/jupani/storefront/internal/domain/order"
	"github.com/jupani/storefront/internal/domain/shipping"
	"github.com/sirupsen/logrus"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrIncompleteAddress = errors.New("delivery address is incomplete")
)

// ValidationError reports an invalid checkout field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Notifier is told about every persisted order. Failures are logged and never
// undo the order.
type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, placed *order.Order, whatsappURL string) error
}

// Service turns a cart and a customer form into a persisted order and a WhatsApp link
type Service struct {
	orders    *order.Service
	shipping  *shipping.Table
	config    *config.Config
	logger    *logrus.Logger
	notifiers []Notifier
}

// NewService creates a new checkout service
func NewService(orders *order.Service, table *shipping.Table, cfg *config.Config, logger *logrus.Logger, notifiers ...Notifier) *Service {
	return &Service{
		orders:    orders,
		shipping:  table,
		config:    cfg,
		logger:    logger,
		notifiers: notifiers,
	}
}

// PlaceOrderRequest is the customer form submitted at checkout
type PlaceOrderRequest struct {
	CustomerName     string          `json:"customerName" binding:"required,min=2"`
	CustomerPhone    string          `json:"customerPhone" binding:"required,min=6"`
	AddressStreet    string          `json:"addressStreet"`
	AddressNumber    string          `json:"addressNumber"`
	AddressDistrict  string          `json:"addressDistrict"`
	AddressCity      string          `json:"addressCity"`
	AddressState     string          `json:"addressState"`
	AddressZip       string          `json:"addressZip"`
	AddressReference string          `json:"addressReference"`
	PaymentMethod    string          `json:"paymentMethod" binding:"required,min=2"`
	ShippingMethod   shipping.Method `json:"shippingMethod" binding:"required,oneof=DELIVERY PICKUP"`
}

// PlaceOrderResult is returned once the order is stored
type PlaceOrderResult struct {
	Order       *order.Order `json:"order"`
	Message     string       `json:"-"`
	WhatsAppURL string       `json:"whatsappUrl"`
}

// Quote is the price breakdown shown before the order is placed
type Quote struct {
	ItemCount   int             `json:"itemCount"`
	Subtotal    int64           `json:"subtotal"`
	ShippingFee int64           `json:"shippingFee"`
	Total       int64           `json:"total"`
	Method      shipping.Method `json:"shippingMethod"`
}

// ShippingRates is the delivery fee table published on the checkout page
type ShippingRates struct {
	Rules      []shipping.Rule `json:"rules"`
	DefaultFee int64           `json:"defaultFee"`
}

// ShippingRates returns a copy of the delivery fee table
func (s *Service) ShippingRates() ShippingRates {
	return ShippingRates{
		Rules:      s.shipping.Rules(),
		DefaultFee: s.shipping.DefaultFee(),
	}
}

// PaymentMethods lists the payment options offered to customers
func PaymentMethods() []string {
	return []string{"Pix", "Cartão de crédito", "Cartão de débito", "Dinheiro"}
}

// Validate checks the form against the cart without side effects
func (s *Service) Validate(c cart.Cart, req *PlaceOrderRequest) error {
	if c.IsEmpty() {
		return ErrEmptyCart
	}

	if utf8.RuneCountInString(req.CustomerName) < 2 {
		return &ValidationError{Field: "customerName", Reason: "must have at least 2 characters"}
	}
	if utf8.RuneCountInString(req.CustomerPhone) < 6 {
		return &ValidationError{Field: "customerPhone", Reason: "must have at least 6 characters"}
	}
	if utf8.RuneCountInString(req.PaymentMethod) < 2 {
		return &ValidationError{Field: "paymentMethod", Reason: "must have at least 2 characters"}
	}

	method, err := shipping.ParseMethod(string(req.ShippingMethod))
	if err != nil {
		return &ValidationError{Field: "shippingMethod", Reason: err.Error()}
	}

	if method == shipping.MethodDelivery {
		if req.AddressStreet == "" || req.AddressNumber == "" || req.AddressDistrict == "" ||
			req.AddressCity == "" || req.AddressState == "" || req.AddressZip == "" {
			return ErrIncompleteAddress
		}
	}

	return nil
}

// Quote prices the cart for the given destination
func (s *Service) Quote(c cart.Cart, city, district string, method shipping.Method) Quote {
	subtotal := cart.Subtotal(c)
	fee := s.shipping.Resolve(city, district, method)

	return Quote{
		ItemCount:   cart.ItemCount(c),
		Subtotal:    subtotal,
		ShippingFee: fee,
		Total:       subtotal + fee,
		Method:      method,
	}
}

// PlaceOrder validates the form, builds the WhatsApp message and link, and
// only then persists the order. A missing WhatsApp number aborts before
// anything is written.
func (s *Service) PlaceOrder(ctx context.Context, c cart.Cart, req *PlaceOrderRequest) (*PlaceOrderResult, error) {
	if err := s.Validate(c, req); err != nil {
		return nil, err
	}

	method, _ := shipping.ParseMethod(string(req.ShippingMethod))
	address := s.resolveAddress(req, method)
	quote := s.Quote(c, address.City, address.District, method)

	message := order.FormatMessage(order.Message{
		StoreName:     s.config.Store.Name,
		Items:         messageItems(c),
		Subtotal:      quote.Subtotal,
		ShippingFee:   quote.ShippingFee,
		Total:         quote.Total,
		PaymentMethod: req.PaymentMethod,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Address:       address.Format(),
		Reference:     req.AddressReference,
		Notes:         c.Notes,
	})

	link, err := order.BuildLink(message, s.config.Store.WhatsAppNumber)
	if err != nil {
		return nil, err
	}

	placed := &order.Order{
		Status:         order.OrderStatusPending,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Address:        address,
		PaymentMethod:  req.PaymentMethod,
		ShippingMethod: string(method),
		Notes:          optional(c.Notes),
		Subtotal:       quote.Subtotal,
		ShippingFee:    quote.ShippingFee,
		Total:          quote.Total,
		Items:          orderItems(c),
	}

	if err := s.orders.CreateOrder(ctx, placed); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":        placed.ID,
		"order_number":    placed.OrderNumber,
		"total":           placed.Total,
		"shipping_method": placed.ShippingMethod,
		"items":           len(placed.Items),
	}).Info("Order placed")

	s.notify(ctx, placed, link)

	return &PlaceOrderResult{
		Order:       placed,
		Message:     message,
		WhatsAppURL: link,
	}, nil
}

func (s *Service) notify(ctx context.Context, placed *order.Order, link string) {
	for _, n := range s.notifiers {
		if err := n.NotifyOrderPlaced(ctx, placed, link); err != nil {
			s.logger.WithFields(logrus.Fields{
				"order_id": placed.ID,
				"notifier": fmt.Sprintf("%T", n),
			}).WithError(err).Warn("Order notification failed")
		}
	}
}

func (s *Service) resolveAddress(req *PlaceOrderRequest, method shipping.Method) order.Address {
	if method == shipping.MethodPickup {
		pickup := s.config.Store.Pickup
		return order.Address{
			Street:    pickup.Street,
			Number:    pickup.Number,
			District:  pickup.District,
			City:      pickup.City,
			State:     pickup.State,
			Zip:       pickup.Zip,
			Reference: optional(req.AddressReference),
		}
	}

	return order.Address{
		Street:    req.AddressStreet,
		Number:    req.AddressNumber,
		District:  req.AddressDistrict,
		City:      req.AddressCity,
		State:     req.AddressState,
		Zip:       req.AddressZip,
		Reference: optional(req.AddressReference),
	}
}

func messageItems(c cart.Cart) []order.MessageItem {
	items := make([]order.MessageItem, 0, len(c.Items))
	for _, item := range c.Items {
		notes := ""
		if item.ItemNotes != nil {
			notes = *item.ItemNotes
		}
		items = append(items, order.MessageItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Notes:     notes,
		})
	}
	return items
}

func orderItems(c cart.Cart) []order.OrderItem {
	items := make([]order.OrderItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, order.OrderItem{
			ProductID:           item.ProductID,
			ProductSnapshotName: item.Name,
			UnitPrice:           item.UnitPrice,
			Quantity:            item.Quantity,
			ItemNotes:           item.ItemNotes,
		})
	}
	return items
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
