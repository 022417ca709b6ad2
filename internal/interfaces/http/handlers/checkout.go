// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jupani/storefront/internal/config"
	"github.com/jupani/storefront/internal/domain/checkout"
	"github.com/jupani/storefront/internal/domain/shipping"
	"github.com/sirupsen/logrus"
)

// CheckoutHandler handles shipping quotes and order placement
type CheckoutHandler struct {
	checkoutService *checkout.Service
	config          *config.Config
	logger          *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, cfg *config.Config, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		config:          cfg,
		logger:          logger,
	}
}

// QuoteRequest represents the shipping quote query parameters
type QuoteRequest struct {
	City     string `form:"city"`
	District string `form:"district"`
	Method   string `form:"method"`
}

// GetShippingMethods handles GET /shipping/methods
func (h *CheckoutHandler) GetShippingMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping methods retrieved successfully",
		"data":    shipping.Methods(),
	})
}

// GetCheckoutOptions handles GET /checkout/options
func (h *CheckoutHandler) GetCheckoutOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout options retrieved successfully",
		"data": gin.H{
			"paymentMethods":  checkout.PaymentMethods(),
			"shippingMethods": shipping.Methods(),
			"shippingRates":   h.checkoutService.ShippingRates(),
		},
	})
}

// GetQuote handles GET /shipping/quote. It prices the current cart for the
// given destination.
func (h *CheckoutHandler) GetQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	method := shipping.MethodDelivery
	if req.Method != "" {
		parsed, err := shipping.ParseMethod(req.Method)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Método de entrega inválido.",
			})
			return
		}
		method = parsed
	}

	quote := h.checkoutService.Quote(readCartCookie(c, h.config), req.City, req.District, method)

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping quote calculated successfully",
		"data":    quote,
	})
}

// PlaceOrder handles POST /orders
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req checkout.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.checkoutService.PlaceOrder(c.Request.Context(), readCartCookie(c, h.config), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	setCookie(c, h.config, h.config.Store.CartCookieName, "", -1)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data": gin.H{
			"orderId":     result.Order.ID,
			"orderNumber": result.Order.OrderNumber,
			"total":       result.Order.Total,
			"whatsappUrl": result.WhatsAppURL,
		},
	})
}
