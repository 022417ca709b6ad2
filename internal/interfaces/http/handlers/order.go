// internal/interfaces/http/handlers/order.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jupani/storefront/internal/domain/order"
	"github.com/jupani/storefront/internal/interfaces/http/middleware"
	"github.com/jupani/storefront/internal/pkg/pdf"
	"github.com/sirupsen/logrus"
)

// StatusPublisher is told about admin status changes
type StatusPublisher interface {
	PublishStatusChanged(ctx context.Context, changed *order.Order, from order.OrderStatus) error
}

// OrderHandler handles the admin order endpoints
type OrderHandler struct {
	orderService *order.Service
	pdfService   *pdf.Service
	publisher    StatusPublisher
	logger       *logrus.Logger
}

// NewOrderHandler creates a new order handler. publisher may be nil.
func NewOrderHandler(orderService *order.Service, pdfService *pdf.Service, publisher StatusPublisher, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		pdfService:   pdfService,
		publisher:    publisher,
		logger:       logger,
	}
}

// UpdateStatusRequest is the payload of PATCH /admin/orders/:id/status
type UpdateStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment" binding:"max=500"`
}

// GetDashboard handles GET /admin/orders
func (h *OrderHandler) GetDashboard(c *gin.Context) {
	var req order.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.orderService.Dashboard(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    response,
	})
}

// GetOrder handles GET /admin/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// UpdateOrderStatus handles PATCH /admin/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx := c.Request.Context()
	previous, err := h.orderService.GetOrder(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	updated, err := h.orderService.UpdateOrderStatus(ctx, previous.ID, status, req.Comment)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"order_id":   updated.ID,
		"from":       previous.Status,
		"to":         updated.Status,
		"session_id": c.GetString(middleware.AdminSessionIDKey),
	}).Info("Order status updated")

	if h.publisher != nil && previous.Status != updated.Status {
		if err := h.publisher.PublishStatusChanged(ctx, updated, previous.Status); err != nil {
			h.logger.WithError(err).WithField("order_id", updated.ID).Warn("Failed to publish status change")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    updated,
	})
}

// GetReceipt handles GET /admin/orders/:id/receipt
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	o, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if c.Query("format") == "html" {
		html, err := h.pdfService.ReceiptHTML(o)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.Header("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}

	buf, err := h.pdfService.GenerateReceipt(o)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=pedido-%s.pdf", o.OrderNumber))
	c.Header("Content-Length", strconv.Itoa(buf.Len()))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
