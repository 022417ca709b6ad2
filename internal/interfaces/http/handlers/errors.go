// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jupani/storefront/internal/domain/checkout"
	"github.com/jupani/storefront/internal/domain/order"
	"github.com/jupani/storefront/internal/domain/product"
	"github.com/jupani/storefront/internal/interfaces/http/middleware"
	"github.com/jupani/storefront/internal/pkg/auth"
	"github.com/sirupsen/logrus"
)

const (
	msgInvalidRequest = "Dados inválidos."
	msgInternal       = "Erro interno. Tente novamente."
)

var errorResponses = []struct {
	err     error
	status  int
	message string
}{
	{checkout.ErrEmptyCart, http.StatusBadRequest, "Carrinho vazio."},
	{checkout.ErrIncompleteAddress, http.StatusBadRequest, "Endereço incompleto para entrega."},
	{product.ErrNotFound, http.StatusNotFound, "Produto não encontrado."},
	{product.ErrSlugTaken, http.StatusConflict, "Já existe um produto com esta slug."},
	{product.ErrInvalidSlug, http.StatusBadRequest, "Slug inválida: use letras ou números."},
	{order.ErrNotFound, http.StatusNotFound, "Pedido não encontrado."},
	{order.ErrInvalidStatus, http.StatusBadRequest, "Status inválido."},
	{order.ErrInvalidRange, http.StatusBadRequest, "Datas inválidas para o período."},
	{order.ErrFinalStatus, http.StatusConflict, "Pedidos cancelados não podem ser alterados."},
	{auth.ErrInvalidPassword, http.StatusUnauthorized, "Senha inválida."},
	{auth.ErrPasswordNotConfigured, http.StatusInternalServerError, "ADMIN_PASSWORD não configurada."},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "Tempo limite excedido."},
}

// respondError maps domain errors to a status code and a customer-facing message
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var validationErr *checkout.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": msgInvalidRequest,
			"field": validationErr.Field,
		})
		return
	}

	var configErr *order.ConfigurationError
	if errors.As(err, &configErr) {
		logger.WithField("setting", configErr.Setting).Error("Missing configuration")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": configErr.Error(),
		})
		return
	}

	for _, r := range errorResponses {
		if errors.Is(err, r.err) {
			c.JSON(r.status, gin.H{
				"error": r.message,
			})
			return
		}
	}

	logger.WithFields(logrus.Fields{
		"request_id": c.GetString(middleware.RequestIDKey),
		"path":       c.FullPath(),
	}).WithError(err).Error("Request failed")

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": msgInternal,
	})
}

// respondBindError reports a malformed or invalid request body
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   msgInvalidRequest,
		"details": err.Error(),
	})
}
