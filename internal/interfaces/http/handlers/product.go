// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jupani/storefront/internal/domain/product"
	"github.com/jupani/storefront/internal/interfaces/http/middleware"
	"github.com/sirupsen/logrus"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	productService  *product.Service
	categoryService *product.CategoryService
	logger          *logrus.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *product.Service, categoryService *product.CategoryService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		productService:  productService,
		categoryService: categoryService,
		logger:          logger,
	}
}

// ProductListQuery represents the GET /products query parameters.
// Flags are enabled by the value "1".
type ProductListQuery struct {
	Q               string `form:"q"`
	Category        string `form:"category"`
	Featured        string `form:"featured"`
	Favorite        string `form:"favorite"`
	Page            int    `form:"page"`
	PageSize        int    `form:"pageSize"`
	IncludeInactive string `form:"includeInactive"`
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var query ProductListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.productService.List(c.Request.Context(), &product.ListRequest{
		Query:           query.Q,
		Category:        query.Category,
		Featured:        query.Featured == "1",
		Favorite:        query.Favorite == "1",
		IncludeInactive: query.IncludeInactive == "1" && middleware.IsAdminFromContext(c),
		Page:            query.Page,
		PageSize:        query.PageSize,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    response,
	})
}

// GetFeaturedProducts handles GET /products/featured
func (h *ProductHandler) GetFeaturedProducts(c *gin.Context) {
	products, err := h.productService.Featured(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Featured products retrieved successfully",
		"data":    products,
	})
}

// GetFavoriteProducts handles GET /products/favorites
func (h *ProductHandler) GetFavoriteProducts(c *gin.Context) {
	products, err := h.productService.Favorites(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Favorite products retrieved successfully",
		"data":    products,
	})
}

// GetProduct handles GET /products/:id. Inactive products are visible to admins only.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.productService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if !p.Active && !middleware.IsAdminFromContext(c) {
		respondError(c, h.logger, product.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    p,
	})
}

// GetProductBySlug handles GET /products/slug/:slug
func (h *ProductHandler) GetProductBySlug(c *gin.Context) {
	p, err := h.productService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    p,
	})
}

// CreateProduct handles POST /products (admin)
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req product.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	p, err := h.productService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"data":    p,
	})
}

// UpdateProduct handles PATCH /products/:id (admin)
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req product.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	p, err := h.productService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"data":    p,
	})
}

// GetCategories handles GET /categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.GetCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    categories,
	})
}
