package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jupani/storefront/internal/domain/product"
	"github.com/jupani/storefront/internal/interfaces/http/middleware"
	"github.com/jupani/storefront/internal/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type productFixture struct {
	router      *gin.Engine
	db          *gorm.DB
	adminCookie *http.Cookie
}

func newProductFixture(t *testing.T) productFixture {
	t.Helper()

	cfg := testConfig()
	db := initTestDB(t)
	sessions := auth.NewSessionManager(cfg)
	h := NewProductHandler(product.NewService(db, nil, cfg, quietLogger()), product.NewCategoryService(db), quietLogger())

	r := gin.New()
	products := r.Group("/products")
	products.Use(middleware.OptionalAdminMiddleware(cfg, sessions))
	products.GET("", h.GetProducts)
	products.GET("/featured", h.GetFeaturedProducts)
	products.GET("/favorites", h.GetFavoriteProducts)
	products.GET("/slug/:slug", h.GetProductBySlug)
	products.GET("/:id", h.GetProduct)
	products.POST("", middleware.AdminMiddleware(cfg, sessions), h.CreateProduct)
	products.PATCH("/:id", middleware.AdminMiddleware(cfg, sessions), h.UpdateProduct)
	r.GET("/categories", h.GetCategories)

	token, _, err := sessions.Issue()
	require.NoError(t, err)

	return productFixture{
		router:      r,
		db:          db,
		adminCookie: &http.Cookie{Name: cfg.Store.AdminCookieName, Value: token},
	}
}

func (f productFixture) insert(t *testing.T, p product.Product) product.Product {
	t.Helper()
	if p.Description == "" {
		p.Description = "Feito artesanalmente no ateliê."
	}
	if p.Price == 0 {
		p.Price = 5000
	}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func TestProductHandler_ListHonoursIncludeInactiveForAdminsOnly(t *testing.T) {
	f := newProductFixture(t)
	f.insert(t, product.Product{Name: "Bolo de Cenoura", Slug: "bolo-de-cenoura", Category: "bolos", Active: true, PopularityScore: 80})
	f.insert(t, product.Product{Name: "Torta Antiga", Slug: "torta-antiga", Category: "tortas", Active: false})

	w := performRequest(f.router, http.MethodGet, "/products?includeInactive=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp product.ListResponse
	decodeData(t, w, &resp)
	assert.Equal(t, int64(1), resp.Total)

	w = performRequest(f.router, http.MethodGet, "/products?includeInactive=1", nil, f.adminCookie)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &resp)
	assert.Equal(t, int64(2), resp.Total)

	w = performRequest(f.router, http.MethodGet, "/products?includeInactive=true", nil, f.adminCookie)
	decodeData(t, w, &resp)
	assert.Equal(t, int64(1), resp.Total)
}

func TestProductHandler_ListFiltersAndPagination(t *testing.T) {
	f := newProductFixture(t)
	f.insert(t, product.Product{Name: "Bolo Red Velvet", Slug: "bolo-red-velvet", Category: "bolos", Active: true, IsFeatured: true, PopularityScore: 92})
	f.insert(t, product.Product{Name: "Brownie Belga", Slug: "brownie-belga", Category: "doces", Active: true, IsFavorite: true, PopularityScore: 90})
	f.insert(t, product.Product{Name: "Brigadeiro", Slug: "brigadeiro", Category: "doces", Active: true, IsFeatured: true, PopularityScore: 98})

	tests := []struct {
		query string
		want  []string
	}{
		{"category=doces", []string{"brigadeiro", "brownie-belga"}},
		{"category=all", []string{"brigadeiro", "bolo-red-velvet", "brownie-belga"}},
		{"featured=1", []string{"brigadeiro", "bolo-red-velvet"}},
		{"favorite=1", []string{"brownie-belga"}},
		{"q=BELGA", []string{"brownie-belga"}},
		{"page=2&pageSize=2", []string{"brownie-belga"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := performRequest(f.router, http.MethodGet, "/products?"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)

			var resp product.ListResponse
			decodeData(t, w, &resp)
			slugs := make([]string, 0, len(resp.Items))
			for _, p := range resp.Items {
				slugs = append(slugs, p.Slug)
			}
			assert.Equal(t, tt.want, slugs)
		})
	}

	w := performRequest(f.router, http.MethodGet, "/products?page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_Showcases(t *testing.T) {
	f := newProductFixture(t)
	f.insert(t, product.Product{Name: "Bolo Red Velvet", Slug: "bolo-red-velvet", Category: "bolos", Active: true, IsFeatured: true, IsFavorite: true})
	f.insert(t, product.Product{Name: "Kit Festa", Slug: "kit-festa", Category: "kits", Active: false, IsFeatured: true})

	for _, path := range []string{"/products/featured", "/products/favorites"} {
		w := performRequest(f.router, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, path)

		var items []product.Product
		decodeData(t, w, &items)
		require.Len(t, items, 1, path)
		assert.Equal(t, "bolo-red-velvet", items[0].Slug)
	}
}

func TestProductHandler_GetProduct(t *testing.T) {
	f := newProductFixture(t)
	active := f.insert(t, product.Product{Name: "Quiche", Slug: "quiche", Category: "salgados", Active: true})
	hidden := f.insert(t, product.Product{Name: "Empadão", Slug: "empadao", Category: "salgados", Active: false})

	w := performRequest(f.router, http.MethodGet, "/products/"+active.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got product.Product
	decodeData(t, w, &got)
	assert.Equal(t, "quiche", got.Slug)

	w = performRequest(f.router, http.MethodGet, "/products/slug/quiche", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(f.router, http.MethodGet, "/products/"+hidden.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Produto não encontrado."}`, w.Body.String())

	w = performRequest(f.router, http.MethodGet, "/products/"+hidden.ID, nil, f.adminCookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(f.router, http.MethodGet, "/products/slug/empadao", nil, f.adminCookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(f.router, http.MethodGet, "/products/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_CreateAndUpdate(t *testing.T) {
	f := newProductFixture(t)

	body := map[string]interface{}{
		"name":        "Pão de Mel",
		"description": "Pão de mel recheado com doce de leite.",
		"price":       1200,
		"category":    "doces",
	}

	w := performRequest(f.router, http.MethodPost, "/products", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(f.router, http.MethodPost, "/products", body, f.adminCookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created product.Product
	decodeData(t, w, &created)
	assert.Equal(t, "pao-de-mel", created.Slug)
	assert.Equal(t, []string{product.PlaceholderImage}, created.Images)
	assert.Equal(t, product.PendingInfo, created.Ingredients)
	assert.True(t, created.Active)

	w = performRequest(f.router, http.MethodPost, "/products", body, f.adminCookie)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = performRequest(f.router, http.MethodPost, "/products", map[string]interface{}{"name": "X"}, f.adminCookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(f.router, http.MethodPost, "/products", map[string]interface{}{
		"name":        "!!",
		"description": "Produto sem letras no nome.",
		"price":       1000,
		"category":    "doces",
	}, f.adminCookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Slug inválida: use letras ou números."}`, w.Body.String())

	w = performRequest(f.router, http.MethodPatch, "/products/"+created.ID, map[string]interface{}{
		"price":    1500,
		"calories": nil,
		"active":   false,
	}, f.adminCookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated product.Product
	decodeData(t, w, &updated)
	assert.Equal(t, int64(1500), updated.Price)
	assert.False(t, updated.Active)
	assert.Nil(t, updated.Calories)
	assert.Equal(t, "Pão de Mel", updated.Name)

	w = performRequest(f.router, http.MethodPatch, "/products/missing", map[string]interface{}{"price": 1}, f.adminCookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_GetCategories(t *testing.T) {
	f := newProductFixture(t)
	f.insert(t, product.Product{Name: "Pão Sourdough", Slug: "pao-sourdough", Category: "pães artesanais", Active: true})

	w := performRequest(f.router, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var categories []product.Category
	decodeData(t, w, &categories)
	assert.Contains(t, categories, product.Category{Value: "bolos", Label: "Bolos"})
	assert.Contains(t, categories, product.Category{Value: "pães artesanais", Label: "Pães Artesanais"})
}
