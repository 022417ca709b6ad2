// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/jupani/storefront/internal/config"
	"github.com/jupani/storefront/internal/domain/cart"
)

// CartHandler handles the cookie-backed cart endpoints
type CartHandler struct {
	config *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cfg *config.Config) *CartHandler {
	return &CartHandler{config: cfg}
}

// AddItemRequest is the payload of POST /cart
type AddItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Slug      string  `json:"slug" binding:"required"`
	Image     *string `json:"image"`
	UnitPrice *int64  `json:"unitPrice" binding:"required,gte=0,max=100000000"`
	Quantity  int     `json:"quantity" binding:"required,gte=1,max=999"`
	ItemNotes *string `json:"itemNotes"`
}

// UpdateItemRequest is the payload of PATCH /cart without "notes"
type UpdateItemRequest struct {
	ProductID string              `json:"productId" binding:"required"`
	Quantity  int                 `json:"quantity" binding:"required,gte=1,max=999"`
	ItemNotes cart.OptionalString `json:"itemNotes"`
}

// SetNotesRequest is the payload of PATCH /cart with "notes"
type SetNotesRequest struct {
	Notes *string `json:"notes" binding:"required"`
}

// DeleteRequest is the payload of DELETE /cart
type DeleteRequest struct {
	ProductID string `json:"productId"`
	Clear     bool   `json:"clear"`
}

// CartResponse is the cart plus its computed totals
type CartResponse struct {
	Cart      cart.Cart `json:"cart"`
	Subtotal  int64     `json:"subtotal"`
	ItemCount int       `json:"itemCount"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    newCartResponse(h.readCart(c)),
	})
}

// AddItem handles POST /cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated := cart.AddItem(h.readCart(c), cart.Item{
		ProductID: req.ProductID,
		Name:      req.Name,
		Slug:      req.Slug,
		Image:     req.Image,
		UnitPrice: *req.UnitPrice,
		ItemNotes: req.ItemNotes,
	}, req.Quantity)
	h.writeCart(c, updated)

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    newCartResponse(updated),
	})
}

// UpdateCart handles PATCH /cart. A body carrying "notes" sets the cart
// notes; any other body updates one line.
func (h *CartHandler) UpdateCart(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondBindError(c, err)
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		respondBindError(c, err)
		return
	}

	current := h.readCart(c)
	var updated cart.Cart

	if _, ok := fields["notes"]; ok {
		var req SetNotesRequest
		if err := decodeAndValidate(body, &req); err != nil {
			respondBindError(c, err)
			return
		}
		updated = cart.SetNotes(current, *req.Notes)
	} else {
		var req UpdateItemRequest
		if err := decodeAndValidate(body, &req); err != nil {
			respondBindError(c, err)
			return
		}
		updated = cart.UpdateItem(current, req.ProductID, req.Quantity, req.ItemNotes)
	}
	h.writeCart(c, updated)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated successfully",
		"data":    newCartResponse(updated),
	})
}

// DeleteFromCart handles DELETE /cart
func (h *CartHandler) DeleteFromCart(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var updated cart.Cart
	switch {
	case req.Clear:
		updated = cart.Clear()
	case req.ProductID == "":
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Produto não informado.",
		})
		return
	default:
		updated = cart.RemoveItem(h.readCart(c), req.ProductID)
	}
	h.writeCart(c, updated)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated successfully",
		"data":    newCartResponse(updated),
	})
}

func (h *CartHandler) readCart(c *gin.Context) cart.Cart {
	return readCartCookie(c, h.config)
}

func (h *CartHandler) writeCart(c *gin.Context, updated cart.Cart) {
	setCookie(c, h.config, h.config.Store.CartCookieName, cart.Encode(updated), int(h.config.Store.CartCookieMaxAge.Seconds()))
}

// readCartCookie decodes the cart cookie. A missing or corrupt cookie is an empty cart.
func readCartCookie(c *gin.Context, cfg *config.Config) cart.Cart {
	token, err := c.Cookie(cfg.Store.CartCookieName)
	if err != nil {
		return cart.New()
	}
	return cart.Decode(token)
}

// setCookie writes an httpOnly, SameSite=Lax cookie scoped to the whole site.
// A negative maxAge deletes the cookie.
func setCookie(c *gin.Context, cfg *config.Config, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", cfg.Store.SecureCookies, true)
}

func decodeAndValidate(body []byte, dest interface{}) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(dest)
}

func newCartResponse(c cart.Cart) CartResponse {
	return CartResponse{
		Cart:      c,
		Subtotal:  cart.Subtotal(c),
		ItemCount: cart.ItemCount(c),
	}
}
