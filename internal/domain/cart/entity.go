// internal/domain/cart/entity.go
package cart

import (
	"encoding/json"
	"time"
)

// MaxQuantity caps a single cart line. Tokens carrying more are rejected.
const MaxQuantity = 999

// Item is one line of the cart. ProductID is the line identity.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Image     *string `json:"image"`
	UnitPrice int64   `json:"unitPrice"` // centavos
	Quantity  int     `json:"quantity"`
	ItemNotes *string `json:"itemNotes,omitempty"`
}

// LineTotal returns unit price times quantity
func (i Item) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Cart is the session cart carried in the client cookie
type Cart struct {
	Items     []Item    `json:"items"`
	Notes     string    `json:"notes"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New returns an empty cart stamped with the current time
func New() Cart {
	return Cart{
		Items:     []Item{},
		Notes:     "",
		UpdatedAt: now(),
	}
}

// IsEmpty reports whether the cart has no lines
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Find returns the line for productID, if present
func (c Cart) Find(productID string) (Item, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return Item{}, false
}

// Subtotal sums the line totals in centavos
func Subtotal(c Cart) int64 {
	var total int64
	for _, item := range c.Items {
		total += item.LineTotal()
	}
	return total
}

// ItemCount sums the quantities of all lines
func ItemCount(c Cart) int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// OptionalString tells an omitted JSON field apart from an explicit null or string.
// Set is true whenever the field was present in the payload.
type OptionalString struct {
	Set   bool
	Value *string
}

// Some returns a set OptionalString holding s
func Some(s string) OptionalString {
	return OptionalString{Set: true, Value: &s}
}

// UnmarshalJSON implements json.Unmarshaler
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

var now = func() time.Time {
	return time.Now().UTC()
}
