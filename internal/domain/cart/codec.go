// internal/domain/cart/codec.go
package cart

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SchemaVersion is written into every encoded token
const SchemaVersion = 1

var errInvalidToken = errors.New("invalid cart token")

type tokenDocument struct {
	Version   *int            `json:"v,omitempty"`
	Items     *[]tokenItem    `json:"items"`
	Notes     json.RawMessage `json:"notes,omitempty"`
	UpdatedAt *string         `json:"updatedAt"`
}

type tokenItem struct {
	ProductID *string         `json:"productId"`
	Name      *string         `json:"name"`
	Slug      *string         `json:"slug"`
	Image     *string         `json:"image"`
	UnitPrice json.RawMessage `json:"unitPrice"`
	Quantity  json.RawMessage `json:"quantity"`
	ItemNotes *string         `json:"itemNotes,omitempty"`
}

type encodedDocument struct {
	Version   int    `json:"v"`
	Items     []Item `json:"items"`
	Notes     string `json:"notes"`
	UpdatedAt string `json:"updatedAt"`
}

// Encode serializes the cart into an opaque, URL-safe token
func Encode(c Cart) string {
	doc := encodedDocument{
		Version:   SchemaVersion,
		Items:     c.Items,
		Notes:     c.Notes,
		UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if doc.Items == nil {
		doc.Items = []Item{}
	}

	// Marshal cannot fail: the document only holds strings and integers.
	payload, _ := json.Marshal(doc)
	return base64.RawURLEncoding.EncodeToString(payload)
}

// Decode parses a token produced by Encode. Anything unreadable or
// schema-invalid yields an empty cart; Decode never fails.
func Decode(token string) Cart {
	c, err := decode(token)
	if err != nil {
		return New()
	}
	return c
}

func decode(token string) (Cart, error) {
	token = strings.TrimRight(strings.TrimSpace(token), "=")
	if token == "" {
		return Cart{}, errInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cart{}, fmt.Errorf("%w: %v", errInvalidToken, err)
	}

	var doc tokenDocument
	if err := json.NewDecoder(bytes.NewReader(payload)).Decode(&doc); err != nil {
		return Cart{}, fmt.Errorf("%w: %v", errInvalidToken, err)
	}

	// Tokens minted before the version field existed are version 1.
	if doc.Version != nil && *doc.Version != SchemaVersion {
		return Cart{}, fmt.Errorf("%w: unsupported version %d", errInvalidToken, *doc.Version)
	}

	if doc.Items == nil || doc.UpdatedAt == nil {
		return Cart{}, errInvalidToken
	}

	updatedAt, err := time.Parse(time.RFC3339Nano, *doc.UpdatedAt)
	if err != nil {
		return Cart{}, fmt.Errorf("%w: %v", errInvalidToken, err)
	}

	notes, err := decodeNotes(doc.Notes)
	if err != nil {
		return Cart{}, err
	}

	items := make([]Item, 0, len(*doc.Items))
	seen := make(map[string]struct{}, len(*doc.Items))
	for _, raw := range *doc.Items {
		item, err := raw.toItem()
		if err != nil {
			return Cart{}, err
		}
		if _, dup := seen[item.ProductID]; dup {
			return Cart{}, fmt.Errorf("%w: duplicate product %s", errInvalidToken, item.ProductID)
		}
		seen[item.ProductID] = struct{}{}
		items = append(items, item)
	}

	return Cart{
		Items:     items,
		Notes:     notes,
		UpdatedAt: updatedAt.UTC(),
	}, nil
}

func decodeNotes(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	if string(raw) == "null" {
		return "", fmt.Errorf("%w: notes must be a string", errInvalidToken)
	}
	var notes string
	if err := json.Unmarshal(raw, &notes); err != nil {
		return "", fmt.Errorf("%w: notes: %v", errInvalidToken, err)
	}
	return notes, nil
}

func (t tokenItem) toItem() (Item, error) {
	if t.ProductID == nil || t.Name == nil || t.Slug == nil {
		return Item{}, fmt.Errorf("%w: item is missing identity fields", errInvalidToken)
	}

	unitPrice, err := parseInteger(t.UnitPrice)
	if err != nil || unitPrice < 0 {
		return Item{}, fmt.Errorf("%w: unitPrice must be a non-negative integer", errInvalidToken)
	}

	quantity, err := parseInteger(t.Quantity)
	if err != nil || quantity < 1 || quantity > MaxQuantity {
		return Item{}, fmt.Errorf("%w: quantity must be an integer between 1 and %d", errInvalidToken, MaxQuantity)
	}

	return Item{
		ProductID: *t.ProductID,
		Name:      *t.Name,
		Slug:      *t.Slug,
		Image:     t.Image,
		UnitPrice: unitPrice,
		Quantity:  int(quantity),
		ItemNotes: t.ItemNotes,
	}, nil
}

// parseInteger accepts bare JSON integers only: strings, fractions and null are rejected.
func parseInteger(raw json.RawMessage) (int64, error) {
	return strconv.ParseInt(string(bytes.TrimSpace(raw)), 10, 64)
}
