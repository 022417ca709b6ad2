// internal/domain/cart/mutator.go
package cart

// All mutators are copy-on-write: the cart passed in is never modified.

// AddItem adds quantity units of item. An existing line for the same product
// has its quantity increased, and its notes replaced only when item carries notes.
// Line quantities saturate at MaxQuantity.
func AddItem(c Cart, item Item, quantity int) Cart {
	quantity = clampQuantity(quantity)

	next := c.clone()
	for i := range next.Items {
		if next.Items[i].ProductID == item.ProductID {
			next.Items[i].Quantity = addQuantity(next.Items[i].Quantity, quantity)
			if item.ItemNotes != nil {
				next.Items[i].ItemNotes = item.ItemNotes
			}
			next.UpdatedAt = now()
			return next
		}
	}

	item.Quantity = quantity
	next.Items = append(next.Items, item)
	next.UpdatedAt = now()
	return next
}

// UpdateItem sets the quantity of an existing line, capped at MaxQuantity.
// Notes are replaced only when notes.Set is true. A quantity of zero or less
// removes the line. Unknown products leave the cart untouched.
func UpdateItem(c Cart, productID string, quantity int, notes OptionalString) Cart {
	if _, ok := c.Find(productID); !ok {
		return c
	}
	if quantity <= 0 {
		return RemoveItem(c, productID)
	}

	next := c.clone()
	for i := range next.Items {
		if next.Items[i].ProductID != productID {
			continue
		}
		next.Items[i].Quantity = clampQuantity(quantity)
		if notes.Set {
			next.Items[i].ItemNotes = notes.Value
		}
	}
	next.UpdatedAt = now()
	return next
}

// RemoveItem drops the line for productID if present
func RemoveItem(c Cart, productID string) Cart {
	if _, ok := c.Find(productID); !ok {
		return c
	}

	next := c.clone()
	kept := next.Items[:0]
	for _, item := range next.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	next.Items = kept
	next.UpdatedAt = now()
	return next
}

// SetNotes replaces the cart-level notes
func SetNotes(c Cart, notes string) Cart {
	next := c.clone()
	next.Notes = notes
	next.UpdatedAt = now()
	return next
}

// Clear returns a fresh empty cart
func Clear() Cart {
	return New()
}

func (c Cart) clone() Cart {
	items := make([]Item, len(c.Items), len(c.Items)+1)
	copy(items, c.Items)
	c.Items = items
	return c
}

func clampQuantity(quantity int) int {
	switch {
	case quantity < 1:
		return 1
	case quantity > MaxQuantity:
		return MaxQuantity
	}
	return quantity
}

// addQuantity sums two in-range quantities without leaving 1..MaxQuantity
func addQuantity(current, extra int) int {
	if extra > MaxQuantity-current {
		return MaxQuantity
	}
	return current + extra
}
