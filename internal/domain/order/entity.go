// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Statuses lists every order status in display order
func Statuses() []OrderStatus {
	return []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled}
}

// ParseStatus validates a status name
func ParseStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Statuses() {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Order is a placed order. Totals are in centavos.
type Order struct {
	ID             string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderNumber    string      `gorm:"uniqueIndex;not null;size:32" json:"orderNumber"`
	Status         OrderStatus `gorm:"not null;size:16;index" json:"status"`
	CustomerName   string      `gorm:"not null;size:255" json:"customerName"`
	CustomerPhone  string      `gorm:"not null;size:40" json:"customerPhone"`
	Address        Address     `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	PaymentMethod  string      `gorm:"not null;size:100" json:"paymentMethod"`
	ShippingMethod string      `gorm:"not null;size:16" json:"shippingMethod"`
	Notes          *string     `gorm:"type:text" json:"notes"`
	Subtotal       int64       `gorm:"not null" json:"subtotal"`
	ShippingFee    int64       `gorm:"not null" json:"shippingFee"`
	Total          int64       `gorm:"not null" json:"total"`
	CreatedAt      time.Time   `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`

	// Relationships
	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"statusHistory,omitempty"`
}

// OrderItem is a snapshot of a cart line at order time
type OrderItem struct {
	ID                  string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID             string    `gorm:"not null;index;type:varchar(36)" json:"orderId"`
	ProductID           string    `gorm:"not null;index;size:64" json:"productId"`
	ProductSnapshotName string    `gorm:"not null;size:255" json:"productSnapshotName"`
	UnitPrice           int64     `gorm:"not null" json:"unitPrice"`
	Quantity            int       `gorm:"not null" json:"quantity"`
	ItemNotes           *string   `gorm:"type:text" json:"itemNotes"`
	CreatedAt           time.Time `json:"createdAt"`
}

// OrderStatusHistory tracks status changes made from the admin panel
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   string      `gorm:"not null;index;type:varchar(36)" json:"orderId"`
	From      OrderStatus `gorm:"size:16" json:"from"`
	Status    OrderStatus `gorm:"not null;size:16" json:"status"`
	Comment   string      `gorm:"type:text" json:"comment"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Address is the delivery address (or the atelier address for pickups)
type Address struct {
	Street    string  `gorm:"size:255" json:"street"`
	Number    string  `gorm:"size:32" json:"number"`
	District  string  `gorm:"size:120" json:"district"`
	City      string  `gorm:"size:120" json:"city"`
	State     string  `gorm:"size:64" json:"state"`
	Zip       string  `gorm:"size:20" json:"zip"`
	Reference *string `gorm:"size:255" json:"reference"`
}

// TableName overrides
func (Order) TableName() string              { return "orders" }
func (OrderItem) TableName() string          { return "order_items" }
func (OrderStatusHistory) TableName() string { return "order_status_history" }

// BeforeCreate assigns identifiers
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = o.GenerateOrderNumber()
	}
	return nil
}

// BeforeCreate assigns identifiers
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// GenerateOrderNumber builds a short human-friendly reference: JU-YYYYMMDD-XXXXXX
func (o *Order) GenerateOrderNumber() string {
	created := o.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	suffix := strings.ToUpper(strings.ReplaceAll(o.ID, "-", ""))
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return fmt.Sprintf("JU-%s-%s", created.Format("20060102"), suffix)
}

// Format renders the address on one line: "street, number - district, city / state - zip"
func (a Address) Format() string {
	return fmt.Sprintf("%s, %s - %s, %s / %s - %s", a.Street, a.Number, a.District, a.City, a.State, a.Zip)
}

// CanTransitionTo reports whether the status may change to next.
// Cancelled orders are final.
func (o *Order) CanTransitionTo(next OrderStatus) bool {
	if o.Status == next {
		return false
	}
	return o.Status != OrderStatusCancelled
}
