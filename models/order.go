package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents all possible states of a marketplace order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// OrderItem is one line of the order snapshot: name and unit price are frozen
// at order creation, so later menu edits never touch past orders.
type OrderItem struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
}

// OrderItems is the snapshot column, stored as a JSON document.
type OrderItems []OrderItem

func (items OrderItems) Value() (driver.Value, error) {
	return json.Marshal(items)
}

func (items *OrderItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, items)
	case string:
		return json.Unmarshal([]byte(v), items)
	default:
		return fmt.Errorf("unsupported order items column type %T", value)
	}
}

type Order struct {
	ID              string          `json:"id" gorm:"primaryKey"`
	CustomerID      string          `json:"customer_id" gorm:"index;not null"`
	VendorID        string          `json:"vendor_id" gorm:"index;not null"`
	DriverID        *string         `json:"driver_id" gorm:"index"`
	Status          OrderStatus     `json:"status" gorm:"not null;default:'pending'"`
	Items           OrderItems      `json:"items" gorm:"type:text;not null"`
	Subtotal        decimal.Decimal `json:"subtotal" gorm:"type:decimal(8,2);not null"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee" gorm:"type:decimal(8,2);not null"`
	Total           decimal.Decimal `json:"total" gorm:"type:decimal(8,2);not null"`
	DeliveryAddress string          `json:"delivery_address" gorm:"not null"`
	CustomerPhone   string          `json:"customer_phone"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderStatusHistory records every status change for auditing.
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    string      `json:"order_id" gorm:"index;not null"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  string      `json:"changed_by"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
