package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Vendor is a restaurant/seller profile owned by exactly one user.
// Deactivation is a soft flag: deactivated vendors disappear from customer
// listings but stay resolvable for historical orders.
type Vendor struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	UserID      string          `json:"user_id" gorm:"uniqueIndex;not null"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Cuisine     string          `json:"cuisine"`
	Address     string          `json:"address"`
	Phone       string          `json:"phone"`
	DeliveryFee decimal.Decimal `json:"delivery_fee" gorm:"type:decimal(8,2)"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// MenuItem belongs to one vendor. "Deleting" an item only clears IsAvailable
// so order snapshots keep resolving.
type MenuItem struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	VendorID    string          `json:"vendor_id" gorm:"index;not null"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(8,2);not null"`
	Category    string          `json:"category"`
	IsAvailable bool            `json:"is_available" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
