package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Driver is the delivery profile owned by exactly one user. Orders reference
// the driver by user ID, not by this profile's ID.
type Driver struct {
	ID              string          `json:"id" gorm:"primaryKey"`
	UserID          string          `json:"user_id" gorm:"uniqueIndex;not null"`
	VehicleType     string          `json:"vehicle_type"`
	LicenseNumber   string          `json:"license_number"`
	IsOnline        bool            `json:"is_online" gorm:"default:false"`
	CurrentLocation string          `json:"current_location"`
	TotalDeliveries int             `json:"total_deliveries" gorm:"default:0"`
	TotalEarnings   decimal.Decimal `json:"total_earnings" gorm:"type:decimal(10,2);default:0"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (d *Driver) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
