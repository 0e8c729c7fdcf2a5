// Package store owns durable state: users, vendors, menu items, orders and
// drivers. Soft-delete convention throughout — availability/active flags flip,
// rows never disappear, so historical orders always resolve.
package store

import (
	"context"

	"food-marketplace-api/models"

	"github.com/shopspring/decimal"
)

// SystemStats is the aggregate snapshot served to admins.
type SystemStats struct {
	TotalUsers    int64           `json:"total_users"`
	ActiveVendors int64           `json:"active_vendors"`
	OnlineDrivers int64           `json:"online_drivers"`
	TodayOrders   int64           `json:"today_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// Store is the persistence contract consumed by the lifecycle component and
// the HTTP layer.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Vendors. CreateVendor enforces the one-profile-per-user invariant and
	// returns a ConflictError on a second attempt.
	CreateVendor(ctx context.Context, vendor *models.Vendor) error
	GetVendor(ctx context.Context, id string) (*models.Vendor, error)
	GetVendorByUserID(ctx context.Context, userID string) (*models.Vendor, error)
	ListActiveVendors(ctx context.Context) ([]models.Vendor, error)
	UpdateVendor(ctx context.Context, id string, fields map[string]interface{}) (*models.Vendor, error)

	// Menu items
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)
	ListAvailableMenuItems(ctx context.Context, vendorID string) ([]models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id string, fields map[string]interface{}) (*models.MenuItem, error)
	DisableMenuItem(ctx context.Context, id string) error

	// Orders
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
	ListOrdersByVendor(ctx context.Context, vendorID string) ([]models.Order, error)
	ListOrdersByDriver(ctx context.Context, driverUserID string) ([]models.Order, error)
	ListUnassignedOrders(ctx context.Context) ([]models.Order, error)

	// UpdateOrderStatus applies from → to only if the order is still in the
	// from state. Returns false when the guard did not match.
	UpdateOrderStatus(ctx context.Context, id string, from, to models.OrderStatus) (bool, error)

	// BindDriver atomically sets driver and moves ready → picked_up, only if
	// no driver is bound yet. Returns false when the conditional write lost.
	BindDriver(ctx context.Context, id, driverUserID string) (bool, error)

	AppendStatusHistory(ctx context.Context, entry *models.OrderStatusHistory) error
	ListStatusHistory(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error)

	// Drivers. CreateDriver mirrors CreateVendor's uniqueness invariant.
	CreateDriver(ctx context.Context, driver *models.Driver) error
	GetDriverByUserID(ctx context.Context, userID string) (*models.Driver, error)
	ListOnlineDrivers(ctx context.Context) ([]models.Driver, error)
	SetDriverStatus(ctx context.Context, userID string, online bool, location string) (*models.Driver, error)
	AccrueDelivery(ctx context.Context, driverUserID string, earnings decimal.Decimal) error

	// Analytics
	GetSystemStats(ctx context.Context) (*SystemStats, error)
}
