package store

import (
	"context"
	"errors"
	"time"

	"food-marketplace-api/apperr"
	"food-marketplace-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type gormStore struct {
	db *gorm.DB
}

// New wraps a gorm connection in the Store contract.
func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func notFoundOr(err error, resource, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(resource, id)
	}
	return err
}

// ── Users ───────────────────────────────────────────────────────────────────

func (s *gormStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *gormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	return &user, nil
}

func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, notFoundOr(err, "user", email)
	}
	return &user, nil
}

// ── Vendors ─────────────────────────────────────────────────────────────────

func (s *gormStore) CreateVendor(ctx context.Context, vendor *models.Vendor) error {
	var existing models.Vendor
	err := s.db.WithContext(ctx).First(&existing, "user_id = ?", vendor.UserID).Error
	if err == nil {
		return apperr.Conflictf("user %s already has a vendor profile", vendor.UserID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.db.WithContext(ctx).Create(vendor).Error
}

func (s *gormStore) GetVendor(ctx context.Context, id string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := s.db.WithContext(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "vendor", id)
	}
	return &vendor, nil
}

func (s *gormStore) GetVendorByUserID(ctx context.Context, userID string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := s.db.WithContext(ctx).First(&vendor, "user_id = ?", userID).Error; err != nil {
		return nil, notFoundOr(err, "vendor profile for user", userID)
	}
	return &vendor, nil
}

func (s *gormStore) ListActiveVendors(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at desc").
		Find(&vendors).Error
	return vendors, err
}

func (s *gormStore) UpdateVendor(ctx context.Context, id string, fields map[string]interface{}) (*models.Vendor, error) {
	vendor, err := s.GetVendor(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(vendor).Updates(fields).Error; err != nil {
		return nil, err
	}
	return s.GetVendor(ctx, id)
}

// ── Menu items ──────────────────────────────────────────────────────────────

func (s *gormStore) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *gormStore) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "menu item", id)
	}
	return &item, nil
}

func (s *gormStore) ListAvailableMenuItems(ctx context.Context, vendorID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.db.WithContext(ctx).
		Where("vendor_id = ? AND is_available = ?", vendorID, true).
		Order("category, name").
		Find(&items).Error
	return items, err
}

func (s *gormStore) UpdateMenuItem(ctx context.Context, id string, fields map[string]interface{}) (*models.MenuItem, error) {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(item).Updates(fields).Error; err != nil {
		return nil, err
	}
	return s.GetMenuItem(ctx, id)
}

func (s *gormStore) DisableMenuItem(ctx context.Context, id string) error {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(item).Update("is_available", false).Error
}

// ── Orders ──────────────────────────────────────────────────────────────────

func (s *gormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *gormStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "order", id)
	}
	return &order, nil
}

func (s *gormStore) listOrders(ctx context.Context, query string, args ...interface{}) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

func (s *gormStore) ListOrdersByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	return s.listOrders(ctx, "customer_id = ?", customerID)
}

func (s *gormStore) ListOrdersByVendor(ctx context.Context, vendorID string) ([]models.Order, error) {
	return s.listOrders(ctx, "vendor_id = ?", vendorID)
}

func (s *gormStore) ListOrdersByDriver(ctx context.Context, driverUserID string) ([]models.Order, error) {
	return s.listOrders(ctx, "driver_id = ?", driverUserID)
}

func (s *gormStore) ListUnassignedOrders(ctx context.Context) ([]models.Order, error) {
	return s.listOrders(ctx, "status = ? AND driver_id IS NULL", models.StatusReady)
}

func (s *gormStore) UpdateOrderStatus(ctx context.Context, id string, from, to models.OrderStatus) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *gormStore) BindDriver(ctx context.Context, id, driverUserID string) (bool, error) {
	// Single conditional write: the first accept wins, every later one
	// matches zero rows.
	res := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ? AND driver_id IS NULL", id, models.StatusReady).
		Updates(map[string]interface{}{
			"status":     models.StatusPickedUp,
			"driver_id":  driverUserID,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *gormStore) AppendStatusHistory(ctx context.Context, entry *models.OrderStatusHistory) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *gormStore) ListStatusHistory(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	var history []models.OrderStatusHistory
	err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at").
		Find(&history).Error
	return history, err
}

// ── Drivers ─────────────────────────────────────────────────────────────────

func (s *gormStore) CreateDriver(ctx context.Context, driver *models.Driver) error {
	var existing models.Driver
	err := s.db.WithContext(ctx).First(&existing, "user_id = ?", driver.UserID).Error
	if err == nil {
		return apperr.Conflictf("user %s already has a driver profile", driver.UserID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.db.WithContext(ctx).Create(driver).Error
}

func (s *gormStore) GetDriverByUserID(ctx context.Context, userID string) (*models.Driver, error) {
	var driver models.Driver
	if err := s.db.WithContext(ctx).First(&driver, "user_id = ?", userID).Error; err != nil {
		return nil, notFoundOr(err, "driver profile for user", userID)
	}
	return &driver, nil
}

func (s *gormStore) ListOnlineDrivers(ctx context.Context) ([]models.Driver, error) {
	var drivers []models.Driver
	err := s.db.WithContext(ctx).
		Where("is_online = ?", true).
		Order("created_at desc").
		Find(&drivers).Error
	return drivers, err
}

func (s *gormStore) SetDriverStatus(ctx context.Context, userID string, online bool, location string) (*models.Driver, error) {
	driver, err := s.GetDriverByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{"is_online": online}
	if location != "" {
		updates["current_location"] = location
	}
	if err := s.db.WithContext(ctx).Model(driver).Updates(updates).Error; err != nil {
		return nil, err
	}
	driver.IsOnline = online
	if location != "" {
		driver.CurrentLocation = location
	}
	return driver, nil
}

func (s *gormStore) AccrueDelivery(ctx context.Context, driverUserID string, earnings decimal.Decimal) error {
	driver, err := s.GetDriverByUserID(ctx, driverUserID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(driver).Updates(map[string]interface{}{
		"total_deliveries": driver.TotalDeliveries + 1,
		"total_earnings":   driver.TotalEarnings.Add(earnings),
	}).Error
}

// ── Analytics ───────────────────────────────────────────────────────────────

func (s *gormStore) GetSystemStats(ctx context.Context) (*SystemStats, error) {
	stats := &SystemStats{TotalRevenue: decimal.Zero}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Vendor{}).Where("is_active = ?", true).Count(&stats.ActiveVendors).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Driver{}).Where("is_online = ?", true).Count(&stats.OnlineDrivers).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := db.Model(&models.Order{}).Where("created_at >= ?", today).Count(&stats.TodayOrders).Error; err != nil {
		return nil, err
	}

	var delivered []models.Order
	if err := db.Where("status = ?", models.StatusDelivered).Find(&delivered).Error; err != nil {
		return nil, err
	}
	for _, o := range delivered {
		stats.TotalRevenue = stats.TotalRevenue.Add(o.Total)
	}
	return stats, nil
}
