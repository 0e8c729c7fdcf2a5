// Package lifecycle validates and applies order state transitions and builds
// new orders with frozen line-item snapshots. It assumes the access layer has
// already authenticated the caller; the Actor passed in says which
// capabilities that caller actually holds.
package lifecycle

import (
	"context"

	"food-marketplace-api/apperr"
	"food-marketplace-api/models"
	"food-marketplace-api/statemachine"
	"food-marketplace-api/store"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Actor is an already-authorized caller reference. Capabilities are resolved
// from profile existence by the access layer, never re-derived here.
type Actor struct {
	UserID    string
	IsAdmin   bool
	VendorID  string // vendor profile owned by the caller, empty if none
	HasDriver bool   // caller owns a driver profile
}

// LineItem is one requested cart line.
type LineItem struct {
	MenuItemID string
	Quantity   int
}

// CreateOrderInput carries everything needed for one checkout against one
// vendor. A multi-vendor cart splits into multiple calls client-side.
type CreateOrderInput struct {
	CustomerID      string
	VendorID        string
	Items           []LineItem
	DeliveryAddress string
	CustomerPhone   string
	Notes           string
}

type Service struct {
	store store.Store
	log   *logrus.Logger
}

func New(st store.Store, log *logrus.Logger) *Service {
	return &Service{store: st, log: log}
}

// CreateOrder validates the cart, snapshots current names and prices, and
// writes a new pending order. total = subtotal + delivery fee, always.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.Validationf("order must contain at least one item")
	}
	if in.DeliveryAddress == "" {
		return nil, apperr.Validationf("delivery address is required")
	}

	vendor, err := s.store.GetVendor(ctx, in.VendorID)
	if err != nil {
		return nil, err
	}
	if !vendor.IsActive {
		return nil, apperr.Validationf("vendor %s is not accepting orders", vendor.Name)
	}

	subtotal := decimal.Zero
	snapshot := make(models.OrderItems, 0, len(in.Items))
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return nil, apperr.Validationf("quantity must be at least 1")
		}
		item, err := s.store.GetMenuItem(ctx, line.MenuItemID)
		if err != nil {
			return nil, err
		}
		if item.VendorID != vendor.ID {
			return nil, apperr.Validationf("menu item %q does not belong to this vendor", item.Name)
		}
		if !item.IsAvailable {
			return nil, apperr.Validationf("menu item %q is not available", item.Name)
		}
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		snapshot = append(snapshot, models.OrderItem{
			MenuItemID: item.ID,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   line.Quantity,
		})
	}

	order := &models.Order{
		CustomerID:      in.CustomerID,
		VendorID:        vendor.ID,
		Status:          models.StatusPending,
		Items:           snapshot,
		Subtotal:        subtotal,
		DeliveryFee:     vendor.DeliveryFee,
		Total:           subtotal.Add(vendor.DeliveryFee),
		DeliveryAddress: in.DeliveryAddress,
		CustomerPhone:   in.CustomerPhone,
		Notes:           in.Notes,
	}
	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	if err := s.store.AppendStatusHistory(ctx, &models.OrderStatusHistory{
		OrderID:   order.ID,
		ToStatus:  models.StatusPending,
		ChangedBy: in.CustomerID,
		Note:      "order placed",
	}); err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Warn("failed to record order history")
	}

	s.log.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"vendor_id":   order.VendorID,
		"total":       order.Total.StringFixed(2),
	}).Info("order created")
	return order, nil
}

// UpdateStatus moves an order through the state machine. Transitions into
// picked_up bind the driver in the same conditional write; everything else is
// a guarded single-row update. Terminal orders always fail, including a
// re-request of the same terminal status.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, requested models.OrderStatus, actor Actor, driverID string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if statemachine.IsTerminal(order.Status) {
		return nil, apperr.InvalidStatef("order is already %s", order.Status)
	}
	if requested == models.StatusPickedUp && order.DriverID != nil {
		return nil, apperr.Conflictf("order is already assigned to another driver")
	}

	pushDriverID := ""
	if requested == models.StatusPickedUp {
		pushDriverID = driverID
	}
	actors := s.actorKinds(order, actor, pushDriverID)
	if len(actors) == 0 {
		return nil, apperr.Unauthorizedf("you cannot act on this order")
	}
	if err := statemachine.CanTransition(order.Status, requested, actors...); err != nil {
		return nil, err
	}

	from := order.Status
	switch requested {
	case models.StatusPickedUp:
		bindTo := driverID
		if bindTo == "" {
			bindTo = actor.UserID
		}
		won, err := s.store.BindDriver(ctx, order.ID, bindTo)
		if err != nil {
			return nil, err
		}
		if !won {
			// Re-read to tell a lost race apart from a stale state.
			current, err := s.store.GetOrder(ctx, order.ID)
			if err != nil {
				return nil, err
			}
			if current.DriverID != nil {
				return nil, apperr.Conflictf("order is already assigned to another driver")
			}
			return nil, apperr.InvalidStatef("order is no longer ready for pickup (now %s)", current.Status)
		}
	default:
		applied, err := s.store.UpdateOrderStatus(ctx, order.ID, from, requested)
		if err != nil {
			return nil, err
		}
		if !applied {
			return nil, apperr.Conflictf("order changed concurrently, re-fetch and retry")
		}
	}

	if err := s.store.AppendStatusHistory(ctx, &models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: from,
		ToStatus:   requested,
		ChangedBy:  actor.UserID,
	}); err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Warn("failed to record order history")
	}

	if requested == models.StatusDelivered && order.DriverID != nil {
		if err := s.store.AccrueDelivery(ctx, *order.DriverID, order.DeliveryFee); err != nil {
			s.log.WithError(err).WithField("driver_id", *order.DriverID).Warn("failed to accrue driver stats")
		}
	}

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"from":     from,
		"to":       requested,
		"actor":    actor.UserID,
	}).Info("order status updated")
	return s.store.GetOrder(ctx, order.ID)
}

// actorKinds resolves which state-machine actor kinds this caller holds for
// this specific order.
func (s *Service) actorKinds(order *models.Order, actor Actor, bindDriverID string) []string {
	var kinds []string
	if actor.IsAdmin {
		kinds = append(kinds, statemachine.ActorAdmin)
		// Admin can push an order to a specific driver; that path uses the
		// driver transition with an explicit driver id.
		if bindDriverID != "" {
			kinds = append(kinds, statemachine.ActorDriver)
		}
	}
	if actor.VendorID != "" && actor.VendorID == order.VendorID {
		kinds = append(kinds, statemachine.ActorVendor)
	}
	if actor.HasDriver {
		// A driver may accept an unassigned order, or act on their own one.
		if order.DriverID == nil || *order.DriverID == actor.UserID {
			kinds = append(kinds, statemachine.ActorDriver)
		}
	}
	return kinds
}

// ── Per-actor order views ───────────────────────────────────────────────────

func (s *Service) OrdersByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	return s.store.ListOrdersByCustomer(ctx, customerID)
}

func (s *Service) OrdersByVendor(ctx context.Context, vendorID string) ([]models.Order, error) {
	return s.store.ListOrdersByVendor(ctx, vendorID)
}

func (s *Service) OrdersByDriver(ctx context.Context, driverUserID string) ([]models.Order, error) {
	return s.store.ListOrdersByDriver(ctx, driverUserID)
}

// UnassignedPool returns ready orders with no driver bound, newest first.
func (s *Service) UnassignedPool(ctx context.Context) ([]models.Order, error) {
	return s.store.ListUnassignedOrders(ctx)
}
