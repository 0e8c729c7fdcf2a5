package handlers

import (
	"net/http"

	"food-marketplace-api/apperr"
	"food-marketplace-api/lifecycle"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"

	"github.com/gin-gonic/gin"
)

type CreateOrderRequest struct {
	VendorID        string `json:"vendor_id" binding:"required"`
	DeliveryAddress string `json:"delivery_address" binding:"required"`
	CustomerPhone   string `json:"customer_phone"`
	Notes           string `json:"notes"`
	Items           []struct {
		MenuItemID string `json:"menu_item_id" binding:"required"`
		Quantity   int    `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1"`
}

// CreateOrder places one order against one vendor. A multi-vendor cart is
// split into one request per vendor by the client.
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := lifecycle.CreateOrderInput{
		CustomerID:      middleware.GetUserID(c),
		VendorID:        req.VendorID,
		DeliveryAddress: req.DeliveryAddress,
		CustomerPhone:   req.CustomerPhone,
		Notes:           req.Notes,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, lifecycle.LineItem{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
		})
	}

	order, err := orders.CreateOrder(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
}

// CustomerOrders returns the caller's orders, newest first
func CustomerOrders(c *gin.Context) {
	list, err := orders.OrdersByCustomer(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "orders": list})
}

// VendorOrders returns a vendor's orders; only its owner or an admin may look
func VendorOrders(c *gin.Context) {
	vendorID := c.Param("vendorId")
	vendor, err := db.GetVendor(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}
	if vendor.UserID != middleware.GetUserID(c) && middleware.GetRole(c) != models.RoleAdmin {
		respondError(c, apperr.Unauthorizedf("you do not own this vendor"))
		return
	}

	list, err := orders.OrdersByVendor(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Dashboard summary: order counts grouped by status
	summary := map[string]int{}
	for _, o := range list {
		summary[string(o.Status)]++
	}
	c.JSON(http.StatusOK, gin.H{
		"vendor":        vendor.Name,
		"order_summary": summary,
		"count":         len(list),
		"orders":        list,
	})
}

// DriverOrders returns all orders assigned to the calling driver
func DriverOrders(c *gin.Context) {
	list, err := orders.OrdersByDriver(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "orders": list})
}

// UnassignedOrders returns the pool of ready orders with no driver bound.
// Drivers poll this; admins use it for manual assignment.
func UnassignedOrders(c *gin.Context) {
	list, err := orders.UnassignedPool(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "orders": list})
}

type UpdateOrderStatusRequest struct {
	Status   models.OrderStatus `json:"status" binding:"required"`
	DriverID string             `json:"driver_id"`
}

// UpdateOrderStatus transitions an order through the state machine. A driver
// accepting a ready order and an admin pushing it to a specific driver both
// land here with status picked_up.
func UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := orders.UpdateStatus(
		c.Request.Context(),
		c.Param("id"),
		req.Status,
		actorFrom(c),
		req.DriverID,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order": order})
}

// OrderHistory returns the audit trail of an order's transitions
func OrderHistory(c *gin.Context) {
	order, err := db.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	caller := middleware.GetUserID(c)
	actor := actorFrom(c)
	allowed := actor.IsAdmin ||
		order.CustomerID == caller ||
		(actor.VendorID != "" && actor.VendorID == order.VendorID) ||
		(order.DriverID != nil && *order.DriverID == caller)
	if !allowed {
		respondError(c, apperr.Unauthorizedf("this order does not involve you"))
		return
	}

	history, err := db.ListStatusHistory(c.Request.Context(), order.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": order.ID, "history": history})
}
