package handlers

import (
	"net/http"

	"food-marketplace-api/apperr"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreateMenuItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Category    string          `json:"category"`
}

// CreateMenuItem adds an item to the caller's vendor menu
func CreateMenuItem(c *gin.Context) {
	vendor, err := db.GetVendorByUserID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, apperr.Unauthorizedf("create a vendor profile before adding menu items"))
		return
	}

	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Price.IsPositive() {
		respondError(c, apperr.Validationf("price must be greater than zero"))
		return
	}

	item := models.MenuItem{
		VendorID:    vendor.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		IsAvailable: true,
	}
	if err := db.CreateMenuItem(c.Request.Context(), &item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

// ListMenuItems returns a vendor's available items — public endpoint
func ListMenuItems(c *gin.Context) {
	vendorID := c.Param("vendorId")
	if _, err := db.GetVendor(c.Request.Context(), vendorID); err != nil {
		respondError(c, err)
		return
	}
	items, err := db.ListAvailableMenuItems(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

type UpdateMenuItemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	IsAvailable *bool            `json:"is_available"`
}

// ownedMenuItem loads an item and verifies the caller's vendor owns it.
func ownedMenuItem(c *gin.Context) (*models.MenuItem, error) {
	item, err := db.GetMenuItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	vendor, err := db.GetVendorByUserID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil || vendor.ID != item.VendorID {
		return nil, apperr.Unauthorizedf("you do not own this menu item")
	}
	return item, nil
}

// UpdateMenuItem edits an item owned by the caller's vendor
func UpdateMenuItem(c *gin.Context) {
	item, err := ownedMenuItem(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			respondError(c, apperr.Validationf("price must be greater than zero"))
			return
		}
		fields["price"] = *req.Price
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.IsAvailable != nil {
		fields["is_available"] = *req.IsAvailable
	}
	if len(fields) == 0 {
		respondError(c, apperr.Validationf("no fields to update"))
		return
	}

	updated, err := db.UpdateMenuItem(c.Request.Context(), item.ID, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": updated})
}

// DeleteMenuItem soft-disables an item; order snapshots keep resolving.
func DeleteMenuItem(c *gin.Context) {
	item, err := ownedMenuItem(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := db.DisableMenuItem(c.Request.Context(), item.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item removed from listing", "item_id": item.ID})
}
