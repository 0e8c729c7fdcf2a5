package handlers

import (
	"net/http"

	"food-marketplace-api/apperr"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreateVendorRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Cuisine     string          `json:"cuisine"`
	Address     string          `json:"address" binding:"required"`
	Phone       string          `json:"phone"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
}

// CreateVendor creates the caller's vendor profile. A second attempt for the
// same user is a conflict.
func CreateVendor(c *gin.Context) {
	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DeliveryFee.IsNegative() {
		respondError(c, apperr.Validationf("delivery fee cannot be negative"))
		return
	}

	vendor := models.Vendor{
		UserID:      middleware.GetUserID(c),
		Name:        req.Name,
		Description: req.Description,
		Cuisine:     req.Cuisine,
		Address:     req.Address,
		Phone:       req.Phone,
		DeliveryFee: req.DeliveryFee,
		IsActive:    true,
	}
	if err := db.CreateVendor(c.Request.Context(), &vendor); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Vendor profile created", "vendor": vendor})
}

// ListVendors returns active vendors only — public endpoint
func ListVendors(c *gin.Context) {
	vendors, err := db.ListActiveVendors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(vendors), "vendors": vendors})
}

// GetMyVendor fetches the vendor profile owned by the caller
func GetMyVendor(c *gin.Context) {
	vendor, err := db.GetVendorByUserID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}

type UpdateVendorRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Cuisine     *string          `json:"cuisine"`
	Address     *string          `json:"address"`
	Phone       *string          `json:"phone"`
	DeliveryFee *decimal.Decimal `json:"delivery_fee"`
	IsActive    *bool            `json:"is_active"`
}

// UpdateMyVendor edits the caller's vendor profile. Deactivation is the soft
// retire path: the vendor drops out of listings but keeps its orders.
func UpdateMyVendor(c *gin.Context) {
	vendor, err := db.GetVendorByUserID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateVendorRequest
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
	if req.Cuisine != nil {
		fields["cuisine"] = *req.Cuisine
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.DeliveryFee != nil {
		if req.DeliveryFee.IsNegative() {
			respondError(c, apperr.Validationf("delivery fee cannot be negative"))
			return
		}
		fields["delivery_fee"] = *req.DeliveryFee
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if len(fields) == 0 {
		respondError(c, apperr.Validationf("no fields to update"))
		return
	}

	updated, err := db.UpdateVendor(c.Request.Context(), vendor.ID, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vendor updated", "vendor": updated})
}
