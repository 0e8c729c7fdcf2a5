package handlers

import (
	"net/http"

	"food-marketplace-api/middleware"
	"food-marketplace-api/models"

	"github.com/gin-gonic/gin"
)

type CreateDriverRequest struct {
	VehicleType     string `json:"vehicle_type" binding:"required"`
	LicenseNumber   string `json:"license_number" binding:"required"`
	CurrentLocation string `json:"current_location"`
}

// CreateDriver creates the caller's driver profile. Duplicate profiles for
// the same user are a conflict.
func CreateDriver(c *gin.Context) {
	var req CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driver := models.Driver{
		UserID:          middleware.GetUserID(c),
		VehicleType:     req.VehicleType,
		LicenseNumber:   req.LicenseNumber,
		CurrentLocation: req.CurrentLocation,
	}
	if err := db.CreateDriver(c.Request.Context(), &driver); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Driver profile created", "driver": driver})
}

// GetMyDriver fetches the caller's driver profile
func GetMyDriver(c *gin.Context) {
	driver, err := db.GetDriverByUserID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// AvailableDrivers lists drivers currently online — used by admins for
// manual assignment
func AvailableDrivers(c *gin.Context) {
	drivers, err := db.ListOnlineDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(drivers), "drivers": drivers})
}

type UpdateDriverStatusRequest struct {
	IsOnline        *bool  `json:"is_online" binding:"required"`
	CurrentLocation string `json:"current_location"`
}

// UpdateDriverStatus toggles the caller online/offline and optionally
// refreshes their reported location
func UpdateDriverStatus(c *gin.Context) {
	var req UpdateDriverStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driver, err := db.SetDriverStatus(c.Request.Context(), middleware.GetUserID(c), *req.IsOnline, req.CurrentLocation)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Driver status updated", "driver": driver})
}
