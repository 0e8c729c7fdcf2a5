package handlers

import (
	"net/http"

	"food-marketplace-api/apperr"
	"food-marketplace-api/lifecycle"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
	"food-marketplace-api/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	db     store.Store
	orders *lifecycle.Service
	log    *logrus.Logger
)

// Init wires the handler package to its collaborators.
func Init(st store.Store, svc *lifecycle.Service, logger *logrus.Logger) {
	db = st
	orders = svc
	log = logger
}

// respondError translates the error taxonomy into HTTP statuses. Internal
// errors are logged with detail but returned opaque.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// actorFrom resolves the caller's capabilities from profile existence. The
// lifecycle component never re-derives these from ambient session data.
func actorFrom(c *gin.Context) lifecycle.Actor {
	userID := middleware.GetUserID(c)
	actor := lifecycle.Actor{
		UserID:  userID,
		IsAdmin: middleware.GetRole(c) == models.RoleAdmin,
	}
	if vendor, err := db.GetVendorByUserID(c.Request.Context(), userID); err == nil {
		actor.VendorID = vendor.ID
	}
	if _, err := db.GetDriverByUserID(c.Request.Context(), userID); err == nil {
		actor.HasDriver = true
	}
	return actor
}
