package main

import (
	"net/http"
	"os"

	"food-marketplace-api/config"
	"food-marketplace-api/handlers"
	"food-marketplace-api/lifecycle"
	"food-marketplace-api/middleware"
	"food-marketplace-api/routes"
	"food-marketplace-api/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(config.GetString("LOG_LEVEL", "info")); err == nil {
		log.SetLevel(level)
	}

	if mode := os.Getenv("GIN_MODE"); mode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.OpenDB(config.GetString("DATABASE_PATH", "food_marketplace.db"))
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	log.Info("database connected and migrated")

	st := store.New(db)
	svc := lifecycle.New(st, log)
	handlers.Init(st, svc, log)

	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	// CORS for dashboard clients
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Food Marketplace API",
			"roles":   []string{"customer", "vendor", "driver", "admin"},
		})
	})

	routes.SetupRoutes(r)

	addr := ":" + config.GetString("PORT", "8080")
	log.WithField("addr", addr).Info("server starting")
	if err := r.Run(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
