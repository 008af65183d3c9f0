package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		database := "ok"

		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			database = "unreachable"
		}

		c.JSON(200, gin.H{
			"status":    "ok",
			"message":   "Appdex is running",
			"database":  database,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
