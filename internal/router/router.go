package router

import (
	"time"

	"github.com/appdex-dev/appdex/internal/access"
	"github.com/appdex-dev/appdex/internal/handlers"
	"github.com/appdex-dev/appdex/internal/middleware"
	"github.com/appdex-dev/appdex/internal/registry"
	"github.com/appdex-dev/appdex/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, reg *registry.Registry) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := handlers.NewAuthHandler(db)
	appHandler := handlers.NewApplicationHandler(reg)
	userHandler := handlers.NewUserHandler(db)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck(db))
		api.POST("/login", authHandler.Login)
		api.POST("/login/password", authHandler.LoginPassword)

		authed := api.Group("", middleware.AuthMiddleware(db))
		{
			authed.GET("/verify-token", authHandler.Profile)
			authed.GET("/profile", authHandler.Profile)
			authed.GET("/ws", handlers.WebSocket)

			apps := authed.Group("/applications")
			{
				apps.GET("", middleware.Require(access.ActionApplicationsRead), appHandler.List)
				apps.GET("/:id", middleware.Require(access.ActionApplicationsRead), appHandler.Get)
				apps.GET("/:id/checks", middleware.Require(access.ActionApplicationsRead), appHandler.Checks)
				apps.POST("", middleware.Require(access.ActionApplicationsWrite), appHandler.Create)
				apps.PUT("/:id", middleware.Require(access.ActionApplicationsWrite), appHandler.Update)
				apps.DELETE("/:id", middleware.Require(access.ActionApplicationsDelete), appHandler.Delete)
				apps.POST("/bulk", middleware.Require(access.ActionApplicationsImport), appHandler.BulkImport)
			}

			users := authed.Group("/users")
			{
				// Self-service routes: ownership is the whole check.
				users.GET("/me", userHandler.Me)
				users.PUT("/profile", userHandler.UpdateProfile)
				users.PUT("/password", userHandler.ChangePassword)
				users.PUT("/profile-picture", userHandler.UpdateProfilePicture)

				users.GET("", middleware.Require(access.ActionUsersManage), userHandler.List)
				users.POST("", middleware.Require(access.ActionUsersManage), userHandler.Create)
				users.PUT("/:id", middleware.Require(access.ActionUsersManage), userHandler.UpdateByID)
				users.DELETE("/:id", middleware.Require(access.ActionUsersManage), userHandler.DeleteByID)
			}
		}
	}

	return r
}
