package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mailauth/internal/handlers"
)

func SetupRoutes(r *gin.Engine, authHandler *handlers.AuthHandler) *gin.Engine {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.GET("/verify-email", authHandler.VerifyEmail)
		auth.POST("/login", authHandler.Login)
		auth.POST("/reset-password", authHandler.ResetPasswordRequest)
		auth.GET("/reset-page", authHandler.ResetPage)
		auth.POST("/reset", authHandler.ResetPassword)
	}

	return r
}
