package app

import (
	"database/sql"
	"fmt"
	"log"

	"mailauth/internal/config"
	"mailauth/internal/handlers"
	"mailauth/internal/middleware"
	"mailauth/internal/repositories"
	"mailauth/internal/routes"
	"mailauth/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "mailauth/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to reach database: ", err)
	}

	// === Repos ===
	accountRepo := repositories.NewAccountRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	tokenService := services.NewTokenService(cfg.Auth.SecretKey, cfg.Auth.TokenTTL.Std())
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	mailCheck := services.NewMailCheckService(cfg.App.DNSTimeout.Std())

	accountService := services.NewAccountService(
		accountRepo,
		authService,
		tokenService,
		emailService,
		mailCheck,
		cfg.App.BaseURL,
	)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(accountService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.RequestID())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, authHandler)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
