package main

import (
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/CragHerk/accounts-api/internal/apperror"
	"github.com/CragHerk/accounts-api/internal/config"
	"github.com/CragHerk/accounts-api/internal/handler"
	"github.com/CragHerk/accounts-api/internal/middleware"
	"github.com/CragHerk/accounts-api/internal/repository"
	"github.com/CragHerk/accounts-api/internal/service"
	"github.com/CragHerk/accounts-api/pkg/avatar"
	"github.com/CragHerk/accounts-api/pkg/database"
	"github.com/CragHerk/accounts-api/pkg/email"
	jwtPkg "github.com/CragHerk/accounts-api/pkg/jwt"
	"github.com/CragHerk/accounts-api/pkg/utils"
)

func main() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer zapLogger.Sync()

	if err := godotenv.Load(); err != nil {
		zapLogger.Warn("no .env file loaded", zap.Error(err))
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		zapLogger.Fatal("JWT_SECRET is not set")
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed to initialize database", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)

	// Collaborators
	tokens := jwtPkg.NewTokenManager(cfg.JWTSecret)
	emailService := email.NewEmailService(cfg.Resend.APIKey, cfg.Resend.FromAddress, cfg.Resend.FromName, cfg.AppBaseURL, zapLogger)
	avatarStorage, err := avatar.NewStorage(cfg.PublicDir, cfg.TmpDir)
	if err != nil {
		zapLogger.Fatal("failed to initialize avatar storage", zap.Error(err))
	}

	// Services
	authService := service.NewAuthService(userRepo, emailService, tokens, zapLogger)
	userService := service.NewUserService(userRepo, avatarStorage)

	validator := utils.NewValidator()

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validator)
	userHandler := handler.NewUserHandler(userService, validator)

	// Router
	app := fiber.New(fiber.Config{
		ErrorHandler: apperror.Handler(zapLogger),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PATCH, DELETE",
		AllowCredentials: true,
	}))
	app.Use(logger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	// Uploaded avatars are public
	app.Static("/avatars", filepath.Join(cfg.PublicDir, "avatars"))

	api := app.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Get("/verify/:verificationToken", authHandler.Verify)
	auth.Post("/verify", authHandler.ResendVerification)

	// Protected routes
	api.Use(middleware.AuthMiddleware(tokens, userRepo))
	{
		api.Post("/auth/logout", authHandler.Logout)

		users := api.Group("/users")
		users.Get("/current", userHandler.GetCurrentUser)
		users.Patch("/avatars", userHandler.UpdateAvatar)
		users.Patch("/subscription", userHandler.UpdateSubscription)
	}

	zapLogger.Info("starting server", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
