// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"debteraser/internal/cache"
	"debteraser/internal/config"
	"debteraser/internal/database"
	"debteraser/internal/gemini"
	"debteraser/internal/hubspot"
	"debteraser/internal/mailjet"
	"debteraser/internal/middleware"
	"debteraser/internal/models"
	"debteraser/internal/repository"
	"debteraser/internal/stripe"
	"debteraser/internal/vault"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	chatRepo       repository.ChatRepository
	catalogRepo    repository.CatalogRepository
	ai             *gemini.Client
	sessions       gemini.SessionStore
	payments       *stripe.Client
	crm            *hubspot.Client
	mail           *mailjet.Client
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	if err := vault.CreatePlaceholderFiles(cfg.VaultDir); err != nil {
		return nil, fmt.Errorf("vault setup failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	var sessions gemini.SessionStore
	if redisClient != nil {
		sessions = gemini.NewRedisSessionStore(redisClient)
	} else {
		sessions = gemini.NewMemorySessionStore()
	}

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("debteraser-api"),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		chatRepo:       repository.NewChatRepository(db),
		catalogRepo:    repository.NewCatalogRepository(db),
		ai:             gemini.NewClient(cfg.GeminiAPIKey, middleware.Logger),
		sessions:       sessions,
		payments:       stripe.NewClient(cfg.StripeSecretKey),
		crm:            hubspot.NewClient(cfg.HubspotAPIKey),
		mail:           mailjet.NewClient(cfg.MailjetAPIKey, cfg.MailjetSecretKey, cfg.FromEmail),
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	api.Get("/health", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Debt Eraser Pro Metrics Dashboard",
	}))

	// Vault static documents
	app.Static("/vault", s.config.VaultDir)

	// Funnel routes (public, rate limited)
	api.Post("/analyze-quiz", middleware.RateLimit(
		s.redis, 10, time.Minute, "analyze_quiz"), s.AnalyzeQuiz)
	api.Post("/chat", middleware.RateLimit(
		s.redis, 20, time.Minute, "chat"), s.Chat)
	api.Post("/leads", middleware.RateLimit(
		s.redis, 10, time.Minute, "leads"), s.CaptureLead)

	// Payments. Verification fails closed: if the rate limiter can't be
	// checked we'd rather delay an access grant than allow a replay storm.
	api.Post("/create-payment-intent", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "payment_intent"), s.CreatePaymentIntent)
	api.Post("/verify-payment", middleware.RateLimitWithPolicy(
		s.redis, 20, 5*time.Minute, middleware.FailClosed, "verify_payment"), s.VerifyPayment)

	// User routes
	users := api.Group("/users")
	users.Post("/register", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "register"), s.RegisterUser)
	users.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	users.Get("/:id", s.GetUser)

	// Member dashboard routes
	protected := api.Group("", s.AuthRequired())

	community := protected.Group("/community")
	community.Get("/posts", s.GetPosts)
	community.Post("/posts", s.CreatePost)
	community.Post("/posts/:id/like", s.LikePost)
	community.Get("/posts/:id/comments", s.GetComments)
	community.Post("/posts/:id/comments", s.CreateComment)

	protected.Get("/modules", s.GetModules)

	vaultAPI := protected.Group("/vault")
	vaultAPI.Get("/resources", s.GetVaultResources)
	vaultAPI.Get("/resources/:id", s.GetVaultResource)

	calendar := protected.Group("/calendar")
	calendar.Get("/events", s.GetCalendarEvents)
	calendar.Post("/events", s.CreateCalendarEvent)

	messenger := protected.Group("/messenger")
	messenger.Get("/conversations", s.GetConversations)
	messenger.Post("/conversations", s.CreateConversation)
	messenger.Get("/conversations/:id/messages", s.GetMessages)
	messenger.Post("/messages", s.SendMessage)

	// Integration passthroughs
	crm := api.Group("/hubspot")
	crm.Post("/create-contact", s.CreateCRMContact)
	crm.Post("/update-contact", s.UpdateCRMContact)
	crm.Post("/create-deal", s.CreateCRMDeal)

	email := api.Group("/email")
	email.Post("/send-pdf-stack", s.SendPDFStackEmail)
	email.Post("/send-welcome", s.SendWelcomeEmail)
	email.Post("/send-consult-confirmation", s.SendConsultConfirmationEmail)
}

// HealthCheck handles the legacy health route.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "Debt Eraser Pro Server Running",
	})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is optional; the app degrades to uncached reads and
		// in-memory chat sessions.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "debteraser-api" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != "debteraser-client" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		c.Locals("userID", uint(userID))
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// generateToken creates a JWT token for the given user ID and email
func (s *Server) generateToken(userID uint, email string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(userID), 10),
		"email": email,
		"iss":   "debteraser-api",
		"aud":   "debteraser-client",
		"exp":   now.Add(time.Hour * 24 * 7).Unix(),
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"jti":   uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// Shutdown releases server-held resources. The Fiber app itself is shut
// down by the caller before this runs.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.WarnContext(ctx, "error closing redis client", "error", err)
		}
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				return fmt.Errorf("close sql db: %w", cerr)
			}
		}
	}
	return nil
}
