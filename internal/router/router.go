package router

import (
	"strings"

	"github.com/anonto42/zynq/backend/internal/handlers"
	"github.com/anonto42/zynq/backend/internal/middleware"
	"github.com/anonto42/zynq/backend/internal/repositories"
	"github.com/anonto42/zynq/backend/pkg/config"
	"github.com/anonto42/zynq/backend/pkg/firebase"
	"github.com/anonto42/zynq/backend/pkg/media"
	"github.com/anonto42/zynq/backend/pkg/metrics"
	"github.com/anonto42/zynq/backend/pkg/ratelimit"
	"github.com/anonto42/zynq/backend/validators"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// Dependencies are the collaborators SetupRoutes injects into the handlers.
// Metrics, Limiter and Firebase are optional.
type Dependencies struct {
	Config   *config.Config
	Repos    *repositories.Repositories
	Media    media.Store
	Metrics  *metrics.Metrics
	Limiter  ratelimit.Allower
	Firebase *firebase.App
	Logger   logrus.FieldLogger
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	cfg, repos, logger := deps.Config, deps.Repos, deps.Logger

	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(logger)
	e.Validator = validators.NewValidator()

	config.SetupMiddleware(e, logger)
	e.Use(eMiddleware.BodyLimit(cfg.MaxUploadSize))
	if deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware())
	}
	e.Use(eMiddleware.StaticWithConfig(eMiddleware.StaticConfig{
		Root:  cfg.PublicDir,
		HTML5: true,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/api")
		},
	}))

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api")
	if deps.Limiter != nil {
		api.Use(ratelimit.Middleware(deps.Limiter, logger))
		logger.Info("Rate limiting applied to /api group.")
	}

	// --- Unauthenticated routes ---
	var verifier handlers.TokenVerifier
	if deps.Firebase != nil {
		verifier = deps.Firebase.AuthClient
	}
	handlers.NewAuthHandler(repos.Users, verifier, cfg.JWTSecret, cfg.JWTTTL).RegisterAuthRoutes(api)

	// --- Routes that honour a bearer token when one is sent ---
	secured := api.Group("", middleware.JWTAuthMiddleware(cfg.JWTSecret, cfg.RequireAuth))
	logger.WithField("required", cfg.RequireAuth).Info("JWT middleware applied to /api routes.")

	notifier := handlers.NewNotifier(repos.Notifications, deps.Metrics, logger)

	handlers.NewUserHandler(repos.Users, repos.Posts).RegisterProfileRoutes(secured)
	handlers.NewPostHandler(repos.Posts, repos.Users, repos.Notifications, deps.Media, logger).RegisterPostRoutes(secured)
	handlers.NewFeedHandler(repos.Posts, repos.Users).RegisterFeedRoutes(secured)
	handlers.NewLikeHandler(repos.Posts, notifier, deps.Metrics).RegisterLikeRoutes(secured)
	handlers.NewCommentHandler(repos.Posts, repos.Users, notifier).RegisterCommentRoutes(secured)
	handlers.NewSavedPostHandler(repos.Users, repos.Posts, deps.Metrics).RegisterSavedPostRoutes(secured)
	handlers.NewFriendshipHandler(repos.Users).RegisterFriendshipRoutes(secured)
	handlers.NewNotificationHandler(repos.Notifications, repos.Users, repos.Posts).RegisterNotificationRoutes(secured)
	handlers.NewMessageHandler(repos.Messages, repos.Users, deps.Media, logger).RegisterMessageRoutes(secured)
	handlers.NewStoryHandler(repos.Stories, repos.Users, deps.Media, cfg.StoryTTL, logger).RegisterStoryRoutes(secured)

	logger.Info("All routes configured.")
}
