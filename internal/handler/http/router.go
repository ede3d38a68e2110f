package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrquarshie/huddle/internal/auth"
	"github.com/mrquarshie/huddle/internal/service"
	"github.com/mrquarshie/huddle/pkg/health"
	"github.com/mrquarshie/huddle/pkg/middleware"
)

// RouterConfig bundles the knobs the router needs beyond its handlers.
type RouterConfig struct {
	ServiceName    string
	RateLimitRPS   int
	RateLimitBurst int
	CORS           middleware.CORSConfig
	TracingEnabled bool
}

// NewRouter creates a chi router with every API route registered.
func NewRouter(
	userService *service.UserService,
	itemService *service.ItemService,
	reviewService *service.ReviewService,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	if cfg.TracingEnabled {
		r.Use(middleware.Tracing(cfg.ServiceName))
	}
	r.Use(middleware.PrometheusMetrics())

	// Health and metrics endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Token validator that bridges to the internal JWTManager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := jwtManager.Validate(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}, nil
	}

	authHandler := NewAuthHandler(userService, logger)
	userHandler := NewUserHandler(userService, itemService, reviewService, logger)
	itemHandler := NewItemHandler(itemService, logger)
	universityHandler := NewUniversityHandler()

	rateLimited := middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(middleware.RequestLogger(logger))

		r.With(rateLimited).Post("/register", authHandler.Register)
		r.With(rateLimited).Post("/login", authHandler.Login)

		r.With(middleware.Auth(tokenValidator)).Get("/me", authHandler.Me)
	})

	r.Route("/api/users", func(r chi.Router) {
		// Profile reads are public; auth is optional so viewers get their
		// review eligibility when a token is present.
		r.With(middleware.OptionalAuth(tokenValidator), middleware.RequestLogger(logger)).
			Get("/{id}", userHandler.GetProfile)

		r.Get("/{id}/items", userHandler.ListUserItems)
		r.Get("/{id}/reviews", userHandler.ListReviews)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokenValidator))
			r.Use(middleware.RequestLogger(logger))

			r.Put("/profile", userHandler.UpdateProfile)
			r.With(rateLimited).Post("/{id}/reviews", userHandler.CreateReview)
		})
	})

	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", itemHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokenValidator))
			r.Use(middleware.RequestLogger(logger))

			r.Get("/my-items", itemHandler.MyItems)
			r.Post("/", itemHandler.Create)
			r.Put("/{id}", itemHandler.Update)
			r.Delete("/{id}", itemHandler.Delete)
		})

		r.Get("/{id}", itemHandler.Get)
	})

	// The university directory is static; let clients cache it for a day.
	r.Route("/api/universities", func(r chi.Router) {
		r.Use(middleware.CacheControl(86400))
		r.Get("/", universityHandler.List)
		r.Get("/{name}/campuses", universityHandler.Campuses)
	})

	return r
}
