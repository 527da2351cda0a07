package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mahmoud22020/Pvdmenus/internal/auth"
	"github.com/mahmoud22020/Pvdmenus/internal/config"
	"github.com/mahmoud22020/Pvdmenus/internal/service"
	"github.com/mahmoud22020/Pvdmenus/pkg/health"
	"github.com/mahmoud22020/Pvdmenus/pkg/middleware"
)

const serviceName = "menu-admin"

// Services bundles what the router serves.
type Services struct {
	Auth         *service.AuthService
	Menu         *service.MenuService
	DayPricing   *service.DayPricingService
	Translations *service.TranslationService
	Bulk         *service.BulkService
}

// NewRouter creates a chi router with all menu admin routes registered.
func NewRouter(
	svc Services,
	jwt *auth.JWTManager,
	cfg *config.Config,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins
	r.Use(middleware.CORS(cors))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	authHandler := NewAuthHandler(svc.Auth, logger)
	categoryHandler := NewCategoryHandler(svc.Menu, logger)
	itemHandler := NewItemHandler(svc.Menu, logger)
	dayPricingHandler := NewDayPricingHandler(svc.DayPricing, logger)
	translationHandler := NewTranslationHandler(svc.Translations, logger)
	bulkHandler := NewBulkHandler(svc.Bulk, cfg.MaxUploadBytes(), logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.RateLimit(cfg.LoginRateRPS, cfg.LoginRateBurst, logger)).
			Post("/auth/login", authHandler.Login)

		r.With(middleware.Auth(jwt.Middleware)).
			Get("/bulk/template", bulkHandler.Template)

		r.Route("/venues/{venue}", func(r chi.Router) {
			r.Use(middleware.Auth(jwt.Middleware))
			r.Use(middleware.RequireVenue("venue"))

			r.Get("/categories", categoryHandler.ListCategories)
			r.Post("/categories", categoryHandler.CreateCategory)
			r.Get("/categories/{id}", categoryHandler.GetCategory)
			r.Put("/categories/{id}", categoryHandler.UpdateCategory)
			r.Delete("/categories/{id}", categoryHandler.DeleteCategory)

			r.Get("/items", itemHandler.ListItems)
			r.Post("/items", itemHandler.CreateItem)
			r.Get("/items/{id}", itemHandler.GetItem)
			r.Put("/items/{id}", itemHandler.UpdateItem)
			r.Delete("/items/{id}", itemHandler.DeleteItem)

			r.Get("/day-pricing/{itemId}", dayPricingHandler.GetDayPricing)
			r.Put("/day-pricing/{itemId}", dayPricingHandler.PutDayPricing)

			r.Get("/translations/categories/{id}", translationHandler.ListCategoryTranslations)
			r.Put("/translations/categories", translationHandler.PutCategoryTranslation)
			r.Get("/translations/items/{id}", translationHandler.ListItemTranslations)
			r.Put("/translations/items", translationHandler.PutItemTranslation)
			r.Post("/translations/fill", translationHandler.FillTranslations)

			r.Post("/bulk/categories", bulkHandler.BulkCategories)
			r.Post("/bulk/items", bulkHandler.BulkItems)
		})
	})

	return r
}
