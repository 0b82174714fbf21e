package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockroomhq/stockroom-backend/api/controllers"
	"github.com/stockroomhq/stockroom-backend/api/middleware"
	"github.com/stockroomhq/stockroom-backend/internal/auditlog"
	"github.com/stockroomhq/stockroom-backend/internal/auth"
	"github.com/stockroomhq/stockroom-backend/internal/categories"
	"github.com/stockroomhq/stockroom-backend/internal/inventory"
	"github.com/stockroomhq/stockroom-backend/internal/suppliers"
	"github.com/stockroomhq/stockroom-backend/internal/users"
	"github.com/stockroomhq/stockroom-backend/pkg/auth/session"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"github.com/stockroomhq/stockroom-backend/pkg/metrics"
	"github.com/stockroomhq/stockroom-backend/pkg/redis"
)

// Deps bundles everything the router needs so main stays a wiring exercise.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	Auth           auth.Service
	Users          users.Service
	Categories     categories.Service
	Inventory      inventory.Service
	Suppliers      suppliers.Service
	AuditLog       auditlog.Service
	HTTPMetrics    *metrics.HTTPMetrics
	PromGatherer   prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.PromGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.PromGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", controllers.Me(deps.Users, logg))
			r.Patch("/", controllers.UpdateMe(deps.Users, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			staffOnly := middleware.RequireStaff(logg)
			r.Get("/", controllers.ListCategories(deps.Categories, logg))
			r.Post("/", controllers.CreateCategory(deps.Categories, logg))
			r.Get("/{id}", controllers.GetCategory(deps.Categories, logg))
			r.With(staffOnly).Patch("/{id}", controllers.UpdateCategory(deps.Categories, logg))
			r.With(staffOnly).Delete("/{id}", controllers.DeleteCategory(deps.Categories, logg))
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ListItems(deps.Inventory, logg))
			r.Post("/", controllers.CreateItem(deps.Inventory, logg))
			r.Get("/level", controllers.StockLevelReport(deps.Inventory, logg))
			r.Get("/low-stock", controllers.LowStockItems(deps.Inventory, logg))
			r.Get("/{id}", controllers.GetItem(deps.Inventory, logg))
			r.Patch("/{id}", controllers.UpdateItem(deps.Inventory, logg))
			r.Delete("/{id}", controllers.DeleteItem(deps.Inventory, logg))
			r.Post("/{id}/adjust", controllers.AdjustItemQuantity(deps.Inventory, logg))
			r.Get("/{id}/level", controllers.ItemStockLevel(deps.Inventory, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.ListSuppliers(deps.Suppliers, logg))
			r.Post("/", controllers.CreateSupplier(deps.Suppliers, logg))
			r.Get("/{id}", controllers.GetSupplier(deps.Suppliers, logg))
			r.Patch("/{id}", controllers.UpdateSupplier(deps.Suppliers, logg))
			r.Delete("/{id}", controllers.DeleteSupplier(deps.Suppliers, logg))
		})

		r.Route("/item-suppliers", func(r chi.Router) {
			r.Post("/", controllers.CreateItemSupplierLink(deps.Suppliers, logg))
			r.Get("/item/{itemId}", controllers.ListItemSupplierLinks(deps.Suppliers, logg))
			r.Patch("/{id}", controllers.UpdateItemSupplierLink(deps.Suppliers, logg))
			r.Delete("/{id}", controllers.DeleteItemSupplierLink(deps.Suppliers, logg))
		})

		r.Route("/logs", func(r chi.Router) {
			r.Get("/", controllers.ListLogs(deps.AuditLog, logg))
			r.Get("/item/{itemId}", controllers.ListItemLogs(deps.AuditLog, logg))
		})
	})

	return r
}
