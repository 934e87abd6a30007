package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/toronyi/bakery-api/internal/db"
	handler "github.com/toronyi/bakery-api/internal/handler/http"
	"github.com/toronyi/bakery-api/internal/order"
	"github.com/toronyi/bakery-api/internal/product"
)

// NewRouter wires repositories, services and handlers onto a chi router.
func NewRouter(pg *db.Postgres, version string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(corsMiddleware, requestLogger)

	orderRepo := order.NewRepository(pg.Pool)
	orderSvc := order.NewService(orderRepo)
	orderHandler := handler.NewOrderHandler(orderSvc)

	productRepo := product.NewRepository(pg.Pool)
	productSvc := product.NewService(productRepo)
	productHandler := handler.NewProductHandler(productSvc)

	r.Get("/", rootHandler(version))
	r.Get("/health", healthHandler(pg))

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/", apiInfoHandler(version))
		productHandler.RegisterRoutes(api)
		orderHandler.RegisterRoutes(api)
	})

	r.NotFound(notFoundHandler)

	return r
}

func rootHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Toronyi bakery API server",
			"version": version,
			"status":  "running",
			"endpoints": map[string]string{
				"health": "/health",
				"api":    "/api/v1",
			},
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func apiInfoHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Toronyi bakery API v1",
			"version": version,
			"endpoints": map[string]string{
				"products": "/api/v1/products",
				"orders":   "/api/v1/orders",
				"health":   "/health",
			},
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func healthHandler(pg *db.Postgres) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		databaseStatus := "connected"
		status := http.StatusOK
		if err := pg.Pool.Ping(r.Context()); err != nil {
			databaseStatus = "disconnected"
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, map[string]any{
			"status":    "OK",
			"server":    "running",
			"database":  databaseStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"success":       false,
		"message":       "Endpoint not found",
		"requested_url": r.URL.Path,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}
