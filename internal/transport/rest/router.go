package rest

import (
	"log/slog"
	"net/http"

	"github.com/ardanpr/expense-report-portal/internal/admin"
	"github.com/ardanpr/expense-report-portal/internal/auth"
	"github.com/ardanpr/expense-report-portal/internal/report"
	"github.com/ardanpr/expense-report-portal/internal/transport/middleware"
	"github.com/ardanpr/expense-report-portal/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
)

func RegisterAllRoutes(router *chi.Mux, db *sqlx.DB, allowedOrigins []string, authHandler *auth.Handler, reportHandler *report.Handler, adminHandler *admin.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Report submission is unauthenticated; the reporting frontend has
		// no login flow of its own.
		if reportHandler != nil {
			r.Post("/reports/bulk", reportHandler.BulkSubmit)
		}

		if authHandler != nil {
			r.Route("/admin", func(ar chi.Router) {
				ar.Post("/login", authHandler.Login)

				// Everything else under /admin requires a valid token
				ar.Group(func(pr chi.Router) {
					pr.Use(authHandler.AuthMiddleware)

					pr.Get("/verify", authHandler.Verify)

					if adminHandler != nil {
						pr.Get("/reports", adminHandler.ListReports)
						pr.Get("/reports/{id}", adminHandler.GetReport)
						pr.Delete("/reports/{id}", adminHandler.DeleteReport)
						pr.Get("/stats", adminHandler.GetStats)
						pr.Get("/gpns", adminHandler.ListGPNs)
						pr.Get("/items", adminHandler.ListItems)
					}
				})
			})
		}
	})
}
