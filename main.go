package main

import (
	"net/http"
	"time"

	"leavedesk/config"
	"leavedesk/database"
	"leavedesk/handlers"
	"leavedesk/middleware"
	"leavedesk/models"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	middleware.SetJWTSecret(cfg.JWTSecret)

	if err := database.Init(cfg.DatabaseURL, logger); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	router := NewRouter(cfg, logger)

	logger.Info("server starting", zap.String("port", cfg.ServerPort))
	if err := http.ListenAndServe(":"+cfg.ServerPort, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// NewRouter wires every route; tests reuse it against a test database.
func NewRouter(cfg *config.Config, logger *zap.Logger) chi.Router {
	authHandler := handlers.NewAuthHandler(cfg, logger)
	leaveHandler := handlers.NewLeaveHandler(cfg, logger)
	lieuHandler := handlers.NewLieuHandler(cfg, logger)
	dashboardHandler := handlers.NewDashboardHandler(cfg, logger)
	adminHandler := handlers.NewAdminHandler(cfg, logger)
	userHandler := handlers.NewUserHandler(cfg, logger)

	reviewers := middleware.RequireRole(models.RoleManager, models.RoleAdmin, models.RoleSuperAdmin)
	admins := middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin)

	router := chi.NewRouter()
	router.Use(middleware.RequestLogger(logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if db, err := database.GetDB().DB(); err != nil || db.Ping() != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(10, time.Minute))
		r.Post("/login", authHandler.Login)
	})

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		r.Post("/logout", authHandler.Logout)
		r.Post("/change-password", authHandler.ChangePassword)

		// Everything else waits until a seeded password is replaced.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePasswordChange)

			r.Get("/dashboard", dashboardHandler.Dashboard)

			r.Get("/leave-requests", leaveHandler.List)
			r.Get("/leave-requests/create", leaveHandler.NewRequestView)
			r.Post("/leave-requests", leaveHandler.Create)
			r.Get("/leave-requests/{id}", leaveHandler.Get)
			r.Delete("/leave-requests/{id}", leaveHandler.Delete)

			r.Get("/lieu-offs", lieuHandler.List)

			// Reviewer routes
			r.Group(func(r chi.Router) {
				r.Use(reviewers)
				r.Get("/employee-leave-requests", leaveHandler.TeamList)
				r.Post("/leave-requests/{id}/approve", leaveHandler.Approve)
				r.Post("/leave-requests/{id}/reject", leaveHandler.Reject)
				r.Get("/employee-lieu-offs", lieuHandler.TeamList)
				r.Post("/lieu-offs", lieuHandler.Grant)
				r.Get("/users", userHandler.List)
			})

			// Admin routes
			r.Group(func(r chi.Router) {
				r.Use(admins)

				r.Post("/users", userHandler.Create)
				r.Put("/users/{id}", userHandler.Update)
				r.Delete("/users/{id}", userHandler.Delete)

				r.Get("/leave-types", adminHandler.ListLeaveTypes)
				r.Post("/leave-types", adminHandler.CreateLeaveType)
				r.Put("/leave-types/{id}", adminHandler.UpdateLeaveType)
				r.Delete("/leave-types/{id}", adminHandler.DeleteLeaveType)

				r.Get("/shifts", adminHandler.ListShifts)
				r.Post("/shifts", adminHandler.CreateShift)
				r.Put("/shifts/{id}", adminHandler.UpdateShift)
				r.Delete("/shifts/{id}", adminHandler.DeleteShift)

				r.Get("/designations", adminHandler.ListDesignations)
				r.Post("/designations", adminHandler.CreateDesignation)
				r.Put("/designations/{id}", adminHandler.UpdateDesignation)
				r.Delete("/designations/{id}", adminHandler.DeleteDesignation)

				r.Get("/login-logs", userHandler.LoginLogs)
				r.Get("/export/csv", adminHandler.ExportCSV)
			})
		})
	})

	return router
}
