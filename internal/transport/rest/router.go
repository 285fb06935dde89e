package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"formpulse/internal/service"
	"formpulse/internal/transport/rest/handler"
	"formpulse/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router.
type Container struct {
	AuthService      *service.AuthService
	FormService      *service.FormService
	ResponseService  *service.ResponseService
	AnalyticsService *service.AnalyticsService
}

// NewRouter creates the API router with all endpoints.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	formHandler := handler.NewFormHandler(c.FormService)
	responseHandler := handler.NewResponseHandler(c.ResponseService)
	analyticsHandler := handler.NewAnalyticsHandler(c.AnalyticsService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Responder-facing routes: anonymous allowed, claims attached if present
	public := v1.PathPrefix("/public").Subrouter()
	public.Use(authMW.OptionalUser)
	public.HandleFunc("/forms/{formId}", formHandler.GetPublic).Methods("GET", "OPTIONS")
	public.HandleFunc("/forms/{formId}/responses", responseHandler.Submit).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Owner routes (require auth)
	owner := v1.NewRoute().Subrouter()
	owner.Use(authMW.RequireUser)

	owner.HandleFunc("/forms", formHandler.Create).Methods("POST", "OPTIONS")
	owner.HandleFunc("/forms", formHandler.List).Methods("GET", "OPTIONS")
	owner.HandleFunc("/forms/{formId}", formHandler.Get).Methods("GET", "OPTIONS")
	owner.HandleFunc("/forms/{formId}", formHandler.Update).Methods("PUT", "OPTIONS")
	owner.HandleFunc("/forms/{formId}", formHandler.Delete).Methods("DELETE", "OPTIONS")
	owner.HandleFunc("/forms/{formId}/publish", formHandler.SetPublished(true)).Methods("POST", "OPTIONS")
	owner.HandleFunc("/forms/{formId}/unpublish", formHandler.SetPublished(false)).Methods("POST", "OPTIONS")

	owner.HandleFunc("/forms/{formId}/responses", responseHandler.List).Methods("GET", "OPTIONS")
	owner.HandleFunc("/responses/{responseId}", responseHandler.Delete).Methods("DELETE", "OPTIONS")

	owner.HandleFunc("/forms/{formId}/analytics", analyticsHandler.FormAnalytics).Methods("GET", "OPTIONS")
	owner.HandleFunc("/forms/{formId}/analytics/trend", analyticsHandler.ResponseTrend).Methods("GET", "OPTIONS")
	owner.HandleFunc("/dashboard/stats", analyticsHandler.DashboardStats).Methods("GET", "OPTIONS")
	owner.HandleFunc("/dashboard/engagement", analyticsHandler.Engagement).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
