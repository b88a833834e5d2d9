package rest

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"exhibitsurvey/internal/service"
	"exhibitsurvey/internal/transport/rest/handler"
	"exhibitsurvey/internal/transport/rest/middleware"
	"exhibitsurvey/internal/transport/ws"
)

// CORS holds the allowed origins, methods and headers. Empty fields fall back
// to permissive defaults.
type CORS struct {
	Origins string
	Methods string
	Headers string
}

// Container holds all dependencies for the router
type Container struct {
	SessionService *service.SessionService
	TokenService   *service.TokenService
	WSHub          *ws.Hub
	Logger         *zap.Logger
	CORS           CORS
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	surveyHandler := handler.NewSurveyHandler(c.SessionService)
	sessionHandler := handler.NewSessionHandler(c.SessionService)
	legacyHandler := handler.NewLegacyHandler(c.SessionService)
	wsHandler := ws.NewHandler(c.WSHub, c.TokenService, c.SessionService, c.Logger)

	// Initialize middleware
	sessionMW := middleware.NewSessionMiddleware(c.TokenService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORS))
	r.Use(middleware.Logging(c.Logger))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Endpoint of the original web client
	r.HandleFunc("/api/submit", legacyHandler.Ping).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/submit", legacyHandler.Submit).Methods("POST", "OPTIONS")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/surveys", surveyHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/surveys/{surveyType}", surveyHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/surveys/{surveyType}/sessions", surveyHandler.StartSession).Methods("POST", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/sessions", wsHandler.SessionWS).Methods("GET")

	// Session routes (require session token)
	sessionRoutes := v1.PathPrefix("/sessions/current").Subrouter()
	sessionRoutes.Use(sessionMW.RequireSession)

	sessionRoutes.HandleFunc("", sessionHandler.State).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/steps/{step}", sessionHandler.View).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/responses/{key}", sessionHandler.SetResponse).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/responses/{key}/interactions", sessionHandler.Interact).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/submit", sessionHandler.Submit).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(cfg CORS) mux.MiddlewareFunc {
	allowedOrigins := orDefault(cfg.Origins, "*")
	allowedMethods := orDefault(cfg.Methods, "GET, POST, PUT, DELETE, OPTIONS")
	allowedHeaders := orDefault(cfg.Headers, "Content-Type, Authorization")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
