package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"ATRAX_BACK-END/internal/apperrors"
	"ATRAX_BACK-END/internal/handlers"
	"ATRAX_BACK-END/internal/middleware"
	"ATRAX_BACK-END/internal/utils"
)

// Handlers groups everything the router dispatches to
type Handlers struct {
	Auth   *handlers.AuthHandler
	Events *handlers.EventsHandler
	Health *handlers.HealthHandler
}

// SetupRoutes configures all application routes
func SetupRoutes(h Handlers, tokens middleware.TokenService, authLimiter *middleware.RateLimiter) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// Health check routes
	r.HandleFunc("/healthz", h.Health.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/livez", h.Health.LivenessCheck).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.Health.ReadinessCheck).Methods(http.MethodGet)

	// API docs
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Authentication routes
	auth := r.PathPrefix("/auth").Subrouter()
	if authLimiter != nil {
		auth.Use(authLimiter.Middleware)
	}
	auth.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)

	// Public event reads
	r.HandleFunc("/events", h.Events.ListEvents).Methods(http.MethodGet)
	r.HandleFunc("/events/{id}", h.Events.GetEvent).Methods(http.MethodGet)

	// Authenticated event writes
	protected := r.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(tokens))
	protected.HandleFunc("/events", h.Events.CreateEvent).Methods(http.MethodPost)
	protected.HandleFunc("/events/{id}", h.Events.UpdateEvent).Methods(http.MethodPut)
	protected.HandleFunc("/events/{id}", h.Events.DeleteEvent).Methods(http.MethodDelete)
	protected.HandleFunc("/events/{id}/register", h.Events.RegisterAttendee).Methods(http.MethodPost)
	protected.HandleFunc("/events/{id}/unregister", h.Events.UnregisterAttendee).Methods(http.MethodDelete)

	// Root route
	r.HandleFunc("/", rootHandler).Methods(http.MethodGet)

	return r
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Events management backend is running."))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteErrorResponse(w, http.StatusNotFound, apperrors.CodeNotFound, "Route not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.WriteErrorResponse(w, apperrors.CodeMethodNotAllowed.HTTPStatus(), apperrors.CodeMethodNotAllowed, "Method not allowed")
}
