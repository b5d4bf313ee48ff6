package app

import (
	"net/http"
	"time"

	"github.com/Pranshu23x/project-server/internal/rest"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Google authorization
	r.HandleFunc("/auth/url", deps.AuthHandler.AuthUrl).Methods("POST")
	r.HandleFunc("/oauth2callback", deps.AuthHandler.OAuthCallback).Methods("GET")
	r.HandleFunc("/auth/status/{userId}", deps.AuthHandler.Status).Methods("GET")
	r.HandleFunc("/auth/{userId}", deps.AuthHandler.Logout).Methods("DELETE")

	// Scheduling
	r.HandleFunc("/schedule-event", deps.ScheduleHandler.ScheduleEvent).Methods("POST")

	// Questions
	r.HandleFunc("/ask-gemini", deps.AskHandler.AskGemini).Methods("POST")

	// Operations
	r.HandleFunc("/health", healthHandler(deps)).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})).Methods("GET")
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func healthHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rest.WriteJSON(w, http.StatusOK, healthResponse{
			Status:    "ok",
			Timestamp: deps.Clock.Now().UTC().Format(time.RFC3339),
		})
	}
}
