package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/anxmeshhh/PrepIQ/internal/catalog"
	"github.com/anxmeshhh/PrepIQ/internal/service"
	"github.com/anxmeshhh/PrepIQ/internal/speech"
	"github.com/anxmeshhh/PrepIQ/internal/transport/rest/handler"
	"github.com/anxmeshhh/PrepIQ/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	InterviewService *service.InterviewService
	Catalog          *catalog.Catalog
	Transcriber      speech.Transcriber
	TotalQuestions   int
	WSHub            *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	interviewHandler := handler.NewInterviewHandler(c.InterviewService, c.AuthService, c.TotalQuestions)
	domainHandler := handler.NewDomainHandler(c.Catalog)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.InterviewService, c.Transcriber)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/domains", domainHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/domains/{key}/resources", domainHandler.Resources).Methods("GET", "OPTIONS")

	v1.HandleFunc("/interviews", interviewHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/interviews", interviewHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/interviews/{id}", interviewHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/interviews/{id}/responses", interviewHandler.Submit).Methods("POST", "OPTIONS")
	v1.HandleFunc("/interviews/{id}/questions/retry", interviewHandler.Retry).Methods("POST", "OPTIONS")
	v1.HandleFunc("/interviews/{id}/end", interviewHandler.End).Methods("POST", "OPTIONS")
	v1.HandleFunc("/interviews/{id}/report", interviewHandler.Report).Methods("GET", "OPTIONS")

	// WebSocket route (public with token in query param)
	v1.HandleFunc("/ws/interviews/{id}", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

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
