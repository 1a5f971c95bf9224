package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"esim-myanmar-api/internal/usecase"
)

// Server is the operator-facing admin API: session login, transaction
// listing and revenue stats. Everything except login sits behind the JWT
// session middleware.
type Server struct {
	payUC  usecase.PaymentUseCase
	auth   *AuthManager
	apiKey string
	log    *zerolog.Logger
}

func NewServer(payUC usecase.PaymentUseCase, auth *AuthManager, apiKey string, logger *zerolog.Logger) *Server {
	return &Server{payUC: payUC, auth: auth, apiKey: apiKey, log: logger}
}

// RegisterRoutes mounts the admin API on the given router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/session", s.handleLogin)
	r.Group(func(g chi.Router) {
		g.Use(s.authMiddleware)
		g.Get("/api/v1/transactions", s.handleTransactions)
		g.Get("/api/v1/stats", s.handleStats)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.auth.cfg.HMACSecret) == 0 {
			s.log.Error().Msg("admin JWT secret is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if s.apiKey == "" || subtle.ConstantTimeCompare([]byte(req.Key), []byte(s.apiKey)) != 1 {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	token, err := s.auth.Mint(w)
	if err != nil {
		http.Error(w, "Failed to mint session", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
}
