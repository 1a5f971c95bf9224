package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"esim-myanmar-api/internal/usecase"
)

// Server is the public HTTP surface: payment initiation, the gateway
// callback endpoint, and the small informational endpoints the storefront
// uses.
type Server struct {
	payUC          usecase.PaymentUseCase
	requestTimeout time.Duration
	log            *zerolog.Logger
}

func NewServer(payUC usecase.PaymentUseCase, requestTimeout time.Duration, logger *zerolog.Logger) *Server {
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	return &Server{payUC: payUC, requestTimeout: requestTimeout, log: logger}
}

// Routes builds the router with the standard middleware chain.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(TraceID())
	r.Use(Recover(s.log))
	r.Use(RequestLog(s.log))
	r.Use(Timeout(s.requestTimeout))

	r.Get("/api/health", s.handleHealth)
	r.Post("/api/payment/initiate", s.handleInitiate)
	r.Post("/api/payment/callback", s.handleCallback)
	r.Post("/api/contact", s.handleContact)
	r.Get("/api/compatibility", s.handleCompatibility)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
