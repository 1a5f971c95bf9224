package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"esim-myanmar-api/internal/domain"
	"esim-myanmar-api/internal/domain/model"
	"esim-myanmar-api/internal/infra/logging"
)

// apiError is the structured error body: kind lets callers branch
// programmatically, field carries validation detail.
type apiError struct {
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, e apiError) {
	writeJSON(w, code, struct {
		Error apiError `json:"error"`
	}{Error: e})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "eSIM Myanmar API",
	})
}

func (s *Server) handleInitiate(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentInitiation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, apiError{Kind: "validation", Message: "invalid request body"})
		return
	}

	res, err := s.payUC.Initiate(r.Context(), &req)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			writeError(w, http.StatusBadRequest, apiError{Kind: "validation", Field: vErr.Field, Message: vErr.Error()})
		case errors.Is(err, domain.ErrTransport):
			// Retryable by the caller; distinct from a gateway rejection.
			writeError(w, http.StatusBadGateway, apiError{Kind: "transport", Message: "payment gateway unreachable"})
		default:
			writeError(w, http.StatusInternalServerError, apiError{Kind: "internal", Message: "payment initiation failed"})
		}
		return
	}
	// Gateway rejections land here as res.Success == false with the
	// gateway's payload; that is an outcome, not an HTTP failure.
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	var cb model.PaymentCallback
	if err := json.NewDecoder(r.Body).Decode(&cb); err != nil {
		writeError(w, http.StatusBadRequest, apiError{Kind: "validation", Message: "invalid callback body"})
		return
	}

	outcome, err := s.payUC.HandleCallback(r.Context(), &cb)
	if err != nil {
		if errors.Is(err, domain.ErrSignatureMismatch) {
			writeError(w, http.StatusBadRequest, apiError{Kind: "signature_mismatch", Message: "invalid hash"})
			return
		}
		writeError(w, http.StatusInternalServerError, apiError{Kind: "internal", Message: "callback processing failed"})
		return
	}

	// Duplicates get the same acknowledgement their status earned the first
	// time, so the gateway sees a stable answer across redeliveries.
	status := "received"
	if outcome == model.OutcomeConfirmed || (outcome == model.OutcomeDuplicate && cb.Status == model.CallbackStatusConfirmed) {
		status = "success"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

type contactForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Message  string `json:"message"`
	Language string `json:"language"`
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var form contactForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, apiError{Kind: "validation", Message: "invalid request body"})
		return
	}
	if form.Language == "" {
		form.Language = "en"
	}

	// No storage here; the submission is logged for the support workflow.
	log := logging.With(r.Context(), s.log)
	log.Info().
		Str("name", form.Name).
		Str("email", form.Email).
		Str("language", form.Language).
		Msg("contact form submitted")

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Thank you for your message. We will contact you soon!",
		"submitted_at": time.Now().Unix(),
	})
}

type deviceSupport struct {
	Brand   string   `json:"brand"`
	Models  []string `json:"models"`
	Support string   `json:"support"`
}

var compatibilityTable = struct {
	Devices  []deviceSupport `json:"devices"`
	Networks []string        `json:"networks"`
}{
	Devices: []deviceSupport{
		{Brand: "iPhone", Models: []string{"iPhone 12", "iPhone 13", "iPhone 14", "iPhone 15"}, Support: "full"},
		{Brand: "Samsung", Models: []string{"Galaxy S21", "Galaxy S22", "Galaxy S23", "Galaxy Note 20"}, Support: "full"},
		{Brand: "Google", Models: []string{"Pixel 4", "Pixel 5", "Pixel 6", "Pixel 7"}, Support: "full"},
		{Brand: "Huawei", Models: []string{"P40", "P50", "Mate 40", "Mate 50"}, Support: "limited"},
	},
	Networks: []string{"Telenor", "Ooredoo", "MPT", "Mytel"},
}

func (s *Server) handleCompatibility(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, compatibilityTable)
}
