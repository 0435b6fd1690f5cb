package httpapi

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/polytrigger/polytrigger/internal/marketdata"
	"github.com/polytrigger/polytrigger/internal/metrics"
	"github.com/polytrigger/polytrigger/internal/signup"
	"github.com/polytrigger/polytrigger/internal/strategy"
)

// Handlers carries the endpoint dependencies.
type Handlers struct {
	market         *marketdata.Service
	signups        *signup.Service
	metrics        *metrics.Registry
	tickerInterval time.Duration
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"json_encoding_failed"}`, http.StatusInternalServerError)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      code,
		RequestID: requestID(r),
		Timestamp: time.Now().UTC(),
	})
}

// NotFound handles unknown routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	h.writeError(w, r, http.StatusNotFound, "endpoint_not_found",
		"The requested endpoint does not exist")
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

type parseRequest struct {
	Text string `json:"text"`
}

// ParseStrategy runs the validating strategy parser over the request
// text. A validation failure is a 422 carrying the suggestions, not a
// server error.
func (h *Handlers) ParseStrategy(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid_body",
			"Request body must be JSON with a text field")
		return
	}

	start := time.Now()
	result := strategy.ParseWithValidation(req.Text)
	if h.metrics != nil {
		h.metrics.ParseDuration.Observe(time.Since(start).Seconds())
		if result.Success {
			h.metrics.ParseRequests.WithLabelValues("valid").Inc()
			h.metrics.ParseWarnings.Add(float64(len(result.Strategy.Warnings)))
		} else {
			h.metrics.ParseRequests.WithLabelValues("invalid").Inc()
		}
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	h.writeJSON(w, status, result)
}

// Events serves the current Polymarket markets.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"events": h.market.Events(r.Context()),
	})
}

// Perps serves the current Hyperliquid perp tickers.
func (h *Handlers) Perps(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"tickers": h.market.Tickers(r.Context()),
	})
}

type earlyAccessRequest struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

// EarlyAccess records an early-access signup.
func (h *Handlers) EarlyAccess(w http.ResponseWriter, r *http.Request) {
	var req earlyAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid_body",
			"Request body must be JSON with an email field")
		return
	}

	result, err := h.signups.Register(r.Context(), req.Email, req.Source, clientIP(r))
	switch {
	case errors.Is(err, signup.ErrRateLimited):
		h.writeError(w, r, http.StatusTooManyRequests, "rate_limited",
			"Too many signup attempts, try again later")
	case errors.Is(err, signup.ErrInvalidEmail):
		h.writeError(w, r, http.StatusBadRequest, "invalid_email",
			"The email address is not valid")
	case err != nil:
		h.writeError(w, r, http.StatusInternalServerError, "storage_error",
			"Could not record the signup")
	default:
		h.writeJSON(w, http.StatusOK, map[string]any{
			"ok":                 true,
			"already_registered": result.AlreadyRegistered,
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
