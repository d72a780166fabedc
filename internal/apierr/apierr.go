// Package apierr writes the JSON error body shared by handlers and middlewares.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sbilibin2017/gw-points-wallet/internal/logger"
	"github.com/sbilibin2017/gw-points-wallet/internal/metrics"
	"github.com/sbilibin2017/gw-points-wallet/internal/repositories"
	"github.com/sbilibin2017/gw-points-wallet/internal/services"
)

// Codes produced outside the service layer.
const (
	CodeMalformedJSON  = "MALFORMED_JSON"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeConflict       = "IDEMPOTENCY_CONFLICT"
	CodeInternal       = "INTERNAL_ERROR"
)

// Response is the error body returned to clients.
type Response struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Status    int            `json:"status"`
	Path      string         `json:"path"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

// Write writes an error body with the given status and code.
func Write(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	if message == "" {
		message = http.StatusText(status)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{
		Code:      code,
		Message:   message,
		Status:    status,
		Path:      r.URL.Path,
		Timestamp: time.Now().UTC(),
		Details:   details,
	})
}

// WriteError maps err to a status and code and writes it. Business errors
// surface their code verbatim; anything unknown is logged and hidden behind
// INTERNAL_ERROR.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if be, ok := services.AsBusinessError(err); ok {
		metrics.RecordBusinessError(be.Code)
		Write(w, r, be.Status, be.Code, be.Code, nil)
		return
	}
	if errors.Is(err, repositories.ErrIdempotencyConflict) {
		metrics.RecordBusinessError(CodeConflict)
		Write(w, r, http.StatusConflict, CodeConflict, "request is already being processed", nil)
		return
	}

	logger.Log.Errorw("request failed", "path", r.URL.Path, "error", err)
	Write(w, r, http.StatusInternalServerError, CodeInternal, "internal error", nil)
}
