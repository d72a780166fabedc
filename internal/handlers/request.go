package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sbilibin2017/gw-points-wallet/internal/apierr"
	"github.com/sbilibin2017/gw-points-wallet/internal/logger"
)

// IdempotencyKeyHeader is the fallback source of the request id.
const IdempotencyKeyHeader = "X-Idempotency-Key"

var validate = newValidator()

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// pathUserID parses the {userId} path parameter and writes a 400 on failure.
func pathUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "userId")
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		logger.Log.Warnw("invalid user id in path", "user_id", raw)
		apierr.Write(w, r, http.StatusBadRequest, apierr.CodeInvalidRequest, "userId must be a positive integer", nil)
		return 0, false
	}
	return userID, true
}

// decodeBody decodes and validates a JSON body into dst, writing the error
// response itself when it fails.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Log.Warnw("failed to decode request body", "path", r.URL.Path, "error", err)
		apierr.Write(w, r, http.StatusBadRequest, apierr.CodeMalformedJSON, "request body is not valid JSON", nil)
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			apierr.WriteError(w, r, err)
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		logger.Log.Warnw("request validation failed", "path", r.URL.Path, "fields", fields)
		apierr.Write(w, r, http.StatusBadRequest, apierr.CodeInvalidRequest, "request validation failed", map[string]any{
			"fieldErrors": fields,
		})
		return false
	}
	return true
}

// requestID prefers the id from the body and falls back to the header. A
// header id longer than the body limit gets a 400.
func requestID(w http.ResponseWriter, r *http.Request, fromBody string) (string, bool) {
	if id := strings.TrimSpace(fromBody); id != "" {
		return id, true
	}
	id := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if err := validate.Var(id, "max=120"); err != nil {
		logger.Log.Warnw("idempotency key too long", "path", r.URL.Path, "length", len(id))
		apierr.Write(w, r, http.StatusBadRequest, apierr.CodeInvalidRequest, "request validation failed", map[string]any{
			"fieldErrors": map[string]string{IdempotencyKeyHeader: "max"},
		})
		return "", false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
