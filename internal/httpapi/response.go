package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tastingclub/tastings/internal/tasting"
)

type APIError struct {
	Message string               `json:"message"`
	Code    string               `json:"code,omitempty"`
	Fields  []tasting.FieldError `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	env := ErrorEnvelope{Error: APIError{Message: msg, Code: code}}
	var verr *tasting.ValidationError
	if errors.As(err, &verr) {
		env.Error.Fields = verr.Fields
	}
	writeJSON(w, status, env)
}

// classify maps a service error to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, tasting.ErrValidation):
		return http.StatusUnprocessableEntity, "validation_failed"
	case errors.Is(err, tasting.ErrIndexOutOfRange):
		return http.StatusNotFound, "index_out_of_range"
	case errors.Is(err, tasting.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, tasting.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store_unavailable"
	case errors.Is(err, tasting.ErrStoreMalformed):
		return http.StatusInternalServerError, "store_malformed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "code", code, "error", err)
	}
	respondError(w, status, code, err)
}
