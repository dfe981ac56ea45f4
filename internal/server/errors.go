package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/conduit-lang/gridmeta/internal/table/column"
	"github.com/conduit-lang/gridmeta/internal/table/definition"
	"github.com/conduit-lang/gridmeta/internal/table/delegate"
	"github.com/conduit-lang/gridmeta/internal/table/pathinfo"
)

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error  ErrorDetail `json:"error"`
	Status int         `json:"status"`
	Path   string      `json:"path,omitempty"`
}

// ErrorDetail describes an error
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps engine errors to HTTP status codes and error codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, delegate.ErrTableNotFound), errors.Is(err, delegate.ErrColumnNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, delegate.ErrTableExists), errors.Is(err, delegate.ErrColumnExists):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, column.ErrUnhandledColumnKind),
		errors.Is(err, definition.ErrInvalidDefinition),
		errors.Is(err, pathinfo.ErrPathResolution):
		return http.StatusUnprocessableEntity, "CONFIGURATION_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"
	}
}

// writeError writes err with the status it maps to.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "An internal server error occurred"
	}
	WriteError(w, r, status, code, message)
}

// WriteError writes an error response
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	resp := ErrorResponse{
		Error:  ErrorDetail{Code: code, Message: message},
		Status: status,
	}
	if r != nil {
		resp.Path = r.URL.Path
	}
	writeJSON(w, status, resp)
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusBadRequest, "BAD_REQUEST", message)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
