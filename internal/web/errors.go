package web

// errors.go turns handler errors into JSON responses.
//
// The technical error is logged with the request ID; the client only ever
// sees the mapped message and code, never SQL or parameter values.

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/schoolreport/internal/core"
	"github.com/JonMunkholm/schoolreport/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code"`
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrUnknownEndpoint):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the client-safe response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	resp := ErrorResponse{Error: msg.Message, Action: msg.Action, Code: msg.Code}
	if status == http.StatusInternalServerError {
		resp = ErrorResponse{Error: "Internal server error", Code: msg.Code}
	}
	writeJSON(w, status, resp)
}
