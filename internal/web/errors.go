package web

// errors.go provides unified error response handling for the web layer.
//
// The technical error is logged with the request ID; the client gets the
// message, action and code from core.MapError. The status code comes from the
// error's identity where core exposes a sentinel, and from the code category
// otherwise.

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/catalog-import/internal/core"
	"github.com/JonMunkholm/catalog-import/internal/logging"
	"github.com/JonMunkholm/catalog-import/internal/tenantlock"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
// Run is set when the failure happened after an import run was recorded.
type ErrorResponse struct {
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Action  string          `json:"action,omitempty"`
	Code    string          `json:"code"`
	Run     *core.ImportRun `json:"run,omitempty"`
}

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, run *core.ImportRun) {
	userMsg := core.MapError(err)
	status := statusFor(err, userMsg.Code)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "30")
	}
	writeJSONStatus(w, status, ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
		Run:     run,
	})
}

// statusFor picks the HTTP status for err.
func statusFor(err error, code string) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, core.ErrInvalidTenant), errors.Is(err, core.ErrNoFile):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrFileTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrMissingHandleColumn), errors.Is(err, core.ErrEmptyFile),
		errors.Is(err, core.ErrNoWorksheet):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, tenantlock.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}

	switch {
	case strings.HasPrefix(code, "HDR"), strings.HasPrefix(code, "FILE"):
		return http.StatusUnprocessableEntity
	case strings.HasPrefix(code, "DB"):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
