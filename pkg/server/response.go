package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"

	errs "github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/store"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorBody(code, message string) map[string]errorPayload {
	return map[string]errorPayload{"error": {Code: code, Message: message}}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errNotFound(format string, args ...any) error {
	return errs.New(errs.ErrCodeNotFound, format, args...)
}

// statusFor maps an error to its HTTP status and error code.
func statusFor(err error) (int, errs.Code) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, errs.ErrCodeAnalysisNotFound
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, errs.ErrCodeInvalidInput
	}

	code := errs.GetCode(err)
	switch code {
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound,
		errs.ErrCodeAnalysisNotFound, errs.ErrCodeNodeNotFound:
		return http.StatusNotFound, code
	case errs.ErrCodeTooManyFiles:
		return http.StatusRequestEntityTooLarge, code
	case errs.ErrCodeUnsupported:
		return http.StatusBadRequest, code
	case errs.ErrCodeRateLimited:
		return http.StatusTooManyRequests, code
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout, code
	case errs.ErrCodeNetwork:
		return http.StatusBadGateway, code
	}
	if errs.IsClientError(err) {
		return http.StatusBadRequest, code
	}
	return http.StatusInternalServerError, errs.ErrCodeInternal
}

// writeError writes err as a JSON error. Internal errors are logged and
// their details withheld from the client.
func writeError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	status, code := statusFor(err)

	msg := errs.UserMessage(err)
	switch {
	case status == http.StatusInternalServerError:
		logger.Error("internal error", "err", err, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
		msg = "internal server error"
	case errors.Is(err, store.ErrNotFound):
		msg = "analysis not found"
	case status == http.StatusRequestEntityTooLarge && code == errs.ErrCodeInvalidInput:
		msg = "request body too large"
	}
	writeJSON(w, status, errorBody(string(code), msg))
}
