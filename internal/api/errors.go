package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/survivors/internal/model"
)

// Error codes returned in the "code" field of error responses.
const (
	codeNotFound       = "not_found"
	codeInfected       = "survivor_infected"
	codeInsufficient   = "insufficient_items"
	codeUnbalanced     = "unbalanced_trade"
	codeSelfAction     = "self_action"
	codeInvalidQty     = "invalid_quantity"
	codeInvalidRequest = "invalid_request"
	codeUnauthorized   = "unauthorized"
	codeForbidden      = "not_your_survivor"
	codeInternal       = "internal"
)

// requestError is a malformed request detected by the request layer.
type requestError struct {
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(message string) error {
	return &requestError{message: message}
}

// errorStatus maps an error to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	var (
		infected     *model.InfectedError
		notFound     *model.NotFoundError
		insufficient *model.InsufficientItemsError
		unbalanced   *model.UnbalancedTradeError
		self         *model.SelfActionError
		bad          *requestError
	)
	switch {
	case errors.As(err, &infected):
		return http.StatusNotFound, codeInfected
	case errors.As(err, &notFound):
		return http.StatusNotFound, codeNotFound
	case errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity, codeInsufficient
	case errors.As(err, &unbalanced):
		return http.StatusBadRequest, codeUnbalanced
	case errors.As(err, &self):
		return http.StatusBadRequest, codeSelfAction
	case errors.Is(err, model.ErrInvalidQuantity), errors.Is(err, model.ErrOverflow):
		return http.StatusBadRequest, codeInvalidQty
	case errors.As(err, &bad):
		return http.StatusBadRequest, codeInvalidRequest
	}
	return http.StatusInternalServerError, codeInternal
}

// writeError maps err to a response. Unexpected errors are logged and
// replaced with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = "internal server error"
	}
	jsonError(w, status, code, message)
}
