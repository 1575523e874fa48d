package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/exampleapp/example-api/internal/core/domain"
)

const (
	labelValidationFailed = "Validation Failed"
	msgValidationFailed   = "Request validation failed"
	msgAccessDenied       = "Access Denied"
	msgUnexpected         = "An unexpected error occurred"
)

// ErrorResponse is the canonical error envelope for all API errors.
type ErrorResponse struct {
	Timestamp        time.Time           `json:"timestamp"`
	Status           int                 `json:"status"`
	Error            string              `json:"error"`
	Message          string              `json:"message"`
	Path             string              `json:"path"`
	ValidationErrors []domain.FieldError `json:"validationErrors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the ErrorResponse envelope for every failure.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := resolveError(err, log, c)
		resp.Timestamp = time.Now().UTC()
		resp.Path = c.Request().URL.Path

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(resp.Status)
			return
		}
		_ = c.JSON(resp.Status, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) ErrorResponse {
	// Known domain errors → deterministic HTTP codes.
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return ErrorResponse{
			Status:           http.StatusBadRequest,
			Error:            labelValidationFailed,
			Message:          msgValidationFailed,
			ValidationErrors: ve.Fields,
		}
	case errors.Is(err, domain.ErrItemNotFound):
		return newErrorResponse(http.StatusNotFound, notFoundMessage(err))
	case errors.Is(err, domain.ErrForbidden):
		return newErrorResponse(http.StatusForbidden, msgAccessDenied)
	case errors.Is(err, domain.ErrUnauthorized):
		return newErrorResponse(http.StatusUnauthorized, err.Error())
	}

	// Echo's own errors (bind failures, 404 from router, auth middleware).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnexpected(log, c, err)
			return newErrorResponse(he.Code, msgUnexpected)
		}
		return newErrorResponse(he.Code, fmt.Sprintf("%v", he.Message))
	}

	// Unexpected error: log the real cause, return a generic message.
	logUnexpected(log, c, err)
	return newErrorResponse(http.StatusInternalServerError, msgUnexpected)
}

func newErrorResponse(status int, message string) ErrorResponse {
	return ErrorResponse{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
	}
}

func notFoundMessage(err error) string {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	return "Resource not found"
}

func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
