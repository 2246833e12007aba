package http

import (
	"context"
	"errors"
	"net/http"

	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusOf maps the error taxonomy onto HTTP status codes. The order matters:
// a precondition failure may wrap the unavailable resource that caused it.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAlreadyDecided),
		errors.Is(err, errs.ErrIllegalTransition),
		errors.Is(err, errs.ErrResourceUnavailable):
		return http.StatusConflict
	case errors.Is(err, errs.ErrPreconditionFailed):
		return http.StatusPreconditionFailed
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// ErrorHandler renders every error returned by a route as an Error body.
func (s *Server) ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code    int
		message string
		he      *echo.HTTPError
	)
	if errors.As(err, &he) {
		code = he.Code
		message = http.StatusText(code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
	} else {
		code = statusOf(err)
		message = err.Error()
	}

	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
		if code == http.StatusInternalServerError {
			message = http.StatusText(code)
		}
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, Error{Code: code, Message: message})
	}
	if writeErr != nil {
		s.logger.ErrorContext(c.Request().Context(), "failed to write error response", "error", writeErr)
	}
}

func badRequest(err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
}
