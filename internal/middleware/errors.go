package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/eventskona-auth/internal/apierror"
)

// ErrorHandler renders every error returned by a handler or middleware as
// the JSON error envelope.  Unknown errors become 500 INTERNAL_ERROR; the
// underlying message is only exposed when debug is set.
func ErrorHandler(logger *zap.Logger, debug bool) echo.HTTPErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		apiErr := toAPIError(err)
		fields := []zap.Field{
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Int("status", apiErr.Status),
			zap.String("code", apiErr.Code),
			zap.Error(err),
		}
		if apiErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed", fields...)
		} else {
			logger.Debug("request rejected", fields...)
		}

		body := apierror.Envelope{
			Success: false,
			Error: apierror.Body{
				Message: apiErr.Message,
				Code:    apiErr.Code,
				Fields:  apiErr.Fields,
			},
		}
		if debug && apiErr.Status >= http.StatusInternalServerError && apiErr.Cause != nil {
			body.Error.Detail = apiErr.Cause.Error()
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(apiErr.Status)
		} else {
			werr = c.JSON(apiErr.Status, body)
		}
		if werr != nil {
			logger.Error("write error response", zap.Error(werr))
		}
	}
}

func toAPIError(err error) *apierror.Error {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		switch he.Code {
		case http.StatusNotFound:
			return apierror.NotFound(msg)
		case http.StatusMethodNotAllowed:
			return apierror.New(he.Code, apierror.CodeNotFound, msg)
		case http.StatusUnauthorized:
			return apierror.Unauthorized(msg)
		case http.StatusForbidden:
			return apierror.Forbidden(msg)
		case http.StatusTooManyRequests:
			return apierror.New(he.Code, apierror.CodeRateLimited, msg)
		}
		if he.Code < http.StatusInternalServerError {
			return apierror.New(he.Code, apierror.CodeValidation, msg)
		}
		cause := he.Internal
		if cause == nil {
			cause = he
		}
		return apierror.Internal(cause)
	}
	return apierror.Internal(err)
}
