package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorMapper turns a domain error into a response. It returns nil for
// errors it does not know.
type ErrorMapper func(err error) *ResponseError

// ErrorHandler return custom http error handler.
func ErrorHandler(log Logger, mappers ...ErrorMapper) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := &ResponseError{
			Status:       http.StatusInternalServerError,
			Success:      false,
			Err:          err,
			ErrorMessage: http.StatusText(http.StatusInternalServerError),
		}

		var he *echo.HTTPError
		var re *ResponseError
		switch {
		case errors.As(err, &re):
			resp = re
		case errors.As(err, &he):
			resp.Status = he.Code
			resp.ErrorMessage = fmt.Sprint(he.Message)
		case errors.Is(err, context.Canceled) && c.Request().Context().Err() == context.Canceled:
			// client went away
			resp.Status = 499
		default:
			for _, mapper := range mappers {
				if mapped := mapper(err); mapped != nil {
					resp = mapped
					break
				}
			}
		}

		if resp.Status == http.StatusNotFound && isNotFoundHandler(c.Handler()) {
			resp.ErrorMessage = "no route matched"
		}

		if resp.Status >= http.StatusInternalServerError {
			log.Errorw("request failed", "status", resp.Status, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Status)
		} else {
			err = c.JSON(resp.Status, resp)
		}
		if err != nil {
			log.Errorw("could not response", "code", resp.Status, "response_body", resp)
		}
	}
}
