package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const XRequestID = "x-request-id"

// maxRequestIDLength caps ids accepted from callers; longer ones are replaced.
const maxRequestIDLength = 128

type requestIDKey struct{}

type RequestIDConfig struct {
	Skipper   Skipper
	Generator func() string
}

var DefaultRequestIDConfig = RequestIDConfig{
	Skipper:   DefaultSkipper,
	Generator: uuid.NewString,
}

// RequestID reuses the caller's x-request-id or generates one, and exposes it
// on the echo context, the request context and the response.
func RequestID() echo.MiddlewareFunc {
	return RequestIDWithConfig(DefaultRequestIDConfig)
}

func RequestIDWithConfig(config RequestIDConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultRequestIDConfig.Skipper
	}
	if config.Generator == nil {
		config.Generator = DefaultRequestIDConfig.Generator
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			req := c.Request()
			reqID := req.Header.Get(XRequestID)
			if reqID == "" || len(reqID) > maxRequestIDLength {
				reqID = config.Generator()
			}

			c.SetRequest(req.WithContext(context.WithValue(req.Context(), requestIDKey{}, reqID)))
			c.Set(XRequestID, reqID)
			c.Response().Header().Set(XRequestID, reqID)
			return next(c)
		}
	}
}

// GetRequestID returns the id set by RequestID, falling back to the header.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(XRequestID).(string); ok {
		return id
	}
	return c.Request().Header.Get(XRequestID)
}

func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
