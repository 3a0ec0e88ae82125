package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{
			name:     "caller id is kept",
			header:   "custom-request-id",
			wantSame: true,
		},
		{
			name: "missing id is generated",
		},
		{
			name:   "oversized id is replaced",
			header: strings.Repeat("x", maxRequestIDLength+1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(XRequestID, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var fromCtx string
			err := RequestID()(func(c echo.Context) error {
				fromCtx = GetRequestIDFromContext(c.Request().Context())
				return c.String(http.StatusOK, GetRequestID(c))
			})(c)
			require.NoError(t, err)

			reqID := rec.Header().Get(XRequestID)
			assert.Equal(t, reqID, rec.Body.String())
			assert.Equal(t, reqID, fromCtx)
			if tt.wantSame {
				assert.Equal(t, tt.header, reqID)
				return
			}
			_, err = uuid.Parse(reqID)
			assert.NoError(t, err)
		})
	}
}

func TestRequestIDSkipper(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	mw := RequestIDWithConfig(RequestIDConfig{
		Skipper: func(c echo.Context) bool { return c.Request().URL.Path == "/health" },
	})
	require.NoError(t, mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c))

	assert.Empty(t, rec.Header().Get(XRequestID))
	assert.Empty(t, GetRequestID(c))
}
