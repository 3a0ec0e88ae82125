package middleware

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// CORSConfig lets browser storefronts served from AllowOrigin call the API.
type CORSConfig struct {
	AllowOrigin   *regexp.Regexp
	AllowMethods  []string
	AllowHeaders  []string
	ExposeHeaders []string
	MaxAge        time.Duration
}

var DefaultCORSConfig = CORSConfig{
	AllowMethods: []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
		http.MethodOptions,
	},
	AllowHeaders: []string{
		echo.HeaderAuthorization,
		echo.HeaderContentType,
		XRequestID,
	},
	ExposeHeaders: []string{XRequestID},
	MaxAge:        10 * time.Minute,
}

// CORS allows origins matching pattern with the default methods and headers.
func CORS(pattern *regexp.Regexp) echo.MiddlewareFunc {
	config := DefaultCORSConfig
	config.AllowOrigin = pattern
	return CORSWithConfig(config)
}

func CORSWithConfig(config CORSConfig) echo.MiddlewareFunc {
	allowMethods := strings.Join(config.AllowMethods, ", ")
	allowHeaders := strings.Join(config.AllowHeaders, ", ")
	exposeHeaders := strings.Join(config.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(int(config.MaxAge.Seconds()))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			header := c.Response().Header()
			header.Add(echo.HeaderVary, echo.HeaderOrigin)

			origin := req.Header.Get(echo.HeaderOrigin)
			if origin == "" || config.AllowOrigin == nil || !config.AllowOrigin.MatchString(origin) {
				return next(c)
			}

			header.Set(echo.HeaderAccessControlAllowOrigin, origin)
			if exposeHeaders != "" {
				header.Set(echo.HeaderAccessControlExposeHeaders, exposeHeaders)
			}
			if req.Method != http.MethodOptions {
				return next(c)
			}

			// preflight
			header.Set(echo.HeaderAccessControlAllowMethods, allowMethods)
			header.Set(echo.HeaderAccessControlAllowHeaders, allowHeaders)
			if config.MaxAge > 0 {
				header.Set(echo.HeaderAccessControlMaxAge, maxAge)
			}
			return c.NoContent(http.StatusNoContent)
		}
	}
}
