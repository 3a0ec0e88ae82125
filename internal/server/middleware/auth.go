package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/storefront/internal/usecase"
)

const (
	ContextKeySession = "session"
	ContextKeyToken   = "token"
	ContextKeyUserID  = "user_id"
	ContextKeyUser    = "username"
)

// SessionAuth resolves the bearer token to a live cart session.
func SessionAuth(authUsecase *usecase.AuthUseCase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := BearerToken(c)
			if err != nil {
				return err
			}

			session, err := authUsecase.ValidateToken(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(ContextKeySession, session)
			c.Set(ContextKeyToken, token)
			c.Set(ContextKeyUserID, session.UserID)
			c.Set(ContextKeyUser, session.Username)
			return next(c)
		}
	}
}

func BearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader || token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	return token, nil
}

// GetSession returns the session stored by SessionAuth.
func GetSession(c echo.Context) (*usecase.Session, bool) {
	session, ok := c.Get(ContextKeySession).(*usecase.Session)
	return session, ok
}
