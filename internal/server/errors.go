package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/storefront/internal/server/middleware"
)

const (
	codeUnauthenticated   = "unauthenticated"
	codeInvalidRequest    = "invalid_request"
	codeNotFound          = "not_found"
	codeRemoteError       = "remote_error"
	codeRemoteUnavailable = "remote_unavailable"
)

// mapDomainError turns usecase and remote client errors into responses.
func mapDomainError(err error) *pkgmdw.ResponseError {
	var (
		validationErrs validator.ValidationErrors
		networkErr     *models.NetworkError
		httpErr        *models.HTTPError
	)

	switch {
	case errors.Is(err, models.ErrNotAuthenticated),
		errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, models.ErrUserNotFound):
		return pkgmdw.NewResponseError(http.StatusUnauthorized, codeUnauthenticated, err)
	case errors.As(err, &validationErrs):
		resp := pkgmdw.NewResponseError(http.StatusBadRequest, codeInvalidRequest, err)
		resp.ErrorMessage = pkgmdw.FormatValidationError(err)
		return resp
	case errors.As(err, &networkErr):
		return pkgmdw.NewResponseError(http.StatusGatewayTimeout, codeRemoteUnavailable, err)
	case errors.As(err, &httpErr):
		switch httpErr.Status {
		case http.StatusNotFound:
			return pkgmdw.NewResponseError(http.StatusNotFound, codeNotFound, err)
		case http.StatusUnauthorized:
			// the remote rejected the credentials
			return pkgmdw.NewResponseError(http.StatusUnauthorized, codeUnauthenticated, err)
		default:
			return pkgmdw.NewResponseError(http.StatusBadGateway, codeRemoteError, err)
		}
	}
	return nil
}
