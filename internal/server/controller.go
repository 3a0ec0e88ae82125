package server

import (
	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/storefront/internal/server/middleware"
	"github.com/nguyentranbao-ct/storefront/internal/usecase"
	"go.uber.org/fx"
)

// Controller mounts its routes on the /api/v1 group. auth is passed to every
// route that needs a session.
type Controller interface {
	Register(api *echo.Group, auth echo.MiddlewareFunc)
}

// AsController annotates a controller constructor for the fx controllers group.
func AsController(f any) any {
	return fx.Annotate(f, fx.ResultTags(`group:"controllers"`))
}

func currentSession(c echo.Context) (*usecase.Session, error) {
	session, ok := pkgmdw.GetSession(c)
	if !ok {
		return nil, models.ErrNotAuthenticated
	}
	return session, nil
}
