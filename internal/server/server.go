package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/carousell/ct-go/pkg/logger"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nguyentranbao-ct/storefront/internal/config"
	pkgmdw "github.com/nguyentranbao-ct/storefront/internal/server/middleware"
	"github.com/nguyentranbao-ct/storefront/internal/usecase"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Lifecycle   fx.Lifecycle
	Shutdowner  fx.Shutdowner
	Config      *config.Config
	AuthUsecase *usecase.AuthUseCase
	Controllers []Controller `group:"controllers"`
}

func StartServer(p Params) error {
	e, err := NewEcho(p.Config, p.AuthUsecase, p.Controllers...)
	if err != nil {
		return err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow(ctx, "starting HTTP server", "addr", p.Config.Server.Addr)
				if err := e.Start(p.Config.Server.Addr); !errors.Is(err, http.ErrServerClosed) {
					log.Errorw(ctx, "HTTP server stopped", "error", err)
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
	return nil
}

// NewEcho builds the HTTP adapter. Routes a controller registers with the
// auth middleware need a live session token.
func NewEcho(conf *config.Config, authUsecase *usecase.AuthUseCase, controllers ...Controller) (*echo.Echo, error) {
	httpLogger := logger.MustNamed("http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(httpLogger, mapDomainError)

	logConfig := pkgmdw.LogRequestConfig{
		Logger: httpLogger,
		Enabled: func(c echo.Context) bool {
			uri := c.Request().RequestURI
			return uri != "/health" && uri != "/metrics"
		},
		KeyAndValues: func(c echo.Context) []any {
			args := make([]any, 0, 2)
			if userID := pkgmdw.GetUserID(c); userID != "" {
				args = append(args, "user_id", userID)
			}
			return args
		},
	}

	if pattern := conf.Server.CORSOriginPattern; pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid cors origin pattern %q: %w", pattern, err)
		}
		e.Use(pkgmdw.CORS(re))
	}
	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return nil
		},
	}))

	e.GET("/health", health)

	api := e.Group("/api/v1")
	auth := pkgmdw.SessionAuth(authUsecase)
	for _, ctrl := range controllers {
		ctrl.Register(api, auth)
	}

	return e, nil
}

func health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "storefront",
	})
}
