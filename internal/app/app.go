package app

import (
	"github.com/carousell/ct-go/pkg/logger"
	"github.com/nguyentranbao-ct/storefront/internal/config"
	"github.com/nguyentranbao-ct/storefront/internal/repo/fakestore"
	"github.com/nguyentranbao-ct/storefront/internal/server"
	"github.com/nguyentranbao-ct/storefront/internal/usecase"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded", log.Reflect("config", conf))
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		Module(conf),
		fx.Invoke(funcs...),
	)
}

// Module provides every component of the service for conf.
func Module(conf *config.Config) fx.Option {
	return fx.Options(
		fx.Provide(
			newMongoDB,
			newSyncJournal,
			newEventPublisher,
			newSyncObserver,
			newSessionRegistry,

			fakestore.NewClient,
			fakestore.NewCartAPI,
			fakestore.NewProductAPI,
			fakestore.NewUserAPI,
			fakestore.NewAuthAPI,

			usecase.NewProductLookup,
			usecase.NewEnricher,
			usecase.NewCartFactory,
			usecase.NewAuthUseCase,
			usecase.NewProductUsecase,
			usecase.NewAdminCartRepository,
			usecase.NewAdminUserRepository,

			server.AsController(server.NewAuthController),
			server.AsController(server.NewCartController),
			server.AsController(server.NewProductController),
			server.AsController(server.NewAdminController),
		),
		fx.Supply(conf),
	)
}
