package app

import (
	"context"
	"fmt"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/storefront/internal/config"
	"github.com/nguyentranbao-ct/storefront/internal/kafka"
	"github.com/nguyentranbao-ct/storefront/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/storefront/internal/usecase"
	"go.uber.org/fx"
)

// newMongoDB returns nil when the database is disabled.
func newMongoDB(lc fx.Lifecycle, cfg *config.Config) (*mongodb.DB, error) {
	if !cfg.Database.Enabled {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := mongodb.NewConnection(ctx, cfg.Database.URI, cfg.Database.Database)
	if err != nil {
		return nil, fmt.Errorf("init mongo client: %w", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := db.Ping(ctx); err != nil {
				return err
			}
			return mongodb.EnsureIndexes(ctx, db)
		},
		OnStop: func(ctx context.Context) error {
			return db.Close(ctx)
		},
	})

	return db, nil
}

func newSyncJournal(db *mongodb.DB) mongodb.SyncJournalRepository {
	if db == nil {
		return mongodb.NewNoopSyncJournal()
	}
	return mongodb.NewSyncJournalRepository(db)
}

func newEventPublisher(lc fx.Lifecycle, cfg *config.Config) (kafka.EventPublisher, error) {
	publisher, err := kafka.NewEventPublisher(&cfg.Kafka)
	if err != nil {
		return nil, fmt.Errorf("init event publisher: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}

func newSyncObserver(journal mongodb.SyncJournalRepository, publisher kafka.EventPublisher) (usecase.SyncObserver, error) {
	metrics, err := usecase.NewMetricsObserver()
	if err != nil {
		return nil, fmt.Errorf("init sync metrics: %w", err)
	}
	return usecase.MultiObserver{
		metrics,
		usecase.NewJournalObserver(journal),
		usecase.NewEventObserver(publisher),
	}, nil
}

// newSessionRegistry drains every session's pending pushes on shutdown.
// Taking the observer orders the drain hook after the journal and publisher
// hooks, so it stops before they close.
func newSessionRegistry(lc fx.Lifecycle, _ usecase.SyncObserver) usecase.SessionRegistry {
	sessions := usecase.NewSessionRegistry()
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Infow(ctx, "draining cart sessions")
			sessions.Close()
			return nil
		},
	})
	return sessions
}
