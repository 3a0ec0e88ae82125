package usecase

import (
	"context"
	"fmt"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/storefront/internal/kafka"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/storefront/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
)

// SyncObserver receives the outcome of every background push and checkout.
// Implementations must not block for long and never fail the caller.
type SyncObserver interface {
	ObserveSync(ctx context.Context, record models.SyncRecord)
}

type nopSyncObserver struct{}

func (nopSyncObserver) ObserveSync(context.Context, models.SyncRecord) {}

func NopSyncObserver() SyncObserver {
	return nopSyncObserver{}
}

// MultiObserver fans a record out to every observer in order.
type MultiObserver []SyncObserver

func (m MultiObserver) ObserveSync(ctx context.Context, record models.SyncRecord) {
	for _, o := range m {
		o.ObserveSync(ctx, record)
	}
}

type metricsObserver struct {
	duration *prometheus.HistogramVec
}

func NewMetricsObserver() (SyncObserver, error) {
	duration, err := util.GetHistogramVec("cart_sync_duration_seconds", "Duration of cart pushes and checkouts", "kind", "status")
	if err != nil {
		return nil, fmt.Errorf("failed to create cart sync histogram: %w", err)
	}
	return &metricsObserver{duration: duration}, nil
}

func (o *metricsObserver) ObserveSync(_ context.Context, record models.SyncRecord) {
	elapsed := time.Duration(record.DurationMs) * time.Millisecond
	o.duration.
		WithLabelValues(string(record.Kind), string(record.Status)).
		Observe(elapsed.Seconds())
}

type journalObserver struct {
	journal mongodb.SyncJournalRepository
}

// NewJournalObserver stores every record in the sync journal.
func NewJournalObserver(journal mongodb.SyncJournalRepository) SyncObserver {
	return &journalObserver{journal: journal}
}

func (o *journalObserver) ObserveSync(ctx context.Context, record models.SyncRecord) {
	if err := o.journal.Record(ctx, record); err != nil {
		log.Errorw(ctx, "failed to record cart sync", "user_id", record.UserID, "error", err)
	}
}

type eventObserver struct {
	publisher kafka.EventPublisher
}

// NewEventObserver publishes every record as a cart event.
func NewEventObserver(publisher kafka.EventPublisher) SyncObserver {
	return &eventObserver{publisher: publisher}
}

func (o *eventObserver) ObserveSync(ctx context.Context, record models.SyncRecord) {
	if err := o.publisher.Publish(ctx, record.Event()); err != nil {
		log.Errorw(ctx, "failed to publish cart event", "user_id", record.UserID, "error", err)
	}
}
