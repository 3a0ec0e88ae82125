package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/internal/repo/mongodb"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJournal struct {
	records []models.SyncRecord
	err     error
}

func (f *fakeJournal) Record(_ context.Context, record models.SyncRecord) error {
	f.records = append(f.records, record)
	return f.err
}

func (f *fakeJournal) ListByUser(context.Context, int, int64) (*mongodb.PaginateWithTotal[models.SyncRecord], error) {
	return &mongodb.PaginateWithTotal[models.SyncRecord]{Total: int64(len(f.records)), Data: f.records}, nil
}

type fakePublisher struct {
	events []models.CartEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event models.CartEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func (f *fakePublisher) Close() error {
	return nil
}

func TestMultiObserver(t *testing.T) {
	journal := &fakeJournal{err: errors.New("mongo down")}
	publisher := &fakePublisher{}
	recorder := &recordingObserver{}
	observer := MultiObserver{NewJournalObserver(journal), NewEventObserver(publisher), recorder}

	record := models.SyncRecord{
		UserID:       3,
		Kind:         models.SyncKindCheckout,
		Status:       models.SyncStatusOK,
		RemoteCartID: 11,
		Lines:        []models.CartLine{{ProductID: 1, Quantity: 1}},
	}
	observer.ObserveSync(t.Context(), record)

	require.Len(t, journal.records, 1)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, models.EventCartCheckedOut, publisher.events[0].Type)
	assert.Equal(t, 11, publisher.events[0].RemoteCartID)
	assert.Len(t, recorder.all(), 1)
}

func TestMetricsObserver(t *testing.T) {
	observer, err := NewMetricsObserver()
	require.NoError(t, err)

	observer.ObserveSync(t.Context(), models.SyncRecord{Kind: models.SyncKindPush, Status: models.SyncStatusFailed, DurationMs: 12})

	m := observer.(*metricsObserver)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(m.duration), 1)
}
