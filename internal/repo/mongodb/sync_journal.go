package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/storefront/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const defaultJournalLimit = 50

// SyncJournalRepository keeps the history of cart pushes and checkouts.
type SyncJournalRepository interface {
	Record(ctx context.Context, record models.SyncRecord) error
	// ListByUser returns the newest records of a user first, with the total
	// number of matching records. A userID of 0 lists every user.
	ListByUser(ctx context.Context, userID int, limit int64) (*PaginateWithTotal[models.SyncRecord], error)
}

type syncJournalRepo struct {
	records collection[models.SyncRecord]
}

func NewSyncJournalRepository(db *DB) SyncJournalRepository {
	return &syncJournalRepo{
		records: newCollection[models.SyncRecord](db.Database),
	}
}

// EnsureIndexes creates the index serving ListByUser.
func EnsureIndexes(ctx context.Context, db *DB) error {
	coll := db.Database.Collection(models.SyncRecord{}.CollectionName())
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create sync journal index: %w", err)
	}
	return nil
}

func (r *syncJournalRepo) Record(ctx context.Context, record models.SyncRecord) error {
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if _, err := r.records.insert(ctx, record); err != nil {
		return fmt.Errorf("failed to record cart sync: %w", err)
	}
	return nil
}

func (r *syncJournalRepo) ListByUser(ctx context.Context, userID int, limit int64) (*PaginateWithTotal[models.SyncRecord], error) {
	if limit <= 0 {
		limit = defaultJournalLimit
	}
	filter := bson.M{}
	if userID > 0 {
		filter["user_id"] = userID
	}
	page, err := r.records.page(ctx, PageQuery{
		Filter: filter,
		Sort:   bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cart syncs: %w", err)
	}
	if page.Data == nil {
		page.Data = []models.SyncRecord{}
	}
	return page, nil
}

type noopSyncJournal struct{}

// NewNoopSyncJournal is used when the database is disabled.
func NewNoopSyncJournal() SyncJournalRepository {
	return noopSyncJournal{}
}

func (noopSyncJournal) Record(context.Context, models.SyncRecord) error {
	return nil
}

func (noopSyncJournal) ListByUser(context.Context, int, int64) (*PaginateWithTotal[models.SyncRecord], error) {
	return &PaginateWithTotal[models.SyncRecord]{Data: []models.SyncRecord{}}, nil
}
