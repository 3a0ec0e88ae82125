package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SyncKind string

const (
	SyncKindPush     SyncKind = "sync"
	SyncKindCheckout SyncKind = "checkout"
)

type SyncStatus string

const (
	SyncStatusOK     SyncStatus = "ok"
	SyncStatusFailed SyncStatus = "failed"
)

// SyncRecord is the outcome of one push of a session cart to the remote service.
type SyncRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       int                `bson:"user_id" json:"user_id"`
	Kind         SyncKind           `bson:"kind" json:"kind"`
	Lines        []CartLine         `bson:"lines" json:"lines"`
	RemoteCartID int                `bson:"remote_cart_id,omitempty" json:"remote_cart_id,omitempty"`
	Status       SyncStatus         `bson:"status" json:"status"`
	Error        string             `bson:"error,omitempty" json:"error,omitempty"`
	DurationMs   int64              `bson:"duration_ms" json:"duration_ms"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

func (SyncRecord) CollectionName() string {
	return "cart_sync_records"
}

func (r SyncRecord) GetObjectID() primitive.ObjectID {
	return r.ID
}

// CartEvent is published to the event stream for every observed sync.
type CartEvent struct {
	Type         string     `json:"type"`
	UserID       int        `json:"user_id"`
	RemoteCartID int        `json:"remote_cart_id,omitempty"`
	Lines        []CartLine `json:"lines"`
	Error        string     `json:"error,omitempty"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

const (
	EventCartSynced     = "cart.synced"
	EventCartSyncFailed = "cart.sync_failed"
	EventCartCheckedOut = "cart.checked_out"
)

// Event maps a sync record to its stream event.
func (r SyncRecord) Event() CartEvent {
	typ := EventCartSynced
	switch {
	case r.Status == SyncStatusFailed:
		typ = EventCartSyncFailed
	case r.Kind == SyncKindCheckout:
		typ = EventCartCheckedOut
	}
	return CartEvent{
		Type:         typ,
		UserID:       r.UserID,
		RemoteCartID: r.RemoteCartID,
		Lines:        r.Lines,
		Error:        r.Error,
		OccurredAt:   r.CreatedAt,
	}
}
