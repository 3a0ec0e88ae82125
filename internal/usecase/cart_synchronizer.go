package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/gammazero/workerpool"
	"github.com/nguyentranbao-ct/storefront/internal/config"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/internal/repo/fakestore"
)

// cartDateLayout matches the ISO-8601 dates the remote service stores.
const cartDateLayout = "2006-01-02T15:04:05.000Z07:00"

// CartSynchronizer owns a CartSession and keeps it in step with the remote
// cart service. Mutations are applied locally first, then pushed in the
// background as a brand new remote cart.
type CartSynchronizer struct {
	session  *CartSession
	carts    fakestore.CartAPI
	enricher Enricher
	observer SyncObserver

	syncTimeout time.Duration
	now         func() time.Time

	poolMu  sync.Mutex
	pool    *workerpool.WorkerPool
	closed  bool
	pending sync.WaitGroup
}

func NewCartSynchronizer(
	session *CartSession,
	carts fakestore.CartAPI,
	enricher Enricher,
	observer SyncObserver,
	cfg config.CartConfig,
) *CartSynchronizer {
	workers := cfg.SyncWorkers
	if workers <= 0 {
		workers = 1
	}
	if observer == nil {
		observer = NopSyncObserver()
	}
	return &CartSynchronizer{
		session:     session,
		carts:       carts,
		enricher:    enricher,
		observer:    observer,
		syncTimeout: cfg.SyncTimeout,
		now:         time.Now,
		pool:        workerpool.New(workers),
	}
}

// CartFactory builds a fresh session with its synchronizer.
type CartFactory func() *CartSynchronizer

func NewCartFactory(carts fakestore.CartAPI, enricher Enricher, observer SyncObserver, cfg *config.Config) CartFactory {
	return func() *CartSynchronizer {
		return NewCartSynchronizer(NewCartSession(), carts, enricher, observer, cfg.Cart)
	}
}

func (s *CartSynchronizer) Session() *CartSession {
	return s.session
}

func (s *CartSynchronizer) Snapshot() CartSnapshot {
	return s.session.Snapshot()
}

func (s *CartSynchronizer) Items() []models.LocalCartItem {
	return s.session.Snapshot().Items
}

func (s *CartSynchronizer) Total() models.Money {
	return s.session.Snapshot().Total()
}

func (s *CartSynchronizer) Count() int {
	return s.session.Snapshot().Count()
}

// FetchCart loads the user's most recent remote cart into the session. On
// failure the items are left untouched and the error is recorded on the
// session. A result is discarded if the session moved to another user while
// the fetch was in flight.
func (s *CartSynchronizer) FetchCart(ctx context.Context, userID int) error {
	s.session.mu.Lock()
	s.session.loading = true
	s.session.lastError = ""
	s.session.userID = &userID
	s.session.mu.Unlock()

	var (
		latest *models.RemoteCart
		items  = []models.LocalCartItem{}
	)
	carts, err := s.carts.ListCartsByUser(ctx, userID)
	if err == nil {
		latest = latestCart(carts)
		if latest != nil {
			items = mergeItems(s.enricher.Enrich(ctx, latest.Products))
		}
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	if s.session.userID == nil || *s.session.userID != userID {
		log.Infow(ctx, "discarding stale cart fetch", "user_id", userID)
		if s.session.userID == nil {
			s.session.loading = false
		}
		return nil
	}

	s.session.loading = false
	if err != nil {
		s.session.lastError = err.Error()
		return fmt.Errorf("failed to fetch carts of user %d: %w", userID, err)
	}

	s.session.items = items
	s.session.lastRemoteSnapshot = latest
	log.Infow(ctx, "cart fetched", "user_id", userID, "items", len(items))
	return nil
}

// AddItem adds one unit of product, creating the item if needed.
func (s *CartSynchronizer) AddItem(ctx context.Context, product models.Product) {
	s.mutate(ctx, func(items []models.LocalCartItem) ([]models.LocalCartItem, bool) {
		if i := indexOfItem(items, product.ID); i >= 0 {
			items[i].Quantity++
			return items, true
		}
		return append(items, product.CartItem()), true
	})
}

func (s *CartSynchronizer) RemoveItem(ctx context.Context, id int) {
	s.mutate(ctx, func(items []models.LocalCartItem) ([]models.LocalCartItem, bool) {
		i := indexOfItem(items, id)
		if i < 0 {
			return items, false
		}
		return append(items[:i:i], items[i+1:]...), true
	})
}

func (s *CartSynchronizer) Increment(ctx context.Context, id int) {
	s.mutate(ctx, func(items []models.LocalCartItem) ([]models.LocalCartItem, bool) {
		i := indexOfItem(items, id)
		if i < 0 {
			return items, false
		}
		items[i].Quantity++
		return items, true
	})
}

// Decrement lowers the quantity by one, removing the item at zero.
func (s *CartSynchronizer) Decrement(ctx context.Context, id int) {
	s.mutate(ctx, func(items []models.LocalCartItem) ([]models.LocalCartItem, bool) {
		i := indexOfItem(items, id)
		if i < 0 {
			return items, false
		}
		if items[i].Quantity > 1 {
			items[i].Quantity--
			return items, true
		}
		return append(items[:i:i], items[i+1:]...), true
	})
}

// UpdateQuantity sets the quantity of an item, clamped to at least 1.
func (s *CartSynchronizer) UpdateQuantity(ctx context.Context, id, quantity int) {
	s.mutate(ctx, func(items []models.LocalCartItem) ([]models.LocalCartItem, bool) {
		i := indexOfItem(items, id)
		if i < 0 {
			return items, false
		}
		items[i].Quantity = max(quantity, 1)
		return items, true
	})
}

// Clear empties the cart and pushes an empty cart for the current user.
// Unless preserveUser is set the session is reset to logged out.
func (s *CartSynchronizer) Clear(ctx context.Context, preserveUser bool) {
	s.session.mu.Lock()
	s.session.items = []models.LocalCartItem{}
	userID := s.session.userID
	if !preserveUser {
		s.session.userID = nil
		s.session.loading = false
		s.session.lastError = ""
		s.session.lastRemoteSnapshot = nil
	}
	s.session.mu.Unlock()

	s.schedulePush(ctx, userID, []models.CartLine{})
}

// SyncCart pushes the current items as a new remote cart in the background.
func (s *CartSynchronizer) SyncCart(ctx context.Context) {
	s.session.mu.Lock()
	userID, lines := s.session.userID, models.ToLines(s.session.items)
	s.session.mu.Unlock()

	s.schedulePush(ctx, userID, lines)
}

// Checkout submits the cart as one remote cart. It returns ErrNotAuthenticated
// without a user and nil without items. The session lock is held across the
// remote call: on success the items are cleared, on failure they are kept.
func (s *CartSynchronizer) Checkout(ctx context.Context) (*models.RemoteCart, error) {
	cart, record, err := s.checkout(ctx)
	if record != nil {
		s.observer.ObserveSync(ctx, *record)
	}
	return cart, err
}

func (s *CartSynchronizer) checkout(ctx context.Context) (*models.RemoteCart, *models.SyncRecord, error) {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	if s.session.userID == nil {
		return nil, nil, models.ErrNotAuthenticated
	}
	if len(s.session.items) == 0 {
		return nil, nil, nil
	}

	userID := *s.session.userID
	lines := models.ToLines(s.session.items)
	start := s.now()
	cart, err := s.carts.CreateCart(ctx, models.CartPayload{
		UserID:   userID,
		Date:     start.UTC().Format(cartDateLayout),
		Products: lines,
	})
	record := s.newRecord(models.SyncKindCheckout, userID, lines, start, cart, err)
	if err != nil {
		s.session.lastError = err.Error()
		return nil, &record, fmt.Errorf("failed to checkout: %w", err)
	}

	s.session.items = []models.LocalCartItem{}
	s.session.lastError = ""
	s.session.lastRemoteSnapshot = cloneRemoteCart(cart)
	log.Infow(ctx, "cart checked out", "user_id", userID, "cart_id", cart.ID)
	return cart, &record, nil
}

// Wait blocks until every scheduled push has finished.
func (s *CartSynchronizer) Wait() {
	s.pending.Wait()
}

// Close drains outstanding pushes and stops the worker pool. Mutations after
// Close still apply locally but are no longer pushed.
func (s *CartSynchronizer) Close() {
	s.poolMu.Lock()
	if s.closed {
		s.poolMu.Unlock()
		return
	}
	s.closed = true
	s.poolMu.Unlock()

	s.pending.Wait()
	s.pool.StopWait()
}

func (s *CartSynchronizer) mutate(ctx context.Context, fn func([]models.LocalCartItem) ([]models.LocalCartItem, bool)) {
	s.session.mu.Lock()
	items, changed := fn(s.session.items)
	s.session.items = items
	userID, lines := s.session.userID, models.ToLines(items)
	s.session.mu.Unlock()

	if changed {
		s.schedulePush(ctx, userID, lines)
	}
}

func (s *CartSynchronizer) schedulePush(ctx context.Context, userID *int, lines []models.CartLine) {
	if userID == nil {
		return
	}
	uid := *userID
	ctx = context.WithoutCancel(ctx)

	s.poolMu.Lock()
	defer s.poolMu.Unlock()
	if s.closed {
		log.Warnw(ctx, "cart synchronizer closed, skipping push", "user_id", uid)
		return
	}
	s.pending.Add(1)
	s.pool.Submit(func() {
		defer s.pending.Done()
		s.push(ctx, uid, lines)
	})
}

// push creates a new remote cart from lines. Failures are logged and
// reported to the observer; they never reach the caller.
func (s *CartSynchronizer) push(ctx context.Context, userID int, lines []models.CartLine) {
	if s.syncTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.syncTimeout)
		defer cancel()
	}

	start := s.now()
	cart, err := s.carts.CreateCart(ctx, models.CartPayload{
		UserID:   userID,
		Date:     start.UTC().Format(cartDateLayout),
		Products: lines,
	})
	if err != nil {
		log.Warnw(ctx, "cart sync failed", "user_id", userID, "lines", len(lines), "error", err)
	} else {
		log.Debugw(ctx, "cart synced", "user_id", userID, "cart_id", cart.ID, "lines", len(lines))
	}
	s.observer.ObserveSync(ctx, s.newRecord(models.SyncKindPush, userID, lines, start, cart, err))
}

func (s *CartSynchronizer) newRecord(
	kind models.SyncKind,
	userID int,
	lines []models.CartLine,
	start time.Time,
	cart *models.RemoteCart,
	err error,
) models.SyncRecord {
	record := models.SyncRecord{
		UserID:     userID,
		Kind:       kind,
		Lines:      lines,
		Status:     models.SyncStatusOK,
		DurationMs: s.now().Sub(start).Milliseconds(),
		CreatedAt:  start.UTC(),
	}
	if err != nil {
		record.Status = models.SyncStatusFailed
		record.Error = err.Error()
	}
	if cart != nil {
		record.RemoteCartID = cart.ID
	}
	return record
}

// latestCart picks the cart with the most recent date. Unparsable dates rank
// below any parsable one; ties go to the highest id.
func latestCart(carts []models.RemoteCart) *models.RemoteCart {
	var (
		best   *models.RemoteCart
		bestAt time.Time
		bestOK bool
	)
	for i := range carts {
		at, ok := models.ParseCartDate(carts[i].Date)
		if best == nil || newerCart(at, ok, carts[i].ID, bestAt, bestOK, best.ID) {
			best, bestAt, bestOK = &carts[i], at, ok
		}
	}
	return cloneRemoteCart(best)
}

func newerCart(at time.Time, ok bool, id int, bestAt time.Time, bestOK bool, bestID int) bool {
	switch {
	case ok && !bestOK:
		return true
	case !ok && bestOK:
		return false
	case ok && !at.Equal(bestAt):
		return at.After(bestAt)
	default:
		return id > bestID
	}
}
