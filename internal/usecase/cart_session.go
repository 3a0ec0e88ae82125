package usecase

import (
	"slices"
	"sync"

	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/shopspring/decimal"
)

// CartSession is the client-side cart of one logged-in user. It is only
// mutated through a CartSynchronizer, which holds mu for every change.
type CartSession struct {
	mu                 sync.Mutex
	userID             *int
	items              []models.LocalCartItem
	loading            bool
	lastError          string
	lastRemoteSnapshot *models.RemoteCart
}

func NewCartSession() *CartSession {
	return &CartSession{
		items: []models.LocalCartItem{},
	}
}

// CartSnapshot is a copy of the session state, safe to read without the lock.
type CartSnapshot struct {
	UserID             *int
	Items              []models.LocalCartItem
	Loading            bool
	LastError          string
	LastRemoteSnapshot *models.RemoteCart
}

func (s *CartSession) Snapshot() CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := CartSnapshot{
		Items:     slices.Clone(s.items),
		Loading:   s.loading,
		LastError: s.lastError,
	}
	if snap.Items == nil {
		snap.Items = []models.LocalCartItem{}
	}
	if s.userID != nil {
		id := *s.userID
		snap.UserID = &id
	}
	if s.lastRemoteSnapshot != nil {
		snap.LastRemoteSnapshot = cloneRemoteCart(s.lastRemoteSnapshot)
	}
	return snap
}

// Total is the sum of price times quantity over all items.
func (s CartSnapshot) Total() models.Money {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Subtotal())
	}
	return models.Money{Amount: total, Currency: models.StoreCurrency}
}

// Count is the sum of quantities over all items.
func (s CartSnapshot) Count() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

func indexOfItem(items []models.LocalCartItem, id int) int {
	return slices.IndexFunc(items, func(item models.LocalCartItem) bool {
		return item.ID == id
	})
}

// mergeItems folds duplicate ids into the first occurrence and drops lines
// without a positive quantity.
func mergeItems(items []models.LocalCartItem) []models.LocalCartItem {
	merged := make([]models.LocalCartItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if i := indexOfItem(merged, item.ID); i >= 0 {
			merged[i].Quantity += item.Quantity
			continue
		}
		merged = append(merged, item)
	}
	return merged
}

func cloneRemoteCart(cart *models.RemoteCart) *models.RemoteCart {
	if cart == nil {
		return nil
	}
	c := cloneCart(*cart)
	return &c
}
