package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichPreservesOrder(t *testing.T) {
	a := product(3, "A", "10")
	b := product(1, "B", "20")
	lookup := catalog(a, b)
	// the first line resolves last
	lookup.delays[3] = 30 * time.Millisecond

	got := NewEnricher(lookup).Enrich(t.Context(), []models.CartLine{
		{ProductID: 3, Quantity: 2},
		{ProductID: 1, Quantity: 1},
	})

	want := []models.LocalCartItem{
		{ID: 3, Title: "A", Price: a.Price, Image: a.Image, Quantity: 2},
		{ID: 1, Title: "B", Price: b.Price, Image: b.Image, Quantity: 1},
	}
	assert.Empty(t, cmp.Diff(want, got))
}

func TestEnrichDropsFailedLines(t *testing.T) {
	lookup := catalog(laptop, mouse, cable)
	lookup.errs[2] = errors.New("catalog unavailable")

	got := NewEnricher(lookup).Enrich(t.Context(), []models.CartLine{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 5},
		{ProductID: 3, Quantity: 2},
		{ProductID: 404, Quantity: 1},
	})

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 3, got[1].ID)
	assert.Equal(t, 2, got[1].Quantity)
}

type countingLookup struct {
	ProductLookup

	mu       sync.Mutex
	inFlight int
	peak     int
}

func (l *countingLookup) GetProduct(ctx context.Context, productID int) (*models.Product, error) {
	l.mu.Lock()
	l.inFlight++
	l.peak = max(l.peak, l.inFlight)
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.inFlight--
		l.mu.Unlock()
	}()
	return l.ProductLookup.GetProduct(ctx, productID)
}

func TestEnrichBoundsConcurrentLookups(t *testing.T) {
	inner := catalog()
	lines := make([]models.CartLine, 0, 3*maxConcurrentLookups)
	for id := 1; id <= 3*maxConcurrentLookups; id++ {
		inner.products[id] = product(id, "item", "1")
		inner.delays[id] = 10 * time.Millisecond
		lines = append(lines, models.CartLine{ProductID: id, Quantity: 1})
	}
	lookup := &countingLookup{ProductLookup: inner}

	got := NewEnricher(lookup).Enrich(t.Context(), lines)

	require.Len(t, got, len(lines))
	assert.LessOrEqual(t, lookup.peak, maxConcurrentLookups)
	assert.Greater(t, lookup.peak, 1)
}

func TestEnrichEmpty(t *testing.T) {
	got := NewEnricher(catalog()).Enrich(t.Context(), nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProductLookupWrapsErrors(t *testing.T) {
	products := &fakeProductAPI{err: &models.HTTPError{Op: "get_product", Status: 404}}

	_, err := NewProductLookup(products).GetProduct(t.Context(), 12)

	var le *models.LookupError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 12, le.ProductID)
	assert.True(t, models.IsNotFound(err))
}
