package usecase

import (
	"context"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLookups bounds the product lookups in flight for one cart.
const maxConcurrentLookups = 8

// Enricher joins remote cart lines with product detail.
type Enricher interface {
	Enrich(ctx context.Context, lines []models.CartLine) []models.LocalCartItem
}

type enricher struct {
	lookup ProductLookup
}

func NewEnricher(lookup ProductLookup) Enricher {
	return &enricher{
		lookup: lookup,
	}
}

// Enrich resolves every line concurrently. The result keeps the input order.
// A line whose product cannot be resolved is dropped and logged; it never
// fails the other lines.
func (e *enricher) Enrich(ctx context.Context, lines []models.CartLine) []models.LocalCartItem {
	resolved := make([]*models.LocalCartItem, len(lines))

	var group errgroup.Group
	group.SetLimit(maxConcurrentLookups)
	for i, line := range lines {
		group.Go(func() error {
			product, err := e.lookup.GetProduct(ctx, line.ProductID)
			if err != nil {
				log.Warnw(ctx, "dropping cart line, product lookup failed",
					"product_id", line.ProductID,
					"quantity", line.Quantity,
					"error", err,
				)
				return nil
			}
			resolved[i] = &models.LocalCartItem{
				ID:       line.ProductID,
				Title:    product.Title,
				Price:    product.Price,
				Image:    product.Image,
				Quantity: line.Quantity,
			}
			return nil
		})
	}
	// lookups never return an error, a failed line is only dropped
	_ = group.Wait()

	items := make([]models.LocalCartItem, 0, len(lines))
	for _, item := range resolved {
		if item != nil {
			items = append(items, *item)
		}
	}
	return items
}
