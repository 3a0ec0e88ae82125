package usecase

import (
	"context"

	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/internal/repo/fakestore"
)

// ProductLookup resolves a single product id to its catalog detail.
type ProductLookup interface {
	GetProduct(ctx context.Context, productID int) (*models.Product, error)
}

type productLookup struct {
	products fakestore.ProductAPI
}

func NewProductLookup(products fakestore.ProductAPI) ProductLookup {
	return &productLookup{
		products: products,
	}
}

func (l *productLookup) GetProduct(ctx context.Context, productID int) (*models.Product, error) {
	product, err := l.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, &models.LookupError{ProductID: productID, Err: err}
	}
	return product, nil
}
