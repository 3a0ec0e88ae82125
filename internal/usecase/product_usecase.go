package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/internal/repo/fakestore"
)

// ProductFilter is applied locally on top of a catalog listing.
type ProductFilter struct {
	Category string
	Search   string
	Sort     models.SortOrder
}

type ProductUsecase interface {
	List(ctx context.Context, query models.ProductQuery, filter ProductFilter) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id int) (*models.Product, error)
}

type productUsecase struct {
	products fakestore.ProductAPI
}

func NewProductUsecase(products fakestore.ProductAPI) ProductUsecase {
	return &productUsecase{
		products: products,
	}
}

func (uc *productUsecase) List(ctx context.Context, query models.ProductQuery, filter ProductFilter) ([]models.Product, error) {
	products, err := uc.products.ListProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return FilterProducts(products, filter), nil
}

func (uc *productUsecase) Categories(ctx context.Context) ([]string, error) {
	categories, err := uc.products.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (uc *productUsecase) Get(ctx context.Context, id int) (*models.Product, error) {
	product, err := uc.products.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return product, nil
}

// FilterProducts keeps products of filter.Category ("all" or empty keeps
// every category) whose title or description contains filter.Search, case
// insensitive, then orders them by id when filter.Sort is set.
func FilterProducts(products []models.Product, filter ProductFilter) []models.Product {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if filter.Category != "" && filter.Category != "all" && p.Category != filter.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, p)
	}

	switch filter.Sort {
	case models.SortAsc:
		slices.SortStableFunc(out, func(a, b models.Product) int { return a.ID - b.ID })
	case models.SortDesc:
		slices.SortStableFunc(out, func(a, b models.Product) int { return b.ID - a.ID })
	}
	return out
}
