package fakestore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nguyentranbao-ct/storefront/internal/models"
)

type ProductAPI interface {
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	ListProducts(ctx context.Context, query models.ProductQuery) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type productAPI struct {
	client Client
}

func NewProductAPI(client Client) ProductAPI {
	return &productAPI{
		client: client,
	}
}

func (a *productAPI) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	product, err := request[models.Product](ctx, a.client, Request{
		Op:     "get_product",
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/products/%d", id),
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (a *productAPI) ListProducts(ctx context.Context, query models.ProductQuery) ([]models.Product, error) {
	path := "/products"
	if query.Category != "" && query.Category != "all" {
		path = "/products/category/" + url.PathEscape(query.Category)
	}

	return request[[]models.Product](ctx, a.client, Request{
		Op:     "list_products",
		Method: http.MethodGet,
		Path:   path,
		Query: queryParams(map[string]any{
			"limit": query.Limit,
			"sort":  query.Sort,
		}),
	})
}

func (a *productAPI) ListCategories(ctx context.Context) ([]string, error) {
	return request[[]string](ctx, a.client, Request{
		Op:     "list_categories",
		Method: http.MethodGet,
		Path:   "/products/categories",
	})
}
