package fakestore

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nguyentranbao-ct/storefront/internal/models"
)

type CartAPI interface {
	ListCarts(ctx context.Context, filter models.CartFilter) ([]models.RemoteCart, error)
	GetCart(ctx context.Context, id int) (*models.RemoteCart, error)
	ListCartsByUser(ctx context.Context, userID int) ([]models.RemoteCart, error)
	CreateCart(ctx context.Context, payload models.CartPayload) (*models.RemoteCart, error)
	UpdateCart(ctx context.Context, id int, payload models.CartPayload) (*models.RemoteCart, error)
	DeleteCart(ctx context.Context, id int) error
}

type cartAPI struct {
	client Client
}

func NewCartAPI(client Client) CartAPI {
	return &cartAPI{
		client: client,
	}
}

func (a *cartAPI) ListCarts(ctx context.Context, filter models.CartFilter) ([]models.RemoteCart, error) {
	return request[[]models.RemoteCart](ctx, a.client, Request{
		Op:     "list_carts",
		Method: http.MethodGet,
		Path:   "/carts",
		Query: queryParams(map[string]any{
			"startdate": filter.StartDate,
			"enddate":   filter.EndDate,
			"sort":      filter.Sort,
			"limit":     filter.Limit,
		}),
	})
}

func (a *cartAPI) GetCart(ctx context.Context, id int) (*models.RemoteCart, error) {
	cart, err := request[models.RemoteCart](ctx, a.client, Request{
		Op:     "get_cart",
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/carts/%d", id),
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (a *cartAPI) ListCartsByUser(ctx context.Context, userID int) ([]models.RemoteCart, error) {
	return request[[]models.RemoteCart](ctx, a.client, Request{
		Op:     "list_user_carts",
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/carts/user/%d", userID),
	})
}

func (a *cartAPI) CreateCart(ctx context.Context, payload models.CartPayload) (*models.RemoteCart, error) {
	cart, err := request[models.RemoteCart](ctx, a.client, Request{
		Op:     "create_cart",
		Method: http.MethodPost,
		Path:   "/carts",
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (a *cartAPI) UpdateCart(ctx context.Context, id int, payload models.CartPayload) (*models.RemoteCart, error) {
	cart, err := request[models.RemoteCart](ctx, a.client, Request{
		Op:     "update_cart",
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/carts/%d", id),
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (a *cartAPI) DeleteCart(ctx context.Context, id int) error {
	return a.client.Do(ctx, Request{
		Op:     "delete_cart",
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/carts/%d", id),
	}, nil)
}
