package fakestore

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nguyentranbao-ct/storefront/internal/models"
)

type UserAPI interface {
	ListUsers(ctx context.Context, query models.UserQuery) ([]models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id int, user models.User) (*models.User, error)
	DeleteUser(ctx context.Context, id int) error
}

type userAPI struct {
	client Client
}

func NewUserAPI(client Client) UserAPI {
	return &userAPI{
		client: client,
	}
}

func (a *userAPI) ListUsers(ctx context.Context, query models.UserQuery) ([]models.User, error) {
	return request[[]models.User](ctx, a.client, Request{
		Op:     "list_users",
		Method: http.MethodGet,
		Path:   "/users",
		Query: queryParams(map[string]any{
			"limit": query.Limit,
			"sort":  query.Sort,
		}),
	})
}

func (a *userAPI) GetUser(ctx context.Context, id int) (*models.User, error) {
	user, err := request[models.User](ctx, a.client, Request{
		Op:     "get_user",
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/users/%d", id),
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *userAPI) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	created, err := request[models.User](ctx, a.client, Request{
		Op:     "create_user",
		Method: http.MethodPost,
		Path:   "/users",
		Body:   user,
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *userAPI) UpdateUser(ctx context.Context, id int, user models.User) (*models.User, error) {
	updated, err := request[models.User](ctx, a.client, Request{
		Op:     "update_user",
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/users/%d", id),
		Body:   user,
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (a *userAPI) DeleteUser(ctx context.Context, id int) error {
	return a.client.Do(ctx, Request{
		Op:     "delete_user",
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/users/%d", id),
	}, nil)
}
