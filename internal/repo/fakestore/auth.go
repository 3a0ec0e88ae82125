package fakestore

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nguyentranbao-ct/storefront/internal/models"
)

type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type authAPI struct {
	client Client
	users  UserAPI
}

func NewAuthAPI(client Client, users UserAPI) AuthAPI {
	return &authAPI{
		client: client,
		users:  users,
	}
}

func (a *authAPI) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	resp, err := request[models.LoginResponse](ctx, a.client, Request{
		Op:     "login",
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   req,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// FindUserByUsername scans the user list; the remote has no lookup by username.
func (a *authAPI) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	users, err := a.users.ListUsers(ctx, models.UserQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, models.ErrUserNotFound
}
