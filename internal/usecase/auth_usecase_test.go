package usecase

import (
	"context"
	"testing"

	"github.com/nguyentranbao-ct/storefront/internal/config"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthAPI struct {
	users    []models.User
	password string
	token    string
}

func (f *fakeAuthAPI) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.Password != f.password {
		return nil, &models.HTTPError{Op: "login", Status: 401, Body: "username or password is incorrect"}
	}
	return &models.LoginResponse{Token: f.token}, nil
}

func (f *fakeAuthAPI) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func newTestAuth(t *testing.T, carts *fakeCartAPI) (*AuthUseCase, SessionRegistry) {
	t.Helper()
	auth := &fakeAuthAPI{
		users:    []models.User{{ID: 2, Username: "mor_2314"}},
		password: "83r5^_",
		token:    "tkn-1",
	}
	sessions := NewSessionRegistry()
	t.Cleanup(sessions.Close)
	factory := NewCartFactory(carts, NewEnricher(catalog(laptop, mouse)), nil, &config.Config{Cart: testCartConfig()})
	return NewAuthUseCase(auth, sessions, factory), sessions
}

func TestLogin(t *testing.T) {
	carts := newFakeCartAPI()
	carts.userCarts[2] = []models.RemoteCart{{
		ID: 4, UserID: 2, Date: "2024-01-01",
		Products: []models.CartLine{{ProductID: 1, Quantity: 2}},
	}}
	uc, sessions := newTestAuth(t, carts)

	token, session, err := uc.Login(t.Context(), models.LoginRequest{Username: "mor_2314", Password: "83r5^_"})
	require.NoError(t, err)
	assert.Equal(t, "tkn-1", token)
	assert.Equal(t, 2, session.UserID)
	assert.Equal(t, 2, session.Cart.Count())

	got, err := sessions.Get(token)
	require.NoError(t, err)
	assert.Same(t, session, got)

	validated, err := uc.ValidateToken(t.Context(), token)
	require.NoError(t, err)
	assert.Same(t, session, validated)
}

func TestLoginCartFetchFailureStillLogsIn(t *testing.T) {
	carts := newFakeCartAPI()
	carts.listErr = &models.HTTPError{Op: "list_user_carts", Status: 500, Body: "boom"}
	uc, _ := newTestAuth(t, carts)

	_, session, err := uc.Login(t.Context(), models.LoginRequest{Username: "mor_2314", Password: "83r5^_"})
	require.NoError(t, err)
	assert.Contains(t, session.Cart.Snapshot().LastError, "boom")
}

func TestLoginFailures(t *testing.T) {
	uc, _ := newTestAuth(t, newFakeCartAPI())

	_, _, err := uc.Login(t.Context(), models.LoginRequest{Username: "mor_2314", Password: "wrong"})
	var he *models.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, 401, he.Status)

	_, _, err = uc.Login(t.Context(), models.LoginRequest{Username: "ghost", Password: "83r5^_"})
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestLogout(t *testing.T) {
	carts := newFakeCartAPI()
	uc, sessions := newTestAuth(t, carts)

	token, session, err := uc.Login(t.Context(), models.LoginRequest{Username: "mor_2314", Password: "83r5^_"})
	require.NoError(t, err)
	session.Cart.AddItem(t.Context(), laptop)
	session.Cart.Wait()

	require.NoError(t, uc.Logout(t.Context(), token))

	snap := session.Cart.Snapshot()
	assert.Nil(t, snap.UserID)
	assert.Empty(t, snap.Items)

	created := carts.createdPayloads()
	require.Len(t, created, 2)
	assert.Empty(t, created[1].Products)

	_, err = sessions.Get(token)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
	assert.ErrorIs(t, uc.Logout(t.Context(), token), models.ErrNotAuthenticated)
	_, err = uc.ValidateToken(t.Context(), token)
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)
}

func TestSessionRegistryReplace(t *testing.T) {
	registry := NewSessionRegistry()
	carts := newFakeCartAPI()
	first := &Session{UserID: 1, Cart: newTestSynchronizer(t, carts, catalog(), nil)}
	second := &Session{UserID: 1, Cart: newTestSynchronizer(t, carts, catalog(), nil)}

	assert.Nil(t, registry.Put("t", first))
	assert.Same(t, first, registry.Put("t", second))

	got, err := registry.Get("t")
	require.NoError(t, err)
	assert.Same(t, second, got)

	registry.Close()
	_, err = registry.Get("t")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}
