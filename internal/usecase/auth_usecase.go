package usecase

import (
	"context"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/internal/repo/fakestore"
)

type AuthUseCase struct {
	authAPI  fakestore.AuthAPI
	sessions SessionRegistry
	newCart  CartFactory
}

func NewAuthUseCase(authAPI fakestore.AuthAPI, sessions SessionRegistry, newCart CartFactory) *AuthUseCase {
	return &AuthUseCase{
		authAPI:  authAPI,
		sessions: sessions,
		newCart:  newCart,
	}
}

// Login authenticates against the remote service, opens a cart session for
// the user and loads the user's latest remote cart. A failed cart fetch is
// recorded on the session and does not fail the login.
func (uc *AuthUseCase) Login(ctx context.Context, req models.LoginRequest) (string, *Session, error) {
	resp, err := uc.authAPI.Login(ctx, req)
	if err != nil {
		return "", nil, fmt.Errorf("failed to login: %w", err)
	}

	user, err := uc.authAPI.FindUserByUsername(ctx, req.Username)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve user %q: %w", req.Username, err)
	}

	session := &Session{
		Username: user.Username,
		UserID:   user.ID,
		Cart:     uc.newCart(),
	}
	if prev := uc.sessions.Put(resp.Token, session); prev != nil {
		prev.Cart.Close()
	}

	if err := session.Cart.FetchCart(ctx, user.ID); err != nil {
		log.Warnw(ctx, "initial cart fetch failed", "user_id", user.ID, "error", err)
	}

	log.Infow(ctx, "user logged in", "user_id", user.ID, "username", user.Username)
	return resp.Token, session, nil
}

// ValidateToken returns the live session of token.
func (uc *AuthUseCase) ValidateToken(_ context.Context, token string) (*Session, error) {
	session, err := uc.sessions.Get(token)
	if err != nil {
		return nil, models.ErrNotAuthenticated
	}
	return session, nil
}

// Logout empties the session cart, waits for its pushes and drops the session.
func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	session, ok := uc.sessions.Delete(token)
	if !ok {
		return models.ErrNotAuthenticated
	}

	session.Cart.Clear(ctx, false)
	session.Cart.Close()

	log.Infow(ctx, "user logged out", "user_id", session.UserID)
	return nil
}
