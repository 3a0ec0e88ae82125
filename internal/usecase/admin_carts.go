package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/internal/repo/fakestore"
)

// AdminCartRepository is a session-independent view of every remote cart.
// Every error is both returned and kept as LastError.
type AdminCartRepository interface {
	List(ctx context.Context, filter models.CartFilter) ([]models.RemoteCart, error)
	GetByID(ctx context.Context, id int) (*models.RemoteCart, error)
	ListByUser(ctx context.Context, userID int) ([]models.RemoteCart, error)
	Create(ctx context.Context, payload models.CartPayload) (*models.RemoteCart, error)
	// Update merges patch into the last observed copy of the cart, replaces
	// the remote record with the result and returns it overlaid with the
	// remote answer. The record is not re-fetched first, so a cart this
	// repository has never seen needs a patch with a user id.
	Update(ctx context.Context, id int, patch models.CartPatch) (*models.RemoteCart, error)
	Delete(ctx context.Context, id int) error
	LastError() string
}

type adminCartRepository struct {
	carts    fakestore.CartAPI
	validate *validator.Validate
	now      func() time.Time

	mu        sync.Mutex
	cache     map[int]models.RemoteCart
	lastError string
}

func NewAdminCartRepository(carts fakestore.CartAPI) (AdminCartRepository, error) {
	validate := validator.New()
	if err := models.RegisterValidations(validate); err != nil {
		return nil, fmt.Errorf("failed to register validations: %w", err)
	}
	return &adminCartRepository{
		carts:    carts,
		validate: validate,
		now:      time.Now,
		cache:    make(map[int]models.RemoteCart),
	}, nil
}

func (r *adminCartRepository) List(ctx context.Context, filter models.CartFilter) ([]models.RemoteCart, error) {
	if err := r.validate.Struct(filter); err != nil {
		return nil, r.fail(fmt.Errorf("invalid cart filter: %w", err))
	}
	carts, err := r.carts.ListCarts(ctx, filter)
	if err != nil {
		return nil, r.fail(fmt.Errorf("failed to list carts: %w", err))
	}
	r.observe(carts...)
	return carts, nil
}

func (r *adminCartRepository) GetByID(ctx context.Context, id int) (*models.RemoteCart, error) {
	cart, err := r.carts.GetCart(ctx, id)
	if err != nil {
		return nil, r.fail(fmt.Errorf("failed to get cart %d: %w", id, err))
	}
	r.observe(*cart)
	return cart, nil
}

func (r *adminCartRepository) ListByUser(ctx context.Context, userID int) ([]models.RemoteCart, error) {
	carts, err := r.carts.ListCartsByUser(ctx, userID)
	if err != nil {
		return nil, r.fail(fmt.Errorf("failed to list carts of user %d: %w", userID, err))
	}
	r.observe(carts...)
	return carts, nil
}

func (r *adminCartRepository) Create(ctx context.Context, payload models.CartPayload) (*models.RemoteCart, error) {
	if payload.Date == "" {
		payload.Date = r.now().UTC().Format(cartDateLayout)
	}
	if payload.Products == nil {
		payload.Products = []models.CartLine{}
	}
	if err := r.validate.Struct(payload); err != nil {
		return nil, r.fail(fmt.Errorf("invalid cart payload: %w", err))
	}

	cart, err := r.carts.CreateCart(ctx, payload)
	if err != nil {
		return nil, r.fail(fmt.Errorf("failed to create cart: %w", err))
	}
	r.observe(*cart)
	return cart, nil
}

func (r *adminCartRepository) Update(ctx context.Context, id int, patch models.CartPatch) (*models.RemoteCart, error) {
	if err := r.validate.Struct(patch); err != nil {
		return nil, r.fail(fmt.Errorf("invalid cart patch: %w", err))
	}

	r.mu.Lock()
	merged, ok := r.cache[id]
	r.mu.Unlock()
	if !ok {
		merged = models.RemoteCart{ID: id, Products: []models.CartLine{}}
	}
	merged = applyPatch(cloneCart(merged), patch)

	if merged.Products == nil {
		merged.Products = []models.CartLine{}
	}
	payload := models.CartPayload{
		UserID:   merged.UserID,
		Date:     merged.Date,
		Products: merged.Products,
	}
	if err := r.validate.Struct(payload); err != nil {
		return nil, r.fail(fmt.Errorf("invalid cart %d after patch: %w", id, err))
	}

	resp, err := r.carts.UpdateCart(ctx, id, payload)
	if err != nil {
		return nil, r.fail(fmt.Errorf("failed to update cart %d: %w", id, err))
	}

	updated := overlayCart(merged, resp)
	r.observe(updated)
	return &updated, nil
}

func (r *adminCartRepository) Delete(ctx context.Context, id int) error {
	if err := r.carts.DeleteCart(ctx, id); err != nil {
		return r.fail(fmt.Errorf("failed to delete cart %d: %w", id, err))
	}

	r.mu.Lock()
	delete(r.cache, id)
	r.lastError = ""
	r.mu.Unlock()
	return nil
}

func (r *adminCartRepository) LastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastError
}

func (r *adminCartRepository) fail(err error) error {
	r.mu.Lock()
	r.lastError = err.Error()
	r.mu.Unlock()
	return err
}

// observe caches carts as last seen and clears the error of the previous call.
func (r *adminCartRepository) observe(carts ...models.RemoteCart) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cart := range carts {
		r.cache[cart.ID] = cloneCart(cart)
	}
	r.lastError = ""
}

func applyPatch(cart models.RemoteCart, patch models.CartPatch) models.RemoteCart {
	if patch.UserID != nil {
		cart.UserID = *patch.UserID
	}
	if patch.Date != nil {
		cart.Date = *patch.Date
	}
	if patch.Products != nil {
		cart.Products = slices.Clone(patch.Products)
	}
	return cart
}

func overlayCart(cart models.RemoteCart, resp *models.RemoteCart) models.RemoteCart {
	if resp == nil {
		return cart
	}
	if resp.UserID != 0 {
		cart.UserID = resp.UserID
	}
	if resp.Date != "" {
		cart.Date = resp.Date
	}
	if resp.Products != nil {
		cart.Products = slices.Clone(resp.Products)
	}
	return cart
}

func cloneCart(cart models.RemoteCart) models.RemoteCart {
	cart.Products = slices.Clone(cart.Products)
	return cart
}
