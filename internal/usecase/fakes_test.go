package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/nguyentranbao-ct/storefront/internal/config"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/shopspring/decimal"
)

type fakeCartAPI struct {
	mu sync.Mutex

	userCarts map[int][]models.RemoteCart
	carts     map[int]models.RemoteCart
	listErr   error
	createErr error
	updateErr error
	nextID    int

	// listGate, when set for a user, blocks ListCartsByUser until closed.
	listGate map[int]chan struct{}

	created []models.CartPayload
	updated map[int]models.CartPayload
	deleted []int
}

func newFakeCartAPI() *fakeCartAPI {
	return &fakeCartAPI{
		userCarts: map[int][]models.RemoteCart{},
		carts:     map[int]models.RemoteCart{},
		listGate:  map[int]chan struct{}{},
		updated:   map[int]models.CartPayload{},
		nextID:    100,
	}
}

func (f *fakeCartAPI) ListCarts(_ context.Context, _ models.CartFilter) ([]models.RemoteCart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.RemoteCart, 0, len(f.carts))
	for _, c := range f.carts {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCartAPI) GetCart(_ context.Context, id int) (*models.RemoteCart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[id]
	if !ok {
		return nil, &models.HTTPError{Op: "get_cart", Status: 404, Body: "empty response"}
	}
	return &c, nil
}

func (f *fakeCartAPI) ListCartsByUser(ctx context.Context, userID int) ([]models.RemoteCart, error) {
	f.mu.Lock()
	gate := f.listGate[userID]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.RemoteCart{}, f.userCarts[userID]...), nil
}

func (f *fakeCartAPI) CreateCart(_ context.Context, payload models.CartPayload) (*models.RemoteCart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, payload)
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	cart := models.RemoteCart{ID: f.nextID, UserID: payload.UserID, Date: payload.Date, Products: payload.Products}
	f.carts[cart.ID] = cart
	return &cart, nil
}

func (f *fakeCartAPI) UpdateCart(_ context.Context, id int, payload models.CartPayload) (*models.RemoteCart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated[id] = payload
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.RemoteCart{ID: id, UserID: payload.UserID, Date: payload.Date, Products: payload.Products}, nil
}

func (f *fakeCartAPI) DeleteCart(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	delete(f.carts, id)
	return nil
}

func (f *fakeCartAPI) createdPayloads() []models.CartPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CartPayload{}, f.created...)
}

type fakeLookup struct {
	products map[int]models.Product
	errs     map[int]error
	delays   map[int]time.Duration
}

func (f *fakeLookup) GetProduct(ctx context.Context, productID int) (*models.Product, error) {
	if d := f.delays[productID]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, &models.LookupError{ProductID: productID, Err: ctx.Err()}
		}
	}
	if err := f.errs[productID]; err != nil {
		return nil, &models.LookupError{ProductID: productID, Err: err}
	}
	p, ok := f.products[productID]
	if !ok {
		return nil, &models.LookupError{
			ProductID: productID,
			Err:       &models.HTTPError{Op: "get_product", Status: 404, Body: "empty response"},
		}
	}
	return &p, nil
}

type recordingObserver struct {
	mu      sync.Mutex
	records []models.SyncRecord
}

func (o *recordingObserver) ObserveSync(_ context.Context, record models.SyncRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
}

func (o *recordingObserver) all() []models.SyncRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]models.SyncRecord{}, o.records...)
}

func product(id int, title, price string) models.Product {
	return models.Product{
		ID:       id,
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Category: "electronics",
		Image:    "https://img.example/" + title,
	}
}

func catalog(products ...models.Product) *fakeLookup {
	l := &fakeLookup{
		products: map[int]models.Product{},
		errs:     map[int]error{},
		delays:   map[int]time.Duration{},
	}
	for _, p := range products {
		l.products[p.ID] = p
	}
	return l
}

func testCartConfig() config.CartConfig {
	return config.CartConfig{SyncWorkers: 2, SyncTimeout: time.Second}
}

// newTestSynchronizer returns a synchronizer closed at test cleanup.
func newTestSynchronizer(t interface{ Cleanup(func()) }, carts *fakeCartAPI, lookup ProductLookup, observer SyncObserver) *CartSynchronizer {
	s := NewCartSynchronizer(NewCartSession(), carts, NewEnricher(lookup), observer, testCartConfig())
	t.Cleanup(s.Close)
	return s
}

type fakeProductAPI struct {
	products   []models.Product
	categories []string
	err        error
	lastQuery  models.ProductQuery
}

func (f *fakeProductAPI) GetProduct(_ context.Context, id int) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &models.HTTPError{Op: "get_product", Status: 404, Body: "empty response"}
}

func (f *fakeProductAPI) ListProducts(_ context.Context, query models.ProductQuery) ([]models.Product, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Product{}, f.products...), nil
}

func (f *fakeProductAPI) ListCategories(context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

type fakeUserAPI struct {
	mu      sync.Mutex
	users   []models.User
	err     error
	listed  int
	updated map[int]models.User
	nextID  int
}

func newFakeUserAPI(users ...models.User) *fakeUserAPI {
	return &fakeUserAPI{users: users, updated: map[int]models.User{}, nextID: 11}
}

func (f *fakeUserAPI) ListUsers(context.Context, models.UserQuery) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed++
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.User{}, f.users...), nil
}

func (f *fakeUserAPI) GetUser(_ context.Context, id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, &models.HTTPError{Op: "get_user", Status: 404, Body: "empty response"}
}

func (f *fakeUserAPI) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	user.ID = f.nextID
	f.nextID++
	return &user, nil
}

func (f *fakeUserAPI) UpdateUser(_ context.Context, id int, user models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.updated[id] = user
	// the remote echoes only part of the record
	return &models.User{ID: id, Username: user.Username}, nil
}

func (f *fakeUserAPI) DeleteUser(context.Context, int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
