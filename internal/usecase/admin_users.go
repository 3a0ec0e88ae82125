package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/internal/repo/fakestore"
)

// AdminUserRepository manages remote users for back-office screens. It keeps
// the user list as last loaded, in remote order, and every error is both
// returned and kept as LastError.
type AdminUserRepository interface {
	// List returns the cached list unless it is empty or force is set.
	List(ctx context.Context, force bool) ([]models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	Create(ctx context.Context, payload models.UserPayload) (*models.User, error)
	// Update merges patch into the cached copy of the user, sends the result
	// and merges the remote answer back into the list.
	Update(ctx context.Context, id int, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id int) error
	LastError() string
}

type adminUserRepository struct {
	users    fakestore.UserAPI
	validate *validator.Validate

	mu        sync.Mutex
	list      []models.User
	lastError string
}

func NewAdminUserRepository(users fakestore.UserAPI) AdminUserRepository {
	return &adminUserRepository{
		users:    users,
		validate: validator.New(),
	}
}

func (r *adminUserRepository) List(ctx context.Context, force bool) ([]models.User, error) {
	r.mu.Lock()
	if len(r.list) > 0 && !force {
		users := slices.Clone(r.list)
		r.mu.Unlock()
		return users, nil
	}
	r.mu.Unlock()

	users, err := r.users.ListUsers(ctx, models.UserQuery{})
	if err != nil {
		return nil, r.fail(fmt.Errorf("failed to list users: %w", err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = slices.Clone(users)
	r.lastError = ""
	return users, nil
}

func (r *adminUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := r.users.GetUser(ctx, id)
	if err != nil {
		return nil, r.fail(fmt.Errorf("failed to get user %d: %w", id, err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(user.ID) < 0 {
		r.list = append(r.list, *user)
	}
	r.lastError = ""
	return user, nil
}

func (r *adminUserRepository) Create(ctx context.Context, payload models.UserPayload) (*models.User, error) {
	if err := r.validate.Struct(payload); err != nil {
		return nil, r.fail(fmt.Errorf("invalid user: %w", err))
	}

	created, err := r.users.CreateUser(ctx, payload.User())
	if err != nil {
		return nil, r.fail(fmt.Errorf("failed to create user: %w", err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, *created)
	r.lastError = ""
	return created, nil
}

func (r *adminUserRepository) Update(ctx context.Context, id int, patch models.UserPatch) (*models.User, error) {
	if err := r.validate.Struct(patch); err != nil {
		return nil, r.fail(fmt.Errorf("invalid user patch: %w", err))
	}

	r.mu.Lock()
	current := models.User{ID: id}
	if i := r.indexOf(id); i >= 0 {
		current = r.list[i]
	}
	r.mu.Unlock()

	merged := patch.Apply(current)
	resp, err := r.users.UpdateUser(ctx, id, merged)
	if err != nil {
		return nil, r.fail(fmt.Errorf("failed to update user %d: %w", id, err))
	}

	updated := overlayUser(merged, resp)
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		r.list[i] = updated
	}
	r.lastError = ""
	return &updated, nil
}

func (r *adminUserRepository) Delete(ctx context.Context, id int) error {
	if err := r.users.DeleteUser(ctx, id); err != nil {
		return r.fail(fmt.Errorf("failed to delete user %d: %w", id, err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = slices.DeleteFunc(r.list, func(u models.User) bool { return u.ID == id })
	r.lastError = ""
	return nil
}

func (r *adminUserRepository) LastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastError
}

func (r *adminUserRepository) fail(err error) error {
	r.mu.Lock()
	r.lastError = err.Error()
	r.mu.Unlock()
	return err
}

// indexOf expects r.mu to be held.
func (r *adminUserRepository) indexOf(id int) int {
	return slices.IndexFunc(r.list, func(u models.User) bool { return u.ID == id })
}

// overlayUser lays the non-empty fields of the remote answer over user.
func overlayUser(user models.User, resp *models.User) models.User {
	if resp == nil {
		return user
	}
	if resp.Email != "" {
		user.Email = resp.Email
	}
	if resp.Username != "" {
		user.Username = resp.Username
	}
	if resp.Password != "" {
		user.Password = resp.Password
	}
	if resp.Name != (models.UserName{}) {
		user.Name = resp.Name
	}
	if resp.Address != (models.UserAddress{}) {
		user.Address = resp.Address
	}
	if resp.Phone != "" {
		user.Phone = resp.Phone
	}
	return user
}
