package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdminRepo(t *testing.T, carts *fakeCartAPI) AdminCartRepository {
	t.Helper()
	repo, err := NewAdminCartRepository(carts)
	require.NoError(t, err)
	return repo
}

func TestAdminUpdateMergesCachedCart(t *testing.T) {
	carts := newFakeCartAPI()
	carts.carts[7] = models.RemoteCart{
		ID: 7, UserID: 2, Date: "2024-01-05",
		Products: []models.CartLine{{ProductID: 1, Quantity: 1}},
	}
	repo := newTestAdminRepo(t, carts)

	_, err := repo.GetByID(t.Context(), 7)
	require.NoError(t, err)

	updated, err := repo.Update(t.Context(), 7, models.CartPatch{
		Products: []models.CartLine{{ProductID: 4, Quantity: 3}},
	})
	require.NoError(t, err)

	sent := carts.updated[7]
	assert.Equal(t, 2, sent.UserID)
	assert.Equal(t, "2024-01-05", sent.Date)
	assert.Equal(t, []models.CartLine{{ProductID: 4, Quantity: 3}}, sent.Products)

	assert.Equal(t, 7, updated.ID)
	assert.Equal(t, 2, updated.UserID)
	assert.Empty(t, repo.LastError())
}

func TestAdminUpdateUncachedNeedsUser(t *testing.T) {
	carts := newFakeCartAPI()
	repo := newTestAdminRepo(t, carts)

	_, err := repo.Update(t.Context(), 7, models.CartPatch{Date: util.Ptr("2024-03-01")})
	require.Error(t, err)
	assert.NotEmpty(t, repo.LastError())
	assert.Empty(t, carts.updated)

	updated, err := repo.Update(t.Context(), 7, models.CartPatch{UserID: util.Ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.UserID)
	assert.Empty(t, repo.LastError())
}

func TestAdminCreate(t *testing.T) {
	carts := newFakeCartAPI()
	repo := newTestAdminRepo(t, carts).(*adminCartRepository)
	repo.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	cart, err := repo.Create(t.Context(), models.CartPayload{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T12:00:00.000Z", cart.Date)
	assert.NotNil(t, cart.Products)

	_, err = repo.Create(t.Context(), models.CartPayload{
		UserID:   1,
		Products: []models.CartLine{{ProductID: 1, Quantity: 0}},
	})
	require.Error(t, err)
	assert.Contains(t, repo.LastError(), "invalid cart payload")
	assert.Len(t, carts.createdPayloads(), 1)
}

func TestAdminErrorsAreRecorded(t *testing.T) {
	carts := newFakeCartAPI()
	carts.listErr = &models.NetworkError{Op: "list_carts", Err: errors.New("dial tcp: refused")}
	repo := newTestAdminRepo(t, carts)

	_, err := repo.List(t.Context(), models.CartFilter{})
	var ne *models.NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Contains(t, repo.LastError(), "refused")

	_, err = repo.GetByID(t.Context(), 99)
	assert.True(t, models.IsNotFound(err))
	assert.Contains(t, repo.LastError(), "404")

	_, err = repo.List(t.Context(), models.CartFilter{Sort: "sideways"})
	require.Error(t, err)
	assert.Contains(t, repo.LastError(), "invalid cart filter")

	_, err = repo.List(t.Context(), models.CartFilter{StartDate: "last tuesday"})
	require.Error(t, err)
	assert.Contains(t, repo.LastError(), "StartDate")
}

func TestAdminDelete(t *testing.T) {
	carts := newFakeCartAPI()
	carts.userCarts[2] = []models.RemoteCart{{ID: 5, UserID: 2, Date: "2024-01-01"}}
	repo := newTestAdminRepo(t, carts)

	list, err := repo.ListByUser(t.Context(), 2)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.Delete(t.Context(), 5))
	assert.Equal(t, []int{5}, carts.deleted)

	// the cached copy is gone, so a partial update no longer has a user
	_, err = repo.Update(t.Context(), 5, models.CartPatch{Date: util.Ptr("2024-02-02")})
	assert.Error(t, err)
}
