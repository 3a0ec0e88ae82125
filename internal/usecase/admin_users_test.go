package usecase

import (
	"errors"
	"testing"

	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	john = models.User{ID: 1, Username: "johnd", Email: "john@gmail.com", Phone: "1-570-236-7033"}
	mor  = models.User{ID: 2, Username: "mor_2314", Email: "morrison@gmail.com", Phone: "1-570-236-7033"}
)

func TestAdminUsersListIsCached(t *testing.T) {
	users := newFakeUserAPI(john, mor)
	repo := NewAdminUserRepository(users)

	got, err := repo.List(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, []models.User{john, mor}, got)

	_, err = repo.List(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, users.listed)

	_, err = repo.List(t.Context(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, users.listed)
}

func TestAdminUsersGetAddsUnknownUser(t *testing.T) {
	users := newFakeUserAPI(john, mor)
	repo := NewAdminUserRepository(users)

	got, err := repo.GetByID(t.Context(), 2)
	require.NoError(t, err)
	assert.Equal(t, "mor_2314", got.Username)

	_, err = repo.GetByID(t.Context(), 2)
	require.NoError(t, err)

	list, err := repo.List(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, []models.User{mor}, list)
	assert.Zero(t, users.listed)
}

func TestAdminUsersCreate(t *testing.T) {
	repo := NewAdminUserRepository(newFakeUserAPI())

	_, err := repo.Create(t.Context(), models.UserPayload{Username: "kate", Password: "x", Email: "not-an-email"})
	require.Error(t, err)
	assert.Contains(t, repo.LastError(), "invalid user")

	created, err := repo.Create(t.Context(), models.UserPayload{Username: "kate", Password: "x", Email: "kate@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 11, created.ID)
	assert.Empty(t, repo.LastError())

	list, err := repo.List(t.Context(), false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "kate", list[0].Username)
}

func TestAdminUsersUpdateMergesCachedUser(t *testing.T) {
	users := newFakeUserAPI(john, mor)
	repo := NewAdminUserRepository(users)
	_, err := repo.List(t.Context(), false)
	require.NoError(t, err)

	updated, err := repo.Update(t.Context(), 2, models.UserPatch{Username: util.Ptr("mor_2315")})
	require.NoError(t, err)

	sent := users.updated[2]
	assert.Equal(t, "mor_2315", sent.Username)
	assert.Equal(t, mor.Email, sent.Email)

	assert.Equal(t, "mor_2315", updated.Username)
	assert.Equal(t, mor.Email, updated.Email)
	assert.Equal(t, mor.Phone, updated.Phone)

	list, err := repo.List(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, []models.User{john, *updated}, list)
}

func TestAdminUsersUpdateRejectsInvalidPatch(t *testing.T) {
	users := newFakeUserAPI(john)
	repo := NewAdminUserRepository(users)

	_, err := repo.Update(t.Context(), 1, models.UserPatch{Email: util.Ptr("nope")})
	require.Error(t, err)
	assert.NotEmpty(t, repo.LastError())
	assert.Empty(t, users.updated)
}

func TestAdminUsersDelete(t *testing.T) {
	users := newFakeUserAPI(john, mor)
	repo := NewAdminUserRepository(users)
	_, err := repo.List(t.Context(), false)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(t.Context(), 1))
	list, err := repo.List(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, []models.User{mor}, list)
}

func TestAdminUsersErrorsAreRecorded(t *testing.T) {
	users := newFakeUserAPI(john)
	repo := NewAdminUserRepository(users)
	users.err = errors.New("remote down")

	_, err := repo.List(t.Context(), false)
	require.Error(t, err)
	assert.Contains(t, repo.LastError(), "failed to list users")

	require.Error(t, repo.Delete(t.Context(), 1))
	assert.Contains(t, repo.LastError(), "failed to delete user 1")

	users.err = nil
	_, err = repo.List(t.Context(), false)
	require.NoError(t, err)
	assert.Empty(t, repo.LastError())
}
