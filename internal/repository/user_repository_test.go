package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharmalakshay/listky/internal/models"
	"github.com/sharmalakshay/listky/internal/testutil"
	"github.com/sharmalakshay/listky/pkg/errors"
)

func TestUserCreateAndGet(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserRepository(db)

	user := &models.User{
		Username:   "alice",
		PINHash:    "hashed-pin",
		LastIPHash: "hashed-ip",
	}
	require.NoError(t, repo.Create(user))
	assert.False(t, user.CreatedAt.IsZero())

	got, err := repo.GetByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "hashed-pin", got.PINHash)
	assert.Equal(t, "hashed-ip", got.LastIPHash)
	assert.Equal(t, 0, got.FailedAttempts)
	assert.Nil(t, got.LastFail)
}

func TestUserCreateDuplicate(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(&models.User{Username: "alice", PINHash: "h"}))

	err := repo.Create(&models.User{Username: "alice", PINHash: "h2"})
	assert.ErrorIs(t, err, errors.ErrAlreadyExists)
}

func TestUserGetMissing(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByUsername("nobody")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestRecordLoginFailureAndSuccess(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(&models.User{Username: "alice", PINHash: "h"}))

	require.NoError(t, repo.RecordLoginFailure("alice"))
	require.NoError(t, repo.RecordLoginFailure("alice"))

	got, err := repo.GetByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, 2, got.FailedAttempts)
	require.NotNil(t, got.LastFail)
	assert.WithinDuration(t, time.Now(), *got.LastFail, time.Minute)

	require.NoError(t, repo.RecordLoginSuccess("alice", "new-ip-hash"))

	got, err = repo.GetByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, 0, got.FailedAttempts)
	assert.Nil(t, got.LastFail)
	assert.Equal(t, "new-ip-hash", got.LastIPHash)
}

func TestRecordLoginFailureUnknownUserIsNoOp(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserRepository(db)

	assert.NoError(t, repo.RecordLoginFailure("nobody"))
}
