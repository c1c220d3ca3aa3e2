package tracking

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sharmalakshay/listky/internal/models"
	"github.com/sharmalakshay/listky/internal/repository"
	"github.com/sharmalakshay/listky/internal/security"
	"github.com/sharmalakshay/listky/internal/testutil"
)

func newTestTracker(t *testing.T) (*Tracker, func(username, slug string, public bool) *models.List) {
	t.Helper()
	db := testutil.OpenTestDB(t)

	userRepo := repository.NewUserRepository(db)
	listRepo := repository.NewListRepository(db)
	creds := security.NewCredentialStore("test-secret-salt", bcrypt.MinCost)
	tracker := NewTracker(repository.NewViewRepository(db), creds)

	seed := func(username, slug string, public bool) *models.List {
		if _, err := userRepo.GetByUsername(username); err != nil {
			require.NoError(t, userRepo.Create(&models.User{Username: username, PINHash: "h"}))
		}
		list := &models.List{Username: username, Slug: slug, Title: slug, Content: "c", IsPublic: public}
		require.NoError(t, listRepo.Create(list))
		return list
	}

	return tracker, seed
}

func TestTrackViewCountsOncePerIPPerDay(t *testing.T) {
	tracker, seed := newTestTracker(t)
	list := seed("alice", "todo", true)

	today := time.Now()

	assert.True(t, tracker.TrackView(list.ID, "1.2.3.4", today))
	assert.False(t, tracker.TrackView(list.ID, "1.2.3.4", today), "repeat view same day is a no-op")
	assert.True(t, tracker.TrackView(list.ID, "5.6.7.8", today), "different visitor counts")

	trending, err := tracker.Trending(7, 10)
	require.NoError(t, err)
	require.Len(t, trending, 1)
	assert.Equal(t, 2, trending[0].ViewCount)
}

func TestTrackViewSwallowsStorageErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT OR IGNORE INTO views").
		WillReturnError(errors.New("disk I/O error"))

	creds := security.NewCredentialStore("test-secret-salt", bcrypt.MinCost)
	tracker := NewTracker(repository.NewViewRepository(db), creds)

	recorded := tracker.TrackView(1, "1.2.3.4", time.Now())
	assert.False(t, recorded, "storage failure must come back as false, never an error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrendingEmptyWhenNoViews(t *testing.T) {
	tracker, seed := newTestTracker(t)
	seed("alice", "todo", true)

	trending, err := tracker.Trending(7, 10)
	require.NoError(t, err)
	// Zero-view public lists still appear, ranked by recency.
	require.Len(t, trending, 1)
	assert.Equal(t, 0, trending[0].ViewCount)
}
