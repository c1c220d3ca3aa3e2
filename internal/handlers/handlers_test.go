package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sharmalakshay/listky/internal/hooks"
	"github.com/sharmalakshay/listky/internal/repository"
	"github.com/sharmalakshay/listky/internal/security"
	"github.com/sharmalakshay/listky/internal/service"
	"github.com/sharmalakshay/listky/internal/session"
	"github.com/sharmalakshay/listky/internal/testutil"
	"github.com/sharmalakshay/listky/internal/tracking"
)

// newTestRouter wires the full in-memory stack behind the real router.
// The auth throttle is set high enough that only the lockout logic, not
// the per-IP token bucket, decides test outcomes.
func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	db := testutil.OpenTestDB(t)

	creds := security.NewCredentialStore("test-secret-salt", bcrypt.MinCost)
	sessions := session.NewManager(24 * time.Hour)
	registry := hooks.NewRegistry()

	userRepo := repository.NewUserRepository(db)
	listRepo := repository.NewListRepository(db)
	tracker := tracking.NewTracker(repository.NewViewRepository(db), creds)

	authSvc := service.NewAuthService(userRepo, creds, sessions, registry)
	listSvc := service.NewListService(listRepo, tracker, registry)

	authHandler := &AuthHandler{Auth: authSvc}
	listHandler := &ListHandler{
		Lists:              listSvc,
		Auth:               authHandler,
		TrendingWindowDays: 7,
		TrendingLimit:      10,
	}

	return NewRouter(RouterConfig{
		Auth:           authHandler,
		Lists:          listHandler,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// signupAndLogin registers a user and returns their session cookie.
func signupAndLogin(t *testing.T, router http.Handler, username, pin string) *http.Cookie {
	t.Helper()

	rr := doJSON(t, router, http.MethodPost, "/signup", map[string]string{
		"username": username, "pin": pin, "pin_confirm": pin,
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = doJSON(t, router, http.MethodPost, "/login", map[string]string{
		"username": username, "pin": pin,
	}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("login response did not set a session cookie")
	return nil
}

func TestStatusEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/status", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"running"}`, rr.Body.String())
}

func TestSignupValidationAndConflict(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/signup", map[string]string{
		"username": "alice", "pin": "12345", "pin_confirm": "12345",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/signup", map[string]string{
		"username": "alice", "pin": "123456", "pin_confirm": "123456",
	}, nil)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.NotContains(t, rr.Body.String(), "pin_hash", "hashes never leave the server")

	// Duplicate, case-insensitively.
	rr = doJSON(t, router, http.MethodPost, "/signup", map[string]string{
		"username": "ALICE", "pin": "654321", "pin_confirm": "654321",
	}, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestLoginWrongPINThenLockout(t *testing.T) {
	router := newTestRouter(t)
	signupAndLogin(t, router, "alice", "123456")

	for i := 0; i < 4; i++ {
		rr := doJSON(t, router, http.MethodPost, "/login", map[string]string{
			"username": "alice", "pin": "000000",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	}

	rr := doJSON(t, router, http.MethodPost, "/login", map[string]string{
		"username": "alice", "pin": "123456",
	}, nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code, "locked out even with the correct PIN")
}

func TestListLifecycle(t *testing.T) {
	router := newTestRouter(t)
	cookie := signupAndLogin(t, router, "alice", "123456")

	rr := doJSON(t, router, http.MethodPost, "/alice/lists", map[string]any{
		"slug": "groceries", "title": "Groceries", "content": "milk", "is_public": true,
	}, cookie)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	// Anyone can read a public list.
	rr = doJSON(t, router, http.MethodGet, "/alice/groceries", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "milk")

	rr = doJSON(t, router, http.MethodPut, "/alice/groceries", map[string]any{
		"content": "milk\neggs",
	}, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "eggs")

	rr = doJSON(t, router, http.MethodDelete, "/alice/groceries", nil, cookie)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/alice/groceries", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMutationsRequireMatchingSession(t *testing.T) {
	router := newTestRouter(t)
	alice := signupAndLogin(t, router, "alice", "123456")
	bob := signupAndLogin(t, router, "bob", "654321")

	body := map[string]any{"slug": "todo", "title": "T", "content": "c"}

	rr := doJSON(t, router, http.MethodPost, "/alice/lists", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "anonymous visitors cannot create")

	rr = doJSON(t, router, http.MethodPost, "/alice/lists", body, bob)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "sessions only work in their own namespace")

	rr = doJSON(t, router, http.MethodPost, "/alice/lists", body, alice)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodPut, "/alice/todo", map[string]any{"title": "X"}, bob)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, router, http.MethodDelete, "/alice/todo", nil, bob)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPrivateListVisibility(t *testing.T) {
	router := newTestRouter(t)
	alice := signupAndLogin(t, router, "alice", "123456")
	bob := signupAndLogin(t, router, "bob", "654321")

	rr := doJSON(t, router, http.MethodPost, "/alice/lists", map[string]any{
		"slug": "secret", "title": "S", "content": "hidden",
	}, alice)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/alice/secret", nil, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/alice/secret", nil, bob)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/alice/secret", nil, alice)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "hidden")
}

func TestProfileShowsPrivateListsOnlyToOwner(t *testing.T) {
	router := newTestRouter(t)
	alice := signupAndLogin(t, router, "alice", "123456")

	for _, l := range []map[string]any{
		{"slug": "pub", "title": "P", "content": "c", "is_public": true},
		{"slug": "priv", "title": "S", "content": "c"},
	} {
		rr := doJSON(t, router, http.MethodPost, "/alice/lists", l, alice)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := doJSON(t, router, http.MethodGet, "/alice", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pub")
	assert.NotContains(t, rr.Body.String(), "priv")

	rr = doJSON(t, router, http.MethodGet, "/alice", nil, alice)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "priv")

	rr = doJSON(t, router, http.MethodGet, "/nobody", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestManageEndpoint(t *testing.T) {
	router := newTestRouter(t)
	alice := signupAndLogin(t, router, "alice", "123456")

	rr := doJSON(t, router, http.MethodPost, "/alice/lists", map[string]any{
		"slug": "priv", "title": "S", "content": "c",
	}, alice)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/alice/manage", nil, alice)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "priv")

	rr = doJSON(t, router, http.MethodGet, "/alice/manage", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestTrendingReflectsViews(t *testing.T) {
	router := newTestRouter(t)
	alice := signupAndLogin(t, router, "alice", "123456")

	rr := doJSON(t, router, http.MethodGet, "/trending", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = doJSON(t, router, http.MethodPost, "/alice/lists", map[string]any{
		"slug": "hot", "title": "Hot", "content": "c", "is_public": true,
	}, alice)
	require.Equal(t, http.StatusCreated, rr.Code)

	// Two views from the same client on the same day count once.
	doJSON(t, router, http.MethodGet, "/alice/hot", nil, nil)
	doJSON(t, router, http.MethodGet, "/alice/hot", nil, nil)

	rr = doJSON(t, router, http.MethodGet, "/trending", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var trending []struct {
		Username  string `json:"username"`
		Slug      string `json:"slug"`
		ViewCount int    `json:"view_count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &trending))
	require.Len(t, trending, 1)
	assert.Equal(t, "alice", trending[0].Username)
	assert.Equal(t, "hot", trending[0].Slug)
	assert.Equal(t, 1, trending[0].ViewCount)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	router := newTestRouter(t)
	cookie := signupAndLogin(t, router, "alice", "123456")

	rr := doJSON(t, router, http.MethodPost, "/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/alice/lists", map[string]any{
		"slug": "todo", "title": "T", "content": "c",
	}, cookie)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Logging out again is fine.
	rr = doJSON(t, router, http.MethodPost, "/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthEndpointsAreThrottledPerIP(t *testing.T) {
	db := testutil.OpenTestDB(t)

	creds := security.NewCredentialStore("test-secret-salt", bcrypt.MinCost)
	sessions := session.NewManager(24 * time.Hour)
	registry := hooks.NewRegistry()
	authSvc := service.NewAuthService(repository.NewUserRepository(db), creds, sessions, registry)
	listSvc := service.NewListService(
		repository.NewListRepository(db),
		tracking.NewTracker(repository.NewViewRepository(db), creds),
		registry,
	)

	authHandler := &AuthHandler{Auth: authSvc}
	router := NewRouter(RouterConfig{
		Auth:           authHandler,
		Lists:          &ListHandler{Lists: listSvc, Auth: authHandler, TrendingWindowDays: 7, TrendingLimit: 10},
		RateLimitRPS:   1,
		RateLimitBurst: 2,
	})

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		rr := doJSON(t, router, http.MethodPost, "/login", map[string]string{
			"username": "ghost", "pin": "000000",
		}, nil)
		codes = append(codes, rr.Code)
	}

	assert.Contains(t, codes, http.StatusTooManyRequests)

	// Unthrottled routes stay reachable.
	rr := doJSON(t, router, http.MethodGet, "/status", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}
