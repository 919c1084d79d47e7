package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nethra/sentinel/internal/models"
	"github.com/nethra/sentinel/internal/server/handlers"
	"github.com/nethra/sentinel/internal/server/jwt"
	"github.com/nethra/sentinel/internal/server/storage"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// fakeUserStorage is an in-memory UserStorage stub for middleware tests
type fakeUserStorage struct {
	users map[string]*models.User
}

func newFakeUserStorage(users ...*models.User) *fakeUserStorage {
	m := make(map[string]*models.User)
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserStorage{users: m}
}

func (f *fakeUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (f *fakeUserStorage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStorage) UpdateUser(ctx context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return storage.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStorage) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	u, ok := f.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserStorage) DeleteUser(ctx context.Context, userID string) error {
	if _, ok := f.users[userID]; !ok {
		return storage.ErrUserNotFound
	}
	delete(f.users, userID)
	return nil
}

func (f *fakeUserStorage) ListUsers(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

// principalEcho is a handler asserting the expected principal in context
func principalEcho(t *testing.T, wantUserID string, wantAdmin bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := handlers.GetPrincipal(r.Context())
		require.True(t, ok, "principal should be in context")
		assert.Equal(t, wantUserID, principal.UserID)
		assert.Equal(t, wantAdmin, principal.IsAdmin)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

func TestProtect_Success(t *testing.T) {
	logger := setupTestLogger()
	tokens := jwt.NewService([]byte("test-secret-key"), jwt.TokenTTL)
	users := newFakeUserStorage(&models.User{ID: "user123", Email: "ada@example.com", IsAdmin: true})

	token, err := tokens.Issue("user123")
	require.NoError(t, err)

	wrapped := Protect(logger, tokens, users)(principalEcho(t, "user123", true))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestProtect_MissingHeader(t *testing.T) {
	logger := setupTestLogger()
	tokens := jwt.NewService([]byte("test-secret-key"), jwt.TokenTTL)
	users := newFakeUserStorage()

	wrapped := Protect(logger, tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not authorized, no token")
}

func TestProtect_MalformedScheme(t *testing.T) {
	logger := setupTestLogger()
	tokens := jwt.NewService([]byte("test-secret-key"), jwt.TokenTTL)
	users := newFakeUserStorage()

	token, err := tokens.Issue("user123")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"basic scheme", "Basic " + token},
		{"no scheme", token},
		{"empty token", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Protect(logger, tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not be reached")
			}))

			req := httptest.NewRequest(http.MethodGet, "/profile", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestProtect_TamperedToken(t *testing.T) {
	logger := setupTestLogger()
	tokens := jwt.NewService([]byte("test-secret-key"), jwt.TokenTTL)
	users := newFakeUserStorage(&models.User{ID: "user123"})

	token, err := tokens.Issue("user123")
	require.NoError(t, err)

	// Флипаем один символ payload
	tampered := []byte(token)
	idx := strings.Index(token, ".") + 1
	if tampered[idx] == 'A' {
		tampered[idx] = 'B'
	} else {
		tampered[idx] = 'A'
	}

	wrapped := Protect(logger, tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+string(tampered))
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token failed")
}

func TestProtect_ExpiredToken(t *testing.T) {
	logger := setupTestLogger()
	issuer := jwt.NewService([]byte("test-secret-key"), -time.Hour)
	verifier := jwt.NewService([]byte("test-secret-key"), jwt.TokenTTL)
	users := newFakeUserStorage(&models.User{ID: "user123"})

	token, err := issuer.Issue("user123")
	require.NoError(t, err)

	wrapped := Protect(logger, verifier, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// Истекший токен дает отдельное сообщение
	assert.Contains(t, w.Body.String(), "Token expired")
}

func TestProtect_DeletedUser(t *testing.T) {
	logger := setupTestLogger()
	tokens := jwt.NewService([]byte("test-secret-key"), jwt.TokenTTL)
	// Токен валиден, но пользователя уже нет
	users := newFakeUserStorage()

	token, err := tokens.Issue("user123")
	require.NoError(t, err)

	wrapped := Protect(logger, tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}

func TestAdmin_AllowsAdmin(t *testing.T) {
	logger := setupTestLogger()

	wrapped := Admin(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	ctx := handlers.WithPrincipal(req.Context(), handlers.Principal{UserID: "user123", IsAdmin: true})
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdmin_RejectsNonAdmin(t *testing.T) {
	logger := setupTestLogger()

	wrapped := Admin(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	ctx := handlers.WithPrincipal(req.Context(), handlers.Principal{UserID: "user123", IsAdmin: false})
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req.WithContext(ctx))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Not authorized as an admin")
}

func TestAdmin_WithoutProtect(t *testing.T) {
	logger := setupTestLogger()

	wrapped := Admin(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectAdmin_Composed(t *testing.T) {
	logger := setupTestLogger()
	tokens := jwt.NewService([]byte("test-secret-key"), jwt.TokenTTL)
	admin := &models.User{ID: "admin1", Email: "admin@example.com", IsAdmin: true}
	regular := &models.User{ID: "user1", Email: "user@example.com"}
	users := newFakeUserStorage(admin, regular)

	handler := Protect(logger, tokens, users)(Admin(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("admin passes both gates", func(t *testing.T) {
		token, err := tokens.Issue(admin.ID)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("regular user stops at admin gate", func(t *testing.T) {
		token, err := tokens.Issue(regular.ID)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
