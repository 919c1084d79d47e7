package auth

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientapi "github.com/nethra/sentinel/internal/client/api"
	"github.com/nethra/sentinel/internal/client/session"
	"github.com/nethra/sentinel/pkg/api"
)

// fakeGateway is an in-memory Gateway stub
type fakeGateway struct {
	loginResp    *api.AuthResponse
	loginErr     error
	registerResp *api.AuthResponse
	registerErr  error
	profileResp  *api.ProfileResponse
	profileErr   error
	updateResp   *api.ProfileResponse
	updateErr    error
	passwordErr  error

	lastLogin api.LoginRequest
}

func (f *fakeGateway) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	return f.registerResp, f.registerErr
}

func (f *fakeGateway) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	f.lastLogin = req
	return f.loginResp, f.loginErr
}

func (f *fakeGateway) GetProfile(ctx context.Context, token string) (*api.ProfileResponse, error) {
	return f.profileResp, f.profileErr
}

func (f *fakeGateway) UpdateProfile(ctx context.Context, token string, req api.UpdateProfileRequest) (*api.ProfileResponse, error) {
	return f.updateResp, f.updateErr
}

func (f *fakeGateway) ChangePassword(ctx context.Context, token string, req api.ChangePasswordRequest) error {
	return f.passwordErr
}

func adaResponse() *api.AuthResponse {
	return &api.AuthResponse{
		ID:    "user123",
		Name:  "Ada",
		Email: "ada@example.com",
		Token: "issued-token",
	}
}

func setupService(t *testing.T, gw Gateway) (*Service, *session.DualStore) {
	t.Helper()

	store, err := session.NewDualStore(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	return NewService(gw, store), store
}

func TestLogin_RememberMe(t *testing.T) {
	gw := &fakeGateway{loginResp: adaResponse()}
	svc, store := setupService(t, gw)
	ctx := context.Background()

	user, err := svc.Login(ctx, "ada@example.com", "securepass", true)
	require.NoError(t, err)

	assert.Equal(t, "Ada", user.Name)
	assert.True(t, svc.IsAuthenticated())

	// Сессия легла в персистентный scope
	sess, scope, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.ScopePersistent, scope)
	assert.Equal(t, "issued-token", sess.Token)
}

func TestLogin_Ephemeral(t *testing.T) {
	gw := &fakeGateway{loginResp: adaResponse()}
	svc, store := setupService(t, gw)
	ctx := context.Background()

	_, err := svc.Login(ctx, "ada@example.com", "securepass", false)
	require.NoError(t, err)

	_, scope, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.ScopeEphemeral, scope)
}

func TestLogin_RememberSwitchClearsOtherScope(t *testing.T) {
	gw := &fakeGateway{loginResp: adaResponse()}
	svc, store := setupService(t, gw)
	ctx := context.Background()

	// Сначала remembered, потом ephemeral — вторая сессия вытесняет первую
	_, err := svc.Login(ctx, "ada@example.com", "securepass", true)
	require.NoError(t, err)
	_, err = svc.Login(ctx, "ada@example.com", "securepass", false)
	require.NoError(t, err)

	_, scope, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.ScopeEphemeral, scope)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	gw := &fakeGateway{
		loginErr: &clientapi.RequestError{StatusCode: http.StatusUnauthorized, Message: "Invalid email or password"},
	}
	svc, _ := setupService(t, gw)

	_, err := svc.Login(context.Background(), "ada@example.com", "wrongpassword", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, svc.IsAuthenticated())
}

func TestLogout(t *testing.T) {
	gw := &fakeGateway{loginResp: adaResponse()}
	svc, store := setupService(t, gw)
	ctx := context.Background()

	_, err := svc.Login(ctx, "ada@example.com", "securepass", true)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))

	assert.False(t, svc.IsAuthenticated())
	_, ok := svc.CurrentUser()
	assert.False(t, ok)

	_, _, err = store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("no cached session", func(t *testing.T) {
		svc, _ := setupService(t, &fakeGateway{})

		restored, err := svc.Restore(ctx)
		require.NoError(t, err)
		assert.False(t, restored)
		assert.False(t, svc.IsAuthenticated())
	})

	t.Run("restores without contacting server", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "session.db")

		store, err := session.NewDualStore(dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, session.ScopePersistent, &session.Session{
			Token: "cached-token",
			User:  session.User{ID: "user123", Name: "Ada", Email: "ada@example.com"},
		}))
		require.NoError(t, store.Close())

		// Gateway с ошибками на все вызовы: Restore не должен их делать
		reopened, err := session.NewDualStore(dbPath)
		require.NoError(t, err)
		defer reopened.Close()

		svc := NewService(&fakeGateway{}, reopened)
		restored, err := svc.Restore(ctx)
		require.NoError(t, err)
		assert.True(t, restored)
		assert.True(t, svc.IsAuthenticated())

		user, ok := svc.CurrentUser()
		require.True(t, ok)
		assert.Equal(t, "Ada", user.Name)
	})
}

func TestProfile_StaleSessionReset(t *testing.T) {
	gw := &fakeGateway{
		loginResp:  adaResponse(),
		profileErr: &clientapi.RequestError{StatusCode: http.StatusUnauthorized, Message: "Token expired"},
	}
	svc, store := setupService(t, gw)
	ctx := context.Background()

	_, err := svc.Login(ctx, "ada@example.com", "securepass", true)
	require.NoError(t, err)

	// Сервер отверг токен: локальная сессия сбрасывается
	_, err = svc.Profile(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.False(t, svc.IsAuthenticated())

	_, _, err = store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestProfile_NotAuthenticated(t *testing.T) {
	svc, _ := setupService(t, &fakeGateway{})

	_, err := svc.Profile(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestUpdateProfile_RefreshesCache(t *testing.T) {
	gw := &fakeGateway{
		loginResp: adaResponse(),
		updateResp: &api.ProfileResponse{
			ID:    "user123",
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
		},
	}
	svc, store := setupService(t, gw)
	ctx := context.Background()

	_, err := svc.Login(ctx, "ada@example.com", "securepass", true)
	require.NoError(t, err)

	name := "Ada Lovelace"
	_, err = svc.UpdateProfile(ctx, api.UpdateProfileRequest{Name: &name})
	require.NoError(t, err)

	user, ok := svc.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", user.Name)

	// Кеш в хранилище тоже обновлен, scope сохранен
	sess, scope, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.ScopePersistent, scope)
	assert.Equal(t, "Ada Lovelace", sess.User.Name)
}
