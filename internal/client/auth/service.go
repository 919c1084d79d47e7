package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	clientapi "github.com/nethra/sentinel/internal/client/api"
	"github.com/nethra/sentinel/internal/client/session"
	"github.com/nethra/sentinel/pkg/api"
)

// Ошибки клиентского сервиса авторизации
var (
	// ErrInvalidCredentials пробрасывается при отказе логина
	// Сервер не уточняет, email или пароль оказался неверным
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotAuthenticated нет активной сессии или сервер ее отверг
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Gateway абстрагирует серверные вызовы, нужные сервису сессии
type Gateway interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)
	GetProfile(ctx context.Context, token string) (*api.ProfileResponse, error)
	UpdateProfile(ctx context.Context, token string, req api.UpdateProfileRequest) (*api.ProfileResponse, error)
	ChangePassword(ctx context.Context, token string, req api.ChangePasswordRequest) error
}

// Compile-time check that the HTTP client satisfies Gateway
var _ Gateway = (*clientapi.Client)(nil)

// Service держит состояние клиентской сессии и реализует контракт
// login/logout/isAuthenticated поверх SessionStore
type Service struct {
	client Gateway
	store  session.Store

	mu            sync.RWMutex
	authenticated bool
	current       *session.User
	token         string
	scope         session.Scope
}

// NewService создает новый сервис клиентской сессии
func NewService(client Gateway, store session.Store) *Service {
	return &Service{
		client: client,
		store:  store,
	}
}

// Restore восстанавливает сессию из кеша при старте приложения
// Сервер НЕ опрашивается: протухший токен обнаружится на первом
// защищенном запросе. Возвращает true если сессия найдена
func (s *Service) Restore(ctx context.Context) (bool, error) {
	sess, scope, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = true
	s.current = &sess.User
	s.token = sess.Token
	s.scope = scope

	return true, nil
}

// Register регистрирует пользователя и сразу открывает сессию
func (s *Service) Register(ctx context.Context, name, email, password string, rememberMe bool) (*session.User, error) {
	resp, err := s.client.Register(ctx, api.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	return s.openSession(ctx, resp, rememberMe)
}

// Login выполняет аутентификацию и кеширует сессию
// rememberMe выбирает scope: true — переживает перезапуск клиента
func (s *Service) Login(ctx context.Context, email, password string, rememberMe bool) (*session.User, error) {
	resp, err := s.client.Login(ctx, api.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		var reqErr *clientapi.RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusUnauthorized {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return s.openSession(ctx, resp, rememberMe)
}

// Logout очищает оба scope и сбрасывает состояние
// Токены stateless, серверу сообщать нечего
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
	s.current = nil
	s.token = ""

	return nil
}

// IsAuthenticated возвращает текущий флаг аутентификации
func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// CurrentUser возвращает кешированную сводку пользователя
func (s *Service) CurrentUser() (session.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return session.User{}, false
	}
	return *s.current, true
}

// Profile запрашивает свежий профиль с сервера
func (s *Service) Profile(ctx context.Context) (*api.ProfileResponse, error) {
	token, err := s.requireToken()
	if err != nil {
		return nil, err
	}

	resp, err := s.client.GetProfile(ctx, token)
	if err != nil {
		return nil, s.handleProtectedError(ctx, err)
	}

	return resp, nil
}

// UpdateProfile обновляет профиль и кешированную сводку
func (s *Service) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*api.ProfileResponse, error) {
	token, err := s.requireToken()
	if err != nil {
		return nil, err
	}

	resp, err := s.client.UpdateProfile(ctx, token, req)
	if err != nil {
		return nil, s.handleProtectedError(ctx, err)
	}

	// Обновляем кеш в том же scope
	s.mu.Lock()
	scope := s.scope
	user := session.User{
		ID:        resp.ID,
		Name:      resp.Name,
		Email:     resp.Email,
		AvatarURL: resp.AvatarURL,
	}
	s.current = &user
	s.mu.Unlock()

	if err := s.store.Save(ctx, scope, &session.Session{Token: token, User: user}); err != nil {
		return nil, fmt.Errorf("failed to update cached session: %w", err)
	}

	return resp, nil
}

// ChangePassword меняет пароль текущего пользователя
func (s *Service) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	token, err := s.requireToken()
	if err != nil {
		return err
	}

	if err := s.client.ChangePassword(ctx, token, api.ChangePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	}); err != nil {
		return s.handleProtectedError(ctx, err)
	}

	return nil
}

// openSession сохраняет полученные credentials в выбранный scope
func (s *Service) openSession(ctx context.Context, resp *api.AuthResponse, rememberMe bool) (*session.User, error) {
	scope := session.ScopeEphemeral
	if rememberMe {
		scope = session.ScopePersistent
	}

	user := session.User{
		ID:        resp.ID,
		Name:      resp.Name,
		Email:     resp.Email,
		AvatarURL: resp.AvatarURL,
	}

	if err := s.store.Save(ctx, scope, &session.Session{Token: resp.Token, User: user}); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = true
	s.current = &user
	s.token = resp.Token
	s.scope = scope

	return &user, nil
}

// requireToken возвращает токен активной сессии
func (s *Service) requireToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.authenticated || s.token == "" {
		return "", ErrNotAuthenticated
	}
	return s.token, nil
}

// handleProtectedError обрабатывает отказ защищенного запроса
// 401 означает что кешированная сессия протухла: локальное
// состояние сбрасывается, дальше требуется повторный логин
func (s *Service) handleProtectedError(ctx context.Context, err error) error {
	var reqErr *clientapi.RequestError
	if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusUnauthorized {
		if clearErr := s.Logout(ctx); clearErr != nil {
			return fmt.Errorf("%w (failed to clear stale session: %v)", ErrNotAuthenticated, clearErr)
		}
		return ErrNotAuthenticated
	}
	return err
}
