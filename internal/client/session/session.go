package session

import (
	"context"
	"errors"
)

// Scope определяет время жизни сохраненной сессии
type Scope int

const (
	// ScopePersistent сессия переживает перезапуск клиента ("remember me")
	ScopePersistent Scope = iota
	// ScopeEphemeral сессия живет только до завершения процесса
	ScopeEphemeral
)

// String returns scope name for logging
func (s Scope) String() string {
	switch s {
	case ScopePersistent:
		return "persistent"
	case ScopeEphemeral:
		return "ephemeral"
	default:
		return "unknown"
	}
}

// ErrNoSession indicates that no session is cached in any scope
var ErrNoSession = errors.New("no active session")

// User краткая сводка о пользователе, кешируемая вместе с токеном
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// Session представляет кешированную клиентскую сессию
type Session struct {
	Token string `json:"token"` // bearer token
	User  User   `json:"user"`  // сводка пользователя
}

// Store defines the client-side session cache
//
// Exactly one scope holds live data at a time: saving into either
// scope atomically clears the other. Load prefers the persistent
// scope. The cached token is never verified here — staleness is
// discovered lazily when a protected request returns Unauthorized.
type Store interface {
	// Save stores the session in the given scope and clears the other
	Save(ctx context.Context, scope Scope, sess *Session) error

	// Load returns the cached session and the scope it was found in
	// Returns ErrNoSession if neither scope holds data
	Load(ctx context.Context) (*Session, Scope, error)

	// Clear removes session data from both scopes (logout)
	Clear(ctx context.Context) error

	// Close releases underlying resources
	Close() error
}
