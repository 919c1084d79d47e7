package handlers

import "context"

// contextKey тип для ключей контекста
type contextKey string

// PrincipalKey ключ для хранения аутентифицированного principal в контексте
const PrincipalKey contextKey = "principal"

// Principal представляет аутентифицированную личность запроса
// Живет только в контексте одного запроса, никогда не персистится
type Principal struct {
	UserID  string // UUID пользователя
	IsAdmin bool   // флаг администратора на момент проверки токена
}

// WithPrincipal возвращает контекст с добавленным principal
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// GetPrincipal извлекает principal из контекста запроса
func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(Principal)
	return p, ok
}
