package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nethra/sentinel/internal/server/handlers"
	"github.com/nethra/sentinel/internal/server/jwt"
	"github.com/nethra/sentinel/internal/server/storage"
	"github.com/nethra/sentinel/pkg/api"
)

// Protect создает middleware для проверки bearer токена
// Верифицирует токен, загружает пользователя и кладет principal в контекст.
// Истекший токен, невалидный токен и удаленный пользователь дают разные
// сообщения, но один и тот же статус 401
func Protect(logger *slog.Logger, tokens *jwt.Service, users storage.UserStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("missing Authorization header", "path", r.URL.Path)
				unauthorized(w, "Not authorized, no token")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				logger.Warn("invalid Authorization header format")
				unauthorized(w, "Not authorized, no token")
				return
			}

			// Валидируем токен
			claims, err := tokens.Verify(parts[1])
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					logger.Warn("expired access token")
					unauthorized(w, "Token expired")
					return
				}
				logger.Warn("invalid access token", "error", err)
				unauthorized(w, "Not authorized, token failed")
				return
			}

			// Загружаем пользователя: токен мог пережить аккаунт
			user, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, storage.ErrUserNotFound) {
					logger.Warn("token subject no longer exists", "user_id", claims.UserID)
					unauthorized(w, "User not found")
					return
				}
				logger.Error("failed to load user", "error", err)
				writeJSONError(w, "Server error", http.StatusInternalServerError)
				return
			}

			// Добавляем principal в контекст запроса
			principal := handlers.Principal{
				UserID:  user.ID,
				IsAdmin: user.IsAdmin,
			}
			ctx := handlers.WithPrincipal(r.Context(), principal)

			logger.Debug("user authenticated", "user_id", user.ID, "is_admin", user.IsAdmin)

			// Передаем запрос дальше с обновленным контекстом
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin создает middleware, пропускающее только администраторов
// Применяется ПОСЛЕ Protect: principal уже должен быть в контексте
func Admin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := handlers.GetPrincipal(r.Context())
			if !ok {
				// Admin без Protect — ошибка композиции роутов
				logger.Error("admin middleware used without protect", "path", r.URL.Path)
				unauthorized(w, "Not authorized, no token")
				return
			}

			if !principal.IsAdmin {
				logger.Warn("admin access denied", "user_id", principal.UserID)
				writeJSONError(w, "Not authorized as an admin", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// unauthorized отправляет 401 с заданным сообщением
func unauthorized(w http.ResponseWriter, message string) {
	writeJSONError(w, message, http.StatusUnauthorized)
}

// writeJSONError отправляет JSON ошибку без логгера
// middleware не имеет доступа к handlers.sendError
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Message: message})
}
