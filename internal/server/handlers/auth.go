package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nethra/sentinel/internal/crypto"
	"github.com/nethra/sentinel/internal/models"
	"github.com/nethra/sentinel/internal/server/jwt"
	"github.com/nethra/sentinel/internal/server/storage"
	"github.com/nethra/sentinel/internal/validation"
	"github.com/nethra/sentinel/pkg/api"
)

// Ответы сервера не различают "email не найден" и "пароль не подошел",
// чтобы не допустить перебор зарегистрированных адресов
const msgInvalidCredentials = "Invalid email or password"

// AuthHandler обрабатывает запросы регистрации, логина и профиля
type AuthHandler struct {
	logger      *slog.Logger
	userStorage storage.UserStorage
	tokens      *jwt.Service
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, userStorage storage.UserStorage, tokens *jwt.Service) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		userStorage: userStorage,
		tokens:      tokens,
	}
}

// Register обрабатывает POST /register
// Регистрация нового пользователя
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Парсим request body
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Валидация всех полей, ошибки собираются по полям
	if errs := validation.ValidateRegistration(req.Name, req.Email, req.Password); len(errs) > 0 {
		h.logger.WarnContext(ctx, "invalid registration input", slog.Any("errors", errs))
		sendValidationErrors(h.logger, w, errs)
		return
	}

	// Хешируем пароль. Plaintext дальше этой точки не живет
	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "Server error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        validation.NormalizeEmail(req.Email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Сохраняем в БД; уникальность email гарантирует хранилище
	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			h.logger.WarnContext(ctx, "email already registered", slog.String("email", user.Email))
			sendError(h.logger, w, "User already exists", http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendError(h.logger, w, "Server error", http.StatusInternalServerError)
		return
	}

	// Выпускаем токен
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue token", slog.Any("error", err))
		sendError(h.logger, w, "Server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email))

	sendJSON(h.logger, w, api.AuthResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		Token:     token,
	}, http.StatusCreated)
}

// Login обрабатывает POST /login
// Аутентификация пользователя
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Ищем пользователя по email
	user, err := h.userStorage.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login failed: unknown email")
			sendError(h.logger, w, msgInvalidCredentials, http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "Server error", http.StatusInternalServerError)
		return
	}

	// Проверяем пароль
	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		h.logger.WarnContext(ctx, "login failed: wrong password", slog.String("user_id", user.ID))
		sendError(h.logger, w, msgInvalidCredentials, http.StatusUnauthorized)
		return
	}

	// Выпускаем токен
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue token", slog.Any("error", err))
		sendError(h.logger, w, "Server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	sendJSON(h.logger, w, api.AuthResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		Token:     token,
	}, http.StatusOK)
}

// GetProfile обрабатывает GET /profile
// Возвращает публичные поля текущего пользователя
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := GetPrincipal(ctx)
	if !ok {
		sendError(h.logger, w, "Not authorized, no token", http.StatusUnauthorized)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Пользователь удален между выпуском токена и запросом
			h.logger.WarnContext(ctx, "profile owner no longer exists", slog.String("user_id", principal.UserID))
			sendError(h.logger, w, "User not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "Server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, profileResponse(user), http.StatusOK)
}

// UpdateProfile обрабатывает PUT /profile
// Частичное обновление: name, email, avatarURL; каждое поле опционально
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := GetPrincipal(ctx)
	if !ok {
		sendError(h.logger, w, "Not authorized, no token", http.StatusUnauthorized)
		return
	}

	var req api.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode update request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "User not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "Server error", http.StatusInternalServerError)
		return
	}

	// Применяем только переданные поля и перепроверяем их
	var errs validation.Errors
	if req.Name != nil {
		if err := validation.ValidateName(*req.Name); err != nil {
			errs = append(errs, err.(validation.FieldError))
		} else {
			user.Name = *req.Name
		}
	}
	if req.Email != nil {
		if err := validation.ValidateEmail(*req.Email); err != nil {
			errs = append(errs, err.(validation.FieldError))
		} else {
			user.Email = validation.NormalizeEmail(*req.Email)
		}
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if len(errs) > 0 {
		sendValidationErrors(h.logger, w, errs)
		return
	}

	if err := h.userStorage.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrEmailTaken):
			sendError(h.logger, w, "User already exists", http.StatusBadRequest)
		case errors.Is(err, storage.ErrUserNotFound):
			sendError(h.logger, w, "User not found", http.StatusNotFound)
		default:
			h.logger.ErrorContext(ctx, "failed to update user", slog.Any("error", err))
			sendError(h.logger, w, "Server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "profile updated", slog.String("user_id", user.ID))

	sendJSON(h.logger, w, profileResponse(user), http.StatusOK)
}

// ChangePassword обрабатывает POST /password
// Выделенный путь смены пароля: только здесь вызывается повторное хеширование
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := GetPrincipal(ctx)
	if !ok {
		sendError(h.logger, w, "Not authorized, no token", http.StatusUnauthorized)
		return
	}

	var req api.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode password request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidatePassword(req.NewPassword); err != nil {
		sendValidationErrors(h.logger, w, validation.Errors{err.(validation.FieldError)})
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "User not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "Server error", http.StatusInternalServerError)
		return
	}

	// Смена пароля требует подтверждения текущим паролем
	if !crypto.VerifyPassword(req.CurrentPassword, user.PasswordHash) {
		h.logger.WarnContext(ctx, "password change failed: wrong current password", slog.String("user_id", user.ID))
		sendError(h.logger, w, msgInvalidCredentials, http.StatusUnauthorized)
		return
	}

	passwordHash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "Server error", http.StatusInternalServerError)
		return
	}

	if err := h.userStorage.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		h.logger.ErrorContext(ctx, "failed to update password", slog.Any("error", err))
		sendError(h.logger, w, "Server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "password changed", slog.String("user_id", user.ID))

	w.WriteHeader(http.StatusNoContent)
}

// ListUsers обрабатывает GET /admin/users
// Только для администраторов (гарантируется middleware.Admin)
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.userStorage.ListUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		sendError(h.logger, w, "Server error", http.StatusInternalServerError)
		return
	}

	resp := api.UsersResponse{Users: make([]api.ProfileResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, profileResponse(u))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// profileResponse собирает публичное представление пользователя
func profileResponse(u *models.User) api.ProfileResponse {
	return api.ProfileResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}
