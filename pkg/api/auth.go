package api

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Name     string `json:"name"`     // отображаемое имя
	Email    string `json:"email"`    // email пользователя
	Password string `json:"password"` // пароль (минимум 8 символов)
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`    // email пользователя
	Password string `json:"password"` // пароль
}

// AuthResponse представляет ответ на успешную регистрацию или логин
type AuthResponse struct {
	ID        string `json:"id"`        // UUID пользователя
	Name      string `json:"name"`      // отображаемое имя
	Email     string `json:"email"`     // email
	AvatarURL string `json:"avatarURL"` // URL аватара
	Token     string `json:"token"`     // bearer token для последующих запросов
}

// ProfileResponse представляет публичный профиль пользователя
type ProfileResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarURL"`
}

// UpdateProfileRequest представляет частичное обновление профиля
// Каждое поле опционально; nil означает "не менять"
type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	AvatarURL *string `json:"avatarURL,omitempty"`
}

// ChangePasswordRequest представляет запрос на смену пароля
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"` // текущий пароль
	NewPassword     string `json:"newPassword"`     // новый пароль (минимум 8 символов)
}

// UsersResponse представляет список пользователей (admin only)
type UsersResponse struct {
	Users []ProfileResponse `json:"users"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Message string `json:"message"` // описание ошибки
}

// FieldError описывает ошибку валидации одного поля в ответе API
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse представляет ответ с ошибками валидации по полям
type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}
