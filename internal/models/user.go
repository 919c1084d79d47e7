package models

import "time"

// User представляет пользователя в системе
type User struct {
	ID           string    `json:"id"`         // UUID пользователя
	Name         string    `json:"name"`       // отображаемое имя
	Email        string    `json:"email"`      // уникальный email (хранится в нижнем регистре)
	PasswordHash string    `json:"-"`          // bcrypt хеш пароля, никогда не сериализуется
	AvatarURL    string    `json:"avatar_url"` // опциональный URL аватара
	IsAdmin      bool      `json:"is_admin"`   // флаг администратора
	CreatedAt    time.Time `json:"created_at"` // время создания
	UpdatedAt    time.Time `json:"updated_at"` // время последнего обновления
}
