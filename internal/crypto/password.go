package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost фиксированный work factor для хеширования паролей
const BcryptCost = 10

// HashPassword хеширует пароль с использованием bcrypt
// Каждый вызов генерирует новую соль, поэтому хеши одного пароля различаются
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword проверяет, соответствует ли пароль сохраненному хешу
// Сравнение внутри bcrypt устойчиво к timing-атакам
// На некорректный хеш возвращает false, а не ошибку
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
