package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL время жизни токена: 30 дней с момента выпуска
const TokenTTL = 30 * 24 * time.Hour

// Ошибки верификации токена
// Middleware различает истекший токен и все остальные отказы
var (
	// ErrTokenExpired indicates that the token signature is valid but the expiry has passed
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates any other verification failure:
	// bad signature, malformed structure, unexpected algorithm
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims представляет содержимое верифицированного токена
type Claims struct {
	UserID    string    // subject — UUID пользователя
	IssuedAt  time.Time // время выпуска
	ExpiresAt time.Time // время истечения
}

// Service выпускает и верифицирует подписанные bearer токены
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService создает новый сервис токенов
// secret должен быть криптографически стойкой случайной строкой,
// одинаковой на всех инстансах сервера
func NewService(secret []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = TokenTTL
	}
	return &Service{
		secret: secret,
		ttl:    ttl,
	}
}

// Issue создает новый подписанный токен для пользователя
func (s *Service) Issue(userID string) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify валидирует токен и возвращает его claims
// Возвращает ErrTokenExpired для истекшего токена,
// ErrTokenInvalid для любого другого отказа
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	result := &Claims{UserID: claims.Subject}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}

	return result, nil
}
