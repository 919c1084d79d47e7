package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nethra/sentinel/internal/server/jwt"
)

// Environment имена окружений
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// devFallbackSecret используется ТОЛЬКО в development окружении
// когда SENTINEL_JWT_SECRET не задан. В production отсутствие секрета —
// фатальная ошибка конфигурации.
const devFallbackSecret = "insecure-dev-secret-do-not-deploy"

// Config содержит конфигурацию сервера
type Config struct {
	Address      string        // адрес HTTP сервера
	DatabasePath string        // путь к файлу SQLite
	JWTSecret    []byte        // секрет подписи токенов
	TokenTTL     time.Duration // время жизни bearer токена
	Env          string        // окружение: development или production
	LogLevel     slog.Level    // уровень логирования

	// InsecureSecret выставлен если используется встроенный dev-секрет
	// Деплой обязан переопределить секрет; сервер логирует предупреждение
	InsecureSecret bool
}

// Load читает конфигурацию из переменных окружения
// Возвращает ошибку если секрет подписи не задан вне development
func Load() (*Config, error) {
	cfg := &Config{
		Address:      getEnv("SENTINEL_ADDRESS", ":8080"),
		DatabasePath: getEnv("SENTINEL_DATABASE", "sentinel.db"),
		TokenTTL:     jwt.TokenTTL,
		Env:          getEnv("SENTINEL_ENV", EnvDevelopment),
		LogLevel:     parseLogLevel(os.Getenv("SENTINEL_LOG_LEVEL")),
	}

	secret := os.Getenv("SENTINEL_JWT_SECRET")
	if secret == "" {
		if cfg.Env != EnvDevelopment {
			return nil, fmt.Errorf("SENTINEL_JWT_SECRET must be set in %s environment", cfg.Env)
		}
		// Явно помечаем деплой-риск в логах при старте (см. cmd/server)
		secret = devFallbackSecret
		cfg.InsecureSecret = true
	}
	cfg.JWTSecret = []byte(secret)

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или fallback
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseLogLevel преобразует строку в slog.Level, по умолчанию Info
func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
