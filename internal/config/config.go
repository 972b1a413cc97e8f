// Пакет config — загрузка и валидация конфигурации Submission Module
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Бэкенды Document Store.
const (
	// StorageBackendLocal — эмуляция на локальной файловой системе.
	StorageBackendLocal = "local"
	// StorageBackendRemote — удалённое объектное хранилище с credential-авторизацией.
	StorageBackendRemote = "remote"
)

// Config содержит все параметры конфигурации Submission Module.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Таймауты HTTP-сервера
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Document Store ---

	// Бэкенд хранения (local, remote)
	StorageBackend string
	// Директория данных для local-бэкенда
	StorageDir string
	// Базовый URL объектного хранилища для remote-бэкенда
	StorageURL string
	// Имя контейнера документов
	StorageContainer string
	// Bearer-токен доступа к remote-бэкенду (читается из env, не из кода)
	StorageToken string
	// Путь к CA-сертификату для TLS-соединений с хранилищем (опционально)
	StorageCACertPath string
	// Таймаут HTTP-клиента remote-бэкенда
	StorageTimeout time.Duration
	// Максимальный размер загружаемого документа в байтах
	MaxDocumentSize int64

	// --- Enrichment pipeline ---

	// URL триггера внешнего enrichment pipeline (пустой — триггер отключён)
	EnrichmentURL string
	// Bearer-токен для вызовов pipeline (опционально)
	EnrichmentToken string
	// Таймаут исходящего вызова pipeline
	EnrichmentTimeout time.Duration

	// --- Callback auth ---

	// URL JWKS endpoint для проверки JWT на callback-е резюме
	// (пустой — callback принимается без аутентификации)
	CallbackJWKSURL string
	// Ожидаемый issuer JWT callback-а (опционально)
	CallbackIssuer string
	// Scope, обязательный для callback-токена (пустой — не проверяется)
	CallbackRequiredScope string
	// Таймаут HTTP-клиента JWKS
	JWKSClientTimeout time.Duration
	// Интервал обновления JWKS-ключей
	JWKSRefreshInterval time.Duration
	// Допустимое отклонение времени при проверке JWT
	JWTLeeway time.Duration

	// --- Кэш справочника типов ---

	// Максимальное количество записей LRU-кэша типов программ
	TypeCacheSize int
	// TTL записи кэша типов программ
	TypeCacheTTL time.Duration

	// --- topologymetrics ---

	// Имя группы в метриках dephealth
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// SM_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("SM_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("SM_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("SM_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// SM_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("SM_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("SM_LOG_LEVEL: %w", err)
	}

	// SM_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("SM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("SM_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	cfg.HTTPReadTimeout, err = getEnvDuration("SM_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SM_HTTP_READ_TIMEOUT: %w", err)
	}
	cfg.HTTPWriteTimeout, err = getEnvDuration("SM_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SM_HTTP_WRITE_TIMEOUT: %w", err)
	}
	cfg.HTTPIdleTimeout, err = getEnvDuration("SM_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SM_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// SM_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("SM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SM_SHUTDOWN_TIMEOUT: %w", err)
	}

	// --- PostgreSQL ---

	cfg.DBHost, err = getEnvRequired("SM_DB_HOST")
	if err != nil {
		return nil, err
	}
	cfg.DBPort, err = getEnvInt("SM_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("SM_DB_PORT: %w", err)
	}
	cfg.DBName = getEnvDefault("SM_DB_NAME", "progoffice")
	cfg.DBUser, err = getEnvRequired("SM_DB_USER")
	if err != nil {
		return nil, err
	}
	cfg.DBPassword, err = getEnvRequired("SM_DB_PASSWORD")
	if err != nil {
		return nil, err
	}
	cfg.DBSSLMode = getEnvDefault("SM_DB_SSL_MODE", "disable")

	// --- Document Store ---

	// SM_STORAGE_BACKEND — выбор бэкенда делается один раз при старте;
	// для остального кода активный бэкенд невидим.
	cfg.StorageBackend = getEnvDefault("SM_STORAGE_BACKEND", StorageBackendLocal)
	switch cfg.StorageBackend {
	case StorageBackendLocal:
		cfg.StorageDir = getEnvDefault("SM_STORAGE_DIR", "/var/lib/submission-module/documents")
	case StorageBackendRemote:
		cfg.StorageURL, err = getEnvRequired("SM_STORAGE_URL")
		if err != nil {
			return nil, err
		}
		cfg.StorageToken, err = getEnvRequired("SM_STORAGE_TOKEN")
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("SM_STORAGE_BACKEND: недопустимое значение %q, допустимые: local, remote", cfg.StorageBackend)
	}

	cfg.StorageContainer = getEnvDefault("SM_STORAGE_CONTAINER", "program-documents")
	cfg.StorageCACertPath = getEnvDefault("SM_STORAGE_CA_CERT_PATH", "")
	cfg.StorageTimeout, err = getEnvDuration("SM_STORAGE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SM_STORAGE_TIMEOUT: %w", err)
	}

	// SM_MAX_DOCUMENT_SIZE — лимит размера документа (по умолчанию 50 MB)
	maxDoc, err := getEnvInt("SM_MAX_DOCUMENT_SIZE", 50<<20)
	if err != nil {
		return nil, fmt.Errorf("SM_MAX_DOCUMENT_SIZE: %w", err)
	}
	if maxDoc <= 0 {
		return nil, fmt.Errorf("SM_MAX_DOCUMENT_SIZE: значение должно быть положительным")
	}
	cfg.MaxDocumentSize = int64(maxDoc)

	// --- Enrichment pipeline ---

	cfg.EnrichmentURL = getEnvDefault("SM_ENRICHMENT_URL", "")
	cfg.EnrichmentToken = getEnvDefault("SM_ENRICHMENT_TOKEN", "")
	cfg.EnrichmentTimeout, err = getEnvDuration("SM_ENRICHMENT_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SM_ENRICHMENT_TIMEOUT: %w", err)
	}

	// --- Callback auth ---

	cfg.CallbackJWKSURL = getEnvDefault("SM_CALLBACK_JWKS_URL", "")
	cfg.CallbackIssuer = getEnvDefault("SM_CALLBACK_ISSUER", "")
	cfg.CallbackRequiredScope = getEnvDefault("SM_CALLBACK_REQUIRED_SCOPE", "")
	cfg.JWKSClientTimeout, err = getEnvDuration("SM_JWKS_CLIENT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SM_JWKS_CLIENT_TIMEOUT: %w", err)
	}
	cfg.JWKSRefreshInterval, err = getEnvDuration("SM_JWKS_REFRESH_INTERVAL", 1*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("SM_JWKS_REFRESH_INTERVAL: %w", err)
	}
	cfg.JWTLeeway, err = getEnvDuration("SM_JWT_LEEWAY", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SM_JWT_LEEWAY: %w", err)
	}

	// --- Кэш справочника типов ---

	cfg.TypeCacheSize, err = getEnvInt("SM_TYPE_CACHE_SIZE", 128)
	if err != nil {
		return nil, fmt.Errorf("SM_TYPE_CACHE_SIZE: %w", err)
	}
	cfg.TypeCacheTTL, err = getEnvDuration("SM_TYPE_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("SM_TYPE_CACHE_TTL: %w", err)
	}

	// --- topologymetrics ---

	cfg.DephealthGroup = getEnvDefault("SM_DEPHEALTH_GROUP", "progoffice")
	cfg.DephealthCheckInterval, err = getEnvDuration("SM_DEPHEALTH_CHECK_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SM_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL подключения к PostgreSQL (для метрик и миграций).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
