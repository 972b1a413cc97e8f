package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

// smEnvKeys — все переменные окружения SM_*, очищаются перед каждым тестом.
var smEnvKeys = []string{
	"SM_PORT", "SM_LOG_LEVEL", "SM_LOG_FORMAT",
	"SM_HTTP_READ_TIMEOUT", "SM_HTTP_WRITE_TIMEOUT", "SM_HTTP_IDLE_TIMEOUT",
	"SM_SHUTDOWN_TIMEOUT",
	"SM_DB_HOST", "SM_DB_PORT", "SM_DB_NAME", "SM_DB_USER", "SM_DB_PASSWORD", "SM_DB_SSL_MODE",
	"SM_STORAGE_BACKEND", "SM_STORAGE_DIR", "SM_STORAGE_URL", "SM_STORAGE_CONTAINER",
	"SM_STORAGE_TOKEN", "SM_STORAGE_CA_CERT_PATH", "SM_STORAGE_TIMEOUT",
	"SM_MAX_DOCUMENT_SIZE",
	"SM_ENRICHMENT_URL", "SM_ENRICHMENT_TOKEN", "SM_ENRICHMENT_TIMEOUT",
	"SM_CALLBACK_JWKS_URL", "SM_CALLBACK_ISSUER", "SM_CALLBACK_REQUIRED_SCOPE",
	"SM_JWKS_CLIENT_TIMEOUT", "SM_JWKS_REFRESH_INTERVAL", "SM_JWT_LEEWAY",
	"SM_TYPE_CACHE_SIZE", "SM_TYPE_CACHE_TTL",
	"SM_DEPHEALTH_GROUP", "SM_DEPHEALTH_CHECK_INTERVAL",
}

// setEnv очищает все SM_* переменные и устанавливает переданные.
// Откат выполняется через t.Cleanup.
func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()

	originals := make(map[string]string)
	origSet := make(map[string]bool)
	for _, k := range smEnvKeys {
		if v, ok := os.LookupEnv(k); ok {
			originals[k] = v
			origSet[k] = true
		}
		os.Unsetenv(k)
	}

	for k, v := range vars {
		os.Setenv(k, v)
	}

	t.Cleanup(func() {
		for _, k := range smEnvKeys {
			if origSet[k] {
				os.Setenv(k, originals[k])
			} else {
				os.Unsetenv(k)
			}
		}
	})
}

// requiredEnv — минимальный набор обязательных переменных.
func requiredEnv() map[string]string {
	return map[string]string{
		"SM_DB_HOST":     "localhost",
		"SM_DB_USER":     "progoffice",
		"SM_DB_PASSWORD": "secret",
	}
}

// TestLoad_Defaults проверяет значения по умолчанию при минимальной конфигурации.
func TestLoad_Defaults(t *testing.T) {
	setEnv(t, requiredEnv())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load(): неожиданная ошибка: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port: ожидалось 8080, получено %d", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel: ожидался info, получен %v", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: ожидался json, получен %q", cfg.LogFormat)
	}
	if cfg.StorageBackend != StorageBackendLocal {
		t.Errorf("StorageBackend: ожидался local, получен %q", cfg.StorageBackend)
	}
	if cfg.StorageContainer != "program-documents" {
		t.Errorf("StorageContainer: ожидался program-documents, получен %q", cfg.StorageContainer)
	}
	if cfg.MaxDocumentSize != 50<<20 {
		t.Errorf("MaxDocumentSize: ожидалось %d, получено %d", 50<<20, cfg.MaxDocumentSize)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout: ожидалось 5s, получено %v", cfg.ShutdownTimeout)
	}
	if cfg.EnrichmentURL != "" {
		t.Errorf("EnrichmentURL: ожидалась пустая строка, получено %q", cfg.EnrichmentURL)
	}
	if cfg.TypeCacheSize != 128 {
		t.Errorf("TypeCacheSize: ожидалось 128, получено %d", cfg.TypeCacheSize)
	}
}

// TestLoad_MissingRequired проверяет ошибки при отсутствии обязательных переменных.
func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{"без SM_DB_HOST", "SM_DB_HOST"},
		{"без SM_DB_USER", "SM_DB_USER"},
		{"без SM_DB_PASSWORD", "SM_DB_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := requiredEnv()
			delete(env, tt.omit)
			setEnv(t, env)

			if _, err := Load(); err == nil {
				t.Errorf("Load() без %s: ожидалась ошибка", tt.omit)
			}
		})
	}
}

// TestLoad_RemoteBackend проверяет обязательность URL и токена для remote-бэкенда.
func TestLoad_RemoteBackend(t *testing.T) {
	env := requiredEnv()
	env["SM_STORAGE_BACKEND"] = "remote"
	setEnv(t, env)

	if _, err := Load(); err == nil {
		t.Fatal("Load() remote без SM_STORAGE_URL: ожидалась ошибка")
	}

	env["SM_STORAGE_URL"] = "https://blobs.example.gov"
	env["SM_STORAGE_TOKEN"] = "sas-token"
	setEnv(t, env)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load(): неожиданная ошибка: %v", err)
	}
	if cfg.StorageBackend != StorageBackendRemote {
		t.Errorf("StorageBackend: ожидался remote, получен %q", cfg.StorageBackend)
	}
	if cfg.StorageURL != "https://blobs.example.gov" {
		t.Errorf("StorageURL: получено %q", cfg.StorageURL)
	}
}

// TestLoad_InvalidValues проверяет отклонение некорректных значений.
func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"нечисловой порт", "SM_PORT", "abc"},
		{"порт вне диапазона", "SM_PORT", "70000"},
		{"неизвестный уровень логов", "SM_LOG_LEVEL", "verbose"},
		{"неизвестный формат логов", "SM_LOG_FORMAT", "xml"},
		{"неизвестный бэкенд", "SM_STORAGE_BACKEND", "s3"},
		{"некорректная длительность", "SM_SHUTDOWN_TIMEOUT", "five seconds"},
		{"отрицательный лимит документа", "SM_MAX_DOCUMENT_SIZE", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := requiredEnv()
			env[tt.key] = tt.val
			setEnv(t, env)

			if _, err := Load(); err == nil {
				t.Errorf("Load() с %s=%q: ожидалась ошибка", tt.key, tt.val)
			}
		})
	}
}

// TestDatabaseDSN проверяет формат строки подключения.
func TestDatabaseDSN(t *testing.T) {
	env := requiredEnv()
	env["SM_DB_PORT"] = "5433"
	env["SM_DB_NAME"] = "progoffice_test"
	setEnv(t, env)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load(): неожиданная ошибка: %v", err)
	}

	want := "host=localhost port=5433 dbname=progoffice_test user=progoffice password=secret sslmode=disable"
	if got := cfg.DatabaseDSN(); got != want {
		t.Errorf("DatabaseDSN():\nожидалось %q\nполучено  %q", want, got)
	}
}
