// Точка входа Submission Module — модуль приёма заявок на программы.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// инициализирует Document Store (локальная эмуляция или удалённое хранилище),
// сервисный слой, API handlers, topologymetrics и HTTP-сервер
// с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/arturkryukov/progoffice/submission-module/internal/api/handlers"
	"github.com/arturkryukov/progoffice/submission-module/internal/api/middleware"
	"github.com/arturkryukov/progoffice/submission-module/internal/config"
	"github.com/arturkryukov/progoffice/submission-module/internal/database"
	"github.com/arturkryukov/progoffice/submission-module/internal/enrichment"
	"github.com/arturkryukov/progoffice/submission-module/internal/repository"
	"github.com/arturkryukov/progoffice/submission-module/internal/server"
	"github.com/arturkryukov/progoffice/submission-module/internal/service"
	"github.com/arturkryukov/progoffice/submission-module/internal/storage/docstore"
	"github.com/arturkryukov/progoffice/submission-module/internal/storage/localstore"
	"github.com/arturkryukov/progoffice/submission-module/internal/storage/remotestore"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Submission Module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("storage_backend", cfg.StorageBackend),
	)

	if os.Getenv("SM_DEPHEALTH_GROUP") == "" {
		logger.Warn("SM_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode).
	// Проверка здоровья PostgreSQL идёт через существующий пул соединений,
	// что позволяет обнаружить его исчерпание.
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Document Store: локальная эмуляция или удалённое хранилище.
	// Выбор бэкенда делается один раз здесь; сервисный слой видит
	// только интерфейс docstore.Store.
	var store docstore.Store
	switch cfg.StorageBackend {
	case config.StorageBackendLocal:
		store, err = localstore.New(cfg.StorageDir, cfg.StorageContainer, logger)
		if err != nil {
			logger.Error("Ошибка инициализации локального хранилища",
				slog.String("dir", cfg.StorageDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		logger.Info("Document Store: локальная эмуляция", slog.String("dir", cfg.StorageDir))
	case config.StorageBackendRemote:
		store, err = remotestore.New(
			cfg.StorageURL, cfg.StorageContainer, cfg.StorageToken,
			cfg.StorageCACertPath, cfg.StorageTimeout, logger,
		)
		if err != nil {
			logger.Error("Ошибка инициализации удалённого хранилища",
				slog.String("url", cfg.StorageURL),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		logger.Info("Document Store: удалённое хранилище", slog.String("url", cfg.StorageURL))
	}

	// 6. Repositories
	submissionRepo := repository.NewSubmissionRepository(pool)
	typeRepo := repository.NewProgramTypeRepository(pool)

	// 7. Services
	typeCache := service.NewTypeCache(cfg.TypeCacheSize, cfg.TypeCacheTTL)
	submissionSvc := service.NewSubmissionService(submissionRepo, typeRepo, typeCache, logger)

	enrichClient := enrichment.New(cfg.EnrichmentURL, cfg.EnrichmentToken, cfg.EnrichmentTimeout, logger)
	enrichmentSvc := service.NewEnrichmentService(enrichClient, submissionSvc, logger)
	if enrichClient.Enabled() {
		logger.Info("Enrichment pipeline подключён", slog.String("url", cfg.EnrichmentURL))
	} else {
		logger.Info("Enrichment pipeline отключён (SM_ENRICHMENT_URL не задан)")
	}

	documentSvc := service.NewDocumentService(store, submissionSvc, enrichmentSvc, cfg.MaxDocumentSize, logger)

	// 8. topologymetrics — мониторинг зависимостей (PostgreSQL + хранилище)
	var storageURL string
	if cfg.StorageBackend == config.StorageBackendRemote {
		storageURL = cfg.StorageURL
	}
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"submission-module",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		storageURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 9. Health handler (readiness — PostgreSQL)
	pgChecker := database.NewReadinessChecker(pool)
	healthHandler := handlers.NewHealthHandler(pgChecker)

	// 10. API handler (реализует generated.ServerInterface)
	apiHandler := handlers.NewAPIHandler(healthHandler, submissionSvc, documentSvc, enrichmentSvc, logger)

	// 11. Middleware: метрики, логирование, опциональная аутентификация callback'ов
	middlewares := []func(http.Handler) http.Handler{
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
	}

	if cfg.CallbackJWKSURL != "" {
		callbackAuth, authErr := middleware.NewCallbackAuth(
			cfg.CallbackJWKSURL,
			cfg.StorageCACertPath,
			cfg.CallbackIssuer,
			cfg.CallbackRequiredScope,
			cfg.JWKSClientTimeout,
			cfg.JWKSRefreshInterval,
			cfg.JWTLeeway,
			logger,
		)
		if authErr != nil {
			logger.Error("Ошибка создания callback auth middleware", slog.String("error", authErr.Error()))
			os.Exit(1)
		}
		defer callbackAuth.Close()

		middlewares = append(middlewares, server.OnlyForSummaryCallback(callbackAuth.Middleware()))
		logger.Info("Аутентификация callback'ов включена",
			slog.String("jwks_url", cfg.CallbackJWKSURL),
			slog.String("issuer", cfg.CallbackIssuer),
		)
	} else {
		logger.Warn("SM_CALLBACK_JWKS_URL не задан, callback резюме принимается без аутентификации")
	}

	// 12. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, middlewares...)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 13. Graceful shutdown фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Submission Module остановлен")
}
