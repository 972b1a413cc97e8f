// enrichment.go — координатор обогащения: fire-and-forget уведомление
// внешнего конвейера и приём callback с резюме.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arturkryukov/progoffice/submission-module/internal/domain/model"
	"github.com/arturkryukov/progoffice/submission-module/internal/enrichment"
)

// Prometheus-метрики обогащения.
var (
	enrichmentNotifyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sm_enrichment_notify_total",
		Help: "Общее количество уведомлений конвейера обогащения с разбивкой по результату.",
	}, []string{"result"})
	summaryCallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sm_summary_callbacks_total",
		Help: "Общее количество принятых callback с резюме с разбивкой по результату.",
	}, []string{"result"})
)

// notifyTimeout — таймаут фонового уведомления конвейера.
const notifyTimeout = 30 * time.Second

// EnrichmentService — координатор асинхронного обогащения документов.
type EnrichmentService struct {
	client     *enrichment.Client
	submission *SubmissionService
	logger     *slog.Logger
}

// NewEnrichmentService создаёт координатор обогащения.
func NewEnrichmentService(client *enrichment.Client, submission *SubmissionService, logger *slog.Logger) *EnrichmentService {
	return &EnrichmentService{
		client:     client,
		submission: submission,
		logger:     logger.With(slog.String("component", "enrichment_service")),
	}
}

// NotifyDocumentAvailable уведомляет конвейер о новом документе заявки.
// Fire-and-forget: уведомление уходит в фоновой goroutine с собственным
// контекстом, чтобы не зависеть от завершения HTTP-запроса клиента.
// Исход уведомления не виден вызывающему коду.
func (s *EnrichmentService) NotifyDocumentAvailable(submissionID, locator string) {
	if !s.client.Enabled() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.client.Notify(ctx, submissionID, locator); err != nil {
			enrichmentNotifyTotal.WithLabelValues("error").Inc()
			s.logger.Warn("Не удалось уведомить конвейер обогащения",
				slog.String("submission_id", submissionID),
				slog.Any("error", err),
			)
			return
		}
		enrichmentNotifyTotal.WithLabelValues("success").Inc()
	}()
}

// ReceiveSummary — входная точка callback конвейера.
// Делегирует AttachSummary; знания о состоянии породившей задачи
// обогащения у модуля нет, резюме применяется безусловно.
func (s *EnrichmentService) ReceiveSummary(ctx context.Context, submissionID, summaryText string) (*model.Submission, error) {
	submission, err := s.submission.AttachSummary(ctx, submissionID, summaryText)
	if err != nil {
		summaryCallbacksTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	summaryCallbacksTotal.WithLabelValues("success").Inc()
	return submission, nil
}
