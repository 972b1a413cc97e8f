// handler.go — основной обработчик API, реализующий generated.ServerInterface.
// Объединяет доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/arturkryukov/progoffice/submission-module/internal/api/generated"
	"github.com/arturkryukov/progoffice/submission-module/internal/domain/model"
	"github.com/arturkryukov/progoffice/submission-module/internal/service"
)

// APIHandler — основной обработчик API Submission Module.
// Реализует generated.ServerInterface, делегируя запросы в сервисный слой.
type APIHandler struct {
	health      *HealthHandler
	submissions *service.SubmissionService
	documents   *service.DocumentService
	enrichment  *service.EnrichmentService
	logger      *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	submissions *service.SubmissionService,
	documents *service.DocumentService,
	enrichment *service.EnrichmentService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:      health,
		submissions: submissions,
		documents:   documents,
		enrichment:  enrichment,
		logger:      logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON разбирает JSON-тело запроса, отклоняя неизвестные поля.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// mapSubmission преобразует доменную заявку в DTO ответа.
func mapSubmission(s *model.Submission) generated.Submission {
	result := generated.Submission{
		Name:        s.Name,
		Description: s.Description,
		ProgramType: generated.ProgramType{
			Id:     s.ProgramTypeID,
			NameEn: s.ProgramTypeNameEn,
			NameFr: s.ProgramTypeNameFr,
		},
		Status:    generated.SubmissionStatus(s.Status),
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	// UUID хранится строкой; ошибки разбора быть не может — ID генерирует модуль
	_ = result.Id.UnmarshalText([]byte(s.ID))

	result.SubmittedBy = s.SubmittedBy
	result.ReviewedBy = s.ReviewedBy
	result.ReviewComments = s.ReviewComments
	result.DocumentRef = s.DocumentRef
	result.Budget = s.Budget
	result.AiSummary = s.AISummary
	result.AiSummaryGeneratedAt = s.AISummaryGeneratedAt

	return result
}
