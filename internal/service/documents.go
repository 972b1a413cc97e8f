// documents.go — сервис документов заявок: загрузка в хранилище,
// привязка локатора и streaming-выдача на скачивание.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arturkryukov/progoffice/submission-module/internal/storage/docstore"
)

// Prometheus-метрики документов.
var (
	documentUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sm_document_uploads_total",
		Help: "Общее количество загрузок документов с разбивкой по результату.",
	}, []string{"result"})
	documentDownloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sm_document_downloads_total",
		Help: "Общее количество скачиваний документов.",
	})
)

// DocumentDownload — подготовленная к выдаче загрузка документа.
// Вызывающий код обязан закрыть Body на всех путях выхода.
type DocumentDownload struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
	// Filename — имя файла для Content-Disposition, последний сегмент локатора
	Filename string
}

// DocumentService — загрузка и выдача документов заявок.
type DocumentService struct {
	store      docstore.Store
	submission *SubmissionService
	enrichment *EnrichmentService
	maxSize    int64
	logger     *slog.Logger
}

// NewDocumentService создаёт сервис документов.
// maxSize — максимальный размер принимаемого документа в байтах.
func NewDocumentService(
	store docstore.Store,
	submission *SubmissionService,
	enrichment *EnrichmentService,
	maxSize int64,
	logger *slog.Logger,
) *DocumentService {
	return &DocumentService{
		store:      store,
		submission: submission,
		enrichment: enrichment,
		maxSize:    maxSize,
		logger:     logger.With(slog.String("component", "document_service")),
	}
}

// MaxDocumentSize возвращает лимит размера документа в байтах.
func (s *DocumentService) MaxDocumentSize() int64 {
	return s.maxSize
}

// AttachBestEffort загружает документ и привязывает его к заявке.
// Ошибка загрузки или привязки НЕ фатальна: заявка уже сохранена,
// сбой логируется и не возвращается вызывающему коду. Используется
// на пути создания заявки.
func (s *DocumentService) AttachBestEffort(ctx context.Context, submissionID, filename string, r io.Reader) {
	locator, err := s.attach(ctx, submissionID, filename, r)
	if err != nil {
		documentUploadsTotal.WithLabelValues("error").Inc()
		s.logger.Warn("Не удалось прикрепить документ к заявке, заявка сохранена без документа",
			slog.String("submission_id", submissionID),
			slog.String("filename", filename),
			slog.Any("error", err),
		)
		return
	}

	documentUploadsTotal.WithLabelValues("success").Inc()
	s.logger.Info("Документ прикреплён к заявке",
		slog.String("submission_id", submissionID),
		slog.String("locator", locator),
	)
}

// attach выполняет Put в хранилище, привязку локатора и уведомление
// конвейера обогащения.
func (s *DocumentService) attach(ctx context.Context, submissionID, filename string, r io.Reader) (string, error) {
	locator, err := s.store.Put(ctx, submissionID, filename, r)
	if err != nil {
		return "", fmt.Errorf("загрузка документа в хранилище: %w", err)
	}

	if _, err := s.submission.AttachDocumentRef(ctx, submissionID, locator); err != nil {
		return "", fmt.Errorf("привязка локатора к заявке: %w", err)
	}

	s.enrichment.NotifyDocumentAvailable(submissionID, locator)
	return locator, nil
}

// Download подготавливает документ заявки к streaming-выдаче.
// Возвращает ErrNotFound для неизвестной заявки, ErrNoDocument —
// для заявки без документа.
func (s *DocumentService) Download(ctx context.Context, submissionID string) (*DocumentDownload, error) {
	submission, err := s.submission.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.DocumentRef == nil {
		return nil, ErrNoDocument
	}

	locator := *submission.DocumentRef

	info, err := s.store.Metadata(ctx, locator)
	if err != nil {
		return nil, classifyStoreError(locator, err)
	}

	body, err := s.store.Open(ctx, locator)
	if err != nil {
		return nil, classifyStoreError(locator, err)
	}

	documentDownloadsTotal.Inc()

	return &DocumentDownload{
		Body:        body,
		ContentType: info.ContentType,
		Size:        info.Size,
		Filename:    downloadFilename(locator),
	}, nil
}

// classifyStoreError переводит ошибки хранилища в ошибки сервисного слоя.
// Битый или осиротевший локатор — NotFound для клиента, остальное —
// недоступность хранилища.
func classifyStoreError(locator string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) || errors.Is(err, docstore.ErrMalformedLocator) {
		return fmt.Errorf("%w: локатор %s", ErrNotFound, locator)
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

// downloadFilename извлекает имя файла из локатора для Content-Disposition.
func downloadFilename(locator string) string {
	name := path.Base(locator)
	if name == "." || name == "/" || name == "" {
		return "document.pdf"
	}
	return name
}
