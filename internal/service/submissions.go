// Пакет service — бизнес-логика Submission Module.
// submissions.go — жизненный цикл заявок: создание, решение проверяющего,
// прикрепление документа и резюме, чтение и поиск.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arturkryukov/progoffice/submission-module/internal/domain/lifecycle"
	"github.com/arturkryukov/progoffice/submission-module/internal/domain/model"
	"github.com/arturkryukov/progoffice/submission-module/internal/repository"
)

// Лимиты полей заявки.
const (
	maxNameLen        = 200
	maxIdentifierLen  = 100
	maxSummaryLen     = 10000
	maxDocumentRefLen = 500

	// maxWriteRetries — количество повторов записи при конфликте версий.
	maxWriteRetries = 3
)

// Prometheus-метрики жизненного цикла заявок.
var (
	submissionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sm_submissions_created_total",
		Help: "Общее количество созданных заявок.",
	})
	submissionsReviewedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sm_submissions_reviewed_total",
		Help: "Общее количество решений по заявкам с разбивкой по статусу.",
	}, []string{"status"})
	versionConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sm_version_conflicts_total",
		Help: "Общее количество конфликтов версий при записи заявок.",
	})
)

// CreateSubmissionInput — входные данные создания заявки.
type CreateSubmissionInput struct {
	Name          string
	Description   string
	ProgramTypeID int
	SubmittedBy   *string
	Budget        *float64
}

// ReviewInput — входные данные решения проверяющего.
type ReviewInput struct {
	Decision string
	Reviewer string
	Comments string
}

// SubmissionService — сервис жизненного цикла заявок.
type SubmissionService struct {
	repo      repository.SubmissionRepository
	typeRepo  repository.ProgramTypeRepository
	typeCache *TypeCache
	logger    *slog.Logger
}

// NewSubmissionService создаёт сервис заявок.
func NewSubmissionService(
	repo repository.SubmissionRepository,
	typeRepo repository.ProgramTypeRepository,
	typeCache *TypeCache,
	logger *slog.Logger,
) *SubmissionService {
	return &SubmissionService{
		repo:      repo,
		typeRepo:  typeRepo,
		typeCache: typeCache,
		logger:    logger.With(slog.String("component", "submission_service")),
	}
}

// Create валидирует входные данные и создаёт заявку в статусе SUBMITTED.
// Несуществующий тип программы — ошибка валидации, заявка не сохраняется.
func (s *SubmissionService) Create(ctx context.Context, input CreateSubmissionInput) (*model.Submission, error) {
	if verr := validateCreate(input); verr != nil {
		return nil, verr
	}

	pt, err := s.resolveProgramType(ctx, input.ProgramTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewValidationError("program_type_id",
				fmt.Sprintf("тип программы %d не существует", input.ProgramTypeID))
		}
		return nil, fmt.Errorf("проверка типа программы: %w", err)
	}

	submission := &model.Submission{
		ID:                uuid.New().String(),
		Name:              strings.TrimSpace(input.Name),
		Description:       strings.TrimSpace(input.Description),
		ProgramTypeID:     pt.ID,
		ProgramTypeNameEn: pt.NameEn,
		ProgramTypeNameFr: pt.NameFr,
		Status:            lifecycle.Initial(),
		SubmittedBy:       trimOptional(input.SubmittedBy),
		Budget:            input.Budget,
	}

	if err := s.repo.Create(ctx, submission); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// FK-гонка: тип удалён между проверкой и вставкой
			return nil, NewValidationError("program_type_id",
				fmt.Sprintf("тип программы %d не существует", input.ProgramTypeID))
		}
		return nil, fmt.Errorf("сохранение заявки: %w", err)
	}

	submissionsCreatedTotal.Inc()
	s.logger.Info("Создана заявка",
		slog.String("submission_id", submission.ID),
		slog.String("name", submission.Name),
		slog.Int("program_type_id", submission.ProgramTypeID),
	)

	return submission, nil
}

// Get возвращает заявку по ID.
func (s *SubmissionService) Get(ctx context.Context, id string) (*model.Submission, error) {
	submission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("чтение заявки: %w", err)
	}
	return submission, nil
}

// List возвращает заявки с фильтрацией. Пустой или пробельный поисковый
// запрос трактуется как отсутствие фильтра.
func (s *SubmissionService) List(ctx context.Context, search, status, submittedBy *string) ([]*model.Submission, error) {
	filters := repository.SubmissionListFilters{
		Search:      trimOptional(search),
		SubmittedBy: trimOptional(submittedBy),
	}

	if st := trimOptional(status); st != nil {
		normalized := lifecycle.Status(strings.ToUpper(*st))
		if !lifecycle.IsValid(normalized) {
			return nil, NewValidationError("status",
				fmt.Sprintf("неизвестный статус %q", *st))
		}
		v := string(normalized)
		filters.Status = &v
	}

	submissions, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("поиск заявок: %w", err)
	}
	return submissions, nil
}

// Review записывает решение проверяющего: переводит заявку в APPROVED
// или REJECTED и сохраняет reviewer/comments. Повторное решение по
// терминальной заявке не блокируется и перезаписывает предыдущее.
// Конфликт версий с конкурирующей записью разрешается повтором.
func (s *SubmissionService) Review(ctx context.Context, id string, input ReviewInput) (*model.Submission, error) {
	decision, err := lifecycle.ParseDecision(input.Decision)
	if err != nil {
		return nil, err
	}

	reviewer := strings.TrimSpace(input.Reviewer)
	if reviewer == "" {
		return nil, NewValidationError("reviewed_by", "поле обязательно")
	}
	if utf8.RuneCountInString(reviewer) > maxIdentifierLen {
		return nil, NewValidationError("reviewed_by",
			fmt.Sprintf("длина не должна превышать %d символов", maxIdentifierLen))
	}
	comments := strings.TrimSpace(input.Comments)
	if comments == "" {
		return nil, NewValidationError("review_comments", "поле обязательно")
	}

	return s.updateWithRetry(ctx, id, func(submission *model.Submission) {
		submission.Status = decision
		submission.ReviewedBy = &reviewer
		submission.ReviewComments = &comments
	}, func(submission *model.Submission) error {
		return s.repo.UpdateReview(ctx, submission)
	}, func(submission *model.Submission) {
		submissionsReviewedTotal.WithLabelValues(string(decision)).Inc()
		s.logger.Info("Записано решение по заявке",
			slog.String("submission_id", id),
			slog.String("status", string(decision)),
			slog.String("reviewed_by", reviewer),
		)
	})
}

// AttachDocumentRef прикрепляет локатор документа к заявке в любом статусе.
// Статус заявки не меняется.
func (s *SubmissionService) AttachDocumentRef(ctx context.Context, id, locator string) (*model.Submission, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return nil, NewValidationError("document_ref", "поле обязательно")
	}
	if utf8.RuneCountInString(locator) > maxDocumentRefLen {
		return nil, NewValidationError("document_ref",
			fmt.Sprintf("длина не должна превышать %d символов", maxDocumentRefLen))
	}

	return s.updateWithRetry(ctx, id, func(submission *model.Submission) {
		submission.DocumentRef = &locator
	}, func(submission *model.Submission) error {
		return s.repo.UpdateDocumentRef(ctx, submission)
	}, nil)
}

// AttachSummary записывает резюме и время его получения независимо от
// текущего статуса заявки. Поздний callback перезаписывает ранний.
func (s *SubmissionService) AttachSummary(ctx context.Context, id, summaryText string) (*model.Submission, error) {
	summary := strings.TrimSpace(summaryText)
	if summary == "" {
		return nil, NewValidationError("summary", "поле обязательно")
	}
	if utf8.RuneCountInString(summary) > maxSummaryLen {
		return nil, NewValidationError("summary",
			fmt.Sprintf("длина не должна превышать %d символов", maxSummaryLen))
	}

	generatedAt := time.Now().UTC()

	return s.updateWithRetry(ctx, id, func(submission *model.Submission) {
		submission.AISummary = &summary
		submission.AISummaryGeneratedAt = &generatedAt
	}, func(submission *model.Submission) error {
		return s.repo.UpdateSummary(ctx, submission)
	}, func(submission *model.Submission) {
		s.logger.Info("Резюме прикреплено к заявке",
			slog.String("submission_id", id),
			slog.Int("summary_len", len(summary)),
		)
	})
}

// updateWithRetry читает заявку, применяет mutate и пишет через write.
// При ErrVersionConflict перечитывает и повторяет до maxWriteRetries раз:
// побеждает последняя запись, но reviewer/comments не перемешиваются
// между конкурирующими решениями.
func (s *SubmissionService) updateWithRetry(
	ctx context.Context,
	id string,
	mutate func(*model.Submission),
	write func(*model.Submission) error,
	onSuccess func(*model.Submission),
) (*model.Submission, error) {
	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		submission, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("чтение заявки: %w", err)
		}

		mutate(submission)

		err = write(submission)
		if err == nil {
			if onSuccess != nil {
				onSuccess(submission)
			}
			return submission, nil
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrVersionConflict) {
			versionConflictsTotal.Inc()
			s.logger.Warn("Конфликт версий при записи заявки, повтор",
				slog.String("submission_id", id),
				slog.Int("attempt", attempt+1),
			)
			continue
		}
		return nil, fmt.Errorf("запись заявки: %w", err)
	}
	return nil, fmt.Errorf("запись заявки %s: %w", id, repository.ErrVersionConflict)
}

// resolveProgramType ищет тип программы в кэше, при промахе — в БД.
func (s *SubmissionService) resolveProgramType(ctx context.Context, id int) (*model.ProgramType, error) {
	if pt, ok := s.typeCache.Get(id); ok {
		return pt, nil
	}

	pt, err := s.typeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.typeCache.Set(pt)
	return pt, nil
}

// ListProgramTypes возвращает справочник типов программ.
func (s *SubmissionService) ListProgramTypes(ctx context.Context) ([]*model.ProgramType, error) {
	types, err := s.typeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("чтение справочника типов: %w", err)
	}
	return types, nil
}

// validateCreate проверяет поля создания заявки и собирает все ошибки разом.
func validateCreate(input CreateSubmissionInput) *ValidationError {
	var fields []FieldError

	name := strings.TrimSpace(input.Name)
	if name == "" {
		fields = append(fields, FieldError{Field: "name", Message: "поле обязательно"})
	} else if utf8.RuneCountInString(name) > maxNameLen {
		fields = append(fields, FieldError{Field: "name",
			Message: fmt.Sprintf("длина не должна превышать %d символов", maxNameLen)})
	}

	if strings.TrimSpace(input.Description) == "" {
		fields = append(fields, FieldError{Field: "description", Message: "поле обязательно"})
	}

	if input.ProgramTypeID <= 0 {
		fields = append(fields, FieldError{Field: "program_type_id", Message: "поле обязательно"})
	}

	if input.SubmittedBy != nil {
		submitter := strings.TrimSpace(*input.SubmittedBy)
		if utf8.RuneCountInString(submitter) > maxIdentifierLen {
			fields = append(fields, FieldError{Field: "submitted_by",
				Message: fmt.Sprintf("длина не должна превышать %d символов", maxIdentifierLen)})
		}
	}

	if input.Budget != nil && *input.Budget < 0 {
		fields = append(fields, FieldError{Field: "budget", Message: "бюджет не может быть отрицательным"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// trimOptional убирает пробелы; пустая после trim строка становится nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
