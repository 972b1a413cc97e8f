package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/arturkryukov/progoffice/submission-module/internal/domain/model"
)

// submissionColumns — список колонок submission с JOIN справочника типов.
const submissionColumns = `
	s.id, s.name, s.description, s.program_type_id, pt.name_en, pt.name_fr,
	s.status, s.submitted_by, s.reviewed_by, s.review_comments,
	s.document_ref, s.budget, s.ai_summary, s.ai_summary_generated_at,
	s.version, s.created_at, s.updated_at`

// SubmissionListFilters — фильтры списка заявок.
// nil-поле — фильтр не применяется.
type SubmissionListFilters struct {
	// Search — подстрока имени без учёта регистра
	Search *string
	// Status — точное совпадение статуса
	Status *string
	// SubmittedBy — точное совпадение подавшего
	SubmittedBy *string
}

// SubmissionRepository — интерфейс доступа к таблице submission.
//
// Все мутации кроме Create защищены optimistic concurrency: запись
// обновляется только при совпадении version, иначе ErrVersionConflict.
type SubmissionRepository interface {
	// Create вставляет новую заявку. Заполняет Version, CreatedAt, UpdatedAt.
	Create(ctx context.Context, s *model.Submission) error
	// GetByID возвращает заявку по UUID.
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	// List возвращает заявки с фильтрацией, новые первыми.
	List(ctx context.Context, filters SubmissionListFilters) ([]*model.Submission, error)
	// UpdateReview записывает решение ревью (status, reviewed_by, review_comments).
	UpdateReview(ctx context.Context, s *model.Submission) error
	// UpdateDocumentRef записывает локатор документа.
	UpdateDocumentRef(ctx context.Context, s *model.Submission) error
	// UpdateSummary записывает резюме и время его получения.
	UpdateSummary(ctx context.Context, s *model.Submission) error
}

// submissionRepo — реализация SubmissionRepository.
type submissionRepo struct {
	db DBTX
}

// NewSubmissionRepository создаёт репозиторий заявок.
func NewSubmissionRepository(db DBTX) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, s *model.Submission) error {
	query := `
		INSERT INTO submission (id, name, description, program_type_id, status,
			submitted_by, document_ref, budget)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING version, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		s.ID, s.Name, s.Description, s.ProgramTypeID, s.Status,
		s.SubmittedBy, s.DocumentRef, s.Budget,
	).Scan(&s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: тип программы %d отсутствует в справочнике", ErrNotFound, s.ProgramTypeID)
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: заявка %s уже существует", ErrConflict, s.ID)
		}
		return fmt.Errorf("ошибка создания заявки: %w", err)
	}
	return nil
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM submission s
		JOIN program_type pt ON pt.id = s.program_type_id
		WHERE s.id = $1`, submissionColumns)

	s := &model.Submission{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Description, &s.ProgramTypeID,
		&s.ProgramTypeNameEn, &s.ProgramTypeNameFr,
		&s.Status, &s.SubmittedBy, &s.ReviewedBy, &s.ReviewComments,
		&s.DocumentRef, &s.Budget, &s.AISummary, &s.AISummaryGeneratedAt,
		&s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения заявки: %w", err)
	}
	return s, nil
}

func (r *submissionRepo) List(ctx context.Context, filters SubmissionListFilters) ([]*model.Submission, error) {
	// Динамическое построение WHERE
	var conditions []string
	var args []any
	argNum := 1

	if filters.Search != nil {
		conditions = append(conditions, fmt.Sprintf("s.name ILIKE $%d", argNum))
		args = append(args, "%"+*filters.Search+"%")
		argNum++
	}
	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", argNum))
		args = append(args, *filters.Status)
		argNum++
	}
	if filters.SubmittedBy != nil {
		conditions = append(conditions, fmt.Sprintf("s.submitted_by = $%d", argNum))
		args = append(args, *filters.SubmittedBy)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM submission s
		JOIN program_type pt ON pt.id = s.program_type_id
		%s
		ORDER BY s.created_at DESC`, submissionColumns, where)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка заявок: %w", err)
	}
	defer rows.Close()

	var result []*model.Submission
	for rows.Next() {
		s := &model.Submission{}
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Description, &s.ProgramTypeID,
			&s.ProgramTypeNameEn, &s.ProgramTypeNameFr,
			&s.Status, &s.SubmittedBy, &s.ReviewedBy, &s.ReviewComments,
			&s.DocumentRef, &s.Budget, &s.AISummary, &s.AISummaryGeneratedAt,
			&s.Version, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *submissionRepo) UpdateReview(ctx context.Context, s *model.Submission) error {
	query := `
		UPDATE submission
		SET status = $3, reviewed_by = $4, review_comments = $5,
			version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at`

	err := r.db.QueryRow(ctx, query,
		s.ID, s.Version, s.Status, s.ReviewedBy, s.ReviewComments,
	).Scan(&s.Version, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return r.classifyMissedUpdate(ctx, s.ID)
		}
		return fmt.Errorf("ошибка записи решения ревью: %w", err)
	}
	return nil
}

func (r *submissionRepo) UpdateDocumentRef(ctx context.Context, s *model.Submission) error {
	query := `
		UPDATE submission
		SET document_ref = $3, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at`

	err := r.db.QueryRow(ctx, query, s.ID, s.Version, s.DocumentRef).
		Scan(&s.Version, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return r.classifyMissedUpdate(ctx, s.ID)
		}
		return fmt.Errorf("ошибка записи локатора документа: %w", err)
	}
	return nil
}

func (r *submissionRepo) UpdateSummary(ctx context.Context, s *model.Submission) error {
	query := `
		UPDATE submission
		SET ai_summary = $3, ai_summary_generated_at = $4,
			version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at`

	err := r.db.QueryRow(ctx, query,
		s.ID, s.Version, s.AISummary, s.AISummaryGeneratedAt,
	).Scan(&s.Version, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return r.classifyMissedUpdate(ctx, s.ID)
		}
		return fmt.Errorf("ошибка записи резюме: %w", err)
	}
	return nil
}

// classifyMissedUpdate различает ErrNotFound и ErrVersionConflict
// после UPDATE, не затронувшего ни одной строки.
func (r *submissionRepo) classifyMissedUpdate(ctx context.Context, id string) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM submission WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("ошибка проверки существования заявки: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrVersionConflict
}
