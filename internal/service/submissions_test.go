package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/arturkryukov/progoffice/submission-module/internal/domain/lifecycle"
	"github.com/arturkryukov/progoffice/submission-module/internal/domain/model"
	"github.com/arturkryukov/progoffice/submission-module/internal/repository"
)

// --- In-memory fake репозитория заявок ---

// fakeSubmissionRepo — потокобезопасный in-memory репозиторий, повторяющий
// семантику оптимистичной конкуренции настоящего: write с устаревшей
// версией возвращает ErrVersionConflict.
type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions map[string]*model.Submission
	// failWrites — количество ближайших записей, завершающихся конфликтом
	failWrites int
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[string]*model.Submission)}
}

func (f *fakeSubmissionRepo) Create(_ context.Context, s *model.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	s.Version = 1
	s.CreatedAt = now
	s.UpdatedAt = now
	clone := *s
	f.submissions[s.ID] = &clone
	return nil
}

func (f *fakeSubmissionRepo) GetByID(_ context.Context, id string) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.submissions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (f *fakeSubmissionRepo) List(_ context.Context, filters repository.SubmissionListFilters) ([]*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*model.Submission
	for _, s := range f.submissions {
		if filters.Search != nil &&
			!strings.Contains(strings.ToLower(s.Name), strings.ToLower(*filters.Search)) {
			continue
		}
		if filters.Status != nil && string(s.Status) != *filters.Status {
			continue
		}
		clone := *s
		result = append(result, &clone)
	}
	return result, nil
}

// write применяет мутацию с проверкой версии.
func (f *fakeSubmissionRepo) write(s *model.Submission, apply func(stored *model.Submission)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWrites > 0 {
		f.failWrites--
		return repository.ErrVersionConflict
	}

	stored, ok := f.submissions[s.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Version != s.Version {
		return repository.ErrVersionConflict
	}
	apply(stored)
	stored.Version++
	stored.UpdatedAt = time.Now().UTC()
	s.Version = stored.Version
	s.UpdatedAt = stored.UpdatedAt
	return nil
}

func (f *fakeSubmissionRepo) UpdateReview(_ context.Context, s *model.Submission) error {
	return f.write(s, func(stored *model.Submission) {
		stored.Status = s.Status
		stored.ReviewedBy = s.ReviewedBy
		stored.ReviewComments = s.ReviewComments
	})
}

func (f *fakeSubmissionRepo) UpdateDocumentRef(_ context.Context, s *model.Submission) error {
	return f.write(s, func(stored *model.Submission) {
		stored.DocumentRef = s.DocumentRef
	})
}

func (f *fakeSubmissionRepo) UpdateSummary(_ context.Context, s *model.Submission) error {
	return f.write(s, func(stored *model.Submission) {
		stored.AISummary = s.AISummary
		stored.AISummaryGeneratedAt = s.AISummaryGeneratedAt
	})
}

// fakeTypeRepo — справочник типов программ с фиксированным содержимым.
type fakeTypeRepo struct {
	types map[int]*model.ProgramType
}

func newFakeTypeRepo() *fakeTypeRepo {
	return &fakeTypeRepo{types: map[int]*model.ProgramType{
		1: {ID: 1, NameEn: "Health", NameFr: "Santé"},
		2: {ID: 2, NameEn: "Education", NameFr: "Éducation"},
	}}
}

func (f *fakeTypeRepo) GetByID(_ context.Context, id int) (*model.ProgramType, error) {
	pt, ok := f.types[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return pt, nil
}

func (f *fakeTypeRepo) List(_ context.Context) ([]*model.ProgramType, error) {
	result := make([]*model.ProgramType, 0, len(f.types))
	for _, pt := range f.types {
		result = append(result, pt)
	}
	return result, nil
}

func newTestService(repo *fakeSubmissionRepo) *SubmissionService {
	return NewSubmissionService(repo, newFakeTypeRepo(), NewTypeCache(100, time.Minute), slog.Default())
}

func validCreateInput() CreateSubmissionInput {
	budget := 250000.00
	return CreateSubmissionInput{
		Name:          "Health Grant",
		Description:   "Программа грантов здравоохранения",
		ProgramTypeID: 1,
		Budget:        &budget,
	}
}

// --- Тесты создания ---

// TestCreate_Success проверяет, что валидная заявка создаётся в SUBMITTED
// с совпадающими created/updated и без резюме.
func TestCreate_Success(t *testing.T) {
	svc := newTestService(newFakeSubmissionRepo())

	s, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("Create(): неожиданная ошибка: %v", err)
	}
	if s.ID == "" {
		t.Error("Create(): ID не присвоен")
	}
	if s.Status != lifecycle.StatusSubmitted {
		t.Errorf("Create(): статус %q, ожидался SUBMITTED", s.Status)
	}
	if !s.CreatedAt.Equal(s.UpdatedAt) {
		t.Error("Create(): created_at и updated_at должны совпадать")
	}
	if s.AISummary != nil {
		t.Error("Create(): новая заявка не должна иметь резюме")
	}
	if s.Budget == nil || *s.Budget != 250000.00 {
		t.Errorf("Create(): бюджет не проброшен: %v", s.Budget)
	}
	if s.ProgramTypeNameEn != "Health" {
		t.Errorf("Create(): имя типа не денормализовано: %q", s.ProgramTypeNameEn)
	}
}

// TestCreate_UnknownProgramType проверяет, что несуществующий тип —
// ошибка валидации и ничего не сохраняется.
func TestCreate_UnknownProgramType(t *testing.T) {
	repo := newFakeSubmissionRepo()
	svc := newTestService(repo)

	input := validCreateInput()
	input.ProgramTypeID = 42

	_, err := svc.Create(context.Background(), input)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Create(): ожидалась ValidationError, получено %v", err)
	}
	if verr.Fields[0].Field != "program_type_id" {
		t.Errorf("Create(): ошибка по полю %q, ожидалось program_type_id", verr.Fields[0].Field)
	}
	if len(repo.submissions) != 0 {
		t.Error("Create(): заявка не должна быть сохранена при ошибке валидации")
	}
}

// TestCreate_FieldValidation проверяет сбор всех ошибок полей за один вызов.
func TestCreate_FieldValidation(t *testing.T) {
	svc := newTestService(newFakeSubmissionRepo())

	badBudget := -1.0
	_, err := svc.Create(context.Background(), CreateSubmissionInput{
		Name:          "  ",
		Description:   "",
		ProgramTypeID: 1,
		Budget:        &badBudget,
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Create(): ожидалась ValidationError, получено %v", err)
	}
	if len(verr.Fields) != 3 {
		t.Errorf("Create(): ожидалось 3 ошибки полей (name, description, budget), получено %d: %v",
			len(verr.Fields), verr.Fields)
	}
}

// TestCreate_NameTooLong проверяет лимит длины имени.
func TestCreate_NameTooLong(t *testing.T) {
	svc := newTestService(newFakeSubmissionRepo())

	input := validCreateInput()
	input.Name = strings.Repeat("x", 201)

	_, err := svc.Create(context.Background(), input)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Create(): ожидалась ValidationError, получено %v", err)
	}
}

// --- Тесты решения проверяющего ---

func createTestSubmission(t *testing.T, svc *SubmissionService) *model.Submission {
	t.Helper()
	s, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	return s
}

// TestReview_CaseInsensitive проверяет регистронезависимый разбор решения.
func TestReview_CaseInsensitive(t *testing.T) {
	tests := []struct {
		decision string
		expected lifecycle.Status
	}{
		{"approved", lifecycle.StatusApproved},
		{"APPROVED", lifecycle.StatusApproved},
		{"Rejected", lifecycle.StatusRejected},
		{"REJECTED", lifecycle.StatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.decision, func(t *testing.T) {
			svc := newTestService(newFakeSubmissionRepo())
			s := createTestSubmission(t, svc)

			got, err := svc.Review(context.Background(), s.ID, ReviewInput{
				Decision: tt.decision,
				Reviewer: "ministry@example.gov",
				Comments: "Соответствует критериям",
			})
			if err != nil {
				t.Fatalf("Review(%q): неожиданная ошибка: %v", tt.decision, err)
			}
			if got.Status != tt.expected {
				t.Errorf("Review(%q): статус %q, ожидался %q", tt.decision, got.Status, tt.expected)
			}
			if got.ReviewedBy == nil || *got.ReviewedBy != "ministry@example.gov" {
				t.Errorf("Review(): reviewed_by не записан: %v", got.ReviewedBy)
			}
			if !got.UpdatedAt.After(got.CreatedAt) {
				t.Error("Review(): updated_at должен продвинуться")
			}
		})
	}
}

// TestReview_InvalidDecision проверяет отклонение нетерминальных и мусорных решений.
func TestReview_InvalidDecision(t *testing.T) {
	svc := newTestService(newFakeSubmissionRepo())
	s := createTestSubmission(t, svc)

	for _, decision := range []string{"SUBMITTED", "UNDER_REVIEW", "DRAFT", "garbage", ""} {
		_, err := svc.Review(context.Background(), s.ID, ReviewInput{
			Decision: decision,
			Reviewer: "ministry@example.gov",
			Comments: "x",
		})
		var terr *lifecycle.TransitionError
		if !errors.As(err, &terr) {
			t.Errorf("Review(%q): ожидалась TransitionError, получено %v", decision, err)
		}
	}
}

// TestReview_NotFound проверяет решение по неизвестной заявке.
func TestReview_NotFound(t *testing.T) {
	svc := newTestService(newFakeSubmissionRepo())

	_, err := svc.Review(context.Background(), "missing-id", ReviewInput{
		Decision: "APPROVED",
		Reviewer: "ministry@example.gov",
		Comments: "x",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Review(): ожидалась ErrNotFound, получено %v", err)
	}
}

// TestReview_OverwritesTerminal проверяет, что повторное решение
// перезаписывает терминальную заявку.
func TestReview_OverwritesTerminal(t *testing.T) {
	svc := newTestService(newFakeSubmissionRepo())
	s := createTestSubmission(t, svc)
	ctx := context.Background()

	if _, err := svc.Review(ctx, s.ID, ReviewInput{
		Decision: "APPROVED", Reviewer: "first@example.gov", Comments: "одобрено",
	}); err != nil {
		t.Fatalf("первый Review(): %v", err)
	}

	got, err := svc.Review(ctx, s.ID, ReviewInput{
		Decision: "REJECTED", Reviewer: "second@example.gov", Comments: "отозвано",
	})
	if err != nil {
		t.Fatalf("повторный Review(): %v", err)
	}
	if got.Status != lifecycle.StatusRejected {
		t.Errorf("повторный Review(): статус %q, ожидался REJECTED", got.Status)
	}
	if *got.ReviewedBy != "second@example.gov" {
		t.Errorf("повторный Review(): reviewer не перезаписан: %q", *got.ReviewedBy)
	}
}

// TestReview_RetriesOnVersionConflict проверяет повтор записи при конфликте версий.
func TestReview_RetriesOnVersionConflict(t *testing.T) {
	repo := newFakeSubmissionRepo()
	svc := newTestService(repo)
	s := createTestSubmission(t, svc)

	repo.failWrites = 2 // первые две записи конфликтуют

	got, err := svc.Review(context.Background(), s.ID, ReviewInput{
		Decision: "APPROVED", Reviewer: "ministry@example.gov", Comments: "одобрено",
	})
	if err != nil {
		t.Fatalf("Review() с конфликтами: неожиданная ошибка: %v", err)
	}
	if got.Status != lifecycle.StatusApproved {
		t.Errorf("Review(): статус %q, ожидался APPROVED", got.Status)
	}
}

// TestReview_ExhaustsRetries проверяет ошибку после исчерпания повторов.
func TestReview_ExhaustsRetries(t *testing.T) {
	repo := newFakeSubmissionRepo()
	svc := newTestService(repo)
	s := createTestSubmission(t, svc)

	repo.failWrites = maxWriteRetries

	_, err := svc.Review(context.Background(), s.ID, ReviewInput{
		Decision: "APPROVED", Reviewer: "ministry@example.gov", Comments: "x",
	})
	if !errors.Is(err, repository.ErrVersionConflict) {
		t.Errorf("Review(): ожидалась ErrVersionConflict после исчерпания повторов, получено %v", err)
	}
}

// --- Тесты резюме ---

// TestAttachSummary_Success проверяет запись резюме и времени его получения
// независимо от статуса заявки.
func TestAttachSummary_Success(t *testing.T) {
	svc := newTestService(newFakeSubmissionRepo())
	s := createTestSubmission(t, svc)
	ctx := context.Background()

	// Переводим заявку в терминальный статус — резюме всё равно применяется
	if _, err := svc.Review(ctx, s.ID, ReviewInput{
		Decision: "APPROVED", Reviewer: "ministry@example.gov", Comments: "ok",
	}); err != nil {
		t.Fatalf("Review(): %v", err)
	}

	got, err := svc.AttachSummary(ctx, s.ID, "Краткое изложение документа")
	if err != nil {
		t.Fatalf("AttachSummary(): неожиданная ошибка: %v", err)
	}
	if got.AISummary == nil || *got.AISummary != "Краткое изложение документа" {
		t.Errorf("AttachSummary(): резюме не записано: %v", got.AISummary)
	}
	if got.AISummaryGeneratedAt == nil {
		t.Error("AttachSummary(): время получения резюме не записано")
	}
	if got.Status != lifecycle.StatusApproved {
		t.Errorf("AttachSummary(): статус не должен меняться, получен %q", got.Status)
	}
}

// TestAttachSummary_Overwrite проверяет, что поздний callback перезаписывает ранний.
func TestAttachSummary_Overwrite(t *testing.T) {
	svc := newTestService(newFakeSubmissionRepo())
	s := createTestSubmission(t, svc)
	ctx := context.Background()

	if _, err := svc.AttachSummary(ctx, s.ID, "раннее резюме"); err != nil {
		t.Fatalf("AttachSummary(): %v", err)
	}
	got, err := svc.AttachSummary(ctx, s.ID, "позднее резюме")
	if err != nil {
		t.Fatalf("повторный AttachSummary(): %v", err)
	}
	if *got.AISummary != "позднее резюме" {
		t.Errorf("AttachSummary(): ожидалась перезапись, получено %q", *got.AISummary)
	}
}

// TestAttachSummary_Validation проверяет границы длины резюме.
func TestAttachSummary_Validation(t *testing.T) {
	svc := newTestService(newFakeSubmissionRepo())
	s := createTestSubmission(t, svc)
	ctx := context.Background()

	// Пустое резюме
	if _, err := svc.AttachSummary(ctx, s.ID, "   "); err == nil {
		t.Error("AttachSummary() с пустым текстом: ожидалась ошибка")
	}

	// Слишком длинное
	var verr *ValidationError
	_, err := svc.AttachSummary(ctx, s.ID, strings.Repeat("x", maxSummaryLen+1))
	if !errors.As(err, &verr) {
		t.Errorf("AttachSummary() сверх лимита: ожидалась ValidationError, получено %v", err)
	}

	// Ровно на границе — валидно
	if _, err := svc.AttachSummary(ctx, s.ID, strings.Repeat("x", maxSummaryLen)); err != nil {
		t.Errorf("AttachSummary() на границе лимита: неожиданная ошибка: %v", err)
	}
}

// TestAttachSummary_NotFound проверяет callback для неизвестной заявки.
func TestAttachSummary_NotFound(t *testing.T) {
	svc := newTestService(newFakeSubmissionRepo())

	_, err := svc.AttachSummary(context.Background(), "missing-id", "резюме")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("AttachSummary(): ожидалась ErrNotFound, получено %v", err)
	}
}

// --- Тесты списка ---

// TestList_BlankSearchIsNoFilter проверяет, что пустой или пробельный
// поисковый запрос не фильтрует список.
func TestList_BlankSearchIsNoFilter(t *testing.T) {
	svc := newTestService(newFakeSubmissionRepo())
	ctx := context.Background()

	for _, name := range []string{"Health Grant", "Road Repair"} {
		input := validCreateInput()
		input.Name = name
		if _, err := svc.Create(ctx, input); err != nil {
			t.Fatalf("Create(%q): %v", name, err)
		}
	}

	blank := "   "
	got, err := svc.List(ctx, &blank, nil, nil)
	if err != nil {
		t.Fatalf("List(): неожиданная ошибка: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("List() с пробельным поиском: ожидалось 2 заявки, получено %d", len(got))
	}
}

// TestList_InvalidStatus проверяет отклонение неизвестного статуса фильтра.
func TestList_InvalidStatus(t *testing.T) {
	svc := newTestService(newFakeSubmissionRepo())

	bad := "NOT_A_STATUS"
	_, err := svc.List(context.Background(), nil, &bad, nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("List() с неизвестным статусом: ожидалась ValidationError, получено %v", err)
	}
}
