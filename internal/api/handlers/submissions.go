// submissions.go — обработчики CRUD заявок.
// Создание принимает multipart/form-data: поля заявки + опциональный документ.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	apierrors "github.com/arturkryukov/progoffice/submission-module/internal/api/errors"
	"github.com/arturkryukov/progoffice/submission-module/internal/api/generated"
	"github.com/arturkryukov/progoffice/submission-module/internal/domain/lifecycle"
	"github.com/arturkryukov/progoffice/submission-module/internal/service"
)

// CreateSubmission — POST /api/v1/submissions.
// Создаёт заявку в статусе SUBMITTED. Документ опционален и прикрепляется
// best-effort: сбой его загрузки не отменяет создание заявки.
func (h *APIHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.documents.MaxDocumentSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			apierrors.FileTooLarge(w, "Размер запроса превышает допустимый")
			return
		}
		apierrors.ValidationError(w, "Некорректная multipart-форма: "+err.Error())
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	input, ferr := parseCreateForm(r)
	if ferr != nil {
		apierrors.ValidationErrorFields(w, "Ошибка валидации входных данных", ferr)
		return
	}

	submission, err := h.submissions.Create(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка создания заявки")
		return
	}

	// Документ — best-effort: сбой логируется, заявка уже создана
	if file, header, fileErr := r.FormFile("document"); fileErr == nil {
		defer file.Close()
		h.documents.AttachBestEffort(r.Context(), submission.ID, header.Filename, file)

		// Перечитываем заявку, чтобы вернуть привязанный локатор
		if fresh, getErr := h.submissions.Get(r.Context(), submission.ID); getErr == nil {
			submission = fresh
		}
	}

	writeJSON(w, http.StatusCreated, mapSubmission(submission))
}

// ListSubmissions — GET /api/v1/submissions.
func (h *APIHandler) ListSubmissions(w http.ResponseWriter, r *http.Request, params generated.ListSubmissionsParams) {
	var status *string
	if params.Status != nil {
		s := string(*params.Status)
		status = &s
	}

	submissions, err := h.submissions.List(r.Context(), params.Search, status, params.SubmittedBy)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка поиска заявок")
		return
	}

	items := make([]generated.Submission, len(submissions))
	for i, s := range submissions {
		items[i] = mapSubmission(s)
	}

	writeJSON(w, http.StatusOK, generated.SubmissionListResponse{
		Items: items,
		Total: len(items),
	})
}

// GetSubmission — GET /api/v1/submissions/{id}.
func (h *APIHandler) GetSubmission(w http.ResponseWriter, r *http.Request, id generated.SubmissionId) {
	submission, err := h.submissions.Get(r.Context(), id.String())
	if err != nil {
		h.writeServiceError(w, err, "Ошибка получения заявки")
		return
	}

	writeJSON(w, http.StatusOK, mapSubmission(submission))
}

// ReviewSubmission — POST /api/v1/submissions/{id}/review.
// Решение разбирается без учёта регистра; нетерминальные значения — 400.
func (h *APIHandler) ReviewSubmission(w http.ResponseWriter, r *http.Request, id generated.SubmissionId) {
	var req generated.ReviewSubmissionJSONRequestBody
	if err := decodeJSON(r, &req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	submission, err := h.submissions.Review(r.Context(), id.String(), service.ReviewInput{
		Decision: req.Status,
		Reviewer: req.ReviewedBy,
		Comments: req.ReviewComments,
	})
	if err != nil {
		h.writeServiceError(w, err, "Ошибка записи решения")
		return
	}

	writeJSON(w, http.StatusOK, mapSubmission(submission))
}

// ListProgramTypes — GET /api/v1/program-types.
func (h *APIHandler) ListProgramTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.submissions.ListProgramTypes(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "Ошибка чтения справочника типов")
		return
	}

	items := make([]generated.ProgramType, len(types))
	for i, pt := range types {
		items[i] = generated.ProgramType{Id: pt.ID, NameEn: pt.NameEn, NameFr: pt.NameFr}
	}

	writeJSON(w, http.StatusOK, generated.ProgramTypeListResponse{Items: items})
}

// parseCreateForm разбирает multipart-поля создания заявки.
// Ошибки формата (не-числа) собираются в тот же список, что и ошибки
// валидации сервисного слоя.
func parseCreateForm(r *http.Request) (service.CreateSubmissionInput, []apierrors.FieldDetail) {
	var fields []apierrors.FieldDetail

	input := service.CreateSubmissionInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
	}

	rawType := strings.TrimSpace(r.FormValue("program_type_id"))
	if rawType == "" {
		fields = append(fields, apierrors.FieldDetail{Field: "program_type_id", Message: "поле обязательно"})
	} else if id, err := strconv.Atoi(rawType); err != nil {
		fields = append(fields, apierrors.FieldDetail{Field: "program_type_id", Message: "ожидается целое число"})
	} else {
		input.ProgramTypeID = id
	}

	if submitter := r.FormValue("submitted_by"); submitter != "" {
		input.SubmittedBy = &submitter
	}

	if rawBudget := strings.TrimSpace(r.FormValue("budget")); rawBudget != "" {
		budget, err := strconv.ParseFloat(rawBudget, 64)
		if err != nil {
			fields = append(fields, apierrors.FieldDetail{Field: "budget", Message: "ожидается число"})
		} else {
			input.Budget = &budget
		}
	}

	return input, fields
}

// writeServiceError переводит ошибки сервисного слоя в HTTP-ответы.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, err error, logMsg string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		fields := make([]apierrors.FieldDetail, len(verr.Fields))
		for i, f := range verr.Fields {
			fields[i] = apierrors.FieldDetail{Field: f.Field, Message: f.Message}
		}
		apierrors.ValidationErrorFields(w, "Ошибка валидации входных данных", fields)
		return
	}

	var terr *lifecycle.TransitionError
	if errors.As(err, &terr) {
		apierrors.InvalidTransition(w, terr.Message)
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		apierrors.NotFound(w, "Заявка не найдена")
		return
	}
	if errors.Is(err, service.ErrNoDocument) {
		apierrors.NotFound(w, "У заявки нет документа")
		return
	}
	if errors.Is(err, service.ErrStorageUnavailable) {
		h.logger.Error(logMsg, slog.Any("error", err))
		apierrors.StorageUnavailable(w, "Хранилище документов недоступно")
		return
	}

	h.logger.Error(logMsg, slog.Any("error", err))
	apierrors.InternalError(w, logMsg)
}
