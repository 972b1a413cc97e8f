// summary.go — callback конвейера обогащения с готовым резюме.
package handlers

import (
	"net/http"

	apierrors "github.com/arturkryukov/progoffice/submission-module/internal/api/errors"
	"github.com/arturkryukov/progoffice/submission-module/internal/api/generated"
)

// AttachSummary — PATCH /api/v1/submissions/{id}/summary.
// Прикрепляет резюме независимо от статуса заявки; поздний callback
// перезаписывает ранний. Успех — 204 без тела.
func (h *APIHandler) AttachSummary(w http.ResponseWriter, r *http.Request, id generated.SubmissionId) {
	var req generated.AttachSummaryJSONRequestBody
	if err := decodeJSON(r, &req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	if _, err := h.enrichment.ReceiveSummary(r.Context(), id.String(), req.Summary); err != nil {
		h.writeServiceError(w, err, "Ошибка прикрепления резюме")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
