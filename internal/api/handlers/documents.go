// documents.go — streaming-скачивание документа заявки.
package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/arturkryukov/progoffice/submission-module/internal/api/generated"
)

// DownloadSubmissionDocument — GET /api/v1/submissions/{id}/document.
// Отдаёт содержимое документа потоком, без буферизации в памяти.
func (h *APIHandler) DownloadSubmissionDocument(w http.ResponseWriter, r *http.Request, id generated.SubmissionId) {
	dl, err := h.documents.Download(r.Context(), id.String())
	if err != nil {
		h.writeServiceError(w, err, "Ошибка скачивания документа")
		return
	}
	defer dl.Body.Close()

	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Filename))
	if dl.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(dl.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, dl.Body); err != nil {
		// Заголовки уже отправлены — остаётся только залогировать обрыв
		h.logger.Warn("Обрыв при передаче документа",
			slog.String("submission_id", id.String()),
			slog.Any("error", err),
		)
	}
}
