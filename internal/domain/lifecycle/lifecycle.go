// Пакет lifecycle — конечный автомат статусов заявки.
//
// Жизненный цикл: SUBMITTED → (UNDER_REVIEW) → APPROVED | REJECTED.
// DRAFT существует как значение, но ни одна публичная операция
// в него не переводит — задел под будущий save-as-draft.
//
// Повторное ревью терминальной заявки НЕ блокируется: решение,
// ревьюер и комментарии перезаписываются целиком. Идемпотентного
// guard-а нет — переносим поведение исходной системы как есть.
package lifecycle

import (
	"fmt"
	"strings"
)

// Status — статус заявки.
type Status string

const (
	// StatusDraft — черновик, зарезервирован, операциями не достигается.
	StatusDraft Status = "DRAFT"
	// StatusSubmitted — заявка подана гражданином.
	StatusSubmitted Status = "SUBMITTED"
	// StatusUnderReview — заявка на рассмотрении у министерства.
	StatusUnderReview Status = "UNDER_REVIEW"
	// StatusApproved — заявка одобрена (терминальный).
	StatusApproved Status = "APPROVED"
	// StatusRejected — заявка отклонена (терминальный).
	StatusRejected Status = "REJECTED"
)

// allStatuses — полный набор допустимых значений статуса.
var allStatuses = map[Status]bool{
	StatusDraft:       true,
	StatusSubmitted:   true,
	StatusUnderReview: true,
	StatusApproved:    true,
	StatusRejected:    true,
}

// IsValid проверяет, что значение входит в набор из пяти статусов.
func IsValid(s Status) bool {
	return allStatuses[s]
}

// Terminal возвращает true для терминальных статусов ревью.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// TransitionError — ошибка недопустимого перехода или решения.
type TransitionError struct {
	Code    string
	Message string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ParseDecision разбирает решение ревьюера без учёта регистра.
//
// Допустимы только терминальные метки APPROVED и REJECTED.
// Любое другое значение — включая синтаксически корректное имя
// нетерминального статуса (SUBMITTED, UNDER_REVIEW, DRAFT) и мусор —
// возвращает TransitionError с кодом INVALID_TRANSITION.
func ParseDecision(raw string) (Status, error) {
	decision := Status(strings.ToUpper(strings.TrimSpace(raw)))

	if decision.Terminal() {
		return decision, nil
	}

	return "", &TransitionError{
		Code: "INVALID_TRANSITION",
		Message: fmt.Sprintf("недопустимое решение %q: ожидается APPROVED или REJECTED",
			raw),
	}
}

// Initial возвращает статус новой заявки.
// Подача через публичный портал всегда минует DRAFT.
func Initial() Status {
	return StatusSubmitted
}
