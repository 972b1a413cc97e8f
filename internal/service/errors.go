// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrNoDocument — у заявки нет прикреплённого документа.
	ErrNoDocument = errors.New("у заявки нет документа")
	// ErrStorageUnavailable — хранилище документов недоступно.
	ErrStorageUnavailable = errors.New("хранилище документов недоступно")
)

// FieldError — ошибка валидации отдельного поля.
type FieldError struct {
	// Field — имя поля во входном DTO
	Field string
	// Message — человекочитаемое описание проблемы
	Message string
}

// ValidationError — ошибка валидации входных данных с перечнем полей.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "ошибка валидации: " + strings.Join(parts, "; ")
}

// NewValidationError создаёт ошибку валидации для одного поля.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
