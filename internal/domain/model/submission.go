package model

import (
	"time"

	"github.com/arturkryukov/progoffice/submission-module/internal/domain/lifecycle"
)

// Submission — заявка гражданина на программу.
// Хранится в таблице submission.
type Submission struct {
	// ID — UUID заявки (задаётся при создании, неизменяемый)
	ID string
	// Name — название программы (до 200 символов)
	Name string
	// Description — описание заявки (без ограничения длины)
	Description string
	// ProgramTypeID — ссылка на справочник типов программ
	ProgramTypeID int
	// ProgramTypeNameEn — английское название типа (денормализация из справочника)
	ProgramTypeNameEn string
	// ProgramTypeNameFr — французское название типа
	ProgramTypeNameFr string
	// Status — текущий статус жизненного цикла
	Status lifecycle.Status
	// SubmittedBy — email или идентификатор подавшего (опционально, до 100 символов)
	SubmittedBy *string
	// ReviewedBy — сотрудник министерства, принявший решение
	ReviewedBy *string
	// ReviewComments — комментарии ревьюера к решению
	ReviewComments *string
	// DocumentRef — локатор приложенного документа в Document Store (до 500 символов)
	DocumentRef *string
	// Budget — запрошенный бюджет (опционально, неотрицательный)
	Budget *float64
	// AISummary — сгенерированное внешним pipeline резюме документа
	AISummary *string
	// AISummaryGeneratedAt — время получения резюме (есть тогда и только тогда, когда есть AISummary)
	AISummaryGeneratedAt *time.Time
	// Version — счётчик версий для optimistic concurrency
	Version int64
	// CreatedAt — время создания записи (устанавливается один раз)
	CreatedAt time.Time
	// UpdatedAt — время последней мутации
	UpdatedAt time.Time
}
