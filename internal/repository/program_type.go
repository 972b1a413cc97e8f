package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arturkryukov/progoffice/submission-module/internal/domain/model"
)

// ProgramTypeRepository — доступ к read-only справочнику типов программ.
type ProgramTypeRepository interface {
	// GetByID возвращает тип программы по идентификатору.
	GetByID(ctx context.Context, id int) (*model.ProgramType, error)
	// List возвращает все типы программ в порядке id.
	List(ctx context.Context) ([]*model.ProgramType, error)
}

// programTypeRepo — реализация ProgramTypeRepository.
type programTypeRepo struct {
	db DBTX
}

// NewProgramTypeRepository создаёт репозиторий справочника типов.
func NewProgramTypeRepository(db DBTX) ProgramTypeRepository {
	return &programTypeRepo{db: db}
}

func (r *programTypeRepo) GetByID(ctx context.Context, id int) (*model.ProgramType, error) {
	query := `
		SELECT id, name_en, name_fr
		FROM program_type
		WHERE id = $1`

	pt := &model.ProgramType{}
	err := r.db.QueryRow(ctx, query, id).Scan(&pt.ID, &pt.NameEn, &pt.NameFr)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения типа программы: %w", err)
	}
	return pt, nil
}

func (r *programTypeRepo) List(ctx context.Context) ([]*model.ProgramType, error) {
	query := `
		SELECT id, name_en, name_fr
		FROM program_type
		ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения справочника типов: %w", err)
	}
	defer rows.Close()

	var result []*model.ProgramType
	for rows.Next() {
		pt := &model.ProgramType{}
		if err := rows.Scan(&pt.ID, &pt.NameEn, &pt.NameFr); err != nil {
			return nil, fmt.Errorf("ошибка сканирования типа программы: %w", err)
		}
		result = append(result, pt)
	}
	return result, rows.Err()
}
