package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/Freeeeeet/agenda_bot/internal/repository/base"
)

type TimeBlockRepository struct {
	*base.Repository
}

func NewTimeBlockRepository(db base.DB) *TimeBlockRepository {
	return &TimeBlockRepository{Repository: base.NewRepository(db)}
}

const timeBlockColumns = `id, professional_id, start_time, end_time, title, created_at`

// Create создаёт блокировку времени
func (r *TimeBlockRepository) Create(ctx context.Context, b *model.TimeBlock) error {
	query := `
		INSERT INTO time_blocks (professional_id, start_time, end_time, title)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, b.ProfessionalID, b.StartTime, b.EndTime, b.Title).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("create time block: %w", err)
	}
	return nil
}

// GetByID получает блокировку по ID
func (r *TimeBlockRepository) GetByID(ctx context.Context, id int64) (*model.TimeBlock, error) {
	query := `SELECT ` + timeBlockColumns + ` FROM time_blocks WHERE id = $1`

	b, err := scanTimeBlock(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get time block by id: %w", err)
	}
	return b, nil
}

// ListBetween блокировки, пересекающие интервал [from, to)
func (r *TimeBlockRepository) ListBetween(ctx context.Context, professionalID int64, from, to time.Time) ([]model.TimeBlock, error) {
	query := `
		SELECT ` + timeBlockColumns + `
		FROM time_blocks
		WHERE professional_id = $1
		  AND end_time > $2
		  AND start_time < $3
		ORDER BY start_time
	`

	rows, err := r.Query(ctx, query, professionalID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list time blocks: %w", err)
	}
	defer rows.Close()

	var out []model.TimeBlock
	for rows.Next() {
		b, err := scanTimeBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time block: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Update переносит блокировку
func (r *TimeBlockRepository) Update(ctx context.Context, b *model.TimeBlock) error {
	query := `UPDATE time_blocks SET start_time = $1, end_time = $2, title = $3 WHERE id = $4`

	affected, err := r.ExecAffected(ctx, query, b.StartTime, b.EndTime, b.Title, b.ID)
	if err != nil {
		return fmt.Errorf("update time block: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("time block not found")
	}
	return nil
}

// Delete удаляет блокировку
func (r *TimeBlockRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM time_blocks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete time block: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("time block not found")
	}
	return nil
}

func scanTimeBlock(row scanner) (*model.TimeBlock, error) {
	var b model.TimeBlock
	err := row.Scan(&b.ID, &b.ProfessionalID, &b.StartTime, &b.EndTime, &b.Title, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
