package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/Freeeeeet/agenda_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type HistoryRepository struct {
	*base.Repository
}

func NewHistoryRepository(db base.DB) *HistoryRepository {
	return &HistoryRepository{Repository: base.NewRepository(db)}
}

// Add сохраняет строки истории одной транзакцией
func (r *HistoryRepository) Add(ctx context.Context, entries []model.ChangeEntry) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO change_history (professional_id, entity_type, entity_id, action, field, old_value, new_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	return r.InTx(ctx, func(tx pgx.Tx) error {
		for _, e := range entries {
			_, err := tx.Exec(ctx, query,
				e.ProfessionalID, string(e.EntityType), e.EntityID, string(e.Action),
				e.Field, e.OldValue, e.NewValue)
			if err != nil {
				return fmt.Errorf("add change history: %w", err)
			}
		}
		return nil
	})
}

// List история записи, новые первыми
func (r *HistoryRepository) List(ctx context.Context, entity model.EntityType, entityID int64, limit int) ([]model.ChangeEntry, error) {
	query := `
		SELECT id, professional_id, entity_type, entity_id, action, field, old_value, new_value, created_at
		FROM change_history
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.Query(ctx, query, string(entity), entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("list change history: %w", err)
	}
	defer rows.Close()

	var entries []model.ChangeEntry
	for rows.Next() {
		var (
			e                  model.ChangeEntry
			entityType, action string
		)
		err := rows.Scan(&e.ID, &e.ProfessionalID, &entityType, &e.EntityID, &action,
			&e.Field, &e.OldValue, &e.NewValue, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan change history: %w", err)
		}
		e.EntityType = model.EntityType(entityType)
		e.Action = model.ChangeAction(action)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
