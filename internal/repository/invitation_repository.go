package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/Freeeeeet/agenda_bot/internal/repository/base"
)

type InvitationRepository struct {
	*base.Repository
}

func NewInvitationRepository(db base.DB) *InvitationRepository {
	return &InvitationRepository{Repository: base.NewRepository(db)}
}

const invitationColumns = `id, code, created_by, used_by_telegram_id, used_at, created_at`

// Create сохраняет новый код приглашения
func (r *InvitationRepository) Create(ctx context.Context, inv *model.Invitation) error {
	query := `
		INSERT INTO invitations (code, created_by)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, inv.Code, inv.CreatedBy).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("create invitation: %w", err)
	}
	return nil
}

// GetByCode nil если кода нет
func (r *InvitationRepository) GetByCode(ctx context.Context, code string) (*model.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE code = $1`

	inv, err := scanInvitation(r.QueryRow(ctx, query, code))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invitation by code: %w", err)
	}
	return inv, nil
}

// CodeExists проверяет, существует ли код с такой строкой
func (r *InvitationRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM invitations WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check invitation exists: %w", err)
	}
	return exists, nil
}

// MarkUsed атомарно занимает неиспользованный код и возвращает id пригласившего.
// false если код не найден или уже использован
func (r *InvitationRepository) MarkUsed(ctx context.Context, code string, telegramID int64) (int64, bool, error) {
	query := `
		UPDATE invitations
		SET used_by_telegram_id = $2, used_at = NOW()
		WHERE code = $1 AND used_at IS NULL
		RETURNING created_by
	`

	var createdBy int64
	err := r.QueryRow(ctx, query, code, telegramID).Scan(&createdBy)
	if err != nil {
		if base.IsNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("use invitation: %w", err)
	}
	return createdBy, true, nil
}

// ListPending неиспользованные коды специалиста, новые первыми
func (r *InvitationRepository) ListPending(ctx context.Context, createdBy int64) ([]*model.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations
		WHERE created_by = $1 AND used_at IS NULL
		ORDER BY created_at DESC`

	rows, err := r.Query(ctx, query, createdBy)
	if err != nil {
		return nil, fmt.Errorf("list pending invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*model.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

func scanInvitation(row scanner) (*model.Invitation, error) {
	var inv model.Invitation
	err := row.Scan(&inv.ID, &inv.Code, &inv.CreatedBy, &inv.UsedByTelegramID, &inv.UsedAt, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
