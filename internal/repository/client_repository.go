package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/Freeeeeet/agenda_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type ClientRepository struct {
	*base.Repository
}

func NewClientRepository(db base.DB) *ClientRepository {
	return &ClientRepository{Repository: base.NewRepository(db)}
}

const clientColumns = `id, professional_id, name, email, phone, notes, created_at`

// Create создаёт клиента
func (r *ClientRepository) Create(ctx context.Context, c *model.Client) error {
	query := `
		INSERT INTO clients (professional_id, name, email, phone, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, c.ProfessionalID, c.Name, c.Email, c.Phone, c.Notes).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// GetByID получает клиента по ID
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	c, err := scanClient(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client by id: %w", err)
	}
	return c, nil
}

// ListByProfessional клиенты специалиста по имени
func (r *ClientRepository) ListByProfessional(ctx context.Context, professionalID int64) ([]*model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE professional_id = $1 ORDER BY name`

	rows, err := r.Query(ctx, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []*model.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// Update обновляет контактные данные клиента
func (r *ClientRepository) Update(ctx context.Context, c *model.Client) error {
	query := `UPDATE clients SET name = $1, email = $2, phone = $3, notes = $4 WHERE id = $5`

	affected, err := r.ExecAffected(ctx, query, c.Name, c.Email, c.Phone, c.Notes, c.ID)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("client not found")
	}
	return nil
}

// Delete удаляет клиента и отменяет его будущие записи в одной транзакции
func (r *ClientRepository) Delete(ctx context.Context, id int64, now time.Time) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			UPDATE appointments
			SET status = $1, updated_at = NOW()
			WHERE client_id = $2 AND start_time >= $3 AND status <> $1
		`, string(model.AppointmentStatusCancelled), id, now)
		if err != nil {
			return fmt.Errorf("cancel client appointments: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete client: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("client not found")
		}
		return nil
	})
}

func scanClient(row scanner) (*model.Client, error) {
	var c model.Client
	err := row.Scan(&c.ID, &c.ProfessionalID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
