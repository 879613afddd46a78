package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/Freeeeeet/agenda_bot/internal/repository/base"
)

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(db base.DB) *AppointmentRepository {
	return &AppointmentRepository{Repository: base.NewRepository(db)}
}

const appointmentColumns = `a.id, a.professional_id, COALESCE(a.client_id, 0), COALESCE(a.service_id, 0),
	a.start_time, a.end_time, a.title, a.status, a.notes, a.created_at, a.updated_at`

// Create создаёт новую запись
func (r *AppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	query := `
		INSERT INTO appointments (professional_id, client_id, service_id, start_time, end_time, title, status, notes)
		VALUES ($1, NULLIF($2, 0), NULLIF($3, 0), $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		a.ProfessionalID,
		a.ClientID,
		a.ServiceID,
		a.StartTime,
		a.EndTime,
		a.Title,
		string(a.Status),
		a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments a WHERE a.id = $1`

	a, err := scanAppointment(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}
	return a, nil
}

// ListActiveSince неотменённые записи специалиста, заканчивающиеся после since
func (r *AppointmentRepository) ListActiveSince(ctx context.Context, professionalID int64, since time.Time) ([]model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		WHERE a.professional_id = $1
		  AND a.status <> $2
		  AND a.end_time > $3
		ORDER BY a.start_time
	`

	rows, err := r.Query(ctx, query, professionalID, string(model.AppointmentStatusCancelled), since)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// ListBetween записи за интервал [from, to) вместе с именем клиента, для агенды
func (r *AppointmentRepository) ListBetween(ctx context.Context, professionalID int64, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `, COALESCE(c.name, ''), COALESCE(c.phone, '')
		FROM appointments a
		LEFT JOIN clients c ON c.id = a.client_id
		WHERE a.professional_id = $1
		  AND a.start_time >= $2
		  AND a.start_time < $3
		ORDER BY a.start_time
	`

	rows, err := r.Query(ctx, query, professionalID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list appointments between: %w", err)
	}
	defer rows.Close()

	var out []*model.Appointment
	for rows.Next() {
		var (
			a      model.Appointment
			status string
			client model.Client
		)
		err := rows.Scan(
			&a.ID,
			&a.ProfessionalID,
			&a.ClientID,
			&a.ServiceID,
			&a.StartTime,
			&a.EndTime,
			&a.Title,
			&status,
			&a.Notes,
			&a.CreatedAt,
			&a.UpdatedAt,
			&client.Name,
			&client.Phone,
		)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		a.Status = model.AppointmentStatus(status)
		if a.ClientID != 0 {
			client.ID = a.ClientID
			client.ProfessionalID = a.ProfessionalID
			a.Client = &client
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// Update переносит запись на новое время и меняет услугу/клиента
func (r *AppointmentRepository) Update(ctx context.Context, a *model.Appointment) error {
	query := `
		UPDATE appointments
		SET client_id = NULLIF($1, 0), service_id = NULLIF($2, 0), start_time = $3, end_time = $4,
		    title = $5, status = $6, notes = $7, updated_at = NOW()
		WHERE id = $8
	`

	affected, err := r.ExecAffected(
		ctx, query,
		a.ClientID,
		a.ServiceID,
		a.StartTime,
		a.EndTime,
		a.Title,
		string(a.Status),
		a.Notes,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("appointment not found")
	}
	return nil
}

// UpdateStatus меняет статус записи
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2`

	affected, err := r.ExecAffected(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("appointment not found")
	}
	return nil
}

// Delete удаляет запись
func (r *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("appointment not found")
	}
	return nil
}

func scanAppointment(row scanner) (*model.Appointment, error) {
	var (
		a      model.Appointment
		status string
	)
	err := row.Scan(
		&a.ID,
		&a.ProfessionalID,
		&a.ClientID,
		&a.ServiceID,
		&a.StartTime,
		&a.EndTime,
		&a.Title,
		&status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = model.AppointmentStatus(status)
	return &a, nil
}
