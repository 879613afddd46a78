package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/Freeeeeet/agenda_bot/internal/repository/base"
)

type ServiceRepository struct {
	*base.Repository
}

func NewServiceRepository(db base.DB) *ServiceRepository {
	return &ServiceRepository{Repository: base.NewRepository(db)}
}

const serviceColumns = `id, professional_id, name, duration, price, buffer_time, is_active, created_at`

// Create создаёт новую услугу
func (r *ServiceRepository) Create(ctx context.Context, s *model.Service) error {
	query := `
		INSERT INTO services (professional_id, name, duration, price, buffer_time, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		s.ProfessionalID,
		s.Name,
		s.Duration,
		s.Price,
		s.BufferTime,
		s.IsActive,
	).Scan(&s.ID, &s.CreatedAt)

	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	return nil
}

// GetByID получает услугу по ID
func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*model.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	s, err := scanService(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service by id: %w", err)
	}
	return s, nil
}

// ListByProfessional услуги специалиста по названию
func (r *ServiceRepository) ListByProfessional(ctx context.Context, professionalID int64, activeOnly bool) ([]*model.Service, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services
		WHERE professional_id = $1
		  AND (is_active OR NOT $2)
		ORDER BY name
	`

	rows, err := r.Query(ctx, query, professionalID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []*model.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// Update обновляет услугу
func (r *ServiceRepository) Update(ctx context.Context, s *model.Service) error {
	query := `
		UPDATE services
		SET name = $1, duration = $2, price = $3, buffer_time = $4, is_active = $5
		WHERE id = $6
	`

	affected, err := r.ExecAffected(ctx, query, s.Name, s.Duration, s.Price, s.BufferTime, s.IsActive, s.ID)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("service not found")
	}
	return nil
}

// Delete удаляет услугу
func (r *ServiceRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("service not found")
	}
	return nil
}

func scanService(row scanner) (*model.Service, error) {
	var s model.Service
	err := row.Scan(
		&s.ID,
		&s.ProfessionalID,
		&s.Name,
		&s.Duration,
		&s.Price,
		&s.BufferTime,
		&s.IsActive,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
