package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/Freeeeeet/agenda_bot/internal/repository/base"
)

type ProfessionalRepository struct {
	*base.Repository
}

func NewProfessionalRepository(db base.DB) *ProfessionalRepository {
	return &ProfessionalRepository{Repository: base.NewRepository(db)}
}

const professionalColumns = `id, telegram_id, username, first_name, last_name, language_code, timezone, work_schedule, created_at`

// Create создаёт специалиста. Расписание может быть пустым
func (r *ProfessionalRepository) Create(ctx context.Context, p *model.Professional) error {
	schedule, err := encodeSchedule(p.WorkSchedule)
	if err != nil {
		return fmt.Errorf("create professional: %w", err)
	}

	query := `
		INSERT INTO professionals (telegram_id, username, first_name, last_name, language_code, timezone, work_schedule)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err = r.QueryRow(
		ctx, query,
		p.TelegramID,
		p.Username,
		p.FirstName,
		p.LastName,
		p.LanguageCode,
		p.Timezone,
		schedule,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		return fmt.Errorf("create professional: %w", err)
	}

	return nil
}

// GetByTelegramID получает специалиста по Telegram ID
func (r *ProfessionalRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Professional, error) {
	query := `SELECT ` + professionalColumns + ` FROM professionals WHERE telegram_id = $1`

	p, err := scanProfessional(r.QueryRow(ctx, query, telegramID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get professional by telegram id: %w", err)
	}
	return p, nil
}

// GetByID получает специалиста по ID
func (r *ProfessionalRepository) GetByID(ctx context.Context, id int64) (*model.Professional, error) {
	query := `SELECT ` + professionalColumns + ` FROM professionals WHERE id = $1`

	p, err := scanProfessional(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get professional by id: %w", err)
	}
	return p, nil
}

// ListAll все специалисты, для фоновых задач
func (r *ProfessionalRepository) ListAll(ctx context.Context) ([]*model.Professional, error) {
	query := `SELECT ` + professionalColumns + ` FROM professionals ORDER BY id`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}
	defer rows.Close()

	var out []*model.Professional
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, fmt.Errorf("scan professional: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Count количество зарегистрированных специалистов
func (r *ProfessionalRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.QueryRow(ctx, `SELECT COUNT(*) FROM professionals`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count professionals: %w", err)
	}
	return count, nil
}

// UpdateProfile обновляет данные профиля Telegram
func (r *ProfessionalRepository) UpdateProfile(ctx context.Context, p *model.Professional) error {
	query := `
		UPDATE professionals
		SET username = $1, first_name = $2, last_name = $3, language_code = $4
		WHERE id = $5
	`

	affected, err := r.ExecAffected(ctx, query, p.Username, p.FirstName, p.LastName, p.LanguageCode, p.ID)
	if err != nil {
		return fmt.Errorf("update professional profile: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("professional not found")
	}
	return nil
}

// UpdateWorkSchedule заменяет недельное расписание целиком
func (r *ProfessionalRepository) UpdateWorkSchedule(ctx context.Context, id int64, schedule model.WorkSchedule) error {
	data, err := encodeSchedule(schedule)
	if err != nil {
		return fmt.Errorf("update work schedule: %w", err)
	}

	affected, err := r.ExecAffected(ctx, `UPDATE professionals SET work_schedule = $1 WHERE id = $2`, data, id)
	if err != nil {
		return fmt.Errorf("update work schedule: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("professional not found")
	}
	return nil
}

// UpdateTimezone меняет часовой пояс специалиста
func (r *ProfessionalRepository) UpdateTimezone(ctx context.Context, id int64, timezone string) error {
	affected, err := r.ExecAffected(ctx, `UPDATE professionals SET timezone = $1 WHERE id = $2`, timezone, id)
	if err != nil {
		return fmt.Errorf("update timezone: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("professional not found")
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfessional(row scanner) (*model.Professional, error) {
	var (
		p        model.Professional
		schedule []byte
	)
	err := row.Scan(
		&p.ID,
		&p.TelegramID,
		&p.Username,
		&p.FirstName,
		&p.LastName,
		&p.LanguageCode,
		&p.Timezone,
		&schedule,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(schedule) > 0 {
		if err := json.Unmarshal(schedule, &p.WorkSchedule); err != nil {
			return nil, fmt.Errorf("decode work schedule: %w", err)
		}
	}
	return &p, nil
}

// encodeSchedule nil расписание хранится как NULL
func encodeSchedule(s model.WorkSchedule) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}
