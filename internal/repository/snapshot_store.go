package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/Freeeeeet/agenda_bot/internal/repository/base"
)

var ErrProfessionalNotFound = errors.New("professional not found")

// SnapshotStore свежий срез данных специалиста для генерации и проверки слотов
type SnapshotStore struct {
	professionals *ProfessionalRepository
	appointments  *AppointmentRepository
	blocks        *TimeBlockRepository
	services      *ServiceRepository
}

func NewSnapshotStore(db base.DB) *SnapshotStore {
	return &SnapshotStore{
		professionals: NewProfessionalRepository(db),
		appointments:  NewAppointmentRepository(db),
		blocks:        NewTimeBlockRepository(db),
		services:      NewServiceRepository(db),
	}
}

func (s *SnapshotStore) FetchSchedule(ctx context.Context, professionalID int64) (model.WorkSchedule, error) {
	p, err := s.professionals.GetByID(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("fetch schedule %d: %w", professionalID, ErrProfessionalNotFound)
	}
	return p.WorkSchedule, nil
}

// FetchAppointments неотменённые записи, заканчивающиеся после from. Вызывающий передаёт начало нужного дня
func (s *SnapshotStore) FetchAppointments(ctx context.Context, professionalID int64, from time.Time) ([]model.Appointment, error) {
	return s.appointments.ListActiveSince(ctx, professionalID, from)
}

func (s *SnapshotStore) FetchTimeBlocks(ctx context.Context, professionalID int64, from time.Time) ([]model.TimeBlock, error) {
	return s.blocks.ListBetween(ctx, professionalID, from, maxTime)
}

// FetchServiceDuration 0 для чужой, выключенной или несуществующей услуги
func (s *SnapshotStore) FetchServiceDuration(ctx context.Context, professionalID, serviceID int64) (int, error) {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return 0, err
	}
	if svc == nil || svc.ProfessionalID != professionalID || !svc.IsActive {
		return 0, nil
	}
	return svc.Duration, nil
}

var maxTime = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
