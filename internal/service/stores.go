package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/model"
)

// Интерфейсы хранилищ, реализуются пакетом repository

type ProfessionalStore interface {
	Create(ctx context.Context, p *model.Professional) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Professional, error)
	GetByID(ctx context.Context, id int64) (*model.Professional, error)
	ListAll(ctx context.Context) ([]*model.Professional, error)
	Count(ctx context.Context) (int, error)
	UpdateProfile(ctx context.Context, p *model.Professional) error
	UpdateWorkSchedule(ctx context.Context, id int64, schedule model.WorkSchedule) error
	UpdateTimezone(ctx context.Context, id int64, timezone string) error
}

type ServiceStore interface {
	Create(ctx context.Context, s *model.Service) error
	GetByID(ctx context.Context, id int64) (*model.Service, error)
	ListByProfessional(ctx context.Context, professionalID int64, activeOnly bool) ([]*model.Service, error)
	Update(ctx context.Context, s *model.Service) error
	Delete(ctx context.Context, id int64) error
}

type ClientStore interface {
	Create(ctx context.Context, c *model.Client) error
	GetByID(ctx context.Context, id int64) (*model.Client, error)
	ListByProfessional(ctx context.Context, professionalID int64) ([]*model.Client, error)
	Update(ctx context.Context, c *model.Client) error
	Delete(ctx context.Context, id int64, now time.Time) error
}

type AppointmentStore interface {
	Create(ctx context.Context, a *model.Appointment) error
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	ListBetween(ctx context.Context, professionalID int64, from, to time.Time) ([]*model.Appointment, error)
	Update(ctx context.Context, a *model.Appointment) error
	UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error
	Delete(ctx context.Context, id int64) error
}

type TimeBlockStore interface {
	Create(ctx context.Context, b *model.TimeBlock) error
	GetByID(ctx context.Context, id int64) (*model.TimeBlock, error)
	ListBetween(ctx context.Context, professionalID int64, from, to time.Time) ([]model.TimeBlock, error)
	Update(ctx context.Context, b *model.TimeBlock) error
	Delete(ctx context.Context, id int64) error
}

type InvitationStore interface {
	Create(ctx context.Context, inv *model.Invitation) error
	CodeExists(ctx context.Context, code string) (bool, error)
	MarkUsed(ctx context.Context, code string, telegramID int64) (int64, bool, error)
	ListPending(ctx context.Context, createdBy int64) ([]*model.Invitation, error)
}

type HistoryStore interface {
	Add(ctx context.Context, entries []model.ChangeEntry) error
	List(ctx context.Context, entity model.EntityType, entityID int64, limit int) ([]model.ChangeEntry, error)
}

// Recorder метрики сценариев записи
type Recorder interface {
	ObserveSlotsGenerated(kind string, count int)
	ObserveValidation(kind string, accepted bool)
	ObserveCommit(kind, op string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSlotsGenerated(string, int) {}
func (nopRecorder) ObserveValidation(string, bool)    {}
func (nopRecorder) ObserveCommit(string, string)      {}
