package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/availability"
	"github.com/Freeeeeet/agenda_bot/internal/booking"
	"github.com/Freeeeeet/agenda_bot/internal/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type AppointmentService struct {
	engines       *EngineFactory
	professionals ProfessionalStore
	source        booking.SnapshotSource
	catalog       booking.ServiceCatalog
	appointments  AppointmentStore
	services      ServiceStore
	clients       ClientStore
	recorder      Recorder
	logger        *zap.Logger
}

func NewAppointmentService(
	engines *EngineFactory,
	professionals ProfessionalStore,
	source booking.SnapshotSource,
	catalog booking.ServiceCatalog,
	appointments AppointmentStore,
	services ServiceStore,
	clients ClientStore,
	recorder Recorder,
	logger *zap.Logger,
) *AppointmentService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &AppointmentService{
		engines:       engines,
		professionals: professionals,
		source:        source,
		catalog:       catalog,
		appointments:  appointments,
		services:      services,
		clients:       clients,
		recorder:      recorder,
		logger:        logger,
	}
}

// NewFlow сценарий новой записи
func (s *AppointmentService) NewFlow(ctx context.Context, professionalID int64) (*booking.Flow, error) {
	return s.ResumeFlow(ctx, booking.NewDraft(model.EntryKindAppointment, professionalID))
}

// EditFlow сценарий переноса существующей записи
func (s *AppointmentService) EditFlow(ctx context.Context, professionalID, appointmentID int64) (*booking.Flow, error) {
	engine, err := engineFor(ctx, s.engines, s.professionals, professionalID)
	if err != nil {
		return nil, err
	}
	appt, err := s.Get(ctx, professionalID, appointmentID)
	if err != nil {
		return nil, err
	}
	draft := booking.EditAppointmentDraft(*appt, engine.Location())
	return booking.NewFlow(engine, s.source, s.catalog, draft, booking.WithObserver(s.recorder)), nil
}

// ResumeFlow восстанавливает сценарий из сохранённого черновика
func (s *AppointmentService) ResumeFlow(ctx context.Context, draft booking.Draft) (*booking.Flow, error) {
	if draft.Kind != model.EntryKindAppointment {
		return nil, booking.ErrWrongKind
	}
	engine, err := engineFor(ctx, s.engines, s.professionals, draft.ProfessionalID)
	if err != nil {
		return nil, err
	}
	return booking.NewFlow(engine, s.source, s.catalog, draft, booking.WithObserver(s.recorder)), nil
}

// Commit проверяет выбранный слот по свежим данным и сохраняет запись.
// clientID 0 при переносе оставляет прежнего клиента
func (s *AppointmentService) Commit(ctx context.Context, flow *booking.Flow, clientID int64) (*model.Appointment, error) {
	draft := flow.Draft()
	ctx, span := tracer.Start(ctx, "AppointmentService.Commit", trace.WithAttributes(
		attribute.Int64("professional_id", draft.ProfessionalID),
		attribute.Bool("edit", draft.IsEdit()),
		attribute.String("draft_id", draft.ID.String()),
	))
	defer span.End()

	if clientID != 0 {
		if err := s.checkClient(ctx, draft.ProfessionalID, clientID); err != nil {
			return nil, err
		}
	}

	appt, err := flow.CommitAppointment(ctx, clientID, model.AppointmentStatusConfirmed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit rejected")
		return nil, err
	}

	svc, err := s.services.GetByID(ctx, appt.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if svc != nil {
		appt.Title = svc.Name
	}

	if draft.IsEdit() {
		existing, err := s.Get(ctx, draft.ProfessionalID, draft.EditingID)
		if err != nil {
			return nil, err
		}
		existing.StartTime = appt.StartTime
		existing.EndTime = appt.EndTime
		existing.ServiceID = appt.ServiceID
		if appt.Title != "" {
			existing.Title = appt.Title
		}
		if clientID != 0 {
			existing.ClientID = clientID
		}

		if err := s.appointments.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update appointment: %w", err)
		}
		s.recorder.ObserveCommit(string(model.EntryKindAppointment), "update")

		s.logger.Info("Appointment rescheduled",
			zap.Int64("appointment_id", existing.ID),
			zap.Int64("professional_id", existing.ProfessionalID),
			zap.Time("start_time", existing.StartTime),
		)
		return existing, nil
	}

	if err := s.appointments.Create(ctx, &appt); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	s.recorder.ObserveCommit(string(model.EntryKindAppointment), "create")

	s.logger.Info("Appointment booked",
		zap.Int64("appointment_id", appt.ID),
		zap.Int64("professional_id", appt.ProfessionalID),
		zap.Int64("service_id", appt.ServiceID),
		zap.Time("start_time", appt.StartTime),
	)
	return &appt, nil
}

// Get запись специалиста
func (s *AppointmentService) Get(ctx context.Context, professionalID, appointmentID int64) (*model.Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appt == nil {
		return nil, fmt.Errorf("appointment %d: %w", appointmentID, ErrNotFound)
	}
	if appt.ProfessionalID != professionalID {
		return nil, fmt.Errorf("appointment %d: %w", appointmentID, ErrNotOwner)
	}
	return appt, nil
}

// Cancel отменяет запись, время освобождается
func (s *AppointmentService) Cancel(ctx context.Context, professionalID, appointmentID int64) error {
	if _, err := s.Get(ctx, professionalID, appointmentID); err != nil {
		return err
	}
	if err := s.appointments.UpdateStatus(ctx, appointmentID, model.AppointmentStatusCancelled); err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}
	s.recorder.ObserveCommit(string(model.EntryKindAppointment), "cancel")

	s.logger.Info("Appointment cancelled",
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("professional_id", professionalID),
	)
	return nil
}

func (s *AppointmentService) Delete(ctx context.Context, professionalID, appointmentID int64) error {
	if _, err := s.Get(ctx, professionalID, appointmentID); err != nil {
		return err
	}
	if err := s.appointments.Delete(ctx, appointmentID); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	s.recorder.ObserveCommit(string(model.EntryKindAppointment), "delete")

	s.logger.Info("Appointment deleted",
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("professional_id", professionalID),
	)
	return nil
}

// ListDay записи календарного дня date, включая отменённые
func (s *AppointmentService) ListDay(ctx context.Context, professionalID int64, date time.Time) ([]*model.Appointment, error) {
	from, to := dayBounds(date)
	return s.appointments.ListBetween(ctx, professionalID, from, to)
}

func (s *AppointmentService) checkClient(ctx context.Context, professionalID, clientID int64) error {
	c, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("get client: %w", err)
	}
	if c == nil {
		return fmt.Errorf("client %d: %w", clientID, ErrNotFound)
	}
	if c.ProfessionalID != professionalID {
		return fmt.Errorf("client %d: %w", clientID, ErrNotOwner)
	}
	return nil
}

func engineFor(ctx context.Context, engines *EngineFactory, professionals ProfessionalStore, professionalID int64) (*availability.Engine, error) {
	p, err := professionals.GetByID(ctx, professionalID)
	if err != nil {
		return nil, fmt.Errorf("get professional: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("professional %d: %w", professionalID, ErrNotFound)
	}
	return engines.For(p), nil
}

func dayBounds(date time.Time) (time.Time, time.Time) {
	from := availability.StartOfDay(date)
	return from, from.AddDate(0, 0, 1)
}
