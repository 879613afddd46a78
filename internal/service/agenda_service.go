package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/availability"
	"github.com/Freeeeeet/agenda_bot/internal/model"
)

// Agenda записи, блокировки и свободные окна одного дня
type Agenda struct {
	Professional *model.Professional
	Date         time.Time
	Day          model.DaySchedule
	Appointments []*model.Appointment
	Blocks       []model.TimeBlock
	Free         []availability.Interval
}

// Active неотменённые записи
func (a *Agenda) Active() []*model.Appointment {
	out := make([]*model.Appointment, 0, len(a.Appointments))
	for _, appt := range a.Appointments {
		if !appt.IsCancelled() {
			out = append(out, appt)
		}
	}
	return out
}

// IsEmpty нет ни записей, ни блокировок
func (a *Agenda) IsEmpty() bool {
	return len(a.Active()) == 0 && len(a.Blocks) == 0
}

type AgendaService struct {
	engines       *EngineFactory
	professionals ProfessionalStore
	appointments  AppointmentStore
	blocks        TimeBlockStore
}

func NewAgendaService(engines *EngineFactory, professionals ProfessionalStore, appointments AppointmentStore, blocks TimeBlockStore) *AgendaService {
	return &AgendaService{
		engines:       engines,
		professionals: professionals,
		appointments:  appointments,
		blocks:        blocks,
	}
}

// Today агенда на текущий день в часовом поясе специалиста
func (s *AgendaService) Today(ctx context.Context, professionalID int64) (*Agenda, error) {
	engine, err := engineFor(ctx, s.engines, s.professionals, professionalID)
	if err != nil {
		return nil, err
	}
	return s.Day(ctx, professionalID, engine.Today())
}

// Day агенда на дату. Дата трактуется в часовом поясе специалиста
func (s *AgendaService) Day(ctx context.Context, professionalID int64, date time.Time) (*Agenda, error) {
	p, err := s.professionals.GetByID(ctx, professionalID)
	if err != nil {
		return nil, fmt.Errorf("get professional: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("professional %d: %w", professionalID, ErrNotFound)
	}

	loc := s.engines.For(p).Location()
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	from, to := dayBounds(date)

	appointments, err := s.appointments.ListBetween(ctx, professionalID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	blocks, err := s.blocks.ListBetween(ctx, professionalID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list time blocks: %w", err)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].StartTime.Before(blocks[j].StartTime) })

	agenda := &Agenda{
		Professional: p,
		Date:         date,
		Day:          p.WorkSchedule.DayFor(date),
		Appointments: appointments,
		Blocks:       blocks,
	}

	snap := availability.Snapshot{TimeBlocks: blocks}
	for _, a := range agenda.Active() {
		snap.Appointments = append(snap.Appointments, *a)
	}
	occ, err := availability.BuildOccupancy(p.WorkSchedule, date, snap, availability.Exclusion{})
	if err != nil {
		return nil, fmt.Errorf("build occupancy: %w", err)
	}
	agenda.Free, err = availability.FreeWindows(p.WorkSchedule, date, occ)
	if err != nil {
		return nil, fmt.Errorf("free windows: %w", err)
	}

	return agenda, nil
}
