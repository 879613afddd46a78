package booking

import (
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/availability"
	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/google/uuid"
)

// Draft сериализуемое состояние сценария записи. Хранится между шагами диалога,
// данные специалиста при возобновлении запрашиваются заново
type Draft struct {
	ID              uuid.UUID       `json:"id"`
	Kind            model.EntryKind `json:"kind"`
	ProfessionalID  int64           `json:"professional_id"`
	Date            string          `json:"date,omitempty"` // YYYY-MM-DD
	ServiceID       int64           `json:"service_id,omitempty"`
	DurationMinutes int             `json:"duration_minutes,omitempty"`
	Start           string          `json:"start,omitempty"` // HH:MM

	// Редактирование существующей записи
	EditingID   int64  `json:"editing_id,omitempty"`
	CurrentDate string `json:"current_date,omitempty"`
	CurrentTime string `json:"current_time,omitempty"`
	CurrentEnd  string `json:"current_end,omitempty"`
}

// NewDraft черновик новой записи
func NewDraft(kind model.EntryKind, professionalID int64) Draft {
	return Draft{
		ID:             uuid.New(),
		Kind:           kind,
		ProfessionalID: professionalID,
	}
}

// EditAppointmentDraft черновик для переноса записи. loc - часовой пояс отображения
func EditAppointmentDraft(a model.Appointment, loc *time.Location) Draft {
	start := a.StartTime.In(loc)
	date := start.Format(availability.DateLayout)
	return Draft{
		ID:              uuid.New(),
		Kind:            model.EntryKindAppointment,
		ProfessionalID:  a.ProfessionalID,
		Date:            date,
		ServiceID:       a.ServiceID,
		DurationMinutes: a.DurationMinutes(),
		Start:           model.ClockOf(start).String(),
		EditingID:       a.ID,
		CurrentDate:     date,
		CurrentTime:     model.ClockOf(start).String(),
	}
}

// EditBlockDraft черновик для изменения блокировки
func EditBlockDraft(b model.TimeBlock, loc *time.Location) Draft {
	start := b.StartTime.In(loc)
	date := start.Format(availability.DateLayout)
	return Draft{
		ID:              uuid.New(),
		Kind:            model.EntryKindBlock,
		ProfessionalID:  b.ProfessionalID,
		Date:            date,
		DurationMinutes: b.DurationMinutes(),
		Start:           model.ClockOf(start).String(),
		EditingID:       b.ID,
		CurrentDate:     date,
		CurrentTime:     model.ClockOf(start).String(),
		CurrentEnd:      model.ClockOf(b.EndTime.In(loc)).String(),
	}
}

// IsEdit редактируется ли существующая запись
func (d Draft) IsEdit() bool {
	return d.EditingID != 0
}

// Exclusion исключение редактируемой записи из занятости
func (d Draft) Exclusion() availability.Exclusion {
	if !d.IsEdit() {
		return availability.Exclusion{}
	}
	return availability.Exclusion{Kind: d.Kind, ID: d.EditingID}
}
