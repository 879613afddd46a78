package availability

import (
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/model"
)

// SlotCandidate выбранное начало и длительность, ещё не сохранены
type SlotCandidate struct {
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"duration_minutes"`
}

// CandidateAt кандидат на дату date во время HH:MM
func CandidateAt(date time.Time, hhmm string, durationMinutes int) (SlotCandidate, error) {
	start, err := ToAbsolute(date, hhmm)
	if err != nil {
		return SlotCandidate{}, err
	}
	return SlotCandidate{Start: start, DurationMinutes: durationMinutes}, nil
}

func (c SlotCandidate) Interval() Interval {
	return NewInterval(c.Start, time.Duration(c.DurationMinutes)*time.Minute)
}

// BuildBookingPayload запись для сохранения. Название услуги проставляет вызывающий
func BuildBookingPayload(c SlotCandidate, serviceID, clientID int64, status model.AppointmentStatus) model.Appointment {
	iv := c.Interval()
	return model.Appointment{
		ClientID:  clientID,
		ServiceID: serviceID,
		StartTime: iv.Start,
		EndTime:   iv.End,
		Status:    status,
	}
}

// BuildBlockPayload блокировка для сохранения
func BuildBlockPayload(c SlotCandidate, title string) model.TimeBlock {
	if title == "" {
		title = model.DefaultBlockTitle
	}
	iv := c.Interval()
	return model.TimeBlock{
		StartTime: iv.Start,
		EndTime:   iv.End,
		Title:     title,
	}
}
