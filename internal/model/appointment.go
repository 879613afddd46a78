package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Valid проверяет что статус известен
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusConfirmed, AppointmentStatusPending, AppointmentStatusCancelled:
		return true
	}
	return false
}

// EntryKind тип записи в агенде
type EntryKind string

const (
	EntryKindAppointment EntryKind = "appointment"
	EntryKindBlock       EntryKind = "block"
)

type Appointment struct {
	ID             int64             `json:"id"`
	ProfessionalID int64             `json:"professional_id"`
	ClientID       int64             `json:"client_id"`
	ServiceID      int64             `json:"service_id"`
	StartTime      time.Time         `json:"start_time"`
	EndTime        time.Time         `json:"end_time"`
	Title          string            `json:"title"` // название услуги на момент записи
	Status         AppointmentStatus `json:"status"`
	Notes          string            `json:"notes"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Client  *Client  `json:"client,omitempty"`
	Service *Service `json:"service,omitempty"`
}

// Kind всегда EntryKindAppointment
func (a Appointment) Kind() EntryKind {
	return EntryKindAppointment
}

// IsCancelled отменённые записи не занимают время
func (a Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// DurationMinutes длительность записи в минутах
func (a Appointment) DurationMinutes() int {
	return int(a.EndTime.Sub(a.StartTime) / time.Minute)
}
