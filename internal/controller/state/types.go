package state

import (
	"context"

	"github.com/Freeeeeet/agenda_bot/internal/booking"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Сценарии записи и блокировки, черновик хранится в Session.Draft
	StateAppointmentFlow UserState = "appointment_flow"
	StateBlockFlow       UserState = "block_flow"
	StateBlockTitle      UserState = "block_title"

	// Создание услуги
	StateCreateServiceName     UserState = "create_service_name"
	StateCreateServiceDuration UserState = "create_service_duration"
	StateCreateServicePrice    UserState = "create_service_price"

	// Создание клиента
	StateCreateClientName  UserState = "create_client_name"
	StateCreateClientPhone UserState = "create_client_phone"

	// Редактирование поля услуги или клиента, поле и id в Session.Data
	StateEditService UserState = "edit_service"
	StateEditClient  UserState = "edit_client"

	// Редактирование расписания
	StateScheduleHours    UserState = "schedule_hours"
	StateScheduleBreak    UserState = "schedule_break"
	StateScheduleTimezone UserState = "schedule_timezone"
)

// Session временные данные пользователя во время диалога
type Session struct {
	State UserState         `json:"state"`
	Draft *booking.Draft    `json:"draft,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

// IsEmpty нет ни состояния, ни черновика
func (s *Session) IsEmpty() bool {
	return s == nil || (s.State == StateNone && s.Draft == nil && len(s.Data) == 0)
}

func (s *Session) Get(key string) string {
	if s == nil || s.Data == nil {
		return ""
	}
	return s.Data[key]
}

func (s *Session) Set(key, value string) {
	if s.Data == nil {
		s.Data = make(map[string]string)
	}
	s.Data[key] = value
}

// Clone глубокая копия, хранилища не отдают наружу свои указатели
func (s *Session) Clone() *Session {
	if s == nil {
		return &Session{}
	}
	out := &Session{State: s.State}
	if s.Draft != nil {
		d := *s.Draft
		out.Draft = &d
	}
	if len(s.Data) > 0 {
		out.Data = make(map[string]string, len(s.Data))
		for k, v := range s.Data {
			out.Data[k] = v
		}
	}
	return out
}

// Store хранилище диалоговых сессий. Get возвращает пустую сессию, если её нет
type Store interface {
	Get(ctx context.Context, telegramID int64) (*Session, error)
	Save(ctx context.Context, telegramID int64, s *Session) error
	Clear(ctx context.Context, telegramID int64) error
}
