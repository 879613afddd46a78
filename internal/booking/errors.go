package booking

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/agenda_bot/internal/availability"
)

var (
	ErrSlotUnavailable = errors.New("slot unavailable")
	ErrSlotInPast      = errors.New("slot is in the past")
	ErrSlotNotOffered  = errors.New("slot was not offered")
	ErrInvalidState    = errors.New("invalid flow state")
	ErrNoDuration      = errors.New("duration is not set")
	ErrWrongKind       = errors.New("operation not supported for this kind")
)

const (
	FieldTime       = "time"
	CodeUnavailable = "unavailable"
	CodeInPast      = "in_past"
)

// FieldError ошибка конкретного поля формы
type FieldError struct {
	Field string `json:"field"`
	Code  string `json:"code"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Code)
}

// RejectionError кандидат не прошёл повторную проверку перед сохранением
type RejectionError struct {
	Field    FieldError
	Conflict *availability.Busy
}

func (e *RejectionError) Error() string {
	if e.Conflict == nil {
		return fmt.Sprintf("%s: %s", ErrSlotUnavailable, e.Field)
	}
	return fmt.Sprintf("%s: %s conflicts with %s %s-%s", ErrSlotUnavailable, e.Field, e.Conflict.Source,
		e.Conflict.Start.Format("15:04"), e.Conflict.End.Format("15:04"))
}

func (e *RejectionError) Unwrap() error {
	return ErrSlotUnavailable
}
