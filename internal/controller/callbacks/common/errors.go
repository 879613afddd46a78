package common

import (
	"errors"

	"github.com/Freeeeeet/agenda_bot/internal/booking"
	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/Freeeeeet/agenda_bot/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrNotRegistered = errors.New("professional is not registered")
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrNoDraft       = errors.New("no active draft")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotRegistered):
		return "❌ No estás registrado. Usa /start"
	case errors.Is(err, ErrNoMessage):
		return "❌ Error al procesar el mensaje"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Formato de datos inválido"
	case errors.Is(err, ErrNoDraft):
		return "⌛ La operación expiró. Empieza de nuevo"
	case errors.Is(err, booking.ErrSlotUnavailable):
		return "⚠️ Horario no disponible"
	case errors.Is(err, booking.ErrSlotInPast):
		return "⚠️ Ese horario ya pasó"
	case errors.Is(err, booking.ErrSlotNotOffered):
		return "⚠️ Ese horario ya no está en la lista"
	case errors.Is(err, booking.ErrInvalidState), errors.Is(err, booking.ErrNoDuration):
		return "❌ Completa los pasos anteriores"
	case errors.Is(err, model.ErrInvalidTimeFormat):
		return "❌ Formato de hora inválido, usa HH:MM"
	case errors.Is(err, model.ErrInvalidTimeRange):
		return "❌ La hora de inicio debe ser anterior a la de fin"
	case errors.Is(err, service.ErrNotFound):
		return "❌ No encontrado"
	case errors.Is(err, service.ErrNotOwner):
		return "❌ No tienes acceso a este registro"
	case errors.Is(err, service.ErrInvalidDuration):
		return "❌ La duración debe ser mayor a cero"
	case errors.Is(err, service.ErrInvalidName):
		return "❌ El nombre es obligatorio"
	case errors.Is(err, service.ErrInvalidTimezone):
		return "❌ Zona horaria desconocida"
	case errors.Is(err, service.ErrInvalidPrice):
		return "❌ El precio no puede ser negativo"
	case errors.Is(err, service.ErrInvitationRequired):
		return "🎟 Para registrarte necesitas un código de invitación: /start CODIGO"
	case errors.Is(err, service.ErrInvalidInvitation):
		return "❌ El código de invitación no es válido o ya fue utilizado"
	default:
		return "❌ Ocurrió un error"
	}
}
