package formatting

import "github.com/Freeeeeet/agenda_bot/internal/model"

// StatusDisplay представляет отображение статуса записи
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetAppointmentStatusDisplay возвращает emoji и текст для статуса записи
func GetAppointmentStatusDisplay(status model.AppointmentStatus) StatusDisplay {
	displays := map[model.AppointmentStatus]StatusDisplay{
		model.AppointmentStatusConfirmed: {"✅", "Confirmada"},
		model.AppointmentStatusPending:   {"⏳", "Pendiente"},
		model.AppointmentStatusCancelled: {"❌", "Cancelada"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Desconocido"}
}

// ServiceStatusText текст активности услуги
func ServiceStatusText(active bool) string {
	if active {
		return "✅ Activo"
	}
	return "⏸ Inactivo"
}
