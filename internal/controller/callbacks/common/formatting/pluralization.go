package formatting

import "fmt"

func pluralize(count int, one, many string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, one)
	}
	return fmt.Sprintf("%d %s", count, many)
}

// PluralizeAppointments "1 cita", "3 citas"
func PluralizeAppointments(count int) string {
	return pluralize(count, "cita", "citas")
}

// PluralizeBlocks "1 bloqueo", "2 bloqueos"
func PluralizeBlocks(count int) string {
	return pluralize(count, "bloqueo", "bloqueos")
}

// PluralizeSlots "1 horario", "5 horarios"
func PluralizeSlots(count int) string {
	return pluralize(count, "horario", "horarios")
}
