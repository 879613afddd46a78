package formatting

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/model"
)

var weekdayNames = map[model.Weekday]string{
	model.Monday:    "Lunes",
	model.Tuesday:   "Martes",
	model.Wednesday: "Miércoles",
	model.Thursday:  "Jueves",
	model.Friday:    "Viernes",
	model.Saturday:  "Sábado",
	model.Sunday:    "Domingo",
}

var weekdayShortNames = map[model.Weekday]string{
	model.Monday:    "Lun",
	model.Tuesday:   "Mar",
	model.Wednesday: "Mié",
	model.Thursday:  "Jue",
	model.Friday:    "Vie",
	model.Saturday:  "Sáb",
	model.Sunday:    "Dom",
}

var monthNames = map[time.Month]string{
	time.January:   "enero",
	time.February:  "febrero",
	time.March:     "marzo",
	time.April:     "abril",
	time.May:       "mayo",
	time.June:      "junio",
	time.July:      "julio",
	time.August:    "agosto",
	time.September: "septiembre",
	time.October:   "octubre",
	time.November:  "noviembre",
	time.December:  "diciembre",
}

// WeekdayName название дня недели на испанском
func WeekdayName(wd model.Weekday) string {
	if name, ok := weekdayNames[wd]; ok {
		return name
	}
	return "?"
}

// WeekdayShortName краткое название дня недели
func WeekdayShortName(wd model.Weekday) string {
	if name, ok := weekdayShortNames[wd]; ok {
		return name
	}
	return "?"
}

// MonthName название месяца
func MonthName(month time.Month) string {
	return monthNames[month]
}

// FormatDate "Lunes 3 de junio"
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s %d de %s", WeekdayName(model.WeekdayOf(t)), t.Day(), MonthName(t.Month()))
}

// FormatDateShort "Lun 03/06"
func FormatDateShort(t time.Time) string {
	return fmt.Sprintf("%s %s", WeekdayShortName(model.WeekdayOf(t)), t.Format("02/01"))
}

// FormatTime форматирует только время
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04"))
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d h", hours)
	}
	return fmt.Sprintf("%d h %d min", hours, mins)
}
