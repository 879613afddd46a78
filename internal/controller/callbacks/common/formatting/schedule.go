package formatting

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/agenda_bot/internal/model"
)

// FormatDaySchedule одна строка дня: часы и перерывы
func FormatDaySchedule(day model.DaySchedule) string {
	if !day.IsActive {
		return "Descanso"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s-%s", day.WorkHours.Start, day.WorkHours.End))
	if len(day.Breaks) > 0 {
		breaks := make([]string, len(day.Breaks))
		for i, br := range day.Breaks {
			breaks[i] = fmt.Sprintf("%s-%s", br.Start, br.End)
		}
		sb.WriteString(" (descanso " + strings.Join(breaks, ", ") + ")")
	}
	if err := day.Validate(); err != nil {
		sb.WriteString(" ⚠️")
	}
	return sb.String()
}

// FormatWorkSchedule неделя целиком, начиная с понедельника
func FormatWorkSchedule(schedule model.WorkSchedule) string {
	if schedule == nil {
		return "Horario sin configurar"
	}

	var sb strings.Builder
	for _, wd := range model.Weekdays() {
		day := schedule.Day(wd)
		emoji := "🟢"
		if !day.IsActive {
			emoji = "⚪️"
		}
		sb.WriteString(fmt.Sprintf("%s <b>%s</b>: %s\n", emoji, WeekdayName(wd), FormatDaySchedule(day)))
	}
	return sb.String()
}
