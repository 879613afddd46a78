package availability

import (
	"fmt"

	"github.com/Freeeeeet/agenda_bot/internal/model"
)

// Decision результат проверки кандидата
type Decision struct {
	OK       bool  `json:"ok"`
	Conflict *Busy `json:"conflict,omitempty"`
}

// Check единственная проверка свободного времени: и для генерации слотов, и перед сохранением.
// Перерывы переносятся на дату занятости, а не на дату кандидата
func Check(candidate Interval, day model.DaySchedule, occ Occupancy) (Decision, error) {
	date := occ.Date
	if date.IsZero() {
		date = candidate.Start
	}

	if day.IsActive {
		for _, br := range day.Breaks {
			iv, err := MaterializeRange(date, br)
			if err != nil {
				return Decision{}, fmt.Errorf("materialize break: %w", err)
			}
			if Overlaps(candidate, iv) {
				return Decision{Conflict: &Busy{Interval: iv, Source: SourceBreak}}, nil
			}
		}
	}

	for i := range occ.Entries {
		if Overlaps(candidate, occ.Entries[i].Interval) {
			conflict := occ.Entries[i]
			return Decision{Conflict: &conflict}, nil
		}
	}

	return Decision{OK: true}, nil
}

// IsSlotAvailable вариант Check без ошибки: некорректные данные дня означают занято
func IsSlotAvailable(candidate Interval, day model.DaySchedule, occ Occupancy) bool {
	d, err := Check(candidate, day, occ)
	return err == nil && d.OK
}
