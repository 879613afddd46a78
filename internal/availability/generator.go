package availability

import (
	"sort"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/model"
)

// DefaultStep шаг сетки слотов
const DefaultStep = 30 * time.Minute

// AvailableDates рабочие даты начиная с from на horizonDays дней вперёд.
// Без расписания доступна только сама дата from. Дни с некорректным временем пропускаются
func AvailableDates(schedule model.WorkSchedule, horizonDays int, from time.Time) []time.Time {
	start := StartOfDay(from)
	if len(schedule) == 0 {
		return []time.Time{start}
	}

	if horizonDays < 0 {
		horizonDays = 0
	}
	dates := make([]time.Time, 0, horizonDays)
	for i := 0; i < horizonDays; i++ {
		date := start.AddDate(0, 0, i)
		day := schedule.DayFor(date)
		if !day.IsActive || day.Validate() != nil {
			continue
		}
		dates = append(dates, date)
	}
	return dates
}

// AvailableSlots начала слотов HH:MM по сетке step, в которые помещается услуга длительностью durationMinutes
func AvailableSlots(schedule model.WorkSchedule, date time.Time, durationMinutes int, occ Occupancy, step time.Duration) ([]string, error) {
	slots := make([]string, 0)
	if schedule == nil || durationMinutes <= 0 {
		return slots, nil
	}

	day := schedule.DayFor(date)
	if !day.IsActive {
		return slots, nil
	}
	if err := day.Validate(); err != nil {
		return nil, err
	}
	if step <= 0 {
		step = DefaultStep
	}

	window, err := MaterializeRange(date, day.WorkHours)
	if err != nil {
		return nil, err
	}
	if occ.Date.IsZero() {
		occ.Date = StartOfDay(date)
	}

	duration := time.Duration(durationMinutes) * time.Minute
	for cursor := window.Start; !cursor.Add(duration).After(window.End); cursor = cursor.Add(step) {
		if IsSlotAvailable(NewInterval(cursor, duration), day, occ) {
			slots = append(slots, model.ClockOf(cursor).String())
		}
	}
	return slots, nil
}

// AvailableEndTimes варианты окончания блокировки от start: шагами step, пока интервал свободен
// и не выходит за конец рабочего дня
func AvailableEndTimes(schedule model.WorkSchedule, date time.Time, start string, occ Occupancy, step time.Duration) ([]string, error) {
	ends := make([]string, 0)
	if schedule == nil {
		return ends, nil
	}

	day := schedule.DayFor(date)
	if !day.IsActive {
		return ends, nil
	}
	if err := day.Validate(); err != nil {
		return nil, err
	}
	if step <= 0 {
		step = DefaultStep
	}

	window, err := MaterializeRange(date, day.WorkHours)
	if err != nil {
		return nil, err
	}
	from, err := ToAbsolute(date, start)
	if err != nil {
		return nil, err
	}
	if occ.Date.IsZero() {
		occ.Date = StartOfDay(date)
	}

	for end := from.Add(step); !end.After(window.End); end = end.Add(step) {
		if !IsSlotAvailable(Interval{Start: from, End: end}, day, occ) {
			break
		}
		ends = append(ends, model.ClockOf(end).String())
	}
	return ends, nil
}

// DropPast убирает слоты, начало которых уже прошло. Касается только сегодняшней даты
func DropPast(date time.Time, slots []string, now time.Time) []string {
	if !SameCalendarDay(now, date) {
		return slots
	}
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		start, err := ToAbsolute(date, s)
		if err != nil || start.Before(now) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// IncludeCurrent добавляет текущее значение редактируемой записи, если его нет в списке
func IncludeCurrent(slots []string, current string) []string {
	if current == "" {
		return slots
	}
	for _, s := range slots {
		if s == current {
			return slots
		}
	}
	out := make([]string, 0, len(slots)+1)
	out = append(out, slots...)
	out = append(out, current)
	sort.Strings(out)
	return out
}

// Recompute пересчитывает слоты даты по свежему снимку данных
func Recompute(schedule model.WorkSchedule, snap Snapshot, date time.Time, durationMinutes int, ex Exclusion, step time.Duration) ([]string, error) {
	occ, err := BuildOccupancy(schedule, date, snap, ex)
	if err != nil {
		return nil, err
	}
	return AvailableSlots(schedule, date, durationMinutes, occ, step)
}

// FreeWindows свободные участки рабочего дня с учётом занятости
func FreeWindows(schedule model.WorkSchedule, date time.Time, occ Occupancy) ([]Interval, error) {
	day := schedule.DayFor(date)
	if !day.IsActive {
		return nil, nil
	}
	window, err := MaterializeRange(date, day.WorkHours)
	if err != nil {
		return nil, err
	}
	return Subtract(window, occ.Intervals()), nil
}
