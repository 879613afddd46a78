package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	// ErrInvalidTimeFormat строка времени не соответствует формату HH:MM
	ErrInvalidTimeFormat = errors.New("invalid time format")
	// ErrInvalidTimeRange начало диапазона не раньше его конца
	ErrInvalidTimeRange = errors.New("invalid time range")
)

// Weekday канонический ключ дня недели, не зависящий от языка интерфейса
type Weekday string

const (
	Monday    Weekday = "MON"
	Tuesday   Weekday = "TUE"
	Wednesday Weekday = "WED"
	Thursday  Weekday = "THU"
	Friday    Weekday = "FRI"
	Saturday  Weekday = "SAT"
	Sunday    Weekday = "SUN"
)

var weekdayOrder = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Сохранённые расписания исторически используют испанские названия дней
var weekdayAliases = map[string]Weekday{
	"mon": Monday, "monday": Monday, "lunes": Monday,
	"tue": Tuesday, "tuesday": Tuesday, "martes": Tuesday,
	"wed": Wednesday, "wednesday": Wednesday, "miércoles": Wednesday, "miercoles": Wednesday,
	"thu": Thursday, "thursday": Thursday, "jueves": Thursday,
	"fri": Friday, "friday": Friday, "viernes": Friday,
	"sat": Saturday, "saturday": Saturday, "sábado": Saturday, "sabado": Saturday,
	"sun": Sunday, "sunday": Sunday, "domingo": Sunday,
}

// Weekdays возвращает дни недели начиная с понедельника
func Weekdays() []Weekday {
	out := make([]Weekday, len(weekdayOrder))
	copy(out, weekdayOrder)
	return out
}

// ParseWeekday приводит канонический код или алиас к Weekday
func ParseWeekday(s string) (Weekday, bool) {
	wd, ok := weekdayAliases[strings.ToLower(strings.TrimSpace(s))]
	return wd, ok
}

// WeekdayOf возвращает ключ дня недели для даты
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// Key ключ дня в сохранённом JSON
func (w Weekday) Key() string {
	return strings.ToLower(string(w))
}

// TimeRange диапазон времени суток без даты
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Bounds разбирает границы диапазона
func (r TimeRange) Bounds() (Clock, Clock, error) {
	start, err := ParseClock(r.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseClock(r.End)
	if err != nil {
		return 0, 0, err
	}
	if start >= end {
		return 0, 0, fmt.Errorf("%w: %s-%s", ErrInvalidTimeRange, r.Start, r.End)
	}
	return start, end, nil
}

// DaySchedule рабочий день: часы работы и перерывы
type DaySchedule struct {
	IsActive  bool        `json:"is_active"`
	WorkHours TimeRange   `json:"work_hours"`
	Breaks    []TimeRange `json:"breaks"`
}

// Validate проверяет все строки времени дня. Неактивный день всегда валиден
func (d DaySchedule) Validate() error {
	if !d.IsActive {
		return nil
	}
	if _, _, err := d.WorkHours.Bounds(); err != nil {
		return fmt.Errorf("work hours: %w", err)
	}
	for i, br := range d.Breaks {
		if _, _, err := br.Bounds(); err != nil {
			return fmt.Errorf("break %d: %w", i+1, err)
		}
	}
	return nil
}

// WorkSchedule недельное расписание. Отсутствующий день считается нерабочим
type WorkSchedule map[Weekday]DaySchedule

// DefaultDaySchedule шаблон для нового рабочего дня
func DefaultDaySchedule() DaySchedule {
	return DaySchedule{
		IsActive:  true,
		WorkHours: TimeRange{Start: "09:00", End: "18:00"},
		Breaks:    []TimeRange{{Start: "13:00", End: "14:00"}},
	}
}

// Day возвращает расписание дня или неактивный день
func (s WorkSchedule) Day(wd Weekday) DaySchedule {
	if s == nil {
		return DaySchedule{}
	}
	return s[wd]
}

// DayFor возвращает расписание для дня недели даты
func (s WorkSchedule) DayFor(date time.Time) DaySchedule {
	return s.Day(WeekdayOf(date))
}

// Validate собирает ошибки всех некорректных дней
func (s WorkSchedule) Validate() error {
	var errs []error
	for _, wd := range weekdayOrder {
		day, ok := s[wd]
		if !ok {
			continue
		}
		if err := day.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", wd, err))
		}
	}
	return errors.Join(errs...)
}

// Clone возвращает глубокую копию расписания
func (s WorkSchedule) Clone() WorkSchedule {
	if s == nil {
		return nil
	}
	out := make(WorkSchedule, len(s))
	for wd, day := range s {
		breaks := make([]TimeRange, len(day.Breaks))
		copy(breaks, day.Breaks)
		day.Breaks = breaks
		out[wd] = day
	}
	return out
}

func (s WorkSchedule) MarshalJSON() ([]byte, error) {
	raw := make(map[string]DaySchedule, len(s))
	for wd, day := range s {
		raw[wd.Key()] = day
	}
	return json.Marshal(raw)
}

// UnmarshalJSON принимает канонические коды и алиасы дней. Неизвестные ключи пропускаются,
// при дублях побеждает канонический код
func (s *WorkSchedule) UnmarshalJSON(data []byte) error {
	var raw map[string]DaySchedule
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(WorkSchedule, len(raw))
	canonical := make(map[Weekday]bool)
	for _, k := range keys {
		wd, ok := ParseWeekday(k)
		if !ok {
			continue
		}
		isCanonical := strings.EqualFold(k, string(wd))
		if _, seen := out[wd]; seen && (canonical[wd] || !isCanonical) {
			continue
		}
		out[wd] = raw[k]
		canonical[wd] = isCanonical
	}
	*s = out
	return nil
}
