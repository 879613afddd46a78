package availability

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/model"
)

// Source откуда взялся занятый интервал
type Source string

const (
	SourceBreak       Source = "break"
	SourceAppointment Source = "appointment"
	SourceBlock       Source = "block"
)

// Busy занятый интервал с указанием источника
type Busy struct {
	Interval
	Source Source `json:"source"`
	ID     int64  `json:"id,omitempty"` // 0 для перерывов
}

// Snapshot записи специалиста, полученные за один проход
type Snapshot struct {
	Appointments []model.Appointment
	TimeBlocks   []model.TimeBlock
}

// Exclusion запись, которую сейчас редактируют. Нулевое значение ничего не исключает
type Exclusion struct {
	Kind model.EntryKind
	ID   int64
}

func (e Exclusion) IsZero() bool {
	return e.ID == 0
}

// Excludes относится ли исключение к записи
func (e Exclusion) Excludes(kind model.EntryKind, id int64) bool {
	return !e.IsZero() && e.Kind == kind && e.ID == id
}

// Occupancy занятость на конкретную дату
type Occupancy struct {
	Date    time.Time
	Entries []Busy
}

// Intervals интервалы без метаданных
func (o Occupancy) Intervals() []Interval {
	out := make([]Interval, len(o.Entries))
	for i, e := range o.Entries {
		out[i] = e.Interval
	}
	return out
}

// BuildOccupancy собирает перерывы, неотменённые записи и блокировки на дату
func BuildOccupancy(schedule model.WorkSchedule, date time.Time, snap Snapshot, ex Exclusion) (Occupancy, error) {
	occ := Occupancy{Date: StartOfDay(date)}

	day := schedule.DayFor(date)
	if day.IsActive {
		for _, br := range day.Breaks {
			iv, err := MaterializeRange(date, br)
			if err != nil {
				return Occupancy{}, fmt.Errorf("materialize break: %w", err)
			}
			occ.Entries = append(occ.Entries, Busy{Interval: iv, Source: SourceBreak})
		}
	}

	for _, a := range snap.Appointments {
		if a.IsCancelled() || ex.Excludes(model.EntryKindAppointment, a.ID) {
			continue
		}
		if !SameCalendarDay(date, a.StartTime) {
			continue
		}
		occ.Entries = append(occ.Entries, Busy{
			Interval: Interval{Start: a.StartTime, End: a.EndTime},
			Source:   SourceAppointment,
			ID:       a.ID,
		})
	}

	for _, b := range snap.TimeBlocks {
		if ex.Excludes(model.EntryKindBlock, b.ID) {
			continue
		}
		if !SameCalendarDay(date, b.StartTime) {
			continue
		}
		occ.Entries = append(occ.Entries, Busy{
			Interval: Interval{Start: b.StartTime, End: b.EndTime},
			Source:   SourceBlock,
			ID:       b.ID,
		})
	}

	return occ, nil
}
