package availability

import (
	"sort"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/model"
)

// Interval полуоткрытый интервал [Start, End)
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval интервал заданной длительности от start
func NewInterval(start time.Time, d time.Duration) Interval {
	return Interval{Start: start, End: start.Add(d)}
}

// Overlaps касающиеся интервалы не пересекаются
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func (i Interval) Overlaps(o Interval) bool {
	return Overlaps(i, o)
}

// Within целиком ли интервал внутри outer
func (i Interval) Within(outer Interval) bool {
	return !i.Start.Before(outer.Start) && !i.End.After(outer.End)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) IsEmpty() bool {
	return !i.Start.Before(i.End)
}

// SameCalendarDay сравнивает календарные даты в часовом поясе a
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay полночь календарной даты t в её часовом поясе
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ToAbsolute переносит время HH:MM на дату
func ToAbsolute(date time.Time, hhmm string) (time.Time, error) {
	c, err := model.ParseClock(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return c.On(date), nil
}

// MaterializeRange переносит диапазон времени суток на дату
func MaterializeRange(date time.Time, r model.TimeRange) (Interval, error) {
	start, end, err := r.Bounds()
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start.On(date), End: end.On(date)}, nil
}

// Subtract вырезает занятые интервалы из окна и возвращает свободные участки по порядку
func Subtract(window Interval, busy []Interval) []Interval {
	sorted := make([]Interval, 0, len(busy))
	for _, b := range busy {
		if Overlaps(window, b) {
			sorted = append(sorted, b)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var free []Interval
	cursor := window.Start
	for _, b := range sorted {
		if b.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(window.End) {
		free = append(free, Interval{Start: cursor, End: window.End})
	}
	return free
}
