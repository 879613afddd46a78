package availability

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/model"
)

// ErrInvalidTimeFormat см. model.ErrInvalidTimeFormat
var ErrInvalidTimeFormat = model.ErrInvalidTimeFormat

// DateLayout формат календарной даты во внешних интерфейсах
const DateLayout = "2006-01-02"

// Options параметры генерации
type Options struct {
	Step                   time.Duration
	AppointmentHorizonDays int
	BlockHorizonDays       int
	BlockGranularity       time.Duration
	Location               *time.Location
	Now                    func() time.Time
}

func DefaultOptions() Options {
	return Options{
		Step:                   DefaultStep,
		AppointmentHorizonDays: 21,
		BlockHorizonDays:       30,
		BlockGranularity:       DefaultStep,
		Location:               time.Local,
		Now:                    time.Now,
	}
}

// Engine внешние операции доступности с заданными параметрами
type Engine struct {
	opts Options
}

// NewEngine нулевые поля заполняются значениями по умолчанию
func NewEngine(opts Options) *Engine {
	def := DefaultOptions()
	if opts.Step <= 0 {
		opts.Step = def.Step
	}
	if opts.AppointmentHorizonDays <= 0 {
		opts.AppointmentHorizonDays = def.AppointmentHorizonDays
	}
	if opts.BlockHorizonDays <= 0 {
		opts.BlockHorizonDays = def.BlockHorizonDays
	}
	if opts.BlockGranularity <= 0 {
		opts.BlockGranularity = def.BlockGranularity
	}
	if opts.Location == nil {
		opts.Location = def.Location
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	return &Engine{opts: opts}
}

func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) Location() *time.Location {
	return e.opts.Location
}

// Now текущий момент в часовом поясе движка
func (e *Engine) Now() time.Time {
	return e.opts.Now().In(e.opts.Location)
}

// Today полночь текущего дня
func (e *Engine) Today() time.Time {
	return StartOfDay(e.Now())
}

// HorizonDays горизонт для вида записи
func (e *Engine) HorizonDays(kind model.EntryKind) int {
	if kind == model.EntryKindBlock {
		return e.opts.BlockHorizonDays
	}
	return e.opts.AppointmentHorizonDays
}

// ParseDate разбирает дату YYYY-MM-DD в часовом поясе движка
func (e *Engine) ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, e.opts.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ListAvailableDates рабочие даты начиная с сегодняшней
func (e *Engine) ListAvailableDates(schedule model.WorkSchedule, horizonDays int) []time.Time {
	return AvailableDates(schedule, horizonDays, e.Today())
}

func (e *Engine) ListAvailableSlots(schedule model.WorkSchedule, date time.Time, durationMinutes int, occ Occupancy) ([]string, error) {
	return AvailableSlots(schedule, date.In(e.opts.Location), durationMinutes, occ, e.opts.Step)
}

// ListEndTimes варианты окончания блокировки с шагом BlockGranularity
func (e *Engine) ListEndTimes(schedule model.WorkSchedule, date time.Time, start string, occ Occupancy) ([]string, error) {
	return AvailableEndTimes(schedule, date.In(e.opts.Location), start, occ, e.opts.BlockGranularity)
}

// Upcoming слоты даты, которые ещё не начались
func (e *Engine) Upcoming(date time.Time, slots []string) []string {
	return DropPast(date.In(e.opts.Location), slots, e.Now())
}

// ValidateCandidate проверяет кандидата против расписания его дня и занятости
func (e *Engine) ValidateCandidate(c SlotCandidate, schedule model.WorkSchedule, occ Occupancy) (Decision, error) {
	day := schedule.DayFor(c.Start.In(e.opts.Location))
	return Check(c.Interval(), day, occ)
}
