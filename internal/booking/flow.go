package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/availability"
	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/google/uuid"
)

// State состояние сценария записи
type State string

const (
	StateIdle            State = "idle"
	StateDateSelected    State = "date_selected"
	StateSlotsGenerating State = "slots_generating"
	StateSlotSelected    State = "slot_selected"
	StateValidating      State = "validating"
	StateAccepted        State = "accepted"
	StateRejected        State = "rejected"
)

// SnapshotSource данные специалиста из хранилища. Каждый вызов возвращает актуальное состояние.
// Записи и блокировки отдаются те, что заканчиваются после from
type SnapshotSource interface {
	FetchSchedule(ctx context.Context, professionalID int64) (model.WorkSchedule, error)
	FetchAppointments(ctx context.Context, professionalID int64, from time.Time) ([]model.Appointment, error)
	FetchTimeBlocks(ctx context.Context, professionalID int64, from time.Time) ([]model.TimeBlock, error)
}

// ServiceCatalog длительность услуги в минутах, 0 если услуга не найдена
type ServiceCatalog interface {
	FetchServiceDuration(ctx context.Context, professionalID, serviceID int64) (int, error)
}

// Observer получает статистику генерации и проверок
type Observer interface {
	ObserveSlotsGenerated(kind string, count int)
	ObserveValidation(kind string, accepted bool)
}

type Option func(*Flow)

func WithObserver(o Observer) Option {
	return func(f *Flow) {
		f.observer = o
	}
}

// Flow сценарий записи или блокировки времени. Не потокобезопасен:
// один экземпляр обслуживает один диалог
type Flow struct {
	engine   *availability.Engine
	source   SnapshotSource
	catalog  ServiceCatalog
	observer Observer

	draft    Draft
	state    State
	slots    []string
	fieldErr *FieldError
}

// NewFlow создаёт или возобновляет сценарий из черновика
func NewFlow(engine *availability.Engine, source SnapshotSource, catalog ServiceCatalog, draft Draft, opts ...Option) *Flow {
	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}
	f := &Flow{
		engine:  engine,
		source:  source,
		catalog: catalog,
		draft:   draft,
		state:   StateIdle,
	}
	switch {
	case draft.Start != "":
		f.state = StateSlotSelected
	case draft.Date != "":
		f.state = StateDateSelected
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) State() State {
	return f.state
}

func (f *Flow) Draft() Draft {
	return f.draft
}

func (f *Flow) Kind() model.EntryKind {
	return f.draft.Kind
}

// Slots последний сгенерированный список
func (f *Flow) Slots() []string {
	out := make([]string, len(f.slots))
	copy(out, f.slots)
	return out
}

// FieldError ошибка поля после отклонения
func (f *Flow) FieldError() *FieldError {
	return f.fieldErr
}

// Dates доступные даты на горизонте для вида записи
func (f *Flow) Dates(ctx context.Context) ([]time.Time, error) {
	schedule, err := f.source.FetchSchedule(ctx, f.draft.ProfessionalID)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}
	return f.engine.ListAvailableDates(schedule, f.engine.HorizonDays(f.draft.Kind)), nil
}

// SelectDate выбор даты сбрасывает выбранный слот и заново генерирует список
func (f *Flow) SelectDate(ctx context.Context, date time.Time) ([]string, error) {
	f.draft.Date = date.In(f.engine.Location()).Format(availability.DateLayout)
	f.draft.Start = ""
	if f.draft.Kind == model.EntryKindBlock {
		f.draft.DurationMinutes = 0
	}
	f.state = StateDateSelected
	return f.generate(ctx)
}

// SelectService смена услуги меняет длительность, поэтому слоты генерируются заново
func (f *Flow) SelectService(ctx context.Context, serviceID int64) ([]string, error) {
	if f.draft.Kind != model.EntryKindAppointment {
		return nil, ErrWrongKind
	}

	minutes, err := f.catalog.FetchServiceDuration(ctx, f.draft.ProfessionalID, serviceID)
	if err != nil {
		return nil, fmt.Errorf("fetch service duration: %w", err)
	}

	f.draft.ServiceID = serviceID
	f.draft.DurationMinutes = minutes
	f.draft.Start = ""

	if f.draft.Date == "" {
		return nil, nil
	}
	return f.generate(ctx)
}

// Refresh повторная генерация для текущей даты, например после отклонения
func (f *Flow) Refresh(ctx context.Context) ([]string, error) {
	if f.draft.Date == "" {
		return nil, ErrInvalidState
	}
	keep := f.fieldErr
	slots, err := f.generate(ctx)
	f.fieldErr = keep
	return slots, err
}

func (f *Flow) generate(ctx context.Context) ([]string, error) {
	date, err := f.date()
	if err != nil {
		return nil, err
	}

	f.state = StateSlotsGenerating
	f.slots = nil
	f.fieldErr = nil

	duration := f.gridDuration()
	if duration <= 0 {
		return []string{}, nil
	}

	schedule, snap, err := f.fetch(ctx, date)
	if err != nil {
		return nil, err
	}

	slots, err := availability.Recompute(schedule, snap, date, duration, f.draft.Exclusion(), f.engine.Options().Step)
	if err != nil {
		return nil, fmt.Errorf("generate slots: %w", err)
	}
	if !f.draft.IsEdit() {
		slots = f.engine.Upcoming(date, slots)
	}
	if f.draft.IsEdit() && f.draft.Date == f.draft.CurrentDate {
		slots = availability.IncludeCurrent(slots, f.draft.CurrentTime)
	}

	f.slots = slots
	if f.observer != nil {
		f.observer.ObserveSlotsGenerated(string(f.draft.Kind), len(slots))
	}
	return f.Slots(), nil
}

// SelectSlot выбор начала из последнего сгенерированного списка
func (f *Flow) SelectSlot(start string) error {
	switch f.state {
	case StateSlotsGenerating, StateSlotSelected, StateRejected:
	default:
		return ErrInvalidState
	}
	if !contains(f.slots, start) {
		return fmt.Errorf("%w: %s", ErrSlotNotOffered, start)
	}

	if f.draft.Kind == model.EntryKindBlock {
		f.draft.DurationMinutes = f.gridDuration()
		if f.isCurrent(start) {
			if minutes := f.currentBlockMinutes(); minutes > 0 {
				f.draft.DurationMinutes = minutes
			}
		}
	}

	f.draft.Start = start
	f.fieldErr = nil
	f.state = StateSlotSelected
	return nil
}

// EndTimes варианты окончания блокировки от выбранного начала
func (f *Flow) EndTimes(ctx context.Context) ([]string, error) {
	if f.draft.Kind != model.EntryKindBlock {
		return nil, ErrWrongKind
	}
	if f.state != StateSlotSelected {
		return nil, ErrInvalidState
	}
	date, err := f.date()
	if err != nil {
		return nil, err
	}

	schedule, snap, err := f.fetch(ctx, date)
	if err != nil {
		return nil, err
	}
	occ, err := availability.BuildOccupancy(schedule, date, snap, f.draft.Exclusion())
	if err != nil {
		return nil, fmt.Errorf("build occupancy: %w", err)
	}
	ends, err := f.engine.ListEndTimes(schedule, date, f.draft.Start, occ)
	if err != nil {
		return nil, fmt.Errorf("list end times: %w", err)
	}
	if f.isCurrent(f.draft.Start) {
		ends = availability.IncludeCurrent(ends, f.draft.CurrentEnd)
	}
	return ends, nil
}

// SelectEnd задаёт окончание блокировки
func (f *Flow) SelectEnd(end string) error {
	if f.draft.Kind != model.EntryKindBlock {
		return ErrWrongKind
	}
	if f.state != StateSlotSelected {
		return ErrInvalidState
	}
	startClock, err := model.ParseClock(f.draft.Start)
	if err != nil {
		return err
	}
	endClock, err := model.ParseClock(end)
	if err != nil {
		return err
	}
	if endClock <= startClock {
		return fmt.Errorf("%w: %s-%s", model.ErrInvalidTimeRange, f.draft.Start, end)
	}
	f.draft.DurationMinutes = int(endClock - startClock)
	return nil
}

// Candidate интервал выбранного слота
func (f *Flow) Candidate() (availability.SlotCandidate, error) {
	date, err := f.date()
	if err != nil {
		return availability.SlotCandidate{}, err
	}
	if f.draft.Start == "" {
		return availability.SlotCandidate{}, ErrInvalidState
	}
	return availability.CandidateAt(date, f.draft.Start, f.draft.DurationMinutes)
}

// Validate повторная проверка выбранного слота по заново полученным данным
func (f *Flow) Validate(ctx context.Context) (availability.Decision, error) {
	if f.state != StateSlotSelected {
		return availability.Decision{}, ErrInvalidState
	}
	if f.draft.DurationMinutes <= 0 {
		return availability.Decision{}, ErrNoDuration
	}
	candidate, err := f.Candidate()
	if err != nil {
		return availability.Decision{}, err
	}
	if !f.draft.IsEdit() && candidate.Start.Before(f.engine.Now()) {
		f.state = StateRejected
		f.fieldErr = &FieldError{Field: FieldTime, Code: CodeInPast}
		return availability.Decision{}, ErrSlotInPast
	}

	schedule, snap, err := f.fetch(ctx, candidate.Start)
	if err != nil {
		return availability.Decision{}, err
	}

	f.state = StateValidating
	occ, err := availability.BuildOccupancy(schedule, candidate.Start, snap, f.draft.Exclusion())
	if err != nil {
		f.state = StateSlotSelected
		return availability.Decision{}, fmt.Errorf("build occupancy: %w", err)
	}
	decision, err := f.engine.ValidateCandidate(candidate, schedule, occ)
	if err != nil {
		f.state = StateSlotSelected
		return availability.Decision{}, fmt.Errorf("validate candidate: %w", err)
	}

	if f.observer != nil {
		f.observer.ObserveValidation(string(f.draft.Kind), decision.OK)
	}

	if !decision.OK {
		f.state = StateRejected
		f.fieldErr = &FieldError{Field: FieldTime, Code: CodeUnavailable}
		return decision, &RejectionError{Field: *f.fieldErr, Conflict: decision.Conflict}
	}

	f.state = StateAccepted
	return decision, nil
}

// CommitAppointment проверяет слот и возвращает запись для сохранения
func (f *Flow) CommitAppointment(ctx context.Context, clientID int64, status model.AppointmentStatus) (model.Appointment, error) {
	if f.draft.Kind != model.EntryKindAppointment {
		return model.Appointment{}, ErrWrongKind
	}
	if _, err := f.Validate(ctx); err != nil {
		return model.Appointment{}, err
	}
	candidate, err := f.Candidate()
	if err != nil {
		return model.Appointment{}, err
	}

	appt := availability.BuildBookingPayload(candidate, f.draft.ServiceID, clientID, status)
	appt.ID = f.draft.EditingID
	appt.ProfessionalID = f.draft.ProfessionalID
	return appt, nil
}

// CommitBlock проверяет интервал и возвращает блокировку для сохранения
func (f *Flow) CommitBlock(ctx context.Context, title string) (model.TimeBlock, error) {
	if f.draft.Kind != model.EntryKindBlock {
		return model.TimeBlock{}, ErrWrongKind
	}
	if _, err := f.Validate(ctx); err != nil {
		return model.TimeBlock{}, err
	}
	candidate, err := f.Candidate()
	if err != nil {
		return model.TimeBlock{}, err
	}

	block := availability.BuildBlockPayload(candidate, title)
	block.ID = f.draft.EditingID
	block.ProfessionalID = f.draft.ProfessionalID
	return block, nil
}

// fetch снимок данных, достаточный для дня day
func (f *Flow) fetch(ctx context.Context, day time.Time) (model.WorkSchedule, availability.Snapshot, error) {
	id := f.draft.ProfessionalID
	from := availability.StartOfDay(day.In(f.engine.Location()))

	schedule, err := f.source.FetchSchedule(ctx, id)
	if err != nil {
		return nil, availability.Snapshot{}, fmt.Errorf("fetch schedule: %w", err)
	}
	appointments, err := f.source.FetchAppointments(ctx, id, from)
	if err != nil {
		return nil, availability.Snapshot{}, fmt.Errorf("fetch appointments: %w", err)
	}
	blocks, err := f.source.FetchTimeBlocks(ctx, id, from)
	if err != nil {
		return nil, availability.Snapshot{}, fmt.Errorf("fetch time blocks: %w", err)
	}

	return schedule, availability.Snapshot{Appointments: appointments, TimeBlocks: blocks}, nil
}

func (f *Flow) date() (time.Time, error) {
	if f.draft.Date == "" {
		return time.Time{}, ErrInvalidState
	}
	return f.engine.ParseDate(f.draft.Date)
}

// gridDuration длительность, по которой строится сетка слотов
func (f *Flow) gridDuration() int {
	if f.draft.Kind == model.EntryKindBlock {
		return int(f.engine.Options().BlockGranularity / time.Minute)
	}
	return f.draft.DurationMinutes
}

// isCurrent совпадает ли начало с исходным значением редактируемой записи
func (f *Flow) isCurrent(start string) bool {
	return f.draft.IsEdit() && f.draft.Date == f.draft.CurrentDate && start == f.draft.CurrentTime
}

func (f *Flow) currentBlockMinutes() int {
	start, err := model.ParseClock(f.draft.CurrentTime)
	if err != nil {
		return 0
	}
	end, err := model.ParseClock(f.draft.CurrentEnd)
	if err != nil {
		return 0
	}
	return int(end - start)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
