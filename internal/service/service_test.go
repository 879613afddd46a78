package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/availability"
	"github.com/Freeeeeet/agenda_bot/internal/booking"
	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 2024-06-03 понедельник
var monday = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return monday.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

type fixture struct {
	professionals *memProfessionals
	services      *memServices
	clients       *memClients
	appointments  *memAppointments
	blocks        *memBlocks
	recorder      *commitCounter

	appointmentSvc *AppointmentService
	blockSvc       *TimeBlockService
	agendaSvc      *AgendaService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		professionals: newMemProfessionals(
			&model.Professional{
				ID:         1,
				TelegramID: 500,
				WorkSchedule: model.WorkSchedule{
					model.Monday: {
						IsActive:  true,
						WorkHours: model.TimeRange{Start: "09:00", End: "17:00"},
						Breaks:    []model.TimeRange{{Start: "13:00", End: "14:00"}},
					},
				},
			},
			&model.Professional{ID: 2, TelegramID: 600},
		),
		services: newMemServices(
			&model.Service{ID: 10, ProfessionalID: 1, Name: "Consulta", Duration: 60, IsActive: true},
			&model.Service{ID: 11, ProfessionalID: 2, Name: "Masaje", Duration: 30, IsActive: true},
		),
		clients: newMemClients(
			&model.Client{ID: 20, ProfessionalID: 1, Name: "Lucía"},
			&model.Client{ID: 21, ProfessionalID: 2, Name: "Pedro"},
		),
		appointments: newMemAppointments(),
		blocks:       newMemBlocks(),
		recorder:     newCommitCounter(),
	}

	source := &memSource{
		professionals: f.professionals,
		appointments:  f.appointments,
		blocks:        f.blocks,
		services:      f.services,
	}
	engines := NewEngineFactory(availability.Options{
		Location: time.UTC,
		Now:      func() time.Time { return at(8, 0) },
	})
	logger := zap.NewNop()

	f.appointmentSvc = NewAppointmentService(engines, f.professionals, source, source, f.appointments, f.services, f.clients, f.recorder, logger)
	f.blockSvc = NewTimeBlockService(engines, f.professionals, source, source, f.blocks, f.recorder, logger)
	f.agendaSvc = NewAgendaService(engines, f.professionals, f.appointments, f.blocks)
	return f
}

func (f *fixture) startAppointment(t *testing.T, start string) *booking.Flow {
	t.Helper()
	ctx := context.Background()

	flow, err := f.appointmentSvc.NewFlow(ctx, 1)
	require.NoError(t, err)
	_, err = flow.SelectDate(ctx, monday)
	require.NoError(t, err)
	_, err = flow.SelectService(ctx, 10)
	require.NoError(t, err)
	require.NoError(t, flow.SelectSlot(start))
	return flow
}

func TestAppointmentService_SecondCommitForSameSlotIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.startAppointment(t, "10:00")
	second := f.startAppointment(t, "10:00")

	appt, err := f.appointmentSvc.Commit(ctx, first, 20)
	require.NoError(t, err)
	assert.Equal(t, "Consulta", appt.Title)
	assert.Equal(t, at(10, 0), appt.StartTime)
	assert.Equal(t, at(11, 0), appt.EndTime)
	assert.Equal(t, model.AppointmentStatusConfirmed, appt.Status)

	_, err = f.appointmentSvc.Commit(ctx, second, 20)
	require.Error(t, err)
	assert.ErrorIs(t, err, booking.ErrSlotUnavailable)

	var rejection *booking.RejectionError
	require.ErrorAs(t, err, &rejection)
	require.NotNil(t, rejection.Conflict)
	assert.Equal(t, appt.ID, rejection.Conflict.ID)
	assert.Equal(t, booking.StateRejected, second.State())

	assert.Len(t, f.appointments.byID, 1)
	assert.Equal(t, 1, f.recorder.commits["appointment/create"])
	assert.Equal(t, 1, f.recorder.rejected)
}

func TestAppointmentService_RejectedFlowOffersFreshSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.startAppointment(t, "10:00")
	second := f.startAppointment(t, "10:00")
	_, err := f.appointmentSvc.Commit(ctx, first, 20)
	require.NoError(t, err)
	_, err = f.appointmentSvc.Commit(ctx, second, 20)
	require.Error(t, err)

	slots, err := second.Refresh(ctx)
	require.NoError(t, err)
	assert.NotContains(t, slots, "10:00")
	assert.NotContains(t, slots, "09:30")
	assert.Contains(t, slots, "11:00")
	require.NotNil(t, second.FieldError())
	assert.Equal(t, booking.FieldTime, second.FieldError().Field)
}

func TestAppointmentService_CommitRejectsForeignClient(t *testing.T) {
	f := newFixture(t)

	flow := f.startAppointment(t, "10:00")
	_, err := f.appointmentSvc.Commit(context.Background(), flow, 21)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Empty(t, f.appointments.byID)
}

func TestAppointmentService_Reschedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	existing := &model.Appointment{
		ProfessionalID: 1,
		ClientID:       20,
		ServiceID:      10,
		StartTime:      at(10, 0),
		EndTime:        at(11, 0),
		Title:          "Consulta",
		Status:         model.AppointmentStatusPending,
	}
	require.NoError(t, f.appointments.Create(ctx, existing))

	flow, err := f.appointmentSvc.EditFlow(ctx, 1, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StateSlotSelected, flow.State())

	slots, err := flow.Refresh(ctx)
	require.NoError(t, err)
	assert.Contains(t, slots, "10:00")
	assert.Contains(t, slots, "09:30")

	require.NoError(t, flow.SelectSlot("15:00"))
	updated, err := f.appointmentSvc.Commit(ctx, flow, 0)
	require.NoError(t, err)

	assert.Equal(t, existing.ID, updated.ID)
	assert.Equal(t, at(15, 0), updated.StartTime)
	assert.Equal(t, at(16, 0), updated.EndTime)
	assert.Equal(t, int64(20), updated.ClientID)
	assert.Equal(t, model.AppointmentStatusPending, updated.Status)
	assert.Len(t, f.appointments.byID, 1)
	assert.Equal(t, 1, f.recorder.commits["appointment/update"])
}

func TestAppointmentService_CancelFreesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.appointmentSvc.Commit(ctx, f.startAppointment(t, "10:00"), 20)
	require.NoError(t, err)

	assert.ErrorIs(t, f.appointmentSvc.Cancel(ctx, 2, appt.ID), ErrNotOwner)
	require.NoError(t, f.appointmentSvc.Cancel(ctx, 1, appt.ID))

	flow, err := f.appointmentSvc.NewFlow(ctx, 1)
	require.NoError(t, err)
	_, err = flow.SelectDate(ctx, monday)
	require.NoError(t, err)
	slots, err := flow.SelectService(ctx, 10)
	require.NoError(t, err)
	assert.Contains(t, slots, "10:00")

	day, err := f.appointmentSvc.ListDay(ctx, 1, at(12, 0))
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.True(t, day[0].IsCancelled())
}

func TestAppointmentService_MissingEntities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.appointmentSvc.NewFlow(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.appointmentSvc.EditFlow(ctx, 1, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, f.appointmentSvc.Delete(ctx, 1, 999), ErrNotFound)

	_, err = f.appointmentSvc.ResumeFlow(ctx, booking.NewDraft(model.EntryKindBlock, 1))
	assert.ErrorIs(t, err, booking.ErrWrongKind)
}

func TestTimeBlockService_CreateBlocksAppointments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	flow, err := f.blockSvc.NewFlow(ctx, 1)
	require.NoError(t, err)
	slots, err := flow.SelectDate(ctx, monday)
	require.NoError(t, err)
	assert.Contains(t, slots, "09:00")
	assert.NotContains(t, slots, "13:00")

	require.NoError(t, flow.SelectSlot("15:00"))
	ends, err := flow.EndTimes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"15:30", "16:00", "16:30", "17:00"}, ends)
	require.NoError(t, flow.SelectEnd("16:00"))

	block, err := f.blockSvc.Commit(ctx, flow, "")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultBlockTitle, block.Title)
	assert.Equal(t, at(15, 0), block.StartTime)
	assert.Equal(t, at(16, 0), block.EndTime)

	appt, err := f.appointmentSvc.NewFlow(ctx, 1)
	require.NoError(t, err)
	_, err = appt.SelectDate(ctx, monday)
	require.NoError(t, err)
	apptSlots, err := appt.SelectService(ctx, 10)
	require.NoError(t, err)
	assert.Contains(t, apptSlots, "14:00")
	assert.NotContains(t, apptSlots, "14:30")
	assert.NotContains(t, apptSlots, "15:00")
	assert.Contains(t, apptSlots, "16:00")
}

func TestTimeBlockService_EditKeepsTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	existing := &model.TimeBlock{ProfessionalID: 1, StartTime: at(15, 0), EndTime: at(16, 0), Title: "Vacaciones"}
	require.NoError(t, f.blocks.Create(ctx, existing))

	flow, err := f.blockSvc.EditFlow(ctx, 1, existing.ID)
	require.NoError(t, err)
	slots, err := flow.Refresh(ctx)
	require.NoError(t, err)
	assert.Contains(t, slots, "15:00")

	require.NoError(t, flow.SelectSlot("15:00"))
	ends, err := flow.EndTimes(ctx)
	require.NoError(t, err)
	assert.Contains(t, ends, "16:00")
	require.NoError(t, flow.SelectEnd("17:00"))

	updated, err := f.blockSvc.Commit(ctx, flow, "")
	require.NoError(t, err)
	assert.Equal(t, "Vacaciones", updated.Title)
	assert.Equal(t, at(17, 0), updated.EndTime)
	assert.Len(t, f.blocks.byID, 1)

	assert.ErrorIs(t, f.blockSvc.Delete(ctx, 2, existing.ID), ErrNotOwner)
	require.NoError(t, f.blockSvc.Delete(ctx, 1, existing.ID))
	assert.Empty(t, f.blocks.byID)
}

func TestAgendaService_DayComputesFreeWindows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.appointments.Create(ctx, &model.Appointment{
		ProfessionalID: 1, StartTime: at(10, 0), EndTime: at(11, 0), Status: model.AppointmentStatusConfirmed,
	}))
	require.NoError(t, f.appointments.Create(ctx, &model.Appointment{
		ProfessionalID: 1, StartTime: at(11, 0), EndTime: at(12, 0), Status: model.AppointmentStatusCancelled,
	}))
	require.NoError(t, f.blocks.Create(ctx, &model.TimeBlock{
		ProfessionalID: 1, StartTime: at(15, 0), EndTime: at(16, 0), Title: model.DefaultBlockTitle,
	}))

	agenda, err := f.agendaSvc.Today(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, monday, agenda.Date)
	assert.Len(t, agenda.Appointments, 2)
	assert.Len(t, agenda.Active(), 1)
	assert.False(t, agenda.IsEmpty())

	want := []availability.Interval{
		{Start: at(9, 0), End: at(10, 0)},
		{Start: at(11, 0), End: at(13, 0)},
		{Start: at(14, 0), End: at(15, 0)},
		{Start: at(16, 0), End: at(17, 0)},
	}
	assert.Equal(t, want, agenda.Free)
}

func TestAgendaService_InactiveDay(t *testing.T) {
	f := newFixture(t)

	agenda, err := f.agendaSvc.Day(context.Background(), 1, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, agenda.IsEmpty())
	assert.Empty(t, agenda.Free)
}

func TestProfessionalService_Register(t *testing.T) {
	repo := newMemProfessionals()
	svc := NewProfessionalService(repo, nil, zap.NewNop())
	ctx := context.Background()

	p, err := svc.Register(ctx, 700, "ana", "Ana", "", "es", "")
	require.NoError(t, err)
	require.NotZero(t, p.ID)
	assert.True(t, p.WorkSchedule.Day(model.Monday).IsActive)
	assert.True(t, p.WorkSchedule.Day(model.Friday).IsActive)
	assert.False(t, p.WorkSchedule.Day(model.Saturday).IsActive)

	again, err := svc.Register(ctx, 700, "ana_g", "Ana", "García", "es", "")
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, "ana_g", again.Username)
	assert.Len(t, repo.byID, 1)
}

func TestProfessionalService_EditSchedule(t *testing.T) {
	repo := newMemProfessionals(&model.Professional{ID: 1, TelegramID: 500})
	svc := NewProfessionalService(repo, nil, zap.NewNop())
	ctx := context.Background()

	schedule, err := svc.ToggleDay(ctx, 1, model.Saturday)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultDaySchedule(), schedule[model.Saturday])

	schedule, err = svc.SetWorkHours(ctx, 1, model.Saturday, "10:00", "14:00")
	require.NoError(t, err)
	assert.Equal(t, "14:00", schedule[model.Saturday].WorkHours.End)

	_, err = svc.SetWorkHours(ctx, 1, model.Saturday, "18:00", "09:00")
	assert.ErrorIs(t, err, model.ErrInvalidTimeRange)
	assert.Equal(t, "10:00", repo.byID[1].WorkSchedule[model.Saturday].WorkHours.Start)

	_, err = svc.AddBreak(ctx, 1, model.Saturday, "25:00", "26:00")
	assert.ErrorIs(t, err, model.ErrInvalidTimeFormat)

	schedule, err = svc.ClearBreaks(ctx, 1, model.Saturday)
	require.NoError(t, err)
	assert.Empty(t, schedule[model.Saturday].Breaks)

	schedule, err = svc.ToggleDay(ctx, 1, model.Saturday)
	require.NoError(t, err)
	assert.False(t, schedule[model.Saturday].IsActive)

	_, err = svc.AddBreak(ctx, 1, model.Sunday, "10:00", "11:00")
	assert.Error(t, err)
}

func TestProfessionalService_SetTimezone(t *testing.T) {
	repo := newMemProfessionals(&model.Professional{ID: 1})
	svc := NewProfessionalService(repo, nil, zap.NewNop())

	assert.ErrorIs(t, svc.SetTimezone(context.Background(), 1, "Mars/Olympus"), ErrInvalidTimezone)
	require.NoError(t, svc.SetTimezone(context.Background(), 1, "Europe/Madrid"))
	assert.Equal(t, "Europe/Madrid", repo.byID[1].Timezone)
}

func TestCatalogService(t *testing.T) {
	services := newMemServices(&model.Service{ID: 11, ProfessionalID: 2, Name: "Masaje", Duration: 30, IsActive: true})
	clients := newMemClients(&model.Client{ID: 21, ProfessionalID: 2, Name: "Pedro"})
	svc := NewCatalogService(services, clients, &memHistory{}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.CreateService(ctx, 1, "Consulta", 0, 3000)
	assert.ErrorIs(t, err, ErrInvalidDuration)
	_, err = svc.CreateService(ctx, 1, "  ", 30, 3000)
	assert.ErrorIs(t, err, ErrInvalidName)

	created, err := svc.CreateService(ctx, 1, " Consulta ", 45, 3000)
	require.NoError(t, err)
	assert.Equal(t, "Consulta", created.Name)
	assert.True(t, created.IsActive)

	toggled, err := svc.ToggleService(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	active, err := svc.ListServices(ctx, 1, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = svc.ToggleService(ctx, 1, 11)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.ErrorIs(t, svc.DeleteService(ctx, 1, 999), ErrNotFound)

	client, err := svc.CreateClient(ctx, 1, "Lucía", "lucia@example.com", "", "")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.DeleteClient(ctx, 1, 21), ErrNotOwner)
	require.NoError(t, svc.DeleteClient(ctx, 1, client.ID))
	assert.Equal(t, []int64{client.ID}, clients.deleted)
}

func TestProfessionalService_RegisterRequiresInvitation(t *testing.T) {
	repo := newMemProfessionals()
	invitations := NewInvitationService(newMemInvitations(), zap.NewNop())
	svc := NewProfessionalService(repo, invitations, zap.NewNop())
	ctx := context.Background()

	// первый специалист регистрируется без кода
	owner, err := svc.Register(ctx, 700, "ana", "Ana", "", "es", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, 701, "luis", "Luis", "", "es", "")
	assert.ErrorIs(t, err, ErrInvitationRequired)
	_, err = svc.Register(ctx, 701, "luis", "Luis", "", "es", "NOPE0-NOPE0")
	assert.ErrorIs(t, err, ErrInvalidInvitation)
	assert.Len(t, repo.byID, 1)

	inv, err := invitations.Create(ctx, owner.ID)
	require.NoError(t, err)

	luis, err := svc.Register(ctx, 701, "luis", "Luis", "", "es", strings.ToLower(inv.Code))
	require.NoError(t, err)
	assert.NotEqual(t, owner.ID, luis.ID)

	// код одноразовый
	_, err = svc.Register(ctx, 702, "eva", "Eva", "", "es", inv.Code)
	assert.ErrorIs(t, err, ErrInvalidInvitation)

	// зарегистрированному специалисту код не нужен
	again, err := svc.Register(ctx, 701, "luis_m", "Luis", "", "es", "")
	require.NoError(t, err)
	assert.Equal(t, luis.ID, again.ID)
}

func TestInvitationService(t *testing.T) {
	repo := newMemInvitations(&model.Invitation{ID: 1, Code: "TAKEN-00000", CreatedBy: 9})
	svc := NewInvitationService(repo, zap.NewNop())
	ctx := context.Background()

	codes := []string{"TAKEN-00000", "FRESH-11111"}
	svc.generate = func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}

	inv, err := svc.Create(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "FRESH-11111", inv.Code)
	assert.Equal(t, int64(5), inv.CreatedBy)

	pending, err := svc.ListPending(ctx, 5)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	invitedBy, err := svc.ValidateAndUse(ctx, " fresh-11111 ", 800)
	require.NoError(t, err)
	assert.Equal(t, int64(5), invitedBy)
	require.NotNil(t, inv.UsedByTelegramID)
	assert.Equal(t, int64(800), *inv.UsedByTelegramID)

	pending, err = svc.ListPending(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = svc.ValidateAndUse(ctx, "   ", 800)
	assert.ErrorIs(t, err, ErrInvitationRequired)
}

func TestRandomCodeFormat(t *testing.T) {
	code, err := randomCode()
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z2-7]{5}-[A-Z2-7]{5}$`, code)
}

func TestCatalogService_UpdateServiceRecordsHistory(t *testing.T) {
	services := newMemServices(&model.Service{ID: 11, ProfessionalID: 1, Name: "Masaje", Duration: 30, Price: 30000, IsActive: true})
	history := &memHistory{}
	svc := NewCatalogService(services, newMemClients(), history, zap.NewNop())
	ctx := context.Background()

	name, duration, price := "Masaje", 45, 35000
	updated, err := svc.UpdateService(ctx, 1, 11, ServiceChanges{Name: &name, Duration: &duration, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 45, updated.Duration)
	assert.Equal(t, 35000, services.byID[11].Price)

	// имя не изменилось, строк истории две
	entries, err := svc.History(ctx, 1, model.EntityService, 11)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	fields := map[string][2]string{}
	for _, e := range entries {
		assert.Equal(t, model.ActionUpdated, e.Action)
		fields[e.Field] = [2]string{e.OldValue, e.NewValue}
	}
	assert.Equal(t, [2]string{"30", "45"}, fields["duration"])
	assert.Equal(t, [2]string{"30000", "35000"}, fields["price"])

	// без изменений история не пишется
	_, err = svc.UpdateService(ctx, 1, 11, ServiceChanges{Duration: &duration})
	require.NoError(t, err)
	assert.Len(t, history.entries, 2)

	zero, negative, blank := 0, -1, "  "
	_, err = svc.UpdateService(ctx, 1, 11, ServiceChanges{Duration: &zero})
	assert.ErrorIs(t, err, ErrInvalidDuration)
	_, err = svc.UpdateService(ctx, 1, 11, ServiceChanges{Price: &negative})
	assert.ErrorIs(t, err, ErrInvalidPrice)
	_, err = svc.UpdateService(ctx, 1, 11, ServiceChanges{Name: &blank})
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = svc.UpdateService(ctx, 2, 11, ServiceChanges{Duration: &duration})
	assert.ErrorIs(t, err, ErrNotOwner)
	_, err = svc.History(ctx, 2, model.EntityService, 11)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, 45, services.byID[11].Duration)
}

func TestCatalogService_UpdateClientRecordsHistory(t *testing.T) {
	clients := newMemClients()
	history := &memHistory{}
	svc := NewCatalogService(newMemServices(), clients, history, zap.NewNop())
	ctx := context.Background()

	client, err := svc.CreateClient(ctx, 1, "Lucía", "", "555-0101", "")
	require.NoError(t, err)
	require.Len(t, history.entries, 1)
	assert.Equal(t, model.ActionCreated, history.entries[0].Action)

	phone, notes := " 555-0202 ", "alergia al látex"
	updated, err := svc.UpdateClient(ctx, 1, client.ID, ClientChanges{Phone: &phone, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "555-0202", updated.Phone)
	assert.Equal(t, "alergia al látex", clients.byID[client.ID].Notes)

	entries, err := svc.History(ctx, 1, model.EntityClient, client.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, model.ActionCreated, entries[2].Action)
	assert.Equal(t, "notes", entries[0].Field)
	assert.Equal(t, "phone", entries[1].Field)
	assert.Equal(t, "555-0101", entries[1].OldValue)
	assert.Equal(t, "555-0202", entries[1].NewValue)

	blank := ""
	_, err = svc.UpdateClient(ctx, 1, client.ID, ClientChanges{Name: &blank})
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Equal(t, "Lucía", clients.byID[client.ID].Name)
	_, err = svc.UpdateClient(ctx, 2, client.ID, ClientChanges{Phone: &phone})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestEngineFactory_UsesProfessionalTimezone(t *testing.T) {
	engines := NewEngineFactory(availability.Options{Location: time.UTC})

	madrid := engines.For(&model.Professional{Timezone: "Europe/Madrid"})
	assert.Equal(t, "Europe/Madrid", madrid.Location().String())

	fallback := engines.For(&model.Professional{Timezone: "Nowhere/Void"})
	assert.Equal(t, time.UTC, fallback.Location())
}
