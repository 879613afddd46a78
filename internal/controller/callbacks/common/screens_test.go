package common

import (
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/availability"
	"github.com/Freeeeeet/agenda_bot/internal/booking"
	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/Freeeeeet/agenda_bot/internal/service"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callbacks(kb *models.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			out = append(out, btn.CallbackData)
		}
	}
	return out
}

func testAgenda() *service.Agenda {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	return &service.Agenda{
		Date: day,
		Day: model.DaySchedule{
			IsActive:  true,
			WorkHours: model.TimeRange{Start: "09:00", End: "17:00"},
			Breaks:    []model.TimeRange{{Start: "13:00", End: "14:00"}},
		},
		Appointments: []*model.Appointment{
			{ID: 2, StartTime: at(11, 0), EndTime: at(12, 0), Title: "Masaje", Status: model.AppointmentStatusConfirmed,
				Client: &model.Client{Name: "Ana"}},
			{ID: 3, StartTime: at(9, 0), EndTime: at(9, 30), Title: "Corte", Status: model.AppointmentStatusCancelled},
		},
		Blocks: []model.TimeBlock{
			{ID: 5, StartTime: at(10, 0), EndTime: at(10, 30), Title: "Trámite"},
		},
		Free: []availability.Interval{
			{Start: at(9, 0), End: at(10, 0)},
			{Start: at(14, 0), End: at(17, 0)},
		},
	}
}

func TestFormatAgenda(t *testing.T) {
	text := FormatAgenda(testAgenda())

	assert.Contains(t, text, "Lunes 3 de junio")
	assert.Contains(t, text, "<s>")
	assert.Contains(t, text, "Masaje · Ana")
	assert.Contains(t, text, "🟢 Libre: 09:00-10:00, 14:00-17:00")

	// записи идут по времени начала
	cancelled := strings.Index(text, "Corte")
	block := strings.Index(text, "Trámite")
	appt := strings.Index(text, "Masaje")
	assert.True(t, cancelled < block && block < appt)
}

func TestFormatAgendaDayOff(t *testing.T) {
	a := &service.Agenda{Date: time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)}
	text := FormatAgenda(a)
	assert.Contains(t, text, "Día de descanso")
	assert.Contains(t, text, "Sin citas ni bloqueos")
	assert.NotContains(t, text, "Libre")
}

func TestBuildAgendaScreen(t *testing.T) {
	_, kb := BuildAgendaScreen(testAgenda())
	data := callbacks(kb)

	assert.Contains(t, data, "ap_view:2")
	assert.NotContains(t, data, "ap_view:3", "cancelled appointments have no button")
	assert.Contains(t, data, "bl_view:5")
	assert.Contains(t, data, "agenda:2024-06-02")
	assert.Contains(t, data, "agenda:2024-06-04")
	assert.Contains(t, data, AppointmentNew)
}

func TestBuildAppointmentScreen(t *testing.T) {
	appt := testAgenda().Appointments[0]

	text, kb := BuildAppointmentScreen(appt, time.UTC)
	assert.Contains(t, text, "11:00-12:00")
	assert.Contains(t, text, "Ana")
	assert.Contains(t, callbacks(kb), "ap_cancel:2")
	assert.Contains(t, callbacks(kb), "agenda:2024-06-03")

	cancelled := testAgenda().Appointments[1]
	_, kb = BuildAppointmentScreen(cancelled, time.UTC)
	assert.NotContains(t, callbacks(kb), "ap_cancel:3")
	assert.Contains(t, callbacks(kb), "ap_delete:3")
}

func TestBuildDatesKeyboard(t *testing.T) {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, 10)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}

	kb := BuildDatesKeyboard(AppointmentDate, AppointmentDates, dates, 1, "2024-06-10")
	data := callbacks(kb)

	assert.Contains(t, data, "ap_date:2024-06-10")
	assert.NotContains(t, data, "ap_date:2024-06-03")
	assert.Contains(t, data, "ap_dates:0")
	assert.Contains(t, data, FlowAbort)
	assert.Equal(t, "• Lun 10/06", kb.InlineKeyboard[0][0].Text)
}

func TestBuildSlotsKeyboard(t *testing.T) {
	kb := BuildSlotsKeyboard(BlockStart, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, "10:00", BlockDates+"0")

	require.GreaterOrEqual(t, len(kb.InlineKeyboard), 4)
	assert.Len(t, kb.InlineKeyboard[0], SlotsPerRow)
	assert.Equal(t, "bl_start:09:00", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "• 10:00", kb.InlineKeyboard[0][2].Text)
	assert.Contains(t, callbacks(kb), "bl_dates:0")
}

func TestBuildDayScreen(t *testing.T) {
	_, kb := BuildDayScreen(model.Monday, model.DefaultDaySchedule())
	assert.Contains(t, callbacks(kb), "sch_hours:"+string(model.Monday))

	text, kb := BuildDayScreen(model.Sunday, model.DaySchedule{})
	assert.Contains(t, text, "Domingo")
	assert.NotContains(t, callbacks(kb), "sch_hours:"+string(model.Sunday))

	text, _ = BuildDayScreen(model.Tuesday, model.DaySchedule{
		IsActive:  true,
		WorkHours: model.TimeRange{Start: "18:00", End: "09:00"},
	})
	assert.Contains(t, text, "Horario inválido")
}

func TestBuildServiceScreen(t *testing.T) {
	text, kb := BuildServiceScreen(&model.Service{ID: 4, Name: "Corte <b>", Duration: 90, Price: 35000, IsActive: false})
	assert.Contains(t, text, "Corte &lt;b&gt;")
	assert.Contains(t, text, "1 h 30 min")
	assert.Equal(t, "▶️ Activar", kb.InlineKeyboard[0][0].Text)
}

func TestFormatRejection(t *testing.T) {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	err := &booking.RejectionError{
		Field: booking.FieldError{Field: booking.FieldTime, Code: booking.CodeUnavailable},
		Conflict: &availability.Busy{
			Interval: availability.Interval{Start: day.Add(13 * time.Hour), End: day.Add(14 * time.Hour)},
			Source:   availability.SourceBreak,
		},
	}
	assert.Equal(t, "⚠️ Horario no disponible: descanso 13:00-14:00", FormatRejection(err, time.UTC))
	assert.Equal(t, "⚠️ Ese horario ya pasó", FormatRejection(booking.ErrSlotInPast, time.UTC))
}

func TestServiceAndClientScreensOfferEditing(t *testing.T) {
	_, kb := BuildServiceScreen(&model.Service{ID: 4, Name: "Corte", Duration: 30, IsActive: true})
	assert.Subset(t, callbacks(kb), []string{"svc_edit:name:4", "svc_edit:duration:4", "svc_edit:price:4", "svc_hist:4"})

	_, kb = BuildClientScreen(&model.Client{ID: 21, Name: "Lucía"})
	assert.Subset(t, callbacks(kb), []string{"cl_edit:name:21", "cl_edit:phone:21", "cl_edit:email:21", "cl_edit:notes:21", "cl_hist:21", "cl_delete:21"})
}

func TestBuildHistoryScreen(t *testing.T) {
	at := time.Date(2024, 6, 3, 15, 30, 0, 0, time.UTC)
	entries := []model.ChangeEntry{
		{Action: model.ActionUpdated, Field: "price", OldValue: "30000", NewValue: "35050", CreatedAt: at},
		{Action: model.ActionUpdated, Field: "notes", NewValue: "<vip>", CreatedAt: at},
		{Action: model.ActionCreated, CreatedAt: at.AddDate(0, 0, -7)},
	}

	text, kb := BuildHistoryScreen("Masaje", entries, time.UTC, "svc_view:4")
	assert.Contains(t, text, "Precio: $300 → $350.50")
	assert.Contains(t, text, "Notas: (vacío) → &lt;vip&gt;")
	assert.Contains(t, text, "Registro creado")
	assert.Contains(t, text, "15:30")
	assert.Equal(t, []string{"svc_view:4"}, callbacks(kb))

	text, _ = BuildHistoryScreen("Masaje", nil, time.UTC, "svc_view:4")
	assert.Contains(t, text, "Sin cambios")
}

func TestParseFieldAndID(t *testing.T) {
	field, id, err := ParseFieldAndID("svc_edit:price:12")
	require.NoError(t, err)
	assert.Equal(t, FieldPrice, field)
	assert.Equal(t, int64(12), id)

	for _, data := range []string{"svc_edit:price", "svc_edit::12", "svc_edit:price:x", "svc_edit"} {
		_, _, err := ParseFieldAndID(data)
		assert.ErrorIs(t, err, ErrInvalidFormat, data)
	}
}

func TestFormatInvitations(t *testing.T) {
	assert.Contains(t, FormatInvitations(nil), "/invitar")

	text := FormatInvitations([]*model.Invitation{{Code: "ABCDE-FGHIJ", CreatedAt: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)}})
	assert.Contains(t, text, "<code>ABCDE-FGHIJ</code>")
	assert.Contains(t, text, "03/06")
}
