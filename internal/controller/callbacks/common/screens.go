package common

import (
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/availability"
	"github.com/Freeeeeet/agenda_bot/internal/booking"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/Freeeeeet/agenda_bot/internal/service"
	"github.com/go-telegram/bot/models"
)

// DatesPerPage сколько дат помещается на одной странице выбора
const DatesPerPage = 7

// SlotsPerRow кнопок времени в ряду
const SlotsPerRow = 4

// BuildMainMenu главное меню специалиста
func BuildMainMenu(p *model.Professional) (string, *models.InlineKeyboardMarkup) {
	name := "👋"
	if p != nil && p.FirstName != "" {
		name = "👋 " + html.EscapeString(p.FirstName)
	}

	text := fmt.Sprintf("%s\n\n<b>Menú principal</b>\n\nElige una opción:", name)
	if !p.HasSchedule() {
		text += "\n\n⚠️ Aún no configuras tu horario de trabajo"
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("📅 Agenda de hoy", AgendaDay+"today")).
		Row(
			keyboard.Button("➕ Nueva cita", AppointmentNew),
			keyboard.Button("⛔ Bloquear horario", BlockNew),
		).
		Row(keyboard.Button("🗓 Horario de trabajo", ScheduleView)).
		Row(
			keyboard.Button("💼 Servicios", ServiceList),
			keyboard.Button("👥 Clientes", ClientList),
		).
		Build()

	return text, kb
}

type agendaLine struct {
	start time.Time
	text  string
}

// FormatAgenda текст агенды дня: записи, блокировки и свободные окна
func FormatAgenda(a *service.Agenda) string {
	loc := a.Date.Location()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 <b>%s</b>\n", formatting.FormatDate(a.Date)))

	if !a.Day.IsActive {
		sb.WriteString("Día de descanso\n")
	} else {
		sb.WriteString(fmt.Sprintf("🕘 %s\n", formatting.FormatDaySchedule(a.Day)))
	}

	lines := make([]agendaLine, 0, len(a.Appointments)+len(a.Blocks))
	for _, appt := range a.Appointments {
		display := formatting.GetAppointmentStatusDisplay(appt.Status)
		text := fmt.Sprintf("%s %s %s",
			display.Emoji,
			formatting.FormatTimeRange(appt.StartTime.In(loc), appt.EndTime.In(loc)),
			html.EscapeString(appt.Title))
		if appt.Client != nil && appt.Client.Name != "" {
			text += " · " + html.EscapeString(appt.Client.Name)
		}
		if appt.IsCancelled() {
			text = "<s>" + text + "</s>"
		}
		lines = append(lines, agendaLine{start: appt.StartTime, text: text})
	}
	for _, b := range a.Blocks {
		lines = append(lines, agendaLine{
			start: b.StartTime,
			text: fmt.Sprintf("⛔ %s %s",
				formatting.FormatTimeRange(b.StartTime.In(loc), b.EndTime.In(loc)),
				html.EscapeString(b.Title)),
		})
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].start.Before(lines[j].start) })

	sb.WriteString("\n")
	if len(lines) == 0 {
		sb.WriteString("Sin citas ni bloqueos\n")
	}
	for _, l := range lines {
		sb.WriteString(l.text + "\n")
	}

	if len(a.Free) > 0 {
		free := make([]string, len(a.Free))
		for i, iv := range a.Free {
			free[i] = formatting.FormatTimeRange(iv.Start.In(loc), iv.End.In(loc))
		}
		sb.WriteString("\n🟢 Libre: " + strings.Join(free, ", ") + "\n")
	}

	return sb.String()
}

// BuildAgendaScreen агенда с кнопками записей и навигацией по дням
func BuildAgendaScreen(a *service.Agenda) (string, *models.InlineKeyboardMarkup) {
	loc := a.Date.Location()
	kb := keyboard.NewBuilder()

	for _, appt := range a.Appointments {
		if appt.IsCancelled() {
			continue
		}
		kb.Row(keyboard.Button(
			fmt.Sprintf("🗒 %s %s", formatting.FormatTime(appt.StartTime.In(loc)), appt.Title),
			fmt.Sprintf("%s%d", AppointmentView, appt.ID)))
	}
	for _, b := range a.Blocks {
		kb.Row(keyboard.Button(
			fmt.Sprintf("⛔ %s %s", formatting.FormatTime(b.StartTime.In(loc)), b.Title),
			fmt.Sprintf("%s%d", BlockView, b.ID)))
	}

	kb.Row(keyboard.DayPagination(AgendaDay, a.Date)...).
		Row(
			keyboard.Button("➕ Nueva cita", AppointmentNew),
			keyboard.Button("⛔ Bloquear", BlockNew),
		).
		AddMainMenuButton()

	return FormatAgenda(a), kb.Build()
}

// BuildAppointmentScreen карточка записи
func BuildAppointmentScreen(appt *model.Appointment, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	start := appt.StartTime.In(loc)
	display := formatting.GetAppointmentStatusDisplay(appt.Status)

	text := fmt.Sprintf(
		"🗒 <b>%s</b>\n\n"+
			"📅 %s\n"+
			"🕘 %s (%s)\n"+
			"📊 Estado: %s %s",
		html.EscapeString(appt.Title),
		formatting.FormatDate(start),
		formatting.FormatTimeRange(start, appt.EndTime.In(loc)),
		formatting.FormatDuration(appt.DurationMinutes()),
		display.Emoji, display.Text,
	)
	if appt.Client != nil {
		text += "\n👤 Cliente: " + html.EscapeString(appt.Client.Name)
		if appt.Client.Phone != "" {
			text += "\n📞 " + html.EscapeString(appt.Client.Phone)
		}
	}
	if appt.Notes != "" {
		text += "\n📝 " + html.EscapeString(appt.Notes)
	}

	kb := keyboard.NewBuilder()
	if !appt.IsCancelled() {
		kb.Row(
			keyboard.Button("🔁 Reprogramar", fmt.Sprintf("%s%d", AppointmentEdit, appt.ID)),
			keyboard.Button("❌ Cancelar cita", fmt.Sprintf("%s%d", AppointmentCancel, appt.ID)),
		)
	}
	kb.Row(keyboard.DeleteButton(fmt.Sprintf("%s%d", AppointmentDelete, appt.ID))).
		AddBackButton(AgendaDay + start.Format(availability.DateLayout))

	return text, kb.Build()
}

// BuildBlockScreen карточка блокировки
func BuildBlockScreen(b *model.TimeBlock, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	start := b.StartTime.In(loc)

	text := fmt.Sprintf(
		"⛔ <b>%s</b>\n\n"+
			"📅 %s\n"+
			"🕘 %s (%s)",
		html.EscapeString(b.Title),
		formatting.FormatDate(start),
		formatting.FormatTimeRange(start, b.EndTime.In(loc)),
		formatting.FormatDuration(b.DurationMinutes()),
	)

	kb := keyboard.NewBuilder().
		Row(
			keyboard.EditButton(fmt.Sprintf("%s%d", BlockEdit, b.ID)),
			keyboard.DeleteButton(fmt.Sprintf("%s%d", BlockDelete, b.ID)),
		).
		AddBackButton(AgendaDay + start.Format(availability.DateLayout)).
		Build()

	return text, kb
}

// BuildDatesKeyboard страница выбора даты. current отмечает дату редактируемой записи
func BuildDatesKeyboard(datePrefix, pagePrefix string, dates []time.Time, page int, current string) *models.InlineKeyboardMarkup {
	from, to, page, pages := keyboard.Page(len(dates), page, DatesPerPage)

	kb := keyboard.NewBuilder()
	buttons := make([]models.InlineKeyboardButton, 0, to-from)
	for _, d := range dates[from:to] {
		value := d.Format(availability.DateLayout)
		label := formatting.FormatDateShort(d)
		if value == current {
			label = "• " + label
		}
		buttons = append(buttons, keyboard.Button(label, datePrefix+value))
	}
	kb.Grid(buttons, 2).
		AddPagination(pagePrefix, page, pages).
		Row(keyboard.CancelButton(FlowAbort))

	return kb.Build()
}

// BuildSlotsKeyboard выбор времени из списка HH:MM
func BuildSlotsKeyboard(prefix string, slots []string, current, back string) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, len(slots))
	for i, s := range slots {
		label := s
		if s == current {
			label = "• " + s
		}
		buttons[i] = keyboard.Button(label, prefix+s)
	}

	kb := keyboard.NewBuilder().Grid(buttons, SlotsPerRow)
	if back != "" {
		kb.AddBackButton(back)
	}
	kb.Row(keyboard.CancelButton(FlowAbort))
	return kb.Build()
}

// BuildServicePicker выбор услуги для записи
func BuildServicePicker(services []*model.Service) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder()
	for _, s := range services {
		kb.Row(keyboard.Button(
			fmt.Sprintf("%s · %s", s.Name, formatting.FormatDuration(s.Duration)),
			fmt.Sprintf("%s%d", AppointmentService, s.ID)))
	}
	kb.AddBackButton(AppointmentDates + "0").
		Row(keyboard.CancelButton(FlowAbort))
	return kb.Build()
}

// BuildClientPicker выбор клиента, запись возможна и без клиента
func BuildClientPicker(clients []*model.Client) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder()
	buttons := make([]models.InlineKeyboardButton, len(clients))
	for i, c := range clients {
		buttons[i] = keyboard.Button("👤 "+c.Name, fmt.Sprintf("%s%d", AppointmentClient, c.ID))
	}
	kb.Grid(buttons, 2).
		Row(keyboard.Button("🚶 Sin cliente", AppointmentClient+"0")).
		Row(keyboard.CancelButton(FlowAbort))
	return kb.Build()
}

// BuildScheduleScreen недельное расписание специалиста
func BuildScheduleScreen(p *model.Professional, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	text := "🗓 <b>Horario de trabajo</b>\n\n" +
		formatting.FormatWorkSchedule(p.WorkSchedule) +
		fmt.Sprintf("\n🌎 Zona horaria: %s", loc.String())

	buttons := make([]models.InlineKeyboardButton, 0, 7)
	for _, wd := range model.Weekdays() {
		emoji := "⚪️"
		if p.WorkSchedule.Day(wd).IsActive {
			emoji = "🟢"
		}
		buttons = append(buttons, keyboard.Button(
			emoji+" "+formatting.WeekdayShortName(wd),
			ScheduleDay+string(wd)))
	}

	kb := keyboard.NewBuilder().
		Grid(buttons, 4).
		Row(keyboard.Button("🌎 Cambiar zona horaria", ScheduleTimezone)).
		AddMainMenuButton().
		Build()

	return text, kb
}

// BuildDayScreen настройки одного дня недели
func BuildDayScreen(wd model.Weekday, day model.DaySchedule) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("🗓 <b>%s</b>\n\n%s", formatting.WeekdayName(wd), formatting.FormatDaySchedule(day))
	if err := day.Validate(); err != nil {
		text += "\n\n⚠️ Horario inválido, el día no se ofrece para citas"
	}

	toggle := "🟢 Activar día"
	if day.IsActive {
		toggle = "⚪️ Marcar como descanso"
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button(toggle, ScheduleToggle+string(wd)))
	if day.IsActive {
		kb.Row(keyboard.Button("🕘 Horario", ScheduleHours+string(wd))).
			Row(
				keyboard.Button("☕ Agregar descanso", ScheduleBreak+string(wd)),
				keyboard.Button("🧹 Quitar descansos", ScheduleClear+string(wd)),
			)
	}
	kb.AddBackButton(ScheduleView)

	return text, kb.Build()
}

// BuildServicesScreen список услуг
func BuildServicesScreen(services []*model.Service) (string, *models.InlineKeyboardMarkup) {
	text := "💼 <b>Servicios</b>\n\n"
	if len(services) == 0 {
		text += "Aún no tienes servicios. Crea el primero para agendar citas."
	}

	kb := keyboard.NewBuilder()
	for _, s := range services {
		emoji := "✅"
		if !s.IsActive {
			emoji = "⏸"
		}
		kb.Row(keyboard.Button(
			fmt.Sprintf("%s %s · %s", emoji, s.Name, formatting.FormatDuration(s.Duration)),
			fmt.Sprintf("%s%d", ServiceView, s.ID)))
	}
	kb.Row(keyboard.Button("➕ Nuevo servicio", ServiceNew)).
		AddMainMenuButton()

	return text, kb.Build()
}

// BuildServiceScreen карточка услуги
func BuildServiceScreen(s *model.Service) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf(
		"💼 <b>%s</b>\n\n"+
			"⏱ Duración: %s\n"+
			"💰 Precio: %s\n"+
			"📊 Estado: %s",
		html.EscapeString(s.Name),
		formatting.FormatDuration(s.Duration),
		formatting.FormatPriceShort(s.Price),
		formatting.ServiceStatusText(s.IsActive),
	)

	toggle := "⏸ Desactivar"
	if !s.IsActive {
		toggle = "▶️ Activar"
	}

	edit := func(field string) string { return fmt.Sprintf("%s%s:%d", ServiceEdit, field, s.ID) }
	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button(toggle, fmt.Sprintf("%s%d", ServiceToggle, s.ID)),
			keyboard.DeleteButton(fmt.Sprintf("%s%d", ServiceDelete, s.ID)),
		).
		Row(
			keyboard.Button("✏️ Nombre", edit(FieldName)),
			keyboard.Button("⏱ Duración", edit(FieldDuration)),
			keyboard.Button("💰 Precio", edit(FieldPrice)),
		).
		Row(keyboard.Button("📜 Historial", fmt.Sprintf("%s%d", ServiceHist, s.ID))).
		AddBackButton(ServiceList).
		Build()

	return text, kb
}

// BuildClientsScreen список клиентов
func BuildClientsScreen(clients []*model.Client) (string, *models.InlineKeyboardMarkup) {
	text := "👥 <b>Clientes</b>\n\n"
	if len(clients) == 0 {
		text += "Aún no tienes clientes registrados."
	}

	buttons := make([]models.InlineKeyboardButton, len(clients))
	for i, c := range clients {
		buttons[i] = keyboard.Button("👤 "+c.Name, fmt.Sprintf("%s%d", ClientView, c.ID))
	}

	kb := keyboard.NewBuilder().
		Grid(buttons, 2).
		Row(keyboard.Button("➕ Nuevo cliente", ClientNew)).
		AddMainMenuButton().
		Build()

	return text, kb
}

// BuildClientScreen карточка клиента
func BuildClientScreen(c *model.Client) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("👤 <b>%s</b>\n", html.EscapeString(c.Name))
	if c.Phone != "" {
		text += "\n📞 " + html.EscapeString(c.Phone)
	}
	if c.Email != "" {
		text += "\n✉️ " + html.EscapeString(c.Email)
	}
	if c.Notes != "" {
		text += "\n📝 " + html.EscapeString(c.Notes)
	}

	edit := func(field string) string { return fmt.Sprintf("%s%s:%d", ClientEdit, field, c.ID) }
	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("✏️ Nombre", edit(FieldName)),
			keyboard.Button("📞 Teléfono", edit(FieldPhone)),
		).
		Row(
			keyboard.Button("✉️ Email", edit(FieldEmail)),
			keyboard.Button("📝 Notas", edit(FieldNotes)),
		).
		Row(
			keyboard.Button("📜 Historial", fmt.Sprintf("%s%d", ClientHist, c.ID)),
			keyboard.DeleteButton(fmt.Sprintf("%s%d", ClientDelete, c.ID)),
		).
		AddBackButton(ClientList).
		Build()

	return text, kb
}

// BuildHistoryScreen последние изменения услуги или клиента, back - карточка записи
func BuildHistoryScreen(title string, entries []model.ChangeEntry, loc *time.Location, back string) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString("📜 <b>Historial: " + html.EscapeString(title) + "</b>\n\n")
	if len(entries) == 0 {
		sb.WriteString("Sin cambios registrados.")
	}
	for _, e := range entries {
		at := e.CreatedAt.In(loc)
		fmt.Fprintf(&sb, "• %s %s · %s\n",
			formatting.FormatDateShort(at), formatting.FormatTime(at),
			html.EscapeString(formatting.FormatChange(e)))
	}

	return sb.String(), keyboard.NewBuilder().AddBackButton(back).Build()
}

// FormatInvitations неиспользованные коды приглашений
func FormatInvitations(invitations []*model.Invitation) string {
	if len(invitations) == 0 {
		return "🎟 No tienes códigos pendientes. Genera uno con /invitar"
	}
	var sb strings.Builder
	sb.WriteString("🎟 <b>Códigos pendientes</b>\n\n")
	for _, inv := range invitations {
		fmt.Fprintf(&sb, "<code>%s</code> · %s\n", inv.Code, formatting.FormatDateShort(inv.CreatedAt))
	}
	return sb.String()
}

// FormatRejection причина отклонения выбранного времени
func FormatRejection(err error, loc *time.Location) string {
	var rejection *booking.RejectionError
	if !errors.As(err, &rejection) || rejection.Conflict == nil {
		return ErrorMessage(err)
	}

	c := rejection.Conflict
	span := formatting.FormatTimeRange(c.Start.In(loc), c.End.In(loc))
	switch c.Source {
	case availability.SourceBreak:
		return "⚠️ Horario no disponible: descanso " + span
	case availability.SourceAppointment:
		return "⚠️ Horario no disponible: ya hay una cita " + span
	case availability.SourceBlock:
		return "⚠️ Horario no disponible: horario bloqueado " + span
	default:
		return "⚠️ Horario no disponible"
	}
}
