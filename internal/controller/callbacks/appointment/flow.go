package appointment

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"

	"github.com/Freeeeeet/agenda_bot/internal/availability"
	"github.com/Freeeeeet/agenda_bot/internal/booking"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/agenda"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/agenda_bot/internal/controller/state"
	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// dataClientID ключ выбранного клиента в сессии
const dataClientID = "client_id"

// ========================
// Appointment Flow Handlers
// ========================

// HandleNew ap_new
func HandleNew(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		if err := Start(hc); err != nil {
			common.HandleError(hc, err, "start appointment flow")
			return
		}
		hc.Answer("")
	})
}

// Start начинает новую запись и показывает выбор даты
func Start(hc *common.HandlerContext) error {
	flow, err := hc.Handler.Appointments.NewFlow(hc.Ctx, hc.Professional.ID)
	if err != nil {
		return err
	}
	if err := hc.StartFlow(state.StateAppointmentFlow, flow); err != nil {
		return err
	}
	return showDates(hc, flow, 0)
}

// HandleDates ap_dates:page
func HandleDates(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withFlow(ctx, b, callback, h, "appointment dates page", func(hc *common.HandlerContext, flow *booking.Flow) error {
		arg, err := common.CallbackArg(callback.Data)
		if err != nil {
			return err
		}
		page, err := strconv.Atoi(arg)
		if err != nil {
			return common.ErrInvalidFormat
		}
		return showDates(hc, flow, page)
	})
}

// HandleDate ap_date:2024-06-03
func HandleDate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withFlow(ctx, b, callback, h, "appointment select date", func(hc *common.HandlerContext, flow *booking.Flow) error {
		arg, err := common.CallbackArg(callback.Data)
		if err != nil {
			return err
		}
		date, err := hc.Engine().ParseDate(arg)
		if err != nil {
			return common.ErrInvalidFormat
		}

		slots, err := flow.SelectDate(hc.Ctx, date)
		if err != nil {
			return err
		}
		if err := hc.StoreFlow(state.StateAppointmentFlow, flow); err != nil {
			return err
		}

		if flow.Draft().ServiceID == 0 {
			return showServices(hc, flow)
		}
		return showSlots(hc, flow, slots, "")
	})
}

// HandleService ap_svc:service_id
func HandleService(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withFlow(ctx, b, callback, h, "appointment select service", func(hc *common.HandlerContext, flow *booking.Flow) error {
		serviceID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			return err
		}
		svc, err := hc.Handler.Catalog.GetService(hc.Ctx, hc.Professional.ID, serviceID)
		if err != nil {
			return err
		}

		slots, err := flow.SelectService(hc.Ctx, svc.ID)
		if err != nil {
			return err
		}
		if err := hc.StoreFlow(state.StateAppointmentFlow, flow); err != nil {
			return err
		}
		return showSlots(hc, flow, slots, "")
	})
}

// HandleSlot ap_slot:09:30
func HandleSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withFlow(ctx, b, callback, h, "appointment select slot", func(hc *common.HandlerContext, flow *booking.Flow) error {
		start, err := common.CallbackArg(callback.Data)
		if err != nil {
			return err
		}

		// список мог устареть, сверяемся со свежим
		slots, err := flow.Refresh(hc.Ctx)
		if err != nil {
			return err
		}
		if err := flow.SelectSlot(start); err != nil {
			if errors.Is(err, booking.ErrSlotNotOffered) {
				if storeErr := hc.StoreFlow(state.StateAppointmentFlow, flow); storeErr != nil {
					return storeErr
				}
				return showSlots(hc, flow, slots, common.ErrorMessage(err))
			}
			return err
		}
		if err := hc.StoreFlow(state.StateAppointmentFlow, flow); err != nil {
			return err
		}

		if flow.Draft().IsEdit() {
			return showConfirm(hc, flow)
		}
		return showClients(hc)
	})
}

// HandleClient ap_client:client_id, 0 - без клиента
func HandleClient(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withFlow(ctx, b, callback, h, "appointment select client", func(hc *common.HandlerContext, flow *booking.Flow) error {
		clientID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			return err
		}
		if flow.State() != booking.StateSlotSelected {
			return booking.ErrInvalidState
		}
		if clientID != 0 {
			if _, err := hc.Handler.Catalog.GetClient(hc.Ctx, hc.Professional.ID, clientID); err != nil {
				return err
			}
		}

		hc.Session.Set(dataClientID, strconv.FormatInt(clientID, 10))
		if err := hc.SaveSession(); err != nil {
			return err
		}
		return showConfirm(hc, flow)
	})
}

// HandleConfirm ap_confirm: повторная проверка и сохранение
func HandleConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withFlow(ctx, b, callback, h, "appointment confirm", func(hc *common.HandlerContext, flow *booking.Flow) error {
		var clientID int64
		if raw := hc.Session.Get(dataClientID); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return common.ErrInvalidFormat
			}
			clientID = id
		}

		appt, err := hc.Handler.Appointments.Commit(hc.Ctx, flow, clientID)
		if err != nil {
			if errors.Is(err, booking.ErrSlotUnavailable) || errors.Is(err, booking.ErrSlotInPast) {
				return rejected(hc, flow, err)
			}
			return err
		}

		hc.ClearState()
		hc.Answer("✅ Cita guardada")

		loc := hc.Engine().Location()
		return agenda.ShowDay(hc, appt.StartTime.In(loc).Format(availability.DateLayout))
	})
}

// rejected показывает обновлённые слоты после отказа
func rejected(hc *common.HandlerContext, flow *booking.Flow, cause error) error {
	hc.Handler.Logger.Info("Appointment rejected on commit",
		zap.Int64("professional_id", hc.Professional.ID),
		zap.String("draft_id", flow.Draft().ID.String()),
		zap.Error(cause))

	notice := common.FormatRejection(cause, hc.Engine().Location())
	slots, err := flow.Refresh(hc.Ctx)
	if err != nil {
		return err
	}
	if err := hc.StoreFlow(state.StateAppointmentFlow, flow); err != nil {
		return err
	}
	hc.AnswerAlert(notice)
	return showSlots(hc, flow, slots, notice)
}

// withFlow восстанавливает сценарий записи из сессии
func withFlow(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	operation string,
	fn func(hc *common.HandlerContext, flow *booking.Flow) error,
) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		draft, err := hc.Draft(model.EntryKindAppointment)
		if err != nil {
			common.HandleError(hc, err, operation)
			return
		}
		flow, err := h.Appointments.ResumeFlow(ctx, draft)
		if err != nil {
			common.HandleError(hc, err, operation)
			return
		}
		if err := fn(hc, flow); err != nil {
			common.HandleError(hc, err, operation)
			return
		}
		hc.Answer("")
	})
}

func title(d booking.Draft) string {
	if d.IsEdit() {
		return "🔁 <b>Reprogramar cita</b>"
	}
	return "➕ <b>Nueva cita</b>"
}

func showDates(hc *common.HandlerContext, flow *booking.Flow, page int) error {
	dates, err := flow.Dates(hc.Ctx)
	if err != nil {
		return err
	}

	d := flow.Draft()
	if len(dates) == 0 {
		kb := keyboard.NewBuilder().
			Row(keyboard.Button("🗓 Configurar horario", common.ScheduleView)).
			AddMainMenuButton().
			Build()
		return hc.Show(title(d)+"\n\nNo hay días disponibles. Configura tu horario de trabajo.", kb)
	}

	text := title(d) + "\n\n📅 Elige la fecha:"
	kb := common.BuildDatesKeyboard(common.AppointmentDate, common.AppointmentDates, dates, page, d.CurrentDate)
	return hc.Show(text, kb)
}

func showServices(hc *common.HandlerContext, flow *booking.Flow) error {
	services, err := hc.Handler.Catalog.ListServices(hc.Ctx, hc.Professional.ID, true)
	if err != nil {
		return err
	}
	if len(services) == 0 {
		kb := keyboard.NewBuilder().
			Row(keyboard.Button("➕ Nuevo servicio", common.ServiceNew)).
			Row(keyboard.CancelButton(common.FlowAbort)).
			Build()
		return hc.Show(title(flow.Draft())+"\n\nPrimero crea un servicio para poder agendar.", kb)
	}

	date, err := hc.Engine().ParseDate(flow.Draft().Date)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("%s\n\n📅 %s\n\n💼 Elige el servicio:", title(flow.Draft()), formatting.FormatDate(date))
	return hc.Show(text, common.BuildServicePicker(services))
}

func showSlots(hc *common.HandlerContext, flow *booking.Flow, slots []string, notice string) error {
	d := flow.Draft()
	date, err := hc.Engine().ParseDate(d.Date)
	if err != nil {
		return err
	}

	text := title(d) + "\n\n"
	if notice != "" {
		text += notice + "\n\n"
	}
	text += fmt.Sprintf("📅 %s\n⏱ %s\n\n", formatting.FormatDate(date), formatting.FormatDuration(d.DurationMinutes))
	if len(slots) == 0 {
		text += "No hay horarios libres este día. Elige otra fecha."
	} else {
		text += fmt.Sprintf("🕘 Elige la hora (%s):", formatting.PluralizeSlots(len(slots)))
	}

	current := ""
	if d.Date == d.CurrentDate {
		current = d.CurrentTime
	}
	return hc.Show(text, common.BuildSlotsKeyboard(common.AppointmentSlot, slots, current, common.AppointmentDates+"0"))
}

func showClients(hc *common.HandlerContext) error {
	clients, err := hc.Handler.Catalog.ListClients(hc.Ctx, hc.Professional.ID)
	if err != nil {
		return err
	}
	return hc.Show("👤 <b>¿Para qué cliente es la cita?</b>", common.BuildClientPicker(clients))
}

func showConfirm(hc *common.HandlerContext, flow *booking.Flow) error {
	d := flow.Draft()
	date, err := hc.Engine().ParseDate(d.Date)
	if err != nil {
		return err
	}
	candidate, err := flow.Candidate()
	if err != nil {
		return err
	}
	iv := candidate.Interval()

	text := fmt.Sprintf("%s\n\n📅 %s\n🕘 %s (%s)",
		title(d),
		formatting.FormatDate(date),
		formatting.FormatTimeRange(iv.Start, iv.End),
		formatting.FormatDuration(d.DurationMinutes))

	if d.ServiceID != 0 {
		if svc, err := hc.Handler.Catalog.GetService(hc.Ctx, hc.Professional.ID, d.ServiceID); err == nil {
			text += "\n💼 " + html.EscapeString(svc.Name) + " · " + formatting.FormatPriceShort(svc.Price)
		}
	}
	if raw := hc.Session.Get(dataClientID); raw != "" && raw != "0" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			if c, err := hc.Handler.Catalog.GetClient(hc.Ctx, hc.Professional.ID, id); err == nil {
				text += "\n👤 " + html.EscapeString(c.Name)
			}
		}
	}
	text += "\n\n¿Confirmas?"

	kb := keyboard.NewBuilder().
		Row(keyboard.ConfirmCancelButtons(common.AppointmentConfirm, common.FlowAbort)...).
		AddBackButton(common.AppointmentDate + d.Date).
		Build()
	return hc.Show(text, kb)
}
