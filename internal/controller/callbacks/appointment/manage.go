package appointment

import (
	"context"

	"github.com/Freeeeeet/agenda_bot/internal/availability"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/agenda"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleView ap_view:appointment_id
func HandleView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse appointment id")
			return
		}
		if err := showAppointment(hc, id); err != nil {
			common.HandleError(hc, err, "view appointment")
			return
		}
		hc.Answer("")
	})
}

func showAppointment(hc *common.HandlerContext, id int64) error {
	appt, err := hc.Handler.Appointments.Get(hc.Ctx, hc.Professional.ID, id)
	if err != nil {
		return err
	}
	if appt.ClientID != 0 && appt.Client == nil {
		client, err := hc.Handler.Catalog.GetClient(hc.Ctx, hc.Professional.ID, appt.ClientID)
		if err != nil {
			hc.Handler.Logger.Warn("Failed to load appointment client",
				zap.Int64("appointment_id", id),
				zap.Int64("client_id", appt.ClientID),
				zap.Error(err))
		} else {
			appt.Client = client
		}
	}

	text, kb := common.BuildAppointmentScreen(appt, hc.Engine().Location())
	return hc.Show(text, kb)
}

// HandleEdit ap_edit:appointment_id начинает перенос записи
func HandleEdit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse appointment id")
			return
		}

		flow, err := h.Appointments.EditFlow(ctx, hc.Professional.ID, id)
		if err != nil {
			common.HandleError(hc, err, "edit appointment")
			return
		}
		if err := hc.StartFlow(state.StateAppointmentFlow, flow); err != nil {
			common.HandleError(hc, err, "save appointment draft")
			return
		}
		if err := showDates(hc, flow, 0); err != nil {
			common.HandleError(hc, err, "show appointment dates")
			return
		}
		hc.Answer("")
	})
}

// HandleCancel ap_cancel:appointment_id
func HandleCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse appointment id")
			return
		}
		if err := h.Appointments.Cancel(ctx, hc.Professional.ID, id); err != nil {
			common.HandleError(hc, err, "cancel appointment")
			return
		}

		refreshAppointment(hc, "Appointment cancelled via bot", "❌ Cita cancelada", id)
	})
}

// HandleDelete ap_delete:appointment_id
func HandleDelete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse appointment id")
			return
		}
		appt, err := h.Appointments.Get(ctx, hc.Professional.ID, id)
		if err != nil {
			common.HandleError(hc, err, "get appointment")
			return
		}
		if err := h.Appointments.Delete(ctx, hc.Professional.ID, id); err != nil {
			common.HandleError(hc, err, "delete appointment")
			return
		}

		common.LogAndAnswer(hc, "Appointment deleted via bot", "🗑 Cita eliminada")
		day := appt.StartTime.In(hc.Engine().Location()).Format(availability.DateLayout)
		if err := agenda.ShowDay(hc, day); err != nil {
			common.HandleError(hc, err, "show agenda")
		}
	})
}

// refreshAppointment отвечает и перерисовывает карточку записи
func refreshAppointment(hc *common.HandlerContext, message, answer string, id int64) {
	common.LogAndAnswer(hc, message, answer)
	if err := showAppointment(hc, id); err != nil {
		common.HandleError(hc, err, "view appointment")
	}
}
