package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/agenda"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/appointment"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/block"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/catalog"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/schedule"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandlerFunc обработчик callback query
type HandlerFunc func(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler)

// exact обработчики для callback data без аргументов
var exact = map[string]HandlerFunc{
	keyboard.MainMenu: common.HandleMainMenu,
	keyboard.Noop:     common.HandleNoop,
	common.FlowAbort:  common.HandleFlowAbort,

	common.AppointmentNew:     appointment.HandleNew,
	common.AppointmentConfirm: appointment.HandleConfirm,

	common.BlockNew:     block.HandleNew,
	common.BlockTitle:   block.HandleTitle,
	common.BlockConfirm: block.HandleConfirm,

	common.ScheduleView:     schedule.HandleView,
	common.ScheduleTimezone: schedule.HandleTimezonePrompt,

	common.ServiceList: catalog.HandleServices,
	common.ServiceNew:  catalog.HandleNewService,
	common.ClientList:  catalog.HandleClients,
	common.ClientNew:   catalog.HandleNewClient,
}

type prefixRoute struct {
	prefix  string
	handler HandlerFunc
}

// prefixed обработчики для callback data с аргументом после двоеточия
var prefixed = []prefixRoute{
	{common.AgendaDay, agenda.HandleDay},

	{common.AppointmentDates, appointment.HandleDates},
	{common.AppointmentDate, appointment.HandleDate},
	{common.AppointmentService, appointment.HandleService},
	{common.AppointmentSlot, appointment.HandleSlot},
	{common.AppointmentClient, appointment.HandleClient},
	{common.AppointmentView, appointment.HandleView},
	{common.AppointmentEdit, appointment.HandleEdit},
	{common.AppointmentCancel, appointment.HandleCancel},
	{common.AppointmentDelete, appointment.HandleDelete},

	{common.BlockDates, block.HandleDates},
	{common.BlockDate, block.HandleDate},
	{common.BlockStart, block.HandleStart},
	{common.BlockEnd, block.HandleEnd},
	{common.BlockView, block.HandleView},
	{common.BlockEdit, block.HandleEdit},
	{common.BlockDelete, block.HandleDelete},

	{common.ScheduleDay, schedule.HandleDay},
	{common.ScheduleToggle, schedule.HandleToggle},
	{common.ScheduleHours, schedule.HandleHoursPrompt},
	{common.ScheduleBreak, schedule.HandleBreakPrompt},
	{common.ScheduleClear, schedule.HandleClearBreaks},

	{common.ServiceView, catalog.HandleViewService},
	{common.ServiceToggle, catalog.HandleToggleService},
	{common.ServiceDelete, catalog.HandleDeleteService},
	{common.ServiceEdit, catalog.HandleEditService},
	{common.ServiceHist, catalog.HandleServiceHistory},
	{common.ClientView, catalog.HandleViewClient},
	{common.ClientDelete, catalog.HandleDeleteClient},
	{common.ClientEdit, catalog.HandleEditClient},
	{common.ClientHist, catalog.HandleClientHistory},
}

// Lookup находит обработчик для callback data
func Lookup(data string) (HandlerFunc, bool) {
	if handler, ok := exact[data]; ok {
		return handler, true
	}
	for _, r := range prefixed {
		if strings.HasPrefix(data, r.prefix) {
			return r.handler, true
		}
	}
	return nil, false
}

// ========================
// Main Callback Router
// ========================

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	handler, ok := Lookup(data)
	if !ok {
		h.Logger.Warn("Unknown callback data", zap.String("data", data))
		common.AnswerCallback(ctx, b, callback.ID, "❓ Acción desconocida")
		return
	}
	handler(ctx, b, callback, h)
}
