package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/block"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/catalog"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/schedule"
	"github.com/Freeeeeet/agenda_bot/internal/controller/state"
	"github.com/Freeeeeet/agenda_bot/internal/model"
	"go.uber.org/zap"
)

// ========================
// Service creation dialog
// ========================

// handleServiceNameStep обрабатывает ввод названия услуги
func (h *Handlers) handleServiceNameStep(hc *common.HandlerContext, name string) {
	if n := textLength(name); n < ServiceNameMinLength || n > ServiceNameMaxLength {
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID,
			fmt.Sprintf("❌ El nombre debe tener entre %d y %d caracteres. Intenta de nuevo:", ServiceNameMinLength, ServiceNameMaxLength))
		return
	}

	hc.Session.State = state.StateCreateServiceDuration
	hc.Session.Set(dataServiceName, name)
	if err := hc.SaveSession(); err != nil {
		h.reply(hc, err, "save service name")
		return
	}

	h.sendText(hc.Ctx, hc.Bot, hc.ChatID,
		fmt.Sprintf("Paso 2 de 3: ¿Cuántos minutos dura el servicio? (%d-%d)", ServiceMinDuration, ServiceMaxDuration))
}

// handleServiceDurationStep обрабатывает ввод длительности услуги
func (h *Handlers) handleServiceDurationStep(hc *common.HandlerContext, text string) {
	duration, err := strconv.Atoi(text)
	if err != nil || duration < ServiceMinDuration || duration > ServiceMaxDuration {
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID,
			fmt.Sprintf("❌ Escribe un número de minutos entre %d y %d:", ServiceMinDuration, ServiceMaxDuration))
		return
	}

	hc.Session.State = state.StateCreateServicePrice
	hc.Session.Set(dataServiceDuration, strconv.Itoa(duration))
	if err := hc.SaveSession(); err != nil {
		h.reply(hc, err, "save service duration")
		return
	}

	h.sendText(hc.Ctx, hc.Bot, hc.ChatID,
		"Paso 3 de 3: ¿Cuál es el precio? Por ejemplo 350 o 350.50. Escribe 0 si no tiene costo")
}

// handleServicePriceStep завершает создание услуги
func (h *Handlers) handleServicePriceStep(hc *common.HandlerContext, text string) {
	price, err := ParsePrice(text)
	if err != nil || price > ServiceMaxPrice {
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID, "❌ Precio inválido. Escribe un número, por ejemplo 350:")
		return
	}

	name := hc.Session.Get(dataServiceName)
	duration, err := strconv.Atoi(hc.Session.Get(dataServiceDuration))
	if name == "" || err != nil {
		hc.ClearState()
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID, common.ErrorMessage(common.ErrNoDraft))
		return
	}

	svc, err := h.deps.Catalog.CreateService(hc.Ctx, hc.Professional.ID, name, duration, price)
	if err != nil {
		h.reply(hc, err, "create service")
		return
	}
	hc.ClearState()

	h.logger.Info("Service created via bot",
		zap.Int64("professional_id", hc.Professional.ID),
		zap.Int64("service_id", svc.ID))

	if err := catalog.ShowServices(hc); err != nil {
		h.reply(hc, err, "list services")
	}
}

// ========================
// Client creation dialog
// ========================

func (h *Handlers) handleClientNameStep(hc *common.HandlerContext, name string) {
	if n := textLength(name); n < ClientNameMinLength || n > ClientNameMaxLength {
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID,
			fmt.Sprintf("❌ El nombre debe tener entre %d y %d caracteres. Intenta de nuevo:", ClientNameMinLength, ClientNameMaxLength))
		return
	}

	hc.Session.State = state.StateCreateClientPhone
	hc.Session.Set(dataClientName, name)
	if err := hc.SaveSession(); err != nil {
		h.reply(hc, err, "save client name")
		return
	}

	h.sendText(hc.Ctx, hc.Bot, hc.ChatID,
		fmt.Sprintf("Paso 2 de 2: Escribe el teléfono del cliente o %q para omitirlo", skipValue))
}

func (h *Handlers) handleClientPhoneStep(hc *common.HandlerContext, phone string) {
	if phone == skipValue {
		phone = ""
	}
	if textLength(phone) > ClientPhoneMaxLength {
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID, "❌ El teléfono es demasiado largo. Intenta de nuevo:")
		return
	}

	name := hc.Session.Get(dataClientName)
	if name == "" {
		hc.ClearState()
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID, common.ErrorMessage(common.ErrNoDraft))
		return
	}

	client, err := h.deps.Catalog.CreateClient(hc.Ctx, hc.Professional.ID, name, "", phone, "")
	if err != nil {
		h.reply(hc, err, "create client")
		return
	}
	hc.ClearState()

	h.logger.Info("Client created via bot",
		zap.Int64("professional_id", hc.Professional.ID),
		zap.Int64("client_id", client.ID))

	if err := catalog.ShowClients(hc); err != nil {
		h.reply(hc, err, "list clients")
	}
}

// ========================
// Work schedule dialogs
// ========================

// sessionWeekday день недели, выбранный перед вводом текста
func sessionWeekday(hc *common.HandlerContext) (model.Weekday, bool) {
	return model.ParseWeekday(hc.Session.Get(schedule.DataWeekday))
}

func (h *Handlers) handleScheduleHoursStep(hc *common.HandlerContext, text string) {
	wd, ok := sessionWeekday(hc)
	if !ok {
		hc.ClearState()
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID, common.ErrorMessage(common.ErrNoDraft))
		return
	}

	start, end, err := schedule.ParseRange(text)
	if err != nil {
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID, common.ErrorMessage(err)+"\n\nEjemplo: 09:00-18:00")
		return
	}

	ws, err := h.deps.Professionals.SetWorkHours(hc.Ctx, hc.Professional.ID, wd, start, end)
	if err != nil {
		h.reply(hc, err, "set work hours")
		return
	}
	hc.Professional.WorkSchedule = ws
	hc.ClearState()

	if err := schedule.ShowDay(hc, wd); err != nil {
		h.reply(hc, err, "show schedule day")
	}
}

func (h *Handlers) handleScheduleBreakStep(hc *common.HandlerContext, text string) {
	wd, ok := sessionWeekday(hc)
	if !ok {
		hc.ClearState()
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID, common.ErrorMessage(common.ErrNoDraft))
		return
	}

	start, end, err := schedule.ParseRange(text)
	if err != nil {
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID, common.ErrorMessage(err)+"\n\nEjemplo: 13:00-14:00")
		return
	}
	if err := withinWorkHours(hc.Professional.WorkSchedule.Day(wd), start, end); err != nil {
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID, "❌ El descanso debe estar dentro del horario de trabajo. Intenta de nuevo:")
		return
	}

	ws, err := h.deps.Professionals.AddBreak(hc.Ctx, hc.Professional.ID, wd, start, end)
	if err != nil {
		h.reply(hc, err, "add break")
		return
	}
	hc.Professional.WorkSchedule = ws
	hc.ClearState()

	if err := schedule.ShowDay(hc, wd); err != nil {
		h.reply(hc, err, "show schedule day")
	}
}

var errBreakOutsideHours = errors.New("break outside work hours")

// withinWorkHours перерыв должен лежать внутри рабочих часов дня
func withinWorkHours(day model.DaySchedule, start, end string) error {
	workStart, workEnd, err := day.WorkHours.Bounds()
	if err != nil {
		return err
	}
	breakStart, breakEnd, err := model.TimeRange{Start: start, End: end}.Bounds()
	if err != nil {
		return err
	}
	if breakStart < workStart || breakEnd > workEnd {
		return errBreakOutsideHours
	}
	return nil
}

func (h *Handlers) handleTimezoneStep(hc *common.HandlerContext, text string) {
	if err := h.deps.Professionals.SetTimezone(hc.Ctx, hc.Professional.ID, text); err != nil {
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID, common.ErrorMessage(err)+"\n\nEjemplo: America/Mexico_City")
		return
	}
	hc.Professional.Timezone = text
	hc.ClearState()

	if err := schedule.ShowSchedule(hc); err != nil {
		h.reply(hc, err, "show schedule")
	}
}

// ========================
// Time block title
// ========================

func (h *Handlers) handleBlockTitleStep(hc *common.HandlerContext, text string) {
	err := block.ApplyTitle(hc, text)
	switch {
	case err == nil:
	case errors.Is(err, block.ErrTitleTooLong):
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID,
			fmt.Sprintf("❌ El motivo no puede superar %d caracteres. Intenta de nuevo:", block.MaxTitleLength))
	default:
		h.reply(hc, err, "set block title")
	}
}
