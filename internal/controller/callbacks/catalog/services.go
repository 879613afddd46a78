package catalog

import (
	"context"

	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/agenda_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ========================
// Service Management Handlers
// ========================

// HandleServices svc_list
func HandleServices(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		if err := ShowServices(hc); err != nil {
			common.HandleError(hc, err, "list services")
			return
		}
		hc.Answer("")
	})
}

// ShowServices все услуги специалиста, включая неактивные
func ShowServices(hc *common.HandlerContext) error {
	services, err := hc.Handler.Catalog.ListServices(hc.Ctx, hc.Professional.ID, false)
	if err != nil {
		return err
	}
	text, kb := common.BuildServicesScreen(services)
	return hc.Show(text, kb)
}

// HandleNewService svc_new начинает диалог создания услуги
func HandleNewService(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.Session = &state.Session{State: state.StateCreateServiceName}
		if err := hc.SaveSession(); err != nil {
			common.HandleError(hc, err, "start service creation")
			return
		}

		kb := keyboard.NewBuilder().AddBackButton(common.ServiceList).Build()
		text := "💼 <b>Nuevo servicio</b>\n\n" +
			"Paso 1 de 3: ¿Cómo se llama el servicio?\n\n" +
			"Por ejemplo: Corte de cabello, Consulta, Masaje"
		if err := hc.Show(text, kb); err != nil {
			common.HandleError(hc, err, "start service creation")
			return
		}
		hc.Answer("")
	})
}

// HandleViewService svc_view:service_id
func HandleViewService(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse service id")
			return
		}
		svc, err := h.Catalog.GetService(ctx, hc.Professional.ID, id)
		if err != nil {
			common.HandleError(hc, err, "view service")
			return
		}

		text, kb := common.BuildServiceScreen(svc)
		if err := hc.Show(text, kb); err != nil {
			common.HandleError(hc, err, "view service")
			return
		}
		hc.Answer("")
	})
}

// HandleToggleService svc_toggle:service_id
func HandleToggleService(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse service id")
			return
		}
		svc, err := h.Catalog.ToggleService(ctx, hc.Professional.ID, id)
		if err != nil {
			common.HandleError(hc, err, "toggle service")
			return
		}

		answer := "⏸ Servicio desactivado"
		if svc.IsActive {
			answer = "✅ Servicio activado"
		}
		common.LogAndAnswer(hc, "Service toggled via bot", answer)

		text, kb := common.BuildServiceScreen(svc)
		if err := hc.Show(text, kb); err != nil {
			common.HandleError(hc, err, "view service")
		}
	})
}

// HandleDeleteService svc_delete:service_id
func HandleDeleteService(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse service id")
			return
		}
		if err := h.Catalog.DeleteService(ctx, hc.Professional.ID, id); err != nil {
			common.HandleError(hc, err, "delete service")
			return
		}

		common.LogAndAnswer(hc, "Service deleted via bot", "🗑 Servicio eliminado")
		if err := ShowServices(hc); err != nil {
			common.HandleError(hc, err, "list services")
		}
	})
}
