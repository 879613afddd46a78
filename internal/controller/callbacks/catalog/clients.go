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

// HandleClients cl_list
func HandleClients(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		if err := ShowClients(hc); err != nil {
			common.HandleError(hc, err, "list clients")
			return
		}
		hc.Answer("")
	})
}

// ShowClients список клиентов специалиста
func ShowClients(hc *common.HandlerContext) error {
	clients, err := hc.Handler.Catalog.ListClients(hc.Ctx, hc.Professional.ID)
	if err != nil {
		return err
	}
	text, kb := common.BuildClientsScreen(clients)
	return hc.Show(text, kb)
}

// HandleNewClient cl_new
func HandleNewClient(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.Session = &state.Session{State: state.StateCreateClientName}
		if err := hc.SaveSession(); err != nil {
			common.HandleError(hc, err, "start client creation")
			return
		}

		kb := keyboard.NewBuilder().AddBackButton(common.ClientList).Build()
		if err := hc.Show("👤 <b>Nuevo cliente</b>\n\nPaso 1 de 2: Escribe el nombre del cliente", kb); err != nil {
			common.HandleError(hc, err, "start client creation")
			return
		}
		hc.Answer("")
	})
}

// HandleViewClient cl_view:client_id
func HandleViewClient(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse client id")
			return
		}
		client, err := h.Catalog.GetClient(ctx, hc.Professional.ID, id)
		if err != nil {
			common.HandleError(hc, err, "view client")
			return
		}

		text, kb := common.BuildClientScreen(client)
		if err := hc.Show(text, kb); err != nil {
			common.HandleError(hc, err, "view client")
			return
		}
		hc.Answer("")
	})
}

// HandleDeleteClient cl_delete:client_id
func HandleDeleteClient(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse client id")
			return
		}
		if err := h.Catalog.DeleteClient(ctx, hc.Professional.ID, id); err != nil {
			common.HandleError(hc, err, "delete client")
			return
		}

		common.LogAndAnswer(hc, "Client deleted via bot", "🗑 Cliente eliminado")
		if err := ShowClients(hc); err != nil {
			common.HandleError(hc, err, "list clients")
		}
	})
}
