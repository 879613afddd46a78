package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/agenda_bot/internal/controller/state"
	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Ключи сессии для редактирования поля
const (
	DataEditField = "edit_field"
	DataEditID    = "edit_id"
)

var servicePrompts = map[string]string{
	common.FieldName:     "✏️ Escribe el nuevo nombre del servicio",
	common.FieldDuration: "⏱ Escribe la nueva duración en minutos",
	common.FieldPrice:    "💰 Escribe el nuevo precio, por ejemplo 350 o 350.50",
}

var clientPrompts = map[string]string{
	common.FieldName:  "✏️ Escribe el nuevo nombre del cliente",
	common.FieldPhone: "📞 Escribe el nuevo teléfono o \"-\" para borrarlo",
	common.FieldEmail: "✉️ Escribe el nuevo email o \"-\" para borrarlo",
	common.FieldNotes: "📝 Escribe las notas o \"-\" para borrarlas",
}

// HandleEditService svc_edit:field:service_id спрашивает новое значение поля
func HandleEditService(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	startEdit(ctx, b, callback, h, state.StateEditService, servicePrompts, common.ServiceView)
}

// HandleEditClient cl_edit:field:client_id
func HandleEditClient(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	startEdit(ctx, b, callback, h, state.StateEditClient, clientPrompts, common.ClientView)
}

func startEdit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler,
	st state.UserState, prompts map[string]string, back string) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		field, id, err := common.ParseFieldAndID(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse edit field")
			return
		}
		prompt, ok := prompts[field]
		if !ok {
			common.HandleError(hc, fmt.Errorf("%w: field %q", common.ErrInvalidFormat, field), "parse edit field")
			return
		}

		// запись должна принадлежать специалисту до начала диалога
		if st == state.StateEditService {
			_, err = h.Catalog.GetService(ctx, hc.Professional.ID, id)
		} else {
			_, err = h.Catalog.GetClient(ctx, hc.Professional.ID, id)
		}
		if err != nil {
			common.HandleError(hc, err, "start edit")
			return
		}

		hc.Session = &state.Session{State: st}
		hc.Session.Set(DataEditField, field)
		hc.Session.Set(DataEditID, strconv.FormatInt(id, 10))
		if err := hc.SaveSession(); err != nil {
			common.HandleError(hc, err, "start edit")
			return
		}

		kb := keyboard.NewBuilder().AddBackButton(fmt.Sprintf("%s%d", back, id)).Build()
		if err := hc.Show(prompt, kb); err != nil {
			common.HandleError(hc, err, "start edit")
			return
		}
		hc.Answer("")
	})
}

// HandleServiceHistory svc_hist:service_id
func HandleServiceHistory(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse service id")
			return
		}
		svc, err := h.Catalog.GetService(ctx, hc.Professional.ID, id)
		if err != nil {
			common.HandleError(hc, err, "service history")
			return
		}
		showHistory(hc, svc.Name, model.EntityService, id, fmt.Sprintf("%s%d", common.ServiceView, id))
	})
}

// HandleClientHistory cl_hist:client_id
func HandleClientHistory(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse client id")
			return
		}
		client, err := h.Catalog.GetClient(ctx, hc.Professional.ID, id)
		if err != nil {
			common.HandleError(hc, err, "client history")
			return
		}
		showHistory(hc, client.Name, model.EntityClient, id, fmt.Sprintf("%s%d", common.ClientView, id))
	})
}

func showHistory(hc *common.HandlerContext, title string, entity model.EntityType, id int64, back string) {
	entries, err := hc.Handler.Catalog.History(hc.Ctx, hc.Professional.ID, entity, id)
	if err != nil {
		common.HandleError(hc, err, "list history")
		return
	}

	text, kb := common.BuildHistoryScreen(title, entries, hc.Engine().Location(), back)
	if err := hc.Show(text, kb); err != nil {
		common.HandleError(hc, err, "list history")
		return
	}
	hc.Answer("")
}

// ShowService карточка услуги после редактирования
func ShowService(hc *common.HandlerContext, svc *model.Service) error {
	text, kb := common.BuildServiceScreen(svc)
	return hc.Show(text, kb)
}

// ShowClient карточка клиента после редактирования
func ShowClient(hc *common.HandlerContext, c *model.Client) error {
	text, kb := common.BuildClientScreen(c)
	return hc.Show(text, kb)
}
