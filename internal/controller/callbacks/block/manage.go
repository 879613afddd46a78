package block

import (
	"context"

	"github.com/Freeeeeet/agenda_bot/internal/availability"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/agenda"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleView bl_view:block_id
func HandleView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse block id")
			return
		}
		blk, err := h.Blocks.Get(ctx, hc.Professional.ID, id)
		if err != nil {
			common.HandleError(hc, err, "view block")
			return
		}

		text, kb := common.BuildBlockScreen(blk, hc.Engine().Location())
		if err := hc.Show(text, kb); err != nil {
			common.HandleError(hc, err, "show block")
			return
		}
		hc.Answer("")
	})
}

// HandleEdit bl_edit:block_id
func HandleEdit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse block id")
			return
		}

		flow, err := h.Blocks.EditFlow(ctx, hc.Professional.ID, id)
		if err != nil {
			common.HandleError(hc, err, "edit block")
			return
		}
		if err := hc.StartFlow(state.StateBlockFlow, flow); err != nil {
			common.HandleError(hc, err, "save block draft")
			return
		}
		if err := showDates(hc, flow, 0); err != nil {
			common.HandleError(hc, err, "show block dates")
			return
		}
		hc.Answer("")
	})
}

// HandleDelete bl_delete:block_id
func HandleDelete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse block id")
			return
		}
		blk, err := h.Blocks.Get(ctx, hc.Professional.ID, id)
		if err != nil {
			common.HandleError(hc, err, "get block")
			return
		}
		if err := h.Blocks.Delete(ctx, hc.Professional.ID, id); err != nil {
			common.HandleError(hc, err, "delete block")
			return
		}

		common.LogAndAnswer(hc, "Time block deleted via bot", "🗑 Bloqueo eliminado")
		day := blk.StartTime.In(hc.Engine().Location()).Format(availability.DateLayout)
		if err := agenda.ShowDay(hc, day); err != nil {
			common.HandleError(hc, err, "show agenda")
		}
	})
}
