package common

import (
	"context"

	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Common Navigation Handlers
// ========================

// HandleMainMenu очищает диалог и показывает главное меню
func HandleMainMenu(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	WithProfessional(ctx, b, callback, h, func(hc *HandlerContext) {
		hc.ClearState()
		ShowMainMenu(hc)
		hc.Answer("")
	})
}

// ShowMainMenu показывает главное меню в текущем контексте
func ShowMainMenu(hc *HandlerContext) {
	text, kb := BuildMainMenu(hc.Professional)
	if err := hc.Show(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show main menu",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
	}
}

// HandleFlowAbort прерывает активный сценарий
func HandleFlowAbort(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	WithProfessional(ctx, b, callback, h, func(hc *HandlerContext) {
		hc.ClearState()
		ShowMainMenu(hc)
		hc.Answer("Operación cancelada")
	})
}

// HandleNoop подтверждает нажатие на информационную кнопку
func HandleNoop(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	AnswerCallback(ctx, b, callback.ID, "")
}
