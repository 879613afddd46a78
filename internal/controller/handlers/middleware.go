package handlers

import (
	"context"
	"errors"

	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireProfessional проверяет что специалист зарегистрирован и загружает его сессию.
// Возвращает контекст и true если OK
func (h *Handlers) requireProfessional(ctx context.Context, b *bot.Bot, update *models.Update) (*common.HandlerContext, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, false
	}

	hc := common.NewMessageContext(ctx, b, update.Message, h.deps)
	if err := hc.LoadProfessional(); err != nil {
		if !errors.Is(err, common.ErrNotRegistered) {
			h.logger.Error("Failed to get professional", zap.Int64("telegram_id", hc.TelegramID), zap.Error(err))
		}
		h.sendError(ctx, b, hc.ChatID, common.ErrorMessage(err))
		return nil, false
	}
	if err := hc.LoadSession(); err != nil {
		h.logger.Error("Failed to load session", zap.Int64("telegram_id", hc.TelegramID), zap.Error(err))
		h.sendError(ctx, b, hc.ChatID, common.ErrorMessage(err))
		return nil, false
	}

	return hc, true
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.sendText(ctx, b, chatID, text)
}

// sendText отправляет простой текст без разметки
func (h *Handlers) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err))
	}
}

// reply отправляет ошибку операции пользователю
func (h *Handlers) reply(hc *common.HandlerContext, err error, operation string) {
	h.logger.Error("Operation failed",
		zap.String("operation", operation),
		zap.Int64("telegram_id", hc.TelegramID),
		zap.Error(err))
	h.sendError(hc.Ctx, hc.Bot, hc.ChatID, common.ErrorMessage(err))
}
