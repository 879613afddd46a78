package common

import (
	"context"

	"github.com/Freeeeeet/agenda_bot/internal/availability"
	"github.com/Freeeeeet/agenda_bot/internal/booking"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/agenda_bot/internal/controller/state"
	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandlerContext содержит общие данные для обработки callback
type HandlerContext struct {
	Ctx          context.Context
	Bot          *bot.Bot
	Callback     *models.CallbackQuery
	Handler      *callbacktypes.Handler
	Message      *models.Message
	Professional *model.Professional
	Session      *state.Session
	TelegramID   int64
	ChatID       int64

	answered bool
}

// NewHandlerContext создаёт новый контекст обработчика
func NewHandlerContext(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
) *HandlerContext {
	msg := GetMessageFromCallback(callback)
	var chatID int64
	if msg != nil {
		chatID = msg.Chat.ID
	}

	return &HandlerContext{
		Ctx:        ctx,
		Bot:        b,
		Callback:   callback,
		Handler:    h,
		Message:    msg,
		TelegramID: callback.From.ID,
		ChatID:     chatID,
	}
}

// NewMessageContext контекст для команд и текстовых сообщений. Ответы всегда новым сообщением
func NewMessageContext(
	ctx context.Context,
	b *bot.Bot,
	msg *models.Message,
	h *callbacktypes.Handler,
) *HandlerContext {
	hc := &HandlerContext{
		Ctx:     ctx,
		Bot:     b,
		Handler: h,
		ChatID:  msg.Chat.ID,
	}
	if msg.From != nil {
		hc.TelegramID = msg.From.ID
	}
	return hc
}

// LoadProfessional загружает специалиста в контекст
func (hc *HandlerContext) LoadProfessional() error {
	p, err := hc.Handler.Professionals.GetByTelegramID(hc.Ctx, hc.TelegramID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNotRegistered
	}
	hc.Professional = p
	return nil
}

// LoadSession загружает диалоговую сессию
func (hc *HandlerContext) LoadSession() error {
	sess, err := hc.Handler.State.Get(hc.Ctx, hc.TelegramID)
	if err != nil {
		return err
	}
	hc.Session = sess
	return nil
}

// SaveSession сохраняет текущую сессию
func (hc *HandlerContext) SaveSession() error {
	if hc.Session == nil {
		return nil
	}
	return hc.Handler.State.Save(hc.Ctx, hc.TelegramID, hc.Session)
}

// ClearState очищает состояние пользователя
func (hc *HandlerContext) ClearState() {
	hc.Session = &state.Session{}
	if err := hc.Handler.State.Clear(hc.Ctx, hc.TelegramID); err != nil {
		hc.Handler.Logger.Warn("Failed to clear session",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
	}
}

// Engine движок доступности в часовом поясе специалиста
func (hc *HandlerContext) Engine() *availability.Engine {
	return hc.Handler.Engines.For(hc.Professional)
}

// Draft черновик сценария нужного вида из сессии
func (hc *HandlerContext) Draft(kind model.EntryKind) (booking.Draft, error) {
	if hc.Session == nil || hc.Session.Draft == nil || hc.Session.Draft.Kind != kind {
		return booking.Draft{}, ErrNoDraft
	}
	if hc.Professional != nil && hc.Session.Draft.ProfessionalID != hc.Professional.ID {
		return booking.Draft{}, ErrNoDraft
	}
	return *hc.Session.Draft, nil
}

// StartFlow начинает сценарий с чистой сессии
func (hc *HandlerContext) StartFlow(st state.UserState, flow *booking.Flow) error {
	hc.Session = &state.Session{}
	return hc.StoreFlow(st, flow)
}

// StoreFlow сохраняет черновик сценария в сессию
func (hc *HandlerContext) StoreFlow(st state.UserState, flow *booking.Flow) error {
	draft := flow.Draft()
	hc.Session.State = st
	hc.Session.Draft = &draft
	return hc.SaveSession()
}

// Answer отвечает на callback query. Telegram принимает только первый ответ
func (hc *HandlerContext) Answer(text string) {
	if hc.Callback == nil || hc.answered {
		return
	}
	hc.answered = true
	AnswerCallback(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// AnswerAlert отвечает на callback query с alert. Для сообщений отправляет текст в чат
func (hc *HandlerContext) AnswerAlert(text string) {
	if hc.Callback == nil {
		if err := hc.SendMessage(text, nil); err != nil {
			hc.Handler.Logger.Error("Failed to send message", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		return
	}
	if hc.answered {
		return
	}
	hc.answered = true
	AnswerCallbackAlert(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// Show редактирует сообщение с кнопкой или отправляет новое
func (hc *HandlerContext) Show(text string, keyboard *models.InlineKeyboardMarkup) error {
	if hc.Callback != nil && hc.Message != nil {
		return hc.EditMessage(text, keyboard)
	}
	return hc.SendMessage(text, keyboard)
}

// EditMessage редактирует сообщение
func (hc *HandlerContext) EditMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	params := &bot.EditMessageTextParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	_, err := hc.Bot.EditMessageText(hc.Ctx, params)

	// "message is not modified" не настоящая ошибка
	if IsMessageNotModifiedError(err) {
		return nil
	}

	return err
}

// SendMessage отправляет новое сообщение
func (hc *HandlerContext) SendMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:    hc.ChatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	_, err := hc.Bot.SendMessage(hc.Ctx, params)
	return err
}
