package controller

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda_bot/internal/controller/handlers"
	"github.com/Freeeeeet/agenda_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(botInstance *bot.Bot, deps *callbacktypes.Handler) *BotController {
	return &BotController{
		bot:             botInstance,
		handlers:        handlers.NewHandlers(deps),
		callbackHandler: callbacks.NewHandler(deps),
		logger:          deps.Logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	commands := map[string]bot.HandlerFunc{
		"/help":      c.handlers.HandleHelp,
		"/menu":      c.handlers.HandleMenu,
		"/agenda":    c.handlers.HandleAgenda,
		"/cita":      c.handlers.HandleNewAppointment,
		"/bloquear":  c.handlers.HandleNewBlock,
		"/horario":   c.handlers.HandleSchedule,
		"/servicios": c.handlers.HandleServices,
		"/clientes":  c.handlers.HandleClients,
		"/cancelar":  c.handlers.HandleCancel,

		"/invitar":      c.handlers.HandleInvite,
		"/invitaciones": c.handlers.HandleInvitations,
		"/api":          c.handlers.HandleAPIToken,
	}
	for pattern, handler := range commands {
		c.bot.RegisterHandler(bot.HandlerTypeMessageText, pattern, bot.MatchTypeExact, handler)
	}

	// /start с кодом приглашения приходит как "/start CODE"
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, c.handlers.HandleStart)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Empezar"},
		{Command: "agenda", Description: "📅 Agenda de hoy"},
		{Command: "cita", Description: "➕ Nueva cita"},
		{Command: "bloquear", Description: "⛔ Bloquear horario"},
		{Command: "horario", Description: "🕘 Horario de trabajo"},
		{Command: "servicios", Description: "💼 Servicios"},
		{Command: "clientes", Description: "👥 Clientes"},
		{Command: "invitar", Description: "🎟 Invitar a un colega"},
		{Command: "invitaciones", Description: "📨 Códigos pendientes"},
		{Command: "api", Description: "🔑 Token del API"},
		{Command: "menu", Description: "🏠 Menú principal"},
		{Command: "cancelar", Description: "✖️ Cancelar operación"},
		{Command: "help", Description: "❓ Ayuda"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// SendAgenda утренняя рассылка: агенда дня с кнопками навигации
func (c *BotController) SendAgenda(ctx context.Context, telegramID int64, agenda *service.Agenda) error {
	text, keyboard := common.BuildAgendaScreen(agenda)
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      telegramID,
		Text:        "☀️ <b>Buenos días</b>\n\n" + text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		return fmt.Errorf("send agenda: %w", err)
	}
	return nil
}

// Start запускает бота, блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}
