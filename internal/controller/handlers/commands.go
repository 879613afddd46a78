package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/agenda"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/appointment"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/block"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/catalog"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/schedule"
	"github.com/Freeeeeet/agenda_bot/internal/controller/state"
	"github.com/Freeeeeet/agenda_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	user := update.Message.From

	// Регистрируем специалиста, новому нужен код из /start CODE
	professional, err := h.deps.Professionals.Register(
		ctx,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
		startPayload(update.Message.Text),
	)
	if errors.Is(err, service.ErrInvitationRequired) || errors.Is(err, service.ErrInvalidInvitation) {
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}
	if err != nil {
		h.logger.Error("Failed to register professional", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Ocurrió un error al registrarte. Intenta más tarde.")
		return
	}

	hc := common.NewMessageContext(ctx, b, update.Message, h.deps)
	hc.Professional = professional

	welcome := fmt.Sprintf(
		"👋 ¡Hola, %s!\n\n"+
			"Este bot lleva tu agenda: citas con clientes, bloqueos de horario y tu horario de trabajo.\n\n"+
			"Usa /help para ver todos los comandos.",
		html.EscapeString(professional.FirstName),
	)
	if err := hc.SendMessage(welcome, nil); err != nil {
		h.logger.Error("Failed to send welcome", zap.Error(err))
	}
	common.ShowMainMenu(hc)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Comandos disponibles:\n\n" +
		"/menu - Menú principal\n" +
		"/agenda - Agenda de hoy\n" +
		"/cita - Agendar una cita\n" +
		"/bloquear - Bloquear un horario\n" +
		"/horario - Horario de trabajo\n" +
		"/servicios - Tus servicios\n" +
		"/clientes - Tus clientes\n" +
		"/invitar - Crear un código de invitación\n" +
		"/invitaciones - Códigos pendientes\n" +
		"/api - Token para el API HTTP\n" +
		"/cancelar - Cancelar la operación actual\n" +
		"/help - Mostrar esta ayuda"

	h.sendText(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleMenu обрабатывает команду /menu
func (h *Handlers) HandleMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	hc, ok := h.requireProfessional(ctx, b, update)
	if !ok {
		return
	}
	hc.ClearState()
	common.ShowMainMenu(hc)
}

// HandleAgenda обрабатывает команду /agenda
func (h *Handlers) HandleAgenda(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.run(ctx, b, update, "show agenda", func(hc *common.HandlerContext) error {
		return agenda.ShowDay(hc, agenda.Today)
	})
}

// HandleNewAppointment обрабатывает команду /cita
func (h *Handlers) HandleNewAppointment(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.run(ctx, b, update, "start appointment flow", appointment.Start)
}

// HandleNewBlock обрабатывает команду /bloquear
func (h *Handlers) HandleNewBlock(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.run(ctx, b, update, "start block flow", block.Start)
}

// HandleSchedule обрабатывает команду /horario
func (h *Handlers) HandleSchedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.run(ctx, b, update, "show schedule", schedule.ShowSchedule)
}

// HandleServices обрабатывает команду /servicios
func (h *Handlers) HandleServices(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.run(ctx, b, update, "list services", catalog.ShowServices)
}

// HandleClients обрабатывает команду /clientes
func (h *Handlers) HandleClients(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.run(ctx, b, update, "list clients", catalog.ShowClients)
}

// HandleInvite обрабатывает команду /invitar - новый код приглашения
func (h *Handlers) HandleInvite(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.run(ctx, b, update, "create invitation", func(hc *common.HandlerContext) error {
		inv, err := h.deps.Invitations.Create(hc.Ctx, hc.Professional.ID)
		if err != nil {
			return err
		}
		text := fmt.Sprintf(
			"🎟 <b>Código de invitación</b>\n\n<code>%s</code>\n\n"+
				"Compártelo con la persona que quieres invitar. Debe escribir al bot:\n<code>/start %s</code>\n\n"+
				"El código sirve una sola vez.",
			inv.Code, inv.Code)
		return hc.SendMessage(text, nil)
	})
}

// HandleInvitations обрабатывает команду /invitaciones
func (h *Handlers) HandleInvitations(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.run(ctx, b, update, "list invitations", func(hc *common.HandlerContext) error {
		invitations, err := h.deps.Invitations.ListPending(hc.Ctx, hc.Professional.ID)
		if err != nil {
			return err
		}
		return hc.SendMessage(common.FormatInvitations(invitations), nil)
	})
}

// HandleAPIToken обрабатывает команду /api - токен для HTTP API специалиста
func (h *Handlers) HandleAPIToken(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.run(ctx, b, update, "issue api token", func(hc *common.HandlerContext) error {
		if !h.deps.Tokens.Enabled() {
			return hc.SendMessage("🔒 El API HTTP no está habilitado en este servidor.", nil)
		}
		token, err := h.deps.Tokens.Issue(hc.Professional.ID)
		if err != nil {
			return err
		}

		h.logger.Info("API token issued", zap.Int64("professional_id", hc.Professional.ID))
		text := fmt.Sprintf(
			"🔑 <b>Token del API</b>\n\n"+
				"Envíalo en el encabezado <code>Authorization: Bearer TOKEN</code> "+
				"para /api/professionals/%d. Vence en %d días.\n\n<code>%s</code>",
			hc.Professional.ID, int(h.deps.Tokens.TTL().Hours()/24), token)
		return hc.SendMessage(text, nil)
	})
}

// HandleCancel обрабатывает команду /cancelar - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	hc, ok := h.requireProfessional(ctx, b, update)
	if !ok {
		return
	}

	if hc.Session.IsEmpty() {
		h.sendError(ctx, b, hc.ChatID, "❌ No hay ninguna operación activa.")
		return
	}

	hc.ClearState()
	h.sendText(ctx, b, hc.ChatID, "✅ Operación cancelada.\n\nUsa /help para ver los comandos.")
}

// startPayload аргумент deep link из "/start CODE"
func startPayload(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// run выполняет экран команды в контексте специалиста
func (h *Handlers) run(ctx context.Context, b *bot.Bot, update *models.Update, operation string, fn func(hc *common.HandlerContext) error) {
	hc, ok := h.requireProfessional(ctx, b, update)
	if !ok {
		return
	}
	if err := fn(hc); err != nil {
		h.reply(hc, err, operation)
	}
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	hc, ok := h.requireProfessional(ctx, b, update)
	if !ok {
		return
	}
	currentState := hc.Session.State

	h.logger.Debug("HandleTextMessage called",
		zap.Int64("telegram_id", hc.TelegramID),
		zap.String("state", string(currentState)))

	text := strings.TrimSpace(update.Message.Text)

	switch currentState {
	case state.StateNone:
		h.logger.Debug("No active state, ignoring message",
			zap.Int64("telegram_id", hc.TelegramID))
	case state.StateCreateServiceName:
		h.handleServiceNameStep(hc, text)
	case state.StateCreateServiceDuration:
		h.handleServiceDurationStep(hc, text)
	case state.StateCreateServicePrice:
		h.handleServicePriceStep(hc, text)
	case state.StateCreateClientName:
		h.handleClientNameStep(hc, text)
	case state.StateCreateClientPhone:
		h.handleClientPhoneStep(hc, text)
	case state.StateScheduleHours:
		h.handleScheduleHoursStep(hc, text)
	case state.StateScheduleBreak:
		h.handleScheduleBreakStep(hc, text)
	case state.StateScheduleTimezone:
		h.handleTimezoneStep(hc, text)
	case state.StateBlockTitle:
		h.handleBlockTitleStep(hc, text)
	case state.StateEditService:
		h.handleEditServiceStep(hc, text)
	case state.StateEditClient:
		h.handleEditClientStep(hc, text)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
	}
}
