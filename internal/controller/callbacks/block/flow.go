package block

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Freeeeeet/agenda_bot/internal/availability"
	"github.com/Freeeeeet/agenda_bot/internal/booking"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/agenda"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/agenda_bot/internal/controller/state"
	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	dataTitle = "title"

	// MaxTitleLength ограничение длины названия блокировки
	MaxTitleLength = 100
)

// ErrTitleTooLong слишком длинное название
var ErrTitleTooLong = errors.New("block title is too long")

// ========================
// Time Block Flow Handlers
// ========================

// HandleNew bl_new
func HandleNew(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		if err := Start(hc); err != nil {
			common.HandleError(hc, err, "start block flow")
			return
		}
		hc.Answer("")
	})
}

// Start начинает новую блокировку и показывает выбор даты
func Start(hc *common.HandlerContext) error {
	flow, err := hc.Handler.Blocks.NewFlow(hc.Ctx, hc.Professional.ID)
	if err != nil {
		return err
	}
	if err := hc.StartFlow(state.StateBlockFlow, flow); err != nil {
		return err
	}
	return showDates(hc, flow, 0)
}

// HandleDates bl_dates:page
func HandleDates(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withFlow(ctx, b, callback, h, "block dates page", func(hc *common.HandlerContext, flow *booking.Flow) error {
		arg, err := common.CallbackArg(callback.Data)
		if err != nil {
			return err
		}
		page, err := strconv.Atoi(arg)
		if err != nil {
			return common.ErrInvalidFormat
		}
		return showDates(hc, flow, page)
	})
}

// HandleDate bl_date:2024-06-03
func HandleDate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withFlow(ctx, b, callback, h, "block select date", func(hc *common.HandlerContext, flow *booking.Flow) error {
		arg, err := common.CallbackArg(callback.Data)
		if err != nil {
			return err
		}
		date, err := hc.Engine().ParseDate(arg)
		if err != nil {
			return common.ErrInvalidFormat
		}

		slots, err := flow.SelectDate(hc.Ctx, date)
		if err != nil {
			return err
		}
		if err := hc.StoreFlow(state.StateBlockFlow, flow); err != nil {
			return err
		}
		return showStarts(hc, flow, slots, "")
	})
}

// HandleStart bl_start:09:30
func HandleStart(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withFlow(ctx, b, callback, h, "block select start", func(hc *common.HandlerContext, flow *booking.Flow) error {
		start, err := common.CallbackArg(callback.Data)
		if err != nil {
			return err
		}

		slots, err := flow.Refresh(hc.Ctx)
		if err != nil {
			return err
		}
		if err := flow.SelectSlot(start); err != nil {
			if errors.Is(err, booking.ErrSlotNotOffered) {
				if storeErr := hc.StoreFlow(state.StateBlockFlow, flow); storeErr != nil {
					return storeErr
				}
				return showStarts(hc, flow, slots, common.ErrorMessage(err))
			}
			return err
		}
		if err := hc.StoreFlow(state.StateBlockFlow, flow); err != nil {
			return err
		}
		return showEnds(hc, flow, "")
	})
}

// HandleEnd bl_end:11:00
func HandleEnd(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withFlow(ctx, b, callback, h, "block select end", func(hc *common.HandlerContext, flow *booking.Flow) error {
		end, err := common.CallbackArg(callback.Data)
		if err != nil {
			return err
		}

		ends, err := flow.EndTimes(hc.Ctx)
		if err != nil {
			return err
		}
		if !contains(ends, end) {
			return showEnds(hc, flow, common.ErrorMessage(booking.ErrSlotNotOffered))
		}
		if err := flow.SelectEnd(end); err != nil {
			return err
		}
		if err := hc.StoreFlow(state.StateBlockFlow, flow); err != nil {
			return err
		}
		return ShowConfirm(hc, flow)
	})
}

// HandleTitle bl_title запрашивает название блокировки текстом
func HandleTitle(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withFlow(ctx, b, callback, h, "block title prompt", func(hc *common.HandlerContext, flow *booking.Flow) error {
		if err := hc.StoreFlow(state.StateBlockTitle, flow); err != nil {
			return err
		}
		kb := keyboard.NewBuilder().
			Row(keyboard.CancelButton(common.FlowAbort)).
			Build()
		return hc.Show(fmt.Sprintf("✏️ Escribe el motivo del bloqueo (máximo %d caracteres):", MaxTitleLength), kb)
	})
}

// ApplyTitle сохраняет название из текстового сообщения и возвращает к подтверждению
func ApplyTitle(hc *common.HandlerContext, text string) error {
	draft, err := hc.Draft(model.EntryKindBlock)
	if err != nil {
		return err
	}
	title := strings.TrimSpace(text)
	if len([]rune(title)) > MaxTitleLength {
		return ErrTitleTooLong
	}

	flow, err := hc.Handler.Blocks.ResumeFlow(hc.Ctx, draft)
	if err != nil {
		return err
	}
	hc.Session.Set(dataTitle, title)
	if err := hc.StoreFlow(state.StateBlockFlow, flow); err != nil {
		return err
	}
	return ShowConfirm(hc, flow)
}

// HandleConfirm bl_confirm
func HandleConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withFlow(ctx, b, callback, h, "block confirm", func(hc *common.HandlerContext, flow *booking.Flow) error {
		block, err := h.Blocks.Commit(ctx, flow, hc.Session.Get(dataTitle))
		if err != nil {
			if errors.Is(err, booking.ErrSlotUnavailable) || errors.Is(err, booking.ErrSlotInPast) {
				return rejected(hc, flow, err)
			}
			return err
		}

		hc.ClearState()
		hc.Answer("⛔ Horario bloqueado")

		loc := hc.Engine().Location()
		return agenda.ShowDay(hc, block.StartTime.In(loc).Format(availability.DateLayout))
	})
}

func rejected(hc *common.HandlerContext, flow *booking.Flow, cause error) error {
	hc.Handler.Logger.Info("Time block rejected on commit",
		zap.Int64("professional_id", hc.Professional.ID),
		zap.String("draft_id", flow.Draft().ID.String()),
		zap.Error(cause))

	notice := common.FormatRejection(cause, hc.Engine().Location())
	slots, err := flow.Refresh(hc.Ctx)
	if err != nil {
		return err
	}
	if err := hc.StoreFlow(state.StateBlockFlow, flow); err != nil {
		return err
	}
	hc.AnswerAlert(notice)
	return showStarts(hc, flow, slots, notice)
}

func withFlow(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	operation string,
	fn func(hc *common.HandlerContext, flow *booking.Flow) error,
) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		draft, err := hc.Draft(model.EntryKindBlock)
		if err != nil {
			common.HandleError(hc, err, operation)
			return
		}
		flow, err := h.Blocks.ResumeFlow(ctx, draft)
		if err != nil {
			common.HandleError(hc, err, operation)
			return
		}
		if err := fn(hc, flow); err != nil {
			common.HandleError(hc, err, operation)
			return
		}
		hc.Answer("")
	})
}

func header(d booking.Draft) string {
	if d.IsEdit() {
		return "✏️ <b>Editar bloqueo</b>"
	}
	return "⛔ <b>Bloquear horario</b>"
}

func showDates(hc *common.HandlerContext, flow *booking.Flow, page int) error {
	dates, err := flow.Dates(hc.Ctx)
	if err != nil {
		return err
	}

	d := flow.Draft()
	if len(dates) == 0 {
		kb := keyboard.NewBuilder().
			Row(keyboard.Button("🗓 Configurar horario", common.ScheduleView)).
			AddMainMenuButton().
			Build()
		return hc.Show(header(d)+"\n\nNo hay días disponibles. Configura tu horario de trabajo.", kb)
	}

	kb := common.BuildDatesKeyboard(common.BlockDate, common.BlockDates, dates, page, d.CurrentDate)
	return hc.Show(header(d)+"\n\n📅 Elige la fecha:", kb)
}

func showStarts(hc *common.HandlerContext, flow *booking.Flow, slots []string, notice string) error {
	d := flow.Draft()
	date, err := hc.Engine().ParseDate(d.Date)
	if err != nil {
		return err
	}

	text := header(d) + "\n\n"
	if notice != "" {
		text += notice + "\n\n"
	}
	text += fmt.Sprintf("📅 %s\n\n", formatting.FormatDate(date))
	if len(slots) == 0 {
		text += "No hay horarios libres este día. Elige otra fecha."
	} else {
		text += "🕘 ¿Desde qué hora?"
	}

	current := ""
	if d.Date == d.CurrentDate {
		current = d.CurrentTime
	}
	return hc.Show(text, common.BuildSlotsKeyboard(common.BlockStart, slots, current, common.BlockDates+"0"))
}

func showEnds(hc *common.HandlerContext, flow *booking.Flow, notice string) error {
	ends, err := flow.EndTimes(hc.Ctx)
	if err != nil {
		return err
	}

	d := flow.Draft()
	text := header(d) + "\n\n"
	if notice != "" {
		text += notice + "\n\n"
	}
	text += fmt.Sprintf("🕘 Desde %s\n\n¿Hasta qué hora?", d.Start)

	current := ""
	if d.Date == d.CurrentDate && d.Start == d.CurrentTime {
		current = d.CurrentEnd
	}
	return hc.Show(text, common.BuildSlotsKeyboard(common.BlockEnd, ends, current, common.BlockDate+d.Date))
}

// ShowConfirm экран подтверждения блокировки
func ShowConfirm(hc *common.HandlerContext, flow *booking.Flow) error {
	d := flow.Draft()
	date, err := hc.Engine().ParseDate(d.Date)
	if err != nil {
		return err
	}
	candidate, err := flow.Candidate()
	if err != nil {
		return err
	}
	iv := candidate.Interval()

	title := hc.Session.Get(dataTitle)
	switch {
	case title != "":
	case d.IsEdit():
		title = "(sin cambios)"
	default:
		title = model.DefaultBlockTitle
	}

	text := fmt.Sprintf("%s\n\n📅 %s\n🕘 %s (%s)\n📝 %s\n\n¿Confirmas?",
		header(d),
		formatting.FormatDate(date),
		formatting.FormatTimeRange(iv.Start, iv.End),
		formatting.FormatDuration(d.DurationMinutes),
		html.EscapeString(title))

	kb := keyboard.NewBuilder().
		Row(keyboard.ConfirmCancelButtons(common.BlockConfirm, common.FlowAbort)...).
		Row(keyboard.Button("✏️ Motivo", common.BlockTitle)).
		AddBackButton(common.BlockDate + d.Date).
		Build()
	return hc.Show(text, kb)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
