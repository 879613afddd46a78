package schedule

import (
	"context"
	"fmt"
	"strings"

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

// DataWeekday ключ редактируемого дня в сессии
const DataWeekday = "weekday"

// ========================
// Work Schedule Handlers
// ========================

// HandleView sch_view
func HandleView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()
		if err := ShowSchedule(hc); err != nil {
			common.HandleError(hc, err, "show schedule")
			return
		}
		hc.Answer("")
	})
}

// ShowSchedule недельное расписание текущего специалиста
func ShowSchedule(hc *common.HandlerContext) error {
	text, kb := common.BuildScheduleScreen(hc.Professional, hc.Engine().Location())
	return hc.Show(text, kb)
}

// ShowDay настройки одного дня
func ShowDay(hc *common.HandlerContext, wd model.Weekday) error {
	text, kb := common.BuildDayScreen(wd, hc.Professional.WorkSchedule.Day(wd))
	return hc.Show(text, kb)
}

// HandleDay sch_day:MON
func HandleDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withWeekday(ctx, b, callback, h, "show schedule day", func(hc *common.HandlerContext, wd model.Weekday) error {
		hc.ClearState()
		return ShowDay(hc, wd)
	})
}

// HandleToggle sch_toggle:MON
func HandleToggle(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withWeekday(ctx, b, callback, h, "toggle schedule day", func(hc *common.HandlerContext, wd model.Weekday) error {
		schedule, err := hc.Handler.Professionals.ToggleDay(hc.Ctx, hc.Professional.ID, wd)
		if err != nil {
			return err
		}
		hc.Professional.WorkSchedule = schedule

		hc.Handler.Logger.Info("Schedule day toggled",
			zap.Int64("professional_id", hc.Professional.ID),
			zap.String("weekday", string(wd)),
			zap.Bool("active", schedule.Day(wd).IsActive))
		return ShowDay(hc, wd)
	})
}

// HandleClearBreaks sch_clear:MON
func HandleClearBreaks(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withWeekday(ctx, b, callback, h, "clear breaks", func(hc *common.HandlerContext, wd model.Weekday) error {
		schedule, err := hc.Handler.Professionals.ClearBreaks(hc.Ctx, hc.Professional.ID, wd)
		if err != nil {
			return err
		}
		hc.Professional.WorkSchedule = schedule
		hc.Answer("🧹 Descansos eliminados")
		return ShowDay(hc, wd)
	})
}

// HandleHoursPrompt sch_hours:MON
func HandleHoursPrompt(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withWeekday(ctx, b, callback, h, "schedule hours prompt", func(hc *common.HandlerContext, wd model.Weekday) error {
		return prompt(hc, state.StateScheduleHours, wd,
			fmt.Sprintf("🕘 <b>%s</b>\n\nEscribe el horario de trabajo en formato <code>09:00-18:00</code>", formatting.WeekdayName(wd)))
	})
}

// HandleBreakPrompt sch_break:MON
func HandleBreakPrompt(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withWeekday(ctx, b, callback, h, "schedule break prompt", func(hc *common.HandlerContext, wd model.Weekday) error {
		return prompt(hc, state.StateScheduleBreak, wd,
			fmt.Sprintf("☕ <b>%s</b>\n\nEscribe el descanso en formato <code>13:00-14:00</code>", formatting.WeekdayName(wd)))
	})
}

// HandleTimezonePrompt sch_tz
func HandleTimezonePrompt(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.Session = &state.Session{State: state.StateScheduleTimezone}
		if err := hc.SaveSession(); err != nil {
			common.HandleError(hc, err, "timezone prompt")
			return
		}

		kb := keyboard.NewBuilder().AddBackButton(common.ScheduleView).Build()
		text := fmt.Sprintf("🌎 Zona horaria actual: <b>%s</b>\n\n"+
			"Escribe el nombre de tu zona horaria, por ejemplo <code>America/Mexico_City</code>",
			hc.Engine().Location().String())
		if err := hc.Show(text, kb); err != nil {
			common.HandleError(hc, err, "timezone prompt")
			return
		}
		hc.Answer("")
	})
}

func prompt(hc *common.HandlerContext, st state.UserState, wd model.Weekday, text string) error {
	hc.Session = &state.Session{State: st}
	hc.Session.Set(DataWeekday, string(wd))
	if err := hc.SaveSession(); err != nil {
		return err
	}
	kb := keyboard.NewBuilder().AddBackButton(common.ScheduleDay + string(wd)).Build()
	return hc.Show(text, kb)
}

func withWeekday(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	operation string,
	fn func(hc *common.HandlerContext, wd model.Weekday) error,
) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		arg, err := common.CallbackArg(callback.Data)
		if err != nil {
			common.HandleError(hc, err, operation)
			return
		}
		wd, ok := model.ParseWeekday(arg)
		if !ok {
			common.HandleError(hc, common.ErrInvalidFormat, operation)
			return
		}
		if err := fn(hc, wd); err != nil {
			common.HandleError(hc, err, operation)
			return
		}
		hc.Answer("")
	})
}

// ParseRange разбирает "09:00-18:00". Допускает пробелы и длинное тире
func ParseRange(text string) (string, string, error) {
	text = strings.ReplaceAll(strings.TrimSpace(text), "–", "-")
	startRaw, endRaw, ok := strings.Cut(text, "-")
	if !ok {
		return "", "", fmt.Errorf("%w: %q", model.ErrInvalidTimeFormat, text)
	}

	r := model.TimeRange{Start: strings.TrimSpace(startRaw), End: strings.TrimSpace(endRaw)}
	if _, _, err := r.Bounds(); err != nil {
		return "", "", err
	}
	return r.Start, r.End, nil
}
