package agenda

import (
	"context"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Today значение аргумента для текущего дня
const Today = "today"

// HandleDay agenda:2024-06-03 | agenda:today
func HandleDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessional(ctx, b, callback, h, func(hc *common.HandlerContext) {
		arg, err := common.CallbackArg(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse agenda day")
			return
		}
		if err := ShowDay(hc, arg); err != nil {
			common.HandleError(hc, err, "show agenda")
			return
		}
		hc.Answer("")
	})
}

// ShowDay показывает агенду дня. arg - дата YYYY-MM-DD или "today"
func ShowDay(hc *common.HandlerContext, arg string) error {
	date, err := resolveDate(hc, arg)
	if err != nil {
		return err
	}

	a, err := hc.Handler.Agenda.Day(hc.Ctx, hc.Professional.ID, date)
	if err != nil {
		return err
	}

	hc.Handler.Logger.Debug("Agenda shown",
		zap.Int64("professional_id", hc.Professional.ID),
		zap.Time("date", a.Date),
		zap.Int("appointments", len(a.Active())),
		zap.Int("blocks", len(a.Blocks)))

	text, kb := common.BuildAgendaScreen(a)
	return hc.Show(text, kb)
}

func resolveDate(hc *common.HandlerContext, arg string) (time.Time, error) {
	engine := hc.Engine()
	if arg == "" || arg == Today {
		return engine.Today(), nil
	}
	date, err := engine.ParseDate(arg)
	if err != nil {
		return time.Time{}, common.ErrInvalidFormat
	}
	return date, nil
}
