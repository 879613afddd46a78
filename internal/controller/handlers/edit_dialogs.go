package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/catalog"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda_bot/internal/service"
	"go.uber.org/zap"
)

var errFieldInput = errors.New("invalid field value")

// ========================
// Edit dialogs
// ========================

// editTarget поле и id записи, выбранные кнопкой редактирования
func editTarget(hc *common.HandlerContext) (string, int64, bool) {
	field := hc.Session.Get(catalog.DataEditField)
	id, err := strconv.ParseInt(hc.Session.Get(catalog.DataEditID), 10, 64)
	return field, id, field != "" && err == nil
}

// serviceChangesFor разбирает ввод для поля услуги
func serviceChangesFor(field, text string) (service.ServiceChanges, string, error) {
	switch field {
	case common.FieldName:
		if n := textLength(text); n < ServiceNameMinLength || n > ServiceNameMaxLength {
			return service.ServiceChanges{}, fmt.Sprintf("❌ El nombre debe tener entre %d y %d caracteres. Intenta de nuevo:", ServiceNameMinLength, ServiceNameMaxLength), errFieldInput
		}
		return service.ServiceChanges{Name: &text}, "", nil
	case common.FieldDuration:
		duration, err := strconv.Atoi(text)
		if err != nil || duration < ServiceMinDuration || duration > ServiceMaxDuration {
			return service.ServiceChanges{}, fmt.Sprintf("❌ Escribe un número de minutos entre %d y %d:", ServiceMinDuration, ServiceMaxDuration), errFieldInput
		}
		return service.ServiceChanges{Duration: &duration}, "", nil
	case common.FieldPrice:
		price, err := ParsePrice(text)
		if err != nil || price > ServiceMaxPrice {
			return service.ServiceChanges{}, "❌ Precio inválido. Escribe un número, por ejemplo 350:", errFieldInput
		}
		return service.ServiceChanges{Price: &price}, "", nil
	default:
		return service.ServiceChanges{}, "", fmt.Errorf("%w: %q", common.ErrInvalidFormat, field)
	}
}

// clientChangesFor разбирает ввод для поля клиента. "-" очищает необязательное поле
func clientChangesFor(field, text string) (service.ClientChanges, string, error) {
	if field != common.FieldName && text == skipValue {
		text = ""
	}
	switch field {
	case common.FieldName:
		if n := textLength(text); n < ClientNameMinLength || n > ClientNameMaxLength {
			return service.ClientChanges{}, fmt.Sprintf("❌ El nombre debe tener entre %d y %d caracteres. Intenta de nuevo:", ClientNameMinLength, ClientNameMaxLength), errFieldInput
		}
		return service.ClientChanges{Name: &text}, "", nil
	case common.FieldPhone:
		if textLength(text) > ClientPhoneMaxLength {
			return service.ClientChanges{}, "❌ El teléfono es demasiado largo. Intenta de nuevo:", errFieldInput
		}
		return service.ClientChanges{Phone: &text}, "", nil
	case common.FieldEmail:
		if textLength(text) > ClientEmailMaxLength {
			return service.ClientChanges{}, "❌ El email es demasiado largo. Intenta de nuevo:", errFieldInput
		}
		return service.ClientChanges{Email: &text}, "", nil
	case common.FieldNotes:
		if textLength(text) > ClientNotesMaxLength {
			return service.ClientChanges{}, fmt.Sprintf("❌ Las notas no pueden superar %d caracteres:", ClientNotesMaxLength), errFieldInput
		}
		return service.ClientChanges{Notes: &text}, "", nil
	default:
		return service.ClientChanges{}, "", fmt.Errorf("%w: %q", common.ErrInvalidFormat, field)
	}
}

func (h *Handlers) handleEditServiceStep(hc *common.HandlerContext, text string) {
	field, id, ok := editTarget(hc)
	if !ok {
		hc.ClearState()
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID, common.ErrorMessage(common.ErrNoDraft))
		return
	}

	changes, retry, err := serviceChangesFor(field, text)
	if errors.Is(err, errFieldInput) {
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID, retry)
		return
	}
	if err != nil {
		hc.ClearState()
		h.reply(hc, err, "edit service")
		return
	}

	svc, err := h.deps.Catalog.UpdateService(hc.Ctx, hc.Professional.ID, id, changes)
	if err != nil {
		h.reply(hc, err, "edit service")
		return
	}
	hc.ClearState()

	h.logger.Info("Service edited via bot",
		zap.Int64("professional_id", hc.Professional.ID),
		zap.Int64("service_id", id),
		zap.String("field", field))

	if err := catalog.ShowService(hc, svc); err != nil {
		h.reply(hc, err, "view service")
	}
}

func (h *Handlers) handleEditClientStep(hc *common.HandlerContext, text string) {
	field, id, ok := editTarget(hc)
	if !ok {
		hc.ClearState()
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID, common.ErrorMessage(common.ErrNoDraft))
		return
	}

	changes, retry, err := clientChangesFor(field, text)
	if errors.Is(err, errFieldInput) {
		h.sendError(hc.Ctx, hc.Bot, hc.ChatID, retry)
		return
	}
	if err != nil {
		hc.ClearState()
		h.reply(hc, err, "edit client")
		return
	}

	client, err := h.deps.Catalog.UpdateClient(hc.Ctx, hc.Professional.ID, id, changes)
	if err != nil {
		h.reply(hc, err, "edit client")
		return
	}
	hc.ClearState()

	h.logger.Info("Client edited via bot",
		zap.Int64("professional_id", hc.Professional.ID),
		zap.Int64("client_id", id),
		zap.String("field", field))

	if err := catalog.ShowClient(hc, client); err != nil {
		h.reply(hc, err, "view client")
	}
}
