package formatting

import (
	"strconv"

	"github.com/Freeeeeet/agenda_bot/internal/model"
)

var fieldNames = map[string]string{
	"name":     "Nombre",
	"duration": "Duración",
	"price":    "Precio",
	"email":    "Email",
	"phone":    "Teléfono",
	"notes":    "Notas",
}

// FieldName название поля для истории изменений
func FieldName(field string) string {
	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}

// FieldValue значение поля в читаемом виде, цена хранится в центах
func FieldValue(field, value string) string {
	if value == "" {
		return "(vacío)"
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return value
	}
	switch field {
	case "price":
		return FormatPriceShort(n)
	case "duration":
		return FormatDuration(n)
	default:
		return value
	}
}

// FormatChange одна строка истории без даты
func FormatChange(e model.ChangeEntry) string {
	if e.Action == model.ActionCreated {
		return "Registro creado"
	}
	return FieldName(e.Field) + ": " + FieldValue(e.Field, e.OldValue) + " → " + FieldValue(e.Field, e.NewValue)
}
