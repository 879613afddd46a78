package keyboard

import (
	"github.com/go-telegram/bot/models"
)

// Общие callback data навигации
const (
	MainMenu = "main_menu"
	Noop     = "noop"
)

// BackButton создаёт кнопку "Volver"
func BackButton(callbackData string) models.InlineKeyboardButton {
	return Button("⬅️ Volver", callbackData)
}

// MainMenuButton создаёт кнопку главного меню
func MainMenuButton() models.InlineKeyboardButton {
	return Button("🏠 Menú principal", MainMenu)
}

// CancelButton создаёт кнопку "Cancelar"
func CancelButton(callbackData string) models.InlineKeyboardButton {
	return Button("✖️ Cancelar", callbackData)
}

// ConfirmButton создаёт кнопку "Confirmar"
func ConfirmButton(callbackData string) models.InlineKeyboardButton {
	return Button("✅ Confirmar", callbackData)
}

// ConfirmCancelButtons ряд Confirmar/Cancelar
func ConfirmCancelButtons(confirmCallback, cancelCallback string) []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{
		ConfirmButton(confirmCallback),
		CancelButton(cancelCallback),
	}
}

// EditButton создаёт кнопку "Editar"
func EditButton(callbackData string) models.InlineKeyboardButton {
	return Button("✏️ Editar", callbackData)
}

// DeleteButton создаёт кнопку "Eliminar"
func DeleteButton(callbackData string) models.InlineKeyboardButton {
	return Button("🗑 Eliminar", callbackData)
}

// AddBackButton добавляет кнопку "Volver" к builder
func (b *Builder) AddBackButton(callbackData string) *Builder {
	return b.Row(BackButton(callbackData))
}

// AddMainMenuButton добавляет кнопку главного меню к builder
func (b *Builder) AddMainMenuButton() *Builder {
	return b.Row(MainMenuButton())
}
