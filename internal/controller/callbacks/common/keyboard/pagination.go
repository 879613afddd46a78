package keyboard

import (
	"fmt"
	"time"

	"github.com/go-telegram/bot/models"
)

// PaginationButtons создаёт ряд кнопок пагинации
// prefix - префикс для callback (например "ap_dates:")
// currentPage - текущая страница (0-based)
// totalPages - всего страниц
func PaginationButtons(prefix string, currentPage, totalPages int) []models.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}

	var buttons []models.InlineKeyboardButton

	if currentPage > 0 {
		buttons = append(buttons, Button("⬅️", fmt.Sprintf("%s%d", prefix, currentPage-1)))
	}

	buttons = append(buttons, Button(
		fmt.Sprintf("📄 %d/%d", currentPage+1, totalPages),
		Noop,
	))

	if currentPage < totalPages-1 {
		buttons = append(buttons, Button("➡️", fmt.Sprintf("%s%d", prefix, currentPage+1)))
	}

	return buttons
}

// AddPagination добавляет пагинацию к builder
func (b *Builder) AddPagination(prefix string, currentPage, totalPages int) *Builder {
	buttons := PaginationButtons(prefix, currentPage, totalPages)
	if len(buttons) > 0 {
		b.Row(buttons...)
	}
	return b
}

// Page границы страницы [from, to) для total элементов и номер страницы после ограничения
func Page(total, page, perPage int) (from, to, current, pages int) {
	if perPage <= 0 {
		perPage = 1
	}
	pages = (total + perPage - 1) / perPage
	if pages == 0 {
		pages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	from = page * perPage
	to = from + perPage
	if to > total {
		to = total
	}
	return from, to, page, pages
}

// DayPagination переход на соседние дни агенды
func DayPagination(prefix string, date time.Time) []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{
		Button("◀️", prefix+date.AddDate(0, 0, -1).Format("2006-01-02")),
		Button("📅 Hoy", prefix+"today"),
		Button("▶️", prefix+date.AddDate(0, 0, 1).Format("2006-01-02")),
	}
}
