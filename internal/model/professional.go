package model

import "time"

type Professional struct {
	ID           int64        `json:"id"`
	TelegramID   int64        `json:"telegram_id"`
	Username     string       `json:"username"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	LanguageCode string       `json:"language_code"`
	Timezone     string       `json:"timezone"`      // пусто - часовой пояс из конфига
	WorkSchedule WorkSchedule `json:"work_schedule"` // nil - расписание не настроено
	CreatedAt    time.Time    `json:"created_at"`
}

// HasSchedule настроено ли недельное расписание
func (p *Professional) HasSchedule() bool {
	return p != nil && p.WorkSchedule != nil
}

// Location часовой пояс специалиста с запасным вариантом
func (p *Professional) Location(fallback *time.Location) *time.Location {
	if p == nil || p.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}
