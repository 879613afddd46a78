package model

import "time"

// DefaultBlockTitle заголовок блокировки по умолчанию
const DefaultBlockTitle = "Horario Bloqueado"

// TimeBlock разовая блокировка времени. Статуса нет, блокирует всегда
type TimeBlock struct {
	ID             int64     `json:"id"`
	ProfessionalID int64     `json:"professional_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Title          string    `json:"title"`
	CreatedAt      time.Time `json:"created_at"`
}

func (b TimeBlock) Kind() EntryKind {
	return EntryKindBlock
}

func (b TimeBlock) DurationMinutes() int {
	return int(b.EndTime.Sub(b.StartTime) / time.Minute)
}
