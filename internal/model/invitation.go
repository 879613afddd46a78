package model

import "time"

// Invitation одноразовый код, с которым новый специалист может зарегистрироваться
type Invitation struct {
	ID               int64      `json:"id"`
	Code             string     `json:"code"`
	CreatedBy        int64      `json:"created_by"`
	UsedByTelegramID *int64     `json:"used_by_telegram_id"` // nil - код ещё не использован
	UsedAt           *time.Time `json:"used_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (i *Invitation) IsUsed() bool {
	return i.UsedAt != nil
}
