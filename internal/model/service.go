package model

import "time"

type Service struct {
	ID             int64     `json:"id"`
	ProfessionalID int64     `json:"professional_id"`
	Name           string    `json:"name"`
	Duration       int       `json:"duration"`    // в минутах
	Price          int       `json:"price"`       // в центах
	BufferTime     int       `json:"buffer_time"` // минуты после услуги, информационно
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}
