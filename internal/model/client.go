package model

import "time"

type Client struct {
	ID             int64     `json:"id"`
	ProfessionalID int64     `json:"professional_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}
