package model

import "time"

type EntityType string

const (
	EntityClient  EntityType = "client"
	EntityService EntityType = "service"
)

type ChangeAction string

const (
	ActionCreated ChangeAction = "created"
	ActionUpdated ChangeAction = "updated"
)

// ChangeEntry одна строка истории. У обновления по строке на каждое изменённое поле
type ChangeEntry struct {
	ID             int64        `json:"id"`
	ProfessionalID int64        `json:"professional_id"`
	EntityType     EntityType   `json:"entity_type"`
	EntityID       int64        `json:"entity_id"`
	Action         ChangeAction `json:"action"`
	Field          string       `json:"field,omitempty"`
	OldValue       string       `json:"old_value,omitempty"`
	NewValue       string       `json:"new_value,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}
