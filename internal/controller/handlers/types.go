package handlers

import (
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/callbacktypes"
	"go.uber.org/zap"
)

// Handlers обработчики команд и текстовых сообщений. Зависимости общие с callbacks
type Handlers struct {
	deps   *callbacktypes.Handler
	logger *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(deps *callbacktypes.Handler) *Handlers {
	return &Handlers{
		deps:   deps,
		logger: deps.Logger,
	}
}
