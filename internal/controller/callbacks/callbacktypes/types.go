package callbacktypes

import (
	"github.com/Freeeeeet/agenda_bot/internal/auth"
	"github.com/Freeeeeet/agenda_bot/internal/controller/state"
	"github.com/Freeeeeet/agenda_bot/internal/service"
	"go.uber.org/zap"
)

// Handler содержит общие зависимости для всех callback handlers и команд
type Handler struct {
	Professionals *service.ProfessionalService
	Catalog       *service.CatalogService
	Appointments  *service.AppointmentService
	Blocks        *service.TimeBlockService
	Agenda        *service.AgendaService
	Invitations   *service.InvitationService
	Engines       *service.EngineFactory
	State         state.Store
	Tokens        *auth.Tokens
	Logger        *zap.Logger
}
