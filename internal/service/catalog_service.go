package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/model"
	"go.uber.org/zap"
)

// CatalogService услуги и клиенты специалиста
type CatalogService struct {
	services ServiceStore
	clients  ClientStore
	history  HistoryStore
	now      func() time.Time
	logger   *zap.Logger
}

// HistoryLimit сколько последних изменений показывать
const HistoryLimit = 20

func NewCatalogService(services ServiceStore, clients ClientStore, history HistoryStore, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		services: services,
		clients:  clients,
		history:  history,
		now:      time.Now,
		logger:   logger,
	}
}

// ServiceChanges изменения услуги, nil поле не меняется. Price в центах
type ServiceChanges struct {
	Name     *string
	Duration *int
	Price    *int
}

// ClientChanges изменения клиента, nil поле не меняется
type ClientChanges struct {
	Name  *string
	Email *string
	Phone *string
	Notes *string
}

// CreateService создаёт услугу. price в центах
func (s *CatalogService) CreateService(ctx context.Context, professionalID int64, name string, duration, price int) (*model.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}

	svc := &model.Service{
		ProfessionalID: professionalID,
		Name:           name,
		Duration:       duration,
		Price:          price,
		IsActive:       true,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	if err := s.record(ctx, created(professionalID, model.EntityService, svc.ID)); err != nil {
		return nil, err
	}

	s.logger.Info("Service created",
		zap.Int64("service_id", svc.ID),
		zap.Int64("professional_id", professionalID),
		zap.Int("duration", duration),
	)
	return svc, nil
}

func (s *CatalogService) ListServices(ctx context.Context, professionalID int64, activeOnly bool) ([]*model.Service, error) {
	return s.services.ListByProfessional(ctx, professionalID, activeOnly)
}

// GetService услуга специалиста
func (s *CatalogService) GetService(ctx context.Context, professionalID, serviceID int64) (*model.Service, error) {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if svc == nil {
		return nil, fmt.Errorf("service %d: %w", serviceID, ErrNotFound)
	}
	if svc.ProfessionalID != professionalID {
		return nil, fmt.Errorf("service %d: %w", serviceID, ErrNotOwner)
	}
	return svc, nil
}

// UpdateService меняет поля услуги и пишет в историю по строке на изменённое поле
func (s *CatalogService) UpdateService(ctx context.Context, professionalID, serviceID int64, changes ServiceChanges) (*model.Service, error) {
	svc, err := s.GetService(ctx, professionalID, serviceID)
	if err != nil {
		return nil, err
	}

	d := differ{professionalID: professionalID, entity: model.EntityService, entityID: serviceID}
	if changes.Name != nil {
		name := strings.TrimSpace(*changes.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		d.text("name", &svc.Name, name)
	}
	if changes.Duration != nil {
		if *changes.Duration <= 0 {
			return nil, ErrInvalidDuration
		}
		d.number("duration", &svc.Duration, *changes.Duration)
	}
	if changes.Price != nil {
		if *changes.Price < 0 {
			return nil, ErrInvalidPrice
		}
		d.number("price", &svc.Price, *changes.Price)
	}
	if len(d.entries) == 0 {
		return svc, nil
	}

	if err := s.services.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}
	if err := s.record(ctx, d.entries...); err != nil {
		return nil, err
	}

	s.logger.Info("Service updated",
		zap.Int64("service_id", serviceID),
		zap.Int("fields", len(d.entries)),
	)
	return svc, nil
}

// ToggleService переключает активность услуги
func (s *CatalogService) ToggleService(ctx context.Context, professionalID, serviceID int64) (*model.Service, error) {
	svc, err := s.GetService(ctx, professionalID, serviceID)
	if err != nil {
		return nil, err
	}

	svc.IsActive = !svc.IsActive
	if err := s.services.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}

	s.logger.Info("Service active toggled",
		zap.Int64("service_id", serviceID),
		zap.Bool("is_active", svc.IsActive),
	)
	return svc, nil
}

// DeleteService удаляет услугу, у прошлых записей остаётся название
func (s *CatalogService) DeleteService(ctx context.Context, professionalID, serviceID int64) error {
	if _, err := s.GetService(ctx, professionalID, serviceID); err != nil {
		return err
	}
	if err := s.services.Delete(ctx, serviceID); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}

	s.logger.Info("Service deleted",
		zap.Int64("service_id", serviceID),
		zap.Int64("professional_id", professionalID),
	)
	return nil
}

func (s *CatalogService) CreateClient(ctx context.Context, professionalID int64, name, email, phone, notes string) (*model.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	c := &model.Client{
		ProfessionalID: professionalID,
		Name:           name,
		Email:          strings.TrimSpace(email),
		Phone:          strings.TrimSpace(phone),
		Notes:          notes,
	}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	if err := s.record(ctx, created(professionalID, model.EntityClient, c.ID)); err != nil {
		return nil, err
	}

	s.logger.Info("Client created",
		zap.Int64("client_id", c.ID),
		zap.Int64("professional_id", professionalID),
	)
	return c, nil
}

func (s *CatalogService) ListClients(ctx context.Context, professionalID int64) ([]*model.Client, error) {
	return s.clients.ListByProfessional(ctx, professionalID)
}

func (s *CatalogService) GetClient(ctx context.Context, professionalID, clientID int64) (*model.Client, error) {
	c, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("client %d: %w", clientID, ErrNotFound)
	}
	if c.ProfessionalID != professionalID {
		return nil, fmt.Errorf("client %d: %w", clientID, ErrNotOwner)
	}
	return c, nil
}

// UpdateClient меняет контактные данные клиента и пишет изменения в историю
func (s *CatalogService) UpdateClient(ctx context.Context, professionalID, clientID int64, changes ClientChanges) (*model.Client, error) {
	current, err := s.GetClient(ctx, professionalID, clientID)
	if err != nil {
		return nil, err
	}
	c := *current

	d := differ{professionalID: professionalID, entity: model.EntityClient, entityID: clientID}
	if changes.Name != nil {
		name := strings.TrimSpace(*changes.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		d.text("name", &c.Name, name)
	}
	if changes.Email != nil {
		d.text("email", &c.Email, strings.TrimSpace(*changes.Email))
	}
	if changes.Phone != nil {
		d.text("phone", &c.Phone, strings.TrimSpace(*changes.Phone))
	}
	if changes.Notes != nil {
		d.text("notes", &c.Notes, *changes.Notes)
	}
	if len(d.entries) == 0 {
		return &c, nil
	}

	if err := s.clients.Update(ctx, &c); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	if err := s.record(ctx, d.entries...); err != nil {
		return nil, err
	}

	s.logger.Info("Client updated",
		zap.Int64("client_id", clientID),
		zap.Int("fields", len(d.entries)),
	)
	return &c, nil
}

// History последние изменения услуги или клиента специалиста
func (s *CatalogService) History(ctx context.Context, professionalID int64, entity model.EntityType, entityID int64) ([]model.ChangeEntry, error) {
	switch entity {
	case model.EntityService:
		if _, err := s.GetService(ctx, professionalID, entityID); err != nil {
			return nil, err
		}
	case model.EntityClient:
		if _, err := s.GetClient(ctx, professionalID, entityID); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("history of %q: %w", entity, ErrNotFound)
	}
	return s.history.List(ctx, entity, entityID, HistoryLimit)
}

// DeleteClient удаляет клиента, его будущие записи отменяются
func (s *CatalogService) DeleteClient(ctx context.Context, professionalID, clientID int64) error {
	if _, err := s.GetClient(ctx, professionalID, clientID); err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, clientID, s.now()); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}

	s.logger.Info("Client deleted",
		zap.Int64("client_id", clientID),
		zap.Int64("professional_id", professionalID),
	)
	return nil
}

func (s *CatalogService) record(ctx context.Context, entries ...model.ChangeEntry) error {
	if err := s.history.Add(ctx, entries); err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	return nil
}

func created(professionalID int64, entity model.EntityType, id int64) model.ChangeEntry {
	return model.ChangeEntry{
		ProfessionalID: professionalID,
		EntityType:     entity,
		EntityID:       id,
		Action:         model.ActionCreated,
	}
}

// differ применяет новое значение поля и запоминает строку истории, если оно изменилось
type differ struct {
	professionalID int64
	entity         model.EntityType
	entityID       int64
	entries        []model.ChangeEntry
}

func (d *differ) text(field string, current *string, value string) {
	if *current == value {
		return
	}
	d.add(field, *current, value)
	*current = value
}

func (d *differ) number(field string, current *int, value int) {
	if *current == value {
		return
	}
	d.add(field, strconv.Itoa(*current), strconv.Itoa(value))
	*current = value
}

func (d *differ) add(field, oldValue, newValue string) {
	d.entries = append(d.entries, model.ChangeEntry{
		ProfessionalID: d.professionalID,
		EntityType:     d.entity,
		EntityID:       d.entityID,
		Action:         model.ActionUpdated,
		Field:          field,
		OldValue:       oldValue,
		NewValue:       newValue,
	})
}
