package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/model"
)

// In-memory хранилища для тестов сервисов

type memProfessionals struct {
	byID   map[int64]*model.Professional
	nextID int64
}

func newMemProfessionals(ps ...*model.Professional) *memProfessionals {
	m := &memProfessionals{byID: map[int64]*model.Professional{}, nextID: 100}
	for _, p := range ps {
		m.byID[p.ID] = p
	}
	return m
}

func (m *memProfessionals) Create(_ context.Context, p *model.Professional) error {
	m.nextID++
	p.ID = m.nextID
	m.byID[p.ID] = p
	return nil
}

func (m *memProfessionals) GetByTelegramID(_ context.Context, telegramID int64) (*model.Professional, error) {
	for _, p := range m.byID {
		if p.TelegramID == telegramID {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memProfessionals) GetByID(_ context.Context, id int64) (*model.Professional, error) {
	return m.byID[id], nil
}

func (m *memProfessionals) ListAll(_ context.Context) ([]*model.Professional, error) {
	var out []*model.Professional
	for _, p := range m.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memProfessionals) Count(_ context.Context) (int, error) {
	return len(m.byID), nil
}

func (m *memProfessionals) UpdateProfile(_ context.Context, p *model.Professional) error {
	if _, ok := m.byID[p.ID]; !ok {
		return errors.New("professional not found")
	}
	m.byID[p.ID] = p
	return nil
}

func (m *memProfessionals) UpdateWorkSchedule(_ context.Context, id int64, schedule model.WorkSchedule) error {
	p, ok := m.byID[id]
	if !ok {
		return errors.New("professional not found")
	}
	p.WorkSchedule = schedule
	return nil
}

func (m *memProfessionals) UpdateTimezone(_ context.Context, id int64, timezone string) error {
	p, ok := m.byID[id]
	if !ok {
		return errors.New("professional not found")
	}
	p.Timezone = timezone
	return nil
}

type memServices struct {
	byID   map[int64]*model.Service
	nextID int64
}

func newMemServices(ss ...*model.Service) *memServices {
	m := &memServices{byID: map[int64]*model.Service{}, nextID: 100}
	for _, s := range ss {
		m.byID[s.ID] = s
	}
	return m
}

func (m *memServices) Create(_ context.Context, s *model.Service) error {
	m.nextID++
	s.ID = m.nextID
	m.byID[s.ID] = s
	return nil
}

func (m *memServices) GetByID(_ context.Context, id int64) (*model.Service, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memServices) ListByProfessional(_ context.Context, professionalID int64, activeOnly bool) ([]*model.Service, error) {
	var out []*model.Service
	for _, s := range m.byID {
		if s.ProfessionalID == professionalID && (s.IsActive || !activeOnly) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memServices) Update(_ context.Context, s *model.Service) error {
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memServices) Delete(_ context.Context, id int64) error {
	delete(m.byID, id)
	return nil
}

type memClients struct {
	byID    map[int64]*model.Client
	nextID  int64
	deleted []int64
}

func newMemClients(cs ...*model.Client) *memClients {
	m := &memClients{byID: map[int64]*model.Client{}, nextID: 100}
	for _, c := range cs {
		m.byID[c.ID] = c
	}
	return m
}

func (m *memClients) Create(_ context.Context, c *model.Client) error {
	m.nextID++
	c.ID = m.nextID
	m.byID[c.ID] = c
	return nil
}

func (m *memClients) GetByID(_ context.Context, id int64) (*model.Client, error) {
	return m.byID[id], nil
}

func (m *memClients) ListByProfessional(_ context.Context, professionalID int64) ([]*model.Client, error) {
	var out []*model.Client
	for _, c := range m.byID {
		if c.ProfessionalID == professionalID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memClients) Update(_ context.Context, c *model.Client) error {
	m.byID[c.ID] = c
	return nil
}

func (m *memClients) Delete(_ context.Context, id int64, _ time.Time) error {
	delete(m.byID, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type memInvitations struct {
	byCode map[string]*model.Invitation
	nextID int64
}

func newMemInvitations(invs ...*model.Invitation) *memInvitations {
	m := &memInvitations{byCode: map[string]*model.Invitation{}, nextID: 100}
	for _, inv := range invs {
		m.byCode[inv.Code] = inv
	}
	return m
}

func (m *memInvitations) Create(_ context.Context, inv *model.Invitation) error {
	m.nextID++
	inv.ID = m.nextID
	m.byCode[inv.Code] = inv
	return nil
}

func (m *memInvitations) CodeExists(_ context.Context, code string) (bool, error) {
	_, ok := m.byCode[code]
	return ok, nil
}

func (m *memInvitations) MarkUsed(_ context.Context, code string, telegramID int64) (int64, bool, error) {
	inv, ok := m.byCode[code]
	if !ok || inv.IsUsed() {
		return 0, false, nil
	}
	now := time.Now()
	inv.UsedByTelegramID = &telegramID
	inv.UsedAt = &now
	return inv.CreatedBy, true, nil
}

func (m *memInvitations) ListPending(_ context.Context, createdBy int64) ([]*model.Invitation, error) {
	var out []*model.Invitation
	for _, inv := range m.byCode {
		if inv.CreatedBy == createdBy && !inv.IsUsed() {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type memHistory struct {
	entries []model.ChangeEntry
}

func (m *memHistory) Add(_ context.Context, entries []model.ChangeEntry) error {
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *memHistory) List(_ context.Context, entity model.EntityType, entityID int64, limit int) ([]model.ChangeEntry, error) {
	var out []model.ChangeEntry
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if e := m.entries[i]; e.EntityType == entity && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memAppointments struct {
	byID   map[int64]*model.Appointment
	nextID int64
}

func newMemAppointments() *memAppointments {
	return &memAppointments{byID: map[int64]*model.Appointment{}}
}

func (m *memAppointments) Create(_ context.Context, a *model.Appointment) error {
	m.nextID++
	a.ID = m.nextID
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *memAppointments) GetByID(_ context.Context, id int64) (*model.Appointment, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *memAppointments) ListBetween(_ context.Context, professionalID int64, from, to time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range m.all(professionalID) {
		if !a.StartTime.Before(from) && a.StartTime.Before(to) {
			cp := a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAppointments) Update(_ context.Context, a *model.Appointment) error {
	if _, ok := m.byID[a.ID]; !ok {
		return errors.New("appointment not found")
	}
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *memAppointments) UpdateStatus(_ context.Context, id int64, status model.AppointmentStatus) error {
	a, ok := m.byID[id]
	if !ok {
		return errors.New("appointment not found")
	}
	a.Status = status
	return nil
}

func (m *memAppointments) Delete(_ context.Context, id int64) error {
	delete(m.byID, id)
	return nil
}

func (m *memAppointments) all(professionalID int64) []model.Appointment {
	var out []model.Appointment
	for _, a := range m.byID {
		if a.ProfessionalID == professionalID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

type memBlocks struct {
	byID   map[int64]*model.TimeBlock
	nextID int64
}

func newMemBlocks() *memBlocks {
	return &memBlocks{byID: map[int64]*model.TimeBlock{}}
}

func (m *memBlocks) Create(_ context.Context, b *model.TimeBlock) error {
	m.nextID++
	b.ID = m.nextID
	cp := *b
	m.byID[b.ID] = &cp
	return nil
}

func (m *memBlocks) GetByID(_ context.Context, id int64) (*model.TimeBlock, error) {
	b, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *memBlocks) ListBetween(_ context.Context, professionalID int64, from, to time.Time) ([]model.TimeBlock, error) {
	var out []model.TimeBlock
	for _, b := range m.byID {
		if b.ProfessionalID == professionalID && b.EndTime.After(from) && b.StartTime.Before(to) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBlocks) Update(_ context.Context, b *model.TimeBlock) error {
	if _, ok := m.byID[b.ID]; !ok {
		return errors.New("time block not found")
	}
	cp := *b
	m.byID[b.ID] = &cp
	return nil
}

func (m *memBlocks) Delete(_ context.Context, id int64) error {
	delete(m.byID, id)
	return nil
}

// memSource снимок данных поверх in-memory хранилищ
type memSource struct {
	professionals *memProfessionals
	appointments  *memAppointments
	blocks        *memBlocks
	services      *memServices
}

func (s *memSource) FetchSchedule(ctx context.Context, professionalID int64) (model.WorkSchedule, error) {
	p, _ := s.professionals.GetByID(ctx, professionalID)
	if p == nil {
		return nil, ErrNotFound
	}
	return p.WorkSchedule, nil
}

func (s *memSource) FetchAppointments(_ context.Context, professionalID int64, _ time.Time) ([]model.Appointment, error) {
	return s.appointments.all(professionalID), nil
}

func (s *memSource) FetchTimeBlocks(_ context.Context, professionalID int64, _ time.Time) ([]model.TimeBlock, error) {
	var out []model.TimeBlock
	for _, b := range s.blocks.byID {
		if b.ProfessionalID == professionalID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memSource) FetchServiceDuration(_ context.Context, professionalID, serviceID int64) (int, error) {
	svc, ok := s.services.byID[serviceID]
	if !ok || svc.ProfessionalID != professionalID || !svc.IsActive {
		return 0, nil
	}
	return svc.Duration, nil
}

type commitCounter struct {
	generated int
	accepted  int
	rejected  int
	commits   map[string]int
}

func newCommitCounter() *commitCounter {
	return &commitCounter{commits: map[string]int{}}
}

func (c *commitCounter) ObserveSlotsGenerated(string, int) { c.generated++ }

func (c *commitCounter) ObserveValidation(_ string, accepted bool) {
	if accepted {
		c.accepted++
	} else {
		c.rejected++
	}
}

func (c *commitCounter) ObserveCommit(kind, op string) { c.commits[kind+"/"+op]++ }
