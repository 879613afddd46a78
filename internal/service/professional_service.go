package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// InvitationRedeemer занимает код приглашения при регистрации
type InvitationRedeemer interface {
	ValidateAndUse(ctx context.Context, code string, telegramID int64) (int64, error)
}

type ProfessionalService struct {
	repo        ProfessionalStore
	invitations InvitationRedeemer
	logger      *zap.Logger
}

// NewProfessionalService invitations nil - регистрация без приглашений
func NewProfessionalService(repo ProfessionalStore, invitations InvitationRedeemer, logger *zap.Logger) *ProfessionalService {
	return &ProfessionalService{
		repo:        repo,
		invitations: invitations,
		logger:      logger,
	}
}

// Register регистрирует специалиста или обновляет данные профиля.
// Новому специалисту нужен код приглашения, кроме самого первого.
// Новый специалист получает расписание по умолчанию пн-пт
func (s *ProfessionalService) Register(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode, inviteCode string) (*model.Professional, error) {
	ctx, span := tracer.Start(ctx, "ProfessionalService.Register",
		trace.WithAttributes(attribute.Int64("telegram_id", telegramID)))
	defer span.End()

	existing, err := s.repo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing professional: %w", err)
	}

	if existing != nil {
		existing.Username = username
		existing.FirstName = firstName
		existing.LastName = lastName
		existing.LanguageCode = languageCode

		if err := s.repo.UpdateProfile(ctx, existing); err != nil {
			return nil, fmt.Errorf("update professional: %w", err)
		}

		s.logger.Info("Professional updated",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username),
		)
		return existing, nil
	}

	invitedBy, err := s.redeem(ctx, telegramID, inviteCode)
	if err != nil {
		return nil, err
	}

	p := &model.Professional{
		TelegramID:   telegramID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: languageCode,
		WorkSchedule: weekdaySchedule(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create professional: %w", err)
	}

	s.logger.Info("New professional registered",
		zap.Int64("professional_id", p.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
		zap.Int64("invited_by", invitedBy),
	)

	return p, nil
}

// redeem проверяет код нового специалиста. Первый специалист регистрируется без кода
func (s *ProfessionalService) redeem(ctx context.Context, telegramID int64, code string) (int64, error) {
	if s.invitations == nil {
		return 0, nil
	}
	if NormalizeCode(code) == "" {
		count, err := s.repo.Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("count professionals: %w", err)
		}
		if count == 0 {
			return 0, nil
		}
		return 0, ErrInvitationRequired
	}
	return s.invitations.ValidateAndUse(ctx, code, telegramID)
}

// GetByTelegramID nil если специалист не зарегистрирован
func (s *ProfessionalService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Professional, error) {
	return s.repo.GetByTelegramID(ctx, telegramID)
}

func (s *ProfessionalService) GetByID(ctx context.Context, id int64) (*model.Professional, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get professional: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("professional %d: %w", id, ErrNotFound)
	}
	return p, nil
}

func (s *ProfessionalService) ListAll(ctx context.Context) ([]*model.Professional, error) {
	return s.repo.ListAll(ctx)
}

// SetTimezone принимает имя из базы IANA
func (s *ProfessionalService) SetTimezone(ctx context.Context, id int64, timezone string) error {
	if _, err := time.LoadLocation(timezone); err != nil || timezone == "" {
		return fmt.Errorf("%q: %w", timezone, ErrInvalidTimezone)
	}
	if err := s.repo.UpdateTimezone(ctx, id, timezone); err != nil {
		return fmt.Errorf("update timezone: %w", err)
	}

	s.logger.Info("Timezone updated",
		zap.Int64("professional_id", id),
		zap.String("timezone", timezone),
	)
	return nil
}

// ReplaceSchedule сохраняет расписание целиком после проверки
func (s *ProfessionalService) ReplaceSchedule(ctx context.Context, id int64, schedule model.WorkSchedule) error {
	if err := schedule.Validate(); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}
	if err := s.repo.UpdateWorkSchedule(ctx, id, schedule); err != nil {
		return fmt.Errorf("update work schedule: %w", err)
	}

	s.logger.Info("Work schedule replaced", zap.Int64("professional_id", id))
	return nil
}

// ToggleDay включает или выключает день. Ранее не настроенный день включается с часами по умолчанию
func (s *ProfessionalService) ToggleDay(ctx context.Context, id int64, wd model.Weekday) (model.WorkSchedule, error) {
	return s.mutateSchedule(ctx, id, func(schedule model.WorkSchedule) error {
		day, ok := schedule[wd]
		switch {
		case !ok, !day.IsActive && day.WorkHours.Start == "":
			day = model.DefaultDaySchedule()
		default:
			day.IsActive = !day.IsActive
		}
		schedule[wd] = day
		return nil
	})
}

// SetWorkHours задаёт рабочие часы дня и включает его
func (s *ProfessionalService) SetWorkHours(ctx context.Context, id int64, wd model.Weekday, start, end string) (model.WorkSchedule, error) {
	return s.mutateSchedule(ctx, id, func(schedule model.WorkSchedule) error {
		day := schedule[wd]
		day.IsActive = true
		day.WorkHours = model.TimeRange{Start: start, End: end}
		schedule[wd] = day
		return nil
	})
}

// AddBreak добавляет перерыв в пределах рабочих часов
func (s *ProfessionalService) AddBreak(ctx context.Context, id int64, wd model.Weekday, start, end string) (model.WorkSchedule, error) {
	return s.mutateSchedule(ctx, id, func(schedule model.WorkSchedule) error {
		day, ok := schedule[wd]
		if !ok {
			return fmt.Errorf("%s: day is not configured", wd)
		}
		day.Breaks = append(day.Breaks, model.TimeRange{Start: start, End: end})
		schedule[wd] = day
		return nil
	})
}

func (s *ProfessionalService) ClearBreaks(ctx context.Context, id int64, wd model.Weekday) (model.WorkSchedule, error) {
	return s.mutateSchedule(ctx, id, func(schedule model.WorkSchedule) error {
		day, ok := schedule[wd]
		if !ok {
			return nil
		}
		day.Breaks = nil
		schedule[wd] = day
		return nil
	})
}

func (s *ProfessionalService) mutateSchedule(ctx context.Context, id int64, fn func(model.WorkSchedule) error) (model.WorkSchedule, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	schedule := p.WorkSchedule.Clone()
	if schedule == nil {
		schedule = model.WorkSchedule{}
	}
	if err := fn(schedule); err != nil {
		return nil, err
	}
	if err := s.ReplaceSchedule(ctx, id, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func weekdaySchedule() model.WorkSchedule {
	schedule := model.WorkSchedule{}
	for _, wd := range []model.Weekday{model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday} {
		schedule[wd] = model.DefaultDaySchedule()
	}
	return schedule
}
