package service

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/Freeeeeet/agenda_bot/internal/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const codeAttempts = 10

// InvitationService коды приглашений для регистрации новых специалистов
type InvitationService struct {
	repo     InvitationStore
	generate func() (string, error)
	logger   *zap.Logger
}

func NewInvitationService(repo InvitationStore, logger *zap.Logger) *InvitationService {
	return &InvitationService{
		repo:     repo,
		generate: randomCode,
		logger:   logger,
	}
}

// Create генерирует уникальный код от имени специалиста
func (s *InvitationService) Create(ctx context.Context, professionalID int64) (*model.Invitation, error) {
	ctx, span := tracer.Start(ctx, "InvitationService.Create",
		trace.WithAttributes(attribute.Int64("professional_id", professionalID)))
	defer span.End()

	for i := 0; i < codeAttempts; i++ {
		code, err := s.generate()
		if err != nil {
			return nil, fmt.Errorf("generate invitation code: %w", err)
		}

		exists, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		inv := &model.Invitation{Code: code, CreatedBy: professionalID}
		if err := s.repo.Create(ctx, inv); err != nil {
			return nil, err
		}

		s.logger.Info("Invitation created",
			zap.Int64("professional_id", professionalID),
			zap.String("code", code),
		)
		return inv, nil
	}

	return nil, fmt.Errorf("generate invitation code: no unique code after %d attempts", codeAttempts)
}

// ValidateAndUse занимает код за новым специалистом и возвращает id пригласившего
func (s *InvitationService) ValidateAndUse(ctx context.Context, code string, telegramID int64) (int64, error) {
	code = NormalizeCode(code)
	if code == "" {
		return 0, ErrInvitationRequired
	}

	createdBy, ok, err := s.repo.MarkUsed(ctx, code, telegramID)
	if err != nil {
		return 0, err
	}
	if !ok {
		s.logger.Warn("Invitation rejected",
			zap.Int64("telegram_id", telegramID),
			zap.String("code", code),
		)
		return 0, ErrInvalidInvitation
	}

	s.logger.Info("Invitation used",
		zap.Int64("telegram_id", telegramID),
		zap.Int64("invited_by", createdBy),
	)
	return createdBy, nil
}

// ListPending неиспользованные коды специалиста
func (s *InvitationService) ListPending(ctx context.Context, professionalID int64) ([]*model.Invitation, error) {
	return s.repo.ListPending(ctx, professionalID)
}

// NormalizeCode коды хранятся в верхнем регистре
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// randomCode код вида ABCDE-FGHIJ
func randomCode() (string, error) {
	bytes := make([]byte, 7)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	code := base32.StdEncoding.EncodeToString(bytes)[:10]
	return code[:5] + "-" + code[5:], nil
}
