package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/booking"
	"github.com/Freeeeeet/agenda_bot/internal/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type TimeBlockService struct {
	engines       *EngineFactory
	professionals ProfessionalStore
	source        booking.SnapshotSource
	catalog       booking.ServiceCatalog
	blocks        TimeBlockStore
	recorder      Recorder
	logger        *zap.Logger
}

func NewTimeBlockService(
	engines *EngineFactory,
	professionals ProfessionalStore,
	source booking.SnapshotSource,
	catalog booking.ServiceCatalog,
	blocks TimeBlockStore,
	recorder Recorder,
	logger *zap.Logger,
) *TimeBlockService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &TimeBlockService{
		engines:       engines,
		professionals: professionals,
		source:        source,
		catalog:       catalog,
		blocks:        blocks,
		recorder:      recorder,
		logger:        logger,
	}
}

func (s *TimeBlockService) NewFlow(ctx context.Context, professionalID int64) (*booking.Flow, error) {
	return s.ResumeFlow(ctx, booking.NewDraft(model.EntryKindBlock, professionalID))
}

// EditFlow сценарий изменения блокировки
func (s *TimeBlockService) EditFlow(ctx context.Context, professionalID, blockID int64) (*booking.Flow, error) {
	engine, err := engineFor(ctx, s.engines, s.professionals, professionalID)
	if err != nil {
		return nil, err
	}
	b, err := s.Get(ctx, professionalID, blockID)
	if err != nil {
		return nil, err
	}
	draft := booking.EditBlockDraft(*b, engine.Location())
	return booking.NewFlow(engine, s.source, s.catalog, draft, booking.WithObserver(s.recorder)), nil
}

func (s *TimeBlockService) ResumeFlow(ctx context.Context, draft booking.Draft) (*booking.Flow, error) {
	if draft.Kind != model.EntryKindBlock {
		return nil, booking.ErrWrongKind
	}
	engine, err := engineFor(ctx, s.engines, s.professionals, draft.ProfessionalID)
	if err != nil {
		return nil, err
	}
	return booking.NewFlow(engine, s.source, s.catalog, draft, booking.WithObserver(s.recorder)), nil
}

// Commit проверяет интервал и сохраняет блокировку. Пустой title - название по умолчанию
func (s *TimeBlockService) Commit(ctx context.Context, flow *booking.Flow, title string) (*model.TimeBlock, error) {
	draft := flow.Draft()
	ctx, span := tracer.Start(ctx, "TimeBlockService.Commit", trace.WithAttributes(
		attribute.Int64("professional_id", draft.ProfessionalID),
		attribute.Bool("edit", draft.IsEdit()),
		attribute.String("draft_id", draft.ID.String()),
	))
	defer span.End()

	block, err := flow.CommitBlock(ctx, title)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit rejected")
		return nil, err
	}

	if draft.IsEdit() {
		existing, err := s.Get(ctx, draft.ProfessionalID, draft.EditingID)
		if err != nil {
			return nil, err
		}
		existing.StartTime = block.StartTime
		existing.EndTime = block.EndTime
		if title != "" {
			existing.Title = block.Title
		}

		if err := s.blocks.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update time block: %w", err)
		}
		s.recorder.ObserveCommit(string(model.EntryKindBlock), "update")

		s.logger.Info("Time block updated",
			zap.Int64("block_id", existing.ID),
			zap.Int64("professional_id", existing.ProfessionalID),
			zap.Time("start_time", existing.StartTime),
			zap.Time("end_time", existing.EndTime),
		)
		return existing, nil
	}

	if err := s.blocks.Create(ctx, &block); err != nil {
		return nil, fmt.Errorf("create time block: %w", err)
	}
	s.recorder.ObserveCommit(string(model.EntryKindBlock), "create")

	s.logger.Info("Time block created",
		zap.Int64("block_id", block.ID),
		zap.Int64("professional_id", block.ProfessionalID),
		zap.Time("start_time", block.StartTime),
		zap.Time("end_time", block.EndTime),
	)
	return &block, nil
}

func (s *TimeBlockService) Get(ctx context.Context, professionalID, blockID int64) (*model.TimeBlock, error) {
	b, err := s.blocks.GetByID(ctx, blockID)
	if err != nil {
		return nil, fmt.Errorf("get time block: %w", err)
	}
	if b == nil {
		return nil, fmt.Errorf("time block %d: %w", blockID, ErrNotFound)
	}
	if b.ProfessionalID != professionalID {
		return nil, fmt.Errorf("time block %d: %w", blockID, ErrNotOwner)
	}
	return b, nil
}

func (s *TimeBlockService) Delete(ctx context.Context, professionalID, blockID int64) error {
	if _, err := s.Get(ctx, professionalID, blockID); err != nil {
		return err
	}
	if err := s.blocks.Delete(ctx, blockID); err != nil {
		return fmt.Errorf("delete time block: %w", err)
	}
	s.recorder.ObserveCommit(string(model.EntryKindBlock), "delete")

	s.logger.Info("Time block deleted",
		zap.Int64("block_id", blockID),
		zap.Int64("professional_id", professionalID),
	)
	return nil
}

// ListDay блокировки, пересекающие календарный день date
func (s *TimeBlockService) ListDay(ctx context.Context, professionalID int64, date time.Time) ([]model.TimeBlock, error) {
	from, to := dayBounds(date)
	return s.blocks.ListBetween(ctx, professionalID, from, to)
}
