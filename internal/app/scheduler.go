package app

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/Freeeeeet/agenda_bot/internal/service"
	"go.uber.org/zap"
)

// AgendaNotifier доставляет дневную агенду специалисту
type AgendaNotifier interface {
	SendAgenda(ctx context.Context, telegramID int64, agenda *service.Agenda) error
}

type ProfessionalLister interface {
	ListAll(ctx context.Context) ([]*model.Professional, error)
}

type TodayAgenda interface {
	Today(ctx context.Context, professionalID int64) (*service.Agenda, error)
}

type DigestRecorder interface {
	ObserveDigest(status string)
}

// Статусы рассылки для метрик
const (
	DigestSent    = "sent"
	DigestSkipped = "skipped"
	DigestFailed  = "failed"
)

// digestTick шаг проверки. Смещения всех часовых поясов кратны 15 минутам
const digestTick = 15 * time.Minute

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	professionals ProfessionalLister
	agenda        TodayAgenda
	notifier      AgendaNotifier
	recorder      DigestRecorder
	hour          int
	location      *time.Location
	now           func() time.Time
	logger        *zap.Logger
	stopChan      chan struct{}

	mu       sync.Mutex
	lastSent map[int64]string // professionalID -> локальная дата последней рассылки
}

// NewScheduler создаёт планировщик утренней рассылки агенды в hour часов по местному времени
// специалиста. location - пояс для специалистов без своего
func NewScheduler(
	professionals ProfessionalLister,
	agenda TodayAgenda,
	notifier AgendaNotifier,
	recorder DigestRecorder,
	hour int,
	location *time.Location,
	logger *zap.Logger,
) *Scheduler {
	if location == nil {
		location = time.Local
	}
	return &Scheduler{
		professionals: professionals,
		agenda:        agenda,
		notifier:      notifier,
		recorder:      recorder,
		hour:          hour,
		location:      location,
		now:           time.Now,
		logger:        logger,
		stopChan:      make(chan struct{}),
		lastSent:      make(map[int64]string),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Int("digest_hour", s.hour))
	go s.runDigestTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

func (s *Scheduler) runDigestTask(ctx context.Context) {
	for {
		wait := nextTick(s.now()).Sub(s.now())
		timer := time.NewTimer(wait)

		select {
		case <-timer.C:
			s.SendDue(ctx, s.now())
		case <-s.stopChan:
			timer.Stop()
			s.logger.Info("Agenda digest task stopped")
			return
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Agenda digest task cancelled")
			return
		}
	}
}

// nextTick ближайшая граница digestTick строго после now
func nextTick(now time.Time) time.Time {
	return now.Truncate(digestTick).Add(digestTick)
}

// SendDue рассылает агенду на сегодня специалистам, у которых сейчас наступил час рассылки.
// Каждому не чаще раза в локальные сутки. Пустой нерабочий день пропускается, ошибка повторяется на следующем шаге
func (s *Scheduler) SendDue(ctx context.Context, now time.Time) {
	professionals, err := s.professionals.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list professionals", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sent := 0
	for _, p := range professionals {
		if p.TelegramID == 0 {
			continue
		}
		local := now.In(p.Location(s.location))
		day := local.Format(time.DateOnly)
		if local.Hour() != s.hour || s.lastSent[p.ID] == day {
			continue
		}

		agenda, err := s.agenda.Today(ctx, p.ID)
		if err != nil {
			s.logger.Error("Failed to build agenda",
				zap.Int64("professional_id", p.ID),
				zap.Error(err))
			s.observe(DigestFailed)
			continue
		}
		if agenda.IsEmpty() && !agenda.Day.IsActive {
			s.lastSent[p.ID] = day
			s.observe(DigestSkipped)
			continue
		}

		if err := s.notifier.SendAgenda(ctx, p.TelegramID, agenda); err != nil {
			s.logger.Warn("Failed to send agenda digest",
				zap.Int64("professional_id", p.ID),
				zap.Error(err))
			s.observe(DigestFailed)
			continue
		}
		s.lastSent[p.ID] = day
		s.observe(DigestSent)
		sent++
	}

	if sent > 0 {
		s.logger.Info("Agenda digest sent", zap.Int("sent", sent))
	}
}

func (s *Scheduler) observe(status string) {
	if s.recorder != nil {
		s.recorder.ObserveDigest(status)
	}
}
