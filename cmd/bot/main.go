package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/app"
	"github.com/Freeeeeet/agenda_bot/internal/auth"
	"github.com/Freeeeeet/agenda_bot/internal/availability"
	"github.com/Freeeeeet/agenda_bot/internal/config"
	"github.com/Freeeeeet/agenda_bot/internal/controller"
	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/agenda_bot/internal/controller/state"
	"github.com/Freeeeeet/agenda_bot/internal/httpapi"
	"github.com/Freeeeeet/agenda_bot/internal/observability/metrics"
	"github.com/Freeeeeet/agenda_bot/internal/repository"
	"github.com/Freeeeeet/agenda_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Sugar().Infow("Starting agenda bot",
		"environment", cfg.Environment,
		"timezone", cfg.Timezone,
		"token_length", len(cfg.TelegramToken))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("✅ Connected to database")

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		_ = migrator.Close()
		return err
	}
	_ = migrator.Close()

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingMetrics := metrics.NewBookingMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	// Репозитории
	professionalRepo := repository.NewProfessionalRepository(pool)
	serviceRepo := repository.NewServiceRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	blockRepo := repository.NewTimeBlockRepository(pool)
	snapshots := repository.NewSnapshotStore(pool)
	invitationRepo := repository.NewInvitationRepository(pool)
	historyRepo := repository.NewHistoryRepository(pool)

	// Сервисы
	engines := service.NewEngineFactory(availability.Options{
		Step:                   cfg.SlotStep(),
		AppointmentHorizonDays: cfg.AppointmentHorizonDays,
		BlockHorizonDays:       cfg.BlockHorizonDays,
		BlockGranularity:       cfg.BlockGranularity(),
		Location:               cfg.Location(),
		Now:                    time.Now,
	})
	invitations := service.NewInvitationService(invitationRepo, logger)
	professionals := service.NewProfessionalService(professionalRepo, invitations, logger)
	catalog := service.NewCatalogService(serviceRepo, clientRepo, historyRepo, logger)
	appointments := service.NewAppointmentService(
		engines, professionalRepo, snapshots, snapshots,
		appointmentRepo, serviceRepo, clientRepo,
		bookingMetrics, logger,
	)
	blocks := service.NewTimeBlockService(
		engines, professionalRepo, snapshots, snapshots,
		blockRepo, bookingMetrics, logger,
	)
	agenda := service.NewAgendaService(engines, professionalRepo, appointmentRepo, blockRepo)

	tokens := auth.NewTokens(cfg.APIJWTSecret, cfg.APITokenTTL())
	if !tokens.Enabled() {
		logger.Warn("API_JWT_SECRET is empty, HTTP API rejects all professional requests")
	}

	sessions, closeSessions := newSessionStore(ctx, cfg, logger)
	defer closeSessions()

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	botController := controller.NewBotController(b, &callbacktypes.Handler{
		Professionals: professionals,
		Catalog:       catalog,
		Appointments:  appointments,
		Blocks:        blocks,
		Agenda:        agenda,
		Invitations:   invitations,
		Engines:       engines,
		State:         sessions,
		Tokens:        tokens,
		Logger:        logger,
	})
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(httpapi.RouterConfig{
			Handler:        httpapi.NewHandler(engines, professionalRepo, snapshots, snapshots, agenda, logger),
			Metrics:        httpMetrics,
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			Tokens:         tokens,
			Logger:         logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("HTTP API listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}()

	if cfg.DigestEnabled() {
		scheduler := app.NewScheduler(
			professionalRepo, agenda, botController, bookingMetrics,
			cfg.AgendaDigestHour, cfg.Location(), logger,
		)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	// Блокируется до сигнала
	botController.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newSessionStore Redis если задан REDIS_ADDR, иначе сессии в памяти
func newSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (state.Store, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("Using in-memory session store")
		return state.NewManager(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory sessions",
			zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = client.Close()
		return state.NewManager(), func() {}
	}

	logger.Info("✅ Using Redis session store", zap.String("addr", cfg.RedisAddr))
	return state.NewRedisStore(client, state.DefaultSessionTTL), func() { _ = client.Close() }
}
