package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"telegram-homework-agent/internal/application"
	"telegram-homework-agent/internal/config"
	"telegram-homework-agent/internal/domain/ports/adapter"
	aiAdapters "telegram-homework-agent/internal/infra/adapters/ai"
	tele "telegram-homework-agent/internal/infra/adapters/telegram"
	pg "telegram-homework-agent/internal/infra/db/postgres"
	"telegram-homework-agent/internal/infra/logging"
	"telegram-homework-agent/internal/infra/mail"
	"telegram-homework-agent/internal/infra/metrics"
	"telegram-homework-agent/internal/infra/pdf"
	red "telegram-homework-agent/internal/infra/redis"
	"telegram-homework-agent/internal/infra/sched"
	"telegram-homework-agent/internal/infra/web"
	"telegram-homework-agent/internal/infra/worker"
	"telegram-homework-agent/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, noop-friendly)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.Output.Dir).Msg("create output dir")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	rateLimiter := red.NewRateLimiter(redisClient)
	intakeStates := red.NewIntakeStateRepo(redisClient, cfg.Redis.TTL)

	// ---- Repositories ----
	teacherRepo := pg.NewPostgresTeacherRepo(pool)
	studentRepo := pg.NewPostgresStudentRepo(pool)
	jobRepo := pg.NewHomeworkJobRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Use cases ----
	teacherUC := usecase.NewTeacherUseCase(teacherRepo, txManager)
	rosterUC := usecase.NewRosterUseCase(studentRepo)
	intakeUC := usecase.NewIntakeUseCase(intakeStates)
	statsUC := usecase.NewStatsUseCase(teacherRepo, studentRepo, jobRepo)

	// ---- Content generation (OpenAI -> Gemini, offline fallback always last) ----
	aiLog := logging.Component(logger, "ai")
	multi := aiAdapters.NewMultiAdapter(aiLog)
	if cfg.AI.OpenAIKey != "" {
		gen, err := aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		multi.Add("openai", gen)
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("content provider: openai")
	}
	if cfg.AI.GeminiKey != "" {
		gen, err := aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, "gemini-1.5-flash")
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		multi.Add("gemini", gen)
		logger.Info().Msg("content provider: gemini")
	}
	var generator adapter.ContentGenerator
	if multi.Len() > 0 {
		generator = aiAdapters.NewLimitedGenerator(multi, cfg.AI.ConcurrentLimit)
	} else {
		logger.Warn().Msg("no AI provider configured; homework will use the offline template")
	}
	fallback := aiAdapters.NewFallbackGenerator()

	// ---- Mail ----
	var sender adapter.MailSender
	switch cfg.Mail.Provider {
	case "resend":
		sender, err = mail.NewResendSender(cfg.Mail.ResendAPIKey)
	default:
		sender, err = mail.NewSMTPSender(cfg.Mail.SMTP)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.Mail.Provider).Msg("mail sender")
	}
	dispatchUC := usecase.NewDispatchUseCase(sender, cfg.Mail.MaxConcurrent, logging.Component(logger, "dispatch"))

	// ---- Worker pool ----
	jobPool := worker.NewPool(cfg.Bot.Workers, logging.Component(logger, "worker"))
	jobPool.Start(ctx)
	defer jobPool.Stop()

	// ---- Facade + Telegram ----
	// The facade needs the homework pipeline and the pipeline reports through
	// the bot, which routes to the facade; wire the pipeline in after both exist.
	facade := application.NewBotFacade(teacherUC, rosterUC, intakeUC, nil, jobPool)

	var bot adapter.TelegramBotAdapter
	var realBot *tele.RealTelegramBotAdapter
	if strings.EqualFold(cfg.Bot.Mode, "noop") {
		bot = tele.NewNoopBotAdapter(logging.Component(logger, "telegram"))
	} else {
		realBot, err = tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, rateLimiter, logging.Component(logger, "telegram"))
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram")
		}
		bot = realBot
	}

	renderer := pdf.NewRenderer()
	facade.HomeworkUC = usecase.NewHomeworkUseCase(
		jobRepo, studentRepo,
		generator, fallback,
		renderer, dispatchUC, bot,
		cfg.Mail.FromName, cfg.Mail.FromEmail, cfg.Output.Dir,
		logging.Component(logger, "homework"),
	)

	// Polling starts only after the facade is fully wired; updates must never
	// observe a half-built facade.
	if realBot != nil {
		go func() {
			if err := realBot.StartPolling(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
	}

	// ---- Admin HTTP server ----
	metrics.MustRegister()
	mux := http.NewServeMux()
	web.NewServer(statsUC, cfg.Admin.APIKey, logging.Component(logger, "web")).RegisterRoutes(mux)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: mux}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("admin http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Artifact sweeper (hourly) ----
	sweeper := sched.NewCleanupWorker(1*time.Hour, cfg.Output.Dir, cfg.Output.Retention, logger)
	go func() { _ = sweeper.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
