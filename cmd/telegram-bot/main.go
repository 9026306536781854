package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/riskibarqy/football-pipeline/internal/app"
	"github.com/riskibarqy/football-pipeline/internal/config"
	"github.com/riskibarqy/football-pipeline/internal/domain/fixture"
	"github.com/riskibarqy/football-pipeline/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/football-pipeline/internal/interfaces/telegram"
	"github.com/riskibarqy/football-pipeline/internal/observability"
	"github.com/riskibarqy/football-pipeline/internal/usecase"
)

const pollTimeoutSeconds = 60

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	logger := app.NewLogger(cfg).With("component", "telegram-bot")
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			logger.Warn("pyroscope stop failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	repo, err := a.OpenRepository(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close fixture repository failed", "error", err)
		}
	}()

	_ = tgbotapi.SetLogger(zap.NewStdLog(logger.Zap()))
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.TelegramBotToken, tgbotapi.APIEndpoint, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		return fmt.Errorf("connect telegram bot: %w", err)
	}

	var reader fixture.Reader = repo
	if cfg.BotCacheTTL > 0 {
		reader = cache.NewFixtureReader(repo, cfg.BotCacheTTL)
	}
	handler := telegram.NewHandler(usecase.NewFixtureQueryService(reader), logger)

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = pollTimeoutSeconds
	updates := bot.GetUpdatesChan(updateCfg)
	go func() {
		<-ctx.Done()
		bot.StopReceivingUpdates()
	}()

	logger.Info("football bot polling", "username", bot.Self.UserName)
	if err := telegram.Serve(ctx, updates, bot, handler, logger); err != nil {
		return err
	}
	logger.Info("football bot stopped")
	return nil
}
