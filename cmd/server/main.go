package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	httpadapter "resume-tailor/internal/adapter/http"
	"resume-tailor/internal/config"
	"resume-tailor/internal/domain"
	"resume-tailor/internal/usecase"
	"resume-tailor/pkg/ai"
	"resume-tailor/pkg/ai/formatters"
	infra "resume-tailor/pkg/infrastructure"
	"resume-tailor/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config: load failed", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg.Server.LogLevel)

	processor, err := buildProcessor(cfg)
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		AppName:      "resume-tailor",
		BodyLimit:    cfg.BodyLimit(),
		ErrorHandler: httpadapter.ErrorHandler,
		// model calls with retries can take several minutes
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n"}))
	app.Use(cors.New())

	httpadapter.NewHandler(processor, web.Index).Register(app)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server: listening", "port", cfg.Server.Port, "provider", cfg.LLM.Provider, "model", cfg.LLM.Model,
			"browser", cfg.Browser.Mode, "generation", cfg.Generation.Mode)
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("server: shutting down")
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		slog.Error("server: shutdown", "error", err)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}

// buildProcessor wires the process-wide model client and renderer.
func buildProcessor(cfg *config.Config) (*usecase.Processor, error) {
	model, err := ai.NewModel(ai.Settings{
		Provider:  cfg.LLM.Provider,
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		BaseURL:   cfg.LLM.BaseURL,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	policy := ai.DefaultPolicy()
	policy.MaxAttempts = cfg.LLM.MaxRetries + 1
	policy.Timeout = cfg.LLM.Timeout
	policy.Limiter = ai.NewLimiter(cfg.LLM.RatePerMinute)

	opts := infra.A4()
	opts.Timeout = cfg.Browser.Timeout
	renderer, err := infra.NewRenderer(cfg.Browser.Mode, cfg.Browser.ChromePath, opts)
	if err != nil {
		return nil, err
	}

	mode, ok := domain.ParseVariant(cfg.Generation.Mode)
	if !ok {
		mode = domain.VariantStructured
	}

	p := usecase.NewProcessor(
		infra.NewPDFExtractor(),
		formatters.NewStructureFormatter(model, policy),
		formatters.NewTailorFormatter(model, policy),
		formatters.NewDocumentFormatter(model, policy),
		renderer,
		cfg.Server.TemplatesDir,
		mode,
	)
	if cfg.Server.ArtifactDir != "" {
		p.WithArtifactDir(cfg.Server.ArtifactDir)
	}
	return p, nil
}
