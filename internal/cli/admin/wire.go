package admin

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cloo-solutions/classmate/internal/config"
	"github.com/cloo-solutions/classmate/internal/database"
	"github.com/cloo-solutions/classmate/internal/knowledge"
	"github.com/cloo-solutions/classmate/internal/llm"
	"github.com/cloo-solutions/classmate/internal/logging"
	"github.com/cloo-solutions/classmate/internal/storage"
	"github.com/cloo-solutions/classmate/internal/telemetry"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// setup loads configuration and builds the JSON logger used by the server.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, err := logging.New(cfg.Debug || verbose)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// setupCLI is setup for one-shot commands: a console logger that stays
// quiet unless something goes wrong.
func setupCLI(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	return cfg, logging.NewCLI(cfg.Debug || verbose), nil
}

// initTelemetry starts Sentry when a DSN is configured. Failure only disables tracing.
func initTelemetry(cfg *config.Config, logger *zap.Logger) func() {
	if !cfg.HasSentry() {
		return func() {}
	}
	// 10% sampling in production, everything in development.
	sampleRate := 0.1
	if cfg.Environment == "development" {
		sampleRate = 1.0
	}
	shutdown, err := telemetry.Init(telemetry.Config{
		DSN:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		TracesSampleRate: sampleRate,
		Debug:            cfg.Debug,
		Logger:           logger,
	})
	if err != nil {
		logger.Warn("telemetry init failed, continuing without tracing", zap.Error(err))
		return func() {}
	}
	return shutdown
}

// openDatabase connects to Postgres and optionally applies migrations.
// It returns a nil pool when no database is configured.
func openDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrations string, runMigrations bool) (*pgxpool.Pool, error) {
	if !cfg.HasDatabase() {
		logger.Info("no database configured, using file and memory stores")
		return nil, nil
	}
	if runMigrations {
		if err := database.Migrate(cfg.DatabaseURL, migrations, logger); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database")
	return pool, nil
}

// openS3 returns a client for the knowledge bucket, or nil when S3 is not configured.
func openS3(ctx context.Context, cfg *config.Config) (*storage.S3Client, error) {
	if !cfg.HasS3() {
		return nil, nil
	}
	client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		Bucket:          cfg.S3Bucket,
		UsePathStyle:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	return client, nil
}

// loadTagger returns the configured topic tagger, or the built-in table.
func loadTagger(cfg *config.Config) (*knowledge.Tagger, error) {
	if cfg.TopicsFile == "" {
		return knowledge.NewTagger(nil), nil
	}
	table, err := knowledge.LoadTopicTable(cfg.TopicsFile)
	if err != nil {
		return nil, err
	}
	return knowledge.NewTagger(table), nil
}

// newCorpusBuilder resolves both knowledge source URIs.
func newCorpusBuilder(cfg *config.Config, s3 *storage.S3Client, tagger *knowledge.Tagger, logger *zap.Logger) (*knowledge.Builder, error) {
	opts := storage.OpenOptions{HTTPClient: &http.Client{Timeout: cfg.SourceTimeout}}
	// A typed nil client must not reach the interface field.
	if s3 != nil {
		opts.S3 = s3
	}
	structured, err := storage.Open(cfg.KnowledgeJSON, opts)
	if err != nil {
		return nil, fmt.Errorf("knowledge json source: %w", err)
	}
	text, err := storage.Open(cfg.KnowledgeText, opts)
	if err != nil {
		return nil, fmt.Errorf("knowledge text source: %w", err)
	}

	return knowledge.NewBuilder(knowledge.BuilderConfig{
		Structured:    structured,
		Text:          text,
		Tagger:        tagger,
		SourceTimeout: cfg.SourceTimeout,
		Logger:        logger,
	}), nil
}

// newModels picks the general and reasoning models from the configured
// providers. Either may be nil when no provider is configured.
func newModels(ctx context.Context, cfg *config.Config, logger *zap.Logger) (general, reasoning llm.Completer, err error) {
	var gemini llm.Completer
	if cfg.HasGemini() {
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		gemini = client
	}

	switch {
	case cfg.HasOpenRouter():
		general = llm.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
	case cfg.HasOpenAI():
		general = llm.NewOpenAIChatClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case gemini != nil:
		general = gemini
	}

	switch {
	case cfg.HasPhi():
		reasoning = llm.NewPhiClient(cfg.PhiToken, cfg.PhiEndpoint)
	case gemini != nil:
		reasoning = gemini
	default:
		reasoning = general
	}

	if general == nil {
		logger.Warn("no general model configured, chat answers will fall back to stock replies")
	} else {
		logger.Info("models ready", zap.String("general", general.Name()), zap.String("reasoning", reasoning.Name()))
	}
	return general, reasoning, nil
}
