package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloo-solutions/classmate/internal/api/handlers"
	"github.com/cloo-solutions/classmate/internal/database"
	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/jobs"
	"github.com/cloo-solutions/classmate/internal/knowledge"
	"github.com/cloo-solutions/classmate/internal/llm"
	"github.com/cloo-solutions/classmate/internal/logging"
	"github.com/cloo-solutions/classmate/internal/repository"
	"github.com/cloo-solutions/classmate/internal/server"
	"github.com/cloo-solutions/classmate/internal/service"
	"github.com/cloo-solutions/classmate/internal/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	sessionSweepInterval = time.Minute
	indexPollInterval    = 30 * time.Second
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the classmate chat API: builds the knowledge corpus, connects the models and serves HTTP",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().String("migrations", database.DefaultMigrationsSource, "Migrations source URL")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	defer initTelemetry(cfg, logger)()

	if port, _ := cmd.Flags().GetString("port"); cmd.Flags().Changed("port") {
		cfg.Port = port
	}

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	migrations, _ := cmd.Flags().GetString("migrations")
	pool, err := openDatabase(ctx, cfg, logger, migrations, !noMigrate)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	s3Client, err := openS3(ctx, cfg)
	if err != nil {
		return err
	}

	tagger, err := loadTagger(cfg)
	if err != nil {
		return err
	}
	builder, err := newCorpusBuilder(cfg, s3Client, tagger, logger)
	if err != nil {
		return err
	}
	holder := knowledge.NewHolder(builder, logger)
	holder.OnReload(func(ctx context.Context, c *domain.Corpus) {
		telemetry.AddBreadcrumb(ctx, "corpus", fmt.Sprintf("corpus reloaded with %d chunks", c.Len()))
	})
	holder.Reload(ctx)

	general, reasoning, err := newModels(ctx, cfg, logger)
	if err != nil {
		return err
	}

	turnFile, err := logging.OpenTurnFile(cfg.TurnLogPath)
	if err != nil {
		return err
	}
	defer turnFile.Close()
	sinks := []service.TurnSink{turnFile}

	var (
		conversations service.ConversationStore = service.NewMemoryConversationStore()
		homeworkStore service.HomeworkStore      = repository.NewHomeworkFileStore(cfg.HomeworkFile)
		turnRepo      *repository.TurnLogRepository
		embedCache    knowledge.EmbeddingCache
	)
	if pool != nil {
		conversations = repository.NewConversationRepository(pool)
		homeworkStore = repository.NewHomeworkRepository(pool)
		turnRepo = repository.NewTurnLogRepository(pool)
		embedCache = repository.NewEmbeddingCacheRepository(pool)
		sinks = append(sinks, turnRepo)
	}
	turns := service.NewTurnLogger(logger, sinks...)

	bank, err := service.NewQuestionBank()
	if err != nil {
		return err
	}
	if cfg.QuestionsFile != "" {
		if err := bank.LoadFile(cfg.QuestionsFile); err != nil {
			return err
		}
	}
	quizzes := service.NewQuizService(bank, reasoning, general, logger)

	hints, err := service.LoadHints(cfg.HintsFile)
	if err != nil {
		logger.Warn("hints unavailable", zap.String("path", cfg.HintsFile), zap.Error(err))
		hints = service.NewHints(nil)
	}

	homework := service.NewHomeworkService(homeworkStore, logger)
	ranker := knowledge.NewRanker(tagger)
	sessions := service.NewSessionManager(&service.SessionDeps{
		Corpus:         holder,
		Ranker:         ranker,
		Model:          general,
		Homework:       homework,
		Conversations:  conversations,
		Turns:          turns,
		Quizzes:        quizzes,
		Conversational: cfg.Conversational,
		Logger:         logger,
	}, cfg.SessionIdle, logger)

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()
	var workers []*jobs.Worker

	if cfg.CorpusRefresh > 0 {
		workers = append(workers, jobs.NewWorker("corpus-refresh", holder, cfg.CorpusRefresh, logger))
	}
	if cfg.SessionIdle > 0 {
		workers = append(workers, jobs.NewWorker("session-expiry", sessions, sessionSweepInterval, logger))
	}

	var semantic handlers.SemanticIndexProvider
	if cfg.HasOpenAI() {
		embedder := llm.NewEmbeddingClient(cfg.OpenAIAPIKey)
		indexer := jobs.NewIndexWorker(holder, func(ctx context.Context, c *domain.Corpus) (*knowledge.SemanticIndex, error) {
			return knowledge.NewSemanticIndex(ctx, c, knowledge.SemanticConfig{
				Embedder: embedder,
				Cache:    embedCache,
				Model:    embedder.Model(),
				Tagger:   tagger,
				Logger:   logger,
			})
		}, logger)
		workers = append(workers, jobs.NewWorker("semantic-index", indexer, indexPollInterval, logger))
		semantic = indexer
	}

	for _, w := range workers {
		go w.Start(workerCtx)
	}

	routerCfg := server.RouterConfig{
		Logger:          logger,
		CORSOrigins:     cfg.CORSOrigins,
		ChatHandler:     handlers.NewChatHandler(llm.NewRouter(reasoning, general, turns, logger), logger),
		FactsHandler:    handlers.NewFactsHandler(holder, ranker, semantic),
		CorpusHandler:   handlers.NewCorpusHandler(holder, logger),
		SessionHandler:  handlers.NewSessionHandler(sessions),
		QuizHandler:     handlers.NewQuizHandler(quizzes),
		HintHandler:     handlers.NewHintHandler(hints),
		EvaluateHandler: handlers.NewEvaluateHandler(service.NewEvaluator(general)),
		HomeworkHandler: handlers.NewHomeworkHandler(homework),
	}
	if turnRepo != nil {
		routerCfg.TurnsHandler = handlers.NewTurnsHandler(turnRepo)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}
	logger.Info("shutting down")

	for _, w := range workers {
		w.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
