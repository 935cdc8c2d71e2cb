package server

import (
	"net/http"

	"github.com/cloo-solutions/classmate/internal/api"
	"github.com/cloo-solutions/classmate/internal/api/handlers"
	"github.com/cloo-solutions/classmate/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Logger      *zap.Logger
	CORSOrigins []string

	ChatHandler     *handlers.ChatHandler
	FactsHandler    *handlers.FactsHandler
	CorpusHandler   *handlers.CorpusHandler
	SessionHandler  *handlers.SessionHandler
	QuizHandler     *handlers.QuizHandler
	HintHandler     *handlers.HintHandler
	EvaluateHandler *handlers.EvaluateHandler
	HomeworkHandler *handlers.HomeworkHandler
	// TurnsHandler is only set when turn logs are stored in Postgres.
	TurnsHandler *handlers.TurnsHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 << 20

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.MaxBodyBytes(maxBodyBytes, cfg.Logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/chat", cfg.ChatHandler.Chat)
	r.Post("/facts", cfg.FactsHandler.Rank)

	r.Route("/corpus", func(r chi.Router) {
		r.Get("/stats", cfg.CorpusHandler.Stats)
		r.Post("/reload", cfg.CorpusHandler.Reload)
	})

	r.Post("/sessions", cfg.SessionHandler.Create)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", cfg.SessionHandler.Get)
		r.Delete("/", cfg.SessionHandler.Delete)
		r.Get("/history", cfg.SessionHandler.History)
		r.Post("/settings", cfg.SessionHandler.Settings)
		r.Post("/messages", cfg.SessionHandler.Message)
		r.Post("/quiz", cfg.SessionHandler.StartQuiz)
		r.Post("/quiz/answer", cfg.SessionHandler.AnswerQuiz)
		r.Post("/quiz/next", cfg.SessionHandler.NextQuiz)
	})

	r.Get("/quiz/subjects", cfg.QuizHandler.Subjects)
	r.Get("/hint", cfg.HintHandler.Get)
	r.Post("/evaluate", cfg.EvaluateHandler.Evaluate)

	r.Route("/homework", func(r chi.Router) {
		r.Get("/", cfg.HomeworkHandler.List)
		r.Post("/", cfg.HomeworkHandler.Create)
	})

	if cfg.TurnsHandler != nil {
		r.Get("/turns/flagged", cfg.TurnsHandler.Flagged)
	}

	return r
}
