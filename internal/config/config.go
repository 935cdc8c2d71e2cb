package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`
	// CORSOrigins lists browser origins allowed to call the API. Empty allows any.
	CORSOrigins []string `envconfig:"CORS_ORIGINS"`

	// DatabaseURL is optional: without it homework, summaries and turn logs
	// fall back to files and memory.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	KnowledgeJSON  string        `envconfig:"KNOWLEDGE_JSON" default:"data/knowledge.json"`
	KnowledgeText  string        `envconfig:"KNOWLEDGE_TEXT" default:"data/knowledge.txt"`
	TopicsFile     string        `envconfig:"TOPICS_FILE"`
	QuestionsFile  string        `envconfig:"QUESTIONS_FILE"`
	HintsFile      string        `envconfig:"HINTS_FILE" default:"data/hints.json"`
	HomeworkFile   string        `envconfig:"HOMEWORK_FILE" default:"data/homework.json"`
	TurnLogPath    string        `envconfig:"TURN_LOG_PATH" default:"chatbot_logs.jsonl"`
	CorpusRefresh  time.Duration `envconfig:"CORPUS_REFRESH" default:"0"`
	SourceTimeout  time.Duration `envconfig:"SOURCE_TIMEOUT" default:"10s"`
	SessionIdle    time.Duration `envconfig:"SESSION_IDLE" default:"2h"`
	Conversational bool          `envconfig:"CONVERSATIONAL" default:"false"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"classmate-knowledge"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	OpenRouterAPIKey string `envconfig:"OPENROUTER_API_KEY"`
	OpenRouterModel  string `envconfig:"OPENROUTER_MODEL" default:"qwen/qwen3-30b-a3b:free"`
	PhiToken         string `envconfig:"HF_PHI_TOKEN"`
	PhiEndpoint      string `envconfig:"PHI_ENDPOINT"`
	GeminiAPIKey     string `envconfig:"GEMINI_API_KEY"`
	GeminiModel      string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel      string `envconfig:"OPENAI_MODEL"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("CLASSMATE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenRouter() bool {
	return c.OpenRouterAPIKey != ""
}

func (c *Config) HasPhi() bool {
	return c.PhiToken != ""
}

func (c *Config) HasGemini() bool {
	return c.GeminiAPIKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}
