package config

import (
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	OpenAI   OpenAIConfig
	Mistral  MistralConfig
	Search   SearchConfig
	CQA      CQAConfig
	CaseMgmt CaseMgmtConfig
	Metadata MetadataConfig
	Answers  AnswersConfig
	Retry    RetryConfig
}

type ServerConfig struct {
	Port         string        `envconfig:"SERVER_PORT" default:"8000"`
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
}

type OpenAIConfig struct {
	Provider       string `envconfig:"OPENAI_PROVIDER" default:"azure"`
	APIKey         string `envconfig:"OPENAI_API_KEY" required:"true"`
	APIEndpoint    string `envconfig:"OPENAI_ENDPOINT" default:"https://api.openai.com/v1"`
	APIVersion     string `envconfig:"OPENAI_API_VERSION" default:"2024-06-01"`
	EmbeddingModel string `envconfig:"OPENAI_EMBEDDING_MODEL" default:"text-embedding-ada-002"`
}

type MistralConfig struct {
	APIKey      string `envconfig:"MISTRAL_API_KEY"`
	APIEndpoint string `envconfig:"MISTRAL_ENDPOINT" default:"https://api.mistral.ai/v1"`
}

type SearchConfig struct {
	Endpoint           string        `envconfig:"SEARCH_ENDPOINT" required:"true"`
	APIKey             string        `envconfig:"SEARCH_API_KEY" required:"true"`
	StagingIndex       string        `envconfig:"SEARCH_STAGING_INDEX" default:"documents-staging"`
	ProductionIndex    string        `envconfig:"SEARCH_PRODUCTION_INDEX" default:"documents"`
	TopK               int           `envconfig:"SEARCH_TOP_K" default:"5"`
	RelevanceThreshold float64       `envconfig:"SEARCH_RELEVANCE_THRESHOLD" default:"0"`
	Timeout            time.Duration `envconfig:"SEARCH_TIMEOUT" default:"30s"`
}

type CQAConfig struct {
	Endpoint            string        `envconfig:"CQA_ENDPOINT" required:"true"`
	APIKey              string        `envconfig:"CQA_API_KEY" required:"true"`
	ConfidenceThreshold float64       `envconfig:"CQA_CONFIDENCE_THRESHOLD" default:"0.25"`
	NoResultSentinel    string        `envconfig:"CQA_NO_RESULT_SENTINEL" default:"No good match found in KB."`
	Timeout             time.Duration `envconfig:"CQA_TIMEOUT" default:"15s"`
}

type CaseMgmtConfig struct {
	Endpoint string        `envconfig:"CASEMGMT_ENDPOINT" required:"true"`
	APIKey   string        `envconfig:"CASEMGMT_API_KEY"`
	Timeout  time.Duration `envconfig:"CASEMGMT_TIMEOUT" default:"30s"`
}

type MetadataConfig struct {
	DatabaseURL string `envconfig:"METADATA_DATABASE_URL" required:"true"`
	CacheSize   int    `envconfig:"METADATA_CACHE_SIZE" default:"128"`
}

type AnswersConfig struct {
	DefaultAnswer          string `envconfig:"DEFAULT_ANSWER" default:"Mi dispiace, non sono in grado di rispondere a questa domanda."`
	ContentFilteredMessage string `envconfig:"CONTENT_FILTERED_MESSAGE" default:"Non posso aiutarti con questa richiesta. Prova a riformulare la domanda."`
}

type RetryConfig struct {
	MaxAttempts int           `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
	BaseDelay   time.Duration `envconfig:"RETRY_BASE_DELAY" default:"500ms"`
	MaxDelay    time.Duration `envconfig:"RETRY_MAX_DELAY" default:"10s"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("configuration loaded successfully")
	return &cfg, nil
}
