package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Port        int    `yaml:"port" validate:"gt=0,lte=65535"`
	DatabaseURL string `yaml:"database_url"`
	BlobDir     string `yaml:"blob_dir" validate:"required"`

	// llm
	LLMProvider         string `yaml:"llm_provider" validate:"oneof=gemini openai"`
	GeminiAPIKey        string `yaml:"gemini_api_key"`
	OpenAIKey           string `yaml:"openai_api_key"`
	EmbeddingModel      string `yaml:"embedding_model" validate:"required"`
	ChatModel           string `yaml:"chat_model" validate:"required"`
	EmbeddingDimensions int    `yaml:"embedding_dimensions" validate:"gt=0"`

	// rag config
	ChunkSize          int     `yaml:"chunk_size" validate:"gt=0,gtfield=ChunkOverlap"`
	ChunkOverlap       int     `yaml:"chunk_overlap" validate:"gte=0"`
	MatchCount         int     `yaml:"match_count" validate:"gt=0"`
	ExtractionMaxChars int     `yaml:"extraction_max_chars" validate:"gt=0"`
	ExcerptLength      int     `yaml:"excerpt_length" validate:"gt=0"`
	EmbedConcurrency   int     `yaml:"embed_concurrency" validate:"gt=0"`
	EmbedRateLimit     float64 `yaml:"embed_rate_limit" validate:"gte=0"`

	// background ingestion
	WorkerCount int `yaml:"worker_count" validate:"gt=0"`
	QueueSize   int `yaml:"queue_size" validate:"gt=0"`

	// http
	MaxUploadBytes   int           `yaml:"max_upload_bytes" validate:"gt=0"`
	CORSAllowOrigins string        `yaml:"cors_allow_origins"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`

	LogLevel  string `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat string `yaml:"log_format" validate:"oneof=json console"`
}

// providerModels holds the embedding and chat model used when none is configured.
var providerModels = map[string]struct{ embedding, chat string }{
	ProviderGemini: {embedding: "gemini-embedding-001", chat: "gemini-2.5-flash"},
	ProviderOpenAI: {embedding: "text-embedding-3-small", chat: "gpt-4o-mini"},
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	cfg := defaults()
	cfg.applyModelDefaults()
	return cfg
}

// defaults leaves the model names empty so they can follow the provider.
func defaults() *Config {
	return &Config{
		Port:    8080,
		BlobDir: "data/blobs",

		LLMProvider:         ProviderGemini,
		EmbeddingDimensions: 768,

		ChunkSize:          4000,
		ChunkOverlap:       500,
		MatchCount:         10,
		ExtractionMaxChars: 12000,
		ExcerptLength:      300,
		EmbedConcurrency:   4,

		WorkerCount: 2,
		QueueSize:   64,

		MaxUploadBytes:   50 << 20,
		CORSAllowOrigins: "*",
		ShutdownTimeout:  30 * time.Second,

		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load reads .env, then the optional YAML file named by CONFIG_FILE, then
// environment variables. Later sources win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	cfg.applyModelDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnvInt("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.BlobDir = getEnv("BLOB_DIR", cfg.BlobDir)

	cfg.LLMProvider = strings.ToLower(getEnv("LLM_PROVIDER", cfg.LLMProvider))
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.OpenAIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIKey)
	cfg.EmbeddingModel = getEnv("EMBEDDING_MODEL", cfg.EmbeddingModel)
	cfg.ChatModel = getEnv("CHAT_MODEL", cfg.ChatModel)
	cfg.EmbeddingDimensions = getEnvInt("EMBEDDING_DIMENSIONS", cfg.EmbeddingDimensions)

	cfg.ChunkSize = getEnvInt("CHUNK_SIZE", cfg.ChunkSize)
	cfg.ChunkOverlap = getEnvInt("CHUNK_OVERLAP", cfg.ChunkOverlap)
	cfg.MatchCount = getEnvInt("MATCH_COUNT", cfg.MatchCount)
	cfg.ExtractionMaxChars = getEnvInt("EXTRACTION_MAX_CHARS", cfg.ExtractionMaxChars)
	cfg.ExcerptLength = getEnvInt("EXCERPT_LENGTH", cfg.ExcerptLength)
	cfg.EmbedConcurrency = getEnvInt("EMBED_CONCURRENCY", cfg.EmbedConcurrency)
	cfg.EmbedRateLimit = getEnvFloat("EMBED_RATE_LIMIT", cfg.EmbedRateLimit)

	cfg.WorkerCount = getEnvInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.QueueSize = getEnvInt("QUEUE_SIZE", cfg.QueueSize)

	cfg.MaxUploadBytes = getEnvInt("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.CORSAllowOrigins = getEnv("CORS_ALLOW_ORIGINS", cfg.CORSAllowOrigins)
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", cfg.LogFormat))
}

// applyModelDefaults fills model names left unset with the provider's defaults.
func (c *Config) applyModelDefaults() {
	models, ok := providerModels[c.LLMProvider]
	if !ok {
		return
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = models.embedding
	}
	if c.ChatModel == "" {
		c.ChatModel = models.chat
	}
}

// Validate checks field ranges and the chunk size/overlap relation.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ValidateProvider checks that credentials exist for the configured provider.
// Commands that never call a model skip it.
func (c *Config) ValidateProvider() error {
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	case ProviderOpenAI:
		if c.OpenAIKey == "" {
			return errors.New("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
