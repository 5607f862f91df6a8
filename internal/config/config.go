package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every configuration section of the service.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Sentiment SentimentConfig
	Storage   StorageConfig
	Log       LogConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	sentiment, err := loadSentimentConfig()
	if err != nil {
		return nil, err
	}

	storage, err := loadStorageConfig()
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Sentiment: sentiment, Storage: storage, Log: logCfg}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// ":8080" and "127.0.0.1:8080" are used as given.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the Ark model used for replies and sentiment scoring.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled reports whether the model name and credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds a chat model from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_API_KEY and Model, or an access/secret key pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("Model")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

// SentimentConfig tunes the sentiment engine.
type SentimentConfig struct {
	HistoryTurns  int
	ScorerTimeout time.Duration
	ProfilePath   string
}

func loadSentimentConfig() (SentimentConfig, error) {
	turns := 5
	if override, err := parseOptionalIntEnv("SENTIMENT_HISTORY_TURNS"); err != nil {
		return SentimentConfig{}, err
	} else if override != nil {
		if *override < 1 {
			turns = 1
		} else {
			turns = *override
		}
	}

	timeout, err := parseDurationEnv("SENTIMENT_SCORER_TIMEOUT", 30*time.Second)
	if err != nil {
		return SentimentConfig{}, err
	}
	if timeout <= 0 {
		return SentimentConfig{}, fmt.Errorf("invalid SENTIMENT_SCORER_TIMEOUT value %q: must be positive", timeout)
	}

	return SentimentConfig{
		HistoryTurns:  turns,
		ScorerTimeout: timeout,
		ProfilePath:   getEnvOrDefault("PROFILE_PATH", "data/user_profile.json"),
	}, nil
}

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Driver        string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func loadStorageConfig() (StorageConfig, error) {
	driver := strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", DriverSQLite))
	switch driver {
	case DriverMemory, DriverSQLite, DriverRedis:
	default:
		return StorageConfig{}, fmt.Errorf("invalid STORAGE_DRIVER value %q: want memory, sqlite or redis", driver)
	}

	redisDB := 0
	if db, err := parseOptionalIntEnv("REDIS_DB"); err != nil {
		return StorageConfig{}, err
	} else if db != nil {
		redisDB = *db
	}

	return StorageConfig{
		Driver:        driver,
		SQLitePath:    getEnvOrDefault("SQLITE_PATH", "manamitra.db"),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
	}, nil
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

func loadLogConfig() (LogConfig, error) {
	level := strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info"))
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return LogConfig{}, fmt.Errorf("invalid LOG_LEVEL value %q", level)
	}

	format := strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json"))
	if format != "json" && format != "console" {
		return LogConfig{}, fmt.Errorf("invalid LOG_FORMAT value %q", format)
	}

	return LogConfig{Level: level, Format: format}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
