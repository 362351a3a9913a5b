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

// Config aggregates every setting the service reads at startup.
type Config struct {
	Server ServerConfig
	App    AppConfig
	Auth   AuthConfig
	AI     AIConfig
	CORS   CORSConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	auth, err := loadAuthConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		App:    loadAppConfig(),
		Auth:   auth,
		AI:     ai,
		CORS:   loadCORSConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr     string
	LogLevel string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	addr := port
	if !strings.Contains(port, ":") {
		addr = ":" + port
	}

	return ServerConfig{
		Addr:     addr,
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}, nil
}

// AppConfig holds the static metadata served on the info endpoint.
type AppConfig struct {
	ProjectName string
	Version     string
	Description string
	APIPrefix   string
}

func loadAppConfig() AppConfig {
	return AppConfig{
		ProjectName: getEnvOrDefault("PROJECT_NAME", "Intelligent Tax Filing API"),
		Version:     "0.1.0",
		Description: "API for the Intelligent Tax Filing Web Application, providing AI-driven tax advice.",
		APIPrefix:   "/api/v1",
	}
}

// AuthConfig holds the session-token signing settings.
type AuthConfig struct {
	SigningSecret string
	TokenTTL      time.Duration
}

func loadAuthConfig() (AuthConfig, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET_KEY"))
	if secret == "" {
		// Deliberately fatal: a blank secret would make every token forgeable.
		return AuthConfig{}, fmt.Errorf("JWT_SECRET_KEY must be set and non-empty")
	}

	ttlMinutes := 30
	if override, err := parseOptionalIntEnv("ACCESS_TOKEN_EXPIRE_MINUTES"); err != nil {
		return AuthConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return AuthConfig{}, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
		}
		ttlMinutes = *override
	}

	return AuthConfig{
		SigningSecret: secret,
		TokenTTL:      time.Duration(ttlMinutes) * time.Minute,
	}, nil
}

// DefaultModel is reported on the info endpoint alongside the configured one.
const DefaultModel = "gpt-4-turbo"

// AIConfig describes the generative-model provider.
type AIConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	Region         string
	Temperature    *float64
	MaxTokens      *int
	TimeoutSeconds int
}

// Enabled reports whether the provider credential is present. When it is not,
// the service still starts and every advice request degrades to a
// configuration-error outcome.
func (c AIConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

// Timeout is the explicit bound on each outbound provider call.
func (c AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// NewChatModel builds the provider chat model from this configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("provider credential or model missing, set AI_API_KEY and AI_MODEL")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
	})
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("AI_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	if temperature == nil {
		val := 0.6
		temperature = &val
	}

	maxTokens, err := parseOptionalIntEnv("AI_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}
	if maxTokens == nil {
		val := 350
		maxTokens = &val
	}

	timeoutSeconds := 60
	if override, err := parseOptionalIntEnv("AI_TIMEOUT_SECONDS"); err != nil {
		return AIConfig{}, err
	} else if override != nil && *override > 0 {
		timeoutSeconds = *override
	}

	return AIConfig{
		APIKey:         strings.TrimSpace(os.Getenv("AI_API_KEY")),
		Model:          getEnvOrDefault("AI_MODEL", DefaultModel),
		BaseURL:        getEnvOrDefault("AI_BASE_URL", ""),
		Region:         getEnvOrDefault("AI_REGION", ""),
		Temperature:    temperature,
		MaxTokens:      maxTokens,
		TimeoutSeconds: timeoutSeconds,
	}, nil
}

// CORSConfig lists the origins the frontend may call from.
type CORSConfig struct {
	AllowedOrigins []string
}

func loadCORSConfig() CORSConfig {
	raw := getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost,http://localhost:3000")

	origins := make([]string, 0, 4)
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return CORSConfig{AllowedOrigins: origins}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
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
