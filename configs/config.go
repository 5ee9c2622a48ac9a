package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port        string
	Environment string

	// OpenAI互換のチャット補完API
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	OpenAIMaxTokens int
	OpenAITimeout   time.Duration

	// Azure OpenAI (AZURE_OPENAI_ENDPOINT が設定されている場合に優先)
	AzureOpenAIEndpoint       string
	AzureOpenAIAPIKey         string
	AzureOpenAIAPIVersion     string
	AzureOpenAIDeploymentName string

	StaticDir        string
	PromptConfigPath string
	SessionSecret    string
	SessionTTL       time.Duration
	MaxUploadBytes   int64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:                      getEnv("PORT", "8080"),
		Environment:               getEnv("ENVIRONMENT", "development"),
		OpenAIAPIKey:              getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:             getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:               getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIMaxTokens:           getEnvInt("OPENAI_MAX_TOKENS", 1000),
		OpenAITimeout:             getEnvDuration("OPENAI_TIMEOUT", 60*time.Second),
		AzureOpenAIEndpoint:       getEnv("AZURE_OPENAI_ENDPOINT", ""),
		AzureOpenAIAPIKey:         getEnv("AZURE_OPENAI_API_KEY", ""),
		AzureOpenAIAPIVersion:     getEnv("AZURE_OPENAI_API_VERSION", "2024-02-01"),
		AzureOpenAIDeploymentName: getEnv("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-4o-mini"),
		StaticDir:                 getEnv("STATIC_DIR", "static"),
		PromptConfigPath:          getEnv("PROMPT_CONFIG_PATH", "configs/system_prompt.yaml"),
		SessionSecret:             getEnv("SESSION_SECRET", "change-me"),
		SessionTTL:                getEnvDuration("SESSION_TTL", 2*time.Hour),
		MaxUploadBytes:            int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
	}
}

// UseAzure reports whether the Azure OpenAI provider should be used.
func (c *Config) UseAzure() bool {
	return c.AzureOpenAIEndpoint != ""
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s=%q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s=%q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
