package server

import (
	"fmt"
	"log"

	config "csv-chat-api/configs"
	"csv-chat-api/pkg/handlers"
	"csv-chat-api/pkg/openai"
	"csv-chat-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// NewModelClient builds the chat-completion client selected by cfg.
func NewModelClient(cfg *config.Config) *openai.Client {
	if cfg.UseAzure() {
		log.Printf("Using Azure OpenAI deployment %s", cfg.AzureOpenAIDeploymentName)
		return openai.NewClient(openai.ClientConfig{
			Provider:   openai.ProviderAzure,
			Endpoint:   cfg.AzureOpenAIEndpoint,
			APIKey:     cfg.AzureOpenAIAPIKey,
			Deployment: cfg.AzureOpenAIDeploymentName,
			APIVersion: cfg.AzureOpenAIAPIVersion,
			Timeout:    cfg.OpenAITimeout,
		})
	}

	if cfg.OpenAIAPIKey == "" {
		log.Printf("Warning: OPENAI_API_KEY is not set; chat requests will report an upstream error")
	}
	return openai.NewClient(openai.ClientConfig{
		Provider: openai.ProviderOpenAI,
		Endpoint: cfg.OpenAIBaseURL,
		APIKey:   cfg.OpenAIAPIKey,
		Model:    cfg.OpenAIModel,
		Timeout:  cfg.OpenAITimeout,
	})
}

// New wires every service and handler. gateway may be nil, in which case the client
// configured by cfg is used.
func New(cfg *config.Config, gateway services.CompletionClient) (*gin.Engine, error) {
	prompts, err := config.LoadPromptConfig(cfg.PromptConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt config: %w", err)
	}

	if gateway == nil {
		gateway = services.NewModelGateway(NewModelClient(cfg), cfg.OpenAIMaxTokens)
	}

	// サービスの初期化
	stats := services.NewStatisticsService()
	store := services.NewSessionStore(cfg.SessionTTL)
	monitoring := services.NewMonitoringService()
	chat := services.NewChatService(
		services.NewPromptBuilder(prompts, stats),
		gateway,
		services.NewResponseValidator(),
		prompts,
	)

	// ハンドラーの初期化
	sessions := handlers.NewSessionResolver(cfg.SessionSecret)
	rt := handlers.Router{
		Dataset:    handlers.NewDatasetHandler(services.NewTableLoader(), store, stats, sessions, cfg.MaxUploadBytes, prompts.SampleValues),
		Chat:       handlers.NewChatHandler(chat, store, sessions),
		Page:       handlers.NewPageHandler(cfg.StaticDir),
		Monitoring: handlers.NewMonitoringHandler(monitoring),
		StaticDir:  cfg.StaticDir,
	}

	return handlers.NewRouter(rt, monitoring), nil
}
