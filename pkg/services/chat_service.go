package services

import (
	"context"
	"errors"
	"log"

	config "csv-chat-api/configs"
	"csv-chat-api/pkg/models"
)

const (
	// NoDatasetReply is returned verbatim when chat is called before any upload.
	NoDatasetReply = "Please upload a dataset first."
	// MalformedReplyFallback is returned when the model's output cannot be parsed.
	MalformedReplyFallback = "Sorry, I couldn't understand the response from the model. Please try rephrasing your request."
	// upstreamErrorPrefix is prepended to the failure description on any other error.
	upstreamErrorPrefix = "An error occurred: "
)

// ChatService runs one chat turn: Prompt Builder → Model Gateway → Response Validator.
type ChatService struct {
	prompts   *PromptBuilder
	gateway   CompletionClient
	validator *ResponseValidator
	commands  *config.PromptConfig
}

// NewChatService 新しいChatServiceを作成
func NewChatService(prompts *PromptBuilder, gateway CompletionClient, validator *ResponseValidator, commands *config.PromptConfig) *ChatService {
	return &ChatService{
		prompts:   prompts,
		gateway:   gateway,
		validator: validator,
		commands:  commands,
	}
}

// Chat answers text against table. It never returns a Go error: failures are folded into the
// result's Outcome and Body, with the cause kept in Err for logging.
func (s *ChatService) Chat(ctx context.Context, table *models.Table, text string) models.ChatResult {
	if table == nil {
		return models.ChatResult{
			Outcome: models.OutcomeNoDataset,
			Body:    map[string]any{"bot_response": NoDatasetReply},
		}
	}

	if ok, reply := s.commands.CheckSpecialCommand(text); ok {
		return models.ChatResult{
			Outcome: models.OutcomeCommand,
			Body:    map[string]any{"user_message": text, "bot_response": reply},
		}
	}

	prompt := s.prompts.Build(text, table)
	raw, err := s.gateway.Complete(ctx, s.prompts.SystemRole(), prompt)
	if err != nil {
		log.Printf("❌ [chat] model call failed: %v", err)
		return models.ChatResult{
			Outcome: models.OutcomeUpstreamError,
			Body:    map[string]any{"user_message": text, "bot_response": upstreamErrorPrefix + err.Error()},
			Err:     err,
		}
	}

	reply, err := s.validator.Validate(raw)
	if err != nil {
		if errors.Is(err, ErrMalformedReply) {
			log.Printf("⚠️ [chat] unparseable model reply: %v (raw: %.200s)", err, raw)
			return models.ChatResult{
				Outcome: models.OutcomeDeclined,
				Body:    map[string]any{"user_message": text, "bot_response": MalformedReplyFallback},
				Err:     err,
			}
		}
		return models.ChatResult{
			Outcome: models.OutcomeUpstreamError,
			Body:    map[string]any{"user_message": text, "bot_response": upstreamErrorPrefix + err.Error()},
			Err:     err,
		}
	}

	return models.ChatResult{Outcome: models.OutcomeReplied, Body: reply}
}
