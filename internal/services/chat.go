package services

import (
	"context"

	"go.uber.org/zap"

	"quickquiz-chat/internal/config"
	"quickquiz-chat/internal/models"
)

// CompletionRequest is everything a provider needs for one completion.
type CompletionRequest struct {
	System   string
	Messages []models.ChatMessage
}

// Completer performs one completion call and returns the concatenated
// text of the reply.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type ChatService struct {
	completer Completer
	apiKey    config.Secret
	logger    *zap.Logger
}

func NewChatService(completer Completer, apiKey config.Secret, logger *zap.Logger) *ChatService {
	return &ChatService{
		completer: completer,
		apiKey:    apiKey,
		logger:    logger,
	}
}

// Reply runs validate → prompt → normalize → complete for one request.
func (s *ChatService) Reply(ctx context.Context, req models.ChatRequest) (string, error) {
	if req.Message == "" {
		return "", &ValidationError{Message: "Message is required"}
	}

	if _, ok := s.apiKey.Value(); !ok || s.completer == nil {
		return "", &ConfigurationError{Setting: "API key"}
	}

	system := BuildSystemPrompt(PromptFragment(req.ModePrompt), PromptFragment(req.QuizContext))
	messages := NormalizeHistory(req.History, req.Message)

	s.logger.Debug("sending chat completion",
		zap.Int("history_len", len(req.History)),
		zap.Int("messages_len", len(messages)),
		zap.Bool("has_quiz_context", req.QuizContext != ""),
		zap.Bool("has_mode_prompt", req.ModePrompt != ""),
	)

	return s.completer.Complete(ctx, CompletionRequest{
		System:   system,
		Messages: messages,
	})
}
