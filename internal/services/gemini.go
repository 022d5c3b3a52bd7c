package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"quickquiz-chat/internal/models"
)

type GeminiService struct {
	client    *genai.Client
	modelName string
	maxTokens int32
	timeout   time.Duration
}

func NewGeminiService(ctx context.Context, apiKey, modelName string, maxTokens int, timeout time.Duration) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &GeminiService{
		client:    client,
		modelName: modelName,
		maxTokens: int32(maxTokens),
		timeout:   timeout,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// Complete replays all but the last turn as chat history and sends the
// last one, which is always a user turn after normalization.
func (s *GeminiService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if len(req.Messages) == 0 {
		return "", &InternalError{Err: errors.New("no messages to send")}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	model := s.client.GenerativeModel(s.modelName)
	model.SystemInstruction = genai.NewUserContent(genai.Text(req.System))
	model.SetMaxOutputTokens(s.maxTokens)

	last := req.Messages[len(req.Messages)-1]
	cs := model.StartChat()
	cs.History = toGeminiHistory(req.Messages[:len(req.Messages)-1])

	resp, err := cs.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		if status, ok := geminiStatus(err); ok {
			return "", &UpstreamError{Provider: "Gemini", StatusCode: status, Detail: err.Error()}
		}
		return "", &InternalError{Err: fmt.Errorf("Gemini API error: %w", err)}
	}

	return extractText(resp), nil
}

func toGeminiHistory(messages []models.ChatMessage) []*genai.Content {
	history := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return history
}

// geminiStatus pulls the HTTP status out of the error chain, if the
// provider answered at all.
func geminiStatus(err error) (int, bool) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPCode() > 0 {
		return apiErr.HTTPCode(), true
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code > 0 {
		return gErr.Code, true
	}
	return 0, false
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

var _ Completer = (*GeminiService)(nil)
