package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"quickquiz-chat/internal/metrics"
	"quickquiz-chat/internal/middleware"
	"quickquiz-chat/internal/models"
	"quickquiz-chat/internal/services"
)

type chatService interface {
	Reply(ctx context.Context, req models.ChatRequest) (string, error)
}

type ChatHandler struct {
	chatService chatService
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewChatHandler(chatService chatService, m *metrics.Metrics, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		metrics:     m,
		logger:      logger,
	}
}

// Chat handles POST /api/chat. Any other method is rejected before the
// body is looked at.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(
		zap.String("request_id", middleware.GetRequestID(r)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.observe(handleServiceError(w, logger, &services.MethodNotAllowedError{Method: r.Method}))
		return
	}

	// An empty body decodes to an empty request and fails on the missing message.
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Debug("invalid chat body", zap.Error(err))
		h.observe(handleServiceError(w, logger, &services.ValidationError{Message: "Invalid request body"}))
		return
	}

	start := time.Now()
	reply, err := h.chatService.Reply(r.Context(), req)
	if err != nil {
		outcome := handleServiceError(w, logger, err)
		h.observe(outcome)
		if outcome == metrics.OutcomeUpstream || outcome == metrics.OutcomeInternal {
			h.observeCompletion(outcome, time.Since(start))
		}
		return
	}

	h.observe(metrics.OutcomeOK)
	h.observeCompletion(metrics.OutcomeOK, time.Since(start))
	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}

func (h *ChatHandler) observe(outcome string) {
	if h.metrics != nil {
		h.metrics.ObserveRequest(outcome)
	}
}

func (h *ChatHandler) observeCompletion(outcome string, elapsed time.Duration) {
	if h.metrics != nil {
		h.metrics.ObserveCompletion(outcome, elapsed)
	}
}
