package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"quickquiz-chat/internal/metrics"
	"quickquiz-chat/internal/models"
	"quickquiz-chat/internal/services"
)

// Client-visible error messages. Details never leave the server.
const (
	msgMethodNotAllowed = "Method not allowed"
	msgAPIKeyMissing    = "API key not configured"
	msgUpstream         = "AI API error"
	msgInternal         = "Internal server error"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(message string) models.ErrorResponse {
	return models.ErrorResponse{Error: message}
}

// handleServiceError maps the service error taxonomy onto a status code
// and a fixed message, logs the detail and returns the metrics outcome.
func handleServiceError(w http.ResponseWriter, logger *zap.Logger, err error) string {
	var (
		methodErr   *services.MethodNotAllowedError
		validErr    *services.ValidationError
		configErr   *services.ConfigurationError
		upstreamErr *services.UpstreamError
	)

	switch {
	case errors.As(err, &methodErr):
		writeJSON(w, http.StatusMethodNotAllowed, errorResp(msgMethodNotAllowed))
		return metrics.OutcomeMethodNotAllowed
	case errors.As(err, &validErr):
		writeJSON(w, http.StatusBadRequest, errorResp(validErr.Message))
		return metrics.OutcomeValidation
	case errors.As(err, &configErr):
		logger.Error("chat misconfigured", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp(msgAPIKeyMissing))
		return metrics.OutcomeConfiguration
	case errors.As(err, &upstreamErr):
		logger.Error("AI provider error",
			zap.String("provider", upstreamErr.Provider),
			zap.Int("status", upstreamErr.StatusCode),
			zap.String("detail", upstreamErr.Detail),
		)
		writeJSON(w, upstreamStatus(upstreamErr.StatusCode), errorResp(msgUpstream))
		return metrics.OutcomeUpstream
	default:
		logger.Error("chat failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp(msgInternal))
		return metrics.OutcomeInternal
	}
}

// upstreamStatus passes the provider status through, guarding against
// values net/http refuses to write.
func upstreamStatus(code int) int {
	if code < 100 || code > 999 {
		return http.StatusBadGateway
	}
	return code
}
