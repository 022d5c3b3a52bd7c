package services

import "quickquiz-chat/internal/models"

// NormalizeHistory appends the incoming message to the history (unless the
// history already ends with that exact user turn) and then drops turns
// that repeat their predecessor's role.
//
// The filter is a single pass over the working sequence. A turn is dropped
// only when its immediate predecessor has the same role and was itself
// kept, so a run of same-role turns loses every second entry:
// [user a, user b, user c] becomes [user a, user c]. The result is not
// guaranteed to alternate strictly.
func NormalizeHistory(history []models.ChatMessage, message string) []models.ChatMessage {
	working := make([]models.ChatMessage, 0, len(history)+1)
	working = append(working, history...)

	if n := len(history); n == 0 || !isSameUserTurn(history[n-1], message) {
		working = append(working, models.ChatMessage{Role: models.RoleUser, Content: message})
	}

	cleaned := make([]models.ChatMessage, 0, len(working))
	prevKept := false
	for i, m := range working {
		keep := i == 0 || !prevKept || m.Role != working[i-1].Role
		if keep {
			cleaned = append(cleaned, m)
		}
		prevKept = keep
	}

	return cleaned
}

func isSameUserTurn(m models.ChatMessage, message string) bool {
	return m.Role == models.RoleUser && m.Content == message
}
