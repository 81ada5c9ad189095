package usecase

import "realm/internal/domain"

// SessionContext carries the per-conversation state the UI layer holds
// between requests: the in-memory transcript and the cached 5C analysis of
// the last pipeline run. It is passed explicitly into every operation rather
// than living in ambient globals.
type SessionContext struct {
	ConversationID int64
	Transcript     []domain.Message
	Analysis       map[domain.Category]string
}

// NewSession starts an empty session bound to a conversation.
func NewSession(conversationID int64) *SessionContext {
	return &SessionContext{ConversationID: conversationID}
}

func (s *SessionContext) append(role domain.Role, content string) {
	s.Transcript = append(s.Transcript, domain.Message{
		ConversationID: s.ConversationID,
		Role:           role,
		Content:        content,
	})
}
