package usecase

import (
	"context"
	"fmt"

	"realm/internal/domain"
)

// Ask answers a follow-up question against the session's cached 5C analysis.
// The user's question and the generated answer are both appended to the
// transcript and persisted. A failed generation still produces an answer
// carrying the error text, so Ask only reports an error for a canceled
// context.
func (p *Pipeline) Ask(ctx context.Context, session *SessionContext, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	session.append(domain.RoleUser, question)
	if _, err := p.store.AddMessage(ctx, session.ConversationID, domain.RoleUser, question); err != nil {
		p.logger.Error("failed to persist user message",
			"conversation_id", session.ConversationID, "error", err, "content", question)
	}

	answer, err := p.generator.Generate(ctx, BuildFollowUpPrompt(session.Analysis, question))
	if err != nil {
		p.logger.Error("follow-up generation failed",
			"conversation_id", session.ConversationID, "error", err)
		answer = fmt.Sprintf("Sorry, I couldn't generate a response. Error: %v", err)
	}

	p.persistAssistantMessage(ctx, session, answer)
	return answer, nil
}
