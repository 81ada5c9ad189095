package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"realm/internal/domain"
	"realm/internal/ports"
)

// ErrNoCategories is returned when an analysis run is requested with no
// recognized category selected.
var ErrNoCategories = errors.New("no categories selected for analysis")

// PipelineDeps wires all driven adapters into the analysis pipeline.
type PipelineDeps struct {
	Generator ports.TextGenerator
	Extractor ports.Extractor
	Store     ports.ConversationStore
	Logger    *slog.Logger
}

// Pipeline implements the document-to-5C analysis workflow.
type Pipeline struct {
	generator ports.TextGenerator
	extractor ports.Extractor
	store     ports.ConversationStore
	logger    *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		generator: deps.Generator,
		extractor: deps.Extractor,
		store:     deps.Store,
		logger:    deps.Logger,
	}
}

// AnalysisUpdate is emitted once per analyzed category, in the order the
// categories are processed.
type AnalysisUpdate struct {
	Category domain.Category
	Result   string
	Message  string
	Progress float64
}

// AnalyzeDocument extracts text from the uploaded file and runs the 5C
// analysis on it. Extraction failures do not abort the run: the error text is
// analyzed in place of the document so the failure stays visible in the
// conversation.
func (p *Pipeline) AnalyzeDocument(ctx context.Context, session *SessionContext, path string, selected []domain.Category, emit func(AnalysisUpdate)) error {
	content, err := p.extractor.Extract(ctx, path)
	if err != nil {
		p.logger.Error("document extraction failed", "path", path, "error", err)
		content = err.Error()
	}
	return p.Analyze(ctx, session, content, selected, emit)
}

// Analyze runs one LLM call per selected category and persists each result as
// an assistant message before moving on to the next category. Categories are
// processed in their fixed 5C order regardless of selection order. A failed
// generation does not stop the run: the failure text becomes that category's
// result. The completed result set is cached on the session for follow-up
// questions.
func (p *Pipeline) Analyze(ctx context.Context, session *SessionContext, content string, selected []domain.Category, emit func(AnalysisUpdate)) error {
	categories := domain.CanonicalSubset(selected)
	if len(categories) == 0 {
		return ErrNoCategories
	}

	results := make(map[domain.Category]string, len(categories))
	for i, category := range categories {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := p.generator.Generate(ctx, BuildAnalysisPrompt(category, content))
		if err != nil {
			p.logger.Error("analysis generation failed", "category", category, "error", err)
			result = fmt.Sprintf("Sorry, I couldn't generate a response. Error: %v", err)
		}
		results[category] = result

		message := fmt.Sprintf("Here's the %s analysis:\n\n%s", category, result)
		p.persistAssistantMessage(ctx, session, message)

		if emit != nil {
			emit(AnalysisUpdate{
				Category: category,
				Result:   result,
				Message:  message,
				Progress: float64(i+1) / float64(len(categories)),
			})
		}
	}

	session.Analysis = results
	p.logger.Info("completed 5C analysis", "conversation_id", session.ConversationID, "categories", len(categories))
	return nil
}

// persistAssistantMessage appends to the in-memory transcript and stores the
// message. A store failure is logged with the full content so the analysis is
// not lost, and the run continues.
func (p *Pipeline) persistAssistantMessage(ctx context.Context, session *SessionContext, content string) {
	session.append(domain.RoleAssistant, content)
	if _, err := p.store.AddMessage(ctx, session.ConversationID, domain.RoleAssistant, content); err != nil {
		p.logger.Error("failed to persist assistant message",
			"conversation_id", session.ConversationID, "error", err, "content", content)
	}
}
