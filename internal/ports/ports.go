package ports

import (
	"context"

	"realm/internal/domain"
)

// TextGenerator produces a completion for a prompt via an external model.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Extractor converts an uploaded file into a single text payload.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// ConversationStore persists conversations and their ordered messages.
type ConversationStore interface {
	CreateConversation(ctx context.Context, name string) (domain.Conversation, error)

	// EnsureInitialConversation creates the bootstrap conversation when the
	// store is empty and returns the first conversation either way.
	EnsureInitialConversation(ctx context.Context) (domain.Conversation, error)

	ListConversations(ctx context.Context) ([]domain.Conversation, error)

	// AddMessage appends to the conversation; message order equals call order.
	AddMessage(ctx context.Context, conversationID int64, role domain.Role, content string) (domain.Message, error)

	// ListMessages returns messages in insertion order, skipping records
	// whose stored payload fails to decode.
	ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error)

	// DeleteConversation removes the conversation and all of its messages,
	// reporting whether the conversation existed.
	DeleteConversation(ctx context.Context, conversationID int64) (bool, error)
}

// FileStore keeps uploaded documents and downloadable artifacts on disk.
type FileStore interface {
	SaveUpload(name string, data []byte) (string, error)
	UploadPath(name string) string
	ListContents() ([]string, error)
	ReadContent(name string) ([]byte, error)
	CreateDownloadable(content, filename string) (string, error)
}
