// Package storage persists conversations and messages in SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"realm/internal/domain"
	"realm/internal/ports"
)

const initialConversationName = "Initial Conversation"

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id INTEGER NOT NULL REFERENCES conversations(id),
	data TEXT
);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
`

// messagePayload is the JSON blob stored in the messages.data column.
type messagePayload struct {
	Role    domain.Role `json:"role"`
	Content string      `json:"content"`
}

// SQLiteRepository implements ports.ConversationStore over a local SQLite file.
// Every operation runs in its own implicit transaction; nothing spans calls.
type SQLiteRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ ports.ConversationStore = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteRepository(path string, logger *slog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteRepository{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// CreateConversation inserts a new conversation and returns it with its
// assigned identifier.
func (r *SQLiteRepository) CreateConversation(ctx context.Context, name string) (domain.Conversation, error) {
	query, args, err := sq.Insert("conversations").Columns("name").Values(name).ToSql()
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("build insert: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("insert conversation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("conversation id: %w", err)
	}

	r.logger.Info("added new conversation", "conversation_id", id, "name", name)
	return domain.Conversation{ID: id, Name: name}, nil
}

// EnsureInitialConversation bootstraps an empty store with one conversation
// and returns the first conversation either way.
func (r *SQLiteRepository) EnsureInitialConversation(ctx context.Context) (domain.Conversation, error) {
	query, args, err := sq.Select("id", "name").From("conversations").OrderBy("id ASC").Limit(1).ToSql()
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("build select: %w", err)
	}

	var conv domain.Conversation
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&conv.ID, &conv.Name)
	switch {
	case err == sql.ErrNoRows:
		return r.CreateConversation(ctx, initialConversationName)
	case err != nil:
		return domain.Conversation{}, fmt.Errorf("query first conversation: %w", err)
	}

	return conv, nil
}

// ListConversations returns all conversations in creation order.
func (r *SQLiteRepository) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	query, args, err := sq.Select("id", "name").From("conversations").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []domain.Conversation
	for rows.Next() {
		var conv domain.Conversation
		if err := rows.Scan(&conv.ID, &conv.Name); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return conversations, nil
}

// AddMessage appends a message to the conversation. The role/content pair is
// stored as a JSON blob in the data column.
func (r *SQLiteRepository) AddMessage(ctx context.Context, conversationID int64, role domain.Role, content string) (domain.Message, error) {
	data, err := json.Marshal(messagePayload{Role: role, Content: content})
	if err != nil {
		return domain.Message{}, fmt.Errorf("encode message payload: %w", err)
	}

	query, args, err := sq.Insert("messages").
		Columns("conversation_id", "data").
		Values(conversationID, string(data)).
		ToSql()
	if err != nil {
		return domain.Message{}, fmt.Errorf("build insert: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.Message{}, fmt.Errorf("insert message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Message{}, fmt.Errorf("message id: %w", err)
	}

	r.logger.Debug("added message", "conversation_id", conversationID, "message_id", id, "role", role)
	return domain.Message{ID: id, ConversationID: conversationID, Role: role, Content: content}, nil
}

// ListMessages returns the conversation's messages in insertion order.
// Records whose payload fails to decode are skipped and logged, never
// surfaced to the caller.
func (r *SQLiteRepository) ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	query, args, err := sq.Select("id", "conversation_id", "data").
		From("messages").
		Where(sq.Eq{"conversation_id": conversationID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var (
			msg  domain.Message
			data sql.NullString
		)
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &data); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}

		var payload messagePayload
		if err := json.Unmarshal([]byte(data.String), &payload); err != nil || !payload.Role.Valid() {
			r.logger.Error("skipping malformed message record", "message_id", msg.ID, "error", err)
			continue
		}

		msg.Role = payload.Role
		msg.Content = payload.Content
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return messages, nil
}

// DeleteConversation removes the conversation and all of its messages,
// reporting whether a conversation with the given id existed.
func (r *SQLiteRepository) DeleteConversation(ctx context.Context, conversationID int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	msgQuery, msgArgs, err := sq.Delete("messages").Where(sq.Eq{"conversation_id": conversationID}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build message delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, msgQuery, msgArgs...); err != nil {
		return false, fmt.Errorf("delete messages: %w", err)
	}

	convQuery, convArgs, err := sq.Delete("conversations").Where(sq.Eq{"id": conversationID}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build conversation delete: %w", err)
	}
	res, err := tx.ExecContext(ctx, convQuery, convArgs...)
	if err != nil {
		return false, fmt.Errorf("delete conversation: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete: %w", err)
	}

	if affected == 0 {
		r.logger.Warn("conversation not found", "conversation_id", conversationID)
		return false, nil
	}

	r.logger.Info("deleted conversation", "conversation_id", conversationID)
	return true, nil
}
