package domain

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the two known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Conversation is a named thread of messages, the unit of persistence and deletion.
type Conversation struct {
	ID   int64
	Name string
}

// Message is a single transcript entry owned by exactly one conversation.
type Message struct {
	ID             int64
	ConversationID int64
	Role           Role
	Content        string
}
