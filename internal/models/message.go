// internal/models/message.go
package models

import "time"

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation's append-only log. Seq is the
// conversation-relative order; messages are immutable once written.
type Message struct {
	ID             string    `json:"id" db:"id"`
	ConversationID string    `json:"conversationId" db:"conversation_id"`
	Role           Role      `json:"role" db:"role"`
	Content        string    `json:"content" db:"content"`
	Seq            int       `json:"seq" db:"seq"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
