package models

import "time"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single entry in the conversation log. The log is
// append-only; the engine never edits or removes an emitted message.
type Message struct {
	ID         string    `json:"id"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	TriggerKey string    `json:"trigger_key,omitempty"` // set for auto-generated messages
	Timestamp  time.Time `json:"timestamp"`
}

// AppendMessageRequest is the request body for appending a user message
type AppendMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ArchivedMessage is the MongoDB mirror of a Message, kept for
// long-term conversation archival when MONGODB_URI is configured.
type ArchivedMessage struct {
	MessageID  string    `bson:"messageId"`
	Role       string    `bson:"role"`
	Content    string    `bson:"content"`
	TriggerKey string    `bson:"triggerKey,omitempty"`
	Timestamp  time.Time `bson:"timestamp"`
	ArchivedAt time.Time `bson:"archivedAt"`
}
