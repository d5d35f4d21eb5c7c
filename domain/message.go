// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable and append-only.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat message. ConversationName is a
// plain reference to Conversation.Name; referential integrity is not
// enforced by the store.
type Message struct {
	ID               uuid.UUID
	Text             string
	Sender           string
	ConversationName string
	CreatedAt        time.Time
}
