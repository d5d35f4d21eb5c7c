package event

import (
	"stunner/domain"
	"time"

	"github.com/google/uuid"
)

type DomainEvent interface {
	RoomID() domain.RoomID
}

// MessageStored is emitted once a message has been durably persisted.
// Broadcast happens strictly after this event; a message that failed to
// persist never reaches the fan-out stage.
type MessageStored struct {
	ID               uuid.UUID
	ConversationName string
	Sender           string
	Text             string
	At               time.Time
}

func (m MessageStored) RoomID() domain.RoomID {
	return domain.RoomID(m.ConversationName)
}
