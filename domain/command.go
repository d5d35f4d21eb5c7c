package domain

import "time"

type Command interface {
	RoomID() RoomID
}

// SendMessageCommand carries an inbound message intent from a live
// connection to the fan-out engine.
type SendMessageCommand struct {
	ConversationName string
	Sender           string
	Text             string
	CreatedAt        time.Time
}

func (c SendMessageCommand) RoomID() RoomID {
	return RoomID(c.ConversationName)
}

type GetMessagesCommand struct {
	ConversationName string
}

func (c GetMessagesCommand) RoomID() RoomID {
	return RoomID(c.ConversationName)
}
