package workers

import (
	"context"
	"log/slog"
	"time"

	"stunner/contract"
	"stunner/domain"
	"stunner/domain/event"
	"stunner/repositories"

	"github.com/google/uuid"
)

// Ensure *StoreWorker implements the contract.Worker interface at compile time.
var _ contract.Worker = (*StoreWorker)(nil)

// StoreWorker is the persistence stage of the pipeline. It drains the
// command channel, appends each message to the repository, and only then
// emits a MessageStored event for the fan-out stage.
//
// A single StoreWorker services the channel, so messages are persisted and
// broadcast in process arrival order. A persistence failure is logged and
// the command dropped: no event is emitted and no error reaches the
// sender.
type StoreWorker struct {
	repository repositories.IMessageRepository
	commands   chan domain.Command
	events     chan event.DomainEvent
	log        *slog.Logger
}

func NewStoreWorker(
	repository repositories.IMessageRepository,
	commands chan domain.Command,
	events chan event.DomainEvent,
	log *slog.Logger) *StoreWorker {
	return &StoreWorker{
		repository: repository,
		commands:   commands,
		events:     events,
		log:        log,
	}
}

func (w *StoreWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			sendCmd, ok := cmd.(domain.SendMessageCommand)
			if !ok {
				continue
			}
			stored := toEvent(sendCmd)
			if err := w.repository.StoreMessage(toDiskMessage(stored)); err != nil {
				// Fire-and-forget: the event is dropped, nothing is broadcast.
				w.log.Error("Failed to store message",
					"conversation", sendCmd.ConversationName,
					"sender", sendCmd.Sender,
					"error", err)
				continue
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case w.events <- stored:
			}
		}
	}
}

func toEvent(c domain.SendMessageCommand) event.MessageStored {
	at := c.CreatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return event.MessageStored{
		ID:               uuid.New(),
		ConversationName: c.ConversationName,
		Sender:           c.Sender,
		Text:             c.Text,
		At:               at,
	}
}

func toDiskMessage(e event.MessageStored) repositories.DiskMessage {
	return repositories.DiskMessage{
		ID:               e.ID,
		ConversationName: e.ConversationName,
		Sender:           e.Sender,
		Text:             e.Text,
		At:               e.At,
	}
}
