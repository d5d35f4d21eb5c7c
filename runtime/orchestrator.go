// Package runtime handles command dispatch, persistence ordering, and
// event fan-out to live connections. It orchestrates the system without
// containing business logic or domain rules.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stunner/contract"
	"stunner/domain"
	"stunner/domain/event"
	"stunner/repositories"
	"stunner/runtime/workers"

	"github.com/samber/lo"
)

var _ contract.IOrchestrator = (*Orchestrator)(nil)

type Orchestrator struct {
	log               *slog.Logger
	supervisor        contract.ISupervisor
	registry          contract.IRegistry
	messageRepository repositories.IMessageRepository
	commands          chan domain.Command
	events            chan event.DomainEvent
	sinkTimeout       time.Duration
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	registry contract.IRegistry, messageRepository repositories.IMessageRepository,
	bufferSize int, sinkTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		log:               log,
		supervisor:        supervisor,
		registry:          registry,
		messageRepository: messageRepository,
		commands:          make(chan domain.Command, bufferSize),
		events:            make(chan event.DomainEvent, bufferSize),
		sinkTimeout:       sinkTimeout,
	}
}

// Dispatch hands a command to the pipeline without blocking the caller.
// When the channel is saturated the command is dropped with a warning;
// backpressure never propagates to the connection read loop.
func (o *Orchestrator) Dispatch(cmd domain.Command) {
	select {
	case o.commands <- cmd:
	default:
		o.log.Warn(fmt.Sprintf("Command channel full for room %s, dropping command", cmd.RoomID()))
	}
}

func (o *Orchestrator) GetMessages(cmd domain.GetMessagesCommand) ([]domain.Message, error) {
	messages, err := o.messageRepository.GetMessages(cmd.ConversationName)
	return fromDiskMessages(messages), err
}

func fromDiskMessages(messages []repositories.DiskMessage) []domain.Message {
	return lo.Map(messages, func(item repositories.DiskMessage, _ int) domain.Message {
		return domain.Message{
			ID:               item.ID,
			Text:             item.Text,
			Sender:           item.Sender,
			ConversationName: item.ConversationName,
			CreatedAt:        item.At,
		}
	})
}

// RegisterParticipant binds a connection's sink to a room. There is
// deliberately no validation against the Conversation Directory: any
// authenticated connection may join any room name, including names with
// no backing conversation record.
func (o *Orchestrator) RegisterParticipant(connectionID string, roomID domain.RoomID, sink contract.EventSink) {
	o.registry.Subscribe(connectionID, roomID, sink)
}

func (o *Orchestrator) UnregisterParticipant(connectionID string, roomID domain.RoomID) {
	o.registry.Unsubscribe(connectionID, roomID)
}

// UnregisterConnection removes a disconnected connection from every room.
// An in-flight persistence is not cancelled: the message may still be
// stored and broadcast after the sender has gone.
func (o *Orchestrator) UnregisterConnection(connectionID string) {
	o.registry.UnsubscribeAll(connectionID)
}

// Start wires the two pipeline stages (store, fanout) into the supervisor
// and runs them. A single store worker keeps persistence in arrival order.
func (o *Orchestrator) Start(ctx context.Context) error {
	storeWorker := workers.NewStoreWorker(o.messageRepository, o.commands, o.events, o.log)
	fanoutWorker := workers.NewEventFanout(o.log, o.registry, o.events, o.sinkTimeout)

	o.supervisor.Add(storeWorker)
	o.supervisor.Add(fanoutWorker)

	o.log.Info("Starting orchestrator and all supervised workers")
	go o.supervisor.Run(ctx)
	return nil
}

// Stop initiates a graceful shutdown by cancelling the supervised context.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
