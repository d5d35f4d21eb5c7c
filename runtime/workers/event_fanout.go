package workers

import (
	"context"
	"log/slog"
	"time"

	"stunner/contract"
	"stunner/domain/event"
)

var _ contract.Worker = (*EventFanout)(nil)

// EventFanout broadcasts stored events to every connection currently
// joined to the event's room.
//
// It provides best-effort, at-most-once delivery with no guarantees
// regarding ordering across rooms, durability, or retries. The membership
// snapshot is taken at broadcast time: a connection that joins afterwards
// never sees the event, and there is no buffering for absent participants.
type EventFanout struct {
	log         *slog.Logger
	registry    contract.IRegistry
	events      chan event.DomainEvent
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, registry contract.IRegistry,
	events chan event.DomainEvent, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:         log,
		registry:    registry,
		events:      events,
		sinkTimeout: sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.Fanout(ctx, evt)
		}
	}
}

// Fanout delivers one event to each sink of the room. A slow sink only
// gets sinkTimeout to accept the event; failures are logged and skipped so
// one dead connection cannot stall the others.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.registry.GetSinksForRoom(evt.RoomID()) {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.log.Warn("Sink refused event", "room", evt.RoomID(), "error", err)
		}
		cancel()
	}
}
