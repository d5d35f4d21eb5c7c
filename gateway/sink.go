package gateway

import (
	"context"

	"stunner/domain/event"
)

// Sink bridges the fan-out worker and one WebSocket connection.
type Sink struct {
	Events chan event.DomainEvent
}

func NewSink(bufferSize int) *Sink {
	return &Sink{Events: make(chan event.DomainEvent, bufferSize)}
}

// Consume is called by the fan-out worker. It hands the event to the
// connection's write pump. A full buffer means a slow consumer: the event
// is dropped for this connection rather than stalling the broadcast.
func (s *Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
