//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"stunner/domain"
	"stunner/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one live consumer of broadcast events, typically backed by
// a single WebSocket connection.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry owns the in-memory room membership table. Connection handler
// code never touches the table directly; every mutation goes through this
// single coordination point.
type IRegistry interface {
	GetSinksForRoom(roomID domain.RoomID) []EventSink
	Subscribe(connectionID string, roomID domain.RoomID, sink EventSink)
	Unsubscribe(connectionID string, roomID domain.RoomID)
	UnsubscribeAll(connectionID string)
}

type IOrchestrator interface {
	Dispatch(cmd domain.Command)
	GetMessages(cmd domain.GetMessagesCommand) ([]domain.Message, error)
	RegisterParticipant(connectionID string, roomID domain.RoomID, sink EventSink)
	UnregisterParticipant(connectionID string, roomID domain.RoomID)
	UnregisterConnection(connectionID string)
	Start(ctx context.Context) error
	Stop()
}
