//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"stunner/contract"
	"stunner/domain"
)

type IChatService interface {
	SendMessage(cmd domain.SendMessageCommand)
	GetMessages(cmd domain.GetMessagesCommand) ([]domain.Message, error)
	JoinRoom(connectionID string, roomID domain.RoomID, sink contract.EventSink)
	LeaveRoom(connectionID string, roomID domain.RoomID)
	Disconnect(connectionID string)
}

// ChatService is the thin facade the gateway talks to. All room state and
// pipeline mechanics live in the orchestrator.
type ChatService struct {
	orchestrator contract.IOrchestrator
}

func NewChatService(o contract.IOrchestrator) *ChatService {
	return &ChatService{orchestrator: o}
}

func (s *ChatService) SendMessage(cmd domain.SendMessageCommand) {
	s.orchestrator.Dispatch(cmd)
}

func (s *ChatService) GetMessages(cmd domain.GetMessagesCommand) ([]domain.Message, error) {
	return s.orchestrator.GetMessages(cmd)
}

func (s *ChatService) JoinRoom(connectionID string, roomID domain.RoomID, sink contract.EventSink) {
	s.orchestrator.RegisterParticipant(connectionID, roomID, sink)
}

func (s *ChatService) LeaveRoom(connectionID string, roomID domain.RoomID) {
	s.orchestrator.UnregisterParticipant(connectionID, roomID)
}

func (s *ChatService) Disconnect(connectionID string) {
	s.orchestrator.UnregisterConnection(connectionID)
}
