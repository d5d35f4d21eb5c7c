//go:generate go run go.uber.org/mock/mockgen -source=directory_service.go -destination=../mocks/mock_directory_service.go -package=mocks
package services

import (
	"strings"
	"unicode"

	"stunner/domain"
	"stunner/errors"
	"stunner/repositories"

	"github.com/samber/lo"
)

type IDirectoryService interface {
	Create(name string, participants []string) (string, error)
	ListForUser(username string) ([]string, error)
	Join(name, username string) error
	Leave(name, username string) error
	Delete(name string) error
}

// DirectoryService owns the participants invariant: join is the only path
// that appends a username and it refuses duplicates, leave is the only
// path that removes one.
type DirectoryService struct {
	conversationRepository repositories.IConversationRepository
}

func NewDirectoryService(repo repositories.IConversationRepository) IDirectoryService {
	return &DirectoryService{conversationRepository: repo}
}

// Create validates the conversation name and persists a new record.
// The name is trimmed first; an empty result or any interior whitespace
// rune is a validation error. The initial participants are stored as
// supplied.
func (s *DirectoryService) Create(name string, participants []string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.ErrEmptyConversationName
	}
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return "", errors.ErrConversationNameSpaces
	}
	return s.conversationRepository.Create(name, participants)
}

func (s *DirectoryService) ListForUser(username string) ([]string, error) {
	return s.conversationRepository.ListByParticipant(username)
}

func (s *DirectoryService) Join(name, username string) error {
	conversation, err := s.get(name)
	if err != nil {
		return err
	}
	if conversation.HasParticipant(username) {
		return errors.ErrAlreadyParticipant
	}
	conversation.Participants = append(conversation.Participants, username)
	return s.conversationRepository.Update(toDiskConversation(conversation))
}

// Leave removes the username from the participants sequence. A
// conversation emptied by the last leave is kept; only Delete removes the
// record.
func (s *DirectoryService) Leave(name, username string) error {
	conversation, err := s.get(name)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(username) {
		return errors.ErrNotParticipant
	}
	conversation.Participants = lo.Reject(conversation.Participants,
		func(participant string, _ int) bool {
			return participant == username
		})
	return s.conversationRepository.Update(toDiskConversation(conversation))
}

// Delete is idempotent: deleting an absent conversation is not an error.
func (s *DirectoryService) Delete(name string) error {
	return s.conversationRepository.Delete(name)
}

func (s *DirectoryService) get(name string) (domain.Conversation, error) {
	conversation, err := s.conversationRepository.Get(name)
	if err != nil {
		return domain.Conversation{}, err
	}
	return fromDiskConversation(conversation), nil
}

func fromDiskConversation(c repositories.Conversation) domain.Conversation {
	return domain.Conversation{ID: c.ID, Name: c.Name, Participants: c.Participants}
}

func toDiskConversation(c domain.Conversation) repositories.Conversation {
	return repositories.Conversation{ID: c.ID, Name: c.Name, Participants: c.Participants}
}
