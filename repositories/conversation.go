//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"

	"stunner/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IConversationRepository interface {
	Create(name string, participants []string) (string, error)
	Get(name string) (Conversation, error)
	Update(conversation Conversation) error
	Delete(name string) error
	ListByParticipant(username string) ([]string, error)
}

type ConversationRepository struct {
	db *badger.DB
}

func NewConversationRepository(db *badger.DB) IConversationRepository {
	return &ConversationRepository{db: db}
}

// Conversation is the repository-level document. The name acts as primary
// key ("conv:{name}"); the id is an opaque identifier returned on create.
type Conversation struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
}

func conversationKey(name string) []byte {
	return []byte("conv:" + name)
}

// Create persists a new conversation. The participants sequence is stored
// as supplied by the caller. Fails with ErrConversationExists when the
// name is already taken (exact, case-sensitive match by key).
func (c *ConversationRepository) Create(name string, participants []string) (string, error) {
	newID := uuid.New().String()
	data, err := json.Marshal(Conversation{ID: newID, Name: name, Participants: participants})
	if err != nil {
		return "", err
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		key := conversationKey(name)
		_, err := txn.Get(key)
		if err == nil {
			return errors.ErrConversationExists
		}
		if !stderrors.Is(err, badger.ErrKeyNotFound) {
			// Unknown store error: never overwrite an existing record on it.
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return "", err
	}
	return newID, nil
}

func (c *ConversationRepository) Get(name string) (Conversation, error) {
	var conversation Conversation
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(conversationKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &conversation)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return Conversation{}, errors.ErrConversationNotFound
	}
	if err != nil {
		return Conversation{}, err
	}
	return conversation, nil
}

// Update overwrites the stored document. Used by join/leave to persist the
// mutated participants sequence; the name never changes.
func (c *ConversationRepository) Update(conversation Conversation) error {
	data, err := json.Marshal(conversation)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(conversationKey(conversation.Name), data)
	})
}

// Delete removes the conversation unconditionally. Deleting an absent name
// is not an error: delete is idempotent by contract.
func (c *ConversationRepository) Delete(name string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(conversationKey(name))
	})
}

// ListByParticipant returns the names of every conversation whose
// participants sequence contains username. Results follow the store's key
// order, which is deterministic for a fixed store state.
func (c *ConversationRepository) ListByParticipant(username string) ([]string, error) {
	var names []string
	err := c.db.View(func(txn *badger.Txn) error {
		prefix := []byte("conv:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var conversation Conversation
				if err := json.Unmarshal(val, &conversation); err != nil {
					return err
				}
				for _, participant := range conversation.Participants {
					if participant == username {
						names = append(names, conversation.Name)
						break
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return names, err
}
