package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Store_Multiple_Messages_In_Chronological_Order(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewMessageRepository(db, slog.Default(), nil)
	conversation := "team-x"
	at := time.Now().UTC().Truncate(time.Millisecond)
	diskMessages := []DiskMessage{
		{uuid.New(), conversation, "alice", "first", at},
		{uuid.New(), conversation, "bob", "second", at.Add(1 * time.Minute)},
		{uuid.New(), conversation, "clara", "third", at.Add(2 * time.Minute)},
	}
	for _, dm := range diskMessages {
		req.NoError(repository.StoreMessage(dm))
	}

	fetched, err := repository.GetMessages(conversation)
	req.NoError(err)
	req.Equal(diskMessages, fetched)
}

func Test_Get_Messages_Scoped_To_Conversation(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewMessageRepository(db, slog.Default(), nil)
	at := time.Now().UTC().Truncate(time.Millisecond)
	req.NoError(repository.StoreMessage(DiskMessage{uuid.New(), "team-x", "alice", "for team-x", at}))
	req.NoError(repository.StoreMessage(DiskMessage{uuid.New(), "team-y", "bob", "for team-y", at}))

	fetched, err := repository.GetMessages("team-x")
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("for team-x", fetched[0].Text)
}

func Test_Get_Messages_Name_With_Separator_Does_Not_Leak(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	// "a:secret" must never fold into "a"'s key prefix
	repository := NewMessageRepository(db, slog.Default(), nil)
	at := time.Now().UTC().Truncate(time.Millisecond)
	req.NoError(repository.StoreMessage(DiskMessage{uuid.New(), "a", "alice", "public", at}))
	req.NoError(repository.StoreMessage(DiskMessage{uuid.New(), "a:secret", "bob", "private", at}))

	fetched, err := repository.GetMessages("a")
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("a", fetched[0].ConversationName)

	fetched, err = repository.GetMessages("a:secret")
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("private", fetched[0].Text)
}

func Test_Get_Messages_Respects_Limit(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewMessageRepository(db, slog.Default(), lo.ToPtr(2))
	conversation := "team-x"
	at := time.Now().UTC()
	for i, text := range []string{"one", "two", "three"} {
		req.NoError(repository.StoreMessage(DiskMessage{
			uuid.New(), conversation, "alice", text, at.Add(time.Duration(i) * time.Second),
		}))
	}

	fetched, err := repository.GetMessages(conversation)
	req.NoError(err)
	req.Len(fetched, 2)
}

func Test_Get_Messages_Unknown_Conversation_Is_Empty(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewMessageRepository(db, slog.Default(), nil)
	fetched, err := repository.GetMessages("nowhere")
	req.NoError(err)
	req.Empty(fetched)
}
