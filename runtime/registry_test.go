package runtime

import (
	"sync"
	"testing"

	"stunner/contract"
	"stunner/domain"
	"stunner/gateway"

	"github.com/stretchr/testify/require"
)

func newSink() contract.EventSink {
	return gateway.NewSink(8)
}

func TestRegistry_Subscribe(t *testing.T) {
	t.Run("should deliver to every member of a room", func(t *testing.T) {
		req := require.New(t)
		registry := NewRegistry()
		room := domain.RoomID("team-x")

		aliceSink := newSink()
		bobSink := newSink()
		registry.Subscribe("conn-alice", room, aliceSink)
		registry.Subscribe("conn-bob", room, bobSink)

		sinks := registry.GetSinksForRoom(room)
		req.Len(sinks, 2)
		req.Contains(sinks, aliceSink)
		req.Contains(sinks, bobSink)
	})

	t.Run("should scope sinks to the requested room", func(t *testing.T) {
		req := require.New(t)
		registry := NewRegistry()

		registry.Subscribe("conn-alice", "team-x", newSink())

		req.Nil(registry.GetSinksForRoom("team-y"))
	})

	t.Run("should register one sink per connection across rooms", func(t *testing.T) {
		req := require.New(t)
		registry := NewRegistry()
		sink := newSink()

		registry.Subscribe("conn-alice", "team-x", sink)
		registry.Subscribe("conn-alice", "team-y", sink)

		req.Len(registry.GetSinksForRoom("team-x"), 1)
		req.Len(registry.GetSinksForRoom("team-y"), 1)
	})

	t.Run("should tolerate concurrent access", func(t *testing.T) {
		req := require.New(t)
		registry := NewRegistry()
		room := domain.RoomID("team-x")

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				registry.Subscribe(string(rune('a'+n%26))+"-conn", room, newSink())
				registry.GetSinksForRoom(room)
			}(i)
		}
		wg.Wait()

		req.Len(registry.GetSinksForRoom(room), 26)
	})
}

func TestRegistry_Unsubscribe(t *testing.T) {
	t.Run("should only leave the given room", func(t *testing.T) {
		req := require.New(t)
		registry := NewRegistry()
		sink := newSink()

		registry.Subscribe("conn-alice", "team-x", sink)
		registry.Subscribe("conn-alice", "team-y", sink)

		registry.Unsubscribe("conn-alice", "team-x")

		req.Nil(registry.GetSinksForRoom("team-x"))
		req.Len(registry.GetSinksForRoom("team-y"), 1)
	})

	t.Run("should ignore a room never joined", func(t *testing.T) {
		req := require.New(t)
		registry := NewRegistry()

		registry.Unsubscribe("conn-ghost", "team-x")

		req.Nil(registry.GetSinksForRoom("team-x"))
	})
}

func TestRegistry_UnsubscribeAll(t *testing.T) {
	t.Run("should remove the connection from every room", func(t *testing.T) {
		req := require.New(t)
		registry := NewRegistry()

		registry.Subscribe("conn-alice", "team-x", newSink())
		registry.Subscribe("conn-alice", "team-y", newSink())
		registry.Subscribe("conn-bob", "team-x", newSink())

		registry.UnsubscribeAll("conn-alice")

		req.Len(registry.GetSinksForRoom("team-x"), 1)
		req.Nil(registry.GetSinksForRoom("team-y"))
	})
}
