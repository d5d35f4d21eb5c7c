package runtime

import (
	"sync"

	"stunner/contract"
	"stunner/domain"
)

type Set map[string]struct{}

// Registry is the single coordination point for the in-memory room table.
// It maps live connections to their event sinks and rooms to the set of
// connection IDs currently joined. Room membership here is a cache of
// intent: it mirrors what connections asked for, not what the
// Conversation Directory persists.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]contract.EventSink // connection ID -> sink
	roomMembers map[domain.RoomID]Set         // room -> connection IDs
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:    make(map[string]contract.EventSink),
		roomMembers: make(map[domain.RoomID]Set),
	}
}

// GetSinksForRoom retrieves all active communication channels for a specific room.
// It performs a two-step lookup:
// 1. Identifies connection IDs associated with the room via roomMembers.
// 2. Resolves those IDs into actual EventSinks using the sessions map.
//
// A connection joined to several rooms still has a single sink in
// sessions, so each connected participant receives a broadcast at most
// once per room. Returns nil if the room doesn't exist or has no members.
func (r *Registry) GetSinksForRoom(roomID domain.RoomID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[roomID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for connectionID := range members {
		if sink, exists := r.sessions[connectionID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a connection's sink and adds it to a room.
// If the room does not yet exist in the registry, it is initialized on the
// fly; there is no check against the Conversation Directory.
func (r *Registry) Subscribe(connectionID string, roomID domain.RoomID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[connectionID] = sink

	if _, ok := r.roomMembers[roomID]; !ok {
		r.roomMembers[roomID] = make(Set)
	}
	r.roomMembers[roomID][connectionID] = struct{}{}
}

// Unsubscribe removes a connection from a single room. The session stays
// registered as long as the connection is alive; empty room sets are
// removed to prevent the table from growing forever.
func (r *Registry) Unsubscribe(connectionID string, roomID domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if members, ok := r.roomMembers[roomID]; ok {
		delete(members, connectionID)
		if len(members) == 0 {
			delete(r.roomMembers, roomID)
		}
	}
}

// UnsubscribeAll removes a connection from every room it had joined and
// drops its session. Called on transport disconnect; after this, no
// broadcast can reach the connection.
func (r *Registry) UnsubscribeAll(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, connectionID)

	for roomID, members := range r.roomMembers {
		delete(members, connectionID)
		if len(members) == 0 {
			delete(r.roomMembers, roomID)
		}
	}
}
