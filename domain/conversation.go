// Package domain contains core concepts of the chat system.
// This file defines Conversation entities and related invariants.
package domain

import "slices"

// RoomID identifies an in-memory broadcast group. It is the conversation
// name; rooms themselves are never persisted.
type RoomID string

// Conversation is a named, durable group of participants.
// The name is immutable once created. Participants is an ordered sequence
// of usernames and must never contain duplicates; Join is the only path
// that appends to it and enforces the invariant.
type Conversation struct {
	ID           string
	Name         string
	Participants []string
}

// HasParticipant reports whether username is a member of the conversation.
func (c Conversation) HasParticipant(username string) bool {
	return slices.Contains(c.Participants, username)
}
