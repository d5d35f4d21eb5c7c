// Package domain contains core concepts of the chat system.
// This file defines the User account entity.
// No runtime, network, or UI logic should be added here.
package domain

// User represents a registered account. The username is unique and acts
// as the natural key everywhere else in the system (participants lists,
// message senders).
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	FullName     string
}
