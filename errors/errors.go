package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrEmptyConversationName  = fmt.Errorf("conversation name cannot be empty")
	ErrConversationNameSpaces = fmt.Errorf("conversation name cannot contain spaces")
	ErrConversationExists     = fmt.Errorf("conversation name already exists")
	ErrConversationNotFound   = fmt.Errorf("conversation not found")
	ErrAlreadyParticipant     = fmt.Errorf("already a participant in this conversation")
	ErrNotParticipant         = fmt.Errorf("not a participant in this conversation")

	ErrUserAlreadyExists   = fmt.Errorf("user already exists")
	ErrUserNotFound        = fmt.Errorf("user not found")
	ErrIncorrectUsername   = fmt.Errorf("Incorrect username.")
	ErrIncorrectPassword   = fmt.Errorf("Incorrect password.")
	ErrInvalidToken        = fmt.Errorf("invalid or expired token")
	ErrTokenGeneration     = fmt.Errorf("token generation failed")
	ErrInvalidRegistration = fmt.Errorf("invalid registration input")
)
