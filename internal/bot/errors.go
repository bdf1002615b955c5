package bot

import "errors"

// Sentinel errors for the bot package.
var (
	// ErrNoSession is returned when a chat has no active conversation.
	ErrNoSession = errors.New("no active session")

	// ErrInvalidTransition is returned when a conversation state change
	// is not allowed by the state machine.
	ErrInvalidTransition = errors.New("invalid state transition")
)
