package bot

// State tracks where a chat's recommendation conversation is.
type State string

const (
	// StateAwaitingLanguage means /recommend was issued and the language
	// prompt is outstanding.
	StateAwaitingLanguage State = "awaiting_language"

	// StateAwaitingCountry means the language resolved and the country
	// prompt is outstanding.
	StateAwaitingCountry State = "awaiting_country"

	// StateAwaitingVote means the poll was sent and votes are coming in.
	StateAwaitingVote State = "awaiting_vote"

	// StateDone means the poll closed and the results chart was delivered.
	StateDone State = "done"

	// StateCancelled means the user aborted the conversation.
	StateCancelled State = "cancelled"
)

// validTransitions defines allowed state transitions.
// Key is the "from" state, value is list of valid "to" states.
var validTransitions = map[State][]State{
	StateAwaitingLanguage: {StateAwaitingCountry, StateCancelled},
	StateAwaitingCountry:  {StateAwaitingVote, StateCancelled},
	StateAwaitingVote:     {StateDone, StateCancelled},
	StateDone:             {}, // terminal - no transitions out
	StateCancelled:        {}, // terminal - no transitions out
}

// CanTransitionTo returns true if transitioning from s to target is valid.
func (s State) CanTransitionTo(target State) bool {
	valid, ok := validTransitions[s]
	if !ok {
		return false
	}
	for _, v := range valid {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if this state has no valid outgoing transitions.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateCancelled
}
