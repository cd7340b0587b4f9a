package markup

// State is the lifecycle state of a DocumentParser.
type State uint32

const (
	// StateInitial is the state before Start.
	StateInitial State = iota
	// StateParsing means tokens are being delivered to the tree builder.
	StateParsing
	// StateStoppingOnScript means parsing is suspended until a parser-blocking
	// script has executed.
	StateStoppingOnScript
	// StateStopping means the parser is finishing.
	StateStopping
	// StateStopped means no more tokens will be delivered.
	StateStopped
	// StateDetached is terminal: the parser has no further effects.
	StateDetached
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "Initial"
	case StateParsing:
		return "Parsing"
	case StateStoppingOnScript:
		return "StoppingOnScript"
	case StateStopping:
		return "Stopping"
	case StateStopped:
		return "Stopped"
	case StateDetached:
		return "Detached"
	default:
		return "Unknown"
	}
}

// canTransition reports whether the lifecycle allows moving from s to next.
func (s State) canTransition(next State) bool {
	switch s {
	case StateInitial:
		return next == StateParsing || next == StateStopping || next == StateStopped || next == StateDetached
	case StateParsing:
		return next != StateInitial && next != StateParsing
	case StateStoppingOnScript:
		return next == StateParsing || next == StateStopping || next == StateStopped || next == StateDetached
	case StateStopping:
		return next == StateStopped || next == StateDetached
	case StateStopped:
		return next == StateDetached
	default:
		return false
	}
}
