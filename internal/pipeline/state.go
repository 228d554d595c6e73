package pipeline

import "go.uber.org/zap"

// State is a step of the run state machine.
type State string

// Run states.
const (
	StateIdle          State = "idle"
	StateResolvingYear State = "resolving_year"
	StateCrawling      State = "crawling"
	StatePersisting    State = "persisting"
	StateDone          State = "done"
	StateNoNewData     State = "no_new_data"
	StateFailed        State = "failed"
)

var transitions = map[State][]State{
	StateIdle:          {StateResolvingYear},
	StateResolvingYear: {StateCrawling, StateFailed},
	StateCrawling:      {StatePersisting, StateNoNewData, StateFailed},
	StatePersisting:    {StateDone, StateFailed},
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	_, ok := transitions[s]
	return !ok
}

// Succeeded reports whether s is a successful terminal state.
func (s State) Succeeded() bool {
	return s == StateDone || s == StateNoNewData
}

type machine struct {
	current State
	history []State
	logger  *zap.Logger
}

func newMachine(logger *zap.Logger) *machine {
	return &machine{current: StateIdle, history: []State{StateIdle}, logger: logger}
}

func (m *machine) to(next State) {
	if !allowed(m.current, next) {
		m.logger.DPanic("invalid state transition",
			zap.String("from", string(m.current)),
			zap.String("to", string(next)),
		)
	}
	m.logger.Info("state transition",
		zap.String("from", string(m.current)),
		zap.String("to", string(next)),
	)
	m.current = next
	m.history = append(m.history, next)
}

func allowed(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
