package engine

type state int

const (
	stateIdle state = iota
	stateInsert
	stateDisabled
)

// String returns a human-readable name for the state
func (s state) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateInsert:
		return "Insert"
	case stateDisabled:
		return "Disabled"
	default:
		return "Unknown"
	}
}

// Transition represents a valid state transition in the engine's state machine
type Transition struct {
	From   state
	Event  EventType
	To     state
	Action func(*Engine, Event)
}

// transitions defines all valid state transitions in the engine.
//
//	          InsertEnter               Toggle
//	+------+ ------------> +--------+ ---------> +----------+
//	| Idle |               | Insert |            | Disabled |
//	+------+ <------------ +--------+            +----------+
//	   ^      InsertLeave                              |
//	   +-----------------------------------------------+
//	                         Toggle
//
//	Format: formats now in every state
//	TextChanged (Insert): debounces, then formats
//	InsertLeave (Insert): formats the line being left
var transitions = []Transition{
	// From stateIdle
	{stateIdle, EventFormat, stateIdle, (*Engine).doFormat},
	{stateIdle, EventInsertEnter, stateInsert, nil},
	{stateIdle, EventToggle, stateDisabled, nil},

	// From stateInsert
	{stateInsert, EventTextChanged, stateInsert, (*Engine).doStartTextChangeTimer},
	{stateInsert, EventTextChangeTimeout, stateInsert, (*Engine).doFormat},
	{stateInsert, EventFormat, stateInsert, (*Engine).doFormat},
	{stateInsert, EventInsertLeave, stateIdle, (*Engine).doStopTimerAndFormat},
	{stateInsert, EventToggle, stateDisabled, (*Engine).doStopTextChangeTimer},

	// From stateDisabled
	{stateDisabled, EventFormat, stateDisabled, (*Engine).doFormat},
	{stateDisabled, EventToggle, stateIdle, nil},
}

type transitionKey struct {
	from  state
	event EventType
}

// transitionMap provides O(1) lookup for transitions by (state, event) pair
var transitionMap = buildTransitionMap()

func buildTransitionMap() map[transitionKey]*Transition {
	m := make(map[transitionKey]*Transition, len(transitions))
	for i := range transitions {
		t := &transitions[i]
		m[transitionKey{from: t.From, event: t.Event}] = t
	}
	return m
}

// findTransition looks up a valid transition for the given state and event.
func findTransition(from state, event EventType) *Transition {
	return transitionMap[transitionKey{from: from, event: event}]
}

// dispatch moves to the transition's target state and runs its action.
// Caller holds e.mu.
func (e *Engine) dispatch(event Event) bool {
	t := findTransition(e.state, event.Type)
	if t == nil {
		return false
	}
	e.state = t.To
	if t.Action != nil {
		t.Action(e, event)
	}
	return true
}

func (e *Engine) doFormat(Event) {
	e.formatCurrentLine()
}

func (e *Engine) doStartTextChangeTimer(Event) {
	e.startTextChangeTimer()
}

func (e *Engine) doStopTextChangeTimer(Event) {
	e.stopTextChangeTimer()
}

func (e *Engine) doStopTimerAndFormat(Event) {
	e.stopTextChangeTimer()
	e.formatCurrentLine()
}
