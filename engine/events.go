package engine

// EventType represents the type of event in the engine
type EventType string

// Event type constants. All but EventTextChangeTimeout arrive from the
// editor plugin.
const (
	EventFormat            EventType = "format"
	EventTextChanged       EventType = "text_changed"
	EventTextChangeTimeout EventType = "text_change_timeout"
	EventInsertEnter       EventType = "insert_enter"
	EventInsertLeave       EventType = "insert_leave"
	EventToggle            EventType = "toggle"
)

// Event represents an event in the engine
type Event struct {
	Type EventType
}

var eventTypeMap = buildEventTypeMap()

func buildEventTypeMap() map[string]EventType {
	eventMap := make(map[string]EventType)
	for _, eventType := range []EventType{
		EventFormat,
		EventTextChanged,
		EventTextChangeTimeout,
		EventInsertEnter,
		EventInsertLeave,
		EventToggle,
	} {
		eventMap[string(eventType)] = eventType
	}
	return eventMap
}

// EventTypeFromString converts a string to EventType
func EventTypeFromString(s string) EventType {
	if eventType, exists := eventTypeMap[s]; exists {
		return eventType
	}
	return ""
}
