package session

import "fmt"

// EventKind classifies session events.
type EventKind int

const (
	EventLevelLoaded EventKind = iota
	EventBasketCollected
	EventLevelComplete
	EventLifeLost
	EventGameOver
	EventScoreSaved
	EventReset
	EventWarning
)

func (k EventKind) String() string {
	switch k {
	case EventLevelLoaded:
		return "level_loaded"
	case EventBasketCollected:
		return "basket_collected"
	case EventLevelComplete:
		return "level_complete"
	case EventLifeLost:
		return "life_lost"
	case EventGameOver:
		return "game_over"
	case EventScoreSaved:
		return "score_saved"
	case EventReset:
		return "reset"
	case EventWarning:
		return "warning"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// MarshalText encodes the kind by name for the spectator feed.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes an event kind name.
func (k *EventKind) UnmarshalText(text []byte) error {
	for kind := EventLevelLoaded; kind <= EventWarning; kind++ {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("session: unknown event kind %q", string(text))
}

// Event is something presentation should know about. Events accumulate
// during an operation and are collected with DrainEvents.
type Event struct {
	Kind    EventKind `json:"kind" msgpack:"kind"`
	Level   int       `json:"level" msgpack:"level"`
	Score   int       `json:"score" msgpack:"score"`
	Lives   int       `json:"lives" msgpack:"lives"`
	Message string    `json:"message,omitempty" msgpack:"message,omitempty"`
	Err     error     `json:"-" msgpack:"-"`
}

func (e Event) String() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Kind.String()
}
