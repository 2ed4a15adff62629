package types

import (
	"errors"
	"strings"
)

// ErrUnknownStrategy is returned when a strategy name is not one of the
// StrategyType constants.
var ErrUnknownStrategy = errors.New("unknown cursor strategy")

// StrategyType represents the cursor-maintenance approach used by a formatter
type StrategyType string

const (
	StrategyTypeArithmetic    StrategyType = "arithmetic"
	StrategyTypeMarker        StrategyType = "marker"
	StrategyTypeBuffer        StrategyType = "buffer"
	StrategyTypeRetrospective StrategyType = "retrospective"
	StrategyTypeLayer         StrategyType = "layer"
	StrategyTypeDiff          StrategyType = "diff"
)

// StrategyTypes lists every strategy in a stable order.
func StrategyTypes() []StrategyType {
	return []StrategyType{
		StrategyTypeArithmetic,
		StrategyTypeMarker,
		StrategyTypeBuffer,
		StrategyTypeRetrospective,
		StrategyTypeLayer,
		StrategyTypeDiff,
	}
}

// ParseStrategyType validates a configured strategy name.
func ParseStrategyType(name string) (StrategyType, error) {
	st := StrategyType(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range StrategyTypes() {
		if st == known {
			return st, nil
		}
	}
	return "", ErrUnknownStrategy
}

// StrategyConfig holds the knobs a strategy may read. Zero values select
// the defaults.
type StrategyConfig struct {
	Metric      string // retrospective: distance metric name (default balance_frequencies)
	PreferRight bool   // layer: break final ties to the right (trimify always does)
}

// FormatRequest is one formatting call: the text of the field, the cursor as
// a rune offset and the operation name.
type FormatRequest struct {
	Text      string `json:"text"`
	Cursor    int    `json:"cursor"`
	Operation string `json:"operation"`
}

// FormatResult is the formatted text and the relocated cursor. Error is set
// instead when the strategy rejected the request.
type FormatResult struct {
	Strategy StrategyType `json:"strategy"`
	Text     string       `json:"text"`
	Cursor   int          `json:"cursor"`
	Error    string       `json:"error,omitempty"`
}
