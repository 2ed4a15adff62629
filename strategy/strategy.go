// Package strategy implements cursor-maintaining formatters. Each strategy
// produces exactly the text of the plain formatter in package format and
// differs only in how it works out where the cursor goes.
package strategy

import (
	"cursorkeep/distance"
	"cursorkeep/format"
	"cursorkeep/types"
	"cursorkeep/utils"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidCursor is returned when the cursor lies outside [0, len(text)].
	ErrInvalidCursor = errors.New("cursor out of range")

	// ErrUnsupportedOperation is returned by constructors for operations a
	// strategy has no implementation for.
	ErrUnsupportedOperation = errors.New("operation not supported by strategy")
)

// Formatter formats text and relocates a cursor given as a rune offset.
// The returned cursor is within [0, len(newText)].
type Formatter interface {
	Apply(text string, cursor int) (newText string, newCursor int, err error)
}

// Compile-time checks that every strategy implements Formatter
var (
	_ Formatter = (*Arithmetic)(nil)
	_ Formatter = (*MarkerEmbedding)(nil)
	_ Formatter = (*BufferDriven)(nil)
	_ Formatter = (*Retrospective)(nil)
	_ Formatter = (*Layer)(nil)
	_ Formatter = (*Diff)(nil)
)

// New builds the formatter for a strategy and operation. A nil config
// selects the defaults.
func New(kind types.StrategyType, op format.Operation, config *types.StrategyConfig) (Formatter, error) {
	if config == nil {
		config = &types.StrategyConfig{}
	}

	switch kind {
	case types.StrategyTypeArithmetic:
		return NewArithmetic(op)
	case types.StrategyTypeMarker:
		return NewMarkerEmbedding(op)
	case types.StrategyTypeBuffer:
		return NewBufferDriven(op)
	case types.StrategyTypeRetrospective:
		metric, err := distance.MetricByName(config.Metric)
		if err != nil {
			return nil, errors.Wrapf(err, "retrospective metric %q", config.Metric)
		}
		return NewRetrospective(op, metric)
	case types.StrategyTypeLayer:
		return NewLayer(op, config.PreferRight)
	case types.StrategyTypeDiff:
		return NewDiff(op)
	default:
		return nil, errors.Wrapf(types.ErrUnknownStrategy, "strategy %q", kind)
	}
}

// checkCursor fails fast on a cursor outside the text. Clamping would hide
// the caller's bug.
func checkCursor(text string, cursor int) error {
	if n := utils.RuneLen(text); cursor < 0 || cursor > n {
		return errors.Wrapf(ErrInvalidCursor, "cursor %d not in [0, %d]", cursor, n)
	}
	return nil
}

func unsupported(kind types.StrategyType, op format.Operation) error {
	return errors.Wrapf(ErrUnsupportedOperation, "%s strategy cannot %s", kind, op)
}

func checkOperation(op format.Operation) error {
	switch op {
	case format.OpCommatize, format.OpTrimify, format.OpCreditCard:
		return nil
	default:
		return errors.Wrapf(format.ErrUnknownOperation, "operation %d", int(op))
	}
}
