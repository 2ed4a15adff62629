package strategy

import (
	"cursorkeep/distance"
	"cursorkeep/format"
	"cursorkeep/logger"
	"cursorkeep/marker"
	"cursorkeep/utils"

	"github.com/pkg/errors"
)

// Retrospective formats first and then tries every cursor position in the
// result, keeping the one a distance metric scores closest to the input
// text and cursor. Ties go to the leftmost position.
type Retrospective struct {
	op     format.Operation
	metric distance.Metric
}

// NewRetrospective returns the retrospective formatter for op scoring
// candidates with metric. A nil metric selects BalanceFrequencies.
func NewRetrospective(op format.Operation, metric distance.Metric) (*Retrospective, error) {
	if err := checkOperation(op); err != nil {
		return nil, err
	}
	if metric == nil {
		metric = distance.BalanceFrequencies
	}
	return &Retrospective{op: op, metric: metric}, nil
}

// Apply implements Formatter
func (r *Retrospective) Apply(text string, cursor int) (string, int, error) {
	defer logger.Trace("strategy.Retrospective.Apply")()

	if err := checkCursor(text, cursor); err != nil {
		return "", 0, err
	}

	formatted := format.Apply(r.op, text)

	// Candidates are logged with a marker foreign to both texts
	mark, err := marker.Choose(text + formatted)
	if err != nil {
		return "", 0, errors.Wrap(err, "retrospective strategy")
	}

	best := Closest(text, cursor, formatted, r.metric)
	logger.Tracef("retrospective: %q -> %q", utils.MarkCursor(text, cursor, mark), utils.MarkCursor(formatted, best, mark))
	return formatted, best, nil
}

// Closest returns the cursor position in formatted that metric scores
// closest to text with its cursor at cursor. The scan is left to right and
// only a strictly better score replaces the current best.
func Closest(text string, cursor int, formatted string, metric distance.Metric) int {
	best := 0
	bestCost := metric(text, cursor, formatted, 0)
	for pos := 1; pos <= utils.RuneLen(formatted); pos++ {
		if cost := metric(text, cursor, formatted, pos); cost < bestCost {
			best, bestCost = pos, cost
		}
	}
	return best
}
