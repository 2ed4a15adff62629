package strategy

import (
	"cursorkeep/format"
	"cursorkeep/text"
)

// Diff formats the text and maps the cursor through a character diff of
// the old and new text.
type Diff struct {
	op format.Operation
}

// NewDiff returns the diff formatter for op.
func NewDiff(op format.Operation) (*Diff, error) {
	if err := checkOperation(op); err != nil {
		return nil, err
	}
	return &Diff{op: op}, nil
}

// Apply implements Formatter
func (d *Diff) Apply(s string, cursor int) (string, int, error) {
	if err := checkCursor(s, cursor); err != nil {
		return "", 0, err
	}
	formatted := format.Apply(d.op, s)
	return formatted, text.MapCursor(s, cursor, formatted), nil
}
