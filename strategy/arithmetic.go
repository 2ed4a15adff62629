package strategy

import (
	"unicode"

	"cursorkeep/format"
)

// Arithmetic relocates the cursor with a counting rule written for each
// operation. Every rule is a single pass over the text.
type Arithmetic struct {
	op format.Operation
}

// NewArithmetic returns the arithmetic formatter for op.
func NewArithmetic(op format.Operation) (*Arithmetic, error) {
	if err := checkOperation(op); err != nil {
		return nil, err
	}
	return &Arithmetic{op: op}, nil
}

// Apply implements Formatter
func (a *Arithmetic) Apply(text string, cursor int) (string, int, error) {
	if err := checkCursor(text, cursor); err != nil {
		return "", 0, err
	}

	formatted := format.Apply(a.op, text)
	left := []rune(text)[:cursor]

	switch a.op {
	case format.OpCommatize:
		return formatted, CommatizeCursor(left, formatted), nil
	case format.OpTrimify:
		return formatted, TrimifyCursor(left, formatted), nil
	default:
		return formatted, CreditCardCursor(left, formatted), nil
	}
}

// CommatizeCursor counts the non-separator characters left of the cursor
// and places the new cursor right after the same number of them in the
// formatted text.
func CommatizeCursor(left []rune, formatted string) int {
	rank := 0
	for _, r := range left {
		if !format.IsSeparator(r) {
			rank++
		}
	}
	return rankCursor(formatted, rank, func(r rune) bool { return !format.IsSeparator(r) })
}

// CreditCardCursor is CommatizeCursor counting digits, capped at the number
// of digits the format keeps.
func CreditCardCursor(left []rune, formatted string) int {
	rank := 0
	for _, r := range left {
		if format.IsDigit(r) {
			rank++
		}
	}
	return rankCursor(formatted, min(rank, format.MaxCardDigits), format.IsDigit)
}

// TrimifyCursor moves the cursor left by the whitespace the format removes
// from the text left of it. That text is collapsed as a prefix of a longer
// text: leading whitespace goes, and every whitespace run, a trailing one
// included, shrinks to one space.
func TrimifyCursor(left []rune, formatted string) int {
	collapsed := 0
	inRun := false
	for _, r := range left {
		if !unicode.IsSpace(r) {
			collapsed++
			inRun = false
			continue
		}
		if !inRun && collapsed > 0 {
			collapsed++
		}
		inRun = true
	}

	removed := len(left) - collapsed
	return clamp(len(left)-removed, 0, len([]rune(formatted)))
}

// rankCursor returns the position right after the rank-th counted character
// of formatted, or 0 when rank is 0.
func rankCursor(formatted string, rank int, counted func(rune) bool) int {
	if rank == 0 {
		return 0
	}
	pos := 0
	for _, r := range formatted {
		pos++
		if counted(r) {
			rank--
			if rank == 0 {
				return pos
			}
		}
	}
	return pos
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
