package strategy

import (
	"unicode"

	"cursorkeep/format"
	"cursorkeep/text"
)

// BufferDriven rewrites the text through a text.Buffer using only reads,
// inserts and deletes. The buffer moves the cursor along with every edit.
type BufferDriven struct {
	op format.Operation
}

// NewBufferDriven returns the buffer formatter for op.
func NewBufferDriven(op format.Operation) (*BufferDriven, error) {
	if err := checkOperation(op); err != nil {
		return nil, err
	}
	return &BufferDriven{op: op}, nil
}

// Apply implements Formatter
func (d *BufferDriven) Apply(s string, cursor int) (string, int, error) {
	if err := checkCursor(s, cursor); err != nil {
		return "", 0, err
	}

	b := text.NewBuffer(s, cursor)
	switch d.op {
	case format.OpCommatize:
		CommatizeBuffer(b)
	case format.OpTrimify:
		TrimifyBuffer(b)
	default:
		CreditCardBuffer(b)
	}
	return b.Text(), b.Cursor(), nil
}

// CommatizeBuffer commatizes b in one right-to-left pass. Existing
// separators are deleted; a separator goes in front of every third
// character unless nothing but separators is left of it.
func CommatizeBuffer(b *text.Buffer) {
	first := -1
	for pos := 0; pos < b.Len(); pos++ {
		if !format.IsSeparator(b.RuneAt(pos)) {
			first = pos
			break
		}
	}

	// Edits happen at or right of pos, so positions left of it are stable
	count := 0
	for pos := b.Len() - 1; pos >= 0; pos-- {
		switch {
		case format.IsSeparator(b.RuneAt(pos)):
			b.Delete(pos, 1)
		case count < 2:
			count++
		case pos > first:
			b.Insert(pos, string(format.Separator))
			count = 0
		}
	}
}

// TrimifyBuffer trimifies b in one right-to-left pass followed by a trim of
// each end.
func TrimifyBuffer(b *text.Buffer) {
	inRun := false
	for pos := b.Len() - 1; pos >= 0; pos-- {
		r := b.RuneAt(pos)
		if !unicode.IsSpace(r) {
			inRun = false
			continue
		}
		if r != ' ' {
			// Insert before delete so a cursor right of r stays right of the space
			b.Insert(pos, " ")
			b.Delete(pos+1, 1)
		}
		if inRun {
			b.Delete(pos+1, 1)
		}
		inRun = true
	}

	if b.RuneAt(b.Len()-1) == ' ' {
		b.Delete(b.Len()-1, 1)
	}
	if b.RuneAt(0) == ' ' {
		b.Delete(0, 1)
	}
}

// CreditCardBuffer keeps the first MaxCardDigits digits of b and puts a
// space between groups of four.
func CreditCardBuffer(b *text.Buffer) {
	for pos := b.Len() - 1; pos >= 0; pos-- {
		if !format.IsDigit(b.RuneAt(pos)) {
			b.Delete(pos, 1)
		}
	}
	if extra := b.Len() - format.MaxCardDigits; extra > 0 {
		b.Delete(format.MaxCardDigits, extra)
	}
	for pos := ((b.Len() - 1) / 4) * 4; pos > 0; pos -= 4 {
		b.Insert(pos, " ")
	}
}
