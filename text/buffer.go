package text

import (
	"unicode/utf8"

	"cursorkeep/utils"
)

// Buffer holds text with a cursor and keeps the cursor in place while the
// text is edited. The elementary operations are Read, Insert and Delete;
// each moves the cursor in a fixed, predictable way, so any transform built
// from them tracks the cursor without further bookkeeping.
//
// Offsets are rune offsets. The cursor is the gap before the rune at its
// index; Len() means after the last rune.
type Buffer struct {
	runes  []rune
	cursor int
}

// NewBuffer creates a buffer. The caller is responsible for passing a cursor
// within [0, runeLen(text)].
func NewBuffer(text string, cursor int) *Buffer {
	return &Buffer{
		runes:  []rune(text),
		cursor: cursor,
	}
}

// Len returns the text length in runes. The cursor has zero width.
func (b *Buffer) Len() int { return len(b.runes) }

// Cursor returns the current cursor position.
func (b *Buffer) Cursor() int { return b.cursor }

// Text returns the current text.
func (b *Buffer) Text() string { return string(b.runes) }

// Read returns up to length runes starting at begin. Ranges falling outside
// the text are clipped.
func (b *Buffer) Read(begin, length int) string {
	begin, end := b.clip(begin, length)
	return string(b.runes[begin:end])
}

// RuneAt returns the rune at pos, or utf8.RuneError when pos is outside
// the text.
func (b *Buffer) RuneAt(pos int) rune {
	if pos < 0 || pos >= len(b.runes) {
		return utf8.RuneError
	}
	return b.runes[pos]
}

// Insert splices sub into the text at begin.
//
// The cursor is unaffected when it is at or left of the insertion point.
// Otherwise it shifts right by the length of sub.
func (b *Buffer) Insert(begin int, sub string) {
	if begin < 0 || begin > len(b.runes) || sub == "" {
		return
	}
	ins := []rune(sub)

	runes := make([]rune, 0, len(b.runes)+len(ins))
	runes = append(runes, b.runes[:begin]...)
	runes = append(runes, ins...)
	runes = append(runes, b.runes[begin:]...)
	b.runes = runes

	if b.cursor > begin {
		b.cursor += len(ins)
	}
}

// Delete removes length runes starting at begin.
//
// The cursor is unaffected when it is at or left of begin. Otherwise it
// shifts left by the number of deleted runes that were left of it.
func (b *Buffer) Delete(begin, length int) {
	begin, end := b.clip(begin, length)
	if begin == end {
		return
	}

	b.runes = append(b.runes[:begin], b.runes[end:]...)

	if b.cursor > begin {
		b.cursor -= min(b.cursor-begin, end-begin)
	}
}

// Append inserts sub at the end of the text. The cursor does not follow it,
// even when it sits at the end.
func (b *Buffer) Append(sub string) {
	b.Insert(len(b.runes), sub)
}

// String renders the text with a caret line underneath, for logs and
// debugging.
func (b *Buffer) String() string {
	return utils.RenderCaret(b.Text(), b.cursor)
}

func (b *Buffer) clip(begin, length int) (int, int) {
	if length <= 0 || begin >= len(b.runes) {
		return 0, 0
	}
	begin = max(begin, 0)
	end := min(begin+length, len(b.runes))
	return begin, end
}
