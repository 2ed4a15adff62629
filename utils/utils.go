package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// CaretGlyph points at the gap to its upper left, which is where the cursor
// sits when the glyph is printed under the character following the cursor.
const CaretGlyph = "↖"

// RuneLen returns the length of s in runes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// RuneToByteOffset converts a rune offset in s to a byte offset. Offsets past
// the end are clamped to len(s).
func RuneToByteOffset(s string, runeOffset int) int {
	if runeOffset <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == runeOffset {
			return i
		}
		n++
	}
	return len(s)
}

// ByteToRuneOffset converts a byte offset in s to a rune offset. A byte offset
// inside a multi-byte rune counts that rune as left of the offset.
func ByteToRuneOffset(s string, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset >= len(s) {
		return utf8.RuneCountInString(s)
	}
	n := 0
	for i := range s {
		if i >= byteOffset {
			return n
		}
		n++
	}
	return n
}

// RenderCaret returns text on one line and a caret pointing at cursor on the
// next. Column alignment uses terminal display width so wide runes line up.
func RenderCaret(text string, cursor int) string {
	left := text[:RuneToByteOffset(text, cursor)]
	pad := strings.Repeat(" ", uniseg.StringWidth(left))
	return fmt.Sprintf("\"%s\"\n %s%s %d", text, pad, CaretGlyph, cursor)
}

// MarkCursor returns text with mark spliced in at cursor, e.g. "12^500".
func MarkCursor(text string, cursor int, mark rune) string {
	i := RuneToByteOffset(text, cursor)
	return text[:i] + string(mark) + text[i:]
}
