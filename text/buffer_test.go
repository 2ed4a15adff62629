package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestBuffer_Read(t *testing.T) {
	b := NewBuffer("hello", 4)

	assert.Equal(t, "hell", b.Read(0, 4), "prefix")
	assert.Equal(t, "ello", b.Read(1, 4), "middle")
	assert.Equal(t, "hello", b.Read(0, b.Len()), "whole text")
	assert.Equal(t, "o", b.Read(4, 1), "single rune")
	assert.Equal(t, "o", b.Read(4, 10), "clipped at end")
	assert.Equal(t, "", b.Read(5, 1), "past end")
	assert.Equal(t, "", b.Read(0, 0), "zero length")
	assert.Equal(t, 'h', b.RuneAt(0), "RuneAt")
	assert.Equal(t, 4, b.Cursor(), "read leaves cursor alone")
}

func TestBuffer_EditSequence(t *testing.T) {
	b := NewBuffer("hello", 4)

	b.Insert(5, " world")
	assert.Equal(t, "hello world", b.Text(), "append word")
	assert.Equal(t, 4, b.Cursor(), "insert right of cursor")

	b.Insert(5, ",")
	b.Insert(12, ".")
	assert.Equal(t, "hello, world.", b.Text(), "punctuation")
	assert.Equal(t, 4, b.Cursor(), "still unchanged")

	b.Delete(0, 1)
	b.Insert(0, "H")
	assert.Equal(t, "Hello, world.", b.Text(), "capitalised")
	assert.Equal(t, 4, b.Cursor(), "delete then insert left of cursor")
}

func TestBuffer_InsertAtCursorDoesNotMoveIt(t *testing.T) {
	b := NewBuffer("1250", 2)
	b.Insert(2, ",")

	assert.Equal(t, "12,50", b.Text(), "text")
	assert.Equal(t, 2, b.Cursor(), "cursor anchored to the character on its right")
}

func TestBuffer_InsertLeftOfCursor(t *testing.T) {
	b := NewBuffer("12500", 3)
	b.Insert(2, ",")

	assert.Equal(t, "12,500", b.Text(), "text")
	assert.Equal(t, 4, b.Cursor(), "shifted by inserted length")
}

func TestBuffer_Delete(t *testing.T) {
	tests := []struct {
		name       string
		begin      int
		length     int
		wantText   string
		wantCursor int
	}{
		{"right of cursor", 5, 2, "abcdeh", 3},
		{"at cursor", 3, 2, "abcfgh", 3},
		{"left of cursor", 0, 2, "cdefgh", 1},
		{"spanning cursor", 1, 4, "afgh", 1},
		{"zero length", 1, 0, "abcdefgh", 3},
		{"clipped", 6, 10, "abcdef", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer("abcdefgh", 3)
			b.Delete(tt.begin, tt.length)
			assert.Equal(t, tt.wantText, b.Text(), "text")
			assert.Equal(t, tt.wantCursor, b.Cursor(), "cursor")
		})
	}
}

func TestBuffer_AppendKeepsCursor(t *testing.T) {
	b := NewBuffer("abc", 3)
	b.Append("def")

	assert.Equal(t, "abcdef", b.Text(), "text")
	assert.Equal(t, 3, b.Cursor(), "cursor at old end stays put")
}

func TestBuffer_Runes(t *testing.T) {
	b := NewBuffer("héllo", 2)
	b.Insert(1, "€€")

	assert.Equal(t, "h€€éllo", b.Text(), "text")
	assert.Equal(t, 4, b.Cursor(), "offsets count runes, not bytes")
	assert.Equal(t, 7, b.Len(), "length in runes")
}

func TestBuffer_String(t *testing.T) {
	b := NewBuffer("12,500", 3)
	assert.Equal(t, "\"12,500\"\n    ↖ 3", b.String(), "caret rendering")
}

// The cursor delta of every insert and delete matches the closed form.
func TestBuffer_CursorInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-z ,]{0,16}`).Draw(t, "text")
		n := len([]rune(text))
		cursor := rapid.IntRange(0, n).Draw(t, "cursor")
		b := NewBuffer(text, cursor)

		if rapid.Bool().Draw(t, "insert") {
			begin := rapid.IntRange(0, n).Draw(t, "begin")
			sub := rapid.StringMatching(`[A-Z]{1,4}`).Draw(t, "sub")
			b.Insert(begin, sub)

			want := cursor
			if cursor > begin {
				want += len(sub)
			}
			if b.Cursor() != want {
				t.Fatalf("insert %q at %d: cursor %d, want %d", sub, begin, b.Cursor(), want)
			}
		} else {
			begin := rapid.IntRange(0, n).Draw(t, "begin")
			length := rapid.IntRange(0, n-begin).Draw(t, "length")
			b.Delete(begin, length)

			want := cursor - min(max(cursor-begin, 0), length)
			if b.Cursor() != want {
				t.Fatalf("delete %d at %d: cursor %d, want %d", length, begin, b.Cursor(), want)
			}
		}

		if b.Cursor() < 0 || b.Cursor() > b.Len() {
			t.Fatalf("cursor %d out of bounds for length %d", b.Cursor(), b.Len())
		}
	})
}
