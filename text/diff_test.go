package text

import (
	"testing"

	"cursorkeep/format"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestComputeChange_None(t *testing.T) {
	change := ComputeChange("12,500", "12,500")

	assert.Equal(t, ChangeNone, change.Type, "Type")
	assert.Equal(t, "", change.Content, "Content")
	assert.Equal(t, 0, change.Cost, "Cost")
}

func TestComputeChange_InsertChars(t *testing.T) {
	change := ComputeChange("12500", "12,500")

	assert.Equal(t, ChangeInsertChars, change.Type, "Type")
	assert.Equal(t, 2, change.ColStart, "ColStart")
	assert.Equal(t, 2, change.OldColEnd, "OldColEnd")
	assert.Equal(t, 3, change.NewColEnd, "NewColEnd")
	assert.Equal(t, ",", change.Content, "Content")
	assert.Equal(t, 1, change.Cost, "Cost")
}

func TestComputeChange_DeleteChars(t *testing.T) {
	change := ComputeChange("  hello  ", "hello")

	assert.Equal(t, ChangeDeleteChars, change.Type, "Type")
	assert.Equal(t, 0, change.ColStart, "ColStart")
	assert.Equal(t, 9, change.OldColEnd, "OldColEnd")
	assert.Equal(t, 5, change.NewColEnd, "NewColEnd")
	assert.Equal(t, "hello", change.Content, "Content")
	assert.Equal(t, 4, change.Cost, "Cost")
}

func TestChangeType_String(t *testing.T) {
	assert.Equal(t, "none", ChangeNone.String(), "none")
	assert.Equal(t, "insert_chars", ChangeInsertChars.String(), "insert")
	assert.Equal(t, "delete_chars", ChangeDeleteChars.String(), "delete")
	assert.Equal(t, "replace_chars", ChangeReplaceChars.String(), "replace")
	assert.Equal(t, "unknown", ChangeType(42).String(), "unknown")
}

// Splicing Content over the reported region must rebuild the new line.
func TestComputeChange_Rebuilds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		before := rapid.StringMatching(`[0-9, é]{0,16}`).Draw(t, "before")
		for _, op := range format.Operations() {
			after := format.Apply(op, before)
			c := ComputeChange(before, after)

			rebuilt := before[:c.ColStart] + c.Content + before[c.OldColEnd:]
			if rebuilt != after {
				t.Fatalf("%s: %q -> %q rebuilt as %q (%+v)", op, before, after, rebuilt, c)
			}
		}
	})
}

func TestMapCursor(t *testing.T) {
	tests := []struct {
		name   string
		before string
		cursor int
		after  string
		want   int
	}{
		{"unchanged", "abc", 2, "abc", 2},
		{"insertion left of cursor", "12500", 3, "12,500", 4},
		{"insertion right of cursor", "12500", 1, "12,500", 1},
		{"cursor inside deleted run", "  hello  ", 1, "hello", 0},
		{"cursor inside trailing deletion", "  hello  ", 8, "hello", 5},
		{"cursor at end", "  hello  ", 9, "hello", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapCursor(tt.before, tt.cursor, tt.after), "mapped cursor")
		})
	}
}

func TestMapCursor_InBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		before := rapid.StringMatching(`[0-9, ü]{0,16}`).Draw(t, "before")
		cursor := rapid.IntRange(0, len([]rune(before))).Draw(t, "cursor")
		for _, op := range format.Operations() {
			after := format.Apply(op, before)
			got := MapCursor(before, cursor, after)
			if got < 0 || got > len([]rune(after)) {
				t.Fatalf("%s: cursor %d out of bounds for %q", op, got, after)
			}
		}
	})
}
