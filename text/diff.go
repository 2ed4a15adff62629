package text

import (
	"cursorkeep/utils"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeType classifies how a format rewrote a line
type ChangeType int

const (
	ChangeNone ChangeType = iota
	ChangeInsertChars
	ChangeDeleteChars
	ChangeReplaceChars
)

// String returns the string representation of ChangeType for Lua integration
func (ct ChangeType) String() string {
	switch ct {
	case ChangeNone:
		return "none"
	case ChangeInsertChars:
		return "insert_chars"
	case ChangeDeleteChars:
		return "delete_chars"
	case ChangeReplaceChars:
		return "replace_chars"
	default:
		return "unknown"
	}
}

// Change is the smallest single region covering every edit between two
// versions of a line. Columns are 0-based byte offsets, as Neovim expects.
type Change struct {
	Type      ChangeType
	ColStart  int    // first changed byte, same in both versions
	OldColEnd int    // end of the replaced region in the old line (exclusive)
	NewColEnd int    // end of the replacement in the new line (exclusive)
	Content   string // new[ColStart:NewColEnd]
	Cost      int    // Levenshtein distance reported by the diff
}

// ComputeChange diffs two versions of a line and reports the region that
// has to be rewritten to turn before into after.
func ComputeChange(before, after string) Change {
	if before == after {
		return Change{Type: ChangeNone, ColStart: len(before), OldColEnd: len(before), NewColEnd: len(after)}
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)

	var insertions, deletions int
	first, lastOld, lastNew := -1, 0, 0
	oldPos, newPos := 0, 0
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffEqual:
			oldPos += len(diff.Text)
			newPos += len(diff.Text)
			continue
		case diffmatchpatch.DiffInsert:
			insertions++
			if first == -1 {
				first = oldPos
			}
			newPos += len(diff.Text)
		case diffmatchpatch.DiffDelete:
			deletions++
			if first == -1 {
				first = oldPos
			}
			oldPos += len(diff.Text)
		}
		lastOld, lastNew = oldPos, newPos
	}

	change := Change{
		ColStart:  first,
		OldColEnd: lastOld,
		NewColEnd: lastNew,
		Content:   after[first:lastNew],
		Cost:      dmp.DiffLevenshtein(diffs),
	}
	switch {
	case deletions == 0:
		change.Type = ChangeInsertChars
	case insertions == 0:
		change.Type = ChangeDeleteChars
	default:
		change.Type = ChangeReplaceChars
	}
	return change
}

// MapCursor carries a cursor from before into after by following a
// character diff. A cursor inside deleted text lands where the deletion
// was. Offsets are rune offsets.
func MapCursor(before string, cursor int, after string) int {
	if before == after {
		return cursor
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	loc := dmp.DiffXIndex(diffs, utils.RuneToByteOffset(before, cursor))

	mapped := utils.ByteToRuneOffset(after, loc)
	return min(max(mapped, 0), utils.RuneLen(after))
}
