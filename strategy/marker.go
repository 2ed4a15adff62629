package strategy

import (
	"strings"

	"cursorkeep/format"
	"cursorkeep/marker"
	"cursorkeep/types"
	"cursorkeep/utils"

	"github.com/pkg/errors"
)

// MarkerEmbedding writes a marker character into the text at the cursor,
// runs a marker-aware variant of the format and reads the cursor back from
// wherever the marker ended up.
type MarkerEmbedding struct {
	op       format.Operation
	reserved string
}

// NewMarkerEmbedding returns the marker formatter for op. Credit card
// numbers are not supported.
func NewMarkerEmbedding(op format.Operation) (*MarkerEmbedding, error) {
	// The marker must not be a character the format itself acts on
	switch op {
	case format.OpCommatize:
		return &MarkerEmbedding{op: op, reserved: string(format.Separator)}, nil
	case format.OpTrimify:
		return &MarkerEmbedding{op: op, reserved: " "}, nil
	default:
		if err := checkOperation(op); err != nil {
			return nil, err
		}
		return nil, unsupported(types.StrategyTypeMarker, op)
	}
}

// Apply implements Formatter
func (m *MarkerEmbedding) Apply(text string, cursor int) (string, int, error) {
	if err := checkCursor(text, cursor); err != nil {
		return "", 0, err
	}

	mark, err := marker.ChooseExcluding(text, m.reserved)
	if err != nil {
		return "", 0, errors.Wrap(err, "marker strategy")
	}

	marked := utils.MarkCursor(text, cursor, mark)
	if m.op == format.OpCommatize {
		marked = CommatizeMarked(marked, mark)
	} else {
		marked = TrimifyMarked(marked, mark)
	}

	return extractMarker(marked, mark)
}

// CommatizeMarked commatizes text holding one marker. Only non-separator,
// non-marker characters count towards a group. A marker left on its own at
// the front is kept with the leftmost group so that no empty group appears.
func CommatizeMarked(text string, mark rune) string {
	runes := []rune(text)

	var groups []string // right to left
	var group []rune    // reversed
	count := 0
	for i := len(runes) - 1; i >= 0; i-- {
		r := runes[i]
		if format.IsSeparator(r) {
			continue
		}
		group = append(group, r)
		if r == mark {
			continue
		}
		count++
		if count == 3 {
			groups = append(groups, reversed(group))
			group = group[:0]
			count = 0
		}
	}

	if len(group) > 0 {
		if count == 0 && len(groups) > 0 {
			last := len(groups) - 1
			groups[last] = reversed(group) + groups[last]
		} else {
			groups = append(groups, reversed(group))
		}
	}

	var sb strings.Builder
	for i := len(groups) - 1; i >= 0; i-- {
		sb.WriteString(groups[i])
		if i > 0 {
			sb.WriteRune(format.Separator)
		}
	}
	return sb.String()
}

// TrimifyMarked trimifies text holding one marker. The marker splits any
// whitespace run it sits in, so the space it leaves over on one side is
// removed afterwards.
func TrimifyMarked(text string, mark rune) string {
	out := format.Trimify(text)
	m := string(mark)

	out = strings.Replace(out, " "+m+" ", " "+m, 1)
	switch {
	case strings.HasPrefix(out, m):
		out = strings.Replace(out, m+" ", m, 1)
	case strings.HasSuffix(out, m):
		out = strings.Replace(out, " "+m, m, 1)
	}
	return out
}

func extractMarker(text string, mark rune) (string, int, error) {
	idx := strings.IndexRune(text, mark)
	if idx < 0 {
		return "", 0, errors.Errorf("marker %q lost during formatting", mark)
	}
	return text[:idx] + text[idx+len(string(mark)):], utils.ByteToRuneOffset(text, idx), nil
}

func reversed(runes []rune) string {
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[len(runes)-1-i] = r
	}
	return string(out)
}
