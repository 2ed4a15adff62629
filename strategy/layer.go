package strategy

import (
	"math"
	"unicode"

	"cursorkeep/distance"
	"cursorkeep/format"
)

// CharClass selects the characters a layer counts.
type CharClass func(rune) bool

// Layer locates the cursor by the share of each character class lying left
// of it. Classes are tried in order; each narrows the window of candidate
// positions to those that match the share best, and the search stops as
// soon as a single position remains.
type Layer struct {
	op          format.Operation
	classes     []CharClass
	preferRight bool
}

// NewLayer returns the layer formatter for op with the default classes.
// Trimify always resolves a final tie to the right.
func NewLayer(op format.Operation, preferRight bool) (*Layer, error) {
	switch op {
	case format.OpCommatize:
		return NewLayerClasses(op, []CharClass{notSeparator}, preferRight)
	case format.OpTrimify:
		return NewLayerClasses(op, []CharClass{notSpace}, true)
	case format.OpCreditCard:
		return NewLayerClasses(op, []CharClass{format.IsDigit}, preferRight)
	default:
		return nil, checkOperation(op)
	}
}

// NewLayerClasses returns a layer formatter for op with explicit classes.
func NewLayerClasses(op format.Operation, classes []CharClass, preferRight bool) (*Layer, error) {
	if err := checkOperation(op); err != nil {
		return nil, err
	}
	return &Layer{op: op, classes: classes, preferRight: preferRight}, nil
}

// Apply implements Formatter
func (l *Layer) Apply(text string, cursor int) (string, int, error) {
	if err := checkCursor(text, cursor); err != nil {
		return "", 0, err
	}
	formatted := format.Apply(l.op, text)
	if formatted == text {
		return text, cursor, nil
	}
	return formatted, l.Locate(text, cursor, formatted), nil
}

// Locate picks the cursor position in formatted for raw with its cursor at
// cursor. A class absent from either text gives no information and is
// skipped.
func (l *Layer) Locate(raw string, cursor int, formatted string) int {
	rawRunes, outRunes := []rune(raw), []rune(formatted)
	if len(outRunes) == 0 {
		return 0
	}

	left, right := 0, len(outRunes)
	bestLeft, bestRight := left, right
	for _, class := range l.classes {
		rawCounts := distance.LeftCounts(rawRunes, class)
		rawTotal := rawCounts[len(rawRunes)]
		counts := distance.LeftCounts(outRunes, class)
		total := counts[len(outRunes)]
		if rawTotal == 0 || total == 0 {
			continue
		}

		want := float64(rawCounts[cursor]) / float64(rawTotal)
		share := func(pos int) float64 {
			return math.Abs(want - float64(counts[pos])/float64(total))
		}

		bestLeft, bestRight = left, left
		bestDelta := share(left)
		for pos := left + 1; pos <= right; pos++ {
			delta := share(pos)
			switch {
			case delta < bestDelta:
				bestDelta = delta
				bestLeft, bestRight = pos, pos
			case delta == bestDelta:
				bestRight = pos
			}
		}

		if bestLeft == bestRight {
			break
		}
		left, right = bestLeft, bestRight
	}

	if l.preferRight {
		return bestRight
	}
	return bestLeft
}

func notSeparator(r rune) bool { return !format.IsSeparator(r) }

func notSpace(r rune) bool { return !unicode.IsSpace(r) }
