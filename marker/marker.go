package marker

import "errors"

// Preferred lists the markers tried first, in priority order. They are easy
// to spot when a marked string shows up in a log.
const Preferred = "|^_#"

// Printable ASCII range scanned when every preferred marker is taken.
const (
	FirstPrintable = 32
	LastPrintable  = 126
)

// ErrNoAvailableMarker is returned when the text already uses every
// printable ASCII character.
var ErrNoAvailableMarker = errors.New("no printable character available for marker")

// Choose returns a printable ASCII character that does not occur in text.
func Choose(text string) (rune, error) {
	used := make(map[rune]struct{}, len(text))
	for _, r := range text {
		used[r] = struct{}{}
	}

	for _, r := range Preferred {
		if _, ok := used[r]; !ok {
			return r, nil
		}
	}
	for r := rune(FirstPrintable); r <= LastPrintable; r++ {
		if _, ok := used[r]; !ok {
			return r, nil
		}
	}
	return 0, ErrNoAvailableMarker
}

// ChooseExcluding is Choose over text with the reserved characters treated
// as already used. Callers pass the characters their transform consumes so
// the marker survives it.
func ChooseExcluding(text, reserved string) (rune, error) {
	return Choose(text + reserved)
}
