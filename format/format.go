package format

import (
	"errors"
	"strings"
	"unicode"
)

// Separator is the digit-group separator used by Commatize.
const Separator = ','

// MaxCardDigits is the number of digits kept by CreditCard.
const MaxCardDigits = 16

// ErrUnknownOperation is returned when an operation name cannot be resolved.
var ErrUnknownOperation = errors.New("unknown formatting operation")

// Operation identifies one of the plain text formats.
type Operation int

const (
	OpCommatize Operation = iota
	OpTrimify
	OpCreditCard
)

// String returns the configuration name of the operation
func (op Operation) String() string {
	switch op {
	case OpCommatize:
		return "commatize"
	case OpTrimify:
		return "trimify"
	case OpCreditCard:
		return "credit_card"
	default:
		return "unknown"
	}
}

// Operations lists every supported operation in a stable order.
func Operations() []Operation {
	return []Operation{OpCommatize, OpTrimify, OpCreditCard}
}

// ParseOperation resolves a configuration name into an Operation.
func ParseOperation(name string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "commatize":
		return OpCommatize, nil
	case "trimify":
		return OpTrimify, nil
	case "credit_card", "creditcard":
		return OpCreditCard, nil
	default:
		return 0, ErrUnknownOperation
	}
}

// Apply runs the plain formatter for op. Unknown operations return s unchanged.
func Apply(op Operation, s string) string {
	switch op {
	case OpCommatize:
		return Commatize(s)
	case OpTrimify:
		return Trimify(s)
	case OpCreditCard:
		return CreditCard(s)
	default:
		return s
	}
}

// Commatize distributes separators so that the remaining characters form
// groups of three, counted from the right. "1,45,,00" becomes "14,500".
func Commatize(s string) string {
	digits := []rune(strings.ReplaceAll(s, string(Separator), ""))
	if len(digits) == 0 {
		return ""
	}

	// Begin with 1, 2 or 3 characters so the last group is always full
	start := len(digits) % 3
	if start == 0 {
		start = 3
	}

	var sb strings.Builder
	sb.WriteString(string(digits[:start]))
	for i := start; i < len(digits); i += 3 {
		sb.WriteRune(Separator)
		sb.WriteString(string(digits[i : i+3]))
	}
	return sb.String()
}

// Trimify removes whitespace around the string and reduces every interior
// whitespace run to a single space.
func Trimify(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	pendingSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			// Leading whitespace never sets the flag
			if sb.Len() > 0 {
				pendingSpace = true
			}
			continue
		}
		if pendingSpace {
			sb.WriteByte(' ')
			pendingSpace = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// CreditCard keeps up to sixteen decimal digits and separates them into
// groups of four with spaces.
func CreditCard(s string) string {
	digits := make([]rune, 0, MaxCardDigits)
	for _, r := range s {
		if IsDigit(r) && len(digits) < MaxCardDigits {
			digits = append(digits, r)
		}
	}

	var sb strings.Builder
	for i := 0; i < len(digits); i += 4 {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(string(digits[i:min(i+4, len(digits))]))
	}
	return sb.String()
}

// IsDigit reports whether r is an ASCII decimal digit.
func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// IsSeparator reports whether r is the Commatize separator.
func IsSeparator(r rune) bool {
	return r == Separator
}
