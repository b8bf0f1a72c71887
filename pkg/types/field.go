package types

import (
	"strings"
	"unicode"
)

// FieldID identifies one column within a Schema.
type FieldID string

// ReservedField is the record identity key. It is never part of a Schema.
const ReservedField FieldID = "id"

// String returns the identifier as a plain string.
func (f FieldID) String() string { return string(f) }

// NormalizeField converts a free-text label into a FieldID.
//
// The label is trimmed and split into tokens at every run of characters that
// are neither letters nor digits, and before each upper-case rune that
// follows a rune which is not upper-case. Tokens are lower-cased; every token
// after the first has its first rune capitalised, and the tokens are joined.
// A token that directly follows an upper-case rune stays lower-case, so the
// result never holds two adjacent capitals:
//
//	"Due Date"  -> "dueDate"
//	"due_date"  -> "dueDate"
//	"dueDate"   -> "dueDate"
//	"NAME"      -> "name"
//	"a B c"     -> "aBc"
//
// NormalizeField is idempotent. A label without letters or digits yields "".
func NormalizeField(label string) FieldID {
	tokens := splitTokens(strings.TrimSpace(label))
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	var last rune
	for i, tok := range tokens {
		runes := []rune(strings.Map(unicode.ToLower, tok))
		if i > 0 && !unicode.IsUpper(last) {
			runes[0] = unicode.ToUpper(runes[0])
		}
		b.WriteString(string(runes))
		last = runes[len(runes)-1]
	}
	return FieldID(b.String())
}

// splitTokens breaks s into alphanumeric tokens.
func splitTokens(s string) []string {
	var tokens []string
	var cur []rune
	var prev rune
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			prev = 0
			continue
		}
		if unicode.IsUpper(r) && prev != 0 && !unicode.IsUpper(prev) {
			flush()
		}
		cur = append(cur, r)
		prev = r
	}
	flush()
	return tokens
}

// FieldLabel derives a display label from a FieldID: a space is inserted
// before every upper-case rune that follows a lower-case rune or a digit,
// and the first rune is capitalised ("dueDate" -> "Due Date").
//
// FieldLabel is not the inverse of NormalizeField.
func FieldLabel(id FieldID) string {
	var b strings.Builder
	var prev rune
	for i, r := range string(id) {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			prev = r
			continue
		}
		if unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// ValidateFieldID reports whether id can be stored in a Schema.
// Returns ErrInvalidField for an empty id and ErrReservedField for "id".
func ValidateFieldID(id FieldID) error {
	if id == "" {
		return ErrInvalidField
	}
	if id == ReservedField {
		return ErrReservedField
	}
	return nil
}
