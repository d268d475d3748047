package fields

import (
	"html"
	"strings"
	"unicode"

	"attendees/entities"

	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
)

// Normalize returns the comparable form of a value: digits only for
// documents and phones, trimmed lower-case for emails. Names are returned
// unchanged.
func Normalize(kind entities.FieldKind, value string) string {
	switch kind {
	case entities.FieldDocument, entities.FieldPhone:
		return digitsOnly(value)
	case entities.FieldEmail:
		return strings.ToLower(strings.TrimSpace(value))
	case entities.FieldFirstName, entities.FieldLastName:
		return value
	}
	return value
}

func digitsOnly(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var sanitizePolicy = bluemonday.StrictPolicy()

// Sanitize is applied to values before they are validated and persisted:
// markup is dropped together with script and style contents, control
// characters become spaces and whitespace is collapsed. A stray "<" that
// doesn't open a tag is kept as text.
func Sanitize(value string) string {
	text := html.UnescapeString(sanitizePolicy.Sanitize(value))

	text = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, text)

	return strings.Join(strings.Fields(text), " ")
}

func SanitizeValues(values map[entities.FieldKey]string) map[entities.FieldKey]string {
	return lo.MapValues(values, func(value string, _ entities.FieldKey) string {
		return Sanitize(value)
	})
}
