package fields

import (
	"strings"

	"attendees/entities"

	"github.com/samber/lo"
)

// ValueReader returns the current raw value of a field, "" when absent.
type ValueReader func(key entities.FieldKey) string

// MapReader reads values from a map keyed by field key.
func MapReader(values map[entities.FieldKey]string) ValueReader {
	return func(key entities.FieldKey) string {
		return values[key]
	}
}

type Validator struct {
	messages Messages
}

func NewValidator(messages Messages) *Validator {
	return &Validator{messages: messages}
}

func (v *Validator) Messages() Messages {
	return v.messages
}

type ownedValue struct {
	key        entities.FieldKey
	normalized string
}

// Validate checks that every field of tickets 1..ticketCount is filled and
// that documents, phones and emails are not repeated across tickets. Required
// messages come first in the global list, followed by one duplicate summary
// per kind. It reads each value exactly once and mutates nothing.
func (v *Validator) Validate(ticketCount int, read ValueReader) entities.ValidationResult {
	result := entities.NewValidationResult()

	keys := Resolve(ticketCount)
	if len(keys) == 0 {
		return result
	}

	byKind := make(map[entities.FieldKind][]ownedValue, len(entities.UniqueFieldKinds))

	for _, key := range keys {
		value := strings.TrimSpace(read(key))
		if value == "" {
			message := v.messages.required(key)
			result.AddGlobal(message)
			result.AddField(key, message)
			continue
		}

		byKind[key.Kind] = append(byKind[key.Kind], ownedValue{
			key:        key,
			normalized: Normalize(key.Kind, value),
		})
	}

	for _, kind := range entities.UniqueFieldKinds {
		if v.flagDuplicates(&result, byKind[kind]) {
			result.AddGlobal(v.messages.duplicateSummary(kind))
		}
	}

	return result
}

// flagDuplicates adds a per-field message to every owner of a shared value,
// in ticket order, and reports whether any value was shared.
func (v *Validator) flagDuplicates(result *entities.ValidationResult, values []ownedValue) bool {
	// a document or phone made only of punctuation normalizes to ""
	values = lo.Filter(values, func(item ownedValue, _ int) bool {
		return item.normalized != ""
	})

	owners := lo.GroupBy(values, func(item ownedValue) string {
		return item.normalized
	})

	found := false
	for _, value := range values {
		if len(owners[value.normalized]) < 2 {
			continue
		}
		result.AddField(value.key, v.messages.duplicate(value.key))
		found = true
	}

	return found
}
