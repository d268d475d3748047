// Package fields resolves and validates the attendee fields collected for
// every ticket of a checkout.
package fields

import "attendees/entities"

// Resolve returns the field keys for tickets 1..ticketCount, each ticket
// contributing every kind in entities.FieldKinds order. Callers resolve on
// every pass: the ticket count follows the cart and must not be reused
// across cart changes.
func Resolve(ticketCount int) []entities.FieldKey {
	if ticketCount <= 0 {
		return []entities.FieldKey{}
	}

	keys := make([]entities.FieldKey, 0, ticketCount*len(entities.FieldKinds))
	for ticket := 1; ticket <= ticketCount; ticket++ {
		for _, kind := range entities.FieldKinds {
			keys = append(keys, entities.NewFieldKey(kind, ticket))
		}
	}

	return keys
}
