package checkout

import (
	"testing"

	"attendees/entities"
	"attendees/fields"

	"github.com/stretchr/testify/assert"
)

func TestWithTicketStep(t *testing.T) {
	base := []Step{
		{Slug: "contact", Title: "Contato"},
		{Slug: "shipping", Title: "Entrega"},
		{Slug: "payment", Title: "Pagamento"},
	}

	t.Run("inserted as second step", func(t *testing.T) {
		steps := WithTicketStep(base, 2)

		assert.Equal(t, []Step{
			{Slug: "contact", Title: "Contato"},
			{Slug: TicketStepSlug, Title: TicketStepTitle},
			{Slug: "shipping", Title: "Entrega"},
			{Slug: "payment", Title: "Pagamento"},
		}, steps)
		assert.Len(t, base, 3, "input untouched")
	})

	t.Run("no tickets", func(t *testing.T) {
		assert.Equal(t, base, WithTicketStep(base, 0))
	})

	t.Run("not duplicated", func(t *testing.T) {
		steps := WithTicketStep(WithTicketStep(base, 1), 1)
		assert.Len(t, steps, 4)
		assert.Equal(t, TicketStepSlug, steps[1].Slug)
	})

	t.Run("removed when cart has no tickets anymore", func(t *testing.T) {
		assert.Equal(t, base, WithTicketStep(WithTicketStep(base, 1), 0))
	})

	t.Run("single step", func(t *testing.T) {
		steps := WithTicketStep([]Step{{Slug: "payment"}}, 1)
		assert.Equal(t, []string{"payment", TicketStepSlug}, []string{steps[0].Slug, steps[1].Slug})
	})

	t.Run("no steps", func(t *testing.T) {
		steps := WithTicketStep(nil, 1)
		assert.Equal(t, []Step{{Slug: TicketStepSlug, Title: TicketStepTitle}}, steps)
	})
}

func TestStepGate(t *testing.T) {
	gate := NewStepGate(fields.NewValidator(fields.DefaultMessages()))
	assert.Equal(t, StepIdle, gate.State())

	values := map[entities.FieldKey]string{}

	result, ok := gate.Attempt(1, fields.MapReader(values))
	assert.False(t, ok)
	assert.False(t, result.IsValid)
	assert.Equal(t, StepBlocked, gate.State())
	assert.Len(t, gate.LastResult().GlobalMessages, 5)

	for _, key := range fields.Resolve(1) {
		values[key] = "x"
	}

	result, ok = gate.Attempt(1, fields.MapReader(values))
	assert.True(t, ok)
	assert.True(t, result.IsValid)
	assert.Equal(t, StepPassed, gate.State())

	// cart grew: the second ticket has no data yet
	_, ok = gate.Attempt(2, fields.MapReader(values))
	assert.False(t, ok)
	assert.Equal(t, StepBlocked, gate.State())
}

func TestStepGate_NoTicketsAlwaysPasses(t *testing.T) {
	gate := NewStepGate(fields.NewValidator(fields.DefaultMessages()))

	_, ok := gate.Attempt(0, fields.MapReader(nil))
	assert.True(t, ok)
	assert.Equal(t, "passed", gate.State().String())
}
