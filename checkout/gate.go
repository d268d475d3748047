// Package checkout drives the ticket step of the checkout: where it sits
// among the other steps and whether the customer may leave it.
package checkout

import (
	"attendees/entities"
	"attendees/fields"
)

type StepState int

const (
	StepIdle StepState = iota
	StepValidating
	StepBlocked
	StepPassed
)

func (s StepState) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepValidating:
		return "validating"
	case StepBlocked:
		return "blocked"
	case StepPassed:
		return "passed"
	}
	return "unknown"
}

// StepGate decides if a step transition may happen. It never gets stuck:
// a blocked gate validates again on the next attempt, and so does a passed
// one, since the cart may have changed in between.
type StepGate struct {
	validator *fields.Validator
	state     StepState
	last      entities.ValidationResult
}

func NewStepGate(validator *fields.Validator) *StepGate {
	return &StepGate{
		validator: validator,
		state:     StepIdle,
		last:      entities.NewValidationResult(),
	}
}

func (g *StepGate) State() StepState {
	return g.state
}

// LastResult is the result of the latest attempt.
func (g *StepGate) LastResult() entities.ValidationResult {
	return g.last
}

// Attempt validates the current values for ticketCount tickets and reports
// whether the transition is allowed.
func (g *StepGate) Attempt(ticketCount int, read fields.ValueReader) (entities.ValidationResult, bool) {
	g.state = StepValidating

	result := g.validator.Validate(ticketCount, read)
	g.last = result

	if result.IsValid {
		g.state = StepPassed
		return result, true
	}

	g.state = StepBlocked
	return result, false
}
