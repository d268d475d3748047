package checkout

const (
	TicketStepSlug  = "ticket"
	TicketStepTitle = "Ingressos"
)

type Step struct {
	Slug  string `json:"slug" validate:"required"`
	Title string `json:"title"`
}

// WithTicketStep returns steps with the ticket step as the second step when
// the cart holds tickets, and without it otherwise. The input is not modified.
func WithTicketStep(steps []Step, ticketCount int) []Step {
	out := make([]Step, 0, len(steps)+1)
	for _, step := range steps {
		if step.Slug == TicketStepSlug {
			continue
		}
		out = append(out, step)
	}

	if ticketCount <= 0 {
		return out
	}

	ticketStep := Step{Slug: TicketStepSlug, Title: TicketStepTitle}

	position := 1
	if len(out) < position {
		position = len(out)
	}

	out = append(out, Step{})
	copy(out[position+1:], out[position:])
	out[position] = ticketStep

	return out
}
