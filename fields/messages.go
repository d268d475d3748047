package fields

import (
	"fmt"

	"attendees/entities"
)

const (
	LocalePtBR = "pt_BR"
	LocaleEnUS = "en_US"
)

// Messages holds the templates the validator renders. Wording is
// localizable; only the placement of messages is fixed.
type Messages struct {
	Labels map[entities.FieldKind]string
	// Required receives the field label and ticket index.
	Required string
	// Duplicate receives the field label and ticket index.
	Duplicate string
	// DuplicateSummary receives the field label twice.
	DuplicateSummary string
	TicketTitle      string
}

var catalog = map[string]Messages{
	LocalePtBR: {
		Labels: map[entities.FieldKind]string{
			entities.FieldFirstName: "Nome",
			entities.FieldLastName:  "Sobrenome",
			entities.FieldDocument:  "CPF",
			entities.FieldPhone:     "Telefone",
			entities.FieldEmail:     "E-mail",
		},
		Required:         "Por favor, preencha o campo %s do Ingresso %d.",
		Duplicate:        "O %s do Ingresso %d já foi utilizado em outro ingresso.",
		DuplicateSummary: "O %s informado já foi utilizado em outro ingresso. Informe um %s diferente.",
		TicketTitle:      "Ingresso %d",
	},
	LocaleEnUS: {
		Labels: map[entities.FieldKind]string{
			entities.FieldFirstName: "First name",
			entities.FieldLastName:  "Last name",
			entities.FieldDocument:  "CPF",
			entities.FieldPhone:     "Phone",
			entities.FieldEmail:     "Email",
		},
		Required:         "Please fill in the %s field of Ticket %d.",
		Duplicate:        "The %s of Ticket %d is already used by another ticket.",
		DuplicateSummary: "The %s provided is already used by another ticket. Please provide a different %s.",
		TicketTitle:      "Ticket %d",
	},
}

func DefaultMessages() Messages {
	return catalog[LocalePtBR]
}

// MessagesFor returns the templates of locale, falling back to pt_BR.
func MessagesFor(locale string) Messages {
	if m, ok := catalog[locale]; ok {
		return m
	}
	return DefaultMessages()
}

func (m Messages) Label(kind entities.FieldKind) string {
	if label, ok := m.Labels[kind]; ok {
		return label
	}
	return string(kind)
}

func (m Messages) required(key entities.FieldKey) string {
	return fmt.Sprintf(m.Required, m.Label(key.Kind), key.Ticket)
}

func (m Messages) duplicate(key entities.FieldKey) string {
	return fmt.Sprintf(m.Duplicate, m.Label(key.Kind), key.Ticket)
}

func (m Messages) duplicateSummary(kind entities.FieldKind) string {
	label := m.Label(kind)
	return fmt.Sprintf(m.DuplicateSummary, label, label)
}

func (m Messages) Ticket(ticket int) string {
	return fmt.Sprintf(m.TicketTitle, ticket)
}
