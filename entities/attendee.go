package entities

import "time"

type Attendee struct {
	Ticket    int    `json:"ticket"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Document  string `json:"document"`
	Phone     string `json:"phone"`
	PhoneFull string `json:"phone_full,omitempty"`
	Email     string `json:"email"`
}

// DisplayPhone prefers the international phone when it was captured.
func (a Attendee) DisplayPhone() string {
	if a.PhoneFull != "" {
		return a.PhoneFull
	}
	return a.Phone
}

func (a *Attendee) Set(kind FieldKind, value string) {
	switch kind {
	case FieldFirstName:
		a.FirstName = value
	case FieldLastName:
		a.LastName = value
	case FieldDocument:
		a.Document = value
	case FieldPhone:
		a.Phone = value
	case FieldEmail:
		a.Email = value
	}
}

type OrderAttendees struct {
	OrderID      string     `json:"order_id"`
	TicketCount  int        `json:"ticket_count"`
	Attendees    []Attendee `json:"attendees"`
	RegisteredAt time.Time  `json:"registered_at"`
}

// AttendeesFromValues groups field values into one attendee per ticket 1..ticketCount.
func AttendeesFromValues(ticketCount int, values map[FieldKey]string, internationalPhones map[FieldKey]string) []Attendee {
	if ticketCount <= 0 {
		return []Attendee{}
	}

	attendees := make([]Attendee, ticketCount)
	for i := range attendees {
		attendees[i].Ticket = i + 1
	}

	for key, value := range values {
		if key.Ticket < 1 || key.Ticket > ticketCount {
			continue
		}
		attendees[key.Ticket-1].Set(key.Kind, value)
	}

	for key, value := range internationalPhones {
		if key.Ticket < 1 || key.Ticket > ticketCount {
			continue
		}
		attendees[key.Ticket-1].PhoneFull = value
	}

	return attendees
}

// AttendeeRegistration is the accepted ticket data of an order, ready to be stored.
type AttendeeRegistration struct {
	OrderID             string
	TicketCount         int
	Values              map[FieldKey]string
	InternationalPhones map[FieldKey]string
}

func (r AttendeeRegistration) Attendees() []Attendee {
	return AttendeesFromValues(r.TicketCount, r.Values, r.InternationalPhones)
}
