package entities

// TicketProductFlag is the product meta value that enables the ticket step.
const TicketProductFlag = "yes"

type LineItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
	// TicketFlag is the product's own flag; empty means "not set".
	TicketFlag string `json:"ticket_flag"`
	// ParentTicketFlag is the flag of the parent product for variations.
	ParentTicketFlag string `json:"parent_ticket_flag"`
}

// IsTicket reports whether the item requires attendee data. A variation
// without its own flag inherits the parent product flag.
func (i LineItem) IsTicket() bool {
	flag := i.TicketFlag
	if flag == "" {
		flag = i.ParentTicketFlag
	}
	return flag == TicketProductFlag
}

func (i LineItem) TicketQuantity() int {
	if !i.IsTicket() || i.Quantity < 0 {
		return 0
	}
	return i.Quantity
}

// TicketCount sums the quantities of ticket line items.
func TicketCount(items []LineItem) int {
	count := 0
	for _, item := range items {
		count += item.TicketQuantity()
	}
	return count
}
