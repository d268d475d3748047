package event

import (
	"context"

	"attendees/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

func (h Handler) ProjectOrderAttendees(ctx context.Context, event *entities.AttendeesRegistered) error {
	log.FromContext(ctx).WithField("order_id", event.OrderID).Info("Projecting order attendees")

	return h.readModel.OnAttendeesRegistered(ctx, event)
}
