package event

import (
	"context"

	"attendees/entities"
)

type OrderAttendeesReadModel interface {
	OnAttendeesRegistered(ctx context.Context, event *entities.AttendeesRegistered) error
}

type EventRepository interface {
	Create(ctx context.Context, event entities.StoredEvent) error
}

type Handler struct {
	readModel OrderAttendeesReadModel
	dataLake  EventRepository
}

func NewHandler(readModel OrderAttendeesReadModel, dataLake EventRepository) Handler {
	if readModel == nil {
		panic("missing readModel")
	}
	if dataLake == nil {
		panic("missing dataLake")
	}

	return Handler{
		readModel: readModel,
		dataLake:  dataLake,
	}
}
