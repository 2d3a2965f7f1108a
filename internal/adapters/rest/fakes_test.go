package rest

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialevents/internal/domain/entities"
	"socialevents/internal/ports/input"
)

type panickingEvents struct{ input.EventUseCase }

func (panickingEvents) ListUpcomingEvents(context.Context, string, string) ([]entities.Event, error) {
	panic("boom")
}

func (panickingEvents) GetEventByID(context.Context, primitive.ObjectID) (*entities.Event, error) {
	panic("boom")
}
