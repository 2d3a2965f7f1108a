package input

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialevents/internal/domain/entities"
)

type EventUseCase interface {
	CreateEvent(ctx context.Context, draft entities.EventDraft) (entities.InsertAck, error)
	ListUpcomingEvents(ctx context.Context, eventType, search string) ([]entities.Event, error)
	GetEventByID(ctx context.Context, id primitive.ObjectID) (*entities.Event, error)
	GetEventsByCreatorEmail(ctx context.Context, email string) ([]entities.Event, error)
	UpdateEvent(ctx context.Context, id primitive.ObjectID, input entities.EventPatchInput) (entities.UpdateAck, error)
}
