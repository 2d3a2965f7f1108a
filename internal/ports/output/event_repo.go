package output

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialevents/internal/domain/entities"
)

// EventRepository persists events. FindByID returns (nil, nil) when no event
// has that identifier.
type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) (entities.InsertAck, error)
	FindUpcoming(ctx context.Context, filter entities.EventFilter) ([]entities.Event, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entities.Event, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entities.Event, error)
	FindByCreatorEmail(ctx context.Context, email string) ([]entities.Event, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, patch entities.EventPatch) (entities.UpdateAck, error)
}
