package input

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialevents/internal/domain/entities"
)

type ParticipationUseCase interface {
	JoinEvent(ctx context.Context, eventID primitive.ObjectID, userEmail string) (entities.JoinResult, error)
	ListJoinedEventIDs(ctx context.Context, userEmail string) ([]primitive.ObjectID, error)
	ListJoinedEvents(ctx context.Context, userEmail string) ([]entities.Event, error)
}
