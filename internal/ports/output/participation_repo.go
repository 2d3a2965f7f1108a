package output

import (
	"context"

	"socialevents/internal/domain/entities"
)

// ParticipationRepository persists join records. Create should return
// domain.ErrAlreadyJoined when the store rejects a second record for the same
// event and user; stores that cannot enforce it rely on Exists.
type ParticipationRepository interface {
	Exists(ctx context.Context, eventID, userEmail string) (bool, error)
	Create(ctx context.Context, participation *entities.Participation) (entities.InsertAck, error)
	FindByUserEmail(ctx context.Context, email string) ([]entities.Participation, error)
}
