package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialevents/internal/domain"
	"socialevents/internal/domain/entities"
	"socialevents/internal/ports/input"
	"socialevents/internal/ports/output"
)

var _ input.ParticipationUseCase = (*ParticipationService)(nil)

type ParticipationService struct {
	participationRepo output.ParticipationRepository
	eventRepo         output.EventRepository
	now               func() time.Time
}

func NewParticipationService(
	participationRepo output.ParticipationRepository,
	eventRepo output.EventRepository,
) *ParticipationService {
	return &ParticipationService{
		participationRepo: participationRepo,
		eventRepo:         eventRepo,
		now:               time.Now,
	}
}

// JoinEvent records that userEmail joined eventID. An existing record, or a
// duplicate rejected by the store's unique index, is reported as
// AlreadyJoined. The event is not required to exist.
func (s *ParticipationService) JoinEvent(ctx context.Context, eventID primitive.ObjectID, userEmail string) (entities.JoinResult, error) {
	if strings.TrimSpace(userEmail) == "" {
		return entities.JoinResult{}, domain.ErrUserEmailRequired
	}
	joined, err := s.participationRepo.Exists(ctx, eventID.Hex(), userEmail)
	if err != nil {
		return entities.JoinResult{}, err
	}
	if joined {
		return entities.JoinResult{AlreadyJoined: true}, nil
	}
	ack, err := s.participationRepo.Create(ctx, &entities.Participation{
		EventID:   eventID.Hex(),
		UserEmail: userEmail,
		JoinedAt:  s.now().UTC(),
	})
	if errors.Is(err, domain.ErrAlreadyJoined) {
		return entities.JoinResult{AlreadyJoined: true}, nil
	}
	if err != nil {
		return entities.JoinResult{}, err
	}
	return entities.JoinResult{Ack: &ack}, nil
}

// ListJoinedEventIDs returns the identifiers of every event the user joined.
// Records whose stored event id is not a valid identifier are skipped.
func (s *ParticipationService) ListJoinedEventIDs(ctx context.Context, userEmail string) ([]primitive.ObjectID, error) {
	records, err := s.participationRepo.FindByUserEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(records))
	for _, r := range records {
		id, err := entities.ParseEventID(r.EventID)
		if err != nil {
			grip.Warning(message.Fields{
				"message":    "skipping participation with malformed event id",
				"record_id":  r.ID.Hex(),
				"event_id":   r.EventID,
				"user_email": userEmail,
			})
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ListJoinedEvents resolves the user's joined event ids to events, in store
// order.
func (s *ParticipationService) ListJoinedEvents(ctx context.Context, userEmail string) ([]entities.Event, error) {
	ids, err := s.ListJoinedEventIDs(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []entities.Event{}, nil
	}
	return s.eventRepo.FindByIDs(ctx, ids)
}
