package application

import (
	"context"
	"strings"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialevents/internal/domain"
	"socialevents/internal/domain/entities"
	"socialevents/internal/ports/input"
	"socialevents/internal/ports/output"
	"socialevents/pkg/datetime"
)

var _ input.EventUseCase = (*EventService)(nil)

type EventService struct {
	eventRepo output.EventRepository
	announcer output.EventAnnouncer
	now       func() time.Time
}

// NewEventService builds the event use cases. announcer may be nil.
func NewEventService(eventRepo output.EventRepository, announcer output.EventAnnouncer) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		announcer: announcer,
		now:       time.Now,
	}
}

// CreateEvent checks the required fields, coerces the date and stores the
// event with its extra fields untouched.
func (s *EventService) CreateEvent(ctx context.Context, draft entities.EventDraft) (entities.InsertAck, error) {
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.CreatorEmail) == "" || datetime.IsEmpty(draft.Date) {
		return entities.InsertAck{}, domain.ErrMissingRequiredFields
	}
	date, err := datetime.Parse(draft.Date)
	if err != nil {
		return entities.InsertAck{}, err
	}

	event := &entities.Event{
		Title:        draft.Title,
		Date:         date,
		CreatorEmail: draft.CreatorEmail,
		Type:         draft.Type,
		Extra:        draft.Extra,
	}
	ack, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		return entities.InsertAck{}, err
	}

	if s.announcer != nil {
		if err := s.announcer.AnnounceEvent(ctx, *event); err != nil {
			grip.Warning(message.WrapError(err, message.Fields{
				"message":  "could not announce new event",
				"event_id": event.ID.Hex(),
			}))
		}
	}
	return ack, nil
}

// ListUpcomingEvents returns events dated now or later, earliest first.
func (s *EventService) ListUpcomingEvents(ctx context.Context, eventType, search string) ([]entities.Event, error) {
	return s.eventRepo.FindUpcoming(ctx, entities.EventFilter{
		Type:   eventType,
		Search: search,
		Now:    s.now(),
	})
}

func (s *EventService) GetEventByID(ctx context.Context, id primitive.ObjectID) (*entities.Event, error) {
	return s.eventRepo.FindByID(ctx, id)
}

func (s *EventService) GetEventsByCreatorEmail(ctx context.Context, email string) ([]entities.Event, error) {
	return s.eventRepo.FindByCreatorEmail(ctx, email)
}

// UpdateEvent applies the supplied fields only. Required fields are not
// re-checked on update.
func (s *EventService) UpdateEvent(ctx context.Context, id primitive.ObjectID, in entities.EventPatchInput) (entities.UpdateAck, error) {
	patch := entities.EventPatch{
		Title:        in.Title,
		CreatorEmail: in.CreatorEmail,
		Type:         in.Type,
	}
	if in.Date != nil {
		date, err := datetime.Parse(in.Date)
		if err != nil {
			return entities.UpdateAck{}, err
		}
		patch.Date = &date
	}
	return s.eventRepo.UpdateByID(ctx, id, patch)
}
