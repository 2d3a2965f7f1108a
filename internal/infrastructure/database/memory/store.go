// Package memory is an in-process store used for local runs and tests. It
// honors the same contracts as the document stores, including the unique
// (eventId, userEmail) participation constraint.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialevents/internal/domain"
	"socialevents/internal/domain/entities"
	"socialevents/internal/ports/output"
)

var (
	_ output.EventRepository         = (*EventRepository)(nil)
	_ output.ParticipationRepository = (*ParticipationRepository)(nil)
)

type participationKey struct {
	eventID   string
	userEmail string
}

// Store holds both collections behind one lock.
type Store struct {
	mu             sync.RWMutex
	events         []entities.Event
	participations []entities.Participation
	joined         map[participationKey]struct{}
}

func NewStore() *Store {
	return &Store{joined: make(map[participationKey]struct{})}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Events returns a repository over the events collection.
func (s *Store) Events() *EventRepository { return &EventRepository{s: s} }

// Participations returns a repository over the participations collection.
func (s *Store) Participations() *ParticipationRepository { return &ParticipationRepository{s: s} }

// EventCount and ParticipationCount report collection sizes.
func (s *Store) EventCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

func (s *Store) ParticipationCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.participations)
}

type EventRepository struct {
	s *Store
}

func (r *EventRepository) Create(_ context.Context, event *entities.Event) (entities.InsertAck, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	r.s.events = append(r.s.events, cloneEvent(*event))
	return entities.InsertAck{Acknowledged: true, InsertedID: event.ID}, nil
}

func (r *EventRepository) FindUpcoming(_ context.Context, filter entities.EventFilter) ([]entities.Event, error) {
	return r.collect(filter.Matches, true), nil
}

func (r *EventRepository) FindByID(_ context.Context, id primitive.ObjectID) (*entities.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for i := range r.s.events {
		if r.s.events[i].ID == id {
			e := cloneEvent(r.s.events[i])
			return &e, nil
		}
	}
	return nil, nil
}

func (r *EventRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]entities.Event, error) {
	return r.collect(func(e entities.Event) bool {
		return slices.Contains(ids, e.ID)
	}, false), nil
}

func (r *EventRepository) FindByCreatorEmail(_ context.Context, email string) ([]entities.Event, error) {
	return r.collect(func(e entities.Event) bool {
		return e.CreatorEmail == email
	}, true), nil
}

func (r *EventRepository) UpdateByID(_ context.Context, id primitive.ObjectID, patch entities.EventPatch) (entities.UpdateAck, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ack := entities.UpdateAck{Acknowledged: true}
	for i := range r.s.events {
		if r.s.events[i].ID != id {
			continue
		}
		ack.MatchedCount = 1
		before := r.s.events[i]
		patch.Apply(&r.s.events[i])
		after := r.s.events[i]
		if before.Title != after.Title || !before.Date.Equal(after.Date) ||
			before.CreatorEmail != after.CreatorEmail || before.Type != after.Type {
			ack.ModifiedCount = 1
		}
		break
	}
	return ack, nil
}

func (r *EventRepository) collect(keep func(entities.Event) bool, byDate bool) []entities.Event {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]entities.Event, 0)
	for _, e := range r.s.events {
		if keep(e) {
			out = append(out, cloneEvent(e))
		}
	}
	if byDate {
		slices.SortStableFunc(out, func(a, b entities.Event) int {
			return a.Date.Compare(b.Date)
		})
	}
	return out
}

type ParticipationRepository struct {
	s *Store
}

func (r *ParticipationRepository) Exists(_ context.Context, eventID, userEmail string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.joined[participationKey{eventID: eventID, userEmail: userEmail}]
	return ok, nil
}

func (r *ParticipationRepository) Create(_ context.Context, p *entities.Participation) (entities.InsertAck, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := participationKey{eventID: p.EventID, userEmail: p.UserEmail}
	if _, ok := r.s.joined[key]; ok {
		return entities.InsertAck{}, domain.ErrAlreadyJoined
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.s.joined[key] = struct{}{}
	r.s.participations = append(r.s.participations, *p)
	return entities.InsertAck{Acknowledged: true, InsertedID: p.ID}, nil
}

func (r *ParticipationRepository) FindByUserEmail(_ context.Context, email string) ([]entities.Participation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]entities.Participation, 0)
	for _, p := range r.s.participations {
		if p.UserEmail == email {
			out = append(out, p)
		}
	}
	return out, nil
}

// Seed stores a participation as-is, bypassing validation. Used to reproduce
// records written by older clients.
func (r *ParticipationRepository) Seed(p entities.Participation) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.s.joined[participationKey{eventID: p.EventID, userEmail: p.UserEmail}] = struct{}{}
	r.s.participations = append(r.s.participations, p)
}

func cloneEvent(e entities.Event) entities.Event {
	e.Extra = maps.Clone(e.Extra)
	return e
}
