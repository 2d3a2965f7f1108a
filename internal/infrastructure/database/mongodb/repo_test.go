package mongodb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialevents/internal/domain"
	"socialevents/internal/domain/entities"
)

// RepositorySuite runs against a real deployment and is skipped unless
// SOCIALEVENTS_TEST_MONGO_URI is set.
type RepositorySuite struct {
	suite.Suite
	ctx            context.Context
	conn           *Connector
	events         *EventRepository
	participations *ParticipationRepository
}

func TestRepositorySuiteWithDB(t *testing.T) {
	uri := os.Getenv("SOCIALEVENTS_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("SOCIALEVENTS_TEST_MONGO_URI not set")
	}
	s := new(RepositorySuite)
	s.conn = NewConnector(uri, fmt.Sprintf("socialevents_test_%d", time.Now().UnixNano()))
	suite.Run(t, s)
}

func (s *RepositorySuite) SetupSuite() {
	s.ctx = context.Background()
	s.events = NewEventRepository(s.conn)
	s.participations = NewParticipationRepository(s.conn)
	s.Require().NoError(s.conn.Ping(s.ctx))
}

func (s *RepositorySuite) TearDownSuite() {
	db, err := s.conn.Database(s.ctx)
	if err == nil {
		s.NoError(db.Drop(s.ctx))
	}
	s.NoError(s.conn.Close(s.ctx))
}

func (s *RepositorySuite) SetupTest() {
	db, err := s.conn.Database(s.ctx)
	s.Require().NoError(err)
	_, err = db.Collection(EventsCollection).DeleteMany(s.ctx, bson.M{})
	s.Require().NoError(err)
	_, err = db.Collection(ParticipationsCollection).DeleteMany(s.ctx, bson.M{})
	s.Require().NoError(err)
}

func (s *RepositorySuite) insert(title string, date time.Time, kind string) primitive.ObjectID {
	e := &entities.Event{Title: title, Date: date, CreatorEmail: "a@x.com", Type: kind}
	ack, err := s.events.Create(s.ctx, e)
	s.Require().NoError(err)
	s.Equal(e.ID, ack.InsertedID)
	return ack.InsertedID
}

func (s *RepositorySuite) TestCreateAndFindByID() {
	date := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
	e := &entities.Event{
		Title:        "Cleanup Drive",
		Date:         date,
		CreatorEmail: "a@x.com",
		Extra:        map[string]any{"location": "Riverside", "capacity": int64(40)},
	}
	ack, err := s.events.Create(s.ctx, e)
	s.Require().NoError(err)

	got, err := s.events.FindByID(s.ctx, ack.InsertedID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("Cleanup Drive", got.Title)
	s.True(date.Equal(got.Date))
	s.Equal("Riverside", got.Extra["location"])
	s.EqualValues(40, got.Extra["capacity"])

	missing, err := s.events.FindByID(s.ctx, primitive.NewObjectID())
	s.NoError(err)
	s.Nil(missing)
}

func (s *RepositorySuite) TestFindUpcoming() {
	now := time.Now().UTC()
	s.insert("Past meetup", now.Add(-time.Hour), "Workshop")
	later := s.insert("Later MEETUP", now.Add(48*time.Hour), "workshop")
	sooner := s.insert("Sooner", now.Add(24*time.Hour), "Social")

	all, err := s.events.FindUpcoming(s.ctx, entities.EventFilter{Now: now})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(sooner, all[0].ID)
	s.Equal(later, all[1].ID)

	byType, err := s.events.FindUpcoming(s.ctx, entities.EventFilter{Now: now, Type: "WORKSHOP"})
	s.Require().NoError(err)
	s.Require().Len(byType, 1)
	s.Equal(later, byType[0].ID)

	bySearch, err := s.events.FindUpcoming(s.ctx, entities.EventFilter{Now: now, Search: "meet"})
	s.Require().NoError(err)
	s.Require().Len(bySearch, 1)
	s.Equal(later, bySearch[0].ID)
}

func (s *RepositorySuite) TestUpdateByID() {
	id := s.insert("Meetup", time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC), "Social")
	date := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	ack, err := s.events.UpdateByID(s.ctx, id, entities.EventPatch{Date: &date})
	s.Require().NoError(err)
	s.Equal(entities.UpdateAck{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, ack)

	got, err := s.events.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.True(date.Equal(got.Date))
	s.Equal("Meetup", got.Title)
	s.Equal("Social", got.Type)

	ack, err = s.events.UpdateByID(s.ctx, id, entities.EventPatch{})
	s.Require().NoError(err)
	s.Equal(entities.UpdateAck{Acknowledged: true, MatchedCount: 1}, ack)
}

func (s *RepositorySuite) TestParticipationUniqueness() {
	e1 := s.insert("E1", time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC), "")
	e2 := s.insert("E2", time.Date(2099, 1, 2, 0, 0, 0, 0, time.UTC), "")

	_, err := s.participations.Create(s.ctx, &entities.Participation{EventID: e1.Hex(), UserEmail: "b@x.com", JoinedAt: time.Now()})
	s.Require().NoError(err)
	joined, err := s.participations.Exists(s.ctx, e1.Hex(), "b@x.com")
	s.Require().NoError(err)
	s.True(joined)
	joined, err = s.participations.Exists(s.ctx, e2.Hex(), "b@x.com")
	s.Require().NoError(err)
	s.False(joined)
	_, err = s.participations.Create(s.ctx, &entities.Participation{EventID: e1.Hex(), UserEmail: "b@x.com", JoinedAt: time.Now()})
	s.ErrorIs(err, domain.ErrAlreadyJoined)
	_, err = s.participations.Create(s.ctx, &entities.Participation{EventID: e2.Hex(), UserEmail: "b@x.com", JoinedAt: time.Now()})
	s.Require().NoError(err)

	records, err := s.participations.FindByUserEmail(s.ctx, "b@x.com")
	s.Require().NoError(err)
	s.Len(records, 2)

	events, err := s.events.FindByIDs(s.ctx, []primitive.ObjectID{e1, e2})
	s.Require().NoError(err)
	s.Len(events, 2)
}
