package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"socialevents/internal/domain/entities"
	"socialevents/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

// EventRepository implements output.EventRepository on the events collection.
type EventRepository struct {
	conn *Connector
}

func NewEventRepository(conn *Connector) *EventRepository {
	return &EventRepository{conn: conn}
}

var byDateAscending = bson.D{{Key: "date", Value: 1}}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) (entities.InsertAck, error) {
	coll, err := r.conn.collection(ctx, EventsCollection)
	if err != nil {
		return entities.InsertAck{}, err
	}
	res, err := coll.InsertOne(ctx, event)
	if err != nil {
		return entities.InsertAck{}, errors.Wrap(err, "inserting event")
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return entities.InsertAck{}, errors.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	event.ID = oid
	return entities.InsertAck{Acknowledged: true, InsertedID: oid}, nil
}

func (r *EventRepository) FindUpcoming(ctx context.Context, filter entities.EventFilter) ([]entities.Event, error) {
	events, err := r.find(ctx, upcomingFilter(filter), options.Find().SetSort(byDateAscending))
	return events, errors.Wrap(err, "finding upcoming events")
}

func (r *EventRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entities.Event, error) {
	coll, err := r.conn.collection(ctx, EventsCollection)
	if err != nil {
		return nil, err
	}
	var e entities.Event
	err = coll.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "finding event '%s'", id.Hex())
	}
	normalizeEvent(&e)
	return &e, nil
}

func (r *EventRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entities.Event, error) {
	if len(ids) == 0 {
		return []entities.Event{}, nil
	}
	events, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return events, errors.Wrap(err, "finding events by id")
}

func (r *EventRepository) FindByCreatorEmail(ctx context.Context, email string) ([]entities.Event, error) {
	events, err := r.find(ctx, bson.M{"creatorEmail": email}, options.Find().SetSort(byDateAscending))
	return events, errors.Wrapf(err, "finding events created by '%s'", email)
}

func (r *EventRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, patch entities.EventPatch) (entities.UpdateAck, error) {
	coll, err := r.conn.collection(ctx, EventsCollection)
	if err != nil {
		return entities.UpdateAck{}, err
	}
	query := bson.M{"_id": id}

	// An empty $set is rejected by the server; report the match only.
	if patch.IsEmpty() {
		n, err := coll.CountDocuments(ctx, query)
		if err != nil {
			return entities.UpdateAck{}, errors.Wrapf(err, "counting event '%s'", id.Hex())
		}
		return entities.UpdateAck{Acknowledged: true, MatchedCount: n}, nil
	}

	res, err := coll.UpdateOne(ctx, query, bson.M{"$set": patchSet(patch)})
	if err != nil {
		return entities.UpdateAck{}, errors.Wrapf(err, "updating event '%s'", id.Hex())
	}
	return entities.UpdateAck{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (r *EventRepository) find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]entities.Event, error) {
	coll, err := r.conn.collection(ctx, EventsCollection)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Event, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		normalizeEvent(&out[i])
	}
	return out, nil
}
