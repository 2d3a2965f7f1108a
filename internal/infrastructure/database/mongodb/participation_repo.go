package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"socialevents/internal/domain"
	"socialevents/internal/domain/entities"
	"socialevents/internal/ports/output"
)

var _ output.ParticipationRepository = (*ParticipationRepository)(nil)

// ParticipationRepository implements output.ParticipationRepository on the
// joinedUsers collection. Uniqueness comes from ParticipationUniqueIndex.
type ParticipationRepository struct {
	conn *Connector
}

func NewParticipationRepository(conn *Connector) *ParticipationRepository {
	return &ParticipationRepository{conn: conn}
}

// Exists looks the pair up directly, so a join stays idempotent even when the
// unique index could not be built over legacy duplicates.
func (r *ParticipationRepository) Exists(ctx context.Context, eventID, userEmail string) (bool, error) {
	coll, err := r.conn.collection(ctx, ParticipationsCollection)
	if err != nil {
		return false, err
	}
	n, err := coll.CountDocuments(ctx,
		bson.M{"eventId": eventID, "userEmail": userEmail},
		options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Wrapf(err, "checking participation of '%s' in '%s'", userEmail, eventID)
	}
	return n > 0, nil
}

func (r *ParticipationRepository) Create(ctx context.Context, p *entities.Participation) (entities.InsertAck, error) {
	coll, err := r.conn.collection(ctx, ParticipationsCollection)
	if err != nil {
		return entities.InsertAck{}, err
	}
	res, err := coll.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return entities.InsertAck{}, domain.ErrAlreadyJoined
	}
	if err != nil {
		return entities.InsertAck{}, errors.Wrap(err, "inserting participation")
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return entities.InsertAck{}, errors.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	p.ID = oid
	return entities.InsertAck{Acknowledged: true, InsertedID: oid}, nil
}

func (r *ParticipationRepository) FindByUserEmail(ctx context.Context, email string) ([]entities.Participation, error) {
	coll, err := r.conn.collection(ctx, ParticipationsCollection)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.M{"userEmail": email})
	if err != nil {
		return nil, errors.Wrapf(err, "finding participations of '%s'", email)
	}
	out := make([]entities.Participation, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrapf(err, "decoding participations of '%s'", email)
	}
	return out, nil
}
