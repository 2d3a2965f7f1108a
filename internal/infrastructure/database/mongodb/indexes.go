package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ParticipationUniqueIndex guarantees one participation per event and user.
const ParticipationUniqueIndex = "eventId_1_userEmail_1_unique"

// EnsureIndexes creates the indexes the repositories rely on. Creating an
// existing index is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(EventsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "creatorEmail", Value: 1}, {Key: "date", Value: 1}}},
	})
	if err != nil {
		return errors.Wrapf(err, "creating indexes on '%s'", EventsCollection)
	}

	_, err = db.Collection(ParticipationsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}, {Key: "userEmail", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(ParticipationUniqueIndex),
		},
		{Keys: bson.D{{Key: "userEmail", Value: 1}}},
	})
	if err != nil {
		return errors.Wrapf(err, "creating indexes on '%s'", ParticipationsCollection)
	}
	return nil
}
