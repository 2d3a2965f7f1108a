// Package mongodb stores events and participations in MongoDB, the primary
// document store of the service.
package mongodb

import (
	"context"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"socialevents/internal/infrastructure/database"
)

const (
	EventsCollection         = "events"
	ParticipationsCollection = "joinedUsers"

	connectTimeout = 10 * time.Second
)

// Connector hands out the process-wide database handle. The client is dialed
// on first use and kept until Close.
type Connector struct {
	handle *database.Handle[*mongo.Database]
}

// NewConnector prepares a connector for uri/dbName without dialing.
func NewConnector(uri, dbName string) *Connector {
	return &Connector{
		handle: database.NewHandle("mongodb", func(ctx context.Context) (*mongo.Database, error) {
			return dial(ctx, uri, dbName)
		}),
	}
}

func dial(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1).
			SetStrict(true).
			SetDeprecationErrors(true))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "pinging mongodb deployment")
	}

	db := client.Database(dbName)
	if err := EnsureIndexes(ctx, db); err != nil {
		grip.Warning(message.WrapError(err, message.Fields{
			"message":  "could not ensure indexes; duplicate joins will not be rejected",
			"database": dbName,
		}))
	}
	return db, nil
}

// Database returns the shared database handle, dialing if needed.
func (c *Connector) Database(ctx context.Context) (*mongo.Database, error) {
	return c.handle.Acquire(ctx)
}

func (c *Connector) collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := c.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// WarmUp dials at startup; see database.Handle.WarmUp.
func (c *Connector) WarmUp(ctx context.Context) {
	c.handle.WarmUp(ctx)
}

// Ping checks that the deployment is reachable.
func (c *Connector) Ping(ctx context.Context) error {
	db, err := c.Database(ctx)
	if err != nil {
		return err
	}
	return errors.Wrap(db.Client().Ping(ctx, nil), "pinging mongodb")
}

// Close disconnects the client if one was established.
func (c *Connector) Close(ctx context.Context) error {
	db, ok := c.handle.Current()
	if !ok {
		return nil
	}
	return errors.Wrap(db.Client().Disconnect(ctx), "disconnecting from mongodb")
}
