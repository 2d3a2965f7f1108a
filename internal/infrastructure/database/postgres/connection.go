// Package postgres stores events and participations as rows with a JSONB
// column for client-defined fields. It is the alternative to MongoDB for
// deployments that already run PostgreSQL.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"socialevents/internal/infrastructure/database"
)

// Connector hands out the process-wide pgx pool, created on first use.
type Connector struct {
	handle *database.Handle[*pgxpool.Pool]
}

func NewConnector(dsn string) *Connector {
	return &Connector{
		handle: database.NewHandle("postgres", func(ctx context.Context) (*pgxpool.Pool, error) {
			return newPool(ctx, dsn)
		}),
	}
}

// newPool creates a pgx connection pool and checks it can reach the server.
func newPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "creating postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "pinging postgres")
	}
	return pool, nil
}

// Pool returns the shared pool, dialing if needed.
func (c *Connector) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	return c.handle.Acquire(ctx)
}

func (c *Connector) WarmUp(ctx context.Context) {
	c.handle.WarmUp(ctx)
}

func (c *Connector) Ping(ctx context.Context) error {
	pool, err := c.Pool(ctx)
	if err != nil {
		return err
	}
	return errors.Wrap(pool.Ping(ctx), "pinging postgres")
}

func (c *Connector) Close(context.Context) error {
	if pool, ok := c.handle.Current(); ok {
		pool.Close()
	}
	return nil
}
