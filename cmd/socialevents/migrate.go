package main

import (
	"context"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"socialevents/internal/config"
	"socialevents/internal/infrastructure/database/mongodb"
	"socialevents/internal/infrastructure/database/postgres"
	"socialevents/internal/logger"
)

func migrate() cli.Command {
	return cli.Command{
		Name:  "migrate",
		Usage: "apply the schema (postgres) or create the indexes (mongo) and exit",
		Flags: envFileFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(envFiles(c)...)
			if err != nil {
				return err
			}
			if err := logger.Setup("socialevents.migrate", cfg.LogLevel); err != nil {
				return err
			}
			return runMigrations(context.Background(), cfg)
		},
	}
}

func runMigrations(ctx context.Context, cfg *config.Config) error {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return postgres.RunMigrations(cfg.DatabaseURL)
	case config.DriverMongo:
		conn := mongodb.NewConnector(cfg.MongoConnectionURI(), cfg.MongoDatabase)
		defer func() {
			grip.Warning(message.WrapError(conn.Close(ctx), "closing mongo connection"))
		}()
		db, err := conn.Database(ctx)
		if err != nil {
			return err
		}
		return errors.Wrap(mongodb.EnsureIndexes(ctx, db), "ensuring indexes")
	default:
		grip.Info(message.Fields{
			"message": "nothing to migrate",
			"store":   cfg.StoreDriver,
		})
		return nil
	}
}
