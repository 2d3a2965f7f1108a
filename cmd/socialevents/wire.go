package main

import (
	"context"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/redis/rueidis"

	"socialevents/internal/adapters/discord"
	"socialevents/internal/adapters/rest"
	"socialevents/internal/config"
	"socialevents/internal/infrastructure/cache"
	"socialevents/internal/infrastructure/database/memory"
	"socialevents/internal/infrastructure/database/mongodb"
	"socialevents/internal/infrastructure/database/postgres"
	"socialevents/internal/ports/output"
	"socialevents/pkg/tz"
)

// dependencies are the adapters selected by the configuration.
type dependencies struct {
	events         output.EventRepository
	participations output.ParticipationRepository
	announcer      output.EventAnnouncer
	health         rest.HealthChecker

	warmUpFn func(ctx context.Context)
	closers  []func(ctx context.Context) error
}

func wire(cfg *config.Config, translator output.Translator) (*dependencies, error) {
	deps := &dependencies{}

	switch cfg.StoreDriver {
	case config.DriverMongo:
		conn := mongodb.NewConnector(cfg.MongoConnectionURI(), cfg.MongoDatabase)
		deps.events = mongodb.NewEventRepository(conn)
		deps.participations = mongodb.NewParticipationRepository(conn)
		deps.health = conn
		deps.warmUpFn = conn.WarmUp
		deps.closers = append(deps.closers, conn.Close)
	case config.DriverPostgres:
		conn := postgres.NewConnector(cfg.DatabaseURL)
		deps.events = postgres.NewEventRepository(conn)
		deps.participations = postgres.NewParticipationRepository(conn)
		deps.health = conn
		deps.warmUpFn = conn.WarmUp
		deps.closers = append(deps.closers, conn.Close)
	default:
		store := memory.NewStore()
		deps.events = store.Events()
		deps.participations = store.Participations()
		deps.health = store
	}

	if cfg.CacheEnabled() {
		client, err := cache.NewClient(cfg.RedisAddr)
		if err != nil {
			grip.Warning(message.WrapError(err, "running without the event cache"))
		} else {
			deps.events = cache.NewEventRepository(deps.events, client, cfg.CacheTTL)
			deps.closers = append(deps.closers, closeRedis(client))
		}
	}

	if cfg.AnnouncerEnabled() {
		loc, err := tz.Load(cfg.DisplayTimezone)
		if err != nil {
			return nil, err
		}
		announcer, err := discord.NewAnnouncer(cfg.DiscordToken, cfg.DiscordChannelID, translator, cfg.DefaultLocale, loc)
		if err != nil {
			return nil, err
		}
		deps.announcer = announcer
	}

	return deps, nil
}

func closeRedis(client rueidis.Client) func(context.Context) error {
	return func(context.Context) error {
		client.Close()
		return nil
	}
}

// warmUp dials the store once so the first request does not pay for it.
// Failures are logged and the next request retries.
func (d *dependencies) warmUp(ctx context.Context) {
	if d.warmUpFn != nil {
		d.warmUpFn(ctx)
	}
}

func (d *dependencies) close(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	for i := len(d.closers) - 1; i >= 0; i-- {
		grip.Warning(message.WrapError(d.closers[i](ctx), "closing dependency"))
	}
}
