package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialevents/internal/domain/entities"
	"socialevents/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

// EventRepository implements output.EventRepository on the events table.
type EventRepository struct {
	conn *Connector
}

func NewEventRepository(conn *Connector) *EventRepository {
	return &EventRepository{conn: conn}
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) (entities.InsertAck, error) {
	pool, err := r.conn.Pool(ctx)
	if err != nil {
		return entities.InsertAck{}, err
	}
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	extra := event.Extra
	if extra == nil {
		extra = map[string]any{}
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO events (`+eventColumns+`) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`,
		event.ID.Hex(), event.Title, event.Date, event.CreatorEmail, event.Type, extra)
	if err != nil {
		return entities.InsertAck{}, errors.Wrap(err, "inserting event")
	}
	return entities.InsertAck{Acknowledged: true, InsertedID: event.ID}, nil
}

func (r *EventRepository) FindUpcoming(ctx context.Context, filter entities.EventFilter) ([]entities.Event, error) {
	events, err := r.query(ctx,
		`SELECT `+eventColumns+` FROM events
		WHERE date >= $1
		  AND ($2 = '' OR lower(type) = lower($2))
		  AND ($3 = '' OR strpos(lower(title), lower($3)) > 0)
		ORDER BY date ASC`,
		filter.Now, filter.TypeFilter(), filter.Search)
	return events, errors.Wrap(err, "finding upcoming events")
}

func (r *EventRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entities.Event, error) {
	events, err := r.query(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id.Hex())
	if err != nil {
		return nil, errors.Wrapf(err, "finding event '%s'", id.Hex())
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

func (r *EventRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entities.Event, error) {
	if len(ids) == 0 {
		return []entities.Event{}, nil
	}
	hex := make([]string, len(ids))
	for i, id := range ids {
		hex[i] = id.Hex()
	}
	events, err := r.query(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ANY($1)`, hex)
	return events, errors.Wrap(err, "finding events by id")
}

func (r *EventRepository) FindByCreatorEmail(ctx context.Context, email string) ([]entities.Event, error) {
	events, err := r.query(ctx,
		`SELECT `+eventColumns+` FROM events WHERE creator_email = $1 ORDER BY date ASC`, email)
	return events, errors.Wrapf(err, "finding events created by '%s'", email)
}

func (r *EventRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, patch entities.EventPatch) (entities.UpdateAck, error) {
	pool, err := r.conn.Pool(ctx)
	if err != nil {
		return entities.UpdateAck{}, err
	}
	ack := entities.UpdateAck{Acknowledged: true}
	if !patch.IsEmpty() {
		sql, args := buildUpdate(id.Hex(), patch)
		tag, err := pool.Exec(ctx, sql, args...)
		if err != nil {
			return entities.UpdateAck{}, errors.Wrapf(err, "updating event '%s'", id.Hex())
		}
		if tag.RowsAffected() > 0 {
			ack.MatchedCount = tag.RowsAffected()
			ack.ModifiedCount = tag.RowsAffected()
			return ack, nil
		}
	}

	var exists bool
	if err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, id.Hex()).Scan(&exists); err != nil {
		return entities.UpdateAck{}, errors.Wrapf(err, "checking event '%s'", id.Hex())
	}
	if exists {
		ack.MatchedCount = 1
	}
	return ack, nil
}

func (r *EventRepository) query(ctx context.Context, sql string, args ...any) ([]entities.Event, error) {
	pool, err := r.conn.Pool(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	events, err := pgx.CollectRows(rows, scanEvent)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []entities.Event{}
	}
	return events, nil
}
