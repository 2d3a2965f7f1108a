// Package cache puts a Redis read-through layer in front of an
// output.EventRepository for single-event lookups.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/redis/rueidis"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialevents/internal/domain/entities"
	"socialevents/internal/ports/output"
)

const keyPrefix = "socialevents:event:"

var _ output.EventRepository = (*EventRepository)(nil)

// EventRepository caches FindByID results and drops the entry on update.
// Each event has a generation counter that updates bump; a read-through only
// fills the cache if the generation it saw before reading the database is
// still current, so a slow reader cannot write back a pre-update copy.
// Redis failures are logged and the call falls through to the wrapped
// repository.
type EventRepository struct {
	output.EventRepository
	client rueidis.Client
	ttl    time.Duration
}

// NewEventRepository wraps next. ttl is rounded down to whole seconds with
// a floor of one second.
func NewEventRepository(next output.EventRepository, client rueidis.Client, ttl time.Duration) *EventRepository {
	if ttl < time.Second {
		ttl = time.Second
	}
	return &EventRepository{EventRepository: next, client: client, ttl: ttl}
}

// NewClient connects to the Redis server at addr.
func NewClient(addr string) (rueidis.Client, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{addr},
	})
	return client, errors.Wrapf(err, "connecting to redis at '%s'", addr)
}

func key(id primitive.ObjectID) string {
	return keyPrefix + id.Hex()
}

func generationKey(id primitive.ObjectID) string {
	return key(id) + ":gen"
}

// storeIfCurrent sets KEYS[1] to ARGV[2] with a TTL of ARGV[3] seconds when
// the generation at KEYS[2] still equals ARGV[1]. A missing generation reads
// as the empty string.
var storeIfCurrent = rueidis.NewLuaScript(`
if (redis.call('GET', KEYS[2]) or '') == ARGV[1] then
	return redis.call('SET', KEYS[1], ARGV[2], 'EX', ARGV[3])
end
return 0
`)

type cachedEvent struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Date         time.Time      `json:"date"`
	CreatorEmail string         `json:"creatorEmail"`
	Type         string         `json:"type,omitempty"`
	Extra        map[string]any `json:"extra,omitempty"`
}

func encode(e *entities.Event) ([]byte, error) {
	return json.Marshal(cachedEvent{
		ID:           e.ID.Hex(),
		Title:        e.Title,
		Date:         e.Date,
		CreatorEmail: e.CreatorEmail,
		Type:         e.Type,
		Extra:        e.Extra,
	})
}

func decode(data []byte) (*entities.Event, error) {
	var c cachedEvent
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&c); err != nil {
		return nil, errors.Wrap(err, "decoding cached event")
	}
	for k, v := range c.Extra {
		c.Extra[k] = entities.NormalizeNumber(v)
	}
	id, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return nil, errors.Wrap(err, "decoding cached event id")
	}
	return &entities.Event{
		ID:           id,
		Title:        c.Title,
		Date:         c.Date.UTC(),
		CreatorEmail: c.CreatorEmail,
		Type:         c.Type,
		Extra:        c.Extra,
	}, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entities.Event, error) {
	k := key(id)
	data, err := r.client.Do(ctx, r.client.B().Get().Key(k).Build()).AsBytes()
	switch {
	case err == nil:
		e, decodeErr := decode(data)
		if decodeErr == nil {
			return e, nil
		}
		grip.Warning(message.WrapError(decodeErr, message.Fields{"message": "dropping bad cache entry", "key": k}))
	case !rueidis.IsRedisNil(err):
		grip.Warning(message.WrapError(err, message.Fields{"message": "cache read failed", "key": k}))
	}

	gen, genErr := r.generation(ctx, id)
	event, err := r.EventRepository.FindByID(ctx, id)
	if err != nil || event == nil {
		return event, err
	}
	if genErr != nil {
		grip.Warning(message.WrapError(genErr, message.Fields{"message": "skipping cache fill", "key": k}))
		return event, nil
	}
	r.store(ctx, id, gen, event)
	return event, nil
}

func (r *EventRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, patch entities.EventPatch) (entities.UpdateAck, error) {
	ack, err := r.EventRepository.UpdateByID(ctx, id, patch)
	if err != nil {
		return ack, err
	}
	if ack.ModifiedCount > 0 {
		r.invalidate(ctx, id)
	}
	return ack, nil
}

// generation returns the current generation of id, or "" if it was never
// bumped.
func (r *EventRepository) generation(ctx context.Context, id primitive.ObjectID) (string, error) {
	gen, err := r.client.Do(ctx, r.client.B().Get().Key(generationKey(id)).Build()).ToString()
	if rueidis.IsRedisNil(err) {
		return "", nil
	}
	return gen, errors.Wrap(err, "reading cache generation")
}

// store writes event under its key unless the generation moved past gen.
func (r *EventRepository) store(ctx context.Context, id primitive.ObjectID, gen string, event *entities.Event) {
	k := key(id)
	data, err := encode(event)
	if err != nil {
		grip.Warning(message.WrapError(err, message.Fields{"message": "encoding cache entry", "key": k}))
		return
	}
	ttl := strconv.FormatInt(int64(r.ttl/time.Second), 10)
	err = storeIfCurrent.Exec(ctx, r.client, []string{k, generationKey(id)}, []string{gen, string(data), ttl}).Error()
	if err != nil && !rueidis.IsRedisNil(err) {
		grip.Warning(message.WrapError(err, message.Fields{"message": "cache write failed", "key": k}))
	}
}

// invalidate bumps the generation before deleting the entry, so a fill that
// started before the update is discarded.
func (r *EventRepository) invalidate(ctx context.Context, id primitive.ObjectID) {
	k := key(id)
	if err := r.client.Do(ctx, r.client.B().Incr().Key(generationKey(id)).Build()).Error(); err != nil {
		grip.Warning(message.WrapError(err, message.Fields{"message": "cache generation bump failed", "key": k}))
	}
	if err := r.client.Do(ctx, r.client.B().Del().Key(k).Build()).Error(); err != nil {
		grip.Warning(message.WrapError(err, message.Fields{"message": "cache invalidation failed", "key": k}))
	}
}
