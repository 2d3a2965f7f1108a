package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialevents/internal/domain/entities"
	"socialevents/internal/infrastructure/database/memory"
	"socialevents/internal/ports/output"
)

func TestEncodeDecode(t *testing.T) {
	e := &entities.Event{
		ID:           primitive.NewObjectID(),
		Title:        "Cleanup Drive",
		Date:         time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC),
		CreatorEmail: "a@x.com",
		Type:         "Volunteer",
		Extra:        map[string]any{"location": "Riverside"},
	}
	data, err := encode(e)
	require.NoError(t, err)

	got, err := decode(data)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	_, err = decode([]byte(`{"id":"nope"}`))
	assert.Error(t, err)
}

func TestDecodeKeepsLargeIntegers(t *testing.T) {
	e := &entities.Event{
		ID:           primitive.NewObjectID(),
		Title:        "Concert",
		Date:         time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC),
		CreatorEmail: "a@x.com",
		Extra: map[string]any{
			"ticketNo": int64(12345678901234567),
			"price":    12.5,
			"seats":    map[string]any{"row": int64(9007199254740993)},
			"tags":     []any{"music", int64(3)},
		},
	}
	direct, err := json.Marshal(e)
	require.NoError(t, err)

	data, err := encode(e)
	require.NoError(t, err)
	got, err := decode(data)
	require.NoError(t, err)
	cached, err := json.Marshal(got)
	require.NoError(t, err)

	assert.Equal(t, string(direct), string(cached))
	assert.Contains(t, string(cached), `"ticketNo":12345678901234567`)
	assert.Equal(t, int64(12345678901234567), got.Extra["ticketNo"])
}

type countingRepo struct {
	output.EventRepository
	finds int
}

func (c *countingRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*entities.Event, error) {
	c.finds++
	return c.EventRepository.FindByID(ctx, id)
}

func TestEventRepositoryWithRedis(t *testing.T) {
	addr := os.Getenv("SOCIALEVENTS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SOCIALEVENTS_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := NewClient(addr)
	require.NoError(t, err)
	defer client.Close()

	next := &countingRepo{EventRepository: memory.NewStore().Events()}
	repo := NewEventRepository(next, client, time.Minute)

	ack, err := repo.Create(ctx, &entities.Event{
		Title:        fmt.Sprintf("Cache test %d", time.Now().UnixNano()),
		Date:         time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC),
		CreatorEmail: "a@x.com",
	})
	require.NoError(t, err)
	defer client.Do(ctx, client.B().Del().Key(key(ack.InsertedID), generationKey(ack.InsertedID)).Build())

	first, err := repo.FindByID(ctx, ack.InsertedID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, ack.InsertedID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.finds)

	title := "Renamed"
	_, err = repo.UpdateByID(ctx, ack.InsertedID, entities.EventPatch{Title: &title})
	require.NoError(t, err)

	third, err := repo.FindByID(ctx, ack.InsertedID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", third.Title)
	assert.Equal(t, 2, next.finds)

	missing, err := repo.FindByID(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStaleFillAfterUpdateIsDropped(t *testing.T) {
	addr := os.Getenv("SOCIALEVENTS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SOCIALEVENTS_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := NewClient(addr)
	require.NoError(t, err)
	defer client.Close()

	repo := NewEventRepository(memory.NewStore().Events(), client, time.Minute)
	ack, err := repo.Create(ctx, &entities.Event{
		Title:        "Before",
		Date:         time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC),
		CreatorEmail: "a@x.com",
	})
	require.NoError(t, err)
	id := ack.InsertedID
	defer client.Do(ctx, client.B().Del().Key(key(id), generationKey(id)).Build())

	// A reader that looked at the generation and the database before the
	// update finishes its fill after it.
	gen, err := repo.generation(ctx, id)
	require.NoError(t, err)
	stale, err := repo.EventRepository.FindByID(ctx, id)
	require.NoError(t, err)

	title := "After"
	_, err = repo.UpdateByID(ctx, id, entities.EventPatch{Title: &title})
	require.NoError(t, err)

	repo.store(ctx, id, gen, stale)
	_, err = client.Do(ctx, client.B().Get().Key(key(id)).Build()).AsBytes()
	assert.True(t, rueidis.IsRedisNil(err))

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)

	cached, err := client.Do(ctx, client.B().Get().Key(key(id)).Build()).AsBytes()
	require.NoError(t, err)
	fromCache, err := decode(cached)
	require.NoError(t, err)
	assert.Equal(t, "After", fromCache.Title)
}
