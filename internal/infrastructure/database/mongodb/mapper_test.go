package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialevents/internal/domain/entities"
)

func TestUpcomingFilter(t *testing.T) {
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, bson.M{"date": bson.M{"$gte": now}}, upcomingFilter(entities.EventFilter{Now: now, Type: "All"}))

	f := upcomingFilter(entities.EventFilter{Now: now, Type: "Workshop", Search: "c++ (meet)"})
	assert.Equal(t, primitive.Regex{Pattern: "^Workshop$", Options: "i"}, f["type"])
	assert.Equal(t, primitive.Regex{Pattern: `c\+\+ \(meet\)`, Options: "i"}, f["title"])
}

func TestPatchSet(t *testing.T) {
	assert.Empty(t, patchSet(entities.EventPatch{}))

	date := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	kind := "Workshop"
	assert.Equal(t, bson.M{"date": date, "type": "Workshop"}, patchSet(entities.EventPatch{Date: &date, Type: &kind}))
}

func TestNormalizeEvent(t *testing.T) {
	when := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	e := entities.Event{
		Date: when.In(time.FixedZone("X", 3600)),
		Extra: map[string]any{
			"venue":   primitive.D{{Key: "name", Value: "Hall"}, {Key: "seats", Value: int32(40)}},
			"tags":    primitive.A{"a", primitive.M{"b": primitive.NewDateTimeFromTime(when)}},
			"count":   int64(3),
			"created": primitive.NewDateTimeFromTime(when),
		},
	}
	normalizeEvent(&e)

	assert.Equal(t, time.UTC, e.Date.Location())
	assert.Equal(t, map[string]any{"name": "Hall", "seats": int32(40)}, e.Extra["venue"])
	assert.Equal(t, []any{"a", map[string]any{"b": when}}, e.Extra["tags"])
	assert.Equal(t, int64(3), e.Extra["count"])
	assert.Equal(t, when, e.Extra["created"])
}
