package mongodb

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialevents/internal/domain/entities"
)

// upcomingFilter translates an EventFilter into a query document. Client text
// is quoted so it is always matched literally.
func upcomingFilter(f entities.EventFilter) bson.M {
	filter := bson.M{"date": bson.M{"$gte": f.Now}}
	if t := f.TypeFilter(); t != "" {
		filter["type"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(t) + "$", Options: "i"}
	}
	if f.Search != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	return filter
}

// patchSet lists the fields a patch assigns.
func patchSet(p entities.EventPatch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Date != nil {
		set["date"] = *p.Date
	}
	if p.CreatorEmail != nil {
		set["creatorEmail"] = *p.CreatorEmail
	}
	if p.Type != nil {
		set["type"] = *p.Type
	}
	return set
}

// normalizeEvent reads dates back as UTC and rewrites driver-specific values
// in the extra fields into plain Go values so they encode as regular JSON.
func normalizeEvent(e *entities.Event) {
	e.Date = e.Date.UTC()
	for k, v := range e.Extra {
		e.Extra[k] = normalizeValue(v)
	}
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, elem := range t {
			m[elem.Key] = normalizeValue(elem.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = normalizeValue(inner)
		}
		return m
	case map[string]any:
		for k, inner := range t {
			t[k] = normalizeValue(inner)
		}
		return t
	case primitive.A:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = normalizeValue(inner)
		}
		return out
	case []any:
		for i, inner := range t {
			t[i] = normalizeValue(inner)
		}
		return t
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Decimal128:
		return t.String()
	default:
		return v
	}
}
