package entities

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TypeFilterAll is the category sentinel meaning "no type filter".
const TypeFilterAll = "all"

// Event is a social/development activity. Fields the service does not know
// about are kept in Extra and persisted as they were received.
type Event struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Date         time.Time          `bson:"date"`
	CreatorEmail string             `bson:"creatorEmail"`
	Type         string             `bson:"type,omitempty"`
	Extra        map[string]any     `bson:",inline"`
}

// knownEventFields are the JSON keys owned by Event itself.
var knownEventFields = map[string]struct{}{
	"_id":          {},
	"title":        {},
	"date":         {},
	"creatorEmail": {},
	"type":         {},
}

// MarshalJSON flattens Extra next to the known fields, the same shape the
// document has in the store.
func (e Event) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extra)+5)
	for k, v := range e.Extra {
		if _, known := knownEventFields[k]; known {
			continue
		}
		out[k] = v
	}
	out["_id"] = e.ID
	out["title"] = e.Title
	out["date"] = e.Date
	out["creatorEmail"] = e.CreatorEmail
	if e.Type != "" {
		out["type"] = e.Type
	}
	return json.Marshal(out)
}

// EventDraft is the payload of a new event as sent by a client, before the
// date is coerced and required fields are checked.
type EventDraft struct {
	Title        string
	Date         any
	CreatorEmail string
	Type         string
	Extra        map[string]any
}

// UnmarshalJSON reads the known fields and keeps every other key in Extra.
// A client-supplied "_id" is dropped: identifiers are server generated.
func (d *EventDraft) UnmarshalJSON(b []byte) error {
	var known struct {
		Title        string `json:"title"`
		CreatorEmail string `json:"creatorEmail"`
		Type         string `json:"type"`
	}
	if err := json.Unmarshal(b, &known); err != nil {
		return err
	}

	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	d.Title = known.Title
	d.CreatorEmail = known.CreatorEmail
	d.Type = known.Type
	d.Date = raw["date"]
	d.Extra = nil
	for k, v := range raw {
		if _, ok := knownEventFields[k]; ok {
			continue
		}
		if d.Extra == nil {
			d.Extra = make(map[string]any)
		}
		d.Extra[k] = NormalizeNumber(v)
	}
	return nil
}

// NormalizeNumber turns json.Number values, including those nested in maps
// and slices, back into int64 or float64 so they are stored as numbers rather
// than strings. Decoders should run with UseNumber so large integers survive.
func NormalizeNumber(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case map[string]any:
		for k, inner := range n {
			n[k] = NormalizeNumber(inner)
		}
		return n
	case []any:
		for i, inner := range n {
			n[i] = NormalizeNumber(inner)
		}
		return n
	default:
		return v
	}
}

// EventPatchInput is the body of an update request: a sparse set of the
// editable fields. Keys outside this set are ignored.
type EventPatchInput struct {
	Title        *string `json:"title"`
	Date         any     `json:"date"`
	CreatorEmail *string `json:"creatorEmail"`
	Type         *string `json:"type"`
}

// EventPatch is a validated partial update. Nil fields are left untouched.
type EventPatch struct {
	Title        *string
	Date         *time.Time
	CreatorEmail *string
	Type         *string
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p.Title == nil && p.Date == nil && p.CreatorEmail == nil && p.Type == nil
}

// Apply writes the patch onto e.
func (p EventPatch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.CreatorEmail != nil {
		e.CreatorEmail = *p.CreatorEmail
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
}

// EventFilter selects upcoming events.
type EventFilter struct {
	Type   string
	Search string
	Now    time.Time
}

// TypeFilter returns the category to match, or "" when the filter is absent
// or set to the "all" sentinel.
func (f EventFilter) TypeFilter() string {
	t := strings.TrimSpace(f.Type)
	if strings.EqualFold(t, TypeFilterAll) {
		return ""
	}
	return t
}

// Matches applies the filter to a single event. Stores that cannot express
// the query natively use it directly.
func (f EventFilter) Matches(e Event) bool {
	if e.Date.Before(f.Now) {
		return false
	}
	if t := f.TypeFilter(); t != "" && !strings.EqualFold(e.Type, t) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(f.Search)) {
		return false
	}
	return true
}
