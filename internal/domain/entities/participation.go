package entities

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialevents/internal/domain"
)

// Participation records that a user joined an event. EventID holds the text
// form of the event identifier; the event itself is not required to exist.
type Participation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	EventID   string             `bson:"eventId" json:"eventId"`
	UserEmail string             `bson:"userEmail" json:"userEmail"`
	JoinedAt  time.Time          `bson:"joinedAt" json:"joinedAt"`
}

// ParseEventID validates the text form of an event identifier.
func ParseEventID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidEventID
	}
	return id, nil
}

// InsertAck acknowledges a stored document.
type InsertAck struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}

// UpdateAck acknowledges an update by reporting how many documents matched
// the identifier and how many actually changed.
type UpdateAck struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// JoinResult is the outcome of a join: either a new record (Ack set) or an
// existing one for the same event and user.
type JoinResult struct {
	AlreadyJoined bool
	Ack           *InsertAck
}
