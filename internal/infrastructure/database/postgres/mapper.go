package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialevents/internal/domain/entities"
)

const (
	eventColumns         = "id, title, date, creator_email, type, extra"
	participationColumns = "id, event_id, user_email, joined_at"
)

// pgtypeTimestamptzToTime returns t.Time in UTC when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}

func scanEvent(row pgx.CollectableRow) (entities.Event, error) {
	var (
		id    string
		e     entities.Event
		date  pgtype.Timestamptz
		kind  pgtype.Text
		extra map[string]any
	)
	if err := row.Scan(&id, &e.Title, &date, &e.CreatorEmail, &kind, &extra); err != nil {
		return entities.Event{}, errors.Wrap(err, "scanning event")
	}
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return entities.Event{}, errors.Wrapf(err, "event id '%s'", id)
	}
	e.ID = oid
	e.Date = pgtypeTimestamptzToTime(date)
	e.Type = kind.String
	if len(extra) > 0 {
		e.Extra = extra
	}
	return e, nil
}

func scanParticipation(row pgx.CollectableRow) (entities.Participation, error) {
	var (
		id       string
		p        entities.Participation
		joinedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &p.EventID, &p.UserEmail, &joinedAt); err != nil {
		return entities.Participation{}, errors.Wrap(err, "scanning participation")
	}
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return entities.Participation{}, errors.Wrapf(err, "participation id '%s'", id)
	}
	p.ID = oid
	p.JoinedAt = pgtypeTimestamptzToTime(joinedAt)
	return p, nil
}

// buildUpdate renders the UPDATE for a non-empty patch. The statement only
// touches the row when a supplied value differs, so RowsAffected is the
// modified count. $1 is always the event id.
func buildUpdate(id string, p entities.EventPatch) (string, []any) {
	args := []any{id}
	var sets, changed []string
	add := func(column string, value any) {
		args = append(args, value)
		n := len(args)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, n))
		changed = append(changed, fmt.Sprintf("%s IS DISTINCT FROM $%d", column, n))
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Date != nil {
		add("date", *p.Date)
	}
	if p.CreatorEmail != nil {
		add("creator_email", *p.CreatorEmail)
	}
	if p.Type != nil {
		add("type", *p.Type)
	}
	sql := fmt.Sprintf("UPDATE events SET %s WHERE id = $1 AND (%s)",
		strings.Join(sets, ", "), strings.Join(changed, " OR "))
	return sql, args
}
