package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialevents/internal/domain"
	"socialevents/internal/domain/entities"
	"socialevents/internal/ports/output"
)

var _ output.ParticipationRepository = (*ParticipationRepository)(nil)

// ParticipationRepository implements output.ParticipationRepository on the
// joined_users table.
type ParticipationRepository struct {
	conn *Connector
}

func NewParticipationRepository(conn *Connector) *ParticipationRepository {
	return &ParticipationRepository{conn: conn}
}

func (r *ParticipationRepository) Exists(ctx context.Context, eventID, userEmail string) (bool, error) {
	pool, err := r.conn.Pool(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	err = pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM joined_users WHERE event_id = $1 AND user_email = $2)`,
		eventID, userEmail).Scan(&exists)
	return exists, errors.Wrapf(err, "checking participation of '%s' in '%s'", userEmail, eventID)
}

// Create inserts the record unless the (event_id, user_email) pair exists,
// in which case it returns domain.ErrAlreadyJoined.
func (r *ParticipationRepository) Create(ctx context.Context, p *entities.Participation) (entities.InsertAck, error) {
	pool, err := r.conn.Pool(ctx)
	if err != nil {
		return entities.InsertAck{}, err
	}
	id := p.ID
	if id.IsZero() {
		id = primitive.NewObjectID()
	}
	tag, err := pool.Exec(ctx,
		`INSERT INTO joined_users (`+participationColumns+`) VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, user_email) DO NOTHING`,
		id.Hex(), p.EventID, p.UserEmail, p.JoinedAt)
	if err != nil {
		return entities.InsertAck{}, errors.Wrap(err, "inserting participation")
	}
	if tag.RowsAffected() == 0 {
		return entities.InsertAck{}, domain.ErrAlreadyJoined
	}
	p.ID = id
	return entities.InsertAck{Acknowledged: true, InsertedID: id}, nil
}

func (r *ParticipationRepository) FindByUserEmail(ctx context.Context, email string) ([]entities.Participation, error) {
	pool, err := r.conn.Pool(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx,
		`SELECT `+participationColumns+` FROM joined_users WHERE user_email = $1 ORDER BY joined_at`, email)
	if err != nil {
		return nil, errors.Wrapf(err, "finding participations of '%s'", email)
	}
	out, err := pgx.CollectRows(rows, scanParticipation)
	if err != nil {
		return nil, errors.Wrapf(err, "reading participations of '%s'", email)
	}
	if out == nil {
		out = []entities.Participation{}
	}
	return out, nil
}
