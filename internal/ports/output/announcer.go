package output

import (
	"context"

	"socialevents/internal/domain/entities"
)

// EventAnnouncer publishes newly created events to an external channel.
type EventAnnouncer interface {
	AnnounceEvent(ctx context.Context, event entities.Event) error
}
