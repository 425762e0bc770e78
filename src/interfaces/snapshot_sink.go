package interfaces

import (
	"context"

	"plug-explorer/src/models"
)

// -----------------------------------------------------------------------------
// ISnapshotSink receives every published home snapshot (Redis mirror, Kafka feed).
// -----------------------------------------------------------------------------

type ISnapshotSink interface {
	Name() string

	Publish(ctx context.Context, snapshot models.MHomeSnapshot) error

	Close() error
}
