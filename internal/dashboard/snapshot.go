package dashboard

import (
	"github.com/google/uuid"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
)

// Snapshot kinds.
const (
	SnapshotComparison = "comparison"
	SnapshotRegional   = "regional"
	SnapshotProfile    = "profile"
)

func newSnapshot(kind, subject string, data any) domain.Snapshot {
	return domain.Snapshot{
		ID:          uuid.NewString(),
		Kind:        kind,
		Subject:     subject,
		GeneratedAt: domain.Now(),
		Data:        data,
	}
}
