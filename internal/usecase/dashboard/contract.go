package dashboard

import (
	"context"

	"github.com/kailas-cloud/riskfeed/internal/domain/document"
)

// Gateway fetches the full document collection from upstream.
type Gateway interface {
	FetchDocuments(ctx context.Context) ([]document.Document, error)
}

// SnapshotHook is called after a snapshot has been applied.
type SnapshotHook func(ctx context.Context, snap Snapshot)
