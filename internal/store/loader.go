package store

import (
	"context"

	"jobstats-etl/internal/domain"
)

// Loader is the storage write path: one bulk insert per window batch,
// followed by whatever deduplication the backend needs to make re-run
// windows harmless. An error means the window failed and the checkpoint
// must not advance.
type Loader interface {
	Load(ctx context.Context, jobs []domain.Job) error
}
