package rawdata

import "context"

// Repository stores captured documents keyed by match id. Save must never
// leave a partially written document visible to Get.
type Repository interface {
	Save(ctx context.Context, doc Document) error
	Get(ctx context.Context, matchID string) (Document, bool, error)
	Exists(ctx context.Context, matchID string) (bool, error)
}
