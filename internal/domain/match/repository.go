package match

import "context"

// Repository persists normalized matches. Load writes teams, players, the
// match and its stat rows atomically and reports false when the match was
// already stored or another writer stored it first.
type Repository interface {
	Exists(ctx context.Context, matchID int64) (bool, error)
	Load(ctx context.Context, bundle Bundle) (bool, error)
}

// ArtifactRepository stores transformed bundles keyed by match id.
type ArtifactRepository interface {
	Save(ctx context.Context, bundle Bundle) error
	Get(ctx context.Context, matchID int64) (Bundle, bool, error)
}
