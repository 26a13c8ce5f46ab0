// AngelaMos | 2026
// repository.go

package history

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/house-of-bloom/internal/core"
)

type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *Entry) error {
	query := `
		INSERT INTO browsing_history (user_id, path, referrer, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		entry.UserID,
		entry.Path,
		entry.Referrer,
		entry.Metadata,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("create history entry: %w", err)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM browsing_history`); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}
