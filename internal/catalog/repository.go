// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/house-of-bloom/internal/core"
)

type Repository interface {
	LockForSync(ctx context.Context) error
	DeleteAll(ctx context.Context) error
	InsertCategories(ctx context.Context, categories []Category) error
	InsertPlants(ctx context.Context, plants []Plant) error
	ListCategories(ctx context.Context) ([]Category, error)
	// ListPlants counts and pages in two statements. Run it on a snapshot
	// transaction when the total must agree with the page.
	ListPlants(ctx context.Context, params ListParams) ([]Plant, int, error)
	GetPlant(ctx context.Context, id int64) (*Plant, error)
	Search(ctx context.Context, query string, limit int) ([]Plant, error)
	Stats(ctx context.Context) (Stats, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// syncLockKey identifies the catalog replacement among transaction-level
// advisory locks.
const syncLockKey int64 = 0x626c6f6f6d

const plantColumns = `id, slug, handle, name, description, category, category_id,
		       type, product_category, tags, price, inventory, image, vendor, status`

// LockForSync blocks until no other transaction holds the catalog sync lock.
// The lock is released when the surrounding transaction ends, so it must run
// on a transaction, before DeleteAll.
func (r *repository) LockForSync(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, syncLockKey); err != nil {
		return fmt.Errorf("acquire catalog sync lock: %w", err)
	}
	return nil
}

// DeleteAll removes plants before categories to respect the foreign key.
func (r *repository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plants`); err != nil {
		return fmt.Errorf("delete plants: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("delete categories: %w", err)
	}

	return nil
}

func (r *repository) InsertCategories(
	ctx context.Context,
	categories []Category,
) error {
	if len(categories) == 0 {
		return nil
	}

	query := `
		INSERT INTO categories (id, title, description, image, product_count)
		VALUES (:id, :title, :description, :image, :product_count)`

	if _, err := sqlx.NamedExecContext(ctx, r.db, query, categories); err != nil {
		return fmt.Errorf("insert categories: %w", err)
	}

	return nil
}

func (r *repository) InsertPlants(ctx context.Context, plants []Plant) error {
	if len(plants) == 0 {
		return nil
	}

	query := `
		INSERT INTO plants (
			id, slug, handle, name, description, category, category_id,
			type, product_category, tags, price, inventory, image, vendor, status
		) VALUES (
			:id, :slug, :handle, :name, :description, :category, :category_id,
			:type, :product_category, :tags, :price, :inventory, :image, :vendor, :status
		)`

	if _, err := sqlx.NamedExecContext(ctx, r.db, query, plants); err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert plants: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("insert plants: %w", err)
	}

	return nil
}

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	query := `
		SELECT id, title, description, image, product_count
		FROM categories
		ORDER BY title, id`

	categories := []Category{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (r *repository) ListPlants(
	ctx context.Context,
	params ListParams,
) ([]Plant, int, error) {
	params.Normalize()

	where := ""
	var args []any
	if params.CategoryID != "" {
		where = "WHERE category_id = $1"
		args = append(args, params.CategoryID)
	}

	countQuery := "SELECT COUNT(*) FROM plants " + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count plants: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM plants
		%s
		ORDER BY id
		LIMIT $%d OFFSET $%d`,
		plantColumns, where, len(args)+1, len(args)+2)

	args = append(args, params.PageSize, params.Offset())

	plants := []Plant{}
	if err := r.db.SelectContext(ctx, &plants, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list plants: %w", err)
	}

	return plants, total, nil
}

func (r *repository) GetPlant(ctx context.Context, id int64) (*Plant, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM plants
		WHERE id = $1`, plantColumns)

	var plant Plant
	err := r.db.GetContext(ctx, &plant, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get plant: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plant: %w", err)
	}

	return &plant, nil
}

// Search matches name, description or any single tag, case-insensitively.
func (r *repository) Search(
	ctx context.Context,
	query string,
	limit int,
) ([]Plant, error) {
	stmt := fmt.Sprintf(`
		SELECT %s
		FROM plants
		WHERE name ILIKE $1
		   OR description ILIKE $1
		   OR EXISTS (
		       SELECT 1 FROM jsonb_array_elements_text(tags) AS tag
		       WHERE tag ILIKE $1
		   )
		ORDER BY id
		LIMIT $2`, plantColumns)

	pattern := "%" + escapeLike(query) + "%"

	plants := []Plant{}
	if err := r.db.SelectContext(ctx, &plants, stmt, pattern, limit); err != nil {
		return nil, fmt.Errorf("search plants: %w", err)
	}

	return plants, nil
}

func (r *repository) Stats(ctx context.Context) (Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM plants)     AS plants,
			(SELECT COUNT(*) FROM categories) AS categories`

	var stats Stats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return Stats{}, fmt.Errorf("catalog stats: %w", err)
	}

	return stats, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
