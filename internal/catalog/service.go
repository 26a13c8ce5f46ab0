// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/house-of-bloom/internal/core"
)

const (
	defaultBatchSize   = 500
	defaultSearchLimit = 100
)

type Options struct {
	BatchSize   int
	SearchLimit int
	OnDuplicate DuplicatePolicy
}

type Service struct {
	db     *sqlx.DB
	repo   Repository
	cache  Cache
	logger *slog.Logger
	opts   Options
}

func NewService(
	db *sqlx.DB,
	cache Cache,
	logger *slog.Logger,
	opts Options,
) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = defaultSearchLimit
	}
	if opts.OnDuplicate == "" {
		opts.OnDuplicate = RejectDuplicates
	}
	if cache == nil {
		cache = noopCache{}
	}

	return &Service{
		db:     db,
		repo:   NewRepository(db),
		cache:  cache,
		logger: logger,
		opts:   opts,
	}
}

// Sync replaces the stored catalog with the given batch. The batch is
// checked before storage is touched, and the replacement is a single
// transaction: readers see either the old catalog or the new one. Concurrent
// syncs, from this process or another replica, run one after the other.
func (s *Service) Sync(
	ctx context.Context,
	plants []Plant,
	categories []Category,
) (result SyncResult, err error) {
	ctx, span := core.StartSpan(ctx, "catalog.Sync",
		attribute.Int("catalog.plants", len(plants)),
		attribute.Int("catalog.categories", len(categories)),
	)
	defer func() { core.EndSpan(span, err) }()

	if s.opts.OnDuplicate == SuffixDuplicates {
		plants = DisambiguateSlugs(plants)
	}

	if err := CheckIntegrity(plants, categories); err != nil {
		s.logger.Warn("catalog batch rejected", "error", err)
		return SyncResult{}, err
	}

	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		if err := repo.LockForSync(ctx); err != nil {
			return err
		}

		if err := repo.DeleteAll(ctx); err != nil {
			return err
		}

		for _, chunk := range chunks(categories, s.opts.BatchSize) {
			if err := repo.InsertCategories(ctx, chunk); err != nil {
				return err
			}
		}

		for _, chunk := range chunks(plants, s.opts.BatchSize) {
			if err := repo.InsertPlants(ctx, chunk); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return SyncResult{}, fmt.Errorf("sync catalog: %w", err)
	}

	if cacheErr := s.cache.Invalidate(ctx); cacheErr != nil {
		s.logger.Error("catalog cache invalidation failed", "error", cacheErr)
	}

	s.logger.Info("catalog synced",
		"plants", len(plants),
		"categories", len(categories),
	)

	return SyncResult{Plants: len(plants), Categories: len(categories)}, nil
}

// Reload loads src and syncs it.
func (s *Service) Reload(ctx context.Context, src Source) (SyncResult, error) {
	plants, categories, err := Load(ctx, src)
	if err != nil {
		return SyncResult{}, fmt.Errorf("load catalog: %w", err)
	}

	s.logger.Info("catalog loaded",
		"source", src.String(),
		"plants", len(plants),
		"categories", len(categories),
	)

	return s.Sync(ctx, plants, categories)
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return cached(ctx, s, "categories", func() ([]Category, error) {
		return s.repo.ListCategories(ctx)
	})
}

type plantPage struct {
	Plants []Plant `json:"plants"`
	Total  int     `json:"total"`
}

func (s *Service) ListPlants(
	ctx context.Context,
	params ListParams,
) ([]Plant, int, error) {
	params.Normalize()

	key := fmt.Sprintf("plants:%s:%d:%d",
		params.CategoryID, params.Page, params.PageSize)

	page, err := cached(ctx, s, key, func() (plantPage, error) {
		var result plantPage
		err := core.InSnapshot(ctx, s.db, func(tx *sqlx.Tx) error {
			plants, total, err := NewRepository(tx).ListPlants(ctx, params)
			result = plantPage{Plants: plants, Total: total}
			return err
		})
		return result, err
	})
	if err != nil {
		return nil, 0, err
	}

	return page.Plants, page.Total, nil
}

func (s *Service) GetPlant(ctx context.Context, id int64) (*Plant, error) {
	return cached(ctx, s, fmt.Sprintf("plant:%d", id), func() (*Plant, error) {
		return s.repo.GetPlant(ctx, id)
	})
}

// Search returns nothing for a blank query.
func (s *Service) Search(ctx context.Context, query string) ([]Plant, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Plant{}, nil
	}

	key := "search:" + strings.ToLower(query)
	return cached(ctx, s, key, func() ([]Plant, error) {
		return s.repo.Search(ctx, query, s.opts.SearchLimit)
	})
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

// cached reads key from the cache or computes it with load. The generation
// is read before load runs so a result computed from an older catalog is
// stored under the older generation.
func cached[T any](
	ctx context.Context,
	s *Service,
	key string,
	load func() (T, error),
) (T, error) {
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.logger.Warn("catalog cache unavailable", "error", err)
		return load()
	}

	var value T
	hit, err := s.cache.Get(ctx, gen, key, &value)
	if err != nil {
		s.logger.Warn("catalog cache read failed", "key", key, "error", err)
	}
	if hit {
		return value, nil
	}

	value, err = load()
	if err != nil {
		return value, err
	}

	if err := s.cache.Set(ctx, gen, key, value); err != nil {
		s.logger.Warn("catalog cache write failed", "key", key, "error", err)
	}

	return value, nil
}

func chunks[T any](items []T, size int) [][]T {
	var out [][]T
	for size < len(items) {
		items, out = items[size:], append(out, items[:size])
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
