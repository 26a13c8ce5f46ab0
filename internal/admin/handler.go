// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/house-of-bloom/internal/catalog"
	"github.com/carterperez-dev/house-of-bloom/internal/core"
)

// CatalogOps is the catalog surface operators can drive.
type CatalogOps interface {
	Stats(ctx context.Context) (catalog.Stats, error)
	Reload(ctx context.Context) (catalog.SyncResult, error)
}

type Counter func(ctx context.Context) (int, error)

type Handler struct {
	dbStats      func() sql.DBStats
	redisStats   func() *redis.PoolStats
	redisPing    func(ctx context.Context) error
	dbPing       func(ctx context.Context) error
	catalog      CatalogOps
	countUsers   Counter
	countHistory Counter
	logger       *slog.Logger
}

type HandlerConfig struct {
	DBStats      func() sql.DBStats
	RedisStats   func() *redis.PoolStats
	RedisPing    func(ctx context.Context) error
	DBPing       func(ctx context.Context) error
	Catalog      CatalogOps
	CountUsers   Counter
	CountHistory Counter
	Logger       *slog.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		dbStats:      cfg.DBStats,
		redisStats:   cfg.RedisStats,
		redisPing:    cfg.RedisPing,
		dbPing:       cfg.DBPing,
		catalog:      cfg.Catalog,
		countUsers:   cfg.CountUsers,
		countHistory: cfg.CountHistory,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(adminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
		r.Post("/catalog/reload", h.ReloadCatalog)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbHealthy := true
	if h.dbPing != nil {
		if err := h.dbPing(ctx); err != nil {
			dbHealthy = false
		}
	}

	redisStats := h.getRedisStats()
	redisHealthy := redisStats != nil
	if redisHealthy && h.redisPing != nil {
		if err := h.redisPing(ctx); err != nil {
			redisHealthy = false
		}
	}

	response := SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: dbHealthy,
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Enabled: redisStats != nil,
			Healthy: redisHealthy,
			Stats:   redisStats,
		},
		Runtime: runtimeStats(),
	}

	store, err := h.storeStats(ctx)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	response.Store = store

	core.OK(w, response)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getDBStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getRedisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, runtimeStats())
}

// ReloadCatalog reruns load and sync from the configured source. A batch
// that fails integrity checks leaves the stored catalog untouched.
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		core.InternalServerError(w, errors.New("catalog reload not configured"))
		return
	}

	result, err := h.catalog.Reload(r.Context())
	if err != nil {
		if errors.Is(err, catalog.ErrIntegrity) {
			core.JSONError(w, core.NewAppError(
				err,
				err.Error(),
				http.StatusUnprocessableEntity,
				"CATALOG_INTEGRITY",
			))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "catalog reloaded by operator",
		"plants", result.Plants,
		"categories", result.Categories,
	)

	core.OK(w, result)
}

func (h *Handler) storeStats(ctx context.Context) (StoreStats, error) {
	var stats StoreStats

	if h.catalog != nil {
		c, err := h.catalog.Stats(ctx)
		if err != nil {
			return stats, err
		}
		stats.Plants = c.Plants
		stats.Categories = c.Categories
	}

	if h.countUsers != nil {
		n, err := h.countUsers(ctx)
		if err != nil {
			return stats, err
		}
		stats.Users = n
	}

	if h.countHistory != nil {
		n, err := h.countHistory(ctx)
		if err != nil {
			return stats, err
		}
		stats.HistoryEntries = n
	}

	return stats, nil
}

func runtimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	if stats == nil {
		return nil
	}
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

type SystemStatsResponse struct {
	Database DatabaseStatus `json:"database"`
	Redis    RedisStatus    `json:"redis"`
	Runtime  RuntimeStats   `json:"runtime"`
	Store    StoreStats     `json:"store"`
}

type StoreStats struct {
	Plants         int `json:"plants"`
	Categories     int `json:"categories"`
	Users          int `json:"users"`
	HistoryEntries int `json:"history_entries"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Enabled bool            `json:"enabled"`
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxIdleTimeClosed  int64  `json:"max_idle_time_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
