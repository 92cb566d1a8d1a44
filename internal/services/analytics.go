package services

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/observability"
)

const (
	cacheVersion      = "v2"
	defaultTargetYear = 2018
)

// PrecomputedData is one loaded snapshot of the extract. It is what the gob
// cache stores, so it must stay independent of the target year.
type PrecomputedData struct {
	Monthly      []models.MonthlySummary
	Categories   []models.CategorySummary
	LastModified time.Time
	RecordCount  int64
}

type Analytics struct {
	mu          sync.RWMutex
	precomputed *PrecomputedData
	yearly      []models.MonthlySummary
	worst       []models.CategorySummary
	csvPath     string
	cacheDir    string
	targetYear  int
	logger      *slog.Logger
}

type Option func(*Analytics)

func WithTargetYear(year int) Option {
	return func(a *Analytics) { a.targetYear = year }
}

// WithCacheDir enables the on-disk snapshot cache. An empty dir disables it.
func WithCacheDir(dir string) Option {
	return func(a *Analytics) { a.cacheDir = dir }
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Analytics) { a.logger = logger }
}

func NewAnalytics(opts ...Option) *Analytics {
	a := &Analytics{
		targetYear: defaultTargetYear,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.Commit(a.prepared("", &PrecomputedData{
		Monthly:    []models.MonthlySummary{},
		Categories: []models.CategorySummary{},
	}))
	return a
}

// Prepared is a loaded snapshot that is not served until it is committed.
type Prepared struct {
	path   string
	data   *PrecomputedData
	yearly []models.MonthlySummary
	worst  []models.CategorySummary
}

// Snapshot returns the chart inputs of the prepared load.
func (p *Prepared) Snapshot(limit int) models.Snapshot {
	return models.Snapshot{
		Monthly: p.yearly,
		Best:    head(p.data.Categories, limit),
		Worst:   head(p.worst, limit),
		Version: p.data.LastModified.UnixNano(),
	}
}

// SetOrders replaces the snapshot with one derived from orders.
func (a *Analytics) SetOrders(orders []models.Order) {
	a.Commit(a.prepared("", computeAnalytics(orders)))
}

// LoadFromCSV prepares filename and serves it at once.
func (a *Analytics) LoadFromCSV(ctx context.Context, filename string) error {
	p, err := a.Prepare(ctx, filename)
	if err != nil {
		return err
	}
	a.Commit(p)
	return nil
}

// Prepare loads and aggregates filename without touching the served
// snapshot. The on-disk cache is used while it is newer than the file.
func (a *Analytics) Prepare(ctx context.Context, filename string) (*Prepared, error) {
	ctx, span := observability.StartSpan(ctx, "analytics.load_csv")
	defer span.Finish()
	span.SetTag("csv.path", filename)

	if cached, err := a.loadFromCache(filename); err == nil {
		fileInfo, err := os.Stat(filename)
		if err == nil && fileInfo.ModTime().Before(cached.LastModified) {
			a.logger.Info("loaded from cache", "records", cached.RecordCount)
			return a.prepared(filename, cached), nil
		}
	}

	start := time.Now()
	a.logger.Info("processing CSV file", "filename", filename)

	orders, err := LoadOrders(ctx, filename)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}

	data := computeAnalytics(orders)

	if err := a.saveToCache(filename, data); err != nil {
		a.logger.Warn("failed to save cache", "error", err)
	}

	a.logger.Info("csv processing complete",
		"records", data.RecordCount,
		"months", len(data.Monthly),
		"categories", len(data.Categories),
		"duration", time.Since(start))

	return a.prepared(filename, data), nil
}

// PrepareReload prepares the last loaded file again.
func (a *Analytics) PrepareReload(ctx context.Context) (*Prepared, error) {
	a.mu.RLock()
	path := a.csvPath
	a.mu.RUnlock()

	if path == "" {
		return nil, errors.New("no CSV file has been loaded")
	}
	return a.Prepare(ctx, path)
}

// Reload reads the last loaded file again and replaces the snapshot. The old
// snapshot stays in place when the reload fails.
func (a *Analytics) Reload(ctx context.Context) error {
	p, err := a.PrepareReload(ctx)
	if err != nil {
		return err
	}
	a.Commit(p)
	return nil
}

func computeAnalytics(orders []models.Order) *PrecomputedData {
	return &PrecomputedData{
		Monthly:      BuildMonthlySummaries(orders),
		Categories:   BuildCategorySummaries(orders),
		LastModified: time.Now(),
		RecordCount:  int64(len(orders)),
	}
}

func (a *Analytics) prepared(path string, data *PrecomputedData) *Prepared {
	return &Prepared{
		path:   path,
		data:   data,
		yearly: FilterYear(data.Monthly, a.targetYear),
		worst:  Worst(data.Categories),
	}
}

// Commit makes p the served snapshot.
func (a *Analytics) Commit(p *Prepared) {
	a.mu.Lock()
	a.precomputed = p.data
	a.yearly = p.yearly
	a.worst = p.worst
	if p.path != "" {
		a.csvPath = p.path
	}
	a.mu.Unlock()

	if p.data.RecordCount > 0 && len(p.yearly) == 0 {
		a.logger.Warn("no orders recorded in target year", "target_year", a.targetYear)
	}
}

// Cache management
func (a *Analytics) getCacheFilename(csvPath string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(csvPath)
	return filepath.Join(a.cacheDir, fmt.Sprintf("%s_%s.gob", name, cacheVersion))
}

func (a *Analytics) saveToCache(csvPath string, data *PrecomputedData) error {
	if a.cacheDir == "" {
		return nil
	}
	if err := os.MkdirAll(a.cacheDir, 0755); err != nil {
		return err
	}

	file, err := os.Create(a.getCacheFilename(csvPath))
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewEncoder(file).Encode(data)
}

func (a *Analytics) loadFromCache(csvPath string) (*PrecomputedData, error) {
	if a.cacheDir == "" {
		return nil, os.ErrNotExist
	}

	file, err := os.Open(a.getCacheFilename(csvPath))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var data PrecomputedData
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, err
	}

	return &data, nil
}

// MonthlyOrders returns the target year's months in chronological order.
func (a *Analytics) MonthlyOrders() []models.MonthlySummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.yearly
}

// AllMonths returns the whole contiguous monthly series.
func (a *Analytics) AllMonths() []models.MonthlySummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.Monthly
}

func (a *Analytics) Categories() []models.CategorySummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.Categories
}

func (a *Analytics) BestCategories(limit int) []models.CategorySummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return head(a.precomputed.Categories, limit)
}

func (a *Analytics) WorstCategories(limit int) []models.CategorySummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return head(a.worst, limit)
}

func (a *Analytics) TargetYear() int {
	return a.targetYear
}

// Snapshot returns the served chart inputs, all from the same load.
func (a *Analytics) Snapshot(limit int) models.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return models.Snapshot{
		Monthly: a.yearly,
		Best:    head(a.precomputed.Categories, limit),
		Worst:   head(a.worst, limit),
		Version: a.precomputed.LastModified.UnixNano(),
	}
}

// Version identifies the current snapshot; it changes on every load.
func (a *Analytics) Version() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.LastModified.UnixNano()
}

// Utility method for monitoring
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]any{
		"record_count":   a.precomputed.RecordCount,
		"last_processed": a.precomputed.LastModified,
		"source":         a.csvPath,
		"months":         len(a.precomputed.Monthly),
		"target_year":    a.targetYear,
		"target_months":  len(a.yearly),
		"categories":     len(a.precomputed.Categories),
	}
}
