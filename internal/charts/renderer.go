package charts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/observability"
)

const (
	MonthlyOrders  = "monthly-orders"
	MonthlyRevenue = "monthly-revenue"
	Categories     = "categories"
)

// Names lists the charts in page order.
var Names = []string{MonthlyOrders, MonthlyRevenue, Categories}

var ErrUnknownChart = errors.New("unknown chart")

// Source hands out the chart inputs of a single load.
type Source interface {
	Snapshot(limit int) models.Snapshot
}

// Set is a complete batch of drawn charts that is not yet being served.
type Set struct {
	images  map[string][]byte
	version int64
}

func (s *Set) Version() int64 { return s.version }

// Renderer keeps the PNGs for the most recently rendered snapshot.
type Renderer struct {
	mu            sync.RWMutex
	images        map[string][]byte
	version       int64
	topCategories int
	logger        *slog.Logger
}

func NewRenderer(topCategories int, logger *slog.Logger) *Renderer {
	return &Renderer{
		images:        make(map[string][]byte),
		topCategories: topCategories,
		logger:        logger,
	}
}

// Render draws every chart and serves them at once.
func (r *Renderer) Render(ctx context.Context, src Source) error {
	set, err := r.Draw(ctx, src)
	if err != nil {
		return err
	}
	r.Commit(set)
	return nil
}

// Draw renders every chart concurrently without touching the served images.
// Charts without data are left out of the set; any other failure aborts.
func (r *Renderer) Draw(ctx context.Context, src Source) (*Set, error) {
	ctx, span := observability.StartSpan(ctx, "charts.render")
	defer span.Finish()

	snap := src.Snapshot(r.topCategories)

	jobs := map[string]func() ([]byte, error){
		MonthlyOrders:  func() ([]byte, error) { return MonthlyOrdersPNG(snap.Monthly) },
		MonthlyRevenue: func() ([]byte, error) { return MonthlyRevenuePNG(snap.Monthly) },
		Categories:     func() ([]byte, error) { return CategoriesPNG(snap.Best, snap.Worst) },
	}

	var mu sync.Mutex
	images := make(map[string][]byte, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	for name, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			img, err := job()
			if errors.Is(err, ErrNoData) {
				r.logger.Warn("chart has no data", "chart", name)
				return nil
			}
			if err != nil {
				return fmt.Errorf("render %s: %w", name, err)
			}

			mu.Lock()
			images[name] = img
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.SetError(err)
		return nil, err
	}

	return &Set{images: images, version: snap.Version}, nil
}

// Commit makes set the served charts.
func (r *Renderer) Commit(set *Set) {
	r.mu.Lock()
	r.images = set.images
	r.version = set.version
	r.mu.Unlock()

	r.logger.Info("charts rendered", "count", len(set.images), "version", set.version)
}

// Get returns the PNG for name. ErrNoData means the chart exists but had
// nothing to draw in the current snapshot.
func (r *Renderer) Get(name string) ([]byte, error) {
	if !slices.Contains(Names, name) {
		return nil, ErrUnknownChart
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	img, ok := r.images[name]
	if !ok {
		return nil, ErrNoData
	}
	return img, nil
}

func (r *Renderer) Available(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.images[name]
	return ok
}

func (r *Renderer) Version() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}
