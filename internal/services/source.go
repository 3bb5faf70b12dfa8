package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"

	"sales-dashboard/internal/models"
)

const reloadTimeout = 30 * time.Second

// Source owns the loaded dataset. Readers take a snapshot with Dataset and
// never see a partially loaded one; a reload replaces the snapshot only
// after the new file parsed completely.
type Source struct {
	path    string
	opts    LoadOptions
	logger  *slog.Logger
	current atomic.Pointer[models.Dataset]

	mu        sync.Mutex
	modTime   time.Time
	loads     atomic.Int64
	scheduler *gocron.Scheduler
}

func NewSource(path string, opts LoadOptions, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		path:   path,
		opts:   opts,
		logger: logger,
	}
}

// NewStaticSource wraps an already built dataset. It cannot reload.
func NewStaticSource(ds *models.Dataset) *Source {
	s := &Source{logger: slog.Default()}
	s.current.Store(ds)
	return s
}

// Dataset returns the current snapshot, or an empty dataset before the
// first successful load.
func (s *Source) Dataset() *models.Dataset {
	if ds := s.current.Load(); ds != nil {
		return ds
	}
	return models.NewDataset(nil, nil)
}

// Loaded reports whether a snapshot has been stored.
func (s *Source) Loaded() bool {
	return s.current.Load() != nil
}

// Load reads the file unconditionally. On failure the previous snapshot
// stays in place.
func (s *Source) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Source) load(ctx context.Context) error {
	if s.path == "" {
		return ErrNoPath
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("stat dataset: %w", err)
	}

	start := time.Now()
	ds, err := LoadCSV(ctx, s.path, s.opts)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	s.current.Store(ds)
	s.modTime = info.ModTime()
	s.loads.Add(1)

	s.logger.Info("dataset loaded",
		"path", s.path,
		"records", ds.Len(),
		"periods", len(ds.Periods()),
		"duration", time.Since(start),
	)
	return nil
}

// ReloadIfChanged reloads when the file's modification time moved past the
// last load. A failed reload keeps the previous snapshot.
func (s *Source) ReloadIfChanged(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return false, nil
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return false, fmt.Errorf("stat dataset: %w", err)
	}
	if !info.ModTime().After(s.modTime) {
		return false, nil
	}

	if err := s.load(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// StartReload checks the file for changes every interval.
func (s *Source) StartReload(interval time.Duration) error {
	if interval <= 0 {
		return nil
	}

	s.scheduler = gocron.NewScheduler(time.Local)
	_, err := s.scheduler.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()

		reloaded, err := s.ReloadIfChanged(ctx)
		if err != nil {
			s.logger.Error("dataset reload failed, keeping previous snapshot", "error", err)
			return
		}
		if reloaded {
			s.logger.Info("dataset reloaded", "path", s.path)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule dataset reload: %w", err)
	}

	s.scheduler.StartAsync()
	s.logger.Info("dataset reload scheduled", "interval", interval)
	return nil
}

func (s *Source) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Stats reports the current snapshot for the admin endpoint.
func (s *Source) Stats() map[string]any {
	ds := s.Dataset()
	return map[string]any{
		"source":        ds.Source,
		"record_count":  ds.Len(),
		"last_loaded":   ds.LoadedAt,
		"periods":       len(ds.Periods()),
		"cities":        len(ds.Cities()),
		"product_lines": len(ds.ProductLines()),
		"loads":         s.loads.Load(),
	}
}
