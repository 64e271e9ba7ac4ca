package catalog

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/jgivc/coursetracker/internal/common"
	"github.com/jgivc/coursetracker/internal/config"
	"github.com/jgivc/coursetracker/internal/entity"
	"github.com/spf13/afero"
)

const (
	maxDirs = 100
)

type FolderAdapter interface {
	ToCourseSource(folderPath string) (*entity.CourseSource, error)
}

// catalogStorage scans the courses root with a small worker pool, one
// first-level folder per course. Only one scan may run at a time.
type catalogStorage struct {
	running atomic.Bool
	fs      afero.Fs
	adapter FolderAdapter
	cfg     *config.CatalogConfig
	log     *slog.Logger
}

func NewCatalogStorage(adapter FolderAdapter, cfg *config.CatalogConfig, log *slog.Logger) *catalogStorage {
	return NewCatalogStorageWithFS(afero.NewOsFs(), adapter, cfg, log)
}

func NewCatalogStorageWithFS(fs afero.Fs, adapter FolderAdapter, cfg *config.CatalogConfig, log *slog.Logger) *catalogStorage {
	return &catalogStorage{
		fs:      fs,
		adapter: adapter,
		cfg:     cfg,
		log:     log.With(slog.String("item", "CatalogStorage")),
	}
}

func (c *catalogStorage) Scan(ctx context.Context) ([]*entity.CourseSource, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, common.ErrScanProcessHasAlreadyStarted
	}
	defer c.running.Store(false)

	entries, err := afero.ReadDir(c.fs, c.cfg.WorkDir)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(c.cfg.WorkDir, entry.Name()))
		}

		if len(dirs) >= maxDirs {
			break
		}
	}

	if len(dirs) == 0 {
		return []*entity.CourseSource{}, nil
	}

	in := make(chan string, len(dirs))
	out := make(chan *entity.CourseSource, len(dirs))

	for _, dir := range dirs {
		in <- dir
	}
	close(in)

	var wg sync.WaitGroup
	wg.Add(c.cfg.Workers)
	for n := 0; n < c.cfg.Workers; n++ {
		go c.worker(ctx, n, in, out, &wg)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	var sources []*entity.CourseSource
	for src := range out {
		c.log.Info("Found course folder", slog.String("title", src.Title), slog.String("path", src.SourcePath))
		sources = append(sources, src)
	}

	return sources, nil
}

func (c *catalogStorage) worker(ctx context.Context, n int, in chan string, out chan *entity.CourseSource, wg *sync.WaitGroup) {
	defer wg.Done()

	log := c.log.With(slog.Int("worker_id", n))
	log.Debug("Started")

	for folderPath := range in {
		src, err := c.adapter.ToCourseSource(folderPath)
		if err != nil {
			log.Error("Cannot scan folder", slog.String("folder_path", folderPath), slog.Any("error", err))

			continue
		}

		select {
		case <-ctx.Done():
			log.Info("Interrupted")

			return
		case out <- src:
		}
	}

	log.Debug("Done")
}
