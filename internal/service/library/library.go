package library

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jgivc/coursetracker/internal/entity"
	"github.com/jgivc/coursetracker/internal/service/course"
)

const (
	serviceName = "library"
)

type CatalogStorage interface {
	Scan(ctx context.Context) ([]*entity.CourseSource, error)
}

type FolderAdapter interface {
	ToCourseSource(folderPath string) (*entity.CourseSource, error)
}

type ProgressStore interface {
	FindByTitle(title string) (entity.Course, bool)
	Add(ctx context.Context, c entity.Course) error
}

type PlaybackSession interface {
	Refresh(files []entity.SourceFile)
}

// LibraryService turns scanned folders into courses. Known titles only get
// their session file map refreshed, new ones are derived and persisted.
type LibraryService struct {
	storage CatalogStorage
	adapter FolderAdapter
	store   ProgressStore
	session PlaybackSession
	log     *slog.Logger
}

func NewLibraryService(storage CatalogStorage, adapter FolderAdapter, store ProgressStore,
	session PlaybackSession, log *slog.Logger) *LibraryService {
	return &LibraryService{
		storage: storage,
		adapter: adapter,
		store:   store,
		session: session,
		log:     log.With(slog.String("service", serviceName)),
	}
}

// Sync walks the whole courses root.
func (l *LibraryService) Sync(ctx context.Context) (*entity.SyncInfo, error) {
	sources, err := l.storage.Scan(ctx)
	if err != nil {
		l.log.Error("Cannot scan courses root", slog.Any("error", err))

		return nil, fmt.Errorf("cannot scan courses root: %w", err)
	}

	info := &entity.SyncInfo{}
	for _, src := range sources {
		added, err := l.register(ctx, src)
		if err != nil {
			return nil, err
		}

		if added {
			info.Added++
		} else {
			info.Refreshed++
		}
	}

	l.log.Info("Sync done", slog.Int("added", info.Added), slog.Int("refreshed", info.Refreshed))

	return info, nil
}

// SelectFolder handles one user-picked folder. The whole selection is
// discarded when the folder has no recognizable video files.
func (l *LibraryService) SelectFolder(ctx context.Context, folderPath string) (entity.Course, error) {
	src, err := l.adapter.ToCourseSource(folderPath)
	if err != nil {
		return entity.Course{}, err
	}

	if _, err := l.register(ctx, src); err != nil {
		return entity.Course{}, err
	}

	c, _ := l.store.FindByTitle(src.Title)

	return c, nil
}

func (l *LibraryService) register(ctx context.Context, src *entity.CourseSource) (bool, error) {
	l.session.Refresh(src.Files)

	if existing, exists := l.store.FindByTitle(src.Title); exists {
		// Persisted structure wins over disk: renames and completion marks
		// survive a re-scan, drift is only reported.
		if stats := course.Stats(existing); stats.Total != len(src.Files) {
			l.log.Debug("Course structure differs from disk",
				slog.String("title", src.Title),
				slog.Int("stored", stats.Total),
				slog.Int("on_disk", len(src.Files)))
		}

		return false, nil
	}

	c, err := course.Derive(src.Title, src.Files)
	if err != nil {
		return false, fmt.Errorf("cannot derive course %s: %w", src.Title, err)
	}

	c.Description = src.Description

	if err := l.store.Add(ctx, c); err != nil {
		l.log.Error("Cannot add course", slog.String("title", src.Title), slog.Any("error", err))

		return false, fmt.Errorf("cannot add course: %w", err)
	}

	l.log.Info("Course added", slog.String("id", c.ID), slog.String("title", c.Title))

	return true, nil
}
