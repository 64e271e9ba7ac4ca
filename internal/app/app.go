package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jgivc/coursetracker/internal/adapter/fsadapter"
	"github.com/jgivc/coursetracker/internal/config"
	httphandler "github.com/jgivc/coursetracker/internal/handler/http"
	repocourse "github.com/jgivc/coursetracker/internal/repository/course"
	"github.com/jgivc/coursetracker/internal/service/library"
	"github.com/jgivc/coursetracker/internal/service/playback"
	"github.com/jgivc/coursetracker/internal/service/progress"
	"github.com/jgivc/coursetracker/internal/storage/catalog"
	"github.com/jgivc/coursetracker/internal/storage/snapshot"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
)

const (
	syncTimeout     = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

type App struct {
	cfgPath string
	cfg     *config.Config
	srv     *http.Server
	lib     *library.LibraryService
	store   *progress.Store
	snap    *snapshot.Writer
	log     *slog.Logger
}

func New(cfgPath string) *App {
	return &App{
		cfgPath: cfgPath,
	}
}

func (a *App) Start() {
	a.cfg = config.MustLoad(a.cfgPath)

	opt, err := redis.ParseURL(a.cfg.RedisURL)
	if err != nil {
		panic(err)
	}

	rdb := redis.NewClient(opt)
	ctx := context.Background()
	_, err = rdb.Ping(ctx).Result()
	if err != nil {
		panic(err)
	}

	lo := &slog.HandlerOptions{}
	switch a.cfg.LogLevel {
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		panic("unknown log level")
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, lo))
	a.log = log

	fs := afero.NewOsFs()

	fsa, err := fsadapter.NewFSAdapterWithFS(fs, a.cfg.FSAdapterConfig(), log)
	if err != nil {
		panic(err)
	}

	session := playback.NewSession(log)
	repo := repocourse.NewCourseRepository(rdb, log)
	a.store = progress.NewStore(repo, session, log)

	if err := a.store.Load(ctx); err != nil {
		panic(err)
	}

	store := catalog.NewCatalogStorageWithFS(fs, fsa, &a.cfg.CatalogConfig, log)
	a.lib = library.NewLibraryService(store, fsa, a.store, session, log)
	a.snap = snapshot.NewWriterWithFS(fs, log)

	http.Handle("GET /{$}", httphandler.NewDashboardHandler(a.store, log))
	http.Handle("GET /courses/{id}", httphandler.NewCoursePageHandler(a.store, session, log))
	http.Handle("POST /scan", httphandler.NewSelectFolderHandler(a.lib, log))
	http.Handle("POST /sync", httphandler.NewSyncHandler(a.lib, log))

	http.Handle("GET /api/courses", httphandler.NewCourseListHandler(a.store, log))
	http.Handle("GET /api/courses/{id}", httphandler.NewCourseHandler(a.store, log))
	http.Handle("GET /api/courses/{id}/stats", httphandler.NewStatsHandler(a.store, log))
	http.Handle("DELETE /api/courses/{id}", httphandler.NewRemoveHandler(a.store, log))
	http.Handle("POST /api/courses/{cid}/modules/{mid}/lessons/{lid}/toggle", httphandler.NewToggleHandler(a.store, log))
	http.Handle("PUT /api/courses/{cid}/modules/{mid}/lessons/{lid}/title", httphandler.NewRenameHandler(a.store, log))
	http.Handle("POST /api/courses/{cid}/modules/{mid}/lessons/{lid}/play", httphandler.NewPlayHandler(a.store, session, log))

	http.Handle("GET /api/player", httphandler.NewActiveVideoHandler(session, log))
	http.Handle("DELETE /api/player", httphandler.NewClearPlaybackHandler(session, log))

	http.Handle("GET /media/{token}", httphandler.NewMediaHandler(fs, session, log))

	a.srv = &http.Server{
		Addr: a.cfg.Listen,
	}

	go a.Sync()

	go func() {
		log.Info("Start listen", slog.String("addr", a.cfg.Listen))

		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Could not serve", slog.String("listen_addr", a.cfg.Listen), slog.Any("error", err))
			os.Exit(2)
		}
	}()
}

func (a *App) Sync() {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	fmt.Println("Syncing library...")

	info, err := a.lib.Sync(ctx)
	if err != nil {
		fmt.Printf("Cannot sync library: %s\n", err)

		return
	}

	fmt.Printf("Done. Courses added: %d, refreshed: %d\n", info.Added, info.Refreshed)
}

func (a *App) Snapshot() {
	if err := a.snap.Dump(a.cfg.SnapshotFileName, a.store.List()); err != nil {
		a.log.Error("Cannot dump progress snapshot", slog.Any("error", err))
	}
}

func (a *App) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.srv.Shutdown(ctx)
}
