package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/jgivc/coursetracker/internal/common"
	"github.com/jgivc/coursetracker/internal/entity"
)

var (
	courseIDRegexp = regexp.MustCompile(`^\d{1,19}$`)
	uuidRegexp     = regexp.MustCompile(`^[a-f\d]{8}-[a-f\d]{4}-[a-f\d]{4}-[a-f\d]{4}-[a-f\d]{12}$`)
)

type ProgressService interface {
	List() []entity.Course
	Get(id string) (entity.Course, error)
	Stats(id string) (entity.CourseStats, error)
	Lesson(courseID, moduleID, lessonID string) (entity.Lesson, error)
	Toggle(ctx context.Context, courseID, moduleID, lessonID string) error
	Rename(ctx context.Context, courseID, moduleID, lessonID, title string) error
	Remove(ctx context.Context, courseID string) error
}

type LibraryService interface {
	Sync(ctx context.Context) (*entity.SyncInfo, error)
	SelectFolder(ctx context.Context, folderPath string) (entity.Course, error)
}

type PlaybackService interface {
	Activate(courseID string, lesson entity.Lesson) (*entity.ActiveVideo, error)
	Active() *entity.ActiveVideo
	Resolve(token string) (string, error)
	Clear()
}

func NewCourseListHandler(srv ProgressService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "CourseListHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, srv.List(), log)
	}
}

func NewCourseHandler(srv ProgressService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "CourseHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if !courseIDRegexp.MatchString(id) {
			http.Error(w, "Bad request", http.StatusBadRequest)

			return
		}

		c, err := srv.Get(id)
		if err != nil {
			writeCourseError(w, err)

			return
		}

		writeJSON(w, c, log)
	}
}

func NewStatsHandler(srv ProgressService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "StatsHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if !courseIDRegexp.MatchString(id) {
			http.Error(w, "Bad request", http.StatusBadRequest)

			return
		}

		stats, err := srv.Stats(id)
		if err != nil {
			writeCourseError(w, err)

			return
		}

		writeJSON(w, stats, log)
	}
}

// NewToggleHandler flips a lesson's completion flag. Malformed ids degrade to
// a silent no-op, not an error.
func NewToggleHandler(srv ProgressService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "ToggleHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		courseID, moduleID, lessonID, ok := lessonPath(r)
		if ok {
			if err := srv.Toggle(r.Context(), courseID, moduleID, lessonID); err != nil {
				http.Error(w, "Cannot update lesson", http.StatusInternalServerError)

				return
			}
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// NewRenameHandler sets a lesson title verbatim. An empty title is accepted.
func NewRenameHandler(srv ProgressService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "RenameHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)

			return
		}

		courseID, moduleID, lessonID, ok := lessonPath(r)
		if ok {
			if err := srv.Rename(r.Context(), courseID, moduleID, lessonID, req.Title); err != nil {
				http.Error(w, "Cannot rename lesson", http.StatusInternalServerError)

				return
			}
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func NewRemoveHandler(srv ProgressService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "RemoveHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if courseIDRegexp.MatchString(id) {
			if err := srv.Remove(r.Context(), id); err != nil {
				http.Error(w, "Cannot remove course", http.StatusInternalServerError)

				return
			}

			log.Info("Course removed", slog.String("id", id))
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func NewSelectFolderHandler(srv LibraryService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "SelectFolderHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Path string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
			http.Error(w, "Bad request", http.StatusBadRequest)

			return
		}

		c, err := srv.SelectFolder(r.Context(), req.Path)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrNoVideoFilesError):
				http.Error(w, "No video files found in the selected folder", http.StatusUnprocessableEntity)
			default:
				http.Error(w, "Cannot scan folder", http.StatusInternalServerError)
			}

			return
		}

		writeJSON(w, c, log)
	}
}

func NewSyncHandler(srv LibraryService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "SyncHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		info, err := srv.Sync(r.Context())
		if err != nil {
			switch {
			case errors.Is(err, common.ErrScanProcessHasAlreadyStarted):
				http.Error(w, "Scan process has already started", http.StatusConflict)
			default:
				http.Error(w, "Cannot sync library", http.StatusInternalServerError)
			}

			return
		}

		writeJSON(w, info, log)
	}
}

func NewPlayHandler(progress ProgressService, playback PlaybackService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "PlayHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		courseID, moduleID, lessonID, ok := lessonPath(r)
		if !ok {
			http.Error(w, "Bad request", http.StatusBadRequest)

			return
		}

		lesson, err := progress.Lesson(courseID, moduleID, lessonID)
		if err != nil {
			writeCourseError(w, err)

			return
		}

		active, err := playback.Activate(courseID, lesson)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrFileNotInSessionError):
				http.Error(w, "File not available in this session. Re-select the course folder.", http.StatusConflict)
			default:
				http.Error(w, "Cannot activate lesson", http.StatusInternalServerError)
			}

			return
		}

		writeJSON(w, active, log)
	}
}

func NewActiveVideoHandler(srv PlaybackService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "ActiveVideoHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		active := srv.Active()
		if active == nil {
			http.Error(w, "No active video", http.StatusNotFound)

			return
		}

		writeJSON(w, active, log)
	}
}

func NewClearPlaybackHandler(srv PlaybackService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "ClearPlaybackHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		srv.Clear()

		w.WriteHeader(http.StatusNoContent)
	}
}

func lessonPath(r *http.Request) (courseID, moduleID, lessonID string, ok bool) {
	courseID = r.PathValue("cid")
	moduleID = r.PathValue("mid")
	lessonID = r.PathValue("lid")

	ok = courseIDRegexp.MatchString(courseID) &&
		uuidRegexp.MatchString(moduleID) &&
		uuidRegexp.MatchString(lessonID)

	return courseID, moduleID, lessonID, ok
}

func writeCourseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrCourseNotFoundError):
		http.Error(w, "Cannot find course", http.StatusNotFound)
	default:
		http.Error(w, "Cannot get course", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, data any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Cannot encode response", slog.Any("error", err))
	}
}
