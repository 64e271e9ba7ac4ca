package httphandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jgivc/coursetracker/internal/common"
	"github.com/spf13/afero"
)

// NewMediaHandler streams the bytes behind the active playback token.
// A revoked token 404s, so URLs superseded by another Activate stop working.
func NewMediaHandler(fs afero.Fs, srv PlaybackService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "MediaHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		token := r.PathValue("token")
		if !uuidRegexp.MatchString(token) {
			http.Error(w, "Bad request", http.StatusBadRequest)

			return
		}

		path, err := srv.Resolve(token)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrTokenNotFoundError):
				http.Error(w, "Cannot find video", http.StatusNotFound)
			default:
				http.Error(w, "Cannot get video", http.StatusInternalServerError)
			}

			return
		}

		file, err := fs.Open(path)
		if err != nil {
			log.Error("Cannot open video file", slog.String("path", path), slog.Any("error", err))
			http.Error(w, "Cannot open video file", http.StatusInternalServerError)

			return
		}
		defer file.Close()

		stat, err := file.Stat()
		if err != nil {
			log.Error("Cannot stat video file", slog.String("path", path), slog.Any("error", err))
			http.Error(w, "Cannot open video file", http.StatusInternalServerError)

			return
		}

		// ServeContent handles range requests, the player needs them for seeking.
		http.ServeContent(w, r, stat.Name(), stat.ModTime(), file)
	}
}
