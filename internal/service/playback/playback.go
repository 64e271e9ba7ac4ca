package playback

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jgivc/coursetracker/internal/common"
	"github.com/jgivc/coursetracker/internal/entity"
	"github.com/jgivc/coursetracker/internal/util"
)

const (
	serviceName = "playback"

	mediaURLPrefix = "/media/"
)

// Session holds the transient file map of the current process: fileKey to
// absolute path, rebuilt by every scan and never persisted. It also tracks
// the single active video and the token its media URL resolves through.
// Activating a new lesson revokes the previous token, so superseded URLs
// stop working instead of leaking for the whole session.
type Session struct {
	mu     sync.Mutex
	files  map[string]string
	token  string
	path   string
	active *entity.ActiveVideo
	log    *slog.Logger
}

func NewSession(log *slog.Logger) *Session {
	return &Session{
		files: make(map[string]string),
		log:   log.With(slog.String("service", serviceName)),
	}
}

// Refresh merges the scanned files into the session map. Re-selecting a
// folder of an already known course only passes through here, the persisted
// structure is left alone.
func (s *Session) Refresh(files []entity.SourceFile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, file := range files {
		relPath := file.RelPath
		s.files[util.GetIDFromString(&relPath)] = file.SourcePath
	}

	s.log.Debug("Session file map refreshed", slog.Int("count", len(s.files)))
}

func (s *Session) Activate(courseID string, lesson entity.Lesson) (*entity.ActiveVideo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, exists := s.files[lesson.FileKey]
	if !exists {
		return nil, common.ErrFileNotInSessionError
	}

	s.token = uuid.NewString()
	s.path = path
	s.active = &entity.ActiveVideo{
		CourseID: courseID,
		Lesson:   lesson,
		URL:      mediaURLPrefix + s.token,
	}

	s.log.Info("Activate lesson", slog.String("course_id", courseID), slog.String("file_key", lesson.FileKey))

	active := *s.active

	return &active, nil
}

func (s *Session) Active() *entity.ActiveVideo {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil
	}

	active := *s.active

	return &active
}

// Resolve maps a media token to the file path behind it. Revoked and unknown
// tokens are indistinguishable.
func (s *Session) Resolve(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" || token != s.token {
		return "", common.ErrTokenNotFoundError
	}

	return s.path, nil
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clear()
}

// ClearCourse drops the active video if it belongs to the given course.
// Deleting any other course leaves playback running.
func (s *Session) ClearCourse(courseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || s.active.CourseID != courseID {
		return
	}

	s.clear()
}

func (s *Session) clear() {
	s.token = ""
	s.path = ""
	s.active = nil
}
