package httphandler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jgivc/coursetracker/internal/common"
	"github.com/jgivc/coursetracker/internal/entity"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const (
	testCourseID = "1700000000000"
	testModuleID = "7e0f33a1-9a55-4c4e-b6d1-2f4d4cf0a111"
	testLessonID = "9b1d6c42-3c77-4c21-a1a0-5e8f9d0b2222"
	testToken    = "11111111-2222-3333-4444-555555555555"
)

type stubProgress struct {
	toggled  int
	renamed  []string
	lesson   entity.Lesson
	getError error
}

func (s *stubProgress) List() []entity.Course { return nil }

func (s *stubProgress) Get(id string) (entity.Course, error) { return entity.Course{}, s.getError }

func (s *stubProgress) Stats(id string) (entity.CourseStats, error) {
	return entity.CourseStats{}, s.getError
}

func (s *stubProgress) Lesson(courseID, moduleID, lessonID string) (entity.Lesson, error) {
	return s.lesson, s.getError
}

func (s *stubProgress) Toggle(ctx context.Context, courseID, moduleID, lessonID string) error {
	s.toggled++

	return nil
}

func (s *stubProgress) Rename(ctx context.Context, courseID, moduleID, lessonID, title string) error {
	s.renamed = append(s.renamed, title)

	return nil
}

func (s *stubProgress) Remove(ctx context.Context, courseID string) error { return nil }

type stubPlayback struct {
	activateError error
	resolvePath   string
	resolveError  error
}

func (s *stubPlayback) Activate(courseID string, lesson entity.Lesson) (*entity.ActiveVideo, error) {
	if s.activateError != nil {
		return nil, s.activateError
	}

	return &entity.ActiveVideo{CourseID: courseID, Lesson: lesson, URL: "/media/" + testToken}, nil
}

func (s *stubPlayback) Active() *entity.ActiveVideo { return nil }

func (s *stubPlayback) Resolve(token string) (string, error) {
	return s.resolvePath, s.resolveError
}

func (s *stubPlayback) Clear() {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func lessonURL(op string) string {
	return "/api/courses/" + testCourseID + "/modules/" + testModuleID + "/lessons/" + testLessonID + "/" + op
}

func TestToggleHandler(t *testing.T) {
	testCases := []struct {
		name            string
		url             string
		expectedStatus  int
		expectedToggles int
	}{
		{
			name:            "valid ids",
			url:             lessonURL("toggle"),
			expectedStatus:  http.StatusNoContent,
			expectedToggles: 1,
		},
		{
			name:            "malformed ids are a silent no-op",
			url:             "/api/courses/abc/modules/nope/lessons/nope/toggle",
			expectedStatus:  http.StatusNoContent,
			expectedToggles: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := &stubProgress{}
			mux := http.NewServeMux()
			mux.Handle("POST /api/courses/{cid}/modules/{mid}/lessons/{lid}/toggle",
				NewToggleHandler(srv, discardLogger()))

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tc.url, nil))

			require.Equal(t, tc.expectedStatus, rec.Code)
			require.Equal(t, tc.expectedToggles, srv.toggled)
		})
	}
}

func TestRenameHandlerAcceptsEmptyTitle(t *testing.T) {
	srv := &stubProgress{}
	mux := http.NewServeMux()
	mux.Handle("PUT /api/courses/{cid}/modules/{mid}/lessons/{lid}/title",
		NewRenameHandler(srv, discardLogger()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, lessonURL("title"), strings.NewReader(`{"title": ""}`))
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, []string{""}, srv.renamed)
}

func TestCourseHandlerNotFound(t *testing.T) {
	srv := &stubProgress{getError: common.ErrCourseNotFoundError}
	mux := http.NewServeMux()
	mux.Handle("GET /api/courses/{id}", NewCourseHandler(srv, discardLogger()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/courses/"+testCourseID, nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlayHandlerFileNotInSession(t *testing.T) {
	progress := &stubProgress{lesson: entity.Lesson{ID: testLessonID}}
	playback := &stubPlayback{activateError: common.ErrFileNotInSessionError}

	mux := http.NewServeMux()
	mux.Handle("POST /api/courses/{cid}/modules/{mid}/lessons/{lid}/play",
		NewPlayHandler(progress, playback, discardLogger()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, lessonURL("play"), nil))

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "Re-select the course folder")
}

func TestMediaHandler(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/courses/Curso X/Aula 1.mp4", []byte("video-bytes"), 0o644))

	testCases := []struct {
		name           string
		token          string
		playback       *stubPlayback
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "active token streams the file",
			token:          testToken,
			playback:       &stubPlayback{resolvePath: "/courses/Curso X/Aula 1.mp4"},
			expectedStatus: http.StatusOK,
			expectedBody:   "video-bytes",
		},
		{
			name:           "revoked token",
			token:          testToken,
			playback:       &stubPlayback{resolveError: common.ErrTokenNotFoundError},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "malformed token",
			token:          "not-a-token",
			playback:       &stubPlayback{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.Handle("GET /media/{token}", NewMediaHandler(fs, tc.playback, discardLogger()))

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/"+tc.token, nil))

			require.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedBody != "" {
				require.Equal(t, tc.expectedBody, rec.Body.String())
			}
		})
	}
}
