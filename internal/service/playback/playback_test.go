package playback

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jgivc/coursetracker/internal/common"
	"github.com/jgivc/coursetracker/internal/entity"
	"github.com/jgivc/coursetracker/internal/util"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*Session, entity.Lesson) {
	t.Helper()

	session := NewSession(slog.New(slog.NewTextHandler(io.Discard, nil)))

	relPath := "Curso X/Aula 1.mp4"
	session.Refresh([]entity.SourceFile{
		{RelPath: relPath, SourcePath: "/courses/Curso X/Aula 1.mp4"},
	})

	lesson := entity.Lesson{
		ID:           "lesson-1",
		FileKey:      util.GetIDFromString(&relPath),
		OriginalName: "Aula 1.mp4",
		Title:        "Aula 1",
	}

	return session, lesson
}

func tokenFromURL(t *testing.T, url string) string {
	t.Helper()

	require.True(t, strings.HasPrefix(url, "/media/"))

	return strings.TrimPrefix(url, "/media/")
}

func TestActivate(t *testing.T) {
	session, lesson := newTestSession(t)

	active, err := session.Activate("100", lesson)
	require.NoError(t, err)
	require.Equal(t, "100", active.CourseID)
	require.Equal(t, lesson, active.Lesson)

	path, err := session.Resolve(tokenFromURL(t, active.URL))
	require.NoError(t, err)
	require.Equal(t, "/courses/Curso X/Aula 1.mp4", path)
}

func TestActivateFileNotInSession(t *testing.T) {
	session, lesson := newTestSession(t)

	lesson.FileKey = "unknown"
	_, err := session.Activate("100", lesson)
	require.ErrorIs(t, err, common.ErrFileNotInSessionError)
	require.Nil(t, session.Active())
}

func TestActivateRevokesPreviousToken(t *testing.T) {
	session, lesson := newTestSession(t)

	first, err := session.Activate("100", lesson)
	require.NoError(t, err)

	second, err := session.Activate("100", lesson)
	require.NoError(t, err)
	require.NotEqual(t, first.URL, second.URL)

	_, err = session.Resolve(tokenFromURL(t, first.URL))
	require.ErrorIs(t, err, common.ErrTokenNotFoundError)

	_, err = session.Resolve(tokenFromURL(t, second.URL))
	require.NoError(t, err)
}

func TestResolveEmptyToken(t *testing.T) {
	session, _ := newTestSession(t)

	_, err := session.Resolve("")
	require.ErrorIs(t, err, common.ErrTokenNotFoundError)
}

func TestClearCourse(t *testing.T) {
	session, lesson := newTestSession(t)

	active, err := session.Activate("100", lesson)
	require.NoError(t, err)

	session.ClearCourse("200")
	require.NotNil(t, session.Active())

	session.ClearCourse("100")
	require.Nil(t, session.Active())

	_, err = session.Resolve(tokenFromURL(t, active.URL))
	require.ErrorIs(t, err, common.ErrTokenNotFoundError)
}

func TestRefreshKeepsExistingEntries(t *testing.T) {
	session, lesson := newTestSession(t)

	other := "Curso Y/01.mp4"
	session.Refresh([]entity.SourceFile{
		{RelPath: other, SourcePath: "/courses/Curso Y/01.mp4"},
	})

	_, err := session.Activate("100", lesson)
	require.NoError(t, err)
}
