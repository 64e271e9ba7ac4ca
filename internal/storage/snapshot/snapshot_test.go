package snapshot

import (
	"io"
	"log/slog"
	"testing"

	"github.com/jgivc/coursetracker/internal/entity"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestDump(t *testing.T) {
	fs := afero.NewMemMapFs()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := NewWriterWithFS(fs, log)

	courses := []entity.Course{
		{
			ID:    "100",
			Title: "Curso X",
			Modules: []entity.Module{
				{
					Title: "Modulo 1",
					Lessons: []entity.Lesson{
						{Title: "Aula 1", Completed: true},
						{Title: "Aula 2"},
					},
				},
			},
		},
	}

	require.NoError(t, w.Dump("/tmp/progress.yml", courses))

	data, err := afero.ReadFile(fs, "/tmp/progress.yml")
	require.NoError(t, err)

	var snap ProgressSnapshot
	require.NoError(t, yaml.Unmarshal(data, &snap))

	require.Len(t, snap.Courses, 1)
	cs := snap.Courses[0]
	require.Equal(t, "Curso X", cs.Title)
	require.Equal(t, 2, cs.Total)
	require.Equal(t, 1, cs.Completed)
	require.Equal(t, 50, cs.Percentage)
	require.Equal(t, []LessonSnapshot{
		{Module: "Modulo 1", Title: "Aula 1", Completed: true},
		{Module: "Modulo 1", Title: "Aula 2"},
	}, cs.Lessons)
}

func TestDumpEmptyCollection(t *testing.T) {
	fs := afero.NewMemMapFs()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := NewWriterWithFS(fs, log)

	require.NoError(t, w.Dump("/tmp/progress.yml", nil))

	data, err := afero.ReadFile(fs, "/tmp/progress.yml")
	require.NoError(t, err)

	var snap ProgressSnapshot
	require.NoError(t, yaml.Unmarshal(data, &snap))
	require.Empty(t, snap.Courses)
}
