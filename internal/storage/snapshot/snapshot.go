package snapshot

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jgivc/coursetracker/internal/entity"
	"github.com/jgivc/coursetracker/internal/service/course"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	snapshotFileMode = 0o644
)

type ProgressSnapshot struct {
	CreatedAt time.Time        `yaml:"created_at"`
	Courses   []CourseSnapshot `yaml:"courses"`
}

type CourseSnapshot struct {
	ID         string           `yaml:"id"`
	Title      string           `yaml:"title"`
	Total      int              `yaml:"total"`
	Completed  int              `yaml:"completed"`
	Percentage int              `yaml:"percentage"`
	Lessons    []LessonSnapshot `yaml:"lessons"`
}

type LessonSnapshot struct {
	Module    string `yaml:"module"`
	Title     string `yaml:"title"`
	Completed bool   `yaml:"completed"`
}

// Writer dumps a human-readable progress snapshot, a survivable copy of the
// completion state outside Redis.
type Writer struct {
	fs  afero.Fs
	log *slog.Logger
}

func NewWriter(log *slog.Logger) *Writer {
	return NewWriterWithFS(afero.NewOsFs(), log)
}

func NewWriterWithFS(fs afero.Fs, log *slog.Logger) *Writer {
	return &Writer{
		fs:  fs,
		log: log.With(slog.String("item", "SnapshotWriter")),
	}
}

func (w *Writer) Dump(fileName string, courses []entity.Course) error {
	snap := ProgressSnapshot{
		CreatedAt: time.Now(),
		Courses:   make([]CourseSnapshot, 0, len(courses)),
	}

	for _, c := range courses {
		stats := course.Stats(c)

		cs := CourseSnapshot{
			ID:         c.ID,
			Title:      c.Title,
			Total:      stats.Total,
			Completed:  stats.Completed,
			Percentage: stats.Percentage,
		}

		for _, m := range c.Modules {
			for _, l := range m.Lessons {
				cs.Lessons = append(cs.Lessons, LessonSnapshot{
					Module:    m.Title,
					Title:     l.Title,
					Completed: l.Completed,
				})
			}
		}

		snap.Courses = append(snap.Courses, cs)
	}

	data, err := yaml.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("cannot marshal snapshot: %w", err)
	}

	if err := afero.WriteFile(w.fs, fileName, data, snapshotFileMode); err != nil {
		w.log.Error("Cannot write snapshot", slog.String("file", fileName), slog.Any("error", err))

		return fmt.Errorf("cannot write snapshot: %w", err)
	}

	w.log.Info("Snapshot written", slog.String("file", fileName), slog.Int("courses", len(snap.Courses)))

	return nil
}
