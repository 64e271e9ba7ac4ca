package progress

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jgivc/coursetracker/internal/common"
	"github.com/jgivc/coursetracker/internal/entity"
	"github.com/jgivc/coursetracker/internal/service/course"
)

const (
	serviceName = "progress"
)

type CourseRepository interface {
	Load(ctx context.Context) ([]entity.Course, error)
	Save(ctx context.Context, courses []entity.Course) error
}

type PlaybackSession interface {
	ClearCourse(courseID string)
}

// Store owns the in-memory course collection. It is loaded once at startup
// and the whole serialized collection is written back after every mutation.
type Store struct {
	mu       sync.Mutex
	courses  []entity.Course
	repo     CourseRepository
	playback PlaybackSession
	log      *slog.Logger
}

func NewStore(repo CourseRepository, playback PlaybackSession, log *slog.Logger) *Store {
	return &Store{
		repo:     repo,
		playback: playback,
		log:      log.With(slog.String("service", serviceName)),
	}
}

func (s *Store) Load(ctx context.Context) error {
	courses, err := s.repo.Load(ctx)
	if err != nil {
		s.log.Error("Cannot load courses", slog.Any("error", err))

		return fmt.Errorf("cannot load courses: %w", err)
	}

	s.mu.Lock()
	s.courses = courses
	s.mu.Unlock()

	s.log.Info("Loaded courses", slog.Int("count", len(courses)))

	return nil
}

func (s *Store) List() []entity.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses := make([]entity.Course, len(s.courses))
	copy(courses, s.courses)

	return courses
}

func (s *Store) Get(id string) (entity.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.courses {
		if c.ID == id {
			return c, nil
		}
	}

	return entity.Course{}, common.ErrCourseNotFoundError
}

func (s *Store) FindByTitle(title string) (entity.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.courses {
		if c.Title == title {
			return c, true
		}
	}

	return entity.Course{}, false
}

func (s *Store) Add(ctx context.Context, c entity.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.courses = append(s.courses, c)

	return s.save(ctx)
}

// Toggle flips the completion flag of exactly the addressed lesson. The
// course, module and lesson on the path are replaced with copies, sibling
// subtrees are reused. An unresolved triple changes nothing but the stored
// value is still rewritten.
func (s *Store) Toggle(ctx context.Context, courseID, moduleID, lessonID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updateLesson(courseID, moduleID, lessonID, func(l entity.Lesson) entity.Lesson {
		l.Completed = !l.Completed

		return l
	})

	return s.save(ctx)
}

// Rename sets the display title verbatim. Empty titles are accepted,
// OriginalName and FileKey are never touched.
func (s *Store) Rename(ctx context.Context, courseID, moduleID, lessonID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updateLesson(courseID, moduleID, lessonID, func(l entity.Lesson) entity.Lesson {
		l.Title = title

		return l
	})

	return s.save(ctx)
}

func (s *Store) Remove(ctx context.Context, courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses := make([]entity.Course, 0, len(s.courses))
	for _, c := range s.courses {
		if c.ID == courseID {
			continue
		}

		courses = append(courses, c)
	}
	s.courses = courses

	s.playback.ClearCourse(courseID)

	return s.save(ctx)
}

func (s *Store) Stats(id string) (entity.CourseStats, error) {
	c, err := s.Get(id)
	if err != nil {
		return entity.CourseStats{}, err
	}

	return course.Stats(c), nil
}

func (s *Store) Lesson(courseID, moduleID, lessonID string) (entity.Lesson, error) {
	c, err := s.Get(courseID)
	if err != nil {
		return entity.Lesson{}, err
	}

	for _, m := range c.Modules {
		if m.ID != moduleID {
			continue
		}

		for _, l := range m.Lessons {
			if l.ID == lessonID {
				return l, nil
			}
		}
	}

	return entity.Lesson{}, common.ErrCourseNotFoundError
}

// updateLesson rebuilds the path from course to lesson with value copies.
// Callers must hold the lock.
func (s *Store) updateLesson(courseID, moduleID, lessonID string, fn func(entity.Lesson) entity.Lesson) {
	for ci, c := range s.courses {
		if c.ID != courseID {
			continue
		}

		for mi, m := range c.Modules {
			if m.ID != moduleID {
				continue
			}

			for li, l := range m.Lessons {
				if l.ID != lessonID {
					continue
				}

				lessons := make([]entity.Lesson, len(m.Lessons))
				copy(lessons, m.Lessons)
				lessons[li] = fn(l)

				modules := make([]entity.Module, len(c.Modules))
				copy(modules, c.Modules)
				modules[mi].Lessons = lessons

				c.Modules = modules
				s.courses[ci] = c

				return
			}
		}
	}
}

func (s *Store) save(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.courses); err != nil {
		s.log.Error("Cannot save courses", slog.Any("error", err))

		return fmt.Errorf("cannot save courses: %w", err)
	}

	return nil
}
