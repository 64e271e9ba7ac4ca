package course

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jgivc/coursetracker/internal/entity"
	"github.com/redis/go-redis/v9"
)

const (
	// KeyCourses holds the whole collection as one JSON array. The store is
	// single-writer and rewrites the full value on every mutation, so one key
	// is enough.
	KeyCourses = "courses"
)

type courseRepository struct {
	cl  *redis.Client
	log *slog.Logger
}

func NewCourseRepository(cl *redis.Client, log *slog.Logger) *courseRepository {
	return &courseRepository{
		cl:  cl,
		log: log.With(slog.String("item", "CourseRepository")),
	}
}

// Load restores the persisted collection. A missing key is an empty
// collection; an unparseable value is an error, not silent data loss.
func (r *courseRepository) Load(ctx context.Context) ([]entity.Course, error) {
	data, err := r.cl.Get(ctx, KeyCourses).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []entity.Course{}, nil
		}

		return nil, fmt.Errorf("cannot get courses: %w", err)
	}

	var courses []entity.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, fmt.Errorf("cannot unmarshal courses: %w", err)
	}

	return courses, nil
}

func (r *courseRepository) Save(ctx context.Context, courses []entity.Course) error {
	data, err := json.Marshal(courses)
	if err != nil {
		return fmt.Errorf("cannot marshal courses: %w", err)
	}

	if _, err := r.cl.Set(ctx, KeyCourses, data, 0).Result(); err != nil {
		r.log.Error("Cannot save courses", slog.Any("error", err))

		return fmt.Errorf("cannot save courses: %w", err)
	}

	return nil
}
