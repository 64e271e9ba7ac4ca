package course

import (
	"math"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jgivc/coursetracker/internal/common"
	"github.com/jgivc/coursetracker/internal/entity"
	"github.com/jgivc/coursetracker/internal/util"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	defaultModuleTitle = "general"
)

// Derive builds a Course from one batch of scanned files. A file whose
// relative path has more than two segments belongs to the module named by its
// second segment; anything directly under the course root goes into the
// default bucket. Modules keep first-seen order, lessons within a module are
// sorted by original filename with numeric-aware collation so "Aula 2" comes
// before "Aula 10".
func Derive(title string, files []entity.SourceFile) (entity.Course, error) {
	if len(files) < 1 {
		return entity.Course{}, common.ErrNoVideoFilesError
	}

	now := time.Now()
	c := entity.Course{
		ID:        newCourseID(now),
		Title:     title,
		CreatedAt: now,
	}

	moduleIdx := make(map[string]int)
	for _, file := range files {
		relPath := strings.ReplaceAll(file.RelPath, "\\", "/")

		moduleTitle := defaultModuleTitle
		if segments := strings.Split(relPath, "/"); len(segments) > 2 {
			moduleTitle = segments[1]
		}

		idx, exists := moduleIdx[moduleTitle]
		if !exists {
			idx = len(c.Modules)
			moduleIdx[moduleTitle] = idx
			c.Modules = append(c.Modules, entity.Module{
				ID:    uuid.NewString(),
				Title: moduleTitle,
			})
		}

		c.Modules[idx].Lessons = append(c.Modules[idx].Lessons, newLesson(file, relPath))
	}

	cl := collate.New(language.Und, collate.Numeric, collate.IgnoreCase)
	for i := range c.Modules {
		cl.Sort(lessonSorter(c.Modules[i].Lessons))
	}

	return c, nil
}

var (
	idMu   sync.Mutex
	lastID int64
)

// newCourseID keeps the millisecond-timestamp identity but stays strictly
// increasing, so courses derived in the same millisecond (a batch sync) still
// get distinct ids.
func newCourseID(now time.Time) string {
	idMu.Lock()
	defer idMu.Unlock()

	id := now.UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id

	return strconv.FormatInt(id, 10)
}

func newLesson(file entity.SourceFile, relPath string) entity.Lesson {
	name := path.Base(relPath)

	return entity.Lesson{
		ID:           uuid.NewString(),
		FileKey:      util.GetIDFromString(&file.RelPath),
		OriginalName: name,
		Title:        strings.TrimSuffix(name, path.Ext(name)),
	}
}

// Stats counts lessons and completions; the percentage is rounded to the
// nearest integer and an empty course reports zero instead of dividing by it.
func Stats(c entity.Course) entity.CourseStats {
	var stats entity.CourseStats

	for _, m := range c.Modules {
		stats.Total += len(m.Lessons)
		for _, l := range m.Lessons {
			if l.Completed {
				stats.Completed++
			}
		}
	}

	if stats.Total > 0 {
		stats.Percentage = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}

	return stats
}

type lessonSorter []entity.Lesson

func (s lessonSorter) Len() int           { return len(s) }
func (s lessonSorter) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s lessonSorter) Bytes(i int) []byte { return []byte(s[i].OriginalName) }
