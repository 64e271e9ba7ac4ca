package httphandler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/jgivc/coursetracker/internal/entity"
	"github.com/jgivc/coursetracker/internal/service/course"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"safeHTML": func(s string) template.HTML { return template.HTML(s) },
}).ParseFS(templatesFS, "templates/*.html"))

type courseCard struct {
	entity.Course
	Stats entity.CourseStats
}

type dashboardContext struct {
	Courses []courseCard
}

type coursePageContext struct {
	courseCard
	Active *entity.ActiveVideo
}

func NewDashboardHandler(srv ProgressService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "DashboardHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		courses := srv.List()

		ctx := dashboardContext{Courses: make([]courseCard, 0, len(courses))}
		for _, c := range courses {
			ctx.Courses = append(ctx.Courses, courseCard{Course: c, Stats: course.Stats(c)})
		}

		if err := pageTemplates.ExecuteTemplate(w, "index.html", ctx); err != nil {
			log.Error("Cannot render dashboard", slog.Any("error", err))
		}
	}
}

func NewCoursePageHandler(progress ProgressService, playback PlaybackService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "CoursePageHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if !courseIDRegexp.MatchString(id) {
			http.Error(w, "Bad request", http.StatusBadRequest)

			return
		}

		c, err := progress.Get(id)
		if err != nil {
			writeCourseError(w, err)

			return
		}

		ctx := coursePageContext{
			courseCard: courseCard{Course: c, Stats: course.Stats(c)},
			Active:     playback.Active(),
		}

		if err := pageTemplates.ExecuteTemplate(w, "course.html", ctx); err != nil {
			log.Error("Cannot render course page", slog.Any("error", err))
		}
	}
}
