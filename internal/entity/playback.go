package entity

// ActiveVideo describes the currently playing lesson. The URL resolves only
// for the lifetime of the playback token that backs it.
type ActiveVideo struct {
	CourseID string `json:"courseId"`
	Lesson   Lesson `json:"lesson"`
	URL      string `json:"url"`
}
