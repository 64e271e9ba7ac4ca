package entity

import "time"

// Course представляет один курс (папку с видео). Это агрегат.
type Course struct {
	ID          string    `json:"id"`                    // Метка времени создания в миллисекундах
	Title       string    `json:"title"`                 // Имя папки курса или заголовок из frontmatter
	Description string    `json:"description,omitempty"` // HTML-описание из description.md
	Modules     []Module  `json:"modules"`               // Модули в порядке первого появления
	CreatedAt   time.Time `json:"createdAt"`
}

// Module groups the lessons of one first-level subfolder. Files that sit
// directly under the course root fall into a default bucket module.
type Module struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

// Lesson represents a single video file within a module.
type Lesson struct {
	ID           string `json:"id"`
	FileKey      string `json:"fileKey"`      // Stable hash of the course-relative path, survives rescans
	OriginalName string `json:"originalName"` // On-disk filename, never changed
	Title        string `json:"title"`        // User-editable display title
	Completed    bool   `json:"completed"`
	Duration     int    `json:"duration"` // Seconds. Always zero for now.
}

// CourseStats is the computed completion summary of a course.
type CourseStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}
