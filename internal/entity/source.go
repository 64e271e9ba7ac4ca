package entity

// SourceFile is a single video file found during a folder scan.
type SourceFile struct {
	RelPath    string // Path relative to the courses root: <course>/<module>/<file> or <course>/<file>
	SourcePath string // Absolute path on disk, session-only, never persisted
	Size       int64
	MIMEType   string
}

// CourseSource is the raw result of scanning one course folder, before
// structure derivation.
type CourseSource struct {
	Title       string
	Description string // Rendered HTML from the description file, if any
	SourcePath  string
	Files       []SourceFile
}

// SyncInfo summarizes one library sync pass.
type SyncInfo struct {
	Added     int `json:"added"`
	Refreshed int `json:"refreshed"`
}
