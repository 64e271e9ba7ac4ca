package common

import "fmt"

var (
	ErrNoVideoFilesError            = fmt.Errorf("no video files found")
	ErrCourseNotFoundError          = fmt.Errorf("course not found")
	ErrFileNotInSessionError        = fmt.Errorf("file not available in this session")
	ErrTokenNotFoundError           = fmt.Errorf("playback token not found")
	ErrScanProcessHasAlreadyStarted = fmt.Errorf("scan process has already started")
)
