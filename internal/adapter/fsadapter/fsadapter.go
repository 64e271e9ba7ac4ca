package fsadapter

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/jgivc/coursetracker/internal/common"
	"github.com/jgivc/coursetracker/internal/config"
	"github.com/jgivc/coursetracker/internal/entity"
	"github.com/spf13/afero"
)

const (
	maxFiles              = 1000
	mimeTypeUnknown       = "application/octet-stream"
	mimeTypeCheckPartSize = 512
	mimeTypeVideoPrefix   = "video/"
)

type fsAdapter struct {
	fs        afero.Fs
	cfg       *config.FSAdapterConfig
	extsMap   map[string]struct{}
	skipFiles map[string]struct{}
	desc      *descriptionRenderer

	log *slog.Logger
}

func NewFSAdapter(cfg *config.FSAdapterConfig, log *slog.Logger) (*fsAdapter, error) {
	return NewFSAdapterWithFS(afero.NewOsFs(), cfg, log)
}

func NewFSAdapterWithFS(fs afero.Fs, cfg *config.FSAdapterConfig, log *slog.Logger) (*fsAdapter, error) {
	extsMap := make(map[string]struct{}, len(cfg.VideoExtensions))
	for _, ext := range cfg.VideoExtensions {
		extsMap[strings.ToLower(ext)] = struct{}{}
	}

	skipFilesMap := make(map[string]struct{})
	skipFilesMap[cfg.DescFileName] = struct{}{}

	fsa := &fsAdapter{
		fs:        fs,
		cfg:       cfg,
		extsMap:   extsMap,
		skipFiles: skipFilesMap,
		desc:      newDescriptionRenderer(),
		log:       log,
	}

	return fsa, nil
}

// ToCourseSource converts one course folder into a raw source: the folder name
// as title, every video file directly under the root or one subfolder deep as
// a SourceFile with its course-relative path, and the rendered description if
// the folder carries one. Folders with no recognizable video files are
// rejected entirely.
func (a *fsAdapter) ToCourseSource(folderPath string) (*entity.CourseSource, error) {
	if strings.Contains(folderPath, "..") {
		return nil, fmt.Errorf("invalid folder path")
	}

	title := filepath.Base(folderPath)

	files, err := a.readFiles(folderPath, title)
	if err != nil {
		return nil, fmt.Errorf("cannot get folder files: %w", err)
	}

	if len(files) < 1 {
		return nil, common.ErrNoVideoFilesError
	}

	source := &entity.CourseSource{
		Title:      title,
		SourcePath: folderPath,
		Files:      files,
	}

	descFileName := filepath.Join(folderPath, a.cfg.DescFileName)
	if a.fileExists(descFileName) {
		content, err := afero.ReadFile(a.fs, descFileName)
		if err != nil {
			return nil, fmt.Errorf("cannot read description file: %w", err)
		}

		html, fm, err := a.desc.Render(content)
		if err != nil {
			return nil, fmt.Errorf("cannot render description: %w", err)
		}

		source.Description = html
		if fm != nil && fm.Title != "" {
			source.Title = fm.Title
		}
	}

	return source, nil
}

// readFiles walks the course root and one level of module subfolders.
// Relative paths keep the course folder name as their first segment so
// derivation can tell module files from ungrouped ones.
func (a *fsAdapter) readFiles(folderPath, title string) ([]entity.SourceFile, error) {
	entries, err := afero.ReadDir(a.fs, folderPath)
	if err != nil {
		return nil, err
	}

	var files []entity.SourceFile
	for _, entry := range entries {
		if entry.IsDir() {
			subDir := filepath.Join(folderPath, entry.Name())
			subEntries, err := afero.ReadDir(a.fs, subDir)
			if err != nil {
				a.log.Error("Cannot read module folder", slog.String("path", subDir), slog.Any("error", err))

				continue
			}

			for _, subEntry := range subEntries {
				if subEntry.IsDir() {
					continue
				}

				if file, ok := a.toSourceFile(filepath.Join(subDir, subEntry.Name()),
					strings.Join([]string{title, entry.Name(), subEntry.Name()}, "/")); ok {
					files = append(files, file)
				}

				if len(files) >= maxFiles {
					return files, nil
				}
			}

			continue
		}

		if file, ok := a.toSourceFile(filepath.Join(folderPath, entry.Name()),
			strings.Join([]string{title, entry.Name()}, "/")); ok {
			files = append(files, file)
		}

		if len(files) >= maxFiles {
			break
		}
	}

	return files, nil
}

func (a *fsAdapter) toSourceFile(sourcePath, relPath string) (entity.SourceFile, bool) {
	name := filepath.Base(sourcePath)
	if _, exists := a.skipFiles[name]; exists {
		a.log.Info("Skip file", slog.String("path", sourcePath))

		return entity.SourceFile{}, false
	}

	mimeType, err := a.getMimeType(sourcePath)
	if err != nil {
		a.log.Error("Cannot get file mimeType", slog.String("path", sourcePath), slog.Any("error", err))
	}

	if !a.isVideo(name, mimeType) {
		return entity.SourceFile{}, false
	}

	file := entity.SourceFile{
		RelPath:    relPath,
		SourcePath: sourcePath,
		MIMEType:   mimeType,
	}

	stat, err := a.fs.Stat(sourcePath)
	if err != nil {
		a.log.Error("Cannot get file size", slog.String("path", sourcePath), slog.Any("error", err))
	} else {
		file.Size = stat.Size()
	}

	return file, true
}

func (a *fsAdapter) isVideo(name, mimeType string) bool {
	if _, exists := a.extsMap[strings.ToLower(filepath.Ext(name))]; exists {
		return true
	}

	return strings.HasPrefix(mimeType, mimeTypeVideoPrefix)
}

func (a *fsAdapter) getMimeType(filePath string) (string, error) {
	if ext := filepath.Ext(filePath); ext != "" {
		if mimeType := mime.TypeByExtension(ext); mimeType != "" {
			return mimeType, nil
		}
	}

	file, err := a.fs.Open(filePath)
	if err != nil {
		return mimeTypeUnknown, err
	}
	defer file.Close()

	buffer := make([]byte, mimeTypeCheckPartSize)
	_, err = file.Read(buffer)
	if err != nil && err != io.EOF {
		return mimeTypeUnknown, err
	}

	contentType := http.DetectContentType(buffer)
	return contentType, nil
}

func (a *fsAdapter) fileExists(path string) bool {
	if path == "" {
		return false
	}

	_, err := a.fs.Stat(path)
	if err == nil {
		return true
	}

	if os.IsNotExist(err) {
		return false
	}

	return false
}
