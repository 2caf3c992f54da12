// Package staging manages the per-invocation scratch directory that
// downloaded media files are written into.
package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"igfetch/pkg/logger"
)

// mediaExtensions are the file extensions counted as staged media
var mediaExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".mp4":  true,
}

// Area is a scratch directory for staged media files
type Area struct {
	dir    string
	logger logger.Logger
}

// New creates a fresh scratch directory under baseDir. An empty baseDir
// uses the OS temp directory.
func New(baseDir string, log logger.Logger) (*Area, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	dir, err := os.MkdirTemp(baseDir, "igfetch-")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	return &Area{dir: dir, logger: log}, nil
}

// Dir returns the scratch directory path
func (a *Area) Dir() string {
	return a.dir
}

// SaveMedia writes a media file into the staging area and returns its path
func (a *Area) SaveMedia(r io.Reader, name string) (string, error) {
	filename := filepath.Join(a.dir, name)

	// Write to a temporary file first, then rename into place
	tempFile := filename + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to save media data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return filename, nil
}

// MediaFiles lists the staged files with a media extension, sorted by name
func (a *Area) MediaFiles() ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read staging directory: %w", err)
	}

	files := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if mediaExtensions[ext] {
			files = append(files, filepath.Join(a.dir, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// Remove deletes the scratch directory. Removal is best-effort: failures
// are logged and suppressed, never surfaced to the caller.
func (a *Area) Remove() {
	if err := os.RemoveAll(a.dir); err != nil {
		a.logger.DebugWithFields("failed to remove staging directory", map[string]interface{}{
			"dir":   a.dir,
			"error": err.Error(),
		})
	}
}
