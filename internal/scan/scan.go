// Package scan enumerates part-definition and ship-assembly files under a
// game directory. It only finds and reads text; all interpretation happens
// in the parser.
package scan

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// PartConfigName is the definition file every part directory carries.
const PartConfigName = "part.cfg"

// File is one raw input: the identifier the content was found under and the
// content itself.
type File struct {
	Name string
	Text string
}

// Parts reads <dir>/<partName>/part.cfg for every subdirectory. A
// subdirectory without a readable part.cfg is skipped with a warning so one
// stray folder cannot sink a catalog load. Results follow directory order,
// so repeated scans are deterministic.
func Parts(dir string, logger *slog.Logger) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading parts directory: %w", err)
	}

	var files []File
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name(), PartConfigName)
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Skipping part directory",
				"dir", entry.Name(),
				"error", err)
			continue
		}
		files = append(files, File{Name: entry.Name(), Text: string(data)})
	}
	return files, nil
}

// Ships reads every regular file in the ships directory. The file name is
// the input identifier; the ship's display name lives inside the content.
func Ships(dir string, logger *slog.Logger) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading ships directory: %w", err)
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Skipping unreadable ship file",
				"file", entry.Name(),
				"error", err)
			continue
		}
		files = append(files, File{Name: entry.Name(), Text: string(data)})
	}
	return files, nil
}
