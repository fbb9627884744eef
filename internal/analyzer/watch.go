package analyzer

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kspforge/shipwright/internal/scan"
)

// Watch runs a session that stays open: after the initial catalog and fleet
// load it re-scans the ships directory on the given interval and reloads any
// file whose mod-time moved. The catalog is built once and never reloaded,
// so part definition changes need a fresh session. Runs until stop is
// closed, then ends the session with the accumulated summary.
func (s *Service) Watch(interval time.Duration, stop <-chan struct{}) error {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	start := time.Now()
	if err := s.startSession(start); err != nil {
		return err
	}

	reg, failures, err := s.LoadCatalog()
	if err != nil {
		return err
	}
	loaded := uint(0)
	failed := uint(len(failures))

	logger := s.deps.LogManager.Logger()
	shipsDir := filepath.Join(s.deps.Game.Path, s.deps.Game.ShipsSubdir)
	seen := make(map[string]time.Time)

	l, f := s.processResults(s.loadFiles(reg, changedShips(shipsDir, seen, logger)))
	loaded += l
	failed += f

	logger.Info("Watching ships directory", "dir", shipsDir, "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return s.finishSession(start, reg, loaded, failed)
		case <-ticker.C:
			files := changedShips(shipsDir, seen, logger)
			if len(files) == 0 {
				continue
			}
			logger.Info("Reloading changed ships", "count", len(files))
			l, f := s.processResults(s.loadFiles(reg, files))
			loaded += l
			failed += f
		}
	}
}

// changedShips stats every regular file under dir and returns those that are
// new or modified since the last scan, contents included. The seen map is
// updated in place; the first call with an empty map returns everything.
func changedShips(dir string, seen map[string]time.Time, logger *slog.Logger) []scan.File {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("Cannot read ships directory", "dir", dir, "error", err)
		return nil
	}

	var files []scan.File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logger.Warn("Cannot stat ship file", "file", entry.Name(), "error", err)
			continue
		}
		last, ok := seen[entry.Name()]
		if ok && !info.ModTime().After(last) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.Warn("Cannot read ship file", "file", entry.Name(), "error", err)
			continue
		}
		seen[entry.Name()] = info.ModTime()
		files = append(files, scan.File{Name: entry.Name(), Text: string(data)})
	}
	return files
}
