// Package analyzer drives a full load session: scan the game tree, build
// the part catalog, load the ship fleet through the worker pool, render
// reports, and publish everything to the configured storage backend.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kspforge/shipwright/internal/api"
	"github.com/kspforge/shipwright/internal/catalog"
	"github.com/kspforge/shipwright/internal/config"
	"github.com/kspforge/shipwright/internal/fleet"
	"github.com/kspforge/shipwright/internal/influx"
	"github.com/kspforge/shipwright/internal/logging"
	"github.com/kspforge/shipwright/internal/model"
	"github.com/kspforge/shipwright/internal/parser"
	"github.com/kspforge/shipwright/internal/scan"
	"github.com/kspforge/shipwright/internal/session"
	"github.com/kspforge/shipwright/internal/storage"
)

// Dependencies holds all dependencies for the analyzer service
type Dependencies struct {
	Parser         *parser.Parser
	Backend        storage.Backend
	LogManager     *logging.SlogManager
	FleetLog       *logging.FleetLogger
	SessionContext *session.Context
	Influx         *influx.Manager // optional
	APIClient      *api.Client     // optional
	Game           config.GameConfig
	Tag            string
	ToolVersion    string
	Workers        int
	Out            io.Writer // report destination, defaults to stdout
}

// Service runs load sessions against one game install
type Service struct {
	deps Dependencies
	out  io.Writer
}

// NewService creates a new analyzer service
func NewService(deps Dependencies) *Service {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	return &Service{deps: deps, out: out}
}

// Run performs one complete session: catalog, fleet, reports, summary.
func (s *Service) Run() error {
	start := time.Now()
	if err := s.startSession(start); err != nil {
		return err
	}

	reg, failures, err := s.LoadCatalog()
	if err != nil {
		return err
	}

	results := s.LoadFleet(reg)
	loaded, failed := s.processResults(results)

	return s.finishSession(start, reg, loaded, uint(len(failures))+failed)
}

// RunCatalog loads and prints the part catalog without touching ship files.
func (s *Service) RunCatalog() error {
	start := time.Now()
	if err := s.startSession(start); err != nil {
		return err
	}

	reg, failures, err := s.LoadCatalog()
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, RenderCatalog(reg))

	return s.finishSession(start, reg, 0, uint(len(failures)))
}

// RunShip loads the catalog plus a single assembly file and prints its
// report. The file does not need to live under the install's ships dir.
func (s *Service) RunShip(path string) error {
	start := time.Now()
	if err := s.startSession(start); err != nil {
		return err
	}

	reg, failures, err := s.LoadCatalog()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading ship file: %w", err)
	}
	results := s.loadFiles(reg, []scan.File{{Name: filepath.Base(path), Text: string(data)}})
	loaded, failed := s.processResults(results)

	return s.finishSession(start, reg, loaded, uint(len(failures))+failed)
}

// RunFixtures runs a session over caller-supplied inputs instead of the
// game tree. Demo mode feeds its canned catalog and fleet through here.
func (s *Service) RunFixtures(parts []catalog.Input, ships []scan.File) error {
	start := time.Now()
	if err := s.startSession(start); err != nil {
		return err
	}

	reg, failures, err := s.buildCatalog(parts)
	if err != nil {
		return err
	}

	results := s.loadFiles(reg, ships)
	loaded, failed := s.processResults(results)

	return s.finishSession(start, reg, loaded, uint(len(failures))+failed)
}

// startSession opens the session on the backend and publishes it to the
// shared session context so the monitor picks it up.
func (s *Service) startSession(start time.Time) error {
	install := &model.Install{
		Path:        s.deps.Game.Path,
		PartsSubdir: s.deps.Game.PartsSubdir,
		ShipsSubdir: s.deps.Game.ShipsSubdir,
	}
	sess := &model.Session{
		StartTime:   start,
		Tag:         s.deps.Tag,
		ToolVersion: s.deps.ToolVersion,
	}
	if err := s.deps.Backend.StartSession(install, sess); err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	s.deps.SessionContext.SetSession(sess, install)

	s.deps.LogManager.Logger().Info("Session started",
		"tag", sess.Tag,
		"install", install.Path,
	)
	return nil
}

// LoadCatalog scans the parts directory and builds the session catalog.
func (s *Service) LoadCatalog() (*catalog.Registry, []catalog.LoadFailure, error) {
	partsDir := filepath.Join(s.deps.Game.Path, s.deps.Game.PartsSubdir)
	files, err := scan.Parts(partsDir, s.deps.LogManager.Logger())
	if err != nil {
		return nil, nil, fmt.Errorf("scanning parts: %w", err)
	}

	inputs := make([]catalog.Input, len(files))
	for i, f := range files {
		inputs[i] = catalog.Input{Name: f.Name, Text: f.Text}
	}
	return s.buildCatalog(inputs)
}

// buildCatalog loads part definitions into a fresh registry and publishes
// every accepted part type to storage before any ship load starts.
func (s *Service) buildCatalog(inputs []catalog.Input) (*catalog.Registry, []catalog.LoadFailure, error) {
	logger := s.deps.LogManager.Logger()

	reg, err := catalog.NewRegistry(logger)
	if err != nil {
		return nil, nil, fmt.Errorf("creating catalog: %w", err)
	}
	failures := reg.LoadAll(s.deps.Parser, inputs)

	for _, f := range failures {
		s.recordEvent("catalog:load", fmt.Sprintf("Part definition rejected: %v", f.Err),
			map[string]any{"input": f.Input})
	}
	s.recordEvent("catalog:load", fmt.Sprintf("%d part types loaded", reg.Len()), nil)

	for _, name := range reg.Names() {
		pt, _ := reg.Lookup(name)
		if err := s.deps.Backend.AddPartType(pt, name+"/"+scan.PartConfigName); err != nil {
			logger.Error("Failed to record part type", "part", name, "error", err)
		}
	}

	return reg, failures, nil
}

// LoadFleet scans the ships directory and loads every assembly through the
// worker pool. A missing or unreadable directory yields an empty fleet, not
// a fatal error, so catalog-only installs still produce a session.
func (s *Service) LoadFleet(reg *catalog.Registry) []fleet.Result {
	logger := s.deps.LogManager.Logger()
	shipsDir := filepath.Join(s.deps.Game.Path, s.deps.Game.ShipsSubdir)

	files, err := scan.Ships(shipsDir, logger)
	if err != nil {
		logger.Error("Scanning ships failed", "dir", shipsDir, "error", err)
		s.recordEvent("fleet:scan", fmt.Sprintf("Ship scan failed: %v", err),
			map[string]any{"dir": shipsDir})
		return nil
	}
	return s.loadFiles(reg, files)
}

func (s *Service) loadFiles(reg *catalog.Registry, files []scan.File) []fleet.Result {
	loader := fleet.NewLoader(fleet.Dependencies{
		Parser:  s.deps.Parser,
		Catalog: reg,
		Log:     s.deps.FleetLog,
	}, s.deps.Workers)
	return loader.Load(files)
}

// processResults records each loaded ship, renders its report, and turns
// failures into load events.
func (s *Service) processResults(results []fleet.Result) (loaded, failed uint) {
	logger := s.deps.LogManager.Logger()
	for _, res := range results {
		if res.Err != nil {
			failed++
			s.recordEvent("fleet:load", fmt.Sprintf("Ship load failed: %v", res.Err),
				map[string]any{"file": res.Input})
			continue
		}
		loaded++
		if err := s.deps.Backend.AddShip(res.Ship, res.Input); err != nil {
			logger.Error("Failed to record ship", "ship", res.Ship.Name, "error", err)
		}
		fmt.Fprint(s.out, RenderShipReport(res.Ship))
	}
	return loaded, failed
}

// finishSession flushes diagnostics, closes the session with its summary,
// and pushes the session point and export upload when those are configured.
func (s *Service) finishSession(start time.Time, reg *catalog.Registry, shipsLoaded, loadFailures uint) error {
	logger := s.deps.LogManager.Logger()

	diag := s.deps.Parser.Diagnostics()
	entries := diag.Entries()
	if len(entries) > 0 {
		if err := s.deps.Backend.RecordUnknownKeys(entries); err != nil {
			logger.Error("Failed to record unknown keys", "error", err)
		}
		fmt.Fprint(s.out, RenderSkippedKeys(diag))
	}

	summary := storage.SessionSummary{
		PartsLoaded:  uint(reg.Len()),
		ShipsLoaded:  shipsLoaded,
		LoadFailures: loadFailures,
		UnknownKeys:  uint(len(entries)),
	}
	if err := s.deps.Backend.EndSession(summary); err != nil {
		return fmt.Errorf("ending session: %w", err)
	}

	duration := time.Since(start).Seconds()
	logger.Info("Session complete",
		"parts", summary.PartsLoaded,
		"ships", summary.ShipsLoaded,
		"failures", summary.LoadFailures,
		"unknownKeys", summary.UnknownKeys,
		"durationSec", duration,
	)

	if s.deps.Influx != nil {
		meta := storage.UploadMetadata{
			GameRoot:        s.deps.Game.Path,
			Tag:             s.deps.Tag,
			ShipCount:       int(shipsLoaded),
			SessionDuration: duration,
		}
		point := influx.SessionPoint(meta, summary)
		if err := s.deps.Influx.WritePoint(context.Background(), influx.BucketSessions, point); err != nil {
			logger.Error("Error writing session point to InfluxDB", "error", err)
		}
	}

	s.uploadExport()
	return nil
}

// uploadExport pushes the finished export to the hangar when the backend
// produced one and an API client is configured.
func (s *Service) uploadExport() {
	if s.deps.APIClient == nil {
		return
	}
	up, ok := s.deps.Backend.(storage.Uploadable)
	if !ok {
		return
	}

	logger := s.deps.LogManager.Logger()
	path, err := up.ExportPath()
	if err != nil {
		logger.Error("No export available for upload", "error", err)
		return
	}
	if err := s.deps.APIClient.Upload(path, up.ExportMetadata()); err != nil {
		logger.Error("Upload to hangar failed", "file", path, "error", err)
		return
	}
	logger.Info("Uploaded session export", "file", path)
}

// recordEvent writes one load event to storage and mirrors it to InfluxDB
// when metrics are enabled.
func (s *Service) recordEvent(name, message string, extra map[string]any) {
	ev := &storage.LoadEvent{
		Time:    time.Now(),
		Name:    name,
		Message: message,
		Extra:   extra,
	}
	if err := s.deps.Backend.RecordLoadEvent(ev); err != nil {
		s.deps.LogManager.Logger().Error("Failed to record load event", "event", name, "error", err)
	}
	if s.deps.Influx != nil {
		point := influx.LoadEventPoint(ev)
		_ = s.deps.Influx.WritePoint(context.Background(), influx.BucketLoadEvents, point)
	}
}
