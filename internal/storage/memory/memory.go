// internal/storage/memory/memory.go
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/kspforge/shipwright/internal/config"
	"github.com/kspforge/shipwright/internal/model"
	"github.com/kspforge/shipwright/internal/storage"
	"github.com/kspforge/shipwright/pkg/craft"
)

// PartEntry groups a catalog part with the file it was defined in
type PartEntry struct {
	Type   craft.PartType
	Source string
}

// ShipEntry groups a loaded ship with the file it was assembled from
type ShipEntry struct {
	Ship   *craft.Ship
	Source string
}

// Backend stores session data in memory and exports to JSON
type Backend struct {
	cfg     config.MemoryConfig
	install *model.Install
	session *model.Session

	parts []PartEntry // load order preserved
	ships []ShipEntry

	unknownKeys []craft.UnknownKey
	loadEvents  []storage.LoadEvent
	perfSamples []storage.Performance

	summary storage.SessionSummary
	endTime time.Time

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:   cfg,
		parts: make([]PartEntry, 0),
		ships: make([]ShipEntry, 0),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartSession begins recording a new session
func (b *Backend) StartSession(install *model.Install, session *model.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// no DB behind this backend, so synthesize the row ids
	if install.ID == 0 {
		install.ID = 1
	}
	if session.ID == 0 {
		session.ID = 1
	}
	session.InstallID = install.ID

	b.install = install
	b.session = session

	// Reset all collections
	b.parts = make([]PartEntry, 0)
	b.ships = make([]ShipEntry, 0)
	b.unknownKeys = nil
	b.loadEvents = nil
	b.perfSamples = nil
	b.summary = storage.SessionSummary{}
	b.endTime = time.Time{}
	b.lastExportPath = ""

	return nil
}

// EndSession finalizes and exports the session data
func (b *Backend) EndSession(summary storage.SessionSummary) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return fmt.Errorf("no session to end")
	}

	b.summary = summary
	b.endTime = time.Now()
	b.session.PartsLoaded = summary.PartsLoaded
	b.session.ShipsLoaded = summary.ShipsLoaded
	b.session.LoadFailures = summary.LoadFailures
	b.session.UnknownKeys = summary.UnknownKeys

	return b.exportJSON()
}

// AddPartType records a catalog part definition
func (b *Backend) AddPartType(pt craft.PartType, source string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.parts = append(b.parts, PartEntry{Type: pt, Source: source})
	return nil
}

// AddShip records a finalized ship assembly
func (b *Backend) AddShip(ship *craft.Ship, source string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.ships = append(b.ships, ShipEntry{Ship: ship, Source: source})
	return nil
}

// RecordUnknownKeys records diagnostic sightings of unrecognized keys
func (b *Backend) RecordUnknownKeys(entries []craft.UnknownKey) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.unknownKeys = append(b.unknownKeys, entries...)
	return nil
}

// RecordLoadEvent records a load milestone or failure
func (b *Backend) RecordLoadEvent(ev *storage.LoadEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.loadEvents = append(b.loadEvents, *ev)
	return nil
}

// RecordPerformance records a monitor sample
func (b *Backend) RecordPerformance(perf *storage.Performance) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.perfSamples = append(b.perfSamples, *perf)
	return nil
}

// PartTypeByName looks up a recorded part definition by catalog name
func (b *Backend) PartTypeByName(name string) (craft.PartType, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, entry := range b.parts {
		if entry.Type.Base().Name == name {
			return entry.Type, true
		}
	}
	return nil, false
}

// ShipByName looks up a recorded ship by name
func (b *Backend) ShipByName(name string) (*craft.Ship, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, entry := range b.ships {
		if entry.Ship.Name == name {
			return entry.Ship, true
		}
	}
	return nil, false
}

// ExportPath returns the path of the last written export
func (b *Backend) ExportPath() (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.lastExportPath == "" {
		return "", fmt.Errorf("no export available")
	}
	return b.lastExportPath, nil
}

// ExportMetadata describes the last session for the upload endpoint
func (b *Backend) ExportMetadata() storage.UploadMetadata {
	b.mu.RLock()
	defer b.mu.RUnlock()

	meta := storage.UploadMetadata{}
	if b.install != nil {
		meta.GameRoot = b.install.Path
	}
	if b.session != nil {
		meta.Tag = b.session.Tag
		if !b.endTime.IsZero() {
			meta.SessionDuration = b.endTime.Sub(b.session.StartTime).Seconds()
		}
	}
	meta.ShipCount = len(b.ships)
	return meta
}
