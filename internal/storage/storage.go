// internal/storage/storage.go
package storage

import (
	"time"

	"github.com/kspforge/shipwright/internal/model"
	"github.com/kspforge/shipwright/pkg/craft"
)

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management (StartSession assigns IDs to the passed pointers)
	StartSession(install *model.Install, session *model.Session) error
	EndSession(summary SessionSummary) error

	// Catalog and assembly records
	AddPartType(pt craft.PartType, source string) error
	AddShip(ship *craft.Ship, source string) error

	// Diagnostics and telemetry
	RecordUnknownKeys(entries []craft.UnknownKey) error
	RecordLoadEvent(ev *LoadEvent) error
	RecordPerformance(perf *Performance) error
}

// SessionSummary carries the end-of-session counters.
type SessionSummary struct {
	PartsLoaded  uint
	ShipsLoaded  uint
	LoadFailures uint
	UnknownKeys  uint
}

// LoadEvent marks a milestone or failure during a load run.
type LoadEvent struct {
	Time    time.Time
	Name    string
	Message string
	Extra   map[string]any
}

// QueueDepths reports the pending rows per write queue.
type QueueDepths struct {
	PartRecords uint16
	Ships       uint16
	Placements  uint16
	StageRows   uint16
	UnknownKeys uint16
	LoadEvents  uint16
}

// Performance is one monitor sample of the write pipeline.
type Performance struct {
	Time                time.Time
	Queues              QueueDepths
	LastWriteDurationMs float32
}

// UploadMetadata describes an export for the hangar upload endpoint.
type UploadMetadata struct {
	GameRoot        string
	Tag             string
	ShipCount       int
	SessionDuration float64
}

// Uploadable is an optional interface for storage backends that produce
// files suitable for upload to the hangar web frontend.
type Uploadable interface {
	ExportPath() (string, error)
	ExportMetadata() UploadMetadata
}

// Monitored is an optional interface for backends with write-behind queues;
// the monitor samples these between flushes.
type Monitored interface {
	QueueDepths() QueueDepths
	LastWriteDuration() time.Duration
}
