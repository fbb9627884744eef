// Package gormdb implements the storage.Backend interface using GORM
// with internal write queues and a background DB writer goroutine. It runs
// against Postgres or, through the database manager's fallback, a local
// SQLite file.
package gormdb

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/kspforge/shipwright/internal/database"
	"github.com/kspforge/shipwright/internal/logging"
	"github.com/kspforge/shipwright/internal/model"
	"github.com/kspforge/shipwright/internal/model/convert"
	"github.com/kspforge/shipwright/internal/queue"
	"github.com/kspforge/shipwright/internal/storage"
	"github.com/kspforge/shipwright/pkg/craft"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB         *gorm.DB
	LogManager *logging.SlogManager
}

// queues holds all the write queues for batch DB insertion. Placements and
// stage rows ride inside their Ship row so gorm creates the whole assembly
// in one associated insert.
type queues struct {
	PartRecords *queue.Queue[model.PartRecord]
	Ships       *queue.Queue[model.Ship]
	UnknownKeys *queue.Queue[model.UnknownKey]
	LoadEvents  *queue.Queue[model.LoadEvent]
	Performance *queue.Queue[model.SessionPerformance]
}

func newQueues() *queues {
	return &queues{
		PartRecords: queue.New[model.PartRecord](),
		Ships:       queue.New[model.Ship](),
		UnknownKeys: queue.New[model.UnknownKey](),
		LoadEvents:  queue.New[model.LoadEvent](),
		Performance: queue.New[model.SessionPerformance](),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps      Dependencies
	queues    *queues
	sessionID atomic.Uint64
	stopChan  chan struct{}
	dbReady   bool

	pendingPlacements atomic.Int64
	pendingStageRows  atomic.Int64
	lastWrite         atomic.Int64

	queueDepth  metric.Int64ObservableGauge
	rowsWritten metric.Int64Counter
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{
		deps: deps,
	}
}

// Init creates internal queues, runs schema migration, and starts the DB
// writer goroutine. If no DB was injected via Dependencies, it connects
// through the database manager, which falls back to local SQLite when
// Postgres is unreachable.
func (b *Backend) Init() error {
	b.queues = newQueues()
	b.stopChan = make(chan struct{})

	if b.deps.DB == nil {
		dbm := database.NewManager(zerolog.New(os.Stderr).With().Timestamp().Logger())
		if err := dbm.Connect(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		b.deps.DB = dbm.DB
	}

	if err := b.setupDB(); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	b.dbReady = true

	if err := b.setupMetrics(); err != nil {
		return fmt.Errorf("failed to setup metrics: %w", err)
	}

	b.startDBWriters()
	return nil
}

// setupDB migrates the schema for whichever dialect the connection landed on.
func (b *Backend) setupDB() error {
	db := b.deps.DB
	log := b.deps.LogManager

	if db.Name() == "postgres" {
		// Placement positions are geometry columns on Postgres
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS postgis;`).Error; err != nil {
			return fmt.Errorf("failed to create PostGIS extension: %w", err)
		}
		log.WriteLog("setupDB", "PostGIS extension created", "INFO")
	}

	log.WriteLog("setupDB", "Migrating schema", "INFO")
	models := model.DatabaseModels
	if db.Name() != "postgres" {
		models = model.DatabaseModelsSQLite
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.WriteLog("setupDB", "Database setup complete", "INFO")
	return nil
}

// setupMetrics registers queue instrumentation on the global meter
// (no-op when OTel is not configured).
func (b *Backend) setupMetrics() error {
	m := meter()

	var err error
	b.queueDepth, err = m.Int64ObservableGauge(
		"storage.queue.depth",
		metric.WithDescription("Rows waiting in the write queues"),
	)
	if err != nil {
		return fmt.Errorf("creating queue depth gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			d := b.QueueDepths()
			total := int64(d.PartRecords) + int64(d.Ships) + int64(d.Placements) +
				int64(d.StageRows) + int64(d.UnknownKeys) + int64(d.LoadEvents)
			o.ObserveInt64(b.queueDepth, total)
			return nil
		},
		b.queueDepth,
	)
	if err != nil {
		return fmt.Errorf("registering queue depth callback: %w", err)
	}

	b.rowsWritten, err = m.Int64Counter(
		"storage.rows.written",
		metric.WithDescription("Total rows flushed to the database"),
	)
	if err != nil {
		return fmt.Errorf("creating rows written counter: %w", err)
	}

	return nil
}

// Close stops the DB writer goroutine.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
	}
	return nil
}

// StartSession registers the install (get-or-insert by path) and creates the
// session row, assigning DB-generated IDs to the passed pointers.
func (b *Backend) StartSession(install *model.Install, session *model.Session) error {
	if b.deps.DB == nil {
		return nil
	}

	db := b.deps.DB
	log := b.deps.LogManager

	created, err := install.GetOrInsert(db)
	if err != nil {
		return fmt.Errorf("failed to get or insert install %s: %w", install.Path, err)
	}
	if created {
		log.WriteLog("StartSession", fmt.Sprintf("Registered new install %s", install.Path), "INFO")
	}

	session.InstallID = install.ID
	session.Install = *install
	if err := db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to insert new session: %w", err)
	}

	// Store session ID for the DB writer goroutine
	b.sessionID.Store(uint64(session.ID))

	return nil
}

// SetSessionID sets the current session ID for the DB writer (used by CLI tools).
func (b *Backend) SetSessionID(id uint) {
	b.sessionID.Store(uint64(id))
}

// EndSession flushes the remaining queues and writes the summary counters
// onto the session row.
func (b *Backend) EndSession(summary storage.SessionSummary) error {
	if b.deps.DB == nil {
		return nil
	}

	sessionID := uint(b.sessionID.Load())
	if sessionID == 0 {
		return fmt.Errorf("no session to end")
	}

	b.flushQueues()

	err := b.deps.DB.Model(&model.Session{}).Where("id = ?", sessionID).Updates(map[string]any{
		"parts_loaded":  summary.PartsLoaded,
		"ships_loaded":  summary.ShipsLoaded,
		"load_failures": summary.LoadFailures,
		"unknown_keys":  summary.UnknownKeys,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update session summary: %w", err)
	}
	return nil
}

// AddPartType converts a catalog definition to a PartRecord and pushes it
// to the write queue.
func (b *Backend) AddPartType(pt craft.PartType, source string) error {
	row := convert.PartRecordFromType(uint(b.sessionID.Load()), pt, source)
	b.queues.PartRecords.Push(row)
	return nil
}

// AddShip converts an assembly with its placements and staging plan to a
// nested Ship row and pushes it to the write queue.
func (b *Backend) AddShip(ship *craft.Ship, source string) error {
	row := convert.ShipFromCraft(uint(b.sessionID.Load()), ship, source)
	b.queues.Ships.Push(row)
	b.pendingPlacements.Add(int64(len(row.Placements)))
	b.pendingStageRows.Add(int64(len(row.StageRows)))
	return nil
}

// RecordUnknownKeys converts and queues diagnostic rows.
func (b *Backend) RecordUnknownKeys(entries []craft.UnknownKey) error {
	rows := convert.UnknownKeysFromDiagnostics(uint(b.sessionID.Load()), entries)
	b.queues.UnknownKeys.Push(rows...)
	return nil
}

// RecordLoadEvent converts and queues a lifecycle event.
func (b *Backend) RecordLoadEvent(ev *storage.LoadEvent) error {
	row := convert.LoadEventRow(uint(b.sessionID.Load()), ev)
	b.queues.LoadEvents.Push(row)
	return nil
}

// RecordPerformance converts and queues a monitor sample.
func (b *Backend) RecordPerformance(perf *storage.Performance) error {
	row := convert.PerformanceRow(uint(b.sessionID.Load()), perf)
	b.queues.Performance.Push(row)
	return nil
}

// QueueDepths reports the rows waiting in each write queue.
func (b *Backend) QueueDepths() storage.QueueDepths {
	if b.queues == nil {
		return storage.QueueDepths{}
	}
	return storage.QueueDepths{
		PartRecords: uint16(b.queues.PartRecords.Len()),
		Ships:       uint16(b.queues.Ships.Len()),
		Placements:  uint16(b.pendingPlacements.Load()),
		StageRows:   uint16(b.pendingStageRows.Load()),
		UnknownKeys: uint16(b.queues.UnknownKeys.Len()),
		LoadEvents:  uint16(b.queues.LoadEvents.Len()),
	}
}

// LastWriteDuration returns how long the most recent non-empty flush took.
func (b *Backend) LastWriteDuration() time.Duration {
	return time.Duration(b.lastWrite.Load())
}

// writeQueue writes all items from a queue to the database in a transaction.
// A failed batch is logged and pushed back for the next cycle. Returns the
// number of rows written.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log func(string, string, string), prepare func([]T), onSuccess func([]T)) int {
	if q.Empty() {
		return 0
	}

	tx := db.Begin()
	items := q.Drain()
	if prepare != nil {
		prepare(items)
	}
	if err := tx.Create(&items).Error; err != nil {
		log(":DB:WRITER:", fmt.Sprintf("Error creating %s: %v", name, err), "ERROR")
		tx.Rollback()
		q.Push(items...)
		return 0
	}

	tx.Commit()
	if onSuccess != nil {
		onSuccess(items)
	}
	return len(items)
}

// flushQueues drains every queue into the database once, stamping the
// current session ID onto each row before insert.
func (b *Backend) flushQueues() {
	log := b.deps.LogManager.WriteLog

	// Read sessionID once per write cycle
	sessionID := uint(b.sessionID.Load())

	stampPartRecords := func(items []model.PartRecord) {
		for i := range items {
			items[i].SessionID = sessionID
		}
	}
	stampShips := func(items []model.Ship) {
		for i := range items {
			items[i].SessionID = sessionID
			for j := range items[i].Placements {
				items[i].Placements[j].SessionID = sessionID
			}
			for j := range items[i].StageRows {
				items[i].StageRows[j].SessionID = sessionID
			}
		}
	}
	stampUnknownKeys := func(items []model.UnknownKey) {
		for i := range items {
			items[i].SessionID = sessionID
		}
	}
	stampLoadEvents := func(items []model.LoadEvent) {
		for i := range items {
			items[i].SessionID = sessionID
		}
	}
	stampPerformance := func(items []model.SessionPerformance) {
		for i := range items {
			items[i].SessionID = sessionID
		}
	}

	start := time.Now()
	written := 0

	// Catalog before assemblies so part records exist when placements land
	written += writeQueue(b.deps.DB, b.queues.PartRecords, "part records", log, stampPartRecords, nil)
	written += writeQueue(b.deps.DB, b.queues.Ships, "ships", log, stampShips, func(items []model.Ship) {
		for _, ship := range items {
			b.pendingPlacements.Add(-int64(len(ship.Placements)))
			b.pendingStageRows.Add(-int64(len(ship.StageRows)))
		}
	})

	// Diagnostics and lifecycle
	written += writeQueue(b.deps.DB, b.queues.UnknownKeys, "unknown keys", log, stampUnknownKeys, nil)
	written += writeQueue(b.deps.DB, b.queues.LoadEvents, "load events", log, stampLoadEvents, nil)
	written += writeQueue(b.deps.DB, b.queues.Performance, "performance samples", log, stampPerformance, nil)

	if written > 0 {
		b.lastWrite.Store(time.Since(start).Nanoseconds())
		if b.rowsWritten != nil {
			b.rowsWritten.Add(context.Background(), int64(written))
		}
	}
}

// startDBWriters starts the background goroutine that periodically drains
// queues into the DB.
func (b *Backend) startDBWriters() {
	go func() {
		for {
			select {
			case <-b.stopChan:
				return
			default:
			}

			if !b.dbReady {
				time.Sleep(1 * time.Second)
				continue
			}

			b.flushQueues()

			time.Sleep(2 * time.Second)
		}
	}()
}
