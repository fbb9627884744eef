// Package sqlitestorage implements the storage.Backend interface using a
// SQLite database with periodic disk snapshots via VACUUM INTO.
// It wraps the GORM backend via composition. The only SQLite-specific
// concerns are creating the DB (in-memory unless a file path is configured)
// and the snapshot loop; dialect-aware migration is handled by the embedded
// backend.
package sqlitestorage

import (
	"fmt"
	"os"
	"time"

	"github.com/kspforge/shipwright/internal/database"
	"github.com/kspforge/shipwright/internal/logging"
	"github.com/kspforge/shipwright/internal/storage/gormdb"

	"gorm.io/gorm"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	DBPath       string // Database file; empty means in-memory
	DumpInterval time.Duration
	DumpPath     string // Directory for periodic VACUUM INTO snapshots
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormdb.Backend
	db       *gorm.DB
	cfg      Config
	log      *logging.SlogManager
	dumpFile string
	stopChan chan struct{}
}

// New creates a new SQLite storage backend.
func New(cfg Config, logManager *logging.SlogManager) (*Backend, error) {
	db, err := database.GetSqliteDBStandalone(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQLite DB: %w", err)
	}

	gormBackend := gormdb.New(gormdb.Dependencies{
		DB:         db,
		LogManager: logManager,
	})

	return &Backend{
		Backend:  gormBackend,
		db:       db,
		cfg:      cfg,
		log:      logManager,
		stopChan: make(chan struct{}),
	}, nil
}

// Init initializes the embedded GORM backend and starts the snapshot goroutine.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.cfg.DumpPath != "" && b.cfg.DumpInterval > 0 {
		if err := os.MkdirAll(b.cfg.DumpPath, 0755); err != nil {
			return fmt.Errorf("failed to create dump directory: %w", err)
		}
		b.dumpFile = database.BackupPath(b.cfg.DumpPath, time.Now())
		go b.dumpLoop()
	}

	return nil
}

// Close stops the snapshot goroutine, takes one last snapshot so the file
// reflects the finished session, and closes the embedded GORM backend.
func (b *Backend) Close() error {
	close(b.stopChan)

	if b.dumpFile != "" {
		if err := database.DumpMemoryDBToDisk(b.db, b.dumpFile); err != nil {
			b.log.WriteLog("sqlite:Close", fmt.Sprintf("Error taking final snapshot: %v", err), "ERROR")
		}
	}

	return b.Backend.Close()
}

// dumpLoop periodically dumps the SQLite database to disk via VACUUM INTO.
// VACUUM INTO creates a point-in-time snapshot, so no pause mechanism is needed.
func (b *Backend) dumpLoop() {
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			start := time.Now()
			if err := database.DumpMemoryDBToDisk(b.db, b.dumpFile); err != nil {
				b.log.WriteLog("sqlite:dumpLoop", fmt.Sprintf("Error dumping to disk: %v", err), "ERROR")
			} else {
				b.log.WriteLog("sqlite:dumpLoop", fmt.Sprintf("Dumped to disk in %s", time.Since(start)), "DEBUG")
			}
		}
	}
}
