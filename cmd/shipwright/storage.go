package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kspforge/shipwright/internal/config"
	"github.com/kspforge/shipwright/internal/database"
	"github.com/kspforge/shipwright/internal/storage"
	"github.com/kspforge/shipwright/internal/storage/gormdb"
	"github.com/kspforge/shipwright/internal/storage/memory"
	sqlitestorage "github.com/kspforge/shipwright/internal/storage/sqlite"
	wsstorage "github.com/kspforge/shipwright/internal/storage/websocket"
)

func initStorage() error {
	storageCfg := config.GetStorageConfig()

	backend, err := createStorageBackend(storageCfg)
	if err != nil {
		Logger.Error("Failed to create storage backend", "error", err)
		return err
	}
	storageBackend = backend
	if err := storageBackend.Init(); err != nil {
		Logger.Error("Failed to initialize storage backend", "error", err)
		return err
	}
	Logger.Info("Storage backend ready", "type", storageCfg.Type)
	return nil
}

func createStorageBackend(storageCfg config.StorageConfig) (storage.Backend, error) {
	switch storageCfg.Type {
	case "postgres":
		dbManager = database.NewManager(ZLog)
		if err := dbManager.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := dbManager.Setup(); err != nil {
			return nil, fmt.Errorf("failed to migrate database schema: %w", err)
		}
		if _, err := dbManager.PruneSessions(viper.GetInt("db.retentionDays")); err != nil {
			Logger.Warn("Failed to prune old sessions", "error", err)
		}
		if dbManager.ShouldSaveLocal {
			// Postgres was unreachable and the manager fell back to a
			// memory database; snapshot it so the session survives a crash
			os.MkdirAll(storageCfg.SQLite.DumpPath, 0755)
			dbManager.SqliteFilePath = database.BackupPath(storageCfg.SQLite.DumpPath, SessionStartTime)
			Logger.Warn("Postgres unavailable, using fallback memory database", "dumpPath", dbManager.SqliteFilePath)
			go dumpLoop(storageCfg.SQLite.DumpInterval)
		}
		Logger.Info("Postgres storage backend initialized", "dialect", dbManager.DB.Dialector.Name())
		return gormdb.New(gormdb.Dependencies{
			DB:         dbManager.DB,
			LogManager: SlogManager,
		}), nil

	case "sqlite":
		backend, err := sqlitestorage.New(sqlitestorage.Config{
			DBPath:       storageCfg.SQLite.DBPath,
			DumpInterval: storageCfg.SQLite.DumpInterval,
			DumpPath:     storageCfg.SQLite.DumpPath,
		}, SlogManager)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		Logger.Info("SQLite storage backend initialized")
		return backend, nil

	case "websocket":
		wsURL := storageCfg.Websocket.URL
		if wsURL == "" {
			wsURL = httpToWS(viper.GetString("api.serverUrl")) + "/ws/hangar"
		}
		secret := storageCfg.Websocket.Secret
		if secret == "" {
			secret = viper.GetString("api.apiKey")
		}
		Logger.Info("WebSocket storage backend initialized", "url", wsURL)
		return wsstorage.New(wsstorage.Config{
			URL:    wsURL,
			Secret: secret,
		}), nil

	default:
		Logger.Info("Memory storage backend initialized")
		return memory.New(storageCfg.Memory), nil
	}
}

// dumpLoop periodically snapshots the fallback memory database to disk.
func dumpLoop(interval time.Duration) {
	if interval <= 0 {
		interval = 3 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if err := dbManager.DumpMemoryToDisk(); err != nil {
			Logger.Error("Error dumping memory DB to disk", "error", err)
		}
	}
}

// httpToWS converts an HTTP(S) URL to a WebSocket URL.
func httpToWS(httpURL string) string {
	s := strings.TrimRight(httpURL, "/")
	s = strings.Replace(s, "https://", "wss://", 1)
	s = strings.Replace(s, "http://", "ws://", 1)
	return s
}
