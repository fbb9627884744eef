package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"defaultTag": "Career",
		"game": { "path": "/opt/ksp", "shipsSubdir": "Ships/VAB" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shipwright.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "Career", viper.GetString("defaultTag"))
	assert.Equal(t, "/opt/ksp", viper.GetString("game.path"))
	assert.Equal(t, "Ships/VAB", viper.GetString("game.shipsSubdir"))
	// unset keys keep their defaults
	assert.Equal(t, "Parts", viper.GetString("game.partsSubdir"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shipwright.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "Survey", viper.GetString("defaultTag"))
	assert.Equal(t, "./shiplogs", viper.GetString("logsDir"))
	assert.Equal(t, "./KSP_win", viper.GetString("game.path"))
	assert.Equal(t, "Parts", viper.GetString("game.partsSubdir"))
	assert.Equal(t, "Ships", viper.GetString("game.shipsSubdir"))
	assert.Equal(t, 4, viper.GetInt("fleet.workers"))
	assert.Equal(t, 30*time.Second, viper.GetDuration("watch.interval"))
	assert.Equal(t, time.Second, viper.GetDuration("monitor.interval"))
	assert.Equal(t, "http://localhost:5000", viper.GetString("api.serverUrl"))
	assert.Equal(t, "", viper.GetString("api.apiKey"))
	assert.Equal(t, "localhost", viper.GetString("db.host"))
	assert.Equal(t, "5432", viper.GetString("db.port"))
	assert.Equal(t, "postgres", viper.GetString("db.username"))
	assert.Equal(t, "postgres", viper.GetString("db.password"))
	assert.Equal(t, "shipwright", viper.GetString("db.database"))
	assert.Equal(t, 30, viper.GetInt("db.retentionDays"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, "shipwright-metrics", viper.GetString("influx.org"))
	assert.Equal(t, true, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "./reports", viper.GetString("storage.memory.outputDir"))
	assert.Equal(t, true, viper.GetBool("storage.memory.compressOutput"))
	assert.Equal(t, "3m", viper.GetString("storage.sqlite.dumpInterval"))
	assert.Equal(t, "ws://localhost:5001/ws/hangar", viper.GetString("storage.websocket.url"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetDuration(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testDuration", "45s")
	assert.Equal(t, 45*time.Second, GetDuration("testDuration"))
}

func TestGetStorageConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shipwright.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	cfg := GetStorageConfig()
	assert.Equal(t, "memory", cfg.Type)
	assert.Equal(t, "./reports", cfg.Memory.OutputDir)
	assert.Equal(t, true, cfg.Memory.CompressOutput)
	assert.Equal(t, "./shipwright.db", cfg.SQLite.DBPath)
	assert.Equal(t, 3*time.Minute, cfg.SQLite.DumpInterval)
	assert.Equal(t, "ws://localhost:5001/ws/hangar", cfg.Websocket.URL)
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"storage": {
			"type": "sqlite",
			"memory": { "outputDir": "/tmp/out", "compressOutput": false },
			"sqlite": { "dumpInterval": "10m" }
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shipwright.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	sc := GetStorageConfig()
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, "/tmp/out", sc.Memory.OutputDir)
	assert.Equal(t, false, sc.Memory.CompressOutput)
	assert.Equal(t, 10*time.Minute, sc.SQLite.DumpInterval)
}

func TestGetGameConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{ "game": { "path": "/games/KSP_linux" } }`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shipwright.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	gc := GetGameConfig()
	assert.Equal(t, "/games/KSP_linux", gc.Path)
	assert.Equal(t, "Parts", gc.PartsSubdir)
	assert.Equal(t, "Ships", gc.ShipsSubdir)
}
