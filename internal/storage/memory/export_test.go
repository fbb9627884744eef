// internal/storage/memory/export_test.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kspforge/shipwright/internal/config"
	"github.com/kspforge/shipwright/internal/model"
	"github.com/kspforge/shipwright/internal/storage"
	"github.com/kspforge/shipwright/pkg/craft"
)

func TestBoolToInt(t *testing.T) {
	tests := []struct {
		input    bool
		expected int
	}{
		{true, 1},
		{false, 0},
	}

	for _, tt := range tests {
		if got := boolToInt(tt.input); got != tt.expected {
			t.Errorf("boolToInt(%v) = %d, expected %d", tt.input, got, tt.expected)
		}
	}
}

func TestBuildExport(t *testing.T) {
	b := New(config.MemoryConfig{})
	startTestSession(t, b)

	_ = b.AddPartType(makePartType(t, "SolidRocket", "solidBooster", 1.8), "solidBooster/part.cfg")
	_ = b.AddPartType(makePartType(t, "CommandPod", "mk1pod", 0.8), "mk1pod/part.cfg")
	_ = b.AddShip(makeTestShip(t, "Jumping Flea"), "Ships/VAB/Jumping Flea.craft")
	_ = b.RecordUnknownKeys([]craft.UnknownKey{
		{Key: "texture", Entity: "PART:solidBooster", Value: "booster.png"},
	})
	_ = b.RecordLoadEvent(&storage.LoadEvent{
		Time:    time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
		Name:    "catalog",
		Message: "2 part types loaded",
	})

	b.summary = storage.SessionSummary{LoadFailures: 1}
	b.endTime = time.Date(2024, 3, 15, 15, 0, 0, 0, time.UTC)

	export := b.buildExport()

	if export.ToolVersion != "1.0.0" {
		t.Errorf("expected ToolVersion=1.0.0, got %s", export.ToolVersion)
	}
	if export.GameRoot != "./KSP_win" {
		t.Errorf("expected GameRoot=./KSP_win, got %s", export.GameRoot)
	}
	if export.GameVersion != "0.24.2" {
		t.Errorf("expected GameVersion=0.24.2, got %s", export.GameVersion)
	}
	if export.Tag != "Survey" {
		t.Errorf("expected Tag=Survey, got %s", export.Tag)
	}
	if export.EndTime != "2024-03-15T15:00:00Z" {
		t.Errorf("expected EndTime=2024-03-15T15:00:00Z, got %s", export.EndTime)
	}
	if export.PartCount != 2 {
		t.Errorf("expected PartCount=2, got %d", export.PartCount)
	}
	if export.ShipCount != 1 {
		t.Errorf("expected ShipCount=1, got %d", export.ShipCount)
	}
	if export.LoadFailures != 1 {
		t.Errorf("expected LoadFailures=1, got %d", export.LoadFailures)
	}

	if len(export.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(export.Parts))
	}
	booster := export.Parts[0]
	if booster.Name != "solidBooster" {
		t.Errorf("expected part name solidBooster, got %s", booster.Name)
	}
	if booster.Module != "SolidRocket" {
		t.Errorf("expected module SolidRocket, got %s", booster.Module)
	}
	if booster.Mass != 1.8 {
		t.Errorf("expected mass 1.8, got %f", booster.Mass)
	}
	if booster.IsEngine != 1 {
		t.Errorf("expected IsEngine=1 for solid rocket, got %d", booster.IsEngine)
	}
	if booster.Source != "solidBooster/part.cfg" {
		t.Errorf("expected part source path, got %s", booster.Source)
	}
	pod := export.Parts[1]
	if pod.IsEngine != 0 {
		t.Errorf("expected IsEngine=0 for pod, got %d", pod.IsEngine)
	}

	if len(export.UnknownKeys) != 1 {
		t.Fatalf("expected 1 unknown key, got %d", len(export.UnknownKeys))
	}
	uk := export.UnknownKeys[0]
	// Unknown key format: [key, entity, value]
	if uk[0].(string) != "texture" || uk[1].(string) != "PART:solidBooster" || uk[2].(string) != "booster.png" {
		t.Errorf("unknown key tuple mismatch: %v", uk)
	}

	if len(export.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(export.Events))
	}
	evt := export.Events[0]
	// Event format: [time, name, message]
	if evt[0].(string) != "2024-03-15T14:30:00Z" {
		t.Errorf("expected event time 2024-03-15T14:30:00Z, got %v", evt[0])
	}
	if evt[1].(string) != "catalog" {
		t.Errorf("expected event name catalog, got %v", evt[1])
	}
	if evt[2].(string) != "2 part types loaded" {
		t.Errorf("expected event message, got %v", evt[2])
	}
}

func TestPlacementFormat(t *testing.T) {
	b := New(config.MemoryConfig{})
	startTestSession(t, b)

	_ = b.AddShip(makeTestShip(t, "Jumping Flea"), "Ships/VAB/Jumping Flea.craft")

	export := b.buildExport()

	if len(export.Ships) != 1 {
		t.Fatalf("expected 1 ship, got %d", len(export.Ships))
	}

	ship := export.Ships[0]
	if ship.Name != "Jumping Flea" {
		t.Errorf("expected ship name Jumping Flea, got %s", ship.Name)
	}
	if ship.Source != "Ships/VAB/Jumping Flea.craft" {
		t.Errorf("expected craft file source, got %s", ship.Source)
	}
	if ship.TotalMass != 2.6 {
		t.Errorf("expected TotalMass=2.6, got %f", ship.TotalMass)
	}
	if len(ship.Placements) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(ship.Placements))
	}

	pl := ship.Placements[1]
	// Placement format: [partId, typeName, [x, y, z], ignitionStage, detachStage]
	if len(pl) != 5 {
		t.Fatalf("expected placement array length 5, got %d", len(pl))
	}
	if pl[0].(string) != "solidBooster_200" {
		t.Errorf("expected part id solidBooster_200, got %v", pl[0])
	}
	if pl[1].(string) != "solidBooster" {
		t.Errorf("expected type name solidBooster, got %v", pl[1])
	}

	coords, ok := pl[2].([]float64)
	if !ok {
		t.Fatal("placement[2] is not []float64")
	}
	if coords[0] != 0 || coords[1] != 13 || coords[2] != 0 {
		t.Errorf("expected coords [0, 13, 0], got %v", coords)
	}

	if pl[3].(int) != 0 {
		t.Errorf("expected ignitionStage=0, got %v", pl[3])
	}
	if pl[4].(int) != -1 {
		t.Errorf("expected detachStage=-1, got %v", pl[4])
	}
}

func TestStageFormat(t *testing.T) {
	b := New(config.MemoryConfig{})
	startTestSession(t, b)

	_ = b.AddShip(makeTestShip(t, "Jumping Flea"), "Ships/VAB/Jumping Flea.craft")

	export := b.buildExport()

	ship := export.Ships[0]
	if len(ship.Stages) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(ship.Stages))
	}

	st := ship.Stages[0]
	// Stage format: [ordinal, cumulativeMass, thrusterCount, ignitionIds, detachIds]
	if len(st) != 5 {
		t.Fatalf("expected stage array length 5, got %d", len(st))
	}
	if st[0].(int) != 0 {
		t.Errorf("expected ordinal=0, got %v", st[0])
	}
	if st[1].(float64) != 1.8 {
		t.Errorf("expected cumulative mass 1.8, got %v", st[1])
	}
	if st[2].(int) != 1 {
		t.Errorf("expected 1 thruster, got %v", st[2])
	}

	ignition, ok := st[3].([]string)
	if !ok {
		t.Fatal("stage[3] is not []string")
	}
	if len(ignition) != 1 || ignition[0] != "solidBooster_200" {
		t.Errorf("expected ignition ids [solidBooster_200], got %v", ignition)
	}

	detach, ok := st[4].([]string)
	if !ok {
		t.Fatal("stage[4] is not []string")
	}
	if len(detach) != 0 {
		t.Errorf("expected no detach ids, got %v", detach)
	}
}

func TestPlacementWithUnresolvedType(t *testing.T) {
	b := New(config.MemoryConfig{})
	startTestSession(t, b)

	// A placement whose part name never resolved against the catalog
	orphan := &craft.RealizedPart{
		ID:            "mystery_999",
		Pos:           craft.Vec{1, 2, 3},
		IgnitionStage: -1,
		DetachStage:   -1,
		SequenceIndex: -1,
		SequenceOrder: -1,
	}

	ship := &craft.Ship{
		Name:  "Broken",
		Parts: []*craft.RealizedPart{orphan},
		ByID:  map[string]*craft.RealizedPart{orphan.ID: orphan},
	}
	ship.BuildStages()
	_ = b.AddShip(ship, "Ships/VAB/Broken.craft")

	export := b.buildExport()

	shipJSON := export.Ships[0]
	if shipJSON.TotalMass != 0 {
		t.Errorf("expected TotalMass=0 for unresolved parts, got %f", shipJSON.TotalMass)
	}

	pl := shipJSON.Placements[0]
	if pl[1].(string) != "" {
		t.Errorf("expected empty type name for unresolved part, got %v", pl[1])
	}
	if pl[3].(int) != -1 {
		t.Errorf("expected ignitionStage=-1, got %v", pl[3])
	}
}

func TestExportJSON(t *testing.T) {
	tempDir := t.TempDir()

	b := New(config.MemoryConfig{
		OutputDir:      tempDir,
		CompressOutput: false,
	})

	install := &model.Install{Path: "./KSP_win", GameVersion: "0.24.2"}
	session := &model.Session{
		Tag:         "Export Test",
		ToolVersion: "1.0.0",
		StartTime:   time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
	}
	if err := b.StartSession(install, session); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	_ = b.AddShip(makeTestShip(t, "Jumping Flea"), "Ships/VAB/Jumping Flea.craft")

	if err := b.EndSession(storage.SessionSummary{ShipsLoaded: 1}); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	// Check exactly one .json file was created
	pattern := filepath.Join(tempDir, "Export Test_*.json")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 JSON file, found %d", len(matches))
	}

	// Read and validate JSON
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}

	var export SessionExport
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("failed to unmarshal JSON: %v", err)
	}

	if export.Tag != "Export Test" {
		t.Errorf("expected Tag='Export Test', got '%s'", export.Tag)
	}
	if export.ShipCount != 1 {
		t.Errorf("expected ShipCount=1, got %d", export.ShipCount)
	}
}

func TestExportGzipJSON(t *testing.T) {
	tempDir := t.TempDir()

	b := New(config.MemoryConfig{
		OutputDir:      tempDir,
		CompressOutput: true,
	})

	install := &model.Install{Path: "./KSP_win"}
	session := &model.Session{
		Tag:       "Gzip Test",
		StartTime: time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
	}
	if err := b.StartSession(install, session); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	_ = b.AddPartType(makePartType(t, "SolidRocket", "solidBooster", 1.8), "solidBooster/part.cfg")

	if err := b.EndSession(storage.SessionSummary{PartsLoaded: 1}); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	// Check .json.gz file was created
	pattern := filepath.Join(tempDir, "Gzip Test_*.json.gz")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 .json.gz file, found %d", len(matches))
	}

	// Read and decompress
	f, err := os.Open(matches[0])
	if err != nil {
		t.Fatalf("failed to open gzip file: %v", err)
	}
	defer f.Close()

	gzReader, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("failed to create gzip reader: %v", err)
	}
	defer gzReader.Close()

	var export SessionExport
	if err := json.NewDecoder(gzReader).Decode(&export); err != nil {
		t.Fatalf("failed to decode gzipped JSON: %v", err)
	}

	if export.Tag != "Gzip Test" {
		t.Errorf("expected Tag='Gzip Test', got '%s'", export.Tag)
	}
	if export.PartCount != 1 {
		t.Errorf("expected PartCount=1, got %d", export.PartCount)
	}
}

func TestFilenameGeneration(t *testing.T) {
	tests := []struct {
		tag            string
		compress       bool
		expectedSuffix string
	}{
		{"Survey", false, ".json"},
		{"Survey", true, ".json.gz"},
		{"Launch:Window", false, ".json"},
		{"A/B Test", false, ".json"},
	}

	for _, tt := range tests {
		tempDir := t.TempDir()
		b := New(config.MemoryConfig{
			OutputDir:      tempDir,
			CompressOutput: tt.compress,
		})

		install := &model.Install{Path: "./KSP_win"}
		session := &model.Session{Tag: tt.tag, StartTime: time.Now()}
		_ = b.StartSession(install, session)
		_ = b.EndSession(storage.SessionSummary{})

		// Find the file
		pattern := filepath.Join(tempDir, "*"+tt.expectedSuffix)
		matches, _ := filepath.Glob(pattern)
		if len(matches) != 1 {
			t.Errorf("expected 1 file with suffix %s for tag '%s', found %d", tt.expectedSuffix, tt.tag, len(matches))
			continue
		}

		// Path separators and colons must not survive into the file name
		filename := filepath.Base(matches[0])
		if strings.Contains(filename, ":") {
			t.Errorf("filename contains colons: %s", filename)
		}
		if strings.Contains(filename, "/") {
			t.Errorf("filename contains slashes: %s", filename)
		}
	}
}

func TestExportCreatesOutputDir(t *testing.T) {
	tempDir := t.TempDir()
	nonExistentDir := filepath.Join(tempDir, "nested", "output", "dir")

	b := New(config.MemoryConfig{
		OutputDir:      nonExistentDir,
		CompressOutput: false,
	})

	install := &model.Install{Path: "./KSP_win"}
	session := &model.Session{Tag: "Nested Dir Test", StartTime: time.Now()}
	_ = b.StartSession(install, session)
	if err := b.EndSession(storage.SessionSummary{}); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	// Verify directory was created
	if _, err := os.Stat(nonExistentDir); os.IsNotExist(err) {
		t.Error("output directory was not created")
	}

	// Verify file exists in nested directory
	pattern := filepath.Join(nonExistentDir, "*.json")
	matches, _ := filepath.Glob(pattern)
	if len(matches) != 1 {
		t.Errorf("expected 1 file in nested dir, found %d", len(matches))
	}
}

func TestEmptyExport(t *testing.T) {
	tempDir := t.TempDir()

	b := New(config.MemoryConfig{
		OutputDir:      tempDir,
		CompressOutput: false,
	})

	install := &model.Install{Path: "./KSP_win"}
	session := &model.Session{Tag: "Empty Session", StartTime: time.Now()}
	_ = b.StartSession(install, session)
	// No parts, ships, or events recorded

	if err := b.EndSession(storage.SessionSummary{}); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	// Find and validate the file
	pattern := filepath.Join(tempDir, "*.json")
	matches, _ := filepath.Glob(pattern)
	if len(matches) != 1 {
		t.Fatalf("expected 1 file, found %d", len(matches))
	}

	data, _ := os.ReadFile(matches[0])
	var export SessionExport
	_ = json.Unmarshal(data, &export)

	if len(export.Parts) != 0 {
		t.Errorf("expected 0 parts, got %d", len(export.Parts))
	}
	if len(export.Ships) != 0 {
		t.Errorf("expected 0 ships, got %d", len(export.Ships))
	}
	if len(export.Events) != 0 {
		t.Errorf("expected 0 events, got %d", len(export.Events))
	}
}
