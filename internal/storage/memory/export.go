// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kspforge/shipwright/internal/util"
	"github.com/kspforge/shipwright/pkg/craft"
)

// SessionExport is the root JSON structure
type SessionExport struct {
	ToolVersion  string         `json:"toolVersion"`
	GameVersion  string         `json:"gameVersion,omitempty"`
	GameRoot     string         `json:"gameRoot"`
	Tag          string         `json:"tag"`
	StartTime    string         `json:"startTime"`
	EndTime      string         `json:"endTime"`
	PartCount    int            `json:"partCount"`
	ShipCount    int            `json:"shipCount"`
	LoadFailures uint           `json:"loadFailures"`
	Parts        []PartTypeJSON `json:"parts"`
	Ships        []ShipJSON     `json:"ships"`
	UnknownKeys  [][]any        `json:"unknownKeys"`
	Events       [][]any        `json:"events"`
}

// PartTypeJSON represents one catalog part definition
type PartTypeJSON struct {
	Name     string  `json:"name"`
	Module   string  `json:"module"`
	Title    string  `json:"title,omitempty"`
	Mass     float64 `json:"mass"`
	Cost     float64 `json:"cost"`
	IsEngine int     `json:"isEngine"`
	Source   string  `json:"source,omitempty"`
}

// ShipJSON represents one loaded assembly
type ShipJSON struct {
	Name       string  `json:"name"`
	Version    string  `json:"version,omitempty"`
	Source     string  `json:"source,omitempty"`
	TotalMass  float64 `json:"totalMass"`
	Placements [][]any `json:"placements"`
	Stages     [][]any `json:"stages"`
}

// exportJSON writes the session data to a gzipped JSON file
func (b *Backend) exportJSON() error {
	export := b.buildExport()

	// Build filename
	tag := util.SanitizeFileName(b.session.Tag)
	timestamp := b.session.StartTime.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", tag, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", tag, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Write file
	if b.cfg.CompressOutput {
		if err := b.writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := b.writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildExport() SessionExport {
	export := SessionExport{
		ToolVersion:  b.session.ToolVersion,
		GameRoot:     b.install.Path,
		GameVersion:  b.install.GameVersion,
		Tag:          b.session.Tag,
		StartTime:    b.session.StartTime.Format(time.RFC3339),
		EndTime:      b.endTime.Format(time.RFC3339),
		PartCount:    len(b.parts),
		ShipCount:    len(b.ships),
		LoadFailures: b.summary.LoadFailures,
		Parts:        make([]PartTypeJSON, 0, len(b.parts)),
		Ships:        make([]ShipJSON, 0, len(b.ships)),
		UnknownKeys:  make([][]any, 0, len(b.unknownKeys)),
		Events:       make([][]any, 0, len(b.loadEvents)),
	}

	// Convert catalog parts
	for _, entry := range b.parts {
		base := entry.Type.Base()
		export.Parts = append(export.Parts, PartTypeJSON{
			Name:     base.Name,
			Module:   entry.Type.Module(),
			Title:    base.Title,
			Mass:     base.Mass,
			Cost:     base.Cost,
			IsEngine: boolToInt(entry.Type.IsEngine()),
			Source:   entry.Source,
		})
	}

	// Convert ships
	for _, entry := range b.ships {
		ship := entry.Ship
		shipJSON := ShipJSON{
			Name:       ship.Name,
			Version:    ship.Version,
			Source:     entry.Source,
			Placements: make([][]any, 0, len(ship.Parts)),
			Stages:     make([][]any, 0, len(ship.Stages)),
		}

		// Placement format: [partId, typeName, [x, y, z], ignitionStage, detachStage]
		for _, rp := range ship.Parts {
			typeName := ""
			if rp.Type != nil {
				typeName = rp.Type.Base().Name
				shipJSON.TotalMass += rp.Type.Base().Mass
			}
			shipJSON.Placements = append(shipJSON.Placements, []any{
				rp.ID,
				typeName,
				[]float64{rp.Pos.X(), rp.Pos.Y(), rp.Pos.Z()},
				rp.IgnitionStage,
				rp.DetachStage,
			})
		}

		// Stage format: [ordinal, cumulativeMass, thrusterCount, ignitionIds, detachIds]
		for _, st := range ship.Stages {
			thrusters := st.AvailableThrusters()
			shipJSON.Stages = append(shipJSON.Stages, []any{
				st.Ordinal,
				st.Mass(),
				len(thrusters),
				partIDList(st.Ignition),
				partIDList(st.Detach),
			})
		}

		export.Ships = append(export.Ships, shipJSON)
	}

	// Unknown key format: [key, entity, value]
	for _, uk := range b.unknownKeys {
		export.UnknownKeys = append(export.UnknownKeys, []any{
			uk.Key,
			uk.Entity,
			uk.Value,
		})
	}

	// Event format: [time, name, message]
	for _, evt := range b.loadEvents {
		export.Events = append(export.Events, []any{
			evt.Time.Format(time.RFC3339),
			evt.Name,
			evt.Message,
		})
	}

	return export
}

func (b *Backend) writeJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func (b *Backend) writeGzipJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}

func partIDList(parts []*craft.RealizedPart) []string {
	ids := make([]string, 0, len(parts))
	for _, rp := range parts {
		ids = append(ids, rp.ID)
	}
	return ids
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
