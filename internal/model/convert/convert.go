// Package convert provides functions to convert loaded craft values to GORM models
package convert

import (
	"database/sql"
	"encoding/json"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"

	"github.com/kspforge/shipwright/internal/model"
	"github.com/kspforge/shipwright/internal/storage"
	"github.com/kspforge/shipwright/pkg/craft"
)

// VecToPoint converts an assembly-space position vector to a geom.Point
func VecToPoint(v craft.Vec) geom.Point {
	return geom.NewPoint(
		geom.Coordinates{
			XY:   geom.XY{X: v.X(), Y: v.Y()},
			Z:    v.Z(),
			Type: geom.DimXYZ,
		},
	)
}

// PointToVec converts a stored geom.Point back to a position vector
func PointToVec(p geom.Point) craft.Vec {
	coord, ok := p.Coordinates()
	if !ok {
		return nil
	}
	return craft.Vec{coord.XY.X, coord.XY.Y, coord.Z}
}

// listJSON converts a []string to datatypes.JSON for DB storage.
func listJSON(items []string) datatypes.JSON {
	if len(items) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(items)
	return datatypes.JSON(data)
}

// mapJSON converts a map[string]string to datatypes.JSON for DB storage.
func mapJSON(m map[string]string) datatypes.JSON {
	if len(m) == 0 {
		return datatypes.JSON("{}")
	}
	data, _ := json.Marshal(m)
	return datatypes.JSON(data)
}

// floatsJSON converts a float list to datatypes.JSON for DB storage.
func floatsJSON(v []float64) datatypes.JSON {
	if len(v) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(v)
	return datatypes.JSON(data)
}

// partIDs collects the instance ids of resolved part references.
func partIDs(parts []*craft.RealizedPart) []string {
	ids := make([]string, 0, len(parts))
	for _, rp := range parts {
		ids = append(ids, rp.ID)
	}
	return ids
}

// PartRecordFromType converts a catalog PartType to a model.PartRecord.
// The full variant is snapshotted into the Attributes JSON column.
func PartRecordFromType(sessionID uint, pt craft.PartType, fileName string) model.PartRecord {
	base := pt.Base()

	var explosion sql.NullFloat64
	if ex, ok := craft.ExplosionRating(pt); ok {
		explosion = sql.NullFloat64{Float64: ex.ExplosionPotential, Valid: true}
	}

	attrs, _ := json.Marshal(pt)
	nodeStack, _ := json.Marshal(base.NodeStack)
	if nodeStack == nil || string(nodeStack) == "null" {
		nodeStack = []byte("{}")
	}

	return model.PartRecord{
		SessionID:    sessionID,
		Name:         base.Name,
		Module:       pt.Module(),
		Title:        base.Title,
		Author:       base.Author,
		Manufacturer: base.Manufacturer,
		FileName:     fileName,
		Mass:         base.Mass,
		Cost:         base.Cost,
		Category:     base.Category,
		IsEngine:     pt.IsEngine(),
		Explosion:    explosion,
		Attributes:   datatypes.JSON(attrs),
		NodeStack:    datatypes.JSON(nodeStack),
	}
}

// PlacementFromPart converts one RealizedPart to a model.Placement.
// Reference fields must already be resolved; pending identifiers are gone
// by the time a ship reaches storage.
func PlacementFromPart(sessionID uint, rp *craft.RealizedPart) model.Placement {
	partName := ""
	module := ""
	if rp.Type != nil {
		partName = rp.Type.Base().Name
		module = rp.Type.Module()
	}

	attachments := make(map[string]string, len(rp.Attachments))
	for location, partner := range rp.Attachments {
		attachments[location] = partner.ID
	}

	return model.Placement{
		SessionID: sessionID,
		PartID:    rp.ID,
		PartName:  partName,
		Module:    module,

		Position:  VecToPoint(rp.Pos),
		Elevation: rp.Pos.Z(),
		Rotation:  floatsJSON(rp.Rot),

		IgnitionStage: rp.IgnitionStage,
		DetachStage:   rp.DetachStage,
		SequenceIndex: rp.SequenceIndex,
		SequenceOrder: rp.SequenceOrder,
		AttachMode:    rp.AttachMode,

		Attachments:        mapJSON(attachments),
		SurfaceAttachments: listJSON(partIDs(rp.Surface)),
		SymmetrySiblings:   listJSON(partIDs(rp.Symmetry)),
		Links:              listJSON(partIDs(rp.Links)),
	}
}

// StageRowFromStage converts one derived Stage to a model.StageRow.
func StageRowFromStage(sessionID uint, st *craft.Stage) model.StageRow {
	thrusters := st.AvailableThrusters()

	return model.StageRow{
		SessionID:      sessionID,
		Ordinal:        st.Ordinal,
		CumulativeMass: st.Mass(),
		ThrusterCount:  len(thrusters),
		IgnitionIDs:    listJSON(partIDs(st.Ignition)),
		DetachIDs:      listJSON(partIDs(st.Detach)),
		ThrusterIDs:    listJSON(partIDs(thrusters)),
	}
}

// ShipFromCraft converts a finalized craft.Ship to a model.Ship with its
// placements and stage rows nested, ready for an associated create.
func ShipFromCraft(sessionID uint, s *craft.Ship, fileName string) model.Ship {
	var totalMass float64
	for _, rp := range s.Parts {
		if rp.Type != nil {
			totalMass += rp.Type.Base().Mass
		}
	}

	placements := make([]model.Placement, 0, len(s.Parts))
	for _, rp := range s.Parts {
		placements = append(placements, PlacementFromPart(sessionID, rp))
	}

	stageRows := make([]model.StageRow, 0, len(s.Stages))
	for _, st := range s.Stages {
		stageRows = append(stageRows, StageRowFromStage(sessionID, st))
	}

	return model.Ship{
		SessionID:  sessionID,
		Name:       s.Name,
		Version:    s.Version,
		FileName:   fileName,
		PartCount:  len(s.Parts),
		StageCount: len(s.Stages),
		TotalMass:  totalMass,
		Placements: placements,
		StageRows:  stageRows,
	}
}

// UnknownKeysFromDiagnostics converts diagnostic sightings to UnknownKey rows.
func UnknownKeysFromDiagnostics(sessionID uint, entries []craft.UnknownKey) []model.UnknownKey {
	rows := make([]model.UnknownKey, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, model.UnknownKey{
			SessionID: sessionID,
			Key:       e.Key,
			Entity:    e.Entity,
			Value:     e.Value,
		})
	}
	return rows
}

// LoadEventRow converts a lifecycle event to a LoadEvent row.
func LoadEventRow(sessionID uint, ev *storage.LoadEvent) model.LoadEvent {
	extra := datatypes.JSON("{}")
	if len(ev.Extra) > 0 {
		if data, err := json.Marshal(ev.Extra); err == nil {
			extra = datatypes.JSON(data)
		}
	}
	return model.LoadEvent{
		Time:      ev.Time,
		SessionID: sessionID,
		Name:      ev.Name,
		Message:   ev.Message,
		ExtraData: extra,
	}
}

// PerformanceRow converts a monitor sample to a SessionPerformance row.
func PerformanceRow(sessionID uint, perf *storage.Performance) model.SessionPerformance {
	return model.SessionPerformance{
		Time:      perf.Time,
		SessionID: sessionID,
		WriteQueueLengths: model.WriteQueueLengths{
			PartRecords: perf.Queues.PartRecords,
			Ships:       perf.Queues.Ships,
			Placements:  perf.Queues.Placements,
			StageRows:   perf.Queues.StageRows,
			UnknownKeys: perf.Queues.UnknownKeys,
			LoadEvents:  perf.Queues.LoadEvents,
		},
		LastWriteDurationMs: perf.LastWriteDurationMs,
	}
}
