// Package streaming defines the wire protocol spoken to a hangar web
// service: a typed JSON envelope plus payload DTOs built from pkg/craft
// values.
package streaming

import (
	"encoding/json"
	"time"

	"github.com/kspforge/shipwright/pkg/craft"
)

// Message type constants matching the streaming protocol.
const (
	TypeSessionStart = "session_start"
	TypeSessionEnd   = "session_end"
	TypePartType     = "part_type"
	TypeShip         = "ship"
	TypeStagePlan    = "stage_plan"
	TypeUnknownKeys  = "unknown_keys"
	TypeLoadEvent    = "load_event"
	TypePerformance  = "performance"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// SessionStartPayload announces a new load session and the install it reads.
type SessionStartPayload struct {
	GameRoot    string    `json:"gameRoot"`
	GameVersion string    `json:"gameVersion,omitempty"`
	Tag         string    `json:"tag"`
	ToolVersion string    `json:"toolVersion"`
	StartTime   time.Time `json:"startTime"`
}

// SessionEndPayload carries the closing summary counters.
type SessionEndPayload struct {
	PartsLoaded  uint `json:"partsLoaded"`
	ShipsLoaded  uint `json:"shipsLoaded"`
	LoadFailures uint `json:"loadFailures"`
	UnknownKeys  uint `json:"unknownKeys"`
}

// PartTypePayload is one catalog definition.
type PartTypePayload struct {
	Name         string  `json:"name"`
	Module       string  `json:"module"`
	Title        string  `json:"title,omitempty"`
	Manufacturer string  `json:"manufacturer,omitempty"`
	Mass         float64 `json:"mass"`
	Cost         float64 `json:"cost"`
	IsEngine     bool    `json:"isEngine"`
	Source       string  `json:"source,omitempty"`
}

// PartTypeFromCraft builds the wire DTO for one catalog definition.
func PartTypeFromCraft(pt craft.PartType, source string) PartTypePayload {
	base := pt.Base()
	return PartTypePayload{
		Name:         base.Name,
		Module:       pt.Module(),
		Title:        base.Title,
		Manufacturer: base.Manufacturer,
		Mass:         base.Mass,
		Cost:         base.Cost,
		IsEngine:     pt.IsEngine(),
		Source:       source,
	}
}

// PlacementPayload is one placed part instance inside a ship.
type PlacementPayload struct {
	PartID        string    `json:"partId"`
	PartName      string    `json:"partName"`
	Module        string    `json:"module,omitempty"`
	Position      craft.Vec `json:"position"`
	IgnitionStage int       `json:"ignitionStage"`
	DetachStage   int       `json:"detachStage"`
}

// ShipPayload is one loaded assembly with its placements.
type ShipPayload struct {
	Name       string             `json:"name"`
	Version    string             `json:"version,omitempty"`
	Source     string             `json:"source,omitempty"`
	PartCount  int                `json:"partCount"`
	StageCount int                `json:"stageCount"`
	TotalMass  float64            `json:"totalMass"`
	Placements []PlacementPayload `json:"placements"`
}

// ShipFromCraft builds the wire DTO for one assembly. Unresolved parts keep
// an empty name and contribute no mass.
func ShipFromCraft(s *craft.Ship, source string) ShipPayload {
	var totalMass float64
	placements := make([]PlacementPayload, 0, len(s.Parts))
	for _, rp := range s.Parts {
		name := ""
		module := ""
		if rp.Type != nil {
			name = rp.Type.Base().Name
			module = rp.Type.Module()
			totalMass += rp.Type.Base().Mass
		}
		placements = append(placements, PlacementPayload{
			PartID:        rp.ID,
			PartName:      name,
			Module:        module,
			Position:      rp.Pos,
			IgnitionStage: rp.IgnitionStage,
			DetachStage:   rp.DetachStage,
		})
	}

	return ShipPayload{
		Name:       s.Name,
		Version:    s.Version,
		Source:     source,
		PartCount:  len(s.Parts),
		StageCount: len(s.Stages),
		TotalMass:  totalMass,
		Placements: placements,
	}
}

// StagePayload is one derived stage of a firing sequence.
type StagePayload struct {
	Ordinal        int      `json:"ordinal"`
	CumulativeMass float64  `json:"cumulativeMass"`
	ThrusterCount  int      `json:"thrusterCount"`
	IgnitionIDs    []string `json:"ignitionIds"`
	DetachIDs      []string `json:"detachIds"`
}

// StagePlanPayload carries the full firing sequence of one ship.
type StagePlanPayload struct {
	Ship   string         `json:"ship"`
	Stages []StagePayload `json:"stages"`
}

// StagePlanFromCraft builds the wire DTO for a ship's firing sequence.
func StagePlanFromCraft(s *craft.Ship) StagePlanPayload {
	stages := make([]StagePayload, 0, len(s.Stages))
	for _, st := range s.Stages {
		stages = append(stages, StagePayload{
			Ordinal:        st.Ordinal,
			CumulativeMass: st.Mass(),
			ThrusterCount:  len(st.AvailableThrusters()),
			IgnitionIDs:    partIDs(st.Ignition),
			DetachIDs:      partIDs(st.Detach),
		})
	}
	return StagePlanPayload{Ship: s.Name, Stages: stages}
}

// UnknownKeyPayload is one unrecognized attribute sighting.
type UnknownKeyPayload struct {
	Key    string `json:"key"`
	Entity string `json:"entity"`
	Value  string `json:"value"`
}

// UnknownKeysFromCraft builds the wire DTOs for a batch of diagnostics.
func UnknownKeysFromCraft(entries []craft.UnknownKey) []UnknownKeyPayload {
	payload := make([]UnknownKeyPayload, 0, len(entries))
	for _, e := range entries {
		payload = append(payload, UnknownKeyPayload{Key: e.Key, Entity: e.Entity, Value: e.Value})
	}
	return payload
}

// LoadEventPayload is one lifecycle event.
type LoadEventPayload struct {
	Time    time.Time      `json:"time"`
	Name    string         `json:"name"`
	Message string         `json:"message,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// PerformancePayload is one loader performance sample.
type PerformancePayload struct {
	Time                time.Time `json:"time"`
	PartRecordQueue     uint16    `json:"partRecordQueue"`
	ShipQueue           uint16    `json:"shipQueue"`
	PlacementQueue      uint16    `json:"placementQueue"`
	StageRowQueue       uint16    `json:"stageRowQueue"`
	UnknownKeyQueue     uint16    `json:"unknownKeyQueue"`
	LoadEventQueue      uint16    `json:"loadEventQueue"`
	LastWriteDurationMs float32   `json:"lastWriteDurationMs"`
}

func partIDs(parts []*craft.RealizedPart) []string {
	ids := make([]string, 0, len(parts))
	for _, rp := range parts {
		ids = append(ids, rp.ID)
	}
	return ids
}
