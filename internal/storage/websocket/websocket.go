package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/kspforge/shipwright/internal/model"
	"github.com/kspforge/shipwright/internal/storage"
	"github.com/kspforge/shipwright/pkg/craft"
	"github.com/kspforge/shipwright/pkg/streaming"
)

// Config holds WebSocket backend configuration.
type Config struct {
	URL    string
	Secret string
}

// Backend streams session records over WebSocket to the hangar web service.
// It implements storage.Backend but not storage.Uploadable.
type Backend struct {
	conn *connection
	cfg  Config
}

// New creates a new WebSocket storage backend.
func New(cfg Config) *Backend {
	return &Backend{
		conn: newConnection(slog.Default()),
		cfg:  cfg,
	}
}

// Init connects to the WebSocket server.
func (b *Backend) Init() error {
	return b.conn.dial(b.cfg.URL, b.cfg.Secret)
}

// Close disconnects from the WebSocket server.
func (b *Backend) Close() error {
	return b.conn.close()
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope marshals the payload into an Envelope and pushes it
// to the write loop (fire-and-forget).
func (b *Backend) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	b.conn.send(data)
	return nil
}

// sendEnvelopeAndWait marshals the payload and waits for a server ack.
func (b *Backend) sendEnvelopeAndWait(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	return b.conn.sendAndWait(data, msgType, ackTimeout)
}

// StartSession sends install and session data and waits for server ack.
func (b *Backend) StartSession(install *model.Install, session *model.Session) error {
	data, err := marshalEnvelope(streaming.TypeSessionStart, streaming.SessionStartPayload{
		GameRoot:    install.Path,
		GameVersion: install.GameVersion,
		Tag:         session.Tag,
		ToolVersion: session.ToolVersion,
		StartTime:   session.StartTime,
	})
	if err != nil {
		return err
	}

	// Cache for reconnect replay.
	b.conn.mu.Lock()
	b.conn.cachedSessionStart = data
	b.conn.mu.Unlock()

	return b.conn.sendAndWait(data, streaming.TypeSessionStart, ackTimeout)
}

// EndSession sends the summary counters and waits for server ack.
func (b *Backend) EndSession(summary storage.SessionSummary) error {
	err := b.sendEnvelopeAndWait(streaming.TypeSessionEnd, streaming.SessionEndPayload{
		PartsLoaded:  summary.PartsLoaded,
		ShipsLoaded:  summary.ShipsLoaded,
		LoadFailures: summary.LoadFailures,
		UnknownKeys:  summary.UnknownKeys,
	})

	// Clear cached state regardless of error.
	b.conn.mu.Lock()
	b.conn.cachedSessionStart = nil
	b.conn.mu.Unlock()

	return err
}

func (b *Backend) AddPartType(pt craft.PartType, source string) error {
	return b.sendEnvelope(streaming.TypePartType, streaming.PartTypeFromCraft(pt, source))
}

// AddShip sends the assembly and its firing sequence as separate messages so
// the hangar can render placements before the staging analysis arrives.
func (b *Backend) AddShip(ship *craft.Ship, source string) error {
	if err := b.sendEnvelope(streaming.TypeShip, streaming.ShipFromCraft(ship, source)); err != nil {
		return err
	}
	return b.sendEnvelope(streaming.TypeStagePlan, streaming.StagePlanFromCraft(ship))
}

func (b *Backend) RecordUnknownKeys(entries []craft.UnknownKey) error {
	return b.sendEnvelope(streaming.TypeUnknownKeys, streaming.UnknownKeysFromCraft(entries))
}

func (b *Backend) RecordLoadEvent(ev *storage.LoadEvent) error {
	return b.sendEnvelope(streaming.TypeLoadEvent, streaming.LoadEventPayload{
		Time:    ev.Time,
		Name:    ev.Name,
		Message: ev.Message,
		Extra:   ev.Extra,
	})
}

func (b *Backend) RecordPerformance(perf *storage.Performance) error {
	return b.sendEnvelope(streaming.TypePerformance, streaming.PerformancePayload{
		Time:                perf.Time,
		PartRecordQueue:     perf.Queues.PartRecords,
		ShipQueue:           perf.Queues.Ships,
		PlacementQueue:      perf.Queues.Placements,
		StageRowQueue:       perf.Queues.StageRows,
		UnknownKeyQueue:     perf.Queues.UnknownKeys,
		LoadEventQueue:      perf.Queues.LoadEvents,
		LastWriteDurationMs: perf.LastWriteDurationMs,
	})
}
