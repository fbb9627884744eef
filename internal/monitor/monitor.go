package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kspforge/shipwright/internal/influx"
	"github.com/kspforge/shipwright/internal/logging"
	"github.com/kspforge/shipwright/internal/session"
	"github.com/kspforge/shipwright/internal/storage"
	"github.com/kspforge/shipwright/internal/util"
)

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Backend        storage.Backend
	Influx         *influx.Manager
	LogManager     *logging.SlogManager
	SessionContext *session.Context
	StatusDir      string
	Interval       time.Duration
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetProgramStatus returns the current program status
func (s *Service) GetProgramStatus(
	sessionInfo bool,
	writeQueues bool,
	lastWrite bool,
) (output []string, perf *storage.Performance) {
	sess := s.deps.SessionContext.GetSession()

	var depths storage.QueueDepths
	var lastWriteDur time.Duration
	if mon, ok := s.deps.Backend.(storage.Monitored); ok {
		depths = mon.QueueDepths()
		lastWriteDur = mon.LastWriteDuration()
	}

	perf = &storage.Performance{
		Time:                time.Now(),
		Queues:              depths,
		LastWriteDurationMs: float32(lastWriteDur.Milliseconds()),
	}

	if sessionInfo {
		info := struct {
			SessionID uint      `json:"sessionId"`
			Tag       string    `json:"tag"`
			StartTime time.Time `json:"startTime"`
		}{
			SessionID: sess.ID,
			Tag:       util.Ellipsis(sess.Tag, 64),
			StartTime: sess.StartTime,
		}
		infoStr, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			infoStr = []byte(fmt.Sprintf(`{"error": "%s"}`, err))
		}
		output = append(output, string(infoStr))
	}
	if writeQueues {
		queuesStr, err := json.MarshalIndent(depths, "", "  ")
		if err != nil {
			queuesStr = []byte(fmt.Sprintf(`{"error": "%s"}`, err))
		}
		output = append(output, string(queuesStr))
	}
	if lastWrite {
		lastWriteStr, err := json.MarshalIndent(perf.LastWriteDurationMs, "", "  ")
		if err != nil {
			lastWriteStr = []byte(fmt.Sprintf(`{"error": "%s"}`, err))
		}
		output = append(output, string(lastWriteStr))
	}

	return output, perf
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine", "function", "startStatusMonitor")

		statusFile, err := os.Create(filepath.Join(s.deps.StatusDir, "status.txt"))
		if err != nil {
			logger.Error("Error creating status file", "error", err)
		}
		defer statusFile.Close()

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				sess := s.deps.SessionContext.GetSession()
				if sess.ID == 0 {
					continue
				}

				statusStr, perf := s.GetProgramStatus(true, true, true)

				if statusFile != nil {
					statusFile.Truncate(0)
					statusFile.Seek(0, 0)
					for _, line := range statusStr {
						statusFile.WriteString(line + "\n")
					}
				}

				if err := s.deps.Backend.RecordPerformance(perf); err != nil {
					logger.Error("Error recording performance sample", "error", err)
				}

				if s.deps.Influx != nil {
					point := influx.PerformancePoint(perf, sess.Tag)
					err := s.deps.Influx.WritePoint(context.Background(), influx.BucketPerformance, point)
					if err != nil {
						logger.Error("Error writing performance point to InfluxDB", "error", err)
					}
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
