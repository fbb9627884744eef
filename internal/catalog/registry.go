// Package catalog aggregates loaded part definitions into a name-keyed
// registry that ships resolve their parts against.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kspforge/shipwright/internal/parser"
	"github.com/kspforge/shipwright/pkg/craft"
)

var (
	ErrUnnamedPart  = errors.New("part definition has no name")
	ErrNegativeMass = errors.New("part mass is negative")
)

// Input is one raw part definition handed to a batch load: the caller's
// identifier for it plus the text body.
type Input struct {
	Name string
	Text string
}

// LoadFailure records one input a batch load could not turn into a catalog
// entry. The batch itself keeps going; the caller decides whether any
// failure is fatal.
type LoadFailure struct {
	Input string
	Err   error
}

// Registry is the part catalog. Writes happen during loading; once a load
// batch finishes the registry is effectively read-only, and lookups from
// concurrent ship loads need no coordination beyond the built-in lock.
type Registry struct {
	logger *slog.Logger

	mu    sync.RWMutex
	parts map[string]craft.PartType

	// OTEL metrics
	size     metric.Int64ObservableGauge
	loaded   metric.Int64Counter
	failures metric.Int64Counter
}

// NewRegistry creates an empty registry.
// Uses the global OTel meter for metrics (no-op if not configured).
func NewRegistry(logger *slog.Logger) (*Registry, error) {
	r := &Registry{
		logger: logger,
		parts:  make(map[string]craft.PartType),
	}

	m := meter()

	var err error

	r.size, err = m.Int64ObservableGauge(
		"catalog.size",
		metric.WithDescription("Current number of part definitions in the catalog"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating catalog size gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(r.size, int64(r.Len()))
			return nil
		},
		r.size,
	)
	if err != nil {
		return nil, fmt.Errorf("registering catalog size callback: %w", err)
	}

	r.loaded, err = m.Int64Counter(
		"catalog.parts.loaded",
		metric.WithDescription("Total part definitions loaded"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating loaded counter: %w", err)
	}

	r.failures, err = m.Int64Counter(
		"catalog.parts.failed",
		metric.WithDescription("Total part definitions rejected during load"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failures counter: %w", err)
	}

	return r, nil
}

// Add validates and indexes one part definition by its name. A later
// definition under the same name replaces the earlier one.
func (r *Registry) Add(part craft.PartType) error {
	base := part.Base()
	if base.Name == "" {
		return ErrUnnamedPart
	}
	if base.Mass < 0 {
		return fmt.Errorf("%w: %s has mass %v", ErrNegativeMass, base.Name, base.Mass)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if earlier, ok := r.parts[base.Name]; ok {
		r.logger.Debug("Replacing part definition",
			"name", base.Name,
			"earlierModule", earlier.Module(),
			"module", part.Module())
	}
	r.parts[base.Name] = part
	return nil
}

// Lookup returns the part definition registered under the catalog name.
func (r *Registry) Lookup(name string) (craft.PartType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parts[name]
	return p, ok
}

// Names returns the registered catalog names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.parts))
	for name := range r.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered part definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.parts)
}

// LoadAll parses and registers every input. One bad input never aborts the
// batch: its failure is recorded, counted and the load moves on.
func (r *Registry) LoadAll(p *parser.Parser, inputs []Input) []LoadFailure {
	var failed []LoadFailure
	for _, input := range inputs {
		part, err := p.LoadPartDefinition(input.Name, input.Text)
		if err == nil {
			err = r.Add(part)
		}
		if err != nil {
			r.logger.Warn("Skipping part definition",
				"input", input.Name,
				"error", err)
			r.failures.Add(context.Background(), 1,
				metric.WithAttributes(attribute.String("input", input.Name)))
			failed = append(failed, LoadFailure{Input: input.Name, Err: err})
			continue
		}
		r.loaded.Add(context.Background(), 1)
	}

	r.logger.Info("Part catalog loaded",
		"parts", r.Len(),
		"failed", len(failed))

	return failed
}
