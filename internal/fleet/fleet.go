// Package fleet loads ship assemblies concurrently: a fixed pool of parser
// workers fed over generic channels, with per-file failures isolated into
// the result records so one broken file cannot sink a batch.
package fleet

import (
	"sync"

	"github.com/kspforge/shipwright/internal/channel"
	"github.com/kspforge/shipwright/internal/logging"
	"github.com/kspforge/shipwright/internal/parser"
	"github.com/kspforge/shipwright/internal/scan"
	"github.com/kspforge/shipwright/pkg/craft"
)

// DefaultWorkers is used when a loader is built with a worker count < 1.
const DefaultWorkers = 4

// Result is the outcome of loading one assembly file.
type Result struct {
	Input string // file name the assembly came from
	Ship  *craft.Ship
	Err   error
}

// Dependencies holds all dependencies for the fleet loader.
type Dependencies struct {
	Parser  *parser.Parser
	Catalog craft.Catalog
	Log     *logging.FleetLogger
}

// Loader fans assembly files out to a fixed pool of parser workers.
type Loader struct {
	deps    Dependencies
	workers int
}

// NewLoader creates a fleet loader with the given worker count.
func NewLoader(deps Dependencies, workers int) *Loader {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Loader{deps: deps, workers: workers}
}

// Load parses every file through the worker pool and returns one result per
// input, in completion order. The catalog must be fully loaded before Load
// is called; lookups run concurrently.
func (l *Loader) Load(files []scan.File) []Result {
	if len(files) == 0 {
		return nil
	}

	jobs := channel.New[scan.File](len(files))
	results := channel.New[Result](len(files))

	var wg sync.WaitGroup
	for i := 0; i < l.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs.Receive() {
				results.Send(l.loadOne(f))
			}
		}()
	}

	// Feed jobs and close results off the main goroutine; the drain loop
	// below runs while workers are still sending, so an unbuffered pipe
	// works as well as a buffered one.
	go func() {
		for _, f := range files {
			jobs.Send(f)
		}
		jobs.Close()
	}()
	go func() {
		wg.Wait()
		results.Close()
	}()

	out := make([]Result, 0, len(files))
	for r := range results.Receive() {
		out = append(out, r)
	}
	return out
}

// loadOne parses a single assembly. A failure is a result, not a loader
// error.
func (l *Loader) loadOne(f scan.File) Result {
	ship, err := l.deps.Parser.LoadShip(l.deps.Catalog, f.Text)
	if err != nil {
		l.deps.Log.Error("Ship load failed", "file", f.Name, "error", err)
		return Result{Input: f.Name, Err: err}
	}
	l.deps.Log.Debug("Loaded ship", "file", f.Name, "ship", ship.Name, "parts", len(ship.Parts))
	return Result{Input: f.Name, Ship: ship}
}
