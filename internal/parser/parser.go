// Package parser turns raw part-definition and ship-assembly text into
// typed craft structures.
package parser

import (
	"log/slog"
	"strings"

	"github.com/kspforge/shipwright/pkg/craft"
)

const commentPrefix = "//"

// Parser provides pure text -> craft struct conversion. It has zero
// external dependencies beyond a logger; unknown keys from every load
// accumulate on the parser's own diagnostics registry, so independent
// parsers never interleave their findings.
type Parser struct {
	logger *slog.Logger
	diag   *craft.Diagnostics
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{
		logger: logger,
		diag:   craft.NewDiagnostics(),
	}
}

// Diagnostics returns the unknown-key registry filled by this parser's
// loads.
func (p *Parser) Diagnostics() *craft.Diagnostics {
	return p.diag
}

// splitLine cuts one `key = value` line. Blank lines, comment lines and
// lines without a separator report ok false; loaders skip those silently.
func splitLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, commentPrefix) {
		return "", "", false
	}
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}
