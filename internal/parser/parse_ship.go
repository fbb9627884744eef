package parser

import (
	"strings"

	"github.com/kspforge/shipwright/pkg/craft"
)

// LoadShip parses one ship assembly body against the given part catalog and
// returns the ship resolved and staged. A bare { opens a part scope, a bare
// } returns to ship scope; key/value lines dispatch to whichever scope is
// open. References between parts stay deferred until the closing resolution
// pass, so blocks may refer to parts declared later in the text.
func (p *Parser) LoadShip(catalog craft.Catalog, text string) (*craft.Ship, error) {
	ship := craft.NewShip(catalog)

	var current *craft.RealizedPart
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "}"):
			current = nil
		case strings.HasPrefix(line, "{"):
			current = craft.NewRealizedPart(ship)
		default:
			key, value, ok := splitLine(line)
			if !ok {
				continue
			}
			var err error
			if current != nil {
				err = current.Apply(key, value, p.diag)
			} else {
				err = ship.Apply(key, value, p.diag)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	if err := ship.Finalize(); err != nil {
		return nil, err
	}

	p.logger.Debug("Loaded ship",
		"ship", ship.Name,
		"parts", len(ship.Parts),
		"stages", len(ship.Stages))

	return ship, nil
}
