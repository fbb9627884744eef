package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kspforge/shipwright/pkg/craft"
)

const moduleKey = "module"

// LoadPartDefinition parses one part definition body into a catalog part
// type. The input name is the caller's identifier for the definition (its
// directory name, usually) and only serves error context.
//
// All lines are read before any dispatch happens, so the module key may sit
// anywhere in the body. The first module key selects the variant; for every
// other key a later duplicate overwrites the earlier value, so each field
// is applied once.
func (p *Parser) LoadPartDefinition(input, text string) (craft.PartType, error) {
	module := ""
	order := make([]string, 0, 32)
	values := make(map[string]string, 32)
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := splitLine(line)
		if !ok {
			continue
		}
		if key == moduleKey {
			if module == "" {
				module = value
			}
			continue
		}
		if _, seen := values[key]; !seen {
			order = append(order, key)
		}
		values[key] = value
	}

	if module == "" {
		return nil, &craft.MissingModuleError{Input: input}
	}

	part, err := craft.NewPartType(module)
	if err != nil {
		var unknown *craft.UnknownPartModuleError
		if errors.As(err, &unknown) {
			unknown.Input = input
		}
		return nil, err
	}

	for _, key := range order {
		if err := part.Apply(key, values[key], p.diag); err != nil {
			return nil, fmt.Errorf("part definition %q: %w", input, err)
		}
	}

	p.logger.Debug("Loaded part definition",
		"input", input,
		"name", part.Base().Name,
		"module", module)

	return part, nil
}
