package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/kspforge/shipwright/internal/catalog"
	"github.com/kspforge/shipwright/pkg/craft"
)

// RenderShipReport formats one assembly's analysis: a header line, the
// staging table, and the engine inventory.
func RenderShipReport(ship *craft.Ship) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Ship: %s", ship.Name)
	if ship.Version != "" {
		fmt.Fprintf(&b, " (version %s)", ship.Version)
	}
	fmt.Fprintf(&b, "\n  parts: %d  stages: %d  mass: %.2f\n",
		len(ship.Parts), len(ship.Stages), totalMass(ship))

	if len(ship.Stages) > 0 {
		tw := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  STAGE\tMASS\tIGNITES\tDETACHES\tTHRUSTERS")
		for _, st := range ship.Stages {
			fmt.Fprintf(tw, "  %d\t%.2f\t%s\t%s\t%s\n",
				st.Ordinal, st.Mass(),
				partList(st.Ignition), partList(st.Detach), partList(st.AvailableThrusters()))
		}
		tw.Flush()
	}

	if engines := EngineInventory(ship); len(engines) > 0 {
		fmt.Fprintln(&b, "  Engines:")
		for _, e := range engines {
			fmt.Fprintf(&b, "    %s (ignites %d, detaches %d, order %d)\n",
				e.ID, e.IgnitionStage, e.DetachStage, e.SequenceOrder)
		}
	}

	return b.String()
}

// EngineInventory returns the assembly's engines ordered by ignition stage,
// then detach stage, sequence order, and id.
func EngineInventory(ship *craft.Ship) []*craft.RealizedPart {
	var engines []*craft.RealizedPart
	for _, rp := range ship.Parts {
		if rp.Type != nil && rp.Type.IsEngine() {
			engines = append(engines, rp)
		}
	}
	sort.SliceStable(engines, func(i, j int) bool {
		a, b := engines[i], engines[j]
		if a.IgnitionStage != b.IgnitionStage {
			return a.IgnitionStage < b.IgnitionStage
		}
		if a.DetachStage != b.DetachStage {
			return a.DetachStage < b.DetachStage
		}
		if a.SequenceOrder != b.SequenceOrder {
			return a.SequenceOrder < b.SequenceOrder
		}
		return a.ID < b.ID
	})
	return engines
}

// RenderSkippedKeys formats every unrecognized key the parsers ran into,
// grouped by key text with each sighting listed under it.
func RenderSkippedKeys(diag *craft.Diagnostics) string {
	keys := diag.Keys()
	if len(keys) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Skipped keys (%d distinct):\n", len(keys))
	for _, key := range keys {
		sightings := diag.ByKey(key)
		fmt.Fprintf(&b, "  %s (%d):\n", key, len(sightings))
		for _, sighting := range sightings {
			fmt.Fprintf(&b, "    %s = %q\n", sighting.Entity, sighting.Value)
		}
	}
	return b.String()
}

// RenderCatalog formats the registry inventory sorted by part name.
func RenderCatalog(reg *catalog.Registry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Catalog: %d part types\n", reg.Len())

	tw := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  NAME\tMODULE\tMASS\tTITLE")
	for _, name := range reg.Names() {
		pt, _ := reg.Lookup(name)
		base := pt.Base()
		fmt.Fprintf(tw, "  %s\t%s\t%.2f\t%s\n", name, pt.Module(), base.Mass, base.Title)
	}
	tw.Flush()

	return b.String()
}

func totalMass(ship *craft.Ship) float64 {
	var total float64
	for _, rp := range ship.Parts {
		if rp.Type != nil {
			total += rp.Type.Base().Mass
		}
	}
	return total
}

// partList joins part ids for one staging table cell. Empty cells render as
// a dash so the columns stay readable.
func partList(parts []*craft.RealizedPart) string {
	if len(parts) == 0 {
		return "-"
	}
	ids := make([]string, len(parts))
	for i, rp := range parts {
		ids[i] = rp.ID
	}
	return strings.Join(ids, ", ")
}
