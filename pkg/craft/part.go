package craft

import (
	"fmt"
	"strings"
)

// Structural and ignorable key prefixes recognized by the part dispatcher.
const (
	nodeStackPrefix = "node_stack_"
	fxPrefix        = "fx_"
	soundPrefix     = "sound_"
)

// PartType is one variant of the closed part-module set. Concrete variants
// embed BasePart (directly or through an intermediate module) and extend its
// dispatch table in their bind step; only this package can add variants.
type PartType interface {
	fmt.Stringer

	// Module returns the module name the definition was instantiated under.
	Module() string
	// Base returns the shared attribute block.
	Base() *BasePart
	// IsEngine reports whether the part produces thrust for staging.
	IsEngine() bool
	// Apply routes one key/value pair through the variant's dispatch table.
	Apply(key, value string, diag *Diagnostics) error

	bind(a *AttrSet)
}

// BasePart carries the attributes shared by every part module. It is itself
// the variant behind the plain "Part" module name.
type BasePart struct {
	ModuleName string

	Name   string
	Author string

	NodeAttach Vec
	NodeStack  map[string]Vec

	Mesh        string
	Scale       float64
	Texture     string
	SpecPower   float64
	RimFalloff  float64
	AlphaCutoff float64

	Cost         float64
	Category     int
	Subcategory  int
	Title        string
	Manufacturer string
	Description  string
	Icon         string
	IconCenter   Vec
	IconScale    Vec

	AttachRules []int

	Mass           float64
	DragModelType  string
	MaximumDrag    float64
	MinimumDrag    float64
	AngularDrag    float64
	CrashTolerance float64
	MaxTemp        float64
	BreakingForce  float64
	BreakingTorque float64

	StageBefore   bool
	StageAfter    bool
	FuelCrossFeed bool

	// Extra holds raw values for keys outside the dispatch table.
	Extra map[string]string

	attrs *AttrSet
}

func (p *BasePart) Module() string { return p.ModuleName }

func (p *BasePart) Base() *BasePart { return p }

func (p *BasePart) IsEngine() bool { return false }

func (p *BasePart) String() string {
	return fmt.Sprintf("<%s %s>", p.ModuleName, p.Name)
}

func (p *BasePart) bind(a *AttrSet) {
	a.Ident("name", &p.Name)
	a.Str("author", &p.Author)

	a.Vector("node_attach", &p.NodeAttach)

	a.Str("mesh", &p.Mesh)
	a.Float("scale", &p.Scale)
	a.Str("texture", &p.Texture)
	a.Float("specPower", &p.SpecPower)
	a.Float("rimFalloff", &p.RimFalloff)
	a.Float("alphaCutoff", &p.AlphaCutoff)

	a.Float("cost", &p.Cost)
	a.Int("category", &p.Category)
	a.Int("subcategory", &p.Subcategory)
	a.Str("title", &p.Title)
	a.Str("manufacturer", &p.Manufacturer)
	a.Str("description", &p.Description)
	a.Str("icon", &p.Icon)
	a.Point("iconCenter", &p.IconCenter)
	a.Vector("iconScale", &p.IconScale)

	a.IntList("attachRules", &p.AttachRules)

	a.Float("mass", &p.Mass)
	a.Str("dragModelType", &p.DragModelType)
	a.Float("maximum_drag", &p.MaximumDrag)
	a.Float("minimum_drag", &p.MinimumDrag)
	a.Float("angularDrag", &p.AngularDrag)
	a.Float("crashTolerance", &p.CrashTolerance)
	a.Float("maxTemp", &p.MaxTemp)
	a.Float("breakingForce", &p.BreakingForce)
	a.Float("breakingTorque", &p.BreakingTorque)

	a.Bool("stageBefore", &p.StageBefore)
	a.Bool("stageAfter", &p.StageAfter)
	a.Bool("fuelCrossFeed", &p.FuelCrossFeed)
}

// Apply routes one key/value pair through the part dispatch order: explicit
// setter, then the structural node_stack_ prefix, then the ignorable effect
// prefixes, then the raw fallback with a diagnostic record. Only a failed
// typed coercion is an error.
func (p *BasePart) Apply(key, value string, diag *Diagnostics) error {
	ok, err := p.attrs.set(key, value)
	if err != nil {
		return &MalformedValueError{Entity: p.String(), Key: key, Value: value, Err: err}
	}
	if ok {
		return nil
	}
	if location, found := strings.CutPrefix(key, nodeStackPrefix); found {
		vec, err := CoerceVec(value)
		if err != nil {
			return &MalformedValueError{Entity: p.String(), Key: key, Value: value, Err: err}
		}
		p.NodeStack[location] = vec
		return nil
	}
	if strings.HasPrefix(key, fxPrefix) || strings.HasPrefix(key, soundPrefix) {
		return nil
	}
	p.Extra[key] = value
	diag.Record(key, p, value)
	return nil
}
