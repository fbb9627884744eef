package craft

import (
	"errors"
	"fmt"
	"strings"
)

// Catalog is the part-definition lookup a ship resolves catalog names
// against while it is being read.
type Catalog interface {
	Lookup(name string) (PartType, bool)
}

// Ship is one vehicle assembly: the ordered part list, the part-by-id index
// filled while reading, and the stage sequence derived after resolution.
type Ship struct {
	Name    string
	Version string

	Parts  []*RealizedPart
	ByID   map[string]*RealizedPart
	Stages []*Stage

	// Extra holds raw values for ship-level keys outside the dispatch table.
	Extra map[string]string

	catalog Catalog
	attrs   *AttrSet
}

// NewShip builds an empty assembly resolving part names against the given
// catalog.
func NewShip(catalog Catalog) *Ship {
	s := &Ship{
		ByID:    make(map[string]*RealizedPart),
		Extra:   make(map[string]string),
		catalog: catalog,
	}
	s.attrs = newAttrSet()
	s.attrs.Str("ship", &s.Name)
	s.attrs.Str("version", &s.Version)
	return s
}

func (s *Ship) String() string {
	return fmt.Sprintf("<Ship %s>", s.Name)
}

// Apply routes one ship-level key/value pair: explicit setter, then the raw
// fallback with a diagnostic record.
func (s *Ship) Apply(key, value string, diag *Diagnostics) error {
	ok, err := s.attrs.set(key, value)
	if err != nil {
		return &MalformedValueError{Entity: s.String(), Key: key, Value: value, Err: err}
	}
	if ok {
		return nil
	}
	s.Extra[key] = value
	diag.Record(key, s, value)
	return nil
}

func (s *Ship) lookup(name string) (PartType, bool) {
	if s.catalog == nil {
		return nil, false
	}
	return s.catalog.Lookup(name)
}

// RealizedPart is one placed part inside a ship. References to other parts
// arrive as identifiers and stay pending until Resolve links them; stage
// ordinals default to -1, meaning the part takes no role in staging.
type RealizedPart struct {
	Type PartType
	ID   string

	Pos Vec
	Rot Vec

	IgnitionStage int
	DetachStage   int
	SequenceIndex int
	SequenceOrder int
	AttachMode    int

	Attachments map[string]*RealizedPart
	Surface     []*RealizedPart
	Symmetry    []*RealizedPart
	Links       []*RealizedPart

	// Extra holds raw values for part keys outside the dispatch table.
	Extra map[string]string

	pendingAttachments map[string]string
	pendingSurface     []string
	pendingSymmetry    []string
	pendingLinks       []string

	ship  *Ship
	attrs *AttrSet
}

// NewRealizedPart appends an empty placed part to the ship and builds its
// dispatch table.
func NewRealizedPart(ship *Ship) *RealizedPart {
	rp := &RealizedPart{
		IgnitionStage: -1,
		DetachStage:   -1,
		SequenceIndex: -1,
		SequenceOrder: -1,

		Attachments:        make(map[string]*RealizedPart),
		Extra:              make(map[string]string),
		pendingAttachments: make(map[string]string),

		ship: ship,
	}
	a := newAttrSet()
	a.Point("pos", &rp.Pos)
	a.Vector("rot", &rp.Rot)
	a.Int("istg", &rp.IgnitionStage)
	a.Int("dstg", &rp.DetachStage)
	a.Int("sidx", &rp.SequenceIndex)
	a.Int("sqor", &rp.SequenceOrder)
	a.Int("attm", &rp.AttachMode)
	a.Func("part", rp.readPart)
	a.Func("sym", rp.readSym)
	a.Func("link", rp.readLink)
	a.Func("attN", rp.readAttachNode)
	a.Func("srfN", rp.readSurfaceNode)
	a.Func("cData", rp.readConnectionData)
	rp.attrs = a

	ship.Parts = append(ship.Parts, rp)
	return rp
}

func (rp *RealizedPart) String() string {
	name := "Part"
	if rp.Type != nil {
		name = rp.Type.Base().Name
	}
	return fmt.Sprintf("<%s: %s>", name, rp.ID)
}

// Apply routes one part-level key/value pair. Indexed attachment keys such
// as attN0 or srfN2 collapse onto their base handler before dispatch.
func (rp *RealizedPart) Apply(key, value string, diag *Diagnostics) error {
	ok, err := rp.attrs.set(normalizeNodeKey(key), value)
	if err != nil {
		var unknownType *UnknownPartTypeError
		if errors.As(err, &unknownType) {
			return err
		}
		return &MalformedValueError{Entity: rp.String(), Key: key, Value: value, Err: err}
	}
	if ok {
		return nil
	}
	rp.Extra[key] = value
	diag.Record(key, rp, value)
	return nil
}

// readPart binds the part to its catalog definition. The catalog name is
// the value up to the first underscore; the full value is the part id,
// indexed on the ship immediately so later parts can refer back to it.
func (rp *RealizedPart) readPart(value string) error {
	name := value
	if i := strings.Index(value, "_"); i >= 0 {
		name = value[:i]
	}
	def, ok := rp.ship.lookup(name)
	if !ok {
		return &UnknownPartTypeError{Ship: rp.ship.Name, PartID: value, Name: name}
	}
	rp.Type = def
	rp.ID = value
	rp.ship.ByID[value] = rp
	return nil
}

func (rp *RealizedPart) readSym(value string) error {
	rp.pendingSymmetry = append(rp.pendingSymmetry, value)
	return nil
}

func (rp *RealizedPart) readLink(value string) error {
	rp.pendingLinks = append(rp.pendingLinks, strings.TrimSpace(value))
	return nil
}

func (rp *RealizedPart) readAttachNode(value string) error {
	location, id, ok := strings.Cut(value, ",")
	if !ok {
		return fmt.Errorf("expected %q", "location, part id")
	}
	rp.pendingAttachments[strings.TrimSpace(location)] = strings.TrimSpace(id)
	return nil
}

func (rp *RealizedPart) readSurfaceNode(value string) error {
	_, id, ok := strings.Cut(value, ",")
	if !ok {
		return fmt.Errorf("expected %q", "location, part id")
	}
	rp.pendingSurface = append(rp.pendingSurface, strings.TrimSpace(id))
	return nil
}

func (rp *RealizedPart) readConnectionData(value string) error {
	// fuel line connection metadata; recognized but unused
	return nil
}

// normalizeNodeKey strips the numeric suffix from indexed attachment keys.
func normalizeNodeKey(key string) string {
	for _, prefix := range []string{"attN", "srfN"} {
		rest, found := strings.CutPrefix(key, prefix)
		if found && allDigits(rest) {
			return prefix
		}
	}
	return key
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
