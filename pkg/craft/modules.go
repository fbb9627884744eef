package craft

import "sort"

// Explosive is the blast-rating block shared by fuel, connector and drag
// surface modules.
type Explosive struct {
	ExplosionPotential      float64
	FullExplosionPotential  float64
	EmptyExplosionPotential float64
}

func (e *Explosive) Explosion() *Explosive { return e }

func (e *Explosive) bind(a *AttrSet) {
	a.Float("explosionPotential", &e.ExplosionPotential)
	a.Float("fullExplosionPotential", &e.FullExplosionPotential)
	a.Float("emptyExplosionPotential", &e.EmptyExplosionPotential)
}

// ExplosionRating returns the blast-rating block when the variant carries
// one.
func ExplosionRating(p PartType) (*Explosive, bool) {
	r, ok := p.(interface{ Explosion() *Explosive })
	if !ok {
		return nil, false
	}
	return r.Explosion(), true
}

// SASBase adds attitude-control gains and torque.
type SASBase struct {
	BasePart
	Torque    float64
	MaxTorque float64
	Ki        float64
	Kd        float64
	Kp        float64
}

func (s *SASBase) bind(a *AttrSet) {
	s.BasePart.bind(a)
	a.Float("torque", &s.Torque)
	a.Float("maxTorque", &s.MaxTorque)
	a.Float("Ki", &s.Ki)
	a.Float("Kd", &s.Kd)
	a.Float("Kp", &s.Kp)
}

// CommandPod is a crewed controller with manual input authority.
type CommandPod struct {
	SASBase
	LinPower float64
	RotPower float64
}

func (c *CommandPod) bind(a *AttrSet) {
	c.SASBase.bind(a)
	a.Float("linPower", &c.LinPower)
	a.Float("rotPower", &c.RotPower)
}

type AdvSASModule struct{ SASBase }

type SASModule struct{ SASBase }

// FuelBase adds a consumable fuel load on top of the dry mass.
type FuelBase struct {
	BasePart
	Explosive
	Fuel    float64
	DryMass float64
}

func (f *FuelBase) bind(a *AttrSet) {
	f.BasePart.bind(a)
	f.Explosive.bind(a)
	a.Float("fuel", &f.Fuel)
	a.Float("dryMass", &f.DryMass)
}

type FuelTank struct{ FuelBase }

type RCSFuelTank struct{ FuelBase }

// Parachutes is a drag canopy with deployment thresholds.
type Parachutes struct {
	BasePart
	UseAGL               bool
	AutoDeployDelay      float64
	MinAirPressureToOpen float64
	DeployAltitude       float64
	ClosedDrag           float64
	SemiDeployedDrag     float64
	FullyDeployedDrag    float64
	StageOffset          int
}

func (p *Parachutes) bind(a *AttrSet) {
	p.BasePart.bind(a)
	a.Bool("useAGL", &p.UseAGL)
	a.Float("autoDeployDelay", &p.AutoDeployDelay)
	a.Float("minAirPressureToOpen", &p.MinAirPressureToOpen)
	a.Float("deployAltitude", &p.DeployAltitude)
	a.Float("closedDrag", &p.ClosedDrag)
	a.Float("semiDeployedDrag", &p.SemiDeployedDrag)
	a.Float("fullyDeployedDrag", &p.FullyDeployedDrag)
	a.Int("stageOffset", &p.StageOffset)
}

// DecouplerBase adds separation force and staging offsets.
type DecouplerBase struct {
	BasePart
	EjectionForce    float64
	ChildStageOffset int
	StageOffset      int
}

func (d *DecouplerBase) bind(a *AttrSet) {
	d.BasePart.bind(a)
	a.Float("ejectionForce", &d.EjectionForce)
	a.Int("childStageOffset", &d.ChildStageOffset)
	a.Int("stageOffset", &d.StageOffset)
}

type Decoupler struct{ DecouplerBase }

// RCSModule is a reaction-control thruster block.
type RCSModule struct {
	BasePart
	ThrustVector0   Vec
	ThrustVector1   Vec
	ThrustVector2   Vec
	ThrustVector3   Vec
	FuelConsumption float64
}

func (r *RCSModule) bind(a *AttrSet) {
	r.BasePart.bind(a)
	a.Vector("thrustVector0", &r.ThrustVector0)
	a.Vector("thrustVector1", &r.ThrustVector1)
	a.Vector("thrustVector2", &r.ThrustVector2)
	a.Vector("thrustVector3", &r.ThrustVector3)
	a.Float("fuelConsumption", &r.FuelConsumption)
}

// EngineBase marks the thrust-producing modules used by stage queries.
type EngineBase struct {
	BasePart
	HeatProduction         float64
	FuelConsumption        float64
	ThrustVectoringCapable bool
	GimbalRange            float64
}

func (e *EngineBase) IsEngine() bool { return true }

func (e *EngineBase) bind(a *AttrSet) {
	e.BasePart.bind(a)
	a.Float("heatProduction", &e.HeatProduction)
	a.Float("fuelConsumption", &e.FuelConsumption)
	a.Bool("thrustVectoringCapable", &e.ThrustVectoringCapable)
	a.Float("gimbalRange", &e.GimbalRange)
}

// SolidRocket burns a fixed internal fuel load at a fixed thrust.
type SolidRocket struct {
	EngineBase
	Explosive
	Thrust       float64
	DryMass      float64
	InternalFuel float64
	ThrustCenter Vec
	ThrustVector Vec
}

func (s *SolidRocket) bind(a *AttrSet) {
	s.EngineBase.bind(a)
	s.Explosive.bind(a)
	a.Float("thrust", &s.Thrust)
	a.Float("dryMass", &s.DryMass)
	a.Float("internalFuel", &s.InternalFuel)
	a.Point("thrustCenter", &s.ThrustCenter)
	a.Vector("thrustVector", &s.ThrustVector)
}

// LiquidEngine is a throttleable engine fed from tanks.
type LiquidEngine struct {
	EngineBase
	MaxThrust float64
	MinThrust float64
}

func (l *LiquidEngine) bind(a *AttrSet) {
	l.EngineBase.bind(a)
	a.Float("maxThrust", &l.MaxThrust)
	a.Float("minThrust", &l.MinThrust)
}

type LandingLeg struct {
	BasePart
	ExtensionTime float64
	RetractTime   float64
	PivotAxis     Vec
	PivotingAngle float64
}

func (l *LandingLeg) bind(a *AttrSet) {
	l.BasePart.bind(a)
	a.Float("extensionTime", &l.ExtensionTime)
	a.Float("retractTime", &l.RetractTime)
	a.Point("pivotAxis", &l.PivotAxis)
	a.Float("pivotingAngle", &l.PivotingAngle)
}

// ConnectorBase adds strength limits for parts that join two others.
type ConnectorBase struct {
	BasePart
	Explosive
	LinearStrength  float64
	AngularStrength float64
	MaxLength       float64
}

func (c *ConnectorBase) bind(a *AttrSet) {
	c.BasePart.bind(a)
	c.Explosive.bind(a)
	a.Float("linearStrength", &c.LinearStrength)
	a.Float("angularStrength", &c.AngularStrength)
	a.Float("maxLength", &c.MaxLength)
}

type StrutConnector struct{ ConnectorBase }

type FuelLine struct{ ConnectorBase }

// Strut is a rigid radial support that detaches with its stage.
type Strut struct {
	DecouplerBase
	StackSymmetry int
}

func (s *Strut) bind(a *AttrSet) {
	s.DecouplerBase.bind(a)
	a.Int("stackSymmetry", &s.StackSymmetry)
}

type RadialDecoupler struct{ Strut }

// ControlledDragBase adds lift and drag coefficients for steerable surfaces.
type ControlledDragBase struct {
	BasePart
	Explosive
	DragCoeff           float64
	DeflectionLiftCoeff float64
}

func (c *ControlledDragBase) bind(a *AttrSet) {
	c.BasePart.bind(a)
	c.Explosive.bind(a)
	a.Float("dragCoeff", &c.DragCoeff)
	a.Float("deflectionLiftCoeff", &c.DeflectionLiftCoeff)
}

type Winglet struct{ ControlledDragBase }

type ControlSurface struct {
	ControlledDragBase
	CtrlSurfaceRange float64
	CtrlSurfaceArea  float64
}

func (c *ControlSurface) bind(a *AttrSet) {
	c.ControlledDragBase.bind(a)
	a.Float("ctrlSurfaceRange", &c.CtrlSurfaceRange)
	a.Float("ctrlSurfaceArea", &c.CtrlSurfaceArea)
}

// partModules is the closed registry of module names a definition may
// instantiate.
var partModules = map[string]func() PartType{
	"Part":               func() PartType { return &BasePart{} },
	"SASBase":            func() PartType { return &SASBase{} },
	"CommandPod":         func() PartType { return &CommandPod{} },
	"AdvSASModule":       func() PartType { return &AdvSASModule{} },
	"SASModule":          func() PartType { return &SASModule{} },
	"FuelBase":           func() PartType { return &FuelBase{} },
	"FuelTank":           func() PartType { return &FuelTank{} },
	"RCSFuelTank":        func() PartType { return &RCSFuelTank{} },
	"Parachutes":         func() PartType { return &Parachutes{} },
	"DecouplerBase":      func() PartType { return &DecouplerBase{} },
	"Decoupler":          func() PartType { return &Decoupler{} },
	"RCSModule":          func() PartType { return &RCSModule{} },
	"EngineBase":         func() PartType { return &EngineBase{} },
	"SolidRocket":        func() PartType { return &SolidRocket{} },
	"LiquidEngine":       func() PartType { return &LiquidEngine{} },
	"LandingLeg":         func() PartType { return &LandingLeg{} },
	"ConnectorBase":      func() PartType { return &ConnectorBase{} },
	"StrutConnector":     func() PartType { return &StrutConnector{} },
	"FuelLine":           func() PartType { return &FuelLine{} },
	"Strut":              func() PartType { return &Strut{} },
	"RadialDecoupler":    func() PartType { return &RadialDecoupler{} },
	"ControlledDragBase": func() PartType { return &ControlledDragBase{} },
	"Winglet":            func() PartType { return &Winglet{} },
	"ControlSurface":     func() PartType { return &ControlSurface{} },
}

// NewPartType instantiates the variant registered under the module name and
// builds its attribute dispatch table.
func NewPartType(module string) (PartType, error) {
	ctor, ok := partModules[module]
	if !ok {
		return nil, &UnknownPartModuleError{Module: module}
	}
	p := ctor()
	base := p.Base()
	base.ModuleName = module
	base.NodeStack = make(map[string]Vec)
	base.Extra = make(map[string]string)
	base.attrs = newAttrSet()
	p.bind(base.attrs)
	return p, nil
}

// Modules returns the registered module names, sorted.
func Modules() []string {
	names := make([]string, 0, len(partModules))
	for name := range partModules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
