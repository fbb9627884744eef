package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kspforge/shipwright/pkg/craft"
)

type catalogMap map[string]craft.PartType

func (c catalogMap) Lookup(name string) (craft.PartType, bool) {
	p, ok := c[name]
	return p, ok
}

func testCatalog(t *testing.T) catalogMap {
	t.Helper()
	p := newTestParser()
	catalog := catalogMap{}
	defs := map[string]string{
		"commandPod":   "module = CommandPod\nname = commandPod\nmass = 0.8\n",
		"fuelTank":     "module = FuelTank\nname = fuelTank\nmass = 2.5\n",
		"liquidEngine": "module = LiquidEngine\nname = liquidEngine\nmass = 1.25\nmaxThrust = 215\n",
		"decoupler":    "module = Decoupler\nname = decoupler\nmass = 0.8\n",
	}
	for input, text := range defs {
		part, err := p.LoadPartDefinition(input, text)
		require.NoError(t, err)
		catalog[part.Base().Name] = part
	}
	return catalog
}

const kerbalXCraft = `ship = Kerbal X
version = 0.18.2

{
part = commandPod_4294579380
pos = 0.0, 15.0, 0.0
rot = 0.0, 0.0, 0.0, 1.0
istg = 0
dstg = -1
sqor = -1
sidx = -1
attm = 0
attN0 = bottom, fuelTank_4294579252
}
{
part = fuelTank_4294579252
pos = 0.0, 13.2, 0.0
istg = 1
dstg = 1
attN0 = top, commandPod_4294579380
attN1 = bottom, decoupler_4294578930
sym = fuelTank_4294579252
}
{
part = decoupler_4294578930
pos = 0.0, 12.0, 0.0
istg = 1
dstg = 1
attN0 = top, fuelTank_4294579252
attN1 = bottom, liquidEngine_4294578166
}
{
part = liquidEngine_4294578166
pos = 0.0, 10.8, 0.0
istg = 0
dstg = 1
srfN0 = srfAttach, fuelTank_4294579252
link = fuelTank_4294579252
}
`

func TestLoadShip(t *testing.T) {
	p := newTestParser()

	ship, err := p.LoadShip(testCatalog(t), kerbalXCraft)
	require.NoError(t, err)

	assert.Equal(t, "Kerbal X", ship.Name)
	assert.Equal(t, "0.18.2", ship.Version)
	require.Len(t, ship.Parts, 4)

	pod := ship.ByID["commandPod_4294579380"]
	tank := ship.ByID["fuelTank_4294579252"]
	engine := ship.ByID["liquidEngine_4294578166"]
	require.NotNil(t, pod)
	require.NotNil(t, tank)
	require.NotNil(t, engine)

	assert.Equal(t, "CommandPod", pod.Type.Module())
	assert.Equal(t, craft.Vec{0, 15, 0}, pod.Pos)
	assert.Equal(t, 0, pod.IgnitionStage)
	assert.Equal(t, -1, pod.DetachStage)

	// the pod's attachment was declared before the tank existed
	assert.Same(t, tank, pod.Attachments["bottom"])
	assert.Same(t, pod, tank.Attachments["top"])
	require.Len(t, engine.Surface, 1)
	assert.Same(t, tank, engine.Surface[0])
	require.Len(t, engine.Links, 1)
	assert.Same(t, tank, engine.Links[0])

	// highest declared ordinal is 1, so the sequence is 0..1
	require.Len(t, ship.Stages, 2)
	assert.Len(t, ship.Stages[0].Ignition, 2)
	assert.Len(t, ship.Stages[1].Ignition, 2)
	assert.Len(t, ship.Stages[1].Detach, 3)

	assert.Equal(t, 0, p.Diagnostics().Len())
}

func TestLoadShip_StageQueries(t *testing.T) {
	p := newTestParser()

	ship, err := p.LoadShip(testCatalog(t), kerbalXCraft)
	require.NoError(t, err)

	// pod 0.8 + engine 1.25 ignite at stage 0; tank 2.5 + decoupler 0.8
	// ignite at stage 1
	assert.InDelta(t, 2.05, ship.Stages[0].Mass(), 1e-9)
	assert.InDelta(t, 5.35, ship.Stages[1].Mass(), 1e-9)

	// the only engine detaches at stage 1, so no stage keeps a thruster
	assert.Empty(t, ship.Stages[0].AvailableThrusters())
	assert.Empty(t, ship.Stages[1].AvailableThrusters())
}

func TestLoadShip_ScopeSwitching(t *testing.T) {
	p := newTestParser()

	text := "{\npart = fuelTank_1\n}\nship = After The Block\n"
	ship, err := p.LoadShip(testCatalog(t), text)
	require.NoError(t, err)

	assert.Equal(t, "After The Block", ship.Name)
	require.Len(t, ship.Parts, 1)
	assert.Equal(t, "fuelTank_1", ship.Parts[0].ID)
}

func TestLoadShip_UnknownPartType(t *testing.T) {
	p := newTestParser()

	text := "ship = Experimental\n{\npart = ionDrive_1\n}\n"
	_, err := p.LoadShip(testCatalog(t), text)
	var unknown *craft.UnknownPartTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Experimental", unknown.Ship)
	assert.Equal(t, "ionDrive", unknown.Name)
}

func TestLoadShip_DanglingReference(t *testing.T) {
	p := newTestParser()

	text := "ship = Wreck\n{\npart = fuelTank_1\nsym = fuelTank_2\n}\n"
	_, err := p.LoadShip(testCatalog(t), text)
	var dangling *craft.DanglingReferenceError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, "fuelTank_1", dangling.PartID)
	assert.Equal(t, "fuelTank_2", dangling.Ref)
}

func TestLoadShip_UnknownShipKeyRecorded(t *testing.T) {
	p := newTestParser()

	text := "ship = Oddity\ntype = VAB\n{\npart = fuelTank_1\nmir = mirror_refl_xz\n}\n"
	ship, err := p.LoadShip(testCatalog(t), text)
	require.NoError(t, err)

	assert.Equal(t, "VAB", ship.Extra["type"])
	assert.Equal(t, "mirror_refl_xz", ship.Parts[0].Extra["mir"])
	assert.ElementsMatch(t, []string{"type", "mir"}, p.Diagnostics().Keys())
}

func TestLoadShip_EmptyText(t *testing.T) {
	p := newTestParser()

	ship, err := p.LoadShip(testCatalog(t), "")
	require.NoError(t, err)
	assert.Empty(t, ship.Parts)
	assert.Empty(t, ship.Stages)
}
