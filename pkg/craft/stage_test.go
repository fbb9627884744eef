package craft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enginePart(t *testing.T, mass float64) PartType {
	t.Helper()
	p := mustPartType(t, "LiquidEngine")
	p.Base().Name = "engine"
	p.Base().Mass = mass
	return p
}

func placed(s *Ship, id string, ptype PartType, istg, dstg int) *RealizedPart {
	rp := NewRealizedPart(s)
	rp.Type = ptype
	rp.ID = id
	rp.IgnitionStage = istg
	rp.DetachStage = dstg
	s.ByID[id] = rp
	return rp
}

// Two engines: A ignites at stage 0 and stays, B ignites at stage 1 and is
// jettisoned at stage 2.
func twoEngineShip(t *testing.T) (*Ship, *RealizedPart, *RealizedPart) {
	t.Helper()
	s := NewShip(nil)
	a := placed(s, "engineA", enginePart(t, 10), 0, -1)
	b := placed(s, "engineB", enginePart(t, 20), 1, 2)
	s.BuildStages()
	return s, a, b
}

func TestBuildStages_Count(t *testing.T) {
	s, _, _ := twoEngineShip(t)
	require.Len(t, s.Stages, 3)
	for ordinal, stage := range s.Stages {
		assert.Equal(t, ordinal, stage.Ordinal)
	}
}

func TestStageMass_CumulativeNeverSubtracts(t *testing.T) {
	s, _, _ := twoEngineShip(t)

	assert.Equal(t, 10.0, s.Stages[0].Mass())
	assert.Equal(t, 30.0, s.Stages[1].Mass())
	// engine B detaches at stage 2 but its mass stays counted
	assert.Equal(t, 30.0, s.Stages[2].Mass())
}

func TestAvailableThrusters(t *testing.T) {
	s, a, _ := twoEngineShip(t)

	// B ignites at 1 but detaches at 2, so it is never available: every
	// stage that sees its ignition also sees its detachment
	assert.Equal(t, []*RealizedPart{a}, s.Stages[0].AvailableThrusters())
	assert.Empty(t, s.Stages[1].AvailableThrusters())
	assert.Empty(t, s.Stages[2].AvailableThrusters())
}

// A detach ordinal equal to the queried ordinal means the engine is already
// gone; only an unset or earlier detach keeps it available.
func TestAvailableThrusters_DetachBoundary(t *testing.T) {
	s := NewShip(nil)
	gone := placed(s, "gone", enginePart(t, 1), 2, 2)
	kept := placed(s, "kept", enginePart(t, 1), 2, -1)
	s.BuildStages()

	require.Len(t, s.Stages, 3)
	avail := s.Stages[2].AvailableThrusters()
	assert.NotContains(t, avail, gone)
	assert.Equal(t, []*RealizedPart{kept}, avail)
}

func TestAvailableThrusters_EarlierDetachOrdinalKeeps(t *testing.T) {
	s := NewShip(nil)
	// detached at 1, so from stage 2's point of view the separation is in
	// the past and does not mask the (odd, but declarable) ignition at 2
	odd := placed(s, "odd", enginePart(t, 1), 2, 1)
	s.BuildStages()

	assert.Equal(t, []*RealizedPart{odd}, s.Stages[2].AvailableThrusters())
	assert.Empty(t, s.Stages[1].AvailableThrusters())
}

func TestAvailableThrusters_NonEnginesExcluded(t *testing.T) {
	s := NewShip(nil)
	tank := mustPartType(t, "FuelTank")
	tank.Base().Mass = 5
	placed(s, "tank", tank, 0, -1)
	engine := placed(s, "engine", enginePart(t, 2), 0, -1)
	s.BuildStages()

	assert.Equal(t, []*RealizedPart{engine}, s.Stages[0].AvailableThrusters())
	assert.Equal(t, 7.0, s.Stages[0].Mass())
}

func TestBuildStages_GapOrdinalsExistEmpty(t *testing.T) {
	s := NewShip(nil)
	placed(s, "a", enginePart(t, 1), 0, -1)
	placed(s, "b", enginePart(t, 1), 4, -1)
	s.BuildStages()

	require.Len(t, s.Stages, 5)
	for _, stage := range s.Stages[1:4] {
		assert.Empty(t, stage.Ignition)
		assert.Empty(t, stage.Detach)
	}
}

func TestBuildStages_DetachExtendsSequence(t *testing.T) {
	s := NewShip(nil)
	placed(s, "a", enginePart(t, 1), 0, 6)
	s.BuildStages()

	require.Len(t, s.Stages, 7)
	assert.Equal(t, []*RealizedPart{s.Parts[0]}, s.Stages[6].Detach)
}

func TestBuildStages_UnstagedPartsExcluded(t *testing.T) {
	s := NewShip(nil)
	placed(s, "strut", mustPartType(t, "StrutConnector"), -1, -1)
	s.BuildStages()

	assert.Empty(t, s.Stages)
}

func TestBuildStages_EmptyShip(t *testing.T) {
	s := NewShip(nil)
	s.BuildStages()
	assert.Empty(t, s.Stages)
}

func TestFinalize(t *testing.T) {
	diag := NewDiagnostics()
	s := NewShip(testCatalog(t))

	rp := NewRealizedPart(s)
	require.NoError(t, rp.Apply("part", "liquidEngine_1", diag))
	require.NoError(t, rp.Apply("istg", "0", diag))
	require.NoError(t, rp.Apply("sym", "liquidEngine_2", diag))

	other := NewRealizedPart(s)
	require.NoError(t, other.Apply("part", "liquidEngine_2", diag))
	require.NoError(t, other.Apply("istg", "0", diag))

	require.NoError(t, s.Finalize())

	require.Len(t, rp.Symmetry, 1)
	assert.Same(t, other, rp.Symmetry[0])
	require.Len(t, s.Stages, 1)
	assert.Len(t, s.Stages[0].Ignition, 2)
}

func TestFinalize_DanglingAbortsBeforeStaging(t *testing.T) {
	diag := NewDiagnostics()
	s := NewShip(testCatalog(t))
	rp := NewRealizedPart(s)
	require.NoError(t, rp.Apply("part", "liquidEngine_1", diag))
	require.NoError(t, rp.Apply("istg", "0", diag))
	require.NoError(t, rp.Apply("link", "ghost_1", diag))

	err := s.Finalize()
	var dangling *DanglingReferenceError
	require.ErrorAs(t, err, &dangling)
	assert.Empty(t, s.Stages)
}
