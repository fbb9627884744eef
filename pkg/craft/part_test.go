package craft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPartType(t *testing.T, module string) PartType {
	t.Helper()
	p, err := NewPartType(module)
	require.NoError(t, err)
	return p
}

func TestPartApply_ExplicitKeys(t *testing.T) {
	diag := NewDiagnostics()
	p := mustPartType(t, "Part")

	pairs := map[string]string{
		"name":           "fuelTank",
		"author":         "Mu",
		"mass":           "2.5",
		"cost":           "800",
		"category":       "0",
		"crashTolerance": "6",
		"attachRules":    "1,1,1,1,0",
		"iconCenter":     "0, 1, 0",
		"fuelCrossFeed":  "True",
		"description":    "Has a striped variant.",
	}
	for key, value := range pairs {
		require.NoError(t, p.Apply(key, value, diag))
	}

	base := p.Base()
	assert.Equal(t, "fuelTank", base.Name)
	assert.Equal(t, "Mu", base.Author)
	assert.Equal(t, 2.5, base.Mass)
	assert.Equal(t, 800.0, base.Cost)
	assert.Equal(t, 0, base.Category)
	assert.Equal(t, 6.0, base.CrashTolerance)
	assert.Equal(t, []int{1, 1, 1, 1, 0}, base.AttachRules)
	assert.Equal(t, Vec{0, 1, 0}, base.IconCenter)
	assert.True(t, base.FuelCrossFeed)
	assert.Equal(t, "Has a striped variant.", base.Description)
	assert.Equal(t, 0, diag.Len())
}

func TestPartApply_NodeStackPrefix(t *testing.T) {
	diag := NewDiagnostics()
	p := mustPartType(t, "Part")

	require.NoError(t, p.Apply("node_stack_top", "0.0, 7.21461, 0.0, 0.0, 1.0, 0.0", diag))
	require.NoError(t, p.Apply("node_stack_bottom", "0.0, -7.27403, 0.0", diag))

	base := p.Base()
	require.Len(t, base.NodeStack, 2)
	assert.Equal(t, Vec{0, 7.21461, 0, 0, 1, 0}, base.NodeStack["top"])
	assert.Equal(t, Vec{0, -7.27403, 0}, base.NodeStack["bottom"])
	assert.Equal(t, 0, diag.Len())
}

func TestPartApply_IgnorablePrefixes(t *testing.T) {
	diag := NewDiagnostics()
	p := mustPartType(t, "Part")

	require.NoError(t, p.Apply("fx_exhaustFlame_blue", "0.0, -1.0, 0.0, running", diag))
	require.NoError(t, p.Apply("sound_vent_medium", "activate", diag))

	assert.Empty(t, p.Base().Extra)
	assert.Equal(t, 0, diag.Len())
}

func TestPartApply_UnknownKeyFallsBack(t *testing.T) {
	diag := NewDiagnostics()
	p := mustPartType(t, "Part")
	require.NoError(t, p.Apply("name", "probeCore", diag))

	require.NoError(t, p.Apply("vesselType", "Probe", diag))

	assert.Equal(t, "Probe", p.Base().Extra["vesselType"])
	recorded := diag.ByKey("vesselType")
	require.Len(t, recorded, 1)
	assert.Equal(t, "Probe", recorded[0].Value)
	assert.Equal(t, "<Part probeCore>", recorded[0].Entity)
}

func TestPartApply_MalformedValue(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"float field", "mass", "heavy"},
		{"int field", "category", "zero"},
		{"int list field", "attachRules", "1,x,1"},
		{"node stack field", "node_stack_top", "0.0, up, 0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diag := NewDiagnostics()
			p := mustPartType(t, "Part")

			err := p.Apply(tt.key, tt.value, diag)
			var malformed *MalformedValueError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.key, malformed.Key)
			assert.Equal(t, tt.value, malformed.Value)
			assert.NotEmpty(t, malformed.Entity)
		})
	}
}

func TestAttrSet_LaterRegistrationOverrides(t *testing.T) {
	a := newAttrSet()

	var asString string
	var asInt int
	a.Str("size", &asString)
	a.Int("size", &asInt)

	ok, err := a.set("size", "3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, asInt)
	assert.Empty(t, asString)
}

func TestAttrSet_UnregisteredKey(t *testing.T) {
	a := newAttrSet()
	ok, err := a.set("anything", "x")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, a.Has("anything"))
}
