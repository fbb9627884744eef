package craft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPartType_EveryRegisteredModule(t *testing.T) {
	for _, module := range Modules() {
		t.Run(module, func(t *testing.T) {
			p, err := NewPartType(module)
			require.NoError(t, err)
			assert.Equal(t, module, p.Module())
			require.NotNil(t, p.Base())
			assert.NotNil(t, p.Base().NodeStack)
			assert.NotNil(t, p.Base().Extra)
		})
	}
}

func TestNewPartType_UnknownModule(t *testing.T) {
	_, err := NewPartType("WarpDrive")
	var unknown *UnknownPartModuleError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "WarpDrive", unknown.Module)
}

func TestIsEngine(t *testing.T) {
	tests := []struct {
		module string
		want   bool
	}{
		{"Part", false},
		{"CommandPod", false},
		{"FuelTank", false},
		{"Decoupler", false},
		{"Parachutes", false},
		{"StrutConnector", false},
		{"Winglet", false},
		{"RCSModule", false},
		{"EngineBase", true},
		{"SolidRocket", true},
		{"LiquidEngine", true},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			assert.Equal(t, tt.want, mustPartType(t, tt.module).IsEngine())
		})
	}
}

func TestExplosionRating(t *testing.T) {
	withRating := []string{"FuelTank", "RCSFuelTank", "SolidRocket", "StrutConnector", "FuelLine", "Winglet", "ControlSurface"}
	for _, module := range withRating {
		t.Run(module, func(t *testing.T) {
			p := mustPartType(t, module)
			rating, ok := ExplosionRating(p)
			require.True(t, ok)
			require.NotNil(t, rating)

			diag := NewDiagnostics()
			require.NoError(t, p.Apply("explosionPotential", "0.5", diag))
			assert.Equal(t, 0.5, rating.ExplosionPotential)
		})
	}

	withoutRating := []string{"Part", "CommandPod", "LiquidEngine", "Decoupler", "LandingLeg", "Parachutes"}
	for _, module := range withoutRating {
		t.Run(module, func(t *testing.T) {
			_, ok := ExplosionRating(mustPartType(t, module))
			assert.False(t, ok)
		})
	}
}

func TestVariantDispatch_InheritedAndOwnKeys(t *testing.T) {
	diag := NewDiagnostics()

	t.Run("liquid engine", func(t *testing.T) {
		p := mustPartType(t, "LiquidEngine")
		require.NoError(t, p.Apply("name", "liquidEngine1", diag))
		require.NoError(t, p.Apply("mass", "1.5", diag))
		require.NoError(t, p.Apply("maxThrust", "215", diag))
		require.NoError(t, p.Apply("thrustVectoringCapable", "true", diag))
		require.NoError(t, p.Apply("gimbalRange", "0.5", diag))

		engine := p.(*LiquidEngine)
		assert.Equal(t, 1.5, engine.Mass)
		assert.Equal(t, 215.0, engine.MaxThrust)
		assert.True(t, engine.ThrustVectoringCapable)
		assert.Equal(t, 0.5, engine.GimbalRange)
	})

	t.Run("command pod", func(t *testing.T) {
		p := mustPartType(t, "CommandPod")
		require.NoError(t, p.Apply("Kp", "1.0", diag))
		require.NoError(t, p.Apply("torque", "10", diag))
		require.NoError(t, p.Apply("rotPower", "5", diag))

		pod := p.(*CommandPod)
		assert.Equal(t, 1.0, pod.Kp)
		assert.Equal(t, 10.0, pod.Torque)
		assert.Equal(t, 5.0, pod.RotPower)
	})

	t.Run("solid rocket", func(t *testing.T) {
		p := mustPartType(t, "SolidRocket")
		require.NoError(t, p.Apply("thrust", "250", diag))
		require.NoError(t, p.Apply("internalFuel", "100", diag))
		require.NoError(t, p.Apply("thrustVector", "0, 1, 0", diag))
		require.NoError(t, p.Apply("heatProduction", "550", diag))

		srb := p.(*SolidRocket)
		assert.Equal(t, 250.0, srb.Thrust)
		assert.Equal(t, 100.0, srb.InternalFuel)
		assert.Equal(t, Vec{0, 1, 0}, srb.ThrustVector)
		assert.Equal(t, 550.0, srb.HeatProduction)
	})

	t.Run("parachute", func(t *testing.T) {
		p := mustPartType(t, "Parachutes")
		require.NoError(t, p.Apply("useAGL", "1", diag))
		require.NoError(t, p.Apply("deployAltitude", "500", diag))
		require.NoError(t, p.Apply("stageOffset", "-1", diag))

		chute := p.(*Parachutes)
		assert.True(t, chute.UseAGL)
		assert.Equal(t, 500.0, chute.DeployAltitude)
		assert.Equal(t, -1, chute.StageOffset)
	})

	t.Run("radial decoupler inherits strut and decoupler keys", func(t *testing.T) {
		p := mustPartType(t, "RadialDecoupler")
		require.NoError(t, p.Apply("ejectionForce", "20", diag))
		require.NoError(t, p.Apply("stackSymmetry", "3", diag))

		rad := p.(*RadialDecoupler)
		assert.Equal(t, 20.0, rad.EjectionForce)
		assert.Equal(t, 3, rad.StackSymmetry)
	})

	// a variant-specific key on a variant that does not declare it falls
	// through to the raw fallback instead of dispatching
	t.Run("foreign key falls back", func(t *testing.T) {
		p := mustPartType(t, "FuelTank")
		require.NoError(t, p.Apply("maxThrust", "215", diag))
		assert.Equal(t, "215", p.Base().Extra["maxThrust"])
		assert.NotEmpty(t, diag.ByKey("maxThrust"))
	})

	assert.Equal(t, 1, diag.Len())
}

func TestVariantString(t *testing.T) {
	p := mustPartType(t, "LiquidEngine")
	p.Base().Name = "liquidEngine2"
	assert.Equal(t, "<LiquidEngine liquidEngine2>", p.String())
}
