package main

import (
	"github.com/kspforge/shipwright/internal/catalog"
	"github.com/kspforge/shipwright/internal/scan"
)

// Built-in data for the demo command: a small stock-style part catalog and
// two ships assembled from it, so the whole pipeline can run without a game
// install on disk. A few definition keys are deliberately outside the known
// set to put something in the skipped-keys report.
var demoParts = []catalog.Input{
	{Name: "mk1pod", Text: mk1podCfg},
	{Name: "parachuteSingle", Text: parachuteSingleCfg},
	{Name: "fuelTank", Text: fuelTankCfg},
	{Name: "liquidEngine", Text: liquidEngineCfg},
	{Name: "solidBooster", Text: solidBoosterCfg},
	{Name: "stackDecoupler", Text: stackDecouplerCfg},
	{Name: "radialDecoupler", Text: radialDecouplerCfg},
	{Name: "stdWinglet", Text: stdWingletCfg},
}

var demoShips = []scan.File{
	{Name: "Kerbal X1.craft", Text: kerbalX1Craft},
	{Name: "Suborbital Dart.craft", Text: suborbitalDartCraft},
}

const mk1podCfg = `// Mk1 Command Pod
module = CommandPod
name = mk1pod
author = NovaSilisko
mesh = model.mu
scale = 1
rescaleFactor = 1.25
node_stack_bottom = 0.0, -0.65, 0.0, 0.0, -1.0, 0.0
node_stack_top = 0.0, 0.6, 0.0, 0.0, 1.0, 0.0
CrewCapacity = 1
cost = 600
category = 0
subcategory = 0
title = Command Pod Mk1
manufacturer = Kerlington Model Rockets and Paper Products Inc
description = A one-kerbal pod rated for moderately dangerous descents.
attachRules = 1,0,1,1,0
mass = 0.8
dragModelType = default
maximum_drag = 0.2
minimum_drag = 0.15
angularDrag = 2
crashTolerance = 14
maxTemp = 3400
rotPower = 5
linPower = 5
Kp = 1.0
Kd = 1.0
Ki = 0.5
maxTorque = 10
`

const parachuteSingleCfg = `// Mk16 Parachute
module = Parachutes
name = parachuteSingle
author = HarvesteR
mesh = model.mu
scale = 1
node_stack_bottom = 0.0, -0.07, 0.0, 0.0, -1.0, 0.0
cost = 422
category = 3
subcategory = 0
title = Mk16 Parachute
manufacturer = Found lying by the side of the road
description = Deploys a drag canopy for the last leg of a descent.
attachRules = 1,0,0,1,0
mass = 0.1
angularDrag = 3
crashTolerance = 12
maxTemp = 3100
useAGL = true
autoDeployDelay = 0.5
minAirPressureToOpen = 0.01
deployAltitude = 500
closedDrag = 0.22
semiDeployedDrag = 1
fullyDeployedDrag = 500
stageOffset = -1
`

const fuelTankCfg = `// FL-T400 Fuel Tank
module = FuelTank
name = fuelTank
author = HarvesteR
mesh = model.mu
scale = 0.1
node_stack_top = 0.0, 7.21461, 0.0, 0.0, 1.0, 0.0
node_stack_bottom = 0.0, -7.27403, 0.0, 0.0, -1.0, 0.0
cost = 850
category = 1
subcategory = 0
title = FL-T400 Fuel Tank
manufacturer = Jebediah Kerman's Junkyard and Spaceship Parts Co
description = A small tank of liquid fuel and oxidizer.
attachRules = 1,1,1,1,0
mass = 2.5
dryMass = 0.3
fuel = 200
fuelCrossFeed = true
dragModelType = default
maximum_drag = 0.3
minimum_drag = 0.2
angularDrag = 2
crashTolerance = 6
maxTemp = 2900
fullExplosionPotential = 0.9
emptyExplosionPotential = 0.1
`

const liquidEngineCfg = `// LV-T45 Liquid Fuel Engine
module = LiquidEngine
name = liquidEngine
author = NovaSilisko
mesh = model.mu
scale = 0.1
node_stack_top = 0.0, 8.10694, 0.0, 0.0, 1.0, 0.0
node_stack_bottom = 0.0, -6.35968, 0.0, 0.0, -1.0, 0.0
fx_exhaustFlame_blue = 0.0, -5.3, 0.0, 0.0, 1.0, 0.0, active
fx_exhaustLight_blue = 0.0, -5.3, 0.0, 0.0, 0.0, 1.0, active
sound_vent_medium = engage
sound_rocket_hard = active
sound_vent_soft = disengage
cost = 950
category = 0
subcategory = 0
title = LV-T45 Liquid Fuel Engine
manufacturer = Jebediah Kerman's Junkyard and Spaceship Parts Co
description = A dependable engine with thrust vectoring.
attachRules = 1,1,1,0,0
mass = 1.5
dragModelType = default
maximum_drag = 0.2
minimum_drag = 0.2
angularDrag = 2
crashTolerance = 7
maxTemp = 3600
maxThrust = 200
minThrust = 0
heatProduction = 440
fuelConsumption = 6.6
thrustVectoringCapable = true
gimbalRange = 1.0
`

const solidBoosterCfg = `// RT-10 Solid Fuel Booster
module = SolidRocket
name = solidBooster
author = NovaSilisko
mesh = model.mu
scale = 0.1
node_stack_top = 0.0, 7.50664, 0.0, 0.0, 1.0, 0.0
node_stack_bottom = 0.0, -9.80665, 0.0, 0.0, -1.0, 0.0
fx_exhaustFlame_yellow = 0.0, -9.8, 0.0, 0.0, 1.0, 0.0, active
sound_rocket_hard = active
cost = 450
category = 0
subcategory = 0
title = RT-10 Solid Fuel Booster
manufacturer = Jebediah Kerman's Junkyard and Spaceship Parts Co
description = Cheap thrust. There is no off switch.
attachRules = 1,1,1,1,0
mass = 1.8
dryMass = 0.36
dragModelType = default
maximum_drag = 0.3
minimum_drag = 0.2
angularDrag = 2
crashTolerance = 7
maxTemp = 3600
thrust = 250
internalFuel = 100
fuelConsumption = 4
heatProduction = 550
thrustCenter = 0.0, -0.5, 0.0
thrustVector = 0.0, 1.0, 0.0
fullExplosionPotential = 0.8
emptyExplosionPotential = 0.1
`

const stackDecouplerCfg = `// TR-18A Stack Decoupler
module = Decoupler
name = stackDecoupler
author = NovaSilisko
mesh = model.mu
scale = 0.1
node_stack_top = 0.0, 0.470637, 0.0, 0.0, 1.0, 0.0
node_stack_bottom = 0.0, -0.470637, 0.0, 0.0, -1.0, 0.0
stagingIcon = DECOUPLER_VERT
cost = 975
category = 3
subcategory = 0
title = TR-18A Stack Decoupler
manufacturer = O.M.B. Demolition Enterprises
description = Pushes the spent stage away with a measured shove.
attachRules = 1,0,1,1,0
mass = 0.8
dragModelType = default
maximum_drag = 0.2
minimum_drag = 0.2
angularDrag = 2
crashTolerance = 9
maxTemp = 3400
ejectionForce = 250
stageOffset = 1
childStageOffset = -1
`

const radialDecouplerCfg = `// TT-70 Radial Decoupler
module = RadialDecoupler
name = radialDecoupler
author = NovaSilisko
mesh = model.mu
scale = 0.1
node_attach = 0.0, 0.0, -0.3, 0.0, 0.0, 1.0
stagingIcon = DECOUPLER_HOR
cost = 700
category = 3
subcategory = 0
title = TT-70 Radial Decoupler
manufacturer = O.M.B. Demolition Enterprises
description = Flings whatever is bolted to it away from the stack.
attachRules = 0,1,0,0,1
mass = 0.4
dragModelType = default
maximum_drag = 0.2
minimum_drag = 0.2
angularDrag = 2
crashTolerance = 8
maxTemp = 3200
ejectionForce = 150
stageOffset = 1
childStageOffset = -1
stackSymmetry = 3
`

const stdWingletCfg = `// AV-T1 Winglet
module = Winglet
name = stdWinglet
author = HarvesteR
mesh = model.mu
scale = 0.1
node_attach = 0.0, 0.0, 0.0, 0.0, 0.0, 1.0
cost = 500
category = 2
subcategory = 0
title = AV-T1 Winglet
manufacturer = Kerlington Model Rockets and Paper Products Inc
description = A fixed fin that keeps the pointy end forward.
attachRules = 0,1,0,1,1
mass = 0.05
dragModelType = override
maximum_drag = 0.6
minimum_drag = 0.3
angularDrag = 2
crashTolerance = 12
maxTemp = 3400
dragCoeff = 0.6
deflectionLiftCoeff = 0.5
explosionPotential = 0.1
`

// kerbalX1Craft is a three-stage rocket: two radially mounted boosters fire
// at liftoff, the core engine carries on after they separate, and the
// parachute is the final stage. Attachment references run forward and
// backward through the file.
const kerbalX1Craft = `ship = Kerbal X1
version = 0.24.2
type = VAB

{
part = mk1pod_4294404988
pos = 0.0, 15.0, 0.0
rot = 0.0, 0.0, 0.0
istg = -1
dstg = -1
sidx = -1
sqor = -1
attm = 0
attN = bottom, fuelTank_4294402942
}
{
part = parachuteSingle_4294404712
pos = 0.0, 15.7, 0.0
rot = 0.0, 0.0, 0.0
istg = 0
dstg = -1
sidx = 0
sqor = 0
attm = 0
attN = bottom, mk1pod_4294404988
}
{
part = fuelTank_4294402942
pos = 0.0, 13.2, 0.0
rot = 0.0, 0.0, 0.0
istg = -1
dstg = -1
sidx = -1
sqor = -1
attm = 0
attN = top, mk1pod_4294404988
attN = bottom, liquidEngine_4294401478
link = liquidEngine_4294401478
}
{
part = liquidEngine_4294401478
pos = 0.0, 11.9, 0.0
rot = 0.0, 0.0, 0.0
istg = 1
dstg = -1
sidx = 1
sqor = 0
attm = 0
attN = top, fuelTank_4294402942
}
{
part = radialDecoupler_4294400824
pos = -1.3, 13.4, 0.0
rot = 0.0, 0.0, 0.0
istg = 2
dstg = 2
sidx = 2
sqor = 0
attm = 1
srfN = srfAttach, fuelTank_4294402942
sym = radialDecoupler_4294400770
}
{
part = radialDecoupler_4294400770
pos = 1.3, 13.4, 0.0
rot = 0.0, 180.0, 0.0
istg = 2
dstg = 2
sidx = 2
sqor = 1
attm = 1
srfN = srfAttach, fuelTank_4294402942
sym = radialDecoupler_4294400824
}
{
part = solidBooster_4294400656
pos = -1.6, 12.7, 0.0
rot = 0.0, 0.0, 0.0
istg = 2
dstg = 2
sidx = 3
sqor = 0
attm = 1
srfN = srfAttach, radialDecoupler_4294400824
sym = solidBooster_4294400602
}
{
part = solidBooster_4294400602
pos = 1.6, 12.7, 0.0
rot = 0.0, 180.0, 0.0
istg = 2
dstg = 2
sidx = 3
sqor = 1
attm = 1
srfN = srfAttach, radialDecoupler_4294400770
sym = solidBooster_4294400656
}
{
part = stdWinglet_4294399988
pos = -1.1, 12.3, 0.0
rot = 0.0, 0.0, 0.0
istg = -1
dstg = -1
sidx = -1
sqor = -1
attm = 1
srfN = srfAttach, fuelTank_4294402942
sym = stdWinglet_4294399874
}
{
part = stdWinglet_4294399874
pos = 1.1, 12.3, 0.0
rot = 0.0, 180.0, 0.0
istg = -1
dstg = -1
sidx = -1
sqor = -1
attm = 1
srfN = srfAttach, fuelTank_4294402942
sym = stdWinglet_4294399988
}
`

// suborbitalDartCraft is a minimal stack: pod, decoupler, one booster. The
// booster ignites at liftoff and leaves with the decoupler one stage later.
const suborbitalDartCraft = `ship = Suborbital Dart
version = 0.24.2
type = VAB

{
part = mk1pod_4294755610
pos = 0.0, 14.0, 0.0
rot = 0.0, 0.0, 0.0
istg = -1
dstg = -1
attm = 0
attN = bottom, stackDecoupler_4294755442
}
{
part = parachuteSingle_4294755386
pos = 0.0, 14.7, 0.0
rot = 0.0, 0.0, 0.0
istg = 0
dstg = -1
attm = 0
attN = bottom, mk1pod_4294755610
}
{
part = stackDecoupler_4294755442
pos = 0.0, 13.4, 0.0
rot = 0.0, 0.0, 0.0
istg = 1
dstg = 1
attm = 0
attN = top, mk1pod_4294755610
attN = bottom, solidBooster_4294755555
}
{
part = solidBooster_4294755555
pos = 0.0, 12.5, 0.0
rot = 0.0, 0.0, 0.0
istg = 2
dstg = 1
attm = 0
attN = top, stackDecoupler_4294755442
}
`
