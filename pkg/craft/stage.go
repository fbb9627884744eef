package craft

// Stage is one ordinal of the firing sequence: the parts ignited when the
// stage fires and the parts separated from the ship at the same moment.
type Stage struct {
	Ordinal  int
	Ignition []*RealizedPart
	Detach   []*RealizedPart

	ship *Ship
}

// Finalize resolves pending references and derives the stage sequence. Call
// it once the whole assembly has been read.
func (s *Ship) Finalize() error {
	if err := s.Resolve(); err != nil {
		return err
	}
	s.BuildStages()
	return nil
}

// BuildStages groups parts by ignition and detach ordinal into a dense
// stage sequence covering ordinal 0 through the highest ordinal any part
// declared. Stages no part mentions exist with empty lists; parts with
// negative ordinals stay out of the sequence entirely.
func (s *Ship) BuildStages() {
	ignition := make(map[int][]*RealizedPart)
	detach := make(map[int][]*RealizedPart)
	count := 0
	for _, rp := range s.Parts {
		if rp.IgnitionStage >= 0 {
			ignition[rp.IgnitionStage] = append(ignition[rp.IgnitionStage], rp)
			if rp.IgnitionStage+1 > count {
				count = rp.IgnitionStage + 1
			}
		}
		if rp.DetachStage >= 0 {
			detach[rp.DetachStage] = append(detach[rp.DetachStage], rp)
			if rp.DetachStage+1 > count {
				count = rp.DetachStage + 1
			}
		}
	}
	stages := make([]*Stage, 0, count)
	for ordinal := 0; ordinal < count; ordinal++ {
		stages = append(stages, &Stage{
			Ordinal:  ordinal,
			Ignition: ignition[ordinal],
			Detach:   detach[ordinal],
			ship:     s,
		})
	}
	s.Stages = stages
}

// Mass returns the combined catalog mass of every part ignited at this or
// any earlier ordinal. Mass is never subtracted for detached parts, so the
// value grows monotonically across the sequence.
func (st *Stage) Mass() float64 {
	var total float64
	for _, stage := range st.ship.Stages[:st.Ordinal+1] {
		for _, rp := range stage.Ignition {
			if rp.Type != nil {
				total += rp.Type.Base().Mass
			}
		}
	}
	return total
}

// AvailableThrusters returns the engines ignited at this or any later
// ordinal, excluding engines whose detach ordinal is also this or later. An
// engine detaching at the queried ordinal is already gone.
func (st *Stage) AvailableThrusters() []*RealizedPart {
	detached := make(map[*RealizedPart]bool)
	for _, stage := range st.ship.Stages[st.Ordinal:] {
		for _, rp := range stage.Detach {
			detached[rp] = true
		}
	}
	var engines []*RealizedPart
	for _, stage := range st.ship.Stages[st.Ordinal:] {
		for _, rp := range stage.Ignition {
			if rp.Type != nil && rp.Type.IsEngine() && !detached[rp] {
				engines = append(engines, rp)
			}
		}
	}
	return engines
}
