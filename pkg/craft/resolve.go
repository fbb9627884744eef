package craft

// Resolve links every pending identifier reference to its part through the
// ship's part-by-id index. Forward references are the normal case; nothing
// is linked until the whole assembly has been read. Pending identifiers are
// consumed as they link, so calling Resolve again is a no-op.
func (s *Ship) Resolve() error {
	for _, rp := range s.Parts {
		if err := rp.resolve(); err != nil {
			return err
		}
	}
	return nil
}

func (rp *RealizedPart) resolve() error {
	for location, id := range rp.pendingAttachments {
		target, ok := rp.ship.ByID[id]
		if !ok {
			return rp.dangling("attN", id)
		}
		rp.Attachments[location] = target
	}
	rp.pendingAttachments = nil

	surface, err := rp.resolveList("srfN", rp.pendingSurface)
	if err != nil {
		return err
	}
	rp.Surface = append(rp.Surface, surface...)
	rp.pendingSurface = nil

	symmetry, err := rp.resolveList("sym", rp.pendingSymmetry)
	if err != nil {
		return err
	}
	rp.Symmetry = append(rp.Symmetry, symmetry...)
	rp.pendingSymmetry = nil

	links, err := rp.resolveList("link", rp.pendingLinks)
	if err != nil {
		return err
	}
	rp.Links = append(rp.Links, links...)
	rp.pendingLinks = nil

	return nil
}

// resolveList links one pending identifier list, touching the resolved side
// only when every identifier matched.
func (rp *RealizedPart) resolveList(field string, ids []string) ([]*RealizedPart, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	out := make([]*RealizedPart, 0, len(ids))
	for _, id := range ids {
		target, ok := rp.ship.ByID[id]
		if !ok {
			return nil, rp.dangling(field, id)
		}
		out = append(out, target)
	}
	return out, nil
}

func (rp *RealizedPart) dangling(field, ref string) error {
	return &DanglingReferenceError{Ship: rp.ship.Name, PartID: rp.ID, Field: field, Ref: ref}
}
