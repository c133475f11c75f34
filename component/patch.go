package component

// Patch is the difference between two component maps: keys whose value is
// new or changed in newForm, and keys present in prototype but absent from
// newForm. It is the only mechanism that drives client-visible updates.
type Patch struct {
	Added   map[Id]any
	Removed []Id
}

// IsEmpty reports whether the patch carries no changes.
func (p Patch) IsEmpty() bool {
	return len(p.Added) == 0 && len(p.Removed) == 0
}

// ComputePatch is linear in |prototype| + |newForm|. added lists keys whose
// newForm value is new-or-changed using concrete-type equality; removed
// lists keys dropped from prototype.
func ComputePatch(prototype, newForm *Map) Patch {
	added := make(map[Id]any)
	for id, e := range newForm.entries {
		old, ok := prototype.entries[id]
		if !ok || !old.equal(e) {
			added[id] = e.value
		}
	}

	var removed []Id
	for id := range prototype.entries {
		if _, ok := newForm.entries[id]; !ok {
			removed = append(removed, id)
		}
	}

	return Patch{Added: added, Removed: removed}
}

// ApplyTo returns a new Map built by applying p's added and removed keys to
// base. Patch idempotence: ApplyTo(ComputePatch(A,B), A) == B.
func (p Patch) ApplyTo(base *Map) *Map {
	out := base.Clone()
	for id, v := range p.Added {
		out.entries[id] = entry{value: v, typ: typeOfAny(v)}
	}
	for _, id := range p.Removed {
		out.Remove(id)
	}
	return out
}
