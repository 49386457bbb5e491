package scheduling

// Stored is a persisted slot identified by ID.
type Stored struct {
	ID   string
	Slot Slot
}

// Desired is a requested slot. ID is set when the caller edits a known row.
type Desired struct {
	ID   string
	Slot Slot
}

// Update pairs a stored row with its new shape.
type Update struct {
	ID   string
	From Slot
	To   Slot
}

// Plan is the minimal set of writes turning stored into desired.
type Plan struct {
	Delete []Stored
	Update []Update
	Create []Slot
	Keep   []Stored
}

// Empty reports whether the plan performs no writes.
func (p Plan) Empty() bool {
	return len(p.Delete) == 0 && len(p.Update) == 0 && len(p.Create) == 0
}

// Diff partitions stored rows against the desired set.
//
// Desired entries carrying a known ID update that row when its shape changed.
// Entries without ID first match an unclaimed stored row with the same shape
// (kept as is), then reuse any remaining unclaimed row (updated), and only
// then become creates. Unclaimed stored rows are deleted. Running Diff with
// the output of a previous run yields an empty plan.
func Diff(stored []Stored, desired []Desired) Plan {
	var plan Plan
	claimed := make(map[string]bool, len(stored))
	byID := make(map[string]Stored, len(stored))
	for _, s := range stored {
		byID[s.ID] = s
	}

	var pending []Slot
	for _, d := range desired {
		if d.ID == "" {
			pending = append(pending, d.Slot)
			continue
		}
		s, ok := byID[d.ID]
		if !ok || claimed[d.ID] {
			pending = append(pending, d.Slot)
			continue
		}
		claimed[d.ID] = true
		if s.Slot == d.Slot {
			plan.Keep = append(plan.Keep, s)
		} else {
			plan.Update = append(plan.Update, Update{ID: s.ID, From: s.Slot, To: d.Slot})
		}
	}

	var unmatched []Slot
	for _, slot := range pending {
		found := false
		for _, s := range stored {
			if claimed[s.ID] || s.Slot != slot {
				continue
			}
			claimed[s.ID] = true
			plan.Keep = append(plan.Keep, s)
			found = true
			break
		}
		if !found {
			unmatched = append(unmatched, slot)
		}
	}

	// Rows whose shape vanished are recycled for leftover requests on the same
	// day before falling back to delete + create.
	for _, slot := range unmatched {
		reused := false
		for _, s := range stored {
			if claimed[s.ID] || s.Slot.Day != slot.Day {
				continue
			}
			claimed[s.ID] = true
			plan.Update = append(plan.Update, Update{ID: s.ID, From: s.Slot, To: slot})
			reused = true
			break
		}
		if !reused {
			plan.Create = append(plan.Create, slot)
		}
	}

	for _, s := range stored {
		if !claimed[s.ID] {
			plan.Delete = append(plan.Delete, s)
		}
	}
	return plan
}

// DiffDates splits stored and desired session dates into deletes and inserts.
func DiffDates(stored, desired []Date) (toDelete, toInsert []Date) {
	want := make(map[Date]struct{}, len(desired))
	for _, d := range desired {
		want[d] = struct{}{}
	}
	have := make(map[Date]struct{}, len(stored))
	for _, d := range stored {
		have[d] = struct{}{}
		if _, ok := want[d]; !ok {
			toDelete = append(toDelete, d)
		}
	}
	for _, d := range SortDates(desired) {
		if _, ok := have[d]; !ok {
			toInsert = append(toInsert, d)
		}
	}
	return toDelete, toInsert
}
