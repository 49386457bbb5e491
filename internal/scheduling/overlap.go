package scheduling

// FindConflict returns the first entry of existing that overlaps candidate.
// existing must already be scoped to the candidate's academy, professor and
// period, and exclude soft-deleted rows and the row being replaced.
func FindConflict[S Slotted](candidate Slot, existing []S) (S, bool) {
	for _, item := range existing {
		if candidate.Overlaps(item.WeeklySlot()) {
			return item, true
		}
	}
	var zero S
	return zero, false
}

// FindInternalOverlap reports the first pair of indexes in slots that overlap each other.
func FindInternalOverlap(slots []Slot) (int, int, bool) {
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			if slots[i].Overlaps(slots[j]) {
				return i, j, true
			}
		}
	}
	return -1, -1, false
}
