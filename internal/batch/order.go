package batch

import "sort"

// OrderForSnapshot returns a copy of edits ordered for submission against a
// single snapshot: highest start first, so no edit shifts the indices of an
// edit applied after it. At equal starts, range edits precede inserts so an
// insertion is never deleted or restyled by its neighbour.
func OrderForSnapshot(edits []Edit) []Edit {
	ordered := make([]Edit, len(edits))
	copy(ordered, edits)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Range.Start != b.Range.Start {
			return a.Range.Start > b.Range.Start
		}
		return a.Kind != KindInsert && b.Kind == KindInsert
	})
	return ordered
}
